package model

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// 商品成色常量 (各平台统一后的词表)
const (
	ConditionNew         = "New"
	ConditionUsed        = "Used"
	ConditionRefurbished = "Refurbished"
)

// 订单履约状态常量
const (
	FulfillmentUnshipped = "unshipped"
	FulfillmentPartial   = "partial"
	FulfillmentShipped   = "shipped"
	FulfillmentDelivered = "delivered"
	FulfillmentCancelled = "cancelled"
)

// CanonicalProduct 统一商品模型（跨平台通用交换格式）
// 所有 adapter 的读写都以它为唯一中间表示，平台字段差异在 transform 层吸收
type CanonicalProduct struct {
	SKU         string            `json:"sku"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Brand       string            `json:"brand"`
	Price       decimal.Decimal   `json:"price"`
	Currency    string            `json:"currency"`
	Quantity    int               `json:"quantity"`
	Condition   string            `json:"condition"`
	Images      []string          `json:"images"`
	Attributes  map[string]string `json:"attributes,omitempty"`

	// 平台侧回填字段（只读）
	RemoteID string `json:"remote_id,omitempty"` // 平台侧主键 (listingId / offerId / productId ...)
	Status   string `json:"status,omitempty"`    // active / pending / draft ...
}

// Validate 写操作前的本地校验，不发任何网络请求
func (p *CanonicalProduct) Validate() error {
	if p.SKU == "" {
		return errors.New("sku 不能为空")
	}
	if p.Price.IsNegative() {
		return errors.New("price 不能为负数")
	}
	return nil
}

// Normalize 补齐缺省值：quantity 缺失保持 0，condition 缺失视为全新
func (p *CanonicalProduct) Normalize(defaultCurrency string) {
	if p.Condition == "" {
		p.Condition = ConditionNew
	}
	if p.Currency == "" {
		p.Currency = defaultCurrency
	}
	if p.Quantity < 0 {
		p.Quantity = 0
	}
}

// CanonicalOrderItem 订单行
type CanonicalOrderItem struct {
	SKU      string          `json:"sku"`
	Title    string          `json:"title"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

// CanonicalOrder 统一订单模型
// adapter 视角下订单只读，履约更新走 UpdateOrderFulfillment 子操作，不做整单修改
type CanonicalOrder struct {
	ID                string               `json:"id"`
	OrderNumber       string               `json:"order_number"`
	Status            string               `json:"status"`
	FulfillmentStatus string               `json:"fulfillment_status"`
	TotalAmount       decimal.Decimal      `json:"total_amount"`
	Currency          string               `json:"currency"`
	CustomerEmail     string               `json:"customer_email,omitempty"`
	Items             []CanonicalOrderItem `json:"items"`
	CreatedAt         time.Time            `json:"created_at"`
	UpdatedAt         time.Time            `json:"updated_at"`
}

// CanonicalInventoryRecord 统一库存模型
// Reserved / Location 为可选能力，不支持的平台必须显式返回 unsupported，不允许静默成功
type CanonicalInventoryRecord struct {
	SKU      string `json:"sku"`
	Quantity int    `json:"quantity"`
	Reserved int    `json:"reserved,omitempty"`
	Location string `json:"location,omitempty"`
}

// Validate 库存写前校验
func (r *CanonicalInventoryRecord) Validate() error {
	if r.SKU == "" {
		return errors.New("sku 不能为空")
	}
	if r.Quantity < 0 {
		return errors.New("quantity 不能为负数")
	}
	return nil
}

// CanonicalFulfillment 履约更新载荷
type CanonicalFulfillment struct {
	TrackingNumber string     `json:"tracking_number"`
	Carrier        string     `json:"carrier"`
	Status         string     `json:"status"`
	ShippedAt      *time.Time `json:"shipped_at,omitempty"`
}
