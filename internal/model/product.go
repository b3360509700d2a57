package model

import (
	"encoding/json"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// 同步状态常量
const (
	SyncStatusSynced  = 0 // 已同步
	SyncStatusPending = 1 // 待推送
	SyncStatusFailed  = 2 // 推送失败
)

// Product 本地商品主数据
// 同步层只读它来组装 CanonicalProduct，不直接操作任何平台专属 schema
type Product struct {
	BaseModel
	AccountID  int64        `gorm:"uniqueIndex:idx_account_sku;index:idx_account_state;not null"` // 多账号隔离核心
	Account    *SyncAccount `gorm:"foreignKey:AccountID"`
	SKU        string       `gorm:"size:100;uniqueIndex:idx_account_sku;index"` // 账号内唯一，跨账号可重复
	SyncStatus int          `gorm:"default:1;index"`

	// --- 平台侧回填身份 ---
	RemoteID string `gorm:"size:100;index"` // 平台侧主键 (feedId 回执前为空)
	State    string `gorm:"size:20;index:idx_account_state"`

	// --- 商品基本信息 ---
	Title       string `gorm:"size:255"`
	Description string `gorm:"type:text"`
	Brand       string `gorm:"size:100"`
	Condition   string `gorm:"size:20;default:'New'"`

	// --- 价格与数量 ---
	PriceAmount  decimal.Decimal `gorm:"type:decimal(12,2)"`
	CurrencyCode string          `gorm:"size:5;index"`
	Quantity     int             `gorm:"default:0"`

	// --- 图片与属性 ---
	Images     pq.StringArray `gorm:"type:text[]"`
	Attributes datatypes.JSON `gorm:"type:jsonb"` // {"color":"red","size":"M"}

	// --- 同步记录 ---
	LastError string `gorm:"type:text"` // 最近一次推送失败原因
}

func (Product) TableName() string {
	return "products"
}

// ToCanonical 组装统一商品模型（持久层 -> 同步层的唯一出口）
func (p *Product) ToCanonical() CanonicalProduct {
	attrs := map[string]string{}
	if len(p.Attributes) > 0 {
		// 解析失败时保持空 map，不阻断同步
		_ = json.Unmarshal(p.Attributes, &attrs)
	}
	return CanonicalProduct{
		SKU:         p.SKU,
		Title:       p.Title,
		Description: p.Description,
		Brand:       p.Brand,
		Price:       p.PriceAmount,
		Currency:    p.CurrencyCode,
		Quantity:    p.Quantity,
		Condition:   p.Condition,
		Images:      []string(p.Images),
		Attributes:  attrs,
		RemoteID:    p.RemoteID,
		Status:      p.State,
	}
}
