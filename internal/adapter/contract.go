package adapter

import (
	"context"

	"marketsync_v1_202608/internal/model"
)

// Filters 列表查询过滤条件（键值对，顺序无关）
type Filters map[string]string

// Requirement 凭证表单字段描述：字段名与必填属性是 adapter 对外契约的一部分
type Requirement struct {
	Name       string `json:"name"`
	Label      string `json:"label"`
	Required   bool   `json:"required"`
	Validation string `json:"validation,omitempty"` // 给运营看的校验提示
	Default    string `json:"default,omitempty"`
}

// MarketplaceAdapter 平台适配器统一契约
// 所有方法必须实现：平台能力缺失时返回结构化 unsupported 结果，
// 而不是缺方法或抛异常（能力探测靠返回值，不靠反射）
type MarketplaceAdapter interface {
	// Name 平台标识 (amazon / ebay / trendyol / shopify)
	Name() string

	// ValidateConfiguration 纯本地配置校验，不发任何网络请求
	ValidateConfiguration() ValidationResult

	// GetRequirements 凭证表单声明（渲染录入界面用）
	GetRequirements() []Requirement

	// TestConnection 用最便宜的一次鉴权调用探测连通性
	// data 为 ConnectionReport：鉴权与 API 可达性分别上报
	TestConnection(ctx context.Context) OperationResult

	// ---- 商品 ----
	// CreateProduct 只接受异步写入的平台（feed 家族）返回 pending 状态 + 追踪 ID，
	// 调用方不得假定同步完成
	CreateProduct(ctx context.Context, p model.CanonicalProduct) OperationResult
	UpdateProduct(ctx context.Context, p model.CanonicalProduct) OperationResult
	DeleteProduct(ctx context.Context, sku string) OperationResult
	GetProduct(ctx context.Context, sku string) OperationResult
	ListProducts(ctx context.Context, filters Filters) OperationResult

	// ---- 订单 ----
	GetOrders(ctx context.Context, filters Filters) OperationResult
	GetOrder(ctx context.Context, id string) OperationResult
	UpdateOrderFulfillment(ctx context.Context, orderID string, f model.CanonicalFulfillment) OperationResult

	// ---- 库存 ----
	GetInventory(ctx context.Context, filters Filters) OperationResult
	UpdateInventory(ctx context.Context, rec model.CanonicalInventoryRecord) OperationResult
	ReserveInventory(ctx context.Context, rec model.CanonicalInventoryRecord) OperationResult
}
