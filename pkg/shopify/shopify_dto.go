package shopify

// ==================== Product ====================

type Image struct {
	ID  int64  `json:"id,omitempty"`
	Src string `json:"src"`
}

type Variant struct {
	ID                  int64  `json:"id,omitempty"`
	ProductID           int64  `json:"product_id,omitempty"`
	SKU                 string `json:"sku"`
	Price               string `json:"price"`
	InventoryQuantity   int    `json:"inventory_quantity,omitempty"`
	InventoryItemID     int64  `json:"inventory_item_id,omitempty"`
	InventoryManagement string `json:"inventory_management,omitempty"` // shopify = 平台托管库存
}

type Product struct {
	ID          int64     `json:"id,omitempty"`
	Title       string    `json:"title"`
	BodyHTML    string    `json:"body_html,omitempty"`
	Vendor      string    `json:"vendor,omitempty"`
	ProductType string    `json:"product_type,omitempty"`
	Status      string    `json:"status,omitempty"` // active / draft / archived
	Tags        string    `json:"tags,omitempty"`
	Variants    []Variant `json:"variants"`
	Images      []Image   `json:"images,omitempty"`
	CreatedAt   string    `json:"created_at,omitempty"`
	UpdatedAt   string    `json:"updated_at,omitempty"`
}

// ProductReq / ProductResp REST 信封：单资源包一层资源名
type ProductReq struct {
	Product Product `json:"product"`
}

type ProductResp struct {
	Product Product `json:"product"`
}

type ProductsResp struct {
	Products []Product `json:"products"`
}

// ==================== Order ====================

type LineItem struct {
	ID       int64  `json:"id,omitempty"`
	SKU      string `json:"sku"`
	Title    string `json:"title"`
	Quantity int    `json:"quantity"`
	Price    string `json:"price"`
}

type Order struct {
	ID                int64      `json:"id,omitempty"`
	Name              string     `json:"name,omitempty"` // 面向买家的订单号 #1001
	Email             string     `json:"email,omitempty"`
	FinancialStatus   string     `json:"financial_status,omitempty"`
	FulfillmentStatus string     `json:"fulfillment_status,omitempty"` // null / partial / fulfilled
	CancelledAt       string     `json:"cancelled_at,omitempty"`
	TotalPrice        string     `json:"total_price,omitempty"`
	Currency          string     `json:"currency,omitempty"`
	LineItems         []LineItem `json:"line_items"`
	CreatedAt         string     `json:"created_at,omitempty"`
	UpdatedAt         string     `json:"updated_at,omitempty"`
}

type OrderResp struct {
	Order Order `json:"order"`
}

type OrdersResp struct {
	Orders []Order `json:"orders"`
}

// ==================== Fulfillment ====================

type TrackingInfo struct {
	Number  string `json:"number,omitempty"`
	Company string `json:"company,omitempty"`
}

type FulfillmentOrderRef struct {
	FulfillmentOrderID int64 `json:"fulfillment_order_id"`
}

// FulfillmentReq POST fulfillments.json（fulfillment order 模型）
type FulfillmentReq struct {
	Fulfillment struct {
		TrackingInfo           TrackingInfo          `json:"tracking_info,omitempty"`
		NotifyCustomer         bool                  `json:"notify_customer"`
		LineItemsByFulfillment []FulfillmentOrderRef `json:"line_items_by_fulfillment_order"`
	} `json:"fulfillment"`
}

type FulfillmentOrder struct {
	ID     int64  `json:"id"`
	Status string `json:"status"`
}

type FulfillmentOrdersResp struct {
	FulfillmentOrders []FulfillmentOrder `json:"fulfillment_orders"`
}

// ==================== Inventory ====================

type Location struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

type LocationsResp struct {
	Locations []Location `json:"locations"`
}

// InventorySetReq POST inventory_levels/set.json
type InventorySetReq struct {
	LocationID      int64 `json:"location_id"`
	InventoryItemID int64 `json:"inventory_item_id"`
	Available       int   `json:"available"`
}

type InventoryLevel struct {
	InventoryItemID int64 `json:"inventory_item_id"`
	LocationID      int64 `json:"location_id"`
	Available       int   `json:"available"`
}

type InventoryLevelResp struct {
	InventoryLevel InventoryLevel `json:"inventory_level"`
}

// ==================== Shop ====================

type Shop struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Domain   string `json:"myshopify_domain"`
	Currency string `json:"currency"`
}

type ShopResp struct {
	Shop Shop `json:"shop"`
}
