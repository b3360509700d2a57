package trendyol

// ==================== Product ====================

type imageDTO struct {
	URL string `json:"url"`
}

type attributeDTO struct {
	AttributeName  string `json:"attributeName,omitempty"`
	AttributeValue string `json:"attributeValue,omitempty"`
}

// productDTO 商品创建/更新载荷与查询响应条目共用
type productDTO struct {
	Barcode       string         `json:"barcode"`
	Title         string         `json:"title"`
	ProductMainID string         `json:"productMainId,omitempty"`
	Brand         string         `json:"brand,omitempty"`
	BrandID       int            `json:"brandId,omitempty"`
	CategoryID    int            `json:"pimCategoryId,omitempty"`
	CategoryName  string         `json:"categoryName,omitempty"`
	StockCode     string         `json:"stockCode"`
	Quantity      int            `json:"quantity"`
	ListPrice     float64        `json:"listPrice"`
	SalePrice     float64        `json:"salePrice"`
	CurrencyType  string         `json:"currencyType,omitempty"`
	Description   string         `json:"description,omitempty"`
	VatRate       int            `json:"vatRate"`
	Images        []imageDTO     `json:"images,omitempty"`
	Attributes    []attributeDTO `json:"attributes,omitempty"`
	Approved      bool           `json:"approved,omitempty"`
	Archived      bool           `json:"archived,omitempty"`
	OnSale        bool           `json:"onSale,omitempty"`
	ID            string         `json:"id,omitempty"` // 平台内容主键，只读
}

type createProductsReq struct {
	Items []productDTO `json:"items"`
}

// batchResp 写接口统一返回批次号，结果需要拿批次号另查
type batchResp struct {
	BatchRequestID string `json:"batchRequestId"`
}

type batchStatusResp struct {
	BatchRequestID string `json:"batchRequestId"`
	Status         string `json:"status"`
	Items          []struct {
		Status         string   `json:"status"`
		FailureReasons []string `json:"failureReasons,omitempty"`
	} `json:"items"`
}

type productsResp struct {
	TotalElements int          `json:"totalElements"`
	TotalPages    int          `json:"totalPages"`
	Page          int          `json:"page"`
	Size          int          `json:"size"`
	Content       []productDTO `json:"content"`
}

// ==================== Price & stock ====================

type priceStockItem struct {
	Barcode   string  `json:"barcode"`
	Quantity  int     `json:"quantity"`
	SalePrice float64 `json:"salePrice,omitempty"`
	ListPrice float64 `json:"listPrice,omitempty"`
}

type priceStockReq struct {
	Items []priceStockItem `json:"items"`
}

// ==================== Orders ====================

type orderLineDTO struct {
	Barcode     string  `json:"barcode"`
	ProductName string  `json:"productName"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
	OrderLineID int64   `json:"id"`
}

type shipmentPackageDTO struct {
	ID                  int64          `json:"id"` // shipment package id，发货回传用
	OrderNumber         string         `json:"orderNumber"`
	Status              string         `json:"status"`
	ShipmentStatus      string         `json:"shipmentPackageStatus,omitempty"`
	GrossAmount         float64        `json:"grossAmount"`
	TotalPrice          float64        `json:"totalPrice"`
	CurrencyCode        string         `json:"currencyCode,omitempty"`
	CustomerEmail       string         `json:"customerEmail,omitempty"`
	OrderDate           int64          `json:"orderDate"` // epoch millis
	LastModifiedDate    int64          `json:"lastModifiedDate,omitempty"`
	CargoTrackingNumber string         `json:"cargoTrackingNumber,omitempty"`
	Lines               []orderLineDTO `json:"lines"`
}

type ordersResp struct {
	TotalElements int                  `json:"totalElements"`
	TotalPages    int                  `json:"totalPages"`
	Page          int                  `json:"page"`
	Content       []shipmentPackageDTO `json:"content"`
}

// trackingReq PUT shipment-packages/{id}/update-tracking-number
type trackingReq struct {
	TrackingNumber string `json:"trackingNumber"`
}
