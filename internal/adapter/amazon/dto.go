package amazon

// ==================== Feed API ====================

// createDocumentResp POST /feeds/2021-06-30/documents 响应
type createDocumentResp struct {
	FeedDocumentID string `json:"feedDocumentId"`
	URL            string `json:"url"` // 预签名上传地址
}

// createFeedReq POST /feeds/2021-06-30/feeds 请求
type createFeedReq struct {
	FeedType            string   `json:"feedType"`
	MarketplaceIDs      []string `json:"marketplaceIds"`
	InputFeedDocumentID string   `json:"inputFeedDocumentId"`
}

// createFeedResp 注册 feed 的响应：feedId 即调用方的追踪标识
type createFeedResp struct {
	FeedID string `json:"feedId"`
}

// ==================== Listings API ====================

type moneyDTO struct {
	Amount       float64 `json:"amount"`
	CurrencyCode string  `json:"currencyCode"`
}

type listingsSummaryDTO struct {
	MarketplaceID string   `json:"marketplaceId"`
	ItemName      string   `json:"itemName"`
	BrandName     string   `json:"brandName,omitempty"`
	ConditionType string   `json:"conditionType,omitempty"`
	Status        []string `json:"status,omitempty"`
	MainImageLink string   `json:"mainImageLink,omitempty"`
	CreatedDate   string   `json:"createdDate,omitempty"`
	LastUpdated   string   `json:"lastUpdatedDate,omitempty"`
	ProductType   string   `json:"productType,omitempty"`
}

type listingsOfferDTO struct {
	MarketplaceID string   `json:"marketplaceId"`
	OfferType     string   `json:"offerType"`
	Price         moneyDTO `json:"price"`
}

type fulfillmentAvailDTO struct {
	FulfillmentChannelCode string `json:"fulfillmentChannelCode"`
	Quantity               int    `json:"quantity"`
}

// listingsItemDTO GET /listings/2021-08-01/items/{seller}/{sku} 响应
type listingsItemDTO struct {
	SKU                     string                `json:"sku"`
	Summaries               []listingsSummaryDTO  `json:"summaries,omitempty"`
	Offers                  []listingsOfferDTO    `json:"offers,omitempty"`
	FulfillmentAvailability []fulfillmentAvailDTO `json:"fulfillmentAvailability,omitempty"`
}

// searchListingsResp GET /listings/2021-08-01/items/{seller} 响应（分页）
type searchListingsResp struct {
	NumberOfResults int               `json:"numberOfResults"`
	Items           []listingsItemDTO `json:"items"`
	Pagination      struct {
		NextToken string `json:"nextToken,omitempty"`
	} `json:"pagination"`
}

// ==================== Orders API ====================

type orderTotalDTO struct {
	Amount       string `json:"Amount"`
	CurrencyCode string `json:"CurrencyCode"`
}

type orderDTO struct {
	AmazonOrderID          string        `json:"AmazonOrderId"`
	OrderStatus            string        `json:"OrderStatus"`
	FulfillmentChannel     string        `json:"FulfillmentChannel,omitempty"`
	NumberOfItemsShipped   int           `json:"NumberOfItemsShipped"`
	NumberOfItemsUnshipped int           `json:"NumberOfItemsUnshipped"`
	OrderTotal             orderTotalDTO `json:"OrderTotal"`
	BuyerEmail             string        `json:"BuyerEmail,omitempty"`
	PurchaseDate           string        `json:"PurchaseDate"`
	LastUpdateDate         string        `json:"LastUpdateDate"`
}

// ordersResp SP-API 订单接口统一包在 payload 里
type ordersResp struct {
	Payload struct {
		Orders    []orderDTO `json:"Orders"`
		NextToken string     `json:"NextToken,omitempty"`
	} `json:"payload"`
}

type orderResp struct {
	Payload orderDTO `json:"payload"`
}

// ==================== FBA Inventory API ====================

type inventorySummaryDTO struct {
	SellerSKU        string `json:"sellerSku"`
	FNSKU            string `json:"fnSku,omitempty"`
	TotalQuantity    int    `json:"totalQuantity"`
	InventoryDetails struct {
		FulfillableQuantity int `json:"fulfillableQuantity"`
		ReservedQuantity    struct {
			TotalReservedQuantity int `json:"totalReservedQuantity"`
		} `json:"reservedQuantity"`
	} `json:"inventoryDetails"`
}

type inventorySummariesResp struct {
	Payload struct {
		InventorySummaries []inventorySummaryDTO `json:"inventorySummaries"`
	} `json:"payload"`
}
