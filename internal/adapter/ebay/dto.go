package ebay

// ==================== Inventory Item ====================

type availabilityDTO struct {
	ShipToLocationAvailability struct {
		Quantity int `json:"quantity"`
	} `json:"shipToLocationAvailability"`
}

type productDTO struct {
	Title       string              `json:"title"`
	Description string              `json:"description,omitempty"`
	Brand       string              `json:"brand,omitempty"`
	ImageURLs   []string            `json:"imageUrls,omitempty"`
	Aspects     map[string][]string `json:"aspects,omitempty"`
}

// inventoryItemDTO PUT/GET /sell/inventory/v1/inventory_item/{sku}
// 半件资源：只有商品描述与库存，售卖条款在 offer 上
type inventoryItemDTO struct {
	SKU          string          `json:"sku,omitempty"`
	Condition    string          `json:"condition,omitempty"`
	Product      productDTO      `json:"product"`
	Availability availabilityDTO `json:"availability"`
	Locale       string          `json:"locale,omitempty"`
}

type inventoryItemsResp struct {
	Total          int                `json:"total"`
	Size           int                `json:"size"`
	InventoryItems []inventoryItemDTO `json:"inventoryItems"`
}

// ==================== Offer ====================

type offerPriceDTO struct {
	Value    string `json:"value"`
	Currency string `json:"currency"`
}

type pricingSummaryDTO struct {
	Price offerPriceDTO `json:"price"`
}

// offerDTO POST /sell/inventory/v1/offer 请求与响应共用
// 另一半资源：挂靠在 sku 上的售卖条款
type offerDTO struct {
	OfferID             string              `json:"offerId,omitempty"`
	SKU                 string              `json:"sku"`
	MarketplaceID       string              `json:"marketplaceId"`
	Format              string              `json:"format"`
	AvailableQuantity   int                 `json:"availableQuantity"`
	CategoryID          string              `json:"categoryId,omitempty"`
	ListingID           string              `json:"listingId,omitempty"`
	Status              string              `json:"status,omitempty"`
	PricingSummary      pricingSummaryDTO   `json:"pricingSummary"`
	ListingPolicies     *listingPoliciesDTO `json:"listingPolicies,omitempty"`
	MerchantLocationKey string              `json:"merchantLocationKey,omitempty"`
}

type listingPoliciesDTO struct {
	FulfillmentPolicyID string `json:"fulfillmentPolicyId,omitempty"`
	PaymentPolicyID     string `json:"paymentPolicyId,omitempty"`
	ReturnPolicyID      string `json:"returnPolicyId,omitempty"`
}

type createOfferResp struct {
	OfferID string `json:"offerId"`
}

type offersResp struct {
	Total  int        `json:"total"`
	Offers []offerDTO `json:"offers"`
}

// ==================== Bulk price/quantity ====================

type bulkPriceQuantityReq struct {
	Requests []bulkPriceQuantityEntry `json:"requests"`
}

type bulkPriceQuantityEntry struct {
	SKU                        string `json:"sku"`
	ShipToLocationAvailability *struct {
		Quantity int `json:"quantity"`
	} `json:"shipToLocationAvailability,omitempty"`
	Offers []bulkOfferQuantity `json:"offers,omitempty"`
}

type bulkOfferQuantity struct {
	OfferID           string `json:"offerId"`
	AvailableQuantity int    `json:"availableQuantity"`
}

type bulkPriceQuantityResp struct {
	Responses []struct {
		SKU        string `json:"sku"`
		StatusCode int    `json:"statusCode"`
	} `json:"responses"`
}

// ==================== Fulfillment ====================

type orderDTO struct {
	OrderID                string `json:"orderId"`
	LegacyOrderID          string `json:"legacyOrderId,omitempty"`
	OrderFulfillmentStatus string `json:"orderFulfillmentStatus"`
	OrderPaymentStatus     string `json:"orderPaymentStatus,omitempty"`
	CreationDate           string `json:"creationDate"`
	LastModifiedDate       string `json:"lastModifiedDate"`
	PricingSummary         struct {
		Total offerPriceDTO `json:"total"`
	} `json:"pricingSummary"`
	Buyer struct {
		Username string `json:"username"`
	} `json:"buyer"`
	LineItems []lineItemDTO `json:"lineItems"`
}

type lineItemDTO struct {
	SKU        string        `json:"sku"`
	Title      string        `json:"title"`
	Quantity   int           `json:"quantity"`
	Total      offerPriceDTO `json:"total"`
	LineItemID string        `json:"lineItemId"`
}

type ordersResp struct {
	Total  int        `json:"total"`
	Orders []orderDTO `json:"orders"`
	Next   string     `json:"next,omitempty"`
}

// shippingFulfillmentReq POST /sell/fulfillment/v1/order/{id}/shipping_fulfillment
type shippingFulfillmentReq struct {
	LineItems       []fulfillmentLineItem `json:"lineItems,omitempty"`
	ShippedDate     string                `json:"shippedDate,omitempty"`
	ShippingCarrier string                `json:"shippingCarrierCode,omitempty"`
	TrackingNumber  string                `json:"trackingNumber,omitempty"`
}

type fulfillmentLineItem struct {
	LineItemID string `json:"lineItemId"`
	Quantity   int    `json:"quantity"`
}
