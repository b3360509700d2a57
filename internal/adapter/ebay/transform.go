package ebay

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"marketsync_v1_202608/internal/model"
)

// 成色词表映射（canonical <-> ebay condition enum）
var conditionToEbay = map[string]string{
	model.ConditionNew:         "NEW",
	model.ConditionUsed:        "USED_GOOD",
	model.ConditionRefurbished: "CERTIFIED_REFURBISHED",
}

var conditionFromEbay = map[string]string{
	"NEW":                   model.ConditionNew,
	"LIKE_NEW":              model.ConditionUsed,
	"USED_EXCELLENT":        model.ConditionUsed,
	"USED_GOOD":             model.ConditionUsed,
	"USED_ACCEPTABLE":       model.ConditionUsed,
	"CERTIFIED_REFURBISHED": model.ConditionRefurbished,
	"SELLER_REFURBISHED":    model.ConditionRefurbished,
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339, s)
	return t
}

// toItemAndOffer canonical -> 一对半件资源
// 商品描述与数量进 inventory item，价格与售卖条款进 offer，两边都带 sku 关联
func toItemAndOffer(p model.CanonicalProduct, cfg Config) (inventoryItemDTO, offerDTO) {
	p.Normalize(cfg.currency())

	cond, ok := conditionToEbay[p.Condition]
	if !ok {
		cond = "NEW"
	}

	var aspects map[string][]string
	if len(p.Attributes) > 0 {
		aspects = make(map[string][]string, len(p.Attributes))
		for k, v := range p.Attributes {
			aspects[k] = []string{v}
		}
	}

	item := inventoryItemDTO{
		Condition: cond,
		Locale:    strings.ReplaceAll(defaultLocale, "-", "_"),
		Product: productDTO{
			Title:       p.Title,
			Description: p.Description,
			Brand:       p.Brand,
			ImageURLs:   p.Images,
			Aspects:     aspects,
		},
	}
	item.Availability.ShipToLocationAvailability.Quantity = p.Quantity

	categoryID := p.Attributes["category_id"]
	if categoryID == "" {
		categoryID = defaultCategory
	}

	offer := offerDTO{
		SKU:               p.SKU,
		MarketplaceID:     cfg.MarketplaceID,
		Format:            "FIXED_PRICE",
		AvailableQuantity: p.Quantity,
		CategoryID:        categoryID,
		PricingSummary: pricingSummaryDTO{
			Price: offerPriceDTO{Value: p.Price.StringFixed(2), Currency: p.Currency},
		},
		MerchantLocationKey: cfg.MerchantLocation,
	}
	if cfg.FulfillmentPolicy != "" || cfg.PaymentPolicy != "" || cfg.ReturnPolicy != "" {
		offer.ListingPolicies = &listingPoliciesDTO{
			FulfillmentPolicyID: cfg.FulfillmentPolicy,
			PaymentPolicyID:     cfg.PaymentPolicy,
			ReturnPolicyID:      cfg.ReturnPolicy,
		}
	}
	return item, offer
}

// fromItemAndOffer 一对半件资源 -> canonical（toItemAndOffer 的逆）
// offer 可能尚未创建（只发布了 item），此时价格与 remote id 留空
func fromItemAndOffer(item inventoryItemDTO, offer *offerDTO, defaultCurrency string) model.CanonicalProduct {
	cond, ok := conditionFromEbay[item.Condition]
	if !ok {
		cond = model.ConditionNew
	}

	var attrs map[string]string
	if len(item.Product.Aspects) > 0 {
		attrs = make(map[string]string, len(item.Product.Aspects))
		for k, vs := range item.Product.Aspects {
			if len(vs) > 0 {
				attrs[k] = vs[0]
			}
		}
	}

	p := model.CanonicalProduct{
		SKU:         item.SKU,
		Title:       item.Product.Title,
		Description: item.Product.Description,
		Brand:       item.Product.Brand,
		Quantity:    item.Availability.ShipToLocationAvailability.Quantity,
		Condition:   cond,
		Images:      item.Product.ImageURLs,
		Attributes:  attrs,
		Currency:    defaultCurrency,
	}
	if offer != nil {
		price, _ := decimal.NewFromString(offer.PricingSummary.Price.Value)
		p.Price = price
		if offer.PricingSummary.Price.Currency != "" {
			p.Currency = offer.PricingSummary.Price.Currency
		}
		p.RemoteID = offer.OfferID
		p.Status = strings.ToLower(offer.Status)
	}
	return p
}

// orderToCanonical Sell Fulfillment 订单 -> canonical
func orderToCanonical(o orderDTO) model.CanonicalOrder {
	total, _ := decimal.NewFromString(o.PricingSummary.Total.Value)

	fulfillment := model.FulfillmentUnshipped
	switch o.OrderFulfillmentStatus {
	case "FULFILLED":
		fulfillment = model.FulfillmentShipped
	case "IN_PROGRESS":
		fulfillment = model.FulfillmentPartial
	}

	items := make([]model.CanonicalOrderItem, 0, len(o.LineItems))
	for _, li := range o.LineItems {
		price, _ := decimal.NewFromString(li.Total.Value)
		items = append(items, model.CanonicalOrderItem{
			SKU:      li.SKU,
			Title:    li.Title,
			Quantity: li.Quantity,
			Price:    price,
		})
	}

	return model.CanonicalOrder{
		ID:                o.OrderID,
		OrderNumber:       o.OrderID,
		Status:            strings.ToLower(o.OrderPaymentStatus),
		FulfillmentStatus: fulfillment,
		TotalAmount:       total,
		Currency:          o.PricingSummary.Total.Currency,
		CustomerEmail:     o.Buyer.Username,
		Items:             items,
		CreatedAt:         parseTime(o.CreationDate),
		UpdatedAt:         parseTime(o.LastModifiedDate),
	}
}
