package shopify

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"marketsync_v1_202608/internal/model"
	shopifysdk "marketsync_v1_202608/pkg/shopify"
)

func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339, s)
	return t
}

// toShopifyProduct canonical -> Admin API 商品
// 平台没有成色字段，condition 打进 tags 保留信息；库存走独立接口，这里只带初始量
func toShopifyProduct(p model.CanonicalProduct, defaultCurrency string) shopifysdk.Product {
	p.Normalize(defaultCurrency)

	images := make([]shopifysdk.Image, 0, len(p.Images))
	for _, u := range p.Images {
		images = append(images, shopifysdk.Image{Src: u})
	}

	var tags []string
	if p.Condition != "" {
		tags = append(tags, "condition:"+strings.ToLower(p.Condition))
	}

	return shopifysdk.Product{
		Title:       p.Title,
		BodyHTML:    p.Description,
		Vendor:      p.Brand,
		ProductType: p.Attributes["category"],
		Status:      "active",
		Tags:        strings.Join(tags, ", "),
		Images:      images,
		Variants: []shopifysdk.Variant{{
			SKU:                 p.SKU,
			Price:               p.Price.StringFixed(2),
			InventoryQuantity:   p.Quantity,
			InventoryManagement: "shopify",
		}},
	}
}

// fromShopifyProduct Admin API 商品 -> canonical（首变体视角）
func fromShopifyProduct(d shopifysdk.Product, defaultCurrency string) model.CanonicalProduct {
	p := model.CanonicalProduct{
		Title:       d.Title,
		Description: d.BodyHTML,
		Brand:       d.Vendor,
		Currency:    defaultCurrency,
		Condition:   model.ConditionNew,
		Status:      d.Status,
		RemoteID:    strconvID(d.ID),
	}

	if len(d.Variants) > 0 {
		v := d.Variants[0]
		p.SKU = v.SKU
		p.Quantity = v.InventoryQuantity
		price, _ := decimal.NewFromString(v.Price)
		p.Price = price
	}
	for _, img := range d.Images {
		p.Images = append(p.Images, img.Src)
	}
	if d.ProductType != "" {
		p.Attributes = map[string]string{"category": d.ProductType}
	}

	// tags 里还原成色标记
	for _, tag := range strings.Split(d.Tags, ",") {
		tag = strings.TrimSpace(tag)
		if c, ok := strings.CutPrefix(tag, "condition:"); ok {
			switch c {
			case "used":
				p.Condition = model.ConditionUsed
			case "refurbished":
				p.Condition = model.ConditionRefurbished
			}
		}
	}
	return p
}

// orderToCanonical Admin API 订单 -> canonical
func orderToCanonical(o shopifysdk.Order) model.CanonicalOrder {
	total, _ := decimal.NewFromString(o.TotalPrice)

	fulfillment := model.FulfillmentUnshipped
	switch o.FulfillmentStatus {
	case "fulfilled":
		fulfillment = model.FulfillmentShipped
	case "partial":
		fulfillment = model.FulfillmentPartial
	}
	if o.CancelledAt != "" {
		fulfillment = model.FulfillmentCancelled
	}

	items := make([]model.CanonicalOrderItem, 0, len(o.LineItems))
	for _, li := range o.LineItems {
		price, _ := decimal.NewFromString(li.Price)
		items = append(items, model.CanonicalOrderItem{
			SKU:      li.SKU,
			Title:    li.Title,
			Quantity: li.Quantity,
			Price:    price,
		})
	}

	return model.CanonicalOrder{
		ID:                strconvID(o.ID),
		OrderNumber:       o.Name,
		Status:            o.FinancialStatus,
		FulfillmentStatus: fulfillment,
		TotalAmount:       total,
		Currency:          o.Currency,
		CustomerEmail:     o.Email,
		Items:             items,
		CreatedAt:         parseTime(o.CreatedAt),
		UpdatedAt:         parseTime(o.UpdatedAt),
	}
}
