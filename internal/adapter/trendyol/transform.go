package trendyol

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"marketsync_v1_202608/internal/model"
)

// 平台只卖新品，成色字段没有对应物：写入时丢弃，读取时一律按全新
const defaultVatRate = 18

func epochMillis(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}

// toProductDTO canonical -> 平台商品载荷
// barcode 与 stockCode 都用 sku：平台以 barcode 为主键，同步层以 sku 为主键，两者必须一致
func toProductDTO(p model.CanonicalProduct, defaultCurrency string) productDTO {
	p.Normalize(defaultCurrency)

	images := make([]imageDTO, 0, len(p.Images))
	for _, u := range p.Images {
		images = append(images, imageDTO{URL: u})
	}

	var attrs []attributeDTO
	for k, v := range p.Attributes {
		attrs = append(attrs, attributeDTO{AttributeName: k, AttributeValue: v})
	}

	price, _ := p.Price.Float64()
	return productDTO{
		Barcode:       p.SKU,
		StockCode:     p.SKU,
		ProductMainID: p.SKU,
		Title:         p.Title,
		Brand:         p.Brand,
		Description:   p.Description,
		Quantity:      p.Quantity,
		ListPrice:     price,
		SalePrice:     price,
		CurrencyType:  p.Currency,
		VatRate:       defaultVatRate,
		Images:        images,
		Attributes:    attrs,
	}
}

// fromProductDTO 平台商品条目 -> canonical
func fromProductDTO(d productDTO, defaultCurrency string) model.CanonicalProduct {
	images := make([]string, 0, len(d.Images))
	for _, img := range d.Images {
		images = append(images, img.URL)
	}

	var attrs map[string]string
	if len(d.Attributes) > 0 {
		attrs = make(map[string]string, len(d.Attributes))
		for _, a := range d.Attributes {
			attrs[a.AttributeName] = a.AttributeValue
		}
	}

	status := "pending"
	switch {
	case d.Archived:
		status = "archived"
	case d.OnSale:
		status = "active"
	case d.Approved:
		status = "approved"
	}

	currency := d.CurrencyType
	if currency == "" {
		currency = defaultCurrency
	}

	return model.CanonicalProduct{
		SKU:         d.Barcode,
		Title:       d.Title,
		Description: d.Description,
		Brand:       d.Brand,
		Price:       decimal.NewFromFloat(d.SalePrice),
		Currency:    currency,
		Quantity:    d.Quantity,
		Condition:   model.ConditionNew,
		Images:      images,
		Attributes:  attrs,
		RemoteID:    d.ID,
		Status:      status,
	}
}

// packageToOrder 发货包 -> canonical 订单
// 平台的订单查询按发货包分页，一个包即一个可独立履约的订单切片
func packageToOrder(pkg shipmentPackageDTO, defaultCurrency string) model.CanonicalOrder {
	fulfillment := model.FulfillmentUnshipped
	switch pkg.Status {
	case "Shipped", "AtCollectionPoint":
		fulfillment = model.FulfillmentShipped
	case "Delivered":
		fulfillment = model.FulfillmentDelivered
	case "Cancelled", "UnSupplied", "Returned":
		fulfillment = model.FulfillmentCancelled
	case "Picking", "Invoiced":
		fulfillment = model.FulfillmentPartial
	}

	items := make([]model.CanonicalOrderItem, 0, len(pkg.Lines))
	for _, l := range pkg.Lines {
		items = append(items, model.CanonicalOrderItem{
			SKU:      l.Barcode,
			Title:    l.ProductName,
			Quantity: l.Quantity,
			Price:    decimal.NewFromFloat(l.Price),
		})
	}

	currency := pkg.CurrencyCode
	if currency == "" {
		currency = defaultCurrency
	}

	return model.CanonicalOrder{
		ID:                strconvID(pkg.ID),
		OrderNumber:       pkg.OrderNumber,
		Status:            strings.ToLower(pkg.Status),
		FulfillmentStatus: fulfillment,
		TotalAmount:       decimal.NewFromFloat(pkg.TotalPrice),
		Currency:          currency,
		CustomerEmail:     pkg.CustomerEmail,
		Items:             items,
		CreatedAt:         epochMillis(pkg.OrderDate),
		UpdatedAt:         epochMillis(pkg.LastModifiedDate),
	}
}
