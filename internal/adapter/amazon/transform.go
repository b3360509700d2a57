package amazon

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"marketsync_v1_202608/internal/model"
)

// 订单查询缺省取近 30 天
func defaultCreatedAfter() string {
	return time.Now().UTC().AddDate(0, 0, -30).Format(time.RFC3339)
}

// 解析失败返回零值时间，订单时间缺失不阻断读取
func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339, s)
	return t
}

// 平台成色词表映射（canonical <-> amazon flat file condition）
var conditionToAmazon = map[string]string{
	model.ConditionNew:         "New",
	model.ConditionUsed:        "UsedGood",
	model.ConditionRefurbished: "Refurbished",
}

var conditionFromAmazon = map[string]string{
	"New":         model.ConditionNew,
	"UsedGood":    model.ConditionUsed,
	"UsedLikeNew": model.ConditionUsed,
	"Refurbished": model.ConditionRefurbished,
	// listings 接口的 conditionType 词表
	"new_new":                 model.ConditionNew,
	"used_good":               model.ConditionUsed,
	"used_like_new":           model.ConditionUsed,
	"refurbished_refurbished": model.ConditionRefurbished,
}

// feedRow 商品 feed 的一行（平台侧表示）
// TSV 列顺序与 listingsFeedHeader 严格一致
type feedRow struct {
	SKU         string
	Title       string
	Brand       string
	Description string
	Price       decimal.Decimal
	Currency    string
	Quantity    int
	Condition   string
	ImageURL    string
}

var listingsFeedHeader = []string{
	"sku", "product-name", "brand", "product-description",
	"price", "currency", "quantity", "condition-type", "main-image-url",
}

// toFeedRow canonical -> feed 行
// 缺省规则：quantity 缺失为 0；condition 缺失按全新；只带首图（flat file 单图列）
func toFeedRow(p model.CanonicalProduct, defaultCurrency string) feedRow {
	p.Normalize(defaultCurrency)

	image := ""
	if len(p.Images) > 0 {
		image = p.Images[0]
	}
	cond, ok := conditionToAmazon[p.Condition]
	if !ok {
		cond = "New"
	}
	return feedRow{
		SKU:         p.SKU,
		Title:       p.Title,
		Brand:       p.Brand,
		Description: p.Description,
		Price:       p.Price,
		Currency:    p.Currency,
		Quantity:    p.Quantity,
		Condition:   cond,
		ImageURL:    image,
	}
}

// fromFeedRow feed 行 -> canonical（toFeedRow 的逆：只还原 feed 能表达的字段）
func fromFeedRow(r feedRow) model.CanonicalProduct {
	cond, ok := conditionFromAmazon[r.Condition]
	if !ok {
		cond = model.ConditionNew
	}
	var images []string
	if r.ImageURL != "" {
		images = []string{r.ImageURL}
	}
	return model.CanonicalProduct{
		SKU:         r.SKU,
		Title:       r.Title,
		Brand:       r.Brand,
		Description: r.Description,
		Price:       r.Price,
		Currency:    r.Currency,
		Quantity:    r.Quantity,
		Condition:   cond,
		Images:      images,
	}
}

// tsv 制表符不允许出现在单元格里，统一替换为空格
func sanitizeCell(s string) string {
	s = strings.ReplaceAll(s, "\t", " ")
	return strings.ReplaceAll(s, "\n", " ")
}

// buildListingsFeed 生成商品 flat file（表头 + 数据行）
func buildListingsFeed(rows []feedRow) string {
	var sb strings.Builder
	sb.WriteString(strings.Join(listingsFeedHeader, "\t"))
	sb.WriteByte('\n')
	for _, r := range rows {
		cells := []string{
			sanitizeCell(r.SKU),
			sanitizeCell(r.Title),
			sanitizeCell(r.Brand),
			sanitizeCell(r.Description),
			r.Price.StringFixed(2),
			r.Currency,
			strconv.Itoa(r.Quantity),
			r.Condition,
			sanitizeCell(r.ImageURL),
		}
		sb.WriteString(strings.Join(cells, "\t"))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// buildInventoryFeed 生成库存 loader flat file
func buildInventoryFeed(sku string, quantity int) string {
	var sb strings.Builder
	sb.WriteString("sku\tquantity\n")
	sb.WriteString(fmt.Sprintf("%s\t%d\n", sanitizeCell(sku), quantity))
	return sb.String()
}

// buildFulfillmentFeed 生成发货回传 flat file
func buildFulfillmentFeed(orderID string, f model.CanonicalFulfillment) string {
	shipDate := ""
	if f.ShippedAt != nil {
		shipDate = f.ShippedAt.UTC().Format("2006-01-02T15:04:05Z")
	}
	var sb strings.Builder
	sb.WriteString("order-id\tcarrier-code\ttracking-number\tship-date\n")
	sb.WriteString(fmt.Sprintf("%s\t%s\t%s\t%s\n",
		sanitizeCell(orderID), sanitizeCell(f.Carrier), sanitizeCell(f.TrackingNumber), shipDate))
	return sb.String()
}

// itemToCanonical listings 条目 -> canonical
// 平台没给的字段使用文档化缺省：数量取履约渠道之和，成色缺省按全新
func itemToCanonical(item listingsItemDTO, defaultCurrency string) model.CanonicalProduct {
	p := model.CanonicalProduct{
		SKU:      item.SKU,
		Currency: defaultCurrency,
	}

	if len(item.Summaries) > 0 {
		s := item.Summaries[0]
		p.Title = s.ItemName
		p.Brand = s.BrandName
		if cond, ok := conditionFromAmazon[s.ConditionType]; ok {
			p.Condition = cond
		}
		if s.MainImageLink != "" {
			p.Images = []string{s.MainImageLink}
		}
		if len(s.Status) > 0 {
			p.Status = strings.ToLower(s.Status[0])
		}
	}
	if len(item.Offers) > 0 {
		p.Price = decimal.NewFromFloat(item.Offers[0].Price.Amount)
		if item.Offers[0].Price.CurrencyCode != "" {
			p.Currency = item.Offers[0].Price.CurrencyCode
		}
	}
	for _, fa := range item.FulfillmentAvailability {
		p.Quantity += fa.Quantity
	}

	p.Normalize(defaultCurrency)
	p.RemoteID = item.SKU // feed 家族以 sku 为平台侧主键
	return p
}

// orderToCanonical SP-API 订单 -> canonical
func orderToCanonical(o orderDTO) model.CanonicalOrder {
	total, _ := decimal.NewFromString(o.OrderTotal.Amount)

	fulfillment := model.FulfillmentUnshipped
	switch {
	case o.NumberOfItemsUnshipped == 0 && o.NumberOfItemsShipped > 0:
		fulfillment = model.FulfillmentShipped
	case o.NumberOfItemsShipped > 0:
		fulfillment = model.FulfillmentPartial
	case o.OrderStatus == "Canceled":
		fulfillment = model.FulfillmentCancelled
	}

	return model.CanonicalOrder{
		ID:                o.AmazonOrderID,
		OrderNumber:       o.AmazonOrderID,
		Status:            strings.ToLower(o.OrderStatus),
		FulfillmentStatus: fulfillment,
		TotalAmount:       total,
		Currency:          o.OrderTotal.CurrencyCode,
		CustomerEmail:     o.BuyerEmail,
		CreatedAt:         parseTime(o.PurchaseDate),
		UpdatedAt:         parseTime(o.LastUpdateDate),
	}
}

// summaryToInventory FBA 库存摘要 -> canonical
func summaryToInventory(s inventorySummaryDTO) model.CanonicalInventoryRecord {
	return model.CanonicalInventoryRecord{
		SKU:      s.SellerSKU,
		Quantity: s.InventoryDetails.FulfillableQuantity,
		Reserved: s.InventoryDetails.ReservedQuantity.TotalReservedQuantity,
	}
}
