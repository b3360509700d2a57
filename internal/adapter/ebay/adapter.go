// Package ebay 实现两件套家族适配器：一个商品 = inventory item + offer，
// 两半资源按 sku 关联，写入必须 item 在前 offer 在后。
package ebay

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"marketsync_v1_202608/internal/adapter"
	"marketsync_v1_202608/internal/auth"
	"marketsync_v1_202608/internal/model"
)

type Adapter struct {
	cfg    Config
	source *auth.ClientCredentialsSource
	exec   *adapter.Executor
	cache  *adapter.ReadCache
	log    *zap.SugaredLogger
}

var _ adapter.MarketplaceAdapter = (*Adapter)(nil)

func New(cfg Config, log *zap.SugaredLogger) *Adapter {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	client := adapter.NewRestyClient()
	source := auth.NewClientCredentialsSource(client, cfg.tokenURL(), cfg.ClientID, cfg.ClientSecret, oauthScope)

	return &Adapter{
		cfg:    cfg,
		source: source,
		exec:   adapter.NewExecutor(model.MarketplaceEbay, client, source, adapter.ShapeErrorList, log),
		cache:  adapter.NewReadCache(),
		log:    log.With("marketplace", model.MarketplaceEbay),
	}
}

func (a *Adapter) Name() string { return model.MarketplaceEbay }

func (a *Adapter) Refresher() auth.Refresher { return a.source }

func (a *Adapter) ValidateConfiguration() adapter.ValidationResult {
	errs := a.cfg.Validate()
	return adapter.ValidationResult{Valid: len(errs) == 0, Errors: errs}
}

func (a *Adapter) GetRequirements() []adapter.Requirement {
	return []adapter.Requirement{
		{Name: "client_id", Label: "App Client ID", Required: true},
		{Name: "client_secret", Label: "App Client Secret", Required: true},
		{Name: "environment", Label: "Environment", Required: false, Validation: "production / sandbox", Default: "production"},
		{Name: "marketplace_id", Label: "Marketplace ID", Required: true, Validation: "e.g. EBAY_US"},
		{Name: "fulfillment_policy", Label: "Fulfillment Policy ID", Required: false},
		{Name: "payment_policy", Label: "Payment Policy ID", Required: false},
		{Name: "return_policy", Label: "Return Policy ID", Required: false},
		{Name: "merchant_location", Label: "Merchant Location Key", Required: false},
	}
}

func (a *Adapter) TestConnection(ctx context.Context) adapter.OperationResult {
	report := adapter.ConnectionReport{}

	if _, err := a.source.Headers(ctx); err != nil {
		report.AuthError = err.Error()
		res := adapter.Fail(adapter.KindAuthenticationFailed, http.StatusUnauthorized, err.Error())
		res.Data = report
		return res
	}
	report.AuthOK = true

	res := a.exec.Get(ctx, a.cfg.baseURL()+inventoryAPI+"/inventory_item?limit=1", nil)
	report.APIOK = res.Success
	if !res.Success {
		report.APIError = res.Message
	}
	res.Data = report
	return res
}

// ---- 商品 ----

// CreateProduct 两步写入，顺序固定：先 PUT item 再 POST offer
// offer 一步失败时 item 已落在平台侧，属于半完成状态，错误信息必须指明
func (a *Adapter) CreateProduct(ctx context.Context, p model.CanonicalProduct) adapter.OperationResult {
	if err := p.Validate(); err != nil {
		return adapter.Fail(adapter.KindConfigurationInvalid, 0, err.Error())
	}
	item, offer := toItemAndOffer(p, a.cfg)

	// 1. 写描述与库存半件
	res := a.exec.Put(ctx, a.itemURL(p.SKU), item, nil)
	if !res.Success {
		res.Message = "put inventory item: " + res.Message
		return res
	}

	// 2. 写售卖条款半件
	var created createOfferResp
	res = a.exec.Post(ctx, a.cfg.baseURL()+inventoryAPI+"/offer", offer, &created)
	if !res.Success {
		res.Message = "create offer (inventory item already written, retry will resume here): " + res.Message
		return res
	}

	a.log.Infow("product created", "sku", p.SKU, "offer_id", created.OfferID)
	return adapter.OK(res.StatusCode, map[string]interface{}{
		"sku":      p.SKU,
		"offer_id": created.OfferID,
		"status":   "unpublished",
	})
}

// UpdateProduct item 半件直接覆盖；offer 半件存在则改，不存在则补建
func (a *Adapter) UpdateProduct(ctx context.Context, p model.CanonicalProduct) adapter.OperationResult {
	if err := p.Validate(); err != nil {
		return adapter.Fail(adapter.KindConfigurationInvalid, 0, err.Error())
	}
	item, offer := toItemAndOffer(p, a.cfg)

	res := a.exec.Put(ctx, a.itemURL(p.SKU), item, nil)
	if !res.Success {
		res.Message = "put inventory item: " + res.Message
		return res
	}

	existing, lookupRes := a.findOfferBySKU(ctx, p.SKU)
	if lookupRes != nil {
		return *lookupRes
	}
	if existing == nil {
		var created createOfferResp
		res = a.exec.Post(ctx, a.cfg.baseURL()+inventoryAPI+"/offer", offer, &created)
		if !res.Success {
			res.Message = "create offer: " + res.Message
			return res
		}
		return adapter.OK(res.StatusCode, map[string]interface{}{"sku": p.SKU, "offer_id": created.OfferID})
	}

	res = a.exec.Put(ctx, a.cfg.baseURL()+inventoryAPI+"/offer/"+url.PathEscape(existing.OfferID), offer, nil)
	if !res.Success {
		res.Message = "update offer: " + res.Message
		return res
	}
	return adapter.OK(res.StatusCode, map[string]interface{}{"sku": p.SKU, "offer_id": existing.OfferID})
}

// DeleteProduct 逆序拆两半：先撤下并删掉全部 offer，再删 item
// withdraw 对未发布的 offer 会报错，按尽力而为处理不阻断删除
func (a *Adapter) DeleteProduct(ctx context.Context, sku string) adapter.OperationResult {
	if sku == "" {
		return adapter.Fail(adapter.KindConfigurationInvalid, 0, "sku 不能为空")
	}

	var offers offersResp
	res := a.exec.Get(ctx, a.offersBySKUURL(sku), &offers)
	// 404 说明没有任何 offer，直接删 item
	if !res.Success && res.StatusCode != http.StatusNotFound {
		res.Message = "list offers: " + res.Message
		return res
	}

	for _, o := range offers.Offers {
		if wr := a.exec.Post(ctx, a.cfg.baseURL()+inventoryAPI+"/offer/"+url.PathEscape(o.OfferID)+"/withdraw", nil, nil); !wr.Success {
			a.log.Warnw("withdraw offer failed, continuing", "sku", sku, "offer_id", o.OfferID, "msg", wr.Message)
		}
		if dr := a.exec.Delete(ctx, a.cfg.baseURL()+inventoryAPI+"/offer/"+url.PathEscape(o.OfferID)); !dr.Success {
			dr.Message = "delete offer: " + dr.Message
			return dr
		}
	}

	res = a.exec.Delete(ctx, a.itemURL(sku))
	if !res.Success {
		res.Message = "delete inventory item: " + res.Message
		return res
	}
	return adapter.OK(res.StatusCode, map[string]interface{}{"sku": sku, "deleted": true})
}

func (a *Adapter) GetProduct(ctx context.Context, sku string) adapter.OperationResult {
	if sku == "" {
		return adapter.Fail(adapter.KindConfigurationInvalid, 0, "sku 不能为空")
	}

	var item inventoryItemDTO
	res := a.exec.Get(ctx, a.itemURL(sku), &item)
	if !res.Success {
		return res
	}
	if item.SKU == "" {
		item.SKU = sku
	}

	// offer 半件可能还不存在，取不到不算失败
	offer, lookupRes := a.findOfferBySKU(ctx, sku)
	if lookupRes != nil {
		a.log.Debugw("offer lookup failed, returning item half only", "sku", sku, "msg", lookupRes.Message)
	}
	return adapter.OK(res.StatusCode, fromItemAndOffer(item, offer, a.cfg.currency()))
}

// ListProducts 只拉 item 半件；逐 sku 补 offer 会产生 N+1 调用，价格留给 GetProduct
func (a *Adapter) ListProducts(ctx context.Context, filters adapter.Filters) adapter.OperationResult {
	key := a.cache.Key(a.Name(), "ListProducts", filters)
	if cached, ok := a.cache.Get(key); ok {
		return cached
	}

	q := url.Values{}
	q.Set("limit", orDefault(filters["page_size"], "25"))
	if offset := filters["offset"]; offset != "" {
		q.Set("offset", offset)
	}

	var resp inventoryItemsResp
	res := a.exec.Get(ctx, a.cfg.baseURL()+inventoryAPI+"/inventory_item?"+q.Encode(), &resp)
	if !res.Success {
		return res
	}

	products := make([]model.CanonicalProduct, 0, len(resp.InventoryItems))
	for _, item := range resp.InventoryItems {
		products = append(products, fromItemAndOffer(item, nil, a.cfg.currency()))
	}
	out := adapter.OK(res.StatusCode, map[string]interface{}{
		"products": products,
		"total":    resp.Total,
	})
	a.cache.Set(key, out)
	return out
}

// ---- 订单 ----

func (a *Adapter) GetOrders(ctx context.Context, filters adapter.Filters) adapter.OperationResult {
	key := a.cache.Key(a.Name(), "GetOrders", filters)
	if cached, ok := a.cache.Get(key); ok {
		return cached
	}

	q := url.Values{}
	q.Set("limit", orDefault(filters["page_size"], "50"))
	if created := filters["created_after"]; created != "" {
		q.Set("filter", fmt.Sprintf("creationdate:[%s..]", created))
	}

	var resp ordersResp
	res := a.exec.Get(ctx, a.cfg.baseURL()+fulfillmentAPI+"/order?"+q.Encode(), &resp)
	if !res.Success {
		return res
	}

	orders := make([]model.CanonicalOrder, 0, len(resp.Orders))
	for _, o := range resp.Orders {
		orders = append(orders, orderToCanonical(o))
	}
	out := adapter.OK(res.StatusCode, map[string]interface{}{
		"orders": orders,
		"total":  resp.Total,
	})
	a.cache.Set(key, out)
	return out
}

func (a *Adapter) GetOrder(ctx context.Context, id string) adapter.OperationResult {
	var o orderDTO
	res := a.exec.Get(ctx, a.cfg.baseURL()+fulfillmentAPI+"/order/"+url.PathEscape(id), &o)
	if !res.Success {
		return res
	}
	return adapter.OK(res.StatusCode, orderToCanonical(o))
}

// UpdateOrderFulfillment 回传发货：不带行项目时平台按整单发货处理
func (a *Adapter) UpdateOrderFulfillment(ctx context.Context, orderID string, f model.CanonicalFulfillment) adapter.OperationResult {
	if orderID == "" {
		return adapter.Fail(adapter.KindConfigurationInvalid, 0, "order id 不能为空")
	}
	req := shippingFulfillmentReq{
		ShippingCarrier: f.Carrier,
		TrackingNumber:  f.TrackingNumber,
	}
	if f.ShippedAt != nil {
		req.ShippedDate = f.ShippedAt.UTC().Format("2006-01-02T15:04:05.000Z")
	}
	res := a.exec.Post(ctx, a.cfg.baseURL()+fulfillmentAPI+"/order/"+url.PathEscape(orderID)+"/shipping_fulfillment", req, nil)
	if !res.Success {
		return res
	}
	return adapter.OK(res.StatusCode, map[string]interface{}{"order_id": orderID, "tracking_number": f.TrackingNumber})
}

// ---- 库存 ----

func (a *Adapter) GetInventory(ctx context.Context, filters adapter.Filters) adapter.OperationResult {
	key := a.cache.Key(a.Name(), "GetInventory", filters)
	if cached, ok := a.cache.Get(key); ok {
		return cached
	}

	q := url.Values{}
	q.Set("limit", orDefault(filters["page_size"], "100"))

	var resp inventoryItemsResp
	res := a.exec.Get(ctx, a.cfg.baseURL()+inventoryAPI+"/inventory_item?"+q.Encode(), &resp)
	if !res.Success {
		return res
	}

	records := make([]model.CanonicalInventoryRecord, 0, len(resp.InventoryItems))
	for _, item := range resp.InventoryItems {
		records = append(records, model.CanonicalInventoryRecord{
			SKU:      item.SKU,
			Quantity: item.Availability.ShipToLocationAvailability.Quantity,
		})
	}
	out := adapter.OK(res.StatusCode, records)
	a.cache.Set(key, out)
	return out
}

func (a *Adapter) UpdateInventory(ctx context.Context, rec model.CanonicalInventoryRecord) adapter.OperationResult {
	if err := rec.Validate(); err != nil {
		return adapter.Fail(adapter.KindConfigurationInvalid, 0, err.Error())
	}
	return a.pushQuantity(ctx, rec.SKU, rec.Quantity)
}

// ReserveInventory 平台没有预留原语，按可售数量扣减表达：available = quantity - reserved
func (a *Adapter) ReserveInventory(ctx context.Context, rec model.CanonicalInventoryRecord) adapter.OperationResult {
	if err := rec.Validate(); err != nil {
		return adapter.Fail(adapter.KindConfigurationInvalid, 0, err.Error())
	}
	available := rec.Quantity - rec.Reserved
	if available < 0 {
		available = 0
	}
	return a.pushQuantity(ctx, rec.SKU, available)
}

// pushQuantity 走 bulk 接口，一次只带一个 sku（批量聚合在协调器层做）
func (a *Adapter) pushQuantity(ctx context.Context, sku string, quantity int) adapter.OperationResult {
	entry := bulkPriceQuantityEntry{SKU: sku}
	entry.ShipToLocationAvailability = &struct {
		Quantity int `json:"quantity"`
	}{Quantity: quantity}

	var resp bulkPriceQuantityResp
	res := a.exec.Post(ctx,
		a.cfg.baseURL()+inventoryAPI+"/bulk_update_price_quantity",
		bulkPriceQuantityReq{Requests: []bulkPriceQuantityEntry{entry}},
		&resp)
	if !res.Success {
		return res
	}

	// bulk 接口整体 200，单条结果要看子状态码
	for _, r := range resp.Responses {
		if r.SKU == sku && r.StatusCode >= 400 {
			return adapter.Failf(adapter.KindMarketplaceAPIError, r.StatusCode, "quantity update rejected for sku %s", sku)
		}
	}
	return adapter.OK(res.StatusCode, map[string]interface{}{"sku": sku, "quantity": quantity})
}

// ---- 辅助 ----

func (a *Adapter) itemURL(sku string) string {
	return a.cfg.baseURL() + inventoryAPI + "/inventory_item/" + url.PathEscape(sku)
}

func (a *Adapter) offersBySKUURL(sku string) string {
	return a.cfg.baseURL() + inventoryAPI + "/offer?sku=" + url.QueryEscape(sku)
}

// findOfferBySKU 查 sku 对应的 offer 半件
// (nil, nil) 表示确实没有 offer；(nil, res) 表示查询本身失败
func (a *Adapter) findOfferBySKU(ctx context.Context, sku string) (*offerDTO, *adapter.OperationResult) {
	var offers offersResp
	res := a.exec.Get(ctx, a.offersBySKUURL(sku), &offers)
	if !res.Success {
		if res.StatusCode == http.StatusNotFound {
			return nil, nil
		}
		res.Message = "list offers: " + res.Message
		return nil, &res
	}
	if len(offers.Offers) == 0 {
		return nil, nil
	}
	return &offers.Offers[0], nil
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
