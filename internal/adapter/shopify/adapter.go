// Package shopify 实现 SDK 中介家族适配器：端点与载荷由 pkg/shopify 客户端提供，
// 出站传输仍统一走执行器，客户端构建失败时所有操作前置短路。
package shopify

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"marketsync_v1_202608/internal/adapter"
	"marketsync_v1_202608/internal/auth"
	"marketsync_v1_202608/internal/model"
	shopifysdk "marketsync_v1_202608/pkg/shopify"
)

// Config Shopify 适配器配置
type Config struct {
	StoreDomain string // 必须以 .myshopify.com 结尾
	AccessToken string
	Currency    string // 缺省 USD

	// 测试覆盖项
	Endpoint string
}

func (c Config) currency() string {
	if c.Currency == "" {
		return "USD"
	}
	return c.Currency
}

type Adapter struct {
	cfg    Config
	sdk    *shopifysdk.Client
	sdkErr error // 客户端构建失败原因，非空时所有操作短路
	exec   *adapter.Executor
	cache  *adapter.ReadCache
	log    *zap.SugaredLogger

	locationID int64 // 主发货地缓存，首个库存写入时解析
}

var _ adapter.MarketplaceAdapter = (*Adapter)(nil)

func New(cfg Config, log *zap.SugaredLogger) *Adapter {
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	a := &Adapter{
		cfg:   cfg,
		cache: adapter.NewReadCache(),
		log:   log.With("marketplace", model.MarketplaceShopify),
	}

	sdk, err := shopifysdk.NewClient(cfg.StoreDomain, cfg.AccessToken)
	if err != nil {
		// 不在构建期报错：契约要求坏配置通过 ValidateConfiguration / 操作结果暴露
		a.sdkErr = err
		return a
	}
	sdk.Endpoint = cfg.Endpoint
	a.sdk = sdk

	client := adapter.NewRestyClient()
	source := auth.NewStaticKeySource(sdk.AuthHeaders())
	a.exec = adapter.NewExecutor(model.MarketplaceShopify, client, source, adapter.ShapeMessage, log)
	return a
}

func (a *Adapter) Name() string { return model.MarketplaceShopify }

// guard SDK 未初始化时的统一短路
func (a *Adapter) guard() *adapter.OperationResult {
	if a.sdkErr == nil {
		return nil
	}
	res := adapter.Fail(adapter.KindConfigurationInvalid, 0, "SDK not initialized: "+a.sdkErr.Error())
	return &res
}

func (a *Adapter) ValidateConfiguration() adapter.ValidationResult {
	if a.sdkErr != nil {
		return adapter.ValidationResult{Valid: false, Errors: []string{a.sdkErr.Error()}}
	}
	return adapter.ValidationResult{Valid: true}
}

func (a *Adapter) GetRequirements() []adapter.Requirement {
	return []adapter.Requirement{
		{Name: "store_domain", Label: "Store Domain", Required: true, Validation: "must end with .myshopify.com"},
		{Name: "access_token", Label: "Admin API Access Token", Required: true},
	}
}

func (a *Adapter) TestConnection(ctx context.Context) adapter.OperationResult {
	report := adapter.ConnectionReport{}
	if failed := a.guard(); failed != nil {
		report.AuthError = a.sdkErr.Error()
		failed.Data = report
		return *failed
	}

	var shop shopifysdk.ShopResp
	res := a.exec.Get(ctx, a.sdk.RestURL("shop.json"), &shop)
	report.AuthOK = res.StatusCode != http.StatusUnauthorized && res.StatusCode != http.StatusForbidden
	report.APIOK = res.Success
	if !res.Success {
		report.APIError = res.Message
		if !report.AuthOK {
			report.AuthError = res.Message
		}
	}
	res.Data = report
	return res
}

// ---- 商品 ----

func (a *Adapter) CreateProduct(ctx context.Context, p model.CanonicalProduct) adapter.OperationResult {
	if failed := a.guard(); failed != nil {
		return *failed
	}
	if err := p.Validate(); err != nil {
		return adapter.Fail(adapter.KindConfigurationInvalid, 0, err.Error())
	}

	var created shopifysdk.ProductResp
	res := a.exec.Post(ctx, a.sdk.RestURL("products.json"),
		shopifysdk.ProductReq{Product: toShopifyProduct(p, a.cfg.currency())}, &created)
	if !res.Success {
		return res
	}
	a.log.Infow("product created", "sku", p.SKU, "product_id", created.Product.ID)
	return adapter.OK(res.StatusCode, fromShopifyProduct(created.Product, a.cfg.currency()))
}

// UpdateProduct sku 只在变体上，先 GraphQL 反查商品 id 再 PUT
func (a *Adapter) UpdateProduct(ctx context.Context, p model.CanonicalProduct) adapter.OperationResult {
	if failed := a.guard(); failed != nil {
		return *failed
	}
	if err := p.Validate(); err != nil {
		return adapter.Fail(adapter.KindConfigurationInvalid, 0, err.Error())
	}

	ref, failed := a.resolveVariant(ctx, p.SKU)
	if failed != nil {
		return *failed
	}

	body := toShopifyProduct(p, a.cfg.currency())
	variantID, _ := strconv.ParseInt(ref.VariantID, 10, 64)
	body.Variants[0].ID = variantID

	var updated shopifysdk.ProductResp
	res := a.exec.Put(ctx, a.sdk.RestURL("products/"+ref.ProductID+".json"),
		shopifysdk.ProductReq{Product: body}, &updated)
	if !res.Success {
		return res
	}
	return adapter.OK(res.StatusCode, fromShopifyProduct(updated.Product, a.cfg.currency()))
}

func (a *Adapter) DeleteProduct(ctx context.Context, sku string) adapter.OperationResult {
	if failed := a.guard(); failed != nil {
		return *failed
	}
	if sku == "" {
		return adapter.Fail(adapter.KindConfigurationInvalid, 0, "sku 不能为空")
	}

	ref, failed := a.resolveVariant(ctx, sku)
	if failed != nil {
		return *failed
	}
	res := a.exec.Delete(ctx, a.sdk.RestURL("products/"+ref.ProductID+".json"))
	if !res.Success {
		return res
	}
	return adapter.OK(res.StatusCode, map[string]interface{}{"sku": sku, "deleted": true})
}

func (a *Adapter) GetProduct(ctx context.Context, sku string) adapter.OperationResult {
	if failed := a.guard(); failed != nil {
		return *failed
	}
	if sku == "" {
		return adapter.Fail(adapter.KindConfigurationInvalid, 0, "sku 不能为空")
	}

	ref, failed := a.resolveVariant(ctx, sku)
	if failed != nil {
		return *failed
	}
	var resp shopifysdk.ProductResp
	res := a.exec.Get(ctx, a.sdk.RestURL("products/"+ref.ProductID+".json"), &resp)
	if !res.Success {
		return res
	}
	return adapter.OK(res.StatusCode, fromShopifyProduct(resp.Product, a.cfg.currency()))
}

func (a *Adapter) ListProducts(ctx context.Context, filters adapter.Filters) adapter.OperationResult {
	if failed := a.guard(); failed != nil {
		return *failed
	}
	key := a.cache.Key(a.Name(), "ListProducts", filters)
	if cached, ok := a.cache.Get(key); ok {
		return cached
	}

	q := url.Values{}
	q.Set("limit", orDefault(filters["page_size"], "50"))
	if status := filters["status"]; status != "" {
		q.Set("status", status)
	}

	var resp shopifysdk.ProductsResp
	res := a.exec.Get(ctx, a.sdk.RestURL("products.json")+"?"+q.Encode(), &resp)
	if !res.Success {
		return res
	}

	products := make([]model.CanonicalProduct, 0, len(resp.Products))
	for _, d := range resp.Products {
		products = append(products, fromShopifyProduct(d, a.cfg.currency()))
	}
	out := adapter.OK(res.StatusCode, map[string]interface{}{
		"products": products,
		"total":    len(products),
	})
	a.cache.Set(key, out)
	return out
}

// ---- 订单 ----

func (a *Adapter) GetOrders(ctx context.Context, filters adapter.Filters) adapter.OperationResult {
	if failed := a.guard(); failed != nil {
		return *failed
	}
	key := a.cache.Key(a.Name(), "GetOrders", filters)
	if cached, ok := a.cache.Get(key); ok {
		return cached
	}

	q := url.Values{}
	q.Set("limit", orDefault(filters["page_size"], "50"))
	q.Set("status", orDefault(filters["status"], "any"))
	if created := filters["created_after"]; created != "" {
		q.Set("created_at_min", created)
	}

	var resp shopifysdk.OrdersResp
	res := a.exec.Get(ctx, a.sdk.RestURL("orders.json")+"?"+q.Encode(), &resp)
	if !res.Success {
		return res
	}

	orders := make([]model.CanonicalOrder, 0, len(resp.Orders))
	for _, o := range resp.Orders {
		orders = append(orders, orderToCanonical(o))
	}
	out := adapter.OK(res.StatusCode, map[string]interface{}{
		"orders": orders,
		"total":  len(orders),
	})
	a.cache.Set(key, out)
	return out
}

func (a *Adapter) GetOrder(ctx context.Context, id string) adapter.OperationResult {
	if failed := a.guard(); failed != nil {
		return *failed
	}
	var resp shopifysdk.OrderResp
	res := a.exec.Get(ctx, a.sdk.RestURL("orders/"+url.PathEscape(id)+".json"), &resp)
	if !res.Success {
		return res
	}
	return adapter.OK(res.StatusCode, orderToCanonical(resp.Order))
}

// UpdateOrderFulfillment fulfillment order 模型：先查单子的履约单，再整单回传
func (a *Adapter) UpdateOrderFulfillment(ctx context.Context, orderID string, f model.CanonicalFulfillment) adapter.OperationResult {
	if failed := a.guard(); failed != nil {
		return *failed
	}
	if orderID == "" {
		return adapter.Fail(adapter.KindConfigurationInvalid, 0, "order id 不能为空")
	}

	var fos shopifysdk.FulfillmentOrdersResp
	res := a.exec.Get(ctx, a.sdk.RestURL("orders/"+url.PathEscape(orderID)+"/fulfillment_orders.json"), &fos)
	if !res.Success {
		res.Message = "list fulfillment orders: " + res.Message
		return res
	}
	if len(fos.FulfillmentOrders) == 0 {
		return adapter.Failf(adapter.KindMarketplaceAPIError, http.StatusNotFound, "no fulfillment orders for order %s", orderID)
	}

	var req shopifysdk.FulfillmentReq
	req.Fulfillment.TrackingInfo = shopifysdk.TrackingInfo{Number: f.TrackingNumber, Company: f.Carrier}
	req.Fulfillment.NotifyCustomer = true
	for _, fo := range fos.FulfillmentOrders {
		req.Fulfillment.LineItemsByFulfillment = append(req.Fulfillment.LineItemsByFulfillment,
			shopifysdk.FulfillmentOrderRef{FulfillmentOrderID: fo.ID})
	}

	res = a.exec.Post(ctx, a.sdk.RestURL("fulfillments.json"), req, nil)
	if !res.Success {
		return res
	}
	return adapter.OK(res.StatusCode, map[string]interface{}{"order_id": orderID, "tracking_number": f.TrackingNumber})
}

// ---- 库存 ----

// GetInventory 从商品列表的变体投影出库存视图，省掉逐地点的 inventory_levels 翻页
func (a *Adapter) GetInventory(ctx context.Context, filters adapter.Filters) adapter.OperationResult {
	if failed := a.guard(); failed != nil {
		return *failed
	}
	key := a.cache.Key(a.Name(), "GetInventory", filters)
	if cached, ok := a.cache.Get(key); ok {
		return cached
	}

	var resp shopifysdk.ProductsResp
	res := a.exec.Get(ctx, a.sdk.RestURL("products.json")+"?limit="+orDefault(filters["page_size"], "100"), &resp)
	if !res.Success {
		return res
	}

	var records []model.CanonicalInventoryRecord
	for _, d := range resp.Products {
		for _, v := range d.Variants {
			if v.SKU == "" {
				continue
			}
			records = append(records, model.CanonicalInventoryRecord{
				SKU:      v.SKU,
				Quantity: v.InventoryQuantity,
			})
		}
	}
	out := adapter.OK(res.StatusCode, records)
	a.cache.Set(key, out)
	return out
}

func (a *Adapter) UpdateInventory(ctx context.Context, rec model.CanonicalInventoryRecord) adapter.OperationResult {
	if failed := a.guard(); failed != nil {
		return *failed
	}
	if err := rec.Validate(); err != nil {
		return adapter.Fail(adapter.KindConfigurationInvalid, 0, err.Error())
	}

	ref, failed := a.resolveVariant(ctx, rec.SKU)
	if failed != nil {
		return *failed
	}
	locID, failed := a.primaryLocation(ctx)
	if failed != nil {
		return *failed
	}

	itemID, _ := strconv.ParseInt(ref.InventoryItemID, 10, 64)
	var level shopifysdk.InventoryLevelResp
	res := a.exec.Post(ctx, a.sdk.RestURL("inventory_levels/set.json"),
		shopifysdk.InventorySetReq{LocationID: locID, InventoryItemID: itemID, Available: rec.Quantity}, &level)
	if !res.Success {
		return res
	}
	return adapter.OK(res.StatusCode, map[string]interface{}{
		"sku":      rec.SKU,
		"quantity": level.InventoryLevel.Available,
	})
}

func (a *Adapter) ReserveInventory(_ context.Context, _ model.CanonicalInventoryRecord) adapter.OperationResult {
	return adapter.Unsupported("ReserveInventory",
		"shopify holds inventory automatically when an order is placed; push net quantity via UpdateInventory instead")
}

// SuggestCategory 按标题关键词取官方类目建议，建品前由调用方挑选后写入 category 属性
func (a *Adapter) SuggestCategory(ctx context.Context, keyword string) adapter.OperationResult {
	if failed := a.guard(); failed != nil {
		return *failed
	}
	if keyword == "" {
		return adapter.Fail(adapter.KindConfigurationInvalid, 0, "keyword 不能为空")
	}

	var resp shopifysdk.TaxonomySuggestResp
	res := a.exec.Post(ctx, a.sdk.GraphQLURL(), shopifysdk.GraphQLReq{
		Query:     shopifysdk.TaxonomySuggestQuery,
		Variables: map[string]interface{}{"search": keyword},
	}, &resp)
	if !res.Success {
		res.Message = "taxonomy suggest: " + res.Message
		return res
	}
	if msg := resp.FirstError(); msg != "" {
		return adapter.Fail(adapter.KindMarketplaceAPIError, res.StatusCode, "taxonomy suggest: "+msg)
	}
	return adapter.OK(res.StatusCode, resp.Categories())
}

// ---- 辅助 ----

// resolveVariant GraphQL 按 sku 反查变体（REST 不支持 sku 过滤）
func (a *Adapter) resolveVariant(ctx context.Context, sku string) (*shopifysdk.VariantRef, *adapter.OperationResult) {
	var resp shopifysdk.VariantBySKUResp
	res := a.exec.Post(ctx, a.sdk.GraphQLURL(), shopifysdk.GraphQLReq{
		Query:     shopifysdk.VariantBySKUQuery,
		Variables: map[string]interface{}{"query": "sku:" + sku},
	}, &resp)
	if !res.Success {
		res.Message = "variant lookup: " + res.Message
		return nil, &res
	}
	if msg := resp.FirstError(); msg != "" {
		bad := adapter.Fail(adapter.KindMarketplaceAPIError, res.StatusCode, "variant lookup: "+msg)
		return nil, &bad
	}
	ref := resp.Resolve()
	if ref == nil {
		bad := adapter.Failf(adapter.KindMarketplaceAPIError, http.StatusNotFound, "sku %s not found", sku)
		return nil, &bad
	}
	return ref, nil
}

// primaryLocation 解析并缓存主发货地 id（库存写入必须带 location）
func (a *Adapter) primaryLocation(ctx context.Context) (int64, *adapter.OperationResult) {
	if a.locationID != 0 {
		return a.locationID, nil
	}

	var resp shopifysdk.LocationsResp
	res := a.exec.Get(ctx, a.sdk.RestURL("locations.json"), &resp)
	if !res.Success {
		res.Message = "list locations: " + res.Message
		return 0, &res
	}
	for _, loc := range resp.Locations {
		if loc.Active {
			a.locationID = loc.ID
			return loc.ID, nil
		}
	}
	bad := adapter.Fail(adapter.KindMarketplaceAPIError, http.StatusNotFound, "no active location on store")
	return 0, &bad
}

func strconvID(id int64) string {
	return strconv.FormatInt(id, 10)
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
