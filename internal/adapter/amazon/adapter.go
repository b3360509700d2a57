// Package amazon 实现 feed 家族适配器：写操作走异步 feed 三步提交，
// 读操作走 listings / orders / fba inventory 同步接口。
package amazon

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"marketsync_v1_202608/internal/adapter"
	"marketsync_v1_202608/internal/auth"
	"marketsync_v1_202608/internal/model"
)

type Adapter struct {
	cfg      Config
	source   *auth.RefreshTokenSource
	exec     *adapter.Executor
	uploader *resty.Client // 预签名上传专用，不带鉴权
	cache    *adapter.ReadCache
	log      *zap.SugaredLogger
}

var _ adapter.MarketplaceAdapter = (*Adapter)(nil)

func New(cfg Config, log *zap.SugaredLogger) *Adapter {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	client := adapter.NewRestyClient()

	// LWA: access token 通过 x-amz-access-token 头投递
	source := auth.NewRefreshTokenSource(client, cfg.tokenURL(), cfg.ClientID, cfg.ClientSecret, cfg.RefreshToken)
	source.HeaderName = "x-amz-access-token"
	source.HeaderPrefix = ""

	return &Adapter{
		cfg:      cfg,
		source:   source,
		exec:     adapter.NewExecutor(model.MarketplaceAmazon, client, source, adapter.ShapeErrorList, log),
		uploader: adapter.NewRestyClient(),
		cache:    adapter.NewReadCache(),
		log:      log.With("marketplace", model.MarketplaceAmazon),
	}
}

func (a *Adapter) Name() string { return model.MarketplaceAmazon }

// Refresher 暴露 OAuth 保活能力（token 定时任务用）
func (a *Adapter) Refresher() auth.Refresher { return a.source }

func (a *Adapter) ValidateConfiguration() adapter.ValidationResult {
	errs := a.cfg.Validate()
	return adapter.ValidationResult{Valid: len(errs) == 0, Errors: errs}
}

func (a *Adapter) GetRequirements() []adapter.Requirement {
	return []adapter.Requirement{
		{Name: "seller_id", Label: "Seller ID", Required: true},
		{Name: "marketplace_id", Label: "Marketplace ID", Required: true, Validation: "e.g. ATVPDKIKX0DER for US"},
		{Name: "region", Label: "Region", Required: false, Validation: "na / eu / fe", Default: "na"},
		{Name: "client_id", Label: "LWA Client ID", Required: true},
		{Name: "client_secret", Label: "LWA Client Secret", Required: true},
		{Name: "refresh_token", Label: "LWA Refresh Token", Required: true},
	}
}

// TestConnection 先单独验证换 token，再打一次最便宜的业务接口
// 两个环节分开上报：token 换到了但业务接口挂，是另一种故障
func (a *Adapter) TestConnection(ctx context.Context) adapter.OperationResult {
	report := adapter.ConnectionReport{}

	if _, err := a.source.Headers(ctx); err != nil {
		report.AuthError = err.Error()
		res := adapter.Fail(adapter.KindAuthenticationFailed, http.StatusUnauthorized, err.Error())
		res.Data = report
		return res
	}
	report.AuthOK = true

	res := a.exec.Get(ctx, a.cfg.baseURL()+"/sellers/v1/marketplaceParticipations", nil)
	report.APIOK = res.Success
	if !res.Success {
		report.APIError = res.Message
	}
	res.Data = report
	return res
}

// ---- 商品 ----

// CreateProduct 异步接受：返回 pending + feedId 追踪号，调用方不得假定已完成
func (a *Adapter) CreateProduct(ctx context.Context, p model.CanonicalProduct) adapter.OperationResult {
	if err := p.Validate(); err != nil {
		return adapter.Fail(adapter.KindConfigurationInvalid, 0, err.Error())
	}
	payload := buildListingsFeed([]feedRow{toFeedRow(p, a.cfg.currency())})
	sub, failed := a.submitFeed(ctx, feedTypeListings, payload)
	if failed != nil {
		return *failed
	}
	return submitFeedResult(sub, p.SKU)
}

func (a *Adapter) UpdateProduct(ctx context.Context, p model.CanonicalProduct) adapter.OperationResult {
	// flat file 的创建与更新共用一张表：同 sku 再提交即覆盖
	return a.CreateProduct(ctx, p)
}

func (a *Adapter) DeleteProduct(_ context.Context, _ string) adapter.OperationResult {
	return adapter.Unsupported("DeleteProduct",
		"amazon listings cannot be deleted through the feed pipeline; set quantity to 0 via UpdateInventory to take the offer down")
}

func (a *Adapter) GetProduct(ctx context.Context, sku string) adapter.OperationResult {
	if sku == "" {
		return adapter.Fail(adapter.KindConfigurationInvalid, 0, "sku 不能为空")
	}
	var item listingsItemDTO
	endpoint := fmt.Sprintf("%s%s/items/%s/%s?marketplaceIds=%s&includedData=summaries,offers,fulfillmentAvailability",
		a.cfg.baseURL(), listingsAPIPath, a.cfg.SellerID, url.PathEscape(sku), a.cfg.MarketplaceID)
	res := a.exec.Get(ctx, endpoint, &item)
	if !res.Success {
		return res
	}
	return adapter.OK(res.StatusCode, itemToCanonical(item, a.cfg.currency()))
}

func (a *Adapter) ListProducts(ctx context.Context, filters adapter.Filters) adapter.OperationResult {
	key := a.cache.Key(a.Name(), "ListProducts", filters)
	if cached, ok := a.cache.Get(key); ok {
		return cached
	}

	q := url.Values{}
	q.Set("marketplaceIds", a.cfg.MarketplaceID)
	q.Set("pageSize", orDefault(filters["page_size"], "20"))
	if token := filters["page_token"]; token != "" {
		q.Set("pageToken", token)
	}

	var resp searchListingsResp
	endpoint := fmt.Sprintf("%s%s/items/%s?%s", a.cfg.baseURL(), listingsAPIPath, a.cfg.SellerID, q.Encode())
	res := a.exec.Get(ctx, endpoint, &resp)
	if !res.Success {
		return res
	}

	products := make([]model.CanonicalProduct, 0, len(resp.Items))
	for _, item := range resp.Items {
		products = append(products, itemToCanonical(item, a.cfg.currency()))
	}
	out := adapter.OK(res.StatusCode, map[string]interface{}{
		"products":   products,
		"total":      resp.NumberOfResults,
		"next_token": resp.Pagination.NextToken,
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
	q.Set("MarketplaceIds", a.cfg.MarketplaceID)
	// SP-API 要求必须给时间窗口，缺省取近 30 天
	q.Set("CreatedAfter", orDefault(filters["created_after"], defaultCreatedAfter()))
	if status := filters["status"]; status != "" {
		q.Set("OrderStatuses", status)
	}

	var resp ordersResp
	res := a.exec.Get(ctx, a.cfg.baseURL()+ordersAPIPath+"/orders?"+q.Encode(), &resp)
	if !res.Success {
		return res
	}

	orders := make([]model.CanonicalOrder, 0, len(resp.Payload.Orders))
	for _, o := range resp.Payload.Orders {
		orders = append(orders, orderToCanonical(o))
	}
	out := adapter.OK(res.StatusCode, map[string]interface{}{
		"orders":     orders,
		"next_token": resp.Payload.NextToken,
	})
	a.cache.Set(key, out)
	return out
}

func (a *Adapter) GetOrder(ctx context.Context, id string) adapter.OperationResult {
	var resp orderResp
	res := a.exec.Get(ctx, a.cfg.baseURL()+ordersAPIPath+"/orders/"+url.PathEscape(id), &resp)
	if !res.Success {
		return res
	}
	return adapter.OK(res.StatusCode, orderToCanonical(resp.Payload))
}

// UpdateOrderFulfillment 发货回传也走 feed 管道（平台的写模型只有 feed 一种）
func (a *Adapter) UpdateOrderFulfillment(ctx context.Context, orderID string, f model.CanonicalFulfillment) adapter.OperationResult {
	if orderID == "" {
		return adapter.Fail(adapter.KindConfigurationInvalid, 0, "order id 不能为空")
	}
	sub, failed := a.submitFeed(ctx, feedTypeFulfillment, buildFulfillmentFeed(orderID, f))
	if failed != nil {
		return *failed
	}
	return submitFeedResult(sub, "")
}

// ---- 库存 ----

func (a *Adapter) GetInventory(ctx context.Context, filters adapter.Filters) adapter.OperationResult {
	key := a.cache.Key(a.Name(), "GetInventory", filters)
	if cached, ok := a.cache.Get(key); ok {
		return cached
	}

	q := url.Values{}
	q.Set("granularityType", "Marketplace")
	q.Set("granularityId", a.cfg.MarketplaceID)
	q.Set("marketplaceIds", a.cfg.MarketplaceID)
	if skus := filters["sku"]; skus != "" {
		q.Set("sellerSkus", skus)
	}

	var resp inventorySummariesResp
	res := a.exec.Get(ctx, a.cfg.baseURL()+fbaInvAPIPath+"/summaries?"+q.Encode(), &resp)
	if !res.Success {
		return res
	}

	records := make([]model.CanonicalInventoryRecord, 0, len(resp.Payload.InventorySummaries))
	for _, s := range resp.Payload.InventorySummaries {
		records = append(records, summaryToInventory(s))
	}
	out := adapter.OK(res.StatusCode, records)
	a.cache.Set(key, out)
	return out
}

func (a *Adapter) UpdateInventory(ctx context.Context, rec model.CanonicalInventoryRecord) adapter.OperationResult {
	if err := rec.Validate(); err != nil {
		return adapter.Fail(adapter.KindConfigurationInvalid, 0, err.Error())
	}
	sub, failed := a.submitFeed(ctx, feedTypeInventory, buildInventoryFeed(rec.SKU, rec.Quantity))
	if failed != nil {
		return *failed
	}
	return submitFeedResult(sub, rec.SKU)
}

func (a *Adapter) ReserveInventory(_ context.Context, _ model.CanonicalInventoryRecord) adapter.OperationResult {
	return adapter.Unsupported("ReserveInventory",
		"amazon FBA manages reservations on the platform side; track reserved quantity locally and push net quantity via UpdateInventory")
}

// ---- 辅助 ----

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
