// Package trendyol 实现直接 CRUD 家族适配器：同步 REST 写入，
// 写接口返回 batchRequestId，最终结果由批次查询接口兜底。
package trendyol

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"marketsync_v1_202608/internal/adapter"
	"marketsync_v1_202608/internal/auth"
	"marketsync_v1_202608/internal/model"
)

type Adapter struct {
	cfg    Config
	source *auth.StaticKeySource
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

	// 静态密钥对：Basic 头 + 平台要求的集成方 UA，构建一次永不过期
	source := auth.NewStaticKeySource(map[string]string{
		"Authorization": auth.BasicAuthValue(cfg.APIKey, cfg.APISecret),
		"User-Agent":    fmt.Sprintf("%s - SelfIntegration", cfg.SupplierID),
	})

	return &Adapter{
		cfg:    cfg,
		source: source,
		exec:   adapter.NewExecutor(model.MarketplaceTrendyol, client, source, adapter.ShapeErrorList, log),
		cache:  adapter.NewReadCache(),
		log:    log.With("marketplace", model.MarketplaceTrendyol),
	}
}

func (a *Adapter) Name() string { return model.MarketplaceTrendyol }

func (a *Adapter) ValidateConfiguration() adapter.ValidationResult {
	errs := a.cfg.Validate()
	return adapter.ValidationResult{Valid: len(errs) == 0, Errors: errs}
}

func (a *Adapter) GetRequirements() []adapter.Requirement {
	return []adapter.Requirement{
		{Name: "supplier_id", Label: "Supplier ID", Required: true},
		{Name: "api_key", Label: "API Key", Required: true},
		{Name: "api_secret", Label: "API Secret", Required: true},
		{Name: "operator", Label: "Operator", Required: false, Validation: "tr / stage / az", Default: "tr"},
	}
}

// TestConnection 静态密钥没有独立的换 token 环节，鉴权与接口连通性一次探测
func (a *Adapter) TestConnection(ctx context.Context) adapter.OperationResult {
	report := adapter.ConnectionReport{}

	if _, err := a.source.Headers(ctx); err != nil {
		report.AuthError = err.Error()
		res := adapter.Fail(adapter.KindAuthenticationFailed, http.StatusUnauthorized, err.Error())
		res.Data = report
		return res
	}

	res := a.exec.Get(ctx, a.cfg.productsURL()+"?page=0&size=1", nil)
	report.AuthOK = res.ErrorKind != adapter.KindAuthenticationFailed && res.StatusCode != http.StatusUnauthorized
	report.APIOK = res.Success
	if !res.Success {
		report.APIError = res.Message
		if !report.AuthOK {
			report.AuthError = res.Message
		}
	} else {
		report.AuthOK = true
	}
	res.Data = report
	return res
}

// ---- 商品 ----

// CreateProduct 同步提交，异步生效：返回 batchRequestId 供调用方追踪
func (a *Adapter) CreateProduct(ctx context.Context, p model.CanonicalProduct) adapter.OperationResult {
	if err := p.Validate(); err != nil {
		return adapter.Fail(adapter.KindConfigurationInvalid, 0, err.Error())
	}
	var batch batchResp
	res := a.exec.Post(ctx, a.cfg.productsURL(),
		createProductsReq{Items: []productDTO{toProductDTO(p, a.cfg.currency())}}, &batch)
	if !res.Success {
		return res
	}
	a.log.Infow("product submitted", "sku", p.SKU, "batch_request_id", batch.BatchRequestID)
	return adapter.OK(res.StatusCode, map[string]interface{}{
		"sku":              p.SKU,
		"status":           "pending",
		"batch_request_id": batch.BatchRequestID,
	})
}

// UpdateProduct 同一个端点按 barcode 幂等覆盖
func (a *Adapter) UpdateProduct(ctx context.Context, p model.CanonicalProduct) adapter.OperationResult {
	if err := p.Validate(); err != nil {
		return adapter.Fail(adapter.KindConfigurationInvalid, 0, err.Error())
	}
	var batch batchResp
	res := a.exec.Put(ctx, a.cfg.productsURL(),
		createProductsReq{Items: []productDTO{toProductDTO(p, a.cfg.currency())}}, &batch)
	if !res.Success {
		return res
	}
	return adapter.OK(res.StatusCode, map[string]interface{}{
		"sku":              p.SKU,
		"status":           "pending",
		"batch_request_id": batch.BatchRequestID,
	})
}

// DeleteProduct 平台没有物理删除，归档等价于下架删除
func (a *Adapter) DeleteProduct(ctx context.Context, sku string) adapter.OperationResult {
	if sku == "" {
		return adapter.Fail(adapter.KindConfigurationInvalid, 0, "sku 不能为空")
	}
	var batch batchResp
	res := a.exec.Do(ctx, http.MethodDelete, a.cfg.productsURL(),
		createProductsReq{Items: []productDTO{{Barcode: sku}}}, &batch)
	if !res.Success {
		return res
	}
	return adapter.OK(res.StatusCode, map[string]interface{}{
		"sku":              sku,
		"deleted":          true,
		"batch_request_id": batch.BatchRequestID,
	})
}

func (a *Adapter) GetProduct(ctx context.Context, sku string) adapter.OperationResult {
	if sku == "" {
		return adapter.Fail(adapter.KindConfigurationInvalid, 0, "sku 不能为空")
	}
	var resp productsResp
	res := a.exec.Get(ctx, a.cfg.productsURL()+"?barcode="+url.QueryEscape(sku), &resp)
	if !res.Success {
		return res
	}
	if len(resp.Content) == 0 {
		return adapter.Failf(adapter.KindMarketplaceAPIError, http.StatusNotFound, "product %s not found", sku)
	}
	return adapter.OK(res.StatusCode, fromProductDTO(resp.Content[0], a.cfg.currency()))
}

func (a *Adapter) ListProducts(ctx context.Context, filters adapter.Filters) adapter.OperationResult {
	key := a.cache.Key(a.Name(), "ListProducts", filters)
	if cached, ok := a.cache.Get(key); ok {
		return cached
	}

	q := url.Values{}
	q.Set("page", orDefault(filters["page"], "0"))
	q.Set("size", orDefault(filters["page_size"], "50"))
	if approved := filters["approved"]; approved != "" {
		q.Set("approved", approved)
	}

	var resp productsResp
	res := a.exec.Get(ctx, a.cfg.productsURL()+"?"+q.Encode(), &resp)
	if !res.Success {
		return res
	}

	products := make([]model.CanonicalProduct, 0, len(resp.Content))
	for _, d := range resp.Content {
		products = append(products, fromProductDTO(d, a.cfg.currency()))
	}
	out := adapter.OK(res.StatusCode, map[string]interface{}{
		"products":    products,
		"total":       resp.TotalElements,
		"total_pages": resp.TotalPages,
		"page":        resp.Page,
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
	q.Set("page", orDefault(filters["page"], "0"))
	q.Set("size", orDefault(filters["page_size"], "50"))
	if status := filters["status"]; status != "" {
		q.Set("status", status)
	}

	var resp ordersResp
	res := a.exec.Get(ctx, a.cfg.ordersURL()+"?"+q.Encode(), &resp)
	if !res.Success {
		return res
	}

	orders := make([]model.CanonicalOrder, 0, len(resp.Content))
	for _, pkg := range resp.Content {
		orders = append(orders, packageToOrder(pkg, a.cfg.currency()))
	}
	out := adapter.OK(res.StatusCode, map[string]interface{}{
		"orders":      orders,
		"total":       resp.TotalElements,
		"total_pages": resp.TotalPages,
	})
	a.cache.Set(key, out)
	return out
}

// GetOrder 平台没有单订单端点，按订单号过滤列表接口取第一条
func (a *Adapter) GetOrder(ctx context.Context, id string) adapter.OperationResult {
	var resp ordersResp
	res := a.exec.Get(ctx, a.cfg.ordersURL()+"?orderNumber="+url.QueryEscape(id), &resp)
	if !res.Success {
		return res
	}
	if len(resp.Content) == 0 {
		return adapter.Failf(adapter.KindMarketplaceAPIError, http.StatusNotFound, "order %s not found", id)
	}
	return adapter.OK(res.StatusCode, packageToOrder(resp.Content[0], a.cfg.currency()))
}

// UpdateOrderFulfillment orderID 传发货包 id（GetOrders 返回的 ID 字段）
func (a *Adapter) UpdateOrderFulfillment(ctx context.Context, orderID string, f model.CanonicalFulfillment) adapter.OperationResult {
	if orderID == "" {
		return adapter.Fail(adapter.KindConfigurationInvalid, 0, "order id 不能为空")
	}
	if f.TrackingNumber == "" {
		return adapter.Fail(adapter.KindConfigurationInvalid, 0, "tracking number 不能为空")
	}
	res := a.exec.Put(ctx, a.cfg.shipmentURL(orderID), trackingReq{TrackingNumber: f.TrackingNumber}, nil)
	if !res.Success {
		return res
	}
	return adapter.OK(res.StatusCode, map[string]interface{}{"order_id": orderID, "tracking_number": f.TrackingNumber})
}

// ---- 库存 ----

// GetInventory 平台没有独立库存接口，从商品列表投影出库存视图
func (a *Adapter) GetInventory(ctx context.Context, filters adapter.Filters) adapter.OperationResult {
	key := a.cache.Key(a.Name(), "GetInventory", filters)
	if cached, ok := a.cache.Get(key); ok {
		return cached
	}

	q := url.Values{}
	q.Set("page", orDefault(filters["page"], "0"))
	q.Set("size", orDefault(filters["page_size"], "100"))

	var resp productsResp
	res := a.exec.Get(ctx, a.cfg.productsURL()+"?"+q.Encode(), &resp)
	if !res.Success {
		return res
	}

	records := make([]model.CanonicalInventoryRecord, 0, len(resp.Content))
	for _, d := range resp.Content {
		records = append(records, model.CanonicalInventoryRecord{
			SKU:      d.Barcode,
			Quantity: d.Quantity,
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

// ReserveInventory 没有预留原语，按可售数量扣减表达
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

func (a *Adapter) pushQuantity(ctx context.Context, sku string, quantity int) adapter.OperationResult {
	var batch batchResp
	res := a.exec.Post(ctx, a.cfg.priceStockURL(),
		priceStockReq{Items: []priceStockItem{{Barcode: sku, Quantity: quantity}}}, &batch)
	if !res.Success {
		return res
	}
	return adapter.OK(res.StatusCode, map[string]interface{}{
		"sku":              sku,
		"quantity":         quantity,
		"batch_request_id": batch.BatchRequestID,
	})
}

// BatchStatus 查询写操作批次的最终结果（写接口只回 batchRequestId）
func (a *Adapter) BatchStatus(ctx context.Context, batchID string) adapter.OperationResult {
	if batchID == "" {
		return adapter.Fail(adapter.KindConfigurationInvalid, 0, "batch id 不能为空")
	}
	var status batchStatusResp
	res := a.exec.Get(ctx, a.cfg.batchStatusURL(url.PathEscape(batchID)), &status)
	if !res.Success {
		return res
	}
	return adapter.OK(res.StatusCode, status)
}

// ---- 辅助 ----

func strconvID(id int64) string {
	return strconv.FormatInt(id, 10)
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
