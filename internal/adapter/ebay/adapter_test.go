package ebay

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"marketsync_v1_202608/internal/adapter"
	"marketsync_v1_202608/internal/model"
)

// ==================== 测试辅助 ====================

type sellServer struct {
	*httptest.Server
	calls        []string
	failOffer    bool
	failWithdraw bool
	offersForSKU int // 查询时返回的 offer 条数
}

func newSellServer(t *testing.T) *sellServer {
	t.Helper()
	ss := &sellServer{offersForSKU: 1}
	mux := http.NewServeMux()

	mux.HandleFunc("/identity/v1/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.Header.Get("Authorization"), "Basic ") {
			t.Error("token exchange must use Basic auth")
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"app-tok","token_type":"Bearer","expires_in":7200}`))
	})

	mux.HandleFunc("/sell/inventory/v1/inventory_item/", func(w http.ResponseWriter, r *http.Request) {
		sku := strings.TrimPrefix(r.URL.Path, "/sell/inventory/v1/inventory_item/")
		switch r.Method {
		case http.MethodPut:
			ss.calls = append(ss.calls, "put-item:"+sku)
			var item inventoryItemDTO
			json.NewDecoder(r.Body).Decode(&item)
			if item.Product.Title == "" {
				t.Error("inventory item must carry the product half")
			}
			w.WriteHeader(http.StatusNoContent)
		case http.MethodDelete:
			ss.calls = append(ss.calls, "delete-item:"+sku)
			w.WriteHeader(http.StatusNoContent)
		}
	})

	mux.HandleFunc("/sell/inventory/v1/offer", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			ss.calls = append(ss.calls, "list-offers:"+r.URL.Query().Get("sku"))
			w.Header().Set("Content-Type", "application/json")
			if ss.offersForSKU == 0 {
				w.Write([]byte(`{"total":0,"offers":[]}`))
				return
			}
			w.Write([]byte(`{"total":1,"offers":[{"offerId":"offer-9","sku":"` + r.URL.Query().Get("sku") + `","marketplaceId":"EBAY_US","format":"FIXED_PRICE","availableQuantity":3,"status":"PUBLISHED","pricingSummary":{"price":{"value":"19.99","currency":"USD"}}}]}`))
			return
		}
		// POST: 创建 offer
		ss.calls = append(ss.calls, "create-offer")
		if ss.failOffer {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"errors":[{"errorId":25002,"message":"offer entity invalid"}]}`))
			return
		}
		var offer offerDTO
		json.NewDecoder(r.Body).Decode(&offer)
		if offer.SKU == "" {
			t.Error("offer must echo the sku")
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"offerId":"offer-9"}`))
	})

	mux.HandleFunc("/sell/inventory/v1/offer/", func(w http.ResponseWriter, r *http.Request) {
		rest := strings.TrimPrefix(r.URL.Path, "/sell/inventory/v1/offer/")
		if strings.HasSuffix(rest, "/withdraw") {
			ss.calls = append(ss.calls, "withdraw:"+strings.TrimSuffix(rest, "/withdraw"))
			if ss.failWithdraw {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte(`{"errors":[{"errorId":25713,"message":"offer is not published"}]}`))
				return
			}
			w.WriteHeader(http.StatusOK)
			return
		}
		if r.Method == http.MethodDelete {
			ss.calls = append(ss.calls, "delete-offer:"+rest)
			w.WriteHeader(http.StatusNoContent)
			return
		}
		ss.calls = append(ss.calls, "update-offer:"+rest)
		w.WriteHeader(http.StatusNoContent)
	})

	mux.HandleFunc("/sell/inventory/v1/bulk_update_price_quantity", func(w http.ResponseWriter, r *http.Request) {
		var req bulkPriceQuantityReq
		json.NewDecoder(r.Body).Decode(&req)
		ss.calls = append(ss.calls, "bulk-quantity")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"responses":[{"sku":"` + req.Requests[0].SKU + `","statusCode":200}]}`))
	})

	ss.Server = httptest.NewServer(mux)
	return ss
}

func testAdapter(server *sellServer) *Adapter {
	return New(Config{
		ClientID:      "appid",
		ClientSecret:  "appsecret",
		MarketplaceID: "EBAY_US",
		Endpoint:      server.URL,
	}, nil)
}

func testProduct() model.CanonicalProduct {
	return model.CanonicalProduct{
		SKU:      "SKU-9",
		Title:    "Vintage Camera Strap",
		Price:    decimal.NewFromFloat(19.99),
		Currency: "USD",
		Quantity: 3,
	}
}

// ==================== 两件套写入 ====================

// 创建 = 恰好一次 PUT item + 一次 POST offer，顺序固定
func TestCreateProduct_ItemThenOffer(t *testing.T) {
	server := newSellServer(t)
	defer server.Close()

	res := testAdapter(server).CreateProduct(context.Background(), testProduct())
	if !res.Success {
		t.Fatalf("CreateProduct() failed: %s", res.Message)
	}

	want := []string{"put-item:SKU-9", "create-offer"}
	if len(server.calls) != 2 || server.calls[0] != want[0] || server.calls[1] != want[1] {
		t.Fatalf("calls = %v, want %v", server.calls, want)
	}

	data := res.Data.(map[string]interface{})
	if data["offer_id"] != "offer-9" {
		t.Errorf("offer_id = %v", data["offer_id"])
	}
}

// offer 半件失败必须指明 item 半件已写入（半完成状态不可静默）
func TestCreateProduct_OfferFailureNamesPartialState(t *testing.T) {
	server := newSellServer(t)
	defer server.Close()
	server.failOffer = true

	res := testAdapter(server).CreateProduct(context.Background(), testProduct())
	if res.Success {
		t.Fatal("expected failure")
	}
	if !strings.Contains(res.Message, "inventory item already written") {
		t.Errorf("message = %q, must disclose the half-written state", res.Message)
	}
	if res.ErrorCode != "25002" {
		t.Errorf("error code = %q, want 25002", res.ErrorCode)
	}
}

func TestUpdateProduct_CreatesOfferWhenMissing(t *testing.T) {
	server := newSellServer(t)
	defer server.Close()
	server.offersForSKU = 0

	res := testAdapter(server).UpdateProduct(context.Background(), testProduct())
	if !res.Success {
		t.Fatalf("UpdateProduct() failed: %s", res.Message)
	}

	var created bool
	for _, c := range server.calls {
		if c == "create-offer" {
			created = true
		}
		if strings.HasPrefix(c, "update-offer:") {
			t.Error("must not update a non-existent offer")
		}
	}
	if !created {
		t.Error("missing offer half must be backfilled")
	}
}

// ==================== 删除顺序 ====================

// 删除顺序固定：withdraw -> delete offer -> delete item
func TestDeleteProduct_Ordering(t *testing.T) {
	server := newSellServer(t)
	defer server.Close()

	res := testAdapter(server).DeleteProduct(context.Background(), "SKU-9")
	if !res.Success {
		t.Fatalf("DeleteProduct() failed: %s", res.Message)
	}

	want := []string{"list-offers:SKU-9", "withdraw:offer-9", "delete-offer:offer-9", "delete-item:SKU-9"}
	if len(server.calls) != len(want) {
		t.Fatalf("calls = %v, want %v", server.calls, want)
	}
	for i := range want {
		if server.calls[i] != want[i] {
			t.Errorf("call[%d] = %s, want %s", i, server.calls[i], want[i])
		}
	}
}

// withdraw 对未发布 offer 报错时按尽力而为继续删除
func TestDeleteProduct_WithdrawFailureIsBestEffort(t *testing.T) {
	server := newSellServer(t)
	defer server.Close()
	server.failWithdraw = true

	res := testAdapter(server).DeleteProduct(context.Background(), "SKU-9")
	if !res.Success {
		t.Fatalf("DeleteProduct() must survive withdraw failure: %s", res.Message)
	}
	last := server.calls[len(server.calls)-1]
	if last != "delete-item:SKU-9" {
		t.Errorf("last call = %s, want delete-item:SKU-9", last)
	}
}

// ==================== 库存 ====================

func TestReserveInventory_DeductsFromAvailable(t *testing.T) {
	server := newSellServer(t)
	defer server.Close()

	a := testAdapter(server)
	res := a.ReserveInventory(context.Background(), model.CanonicalInventoryRecord{SKU: "SKU-9", Quantity: 10, Reserved: 4})
	if !res.Success {
		t.Fatalf("ReserveInventory() failed: %s", res.Message)
	}
	data := res.Data.(map[string]interface{})
	if data["quantity"] != 6 {
		t.Errorf("pushed quantity = %v, want 6 (10 - 4)", data["quantity"])
	}

	// 预留超过库存时收敛到 0，不推负数
	res = a.ReserveInventory(context.Background(), model.CanonicalInventoryRecord{SKU: "SKU-9", Quantity: 2, Reserved: 5})
	if !res.Success {
		t.Fatalf("ReserveInventory() failed: %s", res.Message)
	}
	data = res.Data.(map[string]interface{})
	if data["quantity"] != 0 {
		t.Errorf("pushed quantity = %v, want 0", data["quantity"])
	}
}

// ==================== 转换 ====================

func TestItemOfferRoundTrip(t *testing.T) {
	p := testProduct()
	p.Condition = model.ConditionRefurbished
	p.Attributes = map[string]string{"Color": "Black"}

	cfg := Config{MarketplaceID: "EBAY_US"}
	item, offer := toItemAndOffer(p, cfg)
	item.SKU = p.SKU // GET 响应里 sku 在条目顶层
	got := fromItemAndOffer(item, &offer, "USD")

	if got.SKU != p.SKU || got.Title != p.Title {
		t.Errorf("identity lost: %+v", got)
	}
	if !got.Price.Equal(p.Price) {
		t.Errorf("price = %s, want %s", got.Price, p.Price)
	}
	if got.Condition != model.ConditionRefurbished {
		t.Errorf("condition = %s", got.Condition)
	}
	if got.Attributes["Color"] != "Black" {
		t.Errorf("attributes = %v", got.Attributes)
	}
}

func TestOrderToCanonical(t *testing.T) {
	o := orderDTO{
		OrderID:                "ord-1",
		OrderFulfillmentStatus: "FULFILLED",
		OrderPaymentStatus:     "PAID",
		CreationDate:           "2026-08-01T10:00:00.000Z",
	}
	o.PricingSummary.Total = offerPriceDTO{Value: "59.90", Currency: "USD"}
	o.LineItems = []lineItemDTO{{SKU: "SKU-9", Title: "Strap", Quantity: 2, Total: offerPriceDTO{Value: "39.98"}}}

	got := orderToCanonical(o)
	if got.FulfillmentStatus != model.FulfillmentShipped {
		t.Errorf("fulfillment = %s, want shipped", got.FulfillmentStatus)
	}
	if !got.TotalAmount.Equal(decimal.RequireFromString("59.90")) {
		t.Errorf("total = %s", got.TotalAmount)
	}
	if len(got.Items) != 1 || got.Items[0].Quantity != 2 {
		t.Errorf("items = %+v", got.Items)
	}
}

func TestConfigValidate(t *testing.T) {
	errs := Config{Environment: "qa"}.Validate()
	if len(errs) != 4 {
		t.Errorf("errors = %d (%v), want 4", len(errs), errs)
	}
	if errs := (Config{ClientID: "a", ClientSecret: "b", MarketplaceID: "EBAY_DE", Environment: "sandbox"}).Validate(); len(errs) != 0 {
		t.Errorf("valid config rejected: %v", errs)
	}
}

var _ adapter.MarketplaceAdapter = (*Adapter)(nil)
