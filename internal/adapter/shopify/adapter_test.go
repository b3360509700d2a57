package shopify

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
	shopifysdk "marketsync_v1_202608/pkg/shopify"
)

func newAdminServer(t *testing.T) (*httptest.Server, *[]string) {
	t.Helper()
	var calls []string
	prefix := "/admin/api/" + shopifysdk.APIVersion

	mux := http.NewServeMux()
	mux.HandleFunc(prefix+"/shop.json", func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, "shop")
		if r.Header.Get("X-Shopify-Access-Token") != "shpat_token" {
			t.Errorf("access token header = %q", r.Header.Get("X-Shopify-Access-Token"))
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"shop":{"id":1,"name":"Demo","myshopify_domain":"demo.myshopify.com","currency":"USD"}}`))
	})
	mux.HandleFunc(prefix+"/products.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.Method == http.MethodPost {
			calls = append(calls, "create-product")
			var req shopifysdk.ProductReq
			json.NewDecoder(r.Body).Decode(&req)
			if len(req.Product.Variants) != 1 || req.Product.Variants[0].SKU == "" {
				t.Errorf("product must carry one sku-bearing variant: %+v", req.Product)
			}
			req.Product.ID = 9001
			req.Product.Variants[0].ID = 8001
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(shopifysdk.ProductResp{Product: req.Product})
			return
		}
		calls = append(calls, "list-products")
		w.Write([]byte(`{"products":[{"id":9001,"title":"Linen Tote","status":"active","variants":[{"id":8001,"sku":"SKU-S1","price":"24.00","inventory_quantity":5}]}]}`))
	})
	mux.HandleFunc(prefix+"/graphql.json", func(w http.ResponseWriter, r *http.Request) {
		var req shopifysdk.GraphQLReq
		json.NewDecoder(r.Body).Decode(&req)
		w.Header().Set("Content-Type", "application/json")

		if strings.Contains(req.Query, "taxonomy") {
			calls = append(calls, "graphql-taxonomy")
			if req.Variables["search"] == "" {
				t.Errorf("taxonomy variables = %v", req.Variables)
			}
			w.Write([]byte(`{"data":{"taxonomy":{"categories":{"edges":[{"node":{"id":"gid://shopify/TaxonomyCategory/aa-1","fullName":"Apparel & Accessories > Bags","isLeaf":true}}]}}}}`))
			return
		}

		calls = append(calls, "graphql")
		if !strings.Contains(req.Variables["query"].(string), "sku:") {
			t.Errorf("graphql variables = %v", req.Variables)
		}
		w.Write([]byte(`{"data":{"productVariants":{"edges":[{"node":{"id":"gid://shopify/ProductVariant/8001","sku":"SKU-S1","inventoryItem":{"id":"gid://shopify/InventoryItem/7001"},"product":{"id":"gid://shopify/Product/9001"}}}]}}}`))
	})
	mux.HandleFunc(prefix+"/products/9001.json", func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, strings.ToLower(r.Method)+"-product-9001")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"product":{"id":9001,"title":"Linen Tote","status":"active","variants":[{"id":8001,"sku":"SKU-S1","price":"24.00","inventory_quantity":5}]}}`))
	})
	mux.HandleFunc(prefix+"/locations.json", func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, "locations")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"locations":[{"id":31,"name":"Warehouse","active":true}]}`))
	})
	mux.HandleFunc(prefix+"/inventory_levels/set.json", func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, "set-level")
		var req shopifysdk.InventorySetReq
		json.NewDecoder(r.Body).Decode(&req)
		if req.LocationID != 31 || req.InventoryItemID != 7001 {
			t.Errorf("inventory set = %+v", req)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(shopifysdk.InventoryLevelResp{
			InventoryLevel: shopifysdk.InventoryLevel{InventoryItemID: req.InventoryItemID, LocationID: req.LocationID, Available: req.Available},
		})
	})

	return httptest.NewServer(mux), &calls
}

func testAdapter(url string) *Adapter {
	return New(Config{
		StoreDomain: "demo.myshopify.com",
		AccessToken: "shpat_token",
		Endpoint:    url,
	}, nil)
}

// ==================== SDK 前置校验 ====================

// 坏域名不报错到构建方，而是让所有操作统一短路
func TestBadDomainShortCircuitsEverything(t *testing.T) {
	a := New(Config{StoreDomain: "demo.example.com", AccessToken: "tok"}, nil)

	v := a.ValidateConfiguration()
	if v.Valid {
		t.Fatal("non-myshopify domain must be invalid")
	}

	res := a.CreateProduct(context.Background(), model.CanonicalProduct{SKU: "x", Title: "y"})
	if res.Success {
		t.Fatal("expected short circuit")
	}
	if res.ErrorKind != adapter.KindConfigurationInvalid {
		t.Errorf("error kind = %s", res.ErrorKind)
	}
	if !strings.Contains(res.Message, "SDK not initialized") {
		t.Errorf("message = %q", res.Message)
	}

	if res := a.GetOrders(context.Background(), nil); res.Success {
		t.Error("reads must short circuit too")
	}
}

func TestMissingTokenIsInvalid(t *testing.T) {
	a := New(Config{StoreDomain: "demo.myshopify.com"}, nil)
	if v := a.ValidateConfiguration(); v.Valid {
		t.Error("missing access token must be invalid")
	}
}

// ==================== 操作 ====================

func TestCreateProduct(t *testing.T) {
	server, _ := newAdminServer(t)
	defer server.Close()

	res := testAdapter(server.URL).CreateProduct(context.Background(), model.CanonicalProduct{
		SKU:      "SKU-S1",
		Title:    "Linen Tote",
		Price:    decimal.NewFromFloat(24.0),
		Quantity: 5,
	})
	if !res.Success {
		t.Fatalf("CreateProduct() failed: %s", res.Message)
	}
	p := res.Data.(model.CanonicalProduct)
	if p.RemoteID != "9001" {
		t.Errorf("remote id = %q, want 9001", p.RemoteID)
	}
}

// 更新链路：GraphQL 反查在前，REST 写入在后
func TestUpdateProduct_ResolvesVariantFirst(t *testing.T) {
	server, calls := newAdminServer(t)
	defer server.Close()

	res := testAdapter(server.URL).UpdateProduct(context.Background(), model.CanonicalProduct{
		SKU:   "SKU-S1",
		Title: "Linen Tote v2",
		Price: decimal.NewFromFloat(26.0),
	})
	if !res.Success {
		t.Fatalf("UpdateProduct() failed: %s", res.Message)
	}

	want := []string{"graphql", "put-product-9001"}
	if len(*calls) != 2 || (*calls)[0] != want[0] || (*calls)[1] != want[1] {
		t.Errorf("calls = %v, want %v", *calls, want)
	}
}

func TestUpdateInventory_UsesPrimaryLocation(t *testing.T) {
	server, calls := newAdminServer(t)
	defer server.Close()
	a := testAdapter(server.URL)

	res := a.UpdateInventory(context.Background(), model.CanonicalInventoryRecord{SKU: "SKU-S1", Quantity: 11})
	if !res.Success {
		t.Fatalf("UpdateInventory() failed: %s", res.Message)
	}

	// 第二次写入不应再查 locations（已缓存）
	if res := a.UpdateInventory(context.Background(), model.CanonicalInventoryRecord{SKU: "SKU-S1", Quantity: 12}); !res.Success {
		t.Fatalf("second UpdateInventory() failed: %s", res.Message)
	}
	locHits := 0
	for _, c := range *calls {
		if c == "locations" {
			locHits++
		}
	}
	if locHits != 1 {
		t.Errorf("locations hits = %d, want 1", locHits)
	}
}

func TestReserveInventory_Unsupported(t *testing.T) {
	server, _ := newAdminServer(t)
	defer server.Close()

	res := testAdapter(server.URL).ReserveInventory(context.Background(), model.CanonicalInventoryRecord{SKU: "SKU-S1", Quantity: 5})
	if res.ErrorKind != adapter.KindUnsupportedOperation {
		t.Errorf("error kind = %s, want %s", res.ErrorKind, adapter.KindUnsupportedOperation)
	}
	if res.Recommendation == "" {
		t.Error("unsupported result must carry a recommendation")
	}
}

func TestSuggestCategory(t *testing.T) {
	server, _ := newAdminServer(t)
	defer server.Close()

	res := testAdapter(server.URL).SuggestCategory(context.Background(), "tote bag")
	if !res.Success {
		t.Fatalf("SuggestCategory() failed: %s", res.Message)
	}
	cats := res.Data.([]shopifysdk.TaxonomyCategory)
	if len(cats) != 1 || cats[0].FullName != "Apparel & Accessories > Bags" {
		t.Errorf("categories = %+v", cats)
	}
	if !cats[0].IsLeaf {
		t.Error("leaf flag must survive decoding")
	}
}

func TestTestConnection(t *testing.T) {
	server, _ := newAdminServer(t)
	defer server.Close()

	res := testAdapter(server.URL).TestConnection(context.Background())
	if !res.Success {
		t.Fatalf("TestConnection() failed: %s", res.Message)
	}
	report := res.Data.(adapter.ConnectionReport)
	if !report.AuthOK || !report.APIOK {
		t.Errorf("report = %+v", report)
	}
}

// ==================== 转换 ====================

func TestProductRoundTrip(t *testing.T) {
	p := model.CanonicalProduct{
		SKU:       "SKU-S1",
		Title:     "Linen Tote",
		Brand:     "Canvas Co",
		Price:     decimal.NewFromFloat(24.0),
		Quantity:  5,
		Condition: model.ConditionUsed,
		Images:    []string{"https://img.example.com/tote.jpg"},
	}

	got := fromShopifyProduct(toShopifyProduct(p, "USD"), "USD")
	if got.SKU != p.SKU || got.Title != p.Title || got.Brand != p.Brand {
		t.Errorf("identity lost: %+v", got)
	}
	if !got.Price.Equal(p.Price) {
		t.Errorf("price = %s, want %s", got.Price, p.Price)
	}
	if got.Condition != model.ConditionUsed {
		t.Errorf("condition = %s, want Used (carried through tags)", got.Condition)
	}
	if len(got.Images) != 1 {
		t.Errorf("images = %v", got.Images)
	}
}
