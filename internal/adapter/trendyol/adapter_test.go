package trendyol

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"marketsync_v1_202608/internal/adapter"
	"marketsync_v1_202608/internal/model"
)

func newGatewayServer(t *testing.T) (*httptest.Server, *[]string) {
	t.Helper()
	var calls []string
	wantBasic := "Basic " + base64.StdEncoding.EncodeToString([]byte("key:secret"))

	mux := http.NewServeMux()
	mux.HandleFunc("/integration/product/sellers/1001/products", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != wantBasic {
			t.Errorf("auth header = %q", r.Header.Get("Authorization"))
		}
		if r.Header.Get("User-Agent") != "1001 - SelfIntegration" {
			t.Errorf("user agent = %q, want supplier integration format", r.Header.Get("User-Agent"))
		}

		switch r.Method {
		case http.MethodGet:
			calls = append(calls, "list")
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"totalElements":1,"totalPages":1,"page":0,"size":50,"content":[{"barcode":"SKU-T1","title":"Ceramic Mug","quantity":7,"salePrice":12.5,"listPrice":12.5,"approved":true,"onSale":true,"id":"c0ffee"}]}`))
		case http.MethodPost:
			calls = append(calls, "create")
			var req createProductsReq
			json.NewDecoder(r.Body).Decode(&req)
			if len(req.Items) != 1 || req.Items[0].Barcode != req.Items[0].StockCode {
				t.Errorf("barcode and stockCode must both carry the sku: %+v", req.Items)
			}
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"batchRequestId":"batch-42"}`))
		case http.MethodDelete:
			calls = append(calls, "delete")
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"batchRequestId":"batch-del"}`))
		}
	})
	mux.HandleFunc("/integration/inventory/sellers/1001/products/price-and-inventory", func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, "price-stock")
		var req priceStockReq
		json.NewDecoder(r.Body).Decode(&req)
		calls = append(calls, "qty:"+jsonNumber(req.Items[0].Quantity))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"batchRequestId":"batch-inv"}`))
	})
	mux.HandleFunc("/integration/order/sellers/1001/orders", func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, "orders")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"totalElements":1,"totalPages":1,"page":0,"content":[{"id":555,"orderNumber":"TY-1","status":"Shipped","grossAmount":25.0,"totalPrice":25.0,"currencyCode":"TRY","orderDate":1754990000000,"lines":[{"barcode":"SKU-T1","productName":"Ceramic Mug","quantity":2,"price":12.5,"id":1}]}]}`))
	})
	mux.HandleFunc("/integration/order/sellers/1001/shipment-packages/555/update-tracking-number", func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, "tracking")
		var req trackingReq
		json.NewDecoder(r.Body).Decode(&req)
		if req.TrackingNumber == "" {
			t.Error("tracking number must be forwarded")
		}
		w.WriteHeader(http.StatusOK)
	})

	return httptest.NewServer(mux), &calls
}

func jsonNumber(n int) string {
	b, _ := json.Marshal(n)
	return string(b)
}

func testAdapter(url string) *Adapter {
	return New(Config{
		SupplierID: "1001",
		APIKey:     "key",
		APISecret:  "secret",
		Endpoint:   url,
	}, nil)
}

func TestCreateProduct_ReturnsBatchID(t *testing.T) {
	server, _ := newGatewayServer(t)
	defer server.Close()

	res := testAdapter(server.URL).CreateProduct(context.Background(), model.CanonicalProduct{
		SKU:      "SKU-T1",
		Title:    "Ceramic Mug",
		Price:    decimal.NewFromFloat(12.5),
		Quantity: 7,
	})
	if !res.Success {
		t.Fatalf("CreateProduct() failed: %s", res.Message)
	}
	data := res.Data.(map[string]interface{})
	if data["batch_request_id"] != "batch-42" {
		t.Errorf("batch_request_id = %v", data["batch_request_id"])
	}
	if data["status"] != "pending" {
		t.Errorf("status = %v, want pending (batch not yet processed)", data["status"])
	}
}

func TestGetProduct_FiltersByBarcode(t *testing.T) {
	server, _ := newGatewayServer(t)
	defer server.Close()

	res := testAdapter(server.URL).GetProduct(context.Background(), "SKU-T1")
	if !res.Success {
		t.Fatalf("GetProduct() failed: %s", res.Message)
	}
	p := res.Data.(model.CanonicalProduct)
	if p.SKU != "SKU-T1" || p.Quantity != 7 {
		t.Errorf("product = %+v", p)
	}
	if p.Status != "active" {
		t.Errorf("status = %s, want active (onSale)", p.Status)
	}
	if p.Condition != model.ConditionNew {
		t.Errorf("condition = %s, platform only sells new", p.Condition)
	}
}

func TestReserveInventory_PushesNetQuantity(t *testing.T) {
	server, calls := newGatewayServer(t)
	defer server.Close()

	res := testAdapter(server.URL).ReserveInventory(context.Background(), model.CanonicalInventoryRecord{
		SKU: "SKU-T1", Quantity: 9, Reserved: 3,
	})
	if !res.Success {
		t.Fatalf("ReserveInventory() failed: %s", res.Message)
	}

	var sawNet bool
	for _, c := range *calls {
		if c == "qty:6" {
			sawNet = true
		}
	}
	if !sawNet {
		t.Errorf("calls = %v, want qty:6 pushed (9 - 3)", *calls)
	}
}

func TestUpdateOrderFulfillment_RequiresTracking(t *testing.T) {
	server, calls := newGatewayServer(t)
	defer server.Close()
	a := testAdapter(server.URL)

	res := a.UpdateOrderFulfillment(context.Background(), "555", model.CanonicalFulfillment{})
	if res.Success || res.ErrorKind != adapter.KindConfigurationInvalid {
		t.Errorf("missing tracking must fail locally, got %+v", res)
	}
	if len(*calls) != 0 {
		t.Error("local validation must not reach the network")
	}

	res = a.UpdateOrderFulfillment(context.Background(), "555", model.CanonicalFulfillment{TrackingNumber: "TRK-1"})
	if !res.Success {
		t.Fatalf("UpdateOrderFulfillment() failed: %s", res.Message)
	}
}

func TestGetOrders_MapsShipmentPackages(t *testing.T) {
	server, _ := newGatewayServer(t)
	defer server.Close()

	res := testAdapter(server.URL).GetOrders(context.Background(), nil)
	if !res.Success {
		t.Fatalf("GetOrders() failed: %s", res.Message)
	}
	data := res.Data.(map[string]interface{})
	orders := data["orders"].([]model.CanonicalOrder)
	if len(orders) != 1 {
		t.Fatalf("orders = %d, want 1", len(orders))
	}
	o := orders[0]
	if o.ID != "555" || o.OrderNumber != "TY-1" {
		t.Errorf("order identity = %+v", o)
	}
	if o.FulfillmentStatus != model.FulfillmentShipped {
		t.Errorf("fulfillment = %s, want shipped", o.FulfillmentStatus)
	}
	if o.CreatedAt.IsZero() {
		t.Error("epoch millis order date must be parsed")
	}
}

func TestListProducts_CachesSecondRead(t *testing.T) {
	server, calls := newGatewayServer(t)
	defer server.Close()
	a := testAdapter(server.URL)

	filters := adapter.Filters{"page": "0"}
	if res := a.ListProducts(context.Background(), filters); !res.Success {
		t.Fatalf("first ListProducts() failed: %s", res.Message)
	}
	if res := a.ListProducts(context.Background(), filters); !res.Success {
		t.Fatalf("second ListProducts() failed: %s", res.Message)
	}

	hits := 0
	for _, c := range *calls {
		if c == "list" {
			hits++
		}
	}
	if hits != 1 {
		t.Errorf("gateway list hits = %d, want 1 (second read served from cache)", hits)
	}
}

func TestConfigValidate(t *testing.T) {
	errs := Config{Operator: "eu"}.Validate()
	if len(errs) != 4 {
		t.Errorf("errors = %d (%v), want 4", len(errs), errs)
	}
	if errs := (Config{SupplierID: "1", APIKey: "k", APISecret: "s", Operator: "az"}).Validate(); len(errs) != 0 {
		t.Errorf("valid config rejected: %v", errs)
	}
}
