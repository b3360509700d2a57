package trendyol

import "fmt"

// 运营区主机表，按 operator 选择网关
var operatorHosts = map[string]string{
	"tr":    "https://apigw.trendyol.com",
	"stage": "https://stageapigw.trendyol.com",
	"az":    "https://apigw.trendyol.az",
}

const (
	productAPIFmt  = "/integration/product/sellers/%s/products"
	priceStockFmt  = "/integration/inventory/sellers/%s/products/price-and-inventory"
	ordersAPIFmt   = "/integration/order/sellers/%s/orders"
	shipmentFmt    = "/integration/order/sellers/%s/shipment-packages/%s/update-tracking-number"
	batchStatusFmt = "/integration/product/sellers/%s/products/batch-requests/%s"
)

// Config Trendyol 适配器配置：静态密钥对，无 token 生命周期
type Config struct {
	SupplierID string // seller id，出现在所有路径里
	APIKey     string
	APISecret  string
	Operator   string // tr / stage / az，缺省 tr
	Currency   string // 缺省 TRY

	// 测试覆盖项
	Endpoint string
}

func (c Config) Validate() []string {
	var errs []string
	if c.SupplierID == "" {
		errs = append(errs, "supplier_id is required")
	}
	if c.APIKey == "" {
		errs = append(errs, "api_key is required")
	}
	if c.APISecret == "" {
		errs = append(errs, "api_secret is required")
	}
	if c.Operator != "" {
		if _, ok := operatorHosts[c.Operator]; !ok {
			errs = append(errs, fmt.Sprintf("operator %q is invalid, expected one of tr/stage/az", c.Operator))
		}
	}
	return errs
}

func (c Config) baseURL() string {
	if c.Endpoint != "" {
		return c.Endpoint
	}
	if host, ok := operatorHosts[c.Operator]; ok {
		return host
	}
	return operatorHosts["tr"]
}

func (c Config) currency() string {
	if c.Currency == "" {
		return "TRY"
	}
	return c.Currency
}

func (c Config) productsURL() string {
	return c.baseURL() + fmt.Sprintf(productAPIFmt, c.SupplierID)
}

func (c Config) priceStockURL() string {
	return c.baseURL() + fmt.Sprintf(priceStockFmt, c.SupplierID)
}

func (c Config) ordersURL() string {
	return c.baseURL() + fmt.Sprintf(ordersAPIFmt, c.SupplierID)
}

func (c Config) shipmentURL(packageID string) string {
	return c.baseURL() + fmt.Sprintf(shipmentFmt, c.SupplierID, packageID)
}

func (c Config) batchStatusURL(batchID string) string {
	return c.baseURL() + fmt.Sprintf(batchStatusFmt, c.SupplierID, batchID)
}
