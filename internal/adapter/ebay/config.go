package ebay

import "fmt"

// 环境主机表：production / sandbox 两套，API 与 token 端点同主机
var envHosts = map[string]string{
	"production": "https://api.ebay.com",
	"sandbox":    "https://api.sandbox.ebay.com",
}

const (
	tokenPath       = "/identity/v1/oauth2/token"
	oauthScope      = "https://api.ebay.com/oauth/api_scope"
	inventoryAPI    = "/sell/inventory/v1"
	fulfillmentAPI  = "/sell/fulfillment/v1"
	defaultLocale   = "en-US"
	defaultCategory = "9355" // 缺省叶子类目，调用方可通过 attributes 覆盖
)

// Config eBay Sell API 适配器配置
type Config struct {
	ClientID          string
	ClientSecret      string
	Environment       string // production / sandbox，缺省 production
	MarketplaceID     string // 如 EBAY_US
	FulfillmentPolicy string
	PaymentPolicy     string
	ReturnPolicy      string
	MerchantLocation  string
	Currency          string // 缺省 USD

	// 测试覆盖项
	Endpoint      string
	TokenEndpoint string
}

func (c Config) Validate() []string {
	var errs []string
	if c.ClientID == "" {
		errs = append(errs, "client_id is required")
	}
	if c.ClientSecret == "" {
		errs = append(errs, "client_secret is required")
	}
	if c.MarketplaceID == "" {
		errs = append(errs, "marketplace_id is required")
	}
	if c.Environment != "" {
		if _, ok := envHosts[c.Environment]; !ok {
			errs = append(errs, fmt.Sprintf("environment %q is invalid, expected production or sandbox", c.Environment))
		}
	}
	return errs
}

func (c Config) baseURL() string {
	if c.Endpoint != "" {
		return c.Endpoint
	}
	if host, ok := envHosts[c.Environment]; ok {
		return host
	}
	return envHosts["production"]
}

func (c Config) tokenURL() string {
	if c.TokenEndpoint != "" {
		return c.TokenEndpoint
	}
	return c.baseURL() + tokenPath
}

func (c Config) currency() string {
	if c.Currency == "" {
		return "USD"
	}
	return c.Currency
}
