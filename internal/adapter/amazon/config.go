package amazon

import "fmt"

// 区域固定表：region 选择基础 URL（三个区域主机，不支持自定义区域）
var regionHosts = map[string]string{
	"na": "https://sellingpartnerapi-na.amazon.com",
	"eu": "https://sellingpartnerapi-eu.amazon.com",
	"fe": "https://sellingpartnerapi-fe.amazon.com",
}

// LWA token 固定端点
const lwaTokenURL = "https://api.amazon.com/auth/o2/token"

// Feed 相关常量
const (
	feedAPIPath     = "/feeds/2021-06-30"
	listingsAPIPath = "/listings/2021-08-01"
	ordersAPIPath   = "/orders/v0"
	fbaInvAPIPath   = "/fba/inventory/v1"

	feedContentType = "text/tab-separated-values; charset=UTF-8"

	feedTypeListings    = "POST_FLAT_FILE_LISTINGS_DATA"
	feedTypeInventory   = "POST_FLAT_FILE_INVLOADER_DATA"
	feedTypeFulfillment = "POST_FLAT_FILE_FULFILLMENT_DATA"
)

// Config Amazon SP-API 适配器配置
// 构建后不可变；账号配置变更时整个 adapter 重建
type Config struct {
	SellerID      string
	MarketplaceID string // 如 ATVPDKIKX0DER (US)
	Region        string // na / eu / fe
	ClientID      string // LWA client id
	ClientSecret  string
	RefreshToken  string
	Currency      string // 缺省 USD

	// 测试/代理场景覆盖项，留空使用官方地址
	Endpoint      string
	TokenEndpoint string
}

// Validate 纯本地校验，收集全部缺失项一次性返回
func (c Config) Validate() []string {
	var errs []string
	if c.SellerID == "" {
		errs = append(errs, "seller_id is required")
	}
	if c.MarketplaceID == "" {
		errs = append(errs, "marketplace_id is required")
	}
	if c.ClientID == "" {
		errs = append(errs, "client_id is required")
	}
	if c.ClientSecret == "" {
		errs = append(errs, "client_secret is required")
	}
	if c.RefreshToken == "" {
		errs = append(errs, "refresh_token is required")
	}
	if c.Region != "" {
		if _, ok := regionHosts[c.Region]; !ok {
			errs = append(errs, fmt.Sprintf("region %q is invalid, expected one of na/eu/fe", c.Region))
		}
	}
	return errs
}

// baseURL 按区域取主机，region 缺省按北美处理
func (c Config) baseURL() string {
	if c.Endpoint != "" {
		return c.Endpoint
	}
	if host, ok := regionHosts[c.Region]; ok {
		return host
	}
	return regionHosts["na"]
}

func (c Config) tokenURL() string {
	if c.TokenEndpoint != "" {
		return c.TokenEndpoint
	}
	return lwaTokenURL
}

func (c Config) currency() string {
	if c.Currency == "" {
		return "USD"
	}
	return c.Currency
}
