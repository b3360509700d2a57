// Package shopify Shopify Admin API 轻客户端：
// 负责凭据校验、端点拼装与 GraphQL 查询文本，不做网络 IO。
package shopify

import (
	"errors"
	"fmt"
	"strings"
)

// Admin API 版本号锁定，升级需要整体回归
const APIVersion = "2024-07"

var (
	ErrInvalidDomain = errors.New("store domain must end with .myshopify.com")
	ErrMissingToken  = errors.New("access token is required")
)

// Client 持有店铺凭据与端点规则
// 零值不可用，必须经 NewClient 校验构建
type Client struct {
	StoreDomain string // 形如 demo-store.myshopify.com
	AccessToken string

	// 测试覆盖项，留空使用店铺域名
	Endpoint string
}

func NewClient(storeDomain, accessToken string) (*Client, error) {
	storeDomain = strings.TrimPrefix(strings.TrimSpace(storeDomain), "https://")
	if !strings.HasSuffix(storeDomain, ".myshopify.com") {
		return nil, fmt.Errorf("%w: got %q", ErrInvalidDomain, storeDomain)
	}
	if accessToken == "" {
		return nil, ErrMissingToken
	}
	return &Client{StoreDomain: storeDomain, AccessToken: accessToken}, nil
}

// AuthHeaders Admin API 的鉴权头（token 直传，无 OAuth 刷新流程）
func (c *Client) AuthHeaders() map[string]string {
	return map[string]string{"X-Shopify-Access-Token": c.AccessToken}
}

func (c *Client) baseURL() string {
	if c.Endpoint != "" {
		return c.Endpoint
	}
	return "https://" + c.StoreDomain
}

// RestURL REST 资源端点，resource 形如 "products.json" / "orders/123.json"
func (c *Client) RestURL(resource string) string {
	return fmt.Sprintf("%s/admin/api/%s/%s", c.baseURL(), APIVersion, resource)
}

// GraphQLURL GraphQL 端点（sku 反查等 REST 做不了的查询走这里）
func (c *Client) GraphQLURL() string {
	return fmt.Sprintf("%s/admin/api/%s/graphql.json", c.baseURL(), APIVersion)
}

// GIDNumeric 把 gid://shopify/Product/123 还原成 REST 用的数字 id
func GIDNumeric(gid string) string {
	if i := strings.LastIndex(gid, "/"); i >= 0 {
		return gid[i+1:]
	}
	return gid
}
