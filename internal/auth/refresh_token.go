package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
)

// RefreshTokenSource OAuth refresh-token 换取策略（Amazon LWA 家族）
// 凭证构建后不可变；可变的只有缓存的 access token，由互斥锁保护
type RefreshTokenSource struct {
	client       *resty.Client
	tokenURL     string
	clientID     string
	clientSecret string
	refreshToken string

	// HeaderName / HeaderPrefix 控制 token 的投递方式
	// 默认 Authorization: Bearer xxx；Amazon SP-API 要求 x-amz-access-token
	HeaderName   string
	HeaderPrefix string

	mu      sync.Mutex
	token   string
	expires time.Time
}

func NewRefreshTokenSource(client *resty.Client, tokenURL, clientID, clientSecret, refreshToken string) *RefreshTokenSource {
	return &RefreshTokenSource{
		client:       client,
		tokenURL:     tokenURL,
		clientID:     clientID,
		clientSecret: clientSecret,
		refreshToken: refreshToken,
		HeaderName:   "Authorization",
		HeaderPrefix: "Bearer ",
	}
}

// Headers 实现 TokenSource
func (s *RefreshTokenSource) Headers(ctx context.Context) (map[string]string, error) {
	tok, err := s.accessToken(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]string{s.HeaderName: s.HeaderPrefix + tok}, nil
}

// accessToken 懒加载 + 过期前 60s 主动换新，互斥锁保证并发下只发一次换取请求
func (s *RefreshTokenSource) accessToken(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token != "" && time.Now().Before(s.expires.Add(-expirySkew)) {
		return s.token, nil
	}

	// 组装换取请求
	var res tokenResp
	var oe oauthError
	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/x-www-form-urlencoded").
		SetFormData(map[string]string{
			"grant_type":    "refresh_token",
			"refresh_token": s.refreshToken,
			"client_id":     s.clientID,
			"client_secret": s.clientSecret,
		}).
		SetResult(&res).
		SetError(&oe).
		Post(s.tokenURL)

	// A. 网络层错误
	if err != nil {
		return "", fmt.Errorf("%w: token network error: %v", ErrAuthenticationFailed, err)
	}
	// B. 平台明确拒绝
	if resp.StatusCode() != 200 {
		return "", fmt.Errorf("%w: %s", ErrAuthenticationFailed, oe.describe(resp.StatusCode()))
	}
	if res.AccessToken == "" {
		return "", fmt.Errorf("%w: empty access_token in response", ErrAuthenticationFailed)
	}

	// C. 缓存
	s.token = res.AccessToken
	s.expires = time.Now().Add(time.Duration(res.ExpiresIn) * time.Second)
	return s.token, nil
}

// ForceRefresh 实现 Refresher：作废缓存并立刻换新
func (s *RefreshTokenSource) ForceRefresh(ctx context.Context) error {
	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()
	_, err := s.accessToken(ctx)
	return err
}

// ExpiresAt 实现 Refresher
func (s *RefreshTokenSource) ExpiresAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.expires
}
