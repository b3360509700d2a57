package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
)

// ClientCredentialsSource OAuth client-credentials 换取策略（eBay 应用级 token）
// client_id/secret 以 Basic 头投递，scope 按平台要求限定
type ClientCredentialsSource struct {
	client       *resty.Client
	tokenURL     string
	clientID     string
	clientSecret string
	scope        string

	mu      sync.Mutex
	token   string
	expires time.Time
}

func NewClientCredentialsSource(client *resty.Client, tokenURL, clientID, clientSecret, scope string) *ClientCredentialsSource {
	return &ClientCredentialsSource{
		client:       client,
		tokenURL:     tokenURL,
		clientID:     clientID,
		clientSecret: clientSecret,
		scope:        scope,
	}
}

// Headers 实现 TokenSource
func (s *ClientCredentialsSource) Headers(ctx context.Context) (map[string]string, error) {
	tok, err := s.accessToken(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]string{"Authorization": "Bearer " + tok}, nil
}

func (s *ClientCredentialsSource) accessToken(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token != "" && time.Now().Before(s.expires.Add(-expirySkew)) {
		return s.token, nil
	}

	form := map[string]string{"grant_type": "client_credentials"}
	if s.scope != "" {
		form["scope"] = s.scope
	}

	var res tokenResp
	var oe oauthError
	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/x-www-form-urlencoded").
		SetHeader("Authorization", BasicAuthValue(s.clientID, s.clientSecret)).
		SetFormData(form).
		SetResult(&res).
		SetError(&oe).
		Post(s.tokenURL)

	if err != nil {
		return "", fmt.Errorf("%w: token network error: %v", ErrAuthenticationFailed, err)
	}
	if resp.StatusCode() != 200 {
		return "", fmt.Errorf("%w: %s", ErrAuthenticationFailed, oe.describe(resp.StatusCode()))
	}
	if res.AccessToken == "" {
		return "", fmt.Errorf("%w: empty access_token in response", ErrAuthenticationFailed)
	}

	s.token = res.AccessToken
	s.expires = time.Now().Add(time.Duration(res.ExpiresIn) * time.Second)
	return s.token, nil
}

// ForceRefresh 实现 Refresher
func (s *ClientCredentialsSource) ForceRefresh(ctx context.Context) error {
	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()
	_, err := s.accessToken(ctx)
	return err
}

// ExpiresAt 实现 Refresher
func (s *ClientCredentialsSource) ExpiresAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.expires
}
