// Package auth 提供各平台的鉴权策略：
// OAuth refresh-token 换取、client-credentials 换取、静态 API Key 三种。
// Token 的获取/缓存/过期刷新全部收敛在 source 内部，调用方只拿请求头。
package auth

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"time"
)

// ErrAuthenticationFailed 鉴权失败哨兵错误
// 与下游 API 错误严格区分，调用方据此判断"修凭证"还是"稍后重试"
var ErrAuthenticationFailed = errors.New("authentication failed")

// 过期提前量：距离过期 60s 内视为已过期，主动换新
// （参考实现只做一次性懒加载，会话中途必然 401，这里按预期行为修正）
const expirySkew = 60 * time.Second

// TokenSource 鉴权策略统一接口
type TokenSource interface {
	// Headers 返回本次请求需要携带的鉴权头
	// OAuth 类实现在此处完成懒加载与过期刷新；静态 Key 直接拼装
	Headers(ctx context.Context) (map[string]string, error)
}

// Refresher OAuth 类 source 额外暴露的保活能力（供 token 定时任务使用）
type Refresher interface {
	ForceRefresh(ctx context.Context) error
	ExpiresAt() time.Time
}

// BasicAuthValue 生成 Basic 鉴权头的值
func BasicAuthValue(id, secret string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(id+":"+secret))
}

// tokenResp 通用 OAuth token 响应
type tokenResp struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// oauthError 通用 OAuth 错误响应
type oauthError struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

func (e *oauthError) describe(status int) string {
	if e.ErrorDescription != "" {
		return e.ErrorDescription
	}
	if e.Error != "" {
		return e.Error
	}
	return fmt.Sprintf("token endpoint status %d", status)
}
