package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"marketsync_v1_202608/internal/auth"
)

// ErrorShape 各平台声明自己的错误信封形状，执行器按形状提取人类可读信息
type ErrorShape int

const (
	ShapeErrorList ErrorShape = iota // {"errors":[{"code"/"errorId","message"}]}  amazon / ebay / trendyol
	ShapeMessage                     // {"message":"..."} 或 {"errors":"..."}      shopify
	ShapeOAuth                       // {"error","error_description"}             token 端点
)

// 提取不到任何信息时的兜底文案
const unknownMarketplaceError = "unknown marketplace error"

const (
	// Version 对外 UA 版本号
	Version = "1.0"
	// 全局默认超时（拉取商品列表可能比较慢，给 20s）
	defaultHTTPTimeout = 20 * time.Second
)

// Executor 请求执行器：全部出站调用的唯一咽喉
// 职责：(a) 注入鉴权头 (b) 发请求 (c) 分类结果 (d) 提取平台错误信息
// 传输层异常绝不穿透，一律折叠成 OperationResult
type Executor struct {
	marketplace string
	client      *resty.Client
	source      auth.TokenSource
	shape       ErrorShape
	log         *zap.SugaredLogger
}

func NewExecutor(marketplace string, client *resty.Client, source auth.TokenSource, shape ErrorShape, log *zap.SugaredLogger) *Executor {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Executor{
		marketplace: marketplace,
		client:      client,
		source:      source,
		shape:       shape,
		log:         log,
	}
}

// Do 执行一次出站调用
// body 为 nil 时不带请求体；out 不为 nil 时 2xx 响应会反序列化进去并作为 Data 返回
func (e *Executor) Do(ctx context.Context, method, url string, body, out interface{}) OperationResult {
	// 1. 鉴权（懒加载/刷新都在 source 内部完成）
	headers, err := e.source.Headers(ctx)
	if err != nil {
		if errors.Is(err, auth.ErrAuthenticationFailed) {
			e.log.Warnw("token acquisition failed", "marketplace", e.marketplace, "err", err)
			return Fail(KindAuthenticationFailed, http.StatusUnauthorized, err.Error())
		}
		return Fail(KindAuthenticationFailed, 0, err.Error())
	}

	// 2. 组装并发送
	req := e.client.R().SetContext(ctx).SetHeaders(headers)
	if body != nil {
		req.SetHeader("Content-Type", "application/json")
		req.SetBody(body)
	}
	if out != nil {
		req.SetResult(out)
	}

	resp, err := req.Execute(method, url)

	// A. 传输层错误（超时/连接失败）
	if err != nil {
		e.log.Warnw("transport error", "marketplace", e.marketplace, "method", method, "url", url, "err", err)
		return Failf(KindMarketplaceAPIError, 0, "network error: %v", err)
	}

	// B. 成功
	if resp.IsSuccess() {
		return OK(resp.StatusCode(), out)
	}

	// C. 平台拒绝：按声明的信封形状提取错误信息
	code, msg := extractError(e.shape, resp.Body())
	e.log.Warnw("marketplace rejected request",
		"marketplace", e.marketplace, "method", method, "url", url,
		"status", resp.StatusCode(), "code", code, "msg", msg)

	result := Fail(KindMarketplaceAPIError, resp.StatusCode(), msg)
	result.ErrorCode = code
	return result
}

// 便捷方法

func (e *Executor) Get(ctx context.Context, url string, out interface{}) OperationResult {
	return e.Do(ctx, http.MethodGet, url, nil, out)
}

func (e *Executor) Post(ctx context.Context, url string, body, out interface{}) OperationResult {
	return e.Do(ctx, http.MethodPost, url, body, out)
}

func (e *Executor) Put(ctx context.Context, url string, body, out interface{}) OperationResult {
	return e.Do(ctx, http.MethodPut, url, body, out)
}

func (e *Executor) Delete(ctx context.Context, url string) OperationResult {
	return e.Do(ctx, http.MethodDelete, url, nil, nil)
}

// extractError 按信封形状提取 (错误码, 错误信息)，全部失败则回退到兜底文案
func extractError(shape ErrorShape, body []byte) (code, msg string) {
	switch shape {
	case ShapeErrorList:
		// amazon: {"errors":[{"code":"InvalidInput","message":"..."}]}
		// ebay:   {"errors":[{"errorId":25001,"message":"..."}]}
		var env struct {
			Errors []map[string]interface{} `json:"errors"`
		}
		if json.Unmarshal(body, &env) == nil && len(env.Errors) > 0 {
			first := env.Errors[0]
			if m, ok := first["message"].(string); ok {
				msg = m
			}
			switch c := first["code"].(type) {
			case string:
				code = c
			case float64:
				code = strconv.FormatInt(int64(c), 10)
			}
			if code == "" {
				if c, ok := first["errorId"].(float64); ok {
					code = strconv.FormatInt(int64(c), 10)
				}
			}
		}

	case ShapeMessage:
		// shopify: {"errors":"Not Found"} / {"errors":{"title":["can't be blank"]}}
		// trendyol 部分接口: {"message":"..."}
		var env struct {
			Message string          `json:"message"`
			Errors  json.RawMessage `json:"errors"`
		}
		if json.Unmarshal(body, &env) == nil {
			if env.Message != "" {
				msg = env.Message
			} else if len(env.Errors) > 0 {
				var s string
				if json.Unmarshal(env.Errors, &s) == nil {
					msg = s
				} else {
					msg = string(env.Errors)
				}
			}
		}

	case ShapeOAuth:
		var env struct {
			Error            string `json:"error"`
			ErrorDescription string `json:"error_description"`
		}
		if json.Unmarshal(body, &env) == nil {
			if env.ErrorDescription != "" {
				msg = env.ErrorDescription
			} else {
				msg = env.Error
			}
		}
	}

	if msg == "" {
		msg = unknownMarketplaceError
	}
	return code, msg
}

// NewRestyClient 统一出站客户端：超时与 UA 全局一致
func NewRestyClient() *resty.Client {
	return resty.New().
		SetTimeout(defaultHTTPTimeout).
		SetHeader("User-Agent", fmt.Sprintf("MarketSync-Go/%s", Version))
}
