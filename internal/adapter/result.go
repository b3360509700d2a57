package adapter

import "fmt"

// ErrorKind 错误分类：所有失败都归入这 5 类，调用方按类分支处理
type ErrorKind string

const (
	KindNone                 ErrorKind = ""
	KindConfigurationInvalid ErrorKind = "configuration_invalid" // 本地校验失败，不会发起网络调用
	KindAuthenticationFailed ErrorKind = "authentication_failed" // 换取 Token 失败，提示修复凭证
	KindMarketplaceAPIError  ErrorKind = "marketplace_api_error" // 平台返回非 2xx 或传输失败
	KindUnsupportedOperation ErrorKind = "unsupported_operation" // 平台能力缺失，附替代建议
	KindPartialBatchFailure  ErrorKind = "partial_batch_failure" // 批量操作部分失败
)

// OperationResult 统一操作结果封装
// 约定：adapter 公开方法永远返回它，异常绝不穿透 adapter 边界
type OperationResult struct {
	Success    bool        `json:"success"`
	StatusCode int         `json:"status_code"`
	Data       interface{} `json:"data,omitempty"`

	ErrorKind ErrorKind `json:"error_kind,omitempty"`
	ErrorCode string    `json:"error_code,omitempty"` // 平台自己的错误码（如有）
	Message   string    `json:"message,omitempty"`

	// Recommendation 仅 unsupported 场景填写：给调用方的替代路径
	Recommendation string `json:"recommendation,omitempty"`
}

// OK 成功结果
func OK(statusCode int, data interface{}) OperationResult {
	return OperationResult{Success: true, StatusCode: statusCode, Data: data}
}

// Fail 失败结果
func Fail(kind ErrorKind, statusCode int, message string) OperationResult {
	return OperationResult{
		Success:    false,
		StatusCode: statusCode,
		ErrorKind:  kind,
		Message:    message,
	}
}

// Failf 带格式化消息的失败结果
func Failf(kind ErrorKind, statusCode int, format string, args ...interface{}) OperationResult {
	return Fail(kind, statusCode, fmt.Sprintf(format, args...))
}

// Unsupported 平台能力缺失：必须带上替代建议，绝不静默成功
func Unsupported(operation, recommendation string) OperationResult {
	return OperationResult{
		Success:        false,
		ErrorKind:      KindUnsupportedOperation,
		Message:        fmt.Sprintf("operation %s is not supported by this marketplace", operation),
		Recommendation: recommendation,
	}
}

// ValidationResult 配置校验结果（纯本地，不联网）
type ValidationResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}

// ConnectionReport TestConnection 的数据载荷
// 鉴权与 API 可达性分开上报：Token 换成功但业务接口挂掉是两种故障
type ConnectionReport struct {
	AuthOK    bool   `json:"auth_ok"`
	APIOK     bool   `json:"api_ok"`
	AuthError string `json:"auth_error,omitempty"`
	APIError  string `json:"api_error,omitempty"`
}

// BatchItemError 批量操作中单项失败记录
type BatchItemError struct {
	Index      int    `json:"index"`      // 输入切片中的原始下标
	Identifier string `json:"identifier"` // 业务标识（通常为 sku）
	Message    string `json:"message"`
}

// BatchResult 批量操作聚合结果
// 不变式：Succeeded + Failed == Total；Success == (Failed == 0)
// 部分成功如实呈现，绝不折叠成整体成功
type BatchResult struct {
	BatchID   string           `json:"batch_id"`
	Success   bool             `json:"success"`
	Total     int              `json:"total"`
	Succeeded int              `json:"succeeded"`
	Failed    int              `json:"failed"`
	Errors    []BatchItemError `json:"errors,omitempty"`
}
