package auth

import (
	"context"
	"fmt"
)

// StaticKeySource 静态 Key 策略：不发任何网络请求，每次直接带上固定头
type StaticKeySource struct {
	headers map[string]string
}

func NewStaticKeySource(headers map[string]string) *StaticKeySource {
	return &StaticKeySource{headers: headers}
}

// Headers 实现 TokenSource
func (s *StaticKeySource) Headers(_ context.Context) (map[string]string, error) {
	if len(s.headers) == 0 {
		return nil, fmt.Errorf("%w: api key not configured", ErrAuthenticationFailed)
	}
	// 拷贝一份，防止调用方改动内部状态
	out := make(map[string]string, len(s.headers))
	for k, v := range s.headers {
		out[k] = v
	}
	return out, nil
}
