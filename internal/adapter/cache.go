package adapter

import (
	"crypto/sha1"
	"encoding/hex"
	"sort"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// 读缓存 TTL：写操作不失效缓存，写后最多 300s 的陈旧读是接受的取舍，不是 bug
const (
	readCacheTTL     = 300 * time.Second
	readCacheCleanup = 10 * time.Minute
)

// ReadCache 列表/读接口专用缓存，写接口绝不碰它
type ReadCache struct {
	c *gocache.Cache
}

func NewReadCache() *ReadCache {
	return &ReadCache{c: gocache.New(readCacheTTL, readCacheCleanup)}
}

// Key 生成确定性缓存键：(平台, 操作, 过滤条件哈希)
// 过滤条件按键名排序后再哈希，同样的条件不同传参顺序必须命中同一条目
func (rc *ReadCache) Key(marketplace, operation string, filters Filters) string {
	keys := make([]string, 0, len(filters))
	for k := range filters {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for _, k := range keys {
		sb.WriteString(k)
		sb.WriteByte('=')
		sb.WriteString(filters[k])
		sb.WriteByte('&')
	}
	sum := sha1.Sum([]byte(sb.String()))

	return marketplace + "|" + operation + "|" + hex.EncodeToString(sum[:])
}

// Get 命中时返回缓存的结果副本
func (rc *ReadCache) Get(key string) (OperationResult, bool) {
	if v, ok := rc.c.Get(key); ok {
		return v.(OperationResult), true
	}
	return OperationResult{}, false
}

// Set 仅缓存成功结果，失败结果不值得复用
func (rc *ReadCache) Set(key string, result OperationResult) {
	if !result.Success {
		return
	}
	rc.c.Set(key, result, gocache.DefaultExpiration)
}
