package client

import (
	"context"
	"net/url"
	"sync"
	"time"
)

// RefCache 对引用数据请求做 TTL 记忆化，同一键在有效期内只打一次上游。
// 键由端点与参数拼成，详情类请求不应使用它。
type RefCache struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.Mutex
	entries map[string]refEntry
}

type refEntry struct {
	value     any
	expiresAt time.Time
}

// NewRefCache 构造缓存。ttl 到期后下一次访问重新拉取。
func NewRefCache(ttl time.Duration) *RefCache {
	return &RefCache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]refEntry),
	}
}

// CacheKey 由端点路径与查询参数生成稳定的缓存键。
func CacheKey(endpoint string, params url.Values) string {
	if len(params) == 0 {
		return endpoint
	}
	return endpoint + "?" + params.Encode()
}

// GetOrFetch 返回缓存值，缺失或过期时调用 fetch 并回填。
// fetch 失败不污染缓存，下一次访问会再次尝试。
func (c *RefCache) GetOrFetch(ctx context.Context, key string, fetch func(ctx context.Context) (any, error)) (any, error) {
	c.mu.Lock()
	if entry, ok := c.entries[key]; ok && c.now().Before(entry.expiresAt) {
		c.mu.Unlock()
		return entry.value, nil
	}
	c.mu.Unlock()

	value, err := fetch(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[key] = refEntry{value: value, expiresAt: c.now().Add(c.ttl)}
	c.mu.Unlock()
	return value, nil
}

// Invalidate 删除一个键，下一次访问必然重新拉取。
func (c *RefCache) Invalidate(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}
