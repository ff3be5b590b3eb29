// Package refcache 为参考数据（技能字典、行政区列表）提供带 TTL 的请求级缓存，
// 避免每个视图独立回源查库。
package refcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store 是缓存后端的最小抽象，生产环境用 Redis，测试用内存实现。
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// ErrMiss 表示键不存在或已过期。
var ErrMiss = errors.New("refcache: miss")

// Cache 以 endpoint+params 为键缓存 JSON 序列化后的参考数据。
type Cache struct {
	store Store
	ttl   time.Duration
}

// New 构造缓存。ttl<=0 时使用 5 分钟默认值。
func New(store Store, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Cache{store: store, ttl: ttl}
}

// GetOrLoad 先查缓存；未命中时调用 load 回源并写回。
// 回源失败不污染缓存，错误原样返回。缓存后端故障按未命中处理。
func (c *Cache) GetOrLoad(ctx context.Context, key string, dest any, load func(ctx context.Context) (any, error)) error {
	if raw, err := c.store.Get(ctx, key); err == nil {
		if err := json.Unmarshal(raw, dest); err == nil {
			return nil
		}
		// 反序列化失败说明缓存内容已不可用，走回源覆盖。
	}

	value, err := load(ctx)
	if err != nil {
		return err
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal cache value for %q: %w", key, err)
	}
	_ = c.store.Set(ctx, key, raw, c.ttl)

	return json.Unmarshal(raw, dest)
}

// RedisStore 用 Redis 实现 Store。
type RedisStore struct {
	client redis.UniversalClient
}

// NewRedisStore 包装一个 Redis 客户端。
func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	raw, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	return raw, err
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return s.client.Set(ctx, key, value, ttl).Err()
}
