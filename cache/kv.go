package cache

import (
	"context"
	"strings"
	"sync"

	"github.com/redis/go-redis/v9"
)

// KV is the string key-value store underneath the cache. Backed by Redis in
// production and by MemoryKV in tests, or when Redis is unreachable at boot.
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Del(ctx context.Context, keys ...string) error
	Keys(ctx context.Context, prefix string) ([]string, error)
}

type RedisKV struct {
	Client *redis.Client
}

func NewRedisKV(client *redis.Client) *RedisKV {
	return &RedisKV{Client: client}
}

func (r *RedisKV) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := r.Client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (r *RedisKV) Set(ctx context.Context, key, value string) error {
	return r.Client.Set(ctx, key, value, 0).Err()
}

func (r *RedisKV) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return r.Client.Del(ctx, keys...).Err()
}

func (r *RedisKV) Keys(ctx context.Context, prefix string) ([]string, error) {
	var out []string
	iter := r.Client.Scan(ctx, 0, prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		out = append(out, iter.Val())
	}
	return out, iter.Err()
}

// ScopedKV prepends a scope to every key so several sessions can share one
// backing store without colliding.
type ScopedKV struct {
	inner KV
	scope string
}

func NewScopedKV(inner KV, scope string) *ScopedKV {
	return &ScopedKV{inner: inner, scope: scope}
}

func (s *ScopedKV) Get(ctx context.Context, key string) (string, bool, error) {
	return s.inner.Get(ctx, s.scope+key)
}

func (s *ScopedKV) Set(ctx context.Context, key, value string) error {
	return s.inner.Set(ctx, s.scope+key, value)
}

func (s *ScopedKV) Del(ctx context.Context, keys ...string) error {
	scoped := make([]string, len(keys))
	for i, k := range keys {
		scoped[i] = s.scope + k
	}
	return s.inner.Del(ctx, scoped...)
}

func (s *ScopedKV) Keys(ctx context.Context, prefix string) ([]string, error) {
	keys, err := s.inner.Keys(ctx, s.scope+prefix)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = strings.TrimPrefix(k, s.scope)
	}
	return out, nil
}

// MemoryKV is the in-process fallback store.
type MemoryKV struct {
	mu   sync.RWMutex
	data map[string]string
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: map[string]string{}}
}

func (m *MemoryKV) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *MemoryKV) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *MemoryKV) Del(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

func (m *MemoryKV) Keys(_ context.Context, prefix string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []string
	for k := range m.data {
		if strings.HasPrefix(k, prefix) {
			out = append(out, k)
		}
	}
	return out, nil
}
