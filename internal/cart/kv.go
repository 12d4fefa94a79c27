package cart

import (
	"context"
	"fmt"
	"sync"
	"time"

	redisclient "github.com/villageessence/marketplace-backend/pkg/redis"
)

// RedisKV persists carts in Redis under the namespaced cart key with a TTL
// so abandoned sessions age out.
type RedisKV struct {
	client *redisclient.Client
	ttl    time.Duration
}

// NewRedisKV wraps the shared Redis client as a cart KV.
func NewRedisKV(client *redisclient.Client, ttl time.Duration) (*RedisKV, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	return &RedisKV{client: client, ttl: ttl}, nil
}

// GetCart returns the serialized cart, or empty when the key is missing.
func (r *RedisKV) GetCart(ctx context.Context, sessionID string) (string, error) {
	payload, err := r.client.Get(ctx, r.client.CartKey(sessionID))
	if err != nil {
		if redisclient.IsNil(err) {
			return "", nil
		}
		return "", err
	}
	return payload, nil
}

// SetCart writes the serialized cart, refreshing the TTL.
func (r *RedisKV) SetCart(ctx context.Context, sessionID, payload string) error {
	return r.client.Set(ctx, r.client.CartKey(sessionID), payload, r.ttl)
}

// MemoryKV is a process-local cart KV used by tests and as a degraded
// fallback when Redis is unavailable.
type MemoryKV struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewMemoryKV returns an empty in-memory cart KV.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: map[string]string{}}
}

func (m *MemoryKV) GetCart(_ context.Context, sessionID string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.data[sessionID], nil
}

func (m *MemoryKV) SetCart(_ context.Context, sessionID, payload string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[sessionID] = payload
	return nil
}
