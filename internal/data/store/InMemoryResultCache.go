package store

import (
	"context"
	"sync"
	"time"
)

type cachedResult struct {
	data      []byte
	expiresAt time.Time
}

type InMemoryResultCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	results map[string]cachedResult
}

func InitInMemoryResultCache(ttl time.Duration) *InMemoryResultCache {
	return &InMemoryResultCache{
		ttl:     ttl,
		results: make(map[string]cachedResult),
	}
}

func (c *InMemoryResultCache) GetResult(ctx context.Context, key string) ([]byte, bool) {
	c.mu.RLock()
	entry, ok := c.results[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if time.Now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.results, key)
		c.mu.Unlock()
		return nil, false
	}
	return entry.data, true
}

func (c *InMemoryResultCache) SaveResult(ctx context.Context, key string, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.results[key] = cachedResult{data: data, expiresAt: time.Now().Add(c.ttl)}
	return nil
}
