package store

import (
	"context"

	"github.com/akolanti/DocForm/internal/config"
	"github.com/akolanti/DocForm/internal/data/redisStore"
	"github.com/akolanti/DocForm/pkg/logger_i"
)

const resultKeyPrefix = "extraction:"

// RedisResultCache keeps extraction responses keyed by file hash and type.
type RedisResultCache struct {
	store  *redisStore.Store
	logger *logger_i.Logger
}

// GetRedisResultCache returns nil when redis is offline.
func GetRedisResultCache(ctx context.Context, cfg config.Config) *RedisResultCache {
	rs := redisStore.GetRedisStore(ctx, cfg, config.RedisResultCache)
	if rs == nil {
		return nil
	}
	return &RedisResultCache{store: rs, logger: logger_i.NewLogger("ResultCache")}
}

func (c *RedisResultCache) GetResult(ctx context.Context, key string) ([]byte, bool) {
	val, err := c.store.Get(ctx, resultKeyPrefix+key)
	if c.store.IsNil(err) {
		return nil, false
	} else if err != nil {
		c.logger.FromContext(ctx).Warn("result cache read failed", "error", err)
		return nil, false
	}
	return []byte(val), true
}

func (c *RedisResultCache) SaveResult(ctx context.Context, key string, data []byte) error {
	return c.store.Set(ctx, resultKeyPrefix+key, data, config.RedisResultCacheTTL)
}

func TestResultCache(store *redisStore.Store) *RedisResultCache {
	return &RedisResultCache{store: store, logger: logger_i.NewLogger("test redis")}
}
