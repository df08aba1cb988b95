package store

import (
	"context"

	"github.com/akolanti/DocForm/internal/config"
	"github.com/akolanti/DocForm/internal/domain/sessionModel"
	"github.com/akolanti/DocForm/pkg/logger_i"
)

type SessionStore interface {
	SaveSession(ctx context.Context, session sessionModel.Session) error
	GetSession(ctx context.Context, sessionID string) (sessionModel.Session, bool)
	DeleteSession(ctx context.Context, sessionID string)
}

type ResultCache interface {
	GetResult(ctx context.Context, key string) ([]byte, bool)
	SaveResult(ctx context.Context, key string, data []byte) error
}

// NewSessionStore prefers redis and falls back to memory when it is offline.
func NewSessionStore(ctx context.Context, cfg config.Config) SessionStore {
	if rs := GetRedisSessionStore(ctx, cfg); rs != nil {
		return rs
	}
	logger_i.NewLogger("store").Warn("Redis is offline, sessions are kept in memory")
	return InitInMemorySessionStore()
}

func NewResultCache(ctx context.Context, cfg config.Config) ResultCache {
	if rc := GetRedisResultCache(ctx, cfg); rc != nil {
		return rc
	}
	logger_i.NewLogger("store").Warn("Redis is offline, extraction results are cached in memory")
	return InitInMemoryResultCache(config.RedisResultCacheTTL)
}
