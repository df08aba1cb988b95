package store

import (
	"context"
	"encoding/json"

	"github.com/akolanti/DocForm/internal/config"
	"github.com/akolanti/DocForm/internal/data/redisStore"
	"github.com/akolanti/DocForm/internal/domain/sessionModel"
	"github.com/akolanti/DocForm/pkg/logger_i"
)

const sessionKeyPrefix = "session:"

type RedisSessionStore struct {
	store  *redisStore.Store
	logger *logger_i.Logger
}

// GetRedisSessionStore returns nil when redis is offline.
func GetRedisSessionStore(ctx context.Context, cfg config.Config) *RedisSessionStore {
	rs := redisStore.GetRedisStore(ctx, cfg, config.RedisSessionStore)
	if rs == nil {
		return nil
	}
	return &RedisSessionStore{
		store:  rs,
		logger: logger_i.NewLogger("SessionStore"),
	}
}

func (s *RedisSessionStore) SaveSession(ctx context.Context, session sessionModel.Session) error {
	log := s.logger.FromContext(ctx).With("sessionId", session.ID)
	log.Debug("saving session")
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}

	err = s.store.Set(ctx, sessionKeyPrefix+session.ID, data, config.RedisSessionTTL)
	if err == nil {
		log.Debug("Saved session to Redis")
	}
	return err
}

func (s *RedisSessionStore) GetSession(ctx context.Context, sessionID string) (sessionModel.Session, bool) {
	var session sessionModel.Session
	log := s.logger.FromContext(ctx).With("sessionId", sessionID)
	val, err := s.store.Get(ctx, sessionKeyPrefix+sessionID)
	if s.store.IsNil(err) {
		return session, false
	} else if err != nil {
		log.Error("Error reading session from Redis", "error", err)
		return session, false
	}

	if err = json.Unmarshal([]byte(val), &session); err != nil {
		log.Error("Corrupt session in Redis", "error", err)
		return session, false
	}
	// a session in use does not expire
	if err = s.store.Touch(ctx, sessionKeyPrefix+sessionID, config.RedisSessionTTL); err != nil {
		log.Warn("Could not refresh session expiry", "error", err)
	}
	return session, true
}

func (s *RedisSessionStore) DeleteSession(ctx context.Context, sessionID string) {
	err := s.store.Del(ctx, sessionKeyPrefix+sessionID)
	if err != nil {
		s.logger.Error("Error deleting session from Redis", "sessionId", sessionID, "error", err)
		return
	}
	s.logger.Debug("Session deleted from Redis", "sessionId", sessionID)
}

func TestSessionStore(store *redisStore.Store) *RedisSessionStore {
	return &RedisSessionStore{
		store:  store,
		logger: logger_i.NewLogger("test redis"),
	}
}
