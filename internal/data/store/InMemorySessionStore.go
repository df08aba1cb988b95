package store

import (
	"context"
	"sync"

	"github.com/akolanti/DocForm/internal/domain/sessionModel"
	"github.com/akolanti/DocForm/pkg/logger_i"
)

var inMemLogger = logger_i.NewLogger("InMem SessionStore")

type InMemorySessionStore struct {
	sessionMutex *sync.RWMutex
	sessionMap   map[string]sessionModel.Session
}

func InitInMemorySessionStore() *InMemorySessionStore {
	return &InMemorySessionStore{
		sessionMutex: new(sync.RWMutex),
		sessionMap:   make(map[string]sessionModel.Session),
	}
}

func (store *InMemorySessionStore) SaveSession(ctx context.Context, session sessionModel.Session) error {
	store.sessionMutex.Lock()
	defer store.sessionMutex.Unlock()
	store.sessionMap[session.ID] = session
	inMemLogger.Debug("saved session", "sessionId", session.ID, "status", session.Status)
	return nil
}

func (store *InMemorySessionStore) GetSession(ctx context.Context, sessionID string) (sessionModel.Session, bool) {
	store.sessionMutex.RLock()
	defer store.sessionMutex.RUnlock()
	result, found := store.sessionMap[sessionID]
	return result, found
}

func (store *InMemorySessionStore) DeleteSession(ctx context.Context, sessionID string) {
	store.sessionMutex.Lock()
	defer store.sessionMutex.Unlock()
	delete(store.sessionMap, sessionID)
}
