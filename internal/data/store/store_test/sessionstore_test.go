package store_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/akolanti/DocForm/internal/config"
	"github.com/akolanti/DocForm/internal/data/redisStore"
	"github.com/akolanti/DocForm/internal/data/store"
	"github.com/akolanti/DocForm/internal/domain/documentModel"
	"github.com/akolanti/DocForm/internal/domain/sessionModel"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSession(id string) sessionModel.Session {
	s := sessionModel.New(id)
	s.DocumentType = documentModel.Quote
	s.Status = sessionModel.StatusSuccess
	s.Records = []documentModel.ModelRecord{{
		Model: "openai",
		Record: documentModel.Record{Type: documentModel.Quote, Fields: []documentModel.Field{
			{Name: "quote_number", Kind: documentModel.Text, Value: "Q-7"},
		}},
	}}
	s.Tokens = &documentModel.TokenUsage{InputTokens: 3, OutputTokens: 4}
	return s
}

func sessionStores(t *testing.T) (map[string]store.SessionStore, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return map[string]store.SessionStore{
		"memory": store.InitInMemorySessionStore(),
		"redis":  store.TestSessionStore(redisStore.NewTestStore(client)),
	}, mr
}

func TestSessionStore_Lifecycle(t *testing.T) {
	stores, _ := sessionStores(t)
	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "test-trace")

	for name, s := range stores {
		t.Run(name, func(t *testing.T) {
			want := testSession("session-" + name)
			require.NoError(t, s.SaveSession(ctx, want))

			got, found := s.GetSession(ctx, want.ID)
			require.True(t, found)
			assert.Equal(t, want.DocumentType, got.DocumentType)
			assert.Equal(t, want.Status, got.Status)
			assert.Equal(t, want.Tokens, got.Tokens)
			require.Len(t, got.Records, 1)
			v, _ := got.Records[0].Record.Get("quote_number")
			assert.Equal(t, "Q-7", v)
			assert.Equal(t, want.Viewer, got.Viewer)

			_, found = s.GetSession(ctx, "ghost-id")
			assert.False(t, found)

			s.DeleteSession(ctx, want.ID)
			_, found = s.GetSession(ctx, want.ID)
			assert.False(t, found)
		})
	}
}

func TestRedisSessionStore_TTL(t *testing.T) {
	stores, mr := sessionStores(t)
	ctx := context.Background()

	require.NoError(t, stores["redis"].SaveSession(ctx, testSession("ttl")))
	assert.Equal(t, config.RedisSessionTTL, mr.TTL("session:ttl"))

	mr.FastForward(config.RedisSessionTTL + time.Second)
	_, found := stores["redis"].GetSession(ctx, "ttl")
	assert.False(t, found)
}

func TestRedisSessionStore_ReadRefreshesTTL(t *testing.T) {
	stores, mr := sessionStores(t)
	ctx := context.Background()

	require.NoError(t, stores["redis"].SaveSession(ctx, testSession("busy")))
	mr.FastForward(config.RedisSessionTTL - time.Minute)
	assert.Equal(t, time.Minute, mr.TTL("session:busy"))

	_, found := stores["redis"].GetSession(ctx, "busy")
	require.True(t, found)
	assert.Equal(t, config.RedisSessionTTL, mr.TTL("session:busy"))

	mr.FastForward(time.Hour)
	_, found = stores["redis"].GetSession(ctx, "busy")
	assert.True(t, found)
}

func TestRedisSessionStore_Corrupt(t *testing.T) {
	stores, mr := sessionStores(t)
	require.NoError(t, mr.Set("session:bad", "{not json"))

	_, found := stores["redis"].GetSession(context.Background(), "bad")
	assert.False(t, found)
}

func TestSessionStore_Concurrent(t *testing.T) {
	stores, _ := sessionStores(t)
	ctx := context.Background()

	for name, s := range stores {
		t.Run(name, func(t *testing.T) {
			var wg sync.WaitGroup
			for range 50 {
				wg.Add(1)
				go func() {
					defer wg.Done()
					_ = s.SaveSession(ctx, testSession("race"))
					_, _ = s.GetSession(ctx, "race")
				}()
			}
			wg.Wait()
			_, found := s.GetSession(ctx, "race")
			assert.True(t, found)
		})
	}
}

func TestResultCache(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	caches := map[string]store.ResultCache{
		"memory": store.InitInMemoryResultCache(time.Minute),
		"redis":  store.TestResultCache(redisStore.NewTestStore(client)),
	}
	ctx := context.Background()

	for name, c := range caches {
		t.Run(name, func(t *testing.T) {
			_, found := c.GetResult(ctx, "abc:invoice")
			assert.False(t, found)

			require.NoError(t, c.SaveResult(ctx, "abc:invoice", []byte(`{"success":true}`)))
			got, found := c.GetResult(ctx, "abc:invoice")
			require.True(t, found)
			assert.Equal(t, `{"success":true}`, string(got))
		})
	}
	assert.True(t, mr.Exists("extraction:abc:invoice"))
}

func TestInMemoryResultCache_Expiry(t *testing.T) {
	c := store.InitInMemoryResultCache(time.Millisecond)
	require.NoError(t, c.SaveResult(context.Background(), "k", []byte("v")))
	time.Sleep(5 * time.Millisecond)
	_, found := c.GetResult(context.Background(), "k")
	assert.False(t, found)
}

func TestNewSessionStore_FallsBackToMemory(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := store.NewSessionStore(ctx, config.Config{RedisAddr: "127.0.0.1:1"})
	_, isMemory := s.(*store.InMemorySessionStore)
	assert.True(t, isMemory)
}
