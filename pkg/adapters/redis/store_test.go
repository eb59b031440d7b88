package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/tally/pkg/adapters/redis"
	"github.com/aretw0/tally/pkg/domain"
	"github.com/aretw0/tally/pkg/ports"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisStore_Contract(t *testing.T) {
	_, client := setup(t)
	store := redis.NewFromClient(client)
	ports.RunStateStoreContract(t, store)
}

func TestRedisStore_KeyLayout(t *testing.T) {
	mr, client := setup(t)
	store := redis.NewFromClient(client, redis.WithPrefix("calc:"))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "s1", domain.NewState("s1")))

	assert.True(t, mr.Exists("calc:session:s1"))
	members, err := mr.ZMembers("calc:sessions")
	require.NoError(t, err)
	assert.Equal(t, []string{"s1"}, members)

	raw, err := mr.Get("calc:session:s1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"session_id":"s1","entry":"0"}`, raw)
}

func TestRedisStore_ReservedLookingIDs(t *testing.T) {
	_, client := setup(t)
	store := redis.NewFromClient(client)
	locker := redis.NewLocker(client, store.Prefix())
	ctx := context.Background()

	for _, id := range []string{"a", "index", "sessions", "lock:x", "session:a"} {
		require.NoError(t, store.Save(ctx, id, domain.NewState(id)), "id %q", id)
	}

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "index", "sessions", "lock:x", "session:a"}, ids)

	loaded, err := store.Load(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "a", loaded.SessionID)

	lockCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	unlock, err := locker.Lock(lockCtx, "x", 5*time.Second)
	require.NoError(t, err)
	require.NoError(t, unlock(ctx))
}

func TestRedisStore_TTL(t *testing.T) {
	mr, client := setup(t)
	store := redis.NewFromClient(client, redis.WithTTL(time.Minute))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "short", domain.NewState("short")))
	assert.Equal(t, time.Minute, mr.TTL(redis.DefaultPrefix+"session:short"))

	mr.FastForward(2 * time.Minute)
	_, err := store.Load(ctx, "short")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestRedisStore_ListPrunesExpired(t *testing.T) {
	mr, client := setup(t)
	store := redis.NewFromClient(client)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "live", domain.NewState("live")))
	// An index entry whose expiry is already in the past.
	_, err := mr.ZAdd(redis.DefaultPrefix+"sessions", 1, "stale")
	require.NoError(t, err)

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"live"}, ids)
}

func TestRedisStore_New(t *testing.T) {
	mr := miniredis.RunT(t)
	store, err := redis.New(mr.Addr())
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Ping(context.Background()))

	_, err = redis.New("")
	assert.ErrorIs(t, err, redis.ErrInvalidURL)
}

func TestParseURL(t *testing.T) {
	opts, err := redis.ParseURL("redis://:secret@cache:6380/2")
	require.NoError(t, err)
	assert.Equal(t, "cache:6380", opts.Addr)
	assert.Equal(t, "secret", opts.Password)
	assert.Equal(t, 2, opts.DB)

	opts, err = redis.ParseURL("localhost:6379")
	require.NoError(t, err)
	assert.Equal(t, "localhost:6379", opts.Addr)

	_, err = redis.ParseURL("http://example.com")
	assert.ErrorIs(t, err, redis.ErrInvalidURL)
}
