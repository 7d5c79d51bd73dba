package lease

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock drives MemoryStore expiry deterministically.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func newMemoryStoreAt(clock *fakeClock) *MemoryStore {
	store := NewMemoryStore()
	store.now = clock.Now
	return store
}

func TestRedisStoreAcquire(t *testing.T) {
	t.Run("GrantedWhenAbsent", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		store := NewRedisStore(client)

		mock.ExpectSetNX("seat:1:42", "7", 10*time.Minute).SetVal(true)

		ok, err := store.Acquire(context.Background(), "seat:1:42", "7", 10*time.Minute)

		require.NoError(t, err)
		assert.True(t, ok)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("RejectedWhenHeld", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		store := NewRedisStore(client)

		mock.ExpectSetNX("seat:1:42", "8", 10*time.Minute).SetVal(false)

		ok, err := store.Acquire(context.Background(), "seat:1:42", "8", 10*time.Minute)

		require.NoError(t, err)
		assert.False(t, ok)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRedisStoreGet(t *testing.T) {
	t.Run("ReturnsHolder", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		store := NewRedisStore(client)

		mock.ExpectGet("seat:1:42").SetVal("7")

		holder, err := store.Get(context.Background(), "seat:1:42")

		require.NoError(t, err)
		assert.Equal(t, "7", holder)
	})

	t.Run("EmptyWhenAbsent", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		store := NewRedisStore(client)

		mock.ExpectGet("seat:1:42").RedisNil()

		holder, err := store.Get(context.Background(), "seat:1:42")

		require.NoError(t, err)
		assert.Equal(t, "", holder)
	})
}

func TestRedisStoreRelease(t *testing.T) {
	t.Run("DeletesOwnKey", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		store := NewRedisStore(client)

		mock.ExpectEval(releaseScript, []string{"lock:event:1"}, "holder-token").SetVal(int64(1))

		ok, err := store.Release(context.Background(), "lock:event:1", "holder-token")

		require.NoError(t, err)
		assert.True(t, ok)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("NoOpWhenHolderChanged", func(t *testing.T) {
		// The script returns 0 when the stored holder no longer matches, so
		// a lapsed owner cannot free a re-acquired lock.
		client, mock := redismock.NewClientMock()
		store := NewRedisStore(client)

		mock.ExpectEval(releaseScript, []string{"lock:event:1"}, "stale-token").SetVal(int64(0))

		ok, err := store.Release(context.Background(), "lock:event:1", "stale-token")

		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestMemoryStore(t *testing.T) {
	t.Run("AcquireIsExclusive", func(t *testing.T) {
		store := NewMemoryStore()

		ok, err := store.Acquire(context.Background(), "k", "a", time.Minute)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = store.Acquire(context.Background(), "k", "b", time.Minute)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("ExpiryFreesTheKey", func(t *testing.T) {
		clock := newFakeClock()
		store := newMemoryStoreAt(clock)

		ok, err := store.Acquire(context.Background(), "k", "a", time.Minute)
		require.NoError(t, err)
		require.True(t, ok)

		clock.Advance(time.Minute + time.Second)

		holder, err := store.Get(context.Background(), "k")
		require.NoError(t, err)
		assert.Equal(t, "", holder)

		ok, err = store.Acquire(context.Background(), "k", "b", time.Minute)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("ReleaseAfterExpiryIsANoOp", func(t *testing.T) {
		clock := newFakeClock()
		store := newMemoryStoreAt(clock)

		_, err := store.Acquire(context.Background(), "k", "a", time.Minute)
		require.NoError(t, err)

		clock.Advance(2 * time.Minute)

		ok, err := store.Release(context.Background(), "k", "a")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("ReleaseVerifiesHolder", func(t *testing.T) {
		store := NewMemoryStore()

		_, err := store.Acquire(context.Background(), "k", "a", time.Minute)
		require.NoError(t, err)

		ok, err := store.Release(context.Background(), "k", "b")
		require.NoError(t, err)
		assert.False(t, ok)

		ok, err = store.Release(context.Background(), "k", "a")
		require.NoError(t, err)
		assert.True(t, ok)
	})
}
