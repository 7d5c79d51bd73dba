package lease

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store is the narrow contract this core needs from the ephemeral store:
// exclusive create with expiry, read, and owner-verified delete. Both the
// seat lease manager and the event locker build on it, so the
// create/verify/release logic exists exactly once.
type Store interface {
	// Acquire creates the key only if absent. Returns false when another
	// holder already owns it.
	Acquire(ctx context.Context, key, holder string, ttl time.Duration) (bool, error)
	// Get returns the current holder, or "" when the key is absent or has
	// expired. Expiry is authoritative: an absent key means the lease is
	// gone, no matter who held it before.
	Get(ctx context.Context, key string) (string, error)
	// Release deletes the key only while holder still owns it. A holder
	// whose TTL lapsed cannot delete a lease re-acquired by someone else.
	Release(ctx context.Context, key, holder string) (bool, error)
}

// releaseScript compares the stored holder before deleting, atomically.
// A plain GET+DEL pair would race with expiry and re-acquisition.
const releaseScript = `
	if redis.call('GET', KEYS[1]) == ARGV[1] then
		return redis.call('DEL', KEYS[1])
	end
	return 0
`

type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) Store {
	return &RedisStore{client: client}
}

func (s *RedisStore) Acquire(ctx context.Context, key, holder string, ttl time.Duration) (bool, error) {
	return s.client.SetNX(ctx, key, holder, ttl).Result()
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, error) {
	val, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

func (s *RedisStore) Release(ctx context.Context, key, holder string) (bool, error) {
	result, err := s.client.Eval(ctx, releaseScript, []string{key}, holder).Result()
	if err != nil {
		return false, err
	}
	deleted, ok := result.(int64)
	if !ok {
		return false, nil
	}
	return deleted > 0, nil
}
