package cache

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var ErrLockHeld = errors.New("lock held by another owner")

// releaseScript deletes the key only while it still carries our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

// Mutex is a single-key Redis lock shared by every replica.
type Mutex struct {
	rdb *redis.Client
	key string
	ttl time.Duration
}

func NewMutex(rdb *redis.Client, key string, ttl time.Duration) *Mutex {
	return &Mutex{rdb: rdb, key: key, ttl: ttl}
}

// TryLock returns ErrLockHeld when another owner has the key. The returned
// unlock is safe to call after the lock expired.
func (m *Mutex) TryLock(ctx context.Context) (unlock func(context.Context) error, err error) {
	token := uuid.NewString()
	ok, err := m.rdb.SetNX(ctx, m.key, token, m.ttl).Result()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrLockHeld
	}
	return func(ctx context.Context) error {
		return releaseScript.Run(ctx, m.rdb, []string{m.key}, token).Err()
	}, nil
}
