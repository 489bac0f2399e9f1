// Package lock provides a Redis lease that keeps one auction sweeper active
// across worker replicas.
package lock

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "lock:"

// releaseScript deletes the key only while it still holds our token, so an
// expired lease cannot remove a lock another replica has since taken.
const releaseScript = `if redis.call("GET", KEYS[1]) == ARGV[1] then return redis.call("DEL", KEYS[1]) else return 0 end`

type RedisLock struct {
	client   redis.Cmdable
	newToken func() string
}

func NewRedisLock(client redis.Cmdable) *RedisLock {
	return &RedisLock{client: client, newToken: uuid.NewString}
}

// Lease is a held lock. It expires on its own after the ttl passed to TryAcquire.
type Lease struct {
	lock  *RedisLock
	key   string
	token string
}

// TryAcquire returns nil without error when another holder owns key.
func (l *RedisLock) TryAcquire(ctx context.Context, key string, ttl time.Duration) (*Lease, error) {
	if key == "" {
		return nil, errors.New("lock key is required")
	}
	if ttl <= 0 {
		return nil, errors.New("lock ttl must be positive")
	}

	token := l.newToken()
	ok, err := l.client.SetNX(ctx, keyPrefix+key, token, ttl).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "acquire lock %s", key)
	}
	if !ok {
		return nil, nil
	}
	return &Lease{lock: l, key: keyPrefix + key, token: token}, nil
}

// Release reports whether the lease was still held.
func (s *Lease) Release(ctx context.Context) (bool, error) {
	n, err := s.lock.client.Eval(ctx, releaseScript, []string{s.key}, s.token).Int64()
	if err != nil {
		return false, errors.Wrapf(err, "release lock %s", s.key)
	}
	return n == 1, nil
}
