package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"budgetbuddy/internal/log"

	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/redis/go-redis/v9"
)

// ErrNotAcquired is returned when the lock could not be taken within the
// configured retries.
var ErrNotAcquired = errors.New("lock not acquired")

const (
	DefaultTTL        = 10 * time.Second
	defaultTries      = 32
	defaultRetryDelay = 50 * time.Millisecond
	keyPrefix         = "budgetbuddy:"
)

// RedisLocker is a NameLocker shared by every process talking to the same
// Redis, built on redsync.
type RedisLocker struct {
	rs         *redsync.Redsync
	ttl        time.Duration
	tries      int
	retryDelay time.Duration
}

// Option tunes a RedisLocker.
type Option func(*RedisLocker)

func WithTTL(ttl time.Duration) Option {
	return func(r *RedisLocker) {
		if ttl > 0 {
			r.ttl = ttl
		}
	}
}

func WithTries(n int, delay time.Duration) Option {
	return func(r *RedisLocker) {
		if n > 0 {
			r.tries = n
		}
		if delay > 0 {
			r.retryDelay = delay
		}
	}
}

func NewRedisLocker(client redis.UniversalClient, opts ...Option) *RedisLocker {
	r := &RedisLocker{
		rs:         redsync.New(goredis.NewPool(client)),
		ttl:        DefaultTTL,
		tries:      defaultTries,
		retryDelay: defaultRetryDelay,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// WithLock runs fn while holding the distributed mutex for key. The lock
// expires after the TTL even if the process dies mid-way.
func (r *RedisLocker) WithLock(ctx context.Context, key string, fn func(context.Context) error) error {
	m := r.rs.NewMutex(keyPrefix+key,
		redsync.WithExpiry(r.ttl),
		redsync.WithTries(r.tries),
		redsync.WithRetryDelay(r.retryDelay),
	)

	if err := m.LockContext(ctx); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("%w: %s: %v", ErrNotAcquired, key, err)
	}
	defer func() {
		// Use a fresh context so a cancelled caller still releases the lock.
		unlockCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if ok, err := m.UnlockContext(unlockCtx); err != nil || !ok {
			log.FromContext(ctx).WithComponent(log.ComponentLock).WarnContext(ctx, "Failed to release redis lock",
				log.FieldLockKey, key,
				log.FieldError, err)
		}
	}()

	return fn(ctx)
}
