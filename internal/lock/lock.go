// Package lock contains the per-doctor lock held across the reservation
// critical section, so that concurrent bookings for the same doctor serialize
// before hitting the database constraint.
package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrNotAcquired is returned when the reservation lock is already held.
var ErrNotAcquired = errors.New("reservation lock not acquired")

// Locker determines the method used to run a function under the doctor's
// reservation lock.
type Locker interface {
	WithDoctorLock(ctx context.Context, doctorUUID uuid.UUID, fn func(ctx context.Context) error) error
}

type redisLocker struct {
	client *redis.Client
	ttl    time.Duration
}

// NewClient creates a redis client for the given address.
func NewClient(address string) *redis.Client {
	return redis.NewClient(&redis.Options{Addr: address})
}

// NewRedisLocker creates a Locker backed by a per-doctor redis key.
func NewRedisLocker(client *redis.Client, ttl time.Duration) Locker {
	return &redisLocker{client: client, ttl: ttl}
}

func (l *redisLocker) WithDoctorLock(ctx context.Context, doctorUUID uuid.UUID, fn func(ctx context.Context) error) error {
	key := fmt.Sprintf("lock:doctor:%s", doctorUUID.String())
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return fmt.Errorf("could not acquire the reservation lock: %w", err)
	}
	if !ok {
		return ErrNotAcquired
	}

	defer func() {
		_ = l.release(ctx, key, token)
	}()

	lockCtx, cancel := context.WithTimeout(ctx, l.ttl)
	defer cancel()

	return fn(lockCtx)
}

// unlockScript releases the lock only if it still holds our token, so an
// expired lock reacquired by another request is never deleted by us.
var unlockScript = redis.NewScript(`
local val = redis.call("GET", KEYS[1])
if val == ARGV[1] then
  return redis.call("DEL", KEYS[1])
else
  return 0
end
`)

func (l *redisLocker) release(ctx context.Context, key, token string) error {
	_, err := unlockScript.Run(ctx, l.client, []string{key}, token).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("could not release the reservation lock: %w", err)
	}
	return nil
}

type passthroughLocker struct{}

// NewPassthroughLocker creates a Locker that runs the function directly.
// Used when no redis address is configured and in tests; the reservation
// then relies solely on the database constraint.
func NewPassthroughLocker() Locker {
	return passthroughLocker{}
}

func (passthroughLocker) WithDoctorLock(ctx context.Context, _ uuid.UUID, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
