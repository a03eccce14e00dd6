package redislock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var ErrLockNotAcquired = errors.New("slot lock not acquired")

// SlotLocker guards the booking critical section for one vet+start pair so
// that two concurrent requests for the same slot serialize on the re-check.
// The database exclusion constraint remains the final authority; the lock
// only turns most races into a clean conflict response instead of a
// constraint violation.
type SlotLocker interface {
	WithSlotLock(ctx context.Context, vetUserID uuid.UUID, startsAt time.Time, fn func(ctx context.Context) error) error
}

type redisSlotLocker struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSlotLocker(client *redis.Client, ttl time.Duration) SlotLocker {
	if ttl <= 0 {
		ttl = 5 * time.Second
	}
	return &redisSlotLocker{
		client: client,
		ttl:    ttl,
	}
}

func (l *redisSlotLocker) WithSlotLock(ctx context.Context, vetUserID uuid.UUID, startsAt time.Time, fn func(ctx context.Context) error) error {
	key := fmt.Sprintf("lock:slot:%s:%d", vetUserID.String(), startsAt.Unix())
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return fmt.Errorf("acquire slot lock: %w", err)
	}
	if !ok {
		return ErrLockNotAcquired
	}

	defer func() {
		_ = l.release(ctx, key, token)
	}()

	lockCtx, cancel := context.WithTimeout(ctx, l.ttl)
	defer cancel()

	return fn(lockCtx)
}

var unlockScript = redis.NewScript(`
local val = redis.call("GET", KEYS[1])
if val == ARGV[1] then
  return redis.call("DEL", KEYS[1])
else
  return 0
end
`)

func (l *redisSlotLocker) release(ctx context.Context, key, token string) error {
	_, err := unlockScript.Run(ctx, l.client, []string{key}, token).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("release slot lock: %w", err)
	}
	return nil
}

// NoopLocker runs the critical section without coordination. Used in tests
// and deployments without Redis, where the exclusion constraint alone guards
// against double booking.
type NoopLocker struct{}

func (NoopLocker) WithSlotLock(ctx context.Context, _ uuid.UUID, _ time.Time, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
