package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// IdempotencyTracker records settled TranIDs. TryClaim is an atomic
// check-and-set: for concurrent claims of one TranID exactly one wins.
// Release undoes a claim and is only used when the debit that followed it failed.
type IdempotencyTracker interface {
	TryClaim(ctx context.Context, tranID string) (bool, error)
	Claimed(ctx context.Context, tranID string) (bool, error)
	Release(ctx context.Context, tranID string) error
}

const sweepEvery = 1024

type memoryIdempotencyTracker struct {
	mu      sync.Mutex
	claimed map[string]time.Time
	ttl     time.Duration
	now     func() time.Time
	claims  int
}

// NewMemoryIdempotencyTracker keeps claims in process. A ttl of zero retains them forever.
func NewMemoryIdempotencyTracker(ttl time.Duration) IdempotencyTracker {
	return newMemoryIdempotencyTracker(ttl, time.Now)
}

func newMemoryIdempotencyTracker(ttl time.Duration, now func() time.Time) *memoryIdempotencyTracker {
	return &memoryIdempotencyTracker{
		claimed: make(map[string]time.Time),
		ttl:     ttl,
		now:     now,
	}
}

func (t *memoryIdempotencyTracker) TryClaim(ctx context.Context, tranID string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	if claimedAt, ok := t.claimed[tranID]; ok && !t.expired(claimedAt, now) {
		return false, nil
	}

	t.claimed[tranID] = now
	t.claims++
	if t.ttl > 0 && t.claims%sweepEvery == 0 {
		t.sweep(now)
	}
	return true, nil
}

func (t *memoryIdempotencyTracker) Claimed(ctx context.Context, tranID string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	claimedAt, ok := t.claimed[tranID]
	return ok && !t.expired(claimedAt, t.now()), nil
}

func (t *memoryIdempotencyTracker) Release(ctx context.Context, tranID string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	delete(t.claimed, tranID)
	return nil
}

func (t *memoryIdempotencyTracker) expired(claimedAt, now time.Time) bool {
	return t.ttl > 0 && now.Sub(claimedAt) >= t.ttl
}

func (t *memoryIdempotencyTracker) sweep(now time.Time) {
	for id, claimedAt := range t.claimed {
		if t.expired(claimedAt, now) {
			delete(t.claimed, id)
		}
	}
}

func (t *memoryIdempotencyTracker) size() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.claimed)
}

type redisIdempotencyTracker struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewRedisIdempotencyTracker shares claims across instances with SETNX.
// A ttl of zero retains them forever.
func NewRedisIdempotencyTracker(client redis.Cmdable, ttl time.Duration) IdempotencyTracker {
	return &redisIdempotencyTracker{
		client: client,
		ttl:    ttl,
	}
}

func idempotencyKey(tranID string) string {
	return fmt.Sprintf("idempotency:tranid:%s", tranID)
}

func (t *redisIdempotencyTracker) TryClaim(ctx context.Context, tranID string) (bool, error) {
	claimed, err := t.client.SetNX(ctx, idempotencyKey(tranID), time.Now().UTC().Format(time.RFC3339), t.ttl).Result()
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return false, err
		}
		return false, fmt.Errorf("claim %s: %w", tranID, err)
	}
	return claimed, nil
}

func (t *redisIdempotencyTracker) Claimed(ctx context.Context, tranID string) (bool, error) {
	n, err := t.client.Exists(ctx, idempotencyKey(tranID)).Result()
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return false, err
		}
		return false, fmt.Errorf("check claim %s: %w", tranID, err)
	}
	return n > 0, nil
}

func (t *redisIdempotencyTracker) Release(ctx context.Context, tranID string) error {
	if err := t.client.Del(ctx, idempotencyKey(tranID)).Err(); err != nil {
		return fmt.Errorf("release %s: %w", tranID, err)
	}
	return nil
}
