package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/EDM-Spot/core/internal/repository/booth"
)

// AcquireLock places a fencing token at booth:advancing with the given
// TTL. At most one instance holds the lock at any instant.
func (r repo) AcquireLock(ctx context.Context, token string, ttl time.Duration) error {
	r.logger.DebugContext(ctx, "called", "ttl", ttl)
	ok, err := r.rc.SetNX(ctx, advancingKey, token, ttl).Result()
	if err != nil {
		return fmt.Errorf("failed to acquire advance lock: %w", err)
	}

	if !ok {
		return booth.ErrLockContended
	}

	return nil
}

// ExtendLock resets the TTL iff the stored token still matches.
func (r repo) ExtendLock(ctx context.Context, token string, ttl time.Duration) error {
	res, err := r.rc.EvalSha(ctx, r.extendLockScript,
		[]string{advancingKey},
		token, ttl.Milliseconds(),
	).Result()
	if err != nil {
		return fmt.Errorf("failed to extend advance lock: %w", err)
	}

	if res == int64(0) {
		return booth.ErrLeaseLost
	}

	return nil
}

// ReleaseLock removes the key iff the token matches. Failure to release
// is non-fatal: TTL expiry cleans up.
func (r repo) ReleaseLock(ctx context.Context, token string) error {
	res, err := r.rc.EvalSha(ctx, r.releaseLockScript, []string{advancingKey}, token).Result()
	if err != nil {
		return fmt.Errorf("failed to release advance lock: %w", err)
	}

	if res == int64(0) {
		return booth.ErrLeaseLost
	}

	return nil
}
