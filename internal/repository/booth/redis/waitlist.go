package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/EDM-Spot/core/internal/repository/booth"
)

func (r repo) GetWaitlist(ctx context.Context) ([]string, error) {
	ids, err := r.rc.LRange(ctx, waitlistKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get waitlist: %w", err)
	}

	return ids, nil
}

// GetWaitlistHead peeks the next DJ without consuming them. Returns an
// empty string when the waitlist is empty.
func (r repo) GetWaitlistHead(ctx context.Context) (string, error) {
	head, err := r.rc.LIndex(ctx, waitlistKey, 0).Result()
	if err != nil {
		if err == redis.Nil {
			return "", nil
		}

		return "", fmt.Errorf("failed to get waitlist head: %w", err)
	}

	return head, nil
}

func (r repo) PushWaitlist(ctx context.Context, userID string) error {
	r.logger.DebugContext(ctx, "called", "user_id", userID)
	res, err := r.rc.EvalSha(ctx, r.pushWaitlistScript, []string{waitlistKey}, userID).Result()
	if err != nil {
		return fmt.Errorf("failed to push waitlist: %w", err)
	}

	if res == int64(-1) {
		return booth.ErrAlreadyInWaitlist
	}

	return nil
}

func (r repo) RemoveFromWaitlist(ctx context.Context, userID string) error {
	r.logger.DebugContext(ctx, "called", "user_id", userID)
	res, err := r.rc.LRem(ctx, waitlistKey, 0, userID).Result()
	if err != nil {
		return fmt.Errorf("failed to remove from waitlist: %w", err)
	}

	if res == 0 {
		return booth.ErrNotInWaitlist
	}

	return nil
}

// RotateWaitlist pops the head if the waitlist is non-empty and, when
// requeueing, pushes the previous DJ to the tail. A lone DJ is left in
// the booth without passing through the waitlist.
func (r repo) RotateWaitlist(ctx context.Context, params *booth.RotateWaitlistParams) error {
	r.logger.DebugContext(ctx, "called", "previous_dj", params.PreviousDJ, "requeue", params.Requeue)
	requeue := "0"
	if params.Requeue {
		requeue = "1"
	}

	res, err := r.rc.EvalSha(ctx, r.rotateWaitlistScript,
		[]string{advancingKey, waitlistKey},
		params.LockToken, params.PreviousDJ, requeue,
	).Result()
	if err != nil {
		return fmt.Errorf("failed to rotate waitlist: %w", err)
	}

	if res == int64(-1) {
		return booth.ErrLeaseLost
	}

	return nil
}
