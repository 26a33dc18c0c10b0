package redis

import (
	"context"
	"fmt"

	"github.com/EDM-Spot/core/internal/repository/booth"
)

func (r repo) GetState(ctx context.Context) (booth.State, error) {
	res, err := r.rc.MGet(ctx, historyIDKey, currentDJKey).Result()
	if err != nil {
		return booth.State{}, fmt.Errorf("failed to get booth state: %w", err)
	}

	var state booth.State
	if v, ok := res[0].(string); ok {
		state.HistoryID = v
	}
	if v, ok := res[1].(string); ok {
		state.CurrentDJ = v
	}

	return state, nil
}

// CommitAdvance deletes the three vote sets and assigns the new
// historyID and currentDJ in a single script, gated on the lock token so
// a stale writer cannot commit.
func (r repo) CommitAdvance(ctx context.Context, params *booth.CommitAdvanceParams) error {
	r.logger.DebugContext(ctx, "called", "params", params)
	res, err := r.rc.EvalSha(ctx, r.commitAdvanceScript,
		[]string{advancingKey, historyIDKey, currentDJKey, upvotesKey, downvotesKey, favoritesKey},
		params.LockToken, params.HistoryID, params.CurrentDJ,
	).Result()
	if err != nil {
		return fmt.Errorf("failed to commit advance: %w", err)
	}

	if res == int64(0) {
		return booth.ErrLeaseLost
	}

	return nil
}

// ClearState removes every booth:* state key, gated on the lock token.
func (r repo) ClearState(ctx context.Context, params *booth.ClearStateParams) error {
	r.logger.DebugContext(ctx, "called")
	res, err := r.rc.EvalSha(ctx, r.clearStateScript,
		[]string{advancingKey, historyIDKey, currentDJKey, upvotesKey, downvotesKey, favoritesKey},
		params.LockToken,
	).Result()
	if err != nil {
		return fmt.Errorf("failed to clear booth state: %w", err)
	}

	if res == int64(0) {
		return booth.ErrLeaseLost
	}

	return nil
}
