package redis

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EDM-Spot/core/internal/repository/booth"
)

func newTestRepo(t *testing.T) (*repo, *redis.Client) {
	t.Helper()
	s, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(s.Close)

	rc := redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() { rc.Close() })

	return NewRepo(rc, slog.Default()), rc
}

func TestLock(t *testing.T) {
	r, _ := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, r.AcquireLock(ctx, "token-a", 2*time.Second))

	err := r.AcquireLock(ctx, "token-b", 2*time.Second)
	assert.ErrorIs(t, err, booth.ErrLockContended)

	require.NoError(t, r.ExtendLock(ctx, "token-a", 2*time.Second))
	assert.ErrorIs(t, r.ExtendLock(ctx, "token-b", 2*time.Second), booth.ErrLeaseLost)

	assert.ErrorIs(t, r.ReleaseLock(ctx, "token-b"), booth.ErrLeaseLost)
	require.NoError(t, r.ReleaseLock(ctx, "token-a"))

	// released, so another instance may acquire
	require.NoError(t, r.AcquireLock(ctx, "token-b", 2*time.Second))
}

func TestCastVoteSwitchesSides(t *testing.T) {
	r, _ := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, r.CastVote(ctx, &booth.CastVoteParams{UserID: "u1", Direction: booth.VoteUp}))
	require.NoError(t, r.CastVote(ctx, &booth.CastVoteParams{UserID: "u2", Direction: booth.VoteUp}))

	votes, err := r.GetVotes(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"u1", "u2"}, votes.Upvotes)
	assert.Empty(t, votes.Downvotes)

	// u1 changes sides; the sets must stay disjoint
	require.NoError(t, r.CastVote(ctx, &booth.CastVoteParams{UserID: "u1", Direction: booth.VoteDown}))

	votes, err = r.GetVotes(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"u2"}, votes.Upvotes)
	assert.ElementsMatch(t, []string{"u1"}, votes.Downvotes)

	require.NoError(t, r.AddFavorite(ctx, "u1"))
	votes, err = r.GetVotes(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"u1"}, votes.Favorites)
}

func TestPushWaitlistRejectsDuplicates(t *testing.T) {
	r, _ := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, r.PushWaitlist(ctx, "u1"))
	require.NoError(t, r.PushWaitlist(ctx, "u2"))
	assert.ErrorIs(t, r.PushWaitlist(ctx, "u1"), booth.ErrAlreadyInWaitlist)

	waitlist, err := r.GetWaitlist(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"u1", "u2"}, waitlist)

	require.NoError(t, r.RemoveFromWaitlist(ctx, "u1"))
	assert.ErrorIs(t, r.RemoveFromWaitlist(ctx, "u1"), booth.ErrNotInWaitlist)
}

func TestRotateWaitlist(t *testing.T) {
	r, _ := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, r.AcquireLock(ctx, "token", 2*time.Second))
	require.NoError(t, r.PushWaitlist(ctx, "u2"))
	require.NoError(t, r.PushWaitlist(ctx, "u3"))

	// wrong token must not mutate the list
	err := r.RotateWaitlist(ctx, &booth.RotateWaitlistParams{LockToken: "stale", PreviousDJ: "u1", Requeue: true})
	assert.ErrorIs(t, err, booth.ErrLeaseLost)

	require.NoError(t, r.RotateWaitlist(ctx, &booth.RotateWaitlistParams{LockToken: "token", PreviousDJ: "u1", Requeue: true}))

	waitlist, err := r.GetWaitlist(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"u3", "u1"}, waitlist)

	// no requeue pops only
	require.NoError(t, r.RotateWaitlist(ctx, &booth.RotateWaitlistParams{LockToken: "token"}))
	waitlist, err = r.GetWaitlist(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"u1"}, waitlist)

	// rotating an empty waitlist does not requeue the previous dj
	require.NoError(t, r.RotateWaitlist(ctx, &booth.RotateWaitlistParams{LockToken: "token"}))
	require.NoError(t, r.RotateWaitlist(ctx, &booth.RotateWaitlistParams{LockToken: "token", PreviousDJ: "u1", Requeue: true}))
	waitlist, err = r.GetWaitlist(ctx)
	require.NoError(t, err)
	assert.Empty(t, waitlist)
}

func TestCommitAdvanceClearsVotes(t *testing.T) {
	r, rc := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, r.AcquireLock(ctx, "token", 2*time.Second))
	require.NoError(t, r.CastVote(ctx, &booth.CastVoteParams{UserID: "u1", Direction: booth.VoteUp}))
	require.NoError(t, r.AddFavorite(ctx, "u2"))

	err := r.CommitAdvance(ctx, &booth.CommitAdvanceParams{LockToken: "stale", HistoryID: "h1", CurrentDJ: "u9"})
	assert.ErrorIs(t, err, booth.ErrLeaseLost)

	require.NoError(t, r.CommitAdvance(ctx, &booth.CommitAdvanceParams{LockToken: "token", HistoryID: "h1", CurrentDJ: "u9"}))

	state, err := r.GetState(ctx)
	require.NoError(t, err)
	assert.Equal(t, "h1", state.HistoryID)
	assert.Equal(t, "u9", state.CurrentDJ)

	// observers that see the new historyID never see stale votes
	votes, err := r.GetVotes(ctx)
	require.NoError(t, err)
	assert.Empty(t, votes.Upvotes)
	assert.Empty(t, votes.Downvotes)
	assert.Empty(t, votes.Favorites)

	require.NoError(t, r.ClearState(ctx, &booth.ClearStateParams{LockToken: "token"}))
	state, err = r.GetState(ctx)
	require.NoError(t, err)
	assert.Empty(t, state.HistoryID)
	assert.Empty(t, state.CurrentDJ)

	assert.Equal(t, int64(1), rc.Exists(ctx, advancingKey).Val(), "lock must survive state clear")
}
