package redis

import (
	"context"
	"fmt"

	"github.com/EDM-Spot/core/internal/repository/booth"
)

// CastVote switches a user's vote side in one transaction, so a user is
// never a member of both vote sets.
func (r repo) CastVote(ctx context.Context, params *booth.CastVoteParams) error {
	r.logger.DebugContext(ctx, "called", "params", params)
	voteKey, otherKey := upvotesKey, downvotesKey
	if params.Direction == booth.VoteDown {
		voteKey, otherKey = downvotesKey, upvotesKey
	}

	pipe := r.rc.TxPipeline()
	pipe.SRem(ctx, otherKey, params.UserID)
	pipe.SAdd(ctx, voteKey, params.UserID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to cast vote: %w", err)
	}

	return nil
}

func (r repo) RemoveVote(ctx context.Context, userID string) error {
	r.logger.DebugContext(ctx, "called", "user_id", userID)
	pipe := r.rc.TxPipeline()
	pipe.SRem(ctx, upvotesKey, userID)
	pipe.SRem(ctx, downvotesKey, userID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to remove vote: %w", err)
	}

	return nil
}

func (r repo) AddFavorite(ctx context.Context, userID string) error {
	r.logger.DebugContext(ctx, "called", "user_id", userID)
	if err := r.rc.SAdd(ctx, favoritesKey, userID).Err(); err != nil {
		return fmt.Errorf("failed to add favorite: %w", err)
	}

	return nil
}

func (r repo) RemoveFavorite(ctx context.Context, userID string) error {
	r.logger.DebugContext(ctx, "called", "user_id", userID)
	if err := r.rc.SRem(ctx, favoritesKey, userID).Err(); err != nil {
		return fmt.Errorf("failed to remove favorite: %w", err)
	}

	return nil
}

func (r repo) GetVotes(ctx context.Context) (booth.Votes, error) {
	pipe := r.rc.Pipeline()
	upvotes := pipe.SMembers(ctx, upvotesKey)
	downvotes := pipe.SMembers(ctx, downvotesKey)
	favorites := pipe.SMembers(ctx, favoritesKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return booth.Votes{}, fmt.Errorf("failed to get votes: %w", err)
	}

	return booth.Votes{
		Upvotes:   upvotes.Val(),
		Downvotes: downvotes.Val(),
		Favorites: favorites.Val(),
	}, nil
}
