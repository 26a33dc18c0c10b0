package booth

import (
	"context"
	"fmt"

	"github.com/EDM-Spot/core/internal/repository/booth"
	"github.com/EDM-Spot/core/internal/repository/record"
)

// CastVote records the user's vote on the current play. Changing sides
// removes the user from the other set in the same atomic write, so the
// vote sets stay disjoint.
func (s *service) CastVote(ctx context.Context, userID string, direction booth.VoteDirection) error {
	state, err := s.boothRepo.GetState(ctx)
	if err != nil {
		return err
	}

	if state.HistoryID == "" {
		return ErrNothingPlaying
	}

	return s.boothRepo.CastVote(ctx, &booth.CastVoteParams{
		UserID:    userID,
		Direction: direction,
	})
}

func (s *service) RemoveVote(ctx context.Context, userID string) error {
	return s.boothRepo.RemoveVote(ctx, userID)
}

// Favorite marks the current play. Favorites are independent of the
// up/down vote sets.
func (s *service) Favorite(ctx context.Context, userID string) error {
	state, err := s.boothRepo.GetState(ctx)
	if err != nil {
		return err
	}

	if state.HistoryID == "" {
		return ErrNothingPlaying
	}

	return s.boothRepo.AddFavorite(ctx, userID)
}

func (s *service) Unfavorite(ctx context.Context, userID string) error {
	return s.boothRepo.RemoveFavorite(ctx, userID)
}

type BoothInfo struct {
	Entry    *record.HistoryEntry `json:"entry"`
	Votes    booth.Votes          `json:"votes"`
	Waitlist []string             `json:"waitlist"`
}

// GetBooth reads the authoritative room state: the current entry (nil
// when idle), live vote sets, and the waitlist snapshot.
func (s *service) GetBooth(ctx context.Context) (BoothInfo, error) {
	state, err := s.boothRepo.GetState(ctx)
	if err != nil {
		return BoothInfo{}, err
	}

	info := BoothInfo{}
	if state.HistoryID != "" {
		entry, err := s.recordRepo.GetHistoryEntry(ctx, state.HistoryID)
		if err != nil {
			return BoothInfo{}, fmt.Errorf("failed to get current entry: %w", err)
		}
		info.Entry = &entry

		votes, err := s.boothRepo.GetVotes(ctx)
		if err != nil {
			return BoothInfo{}, err
		}
		info.Votes = votes
	}

	waitlist, err := s.boothRepo.GetWaitlist(ctx)
	if err != nil {
		return BoothInfo{}, err
	}
	info.Waitlist = waitlist

	return info, nil
}
