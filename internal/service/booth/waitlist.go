package booth

import (
	"context"
	"errors"
	"fmt"
)

// JoinWaitlist appends the user to the waitlist tail. Joining an idle
// booth starts it immediately.
func (s *service) JoinWaitlist(ctx context.Context, userID string) ([]string, error) {
	if _, err := s.recordRepo.GetUser(ctx, userID); err != nil {
		return nil, err
	}

	state, err := s.boothRepo.GetState(ctx)
	if err != nil {
		return nil, err
	}

	if state.CurrentDJ == userID {
		return nil, ErrUserIsCurrentDJ
	}

	waitlist, err := s.boothRepo.GetWaitlist(ctx)
	if err != nil {
		return nil, err
	}
	if len(waitlist) >= s.waitlistLimit {
		return nil, ErrWaitlistFull
	}

	if err := s.boothRepo.PushWaitlist(ctx, userID); err != nil {
		return nil, err
	}

	s.publishWaitlist(ctx)

	if state.HistoryID == "" {
		if _, err := s.Advance(ctx, &AdvanceParams{}); err != nil && !errors.Is(err, ErrAdvanceInProgress) {
			return nil, fmt.Errorf("failed to start booth: %w", err)
		}
	}

	return s.boothRepo.GetWaitlist(ctx)
}

func (s *service) LeaveWaitlist(ctx context.Context, userID string) ([]string, error) {
	if err := s.boothRepo.RemoveFromWaitlist(ctx, userID); err != nil {
		return nil, err
	}

	s.publishWaitlist(ctx)

	return s.boothRepo.GetWaitlist(ctx)
}

func (s *service) GetWaitlist(ctx context.Context) ([]string, error) {
	return s.boothRepo.GetWaitlist(ctx)
}
