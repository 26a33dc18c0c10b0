package booth

import (
	"context"
	"errors"
	"time"
)

// armTimer schedules the next advance for when the current track ends.
// Any previously pending timer is cancelled first; there is at most one
// end-of-track timer per instance.
func (s *service) armTimer(d time.Duration) {
	s.timerMu.Lock()
	defer s.timerMu.Unlock()

	if s.timer != nil {
		s.timer.Stop()
	}

	s.timerEndsAt = s.now().Add(d)
	s.timer = time.AfterFunc(d, s.onTrackEnd)
}

func (s *service) stopTimer() {
	s.timerMu.Lock()
	defer s.timerMu.Unlock()

	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.timerEndsAt = time.Time{}
}

func (s *service) onTrackEnd() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if _, err := s.Advance(ctx, &AdvanceParams{}); err != nil {
		if errors.Is(err, ErrAdvanceInProgress) {
			// Another instance won the race; it will broadcast the
			// transition.
			s.logger.DebugContext(ctx, "track end advance already in progress")
			return
		}

		s.logger.ErrorContext(ctx, "failed to advance on track end", "error", err)
	}
}

// OnStart resumes the booth from the state another instance (or a
// previous run of this one) left in the ephemeral store.
func (s *service) OnStart(ctx context.Context) error {
	state, err := s.boothRepo.GetState(ctx)
	if err != nil {
		return err
	}

	if state.HistoryID == "" {
		return nil
	}

	entry, err := s.recordRepo.GetHistoryEntry(ctx, state.HistoryID)
	if err != nil {
		return err
	}

	endTime := entry.PlayedAt.Add(time.Duration(entry.Media.End-entry.Media.Start) * time.Second)
	if remaining := endTime.Sub(s.now()); remaining > 0 {
		s.armTimer(remaining)
		return nil
	}

	// The track ended while nobody was driving the room.
	if _, err := s.Advance(ctx, &AdvanceParams{}); err != nil && !errors.Is(err, ErrAdvanceInProgress) {
		return err
	}

	return nil
}

// OnStop cancels the pending timer. Booth state is left untouched so
// another instance, or a restart, resumes from it.
func (s *service) OnStop() {
	s.stopTimer()
}
