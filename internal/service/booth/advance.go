package booth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/EDM-Spot/core/internal/repository/booth"
	"github.com/EDM-Spot/core/internal/repository/record"
	"github.com/EDM-Spot/core/internal/service/playlist"
)

type AdvanceParams struct {
	// Remove pops the next DJ from the waitlist without requeueing the
	// previous one. With an empty waitlist the booth goes idle instead
	// of the same DJ playing again.
	Remove bool
	// SkipPublish suppresses the broadcasts for this transition.
	SkipPublish bool
}

// Advance moves the booth to the next DJ's first track, or to idle when
// nobody can play. Concurrent calls across instances are serialized by
// the booth:advancing lease; the loser fails with ErrAdvanceInProgress
// and must not retry automatically.
func (s *service) Advance(ctx context.Context, params *AdvanceParams) (*record.HistoryEntry, error) {
	token := s.generator.GenerateRandomString(16)
	if err := s.boothRepo.AcquireLock(ctx, token, s.lockTTL); err != nil {
		if errors.Is(err, booth.ErrLockContended) {
			return nil, ErrAdvanceInProgress
		}

		return nil, fmt.Errorf("failed to acquire advance lock: %w", err)
	}
	defer func() {
		// Failure to release is non-fatal, TTL expiry cleans up.
		if err := s.boothRepo.ReleaseLock(ctx, token); err != nil {
			s.logger.DebugContext(ctx, "failed to release advance lock", "error", err)
		}
	}()

	return s.advanceLocked(ctx, params, token)
}

// advanceLocked retries over empty-playlist DJs under the held lease,
// extending it per iteration so the critical section never outlives the
// TTL.
func (s *service) advanceLocked(ctx context.Context, params *AdvanceParams, token string) (*record.HistoryEntry, error) {
	for attempt := 0; attempt < s.maxAttempts; attempt++ {
		if attempt > 0 {
			if err := s.boothRepo.ExtendLock(ctx, token, s.lockTTL); err != nil {
				return nil, err
			}
		}

		entry, err := s.advanceOnce(ctx, params, token)
		if errors.Is(err, ErrEmptyPlaylist) {
			s.logger.WarnContext(ctx, "next dj has an empty playlist, skipping")
			// Skip the offending user over a single step: pop them
			// without requeueing anyone, then try again.
			if err := s.boothRepo.RotateWaitlist(ctx, &booth.RotateWaitlistParams{LockToken: token}); err != nil {
				return nil, err
			}
			continue
		}

		return entry, err
	}

	return nil, ErrEmptyPlaylist
}

// advanceOnce is one pass of the advance protocol: read previous,
// compute next, seal, persist, rotate, commit, publish.
func (s *service) advanceOnce(ctx context.Context, params *AdvanceParams, token string) (*record.HistoryEntry, error) {
	state, err := s.boothRepo.GetState(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get booth state: %w", err)
	}

	var previous *record.HistoryEntry
	if state.HistoryID != "" {
		entry, err := s.recordRepo.GetHistoryEntry(ctx, state.HistoryID)
		if err != nil && !errors.Is(err, record.ErrHistoryEntryNotFound) {
			return nil, fmt.Errorf("failed to get previous entry: %w", err)
		}
		if err == nil {
			previous = &entry
		}
	}

	next, err := s.getNextEntry(ctx, params, state)
	if err != nil {
		return nil, err
	}

	if previous != nil {
		votes, err := s.boothRepo.GetVotes(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get votes: %w", err)
		}

		if err := s.recordRepo.SealHistoryEntry(ctx, &record.SealHistoryEntryParams{
			HistoryEntryID: previous.ID,
			Upvotes:        votes.Upvotes,
			Downvotes:      votes.Downvotes,
			Favorites:      votes.Favorites,
		}); err != nil {
			return nil, fmt.Errorf("failed to seal previous entry: %w", err)
		}
	}

	var entry *record.HistoryEntry
	if next != nil {
		created, err := s.recordRepo.CreateHistoryEntry(ctx, next)
		if err != nil {
			return nil, fmt.Errorf("failed to create history entry: %w", err)
		}
		entry = &created
	} else {
		s.stopTimer()
	}

	previousDJ := ""
	if previous != nil {
		previousDJ = previous.UserID
	}
	if err := s.boothRepo.RotateWaitlist(ctx, &booth.RotateWaitlistParams{
		LockToken:  token,
		PreviousDJ: previousDJ,
		Requeue:    previous != nil && !params.Remove,
	}); err != nil {
		return nil, err
	}

	if entry != nil {
		if err := s.boothRepo.CommitAdvance(ctx, &booth.CommitAdvanceParams{
			LockToken: token,
			HistoryID: entry.ID,
			CurrentDJ: entry.UserID,
		}); err != nil {
			return nil, err
		}

		if err := s.playlists.CyclePlaylist(ctx, entry.PlaylistID); err != nil {
			return nil, fmt.Errorf("failed to cycle playlist: %w", err)
		}

		s.armTimer(time.Duration(entry.Media.End-entry.Media.Start) * time.Second)
	} else {
		if err := s.boothRepo.ClearState(ctx, &booth.ClearStateParams{LockToken: token}); err != nil {
			return nil, err
		}
	}

	if !params.SkipPublish {
		s.publishAdvance(ctx, entry)
	}

	return entry, nil
}

// getNextEntry computes the unsaved history entry for the next play, or
// nil when the booth should go idle.
func (s *service) getNextEntry(ctx context.Context, params *AdvanceParams, state booth.State) (*record.CreateHistoryEntryParams, error) {
	head, err := s.boothRepo.GetWaitlistHead(ctx)
	if err != nil {
		return nil, err
	}

	nextUserID := head
	fromWaitlist := head != ""
	if nextUserID == "" && !params.Remove {
		// An empty waitlist keeps the current DJ in the booth.
		nextUserID = state.CurrentDJ
	}
	if nextUserID == "" {
		return nil, nil
	}

	user, err := s.recordRepo.GetUser(ctx, nextUserID)
	if err != nil {
		if errors.Is(err, record.ErrUserNotFound) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to get next user: %w", err)
	}

	activePlaylist, err := s.playlists.GetActivePlaylist(ctx, user.ID)
	if err != nil {
		if errors.Is(err, playlist.ErrNoActivePlaylist) {
			// Possibly a dangling reference: nobody can play.
			return nil, nil
		}

		return nil, fmt.Errorf("failed to get active playlist: %w", err)
	}

	if activePlaylist.Size() == 0 {
		if !fromWaitlist {
			// The reused current DJ ran out of items; skipping them
			// cannot make progress, so the booth goes idle.
			return nil, nil
		}

		return nil, ErrEmptyPlaylist
	}

	item, err := s.playlists.FirstPlaylistItem(ctx, activePlaylist.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get first playlist item: %w", err)
	}

	return &record.CreateHistoryEntryParams{
		UserID:         user.ID,
		PlaylistID:     activePlaylist.ID,
		PlaylistItemID: item.ID,
		Media: record.MediaSnapshot{
			MediaID: item.Media.ID,
			Artist:  item.Artist,
			Title:   item.Title,
			Start:   item.Start,
			End:     item.End,
		},
		PlayedAt: s.now(),
	}, nil
}
