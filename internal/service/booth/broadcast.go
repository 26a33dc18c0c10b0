package booth

import (
	"context"

	"github.com/EDM-Spot/core/internal/repository/booth"
	"github.com/EDM-Spot/core/internal/repository/record"
)

type advanceCompletePayload struct {
	HistoryID  string               `json:"historyID"`
	UserID     string               `json:"userID"`
	PlaylistID string               `json:"playlistID"`
	ItemID     string               `json:"itemID"`
	Media      record.MediaSnapshot `json:"media"`
	PlayedAt   int64                `json:"playedAt"`
}

type playlistCyclePayload struct {
	UserID     string `json:"userID"`
	PlaylistID string `json:"playlistID"`
}

type userPlayPayload struct {
	UserID string `json:"userID"`
	Artist string `json:"artist"`
	Title  string `json:"title"`
}

// publishAdvance emits the transition in fixed program order:
// advance:complete, playlist:cycle, user:play, waitlist:update.
// Publish failures are logged and swallowed; the durable state is
// authoritative and observers may refresh.
func (s *service) publishAdvance(ctx context.Context, entry *record.HistoryEntry) {
	var payload *advanceCompletePayload
	if entry != nil {
		payload = &advanceCompletePayload{
			HistoryID:  entry.ID,
			UserID:     entry.UserID,
			PlaylistID: entry.PlaylistID,
			ItemID:     entry.PlaylistItemID,
			Media:      entry.Media,
			PlayedAt:   entry.PlayedAt.UnixMilli(),
		}
	}
	s.publish(ctx, booth.TopicAdvanceComplete, payload)

	if entry != nil {
		s.publish(ctx, booth.TopicPlaylistCycle, playlistCyclePayload{
			UserID:     entry.UserID,
			PlaylistID: entry.PlaylistID,
		})
		s.publish(ctx, booth.TopicUserPlay, userPlayPayload{
			UserID: entry.UserID,
			Artist: entry.Media.Artist,
			Title:  entry.Media.Title,
		})
	}

	s.publishWaitlist(ctx)
}

func (s *service) publishWaitlist(ctx context.Context) {
	waitlist, err := s.boothRepo.GetWaitlist(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "failed to snapshot waitlist", "error", err)
		return
	}

	s.publish(ctx, booth.TopicWaitlistUpdate, waitlist)
}

func (s *service) publish(ctx context.Context, topic string, payload any) {
	if err := s.boothRepo.Publish(ctx, topic, payload); err != nil {
		s.logger.WarnContext(ctx, "failed to publish", "topic", topic, "error", err)
	}
}
