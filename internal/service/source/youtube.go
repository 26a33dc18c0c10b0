package source

import (
	"context"
	"errors"
	"log/slog"

	"github.com/EDM-Spot/core/pkg/ytvideodata"
)

const SourceTypeYouTube = "youtube"

// YouTubeAdapter resolves video ids against youtube's public pages.
// There is no batch endpoint, so lookups are sequential; ids that no
// longer exist are skipped rather than failing the batch.
type YouTubeAdapter struct {
	logger *slog.Logger
}

func NewYouTubeAdapter(logger *slog.Logger) *YouTubeAdapter {
	return &YouTubeAdapter{logger: logger}
}

func (a *YouTubeAdapter) Lookup(ctx context.Context, sourceIDs []string) ([]Descriptor, error) {
	descriptors := make([]Descriptor, 0, len(sourceIDs))
	for _, sourceID := range sourceIDs {
		videoData, err := ytvideodata.Get(ctx, sourceID)
		if err != nil {
			if errors.Is(err, ytvideodata.ErrVideoNotFound) {
				a.logger.WarnContext(ctx, "video not found", "source_id", sourceID)
				continue
			}

			return nil, err
		}

		descriptors = append(descriptors, Descriptor{
			SourceID: sourceID,
			Artist:   videoData.AuthorName,
			Title:    videoData.Title,
			Duration: videoData.Duration,
		})
	}

	return descriptors, nil
}
