package ytvideodata

import (
	"context"
	"errors"
	"fmt"
)

type VideoData struct {
	Title        string `json:"title"`
	AuthorName   string `json:"author_name"`
	ThumbnailUrl string `json:"thumbnail_url"`
	// Duration is in seconds. Zero when the watch page did not expose it.
	Duration int `json:"duration"`
}

func Get(ctx context.Context, videoId string) (*VideoData, error) {
	videoData, err := getVideoWithEmbed(ctx, videoId)
	if err != nil {
		if !errors.Is(err, ErrVideoNotEmbeddable) {
			return nil, fmt.Errorf("failed to get video data with embed: %w", err)
		}

		videoData, err = getFromPage(ctx, videoId)
		if err != nil {
			return nil, fmt.Errorf("failed to get video data from page: %w", err)
		}
	}

	if videoData.Duration == 0 {
		duration, err := getDuration(ctx, videoId)
		if err == nil {
			videoData.Duration = duration
		}
	}

	return videoData, nil
}
