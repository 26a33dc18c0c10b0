package playlist

import (
	"context"
	"errors"
	"log/slog"

	"github.com/EDM-Spot/core/internal/repository/record"
)

var (
	ErrInvalidItemInput = errors.New("invalid playlist item input")
	ErrNoActivePlaylist = errors.New("user has no active playlist")
	ErrItemSaveFailed   = errors.New("could not save playlist items")
)

type iRecordRepo interface {
	// user
	GetUser(ctx context.Context, userID string) (record.User, error)
	UpdateUserActivePlaylist(ctx context.Context, userID string, playlistID *string) error
	// playlist
	CreatePlaylist(ctx context.Context, params *record.CreatePlaylistParams) (record.Playlist, error)
	GetPlaylist(ctx context.Context, playlistID string) (record.Playlist, error)
	GetUserPlaylists(ctx context.Context, authorID string) ([]record.Playlist, error)
	UpdatePlaylist(ctx context.Context, params *record.UpdatePlaylistParams) (record.Playlist, error)
	DeletePlaylist(ctx context.Context, playlistID string) error
	SetPlaylistItems(ctx context.Context, playlistID string, itemIDs []string) error
	// item
	CreatePlaylistItems(ctx context.Context, params []record.CreatePlaylistItemParams) ([]record.PlaylistItem, error)
	GetPlaylistItem(ctx context.Context, itemID string) (record.PlaylistItem, error)
	GetPlaylistItems(ctx context.Context, itemIDs []string) ([]record.PlaylistItem, error)
	UpdatePlaylistItem(ctx context.Context, params *record.UpdatePlaylistItemParams) (record.PlaylistItem, error)
	RemovePlaylistItems(ctx context.Context, itemIDs []string) error
	// media
	GetMedia(ctx context.Context, mediaID string) (record.Media, error)
	GetMediaBySource(ctx context.Context, sourceType string, sourceIDs []string) ([]record.Media, error)
	CreateMedia(ctx context.Context, params []record.CreateMediaParams) ([]record.Media, error)
}

type iSourceResolver interface {
	Get(ctx context.Context, sourceType string, sourceIDs []string) ([]record.Media, error)
}

type service struct {
	recordRepo iRecordRepo
	resolver   iSourceResolver
	logger     *slog.Logger
}

func NewService(recordRepo iRecordRepo, resolver iSourceResolver, logger *slog.Logger) *service {
	return &service{
		recordRepo: recordRepo,
		resolver:   resolver,
		logger:     logger,
	}
}
