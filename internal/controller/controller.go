package controller

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	repobooth "github.com/EDM-Spot/core/internal/repository/booth"
	"github.com/EDM-Spot/core/internal/repository/record"
	"github.com/EDM-Spot/core/internal/service/booth"
	"github.com/EDM-Spot/core/internal/service/playlist"
	"github.com/EDM-Spot/core/pkg/validator"
)

type iBoothService interface {
	GetBooth(context.Context) (booth.BoothInfo, error)
	Advance(context.Context, *booth.AdvanceParams) (*record.HistoryEntry, error)
	CastVote(ctx context.Context, userID string, direction repobooth.VoteDirection) error
	RemoveVote(ctx context.Context, userID string) error
	Favorite(ctx context.Context, userID string) error
	Unfavorite(ctx context.Context, userID string) error
	JoinWaitlist(ctx context.Context, userID string) ([]string, error)
	LeaveWaitlist(ctx context.Context, userID string) ([]string, error)
	GetWaitlist(context.Context) ([]string, error)
}

type iPlaylistService interface {
	GetUserPlaylist(ctx context.Context, userID, playlistID string) (record.Playlist, error)
	GetUserPlaylists(ctx context.Context, userID string) ([]record.Playlist, error)
	CreatePlaylist(context.Context, *playlist.CreatePlaylistParams) (record.Playlist, error)
	UpdatePlaylist(context.Context, *playlist.UpdatePlaylistParams) (record.Playlist, error)
	ShufflePlaylist(ctx context.Context, playlistID string) (record.Playlist, error)
	DeletePlaylist(ctx context.Context, playlistID string) error
	AddPlaylistItems(context.Context, *playlist.AddPlaylistItemsParams) (playlist.AddPlaylistItemsResponse, error)
	MovePlaylistItems(context.Context, *playlist.MovePlaylistItemsParams) error
	RemovePlaylistItems(ctx context.Context, playlistID string, itemIDs []string) error
	GetPlaylistItems(context.Context, *playlist.GetPlaylistItemsParams) (playlist.Page, error)
	GetPlaylistItem(ctx context.Context, itemID string) (playlist.ItemWithMedia, error)
	UpdatePlaylistItem(context.Context, *playlist.UpdatePlaylistItemParams) (playlist.ItemWithMedia, error)
}

type iConnRepo interface {
	Add(conn *websocket.Conn, userID string) error
	RemoveByConn(conn *websocket.Conn) (string, error)
	GetConns() []*websocket.Conn
}

type controller struct {
	boothService    iBoothService
	playlistService iPlaylistService
	connRepo        iConnRepo
	upgrader        websocket.Upgrader
	validate        *validator.Validator
	logger          *slog.Logger
}

func NewController(boothService iBoothService, playlistService iPlaylistService, connRepo iConnRepo, logger *slog.Logger) *controller {
	return &controller{
		boothService:    boothService,
		playlistService: playlistService,
		connRepo:        connRepo,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		validate: validator.NewValidator(),
		logger:   logger,
	}
}
