package playlist

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/EDM-Spot/core/internal/repository/record"
)

func (s service) GetPlaylist(ctx context.Context, playlistID string) (record.Playlist, error) {
	return s.recordRepo.GetPlaylist(ctx, playlistID)
}

// GetUserPlaylist fails with record.ErrPlaylistNotFound when the
// playlist is absent or not owned by the user; ownership is not leaked.
func (s service) GetUserPlaylist(ctx context.Context, userID, playlistID string) (record.Playlist, error) {
	playlist, err := s.recordRepo.GetPlaylist(ctx, playlistID)
	if err != nil {
		return record.Playlist{}, err
	}

	if playlist.AuthorID != userID {
		return record.Playlist{}, record.ErrPlaylistNotFound
	}

	return playlist, nil
}

func (s service) GetUserPlaylists(ctx context.Context, userID string) ([]record.Playlist, error) {
	return s.recordRepo.GetUserPlaylists(ctx, userID)
}

// CreatePlaylist creates a playlist for the user. The user's first
// playlist becomes their active playlist.
func (s service) CreatePlaylist(ctx context.Context, params *CreatePlaylistParams) (record.Playlist, error) {
	if _, err := s.recordRepo.GetUser(ctx, params.UserID); err != nil {
		return record.Playlist{}, fmt.Errorf("failed to get user: %w", err)
	}

	existing, err := s.recordRepo.GetUserPlaylists(ctx, params.UserID)
	if err != nil {
		return record.Playlist{}, fmt.Errorf("failed to get user playlists: %w", err)
	}

	playlist, err := s.recordRepo.CreatePlaylist(ctx, &record.CreatePlaylistParams{
		AuthorID: params.UserID,
		Name:     params.Name,
	})
	if err != nil {
		return record.Playlist{}, fmt.Errorf("failed to create playlist: %w", err)
	}

	if len(existing) == 0 {
		if err := s.recordRepo.UpdateUserActivePlaylist(ctx, params.UserID, &playlist.ID); err != nil {
			return record.Playlist{}, fmt.Errorf("failed to set active playlist: %w", err)
		}
	}

	return playlist, nil
}

func (s service) UpdatePlaylist(ctx context.Context, params *UpdatePlaylistParams) (record.Playlist, error) {
	return s.recordRepo.UpdatePlaylist(ctx, &record.UpdatePlaylistParams{
		PlaylistID: params.PlaylistID,
		Name:       params.Name,
	})
}

// ShufflePlaylist permutes the item order. The multiset of items is
// preserved.
func (s service) ShufflePlaylist(ctx context.Context, playlistID string) (record.Playlist, error) {
	playlist, err := s.recordRepo.GetPlaylist(ctx, playlistID)
	if err != nil {
		return record.Playlist{}, err
	}

	rand.Shuffle(len(playlist.ItemIDs), func(i, j int) {
		playlist.ItemIDs[i], playlist.ItemIDs[j] = playlist.ItemIDs[j], playlist.ItemIDs[i]
	})

	if err := s.recordRepo.SetPlaylistItems(ctx, playlistID, playlist.ItemIDs); err != nil {
		return record.Playlist{}, fmt.Errorf("failed to save shuffled order: %w", err)
	}

	return playlist, nil
}

func (s service) DeletePlaylist(ctx context.Context, playlistID string) error {
	return s.recordRepo.DeletePlaylist(ctx, playlistID)
}

// GetActivePlaylist loads the playlist the user is DJing from. A
// dangling active playlist reference is reported as ErrNoActivePlaylist.
func (s service) GetActivePlaylist(ctx context.Context, userID string) (record.Playlist, error) {
	user, err := s.recordRepo.GetUser(ctx, userID)
	if err != nil {
		return record.Playlist{}, fmt.Errorf("failed to get user: %w", err)
	}

	if user.ActivePlaylistID == nil {
		return record.Playlist{}, ErrNoActivePlaylist
	}

	playlist, err := s.recordRepo.GetPlaylist(ctx, *user.ActivePlaylistID)
	if err != nil {
		if err == record.ErrPlaylistNotFound {
			return record.Playlist{}, ErrNoActivePlaylist
		}

		return record.Playlist{}, fmt.Errorf("failed to get active playlist: %w", err)
	}

	return playlist, nil
}

// CyclePlaylist moves the head item to the tail after it has been
// played.
func (s service) CyclePlaylist(ctx context.Context, playlistID string) error {
	playlist, err := s.recordRepo.GetPlaylist(ctx, playlistID)
	if err != nil {
		return err
	}

	if len(playlist.ItemIDs) < 2 {
		return nil
	}

	cycled := append(playlist.ItemIDs[1:], playlist.ItemIDs[0])
	if err := s.recordRepo.SetPlaylistItems(ctx, playlistID, cycled); err != nil {
		return fmt.Errorf("failed to save cycled order: %w", err)
	}

	return nil
}
