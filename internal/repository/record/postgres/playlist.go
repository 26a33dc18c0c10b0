package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/EDM-Spot/core/internal/repository/record"
)

func (r *repo) CreatePlaylist(ctx context.Context, params *record.CreatePlaylistParams) (record.Playlist, error) {
	r.logger.DebugContext(ctx, "called", "params", params)
	var playlist record.Playlist
	err := r.db.QueryRow(ctx, `
		INSERT INTO playlists (id, author_id, name)
		VALUES ($1, $2, $3)
		RETURNING id, author_id, name, item_ids, created_at, updated_at
	`, uuid.NewString(), params.AuthorID, params.Name).Scan(
		&playlist.ID, &playlist.AuthorID, &playlist.Name, &playlist.ItemIDs,
		&playlist.CreatedAt, &playlist.UpdatedAt,
	)
	if err != nil {
		return record.Playlist{}, fmt.Errorf("failed to create playlist: %w", err)
	}

	return playlist, nil
}

func (r *repo) GetPlaylist(ctx context.Context, playlistID string) (record.Playlist, error) {
	var playlist record.Playlist
	err := r.db.QueryRow(ctx, `
		SELECT id, author_id, name, item_ids, created_at, updated_at
		FROM playlists
		WHERE id = $1
	`, playlistID).Scan(
		&playlist.ID, &playlist.AuthorID, &playlist.Name, &playlist.ItemIDs,
		&playlist.CreatedAt, &playlist.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return record.Playlist{}, record.ErrPlaylistNotFound
		}

		return record.Playlist{}, fmt.Errorf("failed to get playlist: %w", err)
	}

	return playlist, nil
}

func (r *repo) GetUserPlaylists(ctx context.Context, authorID string) ([]record.Playlist, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, author_id, name, item_ids, created_at, updated_at
		FROM playlists
		WHERE author_id = $1
		ORDER BY created_at
	`, authorID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user playlists: %w", err)
	}
	defer rows.Close()

	playlists := make([]record.Playlist, 0)
	for rows.Next() {
		var playlist record.Playlist
		if err := rows.Scan(
			&playlist.ID, &playlist.AuthorID, &playlist.Name, &playlist.ItemIDs,
			&playlist.CreatedAt, &playlist.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan playlist: %w", err)
		}
		playlists = append(playlists, playlist)
	}

	return playlists, rows.Err()
}

func (r *repo) UpdatePlaylist(ctx context.Context, params *record.UpdatePlaylistParams) (record.Playlist, error) {
	r.logger.DebugContext(ctx, "called", "params", params)
	var playlist record.Playlist
	err := r.db.QueryRow(ctx, `
		UPDATE playlists
		SET name = COALESCE($2, name), updated_at = now()
		WHERE id = $1
		RETURNING id, author_id, name, item_ids, created_at, updated_at
	`, params.PlaylistID, params.Name).Scan(
		&playlist.ID, &playlist.AuthorID, &playlist.Name, &playlist.ItemIDs,
		&playlist.CreatedAt, &playlist.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return record.Playlist{}, record.ErrPlaylistNotFound
		}

		return record.Playlist{}, fmt.Errorf("failed to update playlist: %w", err)
	}

	return playlist, nil
}

func (r *repo) DeletePlaylist(ctx context.Context, playlistID string) error {
	r.logger.DebugContext(ctx, "called", "playlist_id", playlistID)
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var itemIDs []string
	if err := tx.QueryRow(ctx, `
		DELETE FROM playlists
		WHERE id = $1
		RETURNING item_ids
	`, playlistID).Scan(&itemIDs); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return record.ErrPlaylistNotFound
		}

		return fmt.Errorf("failed to delete playlist: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM playlist_items WHERE id = ANY($1)`, itemIDs); err != nil {
		return fmt.Errorf("failed to delete playlist items: %w", err)
	}

	return tx.Commit(ctx)
}

func (r *repo) SetPlaylistItems(ctx context.Context, playlistID string, itemIDs []string) error {
	r.logger.DebugContext(ctx, "called", "playlist_id", playlistID, "items", len(itemIDs))
	tag, err := r.db.Exec(ctx, `
		UPDATE playlists
		SET item_ids = $2, updated_at = now()
		WHERE id = $1
	`, playlistID, itemIDs)
	if err != nil {
		return fmt.Errorf("failed to set playlist items: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return record.ErrPlaylistNotFound
	}

	return nil
}
