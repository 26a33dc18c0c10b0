package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/EDM-Spot/core/internal/repository/record"
)

func (r *repo) CreateHistoryEntry(ctx context.Context, params *record.CreateHistoryEntryParams) (record.HistoryEntry, error) {
	r.logger.DebugContext(ctx, "called", "params", params)
	var entry record.HistoryEntry
	err := r.db.QueryRow(ctx, `
		INSERT INTO history_entries (id, user_id, playlist_id, playlist_item_id, media_id, artist, title, start_sec, end_sec, played_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, user_id, playlist_id, playlist_item_id, media_id, artist, title, start_sec, end_sec, played_at, upvotes, downvotes, favorites, created_at, updated_at
	`, uuid.NewString(), params.UserID, params.PlaylistID, params.PlaylistItemID,
		params.Media.MediaID, params.Media.Artist, params.Media.Title,
		params.Media.Start, params.Media.End, params.PlayedAt,
	).Scan(
		&entry.ID, &entry.UserID, &entry.PlaylistID, &entry.PlaylistItemID,
		&entry.Media.MediaID, &entry.Media.Artist, &entry.Media.Title,
		&entry.Media.Start, &entry.Media.End, &entry.PlayedAt,
		&entry.Upvotes, &entry.Downvotes, &entry.Favorites,
		&entry.CreatedAt, &entry.UpdatedAt,
	)
	if err != nil {
		return record.HistoryEntry{}, fmt.Errorf("failed to create history entry: %w", err)
	}

	return entry, nil
}

func (r *repo) GetHistoryEntry(ctx context.Context, entryID string) (record.HistoryEntry, error) {
	var entry record.HistoryEntry
	err := r.db.QueryRow(ctx, `
		SELECT id, user_id, playlist_id, playlist_item_id, media_id, artist, title, start_sec, end_sec, played_at, upvotes, downvotes, favorites, created_at, updated_at
		FROM history_entries
		WHERE id = $1
	`, entryID).Scan(
		&entry.ID, &entry.UserID, &entry.PlaylistID, &entry.PlaylistItemID,
		&entry.Media.MediaID, &entry.Media.Artist, &entry.Media.Title,
		&entry.Media.Start, &entry.Media.End, &entry.PlayedAt,
		&entry.Upvotes, &entry.Downvotes, &entry.Favorites,
		&entry.CreatedAt, &entry.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return record.HistoryEntry{}, record.ErrHistoryEntryNotFound
		}

		return record.HistoryEntry{}, fmt.Errorf("failed to get history entry: %w", err)
	}

	return entry, nil
}

func (r *repo) SealHistoryEntry(ctx context.Context, params *record.SealHistoryEntryParams) error {
	r.logger.DebugContext(ctx, "called", "history_entry_id", params.HistoryEntryID)
	tag, err := r.db.Exec(ctx, `
		UPDATE history_entries
		SET upvotes = $2, downvotes = $3, favorites = $4, updated_at = now()
		WHERE id = $1
	`, params.HistoryEntryID, params.Upvotes, params.Downvotes, params.Favorites)
	if err != nil {
		return fmt.Errorf("failed to seal history entry: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return record.ErrHistoryEntryNotFound
	}

	return nil
}
