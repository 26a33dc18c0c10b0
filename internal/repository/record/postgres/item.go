package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/EDM-Spot/core/internal/repository/record"
)

func (r *repo) CreatePlaylistItems(ctx context.Context, params []record.CreatePlaylistItemParams) ([]record.PlaylistItem, error) {
	r.logger.DebugContext(ctx, "called", "items", len(params))
	batch := &pgx.Batch{}
	ids := make([]string, 0, len(params))
	for _, p := range params {
		id := uuid.NewString()
		ids = append(ids, id)
		batch.Queue(`
			INSERT INTO playlist_items (id, media_id, artist, title, start_sec, end_sec)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, id, p.MediaID, p.Artist, p.Title, p.Start, p.End)
	}

	if err := r.db.SendBatch(ctx, batch).Close(); err != nil {
		return nil, fmt.Errorf("failed to create playlist items: %w", err)
	}

	return r.GetPlaylistItems(ctx, ids)
}

func (r *repo) GetPlaylistItem(ctx context.Context, itemID string) (record.PlaylistItem, error) {
	var item record.PlaylistItem
	err := r.db.QueryRow(ctx, `
		SELECT id, media_id, artist, title, start_sec, end_sec, created_at, updated_at
		FROM playlist_items
		WHERE id = $1
	`, itemID).Scan(
		&item.ID, &item.MediaID, &item.Artist, &item.Title, &item.Start, &item.End,
		&item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return record.PlaylistItem{}, record.ErrPlaylistItemNotFound
		}

		return record.PlaylistItem{}, fmt.Errorf("failed to get playlist item: %w", err)
	}

	return item, nil
}

// GetPlaylistItems returns the items in the order of the given ids.
func (r *repo) GetPlaylistItems(ctx context.Context, itemIDs []string) ([]record.PlaylistItem, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, media_id, artist, title, start_sec, end_sec, created_at, updated_at
		FROM playlist_items
		WHERE id = ANY($1)
	`, itemIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to get playlist items: %w", err)
	}
	defer rows.Close()

	byID := make(map[string]record.PlaylistItem, len(itemIDs))
	for rows.Next() {
		var item record.PlaylistItem
		if err := rows.Scan(
			&item.ID, &item.MediaID, &item.Artist, &item.Title, &item.Start, &item.End,
			&item.CreatedAt, &item.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan playlist item: %w", err)
		}
		byID[item.ID] = item
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	items := make([]record.PlaylistItem, 0, len(itemIDs))
	for _, itemID := range itemIDs {
		if item, ok := byID[itemID]; ok {
			items = append(items, item)
		}
	}

	return items, nil
}

func (r *repo) UpdatePlaylistItem(ctx context.Context, params *record.UpdatePlaylistItemParams) (record.PlaylistItem, error) {
	r.logger.DebugContext(ctx, "called", "params", params)
	var item record.PlaylistItem
	err := r.db.QueryRow(ctx, `
		UPDATE playlist_items
		SET artist = COALESCE($2, artist),
		    title = COALESCE($3, title),
		    start_sec = COALESCE($4, start_sec),
		    end_sec = COALESCE($5, end_sec),
		    updated_at = now()
		WHERE id = $1
		RETURNING id, media_id, artist, title, start_sec, end_sec, created_at, updated_at
	`, params.ItemID, params.Artist, params.Title, params.Start, params.End).Scan(
		&item.ID, &item.MediaID, &item.Artist, &item.Title, &item.Start, &item.End,
		&item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return record.PlaylistItem{}, record.ErrPlaylistItemNotFound
		}

		return record.PlaylistItem{}, fmt.Errorf("failed to update playlist item: %w", err)
	}

	return item, nil
}

func (r *repo) RemovePlaylistItems(ctx context.Context, itemIDs []string) error {
	r.logger.DebugContext(ctx, "called", "items", len(itemIDs))
	if _, err := r.db.Exec(ctx, `DELETE FROM playlist_items WHERE id = ANY($1)`, itemIDs); err != nil {
		return fmt.Errorf("failed to remove playlist items: %w", err)
	}

	return nil
}
