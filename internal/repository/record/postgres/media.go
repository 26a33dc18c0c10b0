package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/EDM-Spot/core/internal/repository/record"
)

func (r *repo) GetMedia(ctx context.Context, mediaID string) (record.Media, error) {
	var media record.Media
	err := r.db.QueryRow(ctx, `
		SELECT id, source_type, source_id, duration, artist, title, created_at
		FROM media
		WHERE id = $1
	`, mediaID).Scan(
		&media.ID, &media.SourceType, &media.SourceID, &media.Duration,
		&media.Artist, &media.Title, &media.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return record.Media{}, record.ErrMediaNotFound
		}

		return record.Media{}, fmt.Errorf("failed to get media: %w", err)
	}

	return media, nil
}

func (r *repo) GetMediaBySource(ctx context.Context, sourceType string, sourceIDs []string) ([]record.Media, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, source_type, source_id, duration, artist, title, created_at
		FROM media
		WHERE source_type = $1 AND source_id = ANY($2)
	`, sourceType, sourceIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to get media by source: %w", err)
	}
	defer rows.Close()

	media := make([]record.Media, 0, len(sourceIDs))
	for rows.Next() {
		var m record.Media
		if err := rows.Scan(
			&m.ID, &m.SourceType, &m.SourceID, &m.Duration,
			&m.Artist, &m.Title, &m.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan media: %w", err)
		}
		media = append(media, m)
	}

	return media, rows.Err()
}

// CreateMedia inserts new descriptors; a concurrent insert of the same
// (source_type, source_id) wins and the existing row is returned.
func (r *repo) CreateMedia(ctx context.Context, params []record.CreateMediaParams) ([]record.Media, error) {
	r.logger.DebugContext(ctx, "called", "media", len(params))
	media := make([]record.Media, 0, len(params))
	for _, p := range params {
		var m record.Media
		err := r.db.QueryRow(ctx, `
			INSERT INTO media (id, source_type, source_id, duration, artist, title)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (source_type, source_id) DO UPDATE SET source_type = EXCLUDED.source_type
			RETURNING id, source_type, source_id, duration, artist, title, created_at
		`, uuid.NewString(), p.SourceType, p.SourceID, p.Duration, p.Artist, p.Title).Scan(
			&m.ID, &m.SourceType, &m.SourceID, &m.Duration,
			&m.Artist, &m.Title, &m.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create media: %w", err)
		}
		media = append(media, m)
	}

	return media, nil
}
