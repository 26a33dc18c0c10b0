package postgres

import (
	"context"
	"fmt"
)

func (r *repo) AutoMigrate(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id                 uuid PRIMARY KEY,
			display_name       TEXT NOT NULL,
			active_playlist_id uuid,
			created_at         TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at         TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS playlists (
			id         uuid PRIMARY KEY,
			author_id  uuid NOT NULL,
			name       TEXT NOT NULL,
			item_ids   TEXT[] NOT NULL DEFAULT '{}',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS playlist_items (
			id         uuid PRIMARY KEY,
			media_id   uuid NOT NULL,
			artist     TEXT NOT NULL,
			title      TEXT NOT NULL,
			start_sec  INT NOT NULL DEFAULT 0,
			end_sec    INT NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS media (
			id          uuid PRIMARY KEY,
			source_type TEXT NOT NULL,
			source_id   TEXT NOT NULL,
			duration    INT NOT NULL DEFAULT 0,
			artist      TEXT NOT NULL,
			title       TEXT NOT NULL,
			created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
			UNIQUE (source_type, source_id)
		)`,
		`CREATE TABLE IF NOT EXISTS history_entries (
			id               uuid PRIMARY KEY,
			user_id          uuid NOT NULL,
			playlist_id      uuid NOT NULL,
			playlist_item_id uuid NOT NULL,
			media_id         uuid NOT NULL,
			artist           TEXT NOT NULL,
			title            TEXT NOT NULL,
			start_sec        INT NOT NULL DEFAULT 0,
			end_sec          INT NOT NULL DEFAULT 0,
			played_at        TIMESTAMPTZ NOT NULL,
			upvotes          TEXT[] NOT NULL DEFAULT '{}',
			downvotes        TEXT[] NOT NULL DEFAULT '{}',
			favorites        TEXT[] NOT NULL DEFAULT '{}',
			created_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at       TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_playlists_author ON playlists (author_id)`,
		`CREATE INDEX IF NOT EXISTS idx_history_user ON history_entries (user_id, played_at DESC)`,
	}

	for _, stmt := range statements {
		if _, err := r.db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to migrate: %w", err)
		}
	}

	return nil
}
