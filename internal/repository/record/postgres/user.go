package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/EDM-Spot/core/internal/repository/record"
)

func (r *repo) CreateUser(ctx context.Context, params *record.CreateUserParams) (record.User, error) {
	r.logger.DebugContext(ctx, "called", "params", params)
	userID := params.UserID
	if userID == "" {
		userID = uuid.NewString()
	}

	var user record.User
	err := r.db.QueryRow(ctx, `
		INSERT INTO users (id, display_name)
		VALUES ($1, $2)
		RETURNING id, display_name, active_playlist_id, created_at, updated_at
	`, userID, params.DisplayName).Scan(
		&user.ID, &user.DisplayName, &user.ActivePlaylistID, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return record.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

func (r *repo) GetUser(ctx context.Context, userID string) (record.User, error) {
	var user record.User
	err := r.db.QueryRow(ctx, `
		SELECT id, display_name, active_playlist_id, created_at, updated_at
		FROM users
		WHERE id = $1
	`, userID).Scan(&user.ID, &user.DisplayName, &user.ActivePlaylistID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return record.User{}, record.ErrUserNotFound
		}

		return record.User{}, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}

func (r *repo) UpdateUserActivePlaylist(ctx context.Context, userID string, playlistID *string) error {
	r.logger.DebugContext(ctx, "called", "user_id", userID, "playlist_id", playlistID)
	tag, err := r.db.Exec(ctx, `
		UPDATE users
		SET active_playlist_id = $2, updated_at = now()
		WHERE id = $1
	`, userID, playlistID)
	if err != nil {
		return fmt.Errorf("failed to update active playlist: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return record.ErrUserNotFound
	}

	return nil
}
