package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
)

type repo struct {
	db     *pgxpool.Pool
	logger *slog.Logger
}

func NewRepo(ctx context.Context, dsn string, logger *slog.Logger) (*repo, error) {
	db, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}

	if err := db.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	return &repo{db: db, logger: logger}, nil
}

func (r *repo) Close() {
	r.db.Close()
}
