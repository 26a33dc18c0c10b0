package source

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/EDM-Spot/core/internal/repository/record"
)

var (
	ErrUnknownSourceType = errors.New("unknown source type")
	ErrMediaNotFound     = errors.New("media not found at source")
)

// Descriptor is what a media source reports about one of its ids.
type Descriptor struct {
	SourceID string
	Artist   string
	Title    string
	Duration int
}

type iAdapter interface {
	Lookup(ctx context.Context, sourceIDs []string) ([]Descriptor, error)
}

type iRecordRepo interface {
	GetMediaBySource(ctx context.Context, sourceType string, sourceIDs []string) ([]record.Media, error)
	CreateMedia(ctx context.Context, params []record.CreateMediaParams) ([]record.Media, error)
}

// Resolver materializes canonical media descriptors. Newly seen media
// are persisted durably before being returned to the caller.
type Resolver struct {
	adapters   map[string]iAdapter
	recordRepo iRecordRepo
	logger     *slog.Logger
}

func NewResolver(recordRepo iRecordRepo, logger *slog.Logger) *Resolver {
	return &Resolver{
		adapters:   make(map[string]iAdapter),
		recordRepo: recordRepo,
		logger:     logger,
	}
}

func (r *Resolver) Register(sourceType string, adapter iAdapter) {
	r.adapters[sourceType] = adapter
}

func (r *Resolver) GetOne(ctx context.Context, sourceType, sourceID string) (record.Media, error) {
	media, err := r.Get(ctx, sourceType, []string{sourceID})
	if err != nil {
		return record.Media{}, err
	}

	if len(media) == 0 {
		return record.Media{}, ErrMediaNotFound
	}

	return media[0], nil
}

// Get returns media for the given source ids in input order, resolving
// unknown ids through the source adapter in one batched call.
func (r *Resolver) Get(ctx context.Context, sourceType string, sourceIDs []string) ([]record.Media, error) {
	known, err := r.recordRepo.GetMediaBySource(ctx, sourceType, sourceIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to get known media: %w", err)
	}

	bySourceID := make(map[string]record.Media, len(sourceIDs))
	for _, m := range known {
		bySourceID[m.SourceID] = m
	}

	unknown := make([]string, 0)
	for _, sourceID := range sourceIDs {
		if _, ok := bySourceID[sourceID]; !ok {
			unknown = append(unknown, sourceID)
		}
	}

	if len(unknown) > 0 {
		adapter, ok := r.adapters[sourceType]
		if !ok {
			return nil, ErrUnknownSourceType
		}

		descriptors, err := adapter.Lookup(ctx, unknown)
		if err != nil {
			return nil, fmt.Errorf("failed to look up %q media: %w", sourceType, err)
		}

		params := make([]record.CreateMediaParams, 0, len(descriptors))
		for _, d := range descriptors {
			params = append(params, record.CreateMediaParams{
				SourceType: sourceType,
				SourceID:   d.SourceID,
				Duration:   d.Duration,
				Artist:     d.Artist,
				Title:      d.Title,
			})
		}

		created, err := r.recordRepo.CreateMedia(ctx, params)
		if err != nil {
			return nil, fmt.Errorf("failed to persist media: %w", err)
		}

		for _, m := range created {
			bySourceID[m.SourceID] = m
		}
	}

	media := make([]record.Media, 0, len(sourceIDs))
	for _, sourceID := range sourceIDs {
		if m, ok := bySourceID[sourceID]; ok {
			media = append(media, m)
		}
	}

	return media, nil
}
