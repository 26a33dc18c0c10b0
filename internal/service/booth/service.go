package booth

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/EDM-Spot/core/internal/repository/booth"
	"github.com/EDM-Spot/core/internal/repository/record"
	"github.com/EDM-Spot/core/internal/service/playlist"
	"github.com/EDM-Spot/core/pkg/randstr"
)

var (
	ErrAdvanceInProgress = errors.New("advance already in progress")
	ErrEmptyPlaylist     = errors.New("next dj's playlist is empty")
	ErrNothingPlaying    = errors.New("nothing is playing")
	ErrUserIsCurrentDJ   = errors.New("user is the current dj")
	ErrWaitlistFull      = errors.New("waitlist is full")
)

type iBoothRepo interface {
	// state
	GetState(context.Context) (booth.State, error)
	CommitAdvance(context.Context, *booth.CommitAdvanceParams) error
	ClearState(context.Context, *booth.ClearStateParams) error
	// votes
	GetVotes(context.Context) (booth.Votes, error)
	CastVote(context.Context, *booth.CastVoteParams) error
	RemoveVote(ctx context.Context, userID string) error
	AddFavorite(ctx context.Context, userID string) error
	RemoveFavorite(ctx context.Context, userID string) error
	// waitlist
	GetWaitlist(context.Context) ([]string, error)
	GetWaitlistHead(context.Context) (string, error)
	PushWaitlist(ctx context.Context, userID string) error
	RemoveFromWaitlist(ctx context.Context, userID string) error
	RotateWaitlist(context.Context, *booth.RotateWaitlistParams) error
	// lock
	AcquireLock(ctx context.Context, token string, ttl time.Duration) error
	ExtendLock(ctx context.Context, token string, ttl time.Duration) error
	ReleaseLock(ctx context.Context, token string) error
	// broadcast
	Publish(ctx context.Context, topic string, payload any) error
}

type iRecordRepo interface {
	GetUser(ctx context.Context, userID string) (record.User, error)
	GetHistoryEntry(ctx context.Context, entryID string) (record.HistoryEntry, error)
	CreateHistoryEntry(context.Context, *record.CreateHistoryEntryParams) (record.HistoryEntry, error)
	SealHistoryEntry(context.Context, *record.SealHistoryEntryParams) error
}

type iPlaylistService interface {
	GetActivePlaylist(ctx context.Context, userID string) (record.Playlist, error)
	FirstPlaylistItem(ctx context.Context, playlistID string) (playlist.ItemWithMedia, error)
	CyclePlaylist(ctx context.Context, playlistID string) error
}

type iGenerator interface {
	GenerateRandomString(length int) string
}

type Config struct {
	// LockTTL bounds how long an advance may run before another
	// instance may preempt after a crash.
	LockTTL time.Duration
	// MaxAdvanceAttempts caps empty-playlist skips within one advance.
	MaxAdvanceAttempts int
	// WaitlistLimit caps how many users may queue to DJ.
	WaitlistLimit int
}

type service struct {
	boothRepo  iBoothRepo
	recordRepo iRecordRepo
	playlists  iPlaylistService
	generator  iGenerator
	logger     *slog.Logger

	lockTTL       time.Duration
	maxAttempts   int
	waitlistLimit int

	now func() time.Time

	timerMu     sync.Mutex
	timer       *time.Timer
	timerEndsAt time.Time
}

func NewService(boothRepo iBoothRepo, recordRepo iRecordRepo, playlists iPlaylistService, cfg *Config, logger *slog.Logger) *service {
	lockTTL := cfg.LockTTL
	if lockTTL <= 0 {
		lockTTL = 2 * time.Second
	}
	maxAttempts := cfg.MaxAdvanceAttempts
	if maxAttempts <= 0 {
		maxAttempts = 10
	}
	waitlistLimit := cfg.WaitlistLimit
	if waitlistLimit <= 0 {
		waitlistLimit = 50
	}

	letterBytes := []byte("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789")

	return &service{
		boothRepo:     boothRepo,
		recordRepo:    recordRepo,
		playlists:     playlists,
		generator:     randstr.New(letterBytes),
		logger:        logger,
		lockTTL:       lockTTL,
		maxAttempts:   maxAttempts,
		waitlistLimit: waitlistLimit,
		now:           time.Now,
	}
}
