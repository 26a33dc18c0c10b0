package app

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/EDM-Spot/core/internal/controller"
	boothRedis "github.com/EDM-Spot/core/internal/repository/booth/redis"
	connInmemory "github.com/EDM-Spot/core/internal/repository/connection/inmemory"
	"github.com/EDM-Spot/core/internal/repository/record"
	recordInmemory "github.com/EDM-Spot/core/internal/repository/record/inmemory"
	"github.com/EDM-Spot/core/internal/repository/record/postgres"
	"github.com/EDM-Spot/core/internal/service/booth"
	"github.com/EDM-Spot/core/internal/service/playlist"
	"github.com/EDM-Spot/core/internal/service/source"
	"github.com/EDM-Spot/core/pkg/ctxlogger"
	"github.com/EDM-Spot/core/pkg/redisclient"
)

type AppConfig struct {
	Host          string `json:"host"`
	Port          int    `json:"port"`
	LogLevel      string `json:"log_level"`
	RedisHost     string `json:"redis_host"`
	RedisPort     int    `json:"redis_port"`
	RedisPassword string `json:"-"`
	// PostgresDSN selects the durable store; empty keeps records in
	// process memory.
	PostgresDSN   string `json:"-"`
	LockTTLMs     int    `json:"lock_ttl_ms"`
	WaitlistLimit int    `json:"waitlist_limit"`
}

func (cfg *AppConfig) Validate() error {
	if cfg.Port < 1 || cfg.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535")
	}
	if cfg.LockTTLMs < 0 {
		return fmt.Errorf("lock ttl must not be negative")
	}
	if cfg.WaitlistLimit < 1 {
		return fmt.Errorf("waitlist limit must be greater than 0")
	}
	return nil
}

// recordStore is the durable record surface the services consume; both
// the postgres and the in-memory repositories satisfy it.
type recordStore interface {
	CreateUser(context.Context, *record.CreateUserParams) (record.User, error)
	GetUser(ctx context.Context, userID string) (record.User, error)
	UpdateUserActivePlaylist(ctx context.Context, userID string, playlistID *string) error
	CreatePlaylist(context.Context, *record.CreatePlaylistParams) (record.Playlist, error)
	GetPlaylist(ctx context.Context, playlistID string) (record.Playlist, error)
	GetUserPlaylists(ctx context.Context, authorID string) ([]record.Playlist, error)
	UpdatePlaylist(context.Context, *record.UpdatePlaylistParams) (record.Playlist, error)
	DeletePlaylist(ctx context.Context, playlistID string) error
	SetPlaylistItems(ctx context.Context, playlistID string, itemIDs []string) error
	CreatePlaylistItems(context.Context, []record.CreatePlaylistItemParams) ([]record.PlaylistItem, error)
	GetPlaylistItem(ctx context.Context, itemID string) (record.PlaylistItem, error)
	GetPlaylistItems(ctx context.Context, itemIDs []string) ([]record.PlaylistItem, error)
	UpdatePlaylistItem(context.Context, *record.UpdatePlaylistItemParams) (record.PlaylistItem, error)
	RemovePlaylistItems(ctx context.Context, itemIDs []string) error
	GetMedia(ctx context.Context, mediaID string) (record.Media, error)
	GetMediaBySource(ctx context.Context, sourceType string, sourceIDs []string) ([]record.Media, error)
	CreateMedia(context.Context, []record.CreateMediaParams) ([]record.Media, error)
	CreateHistoryEntry(context.Context, *record.CreateHistoryEntryParams) (record.HistoryEntry, error)
	GetHistoryEntry(ctx context.Context, entryID string) (record.HistoryEntry, error)
	SealHistoryEntry(context.Context, *record.SealHistoryEntryParams) error
}

func Run(ctx context.Context, cfg *AppConfig) error {
	logLevel := slog.LevelInfo
	if err := logLevel.UnmarshalText([]byte(strings.ToUpper(cfg.LogLevel))); err != nil {
		log.Fatal(err)
	}

	h := ctxlogger.ContextHandler{
		Handler: slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level:     logLevel,
			AddSource: true,
		}),
	}

	logger := slog.New(&h)

	rc, err := redisclient.NewRedisClient(&redisclient.Config{
		Port:     cfg.RedisPort,
		Host:     cfg.RedisHost,
		Password: cfg.RedisPassword,
	})
	if err != nil {
		return fmt.Errorf("failed to create redis client: %w", err)
	}
	defer rc.Close()

	var recordRepo recordStore
	if cfg.PostgresDSN != "" {
		pgRepo, err := postgres.NewRepo(ctx, cfg.PostgresDSN, logger)
		if err != nil {
			return fmt.Errorf("failed to create postgres repo: %w", err)
		}
		defer pgRepo.Close()

		if err := pgRepo.AutoMigrate(ctx); err != nil {
			return fmt.Errorf("failed to migrate: %w", err)
		}
		recordRepo = pgRepo
	} else {
		recordRepo = recordInmemory.NewRepo()
	}

	boothRepo := boothRedis.NewRepo(rc, logger)
	connRepo := connInmemory.NewRepo()

	resolver := source.NewResolver(recordRepo, logger)
	resolver.Register(source.SourceTypeYouTube, source.NewYouTubeAdapter(logger))

	playlistService := playlist.NewService(recordRepo, resolver, logger)
	boothService := booth.NewService(boothRepo, recordRepo, playlistService, &booth.Config{
		LockTTL:       time.Duration(cfg.LockTTLMs) * time.Millisecond,
		WaitlistLimit: cfg.WaitlistLimit,
	}, logger)

	controller := controller.NewController(boothService, playlistService, connRepo, logger)
	server := &http.Server{Addr: fmt.Sprintf("%s:%d", cfg.Host, cfg.Port), Handler: controller.Mux()}

	// graceful shutdown
	serverCtx, serverStopCtx := context.WithCancel(ctx)

	if err := boothService.OnStart(serverCtx); err != nil {
		return fmt.Errorf("failed to resume booth: %w", err)
	}
	defer boothService.OnStop()

	go controller.RunBroadcaster(serverCtx, boothRepo)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	go func() {
		<-sig

		shutdownCtx, c := context.WithTimeout(serverCtx, 30*time.Second)
		defer c()

		go func() {
			<-shutdownCtx.Done()
			if shutdownCtx.Err() == context.DeadlineExceeded {
				log.Fatal("graceful shutdown timed out.. forcing exit.")
			}
		}()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Fatal(err)
		}
		serverStopCtx()
	}()

	slog.InfoContext(serverCtx, "starting server", "address", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	<-serverCtx.Done()

	return nil
}
