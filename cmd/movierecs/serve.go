package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/movierecs/movierecs/internal/api"
	"github.com/movierecs/movierecs/internal/config"
	"github.com/movierecs/movierecs/internal/database"
	"github.com/movierecs/movierecs/internal/logger"
	"github.com/movierecs/movierecs/internal/metadata"
	"github.com/movierecs/movierecs/internal/metadata/mock"
	"github.com/movierecs/movierecs/internal/metadata/tmdb"
	"github.com/movierecs/movierecs/internal/scheduler"
	"github.com/movierecs/movierecs/internal/scheduler/tasks"
	"github.com/movierecs/movierecs/internal/websocket"
)

const (
	genreLoadTimeout = 30 * time.Second
	shutdownTimeout  = 10 * time.Second
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web server",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		return serve(cmd.Context(), cfg)
	},
}

func serve(parent context.Context, cfg *config.Config) error {
	log := logger.New(logger.Config{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		Path:       cfg.Logging.Path,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
		Compress:   cfg.Logging.Compress,
		BufferSize: 1000,
	})
	defer log.Close()

	log.Info().
		Str("version", config.Version).
		Str("logLevel", cfg.Logging.Level).
		Bool("developerMode", cfg.DeveloperMode).
		Msg("starting MovieRecs")

	realClient := tmdb.NewClient(cfg.TMDB, log.Logger)
	if !realClient.IsConfigured() && !cfg.DeveloperMode {
		log.Warn().Msg("No TMDB API key configured, every catalog request will fail")
	}

	var client metadata.TMDBClient = realClient
	if cfg.DeveloperMode {
		client = mock.NewTMDBClient()
	}
	metadataService := metadata.NewServiceWithClient(client, cfg.Cache, log.Logger)

	if cfg.Cache.Path != "" {
		db, err := database.New(cfg.Cache.Path)
		if err != nil {
			return fmt.Errorf("failed to open response cache: %w", err)
		}
		defer db.Close()

		applied, err := db.Migrate(parent)
		if err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		log.Info().Str("path", db.Path()).Int("applied", applied).Msg("response cache ready")
		metadataService.SetStore(metadata.NewSQLResponseStore(db.Conn()))
	}

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	hub := websocket.NewHub(log.Logger)
	go hub.Run(ctx)

	server, err := api.NewServer(hub, metadataService, cfg, log.Logger)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}
	server.SetRealTMDBClient(realClient)
	server.SetLogsProvider(log)

	sched, err := scheduler.New(log.Logger)
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}
	if err := tasks.RegisterCachePruneTask(sched, metadataService, cfg.Cache.PruneCron); err != nil {
		return fmt.Errorf("failed to register cache prune task: %w", err)
	}
	server.SetScheduler(sched)
	sched.Start()

	go func() {
		genreCtx, cancel := context.WithTimeout(ctx, genreLoadTimeout)
		defer cancel()
		server.LoadGenres(genreCtx)
	}()

	serverErr := make(chan error, 1)
	go func() {
		if err := server.Start(cfg.Server.Address()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		log.Info().Msg("received shutdown signal")
	case runErr = <-serverErr:
		log.Error().Err(runErr).Msg("HTTP server failed")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown error")
	}
	if err := sched.Stop(); err != nil {
		log.Error().Err(err).Msg("scheduler shutdown error")
	}

	log.Info().Msg("server stopped")
	return runErr
}
