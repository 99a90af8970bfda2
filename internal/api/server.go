package api

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/movierecs/movierecs/internal/browse"
	"github.com/movierecs/movierecs/internal/config"
	"github.com/movierecs/movierecs/internal/metadata"
	"github.com/movierecs/movierecs/internal/retry"
	"github.com/movierecs/movierecs/internal/scheduler"
	"github.com/movierecs/movierecs/internal/ui"
	"github.com/movierecs/movierecs/internal/websocket"
)

var errNoRealClient = errors.New("no TMDB client configured to switch back to")

// Server handles HTTP requests for MovieRecs.
type Server struct {
	echo      *echo.Echo
	hub       *websocket.Hub
	logger    zerolog.Logger
	cfg       *config.Config
	startTime time.Time

	// Services
	metadataService *metadata.Service
	realTMDBClient  metadata.TMDBClient
	browseManager   *browse.Manager
	renderer        *ui.Renderer
	scheduler       *scheduler.Scheduler
	logsProvider    LogsProvider

	devMu sync.RWMutex
}

// NewServer creates a new server instance and wires the browse sessions
// to the websocket hub.
func NewServer(hub *websocket.Hub, metadataService *metadata.Service, cfg *config.Config, logger zerolog.Logger) (*Server, error) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	renderer, err := ui.NewRenderer(cfg.TMDB)
	if err != nil {
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}
	e.Renderer = renderer

	s := &Server{
		echo:            e,
		hub:             hub,
		logger:          logger,
		cfg:             cfg,
		startTime:       time.Now(),
		metadataService: metadataService,
		renderer:        renderer,
	}

	publisher := ui.NewLivePublisher(hub, renderer, logger)
	s.browseManager = browse.NewManager(metadataService, publisher, retryConfig(cfg.Retry), logger)
	hub.SetHandler(s.browseManager)

	s.setupMiddleware()
	if err := s.setupRoutes(); err != nil {
		return nil, err
	}

	return s, nil
}

func retryConfig(cfg config.RetryConfig) retry.Config {
	return retry.Config{
		InitialDelay: cfg.InitialDelay,
		MaxDelay:     cfg.MaxDelay,
		MaxAttempts:  cfg.MaxAttempts,
		Multiplier:   cfg.Multiplier,
	}
}

// SetLogsProvider enables the recent logs endpoints.
func (s *Server) SetLogsProvider(provider LogsProvider) {
	s.logsProvider = provider
}

// SetScheduler enables the scheduled task endpoints.
func (s *Server) SetScheduler(sched *scheduler.Scheduler) {
	s.scheduler = sched
}

// SetRealTMDBClient records the production client restored when developer
// mode is switched off.
func (s *Server) SetRealTMDBClient(client metadata.TMDBClient) {
	s.realTMDBClient = client
}

// BrowseManager returns the session manager.
func (s *Server) BrowseManager() *browse.Manager {
	return s.browseManager
}

// LoadGenres performs the startup genre load. Failure is logged and leaves
// the genre selector with only "All Genres".
func (s *Server) LoadGenres(ctx context.Context) {
	if err := s.browseManager.LoadGenres(ctx); err != nil {
		s.logger.Warn().Msg("Genre filter unavailable, only All Genres will be offered")
	}
}

// Start begins listening for HTTP requests.
func (s *Server) Start(address string) error {
	s.logger.Info().Str("address", address).Msg("starting HTTP server")
	return s.echo.Start(address)
}

// Shutdown closes every browse session and gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("shutting down HTTP server")
	s.browseManager.Close()
	return s.echo.Shutdown(ctx)
}

// Echo returns the underlying Echo instance.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}
