package api

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/movierecs/movierecs/internal/api/handlers"
	apimw "github.com/movierecs/movierecs/internal/api/middleware"
	"github.com/movierecs/movierecs/internal/browse"
	"github.com/movierecs/movierecs/internal/metadata"
	"github.com/movierecs/movierecs/internal/ui"
	"github.com/movierecs/movierecs/web"
)

func (s *Server) setupMiddleware() {
	// Recovery middleware
	s.echo.Use(middleware.Recover())

	// Request ID
	s.echo.Use(middleware.RequestID())

	// Security headers
	s.echo.Use(apimw.SecurityHeaders(s.cfg.TMDB.ImageBaseURL))

	// Request body size limit
	s.echo.Use(middleware.BodyLimit("64K"))

	// Block proxy probes (absolute URI requests like GET http://www.google.com/)
	s.echo.Use(apimw.ProxyRequestBlock())

	// Request logging
	s.echo.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogMethod:   true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			if v.Error != nil {
				s.logger.Error().
					Str("method", v.Method).
					Str("uri", v.URI).
					Int("status", v.Status).
					Dur("latency", v.Latency).
					Err(v.Error).
					Msg("request error")
			} else {
				s.logger.Debug().
					Str("method", v.Method).
					Str("uri", v.URI).
					Int("status", v.Status).
					Dur("latency", v.Latency).
					Msg("request")
			}
			return nil
		},
	}))

	// Gzip compression
	s.echo.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Level: 5,
		Skipper: func(c echo.Context) bool {
			// Skip compression for WebSocket
			return c.Request().Header.Get("Upgrade") == "websocket"
		},
	}))
}

// setupRoutes configures page, websocket and API routes.
func (s *Server) setupRoutes() error {
	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/ws", s.hub.HandleWebSocket)

	api := s.echo.Group("/api/v1")
	api.GET("/status", s.getStatus)

	browse.NewHandlers(s.browseManager).RegisterRoutes(api)
	metadata.NewHandlers(s.metadataService).RegisterRoutes(api.Group("/metadata"))

	s.setupSystemRoutes(api)
	s.setupSchedulerRoutes(api)

	return s.setupPageRoutes()
}

func (s *Server) setupSystemRoutes(api *echo.Group) {
	system := api.Group("/system")
	system.GET("/logs", s.getRecentLogs)
	system.GET("/logs/download", s.downloadLogFile)
	system.PUT("/devmode", s.setDeveloperMode)
}

func (s *Server) setupSchedulerRoutes(api *echo.Group) {
	h := handlers.NewSchedulerHandler(func() handlers.TaskRunner {
		if s.scheduler == nil {
			return nil
		}
		return s.scheduler
	})
	g := api.Group("/scheduler/tasks")
	g.GET("", h.ListTasks)
	g.GET("/:id", h.GetTask)
	g.POST("/:id/run", h.RunTask)
}

func (s *Server) setupPageRoutes() error {
	staticFS, err := web.StaticFS()
	if err != nil {
		return fmt.Errorf("failed to load static assets: %w", err)
	}
	fileServer := http.StripPrefix("/static/", http.FileServer(http.FS(staticFS)))
	s.echo.GET("/static/*", echo.WrapHandler(fileServer))

	pages := ui.NewHandlers(s.metadataService, s.browseManager.Genres(), s.renderer, s.logger)
	pages.RegisterRoutes(s.echo)
	return nil
}
