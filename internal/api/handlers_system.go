package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/movierecs/movierecs/internal/config"
)

func (s *Server) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) getStatus(c echo.Context) error {
	genres := s.browseManager.Genres()

	return c.JSON(http.StatusOK, map[string]interface{}{
		"version":       config.Version,
		"startTime":     s.startTime.Format(time.RFC3339),
		"developerMode": s.isDeveloperMode(),
		"provider":      s.metadataService.ProviderName(),
		"configured":    s.metadataService.HasMovieProvider(),
		"sessions":      s.browseManager.SessionCount(),
		"clients":       s.hub.ClientCount(),
		"genresLoaded":  genres.Loaded(),
		"genreCount":    len(genres.All()),
	})
}
