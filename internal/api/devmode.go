package api

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/movierecs/movierecs/internal/metadata/mock"
)

// genreReloadTimeout bounds the genre reload that follows a provider switch.
const genreReloadTimeout = 30 * time.Second

func (s *Server) isDeveloperMode() bool {
	s.devMu.RLock()
	defer s.devMu.RUnlock()
	return s.cfg.DeveloperMode
}

// switchMetadataClients swaps between the fake catalog and the real TMDB
// client.
func (s *Server) switchMetadataClients(devMode bool) {
	if devMode {
		s.logger.Info().Msg("Switching to mock metadata provider")
		s.metadataService.SetClient(mock.NewTMDBClient())
	} else {
		s.logger.Info().Msg("Switching to real metadata provider")
		s.metadataService.SetClient(s.realTMDBClient)
	}
}

// SetDeveloperMode switches providers. Genres and open sessions from the
// previous provider are discarded and reloaded from the new one.
func (s *Server) SetDeveloperMode(enabled bool) error {
	s.devMu.Lock()
	defer s.devMu.Unlock()

	if s.cfg.DeveloperMode == enabled {
		return nil
	}
	if !enabled && s.realTMDBClient == nil {
		return errNoRealClient
	}
	s.switchMetadataClients(enabled)
	s.cfg.DeveloperMode = enabled

	s.browseManager.ResetGenres()
	s.browseManager.Reload()

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), genreReloadTimeout)
		defer cancel()
		s.LoadGenres(ctx)
	}()
	return nil
}

// PUT /api/v1/system/devmode
func (s *Server) setDeveloperMode(c echo.Context) error {
	var request struct {
		Enabled bool `json:"enabled"`
	}
	if err := c.Bind(&request); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := s.SetDeveloperMode(request.Enabled); err != nil {
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	}

	s.logger.Info().Bool("developerMode", request.Enabled).Msg("Developer mode updated")
	return c.JSON(http.StatusOK, map[string]bool{"developerMode": request.Enabled})
}
