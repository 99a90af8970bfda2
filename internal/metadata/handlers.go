package metadata

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Handlers provides HTTP handlers for metadata operations.
type Handlers struct {
	service *Service
}

// NewHandlers creates new metadata handlers.
func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// RegisterRoutes registers the metadata routes.
func (h *Handlers) RegisterRoutes(g *echo.Group) {
	g.DELETE("/cache", h.ClearCache)
	g.GET("/status", h.GetStatus)
}

// ClearCache clears the metadata cache.
// DELETE /api/v1/metadata/cache
func (h *Handlers) ClearCache(c echo.Context) error {
	if err := h.service.ClearCache(c.Request().Context()); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

// StatusResponse represents the metadata service status.
type StatusResponse struct {
	Provider   string `json:"provider"`
	Configured bool   `json:"configured"`
	CacheSize  int    `json:"cacheSize"`
	Persistent bool   `json:"persistent"`
}

// GetStatus returns the status of the catalog provider and cache.
// GET /api/v1/metadata/status
func (h *Handlers) GetStatus(c echo.Context) error {
	return c.JSON(http.StatusOK, StatusResponse{
		Provider:   h.service.ProviderName(),
		Configured: h.service.HasMovieProvider(),
		CacheSize:  h.service.CacheSize(),
		Persistent: h.service.responseStore() != nil,
	})
}
