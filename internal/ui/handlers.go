package ui

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/movierecs/movierecs/internal/browse"
)

// pageLoadTimeout bounds the remote fetch of a server-rendered page.
const pageLoadTimeout = 10 * time.Second

// Handlers serves the server-rendered page.
type Handlers struct {
	catalog  browse.Catalog
	genres   *browse.GenreCatalog
	renderer *Renderer
	logger   zerolog.Logger
}

// NewHandlers creates new page handlers.
func NewHandlers(catalog browse.Catalog, genres *browse.GenreCatalog, renderer *Renderer, logger zerolog.Logger) *Handlers {
	return &Handlers{
		catalog:  catalog,
		genres:   genres,
		renderer: renderer,
		logger:   logger.With().Str("component", "ui").Logger(),
	}
}

// RegisterRoutes registers the page routes.
func (h *Handlers) RegisterRoutes(e *echo.Echo) {
	e.GET("/", h.Index)
}

// Index renders the full page for the state in the query string.
// GET /?query=...&sort_by=...&genre=...&expanded=...
func (h *Handlers) Index(c echo.Context) error {
	state := browse.StateFromParams(c.QueryParams())
	req := browse.BuildRequest(state)

	ctx, cancel := context.WithTimeout(c.Request().Context(), pageLoadTimeout)
	defer cancel()

	view := browse.View{State: state, Status: browse.StatusReady}
	movies, err := req.Execute(ctx, h.catalog)
	if err != nil {
		h.logger.Error().Err(err).Stringer("request", req).Msg("Error fetching movies")
		view.Status = browse.StatusFailed
		view.Err = err
	} else {
		view.Movies = movies
	}

	return c.Render(http.StatusOK, "page", h.renderer.PageData(view, h.genres.All()))
}
