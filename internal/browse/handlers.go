package browse

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/movierecs/movierecs/internal/metadata"
	"github.com/movierecs/movierecs/internal/metadata/tmdb"
)

// Handlers provides the JSON browse API.
type Handlers struct {
	manager *Manager
}

// NewHandlers creates new browse handlers.
func NewHandlers(manager *Manager) *Handlers {
	return &Handlers{manager: manager}
}

// RegisterRoutes registers the browse routes.
func (h *Handlers) RegisterRoutes(g *echo.Group) {
	g.GET("/genres", h.ListGenres)
	g.GET("/movies", h.ListMovies)
}

// GenresResponse is the genre catalog as served to API clients.
type GenresResponse struct {
	Genres []metadata.Genre `json:"genres"`
	Loaded bool             `json:"loaded"`
}

// ListGenres returns the genre catalog.
// GET /api/v1/genres
func (h *Handlers) ListGenres(c echo.Context) error {
	catalog := h.manager.Genres()
	return c.JSON(http.StatusOK, GenresResponse{
		Genres: catalog.All(),
		Loaded: catalog.Loaded(),
	})
}

// MoviesResponse is a movie listing with the request that produced it.
type MoviesResponse struct {
	Mode     Mode                    `json:"mode"`
	Endpoint string                  `json:"endpoint"`
	Params   map[string]string       `json:"params"`
	Results  []metadata.MovieSummary `json:"results"`
}

// ListMovies lists movies for a search text, or a sort order and genre.
// GET /api/v1/movies?query=...&sort_by=...&with_genres=...
func (h *Handlers) ListMovies(c echo.Context) error {
	state := DefaultQueryState()
	state.SearchQuery = c.QueryParam("query")

	if raw := c.QueryParam("sort_by"); raw != "" {
		sortBy, err := ParseSortBy(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		state.SortBy = sortBy
	}

	if raw := c.QueryParam("with_genres"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil || id < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid with_genres")
		}
		state.GenreID = id
	}

	req := BuildRequest(state)
	results, err := req.Execute(c.Request().Context(), h.manager.service)
	if err != nil {
		if errors.Is(err, tmdb.ErrAPIKeyMissing) {
			return echo.NewHTTPError(http.StatusServiceUnavailable, "catalog API key is not configured")
		}
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}

	return c.JSON(http.StatusOK, MoviesResponse{
		Mode:     req.Mode,
		Endpoint: req.Endpoint(),
		Params:   req.Params(),
		Results:  results,
	})
}
