package ui

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/movierecs/movierecs/internal/browse"
	"github.com/movierecs/movierecs/internal/metadata"
	"github.com/movierecs/movierecs/internal/metadata/tmdb"
)

type stubCatalog struct {
	err      error
	searched string
	params   metadata.DiscoverParams
}

func (s *stubCatalog) SearchMovies(ctx context.Context, query string) ([]metadata.MovieSummary, error) {
	s.searched = query
	return []metadata.MovieSummary{{ID: 268, Title: "Batman"}}, s.err
}

func (s *stubCatalog) DiscoverMovies(ctx context.Context, params metadata.DiscoverParams) ([]metadata.MovieSummary, error) {
	s.params = params
	if s.err != nil {
		return nil, s.err
	}
	return nil, nil
}

func serveIndex(t *testing.T, catalog browse.Catalog, genres *browse.GenreCatalog, target string) *httptest.ResponseRecorder {
	t.Helper()
	renderer := newTestRenderer(t)
	h := NewHandlers(catalog, genres, renderer, zerolog.Nop())

	e := echo.New()
	e.Renderer = renderer
	h.RegisterRoutes(e)

	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestHandlers_IndexSearch(t *testing.T) {
	catalog := &stubCatalog{}
	genres := browse.NewGenreCatalog()
	genres.Set([]metadata.Genre{{ID: 28, Name: "Action"}})

	rec := serveIndex(t, catalog, genres, "/?query=batman&genre=28&expanded=268")
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, "batman", catalog.searched)
	doc := parse(t, rec.Body.String())
	value, _ := doc.Find("#search").Attr("value")
	assert.Equal(t, "batman", value)
	assert.Equal(t, "Batman", doc.Find(".movie h2").Text())
	assert.Equal(t, "Show Less", doc.Find(".read-more").Text())
	assert.Equal(t, "Action", doc.Find("#genre option[selected]").Text())
}

func TestHandlers_IndexDiscoverEmpty(t *testing.T) {
	catalog := &stubCatalog{}
	rec := serveIndex(t, catalog, browse.NewGenreCatalog(), "/?sort_by=release_date.asc")
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, metadata.DiscoverParams{SortBy: "release_date.asc"}, catalog.params)
	assert.Contains(t, rec.Body.String(), "No movies found.")
}

func TestHandlers_IndexFailure(t *testing.T) {
	catalog := &stubCatalog{err: fmt.Errorf("HTTP request failed: %w", tmdb.ErrAPIKeyMissing)}
	rec := serveIndex(t, catalog, browse.NewGenreCatalog(), "/")
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.True(t, strings.Contains(body, "API key is not configured"))
	assert.NotContains(t, body, "No movies found.")
}
