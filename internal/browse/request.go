package browse

import (
	"context"
	"strconv"

	"github.com/movierecs/movierecs/internal/metadata"
)

// Mode selects the remote listing endpoint.
type Mode string

const (
	ModeSearch   Mode = "search"
	ModeDiscover Mode = "discover"
)

// Catalog is the remote catalog a request executes against.
type Catalog interface {
	SearchMovies(ctx context.Context, query string) ([]metadata.MovieSummary, error)
	DiscoverMovies(ctx context.Context, params metadata.DiscoverParams) ([]metadata.MovieSummary, error)
}

// Request is a fully resolved movie listing request.
type Request struct {
	Mode    Mode
	Query   string
	SortBy  SortBy
	GenreID int
}

// BuildRequest maps a state onto exactly one listing request. Non-empty
// search text selects search mode and the sort order and genre are then
// ignored. The expanded card never affects the request.
func BuildRequest(state QueryState) Request {
	if state.SearchQuery != "" {
		return Request{Mode: ModeSearch, Query: state.SearchQuery}
	}

	sortBy := state.SortBy
	if sortBy == "" {
		sortBy = DefaultSortBy
	}
	return Request{Mode: ModeDiscover, SortBy: sortBy, GenreID: state.GenreID}
}

// Endpoint returns the remote path the request targets.
func (r Request) Endpoint() string {
	if r.Mode == ModeSearch {
		return "/search/movie"
	}
	return "/discover/movie"
}

// Params returns the request's remote query parameters, without credentials.
// with_genres is present only when a genre is selected.
func (r Request) Params() map[string]string {
	if r.Mode == ModeSearch {
		return map[string]string{"query": r.Query}
	}
	params := map[string]string{"sort_by": string(r.SortBy)}
	if r.GenreID != 0 {
		params["with_genres"] = strconv.Itoa(r.GenreID)
	}
	return params
}

// String renders the request for logs.
func (r Request) String() string {
	if r.Mode == ModeSearch {
		return r.Endpoint() + "?query=" + r.Query
	}
	s := r.Endpoint() + "?sort_by=" + string(r.SortBy)
	if r.GenreID != 0 {
		s += "&with_genres=" + strconv.Itoa(r.GenreID)
	}
	return s
}

// Execute runs the request against catalog.
func (r Request) Execute(ctx context.Context, catalog Catalog) ([]metadata.MovieSummary, error) {
	if r.Mode == ModeSearch {
		return catalog.SearchMovies(ctx, r.Query)
	}
	return catalog.DiscoverMovies(ctx, metadata.DiscoverParams{
		SortBy:  string(r.SortBy),
		GenreID: r.GenreID,
	})
}
