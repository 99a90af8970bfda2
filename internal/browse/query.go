// Package browse holds the per-tab browse state, the request builder that
// maps it onto the remote catalog, and the sessions that keep a tab's result
// set in step with its state.
package browse

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
)

// SortBy is a discover ordering directive in the remote catalog's format.
type SortBy string

const (
	SortPopularityDesc  SortBy = "popularity.desc"
	SortPopularityAsc   SortBy = "popularity.asc"
	SortRatingDesc      SortBy = "vote_average.desc"
	SortRatingAsc       SortBy = "vote_average.asc"
	SortReleaseDateDesc SortBy = "release_date.desc"
	SortReleaseDateAsc  SortBy = "release_date.asc"

	DefaultSortBy = SortPopularityDesc
)

// ErrInvalidSortBy is returned for a sort directive outside the fixed set.
var ErrInvalidSortBy = errors.New("invalid sort order")

// SortOption is a selectable sort order with its display label.
type SortOption struct {
	Value SortBy `json:"value"`
	Label string `json:"label"`
}

var sortOptions = []SortOption{
	{SortPopularityDesc, "Popularity Descending"},
	{SortPopularityAsc, "Popularity Ascending"},
	{SortRatingDesc, "Rating Descending"},
	{SortRatingAsc, "Rating Ascending"},
	{SortReleaseDateDesc, "Release Date Descending"},
	{SortReleaseDateAsc, "Release Date Ascending"},
}

// SortOptions returns the six sort orders in display order.
func SortOptions() []SortOption {
	out := make([]SortOption, len(sortOptions))
	copy(out, sortOptions)
	return out
}

// ParseSortBy validates a sort directive.
func ParseSortBy(s string) (SortBy, error) {
	for _, opt := range sortOptions {
		if string(opt.Value) == s {
			return opt.Value, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidSortBy, s)
}

// Valid reports whether s is one of the six sort orders.
func (s SortBy) Valid() bool {
	_, err := ParseSortBy(string(s))
	return err == nil
}

// Label returns the display label, or the raw value if unknown.
func (s SortBy) Label() string {
	for _, opt := range sortOptions {
		if opt.Value == s {
			return opt.Label
		}
	}
	return string(s)
}

// QueryState is the user-controlled browse state of one tab.
// GenreID 0 means all genres and ExpandedMovieID 0 means nothing is expanded.
type QueryState struct {
	SearchQuery     string
	SortBy          SortBy
	GenreID         int
	ExpandedMovieID int
}

// DefaultQueryState returns the state a fresh tab starts in.
func DefaultQueryState() QueryState {
	return QueryState{SortBy: DefaultSortBy}
}

// ToggleExpanded collapses id if it is expanded and expands it otherwise.
// Expanding a card collapses any other.
func (q *QueryState) ToggleExpanded(id int) {
	if q.ExpandedMovieID == id {
		q.ExpandedMovieID = 0
		return
	}
	q.ExpandedMovieID = id
}

// IsExpanded reports whether the card for id shows its full description.
func (q QueryState) IsExpanded(id int) bool {
	return id != 0 && q.ExpandedMovieID == id
}

// sameFetch reports whether q and other select the same remote listing.
// The expanded card is display state and never triggers a fetch.
func (q QueryState) sameFetch(other QueryState) bool {
	return q.SearchQuery == other.SearchQuery &&
		q.SortBy == other.SortBy &&
		q.GenreID == other.GenreID
}

// Query parameter names shared by the page form, links and the websocket URL.
const (
	ParamQuery    = "query"
	ParamSortBy   = "sort_by"
	ParamGenre    = "genre"
	ParamExpanded = "expanded"
)

// StateFromParams builds a state from URL parameters. Unknown sort orders
// and non-numeric ids fall back to their defaults.
func StateFromParams(params url.Values) QueryState {
	state := DefaultQueryState()
	state.SearchQuery = params.Get(ParamQuery)

	if sortBy, err := ParseSortBy(params.Get(ParamSortBy)); err == nil {
		state.SortBy = sortBy
	}
	if id, err := strconv.Atoi(params.Get(ParamGenre)); err == nil && id > 0 {
		state.GenreID = id
	}
	if id, err := strconv.Atoi(params.Get(ParamExpanded)); err == nil && id > 0 {
		state.ExpandedMovieID = id
	}
	return state
}

// Params encodes the state as URL parameters, omitting defaults.
func (q QueryState) Params() url.Values {
	params := url.Values{}
	if q.SearchQuery != "" {
		params.Set(ParamQuery, q.SearchQuery)
	}
	if q.SortBy != "" && q.SortBy != DefaultSortBy {
		params.Set(ParamSortBy, string(q.SortBy))
	}
	if q.GenreID != 0 {
		params.Set(ParamGenre, strconv.Itoa(q.GenreID))
	}
	if q.ExpandedMovieID != 0 {
		params.Set(ParamExpanded, strconv.Itoa(q.ExpandedMovieID))
	}
	return params
}
