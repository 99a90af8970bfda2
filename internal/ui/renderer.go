// Package ui renders the browse page and the live result grid.
package ui

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/movierecs/movierecs/internal/browse"
	"github.com/movierecs/movierecs/internal/config"
	"github.com/movierecs/movierecs/internal/metadata"
	"github.com/movierecs/movierecs/internal/metadata/tmdb"
	"github.com/movierecs/movierecs/web"
)

const (
	// AppTitle is the page heading and document title.
	AppTitle = "MovieRecs"

	// TruncateLength is the number of characters a collapsed description keeps.
	TruncateLength = 150

	ellipsis = "..."
)

// SelectOption is an <option> of a selector.
type SelectOption struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	Selected bool   `json:"selected,omitempty"`
}

// Card is one movie in the grid.
type Card struct {
	ID          int
	Title       string
	PosterURL   string
	Rating      string
	Description string
	Expanded    bool
	ToggleLabel string
	ToggleHref  string
}

// GridData is the result area of the page.
type GridData struct {
	Status  browse.Status
	Error   string
	Loading bool
	Failed  bool
	Empty   bool
	Cards   []Card
}

// PageData is the full page.
type PageData struct {
	Title        string
	State        browse.QueryState
	SortOptions  []SelectOption
	GenreOptions []SelectOption
	Grid         GridData
}

// Renderer renders the embedded templates. It implements echo.Renderer.
type Renderer struct {
	tmpl       *template.Template
	imageBase  string
	posterSize string
}

// NewRenderer parses the embedded templates.
func NewRenderer(cfg config.TMDBConfig) (*Renderer, error) {
	templates, err := web.TemplatesFS()
	if err != nil {
		return nil, fmt.Errorf("failed to open templates: %w", err)
	}

	tmpl, err := template.ParseFS(templates, "*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	return &Renderer{
		tmpl:       tmpl,
		imageBase:  cfg.ImageBaseURL,
		posterSize: cfg.PosterSize,
	}, nil
}

// Render executes the named template.
func (r *Renderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	return r.tmpl.ExecuteTemplate(w, name, data)
}

// Grid renders the result grid fragment of a view.
func (r *Renderer) Grid(view browse.View) (string, error) {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, "grid", r.GridData(view)); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// PageData builds the full page model for a view.
func (r *Renderer) PageData(view browse.View, genres []metadata.Genre) PageData {
	return PageData{
		Title:        AppTitle,
		State:        view.State,
		SortOptions:  SortOptions(view.State.SortBy),
		GenreOptions: GenreOptions(genres, view.State.GenreID),
		Grid:         r.GridData(view),
	}
}

// GridData builds the grid model for a view.
func (r *Renderer) GridData(view browse.View) GridData {
	grid := GridData{
		Status:  view.Status,
		Loading: view.Status == browse.StatusLoading,
		Failed:  view.Status == browse.StatusFailed,
		Empty:   view.Empty(),
		Cards:   make([]Card, 0, len(view.Movies)),
	}
	if grid.Failed {
		grid.Error = errorMessage(view.Err)
	}

	for _, movie := range view.Movies {
		expanded := view.State.IsExpanded(movie.ID)

		toggled := view.State
		toggled.ToggleExpanded(movie.ID)
		href := "/"
		if params := toggled.Params(); len(params) > 0 {
			href += "?" + params.Encode()
		}

		card := Card{
			ID:          movie.ID,
			Title:       movie.Title,
			PosterURL:   r.PosterURL(movie.PosterPath),
			Rating:      FormatRating(movie.VoteAverage),
			Description: Description(movie.Overview, expanded),
			Expanded:    expanded,
			ToggleLabel: "Read More",
			ToggleHref:  href,
		}
		if expanded {
			card.ToggleLabel = "Show Less"
		}
		grid.Cards = append(grid.Cards, card)
	}
	return grid
}

// PosterURL returns the CDN URL of a poster, or "" when there is none.
func (r *Renderer) PosterURL(path string) string {
	return tmdb.ImageURL(r.imageBase, r.posterSize, path)
}

// SortOptions lists the six sort orders with selected marked.
func SortOptions(selected browse.SortBy) []SelectOption {
	opts := browse.SortOptions()
	out := make([]SelectOption, len(opts))
	for i, opt := range opts {
		out[i] = SelectOption{
			Value:    string(opt.Value),
			Label:    opt.Label,
			Selected: opt.Value == selected,
		}
	}
	return out
}

// GenreOptions lists the catalog genres with selected marked. The synthetic
// "All Genres" option is part of the template.
func GenreOptions(genres []metadata.Genre, selected int) []SelectOption {
	out := make([]SelectOption, len(genres))
	for i, g := range genres {
		out[i] = SelectOption{
			Value:    strconv.Itoa(g.ID),
			Label:    g.Name,
			Selected: g.ID == selected,
		}
	}
	return out
}

// Description returns the full overview when expanded. Collapsed, it keeps
// the first TruncateLength characters and always appends an ellipsis.
func Description(overview string, expanded bool) string {
	if expanded {
		return overview
	}
	return Truncate(overview, TruncateLength) + ellipsis
}

// Truncate returns the first n characters of s.
func Truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// FormatRating renders a vote average as TMDB reports it, without rounding.
func FormatRating(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
