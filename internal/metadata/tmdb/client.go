package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/movierecs/movierecs/internal/config"
)

var (
	ErrAPIKeyMissing = errors.New("TMDB API key is not configured")
	ErrNotFound      = errors.New("TMDB resource not found")
	ErrAPIError      = errors.New("TMDB API error")
	ErrRateLimited   = errors.New("TMDB API rate limited")
	ErrDecode        = errors.New("TMDB response could not be decoded")
)

// DiscoverOptions are the parameters of a discover request.
// A zero GenreID means no genre filter.
type DiscoverOptions struct {
	SortBy  string
	GenreID int
}

// Client is a TMDB API client.
type Client struct {
	httpClient *http.Client
	config     config.TMDBConfig
	limiter    *rate.Limiter
	logger     zerolog.Logger
}

// NewClient creates a new TMDB client. The API key is taken from cfg and
// appended to every request.
func NewClient(cfg config.TMDBConfig, logger zerolog.Logger) *Client {
	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		config:     cfg,
		limiter:    rate.NewLimiter(limit, burst),
		logger:     logger.With().Str("component", "tmdb").Logger(),
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return "tmdb"
}

// IsConfigured returns true if the API key is set.
func (c *Client) IsConfigured() bool {
	return c.config.APIKey != ""
}

// GetGenres lists the movie genre taxonomy.
func (c *Client) GetGenres(ctx context.Context) ([]Genre, error) {
	var response GenreListResponse
	if err := c.get(ctx, "/genre/movie/list", url.Values{}, &response); err != nil {
		return nil, err
	}

	c.logger.Debug().Int("genres", len(response.Genres)).Msg("Got genre list")

	if response.Genres == nil {
		return []Genre{}, nil
	}
	return response.Genres, nil
}

// SearchMovies searches movies by free text. Ranking is TMDB's.
func (c *Client) SearchMovies(ctx context.Context, query string) ([]MovieResult, error) {
	params := url.Values{}
	params.Set("query", query)

	var response MovieListResponse
	if err := c.get(ctx, "/search/movie", params, &response); err != nil {
		return nil, err
	}

	c.logger.Debug().
		Str("query", query).
		Int("results", len(response.Results)).
		Msg("Movie search completed")

	return response.movies(), nil
}

// DiscoverMovies browses movies by sort order and optional genre.
func (c *Client) DiscoverMovies(ctx context.Context, opts DiscoverOptions) ([]MovieResult, error) {
	params := url.Values{}
	if opts.SortBy != "" {
		params.Set("sort_by", opts.SortBy)
	}
	if opts.GenreID != 0 {
		params.Set("with_genres", strconv.Itoa(opts.GenreID))
	}

	var response MovieListResponse
	if err := c.get(ctx, "/discover/movie", params, &response); err != nil {
		return nil, err
	}

	c.logger.Debug().
		Str("sortBy", opts.SortBy).
		Int("genre", opts.GenreID).
		Int("results", len(response.Results)).
		Msg("Movie discover completed")

	return response.movies(), nil
}

// GetImageURL returns a full image URL for a given path and size.
// Size options: "w92", "w154", "w185", "w342", "w500", "w780", "original"
func (c *Client) GetImageURL(path string, size string) string {
	return ImageURL(c.config.ImageBaseURL, size, path)
}

// ImageURL joins the CDN base, size segment and image path.
func ImageURL(base, size, path string) string {
	if path == "" {
		return ""
	}
	return fmt.Sprintf("%s/%s%s", base, size, path)
}

// get performs an authenticated GET against the API and decodes the JSON response.
func (c *Client) get(ctx context.Context, path string, params url.Values, result interface{}) error {
	if !c.IsConfigured() {
		return ErrAPIKeyMissing
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	endpoint := c.config.BaseURL + path
	params.Set("api_key", c.config.APIKey)
	reqURL := fmt.Sprintf("%s?%s", endpoint, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// The request URL carries the API key.
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			urlErr.URL = endpoint
		}
		if ctx.Err() == nil {
			c.logger.Error().Err(err).Str("url", endpoint).Msg("HTTP request failed")
		}
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return c.statusError(resp, endpoint)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("%w: %v", ErrDecode, err)
	}

	return nil
}

func (c *Client) statusError(resp *http.Response, endpoint string) error {
	var errResp ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil {
		c.logger.Error().
			Int("status", resp.StatusCode).
			Int("code", errResp.StatusCode).
			Str("message", errResp.StatusMessage).
			Str("url", endpoint).
			Msg("TMDB API error")
	}

	switch resp.StatusCode {
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: invalid API key", ErrAPIError)
	case http.StatusTooManyRequests:
		return ErrRateLimited
	default:
		return fmt.Errorf("%w: status %d", ErrAPIError, resp.StatusCode)
	}
}
