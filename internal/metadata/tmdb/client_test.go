package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/movierecs/movierecs/internal/config"
)

func newTestClient(server *httptest.Server) *Client {
	cfg := config.TMDBConfig{
		APIKey:       "test-api-key",
		BaseURL:      server.URL,
		ImageBaseURL: "https://image.tmdb.org/t/p",
		Timeout:      5,
	}
	return NewClient(cfg, zerolog.Nop())
}

func strPtr(s string) *string { return &s }

func TestClient_Name(t *testing.T) {
	client := NewClient(config.TMDBConfig{}, zerolog.Nop())
	if client.Name() != "tmdb" {
		t.Errorf("Name() = %q, want %q", client.Name(), "tmdb")
	}
}

func TestClient_IsConfigured(t *testing.T) {
	tests := []struct {
		name   string
		apiKey string
		want   bool
	}{
		{"with key", "abc123", true},
		{"without key", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := NewClient(config.TMDBConfig{APIKey: tt.apiKey}, zerolog.Nop())
			if got := client.IsConfigured(); got != tt.want {
				t.Errorf("IsConfigured() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClient_GetGenres(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/genre/movie/list" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("api_key"); got != "test-api-key" {
			t.Errorf("api_key = %q, want %q", got, "test-api-key")
		}
		json.NewEncoder(w).Encode(GenreListResponse{
			Genres: []Genre{{ID: 28, Name: "Action"}, {ID: 35, Name: "Comedy"}},
		})
	}))
	defer server.Close()

	genres, err := newTestClient(server).GetGenres(context.Background())
	if err != nil {
		t.Fatalf("GetGenres() error = %v", err)
	}
	if len(genres) != 2 {
		t.Fatalf("GetGenres() returned %d genres, want 2", len(genres))
	}
	if genres[0].ID != 28 || genres[0].Name != "Action" {
		t.Errorf("genres[0] = %+v, want Action/28", genres[0])
	}
}

func TestClient_SearchMovies(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search/movie" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}

		q := r.URL.Query()
		if q.Get("query") != "batman" {
			t.Errorf("unexpected query: %s", q.Get("query"))
		}
		if q.Has("sort_by") || q.Has("with_genres") {
			t.Errorf("search request carried discover params: %s", r.URL.RawQuery)
		}

		json.NewEncoder(w).Encode(MovieListResponse{
			Page: 1,
			Results: []MovieResult{
				{ID: 268, Title: "Batman", Overview: strPtr("The Dark Knight of Gotham City."), PosterPath: strPtr("/batman.jpg"), VoteAverage: 7.2},
				{ID: 272, Title: "Batman Begins"},
			},
		})
	}))
	defer server.Close()

	results, err := newTestClient(server).SearchMovies(context.Background(), "batman")
	if err != nil {
		t.Fatalf("SearchMovies() error = %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("SearchMovies() returned %d results, want 2", len(results))
	}
	if results[0].Title != "Batman" || results[0].VoteAverage != 7.2 {
		t.Errorf("results[0] = %+v", results[0])
	}
	if results[1].PosterPath != nil || results[1].Overview != nil {
		t.Errorf("results[1] nullable fields should be nil, got %+v", results[1])
	}
}

func TestClient_DiscoverMovies(t *testing.T) {
	tests := []struct {
		name      string
		opts      DiscoverOptions
		wantGenre string
		hasGenre  bool
	}{
		{"no genre", DiscoverOptions{SortBy: "popularity.desc"}, "", false},
		{"with genre", DiscoverOptions{SortBy: "vote_average.asc", GenreID: 28}, "28", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/discover/movie" {
					t.Errorf("unexpected path: %s", r.URL.Path)
				}
				q := r.URL.Query()
				if q.Get("sort_by") != tt.opts.SortBy {
					t.Errorf("sort_by = %q, want %q", q.Get("sort_by"), tt.opts.SortBy)
				}
				if q.Has("with_genres") != tt.hasGenre || q.Get("with_genres") != tt.wantGenre {
					t.Errorf("with_genres = %q (present %v)", q.Get("with_genres"), q.Has("with_genres"))
				}
				w.Write([]byte(`{"page":1,"results":[{"id":1,"title":"One","poster_path":null,"overview":null,"vote_average":5}]}`))
			}))
			defer server.Close()

			results, err := newTestClient(server).DiscoverMovies(context.Background(), tt.opts)
			if err != nil {
				t.Fatalf("DiscoverMovies() error = %v", err)
			}
			if len(results) != 1 || results[0].ID != 1 {
				t.Errorf("DiscoverMovies() = %+v", results)
			}
		})
	}
}

func TestClient_MissingResultsIsEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"page":1}`))
	}))
	defer server.Close()

	results, err := newTestClient(server).DiscoverMovies(context.Background(), DiscoverOptions{SortBy: "popularity.desc"})
	if err != nil {
		t.Fatalf("DiscoverMovies() error = %v", err)
	}
	if results == nil || len(results) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", results)
	}
}

func TestClient_NoAPIKey(t *testing.T) {
	client := NewClient(config.TMDBConfig{BaseURL: "http://127.0.0.1:1"}, zerolog.Nop())

	if _, err := client.SearchMovies(context.Background(), "test"); !errors.Is(err, ErrAPIKeyMissing) {
		t.Errorf("SearchMovies() error = %v, want %v", err, ErrAPIKeyMissing)
	}
	if _, err := client.GetGenres(context.Background()); !errors.Is(err, ErrAPIKeyMissing) {
		t.Errorf("GetGenres() error = %v, want %v", err, ErrAPIKeyMissing)
	}
}

func TestClient_ErrorStatuses(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   error
	}{
		{"unauthorized", http.StatusUnauthorized, ErrAPIError},
		{"not found", http.StatusNotFound, ErrNotFound},
		{"rate limited", http.StatusTooManyRequests, ErrRateLimited},
		{"server error", http.StatusBadGateway, ErrAPIError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				json.NewEncoder(w).Encode(ErrorResponse{StatusCode: 7, StatusMessage: "nope"})
			}))
			defer server.Close()

			_, err := newTestClient(server).SearchMovies(context.Background(), "test")
			if !errors.Is(err, tt.want) {
				t.Errorf("SearchMovies() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestClient_MalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results": "not-a-list"}`))
	}))
	defer server.Close()

	_, err := newTestClient(server).SearchMovies(context.Background(), "test")
	if !errors.Is(err, ErrDecode) {
		t.Errorf("SearchMovies() error = %v, want %v", err, ErrDecode)
	}
}

func TestClient_GetImageURL(t *testing.T) {
	client := NewClient(config.TMDBConfig{
		ImageBaseURL: "https://image.tmdb.org/t/p",
	}, zerolog.Nop())

	tests := []struct {
		path string
		size string
		want string
	}{
		{"/abc.jpg", "w500", "https://image.tmdb.org/t/p/w500/abc.jpg"},
		{"/poster.jpg", "original", "https://image.tmdb.org/t/p/original/poster.jpg"},
		{"", "w500", ""},
	}

	for _, tt := range tests {
		got := client.GetImageURL(tt.path, tt.size)
		if got != tt.want {
			t.Errorf("GetImageURL(%q, %q) = %q, want %q", tt.path, tt.size, got, tt.want)
		}
	}
}

func TestClient_TransportErrorHidesAPIKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	client := newTestClient(server)
	server.Close()

	_, err := client.GetGenres(context.Background())
	if err == nil {
		t.Fatal("expected transport error")
	}
	if strings.Contains(err.Error(), "test-api-key") {
		t.Errorf("error leaks API key: %v", err)
	}
}
