package metadata

import (
	"context"
	"time"

	"github.com/movierecs/movierecs/internal/metadata/tmdb"
)

// TMDBClient defines the remote catalog operations the service needs.
type TMDBClient interface {
	Name() string
	IsConfigured() bool
	GetGenres(ctx context.Context) ([]tmdb.Genre, error)
	SearchMovies(ctx context.Context, query string) ([]tmdb.MovieResult, error)
	DiscoverMovies(ctx context.Context, opts tmdb.DiscoverOptions) ([]tmdb.MovieResult, error)
}

// ResponseStore is a persistent cache tier for decoded remote responses.
type ResponseStore interface {
	GetResponse(ctx context.Context, key string) ([]byte, bool, error)
	PutResponse(ctx context.Context, key string, payload []byte, ttl time.Duration) error
	PruneExpired(ctx context.Context) (int64, error)
	Clear(ctx context.Context) (int64, error)
}
