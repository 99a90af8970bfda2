package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/movierecs/movierecs/internal/config"
	"github.com/movierecs/movierecs/internal/metadata/tmdb"
)

const genresCacheKey = "genres:movie"

// Service fronts the remote catalog with a memory tier, an optional
// persistent tier and request collapsing.
type Service struct {
	mu        sync.RWMutex
	tmdb      TMDBClient
	cache     *Cache
	store     ResponseStore
	genresTTL time.Duration
	group     singleflight.Group
	logger    zerolog.Logger
}

// NewService creates a new metadata service with the real TMDB client.
func NewService(cfg config.TMDBConfig, cacheCfg config.CacheConfig, logger zerolog.Logger) *Service {
	return NewServiceWithClient(tmdb.NewClient(cfg, logger), cacheCfg, logger)
}

// NewServiceWithClient creates a new metadata service with a custom client (for testing/mocking).
func NewServiceWithClient(client TMDBClient, cacheCfg config.CacheConfig, logger zerolog.Logger) *Service {
	genresTTL := cacheCfg.GenresTTL
	if genresTTL <= 0 {
		genresTTL = 24 * time.Hour
	}
	return &Service{
		tmdb:      client,
		cache:     NewCache(CacheConfig{TTL: cacheCfg.TTL, MaxItems: cacheCfg.MaxItems}),
		genresTTL: genresTTL,
		logger:    logger.With().Str("component", "metadata").Logger(),
	}
}

// SetStore attaches a persistent cache tier.
func (s *Service) SetStore(store ResponseStore) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store = store
}

// SetClient replaces the TMDB client (for developer mode switching).
func (s *Service) SetClient(client TMDBClient) {
	s.mu.Lock()
	s.tmdb = client
	s.mu.Unlock()
	s.cache.Clear()
}

func (s *Service) client() TMDBClient {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tmdb
}

func (s *Service) responseStore() ResponseStore {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.store
}

// ProviderName returns the name of the active catalog provider.
func (s *Service) ProviderName() string {
	return s.client().Name()
}

// HasMovieProvider returns true if a movie metadata provider is configured.
func (s *Service) HasMovieProvider() bool {
	return s.client().IsConfigured()
}

// Genres returns the movie genre taxonomy.
func (s *Service) Genres(ctx context.Context) ([]Genre, error) {
	return cached(ctx, s, genresCacheKey, s.genresTTL, s.cache.GetGenres, func(ctx context.Context) ([]Genre, error) {
		genres, err := s.client().GetGenres(ctx)
		if err != nil {
			return nil, fmt.Errorf("genre list failed: %w", err)
		}
		return tmdbGenresToGenres(genres), nil
	})
}

// SearchMovies searches movies by free text.
func (s *Service) SearchMovies(ctx context.Context, query string) ([]MovieSummary, error) {
	key := "movies:search:" + query
	return cached(ctx, s, key, s.cache.TTL(), s.cache.GetMovies, func(ctx context.Context) ([]MovieSummary, error) {
		results, err := s.client().SearchMovies(ctx, query)
		if err != nil {
			return nil, fmt.Errorf("movie search failed: %w", err)
		}
		return tmdbMoviesToSummaries(results), nil
	})
}

// DiscoverMovies lists movies by sort order and optional genre.
func (s *Service) DiscoverMovies(ctx context.Context, params DiscoverParams) ([]MovieSummary, error) {
	key := "movies:discover:" + params.SortBy + ":" + strconv.Itoa(params.GenreID)
	return cached(ctx, s, key, s.cache.TTL(), s.cache.GetMovies, func(ctx context.Context) ([]MovieSummary, error) {
		results, err := s.client().DiscoverMovies(ctx, tmdb.DiscoverOptions{
			SortBy:  params.SortBy,
			GenreID: params.GenreID,
		})
		if err != nil {
			return nil, fmt.Errorf("movie discover failed: %w", err)
		}
		return tmdbMoviesToSummaries(results), nil
	})
}

// ClearCache drops every cached response from both tiers, so the next
// request of each kind goes to the remote catalog.
func (s *Service) ClearCache(ctx context.Context) error {
	s.cache.Clear()

	var stored int64
	if store := s.responseStore(); store != nil {
		n, err := store.Clear(ctx)
		if err != nil {
			return fmt.Errorf("failed to clear response store: %w", err)
		}
		stored = n
	}

	s.logger.Info().Int64("stored", stored).Msg("Metadata cache cleared")
	return nil
}

// CacheSize returns the number of memory-tier entries.
func (s *Service) CacheSize() int {
	return s.cache.Len()
}

// PruneCache removes expired entries from both tiers.
func (s *Service) PruneCache(ctx context.Context) error {
	dropped := s.cache.Prune()

	var stored int64
	if store := s.responseStore(); store != nil {
		n, err := store.PruneExpired(ctx)
		if err != nil {
			return fmt.Errorf("failed to prune response store: %w", err)
		}
		stored = n
	}

	s.logger.Debug().Int("memory", dropped).Int64("stored", stored).Msg("Pruned expired cache entries")
	return nil
}

// cached resolves key from the memory tier, then the persistent tier, then
// the remote fetch. Concurrent misses on one key share a single fetch, which
// runs detached from any one caller's cancellation. Keys are scoped to the
// active provider so a client switch never serves the other one's responses.
func cached[T any](
	ctx context.Context,
	s *Service,
	key string,
	ttl time.Duration,
	lookup func(string) (T, bool),
	fetch func(context.Context) (T, error),
) (T, error) {
	var zero T
	key = s.ProviderName() + ":" + key

	if v, ok := lookup(key); ok {
		s.logger.Debug().Str("key", key).Msg("Cache hit")
		return v, nil
	}

	if v, ok := loadStored[T](ctx, s, key); ok {
		s.cache.SetWithTTL(key, v, ttl)
		return v, nil
	}

	ch := s.group.DoChan(key, func() (interface{}, error) {
		v, err := fetch(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		s.cache.SetWithTTL(key, v, ttl)
		saveStored(ctx, s, key, v, ttl)
		return v, nil
	})

	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		return res.Val.(T), nil
	}
}

func loadStored[T any](ctx context.Context, s *Service, key string) (T, bool) {
	var v T
	store := s.responseStore()
	if store == nil {
		return v, false
	}

	payload, ok, err := store.GetResponse(ctx, key)
	if err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("Response store read failed")
		return v, false
	}
	if !ok {
		return v, false
	}
	if err := json.Unmarshal(payload, &v); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("Discarding undecodable stored response")
		return v, false
	}

	s.logger.Debug().Str("key", key).Msg("Response store hit")
	return v, true
}

func saveStored(ctx context.Context, s *Service, key string, v interface{}, ttl time.Duration) {
	store := s.responseStore()
	if store == nil {
		return
	}

	payload, err := json.Marshal(v)
	if err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("Failed to encode response for store")
		return
	}
	if err := store.PutResponse(context.WithoutCancel(ctx), key, payload, ttl); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("Response store write failed")
	}
}
