package browse

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/movierecs/movierecs/internal/metadata"
	"github.com/movierecs/movierecs/internal/metadata/tmdb"
	"github.com/movierecs/movierecs/internal/retry"
)

// Status is the state of a session's most recent movie load.
type Status string

const (
	StatusLoading Status = "loading"
	StatusReady   Status = "ready"
	StatusFailed  Status = "failed"
)

// View is a consistent snapshot of a session for rendering.
type View struct {
	State    QueryState
	Status   Status
	Err      error
	Movies   []metadata.MovieSummary
	Sequence uint64
}

// Empty reports whether a successful load returned no movies.
func (v View) Empty() bool {
	return v.Status == StatusReady && len(v.Movies) == 0
}

// Publisher delivers session views and catalog updates to the browser.
type Publisher interface {
	PublishView(sessionID string, view View)
	PublishGenres(genres []metadata.Genre)
	PublishInvalid(sessionID string, err error)
}

// IsRetryable classifies remote failures worth another attempt: transport
// errors and rate limiting.
func IsRetryable(err error) bool {
	return retry.IsNetworkError(err) || errors.Is(err, tmdb.ErrRateLimited)
}

// Session keeps one tab's result set in step with its query state. Every
// movie load is stamped with a sequence number and only the completion of
// the most recently issued load may touch the result set.
type Session struct {
	id        string
	catalog   Catalog
	publisher Publisher
	retry     retry.Config
	logger    zerolog.Logger

	ctx    context.Context
	stop   context.CancelFunc
	wg     sync.WaitGroup
	mu     sync.Mutex
	state  QueryState
	movies []metadata.MovieSummary
	status Status
	err    error
	seq    uint64
	cancel context.CancelFunc
	closed bool
}

func newSession(id string, state QueryState, catalog Catalog, publisher Publisher, retryCfg retry.Config, logger zerolog.Logger) *Session {
	if retryCfg.Retryable == nil {
		retryCfg.Retryable = IsRetryable
	}
	ctx, stop := context.WithCancel(context.Background())
	return &Session{
		id:        id,
		catalog:   catalog,
		publisher: publisher,
		retry:     retryCfg,
		logger:    logger.With().Str("session", id).Logger(),
		ctx:       ctx,
		stop:      stop,
		state:     state,
		movies:    []metadata.MovieSummary{},
		status:    StatusLoading,
	}
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Start issues the initial movie load.
func (s *Session) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.loadLocked()
	s.publishLocked()
}

// Update applies mutate to the query state. A change to the search text,
// sort order or genre issues a new load; any other change only republishes.
func (s *Session) Update(mutate func(*QueryState)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	prev := s.state
	mutate(&s.state)
	if prev == s.state {
		return
	}
	if !prev.sameFetch(s.state) {
		s.loadLocked()
	}
	s.publishLocked()
}

// Reload re-issues the movie load for the unchanged query state.
func (s *Session) Reload() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.loadLocked()
	s.publishLocked()
}

// View returns the current snapshot.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

// Close cancels any in-flight load and waits for it to return.
func (s *Session) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	s.stop()
	s.wg.Wait()
}

// loadLocked supersedes any in-flight load with one for the current state.
func (s *Session) loadLocked() {
	if s.cancel != nil {
		s.cancel()
	}
	s.seq++
	seq := s.seq

	ctx, cancel := context.WithCancel(s.ctx)
	s.cancel = cancel
	s.status = StatusLoading
	s.err = nil

	req := BuildRequest(s.state)
	s.logger.Debug().Uint64("seq", seq).Stringer("request", req).Msg("Loading movies")

	s.wg.Add(1)
	go s.fetch(ctx, seq, req)
}

func (s *Session) fetch(ctx context.Context, seq uint64, req Request) {
	defer s.wg.Done()

	var movies []metadata.MovieSummary
	err := retry.Do(ctx, "movie load", s.retry, func(ctx context.Context) error {
		result, err := req.Execute(ctx, s.catalog)
		if err != nil {
			return err
		}
		movies = result
		return nil
	}, s.logger)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || seq != s.seq {
		s.logger.Debug().Uint64("seq", seq).Uint64("latest", s.seq).Msg("Discarding superseded movie load")
		return
	}

	if err != nil {
		// Previous results stay on screen.
		s.status = StatusFailed
		s.err = err
		s.logger.Error().Err(err).Stringer("request", req).Msg("Error fetching movies")
	} else {
		if movies == nil {
			movies = []metadata.MovieSummary{}
		}
		s.movies = movies
		s.status = StatusReady
		s.err = nil
	}
	s.publishLocked()
}

func (s *Session) viewLocked() View {
	movies := make([]metadata.MovieSummary, len(s.movies))
	copy(movies, s.movies)
	return View{
		State:    s.state,
		Status:   s.status,
		Err:      s.err,
		Movies:   movies,
		Sequence: s.seq,
	}
}

// publishLocked runs under the session lock so views reach the publisher in
// the order they were produced.
func (s *Session) publishLocked() {
	if s.publisher == nil {
		return
	}
	s.publisher.PublishView(s.id, s.viewLocked())
}
