package browse

import (
	"context"
	"encoding/json"
	"net/url"
	"sync"

	"github.com/rs/zerolog"

	"github.com/movierecs/movierecs/internal/metadata"
	"github.com/movierecs/movierecs/internal/retry"
)

// Service is the remote catalog as seen by the browse layer.
type Service interface {
	Catalog
	Genres(ctx context.Context) ([]metadata.Genre, error)
}

// Manager owns the genre catalog and one session per connected tab. It
// receives websocket events from the hub.
type Manager struct {
	service   Service
	genres    *GenreCatalog
	publisher Publisher
	retry     retry.Config
	validator *inputValidator
	logger    zerolog.Logger

	mu       sync.RWMutex
	sessions map[string]*Session
	closed   bool
}

// NewManager creates a new session manager.
func NewManager(service Service, publisher Publisher, retryCfg retry.Config, logger zerolog.Logger) *Manager {
	if retryCfg.Retryable == nil {
		retryCfg.Retryable = IsRetryable
	}
	return &Manager{
		service:   service,
		genres:    NewGenreCatalog(),
		publisher: publisher,
		retry:     retryCfg,
		validator: newInputValidator(),
		logger:    logger.With().Str("component", "browse").Logger(),
		sessions:  make(map[string]*Session),
	}
}

// Genres returns the shared genre catalog.
func (m *Manager) Genres() *GenreCatalog {
	return m.genres
}

// LoadGenres fetches the genre taxonomy once. On success the catalog is
// replaced and pushed to every open tab. On failure the catalog is left as
// it was and the error is logged and returned.
func (m *Manager) LoadGenres(ctx context.Context) error {
	var genres []metadata.Genre
	err := retry.Do(ctx, "genre load", m.retry, func(ctx context.Context) error {
		result, err := m.service.Genres(ctx)
		if err != nil {
			return err
		}
		genres = result
		return nil
	}, m.logger)
	if err != nil {
		m.logger.Error().Err(err).Msg("Error fetching genres")
		return err
	}

	m.genres.Set(genres)
	m.logger.Info().Int("genres", len(genres)).Msg("Genre catalog loaded")

	if m.publisher != nil {
		m.publisher.PublishGenres(m.genres.All())
	}
	return nil
}

// ResetGenres empties the genre catalog and pushes the bare "All Genres"
// selector to every open tab. Used when the catalog provider changes.
func (m *Manager) ResetGenres() {
	m.genres.Reset()
	if m.publisher != nil {
		m.publisher.PublishGenres(m.genres.All())
	}
}

// Reload re-issues the movie load of every open session for its current
// query state.
func (m *Manager) Reload() {
	m.mu.RLock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, session := range m.sessions {
		sessions = append(sessions, session)
	}
	m.mu.RUnlock()

	for _, session := range sessions {
		session.Reload()
	}
	m.logger.Debug().Int("sessions", len(sessions)).Msg("Reloaded open sessions")
}

// ClientConnected opens a session seeded from the connection's URL
// parameters. Connections arriving after Close get no session.
func (m *Manager) ClientConnected(clientID string, params url.Values) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		m.logger.Debug().Str("session", clientID).Msg("Rejecting session after shutdown")
		return
	}
	session := newSession(clientID, StateFromParams(params), m.service, m.publisher, m.retry, m.logger)
	m.sessions[clientID] = session
	m.mu.Unlock()

	m.logger.Debug().Str("session", clientID).Msg("Session opened")
	session.Start()
}

// ClientDisconnected closes the tab's session.
func (m *Manager) ClientDisconnected(clientID string) {
	m.mu.Lock()
	session, ok := m.sessions[clientID]
	delete(m.sessions, clientID)
	m.mu.Unlock()

	if ok {
		session.Close()
		m.logger.Debug().Str("session", clientID).Msg("Session closed")
	}
}

// HandleMessage applies an input message to the tab's session. Invalid input
// leaves the state unchanged and is reported back to the tab.
func (m *Manager) HandleMessage(clientID, msgType string, payload json.RawMessage) {
	session, ok := m.Session(clientID)
	if !ok {
		return
	}

	mutate, err := m.validator.decodeInput(msgType, payload)
	if err != nil {
		m.logger.Debug().Err(err).Str("session", clientID).Str("type", msgType).Msg("Rejected input")
		if m.publisher != nil {
			m.publisher.PublishInvalid(clientID, err)
		}
		return
	}

	session.Update(mutate)
}

// Session returns the session for a client.
func (m *Manager) Session(clientID string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	session, ok := m.sessions[clientID]
	return session, ok
}

// SessionCount returns the number of open sessions.
func (m *Manager) SessionCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Close closes every session and rejects new ones.
func (m *Manager) Close() {
	m.mu.Lock()
	m.closed = true
	sessions := m.sessions
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	for _, session := range sessions {
		session.Close()
	}
}
