package ui

import (
	"github.com/rs/zerolog"

	"github.com/movierecs/movierecs/internal/browse"
	"github.com/movierecs/movierecs/internal/metadata"
)

// Sender delivers websocket messages.
type Sender interface {
	SendTo(clientID, msgType string, payload interface{}) error
	Broadcast(msgType string, payload interface{}) error
}

// ViewPayload is the payload of view:updated.
type ViewPayload struct {
	Status   browse.Status `json:"status"`
	Error    string        `json:"error,omitempty"`
	Grid     string        `json:"grid"`
	Sequence uint64        `json:"sequence"`
}

// GenresPayload is the payload of genres:loaded.
type GenresPayload struct {
	Options []SelectOption `json:"options"`
}

// InvalidPayload is the payload of input:invalid.
type InvalidPayload struct {
	Error string `json:"error"`
}

// LivePublisher renders session views and pushes them over the websocket hub.
type LivePublisher struct {
	sender   Sender
	renderer *Renderer
	logger   zerolog.Logger
}

// NewLivePublisher creates a new live publisher.
func NewLivePublisher(sender Sender, renderer *Renderer, logger zerolog.Logger) *LivePublisher {
	return &LivePublisher{
		sender:   sender,
		renderer: renderer,
		logger:   logger.With().Str("component", "ui").Logger(),
	}
}

func (p *LivePublisher) PublishView(sessionID string, view browse.View) {
	grid, err := p.renderer.Grid(view)
	if err != nil {
		p.logger.Error().Err(err).Str("session", sessionID).Msg("Failed to render grid")
		return
	}

	payload := ViewPayload{
		Status:   view.Status,
		Error:    errorMessage(view.Err),
		Grid:     grid,
		Sequence: view.Sequence,
	}
	if err := p.sender.SendTo(sessionID, browse.MsgViewUpdated, payload); err != nil {
		p.logger.Warn().Err(err).Str("session", sessionID).Msg("Failed to send view")
	}
}

func (p *LivePublisher) PublishGenres(genres []metadata.Genre) {
	payload := GenresPayload{Options: GenreOptions(genres, 0)}
	if err := p.sender.Broadcast(browse.MsgGenresLoaded, payload); err != nil {
		p.logger.Warn().Err(err).Msg("Failed to broadcast genres")
	}
}

func (p *LivePublisher) PublishInvalid(sessionID string, err error) {
	if sendErr := p.sender.SendTo(sessionID, browse.MsgInputInvalid, InvalidPayload{Error: err.Error()}); sendErr != nil {
		p.logger.Warn().Err(sendErr).Str("session", sessionID).Msg("Failed to send input error")
	}
}
