package services

import (
	"encoding/json"
	"time"

	"github.com/rs/zerolog"
)

// Event types published after successful writes.
const (
	EventProductCreated = "product.created"
	EventProductUpdated = "product.updated"
	EventProductDeleted = "product.deleted"
	EventUserSignedUp   = "user.signed_up"
	EventUserUpdated    = "user.updated"
	EventUserDeleted    = "user.deleted"
)

// EventPublisher sends a serialized event under a routing key.
type EventPublisher interface {
	Publish(routingKey string, body []byte) error
}

// Event is the JSON envelope of a catalog event.
type Event struct {
	Type string    `json:"type"`
	ID   string    `json:"id"`
	At   time.Time `json:"at"`
	Data any       `json:"data"`
}

// publishEvent never fails the caller; delivery problems are only logged.
func publishEvent(pub EventPublisher, logger zerolog.Logger, eventType, id string, data any) {
	if pub == nil {
		return
	}
	body, err := json.Marshal(Event{Type: eventType, ID: id, At: time.Now().UTC(), Data: data})
	if err != nil {
		logger.Error().Err(err).Str("event", eventType).Msg("failed to marshal event")
		return
	}
	if err := pub.Publish(eventType, body); err != nil {
		logger.Warn().Err(err).Str("event", eventType).Str("id", id).Msg("failed to publish event")
		return
	}
	logger.Debug().Str("event", eventType).Str("id", id).Msg("published event")
}
