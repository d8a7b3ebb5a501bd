// Package events carries realtime notifications from the HTTP handlers to the
// websocket hub. A Broker either dispatches in-process or fans out over NATS
// so that every API instance can reach its own connected clients.
package events

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
)

const (
	TypeConnected          = "connected"
	TypeNewMessage         = "new_message"
	TypeConnectionRequest  = "connection_request"
	TypeConnectionAccepted = "connection_accepted"
	TypeServiceApproved    = "service_approved"
	TypeRelay              = "relay"
)

// Event is the frame delivered to websocket clients. An event without
// Recipients goes to every client.
type Event struct {
	Type       string          `json:"type"`
	Payload    json.RawMessage `json:"payload,omitempty"`
	Recipients []int64         `json:"recipients,omitempty"`
	SenderID   int64           `json:"senderId,omitempty"`
	// Origin is the hub client id a relayed frame came from. That client
	// does not get its own frame back.
	Origin string `json:"origin,omitempty"`
}

// New builds an event with payload encoded as JSON.
func New(typ string, payload interface{}, recipients ...int64) (Event, error) {
	e := Event{Type: typ, Recipients: recipients}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return Event{}, fmt.Errorf("encoding %s payload: %w", typ, err)
		}
		e.Payload = data
	}
	return e, nil
}

// IsBroadcast reports whether the event targets every client.
func (e Event) IsBroadcast() bool {
	return len(e.Recipients) == 0
}

// IsFor reports whether userID should receive the event.
func (e Event) IsFor(userID int64) bool {
	if e.IsBroadcast() {
		return true
	}
	for _, id := range e.Recipients {
		if id == userID {
			return true
		}
	}
	return false
}

type Handler func(ctx context.Context, e Event)

type Broker interface {
	Publish(ctx context.Context, e Event) error
	// Subscribe registers h for every published event. The returned func
	// removes the subscription.
	Subscribe(h Handler) (func(), error)
	Close() error
}

// Emit builds and publishes an event. Failures are logged, not returned.
func Emit(ctx context.Context, b Broker, logger *zap.Logger, typ string, payload interface{}, recipients ...int64) {
	e, err := New(typ, payload, recipients...)
	if err == nil {
		err = b.Publish(ctx, e)
	}
	if err != nil {
		logger.Warn("error publishing event", zap.String("type", typ), zap.Error(err))
	}
}
