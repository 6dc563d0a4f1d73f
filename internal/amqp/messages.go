package amqp

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/bolsillo/bolsillo-backend/internal/websocket"
)

// ChangeMessage is the broker representation of a change event
type ChangeMessage struct {
	Type      string               `json:"type"`
	Entity    websocket.EntityType `json:"entity"`
	Payload   json.RawMessage      `json:"payload"`
	Timestamp time.Time            `json:"timestamp"`
}

// NewChangeMessage encodes the event payload eagerly so later mutation of
// the payload cannot change the message
func NewChangeMessage(event websocket.Event) (*ChangeMessage, error) {
	payload, err := json.Marshal(event.Payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	return &ChangeMessage{
		Type:      event.Type,
		Entity:    event.Entity,
		Payload:   payload,
		Timestamp: event.Timestamp,
	}, nil
}

// ToJSON converts the message to JSON bytes
func (m *ChangeMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ChangeMessageFromJSON creates a message from JSON bytes
func ChangeMessageFromJSON(data []byte) (*ChangeMessage, error) {
	var msg ChangeMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
