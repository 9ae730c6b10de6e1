// Package ingest relays inbound reservation emails through the parsing
// engine and onto the bus. It is the engine's first consumer: external
// fetchers publish raw messages on the inbound subject (or drop them as JSON
// files into a watched directory) and the relay emits canonical
// reservation events, unmatched raws, and dead-lettered failures.
package ingest

import (
	"time"

	"github.com/google/uuid"
)

// Event is the envelope published on the resflow.* subjects.
type Event struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Source    string `json:"source"`
	Timestamp int64  `json:"timestamp"`
	Payload   any    `json:"payload"`
}

// NewEvent creates an Event with a generated ID and current timestamp.
func NewEvent(eventType, source string, payload any) Event {
	return Event{
		ID:        "evt_" + uuid.NewString(),
		Type:      eventType,
		Source:    source,
		Timestamp: time.Now().Unix(),
		Payload:   payload,
	}
}

// Event types emitted by the relay.
const (
	EventTypeParsed    = "reservation.email.parsed"
	EventTypeUnmatched = "mail.unmatched"
	EventTypeFailed    = "mail.parse_failed"
)
