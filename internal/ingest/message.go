package ingest

import (
	"time"

	"github.com/resflow/resflow/pkg/mailparse"
)

// InboundMessage is the JSON shape external mail fetchers hand to the relay,
// either on the inbound subject or as a dropped file.
type InboundMessage struct {
	Headers    map[string]string `json:"headers"`
	Body       string            `json:"body"`
	HTML       string            `json:"html,omitempty"`
	ReceivedAt time.Time         `json:"received_at,omitempty"`
}

// ParserInput converts the wire shape into the engine's input.
func (m InboundMessage) ParserInput() mailparse.ParserInput {
	return mailparse.ParserInput{
		Headers: m.Headers,
		Body:    m.Body,
		HTML:    m.HTML,
	}
}
