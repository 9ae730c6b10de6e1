package mailparse

import "time"

// StayPeriod is the check-in/check-out range of a reservation, expressed as
// UTC calendar-day instants.
type StayPeriod struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Totals is the monetary breakdown of a confirmed reservation. Currency is a
// three-letter ISO 4217 code derived from the symbol found in the source text.
type Totals struct {
	Amount     float64 `json:"amount"`
	BaseRate   float64 `json:"base_rate"`
	Extras     float64 `json:"extras"`
	Commission float64 `json:"commission"`
	Currency   string  `json:"currency"`
}

// ParsedEmailPayload is the canonical reservation/conversation event produced
// by the engine. It is a pure value: built once by extraction and validation,
// never mutated afterwards. Source is always set on a non-nil payload.
type ParsedEmailPayload struct {
	Source            Provider       `json:"source"`
	ReservationID     string         `json:"reservation_id,omitempty"`
	ConversationID    string         `json:"conversation_id,omitempty"`
	GuestName         string         `json:"guest_name,omitempty"`
	PropertyName      string         `json:"property_name,omitempty"`
	RoomName          string         `json:"room_name,omitempty"`
	HostEmail         string         `json:"host_email,omitempty"`
	ClientEmail       string         `json:"client_email,omitempty"`
	ClientPhone       string         `json:"client_phone,omitempty"`
	StayPeriod        *StayPeriod    `json:"stay_period,omitempty"`
	ReservationStatus string         `json:"reservation_status,omitempty"`
	PaymentStatus     string         `json:"payment_status,omitempty"`
	Totals            *Totals        `json:"totals,omitempty"`
	Services          []string       `json:"services,omitempty"`
	Notes             []string       `json:"notes,omitempty"`
	MessageText       string         `json:"message_text,omitempty"`
	Channel           string         `json:"channel,omitempty"`
	Metadata          map[string]any `json:"metadata,omitempty"`
}
