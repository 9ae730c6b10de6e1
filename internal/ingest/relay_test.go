package ingest

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/resflow/resflow/internal/natsserver"
	"github.com/resflow/resflow/pkg/mailparse"
)

func newTestBus(t *testing.T) *nats.Conn {
	t.Helper()
	srv, err := natsserver.New(natsserver.Config{StoreDir: t.TempDir()}, zerolog.Nop())
	if err != nil {
		t.Fatalf("start embedded nats: %v", err)
	}
	t.Cleanup(srv.Shutdown)
	return srv.Conn()
}

func testRelayConfig() RelayConfig {
	return RelayConfig{
		InboundSubject:   "resflow.mail.inbound",
		ParsedSubject:    "resflow.reservation.parsed",
		UnmatchedSubject: "resflow.mail.unmatched",
		FailedSubject:    "resflow.mail.failed",
	}
}

func startRelay(t *testing.T, nc *nats.Conn) *Relay {
	t.Helper()
	relay := NewRelay(nc, mailparse.DefaultRegistry(), testRelayConfig(), zerolog.Nop())
	if err := relay.Start(); err != nil {
		t.Fatalf("start relay: %v", err)
	}
	t.Cleanup(relay.Stop)
	return relay
}

func subscribe(t *testing.T, nc *nats.Conn, subject string) chan *nats.Msg {
	t.Helper()
	ch := make(chan *nats.Msg, 4)
	sub, err := nc.ChanSubscribe(subject, ch)
	if err != nil {
		t.Fatalf("subscribe %s: %v", subject, err)
	}
	t.Cleanup(func() { sub.Unsubscribe() })
	return ch
}

func waitEvent(t *testing.T, ch chan *nats.Msg) Event {
	t.Helper()
	select {
	case msg := <-ch:
		var ev Event
		if err := json.Unmarshal(msg.Data, &ev); err != nil {
			t.Fatalf("unmarshal event: %v", err)
		}
		return ev
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func TestRelayEndToEnd(t *testing.T) {
	nc := newTestBus(t)
	parsedCh := subscribe(t, nc, "resflow.reservation.parsed")
	startRelay(t, nc)

	inbound := InboundMessage{
		Headers: map[string]string{
			"From":    `"Krossbooking" <reservations@krossbooking.com>`,
			"Subject": "Prenotazione confermata - ID 5958915259",
		},
		Body: "ID Voucher=095958915259\nNome Ospite=09Mario Rossi\nTotale Prenotazione=09349,55 €\n",
	}
	data, err := json.Marshal(inbound)
	if err != nil {
		t.Fatalf("marshal inbound: %v", err)
	}
	if err := nc.Publish("resflow.mail.inbound", data); err != nil {
		t.Fatalf("publish inbound: %v", err)
	}

	ev := waitEvent(t, parsedCh)
	if ev.Type != EventTypeParsed {
		t.Errorf("event type = %q, want %q", ev.Type, EventTypeParsed)
	}
	if ev.Source != string(mailparse.ProviderKrossbooking) {
		t.Errorf("event source = %q, want %s", ev.Source, mailparse.ProviderKrossbooking)
	}
	payload, ok := ev.Payload.(map[string]any)
	if !ok {
		t.Fatalf("payload type = %T, want object", ev.Payload)
	}
	if payload["reservation_id"] != "5958915259" {
		t.Errorf("payload reservation_id = %v, want 5958915259", payload["reservation_id"])
	}
	if payload["guest_name"] != "Mario Rossi" {
		t.Errorf("payload guest_name = %v, want Mario Rossi", payload["guest_name"])
	}
}

func TestRelayUnmatched(t *testing.T) {
	nc := newTestBus(t)
	unmatchedCh := subscribe(t, nc, "resflow.mail.unmatched")
	startRelay(t, nc)

	inbound := InboundMessage{
		Headers: map[string]string{"From": "newsletter@example.com", "Subject": "Hello"},
		Body:    "Nothing to see here.",
	}
	data, _ := json.Marshal(inbound)
	nc.Publish("resflow.mail.inbound", data)

	ev := waitEvent(t, unmatchedCh)
	if ev.Type != EventTypeUnmatched {
		t.Errorf("event type = %q, want %q", ev.Type, EventTypeUnmatched)
	}
}

func TestRelayDeadLettersParseFailures(t *testing.T) {
	nc := newTestBus(t)
	failedCh := subscribe(t, nc, "resflow.mail.failed")
	startRelay(t, nc)

	// Matches the Airbnb messaging flow but carries no message text, so the
	// extractor fails loudly and the relay dead-letters.
	inbound := InboundMessage{
		Headers: map[string]string{"From": "thread-555000111@reply.airbnb.com"},
		Body:    "--- Scrivi la tua risposta sopra questa riga ---",
	}
	data, _ := json.Marshal(inbound)
	nc.Publish("resflow.mail.inbound", data)

	ev := waitEvent(t, failedCh)
	if ev.Type != EventTypeFailed {
		t.Errorf("event type = %q, want %q", ev.Type, EventTypeFailed)
	}
	payload, ok := ev.Payload.(map[string]any)
	if !ok {
		t.Fatalf("payload type = %T, want object", ev.Payload)
	}
	if payload["error"] == "" || payload["error"] == nil {
		t.Error("dead-letter event missing error detail")
	}
}

func TestRelayDeadLettersMalformedJSON(t *testing.T) {
	nc := newTestBus(t)
	failedCh := subscribe(t, nc, "resflow.mail.failed")
	startRelay(t, nc)

	nc.Publish("resflow.mail.inbound", []byte("{not json"))

	ev := waitEvent(t, failedCh)
	if ev.Type != EventTypeFailed {
		t.Errorf("event type = %q, want %q", ev.Type, EventTypeFailed)
	}
}
