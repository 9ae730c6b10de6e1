package mailparse

import (
	"encoding/base64"
	"testing"
)

const airbnbMessageText = `--- Scrivi la tua risposta sopra questa riga ---

Ciao! A che ora possiamo fare il check-in?

Grazie,
Laura`

func airbnbMessageFixture() ParserInput {
	return ParserInput{
		Headers: map[string]string{
			"From":    `"Laura via Airbnb" <thread-1428374927@reply.airbnb.com>`,
			"To":      "host@villapanorama.it",
			"Subject": "Re: Villa Panorama",
			"Date":    "Tue, 07 Oct 2025 14:05:10 +0200",
		},
		Body: base64.StdEncoding.EncodeToString([]byte(airbnbMessageText)),
	}
}

func TestAirbnbMessage(t *testing.T) {
	payload, err := DefaultRegistry().ParseEmail(airbnbMessageFixture())
	if err != nil {
		t.Fatalf("ParseEmail: %v", err)
	}
	if payload == nil {
		t.Fatal("ParseEmail returned nil, want airbnb message payload")
	}

	if payload.Source != ProviderAirbnbMessage {
		t.Errorf("Source = %s, want %s", payload.Source, ProviderAirbnbMessage)
	}
	if payload.ConversationID != "1428374927" {
		t.Errorf("ConversationID = %q, want 1428374927", payload.ConversationID)
	}
	if payload.GuestName != "Laura" {
		t.Errorf("GuestName = %q, want Laura", payload.GuestName)
	}

	// The base64 body decodes and the banner line disappears before the
	// message text is captured.
	want := "Ciao! A che ora possiamo fare il check-in?\n\nGrazie,\nLaura"
	if payload.MessageText != want {
		t.Errorf("MessageText = %q, want %q", payload.MessageText, want)
	}
	if payload.StayPeriod != nil {
		t.Errorf("StayPeriod = %+v, want nil for chat messages", payload.StayPeriod)
	}
}

func TestAirbnbMessagePlainBody(t *testing.T) {
	in := airbnbMessageFixture()
	in.Body = "Rispondi sopra questa riga\nPerfetto, a presto!"

	payload, err := DefaultRegistry().ParseEmail(in)
	if err != nil {
		t.Fatalf("ParseEmail: %v", err)
	}
	if payload.MessageText != "Perfetto, a presto!" {
		t.Errorf("MessageText = %q, want Perfetto, a presto!", payload.MessageText)
	}
}

func TestAirbnbMessageThreadURLFallback(t *testing.T) {
	// The sender local part wins over the thread URL; with a stub matcher the
	// URL is the only id source left.
	r := NewRegistry()
	r.Register(Descriptor{
		ID:    ProviderAirbnbMessage,
		Match: matchAll,
		Parse: parseAirbnbMessage,
	})

	in := ParserInput{
		Headers: map[string]string{"From": "guest@example.com"},
		Body:    "Ci vediamo domani!\nhttps://www.airbnb.it/messaging/thread/884422110",
	}
	payload, err := r.ParseEmail(in)
	if err != nil {
		t.Fatalf("ParseEmail: %v", err)
	}
	if payload.ConversationID != "884422110" {
		t.Errorf("ConversationID = %q, want URL fallback 884422110", payload.ConversationID)
	}
}
