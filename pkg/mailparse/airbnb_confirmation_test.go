package mailparse

import (
	"errors"
	"testing"
	"time"
)

func airbnbConfirmationFixture() ParserInput {
	return ParserInput{
		Headers: map[string]string{
			"From":    `"Laura Bianchi via Airbnb" <automated@airbnb.com>`,
			"To":      "host@villapanorama.it",
			"Subject": "Prenotazione confermata: Laura Bianchi arriva il 12 ottobre",
			"Date":    "Mon, 06 Oct 2025 09:41:22 +0200",
		},
		Body: `Prenotazione confermata!

Codice di conferma: HM8Q2Z5XKR
Ospite: Laura Bianchi
Struttura: Villa Panorama
Check-in: 12 ottobre 2025
Check-out: 15 ottobre 2025
`,
		HTML: `<html><body>
<p><b>Codice di conferma:</b> HM8Q2Z5XKR</p>
<p><b>Struttura:</b> Villa Panorama</p>
</body></html>`,
	}
}

func TestAirbnbConfirmation(t *testing.T) {
	payload, err := DefaultRegistry().ParseEmail(airbnbConfirmationFixture())
	if err != nil {
		t.Fatalf("ParseEmail: %v", err)
	}
	if payload == nil {
		t.Fatal("ParseEmail returned nil, want airbnb confirmation payload")
	}

	if payload.Source != ProviderAirbnbConfirmation {
		t.Errorf("Source = %s, want %s", payload.Source, ProviderAirbnbConfirmation)
	}
	if payload.ReservationID != "HM8Q2Z5XKR" {
		t.Errorf("ReservationID = %q, want HM8Q2Z5XKR", payload.ReservationID)
	}
	if payload.GuestName != "Laura Bianchi" {
		t.Errorf("GuestName = %q, want Laura Bianchi", payload.GuestName)
	}
	if payload.PropertyName != "Villa Panorama" {
		t.Errorf("PropertyName = %q, want Villa Panorama", payload.PropertyName)
	}
	if payload.HostEmail != "host@villapanorama.it" {
		t.Errorf("HostEmail = %q, want host@villapanorama.it", payload.HostEmail)
	}

	wantStart := time.Date(2025, time.October, 12, 0, 0, 0, 0, time.UTC)
	wantEnd := time.Date(2025, time.October, 15, 0, 0, 0, 0, time.UTC)
	if payload.StayPeriod == nil {
		t.Fatal("StayPeriod = nil, want 2025-10-12 -> 2025-10-15")
	}
	if !payload.StayPeriod.Start.Equal(wantStart) || !payload.StayPeriod.End.Equal(wantEnd) {
		t.Errorf("StayPeriod = %v -> %v, want %v -> %v",
			payload.StayPeriod.Start, payload.StayPeriod.End, wantStart, wantEnd)
	}

	if got := payload.Metadata["property_name"]; got != "Villa Panorama" {
		t.Errorf("Metadata[property_name] = %v, want Villa Panorama", got)
	}
	if got := payload.Metadata["sent_at"]; got != "2025-10-06T07:41:22Z" {
		t.Errorf("Metadata[sent_at] = %v, want 2025-10-06T07:41:22Z", got)
	}
}

func TestAirbnbConfirmationHTMLOnlyCode(t *testing.T) {
	in := airbnbConfirmationFixture()
	in.Body = "Prenotazione confermata! Dettagli nella versione HTML."

	payload, err := DefaultRegistry().ParseEmail(in)
	if err != nil {
		t.Fatalf("ParseEmail: %v", err)
	}
	if payload.ReservationID != "HM8Q2Z5XKR" {
		t.Errorf("ReservationID = %q, want HTML fallback HM8Q2Z5XKR", payload.ReservationID)
	}
	if payload.PropertyName != "Villa Panorama" {
		t.Errorf("PropertyName = %q, want HTML fallback Villa Panorama", payload.PropertyName)
	}
}

func TestAirbnbConfirmationMissingCode(t *testing.T) {
	// A stub matcher forces the real extractor to run on a body without a
	// confirmation code.
	r := NewRegistry()
	r.Register(Descriptor{
		ID:    ProviderAirbnbConfirmation,
		Match: matchAll,
		Parse: parseAirbnbConfirmation,
	})
	in := airbnbConfirmationFixture()
	in.Body = "Prenotazione confermata, dettagli a seguire."
	in.HTML = ""

	_, err := r.ParseEmail(in)
	var xerr *ExtractionError
	if !errors.As(err, &xerr) {
		t.Fatalf("ParseEmail error = %v, want *ExtractionError", err)
	}
	if xerr.Provider != ProviderAirbnbConfirmation || xerr.Field != "reservation_id" {
		t.Errorf("ExtractionError = %+v, want reservation_id for %s", xerr, ProviderAirbnbConfirmation)
	}
}

func TestAirbnbConfirmationDoesNotMatchOtherSenders(t *testing.T) {
	in := airbnbConfirmationFixture()
	in.Headers["From"] = "promo@travel-deals.example.com"

	payload, err := DefaultRegistry().ParseEmail(in)
	if err != nil {
		t.Fatalf("ParseEmail: %v", err)
	}
	if payload != nil {
		t.Errorf("payload = %+v, want nil for non-Airbnb sender", payload)
	}
}
