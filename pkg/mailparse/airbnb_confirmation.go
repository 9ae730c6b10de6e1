package mailparse

import (
	"regexp"
	"strings"
	"time"
)

// Airbnb confirmation emails arrive from the automated notification domain
// with the reservation code in both the plain-text body and the HTML part.
var (
	airbnbCodeRe          = regexp.MustCompile(`\bHM[A-Z0-9]{8,}\b`)
	airbnbCodeLabelRe     = regexp.MustCompile(`(?i)Codice di conferma[: ]+\s*(HM[A-Z0-9]{8,})`)
	airbnbGuestLabelRe    = regexp.MustCompile(`(?i)^Ospite[: ]+(.+)$`)
	airbnbPropertyLabelRe = regexp.MustCompile(`(?i)^Struttura[: ]+(.+)$`)
	airbnbCheckinRe       = regexp.MustCompile(`(?i)^Check-?in[: ]+(.+)$`)
	airbnbCheckoutRe      = regexp.MustCompile(`(?i)^Check-?out[: ]+(.+)$`)
	viaAirbnbRe           = regexp.MustCompile(`(?i)^(.+?)\s+via Airbnb$`)
)

var airbnbConfirmKeywords = []string{
	"prenotazione confermata",
	"reservation confirmed",
}

func airbnbConfirmationDescriptor() Descriptor {
	return Descriptor{
		ID:    ProviderAirbnbConfirmation,
		Match: matchAirbnbConfirmation,
		Parse: parseAirbnbConfirmation,
	}
}

func matchAirbnbConfirmation(in ParserInput) bool {
	addr := senderAddress(in)
	if !strings.HasSuffix(addr, "@airbnb.com") && !strings.HasSuffix(addr, ".airbnb.com") {
		return false
	}
	// The thread-reply relay belongs to the messaging flow.
	if strings.HasSuffix(addr, "@reply.airbnb.com") {
		return false
	}
	content := decodeBody(in.Body) + "\n" + in.HTML
	if !containsAny(strings.ToLower(content), airbnbConfirmKeywords) {
		return false
	}
	return airbnbCodeRe.MatchString(content)
}

// parseAirbnbConfirmation extracts the confirmation draft. Reservation-code
// precedence: labeled plain-text line, then HTML bold-label pair, then the
// first bare code anywhere in body or HTML.
func parseAirbnbConfirmation(in ParserInput) (*ParsedEmailPayload, error) {
	text := decodeBody(in.Body)

	code := firstSubmatch(airbnbCodeLabelRe, text)
	if code == "" && in.HTML != "" {
		code = airbnbCodeRe.FindString(htmlLabelValue(in.HTML, "Codice di conferma"))
	}
	if code == "" {
		code = airbnbCodeRe.FindString(text)
	}
	if code == "" {
		code = airbnbCodeRe.FindString(in.HTML)
	}
	if code == "" {
		return nil, &ExtractionError{Provider: ProviderAirbnbConfirmation, Field: "reservation_id"}
	}

	var guest, property, checkinRaw, checkoutRaw string
	if m := viaAirbnbRe.FindStringSubmatch(senderName(in)); m != nil {
		guest = strings.TrimSpace(m[1])
	}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case guest == "" && airbnbGuestLabelRe.MatchString(line):
			guest = firstSubmatch(airbnbGuestLabelRe, line)
		case property == "" && airbnbPropertyLabelRe.MatchString(line):
			property = firstSubmatch(airbnbPropertyLabelRe, line)
		case checkinRaw == "" && airbnbCheckinRe.MatchString(line):
			checkinRaw = firstSubmatch(airbnbCheckinRe, line)
		case checkoutRaw == "" && airbnbCheckoutRe.MatchString(line):
			checkoutRaw = firstSubmatch(airbnbCheckoutRe, line)
		}
	}
	if property == "" && in.HTML != "" {
		property = htmlLabelValue(in.HTML, "Struttura")
	}

	var stay *StayPeriod
	if checkinRaw != "" && checkoutRaw != "" {
		start, err := parseItalianDate(checkinRaw)
		if err != nil {
			return nil, &ExtractionError{Provider: ProviderAirbnbConfirmation, Field: "stay_period.start"}
		}
		end, err := parseItalianDate(checkoutRaw)
		if err != nil {
			return nil, &ExtractionError{Provider: ProviderAirbnbConfirmation, Field: "stay_period.end"}
		}
		stay = &StayPeriod{Start: start, End: end}
	}

	meta := map[string]any{"subject": in.Header("subject")}
	if ts := sentAt(in); !ts.IsZero() {
		meta["sent_at"] = ts.Format(time.RFC3339)
	}
	if property != "" {
		// The confirmation flow's output contract mirrors the property name
		// into metadata for downstream consumers.
		meta["property_name"] = property
	}

	return &ParsedEmailPayload{
		Source:        ProviderAirbnbConfirmation,
		ReservationID: code,
		GuestName:     guest,
		PropertyName:  property,
		HostEmail:     recipientAddress(in),
		StayPeriod:    stay,
		Metadata:      meta,
	}, nil
}
