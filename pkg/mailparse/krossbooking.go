package mailparse

import (
	"regexp"
	"strings"
	"time"
)

// Krossbooking confirmation exports are flat Label=09value dumps; the 09 is a
// leftover quoted-printable tab separating label from value.
const krossbookingSender = "reservations@krossbooking.com"

var (
	krossSubjectRe = regexp.MustCompile(`(?i)confermata\b.*\bID\s*:?\s*(\d+)`)
	krossServiceRe = regexp.MustCompile(`^N\.\s*(\d+)\s+(.+)$`)
)

func krossbookingDescriptor() Descriptor {
	return Descriptor{
		ID:    ProviderKrossbooking,
		Match: matchKrossbooking,
		Parse: parseKrossbooking,
	}
}

func matchKrossbooking(in ParserInput) bool {
	if senderAddress(in) == krossbookingSender {
		return true
	}
	return krossSubjectRe.MatchString(in.Header("subject"))
}

func parseKrossbooking(in ParserInput) (*ParsedEmailPayload, error) {
	text := decodeBody(in.Body)

	p := &ParsedEmailPayload{Source: ProviderKrossbooking}
	meta := map[string]any{"subject": in.Header("subject")}
	if ts := sentAt(in); !ts.IsZero() {
		meta["sent_at"] = ts.Format(time.RFC3339)
	}

	var totals Totals
	var haveTotals bool
	var currencyCode string
	var checkinRaw, checkoutRaw string
	seenServices := make(map[string]bool)

	// assigns a monetary label into the breakdown; the first detected symbol
	// fixes the currency for the whole export.
	money := func(field, value string, dst *float64) *ExtractionError {
		v, code, err := parseAmount(value)
		if err != nil {
			return &ExtractionError{Provider: ProviderKrossbooking, Field: field}
		}
		*dst = v
		haveTotals = true
		if currencyCode == "" {
			currencyCode = code
		}
		return nil
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if m := krossServiceRe.FindStringSubmatch(line); m != nil {
			name := strings.TrimSpace(m[2])
			if name != "" && !seenServices[name] {
				seenServices[name] = true
				p.Services = append(p.Services, name)
			}
			continue
		}

		label, value, ok := splitLabelLine(line)
		if !ok || value == "" {
			continue
		}

		var moneyErr *ExtractionError
		switch strings.ToLower(label) {
		case "id voucher", "numero di conferma":
			p.ReservationID = value
		case "nome ospite":
			p.GuestName = value
		case "struttura richiesta":
			p.PropertyName = value
		case "camera":
			p.RoomName = value
		case "email":
			p.ClientEmail = strings.ToLower(value)
		case "telefono":
			p.ClientPhone = value
		case "stato":
			p.ReservationStatus = value
		case "data di check-in":
			checkinRaw = value
		case "data di check-out":
			checkoutRaw = value
		case "totale retta":
			moneyErr = money("totals.base_rate", value, &totals.BaseRate)
		case "totale extra":
			moneyErr = money("totals.extras", value, &totals.Extras)
		case "totale prenotazione":
			moneyErr = money("totals.amount", value, &totals.Amount)
		case "commissione":
			moneyErr = money("totals.commission", value, &totals.Commission)
		case "agenzia":
			meta["agency"] = value
		case "data creazione":
			meta["created_at"] = value
		case "note":
			p.Notes = append(p.Notes, value)
		}
		if moneyErr != nil {
			return nil, moneyErr
		}
	}

	if p.ReservationID == "" {
		p.ReservationID = firstSubmatch(krossSubjectRe, in.Header("subject"))
	}
	if p.ReservationID == "" {
		return nil, &ExtractionError{Provider: ProviderKrossbooking, Field: "reservation_id"}
	}

	if checkinRaw != "" && checkoutRaw != "" {
		start, err := parseItalianDate(checkinRaw)
		if err != nil {
			return nil, &ExtractionError{Provider: ProviderKrossbooking, Field: "stay_period.start"}
		}
		end, err := parseItalianDate(checkoutRaw)
		if err != nil {
			return nil, &ExtractionError{Provider: ProviderKrossbooking, Field: "stay_period.end"}
		}
		p.StayPeriod = &StayPeriod{Start: start, End: end}
	}

	if haveTotals {
		if currencyCode == "" {
			return nil, &ExtractionError{Provider: ProviderKrossbooking, Field: "totals.currency"}
		}
		totals.Currency = currencyCode
		p.Totals = &totals
	}

	for _, note := range p.Notes {
		if strings.Contains(strings.ToUpper(note), "PRE-PAID") {
			p.PaymentStatus = "PRE-PAID"
			break
		}
	}

	p.Metadata = meta
	return p, nil
}
