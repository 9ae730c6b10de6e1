package mailparse

import (
	"fmt"
	"math"

	"golang.org/x/text/currency"
)

// Validate enforces the canonical-schema invariants on an extractor's draft.
// A violation returns a *ValidationError; nothing is coerced or defaulted.
func Validate(p *ParsedEmailPayload) error {
	if p == nil {
		return &ValidationError{Field: "payload", Reason: "draft is nil"}
	}
	if p.Source == "" {
		return &ValidationError{Field: "source", Reason: "missing"}
	}
	if !p.Source.Known() {
		return &ValidationError{Field: "source", Reason: fmt.Sprintf("unknown provider %q", p.Source)}
	}

	if sp := p.StayPeriod; sp != nil {
		if sp.Start.IsZero() || sp.End.IsZero() {
			return &ValidationError{Field: "stay_period", Reason: "start and end must both be set"}
		}
		if sp.Start.After(sp.End) {
			return &ValidationError{
				Field:  "stay_period",
				Reason: fmt.Sprintf("start %s after end %s", sp.Start.Format("2006-01-02"), sp.End.Format("2006-01-02")),
			}
		}
	}

	if t := p.Totals; t != nil {
		amounts := []struct {
			name  string
			value float64
		}{
			{"totals.amount", t.Amount},
			{"totals.base_rate", t.BaseRate},
			{"totals.extras", t.Extras},
			{"totals.commission", t.Commission},
		}
		for _, a := range amounts {
			if math.IsNaN(a.value) || math.IsInf(a.value, 0) {
				return &ValidationError{Field: a.name, Reason: "not a finite number"}
			}
			if a.value < 0 {
				return &ValidationError{Field: a.name, Reason: fmt.Sprintf("negative amount %.2f", a.value)}
			}
		}
		if _, err := currency.ParseISO(t.Currency); err != nil {
			return &ValidationError{Field: "totals.currency", Reason: fmt.Sprintf("not an ISO 4217 code: %q", t.Currency)}
		}
	}

	seen := make(map[string]bool, len(p.Services))
	for _, svc := range p.Services {
		if svc == "" {
			return &ValidationError{Field: "services", Reason: "empty entry"}
		}
		if seen[svc] {
			return &ValidationError{Field: "services", Reason: fmt.Sprintf("duplicate entry %q", svc)}
		}
		seen[svc] = true
	}

	for _, note := range p.Notes {
		if note == "" {
			return &ValidationError{Field: "notes", Reason: "empty entry"}
		}
	}

	return nil
}
