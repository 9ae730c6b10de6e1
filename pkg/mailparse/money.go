package mailparse

import (
	"fmt"
	"strconv"
	"strings"
)

// currencySymbols maps the symbols seen in provider exports to ISO 4217
// codes. Checked in order so detection is deterministic.
var currencySymbols = []struct {
	symbol string
	code   string
}{
	{"€", "EUR"},
	{"£", "GBP"},
	{"$", "USD"},
}

// parseAmount parses a locale-formatted amount such as "349,55 €" or
// "1.234,56 €" into its numeric value and the ISO code inferred from the
// currency symbol. Comma is the decimal separator; "." is a thousands
// separator and is discarded. code is "" when no symbol is present.
func parseAmount(s string) (value float64, code string, err error) {
	raw := strings.TrimSpace(s)
	for _, cs := range currencySymbols {
		if strings.Contains(raw, cs.symbol) {
			code = cs.code
			raw = strings.TrimSpace(strings.ReplaceAll(raw, cs.symbol, ""))
			break
		}
	}

	raw = strings.ReplaceAll(raw, ".", "")
	raw = strings.ReplaceAll(raw, ",", ".")
	if raw == "" {
		return 0, "", fmt.Errorf("empty amount: %q", s)
	}

	value, err = strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, "", fmt.Errorf("parse amount %q: %w", s, err)
	}
	return value, code, nil
}
