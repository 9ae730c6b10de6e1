package mailparse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// italianMonths maps lowercase Italian month names to calendar months.
var italianMonths = map[string]time.Month{
	"gennaio":   time.January,
	"febbraio":  time.February,
	"marzo":     time.March,
	"aprile":    time.April,
	"maggio":    time.May,
	"giugno":    time.June,
	"luglio":    time.July,
	"agosto":    time.August,
	"settembre": time.September,
	"ottobre":   time.October,
	"novembre":  time.November,
	"dicembre":  time.December,
}

var (
	slashDateRe = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`)
	namedDateRe = regexp.MustCompile(`^(\d{1,2})\s+(\p{L}+)\s+(\d{4})$`)
)

// parseItalianDate parses the two date shapes the providers emit,
// "15/01/2026" and "12 ottobre 2025", into a UTC calendar-day instant.
// No time-zone shift is applied beyond pinning the day boundary to UTC.
func parseItalianDate(s string) (time.Time, error) {
	trimmed := strings.TrimSpace(s)

	if m := slashDateRe.FindStringSubmatch(trimmed); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		if month < 1 || month > 12 || day < 1 || day > 31 {
			return time.Time{}, fmt.Errorf("date out of range: %q", s)
		}
		return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), nil
	}

	if m := namedDateRe.FindStringSubmatch(trimmed); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, ok := italianMonths[strings.ToLower(m[2])]
		if !ok {
			return time.Time{}, fmt.Errorf("unknown month in date: %q", s)
		}
		year, _ := strconv.Atoi(m[3])
		if day < 1 || day > 31 {
			return time.Time{}, fmt.Errorf("date out of range: %q", s)
		}
		return time.Date(year, month, day, 0, 0, 0, 0, time.UTC), nil
	}

	return time.Time{}, fmt.Errorf("unrecognized date format: %q", s)
}
