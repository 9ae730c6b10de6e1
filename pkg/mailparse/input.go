package mailparse

import (
	"net/mail"
	"strings"
	"time"
)

// ParserInput is one inbound email as handed over by the ingestion layer.
// Headers are consulted case-insensitively; Body may be plain text or
// base64-encoded text; HTML is optional. Inputs are never mutated.
type ParserInput struct {
	Headers map[string]string
	Body    string
	HTML    string
}

// Header returns the value of the named header, matched case-insensitively,
// or "" when absent.
func (in ParserInput) Header(name string) string {
	if v, ok := in.Headers[name]; ok {
		return v
	}
	for k, v := range in.Headers {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return ""
}

// senderAddress returns the lowercased address part of the From header,
// e.g. "mario@example.com" for `"Mario" <Mario@Example.com>`.
func senderAddress(in ParserInput) string {
	from := in.Header("from")
	if from == "" {
		return ""
	}
	if addr, err := mail.ParseAddress(from); err == nil {
		return strings.ToLower(addr.Address)
	}
	return strings.ToLower(strings.TrimSpace(from))
}

// senderName returns the display-name part of the From header, or "".
func senderName(in ParserInput) string {
	from := in.Header("from")
	if from == "" {
		return ""
	}
	if addr, err := mail.ParseAddress(from); err == nil {
		return strings.TrimSpace(addr.Name)
	}
	return ""
}

// recipientAddress returns the lowercased address part of the To header.
func recipientAddress(in ParserInput) string {
	to := in.Header("to")
	if to == "" {
		return ""
	}
	if addr, err := mail.ParseAddress(to); err == nil {
		return strings.ToLower(addr.Address)
	}
	return strings.ToLower(strings.TrimSpace(to))
}

// sentAt parses the Date header. The zero time is returned when the header is
// absent or not an RFC 5322 date.
func sentAt(in ParserInput) time.Time {
	raw := in.Header("date")
	if raw == "" {
		return time.Time{}
	}
	t, err := mail.ParseDate(raw)
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}
