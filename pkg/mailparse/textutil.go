package mailparse

import (
	"encoding/base64"
	"regexp"
	"strings"
	"unicode/utf8"
)

var base64Alphabet = regexp.MustCompile(`^[A-Za-z0-9+/]+={0,2}$`)

// decodeBody returns the base64-decoded body when the raw string can only be
// transport encoding, and the body unchanged otherwise. The detection rule is
// deliberately conservative: the trimmed string must be at least 16 bytes,
// a multiple of 4 long, strict-alphabet only, and must decode to printable
// UTF-8. Anything else (in particular ordinary prose, which contains spaces
// and punctuation) passes through untouched, so plain text is never
// double-decoded.
func decodeBody(body string) string {
	raw := strings.TrimSpace(body)
	if len(raw) < 16 || len(raw)%4 != 0 || !base64Alphabet.MatchString(raw) {
		return body
	}
	decoded, err := base64.StdEncoding.Strict().DecodeString(raw)
	if err != nil || !utf8.Valid(decoded) {
		return body
	}
	text := string(decoded)
	for _, r := range text {
		if r < 0x20 && r != '\n' && r != '\r' && r != '\t' {
			return body
		}
	}
	return text
}

// replyBanners are the fixed reply-instruction lines the platforms wrap
// around relayed chat messages. Matched case-insensitively as substrings.
var replyBanners = []string{
	"scrivi la tua risposta sopra questa riga",
	"rispondi sopra questa riga",
	"write your reply above this line",
	"reply above this line",
}

// stripReplyBanner removes reply-instruction banners and divider rules from a
// decoded message body, returning the remaining human text.
func stripReplyBanner(text string) string {
	lines := strings.Split(text, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		lower := strings.ToLower(trimmed)
		if containsAny(lower, replyBanners) {
			continue
		}
		if isDividerLine(trimmed) {
			continue
		}
		kept = append(kept, line)
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}

// isDividerLine reports whether a line is a horizontal rule such as "----"
// or "====".
func isDividerLine(s string) bool {
	if len(s) < 3 {
		return false
	}
	for _, r := range s {
		switch r {
		case '-', '=', '*', '_', ' ':
		default:
			return false
		}
	}
	return true
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// splitLabelLine splits a "Label=value" or "Label=09value" export line into
// label and value. The "09" prefix is a residual quoted-printable tab acting
// as a field separator and is stripped, as is a trailing soft-break "=".
func splitLabelLine(line string) (label, value string, ok bool) {
	idx := strings.Index(line, "=")
	if idx <= 0 {
		return "", "", false
	}
	label = strings.TrimSpace(line[:idx])
	value = stripSeparatorArtifact(line[idx+1:])
	return label, value, true
}

// stripSeparatorArtifact removes the residual "09" field separator and
// trailing soft-break markers from an export value.
func stripSeparatorArtifact(v string) string {
	v = strings.TrimPrefix(v, "09")
	v = strings.TrimSuffix(strings.TrimSpace(v), "=")
	return strings.TrimSpace(v)
}

// firstSubmatch returns the first capture group of re in text, or "".
func firstSubmatch(re *regexp.Regexp, text string) string {
	m := re.FindStringSubmatch(text)
	if len(m) < 2 {
		return ""
	}
	return strings.TrimSpace(m[1])
}
