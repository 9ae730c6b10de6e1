package mailparse

import (
	"regexp"
	"time"
)

// Guest messages are relayed from a per-thread sender address whose local
// part embeds the numeric conversation id.
var (
	airbnbThreadSenderRe = regexp.MustCompile(`^thread-(\d+)@reply\.airbnb\.com$`)
	airbnbThreadURLRe    = regexp.MustCompile(`airbnb\.[a-z][a-z.]*/messaging/thread/(\d+)`)
)

func airbnbMessageDescriptor() Descriptor {
	return Descriptor{
		ID:    ProviderAirbnbMessage,
		Match: matchAirbnbMessage,
		Parse: parseAirbnbMessage,
	}
}

func matchAirbnbMessage(in ParserInput) bool {
	return airbnbThreadSenderRe.MatchString(senderAddress(in))
}

// parseAirbnbMessage extracts the chat draft. Conversation-id precedence: the
// sender local part is authoritative; the messaging-thread URL in the body is
// the fallback.
func parseAirbnbMessage(in ParserInput) (*ParsedEmailPayload, error) {
	text := decodeBody(in.Body)

	conv := firstSubmatch(airbnbThreadSenderRe, senderAddress(in))
	if conv == "" {
		conv = firstSubmatch(airbnbThreadURLRe, text)
	}
	if conv == "" {
		return nil, &ExtractionError{Provider: ProviderAirbnbMessage, Field: "conversation_id"}
	}

	message := stripReplyBanner(text)
	if message == "" {
		return nil, &ExtractionError{Provider: ProviderAirbnbMessage, Field: "message_text"}
	}

	var guest string
	if m := viaAirbnbRe.FindStringSubmatch(senderName(in)); m != nil {
		guest = m[1]
	}

	meta := map[string]any{"subject": in.Header("subject")}
	if ts := sentAt(in); !ts.IsZero() {
		meta["sent_at"] = ts.Format(time.RFC3339)
	}

	return &ParsedEmailPayload{
		Source:         ProviderAirbnbMessage,
		ConversationID: conv,
		GuestName:      guest,
		MessageText:    message,
		Metadata:       meta,
	}, nil
}
