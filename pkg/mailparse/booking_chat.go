package mailparse

import (
	"regexp"
	"strings"
	"time"
)

// Booking.com relays guest chat through a per-reservation address on the
// mchat subdomain; the local part is the numeric reservation id.
var bookingChatSenderRe = regexp.MustCompile(`^(\d+)@mchat\.booking\.com$`)

func bookingChatDescriptor() Descriptor {
	return Descriptor{
		ID:    ProviderBookingChat,
		Match: matchBookingChat,
		Parse: parseBookingChat,
	}
}

func matchBookingChat(in ParserInput) bool {
	return bookingChatSenderRe.MatchString(senderAddress(in))
}

func parseBookingChat(in ParserInput) (*ParsedEmailPayload, error) {
	reservation := firstSubmatch(bookingChatSenderRe, senderAddress(in))
	if reservation == "" {
		return nil, &ExtractionError{Provider: ProviderBookingChat, Field: "reservation_id"}
	}

	message := stripReplyBanner(decodeBody(in.Body))
	if message == "" {
		return nil, &ExtractionError{Provider: ProviderBookingChat, Field: "message_text"}
	}

	guest := strings.TrimSpace(strings.TrimSuffix(senderName(in), "(Booking.com)"))

	meta := map[string]any{"subject": in.Header("subject")}
	if ts := sentAt(in); !ts.IsZero() {
		meta["sent_at"] = ts.Format(time.RFC3339)
	}

	return &ParsedEmailPayload{
		Source:        ProviderBookingChat,
		ReservationID: reservation,
		GuestName:     guest,
		MessageText:   message,
		Channel:       "booking",
		Metadata:      meta,
	}, nil
}
