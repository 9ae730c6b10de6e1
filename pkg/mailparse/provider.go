package mailparse

// Provider identifies one of the external platforms whose reservation emails
// this engine recognizes. The set is closed: dispatch, extraction and
// validation are all defined only for these ids.
type Provider string

const (
	// ProviderAirbnbConfirmation is the Airbnb reservation-confirmation flow.
	ProviderAirbnbConfirmation Provider = "airbnb_confirmation"
	// ProviderAirbnbMessage is the Airbnb guest-messaging flow.
	ProviderAirbnbMessage Provider = "airbnb_message"
	// ProviderBookingChat is the Booking.com chat-relay flow.
	ProviderBookingChat Provider = "booking_chat"
	// ProviderKrossbooking is the Krossbooking PMS confirmation export.
	ProviderKrossbooking Provider = "krossbooking_confirmation"
)

// knownProviders is the canonical dispatch order. Earlier entries win when
// more than one matcher would accept an input.
var knownProviders = []Provider{
	ProviderAirbnbConfirmation,
	ProviderAirbnbMessage,
	ProviderBookingChat,
	ProviderKrossbooking,
}

// Known reports whether p is one of the enumerated provider ids.
func (p Provider) Known() bool {
	for _, k := range knownProviders {
		if p == k {
			return true
		}
	}
	return false
}
