// Package mailparse converts inbound reservation emails from a closed set of
// external platforms into one canonical, validated payload. Provider
// detection, field extraction and schema validation are pure computations:
// the engine performs no I/O, so a Registry can be shared freely across
// goroutines once built.
package mailparse

// Descriptor ties a provider id to its matcher and extractor. Match must be
// total and side-effect free; Parse is invoked only after Match accepted the
// input and may fail with an *ExtractionError.
type Descriptor struct {
	ID    Provider
	Match func(ParserInput) bool
	Parse func(ParserInput) (*ParsedEmailPayload, error)
}

// Registry holds the ordered provider descriptors used for dispatch. Build it
// once at startup and treat it as immutable afterwards.
type Registry struct {
	descriptors []Descriptor
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// DefaultRegistry returns a registry with the built-in providers registered
// in their canonical dispatch order.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(airbnbConfirmationDescriptor())
	r.Register(airbnbMessageDescriptor())
	r.Register(bookingChatDescriptor())
	r.Register(krossbookingDescriptor())
	return r
}

// Register appends a descriptor. Re-registering an existing id replaces the
// descriptor in place, so repeated registration never duplicates a provider
// or changes dispatch order.
func (r *Registry) Register(d Descriptor) {
	for i, existing := range r.descriptors {
		if existing.ID == d.ID {
			r.descriptors[i] = d
			return
		}
	}
	r.descriptors = append(r.descriptors, d)
}

// Providers returns the registered ids in dispatch order.
func (r *Registry) Providers() []Provider {
	ids := make([]Provider, len(r.descriptors))
	for i, d := range r.descriptors {
		ids[i] = d.ID
	}
	return ids
}

// ParseEmail resolves in to at most one provider: descriptors are tried in
// registration order and the first whose matcher accepts the input wins. The
// winning extractor's draft is validated before being returned. A (nil, nil)
// result means no registered provider recognized the message; callers treat
// that as a normal outcome, not an error. Extraction and validation failures
// propagate to the caller unswallowed.
func (r *Registry) ParseEmail(in ParserInput) (*ParsedEmailPayload, error) {
	for _, d := range r.descriptors {
		if !d.Match(in) {
			continue
		}
		payload, err := d.Parse(in)
		if err != nil {
			return nil, err
		}
		if err := Validate(payload); err != nil {
			return nil, err
		}
		return payload, nil
	}
	return nil, nil
}
