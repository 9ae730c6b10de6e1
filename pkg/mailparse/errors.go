package mailparse

import "fmt"

// ExtractionError reports that a matcher accepted an input but a required
// field could not be recovered from the body or HTML. The message is dropped
// loudly rather than emitted as a partially-populated payload.
type ExtractionError struct {
	Provider Provider
	Field    string
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("%s: required field %q not found in message", e.Provider, e.Field)
}

// ValidationError reports a canonical-schema invariant violated by an
// extractor's draft. Violations are never coerced or defaulted away.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid payload: %s: %s", e.Field, e.Reason)
}
