// README: Error taxonomy for the query pipeline.
package trip

import (
	"errors"
	"fmt"
)

// ParseFailure means intent extraction could not produce a schema-valid
// travel query. Raw keeps the model's offending output for diagnostics.
type ParseFailure struct {
	Reason string
	Raw    string
}

func (e *ParseFailure) Error() string {
	return fmt.Sprintf("intent parse failure: %s", e.Reason)
}

// ValidationKind tags the specific validation rule a query broke.
type ValidationKind string

const (
	MissingRequiredField ValidationKind = "missing_required_field"
	InvalidDateRange     ValidationKind = "invalid_date_range"
	OutOfRangeField      ValidationKind = "out_of_range_field"
)

// ValidationError rejects a query before any provider is called. Message is
// specific enough to show to the user as-is.
type ValidationError struct {
	Kind    ValidationKind
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// ProviderErrorKind classifies one provider's failure.
type ProviderErrorKind string

const (
	ProviderTimeout       ProviderErrorKind = "timeout"
	ProviderHTTPError     ProviderErrorKind = "http_error"
	ProviderMalformed     ProviderErrorKind = "malformed_payload"
	ProviderNormalization ProviderErrorKind = "normalization"
)

// ProviderError records one provider call that produced nothing usable. It is
// collected as metadata and never aborts the other calls or the pipeline.
type ProviderError struct {
	Provider string            `json:"provider"`
	Category Category          `json:"category"`
	Kind     ProviderErrorKind `json:"kind"`
	Err      error             `json:"-"`
}

func (e *ProviderError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s (%s): %s", e.Provider, e.Category, e.Kind)
	}
	return fmt.Sprintf("%s (%s): %s: %v", e.Provider, e.Category, e.Kind, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// NewNormalizationError records a payload that could not be interpreted as its
// declared category at all. Surfaced exactly like any other provider failure.
func NewNormalizationError(provider string, category Category, err error) *ProviderError {
	return &ProviderError{Provider: provider, Category: category, Kind: ProviderNormalization, Err: err}
}

// GenerationError wraps a failed text-generation call.
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string { return fmt.Sprintf("generation error: %v", e.Err) }

func (e *GenerationError) Unwrap() error { return e.Err }

// ClarificationAsk is appended whenever a request cannot be turned into a trip.
const ClarificationAsk = `tell me where you're starting, where you're going, and the travel date, e.g. "flight from Agra to Bali on 2024-05-15, 5 days"`

// UserMessage renders a pipeline error as a reply suitable for chat surfaces.
func UserMessage(err error) string {
	var pf *ParseFailure
	var ve *ValidationError
	switch {
	case errors.As(err, &pf):
		return "I couldn't work out a trip from that. Please " + ClarificationAsk + "."
	case errors.As(err, &ve):
		return "Almost there: " + ve.Message
	default:
		return "Something went wrong on my side. Even assistants have bad days, try again in a moment."
	}
}
