// README: Turns free-form travel requests into structured TravelQuery values
// via a schema-constrained LLM call.
package intent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/xeipuuv/gojsonschema"
	"go.uber.org/zap"

	"tripmate/internal/ai"
	"tripmate/internal/trip"
	"tripmate/internal/types"
)

// extractAttempts is how many generations we try before giving up. The second
// attempt catches the occasional malformed JSON from the model.
const extractAttempts = 2

// Extractor converts raw user text into a TravelQuery. It never invents
// values: anything the user did not say comes back empty and is judged by
// the validator.
type Extractor struct {
	gen    ai.Generator
	logger *zap.Logger
	now    func() time.Time
}

func NewExtractor(gen ai.Generator, logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{gen: gen, logger: logger, now: time.Now}
}

// Extract parses rawText into a TravelQuery. It returns *trip.ParseFailure
// when the model output cannot be interpreted and *trip.GenerationError when
// the model itself is unreachable.
func (e *Extractor) Extract(ctx context.Context, rawText string) (trip.TravelQuery, error) {
	text := strings.TrimSpace(rawText)
	if text == "" {
		return trip.TravelQuery{}, &trip.ParseFailure{Reason: "empty request"}
	}

	prompt := buildExtractionPrompt(text, e.now())

	var lastErr error
	for attempt := 1; attempt <= extractAttempts; attempt++ {
		raw, err := e.gen.GenerateJSON(ctx, prompt)
		if err != nil {
			return trip.TravelQuery{}, &trip.GenerationError{Err: err}
		}

		payload, err := decodeIntent(raw)
		if err == nil {
			return toQuery(payload, text), nil
		}
		lastErr = err
		e.logger.Warn("intent extraction attempt failed",
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
	}
	return trip.TravelQuery{}, lastErr
}

// decodeIntent validates the model output against the schema before
// unmarshalling. The raw output is retained on failure for diagnostics.
func decodeIntent(raw []byte) (ai.TravelIntent, error) {
	schemaLoader := gojsonschema.NewStringLoader(travelIntentSchema)
	documentLoader := gojsonschema.NewStringLoader(string(raw))

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return ai.TravelIntent{}, &trip.ParseFailure{
			Reason: fmt.Sprintf("invalid JSON from model: %v", err),
			Raw:    string(raw),
		}
	}
	if !result.Valid() {
		issues := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			issues = append(issues, desc.String())
		}
		return ai.TravelIntent{}, &trip.ParseFailure{
			Reason: "model output does not match intent schema: " + strings.Join(issues, "; "),
			Raw:    string(raw),
		}
	}

	var payload ai.TravelIntent
	if err := json.Unmarshal(raw, &payload); err != nil {
		return ai.TravelIntent{}, &trip.ParseFailure{
			Reason: fmt.Sprintf("cannot decode intent payload: %v", err),
			Raw:    string(raw),
		}
	}
	return payload, nil
}

// toQuery maps the nullable extraction payload onto the pipeline query type.
// Null and absent collapse to zero values here; the validator decides which
// of those are fatal.
func toQuery(p ai.TravelIntent, rawText string) trip.TravelQuery {
	q := trip.TravelQuery{
		Origin:      strPtr(p.Origin),
		Destination: strPtr(p.Destination),
		StartDate:   strPtr(p.StartDate),
		EndDate:     strPtr(p.EndDate),
		TripMode:    trip.ParseMode(strPtr(p.TripMode)),
		RawText:     rawText,
	}
	if p.DurationDays != nil {
		q.DurationDays = *p.DurationDays
	}
	if p.HotelStars != nil {
		q.HotelStars = *p.HotelStars
	}
	q.HotelPreference = strPtr(p.HotelPreference)
	if p.Budget != nil {
		q.Budget = types.NewPrice(*p.Budget, strPtr(p.BudgetCurrency))
	}
	if p.Travelers != nil {
		q.Travelers = *p.Travelers
	}
	return q
}

func strPtr(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

// buildExtractionPrompt assembles the schema-constrained extraction prompt.
// Today's date is included so relative phrasing ("next Friday") resolves to
// an absolute date.
func buildExtractionPrompt(text string, now time.Time) string {
	var parts []string

	parts = append(parts, "You are the intent parser for TripMate, a travel assistant.")
	parts = append(parts, "Read the travel request below and emit a single JSON object with these fields:")
	parts = append(parts, "")
	parts = append(parts, fieldGuide)
	parts = append(parts, "")
	parts = append(parts, "Rules:")
	parts = append(parts, "- Today's date is "+now.Format(trip.DateLayout)+". Resolve relative dates against it and output YYYY-MM-DD.")
	parts = append(parts, "- Never invent an origin, destination, or date the user did not state.")
	parts = append(parts, "- Use null for every field the request does not mention.")
	parts = append(parts, "- Respond with the JSON object only, no commentary.")
	parts = append(parts, "")
	parts = append(parts, "Travel request: "+text)

	return strings.Join(parts, "\n")
}
