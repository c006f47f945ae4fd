package intent

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"tripmate/internal/trip"
)

type stubResponse struct {
	raw []byte
	err error
}

// stubGenerator replays scripted responses in order.
type stubGenerator struct {
	responses []stubResponse
	calls     int
}

func (s *stubGenerator) GenerateJSON(context.Context, string) ([]byte, error) {
	if s.calls >= len(s.responses) {
		s.calls++
		return nil, errors.New("no scripted response left")
	}
	r := s.responses[s.calls]
	s.calls++
	return r.raw, r.err
}

func (s *stubGenerator) GenerateText(context.Context, string) (string, error) {
	return "", errors.New("not used")
}

func TestExtract_FullPayload(t *testing.T) {
	gen := &stubGenerator{responses: []stubResponse{{raw: []byte(`{
		"origin": "Agra",
		"destination": "Bali",
		"start_date": "2024-05-15",
		"end_date": null,
		"duration_days": 5,
		"trip_mode": "flight",
		"hotel_stars": null,
		"hotel_preference": null,
		"budget": 1500,
		"budget_currency": "USD",
		"travelers": 2
	}`)}}}

	e := NewExtractor(gen, nil)
	q, err := e.Extract(context.Background(), "flight from Agra to Bali on 2024-05-15 for 5 days, 2 people, budget 1500 USD")
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	if q.Origin != "Agra" {
		t.Errorf("Origin = %q, want Agra", q.Origin)
	}
	if q.Destination != "Bali" {
		t.Errorf("Destination = %q, want Bali", q.Destination)
	}
	if q.StartDate != "2024-05-15" {
		t.Errorf("StartDate = %q, want 2024-05-15", q.StartDate)
	}
	if q.DurationDays != 5 {
		t.Errorf("DurationDays = %d, want 5", q.DurationDays)
	}
	if q.TripMode != trip.ModeFlight {
		t.Errorf("TripMode = %q, want flight", q.TripMode)
	}
	if q.Budget == nil || q.Budget.Amount != 1500 || q.Budget.Currency != "USD" {
		t.Errorf("Budget = %+v, want 1500 USD", q.Budget)
	}
	if q.Travelers != 2 {
		t.Errorf("Travelers = %d, want 2", q.Travelers)
	}
	if q.RawText == "" {
		t.Error("RawText not retained")
	}
}

// Nulls are not failures at this stage: the extractor maps them to zero
// values and leaves the judgement to validation.
func TestExtract_NullsPassThrough(t *testing.T) {
	gen := &stubGenerator{responses: []stubResponse{{raw: []byte(`{
		"origin": null,
		"destination": null,
		"start_date": null
	}`)}}}

	e := NewExtractor(gen, nil)
	q, err := e.Extract(context.Background(), "take me somewhere nice")
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if q.Origin != "" || q.Destination != "" || q.StartDate != "" {
		t.Errorf("got %q/%q/%q, want empty fields", q.Origin, q.Destination, q.StartDate)
	}
	if q.TripMode != trip.ModeUnspecified {
		t.Errorf("TripMode = %q, want unspecified", q.TripMode)
	}
}

func TestExtract_SchemaViolations(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "origin key absent", raw: `{"destination": "Bali"}`},
		{name: "origin wrong type", raw: `{"origin": 42, "destination": "Bali"}`},
		{name: "not json at all", raw: `Sure! Here is your trip plan: fly to Bali.`},
		{name: "json array instead of object", raw: `["Agra", "Bali"]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &stubGenerator{responses: []stubResponse{
				{raw: []byte(tt.raw)},
				{raw: []byte(tt.raw)},
			}}
			e := NewExtractor(gen, nil)
			_, err := e.Extract(context.Background(), "some trip request")

			var pf *trip.ParseFailure
			if !errors.As(err, &pf) {
				t.Fatalf("Extract() error = %v, want *trip.ParseFailure", err)
			}
			if pf.Raw != tt.raw {
				t.Errorf("Raw = %q, want the model output retained", pf.Raw)
			}
			if gen.calls != extractAttempts {
				t.Errorf("generator calls = %d, want %d", gen.calls, extractAttempts)
			}
		})
	}
}

func TestExtract_SecondAttemptRecovers(t *testing.T) {
	gen := &stubGenerator{responses: []stubResponse{
		{raw: []byte(`oops, not json`)},
		{raw: []byte(`{"origin": "Delhi", "destination": "London", "start_date": "2024-07-01"}`)},
	}}

	e := NewExtractor(gen, nil)
	q, err := e.Extract(context.Background(), "Delhi to London on 1 July 2024")
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if q.Origin != "Delhi" || q.Destination != "London" {
		t.Errorf("got %q to %q, want Delhi to London", q.Origin, q.Destination)
	}
	if gen.calls != 2 {
		t.Errorf("generator calls = %d, want 2", gen.calls)
	}
}

// A transport-level failure is not a parse failure and is not retried here;
// the model client already retries transient errors internally.
func TestExtract_GenerationError(t *testing.T) {
	gen := &stubGenerator{responses: []stubResponse{{err: errors.New("connection refused")}}}

	e := NewExtractor(gen, nil)
	_, err := e.Extract(context.Background(), "Delhi to London tomorrow")

	var ge *trip.GenerationError
	if !errors.As(err, &ge) {
		t.Fatalf("Extract() error = %v, want *trip.GenerationError", err)
	}
	if gen.calls != 1 {
		t.Errorf("generator calls = %d, want 1", gen.calls)
	}
}

func TestExtract_EmptyInput(t *testing.T) {
	gen := &stubGenerator{}
	e := NewExtractor(gen, nil)
	_, err := e.Extract(context.Background(), "   ")

	var pf *trip.ParseFailure
	if !errors.As(err, &pf) {
		t.Fatalf("Extract() error = %v, want *trip.ParseFailure", err)
	}
	if gen.calls != 0 {
		t.Errorf("generator calls = %d, want 0 for empty input", gen.calls)
	}
}

func TestBuildExtractionPrompt(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	prompt := buildExtractionPrompt("fly me to the moon next friday", now)

	if !strings.Contains(prompt, "2024-05-01") {
		t.Error("prompt does not carry today's date for relative resolution")
	}
	if !strings.Contains(prompt, "Never invent") {
		t.Error("prompt does not forbid inventing values")
	}
	if !strings.Contains(prompt, "fly me to the moon next friday") {
		t.Error("prompt does not include the raw request")
	}
}
