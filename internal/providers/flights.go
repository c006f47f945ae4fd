package providers

import (
	"context"
	"encoding/json"
	"fmt"

	"tripmate/internal/trip"
	"tripmate/internal/types"
)

// bestFlightLimit and otherFlightLimit bound how many entries we keep from
// the engine's two result buckets.
const (
	bestFlightLimit  = 3
	otherFlightLimit = 2
)

// FlightProvider searches Google Flights through SerpAPI.
type FlightProvider struct {
	client *SerpClient
}

func NewFlightProvider(client *SerpClient) *FlightProvider {
	return &FlightProvider{client: client}
}

func (p *FlightProvider) Name() string { return "google_flights" }

func (p *FlightProvider) Category() trip.Category { return trip.CategoryFlight }

func (p *FlightProvider) Params(q trip.TravelQuery) map[string]string {
	params := map[string]string{
		"departure_id":  airportCode(q.Origin),
		"arrival_id":    airportCode(q.Destination),
		"outbound_date": q.StartDate,
		"currency":      "USD",
		"hl":            "en",
	}
	if q.EndDate != "" {
		params["return_date"] = q.EndDate
	} else {
		// One-way search; the engine rejects round-trip requests without a
		// return date.
		params["type"] = "2"
	}
	return params
}

func (p *FlightProvider) Search(ctx context.Context, q trip.TravelQuery) (json.RawMessage, error) {
	return p.client.Search(ctx, "google_flights", p.Params(q))
}

// flightsPayload is the subset of the engine response we consume.
type flightsPayload struct {
	BestFlights  []json.RawMessage `json:"best_flights"`
	OtherFlights []json.RawMessage `json:"other_flights"`
	Error        string            `json:"error"`
}

type serpFlightLeg struct {
	DepartureAirport struct {
		Name string `json:"name"`
		ID   string `json:"id"`
		Time string `json:"time"`
	} `json:"departure_airport"`
	ArrivalAirport struct {
		Name string `json:"name"`
		ID   string `json:"id"`
		Time string `json:"time"`
	} `json:"arrival_airport"`
	Airline      string `json:"airline"`
	FlightNumber string `json:"flight_number"`
}

type serpFlight struct {
	Flights []serpFlightLeg `json:"flights"`
	Layovers []struct {
		Name string `json:"name"`
	} `json:"layovers"`
	TotalDuration int     `json:"total_duration"`
	Price         float64 `json:"price"`
}

// Normalize turns a google_flights payload into flight offers. Up to three
// "best" and two "other" itineraries are kept, matching what a human would
// skim on the results page.
func (p *FlightProvider) Normalize(raw json.RawMessage) ([]trip.Offer, error) {
	var payload flightsPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("flights payload: %w", err)
	}
	if payload.Error != "" {
		return nil, fmt.Errorf("flights engine error: %s", payload.Error)
	}
	if payload.BestFlights == nil && payload.OtherFlights == nil {
		return nil, fmt.Errorf("flights payload has neither best_flights nor other_flights")
	}

	items := payload.BestFlights
	if len(items) > bestFlightLimit {
		items = items[:bestFlightLimit]
	}
	others := payload.OtherFlights
	if len(others) > otherFlightLimit {
		others = others[:otherFlightLimit]
	}
	items = append(items, others...)

	offers := make([]trip.Offer, 0, len(items))
	for _, item := range items {
		var f serpFlight
		if err := json.Unmarshal(item, &f); err != nil {
			continue
		}
		if len(f.Flights) == 0 {
			continue
		}

		first := f.Flights[0]
		last := f.Flights[len(f.Flights)-1]

		offer := trip.Offer{
			Category:      trip.CategoryFlight,
			Provider:      p.Name(),
			Title:         fmt.Sprintf("%s %s to %s", first.Airline, first.DepartureAirport.ID, last.ArrivalAirport.ID),
			DepartureTime: first.DepartureAirport.Time,
			ArrivalTime:   last.ArrivalAirport.Time,
			Detail:        fmt.Sprintf("%s, %s", stopsLabel(len(f.Layovers)), formatDuration(f.TotalDuration)),
			Raw:           item,
		}
		if f.Price > 0 {
			offer.Price = types.NewPrice(f.Price, "USD")
		}
		offers = append(offers, offer)
	}
	return offers, nil
}

func stopsLabel(layovers int) string {
	if layovers == 0 {
		return "Nonstop"
	}
	return fmt.Sprintf("%d stop(s)", layovers)
}

// formatDuration renders minutes as "7h 35m".
func formatDuration(minutes int) string {
	if minutes <= 0 {
		return "unknown duration"
	}
	h := minutes / 60
	m := minutes % 60
	if h == 0 {
		return fmt.Sprintf("%dm", m)
	}
	if m == 0 {
		return fmt.Sprintf("%dh", h)
	}
	return fmt.Sprintf("%dh %dm", h, m)
}
