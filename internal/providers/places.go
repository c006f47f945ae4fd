package providers

import (
	"context"
	"encoding/json"
	"fmt"

	"googlemaps.github.io/maps"

	"tripmate/internal/trip"
)

const placeLimit = 8

// PlacesProvider is a second attraction source backed by the Google Places
// API. It runs alongside the search-based one; the ranker merges both.
type PlacesProvider struct {
	client *maps.Client
}

func NewPlacesProvider(apiKey string) (*PlacesProvider, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &PlacesProvider{client: client}, nil
}

func (p *PlacesProvider) Name() string { return "google_places" }

func (p *PlacesProvider) Category() trip.Category { return trip.CategoryAttraction }

func (p *PlacesProvider) Params(q trip.TravelQuery) map[string]string {
	return map[string]string{
		"query":    "top attractions in " + q.Destination,
		"language": "en",
	}
}

// Search runs a text search and re-encodes the results as JSON so the
// payload can be cached and normalized like any other provider's.
func (p *PlacesProvider) Search(ctx context.Context, q trip.TravelQuery) (json.RawMessage, error) {
	resp, err := p.client.TextSearch(ctx, &maps.TextSearchRequest{
		Query:    "top attractions in " + q.Destination,
		Language: "en",
	})
	if err != nil {
		return nil, fmt.Errorf("places api error: %w", err)
	}
	raw, err := json.Marshal(resp.Results)
	if err != nil {
		return nil, fmt.Errorf("places api: encode results: %w", err)
	}
	return raw, nil
}

type placeResult struct {
	Name             string  `json:"name"`
	FormattedAddress string  `json:"formatted_address"`
	Rating           float64 `json:"rating"`
	UserRatingsTotal int     `json:"user_ratings_total"`
}

func (p *PlacesProvider) Normalize(raw json.RawMessage) ([]trip.Offer, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("places payload: %w", err)
	}

	offers := make([]trip.Offer, 0, placeLimit)
	for _, item := range items {
		if len(offers) == placeLimit {
			break
		}
		var r placeResult
		if err := json.Unmarshal(item, &r); err != nil {
			continue
		}
		if r.Name == "" {
			continue
		}

		offer := trip.Offer{
			Category: trip.CategoryAttraction,
			Provider: p.Name(),
			Title:    r.Name,
			Detail:   r.FormattedAddress,
			Raw:      item,
		}
		if r.Rating > 0 {
			rating := r.Rating
			offer.Rating = &rating
		}
		if r.UserRatingsTotal > 0 {
			if offer.Detail != "" {
				offer.Detail += ", "
			}
			offer.Detail += fmt.Sprintf("%d ratings", r.UserRatingsTotal)
		}
		offers = append(offers, offer)
	}
	return offers, nil
}
