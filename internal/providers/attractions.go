package providers

import (
	"context"
	"encoding/json"
	"fmt"

	"tripmate/internal/trip"
)

const attractionLimit = 8

// AttractionProvider lists sights at the destination via a plain Google
// search, reusing the organic-results shape the train provider consumes.
type AttractionProvider struct {
	client *SerpClient
}

func NewAttractionProvider(client *SerpClient) *AttractionProvider {
	return &AttractionProvider{client: client}
}

func (p *AttractionProvider) Name() string { return "google_attractions" }

func (p *AttractionProvider) Category() trip.Category { return trip.CategoryAttraction }

func (p *AttractionProvider) Params(q trip.TravelQuery) map[string]string {
	return map[string]string{
		"q":  "top attractions in " + q.Destination,
		"hl": "en",
		"gl": "us",
	}
}

func (p *AttractionProvider) Search(ctx context.Context, q trip.TravelQuery) (json.RawMessage, error) {
	return p.client.Search(ctx, "google", p.Params(q))
}

func (p *AttractionProvider) Normalize(raw json.RawMessage) ([]trip.Offer, error) {
	var payload searchPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("attractions payload: %w", err)
	}
	if payload.Error != "" {
		return nil, fmt.Errorf("attractions engine error: %s", payload.Error)
	}
	if payload.OrganicResults == nil {
		return nil, fmt.Errorf("attractions payload has no organic_results")
	}

	items := payload.OrganicResults
	if len(items) > attractionLimit {
		items = items[:attractionLimit]
	}

	offers := make([]trip.Offer, 0, len(items))
	for _, item := range items {
		var r organicResult
		if err := json.Unmarshal(item, &r); err != nil {
			continue
		}
		if r.Title == "" {
			continue
		}
		offers = append(offers, trip.Offer{
			Category: trip.CategoryAttraction,
			Provider: p.Name(),
			Title:    r.Title,
			Detail:   r.Snippet,
			Raw:      item,
		})
	}
	return offers, nil
}
