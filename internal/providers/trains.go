package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"tripmate/internal/trip"
)

const trainLimit = 5

// trainMarkers identify search results that are actually about rail travel.
var trainMarkers = []string{"train", "rail", "irctc"}

// TrainProvider finds rail connections via a plain Google search. There is no
// dedicated train engine, so results are informational: titles and snippets,
// no bookable prices.
type TrainProvider struct {
	client *SerpClient
}

func NewTrainProvider(client *SerpClient) *TrainProvider {
	return &TrainProvider{client: client}
}

func (p *TrainProvider) Name() string { return "google_trains" }

func (p *TrainProvider) Category() trip.Category { return trip.CategoryTrain }

func (p *TrainProvider) Params(q trip.TravelQuery) map[string]string {
	return map[string]string{
		"q":  fmt.Sprintf("trains from %s to %s on %s", q.Origin, q.Destination, q.StartDate),
		"hl": "en",
		"gl": "us",
	}
}

func (p *TrainProvider) Search(ctx context.Context, q trip.TravelQuery) (json.RawMessage, error) {
	return p.client.Search(ctx, "google", p.Params(q))
}

type searchPayload struct {
	OrganicResults []json.RawMessage `json:"organic_results"`
	Error          string            `json:"error"`
}

type organicResult struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
}

func (p *TrainProvider) Normalize(raw json.RawMessage) ([]trip.Offer, error) {
	var payload searchPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("trains payload: %w", err)
	}
	if payload.Error != "" {
		return nil, fmt.Errorf("trains engine error: %s", payload.Error)
	}
	if payload.OrganicResults == nil {
		return nil, fmt.Errorf("trains payload has no organic_results")
	}

	offers := make([]trip.Offer, 0, trainLimit)
	for _, item := range payload.OrganicResults {
		if len(offers) == trainLimit {
			break
		}
		var r organicResult
		if err := json.Unmarshal(item, &r); err != nil {
			continue
		}
		if r.Title == "" || !aboutTrains(r.Title) {
			continue
		}
		offers = append(offers, trip.Offer{
			Category: trip.CategoryTrain,
			Provider: p.Name(),
			Title:    r.Title,
			Detail:   r.Snippet,
			Raw:      item,
		})
	}
	return offers, nil
}

func aboutTrains(title string) bool {
	title = strings.ToLower(title)
	for _, marker := range trainMarkers {
		if strings.Contains(title, marker) {
			return true
		}
	}
	return false
}
