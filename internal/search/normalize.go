package search

import (
	"tripmate/internal/providers"
	"tripmate/internal/trip"
)

// NormalizeAll runs each payload through its provider's normalizer and drops
// offers too thin to act on. A payload that cannot be interpreted at all
// becomes a normalization failure; a missing optional field within an offer
// never does.
func NormalizeAll(provs []providers.Provider, payloads []Payload) ([]trip.Offer, []trip.ProviderError) {
	byName := make(map[string]providers.Provider, len(provs))
	for _, p := range provs {
		byName[p.Name()] = p
	}

	var offers []trip.Offer
	var failures []trip.ProviderError

	for _, payload := range payloads {
		p, ok := byName[payload.Provider]
		if !ok {
			continue
		}
		normalized, err := p.Normalize(payload.Raw)
		if err != nil {
			failures = append(failures, *trip.NewNormalizationError(payload.Provider, payload.Category, err))
			continue
		}
		for _, o := range normalized {
			if actionable(o) {
				offers = append(offers, o)
			}
		}
	}
	return offers, failures
}

// actionable reports whether an offer carries enough to show. Trains and
// attractions are informational, a title alone is useful; bookable
// categories additionally need a price or a rating to compare on.
func actionable(o trip.Offer) bool {
	if o.Title == "" {
		return false
	}
	switch o.Category {
	case trip.CategoryTrain, trip.CategoryAttraction:
		return true
	default:
		return o.Price != nil || o.Rating != nil
	}
}
