package search

import (
	"math"
	"sort"

	"tripmate/internal/trip"
)

const defaultMaxPerCategory = 5

// Input carries everything the ranker needs about one finished search.
type Input struct {
	QueryID    string
	Query      trip.TravelQuery
	Categories []trip.Category
	Responded  []string
	Offers     []trip.Offer
	Failures   []trip.ProviderError
}

// Rank filters offers against the query's constraints, orders them, and caps
// each category. Every requested category appears in the result, empty ones
// as explicit empty lists so downstream can tell "nothing found" from "not
// searched". Identical input always yields the identical result set.
func Rank(in Input, maxPerCategory int) *trip.RankedResultSet {
	if maxPerCategory <= 0 {
		maxPerCategory = defaultMaxPerCategory
	}

	params := trip.RankParams{
		Budget:         in.Query.Budget,
		HotelStars:     in.Query.HotelStars,
		MaxPerCategory: maxPerCategory,
	}

	byCategory := make(map[trip.Category][]trip.Offer, len(in.Categories))
	for _, cat := range in.Categories {
		byCategory[cat] = []trip.Offer{}
	}

	for _, o := range in.Offers {
		if _, wanted := byCategory[o.Category]; !wanted {
			continue
		}
		if violates(o, params) {
			continue
		}
		byCategory[o.Category] = append(byCategory[o.Category], o)
	}

	for cat, offers := range byCategory {
		sortOffers(offers)
		if len(offers) > maxPerCategory {
			byCategory[cat] = offers[:maxPerCategory]
		}
	}

	return &trip.RankedResultSet{
		QueryID:   in.QueryID,
		Offers:    byCategory,
		Responded: in.Responded,
		Failures:  in.Failures,
		Params:    params,
	}
}

// violates applies the hard filters. A zero budget means no budget, and
// unpriced offers are never budget-filtered. The star threshold only judges
// hotels that state a class; unclassed ones pass through.
func violates(o trip.Offer, params trip.RankParams) bool {
	if params.Budget != nil && params.Budget.Amount > 0 && o.Price != nil && o.Price.Amount > params.Budget.Amount {
		return true
	}
	if o.Category == trip.CategoryHotel && params.HotelStars > 0 && o.Stars > 0 && o.Stars < params.HotelStars {
		return true
	}
	return false
}

// sortOffers orders cheapest first, then best rated, then by provider and
// title so equal offers always land in the same spot.
func sortOffers(offers []trip.Offer) {
	sort.SliceStable(offers, func(i, j int) bool {
		pi, pj := priceKey(offers[i]), priceKey(offers[j])
		if pi != pj {
			return pi < pj
		}
		ri, rj := ratingKey(offers[i]), ratingKey(offers[j])
		if ri != rj {
			return ri > rj
		}
		if offers[i].Provider != offers[j].Provider {
			return offers[i].Provider < offers[j].Provider
		}
		return offers[i].Title < offers[j].Title
	})
}

func priceKey(o trip.Offer) float64 {
	if o.Price == nil {
		return math.MaxFloat64
	}
	return o.Price.Amount
}

func ratingKey(o trip.Offer) float64 {
	if o.Rating == nil {
		return -1
	}
	return *o.Rating
}
