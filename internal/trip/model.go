// README: Canonical travel data model shared by every pipeline stage.
package trip

import (
	"encoding/json"
	"time"

	"tripmate/internal/types"
)

// DateLayout is the ISO-8601 calendar date form used everywhere in the model.
const DateLayout = "2006-01-02"

// DefaultStayDays is assumed when a query gives neither an end date nor a duration.
const DefaultStayDays = 7

// Category identifies the kind of travel data an offer belongs to.
type Category string

const (
	CategoryFlight     Category = "flight"
	CategoryHotel      Category = "hotel"
	CategoryTrain      Category = "train"
	CategoryAttraction Category = "attraction"
)

// CategoryOrder fixes the rendering order of categories in prompts and output.
var CategoryOrder = []Category{CategoryFlight, CategoryHotel, CategoryTrain, CategoryAttraction}

// Mode is the traveller's requested transport mode.
type Mode string

const (
	ModeFlight      Mode = "flight"
	ModeTrain       Mode = "train"
	ModeUnspecified Mode = "unspecified"
)

// ParseMode normalizes free-form mode wording into a Mode.
func ParseMode(s string) Mode {
	switch s {
	case "flight", "fly", "plane", "air":
		return ModeFlight
	case "train", "rail", "railway":
		return ModeTrain
	default:
		return ModeUnspecified
	}
}

// TravelQuery is the structured form of one free-text travel request.
// Dates are ISO-8601 strings; a zero HotelStars means no star preference.
type TravelQuery struct {
	Origin          string       `json:"origin"`
	Destination     string       `json:"destination"`
	StartDate       string       `json:"start_date"`
	EndDate         string       `json:"end_date,omitempty"`
	DurationDays    int          `json:"duration_days,omitempty"`
	TripMode        Mode         `json:"trip_mode"`
	HotelStars      int          `json:"hotel_stars,omitempty"`
	HotelPreference string       `json:"hotel_preference,omitempty"`
	Budget          *types.Price `json:"budget,omitempty"`
	Travelers       int          `json:"travelers"`
	RawText         string       `json:"raw_text"`
}

// Nights returns the implied hotel stay length. Zero when the window is
// unknown or malformed.
func (q TravelQuery) Nights() int {
	start, err1 := time.Parse(DateLayout, q.StartDate)
	end, err2 := time.Parse(DateLayout, q.EndDate)
	if err1 != nil || err2 != nil {
		return 0
	}
	n := int(end.Sub(start) / (24 * time.Hour))
	if n < 0 {
		return 0
	}
	return n
}

// Offer is one normalized, provider-sourced travel option. Offers are
// immutable once constructed; Raw keeps the original payload for debugging
// and is never shown to end users.
type Offer struct {
	Category Category     `json:"category"`
	Provider string       `json:"provider"`
	Title    string       `json:"title"`
	Price    *types.Price `json:"price,omitempty"`
	Rating   *float64     `json:"rating,omitempty"`

	// Stars is the hotel class when the source reported one, 0 otherwise.
	// Only meaningful for hotel offers.
	Stars int `json:"stars,omitempty"`

	DepartureTime string          `json:"departure_time,omitempty"`
	ArrivalTime   string          `json:"arrival_time,omitempty"`
	Detail        string          `json:"detail,omitempty"`
	Raw           json.RawMessage `json:"-"`
}

// RankParams echoes the constraints a result set was filtered and capped with.
type RankParams struct {
	Budget         *types.Price `json:"budget,omitempty"`
	HotelStars     int          `json:"hotel_stars,omitempty"`
	MaxPerCategory int          `json:"max_per_category"`
}

// RankedResultSet holds the ordered offers per requested category. A requested
// category that produced nothing is present with an empty slice, never
// omitted. The set lives for one query and is discarded after composition.
type RankedResultSet struct {
	QueryID   string               `json:"query_id"`
	Offers    map[Category][]Offer `json:"offers"`
	Responded []string             `json:"responded,omitempty"`
	Failures  []ProviderError      `json:"failures,omitempty"`
	Params    RankParams           `json:"params"`
}

// Empty reports whether cat was requested but yielded no offers.
func (s *RankedResultSet) Empty(cat Category) bool {
	offers, ok := s.Offers[cat]
	return ok && len(offers) == 0
}

// EmptyCategories lists requested categories with zero offers, in canonical order.
func (s *RankedResultSet) EmptyCategories() []Category {
	var empty []Category
	for _, cat := range CategoryOrder {
		if s.Empty(cat) {
			empty = append(empty, cat)
		}
	}
	return empty
}

// Total counts offers across all categories.
func (s *RankedResultSet) Total() int {
	n := 0
	for _, offers := range s.Offers {
		n += len(offers)
	}
	return n
}

// Response is the final composed text plus the result set it was grounded in,
// kept for traceability.
type Response struct {
	Text    string           `json:"text"`
	Results *RankedResultSet `json:"results,omitempty"`
}
