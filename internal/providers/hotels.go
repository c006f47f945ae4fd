package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"tripmate/internal/trip"
	"tripmate/internal/types"
)

const hotelLimit = 5

// HotelProvider searches Google Hotels through SerpAPI.
type HotelProvider struct {
	client *SerpClient
}

func NewHotelProvider(client *SerpClient) *HotelProvider {
	return &HotelProvider{client: client}
}

func (p *HotelProvider) Name() string { return "google_hotels" }

func (p *HotelProvider) Category() trip.Category { return trip.CategoryHotel }

func (p *HotelProvider) Params(q trip.TravelQuery) map[string]string {
	adults := q.Travelers
	if adults < 1 {
		adults = 1
	}
	params := map[string]string{
		"q":              q.Destination + " Hotels",
		"check_in_date":  q.StartDate,
		"check_out_date": q.EndDate,
		"adults":         strconv.Itoa(adults),
		"currency":       "USD",
		"gl":             "us",
		"hl":             "en",
	}
	if q.HotelStars > 0 {
		params["hotel_class"] = strconv.Itoa(q.HotelStars)
	}
	return params
}

func (p *HotelProvider) Search(ctx context.Context, q trip.TravelQuery) (json.RawMessage, error) {
	return p.client.Search(ctx, "google_hotels", p.Params(q))
}

type hotelsPayload struct {
	Properties []json.RawMessage `json:"properties"`
	Error      string            `json:"error"`
}

type serpHotel struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	RatePerNight struct {
		Lowest          string  `json:"lowest"`
		ExtractedLowest float64 `json:"extracted_lowest"`
	} `json:"rate_per_night"`
	TotalRate struct {
		ExtractedLowest float64 `json:"extracted_lowest"`
	} `json:"total_rate"`
	OverallRating       float64  `json:"overall_rating"`
	Reviews             int      `json:"reviews"`
	HotelClass          string   `json:"hotel_class"`
	ExtractedHotelClass int      `json:"extracted_hotel_class"`
	Amenities           []string `json:"amenities"`
}

// Normalize keeps the top properties from a google_hotels payload. The total
// stay rate is preferred; when only a nightly rate is present the detail line
// says so.
func (p *HotelProvider) Normalize(raw json.RawMessage) ([]trip.Offer, error) {
	var payload hotelsPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("hotels payload: %w", err)
	}
	if payload.Error != "" {
		return nil, fmt.Errorf("hotels engine error: %s", payload.Error)
	}
	if payload.Properties == nil {
		return nil, fmt.Errorf("hotels payload has no properties")
	}

	items := payload.Properties
	if len(items) > hotelLimit {
		items = items[:hotelLimit]
	}

	offers := make([]trip.Offer, 0, len(items))
	for _, item := range items {
		var h serpHotel
		if err := json.Unmarshal(item, &h); err != nil {
			continue
		}
		if h.Name == "" {
			continue
		}

		offer := trip.Offer{
			Category: trip.CategoryHotel,
			Provider: p.Name(),
			Title:    h.Name,
			Stars:    h.ExtractedHotelClass,
			Raw:      item,
		}
		if h.OverallRating > 0 {
			rating := h.OverallRating
			offer.Rating = &rating
		}

		var detail []string
		if h.ExtractedHotelClass > 0 {
			detail = append(detail, fmt.Sprintf("%d-star", h.ExtractedHotelClass))
		} else if h.HotelClass != "" {
			detail = append(detail, h.HotelClass)
		}
		if h.Reviews > 0 {
			detail = append(detail, fmt.Sprintf("%d reviews", h.Reviews))
		}

		switch {
		case h.TotalRate.ExtractedLowest > 0:
			offer.Price = types.NewPrice(h.TotalRate.ExtractedLowest, "USD")
		case h.RatePerNight.ExtractedLowest > 0:
			offer.Price = types.NewPrice(h.RatePerNight.ExtractedLowest, "USD")
			detail = append(detail, "rate per night")
		}

		if len(h.Amenities) > 0 {
			sample := h.Amenities
			if len(sample) > 3 {
				sample = sample[:3]
			}
			detail = append(detail, strings.Join(sample, ", "))
		}
		offer.Detail = strings.Join(detail, ", ")

		offers = append(offers, offer)
	}
	return offers, nil
}
