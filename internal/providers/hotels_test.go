package providers

import (
	"encoding/json"
	"strings"
	"testing"

	"tripmate/internal/trip"
)

const hotelsFixture = `{
  "properties": [
    {
      "name": "Ubud Garden Resort",
      "description": "Resort in the rice terraces",
      "rate_per_night": {"lowest": "$95", "extracted_lowest": 95},
      "total_rate": {"extracted_lowest": 475},
      "overall_rating": 4.6,
      "reviews": 1320,
      "hotel_class": "4-star hotel",
      "extracted_hotel_class": 4,
      "amenities": ["Pool", "Free Wi-Fi", "Breakfast", "Spa"]
    },
    {
      "name": "Kuta Beach Hostel",
      "rate_per_night": {"lowest": "$18", "extracted_lowest": 18},
      "overall_rating": 4.1,
      "reviews": 204
    },
    {
      "name": "Mystery Villa"
    },
    {
      "description": "listing without a name"
    }
  ]
}`

func TestHotelProvider_Normalize(t *testing.T) {
	p := NewHotelProvider(nil)
	offers, err := p.Normalize(json.RawMessage(hotelsFixture))
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if len(offers) != 3 {
		t.Fatalf("got %d offers, want 3 (nameless listing dropped)", len(offers))
	}

	resort := offers[0]
	if resort.Title != "Ubud Garden Resort" {
		t.Errorf("Title = %q", resort.Title)
	}
	if resort.Price == nil || resort.Price.Amount != 475 {
		t.Errorf("Price = %+v, want the 475 total stay rate", resort.Price)
	}
	if resort.Rating == nil || *resort.Rating != 4.6 {
		t.Errorf("Rating = %+v, want 4.6", resort.Rating)
	}
	if resort.Stars != 4 {
		t.Errorf("Stars = %d, want 4", resort.Stars)
	}
	if !strings.Contains(resort.Detail, "1320 reviews") {
		t.Errorf("Detail = %q, want review count included", resort.Detail)
	}
	if strings.Contains(resort.Detail, "rate per night") {
		t.Errorf("Detail = %q, total rate offers must not carry the nightly marker", resort.Detail)
	}

	hostel := offers[1]
	if hostel.Price == nil || hostel.Price.Amount != 18 {
		t.Errorf("hostel Price = %+v, want nightly 18", hostel.Price)
	}
	if !strings.Contains(hostel.Detail, "rate per night") {
		t.Errorf("hostel Detail = %q, want the nightly marker", hostel.Detail)
	}

	// Optional fields all absent: still an offer, just thin. Whether it
	// survives filtering is the normalizer pipeline's decision, not ours.
	villa := offers[2]
	if villa.Price != nil || villa.Rating != nil {
		t.Errorf("villa = %+v, want no fabricated price or rating", villa)
	}
}

func TestHotelProvider_NormalizeFailures(t *testing.T) {
	p := NewHotelProvider(nil)
	tests := []struct {
		name string
		raw  string
	}{
		{name: "engine error", raw: `{"error": "Google Hotels hasn't returned any results."}`},
		{name: "no properties key", raw: `{"search_metadata": {}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := p.Normalize(json.RawMessage(tt.raw)); err == nil {
				t.Error("Normalize() error = nil, want failure")
			}
		})
	}
}

func TestHotelProvider_Params(t *testing.T) {
	p := NewHotelProvider(nil)
	q := trip.TravelQuery{
		Origin:      "Agra",
		Destination: "Bali",
		StartDate:   "2024-05-15",
		EndDate:     "2024-05-20",
		Travelers:   2,
		HotelStars:  4,
	}

	params := p.Params(q)
	if params["q"] != "Bali Hotels" {
		t.Errorf("q = %q, want Bali Hotels", params["q"])
	}
	if params["check_in_date"] != "2024-05-15" || params["check_out_date"] != "2024-05-20" {
		t.Errorf("dates = %q/%q, want the stay window", params["check_in_date"], params["check_out_date"])
	}
	if params["adults"] != "2" {
		t.Errorf("adults = %q, want 2", params["adults"])
	}
	if params["hotel_class"] != "4" {
		t.Errorf("hotel_class = %q, want 4", params["hotel_class"])
	}

	q.HotelStars = 0
	if _, ok := p.Params(q)["hotel_class"]; ok {
		t.Error("hotel_class present without a star preference")
	}
}
