package search

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"tripmate/internal/providers"
	"tripmate/internal/trip"
)

// Offers without a title are always dropped. Bookable categories also need a
// price or rating to be worth showing; informational ones do not.
func TestNormalizeAll_DropRule(t *testing.T) {
	rating := 4.5
	flightProv := &fakeProvider{name: "flights", category: trip.CategoryFlight, offers: []trip.Offer{
		offer(trip.CategoryFlight, "flights", "priced flight", fptr(500), nil),
		{Category: trip.CategoryFlight, Provider: "flights", Title: "bare flight"},
		{Category: trip.CategoryFlight, Provider: "flights", Title: "rated flight", Rating: &rating},
		{Category: trip.CategoryFlight, Provider: "flights", Price: nil, Rating: &rating},
	}}
	trainProv := &fakeProvider{name: "trains", category: trip.CategoryTrain, offers: []trip.Offer{
		{Category: trip.CategoryTrain, Provider: "trains", Title: "overnight express"},
		{Category: trip.CategoryTrain, Provider: "trains"},
	}}
	attractionProv := &fakeProvider{name: "sights", category: trip.CategoryAttraction, offers: []trip.Offer{
		{Category: trip.CategoryAttraction, Provider: "sights", Title: "old town"},
	}}

	provs := []providers.Provider{flightProv, trainProv, attractionProv}
	payloads := []Payload{
		{Provider: "flights", Category: trip.CategoryFlight, Raw: json.RawMessage(`{}`)},
		{Provider: "trains", Category: trip.CategoryTrain, Raw: json.RawMessage(`{}`)},
		{Provider: "sights", Category: trip.CategoryAttraction, Raw: json.RawMessage(`{}`)},
	}

	offers, failures := NormalizeAll(provs, payloads)
	if len(failures) != 0 {
		t.Fatalf("failures = %+v, want none", failures)
	}

	var got []string
	for _, o := range offers {
		got = append(got, o.Title)
	}
	want := []string{"priced flight", "rated flight", "overnight express", "old town"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("kept offers = %v, want %v", got, want)
	}
}

func TestNormalizeAll_UninterpretablePayload(t *testing.T) {
	good := &fakeProvider{name: "flights", category: trip.CategoryFlight, offers: []trip.Offer{
		offer(trip.CategoryFlight, "flights", "works", fptr(300), nil),
	}}
	broken := &fakeProvider{name: "hotels", category: trip.CategoryHotel, normErr: errors.New("unexpected shape")}

	provs := []providers.Provider{good, broken}
	payloads := []Payload{
		{Provider: "flights", Category: trip.CategoryFlight, Raw: json.RawMessage(`{}`)},
		{Provider: "hotels", Category: trip.CategoryHotel, Raw: json.RawMessage(`{"weird":[]}`)},
	}

	offers, failures := NormalizeAll(provs, payloads)
	if len(offers) != 1 || offers[0].Title != "works" {
		t.Errorf("offers = %+v, want the flight to survive", offers)
	}
	if len(failures) != 1 {
		t.Fatalf("failures = %+v, want one", failures)
	}
	if failures[0].Kind != trip.ProviderNormalization || failures[0].Provider != "hotels" {
		t.Errorf("failure = %+v, want hotels/normalization", failures[0])
	}
}

func TestNormalizeAll_UnknownProviderIgnored(t *testing.T) {
	payloads := []Payload{
		{Provider: "ghost", Category: trip.CategoryFlight, Raw: json.RawMessage(`{}`)},
	}
	offers, failures := NormalizeAll(nil, payloads)
	if len(offers) != 0 || len(failures) != 0 {
		t.Errorf("got %d offers and %d failures for unknown provider, want none", len(offers), len(failures))
	}
}
