package ai

// TravelIntent captures the structured output from the AI model.
//
// Every field is a pointer so that "model did not mention this" stays
// distinguishable from a zero value. Downstream validation decides what
// absence means per field.
type TravelIntent struct {
	// Origin is the departure location as stated by the user, never guessed.
	Origin *string `json:"origin"`

	// Destination is the target location as stated by the user, never guessed.
	Destination *string `json:"destination"`

	// StartDate is the trip start in YYYY-MM-DD, resolved from relative
	// phrasing ("next Friday") against today's date.
	StartDate *string `json:"start_date"`

	// EndDate is the trip end in YYYY-MM-DD when the user gave one.
	EndDate *string `json:"end_date"`

	// DurationDays is the stay length when phrased as "for 5 days".
	DurationDays *int `json:"duration_days"`

	// TripMode is "flight", "train" or "unspecified".
	TripMode *string `json:"trip_mode"`

	// HotelStars is a numeric star request (1-5) when the user gave one.
	HotelStars *int `json:"hotel_stars"`

	// HotelPreference holds wording like "luxury" or "budget" that does not
	// map directly to a star count.
	HotelPreference *string `json:"hotel_preference"`

	// Budget is the total trip budget amount when mentioned.
	Budget *float64 `json:"budget"`

	// BudgetCurrency is the ISO currency code for Budget, e.g. "USD".
	BudgetCurrency *string `json:"budget_currency"`

	// Travelers is the party size when mentioned.
	Travelers *int `json:"travelers"`
}
