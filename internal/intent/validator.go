package intent

import (
	"fmt"
	"strings"
	"time"

	"tripmate/internal/trip"
	"tripmate/internal/types"
)

// starsForPreference maps loose hotel wording onto a star threshold. Unknown
// but non-empty wording falls back to a mid-range 3.
var starsForPreference = map[string]int{
	"hostel":   2,
	"budget":   2,
	"cheap":    2,
	"3-star":   3,
	"3 star":   3,
	"4-star":   4,
	"4 star":   4,
	"5-star":   5,
	"5 star":   5,
	"luxury":   5,
	"high-end": 5,
}

// Validate checks a freshly extracted query and fills in normalized values.
// It is pure: no clock, no network, no randomness. The returned query has
// both EndDate and DurationDays populated and consistent.
//
// Failures are *trip.ValidationError. Missing origin, destination, or start
// date is MissingRequiredField; impossible date combinations are
// InvalidDateRange; values outside their domain are OutOfRangeField.
func Validate(q trip.TravelQuery) (trip.TravelQuery, error) {
	q.Origin = strings.TrimSpace(q.Origin)
	q.Destination = strings.TrimSpace(q.Destination)

	if q.Origin == "" {
		return q, missingField("origin", "where are you starting from?")
	}
	if q.Destination == "" {
		return q, missingField("destination", "where do you want to go?")
	}
	if strings.TrimSpace(q.StartDate) == "" {
		return q, missingField("start_date", "what date do you want to leave?")
	}

	start, err := parseDate(q.StartDate)
	if err != nil {
		return q, outOfRange("start_date", fmt.Sprintf("start date %q is not a valid YYYY-MM-DD date", q.StartDate))
	}
	q.StartDate = start.Format(trip.DateLayout)

	if q.DurationDays < 0 {
		return q, outOfRange("duration_days", fmt.Sprintf("trip duration %d days is not possible", q.DurationDays))
	}

	switch {
	case q.EndDate == "" && q.DurationDays == 0:
		// Nothing given: assume a week-long stay.
		q.DurationDays = trip.DefaultStayDays
		q.EndDate = start.AddDate(0, 0, q.DurationDays).Format(trip.DateLayout)

	case q.EndDate == "":
		q.EndDate = start.AddDate(0, 0, q.DurationDays).Format(trip.DateLayout)

	default:
		end, err := parseDate(q.EndDate)
		if err != nil {
			return q, outOfRange("end_date", fmt.Sprintf("end date %q is not a valid YYYY-MM-DD date", q.EndDate))
		}
		q.EndDate = end.Format(trip.DateLayout)

		if end.Before(start) {
			return q, &trip.ValidationError{
				Kind:    trip.InvalidDateRange,
				Field:   "end_date",
				Message: fmt.Sprintf("end date %s is before start date %s", q.EndDate, q.StartDate),
			}
		}
		days := int(end.Sub(start) / (24 * time.Hour))
		if q.DurationDays != 0 && q.DurationDays != days {
			return q, &trip.ValidationError{
				Kind:    trip.InvalidDateRange,
				Field:   "duration_days",
				Message: fmt.Sprintf("dates %s to %s span %d days but the request says %d", q.StartDate, q.EndDate, days, q.DurationDays),
			}
		}
		q.DurationDays = days
	}

	if q.HotelStars < 0 || q.HotelStars > 5 {
		return q, outOfRange("hotel_stars", fmt.Sprintf("hotel stars must be between 1 and 5, got %d", q.HotelStars))
	}
	if q.HotelStars == 0 && q.HotelPreference != "" {
		if stars, ok := starsForPreference[strings.ToLower(strings.TrimSpace(q.HotelPreference))]; ok {
			q.HotelStars = stars
		} else {
			q.HotelStars = 3
		}
	}

	if q.Travelers < 0 {
		return q, outOfRange("travelers", fmt.Sprintf("traveler count %d is not possible", q.Travelers))
	}
	if q.Travelers == 0 {
		q.Travelers = 1
	}

	if q.Budget != nil {
		if q.Budget.Amount < 0 {
			return q, outOfRange("budget", fmt.Sprintf("budget %.2f is negative", q.Budget.Amount))
		}
		if q.Budget.Currency == "" {
			q.Budget = types.NewPrice(q.Budget.Amount, "USD")
		}
	}

	if q.TripMode == "" {
		q.TripMode = trip.ModeUnspecified
	}

	return q, nil
}

func missingField(field, ask string) *trip.ValidationError {
	return &trip.ValidationError{
		Kind:    trip.MissingRequiredField,
		Field:   field,
		Message: fmt.Sprintf("missing required field %q: %s", field, ask),
	}
}

func outOfRange(field, msg string) *trip.ValidationError {
	return &trip.ValidationError{
		Kind:    trip.OutOfRangeField,
		Field:   field,
		Message: msg,
	}
}

// parseDate accepts YYYY-MM-DD, tolerating a trailing time component some
// models emit ("2024-05-15T00:00:00").
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, 'T'); i > 0 {
		s = s[:i]
	}
	return time.Parse(trip.DateLayout, s)
}
