package providers

import "strings"

// airportCodes maps well-known cities to their primary IATA airport code.
// The flight engine wants codes, users say city names.
var airportCodes = map[string]string{
	"delhi":     "DEL",
	"mumbai":    "BOM",
	"chennai":   "MAA",
	"kolkata":   "CCU",
	"bengaluru": "BLR",
	"bangalore": "BLR",
	"hyderabad": "HYD",
	"agra":      "AGR",
	"bali":      "DPS",
	"denpasar":  "DPS",
	"bangkok":   "BKK",
	"new york":  "JFK",
	"london":    "LHR",
	"paris":     "CDG",
	"dubai":     "DXB",
	"singapore": "SIN",
	"tokyo":     "HND",
	"sydney":    "SYD",
}

// airportCode resolves a city name to an IATA code. Unknown cities fall back
// to the first three letters uppercased, which the flight engine treats as a
// best-effort query.
func airportCode(city string) string {
	city = strings.ToLower(strings.TrimSpace(city))
	if code, ok := airportCodes[city]; ok {
		return code
	}
	runes := []rune(strings.ToUpper(city))
	if len(runes) > 3 {
		runes = runes[:3]
	}
	return string(runes)
}
