package intent

// travelIntentSchema constrains the extraction output. Origin and destination
// keys must always be present (null when unknown); everything else may be
// omitted or null. Validation of values (date ranges, star counts) happens
// later, this only guards shape.
const travelIntentSchema = `{
  "type": "object",
  "properties": {
    "origin":           {"type": ["string", "null"]},
    "destination":      {"type": ["string", "null"]},
    "start_date":       {"type": ["string", "null"]},
    "end_date":         {"type": ["string", "null"]},
    "duration_days":    {"type": ["integer", "null"]},
    "trip_mode":        {"type": ["string", "null"], "enum": ["flight", "train", "unspecified", null]},
    "hotel_stars":      {"type": ["integer", "null"]},
    "hotel_preference": {"type": ["string", "null"]},
    "budget":           {"type": ["number", "null"]},
    "budget_currency":  {"type": ["string", "null"]},
    "travelers":        {"type": ["integer", "null"]}
  },
  "required": ["origin", "destination"],
  "additionalProperties": true
}`

// fieldGuide documents each schema field for the model. Kept next to the
// schema so the two stay in sync.
const fieldGuide = `- origin: departure city or place, exactly as the user said it
- destination: target city or place, exactly as the user said it
- start_date: trip start date in YYYY-MM-DD
- end_date: trip end date in YYYY-MM-DD, only if the user gave one
- duration_days: stay length in days, only if phrased as a duration ("for 5 days")
- trip_mode: "flight", "train", or "unspecified" when the user did not say
- hotel_stars: hotel star rating 1-5, only if the user asked for one
- hotel_preference: hotel wording that is not a star count ("luxury", "cheap", "hostel")
- budget: total trip budget as a number, only if the user gave one
- budget_currency: currency code for the budget, e.g. "USD", "EUR", "INR"
- travelers: number of people traveling, only if the user said`
