// README: Response composition. Turns a ranked result set into the reply the
// traveler reads, in the configured persona, grounded strictly in the offers
// the pipeline actually found.
package compose

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"tripmate/internal/ai"
	"tripmate/internal/obs"
	"tripmate/internal/trip"
)

// personaIntros keys the configured persona to the role line the model gets.
var personaIntros = map[string]string{
	"sassy":    "You are TripMate, a sassy but helpful travel assistant with attitude. Be witty and a little sarcastic, but keep every fact straight.",
	"friendly": "You are TripMate, a warm and encouraging travel assistant. Be upbeat and helpful.",
	"concise":  "You are TripMate, a no-nonsense travel assistant. Be brief and factual.",
}

// Composer writes the final reply for a finished search.
type Composer struct {
	gen     ai.Generator
	persona string
	logger  *zap.Logger
	now     func() time.Time
}

func NewComposer(gen ai.Generator, persona string, logger *zap.Logger) *Composer {
	if _, ok := personaIntros[persona]; !ok {
		persona = "sassy"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Composer{gen: gen, persona: persona, logger: logger, now: time.Now}
}

// Compose renders the reply. It never fails: when generation errors out or
// comes back blank, the deterministic plain-text rendering is used instead,
// so the traveler always gets their results.
func (c *Composer) Compose(ctx context.Context, q trip.TravelQuery, set *trip.RankedResultSet) trip.Response {
	text, err := c.gen.GenerateText(ctx, c.buildPrompt(q, set))
	if err != nil || strings.TrimSpace(text) == "" {
		obs.ComposerFallbacks.Inc()
		c.logger.Warn("composer fell back to plain rendering", zap.Error(err))
		text = PlainText(q, set)
	}
	return trip.Response{Text: text, Results: set}
}

// groundedOffer is the projection of an offer the model is allowed to see.
// The raw provider payload stays out of the prompt.
type groundedOffer struct {
	Provider  string   `json:"provider"`
	Title     string   `json:"title"`
	Price     string   `json:"price,omitempty"`
	Rating    *float64 `json:"rating,omitempty"`
	Stars     int      `json:"stars,omitempty"`
	Departure string   `json:"departure,omitempty"`
	Arrival   string   `json:"arrival,omitempty"`
	Detail    string   `json:"detail,omitempty"`
}

func (c *Composer) buildPrompt(q trip.TravelQuery, set *trip.RankedResultSet) string {
	var parts []string

	parts = append(parts, personaIntros[c.persona])
	parts = append(parts, "Today's date for reference is "+c.now().Format(trip.DateLayout)+".")
	parts = append(parts, "")
	parts = append(parts, fmt.Sprintf("The traveler asked: %q", q.RawText))
	parts = append(parts, fmt.Sprintf("Trip: %s to %s, %s to %s, %d traveler(s).", q.Origin, q.Destination, q.StartDate, q.EndDate, q.Travelers))
	if q.Budget != nil && q.Budget.Amount > 0 {
		parts = append(parts, "Budget: "+q.Budget.String()+".")
	}
	parts = append(parts, "")
	parts = append(parts, "Search results by category:")

	for _, cat := range trip.CategoryOrder {
		offers, requested := set.Offers[cat]
		if !requested {
			continue
		}
		parts = append(parts, "")
		parts = append(parts, categoryLabel(cat)+":")
		if len(offers) == 0 {
			parts = append(parts, "NONE FOUND")
			continue
		}
		grounded := make([]groundedOffer, 0, len(offers))
		for _, o := range offers {
			g := groundedOffer{
				Provider:  o.Provider,
				Title:     o.Title,
				Rating:    o.Rating,
				Stars:     o.Stars,
				Departure: o.DepartureTime,
				Arrival:   o.ArrivalTime,
				Detail:    o.Detail,
			}
			if o.Price != nil {
				g.Price = o.Price.String()
			}
			grounded = append(grounded, g)
		}
		encoded, err := json.MarshalIndent(grounded, "", "  ")
		if err != nil {
			continue
		}
		parts = append(parts, string(encoded))
	}

	if len(set.Failures) > 0 {
		names := make([]string, 0, len(set.Failures))
		for _, f := range set.Failures {
			names = append(names, f.Provider)
		}
		parts = append(parts, "")
		parts = append(parts, "Sources that did not respond: "+strings.Join(names, ", ")+".")
	}

	parts = append(parts, "")
	parts = append(parts, "Rules:")
	parts = append(parts, "- Recommend the best 3 to 5 options per category from the data above.")
	parts = append(parts, "- Use only the options listed. Never invent prices, names, ratings, or times.")
	parts = append(parts, "- For any category marked NONE FOUND, say plainly that nothing turned up, in your own voice.")
	parts = append(parts, "- If sources did not respond, mention the results may be incomplete.")
	parts = append(parts, "- Close with one practical tip for this trip.")

	return strings.Join(parts, "\n")
}

// PlainText renders a result set without the model: a deterministic,
// unstyled listing used when generation is unavailable.
func PlainText(q trip.TravelQuery, set *trip.RankedResultSet) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Trip plan: %s to %s (%s to %s)\n", q.Origin, q.Destination, q.StartDate, q.EndDate)

	for _, cat := range trip.CategoryOrder {
		offers, requested := set.Offers[cat]
		if !requested {
			continue
		}
		sb.WriteString("\n" + categoryLabel(cat) + ":\n")
		if len(offers) == 0 {
			sb.WriteString("  no options found\n")
			continue
		}
		for _, o := range offers {
			sb.WriteString("  - " + offerLine(o) + "\n")
		}
	}

	if len(set.Failures) > 0 {
		sb.WriteString("\nNote: some sources were unavailable:")
		for i, f := range set.Failures {
			if i > 0 {
				sb.WriteString(",")
			}
			fmt.Fprintf(&sb, " %s (%s)", f.Provider, f.Kind)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func offerLine(o trip.Offer) string {
	fields := []string{o.Title}
	if o.Price != nil {
		fields = append(fields, o.Price.String())
	}
	if o.Rating != nil {
		fields = append(fields, fmt.Sprintf("%.1f/5", *o.Rating))
	}
	if o.DepartureTime != "" && o.ArrivalTime != "" {
		fields = append(fields, o.DepartureTime+" to "+o.ArrivalTime)
	}
	if o.Detail != "" {
		fields = append(fields, o.Detail)
	}
	return strings.Join(fields, " | ")
}

func categoryLabel(cat trip.Category) string {
	switch cat {
	case trip.CategoryFlight:
		return "Flights"
	case trip.CategoryHotel:
		return "Hotels"
	case trip.CategoryTrain:
		return "Trains"
	case trip.CategoryAttraction:
		return "Attractions"
	default:
		return string(cat)
	}
}
