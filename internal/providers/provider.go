// README: Travel data providers. Each provider knows how to query one
// upstream source and how to turn its payload into offers; the dispatcher
// in internal/search fans out across them.
package providers

import (
	"context"
	"encoding/json"
	"errors"

	"tripmate/internal/trip"
)

// ErrStatus marks a non-200 upstream response.
var ErrStatus = errors.New("unexpected upstream status")

// ErrDecode marks an upstream body that is not valid JSON.
var ErrDecode = errors.New("undecodable upstream payload")

// Provider is one source of travel offers.
//
// Search returns the raw upstream payload so it can be cached verbatim;
// Normalize interprets such a payload later, possibly on a different run
// when the payload came out of the cache. Params exposes the request
// parameters used for cache keying.
type Provider interface {
	Name() string
	Category() trip.Category
	Params(q trip.TravelQuery) map[string]string
	Search(ctx context.Context, q trip.TravelQuery) (json.RawMessage, error)
	Normalize(raw json.RawMessage) ([]trip.Offer, error)
}
