// README: Concurrent provider fan-out. The dispatcher decides which
// categories a query needs, runs the matching providers in parallel under
// per-provider timeouts, and collects raw payloads plus typed failures.
package search

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"tripmate/internal/cache"
	"tripmate/internal/obs"
	"tripmate/internal/providers"
	"tripmate/internal/trip"
)

const defaultProviderTimeout = 10 * time.Second

// Payload is one provider's raw response, waiting to be normalized.
type Payload struct {
	Provider string
	Category trip.Category
	Raw      json.RawMessage
}

// Dispatcher fans a validated query out across providers.
type Dispatcher struct {
	providers []providers.Provider
	store     cache.Store
	cacheTTL  time.Duration
	timeout   time.Duration
	logger    *zap.Logger
}

// NewDispatcher wires providers to an optional cache store. store may be nil
// to disable caching.
func NewDispatcher(provs []providers.Provider, store cache.Store, cacheTTL, timeout time.Duration, logger *zap.Logger) *Dispatcher {
	if timeout <= 0 {
		timeout = defaultProviderTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{
		providers: provs,
		store:     store,
		cacheTTL:  cacheTTL,
		timeout:   timeout,
		logger:    logger,
	}
}

// Providers returns the wired provider set, for normalizing payloads later.
func (d *Dispatcher) Providers() []providers.Provider {
	return d.providers
}

// Relevant decides which offer categories a query needs.
//
// Flights need distinct endpoints and no explicit train preference; trains
// mirror that against an explicit flight preference. An unspecified mode gets
// both so the traveler can compare. Hotels need at least one night, and
// attractions are always worth showing.
func Relevant(q trip.TravelQuery) []trip.Category {
	sameCity := q.Origin != "" && q.Origin == q.Destination

	var cats []trip.Category
	if !sameCity && q.TripMode != trip.ModeTrain {
		cats = append(cats, trip.CategoryFlight)
	}
	if q.Nights() > 0 {
		cats = append(cats, trip.CategoryHotel)
	}
	if !sameCity && q.TripMode != trip.ModeFlight {
		cats = append(cats, trip.CategoryTrain)
	}
	cats = append(cats, trip.CategoryAttraction)
	return cats
}

// Dispatch queries every provider whose category the query needs. All
// providers run concurrently; a slow or failing provider never blocks the
// others beyond the per-provider timeout. Returns whatever payloads arrived
// plus a typed failure per provider that did not.
func (d *Dispatcher) Dispatch(ctx context.Context, q trip.TravelQuery) ([]Payload, []trip.ProviderError) {
	wanted := make(map[trip.Category]bool)
	for _, cat := range Relevant(q) {
		wanted[cat] = true
	}
	refresh := cache.ForceRefresh(q.RawText)

	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		payloads []Payload
		failures []trip.ProviderError
	)

	for _, p := range d.providers {
		if !wanted[p.Category()] {
			continue
		}
		wg.Add(1)
		go func(p providers.Provider) {
			defer wg.Done()

			raw, err := d.search(ctx, p, q, refresh)
			if err != nil {
				kind := classify(err)
				obs.ProviderErrors.WithLabelValues(p.Name(), string(kind)).Inc()
				d.logger.Warn("provider search failed",
					zap.String("provider", p.Name()),
					zap.String("kind", string(kind)),
					zap.Error(err),
				)
				mu.Lock()
				failures = append(failures, trip.ProviderError{
					Provider: p.Name(),
					Category: p.Category(),
					Kind:     kind,
					Err:      err,
				})
				mu.Unlock()
				return
			}

			mu.Lock()
			payloads = append(payloads, Payload{Provider: p.Name(), Category: p.Category(), Raw: raw})
			mu.Unlock()
		}(p)
	}
	wg.Wait()

	// Deterministic order regardless of which goroutine finished first.
	sort.Slice(payloads, func(i, j int) bool { return payloads[i].Provider < payloads[j].Provider })
	sort.Slice(failures, func(i, j int) bool { return failures[i].Provider < failures[j].Provider })
	return payloads, failures
}

// search resolves one provider's payload, via cache when allowed.
func (d *Dispatcher) search(ctx context.Context, p providers.Provider, q trip.TravelQuery, refresh bool) (json.RawMessage, error) {
	key := cache.Key(p.Name(), p.Params(q))

	if d.store != nil && !refresh {
		if cached, ok, err := d.store.Get(ctx, key); err == nil && ok {
			obs.CacheHits.Inc()
			return cached, nil
		}
	}

	pctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	obs.ProviderRequests.WithLabelValues(p.Name()).Inc()
	raw, err := p.Search(pctx, q)
	if err != nil {
		return nil, err
	}

	if d.store != nil {
		if err := d.store.Set(ctx, key, raw, d.cacheTTL); err != nil {
			d.logger.Warn("cache write failed", zap.String("provider", p.Name()), zap.Error(err))
		}
	}
	return raw, nil
}

// classify maps a search error onto the failure kinds callers can act on.
func classify(err error) trip.ProviderErrorKind {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return trip.ProviderTimeout
	case errors.Is(err, providers.ErrDecode):
		return trip.ProviderMalformed
	case errors.Is(err, providers.ErrStatus):
		return trip.ProviderHTTPError
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return trip.ProviderTimeout
	}
	return trip.ProviderHTTPError
}
