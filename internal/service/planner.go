// README: Pipeline orchestrator. Wires extraction, validation, provider
// dispatch, normalization, ranking, and composition into one Plan call.
package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"tripmate/internal/compose"
	"tripmate/internal/config"
	"tripmate/internal/intent"
	"tripmate/internal/obs"
	"tripmate/internal/search"
	"tripmate/internal/trip"
)

const defaultSearchDeadline = 25 * time.Second

// Planner runs one travel request through the whole pipeline.
type Planner struct {
	extractor  *intent.Extractor
	dispatcher *search.Dispatcher
	composer   *compose.Composer
	deadline   time.Duration
	maxPerCat  int
	logger     *zap.Logger
}

func NewPlanner(extractor *intent.Extractor, dispatcher *search.Dispatcher, composer *compose.Composer, cfg config.SearchConfig, logger *zap.Logger) *Planner {
	deadline := cfg.OverallDeadline
	if deadline <= 0 {
		deadline = defaultSearchDeadline
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Planner{
		extractor:  extractor,
		dispatcher: dispatcher,
		composer:   composer,
		deadline:   deadline,
		maxPerCat:  cfg.MaxPerCategory,
		logger:     logger,
	}
}

// Plan turns one free-text request into a composed trip plan.
//
// Only two failures terminate a request: the text cannot be parsed into a
// query, or the query fails validation. Everything after that degrades
// instead, partial provider results still produce an answer.
func (p *Planner) Plan(ctx context.Context, rawText string) (trip.Response, error) {
	obs.Queries.Inc()
	queryID := uuid.NewString()
	started := time.Now()

	q, err := p.extractor.Extract(ctx, rawText)
	if err != nil {
		obs.QueryFailures.WithLabelValues("extract").Inc()
		return trip.Response{}, err
	}

	q, err = intent.Validate(q)
	if err != nil {
		obs.QueryFailures.WithLabelValues("validate").Inc()
		return trip.Response{}, err
	}

	p.logger.Info("query validated",
		zap.String("query_id", queryID),
		zap.String("origin", q.Origin),
		zap.String("destination", q.Destination),
		zap.String("start_date", q.StartDate),
		zap.String("end_date", q.EndDate),
		zap.String("mode", string(q.TripMode)),
	)

	// The deadline bounds the provider fan-out only. Composition afterwards
	// works with whatever arrived in time.
	sctx, cancel := context.WithTimeout(ctx, p.deadline)
	payloads, failures := p.dispatcher.Dispatch(sctx, q)
	cancel()

	offers, normFailures := search.NormalizeAll(p.dispatcher.Providers(), payloads)
	failures = append(failures, normFailures...)

	responded := make([]string, 0, len(payloads))
	for _, payload := range payloads {
		responded = append(responded, payload.Provider)
	}

	set := search.Rank(search.Input{
		QueryID:    queryID,
		Query:      q,
		Categories: search.Relevant(q),
		Responded:  responded,
		Offers:     offers,
		Failures:   failures,
	}, p.maxPerCat)

	resp := p.composer.Compose(ctx, q, set)

	p.logger.Info("query answered",
		zap.String("query_id", queryID),
		zap.Int("offers", set.Total()),
		zap.Int("failures", len(failures)),
		zap.Duration("took", time.Since(started)),
	)
	return resp, nil
}
