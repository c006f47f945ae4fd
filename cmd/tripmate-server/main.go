// README: Entry point; loads config, wires the pipeline, starts the HTTP server.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"tripmate/internal/ai"
	"tripmate/internal/cache"
	"tripmate/internal/compose"
	"tripmate/internal/config"
	httptransport "tripmate/internal/http"
	"tripmate/internal/intent"
	"tripmate/internal/logger"
	"tripmate/internal/providers"
	"tripmate/internal/search"
	"tripmate/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	zlog, err := logger.New(cfg.Log.Level)
	if err != nil {
		log.Fatal(err)
	}
	defer zlog.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gemini, err := ai.NewGeminiProvider(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
	if err != nil {
		log.Fatalf("gemini init: %v", err)
	}
	defer gemini.Close()

	planner := buildPlanner(ctx, cfg, gemini, zlog)

	router := httptransport.NewRouter(planner, zlog)
	srv := httptransport.NewServer(cfg.HTTP.Addr, router)
	if err := httptransport.Run(ctx, srv, zlog); err != nil {
		zlog.Fatal("server failed", zap.Error(err))
	}
}

// buildPlanner wires the full pipeline from config. Redis and Places are
// optional: without them the server runs on the in-memory cache and the
// search-based attraction source alone.
func buildPlanner(ctx context.Context, cfg config.Config, gemini *ai.GeminiProvider, zlog *zap.Logger) *service.Planner {
	serp := providers.NewSerpClient(cfg.Serp.APIKey, cfg.Serp.BaseURL, cfg.Search.MaxRetries)
	provs := []providers.Provider{
		providers.NewFlightProvider(serp),
		providers.NewHotelProvider(serp),
		providers.NewTrainProvider(serp),
		providers.NewAttractionProvider(serp),
	}
	if cfg.Maps.APIKey != "" {
		places, err := providers.NewPlacesProvider(cfg.Maps.APIKey)
		if err != nil {
			zlog.Warn("places provider disabled", zap.Error(err))
		} else {
			provs = append(provs, places)
		}
	}

	var store cache.Store = cache.NewMemory()
	if cfg.Redis.Addr != "" {
		r := cache.NewRedis(cfg.Redis.Addr)
		if err := r.Ping(ctx); err != nil {
			zlog.Warn("redis unreachable, using in-memory cache", zap.Error(err))
		} else {
			store = r
		}
	}

	extractor := intent.NewExtractor(gemini, zlog)
	dispatcher := search.NewDispatcher(provs, store, cfg.Cache.TTL, cfg.Search.ProviderTimeout, zlog)
	composer := compose.NewComposer(gemini, cfg.Persona, zlog)
	return service.NewPlanner(extractor, dispatcher, composer, cfg.Search, zlog)
}
