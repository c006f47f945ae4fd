// README: Interactive TripMate session in the terminal.
package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"go.uber.org/zap"

	"tripmate/internal/ai"
	"tripmate/internal/cache"
	"tripmate/internal/compose"
	"tripmate/internal/config"
	"tripmate/internal/intent"
	"tripmate/internal/logger"
	"tripmate/internal/providers"
	"tripmate/internal/search"
	"tripmate/internal/service"
	"tripmate/internal/trip"
)

var exitWords = map[string]bool{
	"exit":    true,
	"quit":    true,
	"bye":     true,
	"goodbye": true,
}

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

	ctx := context.Background()

	gemini, err := ai.NewGeminiProvider(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
	if err != nil {
		log.Fatalf("gemini init: %v", err)
	}
	defer gemini.Close()

	planner := buildPlanner(ctx, cfg, gemini, zlog)

	fmt.Println("🌍 TripMate: tell me where and when, I'll handle the rest.")
	fmt.Println("   (type 'exit' to leave)")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("\nYou: ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if exitWords[strings.ToLower(line)] {
			fmt.Println("TripMate: Finally, some peace. Safe travels! ✈️")
			return
		}

		resp, err := planner.Plan(ctx, line)
		if err != nil {
			fmt.Println("TripMate: " + trip.UserMessage(err))
			continue
		}
		fmt.Println("TripMate: " + resp.Text)
	}
}

// buildPlanner wires the full pipeline from config. Redis and Places are
// optional: without them the session runs on the in-memory cache and the
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
