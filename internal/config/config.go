// README: Config loader with env defaults for keys, timeouts, cache, and the HTTP server.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type SearchConfig struct {
	ProviderTimeout time.Duration
	OverallDeadline time.Duration
	MaxRetries      int
	MaxPerCategory  int
}

type Config struct {
	HTTP struct {
		Addr string
	}
	Gemini struct {
		APIKey string
		Model  string
	}
	Serp struct {
		APIKey  string
		BaseURL string
	}
	Maps struct {
		APIKey string
	}
	Redis struct {
		Addr string
	}
	Cache struct {
		TTL time.Duration
	}
	Search  SearchConfig
	Persona string
	Log     struct {
		Level string
	}
}

// Load reads configuration from the environment. A .env file in the working
// directory is honoured when present.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	cfg.HTTP.Addr = envOrDefault("TRIPMATE_HTTP_ADDR", ":8080")
	cfg.Gemini.APIKey = os.Getenv("GEMINI_API_KEY")
	cfg.Gemini.Model = envOrDefault("TRIPMATE_GEMINI_MODEL", "gemini-2.0-flash")
	cfg.Serp.APIKey = os.Getenv("SERP_API_KEY")
	cfg.Serp.BaseURL = envOrDefault("TRIPMATE_SERP_BASE_URL", "https://serpapi.com/search.json")
	cfg.Maps.APIKey = os.Getenv("GOOGLE_MAPS_API_KEY")
	cfg.Redis.Addr = os.Getenv("TRIPMATE_REDIS_ADDR")
	cfg.Cache.TTL = envOrDefaultDuration("TRIPMATE_CACHE_TTL", 15*time.Minute)
	cfg.Search.ProviderTimeout = envOrDefaultDuration("TRIPMATE_PROVIDER_TIMEOUT", 10*time.Second)
	cfg.Search.OverallDeadline = envOrDefaultDuration("TRIPMATE_SEARCH_DEADLINE", 25*time.Second)
	cfg.Search.MaxRetries = envOrDefaultInt("TRIPMATE_PROVIDER_RETRIES", 1)
	cfg.Search.MaxPerCategory = envOrDefaultInt("TRIPMATE_MAX_PER_CATEGORY", 5)
	cfg.Persona = envOrDefault("TRIPMATE_PERSONA", "sassy")
	cfg.Log.Level = envOrDefault("TRIPMATE_LOG_LEVEL", "info")

	if missing := missingKeys(cfg); len(missing) > 0 {
		return cfg, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	return cfg, nil
}

func missingKeys(cfg Config) []string {
	var missing []string
	if cfg.Gemini.APIKey == "" {
		missing = append(missing, "GEMINI_API_KEY")
	}
	if cfg.Serp.APIKey == "" {
		missing = append(missing, "SERP_API_KEY")
	}
	return missing
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envOrDefaultInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envOrDefaultDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
