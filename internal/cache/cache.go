// README: Provider response caching. Keys are derived from the provider name
// and its request parameters so identical searches within the TTL reuse the
// stored payload.
package cache

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"sort"
	"strings"
	"time"
)

// Store is the minimal cache contract the dispatcher needs. Implementations
// must be safe for concurrent use.
type Store interface {
	// Get returns the cached value and whether it was present and fresh.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores value under key for ttl.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// refreshKeywords are phrasings that mean "skip the cache and fetch live".
var refreshKeywords = []string{
	"search again",
	"check again",
	"refresh",
	"update",
	"new search",
	"latest",
	"fresh",
}

// ForceRefresh reports whether the request text asks for live data.
func ForceRefresh(rawText string) bool {
	text := strings.ToLower(rawText)
	for _, kw := range refreshKeywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// Key builds a deterministic cache key from a provider name and its request
// parameters. Parameter order does not matter.
func Key(provider string, params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for i, k := range keys {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(k)
		sb.WriteByte('=')
		sb.WriteString(params[k])
	}

	sum := md5.Sum([]byte(sb.String()))
	return "tripmate:" + provider + ":" + hex.EncodeToString(sum[:])
}
