package mcpserver

import (
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// envPrefix prefixes the MCP tunables. They are set in the MCP client's
// server definition since the stdio server takes no flags.
const envPrefix = "OPENAPI_COMPARATOR_MCP_"

type serverConfig struct {
	CacheEnabled       bool
	CacheMaxSize       int
	CacheFileTTL       time.Duration
	CacheURLTTL        time.Duration
	CacheContentTTL    time.Duration
	CacheSweepInterval time.Duration

	// paging of compare findings
	DefaultLimit int
	MaxLimit     int

	MaxInlineSize   int64
	AllowPrivateIPs bool
}

var cfg = loadConfig()

// envSource exposes OPENAPI_COMPARATOR_MCP_CACHE_FILE_TTL as "cache-file-ttl".
type envSource struct {
	k *koanf.Koanf
}

func newEnvSource() envSource {
	k := koanf.New(".")
	_ = k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "_", "-")
	}), nil)
	return envSource{k: k}
}

// loadConfig reads the environment. Invalid values log a warning and keep
// the default.
func loadConfig() *serverConfig {
	src := newEnvSource()
	return &serverConfig{
		CacheEnabled:       lookup(src, "cache-enabled", true, strconv.ParseBool),
		CacheMaxSize:       lookup(src, "cache-max-size", 10, positive(strconv.Atoi)),
		CacheFileTTL:       lookup(src, "cache-file-ttl", 15*time.Minute, positive(time.ParseDuration)),
		CacheURLTTL:        lookup(src, "cache-url-ttl", 5*time.Minute, positive(time.ParseDuration)),
		CacheContentTTL:    lookup(src, "cache-content-ttl", 15*time.Minute, positive(time.ParseDuration)),
		CacheSweepInterval: lookup(src, "cache-sweep-interval", time.Minute, positive(time.ParseDuration)),
		DefaultLimit:       lookup(src, "limit", 100, positive(strconv.Atoi)),
		MaxLimit:           lookup(src, "max-limit", 1000, positive(strconv.Atoi)),
		MaxInlineSize:      lookup(src, "max-inline-size", int64(10*1024*1024), positive(parseInt64)),
		AllowPrivateIPs:    lookup(src, "allow-private-ips", false, strconv.ParseBool),
	}
}

func lookup[T any](src envSource, key string, fallback T, parse func(string) (T, error)) T {
	raw := src.k.String(key)
	if raw == "" {
		return fallback
	}
	v, err := parse(raw)
	if err != nil {
		slog.Warn("invalid env var, using default",
			"key", envPrefix+strings.ToUpper(strings.ReplaceAll(key, "-", "_")),
			"value", raw, "default", fallback, "error", err)
		return fallback
	}
	return v
}

type number interface {
	~int | ~int64
}

// positive rejects zero and negative values.
func positive[T number](parse func(string) (T, error)) func(string) (T, error) {
	return func(s string) (T, error) {
		v, err := parse(s)
		if err == nil && v <= 0 {
			err = strconv.ErrRange
		}
		return v, err
	}
}

func parseInt64(s string) (int64, error) { return strconv.ParseInt(s, 10, 64) }
