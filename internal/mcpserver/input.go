package mcpserver

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/criteo/openapi-comparator/internal/options"
	"github.com/criteo/openapi-comparator/parser"
)

// specInput is one side of a comparison as sent by the MCP client. Exactly
// one field is set.
type specInput struct {
	File    string `json:"file,omitempty"    jsonschema:"Path to an OpenAPI document on disk"`
	URL     string `json:"url,omitempty"     jsonschema:"URL to fetch an OpenAPI document from"`
	Content string `json:"content,omitempty" jsonschema:"Inline OpenAPI document content (JSON or YAML)"`
}

const inputSourceMsg = "exactly one of file, url, or content must be provided"

// parseSettings are the parser options shared by every input of a server.
type parseSettings struct {
	Validate  bool
	UserAgent string
	Timeout   time.Duration
	Logger    parser.Logger
}

type cacheEntry struct {
	result    *parser.ParseResult
	lastUsed  time.Time
	expiresAt time.Time
}

func (e *cacheEntry) expired(now time.Time) bool { return now.After(e.expiresAt) }

// specCacheStore keeps parsed documents between tool calls. Entries expire
// after a per-source TTL; at capacity the least recently used one goes.
type specCacheStore struct {
	mu             sync.Mutex
	entries        map[string]*cacheEntry
	maxSize        int
	sweeperStarted atomic.Bool
}

var specCache = &specCacheStore{
	entries: make(map[string]*cacheEntry),
	maxSize: cfg.CacheMaxSize,
}

func (c *specCacheStore) get(key string) *parser.ParseResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	e, ok := c.entries[key]
	switch {
	case !ok:
		return nil
	case e.expired(now):
		delete(c.entries, key)
		return nil
	}
	e.lastUsed = now
	return e.result
}

func (c *specCacheStore) put(key string, result *parser.ParseResult, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, replacing := c.entries[key]; !replacing && len(c.entries) >= c.maxSize {
		c.evictLocked()
	}
	now := time.Now()
	c.entries[key] = &cacheEntry{result: result, lastUsed: now, expiresAt: now.Add(ttl)}
}

// evictLocked drops the least recently used entry. c.mu must be held.
func (c *specCacheStore) evictLocked() {
	var victim string
	var oldest time.Time
	for k, e := range c.entries {
		if victim == "" || e.lastUsed.Before(oldest) {
			victim, oldest = k, e.lastUsed
		}
	}
	delete(c.entries, victim)
}

func (c *specCacheStore) sweep() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for k, e := range c.entries {
		if e.expired(now) {
			delete(c.entries, k)
		}
	}
}

// startSweeper sweeps every interval until ctx is done. Only one sweeper
// runs at a time.
func (c *specCacheStore) startSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 || !c.sweeperStarted.CompareAndSwap(false, true) {
		return
	}
	go func() {
		defer c.sweeperStarted.Store(false)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.sweep()
			}
		}
	}()
}

func (c *specCacheStore) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*cacheEntry)
}

func (c *specCacheStore) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// cacheKey returns "" when s cannot be cached. Files are keyed by absolute
// path and modification time so an edited file is parsed again; inline
// content by its SHA-256.
func (s specInput) cacheKey(validate bool) string {
	var key string
	switch {
	case s.File != "":
		abs, err := filepath.Abs(s.File)
		if err != nil {
			return ""
		}
		info, err := os.Stat(abs)
		if err != nil {
			return ""
		}
		key = fmt.Sprintf("file:%s:%d", abs, info.ModTime().UnixNano())
	case s.Content != "":
		sum := sha256.Sum256([]byte(s.Content))
		key = "content:" + hex.EncodeToString(sum[:])
	case s.URL != "":
		key = "url:" + s.URL
	default:
		return ""
	}
	if validate {
		key += ":validated"
	}
	return key
}

func (s specInput) ttl() time.Duration {
	switch {
	case s.File != "":
		return cfg.CacheFileTTL
	case s.URL != "":
		return cfg.CacheURLTTL
	}
	return cfg.CacheContentTTL
}

func (s specInput) parseOptions(settings parseSettings) []parser.Option {
	opts := []parser.Option{parser.WithValidateStructure(settings.Validate)}
	switch {
	case s.File != "":
		opts = append(opts, parser.WithFilePath(s.File))
	case s.URL != "":
		opts = append(opts, parser.WithFilePath(s.URL))
		if !cfg.AllowPrivateIPs {
			opts = append(opts, parser.WithHTTPClient(newSafeHTTPClient(settings.Timeout)))
		}
	default:
		opts = append(opts, parser.WithBytes([]byte(s.Content)), parser.WithSourceName("inline"))
	}
	if settings.UserAgent != "" {
		opts = append(opts, parser.WithUserAgent(settings.UserAgent))
	}
	if settings.Timeout > 0 {
		opts = append(opts, parser.WithTimeout(settings.Timeout))
	}
	if settings.Logger != nil {
		opts = append(opts, parser.WithLogger(settings.Logger))
	}
	return opts
}

// resolve parses the document s points at, through the cache when enabled.
func (s specInput) resolve(settings parseSettings) (*parser.ParseResult, error) {
	if err := options.ValidateSingleInputSource(inputSourceMsg, inputSourceMsg,
		s.File != "", s.URL != "", s.Content != ""); err != nil {
		return nil, err
	}
	if int64(len(s.Content)) > cfg.MaxInlineSize {
		return nil, fmt.Errorf("inline content size %d bytes exceeds maximum %d bytes; use file input instead, or set %sMAX_INLINE_SIZE",
			len(s.Content), cfg.MaxInlineSize, envPrefix)
	}

	var key string
	if cfg.CacheEnabled {
		key = s.cacheKey(settings.Validate)
	}
	if key != "" {
		if cached := specCache.get(key); cached != nil {
			return cached, nil
		}
	}

	result, err := parser.ParseWithOptions(s.parseOptions(settings)...)
	if err != nil {
		return nil, err
	}
	if key != "" {
		specCache.put(key, result, s.ttl())
	}
	return result, nil
}
