package parser

import (
	"fmt"
	"io"
	"net/http"
	"time"

	openapicomparator "github.com/criteo/openapi-comparator"
	"github.com/criteo/openapi-comparator/internal/options"
)

// Option configures ParseWithOptions.
type Option func(*parseConfig) error

type parseConfig struct {
	// exactly one source is set
	filePath *string
	reader   io.Reader
	bytes    []byte

	validateStructure bool
	userAgent         string
	httpClient        *http.Client
	timeout           time.Duration
	logger            Logger

	sourceName *string
}

// ParseWithOptions loads one document. Exactly one of WithFilePath,
// WithReader or WithBytes must be given:
//
//	result, err := parser.ParseWithOptions(
//	    parser.WithBytes(body),
//	    parser.WithSourceName("new"),
//	)
func ParseWithOptions(opts ...Option) (*ParseResult, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, fmt.Errorf("parser: invalid options: %w", err)
	}

	p := &Parser{
		ValidateStructure: cfg.validateStructure,
		UserAgent:         cfg.userAgent,
		HTTPClient:        cfg.httpClient,
		Timeout:           cfg.timeout,
		Logger:            cfg.logger,
	}

	var result *ParseResult
	switch {
	case cfg.filePath != nil:
		result, err = p.Parse(*cfg.filePath)
	case cfg.reader != nil:
		result, err = p.ParseReader(cfg.reader)
	default:
		result, err = p.ParseBytes(cfg.bytes)
	}
	if err != nil {
		return nil, err
	}

	if cfg.sourceName != nil {
		result.SourcePath = *cfg.sourceName
	}
	return result, nil
}

func applyOptions(opts ...Option) (*parseConfig, error) {
	cfg := &parseConfig{
		userAgent: openapicomparator.UserAgent(),
		timeout:   defaultTimeout,
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	if err := options.ValidateSingleInputSource(
		"parser: must specify an input source (use WithFilePath, WithReader, or WithBytes)",
		"parser: must specify exactly one input source",
		cfg.filePath != nil, cfg.reader != nil, cfg.bytes != nil,
	); err != nil {
		return nil, err
	}

	return cfg, nil
}

// WithFilePath reads the document from a file, or from an http(s) URL.
func WithFilePath(path string) Option {
	return func(cfg *parseConfig) error {
		cfg.filePath = &path
		return nil
	}
}

// WithReader reads the document from r.
func WithReader(r io.Reader) Option {
	return func(cfg *parseConfig) error {
		if r == nil {
			return fmt.Errorf("parser: reader cannot be nil")
		}
		cfg.reader = r
		return nil
	}
}

// WithBytes parses data directly.
func WithBytes(data []byte) Option {
	return func(cfg *parseConfig) error {
		if data == nil {
			return fmt.Errorf("parser: bytes cannot be nil")
		}
		cfg.bytes = data
		return nil
	}
}

// WithValidateStructure runs the kin-openapi validator on the loaded
// document and records its findings in ParseResult.Diagnostics. Off by
// default.
func WithValidateStructure(enabled bool) Option {
	return func(cfg *parseConfig) error {
		cfg.validateStructure = enabled
		return nil
	}
}

// WithUserAgent overrides the User-Agent sent when fetching URLs.
func WithUserAgent(ua string) Option {
	return func(cfg *parseConfig) error {
		cfg.userAgent = ua
		return nil
	}
}

// WithHTTPClient fetches URLs with client instead of a client built from
// WithTimeout. A nil client keeps the default.
func WithHTTPClient(client *http.Client) Option {
	return func(cfg *parseConfig) error {
		cfg.httpClient = client
		return nil
	}
}

// WithTimeout bounds URL fetches made with the default client.
// Default: 30s
func WithTimeout(d time.Duration) Option {
	return func(cfg *parseConfig) error {
		if d < 0 {
			return fmt.Errorf("parser: timeout cannot be negative")
		}
		cfg.timeout = d
		return nil
	}
}

// WithLogger receives fetch and conversion diagnostics. Nothing is logged
// by default.
func WithLogger(l Logger) Option {
	return func(cfg *parseConfig) error {
		cfg.logger = l
		return nil
	}
}

// WithSourceName replaces ParseResult.SourcePath, which otherwise reads
// "ParseBytes.yaml" or similar for in-memory input.
func WithSourceName(name string) Option {
	return func(cfg *parseConfig) error {
		if name == "" {
			return fmt.Errorf("parser: source name cannot be empty")
		}
		cfg.sourceName = &name
		return nil
	}
}
