package comparator

import (
	"fmt"
	"time"

	"github.com/criteo/openapi-comparator/internal/options"
	"github.com/criteo/openapi-comparator/internal/severity"
	"github.com/criteo/openapi-comparator/parser"
)

// Severity is the resolved severity of a finding
type Severity = severity.Severity

const (
	// SeverityInfo indicates an informational finding
	SeverityInfo = severity.SeverityInfo
	// SeverityWarning indicates a potentially problematic finding
	SeverityWarning = severity.SeverityWarning
	// SeverityError indicates a breaking finding
	SeverityError = severity.SeverityError
)

// ChangeLevel is the aggregate verdict of a comparison
type ChangeLevel = severity.ChangeLevel

const (
	// LevelNone means the documents are equivalent
	LevelNone = severity.LevelNone
	// LevelInfo means only informational findings were produced
	LevelInfo = severity.LevelInfo
	// LevelWarning means the most severe finding is a warning
	LevelWarning = severity.LevelWarning
	// LevelError means at least one finding is an error
	LevelError = severity.LevelError
)

// ParseChangeLevel parses "none", "info", "warning" or "error".
func ParseChangeLevel(s string) (ChangeLevel, error) {
	return severity.ParseChangeLevel(s)
}

// Result contains the findings of comparing two documents
type Result struct {
	// OldPath and NewPath name the compared sources, when known
	OldPath string `json:"OldPath,omitempty" yaml:"oldPath,omitempty"`
	NewPath string `json:"NewPath,omitempty" yaml:"newPath,omitempty"`
	// Messages lists the findings in traversal order. Diagnostics of the
	// inputs come first, as OpenApiError findings.
	Messages []Message `json:"Messages" yaml:"messages"`
	// Level is the most severe level among Messages
	Level        ChangeLevel `json:"Level" yaml:"level"`
	ErrorCount   int         `json:"ErrorCount" yaml:"errorCount"`
	WarningCount int         `json:"WarningCount" yaml:"warningCount"`
	InfoCount    int         `json:"InfoCount" yaml:"infoCount"`
}

// HasErrors reports whether any finding has error severity.
func (r *Result) HasErrors() bool {
	return r.ErrorCount > 0
}

func (r *Result) tally() {
	r.Level = LevelNone
	r.ErrorCount, r.WarningCount, r.InfoCount = 0, 0, 0
	for _, m := range r.Messages {
		switch m.Severity {
		case SeverityError:
			r.ErrorCount++
		case SeverityWarning:
			r.WarningCount++
		default:
			r.InfoCount++
		}
		r.Level = max(r.Level, severity.LevelOf(m.Severity))
	}
}

// Comparator compares OpenAPI documents
type Comparator struct {
	// Strict reports breaking changes as errors instead of warnings
	Strict bool
	// ReportUnchangedVersion emits NoVersionChange when info.version is equal
	ReportUnchangedVersion bool
	// ValidateStructure runs structural validation when loading documents;
	// problems are reported as OpenApiError findings
	ValidateStructure bool
	// UserAgent is the User-Agent string used when fetching URLs
	UserAgent string
	// Timeout bounds URL fetches. Zero uses the parser default.
	Timeout time.Duration
	// Logger receives debug output. If nil, logging is disabled.
	Logger parser.Logger
}

// New creates a new Comparator instance with default settings
func New() *Comparator {
	return &Comparator{}
}

func (c *Comparator) log() parser.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return parser.NopLogger{}
}

// Compare compares two parsed documents. The only error is a malformed
// x-ms-paths extension in a document pair that both carry it; no partial
// result is returned in that case.
func (c *Comparator) Compare(old, new *parser.Document) (*Result, error) {
	if old == nil || new == nil {
		return nil, fmt.Errorf("comparator: both documents are required")
	}
	start := time.Now()

	run := newComparison(old, new, c.Strict, c.log())
	run.reportUnchangedVersion = c.ReportUnchangedVersion
	if err := run.compareDocuments(); err != nil {
		return nil, err
	}

	result := &Result{Messages: run.messages}
	result.tally()
	c.log().Debug("comparison finished",
		"messages", len(result.Messages),
		"level", result.Level.String(),
		"strict", c.Strict,
		"elapsed", time.Since(start))
	return result, nil
}

// CompareParsed compares two parse results. Diagnostics of either input are
// prepended to the findings as OpenApiError messages.
func (c *Comparator) CompareParsed(old, new parser.ParseResult) (*Result, error) {
	result, err := c.Compare(old.Document, new.Document)
	if err != nil {
		return nil, err
	}

	var diags []Message
	for _, d := range old.Diagnostics {
		diags = append(diags, diagnosticMessage(d, true))
	}
	for _, d := range new.Diagnostics {
		diags = append(diags, diagnosticMessage(d, false))
	}
	if len(diags) > 0 {
		result.Messages = append(diags, result.Messages...)
		result.tally()
	}
	result.OldPath = old.SourcePath
	result.NewPath = new.SourcePath
	return result, nil
}

// CompareFiles loads two documents from files or URLs and compares them.
func (c *Comparator) CompareFiles(oldPath, newPath string) (*Result, error) {
	old, err := c.load(oldPath)
	if err != nil {
		return nil, fmt.Errorf("failed to parse old document: %w", err)
	}
	new, err := c.load(newPath)
	if err != nil {
		return nil, fmt.Errorf("failed to parse new document: %w", err)
	}
	return c.CompareParsed(*old, *new)
}

func (c *Comparator) load(path string) (*parser.ParseResult, error) {
	p := parser.New()
	p.ValidateStructure = c.ValidateStructure
	p.Logger = c.Logger
	if c.UserAgent != "" {
		p.UserAgent = c.UserAgent
	}
	if c.Timeout > 0 {
		p.Timeout = c.Timeout
	}
	return p.Parse(path)
}

// Option is a function that configures a comparison
type Option func(*compareConfig) error

// compareConfig holds configuration for a comparison
type compareConfig struct {
	// Input sources (exactly one old and one new must be set)
	oldFilePath *string
	oldParsed   *parser.ParseResult
	newFilePath *string
	newParsed   *parser.ParseResult

	strict                 bool
	reportUnchangedVersion bool
	validateStructure      bool
	userAgent              string
	timeout                time.Duration
	logger                 parser.Logger
}

// CompareWithOptions compares two documents using functional options.
//
// Example:
//
//	result, err := comparator.CompareWithOptions(
//	    comparator.WithOldFilePath("api-v1.yaml"),
//	    comparator.WithNewFilePath("api-v2.yaml"),
//	    comparator.WithStrict(true),
//	)
func CompareWithOptions(opts ...Option) (*Result, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, fmt.Errorf("comparator: invalid options: %w", err)
	}

	c := &Comparator{
		Strict:                 cfg.strict,
		ReportUnchangedVersion: cfg.reportUnchangedVersion,
		ValidateStructure:      cfg.validateStructure,
		UserAgent:              cfg.userAgent,
		Timeout:                cfg.timeout,
		Logger:                 cfg.logger,
	}

	var old, new parser.ParseResult
	if cfg.oldFilePath != nil {
		r, err := c.load(*cfg.oldFilePath)
		if err != nil {
			return nil, fmt.Errorf("failed to parse old document: %w", err)
		}
		old = *r
	} else {
		old = *cfg.oldParsed
	}
	if cfg.newFilePath != nil {
		r, err := c.load(*cfg.newFilePath)
		if err != nil {
			return nil, fmt.Errorf("failed to parse new document: %w", err)
		}
		new = *r
	} else {
		new = *cfg.newParsed
	}

	return c.CompareParsed(old, new)
}

// applyOptions applies option functions and validates configuration
func applyOptions(opts ...Option) (*compareConfig, error) {
	cfg := &compareConfig{}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	if err := options.ValidateSingleInputSource(
		"must specify an old document (use WithOldFilePath or WithOldParsed)",
		"must specify exactly one old document",
		cfg.oldFilePath != nil, cfg.oldParsed != nil,
	); err != nil {
		return nil, err
	}
	if err := options.ValidateSingleInputSource(
		"must specify a new document (use WithNewFilePath or WithNewParsed)",
		"must specify exactly one new document",
		cfg.newFilePath != nil, cfg.newParsed != nil,
	); err != nil {
		return nil, err
	}
	return cfg, nil
}

// WithOldFilePath specifies a file path or URL as the old document
func WithOldFilePath(path string) Option {
	return func(cfg *compareConfig) error {
		cfg.oldFilePath = &path
		return nil
	}
}

// WithOldParsed specifies a parsed ParseResult as the old document
func WithOldParsed(result parser.ParseResult) Option {
	return func(cfg *compareConfig) error {
		cfg.oldParsed = &result
		return nil
	}
}

// WithNewFilePath specifies a file path or URL as the new document
func WithNewFilePath(path string) Option {
	return func(cfg *compareConfig) error {
		cfg.newFilePath = &path
		return nil
	}
}

// WithNewParsed specifies a parsed ParseResult as the new document
func WithNewParsed(result parser.ParseResult) Option {
	return func(cfg *compareConfig) error {
		cfg.newParsed = &result
		return nil
	}
}

// WithStrict reports breaking changes as errors
// Default: false
func WithStrict(enabled bool) Option {
	return func(cfg *compareConfig) error {
		cfg.strict = enabled
		return nil
	}
}

// WithReportUnchangedVersion emits NoVersionChange for equal versions
// Default: false
func WithReportUnchangedVersion(enabled bool) Option {
	return func(cfg *compareConfig) error {
		cfg.reportUnchangedVersion = enabled
		return nil
	}
}

// WithValidateStructure enables structural validation of file inputs
// Default: false
func WithValidateStructure(enabled bool) Option {
	return func(cfg *compareConfig) error {
		cfg.validateStructure = enabled
		return nil
	}
}

// WithUserAgent sets the User-Agent string for HTTP requests
func WithUserAgent(ua string) Option {
	return func(cfg *compareConfig) error {
		cfg.userAgent = ua
		return nil
	}
}

// WithTimeout bounds URL fetches
func WithTimeout(d time.Duration) Option {
	return func(cfg *compareConfig) error {
		if d < 0 {
			return fmt.Errorf("timeout must not be negative, got %s", d)
		}
		cfg.timeout = d
		return nil
	}
}

// WithLogger sets the logger for debug output
func WithLogger(l parser.Logger) Option {
	return func(cfg *compareConfig) error {
		cfg.logger = l
		return nil
	}
}
