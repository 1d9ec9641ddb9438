package parser

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.yaml.in/yaml/v4"

	openapicomparator "github.com/criteo/openapi-comparator"
	"github.com/criteo/openapi-comparator/oaserrors"
)

// Parser loads OpenAPI documents.
type Parser struct {
	// ValidateStructure runs structural validation after decoding and
	// reports problems as Diagnostics. Default: false
	ValidateStructure bool
	// UserAgent is the User-Agent string used when fetching URLs
	UserAgent string
	// HTTPClient is the HTTP client used for fetching URLs.
	// If nil, a client with Timeout is created.
	HTTPClient *http.Client
	// Timeout bounds URL fetches when HTTPClient is nil. Default: 30s
	Timeout time.Duration
	// Logger is the structured logger for debug output
	// If nil, logging is disabled (default)
	Logger Logger
}

const defaultTimeout = 30 * time.Second

// New creates a new Parser instance with default settings
func New() *Parser {
	return &Parser{
		UserAgent: openapicomparator.UserAgent(),
		Timeout:   defaultTimeout,
	}
}

// log returns the configured logger, or a no-op logger if none is set.
func (p *Parser) log() Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return NopLogger{}
}

// SourceFormat represents the format of the source OpenAPI specification file
type SourceFormat string

const (
	// SourceFormatYAML indicates the source was in YAML format
	SourceFormatYAML SourceFormat = "yaml"
	// SourceFormatJSON indicates the source was in JSON format
	SourceFormatJSON SourceFormat = "json"
	// SourceFormatUnknown indicates the source format could not be determined
	SourceFormatUnknown SourceFormat = "unknown"
)

// ParseResult contains a parsed document and load metadata.
//
// Callers should treat the result as read-only: the comparator keys its
// memoisation on schema identity inside Document.
type ParseResult struct {
	// SourcePath is the file path or URL the document was read from.
	// Sources without a path are named ParseBytes.yaml, ParseReader.json...
	SourcePath   string
	SourceFormat SourceFormat
	// Version is the declared "openapi" (or "swagger") version string
	Version  string
	Document *Document
	// Diagnostics lists non-fatal decode and validation problems
	Diagnostics []Diagnostic
	// Warnings contains informational notes about the load
	Warnings []string
	// Converted is true when the source was a Swagger 2.0 document,
	// converted to OpenAPI 3 before decoding
	Converted  bool
	LoadTime   time.Duration
	SourceSize int64
}

// HasDiagnostics reports whether decoding or validation found problems.
func (pr *ParseResult) HasDiagnostics() bool {
	return pr != nil && len(pr.Diagnostics) > 0
}

// Parse parses an OpenAPI specification file or URL
// For URLs (http:// or https://), the content is fetched and parsed
// For local files, the file is read and parsed
func (p *Parser) Parse(specPath string) (*ParseResult, error) {
	loadStart := time.Now()
	data, format, err := p.readSource(specPath)
	if err != nil {
		msg := "failed to read file"
		if isURL(specPath) {
			msg = "failed to fetch document"
		}
		return nil, &oaserrors.ParseError{Path: specPath, Message: msg, Cause: err}
	}
	loadTime := time.Since(loadStart)

	res, err := p.parseBytes(data, specPath)
	if err != nil {
		return nil, err
	}
	res.LoadTime = loadTime
	if format != SourceFormatUnknown {
		res.SourceFormat = format
	}
	return res, nil
}

// ParseReader parses an OpenAPI specification from an io.Reader
// Note: since there is no actual ParseResult.SourcePath, it will be set to: ParseReader.yaml or ParseReader.json
func (p *Parser) ParseReader(r io.Reader) (*ParseResult, error) {
	loadStart := time.Now()
	data, err := io.ReadAll(r)
	loadTime := time.Since(loadStart)
	if err != nil {
		return nil, &oaserrors.ParseError{Path: "ParseReader", Message: "failed to read data", Cause: err}
	}
	res, err := p.parseBytes(data, sourceName("ParseReader", data))
	if err != nil {
		return nil, err
	}
	res.LoadTime = loadTime
	return res, nil
}

// ParseBytes parses an OpenAPI specification from a byte slice
// Note: since there is no actual ParseResult.SourcePath, it will be set to: ParseBytes.yaml or ParseBytes.json
func (p *Parser) ParseBytes(data []byte) (*ParseResult, error) {
	return p.parseBytes(data, sourceName("ParseBytes", data))
}

func sourceName(method string, data []byte) string {
	if sniffFormat(data) == SourceFormatJSON {
		return method + ".json"
	}
	return method + ".yaml"
}

func (p *Parser) parseBytes(data []byte, sourcePath string) (*ParseResult, error) {
	result := &ParseResult{
		SourcePath:   sourcePath,
		SourceFormat: sniffFormat(data),
		SourceSize:   int64(len(data)),
	}
	logger := p.log().With("source", sourcePath)
	logger.Debug("parsing document", "bytes", result.SourceSize)

	if len(bytes.TrimSpace(data)) == 0 {
		return nil, &oaserrors.ParseError{Path: sourcePath, Message: "document is empty"}
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, &oaserrors.ParseError{Path: sourcePath, Message: "failed to parse YAML/JSON", Cause: err}
	}
	top := contentNode(&root)
	if top == nil || top.Kind != yaml.MappingNode {
		perr := &oaserrors.ParseError{Path: sourcePath, Message: "document root must be an object"}
		if top != nil {
			perr.Line, perr.Column = top.Line, top.Column
		}
		return nil, perr
	}

	version, swagger, err := detectVersion(top)
	if err != nil {
		return nil, &oaserrors.ParseError{Path: sourcePath, Message: err.Error()}
	}
	result.Version = version

	if swagger {
		converted, cerr := convertSwagger2(top)
		if cerr != nil {
			return nil, &oaserrors.ParseError{Path: sourcePath, Message: "failed to convert Swagger 2.0 document", Cause: cerr}
		}
		data, top = converted.data, converted.root
		result.Converted = true
		result.Warnings = append(result.Warnings,
			"Swagger 2.0 document converted to OpenAPI 3; locations refer to the converted document")
		logger.Debug("converted swagger document", "version", version)
	}

	doc, diags := decodeDocument(top)
	result.Document = doc
	result.Diagnostics = diags
	if doc.CustomPathsErr != nil {
		logger.Debug("x-ms-paths extension could not be decoded", "error", doc.CustomPathsErr)
	}

	if p.ValidateStructure {
		result.Diagnostics = append(result.Diagnostics, validateStructure(data)...)
	}

	logger.Debug("parsed document",
		"version", version,
		"schemas", doc.SchemaCount(),
		"diagnostics", len(result.Diagnostics))
	return result, nil
}

// detectVersion reads the root "openapi" or "swagger" field. Only Swagger 2.x
// and OpenAPI 3.x are accepted.
func detectVersion(root *yaml.Node) (string, bool, error) {
	if n := lookup(root, "openapi"); n != nil && n.Kind == yaml.ScalarNode {
		v, err := parseVersion(n.Value)
		if err != nil || v.major != 3 {
			return "", false, fmt.Errorf("unsupported OpenAPI version %q: only 3.x is supported", n.Value)
		}
		return n.Value, false, nil
	}
	if n := lookup(root, "swagger"); n != nil && n.Kind == yaml.ScalarNode {
		v, err := parseVersion(n.Value)
		if err != nil || v.major != 2 {
			return "", false, fmt.Errorf("unsupported Swagger version %q", n.Value)
		}
		return n.Value, true, nil
	}
	return "", false, fmt.Errorf("unable to detect OpenAPI version: document must contain 'openapi: \"3.x.x\"' or 'swagger: \"2.0\"' at the root level")
}
