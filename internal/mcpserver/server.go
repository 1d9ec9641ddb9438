// Package mcpserver implements an MCP (Model Context Protocol) server that
// exposes the comparator as tools over stdio.
package mcpserver

import (
	"context"
	"log/slog"
	"regexp"
	"strconv"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	openapicomparator "github.com/criteo/openapi-comparator"
	"github.com/criteo/openapi-comparator/parser"
)

const serverInstructions = `openapi-comparator MCP server: detects breaking changes between two versions of an OpenAPI 3 document.

Tools:
- compare: compare an old and a new document given as file, url or inline content
- rules: list the rule catalog (ids, codes, kinds, base severities, documentation links)

Configuration: defaults come from OPENAPI_COMPARATOR_MCP_* environment variables set in your MCP client config.
- OPENAPI_COMPARATOR_MCP_CACHE_ENABLED (default: true)
- OPENAPI_COMPARATOR_MCP_CACHE_FILE_TTL (default: 15m)
- OPENAPI_COMPARATOR_MCP_CACHE_URL_TTL (default: 5m)
- OPENAPI_COMPARATOR_MCP_LIMIT (default: 100) messages per page
- OPENAPI_COMPARATOR_MCP_ALLOW_PRIVATE_IPS (default: false)`

// Options configures the server. The zero value is usable.
type Options struct {
	// Strict is the default of the compare tool's strict argument.
	Strict bool
	// Validate runs structural validation on every input.
	Validate  bool
	UserAgent string
	Timeout   time.Duration
	// Logger receives server and comparison logs. Nil uses slog.Default().
	Logger *slog.Logger
}

// tools binds the tool handlers to their options.
type tools struct {
	opts   Options
	logger *slog.Logger
}

func newTools(opts Options) *tools {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &tools{opts: opts, logger: logger}
}

func (t *tools) parseSettings() parseSettings {
	return parseSettings{
		Validate:  t.opts.Validate,
		UserAgent: t.opts.UserAgent,
		Timeout:   t.opts.Timeout,
		Logger:    parser.NewSlogAdapter(t.logger),
	}
}

// Run starts the MCP server over stdio and blocks until the client disconnects
// or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	if cfg.CacheEnabled {
		specCache.startSweeper(ctx, cfg.CacheSweepInterval)
	}
	return newServer(opts).Run(ctx, &mcp.StdioTransport{})
}

func newServer(opts Options) *mcp.Server {
	server := mcp.NewServer(
		&mcp.Implementation{Name: "openapi-comparator", Version: openapicomparator.Version()},
		&mcp.ServerOptions{Instructions: serverInstructions},
	)
	registerAllTools(server, newTools(opts))
	return server
}

func registerAllTools(server *mcp.Server, t *tools) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "compare",
		Description: "Compare an old and a new version of an OpenAPI 3 document and report breaking changes. Each message has a rule id and code, a severity (info, warning, error), a kind (Addition, Update, Removal, Specification), JSON pointers into both documents and a documentation link. Use strict=true to report breaking changes as errors. Use min_severity to drop lower severities and offset/limit to page through large results.",
	}, t.handleCompare)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "rules",
		Description: "List the comparison rules. Filter by code (exact) or kind (Addition, Update, Removal, Specification).",
	}, t.handleRules)
}

// paginate applies offset/limit pagination to a slice, returning the
// requested page. A non-positive limit defaults to cfg.DefaultLimit.
func paginate[T any](items []T, offset, limit int) []T {
	if limit <= 0 {
		limit = cfg.DefaultLimit
	}
	if limit > cfg.MaxLimit {
		limit = cfg.MaxLimit
	}
	if offset < 0 || offset >= len(items) {
		return nil
	}
	end := offset + limit
	if end < offset || end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

// pathPattern matches absolute filesystem paths, which must not leak to
// MCP clients through error messages.
var pathPattern = regexp.MustCompile(`(?:/(?:home|tmp|var|Users|etc|opt|usr|private|root|mnt|srv|run|snap|nix)[a-zA-Z0-9._/-]*)`)

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return pathPattern.ReplaceAllString(err.Error(), "<path>")
}

// errResult creates an MCP error result from an error.
func errResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: sanitizeError(err)}},
	}
}

func formatCount(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return strconv.Itoa(n) + " " + noun + "s"
}
