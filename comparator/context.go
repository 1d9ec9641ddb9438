package comparator

import (
	"github.com/criteo/openapi-comparator/internal/pathutil"
	"github.com/criteo/openapi-comparator/internal/severity"
	"github.com/criteo/openapi-comparator/oaserrors"
	"github.com/criteo/openapi-comparator/parser"
)

// direction is the set of data flows a value is compared in.
type direction uint8

const (
	dirNone     direction = 0
	dirRequest  direction = 1
	dirResponse direction = 2
	dirBoth               = dirRequest | dirResponse
)

func (d direction) String() string {
	switch d {
	case dirNone:
		return "none"
	case dirRequest:
		return "request"
	case dirResponse:
		return "response"
	default:
		return "both"
	}
}

// paramPair identifies a pair of referenced component parameters.
type paramPair struct{ old, new string }

// comparison is the state of a single Compare call. Every comparator
// receives it and nothing else is mutable.
type comparison struct {
	old, new *parser.Document
	strict   bool
	logger   parser.Logger

	// reportUnchangedVersion enables NoVersionChange.
	reportUnchangedVersion bool

	stack    []pathutil.ObjectPath
	dir      direction
	messages []Message

	// referenced holds the old-document component schemas reachable from
	// operations or components.
	referenced map[parser.SchemaID]bool
	// directions memoises the directions each new-side schema was compared in.
	directions map[parser.SchemaID]direction
	// visited holds the old-side referenced schemas already descended into.
	visited       map[parser.SchemaID]bool
	visitedParams map[paramPair]bool
}

func newComparison(old, new *parser.Document, strict bool, logger parser.Logger) *comparison {
	if logger == nil {
		logger = parser.NopLogger{}
	}
	return &comparison{
		old:           old,
		new:           new,
		strict:        strict,
		logger:        logger,
		stack:         []pathutil.ObjectPath{pathutil.Empty()},
		referenced:    make(map[parser.SchemaID]bool),
		directions:    make(map[parser.SchemaID]direction),
		visited:       make(map[parser.SchemaID]bool),
		visitedParams: make(map[paramPair]bool),
	}
}

func (c *comparison) path() pathutil.ObjectPath {
	return c.stack[len(c.stack)-1]
}

func (c *comparison) push(p pathutil.ObjectPath) {
	c.stack = append(c.stack, p)
}

func (c *comparison) pushProperty(name string) {
	c.push(c.path().AppendProperty(name))
}

func (c *comparison) pushParameter(name string) {
	c.push(c.path().AppendParameterByName(name))
}

func (c *comparison) pushServer(url string) {
	c.push(c.path().AppendServerByURL(url))
}

func (c *comparison) pushPathTemplate(normalized string) {
	c.push(c.path().AppendPathTemplate(normalized))
}

func (c *comparison) pop() {
	c.stack = c.stack[:len(c.stack)-1]
}

// withDirection sets the direction and returns a func restoring the
// previous one.
func (c *comparison) withDirection(d direction) func() {
	prev := c.dir
	c.dir = d
	return func() { c.dir = prev }
}

// log records a finding at the current path.
func (c *comparison) log(r *Rule, args ...any) {
	sev := severity.Resolve(r.Severity, c.strict)
	c.messages = append(c.messages, newMessage(r, sev, c.path(), c.old, c.new, args...))
}

// danglingRef records a $ref that does not resolve. The subtree is skipped
// without a finding.
func (c *comparison) danglingRef(side, ref string) {
	err := &oaserrors.ReferenceError{Ref: ref, Document: side, Message: "target not found"}
	c.logger.Debug("skipping dangling reference", "path", c.path().String(), "error", err)
}

// resolvedNew returns the new-side schema id points at after following $refs,
// or an empty schema when it cannot be resolved.
func (c *comparison) resolvedNew(id parser.SchemaID) *parser.Schema {
	if target, ok := c.new.ResolveSchema(id); ok {
		if s := c.new.Schema(target); s != nil {
			return s
		}
	}
	return &parser.Schema{}
}
