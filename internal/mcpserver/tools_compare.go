package mcpserver

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/criteo/openapi-comparator/comparator"
	"github.com/criteo/openapi-comparator/parser"
)

type compareInput struct {
	Old         specInput `json:"old"                    jsonschema:"The old (base) OpenAPI document"`
	New         specInput `json:"new"                    jsonschema:"The new OpenAPI document to check against the old one"`
	Strict      *bool     `json:"strict,omitempty"       jsonschema:"Report breaking changes as errors instead of warnings"`
	MinSeverity string    `json:"min_severity,omitempty" jsonschema:"Only return messages at or above this severity: info, warning or error"`
	Offset      int       `json:"offset,omitempty"       jsonschema:"Number of messages to skip"`
	Limit       int       `json:"limit,omitempty"        jsonschema:"Maximum number of messages to return"`
}

type compareMessage struct {
	ID          int    `json:"id"`
	Code        string `json:"code"`
	Severity    string `json:"severity"`
	Kind        string `json:"kind"`
	Message     string `json:"message"`
	OldRef      string `json:"old_ref,omitempty"`
	OldLocation string `json:"old_location,omitempty"`
	NewRef      string `json:"new_ref,omitempty"`
	NewLocation string `json:"new_location,omitempty"`
	DocURL      string `json:"doc_url"`
}

type compareOutput struct {
	Level         string           `json:"level"`
	ErrorCount    int              `json:"error_count"`
	WarningCount  int              `json:"warning_count"`
	InfoCount     int              `json:"info_count"`
	TotalMessages int              `json:"total_messages"`
	Returned      int              `json:"returned"`
	Messages      []compareMessage `json:"messages,omitempty"`
	Summary       string           `json:"summary"`
}

func (t *tools) handleCompare(_ context.Context, _ *mcp.CallToolRequest, input compareInput) (*mcp.CallToolResult, compareOutput, error) {
	var minSeverity comparator.Severity
	if input.MinSeverity != "" {
		if err := minSeverity.UnmarshalText([]byte(input.MinSeverity)); err != nil {
			return errResult(fmt.Errorf("invalid min_severity: %w", err)), compareOutput{}, nil
		}
	}

	oldDoc, err := input.Old.resolve(t.parseSettings())
	if err != nil {
		return errResult(fmt.Errorf("old document: %w", err)), compareOutput{}, nil
	}
	newDoc, err := input.New.resolve(t.parseSettings())
	if err != nil {
		return errResult(fmt.Errorf("new document: %w", err)), compareOutput{}, nil
	}

	c := comparator.New()
	c.Strict = t.opts.Strict
	if input.Strict != nil {
		c.Strict = *input.Strict
	}
	c.Logger = parser.NewSlogAdapter(t.logger)

	result, err := c.CompareParsed(*oldDoc, *newDoc)
	if err != nil {
		return errResult(err), compareOutput{}, nil
	}

	var filtered []comparator.Message
	for _, m := range result.Messages {
		if m.Severity >= minSeverity {
			filtered = append(filtered, m)
		}
	}
	page := paginate(filtered, input.Offset, input.Limit)

	output := compareOutput{
		Level:         result.Level.String(),
		ErrorCount:    result.ErrorCount,
		WarningCount:  result.WarningCount,
		InfoCount:     result.InfoCount,
		TotalMessages: len(filtered),
		Returned:      len(page),
	}
	for _, m := range page {
		output.Messages = append(output.Messages, compareMessage{
			ID:          m.ID,
			Code:        m.Code,
			Severity:    m.Severity.String(),
			Kind:        m.Kind.String(),
			Message:     m.Message,
			OldRef:      m.Old.Ref,
			OldLocation: m.Old.Position,
			NewRef:      m.New.Ref,
			NewLocation: m.New.Position,
			DocURL:      m.DocURL,
		})
	}
	output.Summary = buildCompareSummary(result)

	t.logger.Debug("compare tool finished", "level", output.Level, "messages", len(result.Messages))
	return nil, output, nil
}

func buildCompareSummary(r *comparator.Result) string {
	if len(r.Messages) == 0 {
		return "No changes detected."
	}
	summary := formatCount(len(r.Messages), "change") + " found"
	switch {
	case r.ErrorCount > 0:
		return "Breaking changes detected. " + summary + " (" + formatCount(r.ErrorCount, "error") + ")."
	case r.WarningCount > 0:
		return summary + " (" + formatCount(r.WarningCount, "warning") + ")."
	default:
		return summary + "."
	}
}
