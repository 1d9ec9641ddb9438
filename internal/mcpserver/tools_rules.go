package mcpserver

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/criteo/openapi-comparator/comparator"
)

type rulesInput struct {
	Code string `json:"code,omitempty" jsonschema:"Return only the rule with this code"`
	Kind string `json:"kind,omitempty" jsonschema:"Return only rules of this kind: Addition, Update, Removal or Specification"`
}

type ruleSummary struct {
	ID       int    `json:"id"`
	Code     string `json:"code"`
	Kind     string `json:"kind"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
	DocURL   string `json:"doc_url"`
}

type rulesOutput struct {
	Count int           `json:"count"`
	Rules []ruleSummary `json:"rules,omitempty"`
}

func (t *tools) handleRules(_ context.Context, _ *mcp.CallToolRequest, input rulesInput) (*mcp.CallToolResult, rulesOutput, error) {
	var output rulesOutput
	for _, r := range comparator.Rules() {
		if input.Code != "" && r.Code != input.Code {
			continue
		}
		if input.Kind != "" && !strings.EqualFold(r.Kind.String(), input.Kind) {
			continue
		}
		output.Rules = append(output.Rules, ruleSummary{
			ID:       r.ID,
			Code:     r.Code,
			Kind:     r.Kind.String(),
			Severity: r.Severity.String(),
			Message:  r.Template,
			DocURL:   r.DocURL(),
		})
	}
	output.Count = len(output.Rules)
	if input.Code != "" && output.Count == 0 {
		return errResult(fmt.Errorf("unknown rule code %q", input.Code)), rulesOutput{}, nil
	}
	return nil, output, nil
}
