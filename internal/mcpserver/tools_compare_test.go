package mcpserver

import (
	"context"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/criteo/openapi-comparator/internal/testutil"
)

func petstoreInputs(t *testing.T) (specInput, specInput) {
	return specInput{File: testutil.FixturePath(t, "petstore-v1.yaml")},
		specInput{File: testutil.FixturePath(t, "petstore-v2.yaml")}
}

func TestCompareTool_Petstore(t *testing.T) {
	specCache.reset()
	old, new := petstoreInputs(t)
	strict := true

	result, output, err := newTools(Options{}).handleCompare(context.Background(), &mcp.CallToolRequest{},
		compareInput{Old: old, New: new, Strict: &strict})
	require.NoError(t, err)
	require.Nil(t, result)

	assert.Equal(t, "error", output.Level)
	assert.Equal(t, 11, output.TotalMessages)
	assert.Equal(t, 11, output.Returned)
	assert.Equal(t, 9, output.ErrorCount)
	assert.Equal(t, "MajorVersionChange", output.Messages[0].Code)
	assert.Contains(t, output.Summary, "Breaking changes detected")

	for _, m := range output.Messages {
		assert.NotEmpty(t, m.Code)
		assert.NotEmpty(t, m.DocURL)
		assert.NotEmpty(t, m.Kind)
	}
}

func TestCompareTool_StrictDefaultFromOptions(t *testing.T) {
	specCache.reset()
	old, new := petstoreInputs(t)

	_, lenient, err := newTools(Options{}).handleCompare(context.Background(), &mcp.CallToolRequest{},
		compareInput{Old: old, New: new})
	require.NoError(t, err)
	assert.Equal(t, "warning", lenient.Level)

	_, strict, err := newTools(Options{Strict: true}).handleCompare(context.Background(), &mcp.CallToolRequest{},
		compareInput{Old: old, New: new})
	require.NoError(t, err)
	assert.Equal(t, "error", strict.Level)
}

func TestCompareTool_FilterAndPage(t *testing.T) {
	specCache.reset()
	old, new := petstoreInputs(t)
	strict := true

	_, output, err := newTools(Options{}).handleCompare(context.Background(), &mcp.CallToolRequest{},
		compareInput{Old: old, New: new, Strict: &strict, MinSeverity: "error", Offset: 1, Limit: 3})
	require.NoError(t, err)

	assert.Equal(t, 9, output.TotalMessages)
	assert.Equal(t, 3, output.Returned)
	require.Len(t, output.Messages, 3)
	for _, m := range output.Messages {
		assert.Equal(t, "error", m.Severity)
	}
	assert.Equal(t, "ServerNoLongerSupported", output.Messages[0].Code)
}

func TestCompareTool_NoChanges(t *testing.T) {
	specCache.reset()
	doc := specInput{Content: testutil.MinimalDocument}

	_, output, err := newTools(Options{}).handleCompare(context.Background(), &mcp.CallToolRequest{},
		compareInput{Old: doc, New: doc})
	require.NoError(t, err)
	assert.Equal(t, "none", output.Level)
	assert.Equal(t, "No changes detected.", output.Summary)
	assert.Empty(t, output.Messages)
}

func TestCompareTool_Errors(t *testing.T) {
	doc := specInput{Content: testutil.MinimalDocument}
	tests := []struct {
		name  string
		input compareInput
		want  string
	}{
		{"missing old", compareInput{New: doc}, "old document"},
		{"bad severity", compareInput{Old: doc, New: doc, MinSeverity: "fatal"}, "invalid min_severity"},
		{"malformed x-ms-paths", compareInput{
			Old: specInput{File: testutil.FixturePath(t, "xms-paths-invalid.yaml")},
			New: specInput{Content: testutil.MinimalDocument + "x-ms-paths: {}\n"},
		}, "Invalid parameter location: body"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			specCache.reset()
			result, _, err := newTools(Options{}).handleCompare(context.Background(), &mcp.CallToolRequest{}, tt.input)
			require.NoError(t, err)
			require.NotNil(t, result)
			assert.True(t, result.IsError)
			text := result.Content[0].(*mcp.TextContent).Text
			assert.Contains(t, text, tt.want)
		})
	}
}

func TestBuildCompareSummary(t *testing.T) {
	assert.Equal(t, "1 change", formatCount(1, "change"))
	assert.Equal(t, "3 changes", formatCount(3, "change"))
}
