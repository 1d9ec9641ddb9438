package comparator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/criteo/openapi-comparator/parser"
)

func lit(l parser.Literal) *parser.Literal { return &l }

func TestLiteralsDiffer(t *testing.T) {
	day := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		old, new *parser.Literal
		want     bool
	}{
		{"both absent", nil, nil, false},
		{"one absent", nil, lit(parser.StringLiteral("a")), true},
		{"equal strings", lit(parser.StringLiteral("a")), lit(parser.StringLiteral("a")), false},
		{"different strings", lit(parser.StringLiteral("a")), lit(parser.StringLiteral("b")), true},
		{"integer and string", lit(parser.IntegerLiteral(1)), lit(parser.StringLiteral("1")), true},
		{"equal floats", lit(parser.FloatLiteral(1.5)), lit(parser.FloatLiteral(1.5)), false},
		{"different floats", lit(parser.FloatLiteral(1.5)), lit(parser.FloatLiteral(2.5)), true},
		{"equal dates", lit(parser.DateLiteral(day)), lit(parser.DateLiteral(day)), false},
		{"nulls", lit(parser.NullLiteral()), lit(parser.NullLiteral()), false},
		{"booleans", lit(parser.BooleanLiteral(true)), lit(parser.BooleanLiteral(false)), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, literalsDiffer(tt.old, tt.new))
		})
	}
}

func TestMissingFrom(t *testing.T) {
	a := []parser.Literal{parser.StringLiteral("a"), parser.StringLiteral("b"), parser.StringLiteral("c")}
	b := []parser.Literal{parser.StringLiteral("b")}

	missing := missingFrom(a, b)
	assert.Equal(t, "a, c", joinLiterals(missing))
	assert.Empty(t, missingFrom(b, a))
}

func TestDiffers(t *testing.T) {
	one, two := 1, 2
	assert.False(t, differs[int](nil, nil))
	assert.True(t, differs(&one, nil))
	assert.True(t, differs(&one, &two))
	assert.False(t, differs(&one, &one))
}

func TestExtensionFlag(t *testing.T) {
	ext := map[string]any{
		"x-ms-enum": map[string]any{"name": "Color", "modelAsString": true},
		"x-other":   "scalar",
	}
	assert.True(t, extensionFlag(ext, "x-ms-enum", "modelAsString"))
	assert.False(t, extensionFlag(ext, "x-ms-enum", "missing"))
	assert.False(t, extensionFlag(ext, "x-other", "modelAsString"))
	assert.False(t, extensionFlag(nil, "x-ms-enum", "modelAsString"))
}

func TestStringSetDiff(t *testing.T) {
	assert.Equal(t, []string{"a", "c"}, stringSetDiff([]string{"a", "b", "c", "a"}, []string{"b"}))
	assert.Nil(t, stringSetDiff([]string{"a"}, []string{"a"}))
}
