package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v4"
)

func TestLiteralFromNode(t *testing.T) {
	tests := []struct {
		src      string
		wantKind LiteralKind
		wantText string
	}{
		{"null", LiteralNull, "null"},
		{"~", LiteralNull, "null"},
		{"true", LiteralBoolean, "true"},
		{"42", LiteralInteger, "42"},
		{"1.50", LiteralFloat, "1.50"},
		{"99999999999999999999", LiteralFloat, "99999999999999999999"},
		{`"42"`, LiteralString, "42"},
		{"hello", LiteralString, "hello"},
		{"2024-01-02T03:04:05Z", LiteralDate, "2024-01-02T03:04:05Z"},
		{"[1, 2]", LiteralUnsupported, ""},
		{"{a: 1}", LiteralUnsupported, ""},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			var n yaml.Node
			require.NoError(t, yaml.Unmarshal([]byte(tt.src), &n))
			lit := literalFromNode(contentNode(&n))
			assert.Equal(t, tt.wantKind, lit.Kind(), lit.Kind().String())
			assert.Equal(t, tt.wantText, lit.String())
		})
	}
}

func TestLiteralConstructors(t *testing.T) {
	assert.Equal(t, int64(7), IntegerLiteral(7).IntegerValue())
	assert.Equal(t, "7", IntegerLiteral(7).String())
	assert.InDelta(t, 2.5, FloatLiteral(2.5).FloatValue(), 0)
	assert.True(t, BooleanLiteral(true).BooleanValue())
	assert.Equal(t, "x", StringLiteral("x").StringValue())
	assert.Equal(t, LiteralNull, NullLiteral().Kind())
	assert.Equal(t, "date", LiteralDate.String())
	assert.Equal(t, LiteralNull, literalFromNode(nil).Kind())
}
