package severity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeverityString(t *testing.T) {
	tests := []struct {
		name     string
		severity Severity
		expected string
	}{
		{"error level", SeverityError, "error"},
		{"warning level", SeverityWarning, "warning"},
		{"info level", SeverityInfo, "info"},

		// Edge cases: Invalid severity values
		{"unknown negative", Severity(-1), "unknown"},
		{"unknown large value", Severity(999), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.severity.String()
			assert.Equal(t, tt.expected, result, "Severity(%d).String() = %q, want %q", tt.severity, result, tt.expected)
		})
	}
}

func TestRuleSeverityString(t *testing.T) {
	assert.Equal(t, "info", RuleInfo.String())
	assert.Equal(t, "warning", RuleWarning.String())
	assert.Equal(t, "breaking", RuleBreaking.String())
	assert.Equal(t, "error", RuleError.String())
	assert.Equal(t, "unknown", RuleSeverity(42).String())
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name   string
		base   RuleSeverity
		strict bool
		want   Severity
	}{
		{"info lenient", RuleInfo, false, SeverityInfo},
		{"info strict", RuleInfo, true, SeverityInfo},
		{"warning lenient", RuleWarning, false, SeverityWarning},
		{"warning strict", RuleWarning, true, SeverityWarning},
		{"breaking lenient", RuleBreaking, false, SeverityWarning},
		{"breaking strict", RuleBreaking, true, SeverityError},
		{"error lenient", RuleError, false, SeverityError},
		{"error strict", RuleError, true, SeverityError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Resolve(tt.base, tt.strict))
		})
	}
}

func TestSeverityTextRoundTrip(t *testing.T) {
	for _, s := range []Severity{SeverityInfo, SeverityWarning, SeverityError} {
		text, err := s.MarshalText()
		require.NoError(t, err)

		var got Severity
		require.NoError(t, got.UnmarshalText(text))
		assert.Equal(t, s, got)
	}

	var s Severity
	assert.Error(t, s.UnmarshalText([]byte("breaking")))
}

func TestChangeLevel(t *testing.T) {
	assert.Equal(t, LevelInfo, LevelOf(SeverityInfo))
	assert.Equal(t, LevelWarning, LevelOf(SeverityWarning))
	assert.Equal(t, LevelError, LevelOf(SeverityError))

	assert.True(t, LevelNone < LevelInfo && LevelInfo < LevelWarning && LevelWarning < LevelError)

	for _, name := range []string{"none", "info", "warning", "error"} {
		l, err := ParseChangeLevel(name)
		require.NoError(t, err)
		assert.Equal(t, name, l.String())
	}

	_, err := ParseChangeLevel("fatal")
	assert.Error(t, err)
}
