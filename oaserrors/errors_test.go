package oaserrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorMessages(t *testing.T) {
	cause := errors.New("underlying error")

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"parse all fields", &ParseError{Path: "/specs/v1.yaml", Line: 42, Column: 10, Message: "invalid syntax", Cause: cause},
			"parse error in /specs/v1.yaml at line 42, column 10: invalid syntax: underlying error"},
		{"parse empty", &ParseError{}, "parse error"},
		{"parse line only", &ParseError{Line: 10}, "parse error at line 10"},
		{"reference", &ReferenceError{Ref: "#/components/schemas/Pet", Document: "new", Message: "not found"},
			"reference error in new document: #/components/schemas/Pet: not found"},
		{"reference ref only", &ReferenceError{Ref: "#/definitions/Pet"}, "reference error: #/definitions/Pet"},
		{"extension message verbatim", &ExtensionError{Extension: "x-ms-paths", Message: "Invalid parameter location: body"},
			"Invalid parameter location: body"},
		{"extension document prefix", &ExtensionError{Extension: "x-ms-paths", Document: "old", Message: "bad path"},
			"old document: bad path"},
		{"extension default", &ExtensionError{Extension: "x-ms-paths"}, "extension error: x-ms-paths"},
		{"extension cause", &ExtensionError{Message: "bad path", Cause: cause}, "bad path: underlying error"},
		{"config all fields", &ConfigError{Option: "fail-on", Value: "fatal", Message: "must be one of none, info, warning, error"},
			"configuration error for fail-on (value: fatal): must be one of none, info, warning, error"},
		{"config empty", &ConfigError{}, "configuration error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestErrorsIs(t *testing.T) {
	sentinels := []error{ErrParse, ErrReference, ErrExtension, ErrConfig}

	tests := []struct {
		err  error
		want error
	}{
		{&ParseError{}, ErrParse},
		{&ReferenceError{}, ErrReference},
		{&ExtensionError{}, ErrExtension},
		{&ConfigError{}, ErrConfig},
	}

	for _, tt := range tests {
		t.Run(tt.want.Error(), func(t *testing.T) {
			wrapped := fmt.Errorf("compare: %w", tt.err)
			for _, s := range sentinels {
				assert.Equal(t, s == tt.want, errors.Is(wrapped, s), "errors.Is(%T, %v)", tt.err, s)
			}
		})
	}
}

func TestUnwrapAndAs(t *testing.T) {
	cause := errors.New("boom")

	err := fmt.Errorf("compare: %w", &ExtensionError{Extension: "x-ms-paths", Document: "new", Cause: cause})
	assert.ErrorIs(t, err, cause)

	var extErr *ExtensionError
	require.ErrorAs(t, err, &extErr)
	assert.Equal(t, "x-ms-paths", extErr.Extension)
	assert.Equal(t, "new", extErr.Document)

	var parseErr *ParseError
	require.ErrorAs(t, fmt.Errorf("load: %w", &ParseError{Path: "v1.yaml", Line: 5, Cause: cause}), &parseErr)
	assert.Equal(t, 5, parseErr.Line)
	assert.ErrorIs(t, parseErr, cause)

	assert.ErrorIs(t, &ConfigError{Cause: cause}, cause)
}

func TestSentinelsAreDistinct(t *testing.T) {
	sentinels := []error{ErrParse, ErrReference, ErrExtension, ErrConfig}
	for i, a := range sentinels {
		for j, b := range sentinels {
			if i != j {
				assert.NotErrorIs(t, a, b)
			}
		}
	}
}
