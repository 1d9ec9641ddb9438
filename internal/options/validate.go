// Package options holds validation helpers shared by the functional-option
// APIs of the parser and comparator packages.
package options

import (
	"slices"
	"strings"

	"github.com/criteo/openapi-comparator/oaserrors"
)

// ValidateSingleInputSource ensures exactly one of sources is set. The
// messages are used as-is for the zero and many cases.
func ValidateSingleInputSource(noSourceMsg, multiSourceMsg string, sources ...bool) error {
	count := 0
	for _, set := range sources {
		if set {
			count++
		}
	}
	switch {
	case count == 0:
		return &oaserrors.ConfigError{Message: noSourceMsg}
	case count > 1:
		return &oaserrors.ConfigError{Message: multiSourceMsg}
	}
	return nil
}

// ValidateOneOf checks that value is one of allowed.
func ValidateOneOf(option, value string, allowed ...string) error {
	if slices.Contains(allowed, value) {
		return nil
	}
	return &oaserrors.ConfigError{
		Option:  option,
		Value:   value,
		Message: "must be one of " + strings.Join(allowed, ", "),
	}
}
