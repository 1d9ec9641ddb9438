// Package httputil provides HTTP verb constants and the small HTTP-related
// checks used while reading path items and responses.
package httputil

import (
	"mime"
	"strconv"
	"strings"
)

// HTTP Status Code Constants
const (
	StatusCodeLength = 3   // Standard length of HTTP status codes (e.g., "200", "404")
	MinStatusCode    = 100 // Minimum valid HTTP status code
	MaxStatusCode    = 599 // Maximum valid HTTP status code
	WildcardChar     = 'X' // Wildcard character used in status code patterns (e.g., "2XX")
)

// HTTP Method Constants, as written in a path item.
const (
	MethodGet     = "get"
	MethodPut     = "put"
	MethodPost    = "post"
	MethodDelete  = "delete"
	MethodOptions = "options"
	MethodHead    = "head"
	MethodPatch   = "patch"
	MethodTrace   = "trace"
)

// Methods lists the path item verbs in the order operations are compared
// and reported.
var Methods = []string{
	MethodGet,
	MethodPut,
	MethodPost,
	MethodDelete,
	MethodOptions,
	MethodHead,
	MethodPatch,
	MethodTrace,
}

// IsMethod reports whether key is a path item verb.
func IsMethod(key string) bool {
	for _, m := range Methods {
		if m == key {
			return true
		}
	}
	return false
}

// ValidateStatusCode checks if a responses key is valid.
// Valid values are:
//   - "default" for default response
//   - Extension fields starting with "x-"
//   - Wildcard patterns: 1XX, 2XX, 3XX, 4XX, 5XX
//   - Numeric codes: 100-599
func ValidateStatusCode(code string) bool {
	if code == "default" || strings.HasPrefix(code, "x-") {
		return true
	}
	if len(code) != StatusCodeLength {
		return false
	}
	if code[1] == WildcardChar && code[2] == WildcardChar {
		return code[0] >= '1' && code[0] <= '5'
	}
	for i := 0; i < StatusCodeLength; i++ {
		if code[i] < '0' || code[i] > '9' {
			return false
		}
	}
	status, err := strconv.Atoi(code)
	return err == nil && status >= MinStatusCode && status <= MaxStatusCode
}

// IsValidMediaType validates a media type string according to RFC 2045/2046.
// Wildcards are accepted as */* and type/*; a wildcard type with a concrete
// subtype (*/json) is not.
func IsValidMediaType(mediaType string) bool {
	mt, _, err := mime.ParseMediaType(mediaType)
	if err != nil {
		return false
	}
	typ, sub, ok := strings.Cut(mt, "/")
	if !ok || typ == "" || sub == "" {
		return false
	}
	return typ != "*" || sub == "*"
}
