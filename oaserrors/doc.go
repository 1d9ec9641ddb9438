// Package oaserrors provides structured error types for openapi-comparator.
//
// Import path: github.com/criteo/openapi-comparator/oaserrors
//
// This package enables programmatic error handling via [errors.Is] and [errors.As],
// allowing callers to tell apart "the documents could not be processed" from
// "the documents are merely different". Differences are never errors: they are
// reported as findings.
//
// # Error Types
//
//   - [ParseError]: YAML/JSON parsing failures and structural issues
//   - [ReferenceError]: a $ref that does not resolve inside its document
//   - [ExtensionError]: a vendor extension payload (x-ms-paths) that cannot be interpreted
//   - [ConfigError]: invalid configuration or input options
//
// # Sentinel Errors
//
//   - [ErrParse]: Matches any [ParseError]
//   - [ErrReference]: Matches any [ReferenceError]
//   - [ErrExtension]: Matches any [ExtensionError]
//   - [ErrConfig]: Matches any [ConfigError]
//
// # Usage Examples
//
//	result, err := comparator.CompareFiles("old.yaml", "new.yaml")
//	switch {
//	case errors.Is(err, oaserrors.ErrParse):
//	    // one of the inputs is not a readable document
//	case errors.Is(err, oaserrors.ErrExtension):
//	    // x-ms-paths is malformed; no partial result is available
//	}
//
// Extract details with errors.As():
//
//	var extErr *oaserrors.ExtensionError
//	if errors.As(err, &extErr) {
//	    fmt.Printf("%s is malformed in the %s document\n", extErr.Extension, extErr.Document)
//	}
package oaserrors
