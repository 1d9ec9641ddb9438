// Package openapicomparator detects breaking changes between two versions of an
// OpenAPI 3 document.
//
// The root package only carries build metadata. The work is split across:
//
//   - parser: load a document from a file, URL, reader or bytes into the typed
//     model the comparator walks, with optional structural validation
//   - comparator: compare an old and a new document and report every change
//     as a rule finding with a severity and its location in both documents
//
// # Installation
//
//	go get github.com/criteo/openapi-comparator
//
// # Quick Start
//
//	import "github.com/criteo/openapi-comparator/comparator"
//
//	result, err := comparator.CompareWithOptions(
//		comparator.WithOldFilePath("api-v1.yaml"),
//		comparator.WithNewFilePath("api-v2.yaml"),
//		comparator.WithStrict(true),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//	for _, m := range result.Messages {
//		fmt.Printf("%s %s: %s\n", m.Severity, m.Code, m.Message)
//	}
//	if result.HasErrors() {
//		os.Exit(1)
//	}
//
// # Severity
//
// Each rule has a base severity. Breaking rules are reported as warnings, or as
// errors in strict mode. The verdict of a comparison is the most severe finding
// (none, info, warning or error).
//
// # Command Line
//
// The openapi-comparator binary wraps the library:
//
//	openapi-comparator compare [--strict] [--format text|json|yaml] old.yaml new.yaml
//	openapi-comparator rules [code]
//	openapi-comparator serve --addr 127.0.0.1:8080
//	openapi-comparator mcp
//
// See the comparator package for the rule catalog and the location format.
package openapicomparator
