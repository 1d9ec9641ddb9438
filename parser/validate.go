package parser

import (
	"context"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

// validateStructure loads data with kin-openapi and reports every load or
// validation failure as a diagnostic anchored at the document root.
// External references are never followed.
func validateStructure(data []byte) []Diagnostic {
	loader := openapi3.NewLoader()
	loader.IsExternalRefsAllowed = false

	doc, err := loader.LoadFromData(data)
	if err != nil {
		return validationDiagnostics(err)
	}
	if err := doc.Validate(context.Background()); err != nil {
		return validationDiagnostics(err)
	}
	return nil
}

func validationDiagnostics(err error) []Diagnostic {
	var errs []error
	if multi, ok := err.(openapi3.MultiError); ok { //nolint:errorlint // MultiError is a slice, flatten the top level only
		errs = multi
	} else {
		errs = []error{err}
	}

	out := make([]Diagnostic, 0, len(errs))
	for _, e := range errs {
		if e == nil {
			continue
		}
		out = append(out, Diagnostic{
			Message: strings.TrimSpace(e.Error()),
			Pointer: "#",
			Source:  "validate",
		})
	}
	return out
}
