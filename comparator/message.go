package comparator

import (
	"fmt"

	"github.com/criteo/openapi-comparator/internal/pathutil"
	"github.com/criteo/openapi-comparator/internal/severity"
	"github.com/criteo/openapi-comparator/parser"
)

// Location is where a finding sits in one of the compared documents.
// All fields are empty when the finding does not apply to that document.
type Location struct {
	// Ref is the JSON pointer as traversed.
	Ref string `json:"Ref,omitempty" yaml:"ref,omitempty"`
	// Path is the JSON pointer with every $ref hop replaced by its target.
	Path string `json:"Path,omitempty" yaml:"path,omitempty"`
	// Position is "line:column" of the deepest node that exists along the path.
	Position string `json:"Location,omitempty" yaml:"location,omitempty"`
}

// IsZero reports whether the location is absent.
func (l Location) IsZero() bool {
	return l.Ref == "" && l.Path == "" && l.Position == ""
}

// Message is a single finding of a comparison.
type Message struct {
	ID       int               `json:"Id" yaml:"id"`
	Code     string            `json:"Code" yaml:"code"`
	Message  string            `json:"Message" yaml:"message"`
	Old      Location          `json:"Old" yaml:"old"`
	New      Location          `json:"New" yaml:"new"`
	Severity severity.Severity `json:"Type" yaml:"type"`
	DocURL   string            `json:"DocUrl" yaml:"docUrl"`
	Kind     Kind              `json:"Mode" yaml:"mode"`
}

// String renders the message in the multi-line text form used by the CLI.
func (m Message) String() string {
	return fmt.Sprintf("code = %s,\ntype = %s,\nmessage = %s,\ndocurl = %s,\nmode = %s",
		m.Code, m.Severity, m.Message, m.DocURL, m.Kind)
}

func newMessage(r *Rule, sev severity.Severity, p pathutil.ObjectPath, old, new *parser.Document, args ...any) Message {
	m := Message{
		ID:       r.ID,
		Code:     r.Code,
		Message:  r.Format(args...),
		Severity: sev,
		DocURL:   r.DocURL(),
		Kind:     r.Kind,
	}
	if r.Kind != KindAddition {
		m.Old = locate(p, old)
	}
	if r.Kind != KindRemoval {
		m.New = locate(p, new)
	}
	return m
}

func locate(p pathutil.ObjectPath, doc *parser.Document) Location {
	if doc == nil || doc.Root == nil {
		return Location{}
	}
	ref, ok := p.JSONPointer(doc.Root, false)
	if !ok {
		return Location{}
	}
	resolved, _ := p.JSONPointer(doc.Root, true)
	return Location{
		Ref:      ref,
		Path:     resolved,
		Position: pathutil.Location(p.Node(doc.Root, true)),
	}
}

// diagnosticMessage turns a document diagnostic into an OpenApiError finding
// located in the document it came from.
func diagnosticMessage(d parser.Diagnostic, fromOld bool) Message {
	m := Message{
		ID:       OpenAPIError.ID,
		Code:     OpenAPIError.Code,
		Message:  d.Message + " " + d.Pointer,
		Severity: severity.Resolve(OpenAPIError.Severity, false),
		DocURL:   OpenAPIError.DocURL(),
		Kind:     OpenAPIError.Kind,
	}
	loc := Location{Ref: d.Pointer, Path: d.Pointer}
	if d.Line > 0 {
		loc.Position = fmt.Sprintf("%d:%d", d.Line, d.Column)
	}
	if fromOld {
		m.Old = loc
	} else {
		m.New = loc
	}
	return m
}
