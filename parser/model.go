package parser

import (
	"go.yaml.in/yaml/v4"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Document is a parsed OpenAPI 3.x document.
//
// Schemas live in an arena owned by the document and are addressed by
// SchemaID, so every schema node has a stable identity that the comparator
// can use as a map key. Nothing is resolved eagerly: $ref fields are kept as
// written and resolved on demand with the Resolve* methods.
type Document struct {
	// OpenAPI is the value of the root "openapi" field.
	OpenAPI string
	Info    *Info
	Servers []*Server
	// Paths maps path templates to path items, in document order.
	Paths *Map[*PathItem]
	// CustomPaths holds the x-ms-paths extension decoded as a paths object.
	// It is nil when the extension is absent.
	CustomPaths *Map[*PathItem]
	// CustomPathsErr is set when x-ms-paths is present but cannot be decoded.
	// It is only reported when both compared documents carry the extension.
	CustomPathsErr error
	Components     *Components
	Extensions     map[string]any

	// Root is the raw mapping node of the document. Paths reported by the
	// comparator are rendered against it.
	Root *yaml.Node

	schemas []*Schema
}

// Info holds the document metadata the comparator needs.
type Info struct {
	Title   string
	Version string
}

// Server is an entry of the servers list.
type Server struct {
	URL         string
	Description string
}

// PathItem describes the operations available on a single path.
type PathItem struct {
	Ref         string
	Summary     string
	Description string
	// Operations maps lower-case HTTP verbs to operations, in document order.
	Operations *Map[*Operation]
	Parameters []*Parameter
}

// Operation describes a single API operation on a path.
type Operation struct {
	OperationID string
	Summary     string
	Description string
	Tags        []string
	Deprecated  bool
	Parameters  []*Parameter
	RequestBody *RequestBody
	// Responses maps status codes (or "default") to responses.
	Responses  *Map[*Response]
	Extensions map[string]any
}

// ParameterLocation is the value of a parameter's "in" field.
type ParameterLocation string

// Parameter locations defined by OpenAPI 3.
const (
	LocationPath   ParameterLocation = "path"
	LocationQuery  ParameterLocation = "query"
	LocationHeader ParameterLocation = "header"
	LocationCookie ParameterLocation = "cookie"
)

var lower = cases.Lower(language.Und)

// ParseParameterLocation parses s case-insensitively. The second result is
// false when s is not one of the four OpenAPI 3 locations.
func ParseParameterLocation(s string) (ParameterLocation, bool) {
	switch loc := ParameterLocation(lower.String(s)); loc {
	case LocationPath, LocationQuery, LocationHeader, LocationCookie:
		return loc, true
	default:
		return loc, false
	}
}

// Parameter describes a single operation parameter.
type Parameter struct {
	Ref             string
	Name            string
	In              ParameterLocation
	Description     string
	Required        bool
	Deprecated      bool
	AllowEmptyValue bool
	// Style is the declared serialization style; see EffectiveStyle.
	Style string
	// Explode is nil when not declared; see EffectiveExplode.
	Explode       *bool
	AllowReserved bool
	Schema        SchemaID
	Content       *Map[*MediaType]
	Extensions    map[string]any
}

// EffectiveStyle returns the declared style, or the default style for the
// parameter location.
func (p *Parameter) EffectiveStyle() string {
	if p.Style != "" {
		return p.Style
	}
	switch p.In {
	case LocationQuery, LocationCookie:
		return "form"
	case LocationPath, LocationHeader:
		return "simple"
	default:
		return ""
	}
}

// EffectiveExplode returns the declared explode flag, or its default, which
// is true only for the form style.
func (p *Parameter) EffectiveExplode() bool {
	if p.Explode != nil {
		return *p.Explode
	}
	return p.EffectiveStyle() == "form"
}

// IsRequired reports whether the parameter must be sent. Path parameters are
// always required.
func (p *Parameter) IsRequired() bool {
	return p.Required || p.In == LocationPath
}

// MediaType wraps the schema of a single media type.
type MediaType struct {
	Schema SchemaID
}

// RequestBody describes an operation request body.
type RequestBody struct {
	Ref         string
	Description string
	Required    bool
	Content     *Map[*MediaType]
	Extensions  map[string]any
}

// Response describes a single response of an operation.
type Response struct {
	Ref         string
	Description string
	Headers     *Map[*Header]
	Content     *Map[*MediaType]
	Extensions  map[string]any
}

// Header describes a response header.
type Header struct {
	Ref         string
	Description string
	Required    bool
	Deprecated  bool
	Schema      SchemaID
}

// Components holds the reusable objects that $refs point to.
type Components struct {
	Schemas       *Map[SchemaID]
	Parameters    *Map[*Parameter]
	Responses     *Map[*Response]
	RequestBodies *Map[*RequestBody]
	Headers       *Map[*Header]
}

// Discriminator is a schema discriminator object.
type Discriminator struct {
	PropertyName string
	Mapping      map[string]string
}
