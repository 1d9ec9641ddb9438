package parser

import "github.com/criteo/openapi-comparator/internal/pathutil"

// SchemaID addresses a schema in its document's arena. The zero value,
// NoSchema, means "no schema here".
type SchemaID int32

// NoSchema is the SchemaID of an absent schema.
const NoSchema SchemaID = 0

// Valid reports whether id refers to a schema.
func (id SchemaID) Valid() bool { return id > NoSchema }

// Schema is a schema object. A schema with a non-empty Ref is a reference and
// its other fields are not meaningful until it is resolved.
type Schema struct {
	Ref         string
	Type        string
	Format      string
	Title       string
	Description string
	Nullable    bool
	ReadOnly    bool
	WriteOnly   bool
	Deprecated  bool
	// Default is nil when no default is declared.
	Default *Literal

	Maximum          *float64
	ExclusiveMaximum bool
	Minimum          *float64
	ExclusiveMinimum bool
	MaxLength        *int64
	MinLength        *int64
	MaxItems         *int64
	MinItems         *int64
	MultipleOf       *float64
	// Pattern is nil when no pattern is declared.
	Pattern     *string
	UniqueItems bool

	// Enum is nil when no enum is declared.
	Enum          []Literal
	Discriminator *Discriminator

	Items      SchemaID
	Properties *Map[SchemaID]
	Required   []string
	// AdditionalProperties is the additionalProperties schema, if any.
	AdditionalProperties SchemaID
	// AdditionalPropertiesAllowed is false only for "additionalProperties: false".
	AdditionalPropertiesAllowed bool
	AllOf                       []SchemaID
	OneOf                       []SchemaID
	AnyOf                       []SchemaID

	Extensions map[string]any
}

// IsRequired reports whether name is listed in the required set.
func (s *Schema) IsRequired(name string) bool {
	for _, r := range s.Required {
		if r == name {
			return true
		}
	}
	return false
}

// Schema returns the schema addressed by id, or nil for NoSchema and ids that
// do not belong to this document.
func (d *Document) Schema(id SchemaID) *Schema {
	if d == nil || !id.Valid() || int(id) > len(d.schemas) {
		return nil
	}
	return d.schemas[id-1]
}

// SchemaCount returns the number of schemas in the arena.
func (d *Document) SchemaCount() int {
	if d == nil {
		return 0
	}
	return len(d.schemas)
}

func (d *Document) newSchema() (SchemaID, *Schema) {
	s := &Schema{AdditionalPropertiesAllowed: true}
	d.schemas = append(d.schemas, s)
	return SchemaID(len(d.schemas)), s
}

// ResolveSchema follows id through component $refs. It returns the id of the
// first non-reference schema, or false when a reference dangles or the
// chain loops.
func (d *Document) ResolveSchema(id SchemaID) (SchemaID, bool) {
	for hops := 0; hops <= d.SchemaCount(); hops++ {
		s := d.Schema(id)
		if s == nil {
			return NoSchema, false
		}
		if s.Ref == "" {
			return id, true
		}
		name, ok := pathutil.ComponentName(s.Ref, pathutil.RefPrefixSchemas)
		if !ok || d.Components == nil {
			return NoSchema, false
		}
		if id, ok = d.Components.Schemas.Get(name); !ok {
			return NoSchema, false
		}
	}
	return NoSchema, false
}

// ResolveParameter returns p itself, or the component it references.
func (d *Document) ResolveParameter(p *Parameter) (*Parameter, bool) {
	if p == nil || p.Ref == "" {
		return p, p != nil
	}
	name, ok := pathutil.ComponentName(p.Ref, pathutil.RefPrefixParameters)
	if !ok || d.Components == nil {
		return nil, false
	}
	target, ok := d.Components.Parameters.Get(name)
	if !ok || target == nil || target.Ref != "" {
		return nil, false
	}
	return target, true
}

// ResolveResponse returns r itself, or the component it references.
func (d *Document) ResolveResponse(r *Response) (*Response, bool) {
	if r == nil || r.Ref == "" {
		return r, r != nil
	}
	name, ok := pathutil.ComponentName(r.Ref, pathutil.RefPrefixResponses)
	if !ok || d.Components == nil {
		return nil, false
	}
	target, ok := d.Components.Responses.Get(name)
	if !ok || target == nil || target.Ref != "" {
		return nil, false
	}
	return target, true
}

// ResolveRequestBody returns b itself, or the component it references.
func (d *Document) ResolveRequestBody(b *RequestBody) (*RequestBody, bool) {
	if b == nil || b.Ref == "" {
		return b, b != nil
	}
	name, ok := pathutil.ComponentName(b.Ref, pathutil.RefPrefixRequestBodies)
	if !ok || d.Components == nil {
		return nil, false
	}
	target, ok := d.Components.RequestBodies.Get(name)
	if !ok || target == nil || target.Ref != "" {
		return nil, false
	}
	return target, true
}

// ResolveHeader returns h itself, or the component it references.
func (d *Document) ResolveHeader(h *Header) (*Header, bool) {
	if h == nil || h.Ref == "" {
		return h, h != nil
	}
	name, ok := pathutil.ComponentName(h.Ref, pathutil.RefPrefixHeaders)
	if !ok || d.Components == nil {
		return nil, false
	}
	target, ok := d.Components.Headers.Get(name)
	if !ok || target == nil || target.Ref != "" {
		return nil, false
	}
	return target, true
}
