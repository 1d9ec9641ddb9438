package parser

import (
	"strconv"

	"go.yaml.in/yaml/v4"
)

// maxSchemaDepth bounds inline schema nesting.
const maxSchemaDepth = 512

// schema decodes n into a new arena slot. It returns NoSchema when n is not
// a schema object.
func (d *decoder) schema(n *yaml.Node, ptr string) SchemaID {
	return d.schemaDepth(n, ptr, 0)
}

func (d *decoder) schemaDepth(n *yaml.Node, ptr string, depth int) SchemaID {
	if !d.isMapping(n, ptr) {
		return NoSchema
	}
	if depth > maxSchemaDepth {
		d.report(problemShape, n, ptr, "schema nesting is too deep")
		return NoSchema
	}
	id, s := d.doc.newSchema()
	sub := func(n *yaml.Node, ptr string) SchemaID { return d.schemaDepth(n, ptr, depth+1) }
	subList := func(n *yaml.Node, ptr string) []SchemaID {
		if !d.isSequence(n, ptr) {
			return nil
		}
		out := make([]SchemaID, 0, len(n.Content))
		for i, c := range n.Content {
			if child := sub(resolveAlias(c), joinPointer(ptr, strconv.Itoa(i))); child.Valid() {
				out = append(out, child)
			}
		}
		return out
	}

	var exclusiveMaximum, exclusiveMinimum *yaml.Node
	for key, val := range pairs(n) {
		kptr := joinPointer(ptr, key)
		switch key {
		case "$ref":
			s.Ref = d.str(val, kptr)
		case "type":
			s.Type, s.Nullable = d.schemaType(val, kptr, s.Nullable)
		case "format":
			s.Format = d.str(val, kptr)
		case "title":
			s.Title = d.str(val, kptr)
		case "description":
			s.Description = d.str(val, kptr)
		case "nullable":
			s.Nullable = d.boolean(val, kptr) || s.Nullable
		case "readOnly":
			s.ReadOnly = d.boolean(val, kptr)
		case "writeOnly":
			s.WriteOnly = d.boolean(val, kptr)
		case "deprecated":
			s.Deprecated = d.boolean(val, kptr)
		case "default":
			lit := literalFromNode(val)
			s.Default = &lit
		case "maximum":
			s.Maximum = d.number(val, kptr)
		case "minimum":
			s.Minimum = d.number(val, kptr)
		case "exclusiveMaximum":
			exclusiveMaximum = val
		case "exclusiveMinimum":
			exclusiveMinimum = val
		case "maxLength":
			s.MaxLength = d.integer(val, kptr)
		case "minLength":
			s.MinLength = d.integer(val, kptr)
		case "maxItems":
			s.MaxItems = d.integer(val, kptr)
		case "minItems":
			s.MinItems = d.integer(val, kptr)
		case "multipleOf":
			s.MultipleOf = d.number(val, kptr)
		case "pattern":
			if val != nil && val.Kind == yaml.ScalarNode {
				pattern := d.str(val, kptr)
				s.Pattern = &pattern
			} else {
				d.report(problemShape, val, kptr, "expected a string")
			}
		case "uniqueItems":
			s.UniqueItems = d.boolean(val, kptr)
		case "enum":
			if d.isSequence(val, kptr) {
				s.Enum = make([]Literal, 0, len(val.Content))
				for _, c := range val.Content {
					s.Enum = append(s.Enum, literalFromNode(c))
				}
			}
		case "discriminator":
			s.Discriminator = d.discriminator(val, kptr)
		case "items":
			s.Items = sub(val, kptr)
		case "properties":
			if d.isMapping(val, kptr) {
				s.Properties = NewMap[SchemaID]()
				for name, p := range pairs(val) {
					if child := sub(p, joinPointer(kptr, name)); child.Valid() {
						s.Properties.Set(name, child)
					}
				}
			}
		case "required":
			s.Required = d.stringList(val, kptr)
		case "additionalProperties":
			if val != nil && val.Kind == yaml.ScalarNode {
				s.AdditionalPropertiesAllowed = d.boolean(val, kptr)
			} else {
				s.AdditionalProperties = sub(val, kptr)
			}
		case "allOf":
			s.AllOf = subList(val, kptr)
		case "oneOf":
			s.OneOf = subList(val, kptr)
		case "anyOf":
			s.AnyOf = subList(val, kptr)
		default:
			if isExtension(key) {
				setExtension(&s.Extensions, key, val)
			}
		}
	}
	d.exclusiveBound(exclusiveMaximum, joinPointer(ptr, "exclusiveMaximum"), &s.Maximum, &s.ExclusiveMaximum)
	d.exclusiveBound(exclusiveMinimum, joinPointer(ptr, "exclusiveMinimum"), &s.Minimum, &s.ExclusiveMinimum)
	return id
}

// schemaType reads "type". A 3.1 type array keeps its first non-null entry;
// a "null" entry makes the schema nullable.
func (d *decoder) schemaType(n *yaml.Node, ptr string, nullable bool) (string, bool) {
	if n == nil {
		return "", nullable
	}
	if n.Kind != yaml.SequenceNode {
		return d.str(n, ptr), nullable
	}
	typ := ""
	for _, t := range d.stringList(n, ptr) {
		if t == "null" {
			nullable = true
		} else if typ == "" {
			typ = t
		}
	}
	return typ, nullable
}

// exclusiveBound applies a 3.0 boolean or a 3.1 numeric exclusive bound.
func (d *decoder) exclusiveBound(n *yaml.Node, ptr string, bound **float64, exclusive *bool) {
	if n == nil {
		return
	}
	if n.Kind == yaml.ScalarNode && n.ShortTag() == "!!bool" {
		*exclusive = d.boolean(n, ptr)
		return
	}
	if v := d.number(n, ptr); v != nil {
		*bound = v
		*exclusive = true
	}
}

func (d *decoder) discriminator(n *yaml.Node, ptr string) *Discriminator {
	if !d.isMapping(n, ptr) {
		return nil
	}
	disc := &Discriminator{}
	for key, val := range pairs(n) {
		kptr := joinPointer(ptr, key)
		switch key {
		case "propertyName":
			disc.PropertyName = d.str(val, kptr)
		case "mapping":
			if d.isMapping(val, kptr) {
				disc.Mapping = make(map[string]string)
				for k, v := range pairs(val) {
					disc.Mapping[k] = d.str(v, joinPointer(kptr, k))
				}
			}
		}
	}
	if disc.PropertyName == "" {
		d.report(problemDiscriminator, n, ptr, missingPropertyNameMessage)
	}
	return disc
}
