package parser

import (
	"fmt"
	"strconv"
	"strings"

	"go.yaml.in/yaml/v4"

	"github.com/criteo/openapi-comparator/internal/httputil"
	"github.com/criteo/openapi-comparator/oaserrors"
)

// CustomPathsExtension is the vendor extension holding extra path items.
const CustomPathsExtension = "x-ms-paths"

const (
	customPathsFormatMessage   = "Invalid format for " + CustomPathsExtension + " extension. It should have an OpenApi path format."
	missingPropertyNameMessage = `"propertyName" attribute should be provided in a discriminator object`
)

// Diagnostic is a non-fatal problem found while reading a document. The
// document is still usable; the offending value is ignored.
type Diagnostic struct {
	Message string
	// Pointer locates the offending value, e.g. "#/paths/~1pets/get".
	Pointer string
	// Line and Column are 0 when unknown.
	Line   int
	Column int
	// Source is "decode" for shape problems and "validate" for problems
	// reported by structural validation.
	Source string
}

func (d Diagnostic) String() string {
	msg := d.Message
	if d.Pointer != "" {
		msg += " " + d.Pointer
	}
	if d.Line > 0 {
		msg += fmt.Sprintf(" (line %d, column %d)", d.Line, d.Column)
	}
	return msg
}

type problemKind uint8

const (
	problemShape problemKind = iota
	problemLocation
	problemDiscriminator
)

// decoder turns a raw node tree into a Document. In strict mode, used for
// x-ms-paths, the first problem becomes a fatal *oaserrors.ExtensionError;
// otherwise problems are collected as diagnostics.
type decoder struct {
	doc    *Document
	strict bool
	diags  []Diagnostic
	err    error
}

func (d *decoder) report(kind problemKind, n *yaml.Node, ptr, msg string) {
	if d.strict {
		if d.err != nil {
			return
		}
		if kind == problemShape {
			msg = customPathsFormatMessage
		}
		d.err = &oaserrors.ExtensionError{Extension: CustomPathsExtension, Message: msg}
		return
	}
	diag := Diagnostic{Message: msg, Pointer: ptr, Source: "decode"}
	if n != nil {
		diag.Line, diag.Column = n.Line, n.Column
	}
	d.diags = append(d.diags, diag)
}

func (d *decoder) isMapping(n *yaml.Node, ptr string) bool {
	if n == nil {
		return false
	}
	if n.Kind != yaml.MappingNode {
		d.report(problemShape, n, ptr, "expected an object")
		return false
	}
	return true
}

func (d *decoder) isSequence(n *yaml.Node, ptr string) bool {
	if n == nil {
		return false
	}
	if n.Kind != yaml.SequenceNode {
		d.report(problemShape, n, ptr, "expected an array")
		return false
	}
	return true
}

func (d *decoder) str(n *yaml.Node, ptr string) string {
	if n == nil {
		return ""
	}
	if n.Kind != yaml.ScalarNode {
		d.report(problemShape, n, ptr, "expected a string")
		return ""
	}
	if n.ShortTag() == "!!null" {
		return ""
	}
	return n.Value
}

func (d *decoder) boolean(n *yaml.Node, ptr string) bool {
	if n == nil {
		return false
	}
	var b bool
	if n.Kind != yaml.ScalarNode || n.ShortTag() != "!!bool" || n.Decode(&b) != nil {
		d.report(problemShape, n, ptr, "expected a boolean")
		return false
	}
	return b
}

func (d *decoder) number(n *yaml.Node, ptr string) *float64 {
	if n == nil {
		return nil
	}
	var f float64
	tag := n.ShortTag()
	if n.Kind != yaml.ScalarNode || (tag != "!!int" && tag != "!!float") || n.Decode(&f) != nil {
		d.report(problemShape, n, ptr, "expected a number")
		return nil
	}
	return &f
}

func (d *decoder) integer(n *yaml.Node, ptr string) *int64 {
	if n == nil {
		return nil
	}
	var i int64
	if n.Kind != yaml.ScalarNode || n.ShortTag() != "!!int" || n.Decode(&i) != nil {
		d.report(problemShape, n, ptr, "expected an integer")
		return nil
	}
	return &i
}

func (d *decoder) stringList(n *yaml.Node, ptr string) []string {
	if !d.isSequence(n, ptr) {
		return nil
	}
	out := make([]string, 0, len(n.Content))
	for i, c := range n.Content {
		out = append(out, d.str(resolveAlias(c), joinPointer(ptr, strconv.Itoa(i))))
	}
	return out
}

func isExtension(key string) bool { return strings.HasPrefix(key, "x-") }

func setExtension(m *map[string]any, key string, n *yaml.Node) {
	if *m == nil {
		*m = make(map[string]any)
	}
	(*m)[key] = nodeValue(n)
}

// decodeDocument decodes root, which must be a mapping node.
func decodeDocument(root *yaml.Node) (*Document, []Diagnostic) {
	d := &decoder{doc: &Document{Root: root}}
	doc := d.doc
	for key, val := range pairs(root) {
		ptr := joinPointer("#", key)
		switch key {
		case "openapi":
			doc.OpenAPI = d.str(val, ptr)
		case "info":
			doc.Info = d.info(val, ptr)
		case "servers":
			doc.Servers = d.servers(val, ptr)
		case "paths":
			doc.Paths = d.paths(val, ptr)
		case "components":
			doc.Components = d.components(val, ptr)
		default:
			if isExtension(key) {
				setExtension(&doc.Extensions, key, val)
			}
		}
	}
	if raw := lookup(root, CustomPathsExtension); raw != nil {
		doc.CustomPaths, doc.CustomPathsErr = decodeCustomPaths(doc, raw)
	}
	return doc, d.diags
}

// decodeCustomPaths decodes the x-ms-paths payload as a paths object, in
// strict mode. It shares the schema arena of doc.
func decodeCustomPaths(doc *Document, raw *yaml.Node) (*Map[*PathItem], error) {
	d := &decoder{doc: doc, strict: true}
	paths := d.paths(raw, joinPointer("#", CustomPathsExtension))
	if d.err != nil {
		return nil, d.err
	}
	return paths, nil
}

func (d *decoder) info(n *yaml.Node, ptr string) *Info {
	if !d.isMapping(n, ptr) {
		return nil
	}
	info := &Info{}
	for key, val := range pairs(n) {
		switch key {
		case "title":
			info.Title = d.str(val, joinPointer(ptr, key))
		case "version":
			info.Version = d.str(val, joinPointer(ptr, key))
		}
	}
	return info
}

func (d *decoder) servers(n *yaml.Node, ptr string) []*Server {
	if !d.isSequence(n, ptr) {
		return nil
	}
	out := make([]*Server, 0, len(n.Content))
	for i, c := range n.Content {
		c = resolveAlias(c)
		sptr := joinPointer(ptr, strconv.Itoa(i))
		if !d.isMapping(c, sptr) {
			continue
		}
		s := &Server{}
		for key, val := range pairs(c) {
			switch key {
			case "url":
				s.URL = d.str(val, joinPointer(sptr, key))
			case "description":
				s.Description = d.str(val, joinPointer(sptr, key))
			}
		}
		out = append(out, s)
	}
	return out
}

func (d *decoder) paths(n *yaml.Node, ptr string) *Map[*PathItem] {
	if !d.isMapping(n, ptr) {
		return nil
	}
	out := NewMap[*PathItem]()
	for key, val := range pairs(n) {
		if isExtension(key) {
			continue
		}
		if item := d.pathItem(val, joinPointer(ptr, key)); item != nil {
			out.Set(key, item)
		}
	}
	return out
}

func (d *decoder) pathItem(n *yaml.Node, ptr string) *PathItem {
	if !d.isMapping(n, ptr) {
		return nil
	}
	item := &PathItem{Operations: NewMap[*Operation]()}
	for key, val := range pairs(n) {
		kptr := joinPointer(ptr, key)
		switch {
		case key == "$ref":
			item.Ref = d.str(val, kptr)
		case key == "summary":
			item.Summary = d.str(val, kptr)
		case key == "description":
			item.Description = d.str(val, kptr)
		case key == "parameters":
			item.Parameters = d.parameterList(val, kptr)
		case httputil.IsMethod(key):
			if op := d.operation(val, kptr); op != nil {
				item.Operations.Set(key, op)
			}
		}
	}
	return item
}

func (d *decoder) operation(n *yaml.Node, ptr string) *Operation {
	if !d.isMapping(n, ptr) {
		return nil
	}
	op := &Operation{}
	for key, val := range pairs(n) {
		kptr := joinPointer(ptr, key)
		switch key {
		case "operationId":
			op.OperationID = d.str(val, kptr)
		case "summary":
			op.Summary = d.str(val, kptr)
		case "description":
			op.Description = d.str(val, kptr)
		case "tags":
			op.Tags = d.stringList(val, kptr)
		case "deprecated":
			op.Deprecated = d.boolean(val, kptr)
		case "parameters":
			op.Parameters = d.parameterList(val, kptr)
		case "requestBody":
			op.RequestBody = d.requestBody(val, kptr)
		case "responses":
			op.Responses = d.responses(val, kptr)
		default:
			if isExtension(key) {
				setExtension(&op.Extensions, key, val)
			}
		}
	}
	return op
}

func (d *decoder) parameterList(n *yaml.Node, ptr string) []*Parameter {
	if !d.isSequence(n, ptr) {
		return nil
	}
	out := make([]*Parameter, 0, len(n.Content))
	for i, c := range n.Content {
		if p := d.parameter(resolveAlias(c), joinPointer(ptr, strconv.Itoa(i))); p != nil {
			out = append(out, p)
		}
	}
	return out
}

func (d *decoder) parameter(n *yaml.Node, ptr string) *Parameter {
	if !d.isMapping(n, ptr) {
		return nil
	}
	p := &Parameter{}
	for key, val := range pairs(n) {
		kptr := joinPointer(ptr, key)
		switch key {
		case "$ref":
			p.Ref = d.str(val, kptr)
		case "name":
			p.Name = d.str(val, kptr)
		case "in":
			raw := d.str(val, kptr)
			loc, ok := ParseParameterLocation(raw)
			if !ok {
				msg := "invalid parameter location " + strconv.Quote(raw)
				if d.strict {
					msg = "Invalid parameter location: " + raw
				}
				d.report(problemLocation, val, kptr, msg)
			}
			p.In = loc
		case "description":
			p.Description = d.str(val, kptr)
		case "required":
			p.Required = d.boolean(val, kptr)
		case "deprecated":
			p.Deprecated = d.boolean(val, kptr)
		case "allowEmptyValue":
			p.AllowEmptyValue = d.boolean(val, kptr)
		case "style":
			p.Style = d.str(val, kptr)
		case "explode":
			explode := d.boolean(val, kptr)
			p.Explode = &explode
		case "allowReserved":
			p.AllowReserved = d.boolean(val, kptr)
		case "schema":
			p.Schema = d.schema(val, kptr)
		case "content":
			p.Content = d.content(val, kptr)
		default:
			if isExtension(key) {
				setExtension(&p.Extensions, key, val)
			}
		}
	}
	return p
}

func (d *decoder) requestBody(n *yaml.Node, ptr string) *RequestBody {
	if !d.isMapping(n, ptr) {
		return nil
	}
	b := &RequestBody{}
	for key, val := range pairs(n) {
		kptr := joinPointer(ptr, key)
		switch key {
		case "$ref":
			b.Ref = d.str(val, kptr)
		case "description":
			b.Description = d.str(val, kptr)
		case "required":
			b.Required = d.boolean(val, kptr)
		case "content":
			b.Content = d.content(val, kptr)
		default:
			if isExtension(key) {
				setExtension(&b.Extensions, key, val)
			}
		}
	}
	return b
}

func (d *decoder) responses(n *yaml.Node, ptr string) *Map[*Response] {
	if !d.isMapping(n, ptr) {
		return nil
	}
	out := NewMap[*Response]()
	for key, val := range pairs(n) {
		if isExtension(key) {
			continue
		}
		kptr := joinPointer(ptr, key)
		if !d.strict && !httputil.ValidateStatusCode(key) {
			d.report(problemShape, val, kptr, "invalid response code "+strconv.Quote(key))
		}
		if r := d.response(val, kptr); r != nil {
			out.Set(key, r)
		}
	}
	return out
}

func (d *decoder) response(n *yaml.Node, ptr string) *Response {
	if !d.isMapping(n, ptr) {
		return nil
	}
	r := &Response{}
	for key, val := range pairs(n) {
		kptr := joinPointer(ptr, key)
		switch key {
		case "$ref":
			r.Ref = d.str(val, kptr)
		case "description":
			r.Description = d.str(val, kptr)
		case "headers":
			r.Headers = d.headers(val, kptr)
		case "content":
			r.Content = d.content(val, kptr)
		default:
			if isExtension(key) {
				setExtension(&r.Extensions, key, val)
			}
		}
	}
	return r
}

func (d *decoder) headers(n *yaml.Node, ptr string) *Map[*Header] {
	if !d.isMapping(n, ptr) {
		return nil
	}
	out := NewMap[*Header]()
	for key, val := range pairs(n) {
		if h := d.header(val, joinPointer(ptr, key)); h != nil {
			out.Set(key, h)
		}
	}
	return out
}

func (d *decoder) header(n *yaml.Node, ptr string) *Header {
	if !d.isMapping(n, ptr) {
		return nil
	}
	h := &Header{}
	for key, val := range pairs(n) {
		kptr := joinPointer(ptr, key)
		switch key {
		case "$ref":
			h.Ref = d.str(val, kptr)
		case "description":
			h.Description = d.str(val, kptr)
		case "required":
			h.Required = d.boolean(val, kptr)
		case "deprecated":
			h.Deprecated = d.boolean(val, kptr)
		case "schema":
			h.Schema = d.schema(val, kptr)
		}
	}
	return h
}

func (d *decoder) content(n *yaml.Node, ptr string) *Map[*MediaType] {
	if !d.isMapping(n, ptr) {
		return nil
	}
	out := NewMap[*MediaType]()
	for key, val := range pairs(n) {
		kptr := joinPointer(ptr, key)
		if !d.strict && !httputil.IsValidMediaType(key) {
			d.report(problemShape, val, kptr, "invalid media type "+strconv.Quote(key))
		}
		if !d.isMapping(val, kptr) {
			continue
		}
		mt := &MediaType{}
		if s := lookup(val, "schema"); s != nil {
			mt.Schema = d.schema(s, joinPointer(kptr, "schema"))
		}
		out.Set(key, mt)
	}
	return out
}

func (d *decoder) components(n *yaml.Node, ptr string) *Components {
	if !d.isMapping(n, ptr) {
		return nil
	}
	c := &Components{
		Schemas:       NewMap[SchemaID](),
		Parameters:    NewMap[*Parameter](),
		Responses:     NewMap[*Response](),
		RequestBodies: NewMap[*RequestBody](),
		Headers:       NewMap[*Header](),
	}
	for key, val := range pairs(n) {
		kptr := joinPointer(ptr, key)
		switch key {
		case "schemas":
			if d.isMapping(val, kptr) {
				for name, s := range pairs(val) {
					if id := d.schema(s, joinPointer(kptr, name)); id.Valid() {
						c.Schemas.Set(name, id)
					}
				}
			}
		case "parameters":
			if d.isMapping(val, kptr) {
				for name, p := range pairs(val) {
					if param := d.parameter(p, joinPointer(kptr, name)); param != nil {
						c.Parameters.Set(name, param)
					}
				}
			}
		case "responses":
			if d.isMapping(val, kptr) {
				for name, r := range pairs(val) {
					if resp := d.response(r, joinPointer(kptr, name)); resp != nil {
						c.Responses.Set(name, resp)
					}
				}
			}
		case "requestBodies":
			if d.isMapping(val, kptr) {
				for name, b := range pairs(val) {
					if body := d.requestBody(b, joinPointer(kptr, name)); body != nil {
						c.RequestBodies.Set(name, body)
					}
				}
			}
		case "headers":
			c.Headers = d.headers(val, kptr)
			if c.Headers == nil {
				c.Headers = NewMap[*Header]()
			}
		}
	}
	return c
}
