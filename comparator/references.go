package comparator

import (
	"github.com/criteo/openapi-comparator/internal/pathutil"
	"github.com/criteo/openapi-comparator/parser"
)

// DiscriminatorValueExtension marks a schema as a member of a polymorphic
// hierarchy even when nothing references it.
const DiscriminatorValueExtension = "x-ms-discriminator-value"

// trackReferences marks the old-document component schemas that are
// reachable from operations or from component parameters, request bodies
// and responses, then the polymorphic schemas nothing references directly.
func (c *comparison) trackReferences() {
	doc := c.old
	if doc.Components == nil || doc.Components.Schemas.Len() == 0 {
		return
	}
	t := &refTracker{doc: doc, marked: c.referenced}

	for _, paths := range []*parser.Map[*parser.PathItem]{doc.Paths, doc.CustomPaths} {
		for _, item := range paths.All() {
			if item == nil {
				continue
			}
			t.parameters(item.Parameters)
			for _, op := range item.Operations.All() {
				if op == nil {
					continue
				}
				t.parameters(op.Parameters)
				t.requestBody(op.RequestBody)
				for _, r := range op.Responses.All() {
					t.response(r)
				}
			}
		}
	}

	comps := doc.Components
	for _, p := range comps.Parameters.All() {
		t.parameter(p)
	}
	for _, b := range comps.RequestBodies.All() {
		t.requestBody(b)
	}
	for _, r := range comps.Responses.All() {
		t.response(r)
	}

	t.polymorphic()
	c.logger.Debug("tracked schema references", "referenced", len(c.referenced), "schemas", comps.Schemas.Len())
}

type refTracker struct {
	doc    *parser.Document
	marked map[parser.SchemaID]bool
	seen   map[parser.SchemaID]bool
}

func (t *refTracker) parameters(list []*parser.Parameter) {
	for _, p := range list {
		t.parameter(p)
	}
}

func (t *refTracker) parameter(p *parser.Parameter) {
	p, ok := t.doc.ResolveParameter(p)
	if !ok {
		return
	}
	t.schema(p.Schema)
	t.content(p.Content)
}

func (t *refTracker) requestBody(b *parser.RequestBody) {
	if b, ok := t.doc.ResolveRequestBody(b); ok {
		t.content(b.Content)
	}
}

func (t *refTracker) response(r *parser.Response) {
	r, ok := t.doc.ResolveResponse(r)
	if !ok {
		return
	}
	for _, h := range r.Headers.All() {
		if h, ok := t.doc.ResolveHeader(h); ok {
			t.schema(h.Schema)
		}
	}
	t.content(r.Content)
}

func (t *refTracker) content(content *parser.Map[*parser.MediaType]) {
	for _, m := range content.All() {
		if m != nil {
			t.schema(m.Schema)
		}
	}
}

// schema walks the subtree of id and marks every component schema it
// reaches through a $ref.
func (t *refTracker) schema(id parser.SchemaID) {
	if t.seen == nil {
		t.seen = make(map[parser.SchemaID]bool)
	}
	for id.Valid() && !t.seen[id] {
		t.seen[id] = true
		s := t.doc.Schema(id)
		if s == nil {
			return
		}
		if s.Ref != "" {
			target, ok := t.doc.ResolveSchema(id)
			if !ok {
				return
			}
			t.marked[target] = true
			id = target
			continue
		}
		t.schema(s.Items)
		t.schema(s.AdditionalProperties)
		for _, p := range s.Properties.All() {
			t.schema(p)
		}
		for _, list := range [][]parser.SchemaID{s.AllOf, s.OneOf, s.AnyOf} {
			for _, m := range list {
				t.schema(m)
			}
		}
		return
	}
}

// polymorphic marks unreferenced schemas that carry a discriminator value,
// or whose allOf chain reaches a schema with a discriminator.
func (t *refTracker) polymorphic() {
	for _, id := range t.doc.Components.Schemas.All() {
		if t.marked[id] {
			continue
		}
		s := t.doc.Schema(id)
		if s == nil {
			continue
		}
		if _, ok := s.Extensions[DiscriminatorValueExtension]; ok {
			t.marked[id] = true
			continue
		}
		for _, m := range s.AllOf {
			if t.reachesDiscriminator(m, map[parser.SchemaID]bool{}) {
				t.marked[id] = true
				break
			}
		}
	}
}

func (t *refTracker) reachesDiscriminator(id parser.SchemaID, seen map[parser.SchemaID]bool) bool {
	s := t.doc.Schema(id)
	if s == nil || s.Ref == "" {
		return false
	}
	if _, ok := pathutil.ComponentName(s.Ref, pathutil.RefPrefixSchemas); !ok {
		return false
	}
	target, ok := t.doc.ResolveSchema(id)
	if !ok || seen[target] {
		return false
	}
	seen[target] = true
	resolved := t.doc.Schema(target)
	if resolved.Discriminator != nil {
		return true
	}
	for _, m := range resolved.AllOf {
		if t.reachesDiscriminator(m, seen) {
			return true
		}
	}
	return false
}
