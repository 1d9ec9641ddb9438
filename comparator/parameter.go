package comparator

import (
	"github.com/criteo/openapi-comparator/internal/pathutil"
	"github.com/criteo/openapi-comparator/parser"
)

// param is an entry of an effective parameter list: the parameter as written,
// its resolved form and whether it comes from the enclosing path item.
type param struct {
	raw       *parser.Parameter
	resolved  *parser.Parameter
	inherited bool
}

// resolveParams resolves a parameter list against doc. Entries whose $ref
// dangles are dropped.
func (c *comparison) resolveParams(doc *parser.Document, side string, list []*parser.Parameter, inherited bool) []param {
	out := make([]param, 0, len(list))
	for _, p := range list {
		r, ok := doc.ResolveParameter(p)
		if !ok {
			if p != nil {
				c.danglingRef(side, p.Ref)
			}
			continue
		}
		out = append(out, param{raw: p, resolved: r, inherited: inherited})
	}
	return out
}

// effectiveParams returns the operation's own parameters followed by the
// path-level ones it does not override. A path-level parameter is overridden
// by an operation parameter with the same $ref, or the same name and location.
func (c *comparison) effectiveParams(doc *parser.Document, side string, own, shared []*parser.Parameter) []param {
	out := c.resolveParams(doc, side, own, false)
	for _, p := range c.resolveParams(doc, side, shared, true) {
		overridden := false
		for _, o := range out {
			if o.inherited {
				continue
			}
			if p.raw.Ref != "" && p.raw.Ref == o.raw.Ref ||
				p.resolved.Name == o.resolved.Name && p.resolved.In == o.resolved.In {
				overridden = true
				break
			}
		}
		if !overridden {
			out = append(out, p)
		}
	}
	return out
}

// compareParameters compares two resolved parameter lists: order, removals
// and additions. Pairs inherited from the path item on both sides, and
// inherited parameters without a counterpart, were already reported at
// path-item level and are skipped.
func (c *comparison) compareParameters(old, new []param) {
	c.pushProperty("parameters")
	defer c.pop()

	for i, p := range new {
		if p.inherited || p.resolved.In == parser.LocationPath {
			continue
		}
		if prior := paramIndex(old, p.resolved); prior != -1 && prior != i {
			c.log(ChangedParameterOrder, p.resolved.Name)
		}
	}

	for _, o := range old {
		n, found := findParameter(o, new)
		if o.inherited && (!found || n.inherited) {
			continue
		}
		c.pushParameter(o.resolved.Name)
		switch {
		case found:
			c.compareParameter(o.raw, n.raw)
		case o.resolved.IsRequired():
			c.log(RemovedRequiredParameter, o.resolved.Name)
		}
		c.pop()
	}

	for _, n := range new {
		if _, found := findParameter(n, old); found || n.inherited {
			continue
		}
		c.pushParameter(n.resolved.Name)
		if n.resolved.IsRequired() {
			c.log(AddingRequiredParameter, n.resolved.Name)
		} else {
			c.log(AddingOptionalParameter, n.resolved.Name)
		}
		c.pop()
	}
}

func paramIndex(list []param, p *parser.Parameter) int {
	for i, q := range list {
		if q.resolved.Name == p.Name && q.resolved.In == p.In {
			return i
		}
	}
	return -1
}

// findParameter returns the entry of list that corresponds to key. When
// several entries share the name, the one functionally closest to key wins.
func findParameter(key param, list []param) (param, bool) {
	var candidates []param
	for _, p := range list {
		if p.resolved.Name == key.resolved.Name {
			candidates = append(candidates, p)
		}
	}
	switch len(candidates) {
	case 0:
		return param{}, false
	case 1:
		return candidates[0], true
	}

	var best param
	bestScore := 0
	for _, cand := range candidates {
		if score := similarity(key, cand); score > bestScore {
			best, bestScore = cand, score
		}
	}
	return best, bestScore > 0
}

func similarity(a, b param) int {
	x, y := a.resolved, b.resolved
	score := 0
	for _, same := range []bool{
		a.raw.Ref == b.raw.Ref,
		x.In == y.In,
		x.Required == y.Required,
		x.Deprecated == y.Deprecated,
		x.AllowEmptyValue == y.AllowEmptyValue,
		x.Style == y.Style,
		x.EffectiveExplode() == y.EffectiveExplode(),
		x.AllowReserved == y.AllowReserved,
	} {
		if same {
			score++
		}
	}
	return score
}

// compareParameter compares two parameters as written; $refs are resolved
// here so that redirections can be reported.
func (c *comparison) compareParameter(old, new *parser.Parameter) {
	if old.Ref != "" && new.Ref != "" && old.Ref != new.Ref {
		c.log(ReferenceRedirection)
	}
	defer c.withDirection(dirRequest)()

	oldRef, newRef := old.Ref, new.Ref
	old, ok := c.old.ResolveParameter(old)
	if !ok {
		c.danglingRef("old", oldRef)
		return
	}
	new, ok = c.new.ResolveParameter(new)
	if !ok {
		c.danglingRef("new", newRef)
		return
	}
	if oldRef != "" || newRef != "" {
		key := paramPair{
			old: componentName(oldRef, pathutil.RefPrefixParameters),
			new: componentName(newRef, pathutil.RefPrefixParameters),
		}
		if c.visitedParams[key] {
			return
		}
		c.visitedParams[key] = true
	}

	if old.In != new.In {
		c.pushProperty("in")
		c.log(ParameterInHasChanged, lower.String(string(old.In)), lower.String(string(new.In)))
		c.pop()
	}

	if c.isConstant(c.old, old) != c.isConstant(c.new, new) {
		c.pushProperty("enum")
		c.log(ConstantStatusHasChanged)
		c.pop()
	}

	c.compareRequiredStatus(old.IsRequired(), new.IsRequired())

	if old.EffectiveStyle() != new.EffectiveStyle() {
		c.pushProperty("style")
		c.log(ParameterStyleChanged, old.Name)
		c.pop()
	}

	if old.Schema.Valid() && new.Schema.Valid() {
		c.pushProperty("schema")
		c.compareSchema(old.Schema, new.Schema, true)
		c.pop()
	}

	c.compareContent(old.Content, new.Content)
}

// isConstant reports whether p is required and only admits a single value.
func (c *comparison) isConstant(doc *parser.Document, p *parser.Parameter) bool {
	if !p.IsRequired() {
		return false
	}
	id, ok := doc.ResolveSchema(p.Schema)
	if !ok {
		return false
	}
	return len(doc.Schema(id).Enum) == 1
}

// compareRequiredStatus reports a flip of a required flag at the current path.
func (c *comparison) compareRequiredStatus(old, new bool) {
	if old == new || c.dir == dirResponse {
		return
	}
	c.pushProperty("required")
	if new {
		c.log(RequiredStatusAdded, false, true)
	} else {
		c.log(RequiredStatusRemoved, true, false)
	}
	c.pop()
}

// componentName returns the component name of ref, or ref itself when it
// does not point into the given section.
func componentName(ref, prefix string) string {
	if name, ok := pathutil.ComponentName(ref, prefix); ok {
		return name
	}
	return ref
}
