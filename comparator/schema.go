package comparator

import (
	"cmp"
	"strconv"

	"github.com/criteo/openapi-comparator/parser"
)

// compareSchema compares the schema oldID of the old document with newID of
// the new one. isReferenced is false only for component schemas that no
// operation reaches; optional properties added to those are not reported.
func (c *comparison) compareSchema(oldID, newID parser.SchemaID, isReferenced bool) {
	oldRaw, newRaw := c.old.Schema(oldID), c.new.Schema(newID)
	switch {
	case oldRaw == nil && newRaw == nil:
		return
	case oldRaw == nil:
		c.log(AddedSchema)
		return
	case newRaw == nil:
		c.log(RemovedDefinition, "")
		return
	}

	if oldRaw.Ref != "" && newRaw.Ref != "" && oldRaw.Ref != newRaw.Ref {
		c.log(ReferenceRedirection)
		return
	}
	referenced := oldRaw.Ref != "" || newRaw.Ref != ""

	oldID, ok := c.old.ResolveSchema(oldID)
	if !ok {
		c.danglingRef("old", oldRaw.Ref)
		return
	}
	newID, ok = c.new.ResolveSchema(newID)
	if !ok {
		c.danglingRef("new", newRaw.Ref)
		return
	}

	if c.dir != dirNone {
		saved := c.directions[newID]
		if saved == c.dir || saved == dirBoth {
			return
		}
		effective := c.dir | saved
		c.directions[newID] = effective
		defer c.withDirection(effective)()
	}

	if referenced {
		if c.visited[oldID] && c.dir != dirBoth {
			c.logger.Debug("schema already visited", "path", c.path().String())
			return
		}
		c.visited[oldID] = true
	}

	old, new := c.old.Schema(oldID), c.new.Schema(newID)
	c.compareReadOnly(old.ReadOnly, new.ReadOnly)
	c.compareDiscriminator(old.Discriminator, new.Discriminator)
	c.compareDefault(old.Default, new.Default)
	c.compareConstraints(old, new)
	c.compareType(old.Type, new.Type)
	c.compareItems(old.Items, new.Items)
	c.compareEnum(old, new)
	c.compareFormat(old, new)
	c.compareAllOf(old.AllOf, new.AllOf)
	c.compareOneOf(old.OneOf, new.OneOf)
	c.compareProperties(old, new, isReferenced)
	c.compareRequired(old, new)
	c.compareNullable(old.Nullable, new.Nullable)
}

func (c *comparison) compareReadOnly(old, new bool) {
	if old == new {
		return
	}
	c.pushProperty("readOnly")
	c.log(ReadonlyPropertyChanged, strconv.FormatBool(old), strconv.FormatBool(new))
	c.pop()
}

func (c *comparison) compareNullable(old, new bool) {
	if old == new {
		return
	}
	c.pushProperty("nullable")
	c.log(NullablePropertyChanged, strconv.FormatBool(old), strconv.FormatBool(new))
	c.pop()
}

func (c *comparison) compareDiscriminator(old, new *parser.Discriminator) {
	changed := old == nil && new != nil ||
		old != nil && old.PropertyName != "" && (new == nil || new.PropertyName != old.PropertyName)
	if !changed {
		return
	}
	c.pushProperty("discriminator")
	c.log(DifferentDiscriminator)
	c.pop()
}

func (c *comparison) compareDefault(old, new *parser.Literal) {
	if !literalsDiffer(old, new) {
		return
	}
	c.pushProperty("default")
	c.log(DefaultValueChanged)
	c.pop()
}

func (c *comparison) compareConstraints(old, new *parser.Schema) {
	if differs(old.Maximum, new.Maximum) || old.ExclusiveMaximum != new.ExclusiveMaximum {
		compareBound(c, "maximum", old.Maximum, new.Maximum, false, old.ExclusiveMaximum != new.ExclusiveMaximum)
	}
	if differs(old.Minimum, new.Minimum) || old.ExclusiveMinimum != new.ExclusiveMinimum {
		compareBound(c, "minimum", old.Minimum, new.Minimum, true, old.ExclusiveMinimum != new.ExclusiveMinimum)
	}
	if differs(old.MaxLength, new.MaxLength) {
		compareBound(c, "maxLength", old.MaxLength, new.MaxLength, false, false)
	}
	if differs(old.MinLength, new.MinLength) {
		compareBound(c, "minLength", old.MinLength, new.MinLength, true, false)
	}
	if differs(old.MaxItems, new.MaxItems) {
		compareBound(c, "maxItems", old.MaxItems, new.MaxItems, false, false)
	}
	if differs(old.MinItems, new.MinItems) {
		compareBound(c, "minItems", old.MinItems, new.MinItems, true, false)
	}
	if differs(old.MultipleOf, new.MultipleOf) {
		c.pushProperty("multipleOf")
		c.log(MultipleOfConstraintChanged, "multipleOf")
		c.pop()
	}
	if old.UniqueItems != new.UniqueItems {
		c.pushProperty("uniqueItems")
		c.log(UniqueItemsConstraintChanged, "uniqueItems")
		c.pop()
	}
	if differs(old.Pattern, new.Pattern) {
		c.pushProperty("pattern")
		c.log(PatternConstraintChanged, "pattern")
		c.pop()
	}
}

// compareBound classifies the change of a single bound. A flip of the
// exclusive flag is reported as a plain change.
func compareBound[T cmp.Ordered](c *comparison, attr string, old, new *T, lowerBound, exclusiveChanged bool) {
	c.pushProperty(attr)
	defer c.pop()

	switch {
	case exclusiveChanged:
		c.log(ConstraintChanged, attr)
	case narrows(old, new, lowerBound):
		if c.dir == dirRequest {
			c.log(ConstraintIsStronger, attr)
		} else {
			c.log(ResponseConstraintIsStronger, attr)
		}
	case widens(old, new, lowerBound):
		if c.dir == dirResponse {
			c.log(ConstraintIsWeaker, attr)
		} else {
			c.log(RequestConstraintIsWeaker, attr)
		}
	}
}

func narrows[T cmp.Ordered](old, new *T, lowerBound bool) bool {
	switch {
	case old == nil && new == nil:
		return false
	case old == nil:
		return true
	case new == nil:
		return false
	case lowerBound:
		return *new > *old
	default:
		return *new < *old
	}
}

func widens[T cmp.Ordered](old, new *T, lowerBound bool) bool {
	switch {
	case old == nil:
		return false
	case new == nil:
		return true
	case lowerBound:
		return *new < *old
	default:
		return *new > *old
	}
}

func (c *comparison) compareType(old, new string) {
	if old == new {
		return
	}
	c.pushProperty("type")
	c.log(TypeChanged, lower.String(new), lower.String(old))
	c.pop()
}

func (c *comparison) compareItems(old, new parser.SchemaID) {
	if !old.Valid() || !new.Valid() {
		return
	}
	c.pushProperty("items")
	c.compareSchema(old, new, true)
	c.pop()
}

// compareEnum reports removed and added values, then summarises whether the
// enum as a whole got stronger, weaker or both. An enum that disappears
// relaxes the schema; one that appears constrains it.
func (c *comparison) compareEnum(oldSchema, newSchema *parser.Schema) {
	old, new := oldSchema.Enum, newSchema.Enum
	if old == nil && new == nil {
		return
	}
	relaxes := new == nil
	constrains := old == nil

	c.pushProperty("enum")
	defer c.pop()

	if !relaxes && !constrains {
		removed := missingFrom(old, new)
		added := missingFrom(new, old)
		constrains = len(removed) > 0
		relaxes = len(added) > 0

		if constrains {
			r := RemovedEnumValue
			if c.dir == dirResponse {
				r = RemovedEnumResponseValue
			}
			c.log(r, joinLiterals(removed))
		}
		if relaxes && !extensionFlag(oldSchema.Extensions, "x-ms-enum", "modelAsString") {
			r := AddedEnumValue
			if c.dir == dirRequest {
				r = AddedEnumRequestValue
			}
			c.log(r, joinLiterals(added))
		}
	}

	switch {
	case relaxes && constrains:
		c.log(EnumConstraintChanged, "enum")
	case relaxes:
		c.log(EnumConstraintIsWeaker, "enum")
	case constrains:
		c.log(EnumConstraintIsStronger, "enum")
	}
}

func (c *comparison) compareFormat(old, new *parser.Schema) {
	if old.Format == new.Format {
		return
	}
	c.pushProperty("format")
	if c.formatWidens(old, new) {
		c.log(WideningTypeFormatChanged)
	} else {
		c.log(TypeFormatChanged)
	}
	c.pop()
}

// formatWidens reports whether an integer format change is safe for the
// current direction: int32 to int64 in a request, int64 to int32 in a response.
func (c *comparison) formatWidens(old, new *parser.Schema) bool {
	if new.Type != "integer" || old.Format == "" || new.Format == "" {
		return false
	}
	switch {
	case c.dir == dirRequest:
		return old.Format == "int32" && new.Format == "int64"
	case c.dir == dirResponse:
		return old.Format == "int64" && new.Format == "int32"
	default:
		return false
	}
}

// compareAllOf reports a change in the referenced members only. An absent
// allOf is an empty one, so adding or dropping inline members is silent.
func (c *comparison) compareAllOf(old, new []parser.SchemaID) {
	if len(old) == 0 && len(new) == 0 {
		return
	}
	c.pushProperty("allOf")
	defer c.pop()

	if c.refsDiffer(old, new) {
		c.log(DifferentAllOf)
	}
}

func (c *comparison) compareOneOf(old, new []parser.SchemaID) {
	if len(old) == 0 && len(new) == 0 {
		return
	}
	c.pushProperty("oneOf")
	defer c.pop()

	if c.refsDiffer(old, new) {
		c.log(DifferentOneOf)
	}

	newRefs := refList(c.new, new)
	for i, id := range old {
		ref := c.old.Schema(id).Ref
		if ref == "" {
			continue
		}
		for _, r := range newRefs {
			if r.ref == ref {
				c.pushProperty(strconv.Itoa(i))
				c.compareSchema(id, r.id, true)
				c.pop()
				break
			}
		}
	}
}

type schemaRef struct {
	id  parser.SchemaID
	ref string
}

// refList returns the members of a composition that are $refs, in order.
func refList(doc *parser.Document, ids []parser.SchemaID) []schemaRef {
	var out []schemaRef
	for _, id := range ids {
		if s := doc.Schema(id); s != nil && s.Ref != "" {
			out = append(out, schemaRef{id: id, ref: s.Ref})
		}
	}
	return out
}

// refsDiffer reports whether the sets of $ref targets of two compositions
// differ. Inline members are ignored.
func (c *comparison) refsDiffer(old, new []parser.SchemaID) bool {
	oldRefs := refStrings(refList(c.old, old))
	newRefs := refStrings(refList(c.new, new))
	return len(stringSetDiff(oldRefs, newRefs))+len(stringSetDiff(newRefs, oldRefs)) > 0
}

func refStrings(refs []schemaRef) []string {
	out := make([]string, len(refs))
	for i, r := range refs {
		out[i] = r.ref
	}
	return out
}

func (c *comparison) compareProperties(old, new *parser.Schema, isReferenced bool) {
	c.compareAdditionalProperties(old, new)

	c.pushProperty("properties")
	defer c.pop()

	for name := range old.Properties.All() {
		if new.Properties.Has(name) {
			continue
		}
		c.pushProperty(name)
		c.log(RemovedProperty, name)
		c.pop()
	}

	for name, id := range new.Properties.All() {
		if old.Properties.Has(name) {
			continue
		}
		c.pushProperty(name)
		switch {
		case c.dir == dirResponse:
			switch {
			case c.resolvedNew(id).ReadOnly:
				c.log(AddedReadOnlyPropertyInResponse, name)
			case old.AdditionalPropertiesAllowed && new.AdditionalPropertiesAllowed:
				c.log(AddedPropertyInResponse, name)
			default:
				c.log(AddedBreakingPropertyInResponse, name)
			}
		case isReferenced && !new.IsRequired(name):
			if old.IsRequired(name) {
				c.log(AddedRequiredProperty, name)
			} else {
				c.log(AddedOptionalProperty, name)
			}
		}
		c.pop()
	}

	for name, oldProp := range old.Properties.All() {
		newProp, ok := new.Properties.Get(name)
		if !ok {
			continue
		}
		c.pushProperty(name)
		c.compareSchema(oldProp, newProp, true)
		c.pop()
	}
}

func (c *comparison) compareAdditionalProperties(old, new *parser.Schema) {
	c.pushProperty("additionalProperties")
	defer c.pop()

	oldSet, newSet := old.AdditionalProperties.Valid(), new.AdditionalProperties.Valid()
	switch {
	case !oldSet && newSet:
		c.log(AddedAdditionalProperties)
	case oldSet && !newSet:
		c.log(RemovedAdditionalProperties)
	case newSet:
		c.compareSchema(old.AdditionalProperties, new.AdditionalProperties, true)
	}
}

func (c *comparison) compareRequired(old, new *parser.Schema) {
	added := stringSetDiff(new.Required, old.Required)
	if len(added) == 0 {
		return
	}
	names := joinStrings(added)
	if c.dir == dirRequest || !old.AdditionalPropertiesAllowed || !new.AdditionalPropertiesAllowed {
		c.log(AddedRequiredProperty, names)
		return
	}
	c.log(AddedRequiredResponseProperty, names)
}
