package comparator

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/criteo/openapi-comparator/parser"
)

var (
	lower = cases.Lower(language.Und)
	fold  = cases.Fold()
)

// differs reports whether two optional scalars differ. Two absent values are
// equal; an absent and a present value always differ.
func differs[T comparable](old, new *T) bool {
	if old == nil || new == nil {
		return old != new
	}
	return *old != *new
}

// literalsDiffer compares two optional literals. Literals of different kinds
// always differ. Unsupported literals (objects and arrays) never do.
func literalsDiffer(old, new *parser.Literal) bool {
	if old == nil || new == nil {
		return old != new
	}
	if old.Kind() != new.Kind() {
		return true
	}
	switch old.Kind() {
	case parser.LiteralNull:
		return false
	case parser.LiteralString:
		return old.StringValue() != new.StringValue()
	case parser.LiteralInteger:
		return old.IntegerValue() != new.IntegerValue()
	case parser.LiteralFloat:
		return old.FloatValue() != new.FloatValue()
	case parser.LiteralBoolean:
		return old.BooleanValue() != new.BooleanValue()
	case parser.LiteralDate:
		return !old.DateValue().Equal(new.DateValue())
	case parser.LiteralUnsupported:
		return false
	default:
		return false
	}
}

// missingFrom returns the values of from that have no equal counterpart in in.
func missingFrom(from, in []parser.Literal) []parser.Literal {
	var out []parser.Literal
	for i := range from {
		found := false
		for j := range in {
			if !literalsDiffer(&from[i], &in[j]) {
				found = true
				break
			}
		}
		if !found {
			out = append(out, from[i])
		}
	}
	return out
}

func joinLiterals(values []parser.Literal) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = v.String()
	}
	return strings.Join(parts, ", ")
}

// extensionFlag reads a boolean field of an object-valued extension, such as
// modelAsString in x-ms-enum.
func extensionFlag(ext map[string]any, name, field string) bool {
	obj, ok := ext[name].(map[string]any)
	if !ok {
		return false
	}
	v, _ := obj[field].(bool)
	return v
}

// stringSetDiff returns the elements of a missing from b, in order, without
// duplicates.
func stringSetDiff(a, b []string) []string {
	in := make(map[string]struct{}, len(b))
	for _, s := range b {
		in[s] = struct{}{}
	}
	var out []string
	seen := make(map[string]struct{})
	for _, s := range a {
		if _, ok := in[s]; ok {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

func joinStrings(values []string) string {
	return strings.Join(values, ", ")
}
