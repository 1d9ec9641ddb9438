package pathutil

import (
	"regexp"
	"strconv"
	"strings"

	"go.yaml.in/yaml/v4"
)

type stepKind uint8

const (
	stepProperty stepKind = iota
	stepParameterByName
	stepServerByURL
	stepPathTemplate
)

type step struct {
	kind  stepKind
	value string
}

// ObjectPath records the location of a comparison as a sequence of steps.
// Literal property steps always render. The other steps are predicates
// evaluated against a concrete document tree; a predicate that matches
// nothing makes the whole path absent for that document.
//
// ObjectPath is immutable: every Append method returns a new value and never
// shares its backing array with the receiver.
type ObjectPath struct {
	steps []step
}

// Empty returns the path of the document root.
func Empty() ObjectPath { return ObjectPath{} }

func (p ObjectPath) append(s step) ObjectPath {
	steps := make([]step, len(p.steps)+1)
	copy(steps, p.steps)
	steps[len(p.steps)] = s
	return ObjectPath{steps: steps}
}

// AppendProperty appends a literal object key or array index.
func (p ObjectPath) AppendProperty(name string) ObjectPath {
	return p.append(step{kind: stepProperty, value: name})
}

// AppendParameterByName appends the index of the parameter called name in
// the current parameters array. Entries that are $refs are resolved before
// their name is read.
func (p ObjectPath) AppendParameterByName(name string) ObjectPath {
	return p.append(step{kind: stepParameterByName, value: name})
}

// AppendServerByURL appends the index of the server whose url equals url.
func (p ObjectPath) AppendServerByURL(url string) ObjectPath {
	return p.append(step{kind: stepServerByURL, value: url})
}

// AppendPathTemplate appends the key of the paths object whose normalized
// form (see OpenAPIPathName) equals normalized.
func (p ObjectPath) AppendPathTemplate(normalized string) ObjectPath {
	return p.append(step{kind: stepPathTemplate, value: normalized})
}

// Len returns the number of steps.
func (p ObjectPath) Len() int { return len(p.steps) }

// String renders the steps without evaluating predicates. Intended for
// logging and debugging only.
func (p ObjectPath) String() string {
	var b strings.Builder
	b.WriteByte('#')
	for _, s := range p.steps {
		b.WriteByte('/')
		switch s.kind {
		case stepParameterByName:
			b.WriteString("[name=" + s.value + "]")
		case stepServerByURL:
			b.WriteString("[url=" + s.value + "]")
		case stepPathTemplate:
			b.WriteString("[path=" + s.value + "]")
		default:
			b.WriteString(EscapePointerToken(s.value))
		}
	}
	return b.String()
}

var pathParamPattern = regexp.MustCompile(`\{\w*\}`)

// OpenAPIPathName normalizes a path template so that templates differing only
// in parameter names compare equal: "/pets/{id}" and "/pets/{petId}" both
// become "/pets/{}".
func OpenAPIPathName(path string) string {
	return pathParamPattern.ReplaceAllString(path, "{}")
}

// Hop is one position of a path replayed against a document tree.
type Hop struct {
	// Token is the rendered step. It is empty when Found is false.
	Token string
	// Found is false when a predicate step matched nothing.
	Found bool
	// Node is the node reached, or nil when the step leads nowhere.
	Node *yaml.Node
	// Ref is the $ref followed to reach Node, if any.
	Ref string
}

// Complete replays the path against root and returns one hop per step,
// preceded by the root hop "#".
func (p ObjectPath) Complete(root *yaml.Node) []Hop {
	root = documentContent(root)
	trail := make([]Hop, 0, len(p.steps)+1)
	trail = append(trail, Hop{Token: "#", Found: true, Node: root})

	for _, s := range p.steps {
		cur := trail[len(trail)-1].Node
		token, found := evalStep(root, cur, s)
		if !found && s.kind == stepParameterByName {
			trail, token, found = pathLevelParameter(root, trail, s.value)
			cur = trail[len(trail)-1].Node
		}
		if !found {
			trail = append(trail, Hop{})
			continue
		}
		node, ref := child(root, cur, token)
		trail = append(trail, Hop{Token: token, Found: true, Node: node, Ref: ref})
	}
	return trail
}

// JSONPointer renders the path against root. When resolve is true, the
// pointer prefix is replaced by the $ref target each time a step goes
// through a reference. The second result is false when a predicate step
// cannot be satisfied in this document.
func (p ObjectPath) JSONPointer(root *yaml.Node, resolve bool) (string, bool) {
	if root == nil {
		return "", false
	}
	var b strings.Builder
	for i, h := range p.Complete(root) {
		if !h.Found {
			return "", false
		}
		if resolve && h.Ref != "" {
			b.Reset()
			b.WriteString(h.Ref)
		}
		if i > 0 || b.Len() > 0 {
			b.WriteByte('/')
		}
		if i == 0 {
			b.WriteString(h.Token)
			continue
		}
		b.WriteString(EscapePointerToken(h.Token))
	}
	return b.String(), true
}

// Node returns the node the path ends on. When deepest is true, it returns
// the deepest node that exists along the path instead.
func (p ObjectPath) Node(root *yaml.Node, deepest bool) *yaml.Node {
	if root == nil {
		return nil
	}
	trail := p.Complete(root)
	if !deepest {
		return trail[len(trail)-1].Node
	}
	for i := len(trail) - 1; i >= 0; i-- {
		if trail[i].Node != nil {
			return trail[i].Node
		}
	}
	return nil
}

// Location formats the position of n as "line:column", or "" for nil.
func Location(n *yaml.Node) string {
	if n == nil || n.Line == 0 {
		return ""
	}
	return strconv.Itoa(n.Line) + ":" + strconv.Itoa(n.Column)
}

func evalStep(root, cur *yaml.Node, s step) (string, bool) {
	switch s.kind {
	case stepProperty:
		return s.value, true
	case stepParameterByName:
		return indexWhere(root, cur, "name", s.value)
	case stepServerByURL:
		return indexWhere(root, cur, "url", s.value)
	case stepPathTemplate:
		m := deref(cur)
		if m == nil || m.Kind != yaml.MappingNode {
			return "", false
		}
		for i := 0; i+1 < len(m.Content); i += 2 {
			if key := m.Content[i].Value; OpenAPIPathName(key) == s.value {
				return key, true
			}
		}
	}
	return "", false
}

// indexWhere returns the index of the first element of seq whose field
// equals value, resolving $ref elements first.
func indexWhere(root, seq *yaml.Node, field, value string) (string, bool) {
	seq = deref(seq)
	if seq == nil || seq.Kind != yaml.SequenceNode {
		return "", false
	}
	for i, elem := range seq.Content {
		resolved, _ := followRefs(root, deref(elem))
		if f := mappingValue(resolved, field); f != nil && f.Kind == yaml.ScalarNode && f.Value == value {
			return strconv.Itoa(i), true
		}
	}
	return "", false
}

// pathLevelParameter looks for a parameter that an operation inherits from
// its path item. The trail is expected to end on
// [..., pathItem, operation, parameters]; on success the operation and its
// parameters hops are replaced by the path item's parameters hop.
func pathLevelParameter(root *yaml.Node, trail []Hop, name string) ([]Hop, string, bool) {
	n := len(trail)
	if n < 3 {
		return trail, "", false
	}
	pathItem, _ := followRefs(root, trail[n-3].Node)
	params := mappingValue(pathItem, "parameters")
	token, ok := indexWhere(root, params, "name", name)
	if !ok {
		return trail, "", false
	}
	rewritten := make([]Hop, n-2, n-1)
	copy(rewritten, trail[:n-2])
	rewritten = append(rewritten, Hop{Token: "parameters", Found: true, Node: params})
	return rewritten, token, true
}

// child steps from cur into token. Objects are resolved through $ref first;
// the reference followed is returned alongside the child.
func child(root, cur *yaml.Node, token string) (*yaml.Node, string) {
	cur = deref(cur)
	if cur == nil {
		return nil, ""
	}
	switch cur.Kind {
	case yaml.SequenceNode:
		i, err := strconv.Atoi(token)
		if err != nil || i < 0 || i >= len(cur.Content) {
			return nil, ""
		}
		return cur.Content[i], ""
	case yaml.MappingNode:
		resolved, ref := followRefs(root, cur)
		return mappingValue(resolved, token), ref
	default:
		return nil, ""
	}
}
