package parser

import (
	"iter"
	"time"

	"go.yaml.in/yaml/v4"

	"github.com/criteo/openapi-comparator/internal/pathutil"
)

func resolveAlias(n *yaml.Node) *yaml.Node {
	for i := 0; n != nil && n.Kind == yaml.AliasNode && i < 64; i++ {
		n = n.Alias
	}
	if n != nil && n.Kind == yaml.AliasNode {
		return nil
	}
	return n
}

// contentNode unwraps a document node.
func contentNode(n *yaml.Node) *yaml.Node {
	if n != nil && n.Kind == yaml.DocumentNode {
		if len(n.Content) == 0 {
			return nil
		}
		return resolveAlias(n.Content[0])
	}
	return resolveAlias(n)
}

// lookup returns the value stored under key in mapping n.
func lookup(n *yaml.Node, key string) *yaml.Node {
	n = resolveAlias(n)
	if n == nil || n.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			return resolveAlias(n.Content[i+1])
		}
	}
	return nil
}

func joinPointer(ptr, token string) string {
	return ptr + "/" + pathutil.EscapePointerToken(token)
}

// nodeValue converts a node to plain Go values: map[string]any, []any,
// string, bool, int, float64 or nil. Timestamps are kept as written.
func nodeValue(n *yaml.Node) any {
	return nodeValueDepth(n, 0)
}

func nodeValueDepth(n *yaml.Node, depth int) any {
	n = resolveAlias(n)
	if n == nil || depth > 256 {
		return nil
	}
	switch n.Kind {
	case yaml.DocumentNode:
		return nodeValueDepth(contentNode(n), depth+1)
	case yaml.MappingNode:
		m := make(map[string]any, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			m[n.Content[i].Value] = nodeValueDepth(n.Content[i+1], depth+1)
		}
		return m
	case yaml.SequenceNode:
		s := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			s = append(s, nodeValueDepth(c, depth+1))
		}
		return s
	case yaml.ScalarNode:
		var v any
		if err := n.Decode(&v); err != nil {
			return n.Value
		}
		if _, ok := v.(time.Time); ok {
			return n.Value
		}
		return v
	default:
		return nil
	}
}

// pairs iterates over the entries of mapping n, resolving aliases. It yields
// nothing when n is not a mapping.
func pairs(n *yaml.Node) iter.Seq2[string, *yaml.Node] {
	return func(yield func(string, *yaml.Node) bool) {
		n = resolveAlias(n)
		if n == nil || n.Kind != yaml.MappingNode {
			return
		}
		for i := 0; i+1 < len(n.Content); i += 2 {
			if !yield(n.Content[i].Value, resolveAlias(n.Content[i+1])) {
				return
			}
		}
	}
}
