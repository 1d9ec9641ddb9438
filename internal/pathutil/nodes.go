package pathutil

import (
	"strconv"
	"strings"

	"go.yaml.in/yaml/v4"
)

// maxRefHops bounds $ref chains so that a reference cycle made only of
// $ref objects cannot loop forever.
const maxRefHops = 32

// EscapePointerToken escapes a JSON Pointer reference token (RFC 6901).
func EscapePointerToken(token string) string {
	if !strings.ContainsAny(token, "~/") {
		return token
	}
	return strings.ReplaceAll(strings.ReplaceAll(token, "~", "~0"), "/", "~1")
}

// UnescapePointerToken reverses EscapePointerToken.
func UnescapePointerToken(token string) string {
	if !strings.Contains(token, "~") {
		return token
	}
	return strings.ReplaceAll(strings.ReplaceAll(token, "~1", "/"), "~0", "~")
}

// ResolvePointer walks a local JSON Pointer such as "#/components/schemas/Pet"
// from root. It returns nil when the pointer is not local or leads nowhere.
// Intermediate $ref objects are followed.
func ResolvePointer(root *yaml.Node, pointer string) *yaml.Node {
	node, _ := resolvePointer(documentContent(root), pointer, 0)
	return node
}

func resolvePointer(root *yaml.Node, pointer string, depth int) (*yaml.Node, bool) {
	if root == nil || depth > maxRefHops || !strings.HasPrefix(pointer, "#") {
		return nil, false
	}
	cur := root
	for _, raw := range strings.Split(pointer, "/") {
		if raw == "#" {
			continue
		}
		cur = deref(cur)
		if cur == nil {
			return nil, false
		}
		token := UnescapePointerToken(raw)
		switch cur.Kind {
		case yaml.MappingNode:
			if ref := refValue(cur); ref != "" {
				var ok bool
				if cur, ok = resolvePointer(root, ref, depth+1); !ok {
					return nil, false
				}
			}
			cur = mappingValue(cur, token)
		case yaml.SequenceNode:
			i, err := strconv.Atoi(token)
			if err != nil || i < 0 || i >= len(cur.Content) {
				return nil, false
			}
			cur = cur.Content[i]
		default:
			return nil, false
		}
	}
	return cur, cur != nil
}

// followRefs resolves n through its $ref chain. It returns the final node and
// the last reference followed, or n itself and "" when n is not a $ref.
func followRefs(root, n *yaml.Node) (*yaml.Node, string) {
	n = deref(n)
	last := ""
	for i := 0; i < maxRefHops; i++ {
		ref := refValue(n)
		if ref == "" {
			return n, last
		}
		last = ref
		target, ok := resolvePointer(root, ref, 0)
		if !ok {
			return nil, last
		}
		n = deref(target)
	}
	return nil, last
}

func refValue(n *yaml.Node) string {
	v := mappingValue(n, "$ref")
	if v == nil || v.Kind != yaml.ScalarNode {
		return ""
	}
	return v.Value
}

// mappingValue returns the value stored under key in mapping n.
func mappingValue(n *yaml.Node, key string) *yaml.Node {
	n = deref(n)
	if n == nil || n.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			return deref(n.Content[i+1])
		}
	}
	return nil
}

func deref(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	return n
}

func documentContent(n *yaml.Node) *yaml.Node {
	if n != nil && n.Kind == yaml.DocumentNode {
		if len(n.Content) == 0 {
			return nil
		}
		return deref(n.Content[0])
	}
	return deref(n)
}
