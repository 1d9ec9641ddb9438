package pathutil

import "strings"

// Local component reference prefixes.
const (
	RefPrefixSchemas       = "#/components/schemas/"
	RefPrefixParameters    = "#/components/parameters/"
	RefPrefixResponses     = "#/components/responses/"
	RefPrefixRequestBodies = "#/components/requestBodies/"
	RefPrefixHeaders       = "#/components/headers/"
)

// SchemaRef builds "#/components/schemas/{name}".
func SchemaRef(name string) string {
	return RefPrefixSchemas + EscapePointerToken(name)
}

// ParameterRef builds "#/components/parameters/{name}".
func ParameterRef(name string) string {
	return RefPrefixParameters + EscapePointerToken(name)
}

// ResponseRef builds "#/components/responses/{name}".
func ResponseRef(name string) string {
	return RefPrefixResponses + EscapePointerToken(name)
}

// RequestBodyRef builds "#/components/requestBodies/{name}".
func RequestBodyRef(name string) string {
	return RefPrefixRequestBodies + EscapePointerToken(name)
}

// ComponentName extracts the component name from a local reference of the
// form prefix+name. References pointing anywhere else, including deeper into
// a component, are rejected.
func ComponentName(ref, prefix string) (string, bool) {
	name, ok := strings.CutPrefix(ref, prefix)
	if !ok || name == "" || strings.Contains(name, "/") {
		return "", false
	}
	return UnescapePointerToken(name), true
}
