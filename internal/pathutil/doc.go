// Package pathutil tracks where a comparison currently is and renders that
// location against the raw YAML/JSON tree of each compared document.
//
// The primary type is [ObjectPath], an immutable list of steps. A step is
// either a literal key or a predicate evaluated against the document:
//
//	path := pathutil.Empty().
//		AppendProperty("paths").
//		AppendPathTemplate(pathutil.OpenAPIPathName("/pets/{id}")).
//		AppendProperty("get").
//		AppendProperty("parameters").
//		AppendParameterByName("limit")
//
//	ptr, ok := path.JSONPointer(root, false)      // "#/paths/~1pets~1{petId}/get/parameters/1"
//	resolved, _ := path.JSONPointer(root, true)   // prefix replaced by the last $ref followed
//
// Rendering follows $ref objects transparently. A predicate that matches
// nothing yields ok == false, which is how a finding about an added element
// gets no path in the old document.
//
// The package also carries component reference helpers ([SchemaRef],
// [ComponentName]) and [SanitizeOutputPath] for command output files.
package pathutil
