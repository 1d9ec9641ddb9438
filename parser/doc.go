// Package parser loads OpenAPI documents for comparison.
//
// Documents are read from a file, a URL, a byte slice or a reader, in JSON
// or YAML. OpenAPI 3.0 and 3.1 are decoded directly; Swagger 2.0 documents
// are converted to OpenAPI 3 with kin-openapi first.
//
// # Document model
//
// A Document is a typed view of the fields the comparator reads. Schemas are
// stored in an arena owned by the document and addressed by SchemaID, which
// gives every schema a stable identity. References are never inlined:
//
//	result, err := parser.ParseWithOptions(parser.WithFilePath("api.yaml"))
//	if err != nil {
//		log.Fatal(err)
//	}
//	doc := result.Document
//	id, _ := doc.Components.Schemas.Get("Pet")
//	if target, ok := doc.ResolveSchema(id); ok {
//		fmt.Println(doc.Schema(target).Type)
//	}
//
// The raw node tree is kept in Document.Root so that locations and JSON
// pointers can be rendered against the source.
//
// # Diagnostics
//
// Decoding is lenient: a value with the wrong shape is skipped and reported
// in ParseResult.Diagnostics. WithValidateStructure adds the findings of
// kin-openapi's structural validation to the same list. Only unreadable
// input, an unknown version or a non-object root fail with a
// *oaserrors.ParseError.
//
// The x-ms-paths extension is the exception: it is decoded strictly into
// Document.CustomPaths, and a malformed payload is recorded in
// Document.CustomPathsErr for the comparator to report.
package parser
