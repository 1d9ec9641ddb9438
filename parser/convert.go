package parser

import (
	"encoding/json"
	"fmt"

	"github.com/getkin/kin-openapi/openapi2"
	"github.com/getkin/kin-openapi/openapi2conv"
	"go.yaml.in/yaml/v4"
)

type convertedDocument struct {
	data []byte
	root *yaml.Node
}

// convertSwagger2 converts a Swagger 2.0 tree to OpenAPI 3 with kin-openapi.
// The result is re-read as a node tree so the rest of the loader treats it
// like any other 3.x document.
func convertSwagger2(root *yaml.Node) (*convertedDocument, error) {
	raw, err := json.Marshal(nodeValue(root))
	if err != nil {
		return nil, fmt.Errorf("encoding swagger document: %w", err)
	}
	var doc2 openapi2.T
	if err := json.Unmarshal(raw, &doc2); err != nil {
		return nil, fmt.Errorf("decoding swagger document: %w", err)
	}
	doc3, err := openapi2conv.ToV3(&doc2)
	if err != nil {
		return nil, err
	}
	data, err := json.MarshalIndent(doc3, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding converted document: %w", err)
	}

	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("reading converted document: %w", err)
	}
	top := contentNode(&node)
	if top == nil || top.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("converted document is not an object")
	}
	return &convertedDocument{data: data, root: top}, nil
}
