package comparator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaDirection(t *testing.T) {
	tests := []struct {
		name   string
		wrap   func(string) string
		old    string
		new    string
		strict bool
		want   []string
		level  ChangeLevel
	}{
		{
			name:  "stronger minimum in response",
			wrap:  responseDoc,
			old:   "{type: integer, minimum: 1}",
			new:   "{type: integer, minimum: 5}",
			want:  []string{"ResponseConstraintIsStronger"},
			level: LevelInfo,
		},
		{
			name:  "stronger minimum in request",
			wrap:  requestParamDoc,
			old:   "{type: integer, minimum: 1}",
			new:   "{type: integer, minimum: 5}",
			want:  []string{"ConstraintIsStronger"},
			level: LevelWarning,
		},
		{
			name:   "stronger minimum in request, strict",
			wrap:   requestParamDoc,
			old:    "{type: integer, minimum: 1}",
			new:    "{type: integer, minimum: 5}",
			strict: true,
			want:   []string{"ConstraintIsStronger"},
			level:  LevelError,
		},
		{
			name:  "removed enum value in request",
			wrap:  requestParamDoc,
			old:   "{type: string, enum: [a, b]}",
			new:   "{type: string, enum: [a]}",
			want:  []string{"RemovedEnumValue", "EnumConstraintIsStronger"},
			level: LevelWarning,
		},
		{
			name:  "added enum value in response",
			wrap:  responseDoc,
			old:   "{type: string, enum: [a]}",
			new:   "{type: string, enum: [a, b]}",
			want:  []string{"AddedEnumValue", "EnumConstraintIsWeaker"},
			level: LevelWarning,
		},
		{
			name:  "added enum value in response modeled as string",
			wrap:  responseDoc,
			old:   "{type: string, enum: [a], x-ms-enum: {name: E, modelAsString: true}}",
			new:   "{type: string, enum: [a, b]}",
			want:  []string{"EnumConstraintIsWeaker"},
			level: LevelInfo,
		},
		{
			name:  "widened integer format in request",
			wrap:  requestParamDoc,
			old:   "{type: integer, format: int32}",
			new:   "{type: integer, format: int64}",
			want:  []string{"WideningTypeFormatChanged"},
			level: LevelInfo,
		},
		{
			name:  "widened integer format in response",
			wrap:  responseDoc,
			old:   "{type: integer, format: int32}",
			new:   "{type: integer, format: int64}",
			want:  []string{"TypeFormatChanged"},
			level: LevelWarning,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := compareDocs(t, tt.wrap(tt.old), tt.wrap(tt.new), tt.strict)
			assert.Equal(t, tt.want, codes(result))
			assert.Equal(t, tt.level, result.Level)
		})
	}
}

func TestSchemaAddedResponseProperty(t *testing.T) {
	tests := []struct {
		name string
		old  string
		new  string
		want string
	}{
		{
			name: "closed object",
			old:  "{type: object, additionalProperties: false, properties: {id: {type: string}}}",
			new:  "{type: object, additionalProperties: false, properties: {id: {type: string}, extra: {type: string}}}",
			want: "AddedBreakingPropertyInResponse",
		},
		{
			name: "open object",
			old:  "{type: object, additionalProperties: true, properties: {id: {type: string}}}",
			new:  "{type: object, additionalProperties: true, properties: {id: {type: string}, extra: {type: string}}}",
			want: "AddedPropertyInResponse",
		},
		{
			name: "read-only property",
			old:  "{type: object, properties: {id: {type: string}}}",
			new:  "{type: object, properties: {id: {type: string}, extra: {type: string, readOnly: true}}}",
			want: "AddedReadOnlyPropertyInResponse",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := compareDocs(t, responseDoc(tt.old), responseDoc(tt.new), false)
			require.Equal(t, []string{tt.want}, codes(result))
			m := result.Messages[0]
			assert.Equal(t, KindAddition, m.Kind)
			assert.True(t, m.Old.IsZero())
			assert.Equal(t, "#/paths/~1items/get/responses/200/content/application~1json/schema/properties/extra", m.New.Ref)
		})
	}
}

func TestSchemaRequestBodyProperties(t *testing.T) {
	t.Run("added required property", func(t *testing.T) {
		result := compareDocs(t,
			requestBodyDoc("{type: object, properties: {id: {type: string}}}"),
			requestBodyDoc("{type: object, required: [name], properties: {id: {type: string}, name: {type: string}}}"),
			false)
		assert.Equal(t, []string{"AddedRequiredProperty"}, codes(result))
	})

	t.Run("added optional property", func(t *testing.T) {
		result := compareDocs(t,
			requestBodyDoc("{type: object, properties: {id: {type: string}}}"),
			requestBodyDoc("{type: object, properties: {id: {type: string}, name: {type: string}}}"),
			false)
		assert.Equal(t, []string{"AddedOptionalProperty"}, codes(result))
	})
}

func TestSchemaTypeChanged(t *testing.T) {
	result := compareDocs(t,
		requestParamDoc("{type: string}"),
		requestParamDoc("{type: integer}"),
		false)
	m := findMessage(t, result, "TypeChanged")
	assert.Equal(t, "The new version has a different type 'integer' than the previous one 'string'.", m.Message)
	assert.Equal(t, "#/paths/~1items/get/parameters/0/schema/type", m.Old.Ref)
}

func TestSchemaCycle(t *testing.T) {
	doc := func(nameSchema string) string {
		return responseDoc(`{$ref: "#/components/schemas/Node"}`) + `components:
  schemas:
    Node:
      type: object
      properties:
        name: ` + nameSchema + `
        children:
          type: array
          items: {$ref: "#/components/schemas/Node"}
`
	}

	result := compareDocs(t, doc("{type: string}"), doc("{type: string, maxLength: 10}"), false)
	assert.Equal(t, []string{"ResponseConstraintIsStronger", "ResponseConstraintIsStronger"}, codes(result))
}

func TestCompareBound(t *testing.T) {
	one, five := 1.0, 5.0

	tests := []struct {
		name       string
		old, new   *float64
		lowerBound bool
		dir        direction
		want       []string
	}{
		{"added minimum in request", nil, &five, true, dirRequest, []string{"ConstraintIsStronger"}},
		{"raised minimum in response", &one, &five, true, dirResponse, []string{"ResponseConstraintIsStronger"}},
		{"lowered minimum in request", &five, &one, true, dirRequest, []string{"RequestConstraintIsWeaker"}},
		{"lowered minimum in response", &five, &one, true, dirResponse, []string{"ConstraintIsWeaker"}},
		{"removed maximum in response", &five, nil, false, dirResponse, []string{"ConstraintIsWeaker"}},
		{"lowered maximum in request", &five, &one, false, dirRequest, []string{"ConstraintIsStronger"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newComparison(nil, nil, false, nil)
			c.dir = tt.dir
			compareBound(c, "minimum", tt.old, tt.new, tt.lowerBound, false)
			assert.Equal(t, tt.want, codes(&Result{Messages: c.messages}))
		})
	}

	t.Run("exclusive flag flip", func(t *testing.T) {
		c := newComparison(nil, nil, false, nil)
		compareBound(c, "maximum", &one, &one, false, true)
		assert.Equal(t, []string{"ConstraintChanged"}, codes(&Result{Messages: c.messages}))
	})
}

func TestNarrowsWidens(t *testing.T) {
	one, five := 1, 5
	assert.False(t, narrows[int](nil, nil, true))
	assert.True(t, narrows(nil, &one, false))
	assert.False(t, narrows(&one, nil, false))
	assert.True(t, narrows(&one, &five, true))
	assert.True(t, narrows(&five, &one, false))

	assert.False(t, widens[int](nil, &one, true))
	assert.True(t, widens(&one, nil, true))
	assert.True(t, widens(&five, &one, true))
	assert.True(t, widens(&one, &five, false))
}

// withComponents appends schemas, indented under components/schemas, to doc.
func withComponents(doc, schemas string) string {
	return doc + "components:\n  schemas:\n" + schemas
}

func TestSchemaRules(t *testing.T) {
	tests := []struct {
		name string
		wrap func(string) string
		old  string
		new  string
		want []string
		at   string
	}{
		{
			name: "readOnly set",
			wrap: responseDoc,
			old:  "{type: string}",
			new:  "{type: string, readOnly: true}",
			want: []string{"ReadonlyPropertyChanged"},
			at:   "readOnly",
		},
		{
			name: "nullable set",
			wrap: requestParamDoc,
			old:  "{type: string}",
			new:  "{type: string, nullable: true}",
			want: []string{"NullablePropertyChanged"},
			at:   "nullable",
		},
		{
			name: "discriminator added",
			wrap: responseDoc,
			old:  "{type: object, properties: {kind: {type: string}}}",
			new:  "{type: object, discriminator: {propertyName: kind}, properties: {kind: {type: string}}}",
			want: []string{"DifferentDiscriminator"},
			at:   "discriminator",
		},
		{
			name: "discriminator renamed",
			wrap: responseDoc,
			old:  "{type: object, discriminator: {propertyName: kind}}",
			new:  "{type: object, discriminator: {propertyName: type}}",
			want: []string{"DifferentDiscriminator"},
			at:   "discriminator",
		},
		{
			name: "default changed",
			wrap: requestParamDoc,
			old:  "{type: string, default: a}",
			new:  "{type: string, default: b}",
			want: []string{"DefaultValueChanged"},
			at:   "default",
		},
		{
			name: "multipleOf changed",
			wrap: requestParamDoc,
			old:  "{type: integer, multipleOf: 2}",
			new:  "{type: integer, multipleOf: 3}",
			want: []string{"MultipleOfConstraintChanged"},
			at:   "multipleOf",
		},
		{
			name: "uniqueItems set",
			wrap: requestParamDoc,
			old:  "{type: array, items: {type: string}}",
			new:  "{type: array, items: {type: string}, uniqueItems: true}",
			want: []string{"UniqueItemsConstraintChanged"},
			at:   "uniqueItems",
		},
		{
			name: "pattern changed",
			wrap: requestParamDoc,
			old:  `{type: string, pattern: "^a"}`,
			new:  `{type: string, pattern: "^b"}`,
			want: []string{"PatternConstraintChanged"},
			at:   "pattern",
		},
		{
			name: "additionalProperties added",
			wrap: responseDoc,
			old:  "{type: object}",
			new:  "{type: object, additionalProperties: {type: string}}",
			want: []string{"AddedAdditionalProperties"},
			at:   "additionalProperties",
		},
		{
			name: "additionalProperties removed",
			wrap: responseDoc,
			old:  "{type: object, additionalProperties: {type: string}}",
			new:  "{type: object}",
			want: []string{"RemovedAdditionalProperties"},
			at:   "additionalProperties",
		},
		{
			name: "property removed",
			wrap: responseDoc,
			old:  "{type: object, properties: {id: {type: string}, name: {type: string}}}",
			new:  "{type: object, properties: {id: {type: string}}}",
			want: []string{"RemovedProperty"},
			at:   "properties/name",
		},
		{
			name: "required added to open response object",
			wrap: responseDoc,
			old:  "{type: object, properties: {id: {type: string}}}",
			new:  "{type: object, required: [id], properties: {id: {type: string}}}",
			want: []string{"AddedRequiredResponseProperty"},
		},
		{
			name: "required added to closed response object",
			wrap: responseDoc,
			old:  "{type: object, additionalProperties: false, properties: {id: {type: string}}}",
			new:  "{type: object, additionalProperties: false, required: [id], properties: {id: {type: string}}}",
			want: []string{"AddedRequiredProperty"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := compareDocs(t, tt.wrap(tt.old), tt.wrap(tt.new), false)
			require.Equal(t, tt.want, codes(result))
			if tt.at != "" {
				m := result.Messages[0]
				ref := m.New.Ref
				if m.Kind == KindRemoval {
					ref = m.Old.Ref
				}
				assert.True(t, strings.HasSuffix(ref, "/schema/"+tt.at), "%q does not end in %s", ref, tt.at)
			}
		})
	}
}

func TestSchemaAddedAndRemoved(t *testing.T) {
	doc := func(media string) string {
		return docHeader + `paths:
  /items:
    get:
      responses:
        "200":
          description: ok
          content:
            application/json: ` + media + "\n"
	}
	bare, typed := doc("{}"), doc("{schema: {type: string}}")

	assert.Equal(t, []string{"AddedSchema"}, codes(compareDocs(t, bare, typed, false)))
	assert.Equal(t, []string{"RemovedDefinition"}, codes(compareDocs(t, typed, bare, false)))
	assert.Empty(t, codes(compareDocs(t, bare, bare, false)))
}

func TestSchemaComposition(t *testing.T) {
	const components = `    A: {type: string}
    B: {type: integer}
`
	a, b := `{$ref: "#/components/schemas/A"}`, `{$ref: "#/components/schemas/B"}`

	tests := []struct {
		name     string
		old, new string
		want     []string
	}{
		{"allOf ref replaced", "{allOf: [" + a + "]}", "{allOf: [" + b + "]}", []string{"DifferentAllOf"}},
		{"allOf ref added", "{allOf: [" + a + "]}", "{allOf: [" + a + ", " + b + "]}", []string{"DifferentAllOf"}},
		{"allOf inline member added", "{type: object}", "{type: object, allOf: [{type: object}]}", []string{}},
		{"allOf inline member dropped", "{allOf: [" + a + ", {type: object}]}", "{allOf: [" + a + "]}", []string{}},
		{"allOf ref introduced", "{type: object}", "{type: object, allOf: [" + a + "]}", []string{"DifferentAllOf"}},
		{"oneOf ref replaced", "{oneOf: [" + a + "]}", "{oneOf: [" + b + "]}", []string{"DifferentOneOf"}},
		{"oneOf inline member added", "{oneOf: [" + a + "]}", "{oneOf: [" + a + ", {type: object}]}", []string{}},
		{"oneOf unchanged", "{oneOf: [" + a + ", " + b + "]}", "{oneOf: [" + a + ", " + b + "]}", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := compareDocs(t,
				withComponents(responseDoc(tt.old), components),
				withComponents(responseDoc(tt.new), components),
				false)
			assert.Equal(t, tt.want, codes(result))
		})
	}

	t.Run("oneOf common refs are compared", func(t *testing.T) {
		schema := "{oneOf: [" + a + ", " + b + "]}"
		result := compareDocs(t,
			withComponents(responseDoc(schema), components),
			withComponents(responseDoc(schema), "    A: {type: string, maxLength: 5}\n    B: {type: integer}\n"),
			false)
		// once under oneOf/0, once under components/schemas/A
		assert.Equal(t, []string{"ResponseConstraintIsStronger", "ResponseConstraintIsStronger"}, codes(result))
		assert.NotContains(t, codes(result), "DifferentOneOf")
	})
}

func TestSchemaMutualCycle(t *testing.T) {
	doc := func(labelSchema string) string {
		return withComponents(responseDoc(`{$ref: "#/components/schemas/A"}`), `    A:
      type: object
      properties:
        b: {$ref: "#/components/schemas/B"}
    B:
      type: object
      properties:
        label: `+labelSchema+`
        a: {$ref: "#/components/schemas/A"}
`)
	}

	same := compareDocs(t, doc("{type: string}"), doc("{type: string}"), false)
	assert.Empty(t, codes(same))

	// once through the operation, once under components/schemas/B
	result := compareDocs(t, doc("{type: string}"), doc("{type: string, maxLength: 10}"), false)
	assert.Equal(t, []string{"ResponseConstraintIsStronger", "ResponseConstraintIsStronger"}, codes(result))
}

// A schema reached from a response and then from a request is compared
// again in both directions, where a narrowed bound is only informational.
func TestSchemaDirectionWidensToBoth(t *testing.T) {
	doc := func(schema string) string {
		return docHeader + `paths:
  /items:
    get:
      responses:
        "200":
          description: ok
          content:
            application/json:
              schema: {$ref: "#/components/schemas/Count"}
    post:
      requestBody:
        content:
          application/json:
            schema: {$ref: "#/components/schemas/Count"}
      responses:
        "201":
          description: created
components:
  schemas:
    Count: ` + schema + "\n"
	}

	result := compareDocs(t, doc("{type: integer, minimum: 1}"), doc("{type: integer, minimum: 5}"), false)
	assert.Equal(t, []string{
		"ResponseConstraintIsStronger", // GET response
		"ResponseConstraintIsStronger", // POST request body, widened to both
		"ResponseConstraintIsStronger", // components/schemas/Count
	}, codes(result))
	assert.Equal(t, LevelInfo, result.Level)
}
