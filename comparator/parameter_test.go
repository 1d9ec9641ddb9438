package comparator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/criteo/openapi-comparator/internal/testutil"
	"github.com/criteo/openapi-comparator/parser"
)

func paramsDoc(params string) string {
	return docHeader + `paths:
  /items:
    get:
      parameters:
` + params + `      responses:
        "200": {description: ok}
`
}

func TestCompareParameters(t *testing.T) {
	tests := []struct {
		name string
		old  string
		new  string
		want []string
	}{
		{
			name: "reordered",
			old: `        - {name: a, in: query, schema: {type: string}}
        - {name: b, in: query, schema: {type: string}}
`,
			new: `        - {name: b, in: query, schema: {type: string}}
        - {name: a, in: query, schema: {type: string}}
`,
			want: []string{"ChangedParameterOrder", "ChangedParameterOrder"},
		},
		{
			name: "location changed",
			old: `        - {name: a, in: query, schema: {type: string}}
`,
			new: `        - {name: a, in: header, schema: {type: string}}
`,
			want: []string{"ParameterInHasChanged", "ParameterStyleChanged"},
		},
		{
			name: "added required",
			old: `        - {name: a, in: query, schema: {type: string}}
`,
			new: `        - {name: a, in: query, schema: {type: string}}
        - {name: b, in: query, required: true, schema: {type: string}}
`,
			want: []string{"AddingRequiredParameter"},
		},
		{
			name: "added optional",
			old: `        - {name: a, in: query, schema: {type: string}}
`,
			new: `        - {name: a, in: query, schema: {type: string}}
        - {name: b, in: query, schema: {type: string}}
`,
			want: []string{"AddingOptionalParameter"},
		},
		{
			name: "removed optional",
			old: `        - {name: a, in: query, schema: {type: string}}
        - {name: b, in: query, schema: {type: string}}
`,
			new: `        - {name: a, in: query, schema: {type: string}}
`,
			want: []string{},
		},
		{
			name: "became required",
			old: `        - {name: a, in: query, schema: {type: string}}
`,
			new: `        - {name: a, in: query, required: true, schema: {type: string}}
`,
			want: []string{"RequiredStatusAdded"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := compareDocs(t, paramsDoc(tt.old), paramsDoc(tt.new), false)
			assert.Equal(t, tt.want, codes(result))
		})
	}
}

func TestRequiredStatusMessage(t *testing.T) {
	result := compareDocs(t,
		paramsDoc("        - {name: a, in: query, schema: {type: string}}\n"),
		paramsDoc("        - {name: a, in: query, required: true, schema: {type: string}}\n"),
		false)
	require.Len(t, result.Messages, 1)
	m := result.Messages[0]
	assert.Equal(t, "The 'required' status changed from the old version('false') to the new version('true').", m.Message)
	assert.Equal(t, "#/paths/~1items/get/parameters/0/required", m.New.Ref)
}

func TestPathLevelParameterReportedOnce(t *testing.T) {
	doc := func(maxLength string) string {
		return docHeader + `paths:
  /items/{id}:
    parameters:
      - name: id
        in: path
        required: true
        schema: {type: string` + maxLength + `}
    get:
      responses:
        "200": {description: ok}
    delete:
      responses:
        "204": {description: gone}
`
	}

	result := compareDocs(t, doc(""), doc(", maxLength: 10"), false)
	require.Equal(t, []string{"ConstraintIsStronger"}, codes(result))
	assert.Equal(t, "#/paths/~1items~1{id}/parameters/0/schema/maxLength", result.Messages[0].New.Ref)
}

func TestParameterReferenceRedirection(t *testing.T) {
	doc := func(ref string) string {
		return docHeader + `paths:
  /items:
    get:
      parameters:
        - $ref: "#/components/parameters/` + ref + `"
      responses:
        "200": {description: ok}
components:
  parameters:
    A: {name: q, in: query, schema: {type: string}}
    B: {name: q, in: query, schema: {type: string}}
`
	}
	result := compareDocs(t, doc("A"), doc("B"), false)
	assert.Equal(t, []string{"ReferenceRedirection"}, codes(result))
}

func TestConstantStatusChanged(t *testing.T) {
	result := compareDocs(t,
		paramsDoc("        - {name: v, in: query, required: true, schema: {type: string, enum: [x]}}\n"),
		paramsDoc("        - {name: v, in: query, required: true, schema: {type: string, enum: [x, y]}}\n"),
		false)
	assert.Contains(t, codes(result), "ConstantStatusHasChanged")
}

func TestFindParameter(t *testing.T) {
	mk := func(name string, in parser.ParameterLocation, required bool) param {
		p := &parser.Parameter{Name: name, In: in, Required: required}
		return param{raw: p, resolved: p}
	}

	query := mk("id", parser.LocationQuery, false)
	header := mk("id", parser.LocationHeader, true)
	list := []param{header, query}

	got, ok := findParameter(mk("id", parser.LocationQuery, false), list)
	require.True(t, ok)
	assert.Same(t, query.raw, got.raw)

	got, ok = findParameter(mk("id", parser.LocationHeader, true), list)
	require.True(t, ok)
	assert.Same(t, header.raw, got.raw)

	_, ok = findParameter(mk("other", parser.LocationQuery, false), list)
	assert.False(t, ok)

	single := []param{header}
	got, ok = findParameter(mk("id", parser.LocationCookie, false), single)
	require.True(t, ok)
	assert.Same(t, header.raw, got.raw)
}

func TestEffectiveParams(t *testing.T) {
	doc := testutil.Document(t, testutil.MinimalDocument)
	c := newComparison(doc, doc, false, nil)

	own := []*parser.Parameter{{Name: "id", In: parser.LocationPath, Required: true}}
	shared := []*parser.Parameter{
		{Name: "id", In: parser.LocationPath, Required: true},
		{Name: "trace", In: parser.LocationHeader},
	}

	got := c.effectiveParams(doc, "old", own, shared)
	require.Len(t, got, 2)
	assert.Same(t, own[0], got[0].raw)
	assert.False(t, got[0].inherited)
	assert.Same(t, shared[1], got[1].raw)
	assert.True(t, got[1].inherited)
}

func TestResolveParamsDropsDangling(t *testing.T) {
	doc := testutil.Document(t, testutil.MinimalDocument)
	c := newComparison(doc, doc, false, nil)

	list := []*parser.Parameter{
		{Ref: "#/components/parameters/Missing"},
		{Name: "q", In: parser.LocationQuery},
	}
	got := c.resolveParams(doc, "new", list, false)
	require.Len(t, got, 1)
	assert.Equal(t, "q", got[0].resolved.Name)
}
