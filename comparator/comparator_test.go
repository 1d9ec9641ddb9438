package comparator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/criteo/openapi-comparator/internal/severity"
	"github.com/criteo/openapi-comparator/internal/testutil"
	"github.com/criteo/openapi-comparator/oaserrors"
	"github.com/criteo/openapi-comparator/parser"
)

const docHeader = `openapi: 3.0.3
info:
  title: Test
  version: 1.0.0
`

// responseDoc puts schema in the 200 response of GET /items.
func responseDoc(schema string) string {
	return docHeader + `paths:
  /items:
    get:
      responses:
        "200":
          description: ok
          content:
            application/json:
              schema: ` + schema + "\n"
}

// requestParamDoc puts schema on the optional query parameter q of GET /items.
func requestParamDoc(schema string) string {
	return docHeader + `paths:
  /items:
    get:
      parameters:
        - name: q
          in: query
          schema: ` + schema + `
      responses:
        "200":
          description: ok
`
}

// requestBodyDoc puts schema in the JSON request body of POST /items.
func requestBodyDoc(schema string) string {
	return docHeader + `paths:
  /items:
    post:
      requestBody:
        content:
          application/json:
            schema: ` + schema + `
      responses:
        "201":
          description: created
`
}

func compareDocs(t *testing.T, old, new string, strict bool) *Result {
	t.Helper()
	c := New()
	c.Strict = strict
	result, err := c.Compare(testutil.Document(t, old), testutil.Document(t, new))
	require.NoError(t, err)
	return result
}

func codes(r *Result) []string {
	out := make([]string, 0, len(r.Messages))
	for _, m := range r.Messages {
		out = append(out, m.Code)
	}
	return out
}

func findMessage(t *testing.T, r *Result, code string) Message {
	t.Helper()
	for _, m := range r.Messages {
		if m.Code == code {
			return m
		}
	}
	t.Fatalf("no %s message in %v", code, codes(r))
	return Message{}
}

func TestNew(t *testing.T) {
	c := New()
	require.NotNil(t, c)
	assert.False(t, c.Strict)
	assert.False(t, c.ReportUnchangedVersion)
	assert.False(t, c.ValidateStructure)
}

func TestCompareIdenticalDocuments(t *testing.T) {
	fixtures := []string{
		testutil.MinimalDocument,
		testutil.Fixture(t, "petstore-v1.yaml"),
		testutil.Fixture(t, "petstore-v2.yaml"),
	}
	for _, src := range fixtures {
		result := compareDocs(t, src, src, true)
		assert.Empty(t, codes(result))
		assert.Equal(t, LevelNone, result.Level)
	}
}

func TestComparePetstore(t *testing.T) {
	result := compareDocs(t,
		testutil.Fixture(t, "petstore-v1.yaml"),
		testutil.Fixture(t, "petstore-v2.yaml"),
		false)

	assert.Equal(t, []string{
		"MajorVersionChange",
		"ServerNoLongerSupported",
		"ConstraintIsStronger",
		"RemovedEnumValue",
		"EnumConstraintIsStronger",
		"AddedBreakingPropertyInResponse",
		"ModifiedOperationId",
		"RemovedRequiredParameter",
		"AddingRequiredParameter",
		"RemovedOperation",
		"AddedOptionalProperty",
	}, codes(result))
	assert.Equal(t, LevelWarning, result.Level)
	assert.Zero(t, result.ErrorCount)

	m := findMessage(t, result, "ModifiedOperationId")
	assert.Equal(t, "The operation id has been changed from 'createPet' to 'addPet'. This will impact generated code.", m.Message)
	assert.Equal(t, "#/paths/~1pets/post/operationId", m.Old.Ref)
	assert.Equal(t, "#/paths/~1pets/post/operationId", m.New.Ref)

	m = findMessage(t, result, "RemovedEnumValue")
	assert.Equal(t, "The new version is removing enum value(s) 'sold' from the old version.", m.Message)
}

func TestStrictEscalation(t *testing.T) {
	old := testutil.Fixture(t, "petstore-v1.yaml")
	new := testutil.Fixture(t, "petstore-v2.yaml")

	lenient := compareDocs(t, old, new, false)
	strict := compareDocs(t, old, new, true)
	require.Len(t, strict.Messages, len(lenient.Messages))

	for i, m := range lenient.Messages {
		r, ok := RuleByCode(m.Code)
		require.True(t, ok, m.Code)
		if r.Severity == severity.RuleBreaking {
			assert.Equal(t, SeverityWarning, m.Severity, m.Code)
			assert.Equal(t, SeverityError, strict.Messages[i].Severity, m.Code)
		} else {
			assert.Equal(t, m.Severity, strict.Messages[i].Severity, m.Code)
		}
	}
	assert.Equal(t, LevelError, strict.Level)
	assert.True(t, strict.HasErrors())
}

func TestNullPathSymmetry(t *testing.T) {
	result := compareDocs(t,
		testutil.Fixture(t, "petstore-v1.yaml"),
		testutil.Fixture(t, "petstore-v2.yaml"),
		false)

	for _, m := range result.Messages {
		switch m.Kind {
		case KindAddition:
			assert.True(t, m.Old.IsZero(), m.Code)
			assert.False(t, m.New.IsZero(), m.Code)
		case KindRemoval:
			assert.False(t, m.Old.IsZero(), m.Code)
			assert.True(t, m.New.IsZero(), m.Code)
		case KindUpdate:
			assert.False(t, m.Old.IsZero(), m.Code)
			assert.False(t, m.New.IsZero(), m.Code)
		}
	}
}

func TestRemovedRequiredPathParameter(t *testing.T) {
	old := docHeader + `paths:
  /pets/{id}:
    get:
      parameters:
        - name: id
          in: path
          required: true
          schema: {type: string}
      responses:
        "200": {description: ok}
`
	new := docHeader + `paths:
  /pets/{id}:
    get:
      responses:
        "200": {description: ok}
`
	result := compareDocs(t, old, new, true)

	require.Equal(t, []string{"RemovedRequiredParameter"}, codes(result))
	m := result.Messages[0]
	assert.Equal(t, SeverityError, m.Severity)
	assert.Equal(t, KindRemoval, m.Kind)
	assert.Equal(t, "#/paths/~1pets~1{id}/get/parameters/0", m.Old.Ref)
	assert.Equal(t, "#/paths/~1pets~1{id}/get/parameters/0", m.Old.Path)
	assert.NotEmpty(t, m.Old.Position)
	assert.True(t, m.New.IsZero())
}

func TestReferenceRedirection(t *testing.T) {
	components := `components:
  schemas:
    A:
      type: object
      properties:
        id: {type: string}
    B:
      type: object
      properties:
        id: {type: string}
`
	old := responseDoc(`{$ref: "#/components/schemas/A"}`) + components
	new := responseDoc(`{$ref: "#/components/schemas/B"}`) + components

	result := compareDocs(t, old, new, false)
	assert.Equal(t, []string{"ReferenceRedirection"}, codes(result))
}

func TestDanglingReferenceIsSoft(t *testing.T) {
	src := responseDoc(`{$ref: "#/components/schemas/Missing"}`)
	logger := &recordingLogger{}

	c := New()
	c.Logger = logger
	result, err := c.Compare(testutil.Document(t, src), testutil.Document(t, src))
	require.NoError(t, err)
	assert.Empty(t, result.Messages)
	assert.Contains(t, logger.messages, "skipping dangling reference")
}

func TestCompareMalformedCustomPaths(t *testing.T) {
	valid := docHeader + `paths: {}
x-ms-paths:
  /things?op=list:
    get:
      responses:
        "200": {description: ok}
`
	invalid := testutil.Fixture(t, "xms-paths-invalid.yaml")

	tests := []struct {
		name     string
		old, new string
		wantErr  string
	}{
		{"old side", invalid, valid, "old document: Invalid parameter location: body"},
		{"new side", valid, invalid, "new document: Invalid parameter location: body"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := New().Compare(testutil.Document(t, tt.old), testutil.Document(t, tt.new))
			require.Error(t, err)
			assert.Nil(t, result)
			assert.True(t, errors.Is(err, oaserrors.ErrExtension))
			assert.Equal(t, tt.wantErr, err.Error())
		})
	}

	t.Run("only one side has the extension", func(t *testing.T) {
		result, err := New().Compare(testutil.Document(t, invalid), testutil.Document(t, testutil.MinimalDocument))
		require.NoError(t, err)
		assert.NotNil(t, result)
	})
}

func TestCompareNilDocument(t *testing.T) {
	_, err := New().Compare(nil, testutil.Document(t, testutil.MinimalDocument))
	assert.Error(t, err)
}

func TestCompareParsedDiagnostics(t *testing.T) {
	old := *testutil.ParseYAML(t, testutil.MinimalDocument)
	old.Diagnostics = []parser.Diagnostic{{Message: "expected a string", Pointer: "#/info/title", Line: 3, Column: 10}}
	new := *testutil.ParseYAML(t, testutil.MinimalDocument)

	result, err := New().CompareParsed(old, new)
	require.NoError(t, err)

	require.Equal(t, []string{"OpenApiError"}, codes(result))
	m := result.Messages[0]
	assert.Equal(t, "expected a string #/info/title", m.Message)
	assert.Equal(t, "3:10", m.Old.Position)
	assert.Equal(t, "#/info/title", m.Old.Ref)
	assert.True(t, m.New.IsZero())
	assert.Equal(t, KindSpecification, m.Kind)
	assert.Equal(t, LevelError, result.Level)
	assert.Equal(t, 1, result.ErrorCount)
}

func TestCompareFiles(t *testing.T) {
	result, err := New().CompareFiles(
		testutil.FixturePath(t, "petstore-v1.yaml"),
		testutil.FixturePath(t, "petstore-v2.yaml"))
	require.NoError(t, err)
	assert.Len(t, result.Messages, 11)
	assert.Contains(t, result.OldPath, "petstore-v1.yaml")
	assert.Contains(t, result.NewPath, "petstore-v2.yaml")

	_, err = New().CompareFiles("nonexistent.yaml", testutil.FixturePath(t, "petstore-v2.yaml"))
	assert.Error(t, err)
}

func TestCompareWithOptions(t *testing.T) {
	v1 := testutil.FixturePath(t, "petstore-v1.yaml")
	v2 := testutil.FixturePath(t, "petstore-v2.yaml")

	t.Run("file paths", func(t *testing.T) {
		result, err := CompareWithOptions(
			WithOldFilePath(v1),
			WithNewFilePath(v2),
			WithStrict(true),
		)
		require.NoError(t, err)
		assert.Equal(t, LevelError, result.Level)
	})

	t.Run("parsed", func(t *testing.T) {
		parsed := *testutil.ParseYAML(t, testutil.MinimalDocument)
		result, err := CompareWithOptions(
			WithOldParsed(parsed),
			WithNewParsed(parsed),
			WithReportUnchangedVersion(true),
		)
		require.NoError(t, err)
		assert.Equal(t, []string{"NoVersionChange"}, codes(result))
	})

	invalid := []struct {
		name string
		opts []Option
	}{
		{"no old", []Option{WithNewFilePath(v2)}},
		{"no new", []Option{WithOldFilePath(v1)}},
		{"two olds", []Option{WithOldFilePath(v1), WithOldParsed(parser.ParseResult{}), WithNewFilePath(v2)}},
		{"negative timeout", []Option{WithOldFilePath(v1), WithNewFilePath(v2), WithTimeout(-1)}},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CompareWithOptions(tt.opts...)
			assert.Error(t, err)
		})
	}
}

type recordingLogger struct {
	messages []string
}

func (r *recordingLogger) Debug(msg string, _ ...any) { r.messages = append(r.messages, msg) }
func (r *recordingLogger) Info(msg string, _ ...any)  { r.messages = append(r.messages, msg) }
func (r *recordingLogger) Warn(msg string, _ ...any)  { r.messages = append(r.messages, msg) }
func (r *recordingLogger) Error(msg string, _ ...any) { r.messages = append(r.messages, msg) }
func (r *recordingLogger) With(_ ...any) parser.Logger {
	return r
}
