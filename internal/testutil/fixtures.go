// Package testutil provides test utilities and fixtures for unit tests.
package testutil

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/criteo/openapi-comparator/parser"
)

// MinimalDocument is the smallest document the parser accepts.
const MinimalDocument = `openapi: 3.0.3
info:
  title: Test API
  version: 1.0.0
paths: {}
`

// ParseYAML parses src, which may be YAML or JSON, and fails the test on error.
func ParseYAML(t *testing.T, src string) *parser.ParseResult {
	t.Helper()

	result, err := parser.ParseWithOptions(
		parser.WithBytes([]byte(src)),
		parser.WithSourceName(t.Name()+".yaml"),
	)
	if err != nil {
		t.Fatalf("Failed to parse document: %v", err)
	}
	return result
}

// Document parses src and returns its document.
func Document(t *testing.T, src string) *parser.Document {
	t.Helper()
	return ParseYAML(t, src).Document
}

// FixturePath returns the absolute path of a file under the repository's
// testdata directory.
func FixturePath(t *testing.T, name string) string {
	t.Helper()

	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to locate testutil source file")
	}
	path := filepath.Join(filepath.Dir(file), "..", "..", "testdata", name)
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("Fixture %s not found: %v", name, err)
	}
	return path
}

// Fixture reads a file under testdata.
func Fixture(t *testing.T, name string) string {
	t.Helper()

	data, err := os.ReadFile(FixturePath(t, name))
	if err != nil {
		t.Fatalf("Failed to read fixture %s: %v", name, err)
	}
	return string(data)
}

// WriteTemp writes content to a file named name in a temporary directory.
// The file is automatically cleaned up when the test completes (via t.TempDir).
func WriteTemp(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("Failed to write temporary file: %v", err)
	}
	return path
}
