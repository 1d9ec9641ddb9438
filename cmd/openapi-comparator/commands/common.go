package commands

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v4"

	"github.com/criteo/openapi-comparator/internal/cliutil"
	"github.com/criteo/openapi-comparator/internal/config"
	"github.com/criteo/openapi-comparator/internal/fileutil"
	"github.com/criteo/openapi-comparator/internal/pathutil"
)

// OutputStructured writes data to w in the specified format (json or yaml).
func OutputStructured(w io.Writer, data any, format string) error {
	var out []byte
	var err error

	switch format {
	case config.FormatJSON:
		out, err = json.MarshalIndent(data, "", "  ")
	case config.FormatYAML:
		out, err = yaml.Marshal(data)
	default:
		return fmt.Errorf("invalid format for structured output: %s", format)
	}

	if err != nil {
		return fmt.Errorf("marshaling to %s: %w", format, err)
	}

	cliutil.Writef(w, "%s\n", bytes.TrimRight(out, "\n"))
	return nil
}

// ValidateOutputPath checks that the report file would not overwrite an input.
func ValidateOutputPath(outputPath string, inputPaths []string, stderr io.Writer) error {
	absOutputPath, err := filepath.Abs(outputPath)
	if err != nil {
		return fmt.Errorf("invalid output path: %w", err)
	}

	for _, inputPath := range inputPaths {
		absInputPath, err := filepath.Abs(inputPath)
		if err != nil {
			return fmt.Errorf("invalid input path %s: %w", inputPath, err)
		}
		if absOutputPath == absInputPath {
			return fmt.Errorf("output file %s would overwrite input file %s", outputPath, inputPath)
		}
	}

	if _, err := os.Stat(outputPath); err == nil {
		cliutil.Writef(stderr, "Warning: output file %s already exists and will be overwritten\n", outputPath)
	}
	return nil
}

// writeOutput sends data to stdout, or to path when it is set.
func writeOutput(stdout io.Writer, path string, data []byte) error {
	if path == "" {
		_, err := stdout.Write(data)
		return err
	}
	target, err := pathutil.SanitizeOutputPath(path)
	if err != nil {
		return err
	}
	if err := os.WriteFile(target, data, fileutil.ReportMode); err != nil {
		return fmt.Errorf("writing output file: %w", err)
	}
	return nil
}
