package commands

import (
	"io"

	openapicomparator "github.com/criteo/openapi-comparator"
	"github.com/criteo/openapi-comparator/comparator"
	"github.com/criteo/openapi-comparator/internal/cliutil"
)

// writeTextReport renders result in the human-readable form.
func writeTextReport(w io.Writer, result *comparator.Result, oldPath, newPath string) {
	cliutil.Heading(w, "OpenAPI Breaking Change Report")
	cliutil.Writef(w, "openapi-comparator version: %s\n", openapicomparator.Version())
	cliutil.Writef(w, "Old: %s\n", oldPath)
	cliutil.Writef(w, "New: %s\n\n", newPath)

	if len(result.Messages) == 0 {
		cliutil.Writef(w, "No changes detected.\n")
		return
	}

	for i, m := range result.Messages {
		cliutil.Writef(w, "[%d] %s (%d)\n", i+1, m.Code, m.ID)
		cliutil.Writef(w, "    type:    %s\n", m.Severity)
		cliutil.Writef(w, "    mode:    %s\n", m.Kind)
		cliutil.Writef(w, "    message: %s\n", m.Message)
		writeLocation(w, "old", m.Old)
		writeLocation(w, "new", m.New)
		cliutil.Writef(w, "    docurl:  %s\n\n", m.DocURL)
	}

	cliutil.Writef(w, "Summary:\n")
	cliutil.Writef(w, "  Total:    %d\n", len(result.Messages))
	cliutil.Writef(w, "  Errors:   %d\n", result.ErrorCount)
	cliutil.Writef(w, "  Warnings: %d\n", result.WarningCount)
	cliutil.Writef(w, "  Info:     %d\n", result.InfoCount)
	cliutil.Writef(w, "  Verdict:  %s\n", result.Level)
}

func writeLocation(w io.Writer, side string, loc comparator.Location) {
	if loc.IsZero() {
		return
	}
	if loc.Position != "" {
		cliutil.Writef(w, "    %s:     %s (%s)\n", side, loc.Ref, loc.Position)
		return
	}
	cliutil.Writef(w, "    %s:     %s\n", side, loc.Ref)
}
