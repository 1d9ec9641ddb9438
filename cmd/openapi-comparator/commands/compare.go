package commands

import (
	"bytes"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/criteo/openapi-comparator/comparator"
	"github.com/criteo/openapi-comparator/internal/config"
	"github.com/criteo/openapi-comparator/parser"
)

func newCompareCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "compare <old> <new>",
		Short: "Compare two OpenAPI documents and report breaking changes",
		Long: `Compare an old and a new OpenAPI document, given as file paths or http(s) URLs.

Every finding has a rule code, a severity (Error, Warning or Info) and the
location of the change in both documents. With --strict, breaking changes
are reported as errors instead of warnings.`,
		Example: `  openapi-comparator compare api-v1.yaml api-v2.yaml
  openapi-comparator compare --strict --format json old.yaml new.yaml | jq '.Messages[].Code'
  openapi-comparator compare --fail-on warning https://example.com/v1.yaml https://example.com/v2.yaml`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompare(cmd, args[0], args[1])
		},
	}
}

func runCompare(cmd *cobra.Command, oldPath, newPath string) error {
	cfg, logger, err := loadConfig(cmd, slog.LevelWarn)
	if err != nil {
		return err
	}
	if cfg.Output != "" {
		if err := ValidateOutputPath(cfg.Output, []string{oldPath, newPath}, cmd.ErrOrStderr()); err != nil {
			return err
		}
	}

	opts := []comparator.Option{
		comparator.WithOldFilePath(oldPath),
		comparator.WithNewFilePath(newPath),
		comparator.WithStrict(cfg.Strict),
		comparator.WithReportUnchangedVersion(cfg.ReportUnchangedVersion),
		comparator.WithValidateStructure(cfg.Validate),
		comparator.WithTimeout(cfg.Timeout),
		comparator.WithLogger(parser.NewSlogAdapter(logger)),
	}
	if cfg.UserAgent != "" {
		opts = append(opts, comparator.WithUserAgent(cfg.UserAgent))
	}

	start := time.Now()
	result, err := comparator.CompareWithOptions(opts...)
	if err != nil {
		return fmt.Errorf("comparing documents: %w", err)
	}
	logger.Debug("compare finished", "elapsed", time.Since(start))

	var buf bytes.Buffer
	if cfg.Format == config.FormatText {
		writeTextReport(&buf, result, oldPath, newPath)
	} else if err := OutputStructured(&buf, result, cfg.Format); err != nil {
		return err
	}
	if err := writeOutput(cmd.OutOrStdout(), cfg.Output, buf.Bytes()); err != nil {
		return err
	}

	return exitStatus(cfg, result)
}

// exitStatus applies the exit-code policy: document diagnostics fail a
// validating run, and a verdict at or above fail-on fails any run.
func exitStatus(cfg *config.Config, result *comparator.Result) error {
	if cfg.Validate {
		if n := countCode(result, comparator.OpenAPIError.Code); n > 0 {
			return &ExitError{Code: 1, Reason: fmt.Sprintf("%d document diagnostic(s) found", n)}
		}
	}
	if cfg.FailOn == "none" || result.Level == comparator.LevelNone {
		return nil
	}
	threshold, err := comparator.ParseChangeLevel(cfg.FailOn)
	if err != nil {
		return err
	}
	if result.Level >= threshold {
		return &ExitError{Code: 1, Reason: fmt.Sprintf("verdict %s is at or above fail-on level %s", result.Level, cfg.FailOn)}
	}
	return nil
}

func countCode(result *comparator.Result, code string) int {
	n := 0
	for _, m := range result.Messages {
		if m.Code == code {
			n++
		}
	}
	return n
}
