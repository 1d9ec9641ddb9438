// Package commands provides the cobra commands of the openapi-comparator CLI.
package commands

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	openapicomparator "github.com/criteo/openapi-comparator"
	"github.com/criteo/openapi-comparator/internal/cliutil"
	"github.com/criteo/openapi-comparator/internal/config"
)

// ExitError reports a run that completed but must end with a non-zero
// status. Its report has already been written.
type ExitError struct {
	Code   int
	Reason string
}

func (e *ExitError) Error() string {
	return e.Reason
}

// NewRootCommand builds the command tree writing to stdout and stderr.
func NewRootCommand(stdout, stderr io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:   "openapi-comparator",
		Short: "Detect breaking changes between two versions of an OpenAPI document",
		Long: `openapi-comparator compares an old and a new OpenAPI 3 document and reports
every change with a rule code, a severity and the location in both documents.

Settings are read from defaults, then .openapi-comparator.yaml (or --config),
then OPENAPI_COMPARATOR_* environment variables, then flags.`,
		Version:                    openapicomparator.Version(),
		SilenceUsage:               true,
		SilenceErrors:              true,
		SuggestionsMinimumDistance: 2,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetVersionTemplate("openapi-comparator {{.Version}}\n")

	config.BindFlags(root.PersistentFlags())

	root.AddCommand(
		newCompareCommand(),
		newRulesCommand(),
		newServeCommand(),
		newMCPCommand(),
		newVersionCommand(),
	)
	return root
}

// Execute runs the CLI with args and returns the process exit status.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := NewRootCommand(stdout, stderr)
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return 0
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		if exitErr.Reason != "" {
			cliutil.Writef(stderr, "%s\n", exitErr.Reason)
		}
		return exitErr.Code
	}
	cliutil.Writef(stderr, "Error: %v\n", err)
	return 1
}

// loadConfig merges the configuration sources for cmd and builds the logger.
// quietLevel is the log level used without --verbose.
func loadConfig(cmd *cobra.Command, quietLevel slog.Level) (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return nil, nil, err
	}
	level := quietLevel
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	return cfg, logger, nil
}
