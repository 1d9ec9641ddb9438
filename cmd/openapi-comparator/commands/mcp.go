package commands

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/criteo/openapi-comparator/internal/mcpserver"
)

func newMCPCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Run the MCP server over stdio",
		Long: `Run a Model Context Protocol server on stdin/stdout exposing the compare and
rules tools. Logs go to stderr.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := loadConfig(cmd, slog.LevelWarn)
			if err != nil {
				return err
			}
			return mcpserver.Run(cmd.Context(), mcpserver.Options{
				Strict:    cfg.Strict,
				Validate:  cfg.Validate,
				UserAgent: cfg.UserAgent,
				Timeout:   cfg.Timeout,
				Logger:    logger,
			})
		},
	}
}
