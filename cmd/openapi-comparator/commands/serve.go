package commands

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/criteo/openapi-comparator/internal/config"
	"github.com/criteo/openapi-comparator/internal/httpapi"
)

func newServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the comparator as an HTTP JSON API",
		Long: `Start an HTTP server exposing:

  POST /v1/compare   {"old": "<document>", "new": "<document>", "strict": true}
  GET  /v1/rules     rule catalog (?code= or ?kind= to filter)
  GET  /healthz      liveness probe

The server stops on SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := loadConfig(cmd, slog.LevelInfo)
			if err != nil {
				return err
			}
			srv := httpapi.NewServer(httpapi.Options{
				Strict:      cfg.Strict,
				Validate:    cfg.Validate,
				MaxBodySize: cfg.Serve.MaxBodySize,
				Logger:      logger,
			})
			return srv.Run(cmd.Context(), cfg.Serve.Addr)
		},
	}
	config.BindServeFlags(cmd.Flags())
	return cmd
}
