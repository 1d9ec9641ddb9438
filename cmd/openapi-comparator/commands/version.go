package commands

import (
	"github.com/spf13/cobra"

	openapicomparator "github.com/criteo/openapi-comparator"
	"github.com/criteo/openapi-comparator/internal/cliutil"
)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			cliutil.Writef(cmd.OutOrStdout(), "openapi-comparator %s\n%s\n",
				openapicomparator.Version(), openapicomparator.BuildInfo())
		},
	}
}
