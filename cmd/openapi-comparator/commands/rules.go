package commands

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/criteo/openapi-comparator/comparator"
	"github.com/criteo/openapi-comparator/internal/cliutil"
	"github.com/criteo/openapi-comparator/internal/config"
)

// RuleView is the structured rendering of a catalog entry.
type RuleView struct {
	ID       int    `json:"id" yaml:"id"`
	Code     string `json:"code" yaml:"code"`
	Kind     string `json:"kind" yaml:"kind"`
	Severity string `json:"severity" yaml:"severity"`
	Message  string `json:"message" yaml:"message"`
	DocURL   string `json:"docUrl" yaml:"docUrl"`
}

func newRulesCommand() *cobra.Command {
	var kind string
	cmd := &cobra.Command{
		Use:   "rules [code]",
		Short: "List the rule catalog",
		Example: `  openapi-comparator rules
  openapi-comparator rules --kind removal
  openapi-comparator rules RemovedOperation --format yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code := ""
			if len(args) == 1 {
				code = args[0]
			}
			return runRules(cmd, code, kind)
		},
	}
	cmd.Flags().StringVar(&kind, "kind", "", "only list rules of this kind: addition, update, removal or specification")
	return cmd
}

func selectRules(code, kind string) []RuleView {
	var views []RuleView
	for _, r := range comparator.Rules() {
		if code != "" && r.Code != code {
			continue
		}
		if kind != "" && !strings.EqualFold(r.Kind.String(), kind) {
			continue
		}
		views = append(views, RuleView{
			ID:       r.ID,
			Code:     r.Code,
			Kind:     r.Kind.String(),
			Severity: r.Severity.String(),
			Message:  r.Template,
			DocURL:   r.DocURL(),
		})
	}
	return views
}

func runRules(cmd *cobra.Command, code, kind string) error {
	cfg, _, err := loadConfig(cmd, slog.LevelWarn)
	if err != nil {
		return err
	}

	views := selectRules(code, kind)
	if code != "" && len(views) == 0 {
		return fmt.Errorf("unknown rule code %q", code)
	}

	var buf bytes.Buffer
	if cfg.Format == config.FormatText {
		for _, v := range views {
			cliutil.Writef(&buf, "%-5d %-45s %-14s %-9s %s\n", v.ID, v.Code, v.Kind, v.Severity, v.Message)
		}
		cliutil.Writef(&buf, "\n%s\n", cliutil.Plural(len(views), "rule"))
	} else if err := OutputStructured(&buf, views, cfg.Format); err != nil {
		return err
	}
	return writeOutput(cmd.OutOrStdout(), cfg.Output, buf.Bytes())
}
