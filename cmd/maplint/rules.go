package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"maplint/internal/config"
	"maplint/internal/diag"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List rules with effective severity and status",
	Long: `List every rule with its description, default severity, and the
effective configuration after applying maplint.toml overrides from the
repository root.`,
	RunE: runRules,
}

func init() {
	rootCmd.AddCommand(rulesCmd)
}

func runRules(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ruleset, err := config.LoadRuleset(cfg.RepoRoot)
	if err != nil {
		return err
	}
	policy := ruleset.Policy()

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "RULE\tSEVERITY\tSTATUS\tDESCRIPTION")
	for _, id := range diag.AllRules() {
		severity := diag.DefaultSeverity(id)
		if s, ok := policy.Severity[id]; ok {
			severity = s
		}
		status := "enabled"
		if policy.Disabled[id] {
			status = "disabled"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", id, severity, status, diag.Describe(id))
	}
	return w.Flush()
}
