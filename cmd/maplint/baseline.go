package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"maplint/internal/baseline"
)

var baselineCmd = &cobra.Command{
	Use:   "baseline",
	Short: "Manage accepted findings",
	Long: `Manage the baseline of accepted findings. Baselined findings are
suppressed by analyze until removed; they are keyed by fingerprint, so
they survive unrelated edits to the same file.`,
}

var baselineUpdateCmd = &cobra.Command{
	Use:   "update [paths]",
	Short: "Accept all current findings into the baseline",
	RunE:  runBaselineUpdate,
}

var baselineListCmd = &cobra.Command{
	Use:   "list",
	Short: "List baselined findings",
	RunE:  runBaselineList,
}

var baselineRemoveCmd = &cobra.Command{
	Use:   "remove <fingerprint>",
	Short: "Remove one finding from the baseline",
	Args:  cobra.ExactArgs(1),
	RunE:  runBaselineRemove,
}

func init() {
	baselineCmd.AddCommand(baselineUpdateCmd)
	baselineCmd.AddCommand(baselineListCmd)
	baselineCmd.AddCommand(baselineRemoveCmd)
	rootCmd.AddCommand(baselineCmd)
}

func runBaselineUpdate(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	// Accept everything currently reported, including findings already
	// baselined; re-accepting refreshes the run ID.
	analyzeNoBaseline = true
	reports, _, err := analyzeReports(cmd.Context(), args)
	if err != nil {
		return err
	}

	store, err := openBaseline()
	if err != nil {
		return err
	}
	defer store.Close()

	accepted := 0
	for _, report := range reports {
		if err := store.Accept(report.RunID, report.Diagnostics); err != nil {
			return err
		}
		accepted += len(report.Diagnostics)
	}
	fmt.Fprintf(os.Stdout, "baselined %d findings\n", accepted)
	return nil
}

func runBaselineList(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	store, err := openBaseline()
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.List()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "FINGERPRINT\tRULE\tUNIT\tMEMBER\tACCEPTED")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			e.Fingerprint, e.Rule, e.Unit, e.Member, e.AcceptedAt.Format("2006-01-02"))
	}
	return w.Flush()
}

func runBaselineRemove(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	store, err := openBaseline()
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Remove(args[0]); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "removed %s\n", args[0])
	return nil
}

func openBaseline() (*baseline.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return baseline.Open(cfg.Baseline.Path, newLogger(cfg))
}
