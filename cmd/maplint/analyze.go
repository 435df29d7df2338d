package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"maplint/internal/analysis"
	"maplint/internal/baseline"
	"maplint/internal/config"
	"maplint/internal/diag"
	"maplint/internal/output"
)

var (
	analyzeFormat     string
	analyzeFailOn     string
	analyzeNoBaseline bool
	analyzeWorkers    int
	analyzeUnit       string
	analyzeBaseline   string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [paths]",
	Short: "Analyze mapping profiles and report defects",
	Long: `Analyze mapping profiles under the given paths. Each directory is one
analysis unit; .yaml inputs are loaded as unit snapshots instead of
being parsed as source.

Examples:
  maplint analyze ./src/Profiles
  maplint analyze --format sarif ./src > maplint.sarif
  maplint analyze --fail-on warning ./src ./tests/fixtures/unit.yaml`,
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeFormat, "format", "text", "Output format (text, json, sarif)")
	analyzeCmd.Flags().StringVar(&analyzeFailOn, "fail-on", "error", "Exit non-zero at this severity or above (error, warning, info, never)")
	analyzeCmd.Flags().BoolVar(&analyzeNoBaseline, "no-baseline", false, "Report baselined findings too")
	analyzeCmd.Flags().IntVar(&analyzeWorkers, "workers", 0, "Per-declaration parallelism (0 uses config)")
	analyzeCmd.Flags().StringVar(&analyzeUnit, "unit", "", "Restrict analysis to the named unit")
	analyzeCmd.Flags().StringVar(&analyzeBaseline, "baseline", "", "Baseline database path (overrides config)")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	reports, _, err := analyzeReports(cmd.Context(), args)
	if err != nil {
		return err
	}

	switch analyzeFormat {
	case "text":
		for _, report := range reports {
			if err := output.EncodeText(os.Stdout, report); err != nil {
				return err
			}
		}
	case "json":
		for _, report := range reports {
			if err := output.EncodeJSON(os.Stdout, report); err != nil {
				return err
			}
		}
	case "sarif":
		doc := toSARIF(reports)
		if err := writeSARIF(os.Stdout, doc); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown format %q", analyzeFormat)
	}

	if shouldFail(reports, analyzeFailOn) {
		os.Exit(1)
	}
	return nil
}

// analyzeReports runs the full pipeline: config, frontends, one pass
// per unit, baseline filtering. It also returns the loaded units so
// the fix command can resolve diagnostics against their snapshots.
func analyzeReports(ctx context.Context, paths []string) ([]*analysis.Report, []*analysis.Unit, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	logger := newLogger(cfg)

	ruleset, err := config.LoadRuleset(cfg.RepoRoot)
	if err != nil {
		return nil, nil, err
	}

	loaders, err := newLoader(paths, logger)
	if err != nil {
		return nil, nil, err
	}

	var units []*analysis.Unit
	for _, loader := range loaders {
		loaded, err := loader.Load(ctx)
		if err != nil {
			return nil, nil, err
		}
		units = append(units, loaded...)
	}
	if analyzeUnit != "" {
		var kept []*analysis.Unit
		for _, unit := range units {
			if unit.ID == analyzeUnit {
				kept = append(kept, unit)
			}
		}
		if len(kept) == 0 {
			return nil, nil, fmt.Errorf("no unit named %q was loaded", analyzeUnit)
		}
		units = kept
	}

	workers := cfg.Workers
	if analyzeWorkers > 0 {
		workers = analyzeWorkers
	}
	runner := analysis.NewRunner(ruleset.Policy(), workers, logger)

	reports, err := runner.RunAll(ctx, units)
	if err != nil {
		return nil, nil, err
	}

	baselinePath := cfg.Baseline.Path
	if analyzeBaseline != "" {
		baselinePath = analyzeBaseline
	}
	if !analyzeNoBaseline {
		if _, statErr := os.Stat(baselinePath); statErr == nil {
			store, err := baseline.Open(baselinePath, logger)
			if err != nil {
				return nil, nil, err
			}
			defer store.Close()
			for _, report := range reports {
				filtered, err := store.Filter(report.Diagnostics)
				if err != nil {
					return nil, nil, err
				}
				report.Replace(filtered)
			}
		}
	}

	return reports, units, nil
}

func shouldFail(reports []*analysis.Report, failOn string) bool {
	var min diag.Severity
	switch failOn {
	case "error":
		min = diag.SeverityError
	case "warning", "warn":
		min = diag.SeverityWarning
	case "info":
		min = diag.SeverityInfo
	default:
		return false
	}
	for _, report := range reports {
		if report.HasSeverity(min) {
			return true
		}
	}
	return false
}
