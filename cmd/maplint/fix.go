package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"maplint/internal/analysis"
	"maplint/internal/diag"
	"maplint/internal/fixes"
	"maplint/internal/logging"
	"maplint/internal/mapping"
)

var (
	fixDiagnostic  string
	fixAlternative int
	fixList        bool
	fixWrite       bool
)

var fixCmd = &cobra.Command{
	Use:   "fix [paths]",
	Short: "Synthesize a fix for one diagnostic",
	Long: `Synthesize fix alternatives for a single diagnostic, selected by
fingerprint (a unique prefix is enough). Fixes are rendered against the
original source; apply one, then re-run analyze before fixing the next
finding.

Examples:
  maplint fix --diagnostic 3f2a ./src/Profiles
  maplint fix --diagnostic 3f2a --list ./src/Profiles
  maplint fix --diagnostic 3f2a --alternative 1 ./src/Profiles`,
	RunE: runFix,
}

func init() {
	fixCmd.Flags().StringVar(&fixDiagnostic, "diagnostic", "", "Fingerprint (or unique prefix) of the finding to fix")
	fixCmd.Flags().IntVar(&fixAlternative, "alternative", 0, "Which fix alternative to render")
	fixCmd.Flags().BoolVar(&fixList, "list", false, "List alternatives instead of rendering one")
	fixCmd.Flags().BoolVar(&fixWrite, "write", false, "Apply the chosen fix to the profile file instead of printing a diff")
	fixCmd.MarkFlagRequired("diagnostic")
	rootCmd.AddCommand(fixCmd)
}

func runFix(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	reports, units, err := analyzeReports(cmd.Context(), args)
	if err != nil {
		return err
	}

	d, unit, err := findDiagnostic(reports, units, fixDiagnostic)
	if err != nil {
		return err
	}

	decl := findDeclaration(unit, d)
	if decl == nil {
		return fmt.Errorf("no declaration %s -> %s in unit %s", d.SourceType, d.DestType, d.Unit)
	}

	synth := fixes.NewSynthesizer(logging.NewNop())
	alternatives := synth.Synthesize(*d, decl, unit.Shape(d.SourceType), unit.Shape(d.DestType))
	if len(alternatives) == 0 {
		fmt.Fprintf(os.Stdout, "%s: no mechanical fix available\n", d.Fingerprint()[:8])
		return nil
	}

	if fixList {
		fmt.Fprintf(os.Stdout, "%s %s %s\n", d.Fingerprint()[:8], d.Rule, d.Message)
		for i, f := range alternatives {
			marker := " "
			if f.CommentOnly {
				marker = "c"
			}
			fmt.Fprintf(os.Stdout, "  [%d]%s %s\n", i, marker, f.Description)
		}
		return nil
	}

	if fixAlternative < 0 || fixAlternative >= len(alternatives) {
		return fmt.Errorf("alternative %d out of range (0-%d)", fixAlternative, len(alternatives)-1)
	}
	chosen := alternatives[fixAlternative]

	fmt.Fprintf(os.Stdout, "Fix for %s (%s): %s\n\n", d.Fingerprint()[:8], d.Rule, chosen.Description)

	if d.Location.File != "" {
		// Locations are recorded relative to the unit's root, not the
		// working directory the command runs from.
		path := unit.ResolvePath(d.Location.File)
		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		if fixWrite {
			rewritten, notes, err := fixes.ApplyToSource(content, chosen)
			if err != nil {
				return err
			}
			if err := os.WriteFile(path, rewritten, 0o644); err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "wrote %s\n", path)
			for _, note := range notes {
				fmt.Fprintf(os.Stdout, "note: %s\n", note)
			}
			return nil
		}
		rendered, notes, err := fixes.RenderDiff(path, content, chosen)
		if err != nil {
			return err
		}
		fmt.Fprint(os.Stdout, rendered)
		for _, note := range notes {
			fmt.Fprintf(os.Stdout, "note: %s\n", note)
		}
		return nil
	}

	// Snapshot units carry no source file; describe the edits instead.
	for _, edit := range chosen.Edits {
		fmt.Fprintf(os.Stdout, "  %s %s: %s\n", edit.Operation, edit.Member, edit.Text)
	}
	return nil
}

func findDiagnostic(reports []*analysis.Report, units []*analysis.Unit, prefix string) (*diag.Diagnostic, *analysis.Unit, error) {
	prefix = strings.ToLower(prefix)
	var found *diag.Diagnostic
	var foundUnit *analysis.Unit
	for _, report := range reports {
		for i := range report.Diagnostics {
			d := &report.Diagnostics[i]
			if !strings.HasPrefix(d.Fingerprint(), prefix) {
				continue
			}
			if found != nil {
				return nil, nil, fmt.Errorf("fingerprint prefix %q is ambiguous", prefix)
			}
			found = d
			for _, unit := range units {
				if unit.ID == report.Unit {
					foundUnit = unit
				}
			}
		}
	}
	if found == nil {
		return nil, nil, fmt.Errorf("no diagnostic matches fingerprint %q", prefix)
	}
	if foundUnit == nil {
		return nil, nil, fmt.Errorf("unit %s not loaded", found.Unit)
	}
	return found, foundUnit, nil
}

func findDeclaration(unit *analysis.Unit, d *diag.Diagnostic) *mapping.Declaration {
	for _, decl := range unit.Declarations {
		if decl.SourceType == d.SourceType && decl.DestType == d.DestType {
			return decl
		}
	}
	return nil
}
