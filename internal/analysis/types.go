// Package analysis runs one pass over one analysis unit: build the
// mapping registry, then classify every declaration and scan its
// expressions for hazards. A pass is a pure function over an immutable
// snapshot; no state survives between passes.
package analysis

import (
	"context"
	"path/filepath"
	"time"

	"maplint/internal/diag"
	"maplint/internal/mapping"
	"maplint/internal/shape"
)

// Unit is the immutable snapshot of one analysis unit: every type
// shape and every mapping declaration visible in it, in declaration
// order. Declarations from other units never join this snapshot;
// visibility scoping is the unit boundary.
type Unit struct {
	ID           string                      `json:"id" yaml:"unit"`
	Shapes       map[string]*shape.TypeShape `json:"shapes" yaml:"types"`
	Declarations []*mapping.Declaration      `json:"declarations" yaml:"mappings"`

	// Root is the directory the unit was loaded from, when one exists.
	// Diagnostic locations are recorded relative to it. Snapshot units
	// carry no root.
	Root string `json:"root,omitempty" yaml:"-"`
}

// Shape returns the shape for a qualified type name, or nil.
func (u *Unit) Shape(name string) *shape.TypeShape {
	if u == nil {
		return nil
	}
	return u.Shapes[name]
}

// ResolvePath resolves a location file, recorded relative to the
// unit's root, to a path usable from the process working directory.
func (u *Unit) ResolvePath(file string) string {
	if u == nil || u.Root == "" || file == "" || filepath.IsAbs(file) {
		return file
	}
	return filepath.Join(u.Root, filepath.FromSlash(file))
}

// Loader produces analysis-unit snapshots. The C# frontend and the
// YAML unit loader both implement it; the core never parses source.
type Loader interface {
	Load(ctx context.Context) ([]*Unit, error)
}

// Report is the outcome of one pass over one unit.
type Report struct {
	RunID       string            `json:"runId"`
	Unit        string            `json:"unit"`
	GeneratedAt time.Time         `json:"generatedAt"`
	Diagnostics []diag.Diagnostic `json:"diagnostics"`
	Summary     Summary           `json:"summary"`
}

// Summary aggregates a report's findings.
type Summary struct {
	Total        int            `json:"total"`
	BySeverity   map[string]int `json:"bySeverity,omitempty"`
	ByRule       map[string]int `json:"byRule,omitempty"`
	Declarations int            `json:"declarations"`
	Shapes       int            `json:"shapes"`
}

// HasSeverity reports whether any finding is at or above the given
// severity, for CI gating.
func (r *Report) HasSeverity(min diag.Severity) bool {
	for i := range r.Diagnostics {
		if diag.SeverityOrder(r.Diagnostics[i].Severity) <= diag.SeverityOrder(min) {
			return true
		}
	}
	return false
}

// Replace swaps the report's findings, keeping the summary in step.
// Baseline filtering uses this after suppressing accepted findings.
func (r *Report) Replace(diagnostics []diag.Diagnostic) {
	r.Diagnostics = diagnostics
	r.Summary.Total = len(diagnostics)
	r.Summary.BySeverity = nil
	r.Summary.ByRule = nil
	if len(diagnostics) > 0 {
		r.Summary.BySeverity = make(map[string]int)
		r.Summary.ByRule = make(map[string]int)
		for i := range diagnostics {
			r.Summary.BySeverity[string(diagnostics[i].Severity)]++
			r.Summary.ByRule[string(diagnostics[i].Rule)]++
		}
	}
}

func summarize(unit *Unit, diagnostics []diag.Diagnostic) Summary {
	s := Summary{
		Total:        len(diagnostics),
		Declarations: len(unit.Declarations),
		Shapes:       len(unit.Shapes),
	}
	if len(diagnostics) > 0 {
		s.BySeverity = make(map[string]int)
		s.ByRule = make(map[string]int)
		for i := range diagnostics {
			s.BySeverity[string(diagnostics[i].Severity)]++
			s.ByRule[string(diagnostics[i].Rule)]++
		}
	}
	return s
}
