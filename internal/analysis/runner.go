package analysis

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"maplint/internal/classify"
	"maplint/internal/diag"
	"maplint/internal/hazard"
	"maplint/internal/logging"
	"maplint/internal/registry"
)

// RulePolicy filters and re-grades diagnostics per repository config.
// The zero value keeps every rule at its default severity.
type RulePolicy struct {
	Disabled map[diag.RuleID]bool
	Severity map[diag.RuleID]diag.Severity
}

// Apply returns the diagnostic adjusted by the policy, or false when
// the rule is disabled.
func (p RulePolicy) Apply(d diag.Diagnostic) (diag.Diagnostic, bool) {
	if p.Disabled[d.Rule] {
		return diag.Diagnostic{}, false
	}
	if sev, ok := p.Severity[d.Rule]; ok {
		d.Severity = sev
	}
	return d, true
}

// Runner executes analysis passes.
type Runner struct {
	policy  RulePolicy
	workers int
	logger  *logging.Logger
}

// NewRunner creates a pass runner. workers bounds per-declaration
// parallelism; values below 1 mean sequential.
func NewRunner(policy RulePolicy, workers int, logger *logging.Logger) *Runner {
	if workers < 1 {
		workers = 1
	}
	return &Runner{policy: policy, workers: workers, logger: logger}
}

// Run performs one pass over one unit. Two phases with a hard barrier
// between them: the registry edge set is fully built before the first
// classification goroutine starts, because ComplexTypeMappingMissing
// reads it. Declarations are independent, so they run concurrently;
// each writes only its own result slot and the merged output is sorted
// deterministically, so concurrency never reorders a report.
func (r *Runner) Run(ctx context.Context, unit *Unit) (*Report, error) {
	started := time.Now()

	resolver := registry.New(unit.ID, unit.Declarations)
	classifier := classify.NewClassifier(resolver, r.logger)
	detector := hazard.NewDetector(r.logger)

	r.logger.Debug("pass started", map[string]interface{}{
		"unit":         unit.ID,
		"declarations": len(unit.Declarations),
		"edges":        resolver.Size(),
	})

	results := make([][]diag.Diagnostic, len(unit.Declarations))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for i := range unit.Declarations {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			decl := unit.Declarations[i]
			src := unit.Shape(decl.SourceType)
			dst := unit.Shape(decl.DestType)

			var found []diag.Diagnostic
			found = append(found, classifier.Classify(decl, src, dst)...)
			found = append(found, detector.Detect(unit.ID, decl)...)
			results[i] = found
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var diagnostics []diag.Diagnostic
	for i := range results {
		perDecl := results[i]
		sort.SliceStable(perDecl, func(a, b int) bool {
			if perDecl[a].Member != perDecl[b].Member {
				return perDecl[a].Member < perDecl[b].Member
			}
			return perDecl[a].Rule < perDecl[b].Rule
		})
		for _, d := range perDecl {
			if adjusted, keep := r.policy.Apply(d); keep {
				diagnostics = append(diagnostics, adjusted)
			}
		}
	}

	report := &Report{
		RunID:       uuid.NewString(),
		Unit:        unit.ID,
		GeneratedAt: time.Now().UTC(),
		Diagnostics: diagnostics,
		Summary:     summarize(unit, diagnostics),
	}

	r.logger.Info("pass completed", map[string]interface{}{
		"unit":     unit.ID,
		"findings": len(diagnostics),
		"elapsed":  time.Since(started).String(),
	})

	return report, nil
}

// RunAll runs one pass per unit and returns the reports in unit order.
func (r *Runner) RunAll(ctx context.Context, units []*Unit) ([]*Report, error) {
	reports := make([]*Report, 0, len(units))
	for _, unit := range units {
		report, err := r.Run(ctx, unit)
		if err != nil {
			return nil, err
		}
		reports = append(reports, report)
	}
	return reports, nil
}
