// Package hazard detects performance and correctness hazards in
// explicit MapFrom expressions. It runs independently of the
// compatibility classifier: hazard tags are non-exclusive and may
// co-occur with any convention diagnostic on the same member.
package hazard

import (
	"sort"

	"maplint/internal/diag"
	"maplint/internal/logging"
	"maplint/internal/mapping"
)

// Detector scans the effective MapFrom configs of declarations.
type Detector struct {
	logger *logging.Logger
}

// NewDetector creates a hazard detector.
func NewDetector(logger *logging.Logger) *Detector {
	return &Detector{logger: logger}
}

// Detect reports every hazard present in the declaration's effective
// MapFrom expressions. An opaque expression carries no feature sites
// and therefore triggers nothing: hazard rules fail closed, preferring
// silence over a false positive.
func (d *Detector) Detect(unit string, decl *mapping.Declaration) []diag.Diagnostic {
	if decl == nil {
		return nil
	}

	var out []diag.Diagnostic
	for _, cfg := range decl.MapFroms() {
		out = append(out, d.detectExpr(unit, decl, cfg)...)
	}
	return out
}

// detectExpr evaluates one expression. Each feature-site kind is an
// explicit arm; a new hazard rule is a new arm, never a change to the
// existing ones.
func (d *Detector) detectExpr(unit string, decl *mapping.Declaration, cfg mapping.MemberConfig) []diag.Diagnostic {
	expr := cfg.Expr
	if expr == nil || len(expr.Sites) == 0 {
		return nil
	}

	var out []diag.Diagnostic
	emit := func(rule diag.RuleID, candidate string) {
		out = append(out, diag.New(rule, diag.Diagnostic{
			Unit:       unit,
			Member:     cfg.DestMember,
			SourceType: decl.SourceType,
			DestType:   decl.DestType,
			Candidate:  candidate,
			Location:   cfg.Location,
		}))
	}

	// One tag per rule per expression, regardless of how many sites of
	// that kind the expression contains.
	var sawDependency, sawNonDeterministic, sawBlocking bool
	for _, site := range expr.Sites {
		switch site.Kind {
		case mapping.SiteEnumeration:
			// handled below from the per-accessor counts
		case mapping.SiteDependencyCall:
			sawDependency = true
		case mapping.SiteNonDeterministic:
			sawNonDeterministic = true
		case mapping.SiteBlockingUnwrap:
			sawBlocking = true
		default:
			d.logger.Warn("unrecognized expression feature site", map[string]interface{}{
				"kind":   string(site.Kind),
				"member": cfg.DestMember,
			})
		}
	}

	if sawDependency {
		emit(diag.ExpensiveOperationInMapFrom, "")
	}
	for _, ec := range sortedEnumerations(expr.EnumerationCounts()) {
		if ec.count >= 2 {
			emit(diag.MultipleEnumeration, ec.accessor)
		}
	}
	if sawNonDeterministic {
		emit(diag.NonDeterministicOperation, "")
	}
	if sawBlocking {
		emit(diag.TaskResultSynchronousAccess, "")
	}

	return out
}

type enumerationCount struct {
	accessor string
	count    int
}

// sortedEnumerations flattens the per-accessor counts into a stable
// order so concurrent passes never reorder diagnostics.
func sortedEnumerations(counts map[string]int) []enumerationCount {
	if len(counts) == 0 {
		return nil
	}
	out := make([]enumerationCount, 0, len(counts))
	for accessor, count := range counts {
		out = append(out, enumerationCount{accessor: accessor, count: count})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].accessor < out[j].accessor })
	return out
}
