// Package classify implements the per-member compatibility decision
// procedure: for each settable destination member of a declaration,
// decide which rule applies, if any. The procedure is deterministic,
// exception-free, and reads nothing but the immutable pass snapshot.
package classify

import (
	"maplint/internal/diag"
	"maplint/internal/logging"
	"maplint/internal/mapping"
	"maplint/internal/registry"
	"maplint/internal/shape"
)

// Classifier evaluates one declaration at a time against the unit's
// mapping registry. The registry must be fully built before the first
// Classify call; it is read-only here.
type Classifier struct {
	resolver *registry.Resolver
	logger   *logging.Logger
}

// NewClassifier creates a classifier bound to one unit's resolver.
func NewClassifier(resolver *registry.Resolver, logger *logging.Logger) *Classifier {
	return &Classifier{
		resolver: resolver,
		logger:   logger,
	}
}

// Classify runs the full decision procedure for one declaration:
// convention rules per destination member, then the redundancy check
// over explicit MapFrom configs. Source or destination shapes the
// extractor could not provide yield no diagnostics.
//
// Convention rules emit at most one diagnostic per member per pass.
// The redundancy check is orthogonal and may add one more for a member
// that carries an explicit MapFrom.
func (c *Classifier) Classify(decl *mapping.Declaration, src, dst *shape.TypeShape) []diag.Diagnostic {
	if decl == nil || src == nil || dst == nil {
		return nil
	}

	overrides := decl.Overrides()

	var out []diag.Diagnostic
	for i := range dst.Members {
		dm := dst.Members[i]
		if !dm.Settable {
			continue
		}
		if d, ok := c.classifyMember(decl, src, dst, dm, overrides); ok {
			d.Unit = c.resolver.Unit()
			out = append(out, d)
		}
	}

	for _, cfg := range decl.MapFroms() {
		if cfg.Expr.IsRedundantFor(cfg.DestMember) {
			d := diag.New(diag.RedundantMapFrom, diag.Diagnostic{
				Unit:       c.resolver.Unit(),
				Member:     cfg.DestMember,
				SourceType: decl.SourceType,
				DestType:   decl.DestType,
				Location:   cfg.Location,
			})
			out = append(out, d)
		}
	}

	return out
}

// classifyMember applies steps 2-3 of the decision procedure to one
// destination member. A panic while evaluating one member is contained
// here so sibling members and other declarations still get classified.
func (c *Classifier) classifyMember(decl *mapping.Declaration, src, dst *shape.TypeShape, dm shape.Member, overrides map[string]mapping.MemberConfig) (d diag.Diagnostic, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("member classification panicked", map[string]interface{}{
				"member":     dm.Name,
				"sourceType": decl.SourceType,
				"destType":   decl.DestType,
				"panic":      r,
			})
			d, ok = diag.Diagnostic{}, false
		}
	}()

	// Explicit configuration of any kind pre-empts convention rules,
	// even when the configured expression is itself incompatible.
	if _, configured := overrides[dm.Name]; configured {
		return diag.Diagnostic{}, false
	}

	sm, found := src.Member(dm.Name)
	if !found {
		return c.classifyUnmatched(decl, src, dm)
	}

	st, dt := sm.Type, dm.Type

	// Unresolvable member types are skipped silently, never raised.
	if st.Kind == shape.KindUnknown || dt.Kind == shape.KindUnknown {
		return diag.Diagnostic{}, false
	}

	if st.Equal(dt) {
		return diag.Diagnostic{}, false
	}

	if st.IsCollection() && dt.IsCollection() {
		return c.classifyCollections(decl, dm, st, dt)
	}

	// Nullability first: the narrower condition wins when the underlying
	// types agree; anything else falls through to the generic mismatch.
	if st.IsNullable() && !dt.IsNullable() {
		if elem, hasElem := st.Element(); hasElem && elem.Equal(dt) {
			return diag.New(diag.NullableCompatibility, diag.Diagnostic{
				Member:           dm.Name,
				SourceType:       decl.SourceType,
				SourceMemberType: st.String(),
				DestType:         decl.DestType,
				DestMemberType:   dt.String(),
				Location:         decl.Location,
			}), true
		}
	}

	if st.IsUserDefined() && dt.IsUserDefined() {
		if c.resolver.EffectivelyMapped(st.Name, dt.Name) {
			return diag.Diagnostic{}, false
		}
		return diag.New(diag.ComplexTypeMappingMissing, diag.Diagnostic{
			Member:           dm.Name,
			SourceType:       decl.SourceType,
			SourceMemberType: st.String(),
			DestType:         decl.DestType,
			DestMemberType:   dt.String(),
			Location:         decl.Location,
		}), true
	}

	return diag.New(diag.PropertyTypeMismatch, diag.Diagnostic{
		Member:           dm.Name,
		SourceType:       decl.SourceType,
		SourceMemberType: st.String(),
		DestType:         decl.DestType,
		DestMemberType:   dt.String(),
		Location:         decl.Location,
	}), true
}

// classifyUnmatched handles step 3: no exact-name source member.
func (c *Classifier) classifyUnmatched(decl *mapping.Declaration, src *shape.TypeShape, dm shape.Member) (diag.Diagnostic, bool) {
	// A case-only mismatch pre-empts type reporting: renaming or one
	// explicit config resolves both at once.
	if candidate, found := src.MemberFold(dm.Name); found {
		return diag.New(diag.CaseSensitivityMismatch, diag.Diagnostic{
			Member:     dm.Name,
			SourceType: decl.SourceType,
			DestType:   decl.DestType,
			Candidate:  candidate.Name,
			Location:   decl.Location,
		}), true
	}

	if isRequired(dm) {
		return diag.New(diag.UnmappedRequiredProperty, diag.Diagnostic{
			Member:         dm.Name,
			SourceType:     decl.SourceType,
			DestType:       decl.DestType,
			DestMemberType: dm.Type.String(),
			Location:       decl.Location,
		}), true
	}

	// Left at the framework default: accepted convention.
	return diag.Diagnostic{}, false
}

// isRequired reports whether leaving the member unmapped is a defect:
// an explicit required flag, or a non-nullable complex type for which
// the framework default (null) is not an acceptable value.
func isRequired(m shape.Member) bool {
	if m.Required {
		return true
	}
	return !m.Nullable && m.Type.IsUserDefined()
}
