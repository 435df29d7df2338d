package fixes

import (
	"fmt"
	"strings"

	"maplint/internal/diag"
	"maplint/internal/logging"
	"maplint/internal/mapping"
	"maplint/internal/shape"
)

// Synthesizer produces fix alternatives for diagnostics. It is pure:
// every Fix is computed from the diagnostic and the original snapshot,
// never from previously synthesized fixes.
type Synthesizer struct {
	logger *logging.Logger
}

// NewSynthesizer creates a fix synthesizer.
func NewSynthesizer(logger *logging.Logger) *Synthesizer {
	return &Synthesizer{logger: logger}
}

// Synthesize returns the selectable fix alternatives for one
// diagnostic, in stable order. An empty result means the rule has no
// mechanical resolution (ComplexTypeMappingMissing needs a reciprocal
// declaration the fix engine cannot invent).
func (s *Synthesizer) Synthesize(d diag.Diagnostic, decl *mapping.Declaration, src, dst *shape.TypeShape) []Fix {
	if decl == nil || dst == nil {
		return nil
	}

	switch d.Rule {
	case diag.PropertyTypeMismatch:
		return s.stringConversionFix(d, dst)
	case diag.GenericTypeMismatch:
		return s.elementConversionFix(d, dst)
	case diag.NullableCompatibility:
		return s.nullCoalesceFix(d, src)
	case diag.ComplexTypeMappingMissing:
		return nil
	case diag.CaseSensitivityMismatch:
		return s.caseMismatchFixes(d)
	case diag.UnmappedRequiredProperty:
		return s.unmappedFixes(d, dst)
	case diag.RedundantMapFrom:
		return s.removeConfigFix(d, decl)
	case diag.ExpensiveOperationInMapFrom, diag.NonDeterministicOperation, diag.TaskResultSynchronousAccess:
		return s.precomputeFixes(d, decl, dst)
	case diag.MultipleEnumeration:
		return s.materializeFix(d, decl)
	default:
		s.logger.Warn("no fix synthesis for rule", map[string]interface{}{"rule": string(d.Rule)})
		return nil
	}
}

// stringConversionFix appends an explicit ToString conversion. Offered
// only when the destination member is a plain string; other mismatches
// have no mechanical conversion worth guessing.
func (s *Synthesizer) stringConversionFix(d diag.Diagnostic, dst *shape.TypeShape) []Fix {
	dm, ok := dst.Member(d.Member)
	if !ok || !isString(dm.Type) {
		return nil
	}
	expr := fmt.Sprintf("src => src.%s.ToString()", d.Member)
	return []Fix{appendMapFrom(d, expr, fmt.Sprintf("Map '%s' through an explicit string conversion", d.Member))}
}

// elementConversionFix appends an element-wise ToString projection for
// string-producing collection mismatches.
func (s *Synthesizer) elementConversionFix(d diag.Diagnostic, dst *shape.TypeShape) []Fix {
	dm, ok := dst.Member(d.Member)
	if !ok || !dm.Type.IsCollection() {
		return nil
	}
	elem, ok := dm.Type.Element()
	if !ok || !isString(elem) {
		return nil
	}
	expr := fmt.Sprintf("src => src.%s.Select(x => x.ToString()).ToList()", d.Member)
	return []Fix{appendMapFrom(d, expr, fmt.Sprintf("Convert each element of '%s' to string explicitly", d.Member))}
}

// nullCoalesceFix appends MapFrom(src.X ?? <type default>).
func (s *Synthesizer) nullCoalesceFix(d diag.Diagnostic, src *shape.TypeShape) []Fix {
	lit := "default"
	if src != nil {
		if sm, ok := src.Member(d.Member); ok {
			if elem, hasElem := sm.Type.Element(); hasElem {
				lit = defaultLiteral(elem)
			}
		}
	}
	expr := fmt.Sprintf("src => src.%s ?? %s", d.Member, lit)
	return []Fix{appendMapFrom(d, expr, fmt.Sprintf("Coalesce nullable '%s' to its type default", d.Member))}
}

// caseMismatchFixes offers three mutually exclusive alternatives.
func (s *Synthesizer) caseMismatchFixes(d diag.Diagnostic) []Fix {
	explicit := appendMapFrom(d,
		fmt.Sprintf("src => src.%s", d.Candidate),
		fmt.Sprintf("Map '%s' explicitly from '%s'", d.Member, d.Candidate))

	convention := Fix{
		Description: "Recommend a case-insensitive member naming convention for the profile",
		CommentOnly: true,
		Edits: []Edit{{
			Operation: OpInsertComment,
			Anchor:    d.Location,
			Member:    d.Member,
			Text:      "// Consider configuring a case-insensitive source member naming convention for this profile",
		}},
	}

	rename := Fix{
		Description: fmt.Sprintf("Recommend renaming source member '%s' to '%s'", d.Candidate, d.Member),
		CommentOnly: true,
		Edits: []Edit{{
			Operation: OpInsertComment,
			Anchor:    d.Location,
			Member:    d.Member,
			Text:      fmt.Sprintf("// Consider renaming source member '%s' to '%s' to match the destination", d.Candidate, d.Member),
		}},
	}

	return []Fix{explicit, convention, rename}
}

// unmappedFixes offers a constant placeholder or a source-member hint.
func (s *Synthesizer) unmappedFixes(d diag.Diagnostic, dst *shape.TypeShape) []Fix {
	lit := "default"
	if dm, ok := dst.Member(d.Member); ok {
		lit = sampleLiteral(dm.Type)
	}

	constant := Fix{
		Description: fmt.Sprintf("Map required '%s' from a constant placeholder", d.Member),
		Edits: []Edit{{
			Operation: OpAppendMemberConfig,
			Anchor:    d.Location,
			Member:    d.Member,
			Text:      forMemberSnippet(d.Member, fmt.Sprintf("src => %s", lit)),
		}},
	}

	hint := Fix{
		Description: fmt.Sprintf("Recommend adding a matching '%s' member to %s", d.Member, d.SourceType),
		CommentOnly: true,
		Edits: []Edit{{
			Operation: OpInsertComment,
			Anchor:    d.Location,
			Member:    d.Member,
			Text:      fmt.Sprintf("// Consider adding a '%s' member to %s so convention can map it", d.Member, d.SourceType),
		}},
	}

	return []Fix{constant, hint}
}

// removeConfigFix removes the member's explicit config entirely.
func (s *Synthesizer) removeConfigFix(d diag.Diagnostic, decl *mapping.Declaration) []Fix {
	cfg, ok := decl.Overrides()[d.Member]
	if !ok {
		return nil
	}
	return []Fix{{
		Description: fmt.Sprintf("Remove the redundant MapFrom for '%s'", d.Member),
		Edits: []Edit{{
			Operation: OpRemoveMemberConfig,
			Anchor:    cfg.Location,
			Member:    d.Member,
		}},
	}}
}

// precomputeFixes pushes computation out of the mapping expression: the
// MapFrom config is removed and a same-named, same-typed member is
// added to the source type, marked for population before mapping.
func (s *Synthesizer) precomputeFixes(d diag.Diagnostic, decl *mapping.Declaration, dst *shape.TypeShape) []Fix {
	cfg, ok := decl.Overrides()[d.Member]
	if !ok {
		return nil
	}
	memberType := shape.UserDefined("object")
	if dm, found := dst.Member(d.Member); found {
		memberType = dm.Type
	}
	return []Fix{{
		Description: fmt.Sprintf("Precompute '%s' on %s before mapping", d.Member, d.SourceType),
		Edits: []Edit{
			{
				Operation: OpRemoveMemberConfig,
				Anchor:    cfg.Location,
				Member:    d.Member,
			},
			{
				Operation:  OpInsertSourceMember,
				Anchor:     cfg.Location,
				Member:     d.Member,
				MemberType: &memberType,
				Text: fmt.Sprintf("// Populate before mapping\npublic %s %s { get; set; }",
					memberType.String(), d.Member),
			},
		},
	}}
}

// materializeFix rewrites the expression as a block-bodied lambda with
// one materialized local, replacing every enumeration site with it.
func (s *Synthesizer) materializeFix(d diag.Diagnostic, decl *mapping.Declaration) []Fix {
	cfg, ok := decl.Overrides()[d.Member]
	if !ok || cfg.Expr == nil || d.Candidate == "" {
		return nil
	}

	param, body := splitLambda(cfg.Expr.Source, cfg.Expr.Param)
	local := localNameFor(d.Candidate)
	rewritten := fmt.Sprintf("%s => { var %s = %s.ToList(); return %s; }",
		param, local, d.Candidate, replaceAccessor(body, d.Candidate, local))

	return []Fix{{
		Description: fmt.Sprintf("Materialize '%s' once and reuse it", d.Candidate),
		Edits: []Edit{{
			Operation: OpRewriteExpression,
			Anchor:    cfg.Location,
			Member:    d.Member,
			Text:      rewritten,
		}},
	}}
}

// replaceAccessor substitutes local for every standalone occurrence of
// accessor in body. Occurrences embedded in a longer identifier, such
// as src.ItemsArchive when the accessor is src.Items, stay untouched.
func replaceAccessor(body, accessor, local string) string {
	var b strings.Builder
	for i := 0; i < len(body); {
		j := strings.Index(body[i:], accessor)
		if j < 0 {
			b.WriteString(body[i:])
			break
		}
		j += i
		end := j + len(accessor)
		bounded := (j == 0 || !isIdentByte(body[j-1])) &&
			(end == len(body) || !isIdentByte(body[end]))
		if !bounded {
			b.WriteString(body[i : j+1])
			i = j + 1
			continue
		}
		b.WriteString(body[i:j])
		b.WriteString(local)
		i = end
	}
	return b.String()
}

func isIdentByte(c byte) bool {
	return c == '_' || '0' <= c && c <= '9' || 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z'
}

func appendMapFrom(d diag.Diagnostic, expr, description string) Fix {
	return Fix{
		Description: description,
		Edits: []Edit{{
			Operation: OpAppendMemberConfig,
			Anchor:    d.Location,
			Member:    d.Member,
			Text:      forMemberSnippet(d.Member, expr),
		}},
	}
}

func forMemberSnippet(member, expr string) string {
	return fmt.Sprintf(".ForMember(dest => dest.%s, opt => opt.MapFrom(%s))", member, expr)
}

// splitLambda separates a lambda's parameter list from its body. When
// the source text is unavailable the declared parameter name (or "src")
// and an empty body are returned.
func splitLambda(source, param string) (string, string) {
	if param == "" {
		param = "src"
	}
	if idx := strings.Index(source, "=>"); idx >= 0 {
		p := strings.TrimSpace(source[:idx])
		if p != "" {
			param = p
		}
		return param, strings.TrimSpace(source[idx+2:])
	}
	return param, strings.TrimSpace(source)
}

// localNameFor derives a local variable name from the enumerated
// accessor, e.g. "src.Items" -> "items".
func localNameFor(accessor string) string {
	name := accessor
	if idx := strings.LastIndex(name, "."); idx >= 0 {
		name = name[idx+1:]
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return "materialized"
	}
	return strings.ToLower(name[:1]) + name[1:]
}

func isString(t shape.TypeRef) bool {
	return t.Kind == shape.KindPrimitive && t.Name == "string"
}

// defaultLiteral is the coalescing fallback for a type.
func defaultLiteral(t shape.TypeRef) string {
	if t.Kind != shape.KindPrimitive {
		return "default"
	}
	switch t.Name {
	case "string":
		return `string.Empty`
	case "int", "long", "short", "byte", "decimal", "double", "float":
		return "0"
	case "bool":
		return "false"
	default:
		return "default"
	}
}

// sampleLiteral is the placeholder constant for an unmapped required
// member, chosen by destination type.
func sampleLiteral(t shape.TypeRef) string {
	if t.Kind != shape.KindPrimitive {
		return "default"
	}
	switch t.Name {
	case "string":
		return `""`
	case "int", "long", "short", "byte":
		return "0"
	case "decimal", "double", "float":
		return "0.0"
	case "bool":
		return "false"
	default:
		return "default"
	}
}
