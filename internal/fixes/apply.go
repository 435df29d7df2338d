package fixes

import (
	"strings"

	"maplint/internal/mapping"
	"maplint/internal/shape"
)

// Apply computes the model-level result of one fix against the
// original snapshot: the post-fix declaration and source shape.
// Comment-only edits change nothing in the model. The inputs are never
// mutated; every application starts from the unmodified originals, so
// fixes stay independent of each other.
func Apply(f Fix, decl *mapping.Declaration, src *shape.TypeShape) Applied {
	outDecl := cloneDeclaration(decl)
	outSrc := src

	for _, e := range f.Edits {
		switch e.Operation {
		case OpAppendMemberConfig:
			outDecl.Configs = append(outDecl.Configs, mapping.MemberConfig{
				DestMember: e.Member,
				Kind:       mapping.ConfigMapFrom,
				Expr:       summarizeSnippet(e.Text),
				Location:   e.Anchor,
			})
		case OpRemoveMemberConfig:
			kept := outDecl.Configs[:0]
			for _, cfg := range outDecl.Configs {
				if cfg.DestMember != e.Member {
					kept = append(kept, cfg)
				}
			}
			outDecl.Configs = kept
		case OpRewriteExpression:
			for i := range outDecl.Configs {
				if outDecl.Configs[i].DestMember == e.Member && outDecl.Configs[i].Kind == mapping.ConfigMapFrom {
					outDecl.Configs[i].Expr = summarizeRewritten(e.Text)
				}
			}
		case OpInsertSourceMember:
			if outSrc != nil && e.MemberType != nil {
				if _, exists := outSrc.Member(e.Member); !exists {
					outSrc = outSrc.WithMember(shape.Member{
						Name:     e.Member,
						Type:     *e.MemberType,
						Settable: true,
						Nullable: e.MemberType.IsNullable(),
					})
				}
			}
		case OpInsertComment:
			// advisory only
		}
	}

	return Applied{Declaration: outDecl, SourceShape: outSrc}
}

func cloneDeclaration(d *mapping.Declaration) *mapping.Declaration {
	if d == nil {
		return nil
	}
	out := *d
	out.Configs = make([]mapping.MemberConfig, len(d.Configs))
	copy(out.Configs, d.Configs)
	return &out
}

// summarizeSnippet builds the expression summary for a synthesized
// ForMember snippet. Synthesized expressions never contain hazard
// sites; the only distinction that matters downstream is bare access
// versus everything else, for the redundancy rule.
func summarizeSnippet(snippet string) *mapping.ExprShape {
	expr := innerMapFrom(snippet)
	param, body := splitLambda(expr, "")

	e := &mapping.ExprShape{Source: expr, Param: param}
	switch {
	case body == "":
		e.Kind = mapping.ExprOpaque
	case isBareAccess(body, param):
		e.Kind = mapping.ExprBareAccess
		e.OnParameter = true
		e.Member = strings.TrimPrefix(body, param+".")
	case strings.HasPrefix(body, param+"."):
		e.Kind = mapping.ExprChain
		e.OnParameter = true
	case !strings.Contains(body, param+"."):
		e.Kind = mapping.ExprConstant
	default:
		e.Kind = mapping.ExprComplex
	}
	return e
}

// summarizeRewritten summarizes a block-bodied materialized lambda.
// The materializing ToList enumerates its accessor exactly once;
// enumerations of the local are deliberately not counted.
func summarizeRewritten(source string) *mapping.ExprShape {
	param, _ := splitLambda(source, "")
	e := &mapping.ExprShape{
		Source: source,
		Param:  param,
		Kind:   mapping.ExprComplex,
	}
	if accessor := materializedAccessor(source, param); accessor != "" {
		e.Sites = []mapping.Site{{Kind: mapping.SiteEnumeration, Accessor: accessor}}
	}
	return e
}

// materializedAccessor extracts the accessor from a
// "var x = <accessor>.ToList();" binding.
func materializedAccessor(source, param string) string {
	idx := strings.Index(source, "var ")
	if idx < 0 {
		return ""
	}
	rest := source[idx:]
	eq := strings.Index(rest, "=")
	end := strings.Index(rest, ".ToList()")
	if eq < 0 || end < 0 || end < eq {
		return ""
	}
	accessor := strings.TrimSpace(rest[eq+1 : end])
	if !strings.HasPrefix(accessor, param+".") {
		return ""
	}
	return accessor
}

// innerMapFrom unwraps ".ForMember(..., opt => opt.MapFrom(<expr>))"
// down to <expr>; a bare expression passes through unchanged.
func innerMapFrom(snippet string) string {
	idx := strings.Index(snippet, "MapFrom(")
	if idx < 0 {
		return strings.TrimSpace(snippet)
	}
	rest := snippet[idx+len("MapFrom("):]
	depth := 1
	for i := 0; i < len(rest); i++ {
		switch rest[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return strings.TrimSpace(rest[:i])
			}
		}
	}
	return strings.TrimSpace(rest)
}

// isBareAccess reports whether body is exactly "<param>.<Identifier>".
func isBareAccess(body, param string) bool {
	if !strings.HasPrefix(body, param+".") {
		return false
	}
	member := body[len(param)+1:]
	if member == "" {
		return false
	}
	for _, r := range member {
		if !isIdentRune(r) {
			return false
		}
	}
	return true
}

func isIdentRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
		return true
	default:
		return false
	}
}
