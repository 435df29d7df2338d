package csharp

import (
	sitter "github.com/smacker/go-tree-sitter"

	"maplint/internal/mapping"
)

// call is one link of a fluent configuration chain, e.g. one
// .ForMember(...) invocation.
type call struct {
	name     string
	typeArgs []*sitter.Node
	args     *sitter.Node
	node     *sitter.Node
}

// extractDeclarations finds every CreateMap<Src, Dst>() chain in the
// file and converts it into a MappingDeclaration, preserving source
// order of both declarations and their member configs.
func extractDeclarations(root *sitter.Node, src []byte, file string) []*mapping.Declaration {
	var decls []*mapping.Declaration

	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n.Type() == "invocation_expression" && isCreateMapBase(n, src) {
			top := chainTop(n)
			if d := buildDeclaration(decompose(top, src), src, file); d != nil {
				decls = append(decls, d)
			}
		}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			walk(n.NamedChild(i))
		}
	}
	walk(root)

	return decls
}

// isCreateMapBase reports whether the invocation is the CreateMap call
// itself, not a chained continuation.
func isCreateMapBase(inv *sitter.Node, src []byte) bool {
	fn := inv.ChildByFieldName("function")
	if fn == nil {
		return false
	}
	switch fn.Type() {
	case "generic_name":
		id := fn.NamedChild(0)
		return id != nil && id.Type() == "identifier" && id.Content(src) == "CreateMap"
	case "member_access_expression":
		// this.CreateMap<...>() style
		name := fn.ChildByFieldName("name")
		if name == nil || name.Type() != "generic_name" {
			return false
		}
		expr := fn.ChildByFieldName("expression")
		if expr != nil && expr.Type() == "invocation_expression" {
			return false
		}
		id := name.NamedChild(0)
		return id != nil && id.Type() == "identifier" && id.Content(src) == "CreateMap"
	default:
		return false
	}
}

// chainTop climbs from the CreateMap call to the outermost invocation
// of its fluent chain.
func chainTop(inv *sitter.Node) *sitter.Node {
	top := inv
	for {
		parent := top.Parent()
		if parent == nil || parent.Type() != "member_access_expression" {
			return top
		}
		grand := parent.Parent()
		if grand == nil || grand.Type() != "invocation_expression" {
			return top
		}
		top = grand
	}
}

// decompose flattens a fluent chain into calls in source order.
func decompose(inv *sitter.Node, src []byte) []call {
	fn := inv.ChildByFieldName("function")
	args := inv.ChildByFieldName("arguments")
	if fn == nil {
		return nil
	}

	switch fn.Type() {
	case "member_access_expression":
		nameNode := fn.ChildByFieldName("name")
		c := call{node: inv, args: args}
		if nameNode != nil {
			c.name, c.typeArgs = callName(nameNode, src)
		}
		inner := fn.ChildByFieldName("expression")
		if inner != nil && inner.Type() == "invocation_expression" {
			return append(decompose(inner, src), c)
		}
		return []call{c}

	case "generic_name", "identifier":
		name, typeArgs := callName(fn, src)
		return []call{{name: name, typeArgs: typeArgs, args: args, node: inv}}

	default:
		return nil
	}
}

func callName(node *sitter.Node, src []byte) (string, []*sitter.Node) {
	if node.Type() == "identifier" {
		return node.Content(src), nil
	}
	if node.Type() != "generic_name" {
		return "", nil
	}
	var name string
	var typeArgs []*sitter.Node
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		switch child.Type() {
		case "identifier":
			name = child.Content(src)
		case "type_argument_list":
			for j := 0; j < int(child.NamedChildCount()); j++ {
				typeArgs = append(typeArgs, child.NamedChild(j))
			}
		}
	}
	return name, typeArgs
}

func buildDeclaration(calls []call, src []byte, file string) *mapping.Declaration {
	if len(calls) == 0 {
		return nil
	}
	base := calls[0]
	if base.name != "CreateMap" || len(base.typeArgs) != 2 {
		return nil
	}

	decl := &mapping.Declaration{
		SourceType: parseTypeRef(base.typeArgs[0], src).String(),
		DestType:   parseTypeRef(base.typeArgs[1], src).String(),
		Location:   locationOf(base.node, file),
	}

	for _, c := range calls[1:] {
		switch c.name {
		case "ForMember":
			if cfg, ok := extractMemberConfig(c, src, file); ok {
				decl.Configs = append(decl.Configs, cfg)
			}
		case "ReverseMap":
			decl.HasReverseMap = true
		}
	}

	return decl
}

// extractMemberConfig reads one ForMember(d => d.X, opt => opt.___(...))
// call. Unrecognized option bodies yield no config at all rather than
// a guessed one.
func extractMemberConfig(c call, src []byte, file string) (mapping.MemberConfig, bool) {
	exprs := argumentExpressions(c.args)
	if len(exprs) < 2 {
		return mapping.MemberConfig{}, false
	}

	destMember := selectorMember(exprs[0], src)
	if destMember == "" {
		return mapping.MemberConfig{}, false
	}

	cfg := mapping.MemberConfig{
		DestMember: destMember,
		Location:   locationOf(c.node, file),
	}

	kind, payload := optionCall(exprs[1], src)
	switch kind {
	case "MapFrom":
		cfg.Kind = mapping.ConfigMapFrom
		cfg.Expr = summarizeExpression(payload, src)
	case "Ignore":
		cfg.Kind = mapping.ConfigIgnore
	case "Condition", "PreCondition":
		cfg.Kind = mapping.ConfigCondition
	case "UseValue", "NullSubstitute":
		cfg.Kind = mapping.ConfigConstant
	default:
		return mapping.MemberConfig{}, false
	}

	return cfg, true
}

// argumentExpressions unwraps an argument_list into its expressions.
func argumentExpressions(args *sitter.Node) []*sitter.Node {
	if args == nil {
		return nil
	}
	var exprs []*sitter.Node
	for i := 0; i < int(args.NamedChildCount()); i++ {
		arg := args.NamedChild(i)
		if arg.Type() != "argument" {
			continue
		}
		if inner := arg.NamedChild(0); inner != nil {
			exprs = append(exprs, inner)
		}
	}
	return exprs
}

// selectorMember reads the member name from a "d => d.Name" selector.
func selectorMember(node *sitter.Node, src []byte) string {
	body := lambdaBody(node)
	if body == nil || body.Type() != "member_access_expression" {
		return ""
	}
	name := body.ChildByFieldName("name")
	if name == nil {
		return ""
	}
	return name.Content(src)
}

// optionCall finds the configuration verb inside "opt => opt.MapFrom(x)"
// and returns the verb plus its first argument expression.
func optionCall(node *sitter.Node, src []byte) (string, *sitter.Node) {
	body := lambdaBody(node)
	if body == nil {
		return "", nil
	}

	var verb string
	var payload *sitter.Node
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if verb != "" {
			return
		}
		if n.Type() == "invocation_expression" {
			fn := n.ChildByFieldName("function")
			if fn != nil && fn.Type() == "member_access_expression" {
				name := fn.ChildByFieldName("name")
				if name != nil {
					switch name.Content(src) {
					case "MapFrom", "Ignore", "Condition", "PreCondition", "UseValue", "NullSubstitute":
						verb = name.Content(src)
						if exprs := argumentExpressions(n.ChildByFieldName("arguments")); len(exprs) > 0 {
							payload = exprs[0]
						}
						return
					}
				}
			}
		}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			walk(n.NamedChild(i))
		}
	}
	walk(body)

	return verb, payload
}

func locationOf(node *sitter.Node, file string) mapping.Location {
	if node == nil {
		return mapping.Location{File: file}
	}
	point := node.StartPoint()
	return mapping.Location{
		File:   file,
		Line:   int(point.Row) + 1,
		Column: int(point.Column) + 1,
	}
}
