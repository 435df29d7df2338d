package csharp

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"maplint/internal/mapping"
)

// enumerationMethods are LINQ operators that enumerate their receiver.
var enumerationMethods = map[string]bool{
	"Count": true, "LongCount": true, "Sum": true, "Average": true,
	"Min": true, "Max": true, "Aggregate": true, "Any": true, "All": true,
	"First": true, "FirstOrDefault": true, "Last": true, "LastOrDefault": true,
	"Single": true, "SingleOrDefault": true, "Contains": true,
	"ToList": true, "ToArray": true, "ToDictionary": true, "ToHashSet": true,
}

// nonDeterministicAccessors are time- or random-valued member reads.
var nonDeterministicAccessors = map[string]bool{
	"DateTime.Now":          true,
	"DateTime.UtcNow":       true,
	"DateTime.Today":        true,
	"DateTimeOffset.Now":    true,
	"DateTimeOffset.UtcNow": true,
	"Random.Shared":         true,
	"Environment.TickCount": true,
}

// summarizeExpression reduces a MapFrom argument to its ExprShape.
// Anything that is not a lambda, or whose body defies the patterns
// below, becomes ExprOpaque: convenience rules then stay silent.
func summarizeExpression(node *sitter.Node, src []byte) *mapping.ExprShape {
	if node == nil {
		return &mapping.ExprShape{Kind: mapping.ExprOpaque}
	}

	e := &mapping.ExprShape{Source: node.Content(src)}
	if node.Type() != "lambda_expression" {
		e.Kind = mapping.ExprOpaque
		return e
	}

	e.Param = lambdaParam(node, src)
	body := lambdaBody(node)
	if body == nil || e.Param == "" {
		e.Kind = mapping.ExprOpaque
		return e
	}

	e.Sites = collectSites(body, src, e.Param)

	switch {
	case isBareMemberAccess(body, src, e.Param):
		e.Kind = mapping.ExprBareAccess
		e.OnParameter = true
		e.Member = body.ChildByFieldName("name").Content(src)
	case body.Type() == "member_access_expression" && rootIdentifier(body, src) != "":
		// bare access off a captured variable, not the source parameter
		e.Kind = mapping.ExprBareAccess
		e.OnParameter = false
		if name := body.ChildByFieldName("name"); name != nil {
			e.Member = name.Content(src)
		}
	case isLiteral(body):
		e.Kind = mapping.ExprConstant
	case len(e.Sites) > 0:
		e.Kind = mapping.ExprComplex
	case strings.Contains(e.Source, e.Param+"."):
		e.Kind = mapping.ExprChain
		e.OnParameter = true
	default:
		e.Kind = mapping.ExprOpaque
	}

	return e
}

// lambdaParam returns the name of the lambda's (single) parameter.
func lambdaParam(node *sitter.Node, src []byte) string {
	params := node.ChildByFieldName("parameters")
	if params == nil {
		return ""
	}
	switch params.Type() {
	case "identifier":
		return params.Content(src)
	case "parameter_list":
		for i := 0; i < int(params.NamedChildCount()); i++ {
			p := params.NamedChild(i)
			if p.Type() != "parameter" {
				continue
			}
			if name := p.ChildByFieldName("name"); name != nil {
				return name.Content(src)
			}
		}
	}
	return ""
}

// lambdaBody returns the body expression of a lambda node, or nil.
func lambdaBody(node *sitter.Node) *sitter.Node {
	if node == nil || node.Type() != "lambda_expression" {
		return nil
	}
	return node.ChildByFieldName("body")
}

// collectSites walks the body for hazard-relevant feature sites.
// Enumeration sites are only counted when the enumerated accessor
// roots at the lambda's own parameter: a materialized local produced by
// the MultipleEnumeration fix must not re-trigger the rule.
func collectSites(body *sitter.Node, src []byte, param string) []mapping.Site {
	var sites []mapping.Site

	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		switch n.Type() {
		case "invocation_expression":
			sites = append(sites, invocationSites(n, src, param)...)
		case "member_access_expression":
			text := n.Content(src)
			if nonDeterministicAccessors[text] {
				sites = append(sites, mapping.Site{Kind: mapping.SiteNonDeterministic, Accessor: text})
			}
			if name := n.ChildByFieldName("name"); name != nil && name.Content(src) == "Result" {
				if expr := n.ChildByFieldName("expression"); expr != nil && expr.Type() == "invocation_expression" {
					sites = append(sites, mapping.Site{Kind: mapping.SiteBlockingUnwrap, Accessor: text})
				}
			}
		case "object_creation_expression":
			if t := n.ChildByFieldName("type"); t != nil && t.Content(src) == "Random" {
				sites = append(sites, mapping.Site{Kind: mapping.SiteNonDeterministic, Accessor: "new Random"})
			}
		}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			walk(n.NamedChild(i))
		}
	}
	walk(body)

	return sites
}

func invocationSites(inv *sitter.Node, src []byte, param string) []mapping.Site {
	fn := inv.ChildByFieldName("function")
	if fn == nil || fn.Type() != "member_access_expression" {
		return nil
	}
	nameNode := fn.ChildByFieldName("name")
	receiver := fn.ChildByFieldName("expression")
	if nameNode == nil || receiver == nil {
		return nil
	}
	verb := nameNode.Content(src)

	var sites []mapping.Site

	switch {
	case verb == "NewGuid" && receiver.Content(src) == "Guid":
		sites = append(sites, mapping.Site{Kind: mapping.SiteNonDeterministic, Accessor: "Guid.NewGuid"})

	case verb == "Wait" || verb == "GetResult":
		sites = append(sites, mapping.Site{Kind: mapping.SiteBlockingUnwrap, Accessor: verb})

	case enumerationMethods[verb]:
		if accessor := baseAccessor(receiver, src, param); accessor != "" {
			sites = append(sites, mapping.Site{Kind: mapping.SiteEnumeration, Accessor: accessor})
		}
	}

	if root := rootIdentifier(receiver, src); root != "" && isDependencyName(root) {
		sites = append(sites, mapping.Site{Kind: mapping.SiteDependencyCall, Accessor: root})
	}

	return sites
}

// baseAccessor descends a receiver chain to the first property access
// off the lambda parameter, e.g. src.Items.Where(...) -> "src.Items".
func baseAccessor(node *sitter.Node, src []byte, param string) string {
	for node != nil {
		switch node.Type() {
		case "member_access_expression":
			expr := node.ChildByFieldName("expression")
			if expr != nil && expr.Type() == "identifier" && expr.Content(src) == param {
				return node.Content(src)
			}
			node = expr
		case "invocation_expression":
			fn := node.ChildByFieldName("function")
			if fn == nil || fn.Type() != "member_access_expression" {
				return ""
			}
			node = fn.ChildByFieldName("expression")
		default:
			return ""
		}
	}
	return ""
}

// rootIdentifier returns the leftmost identifier of an access chain.
func rootIdentifier(node *sitter.Node, src []byte) string {
	for node != nil {
		switch node.Type() {
		case "identifier":
			return node.Content(src)
		case "member_access_expression":
			node = node.ChildByFieldName("expression")
		case "invocation_expression":
			fn := node.ChildByFieldName("function")
			if fn == nil {
				return ""
			}
			node = fn
		default:
			return ""
		}
	}
	return ""
}

// isDependencyName reports whether an identifier looks like a data
// access or remote-call capable dependency.
func isDependencyName(name string) bool {
	n := strings.ToLower(strings.TrimPrefix(name, "_"))
	for _, suffix := range []string{"repository", "repo", "service", "client", "context", "gateway", "dao", "store"} {
		if strings.HasSuffix(n, suffix) {
			return true
		}
	}
	return n == "db" || n == "database"
}

func isBareMemberAccess(body *sitter.Node, src []byte, param string) bool {
	if body.Type() != "member_access_expression" {
		return false
	}
	expr := body.ChildByFieldName("expression")
	return expr != nil && expr.Type() == "identifier" && expr.Content(src) == param
}

func isLiteral(node *sitter.Node) bool {
	switch node.Type() {
	case "integer_literal", "real_literal", "string_literal", "character_literal",
		"boolean_literal", "null_literal", "verbatim_string_literal":
		return true
	default:
		return false
	}
}
