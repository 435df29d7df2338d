package csharp

import (
	sitter "github.com/smacker/go-tree-sitter"

	"maplint/internal/shape"
)

// collectionNames are single-argument containers treated as the
// collection variant rather than plain generics.
var collectionNames = map[string]bool{
	"List":                true,
	"IList":               true,
	"IEnumerable":         true,
	"ICollection":         true,
	"IReadOnlyList":       true,
	"IReadOnlyCollection": true,
	"HashSet":             true,
	"ISet":                true,
	"Queue":               true,
	"Stack":               true,
}

// systemValueTypes are framework types compared like primitives: two
// members of type DateTime are compatible without a mapping declaration.
var systemValueTypes = map[string]bool{
	"DateTime":       true,
	"DateTimeOffset": true,
	"TimeSpan":       true,
	"DateOnly":       true,
	"TimeOnly":       true,
	"Guid":           true,
}

// parseTypeRef converts a C# type node into the structural TypeRef
// variant. Anything unrecognizable becomes KindUnknown, which the
// classifier skips silently.
func parseTypeRef(node *sitter.Node, src []byte) shape.TypeRef {
	if node == nil {
		return shape.Unknown()
	}

	switch node.Type() {
	case "predefined_type":
		return shape.Primitive(node.Content(src))

	case "nullable_type":
		inner := node.NamedChild(0)
		if inner == nil {
			return shape.Unknown()
		}
		return shape.NullableOf(parseTypeRef(inner, src))

	case "generic_name":
		name := ""
		var args []shape.TypeRef
		for i := 0; i < int(node.NamedChildCount()); i++ {
			child := node.NamedChild(i)
			switch child.Type() {
			case "identifier":
				name = child.Content(src)
			case "type_argument_list":
				for j := 0; j < int(child.NamedChildCount()); j++ {
					args = append(args, parseTypeRef(child.NamedChild(j), src))
				}
			}
		}
		if name == "" {
			return shape.Unknown()
		}
		if collectionNames[name] && len(args) == 1 {
			return shape.CollectionOf(name, args[0])
		}
		return shape.Generic(name, args...)

	case "array_type":
		elem := node.ChildByFieldName("type")
		if elem == nil {
			elem = node.NamedChild(0)
		}
		return shape.CollectionOf("Array", parseTypeRef(elem, src))

	case "identifier", "qualified_name":
		name := node.Content(src)
		if systemValueTypes[name] {
			return shape.Primitive(name)
		}
		return shape.UserDefined(name)

	default:
		return shape.Unknown()
	}
}
