package csharp

import (
	sitter "github.com/smacker/go-tree-sitter"

	"maplint/internal/shape"
)

// extractShapes walks a parsed file for class and record declarations
// and converts each into a TypeShape. Member order follows declaration
// order, which the classifier's case-insensitive tie-break depends on.
func extractShapes(root *sitter.Node, src []byte) []*shape.TypeShape {
	var shapes []*shape.TypeShape

	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		switch n.Type() {
		case "class_declaration", "record_declaration", "struct_declaration":
			if s := extractShape(n, src); s != nil {
				shapes = append(shapes, s)
			}
		}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			walk(n.NamedChild(i))
		}
	}
	walk(root)

	return shapes
}

func extractShape(node *sitter.Node, src []byte) *shape.TypeShape {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}

	s := &shape.TypeShape{Name: nameNode.Content(src)}

	body := node.ChildByFieldName("body")
	if body == nil {
		return s
	}

	for i := 0; i < int(body.NamedChildCount()); i++ {
		child := body.NamedChild(i)
		if child.Type() != "property_declaration" {
			continue
		}
		if m, ok := extractMember(child, src); ok {
			s.Members = append(s.Members, m)
		}
	}

	return s
}

func extractMember(node *sitter.Node, src []byte) (shape.Member, bool) {
	nameNode := node.ChildByFieldName("name")
	typeNode := node.ChildByFieldName("type")
	if nameNode == nil || typeNode == nil {
		return shape.Member{}, false
	}

	ref := parseTypeRef(typeNode, src)
	m := shape.Member{
		Name:     nameNode.Content(src),
		Type:     ref,
		Settable: hasSetter(node),
		Required: hasModifier(node, src, "required"),
		Nullable: ref.IsNullable(),
	}
	return m, true
}

// hasSetter reports whether the property has a set or init accessor.
func hasSetter(node *sitter.Node) bool {
	accessors := node.ChildByFieldName("accessors")
	if accessors == nil {
		return false
	}
	for i := 0; i < int(accessors.NamedChildCount()); i++ {
		acc := accessors.NamedChild(i)
		if acc.Type() != "accessor_declaration" {
			continue
		}
		for j := 0; j < int(acc.ChildCount()); j++ {
			switch acc.Child(j).Type() {
			case "set", "init":
				return true
			}
		}
	}
	return false
}

func hasModifier(node *sitter.Node, src []byte, modifier string) bool {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child.Type() == "modifier" && child.Content(src) == modifier {
			return true
		}
	}
	return false
}
