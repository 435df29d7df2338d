package shape

import (
	"fmt"
	"strings"
)

// Kind discriminates the TypeRef variant.
type Kind string

const (
	// KindUnknown marks a member type the extractor could not resolve
	KindUnknown Kind = "unknown"
	// KindPrimitive is a built-in scalar type (int, string, bool, ...)
	KindPrimitive Kind = "primitive"
	// KindNullable wraps another type with explicit nullability (T?)
	KindNullable Kind = "nullable"
	// KindCollection is a single-argument container (List<T>, IEnumerable<T>)
	KindCollection Kind = "collection"
	// KindUserDefined is a named complex type declared by the application
	KindUserDefined Kind = "user_defined"
	// KindGeneric is any other parameterized type (Dictionary<K,V>, ...)
	KindGeneric Kind = "generic"
)

// TypeRef is a structural reference to a member type. Exactly one
// variant applies, selected by Kind:
//   - Primitive, UserDefined: Name
//   - Nullable: Elem
//   - Collection: Container and Elem
//   - Generic: Name and Args
type TypeRef struct {
	Kind      Kind      `json:"kind" yaml:"kind"`
	Name      string    `json:"name,omitempty" yaml:"name,omitempty"`
	Container string    `json:"container,omitempty" yaml:"container,omitempty"`
	Elem      *TypeRef  `json:"elem,omitempty" yaml:"elem,omitempty"`
	Args      []TypeRef `json:"args,omitempty" yaml:"args,omitempty"`
}

// Primitive returns a TypeRef for a built-in scalar type.
func Primitive(name string) TypeRef {
	return TypeRef{Kind: KindPrimitive, Name: name}
}

// UserDefined returns a TypeRef for an application-declared complex type.
func UserDefined(name string) TypeRef {
	return TypeRef{Kind: KindUserDefined, Name: name}
}

// NullableOf wraps t as an explicitly nullable type.
func NullableOf(t TypeRef) TypeRef {
	return TypeRef{Kind: KindNullable, Elem: &t}
}

// CollectionOf returns a single-argument container reference.
func CollectionOf(container string, elem TypeRef) TypeRef {
	return TypeRef{Kind: KindCollection, Container: container, Elem: &elem}
}

// Generic returns a parameterized type reference with arbitrary arity.
func Generic(name string, args ...TypeRef) TypeRef {
	return TypeRef{Kind: KindGeneric, Name: name, Args: args}
}

// Unknown returns the unresolved type reference.
func Unknown() TypeRef {
	return TypeRef{Kind: KindUnknown}
}

// IsNullable reports whether the reference is the nullable variant.
func (t TypeRef) IsNullable() bool {
	return t.Kind == KindNullable
}

// IsCollection reports whether the reference is a single-argument container.
func (t TypeRef) IsCollection() bool {
	return t.Kind == KindCollection
}

// IsUserDefined reports whether the reference names an application type.
func (t TypeRef) IsUserDefined() bool {
	return t.Kind == KindUserDefined
}

// Element returns the wrapped element type for Nullable and Collection
// variants. The second result is false for every other variant.
func (t TypeRef) Element() (TypeRef, bool) {
	if t.Elem == nil {
		return TypeRef{Kind: KindUnknown}, false
	}
	return *t.Elem, true
}

// Equal reports structural equality of two type references.
func (t TypeRef) Equal(o TypeRef) bool {
	if t.Kind != o.Kind || t.Name != o.Name || t.Container != o.Container {
		return false
	}
	if (t.Elem == nil) != (o.Elem == nil) {
		return false
	}
	if t.Elem != nil && !t.Elem.Equal(*o.Elem) {
		return false
	}
	if len(t.Args) != len(o.Args) {
		return false
	}
	for i := range t.Args {
		if !t.Args[i].Equal(o.Args[i]) {
			return false
		}
	}
	return true
}

// String renders the reference in source-like notation, e.g. "int",
// "string?", "List<string>", "Dictionary<string, int>".
func (t TypeRef) String() string {
	switch t.Kind {
	case KindPrimitive, KindUserDefined:
		return t.Name
	case KindNullable:
		if t.Elem == nil {
			return "?"
		}
		return t.Elem.String() + "?"
	case KindCollection:
		if t.Elem == nil {
			return t.Container + "<>"
		}
		return fmt.Sprintf("%s<%s>", t.Container, t.Elem.String())
	case KindGeneric:
		args := make([]string, len(t.Args))
		for i, a := range t.Args {
			args[i] = a.String()
		}
		return fmt.Sprintf("%s<%s>", t.Name, strings.Join(args, ", "))
	default:
		return "<unresolved>"
	}
}

// Member is one settable slot on a type shape.
type Member struct {
	Name     string  `json:"name" yaml:"name"`
	Type     TypeRef `json:"type" yaml:"type"`
	Settable bool    `json:"settable" yaml:"settable"`
	Required bool    `json:"required,omitempty" yaml:"required,omitempty"`
	Nullable bool    `json:"nullable,omitempty" yaml:"nullable,omitempty"`
}

// TypeShape is the structural description of one type: its qualified
// name and its members in declaration order. Declaration order is part
// of the contract; case-insensitive lookups tie-break on it.
type TypeShape struct {
	Name    string   `json:"name" yaml:"name"`
	Members []Member `json:"members" yaml:"members"`
}

// Member returns the member with the exact given name.
func (s *TypeShape) Member(name string) (Member, bool) {
	for _, m := range s.Members {
		if m.Name == name {
			return m, true
		}
	}
	return Member{}, false
}

// MemberFold returns the first member, in declaration order, whose name
// matches case-insensitively. Multiple candidates tie-break to the
// first declared.
func (s *TypeShape) MemberFold(name string) (Member, bool) {
	for _, m := range s.Members {
		if strings.EqualFold(m.Name, name) {
			return m, true
		}
	}
	return Member{}, false
}

// WithMember returns a copy of the shape with an additional member
// appended. The receiver is not modified; fix synthesis uses this to
// describe post-fix shapes without mutating the analysis snapshot.
func (s *TypeShape) WithMember(m Member) *TypeShape {
	members := make([]Member, 0, len(s.Members)+1)
	members = append(members, s.Members...)
	members = append(members, m)
	return &TypeShape{Name: s.Name, Members: members}
}
