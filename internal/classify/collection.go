package classify

import (
	"maplint/internal/diag"
	"maplint/internal/mapping"
	"maplint/internal/shape"
)

// classifyCollections compares two single-argument container types by
// their element types. The diagnostic names the full outer container
// types ("List<string>" vs "List<int>"), never the bare elements, even
// though the defect originates at the element level.
//
// Recursion stops at one level: when both elements are themselves
// containers or parameterized types, the pair is left unclassified.
func (c *Classifier) classifyCollections(decl *mapping.Declaration, dm shape.Member, st, dt shape.TypeRef) (diag.Diagnostic, bool) {
	selem, sok := st.Element()
	delem, dok := dt.Element()
	if !sok || !dok {
		return diag.Diagnostic{}, false
	}

	if selem.Equal(delem) {
		return diag.Diagnostic{}, false
	}

	if nestedContainer(selem) && nestedContainer(delem) {
		return diag.Diagnostic{}, false
	}

	return diag.New(diag.GenericTypeMismatch, diag.Diagnostic{
		Member:           dm.Name,
		SourceType:       decl.SourceType,
		SourceMemberType: st.String(),
		DestType:         decl.DestType,
		DestMemberType:   dt.String(),
		Location:         decl.Location,
	}), true
}

func nestedContainer(t shape.TypeRef) bool {
	return t.Kind == shape.KindCollection || t.Kind == shape.KindGeneric
}
