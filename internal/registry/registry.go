// Package registry answers "is (X,Y) effectively mapped" for one
// analysis unit. The edge set is built once, before classification
// starts, and is read-only afterwards.
package registry

import "maplint/internal/mapping"

type edge struct {
	source string
	dest   string
}

// Resolver holds the directed type-pair edge set of one analysis unit.
// Visibility scoping is explicit: the unit ID is a constructor argument
// and declarations from other units never reach the same Resolver, so a
// satisfying declaration elsewhere in the program does not suppress a
// diagnostic here.
type Resolver struct {
	unit  string
	edges map[edge]struct{}
}

// New builds the edge set from every declaration visible in the unit.
// A declaration adds the edge source->dest; hasReverseMap adds the
// inverse edge as well. One hop only: no transitive closure is
// computed, deliberately.
func New(unit string, decls []*mapping.Declaration) *Resolver {
	r := &Resolver{
		unit:  unit,
		edges: make(map[edge]struct{}, len(decls)*2),
	}
	for _, d := range decls {
		if d == nil || d.SourceType == "" || d.DestType == "" {
			continue
		}
		r.edges[edge{d.SourceType, d.DestType}] = struct{}{}
		if d.HasReverseMap {
			r.edges[edge{d.DestType, d.SourceType}] = struct{}{}
		}
	}
	return r
}

// Unit returns the analysis unit this resolver was built for.
func (r *Resolver) Unit() string {
	return r.unit
}

// EffectivelyMapped reports whether the directed edge source->dest
// exists: a direct declaration, or the inverse of a reverse-enabled one.
func (r *Resolver) EffectivelyMapped(source, dest string) bool {
	_, ok := r.edges[edge{source, dest}]
	return ok
}

// Size returns the number of directed edges, for logging.
func (r *Resolver) Size() int {
	return len(r.edges)
}
