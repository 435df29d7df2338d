package mapping

// ExprKind classifies the overall syntactic shape of a MapFrom
// expression. The set is closed: consumers switch exhaustively and an
// unrecognized expression is always ExprOpaque, never a new kind
// invented by a frontend.
type ExprKind string

const (
	// ExprBareAccess is a single property read off the lambda's source
	// parameter, e.g. src => src.Name
	ExprBareAccess ExprKind = "bare_access"
	// ExprChain is a property access followed by further member access
	// or calls, e.g. src => src.Name.ToUpper()
	ExprChain ExprKind = "chain"
	// ExprConstant is a literal value
	ExprConstant ExprKind = "constant"
	// ExprComplex is any other expression the frontend recognized well
	// enough to extract feature sites from
	ExprComplex ExprKind = "complex"
	// ExprOpaque is an expression too complex to summarize. Convenience
	// rules fail closed on it; safety rules do not consult it.
	ExprOpaque ExprKind = "opaque"
)

// SiteKind classifies one hazard-relevant feature site found inside a
// MapFrom expression. Closed variant: the hazard detector switches
// exhaustively over it, so a new hazard rule is an additive arm.
type SiteKind string

const (
	// SiteEnumeration is one enumeration of a collection-typed accessor
	// (Count, Sum, Any, First, a foreach-equivalent, ...)
	SiteEnumeration SiteKind = "enumeration"
	// SiteDependencyCall is an invocation or read through a dependency
	// whose shape is data-access or remote-call capable
	SiteDependencyCall SiteKind = "dependency_call"
	// SiteNonDeterministic is a reference to a time-dependent or
	// random-value primitive
	SiteNonDeterministic SiteKind = "non_deterministic"
	// SiteBlockingUnwrap is a synchronous unwrap of an asynchronous
	// result (.Result, .Wait(), GetAwaiter().GetResult())
	SiteBlockingUnwrap SiteKind = "blocking_unwrap"
)

// Site is one feature site inside an expression. Accessor carries the
// enumerated accessor's text for SiteEnumeration and the dependency or
// primitive name for the other kinds; it is informational for those.
type Site struct {
	Kind     SiteKind `json:"kind" yaml:"kind"`
	Accessor string   `json:"accessor,omitempty" yaml:"accessor,omitempty"`
}

// ExprShape is the frontend's summary of one MapFrom expression:
// enough structure for the redundancy check and the hazard detector to
// pattern-match on, and nothing more. The core never re-parses Source.
type ExprShape struct {
	// Source is the original expression text, kept verbatim for
	// diagnostics and fix synthesis.
	Source string `json:"source,omitempty" yaml:"source,omitempty"`
	// Param is the name of the lambda's source parameter, when known.
	Param string `json:"param,omitempty" yaml:"param,omitempty"`
	Kind  ExprKind `json:"kind" yaml:"kind"`
	// Member is the accessed member name for ExprBareAccess.
	Member string `json:"member,omitempty" yaml:"member,omitempty"`
	// OnParameter reports whether the access roots at the lambda's own
	// source parameter rather than a captured outer variable.
	OnParameter bool `json:"onParameter,omitempty" yaml:"onParameter,omitempty"`
	// Sites are the hazard-relevant feature sites found inside the
	// expression, in source order. Non-exclusive.
	Sites []Site `json:"sites,omitempty" yaml:"sites,omitempty"`
}

// IsRedundantFor reports whether the expression is a bare read of
// exactly the given destination member off the mapping's own source
// parameter. Captured variables and call chains never qualify, and an
// opaque expression fails closed.
func (e *ExprShape) IsRedundantFor(destMember string) bool {
	if e == nil {
		return false
	}
	return e.Kind == ExprBareAccess && e.OnParameter && e.Member == destMember
}

// EnumerationCounts returns, per enumerated accessor, how many
// enumeration sites the expression contains.
func (e *ExprShape) EnumerationCounts() map[string]int {
	if e == nil || len(e.Sites) == 0 {
		return nil
	}
	var counts map[string]int
	for _, s := range e.Sites {
		if s.Kind != SiteEnumeration {
			continue
		}
		if counts == nil {
			counts = make(map[string]int)
		}
		counts[s.Accessor]++
	}
	return counts
}
