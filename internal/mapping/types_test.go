package mapping

import (
	"testing"
)

func TestOverridesLastConfigWins(t *testing.T) {
	decl := &Declaration{
		SourceType: "Customer",
		DestType:   "CustomerDto",
		Configs: []MemberConfig{
			{DestMember: "Name", Kind: ConfigMapFrom, Expr: &ExprShape{Kind: ExprChain}},
			{DestMember: "Total", Kind: ConfigConstant},
			{DestMember: "Name", Kind: ConfigIgnore},
		},
	}

	overrides := decl.Overrides()
	if len(overrides) != 2 {
		t.Fatalf("Overrides() has %d entries, want 2", len(overrides))
	}
	if overrides["Name"].Kind != ConfigIgnore {
		t.Errorf("Name winner = %s, want %s", overrides["Name"].Kind, ConfigIgnore)
	}
	if overrides["Total"].Kind != ConfigConstant {
		t.Errorf("Total winner = %s, want %s", overrides["Total"].Kind, ConfigConstant)
	}
}

func TestOverridesEmpty(t *testing.T) {
	decl := &Declaration{SourceType: "A", DestType: "B"}
	if overrides := decl.Overrides(); overrides != nil {
		t.Errorf("Overrides() of a config-free declaration = %v, want nil", overrides)
	}
}

func TestMapFromsAppliesPrecedence(t *testing.T) {
	chain := &ExprShape{Kind: ExprChain, Source: "src => src.Name.Trim()"}
	bare := &ExprShape{Kind: ExprBareAccess, Member: "Total", OnParameter: true}

	decl := &Declaration{
		SourceType: "Order",
		DestType:   "OrderDto",
		Configs: []MemberConfig{
			// Overridden by the later Ignore; must not surface.
			{DestMember: "Name", Kind: ConfigMapFrom, Expr: chain},
			{DestMember: "Total", Kind: ConfigMapFrom, Expr: bare},
			{DestMember: "Name", Kind: ConfigIgnore},
		},
	}

	mapFroms := decl.MapFroms()
	if len(mapFroms) != 1 {
		t.Fatalf("MapFroms() has %d entries, want 1", len(mapFroms))
	}
	if mapFroms[0].DestMember != "Total" {
		t.Errorf("MapFroms()[0] is for %q, want Total", mapFroms[0].DestMember)
	}
}

func TestMapFromsPreservesDeclarationOrder(t *testing.T) {
	decl := &Declaration{
		SourceType: "Order",
		DestType:   "OrderDto",
		Configs: []MemberConfig{
			{DestMember: "B", Kind: ConfigMapFrom, Expr: &ExprShape{Kind: ExprChain}},
			{DestMember: "A", Kind: ConfigMapFrom, Expr: &ExprShape{Kind: ExprChain}},
		},
	}

	mapFroms := decl.MapFroms()
	if len(mapFroms) != 2 {
		t.Fatalf("MapFroms() has %d entries, want 2", len(mapFroms))
	}
	if mapFroms[0].DestMember != "B" || mapFroms[1].DestMember != "A" {
		t.Errorf("MapFroms() order = [%s %s], want [B A]", mapFroms[0].DestMember, mapFroms[1].DestMember)
	}
}

func TestIsRedundantFor(t *testing.T) {
	tests := []struct {
		name     string
		expr     *ExprShape
		member   string
		expected bool
	}{
		{
			"bare access of same member",
			&ExprShape{Kind: ExprBareAccess, Member: "Name", OnParameter: true},
			"Name",
			true,
		},
		{
			"bare access of different member",
			&ExprShape{Kind: ExprBareAccess, Member: "FullName", OnParameter: true},
			"Name",
			false,
		},
		{
			"chain is never redundant",
			&ExprShape{Kind: ExprChain, OnParameter: true},
			"Name",
			false,
		},
		{
			"captured variable is never redundant",
			&ExprShape{Kind: ExprBareAccess, Member: "Name", OnParameter: false},
			"Name",
			false,
		},
		{
			"opaque fails closed",
			&ExprShape{Kind: ExprOpaque},
			"Name",
			false,
		},
		{"nil expression", nil, "Name", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.expr.IsRedundantFor(tc.member); got != tc.expected {
				t.Errorf("IsRedundantFor(%q) = %v, want %v", tc.member, got, tc.expected)
			}
		})
	}
}

func TestEnumerationCounts(t *testing.T) {
	expr := &ExprShape{
		Kind: ExprComplex,
		Sites: []Site{
			{Kind: SiteEnumeration, Accessor: "src.Items"},
			{Kind: SiteNonDeterministic, Accessor: "DateTime.Now"},
			{Kind: SiteEnumeration, Accessor: "src.Items"},
			{Kind: SiteEnumeration, Accessor: "src.Tags"},
		},
	}

	counts := expr.EnumerationCounts()
	if counts["src.Items"] != 2 {
		t.Errorf("src.Items counted %d times, want 2", counts["src.Items"])
	}
	if counts["src.Tags"] != 1 {
		t.Errorf("src.Tags counted %d times, want 1", counts["src.Tags"])
	}
	if len(counts) != 2 {
		t.Errorf("EnumerationCounts() has %d accessors, want 2", len(counts))
	}

	if counts := (&ExprShape{Kind: ExprOpaque}).EnumerationCounts(); counts != nil {
		t.Errorf("EnumerationCounts() of a site-free expression = %v, want nil", counts)
	}
}
