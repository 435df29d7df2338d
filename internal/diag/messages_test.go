package diag

import (
	"strings"
	"testing"
)

func TestRenderMessage(t *testing.T) {
	tests := []struct {
		name     string
		rule     RuleID
		d        Diagnostic
		expected string
	}{
		{
			"property type mismatch",
			PropertyTypeMismatch,
			Diagnostic{
				Member:     "Age",
				SourceType: "Customer", SourceMemberType: "int",
				DestType: "CustomerDto", DestMemberType: "string",
			},
			"Property 'Age' type mismatch: Customer.Age is 'int' but CustomerDto.Age is 'string'",
		},
		{
			"nullable compatibility",
			NullableCompatibility,
			Diagnostic{
				Member:     "Discount",
				SourceType: "Order", SourceMemberType: "decimal?",
				DestType: "OrderDto", DestMemberType: "decimal",
			},
			"Property 'Discount' nullability mismatch: Order.Discount is 'decimal?' but OrderDto.Discount is non-nullable 'decimal'",
		},
		{
			"generic type mismatch",
			GenericTypeMismatch,
			Diagnostic{
				Member:     "Tags",
				SourceType: "Post", SourceMemberType: "List<string>",
				DestType: "PostDto", DestMemberType: "List<int>",
			},
			"Property 'Tags' generic type mismatch: Post.Tags is 'List<string>' but PostDto.Tags is 'List<int>'",
		},
		{
			"complex type mapping missing",
			ComplexTypeMappingMissing,
			Diagnostic{Member: "Address", SourceMemberType: "Address", DestMemberType: "AddressDto"},
			"Property 'Address' requires a mapping from 'Address' to 'AddressDto' but none is registered",
		},
		{
			"case sensitivity mismatch",
			CaseSensitivityMismatch,
			Diagnostic{Member: "Email", Candidate: "EMail"},
			"Property 'Email' does not match any source member, but 'EMail' differs only by case",
		},
		{
			"unmapped required property",
			UnmappedRequiredProperty,
			Diagnostic{Member: "Region", SourceType: "Customer", DestType: "CustomerDto"},
			"Required property 'Region' on CustomerDto is not mapped from Customer",
		},
		{
			"redundant map from",
			RedundantMapFrom,
			Diagnostic{Member: "Name"},
			"Explicit MapFrom for 'Name' is redundant",
		},
		{
			"multiple enumeration",
			MultipleEnumeration,
			Diagnostic{Member: "Summary", Candidate: "src.Items"},
			"MapFrom for 'Summary' enumerates 'src.Items' multiple times",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := New(tc.rule, tc.d)
			if got.Message != tc.expected {
				t.Errorf("message = %q, want %q", got.Message, tc.expected)
			}
			if got.Rule != tc.rule {
				t.Errorf("rule = %s, want %s", got.Rule, tc.rule)
			}
			if got.Severity != DefaultSeverity(tc.rule) {
				t.Errorf("severity = %s, want default %s", got.Severity, DefaultSeverity(tc.rule))
			}
		})
	}
}

func TestDefaultSeverity(t *testing.T) {
	tests := []struct {
		rule     RuleID
		expected Severity
	}{
		{PropertyTypeMismatch, SeverityError},
		{GenericTypeMismatch, SeverityError},
		{ComplexTypeMappingMissing, SeverityError},
		{UnmappedRequiredProperty, SeverityError},
		{NullableCompatibility, SeverityWarning},
		{CaseSensitivityMismatch, SeverityWarning},
		{ExpensiveOperationInMapFrom, SeverityWarning},
		{MultipleEnumeration, SeverityWarning},
		{NonDeterministicOperation, SeverityWarning},
		{TaskResultSynchronousAccess, SeverityWarning},
		{RedundantMapFrom, SeverityInfo},
	}

	for _, tc := range tests {
		if got := DefaultSeverity(tc.rule); got != tc.expected {
			t.Errorf("DefaultSeverity(%s) = %s, want %s", tc.rule, got, tc.expected)
		}
	}
}

func TestSeverityOrder(t *testing.T) {
	if SeverityOrder(SeverityError) >= SeverityOrder(SeverityWarning) {
		t.Error("error should rank before warning")
	}
	if SeverityOrder(SeverityWarning) >= SeverityOrder(SeverityInfo) {
		t.Error("warning should rank before info")
	}
}

func TestFingerprint(t *testing.T) {
	a := Diagnostic{Rule: PropertyTypeMismatch, Unit: "src", SourceType: "Customer", DestType: "CustomerDto", Member: "Age"}
	b := a

	if a.Fingerprint() != b.Fingerprint() {
		t.Error("identical diagnostics should share a fingerprint")
	}

	// Location and severity changes do not move the fingerprint; the
	// baseline must survive unrelated edits and config re-grades.
	b.Severity = SeverityInfo
	b.Location.Line = 99
	if a.Fingerprint() != b.Fingerprint() {
		t.Error("fingerprint should ignore severity and location")
	}

	b.Member = "Name"
	if a.Fingerprint() == b.Fingerprint() {
		t.Error("different members should not collide")
	}

	if len(a.Fingerprint()) != 32 {
		t.Errorf("fingerprint length = %d, want 32 hex chars", len(a.Fingerprint()))
	}
}

func TestAllRulesCoverDescriptions(t *testing.T) {
	for _, rule := range AllRules() {
		if desc := Describe(rule); desc == string(rule) || strings.TrimSpace(desc) == "" {
			t.Errorf("Describe(%s) has no dedicated description", rule)
		}
	}
}
