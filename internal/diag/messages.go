package diag

import "fmt"

// New fills in the rule, default severity, and rendered message for a
// partially populated diagnostic. Message wording per rule is fixed:
// consumers test against it, so changes here are breaking.
func New(rule RuleID, d Diagnostic) Diagnostic {
	d.Rule = rule
	d.Severity = DefaultSeverity(rule)
	d.Message = renderMessage(rule, &d)
	return d
}

func renderMessage(rule RuleID, d *Diagnostic) string {
	switch rule {
	case PropertyTypeMismatch:
		return fmt.Sprintf("Property '%s' type mismatch: %s.%s is '%s' but %s.%s is '%s'",
			d.Member, d.SourceType, d.Member, d.SourceMemberType, d.DestType, d.Member, d.DestMemberType)
	case NullableCompatibility:
		return fmt.Sprintf("Property '%s' nullability mismatch: %s.%s is '%s' but %s.%s is non-nullable '%s'",
			d.Member, d.SourceType, d.Member, d.SourceMemberType, d.DestType, d.Member, d.DestMemberType)
	case GenericTypeMismatch:
		return fmt.Sprintf("Property '%s' generic type mismatch: %s.%s is '%s' but %s.%s is '%s'",
			d.Member, d.SourceType, d.Member, d.SourceMemberType, d.DestType, d.Member, d.DestMemberType)
	case ComplexTypeMappingMissing:
		return fmt.Sprintf("Property '%s' requires a mapping from '%s' to '%s' but none is registered",
			d.Member, d.SourceMemberType, d.DestMemberType)
	case CaseSensitivityMismatch:
		return fmt.Sprintf("Property '%s' does not match any source member, but '%s' differs only by case",
			d.Member, d.Candidate)
	case UnmappedRequiredProperty:
		return fmt.Sprintf("Required property '%s' on %s is not mapped from %s",
			d.Member, d.DestType, d.SourceType)
	case RedundantMapFrom:
		return fmt.Sprintf("Explicit MapFrom for '%s' is redundant", d.Member)
	case ExpensiveOperationInMapFrom:
		return fmt.Sprintf("MapFrom for '%s' invokes a data-access dependency inside the mapping expression", d.Member)
	case MultipleEnumeration:
		return fmt.Sprintf("MapFrom for '%s' enumerates '%s' multiple times", d.Member, d.Candidate)
	case NonDeterministicOperation:
		return fmt.Sprintf("MapFrom for '%s' references a non-deterministic primitive", d.Member)
	case TaskResultSynchronousAccess:
		return fmt.Sprintf("MapFrom for '%s' blocks on an asynchronous result", d.Member)
	default:
		return fmt.Sprintf("Rule %s triggered for '%s'", rule, d.Member)
	}
}

// Describe returns the short human description of a rule for listings
// and SARIF rule metadata.
func Describe(rule RuleID) string {
	switch rule {
	case PropertyTypeMismatch:
		return "Source and destination member types are incompatible"
	case NullableCompatibility:
		return "Nullable source member feeds a non-nullable destination"
	case GenericTypeMismatch:
		return "Collection element types differ between source and destination"
	case ComplexTypeMappingMissing:
		return "Nested complex-type pair has no mapping declaration in scope"
	case CaseSensitivityMismatch:
		return "Destination member matches a source member by name except for case"
	case UnmappedRequiredProperty:
		return "Required destination member is never mapped"
	case RedundantMapFrom:
		return "Explicit MapFrom restates what convention already does"
	case ExpensiveOperationInMapFrom:
		return "Mapping expression calls a data-access or remote dependency"
	case MultipleEnumeration:
		return "Mapping expression enumerates the same collection more than once"
	case NonDeterministicOperation:
		return "Mapping expression depends on time or randomness"
	case TaskResultSynchronousAccess:
		return "Mapping expression blocks on an asynchronous result"
	default:
		return string(rule)
	}
}
