package diag

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"maplint/internal/mapping"
)

// RuleID is a stable identifier for one analysis rule. The set is part
// of the tool's contract: consumers key suppressions and CI gates on it.
type RuleID string

const (
	// PropertyTypeMismatch: source and destination member types are
	// structurally incompatible
	PropertyTypeMismatch RuleID = "MAP001"
	// NullableCompatibility: nullable source feeds a non-nullable
	// destination of the same underlying type
	NullableCompatibility RuleID = "MAP002"
	// GenericTypeMismatch: container element types differ
	GenericTypeMismatch RuleID = "MAP003"
	// ComplexTypeMappingMissing: nested complex-type pair has no
	// effective declaration in scope
	ComplexTypeMappingMissing RuleID = "MAP004"
	// CaseSensitivityMismatch: no exact-name source member, but one
	// differs only by case
	CaseSensitivityMismatch RuleID = "MAP005"
	// UnmappedRequiredProperty: required destination member has no
	// source member and no explicit config
	UnmappedRequiredProperty RuleID = "MAP006"
	// RedundantMapFrom: explicit MapFrom restates the convention
	RedundantMapFrom RuleID = "MAP007"
	// ExpensiveOperationInMapFrom: mapping expression reaches a
	// data-access or remote-call shaped dependency
	ExpensiveOperationInMapFrom RuleID = "MAP008"
	// MultipleEnumeration: one expression enumerates the same accessor
	// two or more times
	MultipleEnumeration RuleID = "MAP009"
	// NonDeterministicOperation: expression references a time or random
	// primitive
	NonDeterministicOperation RuleID = "MAP010"
	// TaskResultSynchronousAccess: expression blocks on an async result
	TaskResultSynchronousAccess RuleID = "MAP011"
)

// AllRules lists every rule in fixed report order.
func AllRules() []RuleID {
	return []RuleID{
		PropertyTypeMismatch,
		NullableCompatibility,
		GenericTypeMismatch,
		ComplexTypeMappingMissing,
		CaseSensitivityMismatch,
		UnmappedRequiredProperty,
		RedundantMapFrom,
		ExpensiveOperationInMapFrom,
		MultipleEnumeration,
		NonDeterministicOperation,
		TaskResultSynchronousAccess,
	}
}

// Severity indicates how confident the rule is that the finding is a
// real defect.
type Severity string

const (
	// SeverityError findings will fail or corrupt a mapping at runtime
	SeverityError Severity = "error"
	// SeverityWarning findings are likely defects needing review
	SeverityWarning Severity = "warning"
	// SeverityInfo findings are hygiene and performance advice
	SeverityInfo Severity = "info"
)

// SeverityOrder returns the sort rank of a severity, most severe first.
func SeverityOrder(s Severity) int {
	switch s {
	case SeverityError:
		return 0
	case SeverityWarning:
		return 1
	case SeverityInfo:
		return 2
	default:
		return 3
	}
}

// DefaultSeverity returns the built-in severity for a rule. Config may
// override it per repository.
func DefaultSeverity(rule RuleID) Severity {
	switch rule {
	case PropertyTypeMismatch, GenericTypeMismatch, ComplexTypeMappingMissing, UnmappedRequiredProperty:
		return SeverityError
	case NullableCompatibility, CaseSensitivityMismatch, ExpensiveOperationInMapFrom,
		MultipleEnumeration, NonDeterministicOperation, TaskResultSynchronousAccess:
		return SeverityWarning
	case RedundantMapFrom:
		return SeverityInfo
	default:
		return SeverityWarning
	}
}

// Diagnostic is one finding: a rule applied to one destination member
// of one declaration. Message is rendered from the rule's fixed
// template at construction time and is stable across runs.
type Diagnostic struct {
	Rule             RuleID   `json:"rule"`
	Severity         Severity `json:"severity"`
	Unit             string   `json:"unit,omitempty"`
	Member           string   `json:"member,omitempty"`
	SourceType       string   `json:"sourceType,omitempty"`
	SourceMemberType string   `json:"sourceMemberType,omitempty"`
	DestType         string   `json:"destType,omitempty"`
	DestMemberType   string   `json:"destMemberType,omitempty"`
	// Candidate is the case-insensitive match for CaseSensitivityMismatch
	// and the enumerated accessor for MultipleEnumeration.
	Candidate string           `json:"candidate,omitempty"`
	Location  mapping.Location `json:"location,omitempty"`
	Message   string           `json:"message"`
}

// Fingerprint returns a stable identity for the finding, independent of
// location, for baseline matching across runs.
func (d *Diagnostic) Fingerprint() string {
	h := sha256.Sum256([]byte(fmt.Sprintf("%s|%s|%s|%s|%s",
		d.Rule, d.Unit, d.SourceType, d.DestType, d.Member)))
	return hex.EncodeToString(h[:16])
}
