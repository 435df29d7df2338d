package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"maplint/internal/analysis"
	"maplint/internal/diag"
)

// Ruleset is the per-repository rule policy, read from maplint.toml:
//
//	[rules.MAP007]
//	enabled = false
//
//	[rules.MAP002]
//	severity = "error"
type Ruleset struct {
	Rules map[string]RuleSetting `toml:"rules"`
}

// RuleSetting overrides one rule. A nil Enabled keeps the rule on.
type RuleSetting struct {
	Enabled  *bool  `toml:"enabled"`
	Severity string `toml:"severity"`
}

// RulesetFile is the expected file name at the repo root.
const RulesetFile = "maplint.toml"

// LoadRuleset reads maplint.toml under repoRoot. A missing file is not
// an error: every rule stays enabled at its default severity.
func LoadRuleset(repoRoot string) (*Ruleset, error) {
	data, err := os.ReadFile(filepath.Join(repoRoot, RulesetFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Ruleset{}, nil
		}
		return nil, err
	}

	var rs Ruleset
	if err := toml.Unmarshal(data, &rs); err != nil {
		return nil, fmt.Errorf("parse %s: %w", RulesetFile, err)
	}
	if err := rs.validate(); err != nil {
		return nil, err
	}
	return &rs, nil
}

func (rs *Ruleset) validate() error {
	known := make(map[string]bool)
	for _, rule := range diag.AllRules() {
		known[string(rule)] = true
	}
	for id, setting := range rs.Rules {
		if !known[id] {
			return fmt.Errorf("%s: unknown rule %q", RulesetFile, id)
		}
		switch setting.Severity {
		case "", string(diag.SeverityError), string(diag.SeverityWarning), string(diag.SeverityInfo):
		default:
			return fmt.Errorf("%s: rule %s has invalid severity %q", RulesetFile, id, setting.Severity)
		}
	}
	return nil
}

// Policy converts the ruleset into the runner's rule policy.
func (rs *Ruleset) Policy() analysis.RulePolicy {
	policy := analysis.RulePolicy{}
	for id, setting := range rs.Rules {
		rule := diag.RuleID(id)
		if setting.Enabled != nil && !*setting.Enabled {
			if policy.Disabled == nil {
				policy.Disabled = make(map[diag.RuleID]bool)
			}
			policy.Disabled[rule] = true
		}
		if setting.Severity != "" {
			if policy.Severity == nil {
				policy.Severity = make(map[diag.RuleID]diag.Severity)
			}
			policy.Severity[rule] = diag.Severity(setting.Severity)
		}
	}
	return policy
}
