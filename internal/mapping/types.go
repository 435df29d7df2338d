package mapping

// Location identifies where a declaration or member config was found
// in source. Frontends that have no file positions leave it zeroed.
type Location struct {
	File   string `json:"file,omitempty" yaml:"file,omitempty"`
	Line   int    `json:"line,omitempty" yaml:"line,omitempty"`
	Column int    `json:"column,omitempty" yaml:"column,omitempty"`
}

// ConfigKind discriminates the explicit per-member configuration variant.
type ConfigKind string

const (
	// ConfigMapFrom supplies an explicit source expression
	ConfigMapFrom ConfigKind = "map_from"
	// ConfigIgnore excludes the destination member from mapping
	ConfigIgnore ConfigKind = "ignore"
	// ConfigCondition guards the member mapping with a predicate
	ConfigCondition ConfigKind = "condition"
	// ConfigConstant maps the member from a constant value
	ConfigConstant ConfigKind = "constant"
)

// MemberConfig is one explicit override for a destination member.
// Expr is populated for ConfigMapFrom only.
type MemberConfig struct {
	DestMember string     `json:"destMember" yaml:"destMember"`
	Kind       ConfigKind `json:"kind" yaml:"kind"`
	Expr       *ExprShape `json:"expr,omitempty" yaml:"expr,omitempty"`
	Location   Location   `json:"location,omitempty" yaml:"location,omitempty"`
}

// Declaration is one registered intent to map sourceType to destType,
// with zero or more explicit member configs in declaration order. It is
// an immutable snapshot: one is built per analysis pass and never
// mutated afterwards.
type Declaration struct {
	SourceType    string         `json:"sourceType" yaml:"sourceType"`
	DestType      string         `json:"destType" yaml:"destType"`
	Configs       []MemberConfig `json:"configs,omitempty" yaml:"configs,omitempty"`
	HasReverseMap bool           `json:"hasReverseMap,omitempty" yaml:"hasReverseMap,omitempty"`
	Location      Location       `json:"location,omitempty" yaml:"location,omitempty"`
}

// Overrides materializes the explicit-config precedence rule as a map
// keyed by destination member. At most one config applies per member;
// when a member is configured more than once the last config in
// declaration order wins. Computed once before rule evaluation so the
// classifier never walks Configs with scattered conditionals.
func (d *Declaration) Overrides() map[string]MemberConfig {
	if len(d.Configs) == 0 {
		return nil
	}
	overrides := make(map[string]MemberConfig, len(d.Configs))
	for _, cfg := range d.Configs {
		overrides[cfg.DestMember] = cfg
	}
	return overrides
}

// MapFroms returns the effective MapFrom configs, post-precedence, in
// declaration order of their destination member's winning config.
func (d *Declaration) MapFroms() []MemberConfig {
	overrides := d.Overrides()
	var out []MemberConfig
	seen := make(map[string]bool, len(overrides))
	for _, cfg := range d.Configs {
		winner, ok := overrides[cfg.DestMember]
		if !ok || seen[cfg.DestMember] {
			continue
		}
		seen[cfg.DestMember] = true
		if winner.Kind == ConfigMapFrom && winner.Expr != nil {
			out = append(out, winner)
		}
	}
	return out
}
