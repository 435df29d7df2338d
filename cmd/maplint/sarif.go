package main

import (
	"encoding/json"
	"io"
	"path/filepath"
	"runtime"

	"maplint/internal/analysis"
	"maplint/internal/diag"
	"maplint/internal/version"
)

// SARIF 2.1.0 schema types
// See: https://docs.oasis-open.org/sarif/sarif/v2.1.0/sarif-v2.1.0.html

// SARIFReport is the top-level SARIF document.
type SARIFReport struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []SARIFRun `json:"runs"`
}

// SARIFRun represents a single analysis run.
type SARIFRun struct {
	Tool        SARIFTool         `json:"tool"`
	Results     []SARIFResult     `json:"results,omitempty"`
	Invocations []SARIFInvocation `json:"invocations,omitempty"`
}

// SARIFTool describes the analysis tool.
type SARIFTool struct {
	Driver SARIFDriver `json:"driver"`
}

// SARIFDriver describes the primary analysis component.
type SARIFDriver struct {
	Name            string      `json:"name"`
	Version         string      `json:"version,omitempty"`
	InformationURI  string      `json:"informationUri,omitempty"`
	Rules           []SARIFRule `json:"rules,omitempty"`
	SemanticVersion string      `json:"semanticVersion,omitempty"`
}

// SARIFRule describes a rule that detected an issue.
type SARIFRule struct {
	ID                   string                  `json:"id"`
	Name                 string                  `json:"name,omitempty"`
	ShortDescription     *SARIFMessage           `json:"shortDescription,omitempty"`
	DefaultConfiguration *SARIFRuleConfiguration `json:"defaultConfiguration,omitempty"`
	Properties           map[string]interface{}  `json:"properties,omitempty"`
}

// SARIFRuleConfiguration describes the default configuration for a rule.
type SARIFRuleConfiguration struct {
	Level string `json:"level,omitempty"` // error, warning, note, none
}

// SARIFResult represents a single finding.
type SARIFResult struct {
	RuleID       string                 `json:"ruleId"`
	RuleIndex    int                    `json:"ruleIndex,omitempty"`
	Level        string                 `json:"level,omitempty"`
	Message      SARIFMessage           `json:"message"`
	Locations    []SARIFLocation        `json:"locations,omitempty"`
	Fingerprints map[string]string      `json:"fingerprints,omitempty"`
	Properties   map[string]interface{} `json:"properties,omitempty"`
}

// SARIFMessage contains text in various formats.
type SARIFMessage struct {
	Text string `json:"text,omitempty"`
}

// SARIFLocation describes where a result was found.
type SARIFLocation struct {
	PhysicalLocation *SARIFPhysicalLocation `json:"physicalLocation,omitempty"`
}

// SARIFPhysicalLocation identifies a file and region.
type SARIFPhysicalLocation struct {
	ArtifactLocation *SARIFArtifactLocation `json:"artifactLocation,omitempty"`
	Region           *SARIFRegion           `json:"region,omitempty"`
}

// SARIFArtifactLocation identifies a file.
type SARIFArtifactLocation struct {
	URI       string `json:"uri,omitempty"`
	URIBaseID string `json:"uriBaseId,omitempty"`
}

// SARIFRegion identifies a region within a file.
type SARIFRegion struct {
	StartLine   int `json:"startLine,omitempty"`
	StartColumn int `json:"startColumn,omitempty"`
}

// SARIFInvocation describes a single invocation of the tool.
type SARIFInvocation struct {
	ExecutionSuccessful bool   `json:"executionSuccessful"`
	Machine             string `json:"machine,omitempty"`
}

// toSARIF converts analysis reports to a single SARIF document. All
// eleven rules are always declared in the driver so viewers can show
// rule metadata even for clean runs.
func toSARIF(reports []*analysis.Report) *SARIFReport {
	all := diag.AllRules()
	rules := make([]SARIFRule, 0, len(all))
	ruleIndex := make(map[diag.RuleID]int, len(all))
	for i, id := range all {
		ruleIndex[id] = i
		rules = append(rules, SARIFRule{
			ID:   string(id),
			Name: diag.Describe(id),
			ShortDescription: &SARIFMessage{
				Text: diag.Describe(id),
			},
			DefaultConfiguration: &SARIFRuleConfiguration{
				Level: severityToSARIFLevel(diag.DefaultSeverity(id)),
			},
			Properties: map[string]interface{}{
				"tags": []string{"mapping", "correctness"},
			},
		})
	}

	var results []SARIFResult
	for _, report := range reports {
		for i := range report.Diagnostics {
			d := &report.Diagnostics[i]
			result := SARIFResult{
				RuleID:    string(d.Rule),
				RuleIndex: ruleIndex[d.Rule],
				Level:     severityToSARIFLevel(d.Severity),
				Message:   SARIFMessage{Text: d.Message},
				Fingerprints: map[string]string{
					"maplint/v1": d.Fingerprint(),
				},
				Properties: map[string]interface{}{
					"unit":            d.Unit,
					"sourceType":      d.SourceType,
					"destinationType": d.DestType,
				},
			}
			if d.Member != "" {
				result.Properties["member"] = d.Member
			}
			if d.Location.File != "" {
				result.Locations = []SARIFLocation{
					{
						PhysicalLocation: &SARIFPhysicalLocation{
							ArtifactLocation: &SARIFArtifactLocation{
								URI:       filepath.ToSlash(d.Location.File),
								URIBaseID: "%SRCROOT%",
							},
							Region: &SARIFRegion{
								StartLine:   d.Location.Line,
								StartColumn: d.Location.Column,
							},
						},
					},
				}
			}
			results = append(results, result)
		}
	}

	return &SARIFReport{
		Schema:  "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/master/Schemata/sarif-schema-2.1.0.json",
		Version: "2.1.0",
		Runs: []SARIFRun{
			{
				Tool: SARIFTool{
					Driver: SARIFDriver{
						Name:            "maplint",
						Version:         version.Version,
						SemanticVersion: version.Version,
						Rules:           rules,
					},
				},
				Results: results,
				Invocations: []SARIFInvocation{
					{
						ExecutionSuccessful: true,
						Machine:             runtime.GOOS + "/" + runtime.GOARCH,
					},
				},
			},
		},
	}
}

func writeSARIF(w io.Writer, doc *SARIFReport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// severityToSARIFLevel converts maplint severity to SARIF level.
func severityToSARIFLevel(s diag.Severity) string {
	switch s {
	case diag.SeverityError:
		return "error"
	case diag.SeverityWarning:
		return "warning"
	case diag.SeverityInfo:
		return "note"
	default:
		return "warning"
	}
}
