package output

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"maplint/internal/analysis"
	"maplint/internal/diag"
	"maplint/internal/mapping"
	"maplint/internal/testutil"
)

func testReport() *analysis.Report {
	mismatch := diag.New(diag.PropertyTypeMismatch, diag.Diagnostic{
		Unit:       "billing",
		Member:     "Age",
		SourceType: "Customer", SourceMemberType: "int",
		DestType: "CustomerDto", DestMemberType: "string",
		Location: mapping.Location{File: "Profiles/CustomerProfile.cs", Line: 12, Column: 9},
	})
	redundant := diag.New(diag.RedundantMapFrom, diag.Diagnostic{
		Unit:       "billing",
		Member:     "Name",
		SourceType: "Customer",
		DestType:   "CustomerDto",
	})
	return &analysis.Report{
		RunID:       "run-1234",
		Unit:        "billing",
		GeneratedAt: time.Date(2026, 2, 3, 10, 0, 0, 0, time.UTC),
		Diagnostics: []diag.Diagnostic{mismatch, redundant},
		Summary: analysis.Summary{
			Total:        2,
			Declarations: 1,
			Shapes:       2,
			BySeverity:   map[string]int{"error": 1, "info": 1},
			ByRule:       map[string]int{"MAP001": 1, "MAP007": 1},
		},
	}
}

func TestEncodeTextGolden(t *testing.T) {
	var buf bytes.Buffer
	if err := EncodeText(&buf, testReport()); err != nil {
		t.Fatal(err)
	}
	testutil.Golden(t, "report.txt", buf.Bytes())
}

func TestEncodeJSONDeterministic(t *testing.T) {
	report := Normalize(testReport())

	var first, second bytes.Buffer
	if err := EncodeJSON(&first, report); err != nil {
		t.Fatal(err)
	}
	if err := EncodeJSON(&second, report); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(first.Bytes(), second.Bytes()) {
		t.Error("identical reports encoded differently")
	}
}

func TestEncodeJSONPayload(t *testing.T) {
	var buf bytes.Buffer
	if err := EncodeJSON(&buf, Normalize(testReport())); err != nil {
		t.Fatal(err)
	}

	var decoded struct {
		RunID       string `json:"runId"`
		Unit        string `json:"unit"`
		Diagnostics []struct {
			Rule     string `json:"rule"`
			Severity string `json:"severity"`
			Message  string `json:"message"`
		} `json:"diagnostics"`
		Summary struct {
			Total int `json:"total"`
		} `json:"summary"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	if decoded.RunID != "" {
		t.Errorf("normalized run ID = %q, want empty", decoded.RunID)
	}
	if decoded.Unit != "billing" {
		t.Errorf("unit = %q, want billing", decoded.Unit)
	}
	if len(decoded.Diagnostics) != 2 {
		t.Fatalf("got %d diagnostics, want 2", len(decoded.Diagnostics))
	}
	if decoded.Diagnostics[0].Rule != "MAP001" || decoded.Diagnostics[0].Severity != "error" {
		t.Errorf("diagnostics[0] = %+v", decoded.Diagnostics[0])
	}
	if decoded.Summary.Total != 2 {
		t.Errorf("summary total = %d, want 2", decoded.Summary.Total)
	}
}

func TestNormalizeDoesNotMutate(t *testing.T) {
	report := testReport()
	Normalize(report)
	if report.RunID == "" {
		t.Error("Normalize mutated the original report")
	}
}
