// Package output renders analysis reports deterministically. Identical
// passes must produce byte-identical output: CI diffs, golden tests,
// and baseline fingerprints all depend on it.
package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"maplint/internal/analysis"
	"maplint/internal/diag"
)

// EncodeJSON writes the report as stable, indented JSON. Keys are
// sorted by round-tripping through an untyped value: encoding/json
// sorts map keys alphabetically.
func EncodeJSON(w io.Writer, report *analysis.Report) error {
	raw, err := json.Marshal(report)
	if err != nil {
		return err
	}
	var normalized interface{}
	if err := json.Unmarshal(raw, &normalized); err != nil {
		return err
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(normalized); err != nil {
		return err
	}
	_, err = w.Write(buf.Bytes())
	return err
}

// EncodeText writes the human report: one line per finding, grouped
// the way the pass ordered them, followed by a summary line.
func EncodeText(w io.Writer, report *analysis.Report) error {
	for i := range report.Diagnostics {
		d := &report.Diagnostics[i]
		loc := formatLocation(d)
		if _, err := fmt.Fprintf(w, "%s%s %s [%s] %s\n",
			loc, strings.ToUpper(string(d.Severity)), string(d.Rule), d.Fingerprint()[:8], d.Message); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintf(w, "\n%d finding(s) in unit %s (%d declarations, %d shapes)\n",
		report.Summary.Total, report.Unit, report.Summary.Declarations, report.Summary.Shapes); err != nil {
		return err
	}
	return nil
}

func formatLocation(d *diag.Diagnostic) string {
	if d.Location.File == "" {
		return ""
	}
	if d.Location.Line == 0 {
		return d.Location.File + ": "
	}
	return fmt.Sprintf("%s:%d:%d: ", d.Location.File, d.Location.Line, d.Location.Column)
}

// Normalize strips the time-varying fields (run ID, timestamp) so
// golden tests compare only the stable payload.
func Normalize(report *analysis.Report) *analysis.Report {
	out := *report
	out.RunID = ""
	out.GeneratedAt = time.Time{}
	return &out
}
