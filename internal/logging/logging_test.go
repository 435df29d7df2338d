package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
	}{
		{"debug", DebugLevel},
		{"info", InfoLevel},
		{"warn", WarnLevel},
		{"error", ErrorLevel},
		{"", InfoLevel},
		{"verbose", InfoLevel},
	}

	for _, tc := range tests {
		if got := ParseLevel(tc.input); got != tc.expected {
			t.Errorf("ParseLevel(%q) = %s, want %s", tc.input, got, tc.expected)
		}
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: WarnLevel, Output: &buf})

	logger.Debug("dropped", nil)
	logger.Info("dropped", nil)
	logger.Warn("kept", nil)
	logger.Error("kept", nil)

	lines := strings.Count(buf.String(), "\n")
	if lines != 2 {
		t.Errorf("got %d log lines, want 2:\n%s", lines, buf.String())
	}
}

func TestHumanFieldsAreSorted(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: InfoLevel, Output: &buf})

	logger.Info("pass completed", map[string]interface{}{
		"unit":     "billing",
		"findings": 3,
		"elapsed":  "12ms",
	})

	line := buf.String()
	if !strings.Contains(line, "elapsed=12ms findings=3 unit=billing") {
		t.Errorf("fields not in sorted order: %s", line)
	}
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Format: JSONFormat, Level: InfoLevel, Output: &buf})

	logger.Info("pass completed", map[string]interface{}{"unit": "billing"})

	var decoded struct {
		Level   string                 `json:"level"`
		Message string                 `json:"message"`
		Fields  map[string]interface{} `json:"fields"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("log line is not valid JSON: %v", err)
	}
	if decoded.Level != "info" || decoded.Message != "pass completed" {
		t.Errorf("decoded = %+v", decoded)
	}
	if decoded.Fields["unit"] != "billing" {
		t.Errorf("fields = %v", decoded.Fields)
	}
}

func TestNopDiscardsEverything(t *testing.T) {
	// Must not panic and must not write anywhere visible.
	logger := NewNop()
	logger.Debug("x", nil)
	logger.Error("x", map[string]interface{}{"k": "v"})
}
