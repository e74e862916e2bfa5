package report

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/lehigh-university-libraries/skinscan/internal/catalog"
	"github.com/lehigh-university-libraries/skinscan/internal/models"
	"github.com/lehigh-university-libraries/skinscan/internal/session"
	"gopkg.in/yaml.v3"
)

func snapshotWith(t *testing.T, name string) session.Snapshot {
	t.Helper()
	c, err := catalog.Default()
	if err != nil {
		t.Fatalf("catalog.Default() failed: %v", err)
	}
	r, ok := c.Lookup(name)
	if !ok {
		t.Fatalf("%s missing from catalog", name)
	}
	return session.Snapshot{
		ID:     "abc",
		Image:  &models.Image{Filename: "arm.png", MediaType: "image/png", Size: 120, Width: 4, Height: 3},
		Result: r,
	}
}

var fixedTime = time.Date(2026, 10, 19, 8, 30, 0, 0, time.UTC)

func TestBuildWithoutResult(t *testing.T) {
	_, err := Build(session.Snapshot{ID: "abc"}, fixedTime)
	if !errors.Is(err, ErrNoResult) {
		t.Errorf("Expected ErrNoResult, got %v", err)
	}
}

func TestTextReport(t *testing.T) {
	rep, err := Build(snapshotWith(t, "Melanoma (Suspicious)"), fixedTime)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	var buf bytes.Buffer
	if err := rep.Write(&buf, FormatText); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"Generated: 2026-10-19T08:30:00Z",
		"Image:     arm.png (image/png, 120 bytes, 4x3)",
		"Condition:  Melanoma (Suspicious)",
		"Confidence: 76%",
		"Severity:   Severe",
		"Urgent Medical Attention Required",
		"  1. Contact dermatologist immediately",
		"  3. Arrange for possible biopsy",
		"Dr. Pradeep Mohanty (Dermatopathologist)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected report to contain %q", want)
		}
	}
}

func TestTextReportNotUrgentForMild(t *testing.T) {
	rep, err := Build(snapshotWith(t, "Fungal Infection"), fixedTime)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	var buf bytes.Buffer
	if err := rep.Write(&buf, FormatText); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if strings.Contains(buf.String(), "Urgent") {
		t.Error("Did not expect an urgent notice for a mild condition")
	}
}

func TestYAMLReport(t *testing.T) {
	rep, err := Build(snapshotWith(t, "Acne"), fixedTime)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	var buf bytes.Buffer
	if err := rep.Write(&buf, FormatYAML); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	var decoded map[string]any
	if err := yaml.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("Report is not valid YAML: %v", err)
	}
	if decoded["condition"] != "Acne" || decoded["confidence"] != 92 || decoded["severity"] != "Moderate" {
		t.Errorf("Unexpected YAML fields: %v %v %v", decoded["condition"], decoded["confidence"], decoded["severity"])
	}
	if decoded["urgent_care"] != false {
		t.Errorf("Expected urgent_care=false, got %v", decoded["urgent_care"])
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in       string
		expected Format
		wantErr  bool
	}{
		{"", FormatText, false},
		{"TEXT", FormatText, false},
		{"yaml", FormatYAML, false},
		{"pdf", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr || got != tt.expected {
			t.Errorf("ParseFormat(%q) = %q, %v", tt.in, got, err)
		}
	}
}

func TestFilename(t *testing.T) {
	rep := &Report{Condition: "Eczema (Atopic Dermatitis)"}
	if got := rep.Filename(FormatText); got != "skin-analysis-eczema--atopic-dermatitis.txt" {
		t.Errorf("Unexpected filename %q", got)
	}
	if got := rep.Filename(FormatYAML); !strings.HasSuffix(got, ".yaml") {
		t.Errorf("Expected .yaml suffix, got %q", got)
	}
}
