package view

import (
	"bytes"
	"strings"
	"testing"

	"github.com/lehigh-university-libraries/skinscan/internal/catalog"
	"github.com/lehigh-university-libraries/skinscan/internal/models"
	"github.com/lehigh-university-libraries/skinscan/internal/session"
)

func record(t *testing.T, name string) *models.DiseaseRecord {
	t.Helper()
	c, err := catalog.Default()
	if err != nil {
		t.Fatalf("catalog.Default() failed: %v", err)
	}
	r, ok := c.Lookup(name)
	if !ok {
		t.Fatalf("%s missing from catalog", name)
	}
	return r
}

var img = &models.Image{Filename: "x.png", MediaType: "image/png", DataURI: "data:image/png;base64,AA=="}

func TestRenderModes(t *testing.T) {
	acne := record(t, "Acne")
	tests := []struct {
		name       string
		snap       session.Snapshot
		mode       Mode
		canAnalyze bool
	}{
		{"idle", session.Snapshot{State: session.StateIdle}, ModeIdle, false},
		{"uploaded", session.Snapshot{State: session.StateUploaded, Image: img}, ModeIdle, true},
		{"analyzing", session.Snapshot{State: session.StateAnalyzing, Image: img, IsAnalyzing: true}, ModeAnalyzing, false},
		{"resulted", session.Snapshot{State: session.StateResulted, Image: img, Result: acne}, ModeResult, true},
		{"reanalyzing keeps spinner", session.Snapshot{State: session.StateAnalyzing, Image: img, Result: acne, IsAnalyzing: true}, ModeAnalyzing, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Render(tt.snap)
			if p.Mode != tt.mode {
				t.Errorf("Expected mode %s, got %s", tt.mode, p.Mode)
			}
			if p.CanAnalyze != tt.canAnalyze {
				t.Errorf("Expected CanAnalyze=%v, got %v", tt.canAnalyze, p.CanAnalyze)
			}
			if (p.Result != nil) != (tt.mode == ModeResult) {
				t.Errorf("Result present=%v in mode %s", p.Result != nil, p.Mode)
			}
			if (p.IdlePrompt != "") != (tt.mode == ModeIdle) {
				t.Errorf("Idle prompt present=%v in mode %s", p.IdlePrompt != "", p.Mode)
			}
		})
	}
}

func TestStyleFor(t *testing.T) {
	tests := []struct {
		severity models.Severity
		tone     string
		icon     string
	}{
		{models.SeverityMild, "positive", "check-circle"},
		{models.SeverityModerate, "caution", "alert-triangle"},
		{models.SeveritySevere, "alarm", "alert-triangle"},
		{"Critical", "neutral", "info"},
		{"", "neutral", "info"},
	}

	for _, tt := range tests {
		got := StyleFor(tt.severity)
		if got.Tone != tt.tone || got.Icon != tt.icon {
			t.Errorf("StyleFor(%q) = %+v, expected %s/%s", tt.severity, got, tt.tone, tt.icon)
		}
	}
}

func TestUrgentCareOnlyForSevere(t *testing.T) {
	c, err := catalog.Default()
	if err != nil {
		t.Fatalf("catalog.Default() failed: %v", err)
	}

	for _, r := range c.Diseases() {
		t.Run(r.Name, func(t *testing.T) {
			p := Render(session.Snapshot{Image: img, Result: &r})
			severe := r.Severity == models.SeveritySevere
			if p.Result.UrgentCare != severe {
				t.Errorf("Expected UrgentCare=%v for %s severity", severe, r.Severity)
			}

			var buf bytes.Buffer
			if err := HTML(&buf, p); err != nil {
				t.Fatalf("HTML failed: %v", err)
			}
			hasAlert := strings.Contains(buf.String(), "Urgent Medical Attention Required")
			if hasAlert != severe {
				t.Errorf("Expected urgent alert rendered=%v, got %v", severe, hasAlert)
			}
		})
	}
}

func TestRenderResultBreakdown(t *testing.T) {
	r := record(t, "Melanoma (Suspicious)")
	p := Render(session.Snapshot{ID: "abc", Image: img, Result: r})

	res := p.Result
	if res.Confidence != 76 || res.SeverityLabel != "Severe Severity" || res.Style.Tone != "alarm" {
		t.Errorf("Unexpected header: %d %q %+v", res.Confidence, res.SeverityLabel, res.Style)
	}
	if len(res.NextSteps) != 3 || res.NextSteps[0].N != 1 || res.NextSteps[2].N != 3 {
		t.Errorf("Expected next steps numbered 1..3, got %+v", res.NextSteps)
	}
	if res.NextSteps[0].Text != "Contact dermatologist immediately" {
		t.Errorf("Unexpected first step %q", res.NextSteps[0].Text)
	}
	if len(res.Doctors) != 2 || res.Doctors[0].Name != "Dr. Sanjay Panda" {
		t.Errorf("Unexpected doctors %+v", res.Doctors)
	}
	if res.Doctors[0].QRPath != "/api/doctors/qr?phone=%2B91-674-2397000" {
		t.Errorf("Unexpected QR path %q", res.Doctors[0].QRPath)
	}
	if res.DoctorsHeading != DoctorsHeading {
		t.Errorf("Unexpected heading %q", res.DoctorsHeading)
	}
}

func TestHTMLIdleAfterClear(t *testing.T) {
	var buf bytes.Buffer
	if err := HTML(&buf, Render(session.Snapshot{ID: "abc", State: session.StateIdle})); err != nil {
		t.Fatalf("HTML failed: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, IdlePrompt) {
		t.Error("Expected idle prompt in page")
	}
	if strings.Contains(out, "Analysis Results") {
		t.Error("Did not expect a result section in the idle page")
	}
	if !strings.Contains(out, "Drag and drop your image here") {
		t.Error("Expected the drop zone when no image is loaded")
	}
}

func TestHTMLKeepsDataURI(t *testing.T) {
	var buf bytes.Buffer
	if err := HTML(&buf, Render(session.Snapshot{ID: "abc", Image: img})); err != nil {
		t.Fatalf("HTML failed: %v", err)
	}
	if !strings.Contains(buf.String(), `src="data:image/png;base64,AA=="`) {
		t.Error("Expected the preview to use the upload's data URI")
	}
}

func TestHTMLAnalyzingDisablesButton(t *testing.T) {
	var buf bytes.Buffer
	p := Render(session.Snapshot{ID: "abc", Image: img, IsAnalyzing: true})
	if err := HTML(&buf, p); err != nil {
		t.Fatalf("HTML failed: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Analyzing...") || !strings.Contains(out, "disabled") {
		t.Error("Expected a disabled Analyzing... button")
	}
}
