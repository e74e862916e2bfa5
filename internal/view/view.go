// Package view maps session state to what the page shows. Render is pure:
// the same snapshot always yields the same Page.
package view

import (
	"net/url"

	"github.com/lehigh-university-libraries/skinscan/internal/models"
	"github.com/lehigh-university-libraries/skinscan/internal/session"
)

// Mode selects which of the three result panels is shown
type Mode string

const (
	ModeIdle      Mode = "idle"
	ModeAnalyzing Mode = "analyzing"
	ModeResult    Mode = "result"
)

const (
	UrgentCareMessage = "This condition requires immediate professional evaluation."
	DoctorsHeading    = "Recommended Dermatologists (Odisha)"
	IdlePrompt        = "Upload an image to get started with AI-powered skin analysis"
)

// Guidelines are shown under the upload area
var Guidelines = []string{
	"Use good lighting and clear focus",
	"Capture the affected area clearly",
	"Avoid shadows or reflections",
	"Include some surrounding healthy skin for context",
}

// SeverityStyle is the visual affordance for a severity
type SeverityStyle struct {
	Tone string `json:"tone"` // positive, caution, alarm or neutral
	Icon string `json:"icon"`
}

// StyleFor maps a severity to its affordance. Unknown values fall back to
// the neutral information style.
func StyleFor(s models.Severity) SeverityStyle {
	switch s {
	case models.SeverityMild:
		return SeverityStyle{Tone: "positive", Icon: "check-circle"}
	case models.SeverityModerate:
		return SeverityStyle{Tone: "caution", Icon: "alert-triangle"}
	case models.SeveritySevere:
		return SeverityStyle{Tone: "alarm", Icon: "alert-triangle"}
	default:
		return SeverityStyle{Tone: "neutral", Icon: "info"}
	}
}

// Page is everything the page template needs
type Page struct {
	SessionID  string        `json:"session_id"`
	State      session.State `json:"state"`
	Mode       Mode          `json:"mode"`
	Image      *models.Image `json:"image,omitempty"`
	CanAnalyze bool          `json:"can_analyze"`
	Guidelines []string      `json:"guidelines"`
	IdlePrompt string        `json:"idle_prompt,omitempty"`
	Result     *Result       `json:"result,omitempty"`
}

// HasImage reports whether the upload preview is shown
func (p Page) HasImage() bool {
	return p.Image != nil
}

// Result is the breakdown shown for a finished analysis
type Result struct {
	Name            string         `json:"name"`
	Confidence      int            `json:"confidence"`
	Severity        string         `json:"severity"`
	SeverityLabel   string         `json:"severity_label"`
	Style           SeverityStyle  `json:"style"`
	Description     string         `json:"description"`
	Symptoms        []string       `json:"symptoms"`
	UrgentCare      bool           `json:"urgent_care"`
	UrgentMessage   string         `json:"urgent_message,omitempty"`
	MedicalAdvice   string         `json:"medical_advice"`
	Recommendations []string       `json:"recommendations"`
	NextSteps       []NumberedStep `json:"next_steps"`
	DoctorsHeading  string         `json:"doctors_heading"`
	Doctors         []DoctorCard   `json:"doctors"`
}

// NumberedStep is one entry of the ordered next-steps list, numbered from 1
type NumberedStep struct {
	N    int    `json:"n"`
	Text string `json:"text"`
}

// DoctorCard is a doctor contact with a link to its dial QR code
type DoctorCard struct {
	models.Doctor
	QRPath string `json:"qr_path"`
}

// Render builds the page for a snapshot
func Render(snap session.Snapshot) Page {
	p := Page{
		SessionID:  snap.ID,
		State:      snap.State,
		Image:      snap.Image,
		CanAnalyze: snap.Image != nil && !snap.IsAnalyzing,
		Guidelines: Guidelines,
	}

	switch {
	case snap.IsAnalyzing:
		p.Mode = ModeAnalyzing
	case snap.Result != nil:
		p.Mode = ModeResult
		p.Result = renderResult(snap.Result)
	default:
		p.Mode = ModeIdle
		p.IdlePrompt = IdlePrompt
	}
	return p
}

func renderResult(r *models.DiseaseRecord) *Result {
	res := &Result{
		Name:            r.Name,
		Confidence:      clampPercent(r.Confidence),
		Severity:        string(r.Severity),
		SeverityLabel:   string(r.Severity) + " Severity",
		Style:           StyleFor(r.Severity),
		Description:     r.Description,
		Symptoms:        r.Symptoms,
		UrgentCare:      r.Severity == models.SeveritySevere,
		MedicalAdvice:   r.MedicalAdvice,
		Recommendations: r.Recommendations,
		NextSteps:       make([]NumberedStep, 0, len(r.NextSteps)),
		DoctorsHeading:  DoctorsHeading,
		Doctors:         make([]DoctorCard, 0, len(r.Doctors)),
	}
	if res.UrgentCare {
		res.UrgentMessage = UrgentCareMessage
	}
	for i, step := range r.NextSteps {
		res.NextSteps = append(res.NextSteps, NumberedStep{N: i + 1, Text: step})
	}
	for _, d := range r.Doctors {
		res.Doctors = append(res.Doctors, DoctorCard{Doctor: d, QRPath: QRPath(d.Phone)})
	}
	return res
}

// QRPath is the URL of the dial QR code for phone
func QRPath(phone string) string {
	return "/api/doctors/qr?phone=" + url.QueryEscape(phone)
}

func clampPercent(v int) int {
	return min(max(v, 0), 100)
}
