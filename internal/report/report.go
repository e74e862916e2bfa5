// Package report produces the downloadable analysis report for a finished
// analysis.
package report

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/lehigh-university-libraries/skinscan/internal/models"
	"github.com/lehigh-university-libraries/skinscan/internal/session"
	"github.com/lehigh-university-libraries/skinscan/internal/view"
	"gopkg.in/yaml.v3"
)

// ErrNoResult is returned when the session has nothing to report
var ErrNoResult = errors.New("no analysis result to report")

// Format is a report encoding
type Format string

const (
	FormatText Format = "text"
	FormatYAML Format = "yaml"
)

// ParseFormat maps a query or flag value to a Format. Empty means text.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case "", FormatText:
		return FormatText, nil
	case FormatYAML:
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported report format: %s", s)
	}
}

// ContentType is the HTTP media type for f
func (f Format) ContentType() string {
	if f == FormatYAML {
		return "application/yaml"
	}
	return "text/plain; charset=utf-8"
}

// Extension is the file suffix for f
func (f Format) Extension() string {
	if f == FormatYAML {
		return ".yaml"
	}
	return ".txt"
}

// Report is the serialisable form of an analysis
type Report struct {
	SessionID       string          `yaml:"session_id,omitempty"`
	GeneratedAt     string          `yaml:"generated_at"`
	Image           ImageInfo       `yaml:"image"`
	Condition       string          `yaml:"condition"`
	Confidence      int             `yaml:"confidence"`
	Severity        models.Severity `yaml:"severity"`
	UrgentCare      bool            `yaml:"urgent_care"`
	Description     string          `yaml:"description"`
	Symptoms        []string        `yaml:"symptoms"`
	MedicalAdvice   string          `yaml:"medical_advice"`
	Recommendations []string        `yaml:"recommendations"`
	NextSteps       []string        `yaml:"next_steps"`
	Doctors         []models.Doctor `yaml:"doctors"`
	Disclaimer      string          `yaml:"disclaimer"`
}

// ImageInfo describes the analysed upload without its pixel data
type ImageInfo struct {
	Filename  string `yaml:"filename"`
	MediaType string `yaml:"media_type"`
	Size      int    `yaml:"size"`
	Width     int    `yaml:"width,omitempty"`
	Height    int    `yaml:"height,omitempty"`
}

const disclaimer = "This analysis is for informational purposes only and is not a medical diagnosis. Consult a qualified dermatologist."

// Build assembles a report from a snapshot holding a result
func Build(snap session.Snapshot, now time.Time) (*Report, error) {
	if snap.Result == nil {
		return nil, ErrNoResult
	}
	r := snap.Result
	rep := &Report{
		SessionID:       snap.ID,
		GeneratedAt:     now.UTC().Format(time.RFC3339),
		Condition:       r.Name,
		Confidence:      r.Confidence,
		Severity:        r.Severity,
		UrgentCare:      r.Severity == models.SeveritySevere,
		Description:     r.Description,
		Symptoms:        r.Symptoms,
		MedicalAdvice:   r.MedicalAdvice,
		Recommendations: r.Recommendations,
		NextSteps:       r.NextSteps,
		Doctors:         r.Doctors,
		Disclaimer:      disclaimer,
	}
	if snap.Image != nil {
		rep.Image = ImageInfo{
			Filename:  snap.Image.Filename,
			MediaType: snap.Image.MediaType,
			Size:      snap.Image.Size,
			Width:     snap.Image.Width,
			Height:    snap.Image.Height,
		}
	}
	return rep, nil
}

// Filename suggests a download name for the report
func (r *Report) Filename(f Format) string {
	name := strings.Map(func(c rune) rune {
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9':
			return c
		case c >= 'A' && c <= 'Z':
			return c + ('a' - 'A')
		default:
			return '-'
		}
	}, r.Condition)
	return "skin-analysis-" + strings.Trim(name, "-") + f.Extension()
}

// Write encodes the report
func (r *Report) Write(w io.Writer, f Format) error {
	switch f {
	case FormatYAML:
		data, err := yaml.Marshal(r)
		if err != nil {
			return fmt.Errorf("failed to marshal YAML: %w", err)
		}
		_, err = w.Write(data)
		return err
	case FormatText:
		return r.writeText(w)
	default:
		return fmt.Errorf("unsupported report format: %s", f)
	}
}

func (r *Report) writeText(w io.Writer) error {
	var b strings.Builder

	b.WriteString("========================================\n")
	b.WriteString("Skin Analysis Report\n")
	b.WriteString("========================================\n")
	fmt.Fprintf(&b, "Generated: %s\n", r.GeneratedAt)
	if r.Image.Filename != "" {
		fmt.Fprintf(&b, "Image:     %s (%s, %d bytes", r.Image.Filename, r.Image.MediaType, r.Image.Size)
		if r.Image.Width > 0 {
			fmt.Fprintf(&b, ", %dx%d", r.Image.Width, r.Image.Height)
		}
		b.WriteString(")\n")
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "Condition:  %s\n", r.Condition)
	fmt.Fprintf(&b, "Confidence: %d%%\n", r.Confidence)
	fmt.Fprintf(&b, "Severity:   %s\n", r.Severity)
	if r.UrgentCare {
		fmt.Fprintf(&b, "\n!! Urgent Medical Attention Required: %s\n", view.UrgentCareMessage)
	}

	fmt.Fprintf(&b, "\nDescription:\n  %s\n", r.Description)
	fmt.Fprintf(&b, "\nCommon Symptoms:\n  %s\n", strings.Join(r.Symptoms, ", "))
	fmt.Fprintf(&b, "\nMedical Advice:\n  %s\n", r.MedicalAdvice)

	b.WriteString("\nRecommendations:\n")
	for _, rec := range r.Recommendations {
		fmt.Fprintf(&b, "  - %s\n", rec)
	}

	b.WriteString("\nNext Steps:\n")
	for i, step := range r.NextSteps {
		fmt.Fprintf(&b, "  %d. %s\n", i+1, step)
	}

	fmt.Fprintf(&b, "\n%s:\n", view.DoctorsHeading)
	for _, d := range r.Doctors {
		fmt.Fprintf(&b, "  %s (%s)\n    %s, %s\n    %s\n", d.Name, d.Specialty, d.Hospital, d.Location, d.Phone)
	}

	fmt.Fprintf(&b, "\n%s\n", r.Disclaimer)

	_, err := io.WriteString(w, b.String())
	return err
}
