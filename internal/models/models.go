package models

import "slices"

// Severity grades how urgently a condition needs attention
type Severity string

const (
	SeverityMild     Severity = "Mild"
	SeverityModerate Severity = "Moderate"
	SeveritySevere   Severity = "Severe"
)

// Known reports whether s is one of the three catalog severities
func (s Severity) Known() bool {
	switch s {
	case SeverityMild, SeverityModerate, SeveritySevere:
		return true
	}
	return false
}

// Doctor is a static contact shown alongside an analysis result
type Doctor struct {
	Name      string `json:"name" yaml:"name" parquet:"name"`
	Specialty string `json:"specialty" yaml:"specialty" parquet:"specialty"`
	Hospital  string `json:"hospital" yaml:"hospital" parquet:"hospital"`
	Location  string `json:"location" yaml:"location" parquet:"location"`
	Phone     string `json:"phone" yaml:"phone" parquet:"phone"`
}

// DiseaseRecord is one entry of the condition catalog
type DiseaseRecord struct {
	Name            string   `json:"name" yaml:"name" parquet:"name"`
	Confidence      int      `json:"confidence" yaml:"confidence" parquet:"confidence"` // percent, fixed per record
	Severity        Severity `json:"severity" yaml:"severity" parquet:"severity"`
	Description     string   `json:"description" yaml:"description" parquet:"description"`
	MedicalAdvice   string   `json:"medical_advice" yaml:"medical_advice" parquet:"medical_advice"`
	Symptoms        []string `json:"symptoms" yaml:"symptoms" parquet:"symptoms,list"`
	Recommendations []string `json:"recommendations" yaml:"recommendations" parquet:"recommendations,list"`
	NextSteps       []string `json:"next_steps" yaml:"next_steps" parquet:"next_steps,list"`
	Doctors         []Doctor `json:"doctors" yaml:"doctors" parquet:"doctors,list"`
}

// Clone returns a deep copy so callers can never mutate catalog data
func (r *DiseaseRecord) Clone() *DiseaseRecord {
	if r == nil {
		return nil
	}
	c := *r
	c.Symptoms = slices.Clone(r.Symptoms)
	c.Recommendations = slices.Clone(r.Recommendations)
	c.NextSteps = slices.Clone(r.NextSteps)
	c.Doctors = slices.Clone(r.Doctors)
	return &c
}

// Image is an uploaded image held in memory for display
type Image struct {
	Filename  string `json:"filename"`
	MediaType string `json:"media_type"`
	Size      int    `json:"size"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	DataURI   string `json:"data_uri"` // data:<media type>;base64,<payload>
}
