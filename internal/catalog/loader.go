package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/lehigh-university-libraries/skinscan/internal/models"
	"github.com/parquet-go/parquet-go"
	"gopkg.in/yaml.v3"
)

// Format is an on-disk catalog encoding
type Format string

const (
	FormatYAML    Format = "yaml"
	FormatJSON    Format = "json"
	FormatParquet Format = "parquet"
)

// FormatFromPath picks the format from a file extension
func FormatFromPath(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	case ".parquet":
		return FormatParquet, nil
	default:
		return "", fmt.Errorf("unsupported catalog format: %s (supported: .yaml, .yml, .json, .parquet)", ext)
	}
}

// document is the YAML/JSON layout: a roster plus diseases that point into it
type document struct {
	Doctors  []models.Doctor `json:"doctors" yaml:"doctors"`
	Diseases []entry         `json:"diseases" yaml:"diseases"`
}

type entry struct {
	Name            string          `json:"name" yaml:"name"`
	Confidence      int             `json:"confidence" yaml:"confidence"`
	Severity        models.Severity `json:"severity" yaml:"severity"`
	Description     string          `json:"description" yaml:"description"`
	Symptoms        []string        `json:"symptoms" yaml:"symptoms"`
	Recommendations []string        `json:"recommendations" yaml:"recommendations"`
	MedicalAdvice   string          `json:"medical_advice" yaml:"medical_advice"`
	NextSteps       []string        `json:"next_steps" yaml:"next_steps"`
	Doctors         []int           `json:"doctors" yaml:"doctors"`
}

// Load reads and validates a catalog file (YAML, JSON or Parquet)
func Load(path string) (*Catalog, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	slog.Debug("Loading catalog", "path", path, "format", format)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	c, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog %s: %w", path, err)
	}

	slog.Info("Catalog loaded", "path", path, "diseases", c.Len(), "doctors", len(c.doctors))
	return c, nil
}

// Parse decodes a catalog from raw bytes
func Parse(data []byte, format Format) (*Catalog, error) {
	switch format {
	case FormatYAML:
		var doc document
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse YAML catalog: %w", err)
		}
		return fromDocument(doc)
	case FormatJSON:
		var doc document
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse JSON catalog: %w", err)
		}
		return fromDocument(doc)
	case FormatParquet:
		return parseParquet(data)
	default:
		return nil, fmt.Errorf("unsupported catalog format: %s", format)
	}
}

func fromDocument(doc document) (*Catalog, error) {
	diseases := make([]models.DiseaseRecord, 0, len(doc.Diseases))
	for _, e := range doc.Diseases {
		doctors := make([]models.Doctor, 0, len(e.Doctors))
		for _, ref := range e.Doctors {
			if ref < 0 || ref >= len(doc.Doctors) {
				return nil, fmt.Errorf("%w: %q references doctor %d, roster has %d", ErrInvalid, e.Name, ref, len(doc.Doctors))
			}
			doctors = append(doctors, doc.Doctors[ref])
		}
		diseases = append(diseases, models.DiseaseRecord{
			Name:            e.Name,
			Confidence:      e.Confidence,
			Severity:        e.Severity,
			Description:     e.Description,
			MedicalAdvice:   e.MedicalAdvice,
			Symptoms:        e.Symptoms,
			Recommendations: e.Recommendations,
			NextSteps:       e.NextSteps,
			Doctors:         doctors,
		})
	}
	return New(doc.Doctors, diseases)
}

func (c *Catalog) toDocument() document {
	doc := document{
		Doctors:  slices.Clone(c.doctors),
		Diseases: make([]entry, 0, len(c.diseases)),
	}
	for _, d := range c.diseases {
		refs := make([]int, 0, len(d.Doctors))
		for _, dr := range d.Doctors {
			refs = append(refs, slices.Index(c.doctors, dr))
		}
		doc.Diseases = append(doc.Diseases, entry{
			Name:            d.Name,
			Confidence:      d.Confidence,
			Severity:        d.Severity,
			Description:     d.Description,
			Symptoms:        d.Symptoms,
			Recommendations: d.Recommendations,
			MedicalAdvice:   d.MedicalAdvice,
			NextSteps:       d.NextSteps,
			Doctors:         refs,
		})
	}
	return doc
}

// parseParquet reads denormalised rows, one per disease with its doctors
// inlined. The roster is rebuilt in order of first appearance.
func parseParquet(data []byte) (*Catalog, error) {
	pf, err := parquet.OpenFile(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet: %w", err)
	}

	slog.Debug("Parquet catalog opened", "num_rows", pf.NumRows(), "num_row_groups", len(pf.RowGroups()))

	reader := parquet.NewGenericReader[models.DiseaseRecord](pf)
	defer reader.Close()

	var diseases []models.DiseaseRecord
	rows := make([]models.DiseaseRecord, 16)
	for {
		n, err := reader.Read(rows)
		diseases = append(diseases, rows[:n]...)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read parquet rows: %w", err)
		}
		if n == 0 {
			break
		}
	}

	var roster []models.Doctor
	for _, d := range diseases {
		for _, dr := range d.Doctors {
			if !slices.Contains(roster, dr) {
				roster = append(roster, dr)
			}
		}
	}
	return New(roster, diseases)
}

// Encode writes the catalog in the given format
func (c *Catalog) Encode(w io.Writer, format Format) error {
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(c.toDocument()); err != nil {
			return fmt.Errorf("failed to marshal YAML: %w", err)
		}
		return enc.Close()
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(c.toDocument()); err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		return nil
	case FormatParquet:
		writer := parquet.NewGenericWriter[models.DiseaseRecord](w)
		if _, err := writer.Write(c.Diseases()); err != nil {
			return fmt.Errorf("failed to write parquet rows: %w", err)
		}
		if err := writer.Close(); err != nil {
			return fmt.Errorf("failed to close parquet writer: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unsupported catalog format: %s", format)
	}
}

// Save writes the catalog to path, choosing the format from its extension
func (c *Catalog) Save(path string) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := c.Encode(&buf, format); err != nil {
		return err
	}

	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write catalog file: %w", err)
	}
	return nil
}
