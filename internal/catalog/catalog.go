// Package catalog holds the immutable condition and doctor data used by the
// simulated analysis provider.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/lehigh-university-libraries/skinscan/internal/models"
)

//go:embed catalog.yaml
var embedded []byte

// ErrInvalid is wrapped by every validation failure
var ErrInvalid = errors.New("invalid catalog")

// Catalog is a read-only set of disease records and the doctor roster they
// reference. Accessors hand out copies.
type Catalog struct {
	doctors  []models.Doctor
	diseases []models.DiseaseRecord
}

// New builds a validated catalog from already resolved records
func New(doctors []models.Doctor, diseases []models.DiseaseRecord) (*Catalog, error) {
	c := &Catalog{
		doctors:  slices.Clone(doctors),
		diseases: make([]models.DiseaseRecord, 0, len(diseases)),
	}
	for i := range diseases {
		c.diseases = append(c.diseases, *diseases[i].Clone())
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

var loadDefault = sync.OnceValues(func() (*Catalog, error) {
	return Parse(embedded, FormatYAML)
})

// Default returns the catalog compiled into the binary. It is parsed once.
func Default() (*Catalog, error) {
	return loadDefault()
}

// Len returns the number of disease records
func (c *Catalog) Len() int {
	return len(c.diseases)
}

// Record returns a copy of the i-th disease record
func (c *Catalog) Record(i int) *models.DiseaseRecord {
	return c.diseases[i].Clone()
}

// Lookup finds a disease record by name
func (c *Catalog) Lookup(name string) (*models.DiseaseRecord, bool) {
	for i := range c.diseases {
		if c.diseases[i].Name == name {
			return c.diseases[i].Clone(), true
		}
	}
	return nil, false
}

// Names lists disease names in catalog order
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.diseases))
	for _, d := range c.diseases {
		names = append(names, d.Name)
	}
	return names
}

// Diseases returns copies of every disease record in catalog order
func (c *Catalog) Diseases() []models.DiseaseRecord {
	out := make([]models.DiseaseRecord, 0, len(c.diseases))
	for i := range c.diseases {
		out = append(out, *c.diseases[i].Clone())
	}
	return out
}

// Doctors returns the roster in catalog order
func (c *Catalog) Doctors() []models.Doctor {
	return slices.Clone(c.doctors)
}

// Validate checks the invariants every catalog must hold
func (c *Catalog) Validate() error {
	if len(c.diseases) == 0 {
		return fmt.Errorf("%w: no disease records", ErrInvalid)
	}
	seen := make(map[string]bool, len(c.diseases))
	for i, d := range c.diseases {
		if d.Name == "" {
			return fmt.Errorf("%w: record %d has no name", ErrInvalid, i)
		}
		if seen[d.Name] {
			return fmt.Errorf("%w: duplicate record %q", ErrInvalid, d.Name)
		}
		seen[d.Name] = true
		if d.Confidence < 0 || d.Confidence > 100 {
			return fmt.Errorf("%w: %q confidence %d outside 0-100", ErrInvalid, d.Name, d.Confidence)
		}
		if !d.Severity.Known() {
			return fmt.Errorf("%w: %q has unknown severity %q", ErrInvalid, d.Name, d.Severity)
		}
		for _, doc := range d.Doctors {
			if !slices.Contains(c.doctors, doc) {
				return fmt.Errorf("%w: %q references doctor %q missing from roster", ErrInvalid, d.Name, doc.Name)
			}
		}
	}
	return nil
}
