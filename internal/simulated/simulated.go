// Package simulated provides a stand-in analysis provider: it waits a fixed
// delay and then returns a random catalog record. No image inspection happens.
package simulated

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/lehigh-university-libraries/skinscan/internal/catalog"
	"github.com/lehigh-university-libraries/skinscan/internal/models"
)

// DefaultDelay is how long a simulated analysis takes
const DefaultDelay = 3 * time.Second

// Provider picks a catalog record uniformly at random after a delay
type Provider struct {
	catalog *catalog.Catalog
	delay   time.Duration
	pick    func(n int) int
}

// Option configures a Provider
type Option func(*Provider)

// WithDelay overrides the simulated processing time
func WithDelay(d time.Duration) Option {
	return func(p *Provider) {
		p.delay = d
	}
}

// WithPicker overrides the index chooser; it must return a value in [0, n)
func WithPicker(pick func(n int) int) Option {
	return func(p *Provider) {
		p.pick = pick
	}
}

// New returns a simulated provider backed by c
func New(c *catalog.Catalog, opts ...Option) *Provider {
	p := &Provider{
		catalog: c,
		delay:   DefaultDelay,
		pick:    rand.IntN,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Delay reports the configured processing time
func (p *Provider) Delay() time.Duration {
	return p.delay
}

// Assess waits for the configured delay, then returns a copy of a random
// catalog record. It returns ctx.Err() if the context ends first.
func (p *Provider) Assess(ctx context.Context, img models.Image) (*models.DiseaseRecord, error) {
	if p.delay > 0 {
		timer := time.NewTimer(p.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	} else if err := ctx.Err(); err != nil {
		return nil, err
	}

	record := p.catalog.Record(p.pick(p.catalog.Len()))
	slog.Debug("Simulated analysis complete", "image", img.Filename, "condition", record.Name, "confidence", record.Confidence)
	return record, nil
}
