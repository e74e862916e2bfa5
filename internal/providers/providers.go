package providers

import (
	"context"

	"github.com/lehigh-university-libraries/skinscan/internal/models"
)

// Provider assesses an uploaded image and returns the matching condition
type Provider interface {
	Assess(ctx context.Context, img models.Image) (*models.DiseaseRecord, error)
}

// Func adapts an ordinary function to the Provider interface
type Func func(ctx context.Context, img models.Image) (*models.DiseaseRecord, error)

// Assess calls f
func (f Func) Assess(ctx context.Context, img models.Image) (*models.DiseaseRecord, error) {
	return f(ctx, img)
}
