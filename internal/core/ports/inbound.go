package ports

import (
	"context"

	"github.com/amoghlakshman/cafe-insights/internal/core/domain"
)

// ProspectPredictor is the inbound contract for what-if visit predictions.
type ProspectPredictor interface {
	Predict(ctx context.Context, record domain.SurveyRecord) (domain.PredictionResult, error)
	DatasetSummary(ctx context.Context) (rows int, source string, err error)
}

// PersonaMatcher is the inbound contract for nearest-centroid lookups.
type PersonaMatcher interface {
	Match(avgSpend, totalSpend, membershipWTP float64) domain.PersonaMatch
}

// SpendEstimator is the inbound contract for the coefficient-sum estimate.
type SpendEstimator interface {
	Estimate(income string, reasons []string) (float64, error)
}

// InsightsReader serves the static reference tables.
type InsightsReader interface {
	Models() []domain.ModelMetrics
	Personas() []domain.PersonaProfile
	Drivers() []domain.SpendingDriver
	Bundles() []domain.BundleRule
}
