package ports

import (
	"context"

	"github.com/amoghlakshman/cafe-insights/internal/core/domain"
)

// DatasetSource is one ordered resolution strategy for the survey table.
// Load returns the full dataset or an error; callers fall through to the
// next source on failure.
type DatasetSource interface {
	Name() string
	Load(ctx context.Context) (*domain.SurveyDataset, error)
}

// VisitClassifier scores a single record after training.
type VisitClassifier interface {
	// PredictProbability returns the positive-class probability in [0,1].
	// Unseen categorical values never fail; they encode to zeros.
	PredictProbability(record domain.SurveyRecord) float64
}

// ClassifierTrainer builds a VisitClassifier from a dataset. Training
// failures are returned, never swallowed; the caller decides the fallback.
type ClassifierTrainer interface {
	Train(dataset *domain.SurveyDataset) (VisitClassifier, error)
}

// PredictionLog persists and reads served predictions.
type PredictionLog interface {
	Insert(ctx context.Context, event domain.PredictionEvent) error
	ListRecent(ctx context.Context, limit int) ([]domain.PredictionEvent, error)
}

// MessageQueue carries prediction-audit events from api to worker.
type MessageQueue interface {
	PublishPredictionRecorded(ctx context.Context, event domain.PredictionEvent) error
	SubscribePredictionRecorded(ctx context.Context, handler func(context.Context, domain.PredictionEvent) error) error
}

// ReferenceProvider serves the hand-authored study results.
type ReferenceProvider interface {
	Tables() domain.ReferenceTables
}
