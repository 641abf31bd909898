package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/amoghlakshman/cafe-insights/internal/core/domain"
	"github.com/amoghlakshman/cafe-insights/internal/core/ports"
)

// PredictObserver receives domain-level observations from the predict path.
// Implemented by observability/metrics; nil-safe via noopObserver.
type PredictObserver interface {
	ObserveSourceResolution(source, outcome string)
	ObservePipelineBuild(outcome string, duration time.Duration, rows int)
	ObservePrediction(source domain.PredictionSource, tier domain.Tier)
}

type noopObserver struct{}

func (noopObserver) ObserveSourceResolution(string, string)                 {}
func (noopObserver) ObservePipelineBuild(string, time.Duration, int)        {}
func (noopObserver) ObservePrediction(domain.PredictionSource, domain.Tier) {}

// PredictUseCase orchestrates the live simulator: resolve the dataset once,
// train the pipeline once, then serve predictions from the model or the
// rule-based fallback. Dataset and classifier are read-only after first use.
type PredictUseCase struct {
	sources  []ports.DatasetSource
	trainer  ports.ClassifierTrainer
	fallback *FallbackScorer
	queue    ports.MessageQueue
	observer PredictObserver

	initOnce   sync.Once
	dataset    *domain.SurveyDataset
	classifier ports.VisitClassifier
	ready      bool
}

func NewPredictUseCase(
	sources []ports.DatasetSource,
	trainer ports.ClassifierTrainer,
	fallback *FallbackScorer,
	queue ports.MessageQueue,
	observer PredictObserver,
) *PredictUseCase {
	if observer == nil {
		observer = noopObserver{}
	}
	return &PredictUseCase{
		sources:  sources,
		trainer:  trainer,
		fallback: fallback,
		queue:    queue,
		observer: observer,
	}
}

func (uc *PredictUseCase) Predict(ctx context.Context, record domain.SurveyRecord) (domain.PredictionResult, error) {
	if err := validateRecord(record); err != nil {
		return domain.PredictionResult{}, err
	}

	uc.ensureReady(ctx)

	var probability float64
	source := domain.SourceFallback
	if uc.ready {
		probability = uc.classifier.PredictProbability(record)
		source = domain.SourceModel
	} else {
		probability = uc.fallback.Score(record)
	}
	probability = clampUnit(probability)

	result := domain.PredictionResult{
		Probability: probability,
		Tier:        domain.TierFor(probability),
		Persona:     domain.PersonaFor(probability),
		Source:      source,
	}
	uc.observer.ObservePrediction(result.Source, result.Tier)
	uc.publishAudit(ctx, record, result)
	return result, nil
}

// DatasetSummary reports row count and the source that won resolution.
func (uc *PredictUseCase) DatasetSummary(ctx context.Context) (int, string, error) {
	uc.ensureReady(ctx)
	return uc.dataset.Len(), uc.dataset.Source, nil
}

// ensureReady loads the dataset and trains the classifier exactly once per
// process. A training failure leaves ready=false; every later prediction
// takes the fallback branch.
func (uc *PredictUseCase) ensureReady(ctx context.Context) {
	uc.initOnce.Do(func() {
		uc.dataset = uc.resolveDataset(ctx)

		start := time.Now()
		classifier, err := uc.trainer.Train(uc.dataset)
		if err != nil {
			uc.observer.ObservePipelineBuild("failure", time.Since(start), uc.dataset.Len())
			slog.Warn("pipeline_training_failed",
				"rows", uc.dataset.Len(),
				"source", uc.dataset.Source,
				"error", err,
			)
			return
		}

		uc.classifier = classifier
		uc.ready = true
		uc.observer.ObservePipelineBuild("success", time.Since(start), uc.dataset.Len())
		slog.Info("pipeline_trained",
			"rows", uc.dataset.Len(),
			"source", uc.dataset.Source,
			"duration_ms", float64(time.Since(start).Microseconds())/1000.0,
		)
	})
}

// resolveDataset walks the ordered sources and short-circuits on the first
// success. When every source fails it substitutes the synthetic dataset, so
// callers always receive a non-empty table.
func (uc *PredictUseCase) resolveDataset(ctx context.Context) *domain.SurveyDataset {
	for _, source := range uc.sources {
		dataset, err := source.Load(ctx)
		if err != nil {
			uc.observer.ObserveSourceResolution(source.Name(), "failure")
			slog.Warn("dataset_source_failed", "source", source.Name(), "error", err)
			continue
		}
		if dataset.Len() == 0 {
			uc.observer.ObserveSourceResolution(source.Name(), "empty")
			slog.Warn("dataset_source_empty", "source", source.Name())
			continue
		}
		uc.observer.ObserveSourceResolution(source.Name(), "success")
		slog.Info("dataset_resolved", "source", source.Name(), "rows", dataset.Len())
		return dataset
	}

	uc.observer.ObserveSourceResolution("synthetic", "success")
	slog.Warn("dataset_sources_exhausted", "fallback", "synthetic")
	return domain.SyntheticDataset()
}

// publishAudit is best-effort: audit loss must never fail a prediction.
func (uc *PredictUseCase) publishAudit(ctx context.Context, record domain.SurveyRecord, result domain.PredictionResult) {
	if uc.queue == nil {
		return
	}
	event := domain.PredictionEvent{
		ID:          uuid.NewString(),
		Probability: result.Probability,
		Tier:        result.Tier,
		Persona:     result.Persona,
		Source:      result.Source,
		Record:      record,
		CreatedAt:   time.Now().UTC(),
	}
	if err := uc.queue.PublishPredictionRecorded(ctx, event); err != nil {
		slog.Warn("prediction_audit_publish_failed", "event_id", event.ID, "error", err)
	}
}

func validateRecord(record domain.SurveyRecord) error {
	if record.AvgSpend < 0 || record.TotalSpend < 0 || record.MembershipWTP < 0 {
		return domain.WrapError(domain.ErrInvalidInput, "predict", fmt.Errorf("numeric fields must be non-negative"))
	}
	categoricals := map[string]string{
		"age_group":         record.AgeGroup,
		"gender":            record.Gender,
		"income":            record.Income,
		"employment":        record.Employment,
		"education":         record.Education,
		"cafe_frequency":    record.CafeFrequency,
		"reading_frequency": record.ReadingFrequency,
		"visit_reason":      record.VisitReason,
	}
	for field, value := range categoricals {
		if value == "" {
			return domain.WrapError(domain.ErrInvalidInput, "predict", fmt.Errorf("field %s is required", field))
		}
	}
	return nil
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
