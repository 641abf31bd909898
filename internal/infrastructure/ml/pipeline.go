package ml

import (
	"fmt"
	"math/rand"

	"github.com/amoghlakshman/cafe-insights/internal/core/domain"
	"github.com/amoghlakshman/cafe-insights/internal/core/ports"
)

// Trainer builds the visit-likelihood pipeline: standardized numeric
// features plus one-hot categoricals feeding a KNN classifier. Training is
// bounded by a capped, seeded random sample of the dataset.
type Trainer struct {
	neighbors int
	sampleCap int
	seed      int64
}

type TrainerConfig struct {
	Neighbors int
	SampleCap int
	Seed      int64
}

func NewTrainer(cfg TrainerConfig) *Trainer {
	if cfg.Neighbors <= 0 {
		cfg.Neighbors = 3
	}
	if cfg.SampleCap <= 0 {
		cfg.SampleCap = 200
	}
	return &Trainer{
		neighbors: cfg.Neighbors,
		sampleCap: cfg.SampleCap,
		seed:      cfg.Seed,
	}
}

// Pipeline is the trained artifact: fitted transform stages plus the
// classifier. Read-only after Train returns it.
type Pipeline struct {
	scaler   *StandardScaler
	encoders []*OneHotEncoder
	model    *knn
}

var _ ports.VisitClassifier = (*Pipeline)(nil)

func (t *Trainer) Train(dataset *domain.SurveyDataset) (ports.VisitClassifier, error) {
	if dataset.Len() == 0 {
		return nil, domain.WrapError(domain.ErrTrainingFailure, "train pipeline", fmt.Errorf("dataset is empty"))
	}

	records := t.sample(dataset.Records)

	numeric := make([][]float64, len(records))
	labels := make([]float64, len(records))
	for i, r := range records {
		numeric[i] = numericFeatures(r)
		if r.PositiveLabel() {
			labels[i] = 1
		}
	}

	scaler := NewStandardScaler()
	scaler.Fit(numeric)

	encoders := make([]*OneHotEncoder, len(categoricalFields))
	for f := range categoricalFields {
		column := make([]string, len(records))
		for i, r := range records {
			column[i] = categoricalFields[f](r)
		}
		encoders[f] = NewOneHotEncoder()
		encoders[f].Fit(column)
	}

	pipeline := &Pipeline{scaler: scaler, encoders: encoders}
	X := make([][]float64, len(records))
	for i, r := range records {
		X[i] = pipeline.featureVector(r)
	}

	model := newKNN(t.neighbors)
	if err := model.Fit(X, labels); err != nil {
		return nil, domain.WrapError(domain.ErrTrainingFailure, "train pipeline", err)
	}
	pipeline.model = model
	return pipeline, nil
}

// sample draws at most sampleCap records with a fixed seed so repeated
// builds over the same dataset train on the same subset.
func (t *Trainer) sample(records []domain.SurveyRecord) []domain.SurveyRecord {
	if len(records) <= t.sampleCap {
		out := make([]domain.SurveyRecord, len(records))
		copy(out, records)
		return out
	}
	rng := rand.New(rand.NewSource(t.seed))
	idx := rng.Perm(len(records))[:t.sampleCap]
	out := make([]domain.SurveyRecord, len(idx))
	for i, j := range idx {
		out[i] = records[j]
	}
	return out
}

func (p *Pipeline) PredictProbability(record domain.SurveyRecord) float64 {
	return p.model.Probability(p.featureVector(record))
}

// featureVector concatenates standardized numerics with the one-hot blocks.
func (p *Pipeline) featureVector(r domain.SurveyRecord) []float64 {
	vec := p.scaler.Transform(numericFeatures(r))
	for f, encoder := range p.encoders {
		vec = append(vec, encoder.Transform(categoricalFields[f](r))...)
	}
	return vec
}

func numericFeatures(r domain.SurveyRecord) []float64 {
	return []float64{r.AvgSpend, r.TotalSpend, r.MembershipWTP}
}

// categoricalFields fixes the order of the eight one-hot encoded columns.
var categoricalFields = []func(domain.SurveyRecord) string{
	func(r domain.SurveyRecord) string { return r.AgeGroup },
	func(r domain.SurveyRecord) string { return r.Gender },
	func(r domain.SurveyRecord) string { return r.Employment },
	func(r domain.SurveyRecord) string { return r.Income },
	func(r domain.SurveyRecord) string { return r.Education },
	func(r domain.SurveyRecord) string { return r.CafeFrequency },
	func(r domain.SurveyRecord) string { return r.ReadingFrequency },
	func(r domain.SurveyRecord) string { return r.VisitReason },
}
