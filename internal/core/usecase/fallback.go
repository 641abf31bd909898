package usecase

import (
	"strings"

	"github.com/amoghlakshman/cafe-insights/internal/core/domain"
)

// FallbackScorer is the deterministic rule-based predictor used whenever the
// trained pipeline is unavailable. Pure function of the record; identical
// input yields identical output on every call.
type FallbackScorer struct{}

func NewFallbackScorer() *FallbackScorer { return &FallbackScorer{} }

func (s *FallbackScorer) Score(record domain.SurveyRecord) float64 {
	score := domain.FallbackBaseScore
	if record.Income == domain.IncomeAbove75k || record.Income == domain.Income50to75k {
		score += domain.FallbackIncomeBonus
	}
	if record.TotalSpend > domain.FallbackSpendThreshold {
		score += domain.FallbackSpendBonus
	}
	if strings.Contains(record.ReadingFrequency, "Regular reader") {
		score += domain.FallbackReaderBonus
	}
	// Capped below 1.0 so the heuristic path never reports certainty.
	if score > domain.FallbackMaxProbability {
		score = domain.FallbackMaxProbability
	}
	return score
}
