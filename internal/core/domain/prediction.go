package domain

import "time"

type Tier string

const (
	TierHigh   Tier = "HIGH"
	TierMedium Tier = "MEDIUM"
	TierLow    Tier = "LOW"
)

// Fixed business-rule constants. Presented as configuration, never derived.
const (
	TierHighThreshold   = 0.7
	TierMediumThreshold = 0.4

	FallbackBaseScore      = 0.5
	FallbackIncomeBonus    = 0.20
	FallbackSpendBonus     = 0.15
	FallbackReaderBonus    = 0.10
	FallbackMaxProbability = 0.95
	FallbackSpendThreshold = 100.0
)

// PredictionSource says which path produced a probability.
type PredictionSource string

const (
	SourceModel    PredictionSource = "model"
	SourceFallback PredictionSource = "fallback"
)

// PredictionResult is the transient answer to one what-if request.
type PredictionResult struct {
	Probability float64          `json:"probability"`
	Tier        Tier             `json:"tier"`
	Persona     string           `json:"persona"`
	Source      PredictionSource `json:"source"`
}

// TierFor buckets a probability by the fixed thresholds.
func TierFor(probability float64) Tier {
	switch {
	case probability > TierHighThreshold:
		return TierHigh
	case probability > TierMediumThreshold:
		return TierMedium
	default:
		return TierLow
	}
}

// PersonaFor maps a probability onto the persona ladder.
func PersonaFor(probability float64) string {
	switch {
	case probability > 0.7:
		return Centroids[3].Label
	case probability > 0.5:
		return Centroids[2].Label
	case probability > 0.3:
		return Centroids[1].Label
	default:
		return Centroids[0].Label
	}
}

// PredictionEvent is the audit payload published after a served prediction.
type PredictionEvent struct {
	ID          string           `json:"id"`
	Probability float64          `json:"probability"`
	Tier        Tier             `json:"tier"`
	Persona     string           `json:"persona"`
	Source      PredictionSource `json:"source"`
	Record      SurveyRecord     `json:"record"`
	CreatedAt   time.Time        `json:"created_at"`
}
