package usecase

import (
	"github.com/amoghlakshman/cafe-insights/internal/core/domain"
	"github.com/amoghlakshman/cafe-insights/internal/core/ports"
)

// InsightsUseCase is the read side over the hand-authored reference tables.
type InsightsUseCase struct {
	reference ports.ReferenceProvider
}

func NewInsightsUseCase(reference ports.ReferenceProvider) *InsightsUseCase {
	return &InsightsUseCase{reference: reference}
}

func (uc *InsightsUseCase) Models() []domain.ModelMetrics {
	return uc.reference.Tables().Models
}

func (uc *InsightsUseCase) Personas() []domain.PersonaProfile {
	return uc.reference.Tables().Personas
}

func (uc *InsightsUseCase) Drivers() []domain.SpendingDriver {
	return uc.reference.Tables().Drivers
}

func (uc *InsightsUseCase) Bundles() []domain.BundleRule {
	return uc.reference.Tables().Bundles
}
