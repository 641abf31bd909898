package usecase

import (
	"fmt"

	"github.com/amoghlakshman/cafe-insights/internal/core/domain"
)

// Spend estimate bounds and base, fixed business rules from the offline
// regression study.
const (
	estimateBase = 35.0
	estimateMin  = 15.0
	estimateMax  = 300.0

	foodWorkBonus     = 26.42
	coffeeFoodPenalty = 11.61
)

// incomeCoefficients holds the additive adjustment per bracket. The
// 20,001 - 35,000 bracket is the regression baseline and carries zero.
var incomeCoefficients = map[string]float64{
	domain.IncomeUnder5k:  -46.20,
	domain.Income5to10k:   -28.35,
	domain.Income10to20k:  -12.50,
	domain.Income20to35k:  0,
	domain.Income35to50k:  41.87,
	domain.Income50to75k:  89.74,
	domain.IncomeAbove75k: 117.24,
}

// SpendEstimateUseCase applies the fixed regression coefficients to a base
// spend. No data dependency, no training.
type SpendEstimateUseCase struct{}

func NewSpendEstimateUseCase() *SpendEstimateUseCase { return &SpendEstimateUseCase{} }

func (uc *SpendEstimateUseCase) Estimate(income string, reasons []string) (float64, error) {
	coefficient, ok := incomeCoefficients[income]
	if !ok {
		return 0, domain.WrapError(domain.ErrInvalidInput, "estimate spend", fmt.Errorf("unknown income bracket %q", income))
	}

	estimate := estimateBase + coefficient

	has := make(map[string]bool, len(reasons))
	for _, reason := range reasons {
		has[reason] = true
	}
	// The two pair rules are independent; both may apply.
	if has[domain.ReasonFoodQuality] && has[domain.ReasonWorkStudy] {
		estimate += foodWorkBonus
	}
	if has[domain.ReasonCoffeeQuality] && has[domain.ReasonFoodQuality] {
		estimate -= coffeeFoodPenalty
	}

	if estimate < estimateMin {
		estimate = estimateMin
	}
	if estimate > estimateMax {
		estimate = estimateMax
	}
	return estimate, nil
}
