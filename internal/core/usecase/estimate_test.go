package usecase

import (
	"math"
	"testing"

	"github.com/amoghlakshman/cafe-insights/internal/core/domain"
)

func TestEstimateHighIncomeNoReasons(t *testing.T) {
	uc := NewSpendEstimateUseCase()

	got, err := uc.Estimate(domain.IncomeAbove75k, nil)
	if err != nil {
		t.Fatalf("Estimate() error = %v", err)
	}
	if math.Abs(got-152.24) > 1e-9 {
		t.Fatalf("Estimate() = %v, want 152.24", got)
	}
}

func TestEstimateLowIncomeFoodWorkPair(t *testing.T) {
	uc := NewSpendEstimateUseCase()

	got, err := uc.Estimate(domain.IncomeUnder5k, []string{domain.ReasonFoodQuality, domain.ReasonWorkStudy})
	if err != nil {
		t.Fatalf("Estimate() error = %v", err)
	}
	if math.Abs(got-15.22) > 1e-9 {
		t.Fatalf("Estimate() = %v, want 15.22", got)
	}
}

func TestEstimateBothPairRulesApply(t *testing.T) {
	uc := NewSpendEstimateUseCase()

	reasons := []string{domain.ReasonCoffeeQuality, domain.ReasonFoodQuality, domain.ReasonWorkStudy}
	got, err := uc.Estimate(domain.Income20to35k, reasons)
	if err != nil {
		t.Fatalf("Estimate() error = %v", err)
	}
	want := 35.0 + 26.42 - 11.61
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("Estimate() = %v, want %v", got, want)
	}
}

func TestEstimateClampedToLowerBound(t *testing.T) {
	uc := NewSpendEstimateUseCase()

	// Lowest bracket plus the coffee/food penalty lands below the floor.
	got, err := uc.Estimate(domain.IncomeUnder5k, []string{domain.ReasonCoffeeQuality, domain.ReasonFoodQuality})
	if err != nil {
		t.Fatalf("Estimate() error = %v", err)
	}
	if got != 15.0 {
		t.Fatalf("Estimate() = %v, want clamp floor 15.0", got)
	}
}

func TestEstimateAlwaysWithinBounds(t *testing.T) {
	uc := NewSpendEstimateUseCase()

	brackets := []string{
		domain.IncomeUnder5k, domain.Income5to10k, domain.Income10to20k, domain.Income20to35k,
		domain.Income35to50k, domain.Income50to75k, domain.IncomeAbove75k,
	}
	reasonSets := [][]string{
		nil,
		{domain.ReasonFoodQuality, domain.ReasonWorkStudy},
		{domain.ReasonCoffeeQuality, domain.ReasonFoodQuality},
		{domain.ReasonCoffeeQuality, domain.ReasonFoodQuality, domain.ReasonWorkStudy},
		{domain.ReasonReadingSpace, domain.ReasonSocializing},
	}

	for _, bracket := range brackets {
		for _, reasons := range reasonSets {
			got, err := uc.Estimate(bracket, reasons)
			if err != nil {
				t.Fatalf("Estimate(%q) error = %v", bracket, err)
			}
			if got < 15.0 || got > 300.0 {
				t.Fatalf("Estimate(%q, %v) = %v outside [15, 300]", bracket, reasons, got)
			}
		}
	}
}

func TestEstimateUnknownBracket(t *testing.T) {
	uc := NewSpendEstimateUseCase()

	_, err := uc.Estimate("1,000,000+", nil)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
