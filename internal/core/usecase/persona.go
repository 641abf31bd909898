package usecase

import (
	"math"

	"github.com/amoghlakshman/cafe-insights/internal/core/domain"
)

// PersonaMatchUseCase assigns a point to the nearest of the four fixed
// persona centroids by Euclidean distance in raw units.
type PersonaMatchUseCase struct{}

func NewPersonaMatchUseCase() *PersonaMatchUseCase { return &PersonaMatchUseCase{} }

func (uc *PersonaMatchUseCase) Match(avgSpend, totalSpend, membershipWTP float64) domain.PersonaMatch {
	best, bestSquared := nearestCentroid(avgSpend, totalSpend, membershipWTP, domain.Centroids[:])

	chosen := domain.Centroids[best]
	return domain.PersonaMatch{
		Label:    chosen.Label,
		Centroid: chosen,
		Distance: math.Sqrt(bestSquared),
	}
}

// nearestCentroid evaluates centroids in index order with a strict
// less-than comparison, so equidistant points resolve to the lowest index.
func nearestCentroid(avgSpend, totalSpend, membershipWTP float64, centroids []domain.Centroid) (int, float64) {
	best := 0
	bestSquared := math.MaxFloat64
	for i, c := range centroids {
		d := squaredDistance(avgSpend, totalSpend, membershipWTP, c)
		if d < bestSquared {
			bestSquared = d
			best = i
		}
	}
	return best, bestSquared
}

func squaredDistance(avgSpend, totalSpend, membershipWTP float64, c domain.Centroid) float64 {
	da := avgSpend - c.AvgSpend
	dt := totalSpend - c.TotalSpend
	dw := membershipWTP - c.MembershipWTP
	return da*da + dt*dt + dw*dw
}
