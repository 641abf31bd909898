package ml

import (
	"errors"
	"sort"
)

// knn is a lazy nearest-neighbor classifier over 0/1 labels. Fit stores the
// training matrix; scoring keeps a small sorted neighbor list per query.
type knn struct {
	k int
	X [][]float64
	y []float64
}

func newKNN(k int) *knn {
	return &knn{k: k}
}

func (m *knn) Fit(X [][]float64, y []float64) error {
	if len(X) == 0 {
		return errors.New("empty training set")
	}
	if len(X) != len(y) {
		return errors.New("feature vector count must match label count")
	}
	m.X = X
	m.y = y
	return nil
}

// Probability returns the positive fraction among the k nearest neighbors
// of the query point under Euclidean distance. Deterministic for identical
// training data and query.
func (m *knn) Probability(query []float64) float64 {
	type neighbor struct {
		d float64
		y float64
	}

	k := m.k
	if k > len(m.X) {
		k = len(m.X)
	}
	nbrs := make([]neighbor, 0, k+1)

	for j, row := range m.X {
		dist := euclidSquared(query, row)
		if len(nbrs) < k {
			nbrs = append(nbrs, neighbor{d: dist, y: m.y[j]})
			sort.Slice(nbrs, func(a, b int) bool { return nbrs[a].d < nbrs[b].d })
		} else if dist < nbrs[len(nbrs)-1].d {
			nbrs[len(nbrs)-1] = neighbor{d: dist, y: m.y[j]}
			sort.Slice(nbrs, func(a, b int) bool { return nbrs[a].d < nbrs[b].d })
		}
	}

	sum := 0.0
	for _, n := range nbrs {
		sum += n.y
	}
	return sum / float64(len(nbrs))
}

// euclidSquared avoids the square root; ordering is what matters here.
func euclidSquared(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
