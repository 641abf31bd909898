package ml

import "math"

// StandardScaler standardizes columns to zero mean and unit variance using
// statistics from the training subset. Fit once, apply many.
type StandardScaler struct {
	mean []float64
	std  []float64
}

func NewStandardScaler() *StandardScaler { return &StandardScaler{} }

func (s *StandardScaler) Fit(X [][]float64) {
	if len(X) == 0 {
		return
	}
	rows, cols := len(X), len(X[0])
	s.mean = make([]float64, cols)
	s.std = make([]float64, cols)

	for j := 0; j < cols; j++ {
		for i := 0; i < rows; i++ {
			s.mean[j] += X[i][j]
		}
		s.mean[j] /= float64(rows)

		variance := 0.0
		for i := 0; i < rows; i++ {
			d := X[i][j] - s.mean[j]
			variance += d * d
		}
		variance /= float64(rows)
		s.std[j] = math.Sqrt(variance)
		if s.std[j] == 0 {
			// Constant columns scale to zero offset instead of dividing by zero.
			s.std[j] = 1
		}
	}
}

func (s *StandardScaler) Transform(x []float64) []float64 {
	if s.mean == nil {
		out := make([]float64, len(x))
		copy(out, x)
		return out
	}
	out := make([]float64, len(x))
	for j := range x {
		out[j] = (x[j] - s.mean[j]) / s.std[j]
	}
	return out
}

// OneHotEncoder encodes one categorical column. Categories observed during
// Fit each get an indicator slot; values unseen at prediction time encode to
// the all-zero vector and never fail.
type OneHotEncoder struct {
	index map[string]int
}

func NewOneHotEncoder() *OneHotEncoder {
	return &OneHotEncoder{index: map[string]int{}}
}

func (e *OneHotEncoder) Fit(values []string) {
	for _, v := range values {
		if _, ok := e.index[v]; !ok {
			e.index[v] = len(e.index)
		}
	}
}

func (e *OneHotEncoder) Width() int { return len(e.index) }

func (e *OneHotEncoder) Transform(value string) []float64 {
	vec := make([]float64, len(e.index))
	if slot, ok := e.index[value]; ok {
		vec[slot] = 1
	}
	return vec
}
