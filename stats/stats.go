// Package stats implements the numeric primitives behind outlier filtering
// and price bucketing: nearest-rank percentiles, IQR retention bounds and
// column standardization.
package stats

import (
	"errors"
	"math"
	"sort"

	"airbnb-classifier/models"
)

// ErrEmptyInput is returned when a statistic is requested over zero values,
// e.g. a column that is entirely absent or a dataset filtered down to nothing.
var ErrEmptyInput = errors.New("stats: empty input")

// Percentile returns the p-th percentile of values using the nearest-rank
// method: the element of the sorted input at rank round(p/100 * (n-1)).
// Ranks ending in .5 round to the nearest even index; out-of-range p clamps
// to the min or max element. The input slice is not modified.
func Percentile(values []float64, p float64) (float64, error) {
	if len(values) == 0 {
		return 0, ErrEmptyInput
	}

	sorted := sortedCopy(values)
	rank := int(math.RoundToEven(p / 100 * float64(len(sorted)-1)))
	if rank < 0 {
		rank = 0
	}
	if rank > len(sorted)-1 {
		rank = len(sorted) - 1
	}
	return sorted[rank], nil
}

// IQRBounds derives the inclusive retention interval for one column:
// [max(0, Q1 - 1.5*IQR), Q3 + 1.5*IQR]. The lower bound is clamped at zero
// because every filtered column is a non-negative quantity; the upper bound
// is not clamped.
func IQRBounds(values []float64) (models.ColumnBounds, error) {
	q1, err := Percentile(values, 25)
	if err != nil {
		return models.ColumnBounds{}, err
	}
	q3, err := Percentile(values, 75)
	if err != nil {
		return models.ColumnBounds{}, err
	}

	iqr := q3 - q1
	lower := q1 - 1.5*iqr
	if lower < 0 {
		lower = 0
	}
	return models.ColumnBounds{Lower: lower, Upper: q3 + 1.5*iqr}, nil
}

// Mean returns the arithmetic mean of values, or 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// Std returns the population standard deviation of values.
func Std(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean := Mean(values)
	var sq float64
	for _, v := range values {
		d := v - mean
		sq += d * d
	}
	return math.Sqrt(sq / float64(len(values)))
}

// Standardize returns a copy of X with every column scaled to zero mean and
// unit variance. Constant columns are centered and left at zero.
func Standardize(X [][]float64) [][]float64 {
	if len(X) == 0 {
		return nil
	}

	cols := len(X[0])
	means := make([]float64, cols)
	stds := make([]float64, cols)
	col := make([]float64, len(X))

	for j := 0; j < cols; j++ {
		for i := range X {
			col[i] = X[i][j]
		}
		means[j] = Mean(col)
		stds[j] = Std(col)
	}

	out := make([][]float64, len(X))
	for i := range X {
		row := make([]float64, cols)
		for j := 0; j < cols; j++ {
			row[j] = X[i][j] - means[j]
			if stds[j] > 0 {
				row[j] /= stds[j]
			}
		}
		out[i] = row
	}
	return out
}

func sortedCopy(values []float64) []float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	return sorted
}
