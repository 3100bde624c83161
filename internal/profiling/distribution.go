package profiling

import (
	"errors"
	"math"
	"sort"

	"github.com/montanaflynn/stats"
)

// ErrNoValues is returned when a summary is requested for a column without values
var ErrNoValues = errors.New("no non-missing values")

// Summary holds the descriptive statistics of one numeric column
type Summary struct {
	Count  int
	Mean   float64
	Median float64
	Std    *float64 // nil below two values
	Min    float64
	Max    float64
	Q25    float64
	Q75    float64
}

// Summarize computes descriptive statistics over non-missing values
func Summarize(data []float64) (Summary, error) {
	summary := Summary{Count: len(data)}
	if len(data) == 0 {
		return summary, ErrNoValues
	}

	var err error
	if summary.Mean, err = stats.Mean(data); err != nil {
		return summary, err
	}
	if summary.Median, err = stats.Median(data); err != nil {
		return summary, err
	}
	if summary.Min, err = stats.Min(data); err != nil {
		return summary, err
	}
	if summary.Max, err = stats.Max(data); err != nil {
		return summary, err
	}
	if len(data) > 1 {
		std, err := stats.StandardDeviationSample(data)
		if err != nil {
			return summary, err
		}
		if !math.IsNaN(std) && !math.IsInf(std, 0) {
			summary.Std = &std
		}
	}

	sorted := Sorted(data)
	summary.Q25 = Quantile(sorted, 0.25)
	summary.Q75 = Quantile(sorted, 0.75)
	return summary, nil
}

// Sorted returns an ascending copy of data
func Sorted(data []float64) []float64 {
	sorted := make([]float64, len(data))
	copy(sorted, data)
	sort.Float64s(sorted)
	return sorted
}

// Quantile interpolates linearly between the closest ranks at position q*(n-1).
// sorted must be ascending and non-empty.
func Quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

// Quartiles returns Q1 and Q3 of data, or false when data is empty
func Quartiles(data []float64) (q1, q3 float64, ok bool) {
	if len(data) == 0 {
		return 0, 0, false
	}
	sorted := Sorted(data)
	return Quantile(sorted, 0.25), Quantile(sorted, 0.75), true
}

// Fences returns the 1.5*IQR outlier bounds
func Fences(q1, q3 float64) (lower, upper float64) {
	iqr := q3 - q1
	return q1 - 1.5*iqr, q3 + 1.5*iqr
}

// DetectOutliers returns, in input order, the values outside the IQR fences
func DetectOutliers(data []float64, q1, q3 float64) []float64 {
	lower, upper := Fences(q1, q3)
	outliers := []float64{}
	for _, x := range data {
		if x < lower || x > upper {
			outliers = append(outliers, x)
		}
	}
	return outliers
}
