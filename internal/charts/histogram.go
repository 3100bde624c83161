package charts

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"goeda/domain/eda"
	"goeda/domain/table"
	"goeda/internal/profiling"
)

const maxBins = 50

// BinCount returns ceil(log2(n)+1) clamped to [1, 50]
func BinCount(n int) int {
	if n <= 1 {
		return 1
	}
	bins := int(math.Ceil(math.Log2(float64(n)) + 1))
	if bins > maxBins {
		return maxBins
	}
	return bins
}

// binEdges returns bins+1 equal-width edges spanning the data range
func binEdges(min, max float64, bins int) []float64 {
	if min == max {
		min -= 0.5
		max += 0.5
	}
	return floats.Span(make([]float64, bins+1), min, max)
}

// BuildHistogram bins the non-missing values of a numeric column. ok is false when the
// column has no values.
func BuildHistogram(col *table.Column) (h eda.Histogram, ok bool, err error) {
	values := col.Floats()
	summary, err := profiling.Summarize(values)
	if err != nil {
		return h, false, nil
	}

	edges := binEdges(summary.Min, summary.Max, BinCount(len(values)))
	for _, e := range edges {
		if math.IsNaN(e) || math.IsInf(e, 0) {
			return h, false, fmt.Errorf("column %q: value range too wide to bin", col.Name)
		}
	}

	// the last bin is closed; stat.Histogram treats every bin as half-open
	dividers := make([]float64, len(edges))
	copy(dividers, edges)
	dividers[len(dividers)-1] = math.Nextafter(edges[len(edges)-1], math.Inf(1))

	raw := stat.Histogram(nil, dividers, profiling.Sorted(values), nil)
	counts := make([]int, len(raw))
	for i, c := range raw {
		counts[i] = int(c)
	}

	if math.IsInf(summary.Mean, 0) || math.IsNaN(summary.Mean) {
		return h, false, fmt.Errorf("column %q: mean is not finite", col.Name)
	}

	return eda.Histogram{
		Column: col.Name,
		Bins:   edges,
		Counts: counts,
		Mean:   summary.Mean,
		Median: summary.Median,
		Std:    summary.Std,
	}, true, nil
}
