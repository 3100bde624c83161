package charts

import (
	"goeda/domain/eda"
	"goeda/domain/table"
	"goeda/internal/profiling"
)

const (
	minBarCategories = 2
	maxBarCategories = 20
	maxBarsShown     = 15
)

// BuildBarChart returns category frequencies for a text column whose distinct count is in [2, 20].
// Percentages are relative to the total of the categories shown.
func BuildBarChart(col *table.Column) (eda.BarChart, bool) {
	if col.Kind != table.KindText {
		return eda.BarChart{}, false
	}
	counts := profiling.ValueCounts(col)
	if len(counts) < minBarCategories || len(counts) > maxBarCategories {
		return eda.BarChart{}, false
	}
	if len(counts) > maxBarsShown {
		counts = counts[:maxBarsShown]
	}

	shown := 0
	for _, vc := range counts {
		shown += vc.Count
	}

	chart := eda.BarChart{
		Column:      col.Name,
		Categories:  make([]string, len(counts)),
		Counts:      make([]int, len(counts)),
		Percentages: make([]float64, len(counts)),
	}
	for i, vc := range counts {
		chart.Categories[i] = vc.Value
		chart.Counts[i] = vc.Count
		chart.Percentages[i] = profiling.Percentage(vc.Count, shown)
	}
	return chart, true
}
