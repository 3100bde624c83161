package charts

import (
	"goeda/domain/eda"
	"goeda/domain/table"
	"goeda/internal/profiling"
)

const maxOutliers = 100

// BuildBoxPlot computes the five-number summary and the first 100 fence outliers in row order
func BuildBoxPlot(col *table.Column) (eda.BoxPlot, bool) {
	values := col.Floats()
	summary, err := profiling.Summarize(values)
	if err != nil {
		return eda.BoxPlot{}, false
	}

	outliers := profiling.DetectOutliers(values, summary.Q25, summary.Q75)
	if len(outliers) > maxOutliers {
		outliers = outliers[:maxOutliers]
	}

	return eda.BoxPlot{
		Column:   col.Name,
		Min:      summary.Min,
		Q1:       summary.Q25,
		Median:   summary.Median,
		Q3:       summary.Q75,
		Max:      summary.Max,
		Outliers: outliers,
	}, true
}
