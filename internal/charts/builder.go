package charts

import (
	"math/rand"

	"goeda/domain/eda"
	"goeda/domain/table"
)

const (
	maxDistributionColumns = 10
	maxBarCharts           = 8
)

// Builder derives the six chart aggregates from a table without modifying it
type Builder struct{}

// NewBuilder creates a chart builder
func NewBuilder() *Builder {
	return &Builder{}
}

// Build computes every aggregate. rng drives scatter sampling and must not be shared
// with another goroutine.
func (b *Builder) Build(tbl *table.Table, rng *rand.Rand) (eda.ChartData, error) {
	histograms, err := b.Histograms(tbl)
	if err != nil {
		return eda.ChartData{}, err
	}

	data := eda.ChartData{
		Histograms:   histograms,
		BoxPlots:     b.BoxPlots(tbl),
		BarCharts:    b.BarCharts(tbl),
		MissingData:  BuildMissingData(tbl),
		ScatterPlots: []eda.ScatterSample{},
	}

	cols := tbl.NumericColumns()
	if len(cols) >= 2 {
		matrix := correlationMatrix(cols)
		data.CorrelationMatrix = correlationFromMatrix(cols, matrix)
		data.ScatterPlots = scatterFromMatrix(cols, matrix, rng)
	}
	return data, nil
}

// distributionColumns applies the column cap before empty columns are skipped
func distributionColumns(tbl *table.Table) []*table.Column {
	cols := tbl.NumericColumns()
	if len(cols) > maxDistributionColumns {
		cols = cols[:maxDistributionColumns]
	}
	return cols
}

// Histograms bins the first ten numeric columns that have values
func (b *Builder) Histograms(tbl *table.Table) ([]eda.Histogram, error) {
	out := []eda.Histogram{}
	for _, col := range distributionColumns(tbl) {
		h, ok, err := BuildHistogram(col)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, h)
		}
	}
	return out, nil
}

// BoxPlots summarizes the first ten numeric columns that have values
func (b *Builder) BoxPlots(tbl *table.Table) []eda.BoxPlot {
	out := []eda.BoxPlot{}
	for _, col := range distributionColumns(tbl) {
		if bp, ok := BuildBoxPlot(col); ok {
			out = append(out, bp)
		}
	}
	return out
}

// BarCharts charts up to eight qualifying text columns
func (b *Builder) BarCharts(tbl *table.Table) []eda.BarChart {
	out := []eda.BarChart{}
	for _, col := range tbl.TextColumns() {
		if len(out) == maxBarCharts {
			break
		}
		if chart, ok := BuildBarChart(col); ok {
			out = append(out, chart)
		}
	}
	return out
}
