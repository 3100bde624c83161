package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"goeda/domain/eda"
	"goeda/domain/table"
)

func f(v float64) *float64 { return &v }

func sampleResult() *eda.AnalysisResult {
	return &eda.AnalysisResult{
		Overview: eda.Overview{Filename: "sales.csv", TotalRows: 4, TotalColumns: 2, DuplicateRows: 1},
		ColumnStats: []eda.ColumnStats{
			{ColumnName: "price", Kind: table.KindNumeric, UniqueCount: 3,
				Numeric: &eda.NumericStats{Mean: f(2.5), Std: f(1.29), Min: f(1), Max: f(4)}},
			{ColumnName: "a|b", Kind: table.KindText, MissingCount: 1, MissingPercentage: 25, UniqueCount: 2,
				Categorical: &eda.CategoricalStats{TopValues: []eda.ValueCount{{Value: "x", Count: 2}, {Value: "y", Count: 1}}}},
		},
		ChartData: eda.ChartData{CorrelationMatrix: &eda.CorrelationMatrix{
			HighCorrelations: []eda.CorrelationPair{{Column1: "price", Column2: "qty", Correlation: -0.91}},
		}},
		Insights: []eda.Insight{{Category: eda.InsightDuplicates, Message: "Found 1 duplicate rows (25.0%)"}},
	}
}

func TestMarkdown(t *testing.T) {
	md := Markdown(sampleResult())

	assert.True(t, strings.HasPrefix(md, "# Dataset report: sales.csv\n"))
	assert.Contains(t, md, "- Duplicate rows: 1\n")
	assert.Contains(t, md, "| price | numeric | 0 (0.0%) | 3 | mean 2.5, std 1.29, min 1, max 4 |")
	assert.Contains(t, md, `| a\|b | text | 1 (25.0%) | 2 | top: x (2), y (1) |`)
	assert.Contains(t, md, "- **duplicates**: Found 1 duplicate rows (25.0%)")
	assert.Contains(t, md, "- price / qty: -0.910")
}

func TestMarkdown_NoInsights(t *testing.T) {
	result := sampleResult()
	result.Insights = nil
	result.ChartData.CorrelationMatrix = nil

	md := Markdown(result)
	assert.Contains(t, md, "No notable findings.")
	assert.NotContains(t, md, "High correlations")
}

func TestHTML(t *testing.T) {
	out := string(HTML(sampleResult()))

	assert.Contains(t, out, "<title>Dataset report: sales.csv</title>")
	assert.Contains(t, out, "<table>")
	assert.Contains(t, out, "<strong>duplicates</strong>")
}
