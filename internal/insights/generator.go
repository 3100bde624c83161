package insights

import (
	"fmt"
	"strings"

	"goeda/domain/eda"
	"goeda/domain/table"
	"goeda/internal/profiling"
)

const (
	missingShareThreshold   = 0.5
	imbalanceMaxCategories  = 10
	imbalanceShareThreshold = 0.8
)

// Generator applies the fixed insight rules in order
type Generator struct{}

// NewGenerator creates an insight generator
func NewGenerator() *Generator {
	return &Generator{}
}

// Generate returns every insight for the table. stats must be the profile of tbl in column order.
func (g *Generator) Generate(tbl *table.Table, stats []eda.ColumnStats) []eda.Insight {
	insights := []eda.Insight{}
	if tbl.RowCount() == 0 {
		return insights
	}

	insights = append(insights, g.missingData(tbl, stats)...)
	insights = append(insights, g.duplicates(tbl)...)
	insights = append(insights, g.identifiers(tbl, stats)...)
	insights = append(insights, g.imbalance(tbl)...)
	insights = append(insights, g.outliers(tbl)...)
	insights = append(insights, g.constantColumns(stats)...)
	return insights
}

func (g *Generator) missingData(tbl *table.Table, stats []eda.ColumnStats) []eda.Insight {
	var cols []string
	limit := float64(tbl.RowCount()) * missingShareThreshold
	for _, cs := range stats {
		if float64(cs.MissingCount) > limit {
			cols = append(cols, cs.ColumnName)
		}
	}
	if len(cols) == 0 {
		return nil
	}
	return []eda.Insight{{
		Category: eda.InsightMissingData,
		Message:  fmt.Sprintf("%d column(s) have more than 50%% missing data: %s", len(cols), strings.Join(cols, ", ")),
		Columns:  cols,
	}}
}

func (g *Generator) duplicates(tbl *table.Table) []eda.Insight {
	dups := profiling.DuplicateRows(tbl)
	if dups == 0 {
		return nil
	}
	return []eda.Insight{{
		Category: eda.InsightDuplicates,
		Message:  fmt.Sprintf("Found %d duplicate rows (%.1f%%)", dups, profiling.Percentage(dups, tbl.RowCount())),
	}}
}

func (g *Generator) identifiers(tbl *table.Table, stats []eda.ColumnStats) []eda.Insight {
	var out []eda.Insight
	for _, cs := range stats {
		if cs.UniqueCount == tbl.RowCount() {
			out = append(out, eda.Insight{
				Category: eda.InsightIdentifier,
				Message:  fmt.Sprintf("'%s' appears to be a unique identifier", cs.ColumnName),
				Columns:  []string{cs.ColumnName},
			})
		}
	}
	return out
}

func (g *Generator) imbalance(tbl *table.Table) []eda.Insight {
	var out []eda.Insight
	for _, col := range tbl.TextColumns() {
		counts := profiling.ValueCounts(col)
		if len(counts) == 0 || len(counts) >= imbalanceMaxCategories {
			continue
		}
		share := float64(counts[0].Count) / float64(tbl.RowCount())
		if share > imbalanceShareThreshold {
			out = append(out, eda.Insight{
				Category: eda.InsightImbalance,
				Message:  fmt.Sprintf("'%s' is highly imbalanced: %s represents %.1f%%", col.Name, counts[0].Value, share*100),
				Columns:  []string{col.Name},
			})
		}
	}
	return out
}

func (g *Generator) outliers(tbl *table.Table) []eda.Insight {
	var out []eda.Insight
	for _, col := range tbl.NumericColumns() {
		values := col.Floats()
		q1, q3, ok := profiling.Quartiles(values)
		if !ok {
			continue
		}
		n := len(profiling.DetectOutliers(values, q1, q3))
		if n == 0 {
			continue
		}
		out = append(out, eda.Insight{
			Category: eda.InsightOutliers,
			Message:  fmt.Sprintf("'%s' has %d potential outliers (%.1f%%)", col.Name, n, profiling.Percentage(n, tbl.RowCount())),
			Columns:  []string{col.Name},
		})
	}
	return out
}

func (g *Generator) constantColumns(stats []eda.ColumnStats) []eda.Insight {
	var cols []string
	for _, cs := range stats {
		if cs.UniqueCount == 1 {
			cols = append(cols, cs.ColumnName)
		}
	}
	if len(cols) == 0 {
		return nil
	}
	return []eda.Insight{{
		Category: eda.InsightConstantColumn,
		Message:  fmt.Sprintf("%d column(s) have constant values: %s", len(cols), strings.Join(cols, ", ")),
		Columns:  cols,
	}}
}
