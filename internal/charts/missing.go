package charts

import (
	"goeda/domain/eda"
	"goeda/domain/table"
	"goeda/internal/profiling"
)

// BuildMissingData reports missingness for every column
func BuildMissingData(tbl *table.Table) eda.MissingDataMatrix {
	m := eda.MissingDataMatrix{
		Columns:            tbl.ColumnNames(),
		MissingCounts:      make([]int, tbl.ColumnCount()),
		MissingPercentages: make([]float64, tbl.ColumnCount()),
		TotalRows:          tbl.RowCount(),
	}
	for i, col := range tbl.Columns {
		missing := col.MissingCount()
		m.MissingCounts[i] = missing
		m.MissingPercentages[i] = profiling.Percentage(missing, tbl.RowCount())
	}
	return m
}
