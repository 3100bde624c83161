package charts

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"goeda/domain/eda"
	"goeda/domain/table"
)

// HighCorrelationThreshold is the absolute coefficient above which a pair is flagged
const HighCorrelationThreshold = 0.7

// completePairs returns the row-aligned values where both columns are present
func completePairs(a, b *table.Column) (x, y []float64) {
	for i := range a.Values {
		if a.Values[i].Missing || b.Values[i].Missing {
			continue
		}
		x = append(x, a.Values[i].Num)
		y = append(y, b.Values[i].Num)
	}
	return x, y
}

// pearson returns the coefficient over complete pairs, or nil when it is undefined
func pearson(a, b *table.Column) *float64 {
	x, y := completePairs(a, b)
	if len(x) < 2 {
		return nil
	}
	r := stat.Correlation(x, y, nil)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return nil
	}
	r = math.Max(-1, math.Min(1, r))
	return &r
}

// correlationMatrix computes the symmetric pairwise matrix with a unit diagonal
func correlationMatrix(cols []*table.Column) [][]*float64 {
	n := len(cols)
	matrix := make([][]*float64, n)
	for i := range matrix {
		matrix[i] = make([]*float64, n)
		one := 1.0
		matrix[i][i] = &one
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			r := pearson(cols[i], cols[j])
			matrix[i][j] = r
			matrix[j][i] = r
		}
	}
	return matrix
}

// BuildCorrelationMatrix returns nil when fewer than two numeric columns exist
func BuildCorrelationMatrix(tbl *table.Table) *eda.CorrelationMatrix {
	cols := tbl.NumericColumns()
	if len(cols) < 2 {
		return nil
	}
	return correlationFromMatrix(cols, correlationMatrix(cols))
}

func correlationFromMatrix(cols []*table.Column, matrix [][]*float64) *eda.CorrelationMatrix {
	names := make([]string, len(cols))
	for i, col := range cols {
		names[i] = col.Name
	}

	high := []eda.CorrelationPair{}
	for i := range cols {
		for j := i + 1; j < len(cols); j++ {
			r := matrix[i][j]
			if r != nil && math.Abs(*r) > HighCorrelationThreshold {
				high = append(high, eda.CorrelationPair{Column1: names[i], Column2: names[j], Correlation: *r})
			}
		}
	}

	return &eda.CorrelationMatrix{
		Columns:          names,
		Matrix:           matrix,
		HighCorrelations: high,
	}
}
