package charts

import (
	"math"
	"math/rand"
	"sort"

	"goeda/domain/eda"
	"goeda/domain/table"
)

const (
	maxScatterPairs  = 5
	maxScatterPoints = 1000
)

type rankedPair struct {
	i, j int
	r    float64
}

// rankPairs orders defined column pairs by descending |r|, keeping column order on ties
func rankPairs(matrix [][]*float64) []rankedPair {
	var pairs []rankedPair
	for i := range matrix {
		for j := i + 1; j < len(matrix); j++ {
			if r := matrix[i][j]; r != nil {
				pairs = append(pairs, rankedPair{i: i, j: j, r: *r})
			}
		}
	}
	sort.SliceStable(pairs, func(a, b int) bool {
		return math.Abs(pairs[a].r) > math.Abs(pairs[b].r)
	})
	return pairs
}

// BuildScatterSamples samples complete rows for the most correlated numeric pairs
func BuildScatterSamples(tbl *table.Table, rng *rand.Rand) []eda.ScatterSample {
	cols := tbl.NumericColumns()
	if len(cols) < 2 {
		return []eda.ScatterSample{}
	}
	return scatterFromMatrix(cols, correlationMatrix(cols), rng)
}

func scatterFromMatrix(cols []*table.Column, matrix [][]*float64, rng *rand.Rand) []eda.ScatterSample {
	pairs := rankPairs(matrix)
	if len(pairs) > maxScatterPairs {
		pairs = pairs[:maxScatterPairs]
	}

	samples := make([]eda.ScatterSample, 0, len(pairs))
	for _, p := range pairs {
		x, y := completePairs(cols[p.i], cols[p.j])
		k := len(x)
		if k > maxScatterPoints {
			k = maxScatterPoints
		}

		points := make([]eda.Point, k)
		for n, idx := range rng.Perm(len(x))[:k] {
			points[n] = eda.Point{X: x[idx], Y: y[idx]}
		}

		samples = append(samples, eda.ScatterSample{
			XColumn:     cols[p.i].Name,
			YColumn:     cols[p.j].Name,
			DataPoints:  points,
			Correlation: p.r,
		})
	}
	return samples
}
