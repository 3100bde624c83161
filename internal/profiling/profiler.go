package profiling

import (
	"math"
	"sort"

	"goeda/domain/eda"
	"goeda/domain/table"
)

const (
	topValuesLimit    = 10
	sampleValuesLimit = 3

	// DefaultPreviewRows is used when a preview request does not name a row count
	DefaultPreviewRows = 10
	// MaxPreviewRows bounds a preview response
	MaxPreviewRows = 1000
)

// DataProfiler computes per-column statistics and table overviews. It holds no state;
// every method is a pure function of its arguments.
type DataProfiler struct{}

// NewDataProfiler creates a new data profiler
func NewDataProfiler() *DataProfiler {
	return &DataProfiler{}
}

// Overview summarizes the table as a whole
func (dp *DataProfiler) Overview(filename string, tbl *table.Table) eda.Overview {
	kinds := make(map[string]table.Kind, tbl.ColumnCount())
	for _, col := range tbl.Columns {
		kinds[col.Name] = col.Kind
	}
	return eda.Overview{
		Filename:      filename,
		TotalRows:     tbl.RowCount(),
		TotalColumns:  tbl.ColumnCount(),
		MemoryUsageMB: MemoryUsageMB(tbl),
		DuplicateRows: DuplicateRows(tbl),
		Columns:       tbl.ColumnNames(),
		Kinds:         kinds,
	}
}

// ProfileColumns profiles every column in source order
func (dp *DataProfiler) ProfileColumns(tbl *table.Table) []eda.ColumnStats {
	out := make([]eda.ColumnStats, len(tbl.Columns))
	for i, col := range tbl.Columns {
		out[i] = dp.ProfileColumn(col, tbl.RowCount())
	}
	return out
}

// ProfileColumn computes the statistics of one column
func (dp *DataProfiler) ProfileColumn(col *table.Column, rows int) eda.ColumnStats {
	missing := col.MissingCount()
	cs := eda.ColumnStats{
		ColumnName:        col.Name,
		Kind:              col.Kind,
		MissingCount:      missing,
		MissingPercentage: Percentage(missing, rows),
		UniqueCount:       UniqueCount(col),
	}

	if col.Kind == table.KindNumeric {
		cs.Numeric = numericStats(col.Floats())
		return cs
	}

	counts := ValueCounts(col)
	top := counts
	if len(top) > topValuesLimit {
		top = top[:topValuesLimit]
	}
	cs.Categorical = &eda.CategoricalStats{TopValues: append([]eda.ValueCount{}, top...)}
	if len(counts) > 0 {
		mode := counts[0].Value
		cs.Categorical.Mode = &mode
	}
	return cs
}

func numericStats(values []float64) *eda.NumericStats {
	summary, err := Summarize(values)
	if err != nil {
		return &eda.NumericStats{}
	}
	ns := &eda.NumericStats{
		Mean:   finite(summary.Mean),
		Median: finite(summary.Median),
		Min:    finite(summary.Min),
		Max:    finite(summary.Max),
		Q25:    finite(summary.Q25),
		Q75:    finite(summary.Q75),
	}
	if summary.Std != nil {
		ns.Std = finite(*summary.Std)
	}
	return ns
}

func finite(x float64) *float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return nil
	}
	return &x
}

// Percentage returns part/whole*100, or 0 for an empty whole
func Percentage(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}

// valueKey identifies a value for distinct counting; +0 and -0 share a key
func valueKey(v table.Value, kind table.Kind) interface{} {
	switch kind {
	case table.KindNumeric:
		return v.Num
	case table.KindBoolean:
		return v.Bool
	case table.KindDatetime:
		return v.Time.UnixNano()
	default:
		return v.Text
	}
}

// UniqueCount returns the number of distinct non-missing values
func UniqueCount(col *table.Column) int {
	seen := make(map[interface{}]struct{})
	for _, v := range col.Values {
		if v.Missing {
			continue
		}
		seen[valueKey(v, col.Kind)] = struct{}{}
	}
	return len(seen)
}

// ValueCounts returns non-missing value frequencies, most frequent first, ties in first-seen order
func ValueCounts(col *table.Column) []eda.ValueCount {
	index := make(map[interface{}]int)
	var counts []eda.ValueCount
	for _, v := range col.Values {
		if v.Missing {
			continue
		}
		key := valueKey(v, col.Kind)
		if i, ok := index[key]; ok {
			counts[i].Count++
			continue
		}
		index[key] = len(counts)
		counts = append(counts, eda.ValueCount{Value: v.Format(col.Kind), Count: 1})
	}
	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})
	return counts
}

// DuplicateRows counts rows identical to an earlier row; missing equals missing
func DuplicateRows(tbl *table.Table) int {
	if tbl.ColumnCount() == 0 {
		return 0
	}
	seen := make(map[string]struct{}, tbl.RowCount())
	dups := 0
	for i := 0; i < tbl.RowCount(); i++ {
		key := tbl.RowKey(i)
		if _, ok := seen[key]; ok {
			dups++
			continue
		}
		seen[key] = struct{}{}
	}
	return dups
}

// MemoryUsageMB estimates the in-memory footprint of the table the way a columnar
// dataframe reports deep usage: fixed-width cells plus boxed strings
func MemoryUsageMB(tbl *table.Table) float64 {
	const (
		indexBytes       = 128
		pointerBytes     = 8
		stringHeader     = 49
		boxedMissingSize = 24
	)
	total := indexBytes
	for _, col := range tbl.Columns {
		switch col.Kind {
		case table.KindBoolean:
			total += len(col.Values)
		case table.KindText:
			for _, v := range col.Values {
				if v.Missing {
					total += pointerBytes + boxedMissingSize
				} else {
					total += pointerBytes + stringHeader + len(v.Text)
				}
			}
		default:
			total += 8 * len(col.Values)
		}
	}
	return float64(total) / (1024 * 1024)
}

// ColumnInfo describes every column for column selection
func (dp *DataProfiler) ColumnInfo(tbl *table.Table) eda.ColumnInfoResult {
	rows := tbl.RowCount()
	infos := make([]eda.ColumnInfo, len(tbl.Columns))
	for i, col := range tbl.Columns {
		missing := col.MissingCount()
		samples := make([]interface{}, 0, sampleValuesLimit)
		for _, v := range col.Values {
			if len(samples) == sampleValuesLimit {
				break
			}
			if !v.Missing {
				samples = append(samples, v.Interface(col.Kind))
			}
		}
		infos[i] = eda.ColumnInfo{
			ColumnName:        col.Name,
			Kind:              col.Kind,
			UniqueCount:       UniqueCount(col),
			MissingCount:      missing,
			MissingPercentage: Percentage(missing, rows),
			IsNumeric:         col.Kind == table.KindNumeric,
			SampleValues:      samples,
		}
	}
	return eda.ColumnInfoResult{
		TotalColumns: tbl.ColumnCount(),
		TotalRows:    rows,
		Columns:      infos,
	}
}

// ClampPreviewRows maps a requested row count into [1, MaxPreviewRows]; zero or less means the default
func ClampPreviewRows(n int) int {
	if n <= 0 {
		return DefaultPreviewRows
	}
	if n > MaxPreviewRows {
		return MaxPreviewRows
	}
	return n
}

// Preview returns the first rows of the table as ordered records
func (dp *DataProfiler) Preview(filename string, tbl *table.Table, rows int) eda.Preview {
	n := ClampPreviewRows(rows)
	if n > tbl.RowCount() {
		n = tbl.RowCount()
	}
	data := make([][]interface{}, n)
	for i := 0; i < n; i++ {
		record := make([]interface{}, tbl.ColumnCount())
		for j, col := range tbl.Columns {
			record[j] = col.Values[i].Interface(col.Kind)
		}
		data[i] = record
	}
	return eda.Preview{
		Filename:  filename,
		RowsShown: n,
		TotalRows: tbl.RowCount(),
		Columns:   tbl.ColumnNames(),
		Data:      data,
	}
}
