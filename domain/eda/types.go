package eda

import (
	"time"

	"goeda/domain/table"
)

// Overview summarizes the table as a whole
type Overview struct {
	Filename      string                `json:"filename"`
	TotalRows     int                   `json:"total_rows"`
	TotalColumns  int                   `json:"total_columns"`
	MemoryUsageMB float64               `json:"memory_usage_mb"`
	DuplicateRows int                   `json:"duplicate_rows"`
	Columns       []string              `json:"columns"`
	Kinds         map[string]table.Kind `json:"dtypes"`
}

// ColumnStats contains the complete profile of a single column
type ColumnStats struct {
	ColumnName        string            `json:"column_name"`
	Kind              table.Kind        `json:"data_type"`
	MissingCount      int               `json:"missing_count"`
	MissingPercentage float64           `json:"missing_percentage"`
	UniqueCount       int               `json:"unique_count"`
	Numeric           *NumericStats     `json:"numeric,omitempty"`
	Categorical       *CategoricalStats `json:"categorical,omitempty"`
}

// NumericStats holds descriptive statistics; every field is nil when the column has no values
type NumericStats struct {
	Mean   *float64 `json:"mean"`
	Median *float64 `json:"median"`
	Std    *float64 `json:"std"`
	Min    *float64 `json:"min"`
	Max    *float64 `json:"max"`
	Q25    *float64 `json:"q25"`
	Q75    *float64 `json:"q75"`
}

// CategoricalStats holds frequency information for non-numeric columns
type CategoricalStats struct {
	TopValues []ValueCount `json:"top_values"`
	Mode      *string      `json:"mode"`
}

// ValueCount represents a value and its frequency
type ValueCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Histogram is the binned distribution of one numeric column
type Histogram struct {
	Column string    `json:"column"`
	Bins   []float64 `json:"bins"`
	Counts []int     `json:"counts"`
	Mean   float64   `json:"mean"`
	Median float64   `json:"median"`
	Std    *float64  `json:"std"`
}

// BoxPlot is the five-number summary plus IQR-fence outliers
type BoxPlot struct {
	Column   string    `json:"column"`
	Min      float64   `json:"min"`
	Q1       float64   `json:"q1"`
	Median   float64   `json:"median"`
	Q3       float64   `json:"q3"`
	Max      float64   `json:"max"`
	Outliers []float64 `json:"outliers"`
}

// BarChart is the category frequency view of a low-cardinality text column
type BarChart struct {
	Column      string    `json:"column"`
	Categories  []string  `json:"categories"`
	Counts      []int     `json:"counts"`
	Percentages []float64 `json:"percentages"`
}

// CorrelationMatrix holds pairwise Pearson coefficients; undefined entries are nil
type CorrelationMatrix struct {
	Columns          []string          `json:"columns"`
	Matrix           [][]*float64      `json:"matrix"`
	HighCorrelations []CorrelationPair `json:"high_correlations"`
}

// CorrelationPair is a numeric column pair with its coefficient
type CorrelationPair struct {
	Column1     string  `json:"column1"`
	Column2     string  `json:"column2"`
	Correlation float64 `json:"correlation"`
}

// MissingDataMatrix reports missingness for every column
type MissingDataMatrix struct {
	Columns            []string  `json:"columns"`
	MissingCounts      []int     `json:"missing_counts"`
	MissingPercentages []float64 `json:"missing_percentages"`
	TotalRows          int       `json:"total_rows"`
}

// Point is one scatter sample
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ScatterSample is a random sample of complete rows for a correlated column pair
type ScatterSample struct {
	XColumn     string  `json:"x_column"`
	YColumn     string  `json:"y_column"`
	DataPoints  []Point `json:"data_points"`
	Correlation float64 `json:"correlation"`
}

// ChartData bundles the six chart aggregates
type ChartData struct {
	Histograms        []Histogram        `json:"histograms"`
	BoxPlots          []BoxPlot          `json:"box_plots"`
	BarCharts         []BarChart         `json:"bar_charts"`
	CorrelationMatrix *CorrelationMatrix `json:"correlation_matrix"`
	MissingData       MissingDataMatrix  `json:"missing_data"`
	ScatterPlots      []ScatterSample    `json:"scatter_plots"`
}

// InsightCategory tags an insight with the rule that produced it
type InsightCategory string

const (
	InsightMissingData    InsightCategory = "missing-data"
	InsightDuplicates     InsightCategory = "duplicates"
	InsightIdentifier     InsightCategory = "identifier"
	InsightImbalance      InsightCategory = "imbalance"
	InsightOutliers       InsightCategory = "outliers"
	InsightConstantColumn InsightCategory = "constant-column"
)

// Insight is a rendered, human-readable finding
type Insight struct {
	Category InsightCategory `json:"category"`
	Message  string          `json:"message"`
	Columns  []string        `json:"columns,omitempty"`
}

// AnalysisResult is the full response of one analysis call
type AnalysisResult struct {
	Overview    Overview      `json:"overview"`
	ColumnStats []ColumnStats `json:"column_stats"`
	ChartData   ChartData     `json:"chart_data"`
	Insights    []Insight     `json:"insights"`
}

// ColumnInfo is the lightweight per-column description used for column selection
type ColumnInfo struct {
	ColumnName        string        `json:"column_name"`
	Kind              table.Kind    `json:"data_type"`
	UniqueCount       int           `json:"unique_count"`
	MissingCount      int           `json:"missing_count"`
	MissingPercentage float64       `json:"missing_percentage"`
	IsNumeric         bool          `json:"is_numeric"`
	SampleValues      []interface{} `json:"sample_values"`
}

// ColumnInfoResult lists ColumnInfo for every column
type ColumnInfoResult struct {
	TotalColumns int          `json:"total_columns"`
	TotalRows    int          `json:"total_rows"`
	Columns      []ColumnInfo `json:"columns"`
}

// Preview holds the first rows of a dataset as ordered records
type Preview struct {
	Filename  string          `json:"filename"`
	RowsShown int             `json:"rows_shown"`
	TotalRows int             `json:"total_rows"`
	Columns   []string        `json:"columns"`
	Data      [][]interface{} `json:"data"`
}

// RemovalResult describes a successful column removal
type RemovalResult struct {
	OriginalFilename string   `json:"original_filename"`
	NewFilename      string   `json:"new_filename"`
	OriginalColumns  int      `json:"original_columns"`
	NewColumns       int      `json:"new_columns"`
	RemovedColumns   []string `json:"removed_columns"`
	ColumnsRemaining []string `json:"columns_remaining"`
	FilePath         string   `json:"file_path"`
	Message          string   `json:"message"`
}

// DatasetRecord is the catalog entry of a stored dataset file
type DatasetRecord struct {
	Filename         string       `json:"filename" db:"filename"`
	OriginalFilename string       `json:"original_filename" db:"original_filename"`
	Format           table.Format `json:"format" db:"format"`
	SizeBytes        int64        `json:"size_bytes" db:"size_bytes"`
	DerivedFrom      string       `json:"derived_from,omitempty" db:"derived_from"`
	UploadedAt       time.Time    `json:"uploaded_at" db:"uploaded_at"`
}

// SizeMB returns the record size in megabytes
func (r DatasetRecord) SizeMB() float64 {
	return float64(r.SizeBytes) / (1024 * 1024)
}
