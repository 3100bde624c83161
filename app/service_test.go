package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"goeda/adapters/postgres"
	"goeda/adapters/rng"
	"goeda/adapters/tabular"
	"goeda/internal"
	"goeda/internal/dataset"
	apperrors "goeda/internal/errors"
	"goeda/internal/migration"
	"goeda/ports"
)

const salesCSV = `id,region,price,qty
1,north,10.5,3
2,north,12,4
3,north,9.75,2
4,south,11,5
5,north,10,3
`

type fixture struct {
	dir      string
	storage  *dataset.LocalFileStorage
	catalog  ports.DatasetRepository
	analysis *AnalysisService
	datasets *DatasetService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()
	storage := dataset.NewLocalFileStorageWithPath(dir)

	db, err := sqlx.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, migration.NewRunner().Run(context.Background(), db))
	catalog := postgres.NewDatasetRepository(db)

	logger := internal.NewLogger(internal.LogLevelError, "")
	reader := tabular.NewDataReader()
	return &fixture{
		dir:      dir,
		storage:  storage,
		catalog:  catalog,
		analysis: NewAnalysisService(storage, reader, rng.NewRNGAdapter(42), logger),
		datasets: NewDatasetService(storage, catalog, reader, tabular.NewDataWriter(), logger),
	}
}

func (f *fixture) upload(t *testing.T, name, content string) string {
	t.Helper()
	rec, err := f.datasets.Upload(context.Background(), strings.NewReader(content), name)
	require.NoError(t, err)
	return rec.Filename
}

func TestAnalyze(t *testing.T) {
	f := newFixture(t)
	name := f.upload(t, "sales.csv", salesCSV)

	result, err := f.analysis.Analyze(context.Background(), name)
	require.NoError(t, err)

	assert.Equal(t, name, result.Overview.Filename)
	assert.Equal(t, 5, result.Overview.TotalRows)
	assert.Equal(t, []string{"id", "region", "price", "qty"}, result.Overview.Columns)
	require.Len(t, result.ColumnStats, 4)
	assert.Equal(t, "region", result.ColumnStats[1].ColumnName)

	assert.Len(t, result.ChartData.Histograms, 3)
	assert.Len(t, result.ChartData.BarCharts, 1)
	require.NotNil(t, result.ChartData.CorrelationMatrix)
	assert.Len(t, result.ChartData.ScatterPlots, 3)

	var messages []string
	for _, in := range result.Insights {
		messages = append(messages, in.Message)
	}
	assert.Contains(t, messages, "'id' appears to be a unique identifier")
}

func TestAnalyze_ScatterSamplingIsSeeded(t *testing.T) {
	f := newFixture(t)
	name := f.upload(t, "sales.csv", salesCSV)

	first, err := f.analysis.Analyze(context.Background(), name)
	require.NoError(t, err)
	second, err := f.analysis.Analyze(context.Background(), name)
	require.NoError(t, err)

	assert.Equal(t, first.ChartData.ScatterPlots, second.ChartData.ScatterPlots)
}

func TestAnalyze_Errors(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, os.WriteFile(filepath.Join(f.dir, "notes.txt"), []byte("hi"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(f.dir, "broken.json"), []byte("{not json"), 0644))

	tests := []struct {
		file string
		code string
	}{
		{"missing.csv", apperrors.CodeTableNotFound},
		{"notes.txt", apperrors.CodeUnsupportedFormat},
		{"broken.json", apperrors.CodeParseFailure},
	}
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			_, err := f.analysis.Analyze(context.Background(), tt.file)
			assert.Equal(t, tt.code, apperrors.GetCode(err))
		})
	}
}

func TestAnalyze_CancelledContext(t *testing.T) {
	f := newFixture(t)
	name := f.upload(t, "sales.csv", salesCSV)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := f.analysis.Analyze(ctx, name)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestGuard_RecoversPanic(t *testing.T) {
	err := guard(func() error { panic("index out of range") })()
	assert.Equal(t, apperrors.CodeAnalysisFailure, apperrors.GetCode(err))
	assert.Contains(t, err.Error(), "index out of range")
}

func TestColumnsAndPreview(t *testing.T) {
	f := newFixture(t)
	name := f.upload(t, "sales.csv", salesCSV)
	ctx := context.Background()

	info, err := f.analysis.Columns(ctx, name)
	require.NoError(t, err)
	assert.Equal(t, 4, info.TotalColumns)
	assert.True(t, info.Columns[0].IsNumeric)
	assert.Len(t, info.Columns[0].SampleValues, 3)

	preview, err := f.analysis.Preview(ctx, name, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, preview.RowsShown)
	assert.Equal(t, 5, preview.TotalRows)
	assert.Equal(t, []interface{}{1.0, "north", 10.5, 3.0}, preview.Data[0])

	preview, err = f.analysis.Preview(ctx, name, 5000)
	require.NoError(t, err)
	assert.Equal(t, 5, preview.RowsShown)
}

func TestReport(t *testing.T) {
	f := newFixture(t)
	name := f.upload(t, "sales.csv", salesCSV)

	md, err := f.analysis.Report(context.Background(), name, ReportMarkdown)
	require.NoError(t, err)
	assert.Contains(t, string(md), "# Dataset report: "+name)

	html, err := f.analysis.Report(context.Background(), name, ReportHTML)
	require.NoError(t, err)
	assert.Contains(t, string(html), "<html")

	_, err = f.analysis.Report(context.Background(), name, "pdf")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidInput))
}

func TestUploadAndList(t *testing.T) {
	f := newFixture(t)
	name := f.upload(t, "sales.csv", salesCSV)
	assert.True(t, strings.HasSuffix(name, "_sales.csv"))

	records, err := f.datasets.List(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, name, records[0].Filename)
	assert.Equal(t, "sales.csv", records[0].OriginalFilename)
	assert.Equal(t, int64(len(salesCSV)), records[0].SizeBytes)
}

func TestUpload_RejectsUnsupportedExtension(t *testing.T) {
	f := newFixture(t)
	_, err := f.datasets.Upload(context.Background(), strings.NewReader("x"), "notes.txt")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUnsupportedFormat))
}

func TestRemoveColumns(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	name := f.upload(t, "sales.csv", salesCSV)

	result, err := f.datasets.RemoveColumns(ctx, name, []string{"id", "qty"})
	require.NoError(t, err)
	assert.Equal(t, strings.TrimSuffix(name, ".csv")+"_eda.csv", result.NewFilename)
	assert.Equal(t, []string{"region", "price"}, result.ColumnsRemaining)

	derived, err := f.analysis.Analyze(ctx, result.NewFilename)
	require.NoError(t, err)
	assert.Equal(t, []string{"region", "price"}, derived.Overview.Columns)

	children, err := f.datasets.Derived(ctx, name)
	require.NoError(t, err)
	require.Len(t, children, 1)
	assert.Equal(t, result.NewFilename, children[0].Filename)
}

func TestRemoveColumns_Errors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	name := f.upload(t, "sales.csv", salesCSV)

	_, err := f.datasets.RemoveColumns(ctx, "missing.csv", []string{"id"})
	assert.Equal(t, apperrors.CodeTableNotFound, apperrors.GetCode(err))

	_, err = f.datasets.RemoveColumns(ctx, name, nil)
	assert.Equal(t, apperrors.CodeEmptyRequest, apperrors.GetCode(err))

	_, err = f.datasets.RemoveColumns(ctx, name, []string{"ghost_col"})
	assert.Equal(t, apperrors.CodeColumnNotFound, apperrors.GetCode(err))

	records, err := f.datasets.List(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 1, "a failed removal must not leave a derived file")
}

func TestDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	name := f.upload(t, "sales.csv", salesCSV)

	require.NoError(t, f.datasets.Delete(ctx, name))
	_, err := f.catalog.GetByFilename(ctx, name)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeTableNotFound))

	err = f.datasets.Delete(ctx, name)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeTableNotFound))
}

func TestDatasetService_WithoutCatalog(t *testing.T) {
	dir := t.TempDir()
	svc := NewDatasetService(dataset.NewLocalFileStorageWithPath(dir), nil, tabular.NewDataReader(),
		tabular.NewDataWriter(), internal.NewLogger(internal.LogLevelError, ""))

	rec, err := svc.Upload(context.Background(), strings.NewReader(salesCSV), "sales.csv")
	require.NoError(t, err)

	derived, err := svc.Derived(context.Background(), rec.Filename)
	require.NoError(t, err)
	assert.Empty(t, derived)
}
