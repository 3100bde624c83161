package app

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"golang.org/x/sync/errgroup"

	"goeda/domain/eda"
	"goeda/domain/table"
	"goeda/internal"
	"goeda/internal/charts"
	apperrors "goeda/internal/errors"
	"goeda/internal/insights"
	"goeda/internal/profiling"
	"goeda/internal/report"
	"goeda/ports"
)

// ReportFormat selects the rendering of an analysis report
type ReportFormat string

const (
	ReportMarkdown ReportFormat = "markdown"
	ReportHTML     ReportFormat = "html"
)

// AnalysisService loads stored datasets and runs the profiler, chart builder and
// insight generator over them
type AnalysisService struct {
	storage  ports.FileStorage
	loader   ports.TableLoader
	rngPort  ports.RNGPort
	profiler *profiling.DataProfiler
	charts   *charts.Builder
	insights *insights.Generator
	logger   *internal.Logger
}

// NewAnalysisService creates an analysis service
func NewAnalysisService(storage ports.FileStorage, loader ports.TableLoader, rngPort ports.RNGPort, logger *internal.Logger) *AnalysisService {
	return &AnalysisService{
		storage:  storage,
		loader:   loader,
		rngPort:  rngPort,
		profiler: profiling.NewDataProfiler(),
		charts:   charts.NewBuilder(),
		insights: insights.NewGenerator(),
		logger:   logger.With("AnalysisService"),
	}
}

// loadTable resolves a stored dataset name and decodes it
func (s *AnalysisService) loadTable(ctx context.Context, filename string) (*table.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := s.storage.Path(filename)
	if err != nil {
		return nil, err
	}
	exists, err := s.storage.Exists(ctx, filename)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperrors.TableNotFound(filename)
	}
	return s.loader.LoadFile(path)
}

// Analyze produces the overview, column statistics, chart data and insights for a dataset.
// The three computations share the read-only table and run concurrently; a panic in any
// of them is reported as an analysis failure.
func (s *AnalysisService) Analyze(ctx context.Context, filename string) (*eda.AnalysisResult, error) {
	startTime := time.Now()

	tbl, err := s.loadTable(ctx, filename)
	if err != nil {
		return nil, err
	}

	result := &eda.AnalysisResult{}
	rng := s.rngPort.Stream(ctx, "scatter:"+filename)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(guard(func() error {
		result.Overview = s.profiler.Overview(filename, tbl)
		return nil
	}))
	g.Go(guard(func() error {
		stats := s.profiler.ProfileColumns(tbl)
		if err := gctx.Err(); err != nil {
			return err
		}
		result.ColumnStats = stats
		result.Insights = s.insights.Generate(tbl, stats)
		return nil
	}))
	g.Go(guard(func() error {
		chartData, err := s.charts.Build(tbl, rng)
		if err != nil {
			return apperrors.AnalysisFailure(err)
		}
		result.ChartData = chartData
		return nil
	}))

	if err := g.Wait(); err != nil {
		s.logger.Error("analysis of %s failed: %v", filename, err)
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.logger.Info("%s analyzed in %.2fms (%d rows, %d columns, %d insights)",
		filename, float64(time.Since(startTime).Nanoseconds())/1e6, tbl.RowCount(), tbl.ColumnCount(), len(result.Insights))
	return result, nil
}

// Columns describes every column of a dataset for column selection
func (s *AnalysisService) Columns(ctx context.Context, filename string) (*eda.ColumnInfoResult, error) {
	tbl, err := s.loadTable(ctx, filename)
	if err != nil {
		return nil, err
	}
	info := s.profiler.ColumnInfo(tbl)
	return &info, nil
}

// Preview returns the first rows of a dataset; rows is clamped to the allowed range
func (s *AnalysisService) Preview(ctx context.Context, filename string, rows int) (*eda.Preview, error) {
	tbl, err := s.loadTable(ctx, filename)
	if err != nil {
		return nil, err
	}
	preview := s.profiler.Preview(filename, tbl, rows)
	return &preview, nil
}

// Report analyzes a dataset and renders the result
func (s *AnalysisService) Report(ctx context.Context, filename string, format ReportFormat) ([]byte, error) {
	result, err := s.Analyze(ctx, filename)
	if err != nil {
		return nil, err
	}
	switch format {
	case ReportHTML:
		return report.HTML(result), nil
	case ReportMarkdown, "":
		return []byte(report.Markdown(result)), nil
	}
	return nil, apperrors.InvalidInput(fmt.Sprintf("unknown report format %q", format))
}

// guard converts a panic in fn into an analysis failure
func guard(fn func() error) func() error {
	return func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = apperrors.AnalysisFailure(fmt.Errorf("panic: %v\n%s", r, debug.Stack()))
			}
		}()
		return fn()
	}
}
