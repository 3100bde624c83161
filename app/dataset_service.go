package app

import (
	"context"
	"io"
	"path/filepath"
	"time"

	"goeda/domain/eda"
	"goeda/domain/table"
	"goeda/internal"
	"goeda/internal/editor"
	apperrors "goeda/internal/errors"
	"goeda/ports"
)

// DatasetService manages stored dataset files and their catalog entries
type DatasetService struct {
	storage ports.FileStorage
	catalog ports.DatasetRepository // optional
	loader  ports.TableLoader
	editor  *editor.ColumnEditor
	logger  *internal.Logger
}

// NewDatasetService creates a dataset service; catalog may be nil
func NewDatasetService(storage ports.FileStorage, catalog ports.DatasetRepository, loader ports.TableLoader, writer ports.TableWriter, logger *internal.Logger) *DatasetService {
	return &DatasetService{
		storage: storage,
		catalog: catalog,
		loader:  loader,
		editor:  editor.NewColumnEditor(writer),
		logger:  logger.With("DatasetService"),
	}
}

// Upload stores src under a unique name derived from originalName and records it
func (s *DatasetService) Upload(ctx context.Context, src io.Reader, originalName string) (*eda.DatasetRecord, error) {
	filename, err := s.storage.Store(ctx, src, originalName)
	if err != nil {
		return nil, err
	}
	size, err := s.storage.GetFileSize(filename)
	if err != nil {
		return nil, err
	}
	format, _ := table.FormatForPath(filename)

	record := &eda.DatasetRecord{
		Filename:         filename,
		OriginalFilename: filepath.Base(originalName),
		Format:           format,
		SizeBytes:        size,
		UploadedAt:       time.Now().UTC(),
	}
	s.record(ctx, record)
	return record, nil
}

// List returns every stored dataset, newest first, enriched with catalog metadata where present
func (s *DatasetService) List(ctx context.Context) ([]*eda.DatasetRecord, error) {
	records, err := s.storage.List(ctx)
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []*eda.DatasetRecord{}
	}
	if s.catalog == nil {
		return records, nil
	}
	for _, rec := range records {
		entry, err := s.catalog.GetByFilename(ctx, rec.Filename)
		if err != nil {
			if !apperrors.HasCode(err, apperrors.CodeTableNotFound) {
				s.logger.Warn("catalog lookup for %s failed: %v", rec.Filename, err)
			}
			continue
		}
		rec.OriginalFilename = entry.OriginalFilename
		rec.DerivedFrom = entry.DerivedFrom
	}
	return records, nil
}

// Delete removes a stored dataset file and its catalog entry
func (s *DatasetService) Delete(ctx context.Context, filename string) error {
	if err := s.storage.Delete(ctx, filename); err != nil {
		return err
	}
	if s.catalog != nil {
		if err := s.catalog.Delete(ctx, filename); err != nil && !apperrors.HasCode(err, apperrors.CodeTableNotFound) {
			s.logger.Warn("catalog delete for %s failed: %v", filename, err)
		}
	}
	return nil
}

// RemoveColumns writes a copy of a dataset without the named columns; the source is left untouched
func (s *DatasetService) RemoveColumns(ctx context.Context, filename string, columns []string) (*eda.RemovalResult, error) {
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
	if len(columns) == 0 {
		return nil, apperrors.EmptyRequest("no columns specified for removal")
	}

	tbl, err := s.loader.LoadFile(path)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result, err := s.editor.RemoveAndSave(path, tbl, columns)
	if err != nil {
		return nil, err
	}

	size, err := s.storage.GetFileSize(result.NewFilename)
	if err != nil {
		return nil, err
	}
	format, _ := table.FormatForPath(result.NewFilename)
	s.record(ctx, &eda.DatasetRecord{
		Filename:         result.NewFilename,
		OriginalFilename: result.NewFilename,
		Format:           format,
		SizeBytes:        size,
		DerivedFrom:      filename,
		UploadedAt:       time.Now().UTC(),
	})
	return result, nil
}

// record saves a catalog entry; the dataset directory stays authoritative, so failures are only logged
func (s *DatasetService) record(ctx context.Context, rec *eda.DatasetRecord) {
	if s.catalog == nil {
		return
	}
	if err := s.catalog.Save(ctx, rec); err != nil {
		s.logger.Warn("failed to record %s in catalog: %v", rec.Filename, err)
	}
}

// Derived lists the catalog entries produced from filename by column removal
func (s *DatasetService) Derived(ctx context.Context, filename string) ([]*eda.DatasetRecord, error) {
	if s.catalog == nil {
		return []*eda.DatasetRecord{}, nil
	}
	records, err := s.catalog.ListDerived(ctx, filename)
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []*eda.DatasetRecord{}
	}
	return records, nil
}
