package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"goeda/domain/eda"
	apperrors "goeda/internal/errors"
	"goeda/ports"
)

// datasetRepository implements the DatasetRepository interface
type datasetRepository struct {
	db *sqlx.DB
}

// NewDatasetRepository creates a new dataset repository
func NewDatasetRepository(db *sqlx.DB) ports.DatasetRepository {
	return &datasetRepository{db: db}
}

const datasetColumns = `filename, original_filename, format, size_bytes,
	COALESCE(derived_from, '') AS derived_from, uploaded_at`

// Save inserts a dataset record or replaces the record with the same filename
func (r *datasetRepository) Save(ctx context.Context, rec *eda.DatasetRecord) error {
	query := `INSERT INTO datasets (
		filename, original_filename, format, size_bytes, derived_from, uploaded_at
	) VALUES (
		$1, $2, $3, $4, NULLIF($5, ''), $6
	)
	ON CONFLICT (filename) DO UPDATE SET
		original_filename = EXCLUDED.original_filename,
		format = EXCLUDED.format,
		size_bytes = EXCLUDED.size_bytes,
		derived_from = EXCLUDED.derived_from,
		uploaded_at = EXCLUDED.uploaded_at`

	_, err := r.db.ExecContext(ctx, query,
		rec.Filename, rec.OriginalFilename, string(rec.Format), rec.SizeBytes, rec.DerivedFrom, rec.UploadedAt.UTC(),
	)
	if err != nil {
		return apperrors.DatabaseError("failed to save dataset", err)
	}
	return nil
}

// GetByFilename retrieves a dataset record by its stored file name
func (r *datasetRepository) GetByFilename(ctx context.Context, filename string) (*eda.DatasetRecord, error) {
	query := `SELECT ` + datasetColumns + ` FROM datasets WHERE filename = $1`

	var rec eda.DatasetRecord
	if err := r.db.GetContext(ctx, &rec, query, filename); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.TableNotFound(filename)
		}
		return nil, apperrors.DatabaseError("failed to get dataset", err)
	}
	return &rec, nil
}

// List returns dataset records newest first
func (r *datasetRepository) List(ctx context.Context, limit, offset int) ([]*eda.DatasetRecord, error) {
	if limit <= 0 {
		limit = 100
	}
	query := `SELECT ` + datasetColumns + ` FROM datasets
		ORDER BY uploaded_at DESC, filename ASC
		LIMIT $1 OFFSET $2`

	var records []*eda.DatasetRecord
	if err := r.db.SelectContext(ctx, &records, query, limit, offset); err != nil {
		return nil, apperrors.DatabaseError("failed to list datasets", err)
	}
	return records, nil
}

// ListDerived returns the records produced from the given source file
func (r *datasetRepository) ListDerived(ctx context.Context, source string) ([]*eda.DatasetRecord, error) {
	query := `SELECT ` + datasetColumns + ` FROM datasets
		WHERE derived_from = $1
		ORDER BY uploaded_at DESC, filename ASC`

	var records []*eda.DatasetRecord
	if err := r.db.SelectContext(ctx, &records, query, source); err != nil {
		return nil, apperrors.DatabaseError("failed to list derived datasets", err)
	}
	return records, nil
}

// Delete removes a dataset record
func (r *datasetRepository) Delete(ctx context.Context, filename string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM datasets WHERE filename = $1`, filename)
	if err != nil {
		return apperrors.DatabaseError("failed to delete dataset", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.DatabaseError("failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return apperrors.TableNotFound(filename)
	}
	return nil
}
