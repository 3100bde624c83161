package ports

import (
	"context"

	"goeda/domain/eda"
)

// DatasetRepository records which dataset files exist and where they came from
type DatasetRepository interface {
	Save(ctx context.Context, record *eda.DatasetRecord) error
	GetByFilename(ctx context.Context, filename string) (*eda.DatasetRecord, error)
	List(ctx context.Context, limit, offset int) ([]*eda.DatasetRecord, error)
	ListDerived(ctx context.Context, source string) ([]*eda.DatasetRecord, error)
	Delete(ctx context.Context, filename string) error
}
