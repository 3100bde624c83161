package ports

import (
	"context"
	"io"

	"goeda/domain/eda"
)

// FileStorage owns the dataset directory: naming, physical I/O and existence checks
type FileStorage interface {
	Store(ctx context.Context, src io.Reader, filename string) (string, error)
	Path(filename string) (string, error)
	Exists(ctx context.Context, filename string) (bool, error)
	GetFileSize(filename string) (int64, error)
	Delete(ctx context.Context, filename string) error
	List(ctx context.Context) ([]*eda.DatasetRecord, error)
}
