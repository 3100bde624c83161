package ports

import (
	"io"

	"goeda/domain/table"
)

// TableLoader decodes a byte stream of a declared format into a Table
type TableLoader interface {
	Load(src io.Reader, format table.Format) (*table.Table, error)
	LoadFile(path string) (*table.Table, error)
}

// TableWriter persists a Table
type TableWriter interface {
	Write(w io.Writer, tbl *table.Table, format table.Format) error
	SaveFile(path string, tbl *table.Table) error
}
