package tabular

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"goeda/domain/table"
	apperrors "goeda/internal/errors"
)

// DataWriter encodes a Table in any supported format
type DataWriter struct{}

// NewDataWriter creates a writer
func NewDataWriter() *DataWriter {
	return &DataWriter{}
}

// Write encodes tbl to w using the given format
func (dw *DataWriter) Write(w io.Writer, tbl *table.Table, format table.Format) error {
	var err error
	switch format {
	case table.FormatCSV:
		err = writeCSV(w, tbl)
	case table.FormatXLSX, table.FormatXLS:
		err = writeWorkbook(w, tbl)
	case table.FormatJSON:
		err = writeJSON(w, tbl)
	case table.FormatParquet:
		err = writeParquet(w, tbl)
	default:
		return apperrors.UnsupportedFormat(string(format))
	}
	if err != nil {
		return apperrors.Wrapf(err, "failed to encode %s", format)
	}
	return nil
}

// SaveFile writes tbl to path through a temporary file in the same directory, so
// readers never observe a partially written dataset
func (dw *DataWriter) SaveFile(path string, tbl *table.Table) error {
	startTime := time.Now()
	format, ok := table.FormatForPath(path)
	if !ok {
		return apperrors.UnsupportedFormat(filepath.Ext(path))
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return apperrors.Wrap(err, "failed to create temporary file")
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := dw.Write(tmp, tbl, format); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return apperrors.Wrap(err, "failed to close temporary file")
	}
	if err := os.Rename(tmpName, path); err != nil {
		return apperrors.Wrap(err, "failed to move dataset into place")
	}

	log.Printf("[DataWriter] %s written in %.2fms (%d rows, %d columns)",
		filepath.Base(path), float64(time.Since(startTime).Nanoseconds())/1e6, tbl.RowCount(), tbl.ColumnCount())
	return nil
}

func writeCSV(w io.Writer, tbl *table.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(tbl.ColumnNames()); err != nil {
		return err
	}
	record := make([]string, tbl.ColumnCount())
	for i := 0; i < tbl.RowCount(); i++ {
		for j, col := range tbl.Columns {
			record[j] = col.Values[i].Format(col.Kind)
		}
		// a lone empty field would be a blank line, which readers skip
		if len(record) == 1 && record[0] == "" {
			cw.Flush()
			if _, err := io.WriteString(w, "\"\"\n"); err != nil {
				return err
			}
			continue
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
