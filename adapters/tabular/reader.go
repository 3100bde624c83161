package tabular

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"goeda/adapters/coercer"
	"goeda/domain/table"
	apperrors "goeda/internal/errors"
)

// DataReader decodes dataset files of every supported format into a Table
type DataReader struct {
	coercer *coercer.TypeCoercer
}

// NewDataReader creates a reader with strict kind inference
func NewDataReader() *DataReader {
	return NewDataReaderWithConfig(coercer.DefaultCoercionConfig())
}

// NewDataReaderWithConfig creates a reader with custom coercion rules
func NewDataReaderWithConfig(config coercer.CoercionConfig) *DataReader {
	return &DataReader{coercer: coercer.NewTypeCoercer(config)}
}

// LoadFile reads a dataset file, choosing the decoder from the file extension
func (r *DataReader) LoadFile(path string) (*table.Table, error) {
	format, ok := table.FormatForPath(path)
	if !ok {
		return nil, apperrors.UnsupportedFormat(filepath.Ext(path))
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.TableNotFound(filepath.Base(path))
		}
		return nil, apperrors.Wrapf(err, "failed to open %s", filepath.Base(path))
	}
	defer f.Close()

	return r.Load(f, format)
}

// Load decodes src using the declared format
func (r *DataReader) Load(src io.Reader, format table.Format) (*table.Table, error) {
	startTime := time.Now()

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, apperrors.ParseFailure(string(format), err)
	}

	var tbl *table.Table
	switch format {
	case table.FormatCSV:
		tbl, err = r.readCSV(data)
	case table.FormatXLSX, table.FormatXLS:
		tbl, err = r.readSpreadsheet(data)
	case table.FormatJSON:
		tbl, err = r.readJSON(data)
	case table.FormatParquet:
		tbl, err = r.readParquet(data)
	default:
		return nil, apperrors.UnsupportedFormat(string(format))
	}
	if err != nil {
		if apperrors.IsAppError(err) {
			return nil, err
		}
		return nil, apperrors.ParseFailure(string(format), err)
	}

	log.Printf("[DataReader] %s decoded in %.2fms (%d rows, %d columns)",
		format, float64(time.Since(startTime).Nanoseconds())/1e6, tbl.RowCount(), tbl.ColumnCount())
	return tbl, nil
}

// normalizeHeaders names blank headers "Unnamed: i" and suffixes repeats with .1, .2, ...
func normalizeHeaders(raw []string) []string {
	headers := make([]string, len(raw))
	seen := make(map[string]int, len(raw))
	taken := make(map[string]bool, len(raw))
	for i, h := range raw {
		if h == "" {
			h = "Unnamed: " + strconv.Itoa(i)
		}
		name := h
		for taken[name] {
			seen[h]++
			name = fmt.Sprintf("%s.%d", h, seen[h])
		}
		taken[name] = true
		headers[i] = name
	}
	return headers
}

// buildTable infers every column from its cells; rows shorter than the header are padded with nulls
func (r *DataReader) buildTable(headers []string, rows [][]coercer.Cell) (*table.Table, error) {
	headers = normalizeHeaders(headers)
	columns := make([]*table.Column, len(headers))
	for j, name := range headers {
		cells := make([]coercer.Cell, len(rows))
		for i, row := range rows {
			if j < len(row) {
				cells[i] = row[j]
			} else {
				cells[i] = coercer.NullCell()
			}
		}
		columns[j] = r.coercer.InferColumn(name, cells)
	}
	return table.New(columns)
}

// stringRows wraps untyped text rows as cells
func stringRows(rows [][]string) [][]coercer.Cell {
	out := make([][]coercer.Cell, len(rows))
	for i, row := range rows {
		cells := make([]coercer.Cell, len(row))
		for j, v := range row {
			cells[j] = coercer.StringCell(v)
		}
		out[i] = cells
	}
	return out
}

var zipSignature = []byte("PK\x03\x04")

func isZip(data []byte) bool {
	return bytes.HasPrefix(data, zipSignature)
}
