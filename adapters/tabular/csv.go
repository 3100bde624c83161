package tabular

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"goeda/domain/table"
)

var errNoColumns = errors.New("no columns to parse from file")

// readCSV decodes comma separated UTF-8 text with a mandatory header row
func (r *DataReader) readCSV(data []byte) (*table.Table, error) {
	if !utf8.Valid(data) {
		return nil, errors.New("input is not valid UTF-8")
	}

	decoded := transform.NewReader(bytes.NewReader(data), unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	reader := csv.NewReader(decoded)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errNoColumns
	}
	if err != nil {
		return nil, err
	}

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(record) > len(header) {
			line, _ := reader.FieldPos(0)
			return nil, fmt.Errorf("expected %d fields in line %d, saw %d", len(header), line, len(record))
		}
		rows = append(rows, record)
	}

	return r.buildTable(header, stringRows(rows))
}
