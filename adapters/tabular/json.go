package tabular

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/tidwall/gjson"

	"goeda/adapters/coercer"
	"goeda/domain/table"
)

// readJSON accepts an array of records, a column-oriented object, or JSON Lines
func (r *DataReader) readJSON(data []byte) (*table.Table, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, errNoColumns
	}

	if gjson.ValidBytes(trimmed) {
		doc := gjson.ParseBytes(trimmed)
		switch {
		case doc.IsArray():
			return r.fromRecords(doc.Array())
		case doc.IsObject() && isColumnLayout(doc):
			return r.fromColumns(doc)
		case doc.IsObject():
			return r.fromRecords([]gjson.Result{doc})
		default:
			return nil, errors.New("expected an array of records or an object of columns")
		}
	}

	var records []gjson.Result
	scanner := bufio.NewScanner(bytes.NewReader(trimmed))
	scanner.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		if !gjson.ValidBytes(line) {
			return nil, fmt.Errorf("invalid JSON on line %d", lineNo)
		}
		records = append(records, gjson.ParseBytes(line))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return r.fromRecords(records)
}

// fromRecords builds columns from the union of record keys in first-seen order
func (r *DataReader) fromRecords(records []gjson.Result) (*table.Table, error) {
	var headers []string
	index := make(map[string]int)
	rows := make([][]coercer.Cell, len(records))

	for i, rec := range records {
		if !rec.IsObject() {
			return nil, fmt.Errorf("record %d is not an object", i)
		}
		row := make([]coercer.Cell, len(headers))
		rec.ForEach(func(key, value gjson.Result) bool {
			j, ok := index[key.String()]
			if !ok {
				j = len(headers)
				index[key.String()] = j
				headers = append(headers, key.String())
			}
			for len(row) <= j {
				row = append(row, coercer.NullCell())
			}
			row[j] = jsonCell(value)
			return true
		})
		rows[i] = row
	}
	if len(headers) == 0 && len(records) == 0 {
		return table.New(nil)
	}
	return r.buildTable(headers, rows)
}

// fromColumns handles {"col": [v, ...]} and {"col": {"0": v, ...}} layouts
func (r *DataReader) fromColumns(doc gjson.Result) (*table.Table, error) {
	var headers []string
	var columns [][]coercer.Cell
	var err error
	doc.ForEach(func(key, value gjson.Result) bool {
		var cells []coercer.Cell
		switch {
		case value.IsArray():
			for _, v := range value.Array() {
				cells = append(cells, jsonCell(v))
			}
		case value.IsObject():
			value.ForEach(func(_, v gjson.Result) bool {
				cells = append(cells, jsonCell(v))
				return true
			})
		default:
			err = fmt.Errorf("column %q is neither an array nor an object", key.String())
			return false
		}
		headers = append(headers, key.String())
		columns = append(columns, cells)
		return true
	})
	if err != nil {
		return nil, err
	}

	rowCount := 0
	for _, cells := range columns {
		if len(cells) > rowCount {
			rowCount = len(cells)
		}
	}
	rows := make([][]coercer.Cell, rowCount)
	for i := range rows {
		row := make([]coercer.Cell, len(columns))
		for j, cells := range columns {
			if i < len(cells) {
				row[j] = cells[i]
			} else {
				row[j] = coercer.NullCell()
			}
		}
		rows[i] = row
	}
	return r.buildTable(headers, rows)
}

// isColumnLayout reports whether every member of the object is an array or an object
func isColumnLayout(doc gjson.Result) bool {
	columnar := true
	doc.ForEach(func(_, value gjson.Result) bool {
		columnar = value.IsArray() || value.IsObject()
		return columnar
	})
	return columnar
}

func jsonCell(v gjson.Result) coercer.Cell {
	switch v.Type {
	case gjson.Null:
		return coercer.NullCell()
	case gjson.True:
		return coercer.BoolCell(true)
	case gjson.False:
		return coercer.BoolCell(false)
	case gjson.Number:
		return coercer.NumberCell(v.Num, v.Raw)
	case gjson.String:
		return coercer.StringCell(v.Str)
	default:
		return coercer.StringCell(v.Raw)
	}
}

// writeJSON writes an indented array of records keeping column order
func writeJSON(w io.Writer, tbl *table.Table) error {
	bw := bufio.NewWriter(w)
	names := make([][]byte, tbl.ColumnCount())
	for j, name := range tbl.ColumnNames() {
		b, err := json.Marshal(name)
		if err != nil {
			return err
		}
		names[j] = b
	}

	if tbl.RowCount() == 0 {
		bw.WriteString("[]\n")
		return bw.Flush()
	}

	bw.WriteString("[\n")
	for i := 0; i < tbl.RowCount(); i++ {
		bw.WriteString("  {")
		for j, col := range tbl.Columns {
			if j > 0 {
				bw.WriteString(",")
			}
			bw.WriteString("\n    ")
			bw.Write(names[j])
			bw.WriteString(": ")
			b, err := json.Marshal(jsonValue(col.Values[i], col.Kind))
			if err != nil {
				return fmt.Errorf("row %d column %s: %w", i+1, col.Name, err)
			}
			bw.Write(b)
		}
		if tbl.ColumnCount() > 0 {
			bw.WriteString("\n  ")
		}
		if i < tbl.RowCount()-1 {
			bw.WriteString("},\n")
		} else {
			bw.WriteString("}\n")
		}
	}
	bw.WriteString("]\n")
	return bw.Flush()
}

func jsonValue(v table.Value, kind table.Kind) interface{} {
	if v.Missing {
		return nil
	}
	if kind == table.KindNumeric && (math.IsNaN(v.Num) || math.IsInf(v.Num, 0)) {
		return nil
	}
	return v.Interface(kind)
}
