package tabular

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/parquet-go/parquet-go"

	"goeda/adapters/coercer"
	"goeda/domain/table"
)

// columnOrderKey stores the source column order; parquet groups sort their fields by name
const columnOrderKey = "goeda.columns"

const parquetBatchSize = 256

// readParquet reads every row group of a flat parquet file
func (r *DataReader) readParquet(data []byte) (*table.Table, error) {
	pf, err := parquet.OpenFile(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}

	fields := pf.Schema().Fields()
	headers := make([]string, len(fields))
	for j, field := range fields {
		if !field.Leaf() {
			return nil, fmt.Errorf("nested column %q is not supported", field.Name())
		}
		headers[j] = field.Name()
	}

	var rows [][]coercer.Cell
	buf := make([]parquet.Row, parquetBatchSize)
	for _, rg := range pf.RowGroups() {
		reader := rg.Rows()
		for {
			n, err := reader.ReadRows(buf)
			for _, row := range buf[:n] {
				cells := make([]coercer.Cell, len(fields))
				for j := range cells {
					cells[j] = coercer.NullCell()
				}
				for _, v := range row {
					j := v.Column()
					if j < 0 || j >= len(fields) {
						continue
					}
					cells[j] = parquetCell(v, fields[j])
				}
				rows = append(rows, cells)
			}
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				reader.Close()
				return nil, fmt.Errorf("failed to read row group: %w", err)
			}
		}
		reader.Close()
	}

	if order, ok := pf.Lookup(columnOrderKey); ok {
		headers, rows = restoreColumnOrder(order, headers, rows)
	}
	return r.buildTable(headers, rows)
}

func parquetCell(v parquet.Value, field parquet.Field) coercer.Cell {
	if v.IsNull() {
		return coercer.NullCell()
	}
	lt := field.Type().LogicalType()

	switch v.Kind() {
	case parquet.Boolean:
		return coercer.BoolCell(v.Boolean())
	case parquet.Int32:
		if lt != nil && lt.Date != nil {
			day := time.Unix(int64(v.Int32())*86400, 0).UTC()
			return coercer.StringCell(day.Format(time.RFC3339Nano))
		}
		return coercer.NumberCell(float64(v.Int32()), v.String())
	case parquet.Int64:
		if lt != nil && lt.Timestamp != nil {
			var ts time.Time
			switch {
			case lt.Timestamp.Unit.Millis != nil:
				ts = time.UnixMilli(v.Int64())
			case lt.Timestamp.Unit.Micros != nil:
				ts = time.UnixMicro(v.Int64())
			default:
				ts = time.Unix(0, v.Int64())
			}
			return coercer.StringCell(ts.UTC().Format(time.RFC3339Nano))
		}
		return coercer.NumberCell(float64(v.Int64()), v.String())
	case parquet.Float:
		return coercer.NumberCell(float64(v.Float()), v.String())
	case parquet.Double:
		return coercer.NumberCell(v.Double(), v.String())
	case parquet.ByteArray, parquet.FixedLenByteArray:
		return coercer.StringCell(string(v.ByteArray()))
	default:
		return coercer.StringCell(v.String())
	}
}

// restoreColumnOrder reorders columns to the stored order when it names exactly the file's columns
func restoreColumnOrder(stored string, headers []string, rows [][]coercer.Cell) ([]string, [][]coercer.Cell) {
	var order []string
	if err := json.Unmarshal([]byte(stored), &order); err != nil || len(order) != len(headers) {
		return headers, rows
	}
	pos := make(map[string]int, len(headers))
	for j, h := range headers {
		pos[h] = j
	}
	perm := make([]int, len(order))
	for k, name := range order {
		j, ok := pos[name]
		if !ok {
			return headers, rows
		}
		perm[k] = j
	}

	for i, row := range rows {
		reordered := make([]coercer.Cell, len(perm))
		for k, j := range perm {
			reordered[k] = row[j]
		}
		rows[i] = reordered
	}
	return order, rows
}

// writeParquet writes one optional leaf per column
func writeParquet(w io.Writer, tbl *table.Table) error {
	if tbl.ColumnCount() == 0 {
		return errors.New("cannot write a parquet file without columns")
	}

	group := make(parquet.Group, tbl.ColumnCount())
	for _, col := range tbl.Columns {
		switch col.Kind {
		case table.KindNumeric:
			group[col.Name] = parquet.Optional(parquet.Leaf(parquet.DoubleType))
		case table.KindBoolean:
			group[col.Name] = parquet.Optional(parquet.Leaf(parquet.BooleanType))
		default:
			group[col.Name] = parquet.Optional(parquet.String())
		}
	}
	schema := parquet.NewSchema("dataset", group)

	// leaf indexes follow the schema's field order, not the table's
	leaf := make(map[string]int, tbl.ColumnCount())
	for j, field := range schema.Fields() {
		leaf[field.Name()] = j
	}

	order, err := json.Marshal(tbl.ColumnNames())
	if err != nil {
		return err
	}
	writer := parquet.NewWriter(w, schema, parquet.KeyValueMetadata(columnOrderKey, string(order)))

	batch := make([]parquet.Row, 0, parquetBatchSize)
	for i := 0; i < tbl.RowCount(); i++ {
		row := make(parquet.Row, tbl.ColumnCount())
		for _, col := range tbl.Columns {
			j := leaf[col.Name]
			row[j] = parquetValue(col.Values[i], col.Kind).Level(0, definitionLevel(col.Values[i]), j)
		}
		batch = append(batch, row)
		if len(batch) == cap(batch) {
			if _, err := writer.WriteRows(batch); err != nil {
				return fmt.Errorf("failed to write rows: %w", err)
			}
			batch = batch[:0]
		}
	}
	if len(batch) > 0 {
		if _, err := writer.WriteRows(batch); err != nil {
			return fmt.Errorf("failed to write rows: %w", err)
		}
	}
	return writer.Close()
}

func definitionLevel(v table.Value) int {
	if v.Missing {
		return 0
	}
	return 1
}

func parquetValue(v table.Value, kind table.Kind) parquet.Value {
	if v.Missing {
		return parquet.NullValue()
	}
	switch kind {
	case table.KindNumeric:
		return parquet.DoubleValue(v.Num)
	case table.KindBoolean:
		return parquet.BooleanValue(v.Bool)
	default:
		return parquet.ByteArrayValue([]byte(v.Format(kind)))
	}
}
