package tabular

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"

	"goeda/adapters/coercer"
	"goeda/domain/table"
)

const defaultSheet = "Sheet1"

// readSpreadsheet reads the first sheet of a workbook. OOXML bytes go through excelize
// whatever the extension; anything else is treated as a legacy BIFF workbook.
func (r *DataReader) readSpreadsheet(data []byte) (*table.Table, error) {
	var rows [][]coercer.Cell
	if isZip(data) {
		var err error
		if rows, err = readWorkbookRows(data); err != nil {
			return nil, err
		}
	} else {
		raw, err := readLegacyWorkbookRows(data)
		if err != nil {
			return nil, err
		}
		rows = stringRows(raw)
	}
	if len(rows) == 0 {
		return nil, errNoColumns
	}

	header := make([]string, len(rows[0]))
	for j, cell := range rows[0] {
		header[j] = cell.Raw
	}
	body := rows[1:]
	width := len(header)
	for _, row := range body {
		if len(row) > width {
			width = len(row)
		}
	}
	for len(header) < width {
		header = append(header, "")
	}

	return r.buildTable(header, body)
}

func readWorkbookRows(data []byte) ([][]coercer.Cell, error) {
	startTime := time.Now()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}
	sheet := sheets[0]

	raw, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}
	props, err := f.GetWorkbookProps()
	if err != nil {
		return nil, fmt.Errorf("failed to read workbook properties: %w", err)
	}

	typer := &workbookCellTyper{
		file:     f,
		sheet:    sheet,
		date1904: props.Date1904 != nil && *props.Date1904,
		dateFmt:  make(map[int]bool),
	}
	rows := make([][]coercer.Cell, len(raw))
	for i, row := range raw {
		cells := make([]coercer.Cell, len(row))
		for j, v := range row {
			if cells[j], err = typer.cell(j+1, i+1, v); err != nil {
				return nil, err
			}
		}
		rows[i] = cells
	}

	log.Printf("[DataReader] sheet %s read in %.2fms (%d rows)",
		sheet, float64(time.Since(startTime).Nanoseconds())/1e6, len(rows))
	return rows, nil
}

// workbookCellTyper restores the native type of OOXML cells: booleans and
// date-formatted serial numbers would otherwise load as plain numbers
type workbookCellTyper struct {
	file     *excelize.File
	sheet    string
	date1904 bool
	dateFmt  map[int]bool // style index -> number format is a date or time
}

func (t *workbookCellTyper) cell(col, row int, raw string) (coercer.Cell, error) {
	if raw == "" {
		return coercer.StringCell(raw), nil
	}
	ref, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return coercer.Cell{}, err
	}
	cellType, err := t.file.GetCellType(t.sheet, ref)
	if err != nil {
		return coercer.Cell{}, fmt.Errorf("failed to read type of %s: %w", ref, err)
	}

	switch cellType {
	case excelize.CellTypeBool:
		return coercer.BoolCell(raw == "1" || strings.EqualFold(raw, "true")), nil
	case excelize.CellTypeUnset, excelize.CellTypeNumber:
		serial, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return coercer.StringCell(raw), nil
		}
		isDate, err := t.isDateStyled(ref)
		if err != nil {
			return coercer.Cell{}, err
		}
		if !isDate {
			return coercer.StringCell(raw), nil
		}
		ts, err := excelize.ExcelDateToTime(serial, t.date1904)
		if err != nil {
			return coercer.StringCell(raw), nil
		}
		return coercer.StringCell(ts.Format(time.RFC3339Nano)), nil
	}
	return coercer.StringCell(raw), nil
}

func (t *workbookCellTyper) isDateStyled(ref string) (bool, error) {
	idx, err := t.file.GetCellStyle(t.sheet, ref)
	if err != nil {
		return false, fmt.Errorf("failed to read style of %s: %w", ref, err)
	}
	if idx == 0 {
		return false, nil
	}
	if known, ok := t.dateFmt[idx]; ok {
		return known, nil
	}
	style, err := t.file.GetStyle(idx)
	if err != nil {
		return false, fmt.Errorf("failed to read style %d: %w", idx, err)
	}
	isDate := isDateNumFmt(style.NumFmt)
	if style.CustomNumFmt != nil {
		isDate = isDateFormatCode(*style.CustomNumFmt)
	}
	t.dateFmt[idx] = isDate
	return isDate, nil
}

// isDateNumFmt reports whether a built-in number format id renders a date or time
func isDateNumFmt(id int) bool {
	return (14 <= id && id <= 22) || (27 <= id && id <= 36) || (45 <= id && id <= 47) || (50 <= id && id <= 58)
}

// isElapsedToken matches bracketed elapsed-time tokens such as [h] or [mm]
func isElapsedToken(tok string) bool {
	tok = strings.ToLower(tok)
	if tok == "" {
		return false
	}
	return strings.Trim(tok, "h") == "" || strings.Trim(tok, "m") == "" || strings.Trim(tok, "s") == ""
}

// isDateFormatCode reports whether a custom format code uses date or time tokens
// outside quoted literals, escapes and bracketed sections
func isDateFormatCode(code string) bool {
	section := code
	if i := strings.IndexByte(code, ';'); i >= 0 {
		section = code[:i]
	}
	if strings.EqualFold(section, "General") {
		return false
	}
	inQuote := false
	for i := 0; i < len(section); i++ {
		c := section[i]
		switch {
		case inQuote:
			inQuote = c != '"'
		case c == '"':
			inQuote = true
		case c == '[':
			end := strings.IndexByte(section[i:], ']')
			if end < 0 {
				return false
			}
			if isElapsedToken(section[i+1 : i+end]) {
				return true
			}
			i += end
		case c == '\\' || c == '_' || c == '*':
			i++
		default:
			switch c | 0x20 {
			case 'y', 'm', 'd', 'h', 's':
				return true
			}
		}
	}
	return false
}

func readLegacyWorkbookRows(data []byte) (rows [][]string, err error) {
	// the BIFF decoder panics on some malformed inputs
	defer func() {
		if rec := recover(); rec != nil {
			rows, err = nil, fmt.Errorf("malformed xls workbook: %v", rec)
		}
	}()

	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, fmt.Errorf("failed to open xls workbook: %w", err)
	}
	if wb == nil {
		return nil, errors.New("xls file has no workbook stream")
	}
	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, errors.New("workbook has no sheets")
	}

	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := legacyRow(sheet, i)
		if row == nil {
			rows = append(rows, nil)
			continue
		}
		cells := make([]string, row.LastCol())
		for j := row.FirstCol(); j < row.LastCol(); j++ {
			cells[j] = row.Col(j)
		}
		rows = append(rows, cells)
	}

	// trailing empty rows are not part of the data
	for len(rows) > 0 && len(rows[len(rows)-1]) == 0 {
		rows = rows[:len(rows)-1]
	}
	return rows, nil
}

// legacyRow returns nil for rows without cells; the decoder dereferences them unchecked
func legacyRow(sheet *xls.WorkSheet, i int) (row *xls.Row) {
	defer func() {
		if recover() != nil {
			row = nil
		}
	}()
	return sheet.Row(i)
}

// writeWorkbook writes the table to a single-sheet OOXML workbook
func writeWorkbook(w io.Writer, tbl *table.Table) error {
	f := excelize.NewFile()
	defer f.Close()

	sw, err := f.NewStreamWriter(defaultSheet)
	if err != nil {
		return fmt.Errorf("failed to create stream writer: %w", err)
	}

	header := make([]interface{}, tbl.ColumnCount())
	for j, name := range tbl.ColumnNames() {
		header[j] = name
	}
	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i := 0; i < tbl.RowCount(); i++ {
		record := make([]interface{}, tbl.ColumnCount())
		for j, col := range tbl.Columns {
			record[j] = spreadsheetCell(col.Values[i], col.Kind)
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, record); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("failed to flush workbook: %w", err)
	}
	return f.Write(w)
}

// spreadsheetCell writes native numbers, booleans and date-styled datetimes
func spreadsheetCell(v table.Value, kind table.Kind) interface{} {
	if v.Missing {
		return nil
	}
	switch kind {
	case table.KindNumeric:
		return v.Num
	case table.KindBoolean:
		return v.Bool
	case table.KindDatetime:
		return v.Time.UTC()
	default:
		return v.Format(kind)
	}
}
