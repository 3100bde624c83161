package table

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Kind is the inferred storage kind of a column
type Kind string

const (
	KindNumeric  Kind = "numeric"
	KindText     Kind = "text"
	KindBoolean  Kind = "boolean"
	KindDatetime Kind = "datetime"
)

// Value is a single cell. Only the field matching the owning column's Kind is meaningful.
type Value struct {
	Missing bool
	Num     float64
	Text    string
	Bool    bool
	Time    time.Time
}

// Missing returns a missing cell
func Missing() Value { return Value{Missing: true} }

// Numeric returns a numeric cell
func Numeric(f float64) Value { return Value{Num: f} }

// Text returns a text cell
func Text(s string) Value { return Value{Text: s} }

// Boolean returns a boolean cell
func Boolean(b bool) Value { return Value{Bool: b} }

// Datetime returns a datetime cell
func Datetime(t time.Time) Value { return Value{Time: t} }

// Format renders the value for display and for grouping keys
func (v Value) Format(kind Kind) string {
	if v.Missing {
		return ""
	}
	switch kind {
	case KindNumeric:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	case KindBoolean:
		if v.Bool {
			return "True"
		}
		return "False"
	case KindDatetime:
		return v.Time.Format(time.RFC3339Nano)
	default:
		return v.Text
	}
}

// Interface returns the JSON-native form of the value (nil when missing)
func (v Value) Interface(kind Kind) interface{} {
	if v.Missing {
		return nil
	}
	switch kind {
	case KindNumeric:
		return v.Num
	case KindBoolean:
		return v.Bool
	case KindDatetime:
		return v.Time.Format(time.RFC3339Nano)
	default:
		return v.Text
	}
}

// Equal compares two cells of the same kind; missing equals missing
func (v Value) Equal(o Value, kind Kind) bool {
	if v.Missing || o.Missing {
		return v.Missing == o.Missing
	}
	switch kind {
	case KindNumeric:
		return v.Num == o.Num
	case KindBoolean:
		return v.Bool == o.Bool
	case KindDatetime:
		return v.Time.Equal(o.Time)
	default:
		return v.Text == o.Text
	}
}

// Column is a named, single-kind sequence of values
type Column struct {
	Name   string
	Kind   Kind
	Values []Value
}

// MissingCount returns how many cells are missing
func (c *Column) MissingCount() int {
	n := 0
	for _, v := range c.Values {
		if v.Missing {
			n++
		}
	}
	return n
}

// Floats returns the non-missing numeric values in row order
func (c *Column) Floats() []float64 {
	if c.Kind != KindNumeric {
		return nil
	}
	out := make([]float64, 0, len(c.Values))
	for _, v := range c.Values {
		if !v.Missing {
			out = append(out, v.Num)
		}
	}
	return out
}

// Table is an ordered set of equal-length columns. A loaded Table is never mutated;
// derived views are new Tables sharing the underlying value slices.
type Table struct {
	Columns []*Column
	rows    int
}

// New builds a Table and checks that every column has the same length
func New(columns []*Column) (*Table, error) {
	rows := 0
	seen := make(map[string]bool, len(columns))
	for i, col := range columns {
		if i == 0 {
			rows = len(col.Values)
		} else if len(col.Values) != rows {
			return nil, fmt.Errorf("column %q has %d rows, expected %d", col.Name, len(col.Values), rows)
		}
		if seen[col.Name] {
			return nil, fmt.Errorf("duplicate column name %q", col.Name)
		}
		seen[col.Name] = true
	}
	return &Table{Columns: columns, rows: rows}, nil
}

// RowCount returns the number of rows
func (t *Table) RowCount() int { return t.rows }

// ColumnCount returns the number of columns
func (t *Table) ColumnCount() int { return len(t.Columns) }

// ColumnNames returns column names in source order
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		names[i] = col.Name
	}
	return names
}

// Column looks a column up by name
func (t *Table) Column(name string) (*Column, bool) {
	for _, col := range t.Columns {
		if col.Name == name {
			return col, true
		}
	}
	return nil, false
}

// NumericColumns returns numeric columns in source order
func (t *Table) NumericColumns() []*Column {
	return t.columnsOfKind(KindNumeric)
}

// TextColumns returns text (categorical) columns in source order
func (t *Table) TextColumns() []*Column {
	return t.columnsOfKind(KindText)
}

func (t *Table) columnsOfKind(kind Kind) []*Column {
	var out []*Column
	for _, col := range t.Columns {
		if col.Kind == kind {
			out = append(out, col)
		}
	}
	return out
}

// Without returns a new Table without the named columns
func (t *Table) Without(names []string) *Table {
	drop := make(map[string]bool, len(names))
	for _, n := range names {
		drop[n] = true
	}
	kept := make([]*Column, 0, len(t.Columns))
	for _, col := range t.Columns {
		if !drop[col.Name] {
			kept = append(kept, col)
		}
	}
	rows := t.rows
	if len(kept) == 0 {
		rows = 0
	}
	return &Table{Columns: kept, rows: rows}
}

// RowKey builds a grouping key for row i across all columns
func (t *Table) RowKey(i int) string {
	var b strings.Builder
	for j, col := range t.Columns {
		if j > 0 {
			b.WriteByte('\x1f')
		}
		v := col.Values[i]
		if v.Missing {
			b.WriteByte('\x00')
			continue
		}
		b.WriteString(v.Format(col.Kind))
	}
	return b.String()
}

// Row returns the values of row i in column order
func (t *Table) Row(i int) []Value {
	row := make([]Value, len(t.Columns))
	for j, col := range t.Columns {
		row[j] = col.Values[i]
	}
	return row
}
