package coercer

import (
	"testing"

	"goeda/domain/table"
)

func textCells(vals ...string) []Cell {
	cells := make([]Cell, len(vals))
	for i, v := range vals {
		cells[i] = StringCell(v)
	}
	return cells
}

func TestInferColumn_Kinds(t *testing.T) {
	c := NewTypeCoercer(DefaultCoercionConfig())

	tests := []struct {
		name  string
		cells []Cell
		want  table.Kind
	}{
		{"integers", textCells("1", "2", "3"), table.KindNumeric},
		{"floats with missing", textCells("1.5", "", "NaN", "-2e3"), table.KindNumeric},
		{"all missing", textCells("", "NA", "null"), table.KindNumeric},
		{"booleans any case", textCells("true", "FALSE", "True"), table.KindBoolean},
		{"dates", textCells("2024-01-01", "2024-02-15"), table.KindDatetime},
		{"timestamps", textCells("2024-01-01 10:00:00", "2024-01-01T11:30:00Z"), table.KindDatetime},
		{"mixed falls back to text", textCells("1", "two", "3"), table.KindText},
		{"infinity is not numeric", textCells("1", "inf"), table.KindText},
		{"yes/no is text", textCells("yes", "no"), table.KindText},
		{"native numbers", []Cell{NumberCell(1, "1"), NullCell(), NumberCell(2.5, "2.5")}, table.KindNumeric},
		{"native bools", []Cell{BoolCell(true), BoolCell(false)}, table.KindBoolean},
		{"numbers mixed with strings", []Cell{NumberCell(1, "1"), StringCell("x")}, table.KindText},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			col := c.InferColumn("c", tt.cells)
			if col.Kind != tt.want {
				t.Errorf("expected %s, got %s", tt.want, col.Kind)
			}
			if len(col.Values) != len(tt.cells) {
				t.Errorf("expected %d values, got %d", len(tt.cells), len(col.Values))
			}
		})
	}
}

func TestInferColumn_MissingTokens(t *testing.T) {
	c := NewTypeCoercer(DefaultCoercionConfig())
	col := c.InferColumn("v", textCells("1", "N/A", "#N/A", "<NA>", "None", "4"))

	if got := col.MissingCount(); got != 4 {
		t.Fatalf("expected 4 missing, got %d", got)
	}
	if col.Values[5].Num != 4 {
		t.Errorf("expected last value 4, got %v", col.Values[5].Num)
	}
}

func TestInferColumn_TextKeepsRawSpelling(t *testing.T) {
	c := NewTypeCoercer(DefaultCoercionConfig())
	col := c.InferColumn("v", []Cell{NumberCell(7, "7"), StringCell(" a ")})

	if col.Kind != table.KindText {
		t.Fatalf("expected text, got %s", col.Kind)
	}
	if col.Values[0].Text != "7" || col.Values[1].Text != " a " {
		t.Errorf("unexpected text values: %q %q", col.Values[0].Text, col.Values[1].Text)
	}
}

func TestAnalyzeTypeDistribution_Ratios(t *testing.T) {
	c := NewTypeCoercer(DefaultCoercionConfig())
	a := c.AnalyzeTypeDistribution(textCells("1", "2", "x", ""))

	if a.ValidCount != 3 || a.NumericCount != 2 {
		t.Errorf("unexpected counts: %+v", a)
	}
	if a.RecommendedKind != table.KindText {
		t.Errorf("expected text, got %s", a.RecommendedKind)
	}
}

func TestRelaxedThreshold(t *testing.T) {
	cfg := DefaultCoercionConfig()
	cfg.NumericThreshold = 0.6
	c := NewTypeCoercer(cfg)

	col := c.InferColumn("v", textCells("1", "2", "x"))
	if col.Kind != table.KindNumeric {
		t.Fatalf("expected numeric, got %s", col.Kind)
	}
	if !col.Values[2].Missing {
		t.Errorf("non-numeric value should coerce to missing")
	}
}
