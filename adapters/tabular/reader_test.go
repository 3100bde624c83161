package tabular

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goeda/domain/table"
	apperrors "goeda/internal/errors"
)

func TestLoadCSV_InfersKinds(t *testing.T) {
	src := "id,name,active,joined,score\n" +
		"1,alice,true,2024-01-02,3.5\n" +
		"2,bob,False,2024-02-03,\n" +
		"3,,TRUE,2024-03-04,NA\n"

	tbl, err := NewDataReader().Load(strings.NewReader(src), table.FormatCSV)
	require.NoError(t, err)

	assert.Equal(t, 3, tbl.RowCount())
	assert.Equal(t, []string{"id", "name", "active", "joined", "score"}, tbl.ColumnNames())

	kinds := map[string]table.Kind{}
	for _, col := range tbl.Columns {
		kinds[col.Name] = col.Kind
	}
	assert.Equal(t, table.KindNumeric, kinds["id"])
	assert.Equal(t, table.KindText, kinds["name"])
	assert.Equal(t, table.KindBoolean, kinds["active"])
	assert.Equal(t, table.KindDatetime, kinds["joined"])
	assert.Equal(t, table.KindNumeric, kinds["score"])

	score, _ := tbl.Column("score")
	assert.Equal(t, 2, score.MissingCount())
	name, _ := tbl.Column("name")
	assert.True(t, name.Values[2].Missing)
}

func TestLoadCSV_HeaderNormalization(t *testing.T) {
	src := "a,,a,a\n1,2,3,4\n"
	tbl, err := NewDataReader().Load(strings.NewReader(src), table.FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "Unnamed: 1", "a.1", "a.2"}, tbl.ColumnNames())
}

func TestLoadCSV_ShortRowsPadded(t *testing.T) {
	src := "a,b,c\n1,2\n4,5,6\n"
	tbl, err := NewDataReader().Load(strings.NewReader(src), table.FormatCSV)
	require.NoError(t, err)

	c, ok := tbl.Column("c")
	require.True(t, ok)
	assert.True(t, c.Values[0].Missing)
	assert.Equal(t, 6.0, c.Values[1].Num)
}

func TestLoadCSV_Failures(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"long row", "a,b\n1,2,3\n"},
		{"empty input", ""},
		{"bad quote", "a,b\n\"1,2\n"},
		{"invalid utf8", "a,b\n\xff\xfe,1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewDataReader().Load(strings.NewReader(tt.src), table.FormatCSV)
			require.Error(t, err)
			assert.True(t, apperrors.HasCode(err, apperrors.CodeParseFailure), "got %v", err)
		})
	}
}

func TestLoadCSV_StripsBOM(t *testing.T) {
	tbl, err := NewDataReader().Load(strings.NewReader("\ufeffx,y\n1,2\n"), table.FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, tbl.ColumnNames())
}

func TestLoadCSV_HeaderOnly(t *testing.T) {
	tbl, err := NewDataReader().Load(strings.NewReader("a,b\n"), table.FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, 0, tbl.RowCount())
	assert.Equal(t, 2, tbl.ColumnCount())
}

func TestLoadJSON_Layouts(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"records", `[{"a": 1, "b": "x"}, {"a": 2, "b": null}, {"b": "z", "a": 3}]`},
		{"json lines", "{\"a\": 1, \"b\": \"x\"}\n{\"a\": 2}\n\n{\"a\": 3, \"b\": \"z\"}\n"},
		{"columns of arrays", `{"a": [1, 2, 3], "b": ["x", null, "z"]}`},
		{"columns of objects", `{"a": {"0": 1, "1": 2, "2": 3}, "b": {"0": "x", "1": null, "2": "z"}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl, err := NewDataReader().Load(strings.NewReader(tt.src), table.FormatJSON)
			require.NoError(t, err)

			assert.Equal(t, []string{"a", "b"}, tbl.ColumnNames())
			assert.Equal(t, 3, tbl.RowCount())
			a, _ := tbl.Column("a")
			b, _ := tbl.Column("b")
			assert.Equal(t, table.KindNumeric, a.Kind)
			assert.Equal(t, table.KindText, b.Kind)
			assert.True(t, b.Values[1].Missing)
			assert.Equal(t, "z", b.Values[2].Text)
		})
	}
}

func TestLoadJSON_NativeBooleans(t *testing.T) {
	tbl, err := NewDataReader().Load(strings.NewReader(`[{"f": true}, {"f": false}, {"f": null}]`), table.FormatJSON)
	require.NoError(t, err)
	f, _ := tbl.Column("f")
	assert.Equal(t, table.KindBoolean, f.Kind)
	assert.Equal(t, 1, f.MissingCount())
}

func TestLoadJSON_Invalid(t *testing.T) {
	for _, src := range []string{`{"a": `, `[1, 2, 3]`, `"text"`, "{\"a\":1}\nnot json\n"} {
		_, err := NewDataReader().Load(strings.NewReader(src), table.FormatJSON)
		assert.True(t, apperrors.HasCode(err, apperrors.CodeParseFailure), "input %q gave %v", src, err)
	}
}

func TestLoadSpreadsheet_GarbageBytes(t *testing.T) {
	for _, format := range []table.Format{table.FormatXLSX, table.FormatXLS, table.FormatParquet} {
		_, err := NewDataReader().Load(strings.NewReader("definitely not a workbook"), format)
		assert.True(t, apperrors.HasCode(err, apperrors.CodeParseFailure), "%s gave %v", format, err)
	}
}

func TestLoad_UnsupportedFormat(t *testing.T) {
	_, err := NewDataReader().Load(strings.NewReader("a\n1\n"), table.Format("tsv"))
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUnsupportedFormat))
}

func TestLoadFile_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := NewDataReader().LoadFile(filepath.Join(dir, "missing.csv"))
	assert.True(t, apperrors.HasCode(err, apperrors.CodeTableNotFound))

	txt := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(txt, []byte("hello"), 0o644))
	_, err = NewDataReader().LoadFile(txt)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUnsupportedFormat))
}
