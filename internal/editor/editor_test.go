package editor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goeda/adapters/tabular"
	"goeda/domain/table"
	apperrors "goeda/internal/errors"
)

const sourceCSV = "id,name,score,notes\n1,ann,9.5,x\n2,bob,7,y\n3,cy,8,\n"

func writeSource(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func loadSource(t *testing.T, path string) *table.Table {
	t.Helper()
	tbl, err := tabular.NewDataReader().LoadFile(path)
	require.NoError(t, err)
	return tbl
}

func TestRemove_EmptyRequest(t *testing.T) {
	tbl := loadSource(t, writeSource(t, "s.csv", sourceCSV))
	_, _, err := NewColumnEditor(tabular.NewDataWriter()).Remove(tbl, nil)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeEmptyRequest))
}

func TestRemove_ReportsEveryMissingColumn(t *testing.T) {
	tbl := loadSource(t, writeSource(t, "s.csv", sourceCSV))
	_, _, err := NewColumnEditor(tabular.NewDataWriter()).Remove(tbl, []string{"name", "ghost_col", "other"})

	require.Error(t, err)
	assert.Equal(t, apperrors.CodeColumnNotFound, apperrors.GetCode(err))
	assert.Equal(t, []string{"ghost_col", "other"}, apperrors.GetDetails(err))
}

func TestRemove_DeduplicatesNames(t *testing.T) {
	tbl := loadSource(t, writeSource(t, "s.csv", sourceCSV))
	derived, removed, err := NewColumnEditor(tabular.NewDataWriter()).Remove(tbl, []string{"notes", "notes"})

	require.NoError(t, err)
	assert.Equal(t, []string{"notes"}, removed)
	assert.Equal(t, []string{"id", "name", "score"}, derived.ColumnNames())
}

func TestRemove_RejectsRemovingEveryColumn(t *testing.T) {
	tbl := loadSource(t, writeSource(t, "s.csv", sourceCSV))
	_, _, err := NewColumnEditor(tabular.NewDataWriter()).Remove(tbl, []string{"id", "name", "score", "notes"})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidInput))
}

func TestRemoveAndSave_WritesDerivedFile(t *testing.T) {
	src := writeSource(t, "abc_sales.csv", sourceCSV)
	tbl := loadSource(t, src)

	result, err := NewColumnEditor(tabular.NewDataWriter()).RemoveAndSave(src, tbl, []string{"notes", "score"})
	require.NoError(t, err)

	assert.Equal(t, "abc_sales.csv", result.OriginalFilename)
	assert.Equal(t, "abc_sales_eda.csv", result.NewFilename)
	assert.Equal(t, 4, result.OriginalColumns)
	assert.Equal(t, 2, result.NewColumns)
	assert.Equal(t, []string{"notes", "score"}, result.RemovedColumns)
	assert.Equal(t, []string{"id", "name"}, result.ColumnsRemaining)
	assert.Equal(t, "Successfully removed 2 column(s) and saved as abc_sales_eda.csv", result.Message)

	derived := loadSource(t, result.FilePath)
	assert.Equal(t, []string{"id", "name"}, derived.ColumnNames())
	assert.Equal(t, 3, derived.RowCount())

	raw, err := os.ReadFile(src)
	require.NoError(t, err)
	assert.Equal(t, sourceCSV, string(raw), "source file must not change")
}

func TestRemoveAndSave_GhostColumnLeavesNoFile(t *testing.T) {
	src := writeSource(t, "abc_sales.csv", sourceCSV)
	tbl := loadSource(t, src)

	_, err := NewColumnEditor(tabular.NewDataWriter()).RemoveAndSave(src, tbl, []string{"ghost_col"})
	require.Error(t, err)

	_, statErr := os.Stat(filepath.Join(filepath.Dir(src), "abc_sales_eda.csv"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestRemoveAndSave_IsIdempotent(t *testing.T) {
	src := writeSource(t, "data.json", `[{"a":1,"b":"x"},{"a":2,"b":"y"}]`)
	tbl := loadSource(t, src)
	ed := NewColumnEditor(tabular.NewDataWriter())

	first, err := ed.RemoveAndSave(src, tbl, []string{"b"})
	require.NoError(t, err)
	firstBytes, err := os.ReadFile(first.FilePath)
	require.NoError(t, err)

	second, err := ed.RemoveAndSave(src, tbl, []string{"b"})
	require.NoError(t, err)
	secondBytes, err := os.ReadFile(second.FilePath)
	require.NoError(t, err)

	assert.Equal(t, first.FilePath, second.FilePath)
	assert.Equal(t, firstBytes, secondBytes)
}
