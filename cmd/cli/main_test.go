package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goeda/domain/eda"
	apperrors "goeda/internal/errors"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestExitCodeFor(t *testing.T) {
	assert.Equal(t, 3, exitCodeFor(apperrors.UnsupportedFormat(".txt")))
	assert.Equal(t, 4, exitCodeFor(apperrors.ParseFailure("csv", nil)))
	assert.Equal(t, 5, exitCodeFor(apperrors.TableNotFound("x")))
	assert.Equal(t, 6, exitCodeFor(apperrors.ColumnNotFound([]string{"x"})))
	assert.Equal(t, 7, exitCodeFor(apperrors.EmptyRequest("none")))
	assert.Equal(t, 8, exitCodeFor(apperrors.AnalysisFailure(nil)))
	assert.Equal(t, 1, exitCodeFor(os.ErrPermission))
}

func TestAnalyzeCommand(t *testing.T) {
	path := writeFile(t, "sales.csv", "a,b\n1,x\n2,y\n3,x\n")

	out, err := run(t, "analyze", path, "--seed", "3")
	require.NoError(t, err)

	var result eda.AnalysisResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, "sales.csv", result.Overview.Filename)
	assert.Equal(t, 3, result.Overview.TotalRows)
}

func TestRemoveColumnsCommand(t *testing.T) {
	path := writeFile(t, "sales.csv", "a,b\n1,x\n2,y\n")

	_, err := run(t, "remove-columns", path)
	assert.Equal(t, 7, exitCodeFor(err))

	_, err = run(t, "remove-columns", path, "ghost_col")
	assert.Equal(t, 6, exitCodeFor(err))

	out, err := run(t, "remove-columns", path, "b")
	require.NoError(t, err)
	assert.Contains(t, out, "sales_eda.csv")
	_, statErr := os.Stat(filepath.Join(filepath.Dir(path), "sales_eda.csv"))
	assert.NoError(t, statErr)
}

func TestReportCommand_ToFile(t *testing.T) {
	path := writeFile(t, "sales.json", `[{"a":1},{"a":2}]`)
	out := filepath.Join(t.TempDir(), "report.html")

	_, err := run(t, "report", path, "--format", "html", "-o", out)
	require.NoError(t, err)

	body, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(body), "<h1")
}

func TestAnalyzeCommand_MissingFile(t *testing.T) {
	_, err := run(t, "analyze", filepath.Join(t.TempDir(), "nope.csv"))
	assert.Equal(t, 5, exitCodeFor(err))
}
