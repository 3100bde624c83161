package editor

import (
	"fmt"
	"log"
	"path/filepath"
	"time"

	"goeda/domain/core"
	"goeda/domain/eda"
	"goeda/domain/table"
	apperrors "goeda/internal/errors"
	"goeda/ports"
)

// ColumnEditor derives new datasets by dropping columns; the source file is never modified
type ColumnEditor struct {
	writer ports.TableWriter
}

// NewColumnEditor creates an editor that persists derived tables through writer
func NewColumnEditor(writer ports.TableWriter) *ColumnEditor {
	return &ColumnEditor{writer: writer}
}

// Remove validates names against tbl and returns the derived table plus the
// deduplicated list of removed columns. Nothing is removed unless every name exists.
func (e *ColumnEditor) Remove(tbl *table.Table, names []string) (*table.Table, []string, error) {
	if len(names) == 0 {
		return nil, nil, apperrors.EmptyRequest("no columns specified for removal")
	}

	seen := make(map[string]bool, len(names))
	var unique, missing []string
	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true
		if _, ok := tbl.Column(name); !ok {
			missing = append(missing, name)
			continue
		}
		unique = append(unique, name)
	}
	if len(missing) > 0 {
		return nil, nil, apperrors.ColumnNotFound(missing)
	}
	if len(unique) == tbl.ColumnCount() {
		return nil, nil, apperrors.InvalidInput("cannot remove every column from a dataset")
	}

	return tbl.Without(unique), unique, nil
}

// RemoveAndSave removes names from tbl, which was loaded from sourcePath, and
// writes the result next to it as <base>_eda<ext> in the source format
func (e *ColumnEditor) RemoveAndSave(sourcePath string, tbl *table.Table, names []string) (*eda.RemovalResult, error) {
	startTime := time.Now()

	derived, removed, err := e.Remove(tbl, names)
	if err != nil {
		return nil, err
	}

	sourceName := filepath.Base(sourcePath)
	newName := core.DerivedName(sourceName)
	newPath := filepath.Join(filepath.Dir(sourcePath), newName)
	if err := e.writer.SaveFile(newPath, derived); err != nil {
		return nil, apperrors.Wrapf(err, "failed to save %s", newName)
	}

	log.Printf("[ColumnEditor] removed %d column(s) from %s in %.2fms",
		len(removed), sourceName, float64(time.Since(startTime).Nanoseconds())/1e6)

	return &eda.RemovalResult{
		OriginalFilename: sourceName,
		NewFilename:      newName,
		OriginalColumns:  tbl.ColumnCount(),
		NewColumns:       derived.ColumnCount(),
		RemovedColumns:   removed,
		ColumnsRemaining: derived.ColumnNames(),
		FilePath:         newPath,
		Message:          fmt.Sprintf("Successfully removed %d column(s) and saved as %s", len(removed), newName),
	}, nil
}
