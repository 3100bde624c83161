package table

import (
	"path/filepath"
	"strings"
)

// Format identifies how a dataset file is encoded
type Format string

const (
	FormatCSV     Format = "csv"
	FormatXLSX    Format = "xlsx"
	FormatXLS     Format = "xls"
	FormatJSON    Format = "json"
	FormatParquet Format = "parquet"
)

var extensionFormats = map[string]Format{
	".csv":     FormatCSV,
	".xlsx":    FormatXLSX,
	".xls":     FormatXLS,
	".json":    FormatJSON,
	".parquet": FormatParquet,
}

// SupportedExtensions lists the accepted file extensions in a stable order
func SupportedExtensions() []string {
	return []string{".csv", ".xlsx", ".xls", ".json", ".parquet"}
}

// FormatForExtension maps an extension (with or without the dot, any case) to a Format
func FormatForExtension(ext string) (Format, bool) {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	f, ok := extensionFormats[ext]
	return f, ok
}

// FormatForPath maps a file name to a Format using its extension
func FormatForPath(path string) (Format, bool) {
	return FormatForExtension(filepath.Ext(path))
}

// IsSpreadsheet reports whether the format is one of the Excel variants
func (f Format) IsSpreadsheet() bool {
	return f == FormatXLSX || f == FormatXLS
}
