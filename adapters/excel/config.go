package excel

import (
	"path/filepath"
	"strings"
)

// FileFormat is the on-disk layout of a table
type FileFormat string

const (
	FormatCSV  FileFormat = "csv"
	FormatTSV  FileFormat = "tsv"
	FormatXLSX FileFormat = "xlsx"
)

// DetectFormat maps a file name to its format by extension. Unknown extensions are read
// as CSV, which is what the feature-finding tools export by default.
func DetectFormat(name string) FileFormat {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".tsv", ".txt", ".tab":
		return FormatTSV
	case ".xlsx", ".xlsm":
		return FormatXLSX
	}
	return FormatCSV
}

// numericMissing are intensity cells read as NaN
var numericMissing = map[string]bool{
	"":     true,
	"na":   true,
	"n/a":  true,
	"nan":  true,
	"null": true,
	"none": true,
	"-":    true,
}
