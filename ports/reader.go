package ports

import (
	"github.com/eeko-kon/Statistical-analysis-of-non-targeted-LC-MSMS-data/domain/dataset"
)

// TableReadOptions controls how a feature file is interpreted.
type TableReadOptions struct {
	// Transpose reads features as rows and samples as columns.
	Transpose bool
	// Sheet selects a worksheet in xlsx files; empty means the first sheet.
	Sheet string
}

// TableReader loads feature and metadata tables from files.
type TableReader interface {
	ReadFeatureTable(path string, opts TableReadOptions) (*dataset.FeatureTable, error)
	ReadMetadataTable(path string, opts TableReadOptions) (*dataset.MetadataTable, error)
}
