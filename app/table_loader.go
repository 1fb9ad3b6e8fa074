package app

import (
	"fmt"

	"github.com/eeko-kon/Statistical-analysis-of-non-targeted-LC-MSMS-data/ports"
)

// TableSource names the files of a feature/metadata pair.
type TableSource struct {
	FeaturePath  string
	MetadataPath string
	Transpose    bool
	Sheet        string
}

// Paths lists both files, for watching.
func (src TableSource) Paths() []string {
	return []string{src.FeaturePath, src.MetadataPath}
}

// LoadFiles reads both tables with reader and installs them in the session.
func (s *AnalysisService) LoadFiles(reader ports.TableReader, src TableSource, source string) error {
	ft, err := reader.ReadFeatureTable(src.FeaturePath, ports.TableReadOptions{Transpose: src.Transpose, Sheet: src.Sheet})
	if err != nil {
		return fmt.Errorf("feature table: %w", err)
	}
	md, err := reader.ReadMetadataTable(src.MetadataPath, ports.TableReadOptions{Sheet: src.Sheet})
	if err != nil {
		return fmt.Errorf("metadata table: %w", err)
	}
	return s.LoadTables(ft, md, source)
}

// Reload is the file watcher callback: a failed reload keeps the previous tables.
func (s *AnalysisService) Reload(reader ports.TableReader, src TableSource) func() {
	return func() {
		if err := s.LoadFiles(reader, src, "watch"); err != nil {
			s.logger.Warn("reload of %s failed, keeping previous tables: %v", src.FeaturePath, err)
		}
	}
}
