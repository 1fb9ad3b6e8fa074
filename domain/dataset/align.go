package dataset

import (
	"fmt"

	"github.com/eeko-kon/Statistical-analysis-of-non-targeted-LC-MSMS-data/domain/core"
)

// CheckAligned verifies the 1:1 row alignment between a feature table and its metadata.
func CheckAligned(ft *FeatureTable, md *MetadataTable) error {
	if ft.NumSamples() != md.NumSamples() {
		return fmt.Errorf("%w: %d feature rows vs %d metadata rows",
			core.ErrMisalignedTables, ft.NumSamples(), md.NumSamples())
	}
	for i, id := range ft.SampleIDs {
		if md.SampleIDs[i] != id {
			return fmt.Errorf("%w: row %d is %q in features but %q in metadata",
				core.ErrMisalignedTables, i, id, md.SampleIDs[i])
		}
	}
	return nil
}

// Align returns metadata reordered to the feature table's sample order. Metadata rows for
// samples absent from the feature table are dropped; a feature sample without metadata is
// an error. When md is already aligned it is returned unchanged.
func Align(ft *FeatureTable, md *MetadataTable) (*MetadataTable, error) {
	if CheckAligned(ft, md) == nil {
		return md, nil
	}

	values := make([][]string, 0, ft.NumSamples())
	var missing []string
	for _, id := range ft.SampleIDs {
		row, ok := md.sampleIndex[id]
		if !ok {
			missing = append(missing, id)
			continue
		}
		values = append(values, md.values[row])
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %d samples have no metadata (first: %q)",
			core.ErrMisalignedTables, len(missing), missing[0])
	}

	aligned, err := NewMetadataTable(md.Name, ft.SampleIDs, md.Attributes, values)
	if err != nil {
		return nil, err
	}
	return aligned, nil
}
