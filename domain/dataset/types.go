package dataset

import (
	"fmt"
	"math"
	"strings"

	"github.com/eeko-kon/Statistical-analysis-of-non-targeted-LC-MSMS-data/domain/core"
)

// FeatureTable is a sample x feature intensity matrix. Missing cells are NaN.
// Tables are immutable once constructed; accessors return copies.
type FeatureTable struct {
	ID        core.TableID `json:"id"`
	Name      string       `json:"name"`
	SampleIDs []string     `json:"sample_ids"`
	Features  []string     `json:"features"`
	values    [][]float64  // [sample][feature]

	sampleIndex  map[string]int
	featureIndex map[string]int
}

// NewFeatureTable validates dimensions and identifier uniqueness and assigns a fresh table ID.
func NewFeatureTable(name string, sampleIDs, features []string, values [][]float64) (*FeatureTable, error) {
	if len(sampleIDs) == 0 || len(features) == 0 {
		return nil, fmt.Errorf("%w: feature table %q has %d samples and %d features",
			core.ErrEmptyTable, name, len(sampleIDs), len(features))
	}
	if len(values) != len(sampleIDs) {
		return nil, core.NewValidationError("values", fmt.Sprintf("%d rows for %d samples", len(values), len(sampleIDs)))
	}

	sampleIndex, err := indexUnique("sample id", sampleIDs)
	if err != nil {
		return nil, err
	}
	featureIndex, err := indexUnique("feature id", features)
	if err != nil {
		return nil, err
	}

	copied := make([][]float64, len(values))
	for i, row := range values {
		if len(row) != len(features) {
			return nil, core.NewValidationError("values",
				fmt.Sprintf("row %d (%s) has %d cells, expected %d", i, sampleIDs[i], len(row), len(features)))
		}
		copied[i] = append([]float64(nil), row...)
	}

	return &FeatureTable{
		ID:           core.NewTableID(),
		Name:         name,
		SampleIDs:    append([]string(nil), sampleIDs...),
		Features:     append([]string(nil), features...),
		values:       copied,
		sampleIndex:  sampleIndex,
		featureIndex: featureIndex,
	}, nil
}

func (t *FeatureTable) NumSamples() int  { return len(t.SampleIDs) }
func (t *FeatureTable) NumFeatures() int { return len(t.Features) }

// Value returns the cell at (sample row, feature column).
func (t *FeatureTable) Value(row, col int) float64 { return t.values[row][col] }

// FeatureIndex returns the column of a feature id.
func (t *FeatureTable) FeatureIndex(feature string) (int, bool) {
	j, ok := t.featureIndex[feature]
	return j, ok
}

// SampleIndex returns the row of a sample id.
func (t *FeatureTable) SampleIndex(sample string) (int, bool) {
	i, ok := t.sampleIndex[sample]
	return i, ok
}

// Column returns feature col restricted to rows, in the order given. Missing cells stay NaN.
func (t *FeatureTable) Column(col int, rows []int) []float64 {
	out := make([]float64, len(rows))
	for k, r := range rows {
		out[k] = t.values[r][col]
	}
	return out
}

// MissingRate is the fraction of NaN cells across the table.
func (t *FeatureTable) MissingRate() float64 {
	missing := 0
	for _, row := range t.values {
		for _, v := range row {
			if math.IsNaN(v) {
				missing++
			}
		}
	}
	return float64(missing) / float64(len(t.values)*len(t.Features))
}

// MetadataTable is a sample x attribute table of raw string values. Missing cells are "".
type MetadataTable struct {
	ID         core.TableID `json:"id"`
	Name       string       `json:"name"`
	SampleIDs  []string     `json:"sample_ids"`
	Attributes []string     `json:"attributes"`
	values     [][]string

	sampleIndex    map[string]int
	attributeIndex map[string]int
}

// NewMetadataTable normalises missing markers and assigns a fresh table ID.
func NewMetadataTable(name string, sampleIDs, attributes []string, values [][]string) (*MetadataTable, error) {
	if len(sampleIDs) == 0 {
		return nil, fmt.Errorf("%w: metadata table %q has no samples", core.ErrEmptyTable, name)
	}
	if len(values) != len(sampleIDs) {
		return nil, core.NewValidationError("values", fmt.Sprintf("%d rows for %d samples", len(values), len(sampleIDs)))
	}

	sampleIndex, err := indexUnique("sample id", sampleIDs)
	if err != nil {
		return nil, err
	}
	attributeIndex, err := indexUnique("attribute", attributes)
	if err != nil {
		return nil, err
	}

	copied := make([][]string, len(values))
	for i, row := range values {
		if len(row) != len(attributes) {
			return nil, core.NewValidationError("values",
				fmt.Sprintf("row %d (%s) has %d cells, expected %d", i, sampleIDs[i], len(row), len(attributes)))
		}
		copied[i] = make([]string, len(row))
		for j, v := range row {
			copied[i][j] = NormalizeCell(v)
		}
	}

	return &MetadataTable{
		ID:             core.NewTableID(),
		Name:           name,
		SampleIDs:      append([]string(nil), sampleIDs...),
		Attributes:     append([]string(nil), attributes...),
		values:         copied,
		sampleIndex:    sampleIndex,
		attributeIndex: attributeIndex,
	}, nil
}

func (m *MetadataTable) NumSamples() int { return len(m.SampleIDs) }

// AttributeIndex returns the column of an attribute.
func (m *MetadataTable) AttributeIndex(attribute string) (int, bool) {
	j, ok := m.attributeIndex[attribute]
	return j, ok
}

// Attribute returns a copy of one attribute column in table row order.
func (m *MetadataTable) Attribute(attribute string) ([]string, error) {
	j, ok := m.attributeIndex[attribute]
	if !ok {
		return nil, fmt.Errorf("%w %q", core.ErrAttributeMissing, attribute)
	}
	out := make([]string, len(m.values))
	for i, row := range m.values {
		out[i] = row[j]
	}
	return out, nil
}

// Value returns the raw cell at (sample row, attribute column).
func (m *MetadataTable) Value(row, col int) string { return m.values[row][col] }

// missingMarkers are the spellings spreadsheet exports use for an empty cell.
var missingMarkers = map[string]bool{
	"":     true,
	"na":   true,
	"n/a":  true,
	"nan":  true,
	"null": true,
	"none": true,
	"-":    true,
}

// NormalizeCell trims a metadata cell and maps missing markers to "".
func NormalizeCell(v string) string {
	v = strings.TrimSpace(v)
	if missingMarkers[strings.ToLower(v)] {
		return ""
	}
	return v
}

// IsMissing reports whether a normalised metadata cell is missing.
func IsMissing(v string) bool { return v == "" }

func indexUnique(kind string, ids []string) (map[string]int, error) {
	index := make(map[string]int, len(ids))
	for i, id := range ids {
		if strings.TrimSpace(id) == "" {
			return nil, core.NewValidationError(kind, fmt.Sprintf("empty %s at position %d", kind, i))
		}
		if prev, dup := index[id]; dup {
			return nil, core.NewValidationError(kind, fmt.Sprintf("duplicate %s %q at positions %d and %d", kind, id, prev, i))
		}
		index[id] = i
	}
	return index, nil
}
