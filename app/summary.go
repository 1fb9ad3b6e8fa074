package app

import (
	"fmt"
	"math"

	mstats "github.com/montanaflynn/stats"

	"github.com/eeko-kon/Statistical-analysis-of-non-targeted-LC-MSMS-data/domain/core"
	"github.com/eeko-kon/Statistical-analysis-of-non-targeted-LC-MSMS-data/domain/stats"
)

// GroupSummary describes one group's non-missing intensities for a feature.
type GroupSummary struct {
	Label   string    `json:"label"`
	Values  []float64 `json:"values"`
	Missing int       `json:"missing"`
	Median  float64   `json:"median"`
	Q1      float64   `json:"q1"`
	Q3      float64   `json:"q3"`
	Min     float64   `json:"min"`
	Max     float64   `json:"max"`
	Mean    float64   `json:"mean"`
}

// FeatureGroups is the per-group view of a single feature behind a result row, as drawn in
// a box plot.
type FeatureGroups struct {
	Feature string              `json:"feature"`
	A       GroupSummary        `json:"a"`
	B       GroupSummary        `json:"b"`
	Row     stats.FeatureResult `json:"row"`
	Symbol  string              `json:"symbol"`
}

// FeatureGroups returns both groups' values for a feature of a computed result table.
func (s *AnalysisService) FeatureGroups(key core.RunKey, feature string) (*FeatureGroups, error) {
	table, err := s.Result(key)
	if err != nil {
		return nil, err
	}
	ft, md, err := s.session.Tables()
	if err != nil {
		return nil, err
	}
	if ft.ID != table.FeatureTableID || md.ID != table.MetadataTableID {
		return nil, fmt.Errorf("%w: tables of result %s were replaced", core.ErrResultNotFound, key)
	}

	col, ok := ft.FeatureIndex(feature)
	if !ok {
		return nil, fmt.Errorf("%w %q", core.ErrFeatureNotFound, feature)
	}
	row, ok := table.Row(feature)
	if !ok {
		return nil, fmt.Errorf("%w %q has no defined result in %s", core.ErrFeatureNotFound, feature, key)
	}
	groups, err := SelectGroups(md, table.Grouping)
	if err != nil {
		return nil, err
	}

	return &FeatureGroups{
		Feature: feature,
		A:       Summarize(table.Grouping.GroupA, ft.Column(col, groups.A)),
		B:       Summarize(table.Grouping.GroupB, ft.Column(col, groups.B)),
		Row:     row,
		Symbol:  stats.SignificanceSymbol(row.PCorrected),
	}, nil
}

// Summarize drops missing values and computes the five-number summary and mean.
// Statistics of an empty group are NaN.
func Summarize(label string, values []float64) GroupSummary {
	sum := GroupSummary{Label: label}
	for _, v := range values {
		if math.IsNaN(v) {
			sum.Missing++
			continue
		}
		sum.Values = append(sum.Values, v)
	}

	nan := math.NaN()
	sum.Median, sum.Q1, sum.Q3, sum.Min, sum.Max, sum.Mean = nan, nan, nan, nan, nan, nan
	data := mstats.Float64Data(sum.Values)
	if data.Len() == 0 {
		return sum
	}

	sum.Median, _ = data.Median()
	sum.Min, _ = data.Min()
	sum.Max, _ = data.Max()
	sum.Mean, _ = data.Mean()
	if data.Len() < 2 {
		sum.Q1, sum.Q3 = sum.Median, sum.Median
		return sum
	}
	if q, err := mstats.Quartile(data); err == nil {
		sum.Q1, sum.Q3 = q.Q1, q.Q3
	}
	return sum
}
