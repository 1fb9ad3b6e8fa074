package app

import (
	"fmt"
	"math"
	"sort"

	"github.com/eeko-kon/Statistical-analysis-of-non-targeted-LC-MSMS-data/domain/core"
	"github.com/eeko-kon/Statistical-analysis-of-non-targeted-LC-MSMS-data/domain/stats"
)

// ResultProvenance is copied onto every result table.
type ResultProvenance struct {
	Key             core.RunKey
	Family          stats.TestFamily
	Grouping        stats.Grouping
	Alternative     stats.Alternative
	Correction      stats.CorrectionMethod
	FeatureTableID  core.TableID
	MetadataTableID core.TableID
}

// BuildResultTable joins outcomes with corrected p-values position by position, drops
// features whose corrected p-value is undefined, flags significance and sorts ascending by
// corrected p-value. The sort is stable so ties keep feature order. Inputs are not modified.
func BuildResultTable(outcomes []stats.FeatureOutcome, corrected []float64, prov ResultProvenance) (*stats.ResultTable, error) {
	if len(outcomes) != len(corrected) {
		return nil, fmt.Errorf("%d outcomes but %d corrected p-values", len(outcomes), len(corrected))
	}

	table := &stats.ResultTable{
		Key:             prov.Key,
		Family:          prov.Family,
		Grouping:        prov.Grouping,
		Alternative:     prov.Alternative,
		Correction:      prov.Correction,
		FeatureTableID:  prov.FeatureTableID,
		MetadataTableID: prov.MetadataTableID,
		Tested:          len(outcomes),
		Rows:            make([]stats.FeatureResult, 0, len(outcomes)),
	}

	for i, o := range outcomes {
		pc := corrected[i]
		if !o.Result.Defined() || math.IsNaN(pc) {
			table.Undefined++
			continue
		}
		table.Rows = append(table.Rows, stats.FeatureResult{
			Feature:     o.Feature,
			Statistic:   o.Result.Statistic,
			PValue:      o.Result.PValue,
			PCorrected:  pc,
			Significant: stats.IsSignificant(pc),
			Attribute:   prov.Grouping.Attribute,
			GroupA:      prov.Grouping.GroupA,
			GroupB:      prov.Grouping.GroupB,
			RBC:         o.Result.RBC,
			CLES:        o.Result.CLES,
			SizeA:       o.Result.SizeA,
			SizeB:       o.Result.SizeB,
			Method:      o.Result.Method,
		})
	}

	sort.SliceStable(table.Rows, func(i, j int) bool {
		return table.Rows[i].PCorrected < table.Rows[j].PCorrected
	})
	return table, nil
}

// rawPValues extracts the raw p-value vector; undefined results contribute NaN.
func rawPValues(outcomes []stats.FeatureOutcome) []float64 {
	out := make([]float64, len(outcomes))
	for i, o := range outcomes {
		if o.Result.Defined() {
			out[i] = o.Result.PValue
		} else {
			out[i] = math.NaN()
		}
	}
	return out
}

// undefinedReasons counts undefined outcomes by reason.
func undefinedReasons(outcomes []stats.FeatureOutcome) map[string]int {
	counts := make(map[string]int)
	for _, o := range outcomes {
		if !o.Result.Defined() {
			reason := string(o.Result.Undefined)
			if reason == "" {
				reason = "NAN_P_VALUE"
			}
			counts[reason]++
		}
	}
	return counts
}
