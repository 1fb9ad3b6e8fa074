package export

import (
	"strings"
	"testing"

	"github.com/gocarina/gocsv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eeko-kon/Statistical-analysis-of-non-targeted-LC-MSMS-data/domain/stats"
)

func sampleTable(family stats.TestFamily) *stats.ResultTable {
	g := stats.Grouping{Attribute: "cohort", GroupA: "A", GroupB: "B"}
	return &stats.ResultTable{
		Family:      family,
		Grouping:    g,
		Alternative: stats.TwoSided,
		Correction:  stats.CorrectionFDRBH,
		Rows: []stats.FeatureResult{
			{Feature: "m_101", Statistic: 0, PValue: 0.01, PCorrected: 0.02, Significant: true,
				Attribute: "cohort", GroupA: "A", GroupB: "B", RBC: -1, CLES: 0},
			{Feature: "m_202", Statistic: 5, PValue: 0.5, PCorrected: 0.5,
				Attribute: "cohort", GroupA: "A", GroupB: "B", RBC: 0.11, CLES: 0.555},
		},
	}
}

func TestWriteCSVIndependentGroups(t *testing.T) {
	data, err := CSVBytes(sampleTable(stats.IndependentGroups))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, header(stats.IndependentGroups), lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "m_101,0,two-sided,0.01,-1,0,0.02,true,cohort,A,B"))

	var rows []*mwuRow
	require.NoError(t, gocsv.UnmarshalBytes(data, &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, 0.555, rows[1].CLES)
	assert.False(t, rows[1].Significant)
}

func TestWriteCSVPairedSamples(t *testing.T) {
	data, err := CSVBytes(sampleTable(stats.PairedSamples))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "metabolite,W-val,alternative,p-val,RBC,CLES,p-corrected,significance,wilcoxon_attribute,A,B\n"))
}

func TestWriteCSVEmptyAndUnknown(t *testing.T) {
	table := sampleTable(stats.IndependentGroups)
	table.Rows = nil
	data, err := CSVBytes(table)
	require.NoError(t, err)
	assert.Equal(t, header(stats.IndependentGroups)+"\n", string(data))

	_, err = CSVBytes(&stats.ResultTable{Family: "anova"})
	assert.Error(t, err)
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "wilcoxon_cohort_A_vs_B.csv", FileName(sampleTable(stats.PairedSamples)))
}
