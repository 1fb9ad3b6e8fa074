// Package export writes result tables in the column layout of the original FBMN-STATS
// downloads.
package export

import (
	"bytes"
	"fmt"
	"io"

	"github.com/gocarina/gocsv"

	"github.com/eeko-kon/Statistical-analysis-of-non-targeted-LC-MSMS-data/domain/stats"
)

type mwuRow struct {
	Metabolite  string  `csv:"metabolite"`
	Statistic   float64 `csv:"U-val"`
	Alternative string  `csv:"alternative"`
	PValue      float64 `csv:"p-val"`
	RBC         float64 `csv:"RBC"`
	CLES        float64 `csv:"CLES"`
	PCorrected  float64 `csv:"p-corrected"`
	Significant bool    `csv:"significance"`
	Attribute   string  `csv:"mwu_attribute"`
	GroupA      string  `csv:"A"`
	GroupB      string  `csv:"B"`
}

type wilcoxonRow struct {
	Metabolite  string  `csv:"metabolite"`
	Statistic   float64 `csv:"W-val"`
	Alternative string  `csv:"alternative"`
	PValue      float64 `csv:"p-val"`
	RBC         float64 `csv:"RBC"`
	CLES        float64 `csv:"CLES"`
	PCorrected  float64 `csv:"p-corrected"`
	Significant bool    `csv:"significance"`
	Attribute   string  `csv:"wilcoxon_attribute"`
	GroupA      string  `csv:"A"`
	GroupB      string  `csv:"B"`
}

// WriteCSV writes table to w with a header row, one line per result row in table order.
func WriteCSV(w io.Writer, table *stats.ResultTable) error {
	alt := string(table.Alternative)

	var rows interface{}
	switch table.Family {
	case stats.PairedSamples:
		out := make([]*wilcoxonRow, len(table.Rows))
		for i, r := range table.Rows {
			out[i] = &wilcoxonRow{r.Feature, r.Statistic, alt, r.PValue, r.RBC, r.CLES,
				r.PCorrected, r.Significant, r.Attribute, r.GroupA, r.GroupB}
		}
		rows = out
	case stats.IndependentGroups:
		out := make([]*mwuRow, len(table.Rows))
		for i, r := range table.Rows {
			out[i] = &mwuRow{r.Feature, r.Statistic, alt, r.PValue, r.RBC, r.CLES,
				r.PCorrected, r.Significant, r.Attribute, r.GroupA, r.GroupB}
		}
		rows = out
	default:
		return fmt.Errorf("cannot export result table of family %q", table.Family)
	}

	if len(table.Rows) == 0 {
		_, err := io.WriteString(w, header(table.Family)+"\n")
		return err
	}
	return gocsv.Marshal(rows, w)
}

// CSVBytes renders table as CSV in memory.
func CSVBytes(table *stats.ResultTable) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, table); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// FileName is the suggested download name, e.g. "mwu_cohort_A_vs_B.csv".
func FileName(table *stats.ResultTable) string {
	return fmt.Sprintf("%s_%s_%s_vs_%s.csv", table.Family, table.Grouping.Attribute,
		table.Grouping.GroupA, table.Grouping.GroupB)
}

func header(family stats.TestFamily) string {
	return fmt.Sprintf("metabolite,%s,alternative,p-val,RBC,CLES,p-corrected,significance,%s_attribute,A,B",
		family.StatisticName(), family)
}
