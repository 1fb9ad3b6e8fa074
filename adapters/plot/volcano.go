package plot

import (
	"fmt"
	"math"

	"github.com/wcharczuk/go-chart/v2"

	"github.com/eeko-kon/Statistical-analysis-of-non-targeted-LC-MSMS-data/domain/stats"
)

// maxVolcanoLabels is how many significant features get a text label.
const maxVolcanoLabels = 6

// Volcano plots ln(statistic) against -ln(corrected p) for every row of table. Significant
// rows are drawn in red and the first six of them, in table order, are labelled. Rows with a
// non-finite coordinate (a zero statistic or corrected p) are left out.
func Volcano(table *stats.ResultTable) ([]byte, error) {
	var sigX, sigY, nsX, nsY []float64
	var labels []chart.Value2
	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)

	for _, row := range table.Rows {
		x := math.Log(row.Statistic)
		y := -math.Log(row.PCorrected)
		if math.IsNaN(x) || math.IsInf(x, 0) || math.IsNaN(y) || math.IsInf(y, 0) {
			continue
		}
		minX, maxX = math.Min(minX, x), math.Max(maxX, x)
		minY, maxY = math.Min(minY, y), math.Max(maxY, y)

		if row.Significant {
			sigX, sigY = append(sigX, x), append(sigY, y)
			if len(labels) < maxVolcanoLabels {
				labels = append(labels, chart.Value2{XValue: x, YValue: y, Label: row.Feature})
			}
		} else {
			nsX, nsY = append(nsX, x), append(nsY, y)
		}
	}
	if len(sigX)+len(nsX) == 0 {
		return nil, ErrNoPoints
	}

	var series []chart.Series
	if len(nsX) > 0 {
		series = append(series, chart.ContinuousSeries{
			Name: "not significant", XValues: nsX, YValues: nsY, Style: pointStyle(insignificantColor, 4),
		})
	}
	if len(sigX) > 0 {
		series = append(series, chart.ContinuousSeries{
			Name: "significant", XValues: sigX, YValues: sigY, Style: pointStyle(significantColor, 5),
		})
	}
	if len(labels) > 0 {
		series = append(series, chart.AnnotationSeries{Annotations: labels})
	}

	graph := chart.Chart{
		Title:      fmt.Sprintf("%s: %s vs %s", table.Family.DisplayName(), table.Grouping.GroupA, table.Grouping.GroupB),
		Width:      defaultWidth,
		Height:     defaultHeight,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis:      chart.XAxis{Name: "ln(" + table.Family.StatisticName() + ")", Range: paddedRange(minX, maxX, 0.05)},
		YAxis:      chart.YAxis{Name: "-ln(p-corrected)", Range: paddedRange(math.Min(minY, 0), maxY, 0.1)},
		Series:     series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}
	return render(graph)
}
