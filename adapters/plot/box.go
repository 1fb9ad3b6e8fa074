package plot

import (
	"fmt"
	"math"

	mstats "github.com/montanaflynn/stats"
	"github.com/wcharczuk/go-chart/v2"

	"github.com/eeko-kon/Statistical-analysis-of-non-targeted-LC-MSMS-data/domain/stats"
)

// Group is one box of a box plot.
type Group struct {
	Label  string
	Values []float64
}

// box holds Tukey box geometry: whiskers end at the most extreme points within 1.5 IQR.
type box struct {
	q1, median, q3 float64
	lower, upper   float64
}

func tukeyBox(values []float64) (box, error) {
	data := mstats.Float64Data(values)
	median, err := data.Median()
	if err != nil {
		return box{}, err
	}
	b := box{q1: median, median: median, q3: median}
	if data.Len() > 1 {
		q, err := mstats.Quartile(data)
		if err != nil {
			return box{}, err
		}
		b.q1, b.q3 = q.Q1, q.Q3
	}

	iqr := b.q3 - b.q1
	b.lower, b.upper = b.q1, b.q3
	for _, v := range values {
		if v >= b.q1-1.5*iqr && v < b.lower {
			b.lower = v
		}
		if v <= b.q3+1.5*iqr && v > b.upper {
			b.upper = v
		}
	}
	return b, nil
}

// BoxPlot draws one box per group with every observation overlaid and the significance
// symbol for the corrected p-value above the boxes. NaN observations are ignored.
func BoxPlot(feature string, pCorrected float64, groups ...Group) ([]byte, error) {
	const halfWidth = 0.25

	var series []chart.Series
	var ticks []chart.Tick
	minY, maxY := math.Inf(1), math.Inf(-1)

	for i, g := range groups {
		x := float64(i)
		ticks = append(ticks, chart.Tick{Value: x, Label: g.Label})

		var values []float64
		for _, v := range g.Values {
			if !math.IsNaN(v) {
				values = append(values, v)
			}
		}
		if len(values) == 0 {
			continue
		}
		b, err := tukeyBox(values)
		if err != nil {
			return nil, fmt.Errorf("box for %s: %w", g.Label, err)
		}
		color := boxColors[i%len(boxColors)]

		for _, v := range values {
			minY, maxY = math.Min(minY, v), math.Max(maxY, v)
		}

		series = append(series,
			chart.ContinuousSeries{
				XValues: []float64{x - halfWidth, x + halfWidth, x + halfWidth, x - halfWidth, x - halfWidth},
				YValues: []float64{b.q1, b.q1, b.q3, b.q3, b.q1},
				Style:   lineStyle(color, 2),
			},
			chart.ContinuousSeries{
				XValues: []float64{x - halfWidth, x + halfWidth},
				YValues: []float64{b.median, b.median},
				Style:   lineStyle(color, 3),
			},
			chart.ContinuousSeries{
				XValues: []float64{x, x},
				YValues: []float64{b.q3, b.upper},
				Style:   lineStyle(color, 1),
			},
			chart.ContinuousSeries{
				XValues: []float64{x, x},
				YValues: []float64{b.lower, b.q1},
				Style:   lineStyle(color, 1),
			},
			chart.ContinuousSeries{
				XValues: jitter(x, len(values)),
				YValues: values,
				Style:   pointStyle(color, 3),
			},
		)
	}
	if len(series) == 0 {
		return nil, ErrNoPoints
	}

	yRange := paddedRange(minY, maxY, 0.15)
	symbolY := yRange.Max - (yRange.Max-maxY)/2
	series = append(series, chart.AnnotationSeries{Annotations: []chart.Value2{
		{XValue: float64(len(groups)-1) / 2, YValue: symbolY, Label: stats.SignificanceSymbol(pCorrected)},
	}})

	graph := chart.Chart{
		Title:      feature,
		Width:      defaultWidth / 2,
		Height:     defaultHeight,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis: chart.XAxis{
			Range: &chart.ContinuousRange{Min: -0.6, Max: float64(len(groups)) - 0.4},
			Ticks: ticks,
		},
		YAxis:  chart.YAxis{Name: "intensity", Range: yRange},
		Series: series,
	}
	return render(graph)
}

// jitter spreads n points deterministically across the middle of a box.
func jitter(x float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		if n == 1 {
			out[i] = x
			continue
		}
		out[i] = x - 0.12 + 0.24*float64(i)/float64(n-1)
	}
	return out
}
