// Package plot renders result tables as PNG charts.
package plot

import (
	"bytes"
	"errors"
	"math"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ErrNoPoints is returned when nothing in the input has finite coordinates.
var ErrNoPoints = errors.New("no plottable points")

const (
	defaultWidth  = 900
	defaultHeight = 600
)

var (
	significantColor   = drawing.ColorFromHex("d62728")
	insignificantColor = drawing.ColorFromHex("9e9e9e")
	boxColors          = []drawing.Color{drawing.ColorFromHex("1f77b4"), drawing.ColorFromHex("ff7f0e")}
)

// pointStyle renders points only, no connecting line
func pointStyle(col drawing.Color, width float64) chart.Style {
	return chart.Style{
		StrokeWidth: chart.Disabled,
		DotWidth:    width,
		DotColor:    col,
	}
}

func lineStyle(col drawing.Color, width float64) chart.Style {
	return chart.Style{
		StrokeWidth: width,
		StrokeColor: col,
	}
}

// paddedRange widens [lo, hi] by frac on each side and never returns a zero-width range.
func paddedRange(lo, hi, frac float64) *chart.ContinuousRange {
	if hi <= lo {
		pad := math.Max(math.Abs(lo)*0.1, 1)
		return &chart.ContinuousRange{Min: lo - pad, Max: hi + pad}
	}
	pad := (hi - lo) * frac
	return &chart.ContinuousRange{Min: lo - pad, Max: hi + pad}
}

func render(graph chart.Chart) ([]byte, error) {
	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}
