// internal/render/charts.go
package render

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"gonum.org/v1/gonum/floats"

	"github.com/sidd707/transvolt-webapp/internal/analysis"
	"github.com/sidd707/transvolt-webapp/internal/data"
)

// ErrNotEnoughData means the series is too short to plot; the caller should
// degrade the view instead of failing the page.
var ErrNotEnoughData = errors.New("render: not enough samples to plot")

const (
	chartWidth  = 900
	chartHeight = 360
)

// pointStyle renders markers only, no connecting line.
func pointStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeWidth: 0,
		DotWidth:    4,
		DotColor:    col,
	}
}

func lineStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeWidth: 1.5,
		StrokeColor: col,
	}
}

// RawSeries plots the voltage line on its own.
func RawSeries(s *data.Series) ([]byte, error) {
	return renderChart("Original Voltage Data", s, nil)
}

// MovingAverageOverlay plots the voltage line with the moving average on top.
func MovingAverageOverlay(s *data.Series, ma []analysis.MAPoint) ([]byte, error) {
	var extra []chart.Series
	if len(ma) > 0 {
		idx := make([]int, len(ma))
		vals := make([]float64, len(ma))
		for i, p := range ma {
			idx[i] = p.Index
			vals[i] = p.Value
		}
		extra = append(extra, valueSeries(s, "Moving Average", idx, vals, lineStyle(chart.ColorRed)))
	}
	return renderChart("Voltage with Moving Average", s, extra)
}

// Extrema plots the voltage line with peak and trough markers.
func Extrema(s *data.Series, peaks, troughs []data.Event) ([]byte, error) {
	var extra []chart.Series
	if len(peaks) > 0 {
		extra = append(extra, eventSeries(s, "Peaks", peaks, pointStyle(chart.ColorGreen)))
	}
	if len(troughs) > 0 {
		extra = append(extra, eventSeries(s, "Troughs", troughs, pointStyle(chart.ColorOrange)))
	}
	return renderChart("Local Peaks & Troughs", s, extra)
}

// ThresholdBreaches plots the voltage line with below-threshold markers.
func ThresholdBreaches(s *data.Series, below []data.Event) ([]byte, error) {
	var extra []chart.Series
	if len(below) > 0 {
		name := fmt.Sprintf("Voltage < %g", analysis.Threshold)
		extra = append(extra, eventSeries(s, name, below, pointStyle(chart.ColorRed)))
	}
	return renderChart("Voltage Below Threshold", s, extra)
}

// Accelerations plots the voltage line with downward-acceleration markers.
func Accelerations(s *data.Series, accels []data.Event) ([]byte, error) {
	var extra []chart.Series
	if len(accels) > 0 {
		extra = append(extra, eventSeries(s, "Downward Acceleration", accels, pointStyle(chart.ColorBlack)))
	}
	return renderChart("Downward Acceleration Points", s, extra)
}

// renderChart draws the base voltage line plus any extra series and encodes
// the chart as PNG bytes.
func renderChart(title string, s *data.Series, extra []chart.Series) ([]byte, error) {
	if s.Len() == 0 {
		return nil, ErrNotEnoughData
	}

	series := []chart.Series{baseSeries(s)}
	series = append(series, extra...)

	yAxis := chart.YAxis{Name: "Voltage"}
	// A flat series has a zero value range, which go-chart refuses to
	// render; give it an explicit padded range instead.
	v := s.Voltages()
	if mn, mx := floats.Min(v), floats.Max(v); mn == mx {
		yAxis.Range = &chart.ContinuousRange{Min: mn - 1, Max: mx + 1}
	}

	ch := chart.Chart{
		Title:      title,
		Width:      chartWidth,
		Height:     chartHeight,
		Background: chart.Style{Padding: chart.Box{Top: 24, Left: 16, Right: 12, Bottom: 24}},
		YAxis:      yAxis,
		Series:     series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}

	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render %q: %w", title, err)
	}
	return buf.Bytes(), nil
}

// baseSeries builds the voltage line. go-chart cannot draw a single-point
// series, so one sample is doubled into a flat two-point line.
func baseSeries(s *data.Series) chart.Series {
	st := lineStyle(chart.ColorBlue)
	if s.HasTimestamps() {
		times := make([]time.Time, s.Len())
		ys := make([]float64, s.Len())
		for i, smp := range s.Samples {
			times[i] = smp.Timestamp
			ys[i] = smp.Voltage
		}
		if len(times) == 1 {
			times = append(times, times[0].Add(time.Minute))
			ys = append(ys, ys[0])
		}
		return chart.TimeSeries{Name: "Voltage", XValues: times, YValues: ys, Style: st}
	}

	xs := make([]float64, s.Len())
	ys := make([]float64, s.Len())
	for i, smp := range s.Samples {
		xs[i] = float64(smp.Index)
		ys[i] = smp.Voltage
	}
	if len(xs) == 1 {
		xs = append(xs, xs[0]+1)
		ys = append(ys, ys[0])
	}
	return chart.ContinuousSeries{Name: "Voltage", XValues: xs, YValues: ys, Style: st}
}

// eventSeries places events on the same axis as the base series.
func eventSeries(s *data.Series, name string, evs []data.Event, st chart.Style) chart.Series {
	idx := make([]int, len(evs))
	vals := make([]float64, len(evs))
	for i, ev := range evs {
		idx[i] = ev.Index
		vals[i] = ev.Voltage
	}
	return valueSeries(s, name, idx, vals, st)
}

// valueSeries maps series positions to chart X values, time-based when the
// series carries timestamps. A single point is doubled, same as baseSeries.
func valueSeries(s *data.Series, name string, idx []int, vals []float64, st chart.Style) chart.Series {
	ys := append([]float64(nil), vals...)
	if s.HasTimestamps() {
		times := make([]time.Time, len(idx))
		for i, pos := range idx {
			times[i] = s.Samples[pos].Timestamp
		}
		if len(times) == 1 {
			times = append(times, times[0])
			ys = append(ys, ys[0])
		}
		return chart.TimeSeries{Name: name, XValues: times, YValues: ys, Style: st}
	}

	xs := make([]float64, len(idx))
	for i, pos := range idx {
		xs[i] = float64(pos)
	}
	if len(xs) == 1 {
		xs = append(xs, xs[0])
		ys = append(ys, ys[0])
	}
	return chart.ContinuousSeries{Name: name, XValues: xs, YValues: ys, Style: st}
}
