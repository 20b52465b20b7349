// internal/analysis/analyzer.go
package analysis

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/sidd707/transvolt-webapp/internal/data"
)

// Analysis parameters are fixed constants, not configuration.
const (
	// Window is the moving-average width in samples.
	Window = 5
	// Threshold is the below-threshold cutoff in volts.
	Threshold = 20.0
	// AccelTolerance is how far below zero the second difference must be
	// before a sample counts as a downward-acceleration point.
	AccelTolerance = 1e-9
)

// MAPoint is one point of the moving-average series. Index refers to the
// last sample of the averaged window.
type MAPoint struct {
	Index int     `json:"index"`
	Value float64 `json:"value"`
}

// Stats summarizes the raw series for the dashboard table.
type Stats struct {
	Count  int     `json:"count"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"stddev"`
}

// Report is everything one analysis pass derives from a series. All fields
// are recomputed per request; nothing is cached between requests.
type Report struct {
	Series         *data.Series
	MovingAverage  []MAPoint
	Peaks          []data.Event
	Troughs        []data.Event
	BelowThreshold []data.Event
	Accelerations  []data.Event
	Stats          Stats
}

// Analyze derives all views from the series. Short or empty series degrade
// to empty derived views rather than erroring.
func Analyze(s *data.Series) *Report {
	v := s.Voltages()
	return &Report{
		Series:         s,
		MovingAverage:  MovingAverage(v),
		Peaks:          events(s, findPeaks(v), data.CategoryPeak),
		Troughs:        events(s, findTroughs(v), data.CategoryTrough),
		BelowThreshold: events(s, belowThreshold(v), data.CategoryBelowThreshold),
		Accelerations:  events(s, accelerationPoints(v), data.CategoryAcceleration),
		Stats:          summarize(v),
	}
}

// MovingAverage computes the dense fixed-window mean. Windows narrower than
// the full width are dropped, so the first point covers samples [0, Window)
// and a series shorter than Window yields no points.
func MovingAverage(v []float64) []MAPoint {
	if len(v) < Window {
		return nil
	}
	out := make([]MAPoint, 0, len(v)-Window+1)
	for i := Window - 1; i < len(v); i++ {
		sum := floats.Sum(v[i-Window+1 : i+1])
		out = append(out, MAPoint{Index: i, Value: sum / Window})
	}
	return out
}

// belowThreshold flags every sample under the cutoff individually;
// contiguous runs are not collapsed.
func belowThreshold(v []float64) []int {
	var idx []int
	for i, x := range v {
		if x < Threshold {
			idx = append(idx, i)
		}
	}
	return idx
}

// accelerationPoints finds samples where the downward slope is steepening:
// the series falls after the sample and the second difference is negative
// beyond the tolerance. The falling condition keeps strictly rising series
// event-free regardless of curvature.
func accelerationPoints(v []float64) []int {
	var idx []int
	for i := 1; i < len(v)-1; i++ {
		d2 := v[i+1] - 2*v[i] + v[i-1]
		if v[i+1] < v[i] && d2 < -AccelTolerance {
			idx = append(idx, i)
		}
	}
	return idx
}

func summarize(v []float64) Stats {
	if len(v) == 0 {
		return Stats{}
	}
	st := Stats{
		Count: len(v),
		Min:   floats.Min(v),
		Max:   floats.Max(v),
		Mean:  stat.Mean(v, nil),
	}
	if len(v) > 1 {
		st.StdDev = stat.StdDev(v, nil)
	}
	return st
}

func events(s *data.Series, idx []int, cat data.Category) []data.Event {
	if len(idx) == 0 {
		return nil
	}
	out := make([]data.Event, len(idx))
	for i, pos := range idx {
		smp := s.Samples[pos]
		out[i] = data.Event{
			Index:     smp.Index,
			Timestamp: smp.Timestamp,
			Voltage:   smp.Voltage,
			Category:  cat,
		}
	}
	return out
}
