package analysis

import (
	"math"
	"testing"

	"github.com/sidd707/transvolt-webapp/internal/data"
)

func series(voltages ...float64) *data.Series {
	s := &data.Series{Samples: make([]data.Sample, len(voltages))}
	for i, v := range voltages {
		s.Samples[i] = data.Sample{Index: i, Voltage: v}
	}
	return s
}

func TestMovingAverageShortSeries(t *testing.T) {
	for n := 0; n < Window; n++ {
		in := make([]float64, n)
		if got := MovingAverage(in); len(got) != 0 {
			t.Errorf("length %d: expected empty moving average, got %d points", n, len(got))
		}
	}
}

func TestMovingAverageDropsIncompleteWindows(t *testing.T) {
	got := MovingAverage([]float64{1, 2, 3, 4, 5, 6})

	want := []MAPoint{
		{Index: 4, Value: 3},
		{Index: 5, Value: 4},
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d points, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i].Index != want[i].Index || math.Abs(got[i].Value-want[i].Value) > 1e-12 {
			t.Errorf("point %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestConstantSeriesHasNoExtrema(t *testing.T) {
	rep := Analyze(series(7, 7, 7, 7, 7, 7, 7))

	if len(rep.Peaks) != 0 {
		t.Errorf("expected no peaks, got %d", len(rep.Peaks))
	}
	if len(rep.Troughs) != 0 {
		t.Errorf("expected no troughs, got %d", len(rep.Troughs))
	}
}

func TestBelowThresholdFlagsSingleSample(t *testing.T) {
	rep := Analyze(series(25, 30, 19.5, 28, 26))

	if len(rep.BelowThreshold) != 1 {
		t.Fatalf("expected exactly one below-threshold event, got %d", len(rep.BelowThreshold))
	}
	ev := rep.BelowThreshold[0]
	if ev.Index != 2 {
		t.Errorf("event index = %d, want 2", ev.Index)
	}
	if ev.Voltage != 19.5 {
		t.Errorf("event voltage = %v, want 19.5", ev.Voltage)
	}
	if ev.Category != data.CategoryBelowThreshold {
		t.Errorf("event category = %q, want %q", ev.Category, data.CategoryBelowThreshold)
	}
}

func TestBelowThresholdReportsRunsIndividually(t *testing.T) {
	rep := Analyze(series(25, 18, 17, 16, 25))

	if len(rep.BelowThreshold) != 3 {
		t.Fatalf("expected every sample of the run flagged, got %d events", len(rep.BelowThreshold))
	}
	for i, want := range []int{1, 2, 3} {
		if rep.BelowThreshold[i].Index != want {
			t.Errorf("event %d index = %d, want %d", i, rep.BelowThreshold[i].Index, want)
		}
	}
}

func TestStrictlyIncreasingSeriesHasNoAccelerations(t *testing.T) {
	cases := []struct {
		name string
		in   []float64
	}{
		{"linear", []float64{1, 2, 3, 4, 5}},
		{"convex", []float64{1, 2, 4, 8, 16}},
		{"concave", []float64{0, 10, 15, 17, 18}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rep := Analyze(series(tc.in...))
			if len(rep.Accelerations) != 0 {
				t.Errorf("expected no acceleration events, got %d", len(rep.Accelerations))
			}
		})
	}
}

func TestAccelerationOnSteepeningDescent(t *testing.T) {
	// Slopes are -1, -2, -3: the descent steepens at indices 1 and 2.
	rep := Analyze(series(10, 9, 7, 4))

	if len(rep.Accelerations) != 2 {
		t.Fatalf("expected 2 acceleration events, got %d", len(rep.Accelerations))
	}
	for i, want := range []int{1, 2} {
		ev := rep.Accelerations[i]
		if ev.Index != want {
			t.Errorf("event %d index = %d, want %d", i, ev.Index, want)
		}
		if ev.Category != data.CategoryAcceleration {
			t.Errorf("event %d category = %q, want %q", i, ev.Category, data.CategoryAcceleration)
		}
	}
}

func TestConstantDescentIsNotAcceleration(t *testing.T) {
	// Slope is constantly -2: falling but not accelerating.
	rep := Analyze(series(10, 8, 6, 4, 2))

	if len(rep.Accelerations) != 0 {
		t.Errorf("expected no acceleration events, got %d", len(rep.Accelerations))
	}
}

func TestSummaryStats(t *testing.T) {
	rep := Analyze(series(10, 20, 30))

	st := rep.Stats
	if st.Count != 3 {
		t.Errorf("count = %d, want 3", st.Count)
	}
	if st.Min != 10 || st.Max != 30 {
		t.Errorf("min/max = %v/%v, want 10/30", st.Min, st.Max)
	}
	if math.Abs(st.Mean-20) > 1e-12 {
		t.Errorf("mean = %v, want 20", st.Mean)
	}
	if math.Abs(st.StdDev-10) > 1e-12 {
		t.Errorf("stddev = %v, want 10", st.StdDev)
	}
}

func TestAnalyzeEmptySeries(t *testing.T) {
	rep := Analyze(series())

	if rep.Stats.Count != 0 {
		t.Errorf("count = %d, want 0", rep.Stats.Count)
	}
	if len(rep.MovingAverage) != 0 || len(rep.Peaks) != 0 || len(rep.Troughs) != 0 ||
		len(rep.BelowThreshold) != 0 || len(rep.Accelerations) != 0 {
		t.Error("expected every derived view to be empty")
	}
}
