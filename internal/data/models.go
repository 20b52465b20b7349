// internal/data/models.go
package data

import "time"

// Category tags a derived point of interest.
type Category string

const (
	CategoryPeak           Category = "peak"
	CategoryTrough         Category = "trough"
	CategoryBelowThreshold Category = "below_threshold"
	CategoryAcceleration   Category = "acceleration"
)

// Sample is one reading of the voltage series. Index is the position after
// sorting by timestamp; Timestamp is zero when the source file carries no
// timestamp column.
type Sample struct {
	Index     int       `json:"index"`
	Timestamp time.Time `json:"timestamp,omitempty"`
	Voltage   float64   `json:"voltage"`
}

// Series is an ordered voltage time series, insertion order chronological.
type Series struct {
	Samples []Sample
}

// Len reports the number of samples.
func (s *Series) Len() int { return len(s.Samples) }

// Voltages returns the voltage column as a dense slice.
func (s *Series) Voltages() []float64 {
	v := make([]float64, len(s.Samples))
	for i, smp := range s.Samples {
		v[i] = smp.Voltage
	}
	return v
}

// HasTimestamps reports whether the series carries wall-clock timestamps.
func (s *Series) HasTimestamps() bool {
	return len(s.Samples) > 0 && !s.Samples[0].Timestamp.IsZero()
}

// Event is a derived point of interest referencing a position in a Series.
// Events are read-only and regenerated on every request.
type Event struct {
	Index     int       `json:"index"`
	Timestamp time.Time `json:"timestamp,omitempty"`
	Voltage   float64   `json:"voltage"`
	Category  Category  `json:"category"`
}
