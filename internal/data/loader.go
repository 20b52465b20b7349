// internal/data/loader.go
package data

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"
)

// TimestampLayout matches the source files' "%d/%m/%y %H:%M" timestamps.
const TimestampLayout = "02/01/06 15:04"

// DataError reports a missing or malformed source file. The whole request
// fails on it; there is no partial-read recovery.
type DataError struct {
	Path string
	Err  error
}

func (e *DataError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("voltage data: %v", e.Err)
	}
	return fmt.Sprintf("voltage data %s: %v", e.Path, e.Err)
}

func (e *DataError) Unwrap() error { return e.Err }

// IsDataError reports whether err is (or wraps) a DataError.
func IsDataError(err error) bool {
	var de *DataError
	return errors.As(err, &de)
}

// Load reads the whole CSV file into memory as a Series.
func Load(path string) (*Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &DataError{Path: path, Err: err}
	}
	defer f.Close()

	s, err := Parse(f)
	if err != nil {
		var de *DataError
		if errors.As(err, &de) {
			de.Path = path
		}
		return nil, err
	}
	return s, nil
}

// Parse reads a CSV voltage series from r. The header must contain a
// "Values" column; a "Timestamp" column is optional. Rows whose timestamp
// does not parse are dropped; a non-numeric voltage fails the whole load.
// When timestamps are present the series is sorted by time and reindexed.
func Parse(r io.Reader) (*Series, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, &DataError{Err: fmt.Errorf("reading header: %w", err)}
	}

	tsCol, valCol := -1, -1
	for i, name := range header {
		switch strings.TrimSpace(name) {
		case "Timestamp":
			tsCol = i
		case "Values":
			valCol = i
		}
	}
	if valCol == -1 {
		return nil, &DataError{Err: errors.New(`missing "Values" column`)}
	}

	var samples []Sample
	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &DataError{Err: fmt.Errorf("line %d: %w", line, err)}
		}
		if valCol >= len(record) {
			return nil, &DataError{Err: fmt.Errorf("line %d: missing voltage field", line)}
		}

		v, err := strconv.ParseFloat(strings.TrimSpace(record[valCol]), 64)
		if err != nil {
			return nil, &DataError{Err: fmt.Errorf("line %d: non-numeric voltage %q", line, record[valCol])}
		}

		smp := Sample{Voltage: v}
		if tsCol != -1 && tsCol < len(record) {
			ts, err := time.Parse(TimestampLayout, strings.TrimSpace(record[tsCol]))
			if err != nil {
				// Unparseable timestamps drop the row, matching the
				// source system's behavior.
				continue
			}
			smp.Timestamp = ts
		}
		samples = append(samples, smp)
	}

	if tsCol != -1 {
		sort.SliceStable(samples, func(i, j int) bool {
			return samples[i].Timestamp.Before(samples[j].Timestamp)
		})
	}
	for i := range samples {
		samples[i].Index = i
	}

	return &Series{Samples: samples}, nil
}
