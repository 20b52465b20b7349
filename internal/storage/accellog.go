// internal/storage/accellog.go
package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"sync"

	"github.com/sidd707/transvolt-webapp/internal/data"
)

var accelLogHeader = []string{"position", "voltage", "category"}

// AccelLog is the append-only CSV record of detected acceleration events.
// Appends are serialized with a mutex so concurrent requests cannot
// interleave rows. The log is never deduplicated: re-running analysis on
// unchanged input appends the same rows again.
type AccelLog struct {
	mu   sync.Mutex
	path string
}

func NewAccelLog(path string) *AccelLog {
	return &AccelLog{path: path}
}

// Path returns the log file location.
func (l *AccelLog) Path() string { return l.path }

// Append writes the events to the end of the log, creating the file with a
// header row on first use.
func (l *AccelLog) Append(events []data.Event) error {
	if len(events) == 0 {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(l.path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open acceleration log: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat acceleration log: %w", err)
	}

	w := csv.NewWriter(f)
	if info.Size() == 0 {
		if err := w.Write(accelLogHeader); err != nil {
			return fmt.Errorf("write acceleration log header: %w", err)
		}
	}
	for _, ev := range events {
		record := []string{
			strconv.Itoa(ev.Index),
			strconv.FormatFloat(ev.Voltage, 'g', -1, 64),
			string(ev.Category),
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("write acceleration log row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush acceleration log: %w", err)
	}
	return nil
}

// Size returns the log file size in bytes, 0 when the file does not exist.
func (l *AccelLog) Size() (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	info, err := os.Stat(l.path)
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

// Truncate resets the log to empty.
func (l *AccelLog) Truncate() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(l.path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("truncate acceleration log: %w", err)
	}
	return f.Close()
}

// Contents returns a snapshot of the whole log for download. Reading under
// the lock keeps concurrent appends and truncations from landing mid-read;
// the log is small enough to hold in memory.
func (l *AccelLog) Contents() ([]byte, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return os.ReadFile(l.path)
}
