// internal/alerting/alerter.go
package alerting

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/sidd707/transvolt-webapp/internal/data"
	"github.com/sidd707/transvolt-webapp/internal/storage"
	"github.com/sidd707/transvolt-webapp/internal/websocket"
)

// Alerter fans detected acceleration events out to the append-only log,
// the recent-event buffer, and connected dashboards.
type Alerter struct {
	accelLog *storage.AccelLog
	store    *storage.MemoryStore
	hub      *websocket.Hub
	log      *zap.Logger
}

func NewAlerter(accelLog *storage.AccelLog, store *storage.MemoryStore, hub *websocket.Hub, log *zap.Logger) *Alerter {
	return &Alerter{accelLog: accelLog, store: store, hub: hub, log: log}
}

// ProcessAccelerations records and broadcasts the events. A log-append
// failure is non-fatal: it is returned as a warning for the page to show
// while the buffer and broadcast still happen.
func (a *Alerter) ProcessAccelerations(events []data.Event) (warning string) {
	if len(events) == 0 {
		return ""
	}

	if err := a.accelLog.Append(events); err != nil {
		a.log.Warn("acceleration log append failed", zap.Int("events", len(events)), zap.Error(err))
		warning = fmt.Sprintf("acceleration log not updated: %v", err)
	}

	for _, ev := range events {
		a.store.Add(ev)
		if a.hub != nil {
			a.hub.BroadcastAlert(ev)
		}
	}
	return warning
}
