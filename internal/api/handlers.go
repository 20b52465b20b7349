// internal/api/handlers.go
package api

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	gwebsocket "github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/sidd707/transvolt-webapp/internal/alerting"
	"github.com/sidd707/transvolt-webapp/internal/analysis"
	"github.com/sidd707/transvolt-webapp/internal/data"
	"github.com/sidd707/transvolt-webapp/internal/render"
	"github.com/sidd707/transvolt-webapp/internal/storage"
	"github.com/sidd707/transvolt-webapp/internal/websocket"
)

const (
	maxUploadBytes = 8 << 20
	// historyReplayCount caps how many buffered alerts a newly connected
	// client is brought up to date with.
	historyReplayCount = 50
)

var upgrader = gwebsocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type Handler struct {
	dataPath string
	accelLog *storage.AccelLog
	store    *storage.MemoryStore
	hub      *websocket.Hub
	alerter  *alerting.Alerter
	tmpl     *template.Template
	webDir   string
	log      *zap.Logger
}

func NewHandler(dataPath string, accelLog *storage.AccelLog, store *storage.MemoryStore, hub *websocket.Hub, alerter *alerting.Alerter, webDir string, log *zap.Logger) (*Handler, error) {
	tmplPath := filepath.Join(webDir, "templates", "*.html")
	tmpl, err := template.ParseGlob(tmplPath)
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}

	return &Handler{
		dataPath: dataPath,
		accelLog: accelLog,
		store:    store,
		hub:      hub,
		alerter:  alerter,
		tmpl:     tmpl,
		webDir:   webDir,
		log:      log,
	}, nil
}

// chartView is one rendered chart, or a notice when the view degraded.
type chartView struct {
	Title  string
	Image  template.URL
	Notice string
}

type eventRow struct {
	Position  int
	Timestamp string
	Voltage   string
	Category  data.Category
}

type pageData struct {
	GeneratedAt    string
	Source         string
	Error          string
	Warning        string
	Stats          analysis.Stats
	Charts         []chartView
	Peaks          []eventRow
	Troughs        []eventRow
	BelowThreshold []eventRow
	Accelerations  []eventRow
	Threshold      float64
	Window         int
}

// HandleDashboard runs the whole pipeline for the default data file and
// composes the page: load, analyze, record accelerations, render charts.
func (h *Handler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	series, err := data.Load(h.dataPath)
	h.renderPage(w, series, h.dataPath, err)
}

// HandleUpload analyzes an uploaded CSV for this response only; the data
// file on disk is untouched. Requests without a file fall back to it.
func (h *Handler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "Bad Request: cannot parse form", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil || header.Filename == "" {
		h.HandleDashboard(w, r)
		return
	}
	defer file.Close()

	series, err := data.Parse(file)
	h.renderPage(w, series, header.Filename, err)
}

// renderPage is the page composer: charts plus tabular summaries in one
// HTML document. Load errors become an in-page error with status 500;
// per-view problems degrade that view only.
func (h *Handler) renderPage(w http.ResponseWriter, series *data.Series, source string, loadErr error) {
	page := pageData{
		GeneratedAt: time.Now().Format(time.RFC1123),
		Source:      source,
		Threshold:   analysis.Threshold,
		Window:      analysis.Window,
	}

	if loadErr != nil {
		h.log.Error("loading voltage data", zap.String("source", source), zap.Error(loadErr))
		page.Error = loadErr.Error()
		h.execute(w, http.StatusInternalServerError, &page)
		return
	}

	report := analysis.Analyze(series)

	page.Warning = h.alerter.ProcessAccelerations(report.Accelerations)
	h.hub.BroadcastRefresh(map[string]int{
		"samples":         series.Len(),
		"peaks":           len(report.Peaks),
		"troughs":         len(report.Troughs),
		"below_threshold": len(report.BelowThreshold),
		"accelerations":   len(report.Accelerations),
	})

	page.Stats = report.Stats
	page.Peaks = rows(report.Peaks)
	page.Troughs = rows(report.Troughs)
	page.BelowThreshold = rows(report.BelowThreshold)
	page.Accelerations = rows(report.Accelerations)
	page.Charts = h.renderCharts(report)

	h.execute(w, http.StatusOK, &page)
}

func (h *Handler) renderCharts(report *analysis.Report) []chartView {
	s := report.Series
	defs := []struct {
		title string
		fn    func() ([]byte, error)
	}{
		{"Original Voltage Data", func() ([]byte, error) { return render.RawSeries(s) }},
		{"Voltage with Moving Average", func() ([]byte, error) { return render.MovingAverageOverlay(s, report.MovingAverage) }},
		{"Local Peaks & Troughs", func() ([]byte, error) { return render.Extrema(s, report.Peaks, report.Troughs) }},
		{"Voltage Below Threshold", func() ([]byte, error) { return render.ThresholdBreaches(s, report.BelowThreshold) }},
		{"Downward Acceleration Points", func() ([]byte, error) { return render.Accelerations(s, report.Accelerations) }},
	}

	views := make([]chartView, 0, len(defs))
	for _, def := range defs {
		view := chartView{Title: def.title}
		png, err := def.fn()
		switch {
		case errors.Is(err, render.ErrNotEnoughData):
			view.Notice = "not enough data to plot"
		case err != nil:
			h.log.Error("rendering chart", zap.String("chart", def.title), zap.Error(err))
			view.Notice = "chart unavailable"
		default:
			view.Image = template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(png))
		}
		views = append(views, view)
	}
	return views
}

func (h *Handler) execute(w http.ResponseWriter, status int, page *pageData) {
	var buf bytes.Buffer
	if err := h.tmpl.ExecuteTemplate(&buf, "index.html", page); err != nil {
		h.log.Error("executing template", zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

// HandleDownloadAccelLog serves a snapshot of the acceleration log as a
// CSV attachment.
func (h *Handler) HandleDownloadAccelLog(w http.ResponseWriter, r *http.Request) {
	contents, err := h.accelLog.Contents()
	if err != nil {
		if os.IsNotExist(err) {
			http.Error(w, "no acceleration log yet", http.StatusNotFound)
			return
		}
		h.log.Error("reading acceleration log", zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="downward_acceleration_points.csv"`)
	w.Write(contents)
}

// HandleIngest replaces the data file with the posted CSV body. The body is
// validated as a voltage series before anything touches disk.
func (h *Handler) HandleIngest(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxUploadBytes))
	if err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	series, err := data.Parse(bytes.NewReader(body))
	if err != nil {
		http.Error(w, fmt.Sprintf("Bad Request: %v", err), http.StatusBadRequest)
		return
	}
	if series.Len() == 0 {
		http.Error(w, "Bad Request: empty series", http.StatusBadRequest)
		return
	}

	tmp := h.dataPath + ".tmp"
	if err := os.WriteFile(tmp, body, 0o644); err != nil {
		h.log.Error("writing ingested data", zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if err := os.Rename(tmp, h.dataPath); err != nil {
		h.log.Error("replacing data file", zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	h.log.Info("data file replaced", zap.Int("samples", series.Len()))
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"status": "ok", "samples": series.Len()})
}

// HandleTruncateLog resets the acceleration log. This is the explicit way
// to clear the append-only record before a re-run.
func (h *Handler) HandleTruncateLog(w http.ResponseWriter, r *http.Request) {
	if err := h.accelLog.Truncate(); err != nil {
		h.log.Error("truncating acceleration log", zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "truncated"})
}

// HandleWebSocket upgrades the connection and registers the client.
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := &websocket.Client{Hub: h.hub, Conn: conn, Send: make(chan []byte, 256), Log: h.log}
	client.Hub.RegisterClient(client)

	go client.WritePump()
	go client.ReadPump()

	go h.sendInitialData(client)
}

// sendInitialData replays recent alert events to a newly connected client.
func (h *Handler) sendInitialData(client *websocket.Client) {
	recent := h.store.GetRecent(historyReplayCount)
	if len(recent) == 0 {
		return
	}

	messageBytes, err := json.Marshal(map[string]interface{}{
		"type":    "history",
		"payload": recent,
	})
	if err != nil {
		h.log.Error("marshalling history payload", zap.Error(err))
		return
	}

	select {
	case client.Send <- messageBytes:
	case <-time.After(5 * time.Second):
		h.log.Warn("timeout sending history to client")
	}
}

func rows(events []data.Event) []eventRow {
	if len(events) == 0 {
		return nil
	}
	out := make([]eventRow, len(events))
	for i, ev := range events {
		row := eventRow{
			Position: ev.Index,
			Voltage:  fmt.Sprintf("%.2f", ev.Voltage),
			Category: ev.Category,
		}
		if !ev.Timestamp.IsZero() {
			row.Timestamp = ev.Timestamp.Format(data.TimestampLayout)
		}
		out[i] = row
	}
	return out
}
