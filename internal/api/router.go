// internal/api/router.go
package api

import (
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/sidd707/transvolt-webapp/internal/auth"
)

// NewRouter wires the single dashboard page, the machine endpoints, and the
// static assets onto one mux.
func NewRouter(h *Handler, am *auth.Manager) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/", h.HandleDashboard)
	r.Post("/", h.HandleUpload)
	r.Get("/download/acceleration.csv", h.HandleDownloadAccelLog)
	r.Get("/ws", h.HandleWebSocket)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(am.APIKeyMiddleware)
		r.Post("/ingest", h.HandleIngest)
		r.Post("/log/truncate", h.HandleTruncateLog)
	})

	staticPath := filepath.Join(h.webDir, "static")
	fs := http.FileServer(http.Dir(staticPath))
	r.Handle("/static/*", http.StripPrefix("/static/", fs))

	return r
}
