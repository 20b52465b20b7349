// internal/auth/auth.go
package auth

import (
	"crypto/subtle"
	"net/http"
)

// Manager validates API keys for the machine endpoints. Browser routes are
// open; only the ingest and log-maintenance endpoints are guarded.
type Manager struct {
	apiKeys []string
}

func NewManager(apiKeys []string) *Manager {
	return &Manager{apiKeys: apiKeys}
}

// ValidateAPIKey checks the key in constant time against every configured key.
func (m *Manager) ValidateAPIKey(apiKey string) bool {
	valid := false
	for _, k := range m.apiKeys {
		if subtle.ConstantTimeCompare([]byte(apiKey), []byte(k)) == 1 {
			valid = true
		}
	}
	return valid
}

// APIKeyMiddleware rejects requests without a valid X-API-Key header. When
// no keys are configured the guarded endpoints are disabled outright.
func (m *Manager) APIKeyMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if len(m.apiKeys) == 0 {
			http.Error(w, "API access disabled: no keys configured", http.StatusForbidden)
			return
		}

		apiKey := r.Header.Get("X-API-Key")
		if apiKey == "" {
			http.Error(w, "API key required", http.StatusUnauthorized)
			return
		}
		if !m.ValidateAPIKey(apiKey) {
			http.Error(w, "Invalid API key", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r)
	})
}
