package api

import (
	"database/sql"
	"net/http"

	"github.com/erazemk/spajza/internal/auth"
)

// StatusHandler handles the unauthenticated health and config endpoints.
type StatusHandler struct {
	DB           *sql.DB
	PublicDomain string
}

// Health handles GET /api/health. Reports whether the database answers.
func (h *StatusHandler) Health(w http.ResponseWriter, r *http.Request) {
	status := map[string]any{
		"status":   "healthy",
		"database": "connected",
	}

	code := http.StatusOK
	if err := h.DB.PingContext(r.Context()); err != nil {
		status["status"] = "unhealthy"
		status["database"] = "unreachable"
		code = http.StatusServiceUnavailable
	}

	jsonResponse(w, code, status)
}

// Config handles GET /api/config. These are public values the frontend
// needs to connect; nothing secret belongs here.
func (h *StatusHandler) Config(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, http.StatusOK, map[string]any{
		"public_domain":        h.PublicDomain,
		"auth_endpoint":        "/api/auth/login",
		"token_expiry_seconds": int(auth.TokenExpiry.Seconds()),
	})
}
