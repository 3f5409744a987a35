package api

import (
	"context"
	"net/http"

	"github.com/vytor/menuflash/internal/logger"
)

// Pinger checks storage connectivity. *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// handleHealth is the liveness check; it only shows the process is serving.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

// handleReady reports 503 until the database answers and a menu is loaded.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContext(ctx)

	if s.DB != nil {
		if err := s.DB.PingContext(ctx); err != nil {
			log.Warn("readiness check failed - database: %v", err)
			writeJSON(w, r, http.StatusServiceUnavailable, map[string]string{"status": "database unavailable"})
			return
		}
	}
	if len(s.Menu.Categories(ctx)) == 0 {
		log.Warn("readiness check failed - empty menu")
		writeJSON(w, r, http.StatusServiceUnavailable, map[string]string{"status": "menu not loaded"})
		return
	}

	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ready"})
}
