package handler

import (
	"net/http"

	"github.com/redvibe-dev/redvibe/internal/logger"
)

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.health.Ping(); err != nil {
		logger.Log.Error("health check failed", "error", err)
		writeJSONStatus(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, map[string]string{"status": "ok"})
}
