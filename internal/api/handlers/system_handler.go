package handlers

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/joolapp/jool-backend/internal/monitoring"
)

// SystemHandler exposes host resource usage for operators.
type SystemHandler struct{}

// NewSystemHandler creates a new SystemHandler.
func NewSystemHandler() *SystemHandler {
	return &SystemHandler{}
}

// Stats returns a snapshot of CPU, memory and uptime figures.
func (h *SystemHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := monitoring.CollectSystemStats()
	if err != nil {
		log.Error().Err(err).Msg("Failed to collect system stats")
		writeError(w, http.StatusInternalServerError, "Failed to collect system stats")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
