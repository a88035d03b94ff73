package handler

import (
	"net/http"
	"time"

	"github.com/EpocDotFr/server-patrol/internal/model"
	"github.com/EpocDotFr/server-patrol/internal/service"
	"github.com/EpocDotFr/server-patrol/pkg/middleware"
)

// StatusHandler exposes the public status listing consumed by the
// dashboard
type StatusHandler struct {
	service *service.MonitoringService
}

// NewStatusHandler creates a new status handler
func NewStatusHandler(service *service.MonitoringService) *StatusHandler {
	return &StatusHandler{
		service: service,
	}
}

// StatusEntry is one monitoring on the public status page.
type StatusEntry struct {
	ID                 string       `json:"id"`
	Name               string       `json:"name"`
	URL                string       `json:"url"`
	Status             model.Status `json:"status"`
	LastCheckedAt      time.Time    `json:"last_checked_at,omitempty"`
	LastStatusChangeAt time.Time    `json:"last_status_change_at,omitempty"`
	LastDownReason     string       `json:"last_down_reason,omitempty"`
}

// StatusResponse represents the public status response
type StatusResponse struct {
	Results []StatusEntry `json:"results"`
}

// Status handles GET /api/v1/status. Unauthenticated consumers only see
// monitorings flagged public.
func (h *StatusHandler) Status(w http.ResponseWriter, r *http.Request) {
	monitorings, err := h.service.ListVisible(r.Context(), middleware.IsAuthenticated(r.Context()))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	entries := make([]StatusEntry, len(monitorings))
	for i := range monitorings {
		m := &monitorings[i]
		entries[i] = StatusEntry{
			ID:                 m.ID.Hex(),
			Name:               m.Name,
			URL:                m.URL,
			Status:             m.Status,
			LastCheckedAt:      m.LastCheckedAt,
			LastStatusChangeAt: m.LastStatusChangeAt,
			LastDownReason:     m.LastDownReason,
		}
	}

	writeJSON(w, http.StatusOK, StatusResponse{Results: entries})
}
