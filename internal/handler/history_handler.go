package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/EpocDotFr/server-patrol/internal/model"
	"github.com/EpocDotFr/server-patrol/internal/service"
)

// HistoryHandler handles check history queries
type HistoryHandler struct {
	service *service.CheckService
}

// NewHistoryHandler creates a new history handler
func NewHistoryHandler(service *service.CheckService) *HistoryHandler {
	return &HistoryHandler{
		service: service,
	}
}

// CheckListResponse represents the check history response
type CheckListResponse struct {
	Total   int64               `json:"total"`
	Page    int                 `json:"page"`
	Limit   int                 `json:"limit"`
	Results []model.CheckRecord `json:"results"`
}

// LatencyResponse represents the latency graph data response
type LatencyResponse struct {
	Results []model.LatencyPoint `json:"results"`
}

// Checks handles GET /api/v1/monitorings/{id}/checks
func (h *HistoryHandler) Checks(w http.ResponseWriter, r *http.Request) {
	id := monitoringID(r)
	page := parseQueryInt(r, "page", 1)
	limit := parseQueryInt(r, "limit", 20)

	if limit > 100 {
		limit = 100
	}

	records, total, err := h.service.History(r.Context(), id, page, limit)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, CheckListResponse{
		Total:   total,
		Page:    page,
		Limit:   limit,
		Results: records,
	})
}

// Latency handles GET /api/v1/monitorings/{id}/latency
func (h *HistoryHandler) Latency(w http.ResponseWriter, r *http.Request) {
	id := monitoringID(r)

	var since time.Time
	if raw := strings.TrimSpace(r.URL.Query().Get("since")); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid 'since' parameter, expected RFC 3339")
			return
		}
		since = parsed
	}

	points, err := h.service.LatencySeries(r.Context(), id, since)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, LatencyResponse{Results: points})
}
