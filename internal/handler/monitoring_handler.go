package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/EpocDotFr/server-patrol/internal/database"
	"github.com/EpocDotFr/server-patrol/internal/model"
	"github.com/EpocDotFr/server-patrol/internal/service"
)

// MonitoringHandler handles monitoring CRUD operations on the
// management API
type MonitoringHandler struct {
	service *service.MonitoringService
}

// NewMonitoringHandler creates a new monitoring handler
func NewMonitoringHandler(service *service.MonitoringService) *MonitoringHandler {
	return &MonitoringHandler{
		service: service,
	}
}

// CreateResponse represents the create response
type CreateResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Message string `json:"message"`
}

// ListResponse represents the list response
type ListResponse struct {
	Results []model.MonitoringListItem `json:"results"`
}

// DeleteResponse represents the delete response
type DeleteResponse struct {
	Message string `json:"message"`
}

// Create handles POST /api/v1/monitorings
func (h *MonitoringHandler) Create(w http.ResponseWriter, r *http.Request) {
	var m model.Monitoring
	if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if err := h.service.Create(r.Context(), &m); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, CreateResponse{
		ID:      m.ID.Hex(),
		Name:    m.Name,
		Message: "Monitoring created successfully",
	})
}

// Get handles GET /api/v1/monitorings/{id}
func (h *MonitoringHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := monitoringID(r)

	m, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, statusForLookupError(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, m)
}

// List handles GET /api/v1/monitorings
func (h *MonitoringHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, ListResponse{Results: items})
}

// Update handles PUT /api/v1/monitorings/{id}
func (h *MonitoringHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := monitoringID(r)

	var m model.Monitoring
	if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if err := h.service.Update(r.Context(), id, &m); err != nil {
		if errors.Is(err, database.ErrMonitoringNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, statusForLookupError(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/v1/monitorings/{id}
func (h *MonitoringHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := monitoringID(r)

	if err := h.service.Delete(r.Context(), id); err != nil {
		writeError(w, statusForLookupError(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, DeleteResponse{
		Message: "Monitoring and its check history deleted successfully",
	})
}

// monitoringID extracts the monitoring ID path segment.
func monitoringID(r *http.Request) string {
	id := strings.TrimPrefix(r.URL.Path, "/api/v1/monitorings/")
	return strings.Split(id, "/")[0]
}

func statusForLookupError(err error) int {
	if errors.Is(err, database.ErrMonitoringNotFound) {
		return http.StatusNotFound
	}
	return http.StatusBadRequest
}
