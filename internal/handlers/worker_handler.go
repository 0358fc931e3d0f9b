package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"domisafe/internal/models"
	"domisafe/internal/services"

	"github.com/google/uuid"
)

type WorkerHandler struct {
	Discovery *services.DiscoveryService
	Workers   *services.WorkerService
	Logger    services.Logger
}

// ListWorkers handles GET /employees.
func (h *WorkerHandler) ListWorkers(w http.ResponseWriter, r *http.Request) {
	filter, err := parseWorkerFilter(r.URL.Query())
	if err != nil {
		handleError(w, r, h.Logger, err)
		return
	}

	result, err := h.Discovery.Discover(r.Context(), filter)
	if err != nil {
		handleError(w, r, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// SearchWorkers handles GET /employees/search.
func (h *WorkerHandler) SearchWorkers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter, err := parseWorkerFilter(q)
	if err != nil {
		handleError(w, r, h.Logger, err)
		return
	}
	filter.Query = strings.TrimSpace(q.Get("q"))
	if serviceType := strings.TrimSpace(q.Get("service_type")); serviceType != "" {
		filter.Services = append(filter.Services, serviceType)
	}

	result, err := h.Discovery.Search(r.Context(), filter)
	if err != nil {
		handleError(w, r, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// NearMe handles GET /employees/near-me.
func (h *WorkerHandler) NearMe(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	lat, err := parseOptionalFloat(q, "latitude")
	if err != nil {
		handleError(w, r, h.Logger, err)
		return
	}
	lon, err := parseOptionalFloat(q, "longitude")
	if err != nil {
		handleError(w, r, h.Logger, err)
		return
	}
	radius, err := parseOptionalFloat(q, "radius")
	if err != nil {
		handleError(w, r, h.Logger, err)
		return
	}

	result, err := h.Discovery.NearMe(r.Context(), lat, lon, radius)
	if err != nil {
		handleError(w, r, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// GetWorkerByID handles GET /employees/:id.
func (h *WorkerHandler) GetWorkerByID(w http.ResponseWriter, r *http.Request) {
	id := getParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		writeError(w, http.StatusBadRequest, "invalid worker id")
		return
	}

	worker, err := h.Discovery.GetWorker(r.Context(), id)
	if err != nil {
		handleError(w, r, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, worker)
}

// UpdateAvailability handles PUT /employees/:id/availability.
func (h *WorkerHandler) UpdateAvailability(w http.ResponseWriter, r *http.Request) {
	id := getParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		writeError(w, http.StatusBadRequest, "invalid worker id")
		return
	}

	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req models.AvailabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.IsActive == nil {
		writeError(w, http.StatusBadRequest, "is_active is required")
		return
	}

	if err := h.Workers.SetAvailability(r.Context(), claims, id, *req.IsActive); err != nil {
		handleError(w, r, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"id":        id,
		"is_active": *req.IsActive,
	})
}
