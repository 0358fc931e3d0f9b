package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"domisafe/internal/models"
	"domisafe/internal/services"

	"go.opentelemetry.io/otel/trace"
)

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
	Field string `json:"field,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// handleError maps service errors onto HTTP statuses.
func handleError(w http.ResponseWriter, r *http.Request, logger services.Logger, err error) {
	var filterErr *models.FilterError
	switch {
	case errors.As(err, &filterErr):
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error: filterErr.Error(),
			Kind:  "InvalidFilterValue",
			Field: filterErr.Field,
		})
	case errors.Is(err, models.ErrWorkerNotFound):
		writeError(w, http.StatusNotFound, "worker not found")
	case errors.Is(err, models.ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden")
	default:
		trace.SpanFromContext(r.Context()).RecordError(err)
		if logger != nil {
			logger.Errorf("%s %s: %v", r.Method, r.URL.RequestURI(), err)
		}
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
