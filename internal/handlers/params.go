package handlers

import (
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"domisafe/internal/models"
)

// getParam returns a path or query parameter value regardless of whether
// the router stores it with a leading colon or not.
func getParam(r *http.Request, name string) string {
	if r == nil {
		return ""
	}

	if val := r.URL.Query().Get(":" + name); val != "" {
		return val
	}

	if val := r.URL.Query().Get(name); val != "" {
		return val
	}

	return r.PathValue(name)
}

// parseOptionalFloat returns nil for an absent value and a FilterError for
// anything that is not a finite number.
func parseOptionalFloat(q url.Values, field string) (*float64, error) {
	raw := strings.TrimSpace(q.Get(field))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, &models.FilterError{Field: field, Value: raw, Reason: "not a number"}
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, &models.FilterError{Field: field, Value: raw, Reason: "not a finite number"}
	}
	return &v, nil
}

// splitList splits a comma-separated value, dropping blanks.
func splitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// parseWorkerFilter reads the discovery query parameters.
func parseWorkerFilter(q url.Values) (models.WorkerFilter, error) {
	f := models.WorkerFilter{
		Zone:      strings.TrimSpace(q.Get("zone")),
		Services:  splitList(q.Get("services")),
		Languages: splitList(q.Get("languages")),
	}

	var err error
	if f.MinRating, err = parseOptionalFloat(q, "min_rating"); err != nil {
		return models.WorkerFilter{}, err
	}
	if f.MaxHourlyRate, err = parseOptionalFloat(q, "max_hourly_rate"); err != nil {
		return models.WorkerFilter{}, err
	}
	if f.Latitude, err = parseOptionalFloat(q, "latitude"); err != nil {
		return models.WorkerFilter{}, err
	}
	if f.Longitude, err = parseOptionalFloat(q, "longitude"); err != nil {
		return models.WorkerFilter{}, err
	}
	if f.RadiusKm, err = parseOptionalFloat(q, "radius"); err != nil {
		return models.WorkerFilter{}, err
	}
	return f, nil
}
