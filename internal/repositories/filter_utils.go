package repositories

import (
	"strings"

	"domisafe/internal/models"
)

// matchesAnyTag reports whether available contains at least one of required.
// Comparison ignores case and surrounding spaces.
func matchesAnyTag(required []string, available []string) bool {
	if len(required) == 0 {
		return true
	}
	availableSet := make(map[string]struct{}, len(available))
	for _, tag := range available {
		availableSet[normalizeTag(tag)] = struct{}{}
	}
	for _, tag := range required {
		if _, ok := availableSet[normalizeTag(tag)]; ok {
			return true
		}
	}
	return false
}

func normalizeTag(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}

func matchesZone(zone, workerZone string) bool {
	if zone == "" {
		return true
	}
	return strings.Contains(strings.ToLower(workerZone), strings.ToLower(zone))
}

func matchesSearchTerm(term string, w models.WorkerProfile) bool {
	if term == "" {
		return true
	}
	term = strings.ToLower(term)
	if strings.Contains(strings.ToLower(w.Name), term) || strings.Contains(strings.ToLower(w.Zone), term) {
		return true
	}
	for _, service := range w.ServicesOffered {
		if strings.Contains(strings.ToLower(service), term) {
			return true
		}
	}
	return false
}

// MatchesFilter applies every attribute criterion of f to w. Location and
// radius are not attribute criteria and are ignored here.
func MatchesFilter(f models.WorkerFilter, w models.WorkerProfile) bool {
	if !w.Discoverable() {
		return false
	}
	if !matchesZone(f.Zone, w.Zone) {
		return false
	}
	if !matchesAnyTag(f.Services, w.ServicesOffered) {
		return false
	}
	if !matchesAnyTag(f.Languages, w.Languages) {
		return false
	}
	if f.MinRating != nil && w.AverageRating < *f.MinRating {
		return false
	}
	if f.MaxHourlyRate != nil && w.HourlyRate > *f.MaxHourlyRate {
		return false
	}
	return matchesSearchTerm(f.Query, w)
}
