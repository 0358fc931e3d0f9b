package services

import (
	"sort"

	"domisafe/internal/models"
	"domisafe/internal/repositories"
)

// applyRadiusAndRank attaches distances, drops workers outside the radius and
// orders the rest. Workers without coordinates are never dropped and sort
// after every worker with a known distance.
func applyRadiusAndRank(workers []models.WorkerProfile, f models.WorkerFilter) []models.WorkerProfile {
	if !f.HasLocation() {
		for i := range workers {
			workers[i].DistanceKm = nil
		}
		sortWorkers(workers, false)
		return workers
	}

	kept := make([]models.WorkerProfile, 0, len(workers))
	for _, w := range workers {
		w.DistanceKm = repositories.DistanceKm(f.Latitude, f.Longitude, w.Latitude, w.Longitude)
		if f.RadiusKm != nil && w.DistanceKm != nil && *w.DistanceKm > *f.RadiusKm {
			continue
		}
		kept = append(kept, w)
	}
	sortWorkers(kept, true)
	return kept
}

func sortWorkers(workers []models.WorkerProfile, byDistance bool) {
	if len(workers) < 2 {
		return
	}
	sort.SliceStable(workers, func(i, j int) bool {
		a, b := workers[i], workers[j]
		if byDistance {
			if c := compareDistance(a.DistanceKm, b.DistanceKm); c != 0 {
				return c < 0
			}
		}
		if a.AverageRating != b.AverageRating {
			return a.AverageRating > b.AverageRating
		}
		// Stores return rows unordered; the id keeps equal ranks stable.
		return a.ID < b.ID
	})
}

// compareDistance orders known distances ascending and puts missing ones last.
func compareDistance(a, b *float64) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	case *a < *b:
		return -1
	case *a > *b:
		return 1
	}
	return 0
}
