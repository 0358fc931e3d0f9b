package services

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"

	"domisafe/internal/models"
	"domisafe/internal/repositories"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	defaultRadiusKm     = 10.0
	defaultQueryTimeout = 5 * time.Second
)

var tracer = otel.Tracer("domisafe/services")

// WorkerStore is the record store behind discovery. QueryByAttributes
// returns discoverable workers only, in no particular order.
type WorkerStore interface {
	QueryByAttributes(ctx context.Context, f models.WorkerFilter) ([]models.WorkerProfile, error)
	GetByID(ctx context.Context, id string) (models.WorkerProfile, error)
	SetActive(ctx context.Context, id string, active bool) error
}

// DiscoveryService narrows the worker pool by attributes and proximity and
// returns a ranked list. It never mutates workers.
type DiscoveryService struct {
	Store         WorkerStore
	Logger        Logger
	DefaultRadius float64
	QueryTimeout  time.Duration
}

// Discover runs the full pipeline: attribute filter, distance, radius cutoff
// and ranking.
func (s *DiscoveryService) Discover(ctx context.Context, f models.WorkerFilter) (models.DiscoveryResult, error) {
	ctx, span := tracer.Start(ctx, "DiscoveryService.Discover")
	defer span.End()

	if err := ValidateFilter(f); err != nil {
		return models.DiscoveryResult{}, err
	}
	// Reported from the request as given, before defaults.
	applied := f.FiltersApplied()
	f = s.withDefaults(f)

	candidates, err := s.query(ctx, f)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "query workers")
		return models.DiscoveryResult{}, err
	}

	filtered := make([]models.WorkerProfile, 0, len(candidates))
	for _, w := range candidates {
		if repositories.MatchesFilter(f, w) {
			filtered = append(filtered, w)
		}
	}
	ranked := applyRadiusAndRank(filtered, f)

	span.SetAttributes(
		attribute.Bool("discovery.has_location", f.HasLocation()),
		attribute.Int("discovery.count", len(ranked)),
	)
	return models.DiscoveryResult{
		Employees:      ranked,
		Count:          len(ranked),
		FiltersApplied: applied,
	}, nil
}

// Search is Discover with a free-text term over name, zone and services.
func (s *DiscoveryService) Search(ctx context.Context, f models.WorkerFilter) (models.SearchResult, error) {
	res, err := s.Discover(ctx, f)
	if err != nil {
		return models.SearchResult{}, err
	}
	out := models.SearchResult{DiscoveryResult: res}
	if f.Query != "" {
		term := f.Query
		out.SearchTerm = &term
	}
	return out, nil
}

// NearMe ranks every discoverable worker around the given point.
func (s *DiscoveryService) NearMe(ctx context.Context, lat, lon, radius *float64) (models.DiscoveryResult, error) {
	if lat == nil {
		return models.DiscoveryResult{}, &models.FilterError{Field: "latitude", Reason: "required"}
	}
	if lon == nil {
		return models.DiscoveryResult{}, &models.FilterError{Field: "longitude", Reason: "required"}
	}
	return s.Discover(ctx, models.WorkerFilter{Latitude: lat, Longitude: lon, RadiusKm: radius})
}

// GetWorker returns a single discoverable worker.
func (s *DiscoveryService) GetWorker(ctx context.Context, id string) (models.WorkerProfile, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout())
	defer cancel()

	w, err := s.Store.GetByID(ctx, id)
	if err != nil {
		return models.WorkerProfile{}, err
	}
	if !w.Discoverable() {
		return models.WorkerProfile{}, models.ErrWorkerNotFound
	}
	w.DistanceKm = nil
	return w, nil
}

func (s *DiscoveryService) query(ctx context.Context, f models.WorkerFilter) ([]models.WorkerProfile, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout())
	defer cancel()

	started := time.Now()
	workers, err := s.Store.QueryByAttributes(ctx, f)
	if err != nil {
		loggerOrNop(s.Logger).Errorf("discovery: worker query failed after %s: %v", time.Since(started), err)
		return nil, fmt.Errorf("query workers: %w", err)
	}
	return workers, nil
}

func (s *DiscoveryService) withDefaults(f models.WorkerFilter) models.WorkerFilter {
	if f.HasLocation() && f.RadiusKm == nil {
		radius := s.DefaultRadius
		if radius <= 0 {
			radius = defaultRadiusKm
		}
		f.RadiusKm = &radius
	}
	return f
}

func (s *DiscoveryService) timeout() time.Duration {
	if s.QueryTimeout <= 0 {
		return defaultQueryTimeout
	}
	return s.QueryTimeout
}

// ValidateFilter rejects values the pipeline cannot compare meaningfully.
// Coordinate ranges are not checked.
func ValidateFilter(f models.WorkerFilter) error {
	if err := checkFinite("min_rating", f.MinRating); err != nil {
		return err
	}
	if f.MinRating != nil && (*f.MinRating < 0 || *f.MinRating > 5) {
		return &models.FilterError{Field: "min_rating", Value: formatFloat(*f.MinRating), Reason: "must be between 0 and 5"}
	}
	if err := checkFinite("max_hourly_rate", f.MaxHourlyRate); err != nil {
		return err
	}
	if err := checkFinite("radius", f.RadiusKm); err != nil {
		return err
	}
	if f.RadiusKm != nil && *f.RadiusKm <= 0 {
		return &models.FilterError{Field: "radius", Value: formatFloat(*f.RadiusKm), Reason: "must be positive"}
	}
	if err := checkFinite("latitude", f.Latitude); err != nil {
		return err
	}
	if err := checkFinite("longitude", f.Longitude); err != nil {
		return err
	}
	if f.Latitude != nil && f.Longitude == nil {
		return &models.FilterError{Field: "longitude", Reason: "required when latitude is set"}
	}
	if f.Longitude != nil && f.Latitude == nil {
		return &models.FilterError{Field: "latitude", Reason: "required when longitude is set"}
	}
	return nil
}

func checkFinite(field string, v *float64) error {
	if v == nil {
		return nil
	}
	if math.IsNaN(*v) || math.IsInf(*v, 0) {
		return &models.FilterError{Field: field, Value: formatFloat(*v), Reason: "not a finite number"}
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
