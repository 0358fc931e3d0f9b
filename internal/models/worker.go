package models

import "time"

type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationApproved VerificationStatus = "approved"
	VerificationRejected VerificationStatus = "rejected"
)

// WorkerProfile is a domestic-service provider as seen by discovery.
// DistanceKm is filled per request and never stored.
type WorkerProfile struct {
	ID                 string             `json:"id" bson:"_id" yaml:"id"`
	Name               string             `json:"name" bson:"name" yaml:"name"`
	Email              string             `json:"email,omitempty" bson:"email,omitempty" yaml:"email"`
	Phone              string             `json:"phone,omitempty" bson:"phone,omitempty" yaml:"phone"`
	Zone               string             `json:"zone" bson:"zone" yaml:"zone"`
	ServicesOffered    []string           `json:"services_offered" bson:"services_offered" yaml:"services_offered"`
	Languages          []string           `json:"languages" bson:"languages" yaml:"languages"`
	AverageRating      float64            `json:"average_rating" bson:"average_rating" yaml:"average_rating"`
	HourlyRate         float64            `json:"hourly_rate" bson:"hourly_rate" yaml:"hourly_rate"`
	Latitude           *float64           `json:"latitude" bson:"latitude,omitempty" yaml:"latitude"`
	Longitude          *float64           `json:"longitude" bson:"longitude,omitempty" yaml:"longitude"`
	IsActive           bool               `json:"is_active" bson:"is_active" yaml:"is_active"`
	VerificationStatus VerificationStatus `json:"verification_status" bson:"verification_status" yaml:"verification_status"`
	CreatedAt          time.Time          `json:"created_at" bson:"created_at" yaml:"created_at"`
	DistanceKm         *float64           `json:"distance_km" bson:"-" yaml:"-"`
}

// Discoverable reports whether clients may find the worker.
func (w WorkerProfile) Discoverable() bool {
	return w.IsActive && w.VerificationStatus == VerificationApproved
}

func (w WorkerProfile) HasCoordinates() bool {
	return w.Latitude != nil && w.Longitude != nil
}

// WorkerFilter carries parsed discovery criteria. Nil pointers and empty
// slices impose no constraint.
type WorkerFilter struct {
	Zone          string
	Services      []string
	Languages     []string
	MinRating     *float64
	MaxHourlyRate *float64
	Query         string
	Latitude      *float64
	Longitude     *float64
	RadiusKm      *float64
}

func (f WorkerFilter) HasLocation() bool {
	return f.Latitude != nil && f.Longitude != nil
}

// FiltersApplied lists the non-empty filter fields in a fixed order.
func (f WorkerFilter) FiltersApplied() []string {
	applied := make([]string, 0, 9)
	if f.Zone != "" {
		applied = append(applied, "zone")
	}
	if len(f.Services) > 0 {
		applied = append(applied, "services")
	}
	if len(f.Languages) > 0 {
		applied = append(applied, "languages")
	}
	if f.MinRating != nil {
		applied = append(applied, "min_rating")
	}
	if f.MaxHourlyRate != nil {
		applied = append(applied, "max_hourly_rate")
	}
	if f.Query != "" {
		applied = append(applied, "q")
	}
	if f.Latitude != nil {
		applied = append(applied, "latitude")
	}
	if f.Longitude != nil {
		applied = append(applied, "longitude")
	}
	if f.RadiusKm != nil {
		applied = append(applied, "radius")
	}
	return applied
}

type DiscoveryResult struct {
	Employees      []WorkerProfile `json:"employees"`
	Count          int             `json:"count"`
	FiltersApplied []string        `json:"filters_applied"`
}

type SearchResult struct {
	DiscoveryResult
	SearchTerm *string `json:"search_term"`
}

type AvailabilityRequest struct {
	IsActive *bool `json:"is_active"`
}
