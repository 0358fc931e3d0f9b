package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"domisafe/internal/models"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("domisafe/repositories")

// Dialect selects the placeholder syntax of the SQL driver.
type Dialect string

const (
	DialectMySQL    Dialect = "mysql"
	DialectPostgres Dialect = "pgx"
)

const workerColumns = `id, name, email, phone, zone, services_offered, languages, average_rating,
	hourly_rate, latitude, longitude, is_active, verification_status, created_at`

// WorkerRepository reads and updates worker profiles in a SQL database.
type WorkerRepository struct {
	DB      *sql.DB
	Dialect Dialect
}

func (r *WorkerRepository) placeholder(n int) string {
	if r.Dialect == DialectPostgres {
		return "$" + strconv.Itoa(n)
	}
	return "?"
}

// QueryByAttributes returns discoverable workers matching f, unordered.
// Zone, rating and rate are filtered in SQL; tag sets and the search term
// are matched after decoding.
func (r *WorkerRepository) QueryByAttributes(ctx context.Context, f models.WorkerFilter) ([]models.WorkerProfile, error) {
	ctx, span := tracer.Start(ctx, "WorkerRepository.QueryByAttributes")
	defer span.End()

	var (
		conditions []string
		params     []interface{}
	)
	add := func(cond string, arg interface{}) {
		params = append(params, arg)
		conditions = append(conditions, fmt.Sprintf(cond, r.placeholder(len(params))))
	}

	add("is_active = %s", true)
	add("verification_status = %s", string(models.VerificationApproved))
	if f.Zone != "" {
		add("LOWER(zone) LIKE %s", "%"+escapeLike(strings.ToLower(f.Zone))+"%")
	}
	if f.MinRating != nil {
		add("average_rating >= %s", *f.MinRating)
	}
	if f.MaxHourlyRate != nil {
		add("hourly_rate <= %s", *f.MaxHourlyRate)
	}

	query := "SELECT " + workerColumns + " FROM workers WHERE " + strings.Join(conditions, " AND ")

	rows, err := r.DB.QueryContext(ctx, query, params...)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "query workers")
		return nil, fmt.Errorf("query workers: %w", err)
	}
	defer rows.Close()

	workers := make([]models.WorkerProfile, 0)
	for rows.Next() {
		w, err := scanWorker(rows)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "scan worker")
			return nil, err
		}
		if !MatchesFilter(f, w) {
			continue
		}
		workers = append(workers, w)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "iterate workers")
		return nil, fmt.Errorf("iterate workers: %w", err)
	}

	span.SetAttributes(attribute.Int("workers.count", len(workers)))
	return workers, nil
}

func (r *WorkerRepository) GetByID(ctx context.Context, id string) (models.WorkerProfile, error) {
	ctx, span := tracer.Start(ctx, "WorkerRepository.GetByID")
	defer span.End()
	span.SetAttributes(attribute.String("worker.id", id))

	query := "SELECT " + workerColumns + " FROM workers WHERE id = " + r.placeholder(1)
	w, err := scanWorker(r.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.WorkerProfile{}, models.ErrWorkerNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "get worker")
		return models.WorkerProfile{}, err
	}
	return w, nil
}

// SetActive toggles whether the worker accepts bookings.
func (r *WorkerRepository) SetActive(ctx context.Context, id string, active bool) error {
	ctx, span := tracer.Start(ctx, "WorkerRepository.SetActive")
	defer span.End()

	query := fmt.Sprintf("UPDATE workers SET is_active = %s WHERE id = %s", r.placeholder(1), r.placeholder(2))
	result, err := r.DB.ExecContext(ctx, query, active, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "update worker")
		return fmt.Errorf("update worker: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected > 0 {
		return nil
	}

	// MySQL reports zero affected rows when the value did not change.
	var exists int
	err = r.DB.QueryRowContext(ctx, "SELECT 1 FROM workers WHERE id = "+r.placeholder(1), id).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return models.ErrWorkerNotFound
	}
	return err
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanWorker(row rowScanner) (models.WorkerProfile, error) {
	var (
		w                       models.WorkerProfile
		email, phone            sql.NullString
		servicesJSON, langsJSON []byte
		lat, lon                sql.NullFloat64
		status                  string
	)
	if err := row.Scan(
		&w.ID, &w.Name, &email, &phone, &w.Zone, &servicesJSON, &langsJSON, &w.AverageRating,
		&w.HourlyRate, &lat, &lon, &w.IsActive, &status, &w.CreatedAt,
	); err != nil {
		return models.WorkerProfile{}, err
	}
	w.Email = email.String
	w.Phone = phone.String
	w.VerificationStatus = models.VerificationStatus(status)
	if lat.Valid && lon.Valid {
		w.Latitude = &lat.Float64
		w.Longitude = &lon.Float64
	}
	if len(servicesJSON) > 0 {
		if err := json.Unmarshal(servicesJSON, &w.ServicesOffered); err != nil {
			return models.WorkerProfile{}, fmt.Errorf("failed to decode services_offered json: %w", err)
		}
	}
	if len(langsJSON) > 0 {
		if err := json.Unmarshal(langsJSON, &w.Languages); err != nil {
			return models.WorkerProfile{}, fmt.Errorf("failed to decode languages json: %w", err)
		}
	}
	return w, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
