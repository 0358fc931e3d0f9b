package repositories

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"domisafe/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
)

var workerRowColumns = []string{
	"id", "name", "email", "phone", "zone", "services_offered", "languages", "average_rating",
	"hourly_rate", "latitude", "longitude", "is_active", "verification_status", "created_at",
}

func newMockRepo(t *testing.T, dialect Dialect) (*WorkerRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return &WorkerRepository{DB: db, Dialect: dialect}, mock
}

func TestWorkerRepositoryQueryByAttributes(t *testing.T) {
	repo, mock := newMockRepo(t, DialectMySQL)
	created := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows(workerRowColumns).
		AddRow("w1", "María", "maria@example.com", nil, "Palermo", []byte(`["cleaning","cooking"]`), []byte(`["es"]`),
			4.8, 3500.0, -34.5875, -58.3974, true, "approved", created).
		AddRow("w2", "Ana", nil, nil, "Palermo Chico", []byte(`["babysitting"]`), []byte(`["es"]`),
			4.9, 4000.0, nil, nil, true, "approved", created)

	mock.ExpectQuery(regexp.QuoteMeta(
		"FROM workers WHERE is_active = ? AND verification_status = ? AND LOWER(zone) LIKE ? AND average_rating >= ?",
	)).
		WithArgs(true, "approved", "%palermo%", 4.5).
		WillReturnRows(rows)

	got, err := repo.QueryByAttributes(context.Background(), models.WorkerFilter{
		Zone:      "Palermo",
		MinRating: fptr(4.5),
		Services:  []string{"Cleaning"},
	})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 1 || got[0].ID != "w1" {
		t.Fatalf("expected only w1 after service match, got %+v", got)
	}
	w := got[0]
	if w.Email != "maria@example.com" || w.Phone != "" {
		t.Fatalf("unexpected contact fields %q %q", w.Email, w.Phone)
	}
	if !w.HasCoordinates() || *w.Latitude != -34.5875 {
		t.Fatalf("expected coordinates, got %v %v", w.Latitude, w.Longitude)
	}
	if !w.CreatedAt.Equal(created) {
		t.Fatalf("expected created_at %v, got %v", created, w.CreatedAt)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestWorkerRepositoryPostgresPlaceholders(t *testing.T) {
	repo, mock := newMockRepo(t, DialectPostgres)

	mock.ExpectQuery(regexp.QuoteMeta(
		"FROM workers WHERE is_active = $1 AND verification_status = $2 AND hourly_rate <= $3",
	)).
		WithArgs(true, "approved", 3000.0).
		WillReturnRows(sqlmock.NewRows(workerRowColumns))

	got, err := repo.QueryByAttributes(context.Background(), models.WorkerFilter{MaxHourlyRate: fptr(3000)})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestWorkerRepositoryQueryError(t *testing.T) {
	repo, mock := newMockRepo(t, DialectMySQL)
	boom := errors.New("connection refused")
	mock.ExpectQuery("FROM workers").WillReturnError(boom)

	if _, err := repo.QueryByAttributes(context.Background(), models.WorkerFilter{}); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped driver error, got %v", err)
	}
}

func TestWorkerRepositoryBadJSON(t *testing.T) {
	repo, mock := newMockRepo(t, DialectMySQL)
	mock.ExpectQuery("FROM workers").WillReturnRows(sqlmock.NewRows(workerRowColumns).
		AddRow("w1", "María", nil, nil, "Palermo", []byte(`not json`), nil,
			4.8, 3500.0, nil, nil, true, "approved", time.Now()))

	if _, err := repo.QueryByAttributes(context.Background(), models.WorkerFilter{}); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestWorkerRepositoryGetByIDNotFound(t *testing.T) {
	repo, mock := newMockRepo(t, DialectMySQL)
	mock.ExpectQuery(regexp.QuoteMeta("FROM workers WHERE id = ?")).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(workerRowColumns))

	if _, err := repo.GetByID(context.Background(), "missing"); !errors.Is(err, models.ErrWorkerNotFound) {
		t.Fatalf("expected ErrWorkerNotFound, got %v", err)
	}
}

func TestWorkerRepositorySetActive(t *testing.T) {
	t.Run("updated", func(t *testing.T) {
		repo, mock := newMockRepo(t, DialectMySQL)
		mock.ExpectExec(regexp.QuoteMeta("UPDATE workers SET is_active = ? WHERE id = ?")).
			WithArgs(false, "w1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		if err := repo.SetActive(context.Background(), "w1", false); err != nil {
			t.Fatalf("set active: %v", err)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Fatalf("unmet expectations: %v", err)
		}
	})

	t.Run("value unchanged", func(t *testing.T) {
		repo, mock := newMockRepo(t, DialectMySQL)
		mock.ExpectExec(regexp.QuoteMeta("UPDATE workers SET is_active = ? WHERE id = ?")).
			WithArgs(true, "w1").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM workers WHERE id = ?")).
			WithArgs("w1").
			WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))

		if err := repo.SetActive(context.Background(), "w1", true); err != nil {
			t.Fatalf("set active: %v", err)
		}
	})

	t.Run("unknown worker", func(t *testing.T) {
		repo, mock := newMockRepo(t, DialectPostgres)
		mock.ExpectExec(regexp.QuoteMeta("UPDATE workers SET is_active = $1 WHERE id = $2")).
			WithArgs(true, "missing").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM workers WHERE id = $1")).
			WithArgs("missing").
			WillReturnRows(sqlmock.NewRows([]string{"1"}))

		if err := repo.SetActive(context.Background(), "missing", true); !errors.Is(err, models.ErrWorkerNotFound) {
			t.Fatalf("expected ErrWorkerNotFound, got %v", err)
		}
	})
}

func TestEscapeLike(t *testing.T) {
	if got := escapeLike(`100%_off\`); got != `100\%\_off\\` {
		t.Fatalf("unexpected escape %q", got)
	}
}
