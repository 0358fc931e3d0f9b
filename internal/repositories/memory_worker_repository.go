package repositories

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"domisafe/internal/models"

	"github.com/google/uuid"
	"gopkg.in/yaml.v2"
)

// MemoryWorkerRepository is an in-process worker store used for local runs
// and tests.
type MemoryWorkerRepository struct {
	mu      sync.RWMutex
	workers map[string]models.WorkerProfile
}

func NewMemoryWorkerRepository(workers []models.WorkerProfile) *MemoryWorkerRepository {
	repo := &MemoryWorkerRepository{workers: make(map[string]models.WorkerProfile, len(workers))}
	now := time.Now().UTC()
	for _, w := range workers {
		if w.ID == "" {
			w.ID = uuid.NewString()
		}
		if w.CreatedAt.IsZero() {
			w.CreatedAt = now
		}
		w.DistanceKm = nil
		repo.workers[w.ID] = w
	}
	return repo
}

type workerSeed struct {
	Workers []models.WorkerProfile `yaml:"workers"`
}

// LoadWorkerSeed reads a YAML document with a top-level "workers" list.
func LoadWorkerSeed(path string) ([]models.WorkerProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read worker seed: %w", err)
	}
	var seed workerSeed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("parse worker seed: %w", err)
	}
	return seed.Workers, nil
}

func (r *MemoryWorkerRepository) QueryByAttributes(ctx context.Context, f models.WorkerFilter) ([]models.WorkerProfile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	workers := make([]models.WorkerProfile, 0, len(r.workers))
	for _, w := range r.workers {
		if MatchesFilter(f, w) {
			workers = append(workers, w)
		}
	}
	return workers, nil
}

func (r *MemoryWorkerRepository) GetByID(ctx context.Context, id string) (models.WorkerProfile, error) {
	if err := ctx.Err(); err != nil {
		return models.WorkerProfile{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	w, ok := r.workers[id]
	if !ok {
		return models.WorkerProfile{}, models.ErrWorkerNotFound
	}
	return w, nil
}

func (r *MemoryWorkerRepository) SetActive(ctx context.Context, id string, active bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	w, ok := r.workers[id]
	if !ok {
		return models.ErrWorkerNotFound
	}
	w.IsActive = active
	r.workers[id] = w
	return nil
}
