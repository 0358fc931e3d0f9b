package services

import (
	"context"
	"time"

	"domisafe/internal/models"
)

// WorkerService holds worker-facing writes that sit next to discovery.
type WorkerService struct {
	Store        WorkerStore
	Logger       Logger
	QueryTimeout time.Duration
}

// SetAvailability toggles is_active. Workers may only change their own
// profile; admins may change any.
func (s *WorkerService) SetAvailability(ctx context.Context, claims models.Claims, id string, active bool) error {
	switch claims.Role {
	case models.RoleAdmin:
	case models.RoleWorker:
		if claims.WorkerID == "" || claims.WorkerID != id {
			return models.ErrForbidden
		}
	default:
		return models.ErrForbidden
	}

	timeout := s.QueryTimeout
	if timeout <= 0 {
		timeout = defaultQueryTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := s.Store.SetActive(ctx, id, active); err != nil {
		return err
	}
	loggerOrNop(s.Logger).Infof("worker %s availability set to %t by %s %s", id, active, claims.Role, claims.UserID)
	return nil
}
