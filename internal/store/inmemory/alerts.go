package inmemory

import (
	"context"
	"fmt"
	"time"

	"github.com/dvloznov/spendwise/internal/domain"
	"github.com/dvloznov/spendwise/internal/store"
	"github.com/google/uuid"
)

// SaveAlerts stores alerts, assigning IDs and timestamps where missing.
func (s *Store) SaveAlerts(ctx context.Context, alerts []domain.Alert) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range alerts {
		if a.ID == "" {
			a.ID = uuid.New().String()
		}
		if a.CreatedAt.IsZero() {
			a.CreatedAt = time.Now().UTC()
		}
		s.alerts = append(s.alerts, a)
	}
	return nil
}

// UnreadAlerts returns the user's unread alerts, newest first.
func (s *Store) UnreadAlerts(ctx context.Context, userID string) ([]domain.Alert, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []domain.Alert{}
	for i := len(s.alerts) - 1; i >= 0; i-- {
		a := s.alerts[i]
		if a.UserID == userID && !a.IsRead {
			out = append(out, a)
		}
	}
	return out, nil
}

// MarkAlertRead flags an alert as read.
func (s *Store) MarkAlertRead(ctx context.Context, alertID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.alerts {
		if s.alerts[i].ID == alertID {
			s.alerts[i].IsRead = true
			return nil
		}
	}
	return fmt.Errorf("MarkAlertRead: %s: %w", alertID, store.ErrNotFound)
}
