package inmemory

import (
	"context"

	"github.com/dvloznov/spendwise/internal/domain"
)

// Settings returns the user's settings, or zero settings when none were saved.
func (s *Store) Settings(ctx context.Context, userID string) (domain.Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	settings, ok := s.settings[userID]
	if !ok {
		return domain.Settings{UserID: userID}, nil
	}
	return settings, nil
}

// SaveSettings replaces the user's settings.
func (s *Store) SaveSettings(ctx context.Context, settings domain.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.settings[settings.UserID] = settings
	return nil
}
