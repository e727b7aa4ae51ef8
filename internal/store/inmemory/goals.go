package inmemory

import (
	"context"
	"fmt"

	"github.com/dvloznov/spendwise/internal/domain"
	"github.com/dvloznov/spendwise/internal/store"
	"github.com/google/uuid"
)

// Goals returns the user's goals in creation order.
func (s *Store) Goals(ctx context.Context, userID string) ([]domain.Goal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Goal, len(s.goals[userID]))
	copy(out, s.goals[userID])
	return out, nil
}

// Goal returns one goal by ID.
func (s *Store) Goal(ctx context.Context, userID, goalID string) (*domain.Goal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, g := range s.goals[userID] {
		if g.ID == goalID {
			goal := g
			return &goal, nil
		}
	}
	return nil, fmt.Errorf("Goal: %s: %w", goalID, store.ErrNotFound)
}

// SaveGoal creates or replaces a goal. It is used to seed the store; the
// analytics never write goals.
func (s *Store) SaveGoal(ctx context.Context, userID string, goal domain.Goal) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if goal.ID == "" {
		goal.ID = uuid.New().String()
	}
	if goal.Status == "" {
		goal.Status = domain.GoalActive
	}
	for i, g := range s.goals[userID] {
		if g.ID == goal.ID {
			s.goals[userID][i] = goal
			return goal.ID, nil
		}
	}
	s.goals[userID] = append(s.goals[userID], goal)
	return goal.ID, nil
}
