package inmemory

import (
	"context"
	"fmt"
	"sort"

	"github.com/dvloznov/spendwise/internal/domain"
	"github.com/dvloznov/spendwise/internal/store"
)

// Budgets returns the budgets of month sorted by category.
func (s *Store) Budgets(ctx context.Context, month string) ([]domain.Budget, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []domain.Budget{}
	for k, b := range s.budgets {
		if k.month == month {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out, nil
}

// SaveBudget creates or replaces the budget for the category and month.
func (s *Store) SaveBudget(ctx context.Context, budget domain.Budget) error {
	if budget.Category == "" || budget.Month == "" {
		return fmt.Errorf("SaveBudget: category and month are required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.budgets[budgetKey{category: budget.Category, month: budget.Month}] = budget
	return nil
}

// DeleteBudget removes the budget for the category and month.
func (s *Store) DeleteBudget(ctx context.Context, category, month string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := budgetKey{category: category, month: month}
	if _, ok := s.budgets[key]; !ok {
		return fmt.Errorf("DeleteBudget: %s %s: %w", category, month, store.ErrNotFound)
	}
	delete(s.budgets, key)
	return nil
}
