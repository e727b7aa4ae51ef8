package inmemory

import (
	"context"
	"sort"

	"github.com/dvloznov/spendwise/internal/domain"
)

// RecurringExpenses returns the user's active recurring expenses, largest
// average amount first.
func (s *Store) RecurringExpenses(ctx context.Context, userID string) ([]domain.RecurringExpense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []domain.RecurringExpense{}
	for _, e := range s.recurring[userID] {
		if e.IsActive {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].AverageAmount != out[j].AverageAmount {
			return out[i].AverageAmount > out[j].AverageAmount
		}
		return out[i].MerchantName < out[j].MerchantName
	})
	return out, nil
}

// UpsertRecurringExpense creates or replaces the expense keyed by user and merchant.
func (s *Store) UpsertRecurringExpense(ctx context.Context, userID string, expense domain.RecurringExpense) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.recurring[userID] == nil {
		s.recurring[userID] = make(map[string]domain.RecurringExpense)
	}
	s.recurring[userID][expense.MerchantName] = expense
	return nil
}
