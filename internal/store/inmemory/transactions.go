package inmemory

import (
	"context"
	"sort"

	"github.com/dvloznov/spendwise/internal/domain"
	"github.com/google/uuid"
)

// SaveTransactions appends items. Items whose date has no month key are kept
// under an empty month so they are still returned by AllTransactions.
func (s *Store) SaveTransactions(ctx context.Context, importRunID string, items []domain.CategorizedTransaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, it := range items {
		month, _ := domain.MonthKey(it.Date)
		s.transactions = append(s.transactions, domain.StoredTransaction{
			CategorizedTransaction: it,
			TransactionID:          uuid.New().String(),
			ImportRunID:            importRunID,
			Month:                  month,
		})
	}
	return nil
}

// TransactionsByMonth returns the month's transactions, newest first.
func (s *Store) TransactionsByMonth(ctx context.Context, month string) ([]domain.StoredTransaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.StoredTransaction
	for _, t := range s.transactions {
		if t.Month == month && s.visibleLocked(t) {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		di, erri := domain.ParseDate(out[i].Date)
		dj, errj := domain.ParseDate(out[j].Date)
		if erri != nil || errj != nil {
			return false
		}
		return di.After(dj)
	})
	return out, nil
}

// AllMonths returns every month with transactions, newest first.
func (s *Store) AllMonths(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]bool)
	months := []string{}
	for _, t := range s.transactions {
		if t.Month == "" || seen[t.Month] || !s.visibleLocked(t) {
			continue
		}
		seen[t.Month] = true
		months = append(months, t.Month)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(months)))
	return months, nil
}

// AllTransactions returns every stored transaction in insertion order.
// Like the other reads it skips transactions of FAILED import runs.
func (s *Store) AllTransactions(ctx context.Context) ([]domain.StoredTransaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.StoredTransaction, 0, len(s.transactions))
	for _, t := range s.transactions {
		if s.visibleLocked(t) {
			out = append(out, t)
		}
	}
	return out, nil
}

// visibleLocked reports whether t belongs to a run that did not fail.
// Rows saved without a known run stay visible. Callers hold s.mu.
func (s *Store) visibleLocked(t domain.StoredTransaction) bool {
	run, ok := s.runs[t.ImportRunID]
	return !ok || run.Status != domain.ImportFailed
}
