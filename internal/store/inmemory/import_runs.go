package inmemory

import (
	"context"
	"fmt"
	"time"

	"github.com/dvloznov/spendwise/internal/domain"
	"github.com/dvloznov/spendwise/internal/store"
	"github.com/google/uuid"
)

// StartImportRun records a RUNNING import and returns its ID.
func (s *Store) StartImportRun(ctx context.Context, source string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.New().String()
	s.runs[id] = &domain.ImportRun{
		ImportRunID: id,
		Source:      source,
		Status:      domain.ImportRunning,
		StartedAt:   time.Now().UTC(),
	}
	s.runOrder = append(s.runOrder, id)
	return id, nil
}

// MarkImportRunSucceeded finishes a run with its stats.
func (s *Store) MarkImportRunSucceeded(ctx context.Context, importRunID string, stats domain.ImportStats) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	run, ok := s.runs[importRunID]
	if !ok {
		return fmt.Errorf("MarkImportRunSucceeded: %s: %w", importRunID, store.ErrNotFound)
	}
	now := time.Now().UTC()
	run.Status = domain.ImportSuccess
	run.FinishedAt = &now
	run.Parsed = stats.Parsed
	run.Skipped = stats.Skipped
	run.Uncategorized = stats.Uncategorized
	run.Months = stats.Months
	return nil
}

// MarkImportRunFailed finishes a run with an error. Unknown IDs are ignored.
func (s *Store) MarkImportRunFailed(ctx context.Context, importRunID string, importErr error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	run, ok := s.runs[importRunID]
	if !ok {
		return
	}
	now := time.Now().UTC()
	run.Status = domain.ImportFailed
	run.FinishedAt = &now
	run.ErrorMessage = store.ErrorMessage(importErr)
}

// ListImportRuns returns runs newest first.
func (s *Store) ListImportRuns(ctx context.Context) ([]domain.ImportRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.ImportRun, 0, len(s.runOrder))
	for i := len(s.runOrder) - 1; i >= 0; i-- {
		out = append(out, *s.runs[s.runOrder[i]])
	}
	return out, nil
}
