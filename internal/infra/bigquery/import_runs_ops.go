package bigquery

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/bigquery"
	"github.com/dvloznov/spendwise/internal/domain"
	"github.com/dvloznov/spendwise/internal/logger"
	"github.com/dvloznov/spendwise/internal/store"
	"google.golang.org/api/iterator"
)

// StartImportRun records a RUNNING import and returns its ID.
func (r *Repository) StartImportRun(ctx context.Context, source string) (string, error) {
	return StartImportRunWithClient(ctx, r.client, r.dataset, r.userID, source)
}

// MarkImportRunSucceeded finishes a run with its stats.
func (r *Repository) MarkImportRunSucceeded(ctx context.Context, importRunID string, stats domain.ImportStats) error {
	return MarkImportRunSucceededWithClient(ctx, r.client, r.dataset, importRunID, stats)
}

// MarkImportRunFailed finishes a run with an error. Failures are logged.
func (r *Repository) MarkImportRunFailed(ctx context.Context, importRunID string, importErr error) {
	MarkImportRunFailedWithClient(ctx, r.client, r.dataset, importRunID, importErr)
}

// ListImportRuns returns the user's runs, newest first.
func (r *Repository) ListImportRuns(ctx context.Context) ([]domain.ImportRun, error) {
	return ListImportRunsWithClient(ctx, r.client, r.dataset, r.userID)
}

// StartImportRunWithClient inserts a new row into import_runs with
// status=RUNNING and returns the generated import_run_id.
func StartImportRunWithClient(ctx context.Context, client *bigquery.Client, dataset, userID, source string) (string, error) {
	importRunID := newID()

	q := client.Query(fmt.Sprintf(`
		INSERT %s (
			import_run_id,
			user_id,
			source,
			started_ts,
			status
		)
		VALUES (
			@import_run_id,
			@user_id,
			@source,
			@started_ts,
			@status
		)
	`, tableRef(dataset, importRunsTable)))

	q.Parameters = []bigquery.QueryParameter{
		{Name: "import_run_id", Value: importRunID},
		{Name: "user_id", Value: userID},
		{Name: "source", Value: source},
		{Name: "started_ts", Value: time.Now()},
		{Name: "status", Value: domain.ImportRunning},
	}

	if _, err := runDML(ctx, q); err != nil {
		return "", fmt.Errorf("StartImportRun: %w", err)
	}
	return importRunID, nil
}

// MarkImportRunFailedWithClient sets status=FAILED, finished_ts and
// error_message. Errors are logged, not returned, so the original failure
// is what the caller sees.
func MarkImportRunFailedWithClient(ctx context.Context, client *bigquery.Client, dataset, importRunID string, importErr error) {
	log := logger.FromContext(ctx)

	q := client.Query(fmt.Sprintf(`
		UPDATE %s
		SET status = @status,
		    finished_ts = @finished_ts,
		    error_message = @error_message
		WHERE import_run_id = @import_run_id
	`, tableRef(dataset, importRunsTable)))

	q.Parameters = []bigquery.QueryParameter{
		{Name: "status", Value: domain.ImportFailed},
		{Name: "finished_ts", Value: time.Now()},
		{Name: "error_message", Value: importErrorMessage(importErr)},
		{Name: "import_run_id", Value: importRunID},
	}

	if _, err := runDML(ctx, q); err != nil {
		log.Error().
			Err(err).
			Str("import_run_id", importRunID).
			Msg("MarkImportRunFailed: update failed")
	}
}

// MarkImportRunSucceededWithClient sets status=SUCCESS, finished_ts and the
// run statistics, and clears error_message.
func MarkImportRunSucceededWithClient(ctx context.Context, client *bigquery.Client, dataset, importRunID string, stats domain.ImportStats) error {
	q := client.Query(fmt.Sprintf(`
		UPDATE %s
		SET status = @status,
		    finished_ts = @finished_ts,
		    error_message = "",
		    parsed = @parsed,
		    skipped = @skipped,
		    uncategorized = @uncategorized,
		    months = @months
		WHERE import_run_id = @import_run_id
	`, tableRef(dataset, importRunsTable)))

	q.Parameters = []bigquery.QueryParameter{
		{Name: "status", Value: domain.ImportSuccess},
		{Name: "finished_ts", Value: time.Now()},
		{Name: "parsed", Value: stats.Parsed},
		{Name: "skipped", Value: stats.Skipped},
		{Name: "uncategorized", Value: stats.Uncategorized},
		{Name: "months", Value: stats.Months},
		{Name: "import_run_id", Value: importRunID},
	}

	affected, err := runDML(ctx, q)
	if err != nil {
		return fmt.Errorf("MarkImportRunSucceeded: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("MarkImportRunSucceeded: %s: %w", importRunID, store.ErrNotFound)
	}
	return nil
}

// ListImportRunsWithClient reads the user's import runs, newest first.
func ListImportRunsWithClient(ctx context.Context, client *bigquery.Client, dataset, userID string) ([]domain.ImportRun, error) {
	q := client.Query(fmt.Sprintf(`
		SELECT
			import_run_id, user_id, source, started_ts, finished_ts,
			status, error_message, parsed, skipped, uncategorized, months
		FROM %s
		WHERE user_id = @user_id
		ORDER BY started_ts DESC
	`, tableRef(dataset, importRunsTable)))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "user_id", Value: userID},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("ListImportRuns: query read: %w", err)
	}

	runs := []domain.ImportRun{}
	for {
		var row ImportRunRow
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ListImportRuns: iter next: %w", err)
		}
		runs = append(runs, row.toDomain())
	}
	return runs, nil
}
