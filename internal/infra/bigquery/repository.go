package bigquery

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"
	"github.com/dvloznov/spendwise/internal/store"
	"github.com/google/uuid"
)

const (
	// DefaultDataset is used when no dataset is configured.
	DefaultDataset = "finance"

	transactionsTable = "transactions"
	budgetsTable      = "budgets"
	goalsTable        = "goals"
	settingsTable     = "user_settings"
	importRunsTable   = "import_runs"
)

// Repository is the BigQuery implementation of store.Repository. It holds a
// shared BigQuery client to avoid creating a new connection for each
// operation. Transactions and import runs are scoped to userID.
type Repository struct {
	client  *bigquery.Client
	dataset string
	userID  string
}

// Ensure Repository implements store.Repository.
var _ store.Repository = (*Repository)(nil)

// NewRepository creates a repository with a shared BigQuery client.
func NewRepository(ctx context.Context, projectID, dataset, userID string) (*Repository, error) {
	client, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("NewRepository: creating client: %w", err)
	}
	return NewRepositoryWithClient(client, dataset, userID), nil
}

// NewRepositoryWithClient wraps an existing client.
func NewRepositoryWithClient(client *bigquery.Client, dataset, userID string) *Repository {
	if dataset == "" {
		dataset = DefaultDataset
	}
	return &Repository{client: client, dataset: dataset, userID: userID}
}

// Close closes the BigQuery client connection. This should be called when
// the repository is no longer needed to release resources.
func (r *Repository) Close() error {
	if r.client != nil {
		return r.client.Close()
	}
	return nil
}

func tableRef(dataset, table string) string {
	return fmt.Sprintf("`%s.%s`", dataset, table)
}

func newID() string {
	return uuid.NewString()
}

// runDML runs a DML statement and waits for it. It returns the number of
// affected rows when BigQuery reports it.
func runDML(ctx context.Context, q *bigquery.Query) (int64, error) {
	job, err := q.Run(ctx)
	if err != nil {
		return 0, fmt.Errorf("running query: %w", err)
	}

	status, err := job.Wait(ctx)
	if err != nil {
		return 0, fmt.Errorf("waiting for job: %w", err)
	}
	if err := status.Err(); err != nil {
		return 0, fmt.Errorf("job error: %w", err)
	}

	if status.Statistics != nil {
		if stats, ok := status.Statistics.Details.(*bigquery.QueryStatistics); ok {
			return stats.NumDMLAffectedRows, nil
		}
	}
	return 0, nil
}
