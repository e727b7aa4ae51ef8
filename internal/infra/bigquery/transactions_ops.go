package bigquery

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/bigquery"
	"github.com/dvloznov/spendwise/internal/domain"
	"google.golang.org/api/iterator"
)

// SaveTransactions inserts items under importRunID.
func (r *Repository) SaveTransactions(ctx context.Context, importRunID string, items []domain.CategorizedTransaction) error {
	now := time.Now().UTC()
	rows := make([]*TransactionRow, 0, len(items))
	for _, it := range items {
		rows = append(rows, toTransactionRow(r.userID, importRunID, it, now))
	}
	return InsertTransactionsWithClient(ctx, r.client, r.dataset, rows)
}

// TransactionsByMonth returns the month's transactions, newest first.
func (r *Repository) TransactionsByMonth(ctx context.Context, month string) ([]domain.StoredTransaction, error) {
	return QueryTransactionsWithClient(ctx, r.client, r.dataset, r.userID, month)
}

// AllTransactions returns every transaction of the user.
func (r *Repository) AllTransactions(ctx context.Context) ([]domain.StoredTransaction, error) {
	return QueryTransactionsWithClient(ctx, r.client, r.dataset, r.userID, "")
}

// AllMonths returns every month with transactions, newest first.
func (r *Repository) AllMonths(ctx context.Context) ([]string, error) {
	return ListMonthsWithClient(ctx, r.client, r.dataset, r.userID)
}

// InsertTransactionsWithClient inserts a batch of TransactionRow into the
// transactions table using the provided BigQuery client.
func InsertTransactionsWithClient(ctx context.Context, client *bigquery.Client, dataset string, rows []*TransactionRow) error {
	if len(rows) == 0 {
		return nil
	}

	inserter := client.Dataset(dataset).Table(transactionsTable).Inserter()
	if err := inserter.Put(ctx, rows); err != nil {
		return fmt.Errorf("InsertTransactions: inserting rows: %w", err)
	}
	return nil
}

// QueryTransactionsWithClient reads the user's transactions, optionally
// limited to one month. Transactions of failed import runs are excluded.
// With a month the result is newest first, otherwise in insertion order.
func QueryTransactionsWithClient(ctx context.Context, client *bigquery.Client, dataset, userID, month string) ([]domain.StoredTransaction, error) {
	order := "t.created_ts, t.transaction_id"
	if month != "" {
		order = "t.transaction_date DESC, t.created_ts"
	}

	q := client.Query(fmt.Sprintf(`
		SELECT
			t.transaction_id,
			t.user_id,
			t.import_run_id,
			t.transaction_date,
			t.raw_date,
			t.month,
			t.description,
			t.amount,
			t.category,
			t.created_ts
		FROM %s t
		INNER JOIN %s ir
		  ON t.import_run_id = ir.import_run_id
		WHERE t.user_id = @user_id
		  AND (@month = '' OR t.month = @month)
		  AND ir.status != 'FAILED'
		ORDER BY %s
	`, tableRef(dataset, transactionsTable), tableRef(dataset, importRunsTable), order))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "user_id", Value: userID},
		{Name: "month", Value: month},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("QueryTransactions: query read: %w", err)
	}

	var out []domain.StoredTransaction
	for {
		var row TransactionRow
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("QueryTransactions: iter next: %w", err)
		}
		out = append(out, row.toDomain())
	}
	return out, nil
}

// ListMonthsWithClient returns the distinct months of the user's
// transactions, newest first.
func ListMonthsWithClient(ctx context.Context, client *bigquery.Client, dataset, userID string) ([]string, error) {
	q := client.Query(fmt.Sprintf(`
		SELECT DISTINCT month
		FROM %s
		WHERE user_id = @user_id
		  AND month IS NOT NULL
		  AND month != ''
		ORDER BY month DESC
	`, tableRef(dataset, transactionsTable)))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "user_id", Value: userID},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("ListMonths: query read: %w", err)
	}

	months := []string{}
	for {
		var row struct {
			Month string `bigquery:"month"`
		}
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ListMonths: iter next: %w", err)
		}
		months = append(months, row.Month)
	}
	return months, nil
}
