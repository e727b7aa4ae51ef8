package bigquery

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/bigquery"
	"github.com/dvloznov/spendwise/internal/domain"
	"github.com/dvloznov/spendwise/internal/store"
	"google.golang.org/api/iterator"
)

// Budgets returns the month's budgets sorted by category.
func (r *Repository) Budgets(ctx context.Context, month string) ([]domain.Budget, error) {
	return ListBudgetsWithClient(ctx, r.client, r.dataset, r.userID, month)
}

// SaveBudget creates or replaces the budget for its category and month.
func (r *Repository) SaveBudget(ctx context.Context, budget domain.Budget) error {
	if budget.Category == "" || budget.Month == "" {
		return fmt.Errorf("SaveBudget: category and month are required")
	}
	return MergeBudgetWithClient(ctx, r.client, r.dataset, &BudgetRow{
		UserID:    r.userID,
		Month:     budget.Month,
		Category:  budget.Category,
		Amount:    budget.Amount,
		UpdatedTS: time.Now().UTC(),
	})
}

// DeleteBudget removes the budget for category and month.
func (r *Repository) DeleteBudget(ctx context.Context, category, month string) error {
	return DeleteBudgetWithClient(ctx, r.client, r.dataset, r.userID, category, month)
}

// ListBudgetsWithClient reads the user's budgets of month.
func ListBudgetsWithClient(ctx context.Context, client *bigquery.Client, dataset, userID, month string) ([]domain.Budget, error) {
	q := client.Query(fmt.Sprintf(`
		SELECT user_id, month, category, amount, updated_ts
		FROM %s
		WHERE user_id = @user_id
		  AND month = @month
		ORDER BY category
	`, tableRef(dataset, budgetsTable)))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "user_id", Value: userID},
		{Name: "month", Value: month},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("ListBudgets: query read: %w", err)
	}

	budgets := []domain.Budget{}
	for {
		var row BudgetRow
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ListBudgets: iter next: %w", err)
		}
		budgets = append(budgets, row.toDomain())
	}
	return budgets, nil
}

// MergeBudgetWithClient upserts row keyed by user, month and category.
func MergeBudgetWithClient(ctx context.Context, client *bigquery.Client, dataset string, row *BudgetRow) error {
	q := client.Query(fmt.Sprintf(`
		MERGE %s b
		USING (SELECT @user_id AS user_id, @month AS month, @category AS category) s
		ON b.user_id = s.user_id AND b.month = s.month AND b.category = s.category
		WHEN MATCHED THEN
		  UPDATE SET amount = @amount, updated_ts = @updated_ts
		WHEN NOT MATCHED THEN
		  INSERT (user_id, month, category, amount, updated_ts)
		  VALUES (@user_id, @month, @category, @amount, @updated_ts)
	`, tableRef(dataset, budgetsTable)))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "user_id", Value: row.UserID},
		{Name: "month", Value: row.Month},
		{Name: "category", Value: row.Category},
		{Name: "amount", Value: row.Amount},
		{Name: "updated_ts", Value: row.UpdatedTS},
	}

	if _, err := runDML(ctx, q); err != nil {
		return fmt.Errorf("MergeBudget: %w", err)
	}
	return nil
}

// DeleteBudgetWithClient deletes one budget. It returns store.ErrNotFound
// when no row matched.
func DeleteBudgetWithClient(ctx context.Context, client *bigquery.Client, dataset, userID, category, month string) error {
	q := client.Query(fmt.Sprintf(`
		DELETE FROM %s
		WHERE user_id = @user_id
		  AND month = @month
		  AND category = @category
	`, tableRef(dataset, budgetsTable)))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "user_id", Value: userID},
		{Name: "month", Value: month},
		{Name: "category", Value: category},
	}

	affected, err := runDML(ctx, q)
	if err != nil {
		return fmt.Errorf("DeleteBudget: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("DeleteBudget: %s %s: %w", category, month, store.ErrNotFound)
	}
	return nil
}
