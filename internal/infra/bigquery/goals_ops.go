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

// Goals returns the user's goals in creation order.
func (r *Repository) Goals(ctx context.Context, userID string) ([]domain.Goal, error) {
	return ListGoalsWithClient(ctx, r.client, r.dataset, userID, "")
}

// Goal returns one goal or store.ErrNotFound.
func (r *Repository) Goal(ctx context.Context, userID, goalID string) (*domain.Goal, error) {
	goals, err := ListGoalsWithClient(ctx, r.client, r.dataset, userID, goalID)
	if err != nil {
		return nil, err
	}
	if len(goals) == 0 {
		return nil, fmt.Errorf("Goal: %s: %w", goalID, store.ErrNotFound)
	}
	return &goals[0], nil
}

// SaveGoal inserts a goal and returns its ID. Goals are seeded by the CLI;
// the analytics never write them.
func (r *Repository) SaveGoal(ctx context.Context, userID string, goal domain.Goal) (string, error) {
	row := toGoalRow(userID, goal, time.Now().UTC())
	if err := InsertGoalWithClient(ctx, r.client, r.dataset, row); err != nil {
		return "", err
	}
	return row.GoalID, nil
}

// ListGoalsWithClient reads the user's goals, or a single goal when goalID is set.
func ListGoalsWithClient(ctx context.Context, client *bigquery.Client, dataset, userID, goalID string) ([]domain.Goal, error) {
	q := client.Query(fmt.Sprintf(`
		SELECT
			goal_id, user_id, name, category,
			target_amount, current_amount, monthly_contribution,
			target_date, status, created_ts
		FROM %s
		WHERE user_id = @user_id
		  AND (@goal_id = '' OR goal_id = @goal_id)
		ORDER BY created_ts
	`, tableRef(dataset, goalsTable)))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "user_id", Value: userID},
		{Name: "goal_id", Value: goalID},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("ListGoals: query read: %w", err)
	}

	goals := []domain.Goal{}
	for {
		var row GoalRow
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ListGoals: iter next: %w", err)
		}
		goals = append(goals, row.toDomain())
	}
	return goals, nil
}

// InsertGoalWithClient inserts one goal row.
func InsertGoalWithClient(ctx context.Context, client *bigquery.Client, dataset string, row *GoalRow) error {
	q := client.Query(fmt.Sprintf(`
		INSERT INTO %s (
			goal_id, user_id, name, category,
			target_amount, current_amount, monthly_contribution,
			target_date, status, created_ts
		)
		VALUES (
			@goal_id, @user_id, @name, @category,
			@target_amount, @current_amount, @monthly_contribution,
			@target_date, @status, @created_ts
		)
	`, tableRef(dataset, goalsTable)))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "goal_id", Value: row.GoalID},
		{Name: "user_id", Value: row.UserID},
		{Name: "name", Value: row.Name},
		{Name: "category", Value: row.Category},
		{Name: "target_amount", Value: row.TargetAmount},
		{Name: "current_amount", Value: row.CurrentAmount},
		{Name: "monthly_contribution", Value: row.MonthlyContribution},
		{Name: "target_date", Value: row.TargetDate},
		{Name: "status", Value: row.Status},
		{Name: "created_ts", Value: row.CreatedTS},
	}

	if _, err := runDML(ctx, q); err != nil {
		return fmt.Errorf("InsertGoal: %w", err)
	}
	return nil
}
