package bigquery

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/bigquery"
	"github.com/dvloznov/spendwise/internal/domain"
	"google.golang.org/api/iterator"
)

// Settings returns the user's settings, or zero settings when none were saved.
func (r *Repository) Settings(ctx context.Context, userID string) (domain.Settings, error) {
	row, err := GetSettingsWithClient(ctx, r.client, r.dataset, userID)
	if err != nil {
		return domain.Settings{}, err
	}
	if row == nil {
		return domain.Settings{UserID: userID}, nil
	}
	return row.toDomain(), nil
}

// SaveSettings upserts the user's settings.
func (r *Repository) SaveSettings(ctx context.Context, settings domain.Settings) error {
	return MergeSettingsWithClient(ctx, r.client, r.dataset, &SettingsRow{
		UserID:           settings.UserID,
		MonthlyIncome:    settings.MonthlyIncome,
		BudgetCycleStart: int64(settings.BudgetCycleStart),
		ProEnabled:       settings.ProEnabled,
		UpdatedTS:        time.Now().UTC(),
	})
}

// GetSettingsWithClient returns the settings row or nil.
func GetSettingsWithClient(ctx context.Context, client *bigquery.Client, dataset, userID string) (*SettingsRow, error) {
	q := client.Query(fmt.Sprintf(`
		SELECT user_id, monthly_income, budget_cycle_start, pro_enabled, updated_ts
		FROM %s
		WHERE user_id = @user_id
		LIMIT 1
	`, tableRef(dataset, settingsTable)))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "user_id", Value: userID},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("GetSettings: query read: %w", err)
	}

	var row SettingsRow
	err = it.Next(&row)
	if err == iterator.Done {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("GetSettings: iter next: %w", err)
	}
	return &row, nil
}

// MergeSettingsWithClient upserts row keyed by user.
func MergeSettingsWithClient(ctx context.Context, client *bigquery.Client, dataset string, row *SettingsRow) error {
	q := client.Query(fmt.Sprintf(`
		MERGE %s s
		USING (SELECT @user_id AS user_id) n
		ON s.user_id = n.user_id
		WHEN MATCHED THEN
		  UPDATE SET monthly_income = @monthly_income,
		             budget_cycle_start = @budget_cycle_start,
		             pro_enabled = @pro_enabled,
		             updated_ts = @updated_ts
		WHEN NOT MATCHED THEN
		  INSERT (user_id, monthly_income, budget_cycle_start, pro_enabled, updated_ts)
		  VALUES (@user_id, @monthly_income, @budget_cycle_start, @pro_enabled, @updated_ts)
	`, tableRef(dataset, settingsTable)))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "user_id", Value: row.UserID},
		{Name: "monthly_income", Value: row.MonthlyIncome},
		{Name: "budget_cycle_start", Value: row.BudgetCycleStart},
		{Name: "pro_enabled", Value: row.ProEnabled},
		{Name: "updated_ts", Value: row.UpdatedTS},
	}

	if _, err := runDML(ctx, q); err != nil {
		return fmt.Errorf("MergeSettings: %w", err)
	}
	return nil
}
