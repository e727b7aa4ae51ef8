// Package supabase stores recurring expenses, financial alerts and learned
// merchant mappings in Supabase through its PostgREST API.
package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dvloznov/spendwise/internal/domain"
	"github.com/dvloznov/spendwise/internal/store"
	"github.com/supabase-community/postgrest-go"
	"github.com/supabase-community/supabase-go"
)

const (
	recurringTable = "recurring_expenses"
	alertsTable    = "financial_alerts"
	merchantsTable = "merchant_mappings"

	recurringConflict = "user_id,merchant_name"
)

// Store is the Supabase implementation of store.InsightStore.
type Store struct {
	client *supabase.Client
}

// Ensure Store implements store.InsightStore.
var _ store.InsightStore = (*Store)(nil)

// NewStore creates a store for the project at url authenticated with key.
func NewStore(url, key string) (*Store, error) {
	client, err := supabase.NewClient(url, key, &supabase.ClientOptions{})
	if err != nil {
		return nil, fmt.Errorf("NewStore: supabase client: %w", err)
	}
	return &Store{client: client}, nil
}

// RecurringExpenses returns the user's active recurring expenses, largest
// average amount first.
func (s *Store) RecurringExpenses(ctx context.Context, userID string) ([]domain.RecurringExpense, error) {
	data, _, err := s.client.From(recurringTable).
		Select("*", "", false).
		Eq("user_id", userID).
		Eq("is_active", "true").
		Order("average_amount", &postgrest.OrderOpts{Ascending: false}).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("RecurringExpenses: select: %w", err)
	}

	var rows []recurringRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("RecurringExpenses: decode: %w", err)
	}
	out := make([]domain.RecurringExpense, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toDomain())
	}
	return out, nil
}

// UpsertRecurringExpense creates or replaces the expense keyed by user and merchant.
func (s *Store) UpsertRecurringExpense(ctx context.Context, userID string, expense domain.RecurringExpense) error {
	_, _, err := s.client.From(recurringTable).
		Insert(toRecurringRow(userID, expense), true, recurringConflict, "minimal", "").
		Execute()
	if err != nil {
		return fmt.Errorf("UpsertRecurringExpense: %s: %w", expense.MerchantName, err)
	}
	return nil
}

// SaveAlerts inserts alerts in one request.
func (s *Store) SaveAlerts(ctx context.Context, alerts []domain.Alert) error {
	if len(alerts) == 0 {
		return nil
	}
	rows := make([]alertRow, 0, len(alerts))
	for _, a := range alerts {
		rows = append(rows, toAlertRow(a))
	}
	if _, _, err := s.client.From(alertsTable).Insert(rows, false, "", "minimal", "").Execute(); err != nil {
		return fmt.Errorf("SaveAlerts: insert: %w", err)
	}
	return nil
}

// UnreadAlerts returns the user's unread alerts, newest first.
func (s *Store) UnreadAlerts(ctx context.Context, userID string) ([]domain.Alert, error) {
	data, _, err := s.client.From(alertsTable).
		Select("*", "", false).
		Eq("user_id", userID).
		Eq("is_read", "false").
		Order("created_at", &postgrest.OrderOpts{Ascending: false}).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("UnreadAlerts: select: %w", err)
	}

	var rows []alertRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("UnreadAlerts: decode: %w", err)
	}
	out := make([]domain.Alert, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toDomain())
	}
	return out, nil
}

// MarkAlertRead flags an alert as read.
func (s *Store) MarkAlertRead(ctx context.Context, alertID string) error {
	data, _, err := s.client.From(alertsTable).
		Update(map[string]interface{}{"is_read": true}, "representation", "").
		Eq("id", alertID).
		Execute()
	if err != nil {
		return fmt.Errorf("MarkAlertRead: update: %w", err)
	}

	var updated []alertRow
	if err := json.Unmarshal(data, &updated); err != nil {
		return fmt.Errorf("MarkAlertRead: decode: %w", err)
	}
	if len(updated) == 0 {
		return fmt.Errorf("MarkAlertRead: %s: %w", alertID, store.ErrNotFound)
	}
	return nil
}

// LearnMerchant records that merchantName belongs to category, raising the
// confidence of an existing mapping.
func (s *Store) LearnMerchant(ctx context.Context, userID, merchantName, category string) error {
	existing, err := s.merchantRow(userID, merchantName)
	if err != nil {
		return fmt.Errorf("LearnMerchant: %w", err)
	}

	now := time.Now().UTC()
	if existing != nil {
		_, _, err = s.client.From(merchantsTable).
			Update(map[string]interface{}{
				"category":   category,
				"confidence": existing.Confidence + 1,
				"last_used":  now,
			}, "minimal", "").
			Eq("id", existing.ID).
			Execute()
		if err != nil {
			return fmt.Errorf("LearnMerchant: update: %w", err)
		}
		return nil
	}

	row := merchantRow{UserID: userID, MerchantName: merchantName, Category: category, Confidence: 1, LastUsed: now}
	if _, _, err := s.client.From(merchantsTable).Insert(row, false, "", "minimal", "").Execute(); err != nil {
		return fmt.Errorf("LearnMerchant: insert: %w", err)
	}
	return nil
}

// MerchantMapping returns the learned mapping or nil.
func (s *Store) MerchantMapping(ctx context.Context, userID, merchantName string) (*domain.MerchantMapping, error) {
	row, err := s.merchantRow(userID, merchantName)
	if err != nil {
		return nil, fmt.Errorf("MerchantMapping: %w", err)
	}
	if row == nil {
		return nil, nil
	}
	m := row.toDomain()
	return &m, nil
}

// MerchantMappings returns all of the user's mappings sorted by merchant.
func (s *Store) MerchantMappings(ctx context.Context, userID string) ([]domain.MerchantMapping, error) {
	data, _, err := s.client.From(merchantsTable).
		Select("*", "", false).
		Eq("user_id", userID).
		Order("merchant_name", &postgrest.OrderOpts{Ascending: true}).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("MerchantMappings: select: %w", err)
	}

	var rows []merchantRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("MerchantMappings: decode: %w", err)
	}
	out := make([]domain.MerchantMapping, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toDomain())
	}
	return out, nil
}

func (s *Store) merchantRow(userID, merchantName string) (*merchantRow, error) {
	data, _, err := s.client.From(merchantsTable).
		Select("*", "", false).
		Eq("user_id", userID).
		Eq("merchant_name", merchantName).
		Order("confidence", &postgrest.OrderOpts{Ascending: false}).
		Limit(1, "").
		Execute()
	if err != nil {
		return nil, fmt.Errorf("select mapping: %w", err)
	}

	var rows []merchantRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("decode mapping: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}
