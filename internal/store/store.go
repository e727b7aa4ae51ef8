// Package store defines the persistence collaborators used by the importer
// and the analytics service. Implementations live in store/inmemory,
// infra/bigquery and infra/supabase.
package store

//go:generate mockgen -destination=mocks/mock_store.go -package=mocks github.com/dvloznov/spendwise/internal/store Repository,InsightStore

import (
	"context"
	"errors"

	"github.com/dvloznov/spendwise/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// MaxErrorMessageLength bounds error text stored on failed import runs.
const MaxErrorMessageLength = 2000

// ErrorMessage returns the text of err truncated to MaxErrorMessageLength.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	if len(msg) > MaxErrorMessageLength {
		msg = msg[:MaxErrorMessageLength]
	}
	return msg
}

// TransactionStore persists categorized transactions.
type TransactionStore interface {
	SaveTransactions(ctx context.Context, importRunID string, items []domain.CategorizedTransaction) error
	TransactionsByMonth(ctx context.Context, month string) ([]domain.StoredTransaction, error)
	AllMonths(ctx context.Context) ([]string, error)
	AllTransactions(ctx context.Context) ([]domain.StoredTransaction, error)
}

// BudgetStore persists per-month category budgets.
type BudgetStore interface {
	Budgets(ctx context.Context, month string) ([]domain.Budget, error)
	SaveBudget(ctx context.Context, budget domain.Budget) error
	DeleteBudget(ctx context.Context, category, month string) error
}

// GoalStore is the read side of the goal collaborator.
type GoalStore interface {
	Goals(ctx context.Context, userID string) ([]domain.Goal, error)
	Goal(ctx context.Context, userID, goalID string) (*domain.Goal, error)
}

// GoalWriter is implemented by stores that accept goals from the service.
type GoalWriter interface {
	SaveGoal(ctx context.Context, userID string, goal domain.Goal) (string, error)
}

// SettingsStore persists forecaster settings.
type SettingsStore interface {
	Settings(ctx context.Context, userID string) (domain.Settings, error)
	SaveSettings(ctx context.Context, settings domain.Settings) error
}

// ImportRunStore tracks CSV import runs.
type ImportRunStore interface {
	StartImportRun(ctx context.Context, source string) (string, error)
	MarkImportRunSucceeded(ctx context.Context, importRunID string, stats domain.ImportStats) error
	MarkImportRunFailed(ctx context.Context, importRunID string, importErr error)
	ListImportRuns(ctx context.Context) ([]domain.ImportRun, error)
}

// RecurringStore persists detected recurring expenses, keyed by user and merchant.
type RecurringStore interface {
	RecurringExpenses(ctx context.Context, userID string) ([]domain.RecurringExpense, error)
	UpsertRecurringExpense(ctx context.Context, userID string, expense domain.RecurringExpense) error
}

// AlertStore persists financial alerts.
type AlertStore interface {
	SaveAlerts(ctx context.Context, alerts []domain.Alert) error
	UnreadAlerts(ctx context.Context, userID string) ([]domain.Alert, error)
	MarkAlertRead(ctx context.Context, alertID string) error
}

// MerchantStore persists learned merchant categories.
type MerchantStore interface {
	LearnMerchant(ctx context.Context, userID, merchantName, category string) error
	MerchantMapping(ctx context.Context, userID, merchantName string) (*domain.MerchantMapping, error)
	MerchantMappings(ctx context.Context, userID string) ([]domain.MerchantMapping, error)
}

// Repository groups the ledger stores (transactions, budgets, goals,
// settings, import runs).
type Repository interface {
	TransactionStore
	BudgetStore
	GoalStore
	SettingsStore
	ImportRunStore
}

// InsightStore groups the stores backing recurring detection, alerts and
// merchant learning.
type InsightStore interface {
	RecurringStore
	AlertStore
	MerchantStore
}
