// Package handlers exposes the spendwise service over JSON HTTP endpoints.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/dvloznov/spendwise/internal/api/middleware"
	"github.com/dvloznov/spendwise/internal/domain"
	"github.com/dvloznov/spendwise/internal/jobs"
	"github.com/dvloznov/spendwise/internal/pipeline"
	"github.com/dvloznov/spendwise/internal/store"
	"github.com/dvloznov/spendwise/internal/tracker"
	"github.com/rs/zerolog"
)

// maxBodyBytes bounds request bodies, CSV uploads included.
const maxBodyBytes = 10 << 20

// Importer runs CSV imports.
type Importer interface {
	ImportCSV(ctx context.Context, source string, content []byte) (*pipeline.PipelineState, error)
	ImportRuns(ctx context.Context) ([]domain.ImportRun, error)
}

// Ledger serves months, budgets and settings.
type Ledger interface {
	MonthGroups(ctx context.Context) ([]domain.MonthGroup, error)
	Month(ctx context.Context, month string) (*domain.MonthGroup, error)
	Budgets(ctx context.Context, month string) ([]domain.Budget, error)
	SaveBudget(ctx context.Context, budget domain.Budget) error
	DeleteBudget(ctx context.Context, category, month string) error
	BudgetPlan(ctx context.Context) (*domain.BudgetPlan, error)
	ApplyBudgetPlan(ctx context.Context, plan *domain.BudgetPlan) (int, error)
	Settings(ctx context.Context) (domain.Settings, error)
	SaveSettings(ctx context.Context, settings domain.Settings) error
}

// Insights serves forecasts, recurring expenses, alerts and merchant learning.
type Insights interface {
	SafeToSpend(ctx context.Context) (domain.SafeToSpendResult, error)
	AdvancedSafeToSpend(ctx context.Context) (*domain.AdvancedForecast, error)
	DetectRecurring(ctx context.Context) ([]domain.RecurringExpense, error)
	RecurringExpenses(ctx context.Context) ([]domain.RecurringExpense, error)
	SpendingTrends(ctx context.Context, month string) ([]domain.SpendingTrend, error)
	RefreshAlerts(ctx context.Context) ([]domain.Alert, error)
	UnreadAlerts(ctx context.Context) ([]domain.Alert, error)
	MarkAlertRead(ctx context.Context, alertID string) error
	LearnMerchant(ctx context.Context, description, category string) (string, error)
	SuggestCategory(ctx context.Context, description string) (*domain.MerchantMapping, error)
	MerchantMappings(ctx context.Context) ([]domain.MerchantMapping, error)
}

// Goals serves goal reports and the contribution optimizer.
type Goals interface {
	Goals(ctx context.Context) ([]domain.Goal, error)
	SaveGoal(ctx context.Context, goal domain.Goal) (string, error)
	GoalReport(ctx context.Context, goalID string) (*tracker.GoalReport, error)
	OptimizeGoals(ctx context.Context) (*domain.ContributionPlan, error)
}

// writeServiceError maps service errors to a status code. Unexpected errors
// are logged and reported as "Failed to <action>".
func writeServiceError(w http.ResponseWriter, log zerolog.Logger, err error, action string) {
	switch {
	case errors.Is(err, tracker.ErrInvalidInput):
		middleware.WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, store.ErrNotFound):
		middleware.WriteError(w, http.StatusNotFound, "Not found")
	case errors.Is(err, jobs.ErrJobNotFound):
		middleware.WriteError(w, http.StatusNotFound, "Job not found")
	case errors.Is(err, tracker.ErrProRequired):
		middleware.WriteError(w, http.StatusForbidden, "Pro tier required")
	case errors.Is(err, tracker.ErrGoalsReadOnly):
		middleware.WriteError(w, http.StatusNotImplemented, "Goals cannot be edited with this storage backend")
	case errors.Is(err, pipeline.ErrNoTransactions):
		middleware.WriteError(w, http.StatusUnprocessableEntity, "No valid transactions found in CSV")
	case errors.Is(err, pipeline.ErrNoCategorized):
		middleware.WriteError(w, http.StatusUnprocessableEntity, "No usable transactions found in CSV")
	case errors.Is(err, pipeline.ErrNoMonthGroups):
		middleware.WriteError(w, http.StatusUnprocessableEntity, "No transactions with a valid MM/DD/YYYY date found in CSV")
	default:
		log.Error().Err(err).Msg("Failed to " + action)
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to "+action)
	}
}

// decodeJSON reads a JSON request body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

// readBody reads a raw request body, rejecting empty ones.
func readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		middleware.WriteError(w, http.StatusRequestEntityTooLarge, "Request body too large")
		return nil, false
	}
	if len(data) == 0 {
		middleware.WriteError(w, http.StatusBadRequest, "Request body is empty")
		return nil, false
	}
	return data, true
}
