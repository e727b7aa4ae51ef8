package tracker

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/dvloznov/spendwise/internal/analytics"
	"github.com/dvloznov/spendwise/internal/domain"
)

// BudgetPlan suggests budgets for the month after the latest imported month.
// It returns nil when there is not enough history.
func (s *Service) BudgetPlan(ctx context.Context) (*domain.BudgetPlan, error) {
	groups, err := s.MonthGroups(ctx)
	if err != nil {
		return nil, fmt.Errorf("BudgetPlan: %w", err)
	}
	return analytics.SuggestBudget(groups, s.h), nil
}

// Budgets returns the budgets of month, defaulting to the current month.
func (s *Service) Budgets(ctx context.Context, month string) ([]domain.Budget, error) {
	if month == "" {
		month = s.currentMonth()
	}
	if !domain.ValidMonth(month) {
		return nil, fmt.Errorf("Budgets: %q is not a YYYY-MM key: %w", month, ErrInvalidInput)
	}
	budgets, err := s.repo.Budgets(ctx, month)
	if err != nil {
		return nil, fmt.Errorf("Budgets: %w", err)
	}
	return budgets, nil
}

// SaveBudget creates or replaces the budget of a category in a month.
func (s *Service) SaveBudget(ctx context.Context, budget domain.Budget) error {
	budget.Category = strings.TrimSpace(budget.Category)
	if budget.Month == "" {
		budget.Month = s.currentMonth()
	}
	switch {
	case budget.Category == "":
		return fmt.Errorf("SaveBudget: category is required: %w", ErrInvalidInput)
	case !domain.ValidMonth(budget.Month):
		return fmt.Errorf("SaveBudget: %q is not a YYYY-MM key: %w", budget.Month, ErrInvalidInput)
	case math.IsNaN(budget.Amount) || budget.Amount < 0:
		return fmt.Errorf("SaveBudget: amount must be a non-negative number: %w", ErrInvalidInput)
	}
	if err := s.repo.SaveBudget(ctx, budget); err != nil {
		return fmt.Errorf("SaveBudget: %w", err)
	}
	return nil
}

// ApplyBudgetPlan stores every suggestion of plan as a budget of its month.
func (s *Service) ApplyBudgetPlan(ctx context.Context, plan *domain.BudgetPlan) (int, error) {
	if plan == nil {
		return 0, nil
	}
	for i, sg := range plan.Suggestions {
		b := domain.Budget{Category: sg.Category, Amount: sg.SuggestedAmount, Month: plan.NextMonth}
		if err := s.SaveBudget(ctx, b); err != nil {
			return i, fmt.Errorf("ApplyBudgetPlan: %w", err)
		}
	}
	return len(plan.Suggestions), nil
}

// DeleteBudget removes a budget. Missing budgets yield store.ErrNotFound.
func (s *Service) DeleteBudget(ctx context.Context, category, month string) error {
	if month == "" {
		month = s.currentMonth()
	}
	if category == "" || !domain.ValidMonth(month) {
		return fmt.Errorf("DeleteBudget: category and YYYY-MM month are required: %w", ErrInvalidInput)
	}
	if err := s.repo.DeleteBudget(ctx, category, month); err != nil {
		return fmt.Errorf("DeleteBudget: %w", err)
	}
	return nil
}

func (s *Service) forecastInput(ctx context.Context) (analytics.ForecastInput, error) {
	groups, err := s.MonthGroups(ctx)
	if err != nil {
		return analytics.ForecastInput{}, err
	}
	settings, err := s.Settings(ctx)
	if err != nil {
		return analytics.ForecastInput{}, err
	}
	budgets, err := s.repo.Budgets(ctx, s.currentMonth())
	if err != nil {
		return analytics.ForecastInput{}, err
	}
	return analytics.ForecastInput{
		Groups:   groups,
		Budgets:  budgets,
		Settings: settings,
		Now:      s.now(),
	}, nil
}

// SafeToSpend computes the basic forecast for the current cycle.
func (s *Service) SafeToSpend(ctx context.Context) (domain.SafeToSpendResult, error) {
	in, err := s.forecastInput(ctx)
	if err != nil {
		return domain.SafeToSpendResult{}, fmt.Errorf("SafeToSpend: %w", err)
	}
	return analytics.SafeToSpend(in, s.h), nil
}

// AdvancedSafeToSpend computes the recurring-aware forecast. It requires the
// pro tier and returns nil when the current month has no transactions.
func (s *Service) AdvancedSafeToSpend(ctx context.Context) (*domain.AdvancedForecast, error) {
	in, err := s.forecastInput(ctx)
	if err != nil {
		return nil, fmt.Errorf("AdvancedSafeToSpend: %w", err)
	}
	if !in.Settings.ProEnabled {
		return nil, fmt.Errorf("AdvancedSafeToSpend: %w", ErrProRequired)
	}
	recurring, err := s.insights.RecurringExpenses(ctx, s.userID)
	if err != nil {
		return nil, fmt.Errorf("AdvancedSafeToSpend: %w", err)
	}
	return analytics.AdvancedSafeToSpend(in, recurring, s.h), nil
}
