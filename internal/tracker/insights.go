package tracker

import (
	"context"
	"fmt"
	"strings"

	"github.com/dvloznov/spendwise/internal/analytics"
	"github.com/dvloznov/spendwise/internal/domain"
	"github.com/dvloznov/spendwise/internal/logger"
	"github.com/dvloznov/spendwise/internal/store"
)

// DetectRecurring finds recurring expenses across all stored transactions
// and upserts each one, keyed by merchant.
func (s *Service) DetectRecurring(ctx context.Context) ([]domain.RecurringExpense, error) {
	stored, err := s.repo.AllTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("DetectRecurring: %w", err)
	}

	detected := analytics.DetectRecurring(categorized(stored), s.h)
	for _, e := range detected {
		if err := s.insights.UpsertRecurringExpense(ctx, s.userID, e); err != nil {
			return nil, fmt.Errorf("DetectRecurring: %w", err)
		}
	}

	log := logger.FromContext(ctx)
	log.Info().Int("count", len(detected)).Msg("Recurring expenses detected")
	return detected, nil
}

// RecurringExpenses returns the stored active recurring expenses.
func (s *Service) RecurringExpenses(ctx context.Context) ([]domain.RecurringExpense, error) {
	out, err := s.insights.RecurringExpenses(ctx, s.userID)
	if err != nil {
		return nil, fmt.Errorf("RecurringExpenses: %w", err)
	}
	return out, nil
}

// SpendingTrends compares month with the month before it. An empty month
// defaults to the latest imported month.
func (s *Service) SpendingTrends(ctx context.Context, month string) ([]domain.SpendingTrend, error) {
	groups, err := s.MonthGroups(ctx)
	if err != nil {
		return nil, fmt.Errorf("SpendingTrends: %w", err)
	}
	if len(groups) == 0 {
		return []domain.SpendingTrend{}, nil
	}
	if month == "" {
		month = groups[len(groups)-1].Month
	}
	current := domain.FindMonth(groups, month)
	if current == nil {
		return nil, fmt.Errorf("SpendingTrends: %s: %w", month, store.ErrNotFound)
	}
	return analytics.CategoryTrends(current, analytics.PreviousGroup(groups, month), s.h), nil
}

// RefreshAlerts derives alerts for the current month and stores them.
func (s *Service) RefreshAlerts(ctx context.Context) ([]domain.Alert, error) {
	in, err := s.forecastInput(ctx)
	if err != nil {
		return nil, fmt.Errorf("RefreshAlerts: %w", err)
	}

	var projected *float64
	if domain.FindMonth(in.Groups, s.currentMonth()) != nil {
		p := analytics.SafeToSpend(in, s.h).ProjectedEndBalance
		projected = &p
	}

	alerts := analytics.FinancialAlerts(analytics.AlertInput{
		UserID:              s.userID,
		Groups:              in.Groups,
		Budgets:             in.Budgets,
		ProjectedEndBalance: projected,
		Now:                 in.Now,
	}, s.h)
	if err := s.insights.SaveAlerts(ctx, alerts); err != nil {
		return nil, fmt.Errorf("RefreshAlerts: %w", err)
	}
	return alerts, nil
}

// UnreadAlerts returns the user's unread alerts, newest first.
func (s *Service) UnreadAlerts(ctx context.Context) ([]domain.Alert, error) {
	alerts, err := s.insights.UnreadAlerts(ctx, s.userID)
	if err != nil {
		return nil, fmt.Errorf("UnreadAlerts: %w", err)
	}
	return alerts, nil
}

// MarkAlertRead flags an alert as read.
func (s *Service) MarkAlertRead(ctx context.Context, alertID string) error {
	if alertID == "" {
		return fmt.Errorf("MarkAlertRead: alert id is required: %w", ErrInvalidInput)
	}
	if err := s.insights.MarkAlertRead(ctx, alertID); err != nil {
		return fmt.Errorf("MarkAlertRead: %w", err)
	}
	return nil
}

// LearnMerchant remembers that the merchant of description belongs to category.
func (s *Service) LearnMerchant(ctx context.Context, description, category string) (string, error) {
	merchant := domain.NormalizeMerchant(description)
	category = strings.TrimSpace(category)
	if merchant == "" || category == "" {
		return "", fmt.Errorf("LearnMerchant: merchant and category are required: %w", ErrInvalidInput)
	}
	if err := s.insights.LearnMerchant(ctx, s.userID, merchant, category); err != nil {
		return "", fmt.Errorf("LearnMerchant: %w", err)
	}
	return merchant, nil
}

// SuggestCategory returns the learned mapping for the merchant of
// description, or nil when nothing was learned.
func (s *Service) SuggestCategory(ctx context.Context, description string) (*domain.MerchantMapping, error) {
	merchant := domain.NormalizeMerchant(description)
	if merchant == "" {
		return nil, nil
	}
	m, err := s.insights.MerchantMapping(ctx, s.userID, merchant)
	if err != nil {
		return nil, fmt.Errorf("SuggestCategory: %w", err)
	}
	return m, nil
}

// MerchantMappings lists every learned mapping.
func (s *Service) MerchantMappings(ctx context.Context) ([]domain.MerchantMapping, error) {
	out, err := s.insights.MerchantMappings(ctx, s.userID)
	if err != nil {
		return nil, fmt.Errorf("MerchantMappings: %w", err)
	}
	return out, nil
}
