package tracker

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/dvloznov/spendwise/internal/analytics"
	"github.com/dvloznov/spendwise/internal/domain"
	"github.com/dvloznov/spendwise/internal/store"
)

// GoalReport bundles everything known about one goal.
type GoalReport struct {
	Goal        domain.Goal         `json:"goal"`
	Progress    domain.GoalProgress `json:"progress"`
	Feasibility domain.Feasibility  `json:"feasibility"`
	Milestones  []domain.Milestone  `json:"milestones"`
}

// Goals lists the user's goals.
func (s *Service) Goals(ctx context.Context) ([]domain.Goal, error) {
	goals, err := s.repo.Goals(ctx, s.userID)
	if err != nil {
		return nil, fmt.Errorf("Goals: %w", err)
	}
	return goals, nil
}

// SaveGoal validates and stores a goal, returning its ID.
func (s *Service) SaveGoal(ctx context.Context, goal domain.Goal) (string, error) {
	writer, ok := s.repo.(store.GoalWriter)
	if !ok {
		return "", fmt.Errorf("SaveGoal: %w", ErrGoalsReadOnly)
	}
	goal.Name = strings.TrimSpace(goal.Name)
	switch {
	case goal.Name == "":
		return "", fmt.Errorf("SaveGoal: name is required: %w", ErrInvalidInput)
	case math.IsNaN(goal.TargetAmount) || goal.TargetAmount <= 0:
		return "", fmt.Errorf("SaveGoal: target amount must be positive: %w", ErrInvalidInput)
	case goal.CurrentAmount < 0 || goal.MonthlyContribution < 0:
		return "", fmt.Errorf("SaveGoal: amounts must not be negative: %w", ErrInvalidInput)
	}
	switch goal.Status {
	case "", domain.GoalActive, domain.GoalPaused, domain.GoalCompleted:
	default:
		return "", fmt.Errorf("SaveGoal: unknown status %q: %w", goal.Status, ErrInvalidInput)
	}

	id, err := writer.SaveGoal(ctx, s.userID, goal)
	if err != nil {
		return "", fmt.Errorf("SaveGoal: %w", err)
	}
	return id, nil
}

// budgetPosition is the monthly income and the latest month's expenses.
func (s *Service) budgetPosition(ctx context.Context, groups []domain.MonthGroup) (income, expenses float64, err error) {
	settings, err := s.Settings(ctx)
	if err != nil {
		return 0, 0, err
	}
	income = settings.MonthlyIncome
	if income <= 0 {
		income = analytics.AverageMonthlyIncome(groups)
	}
	if len(groups) > 0 {
		expenses = groups[len(groups)-1].Summary.TotalExpenses
	}
	return income, expenses, nil
}

// GoalReport returns progress, feasibility and milestones of a goal.
func (s *Service) GoalReport(ctx context.Context, goalID string) (*GoalReport, error) {
	goal, err := s.repo.Goal(ctx, s.userID, goalID)
	if err != nil {
		return nil, fmt.Errorf("GoalReport: %w", err)
	}
	if goal == nil {
		return nil, fmt.Errorf("GoalReport: %s: %w", goalID, store.ErrNotFound)
	}

	groups, err := s.MonthGroups(ctx)
	if err != nil {
		return nil, fmt.Errorf("GoalReport: %w", err)
	}
	income, expenses, err := s.budgetPosition(ctx, groups)
	if err != nil {
		return nil, fmt.Errorf("GoalReport: %w", err)
	}

	now := s.now()
	var txs []domain.CategorizedTransaction
	for _, g := range groups {
		txs = append(txs, g.Transactions...)
	}
	return &GoalReport{
		Goal:        *goal,
		Progress:    analytics.GoalProgress(*goal, txs, now),
		Feasibility: analytics.GoalFeasibility(*goal, income, expenses, now, s.h),
		Milestones:  analytics.GoalMilestones(*goal, now),
	}, nil
}

// OptimizeGoals splits the disposable income across active goals. It
// returns nil when there are no active goals.
func (s *Service) OptimizeGoals(ctx context.Context) (*domain.ContributionPlan, error) {
	goals, err := s.repo.Goals(ctx, s.userID)
	if err != nil {
		return nil, fmt.Errorf("OptimizeGoals: %w", err)
	}
	groups, err := s.MonthGroups(ctx)
	if err != nil {
		return nil, fmt.Errorf("OptimizeGoals: %w", err)
	}
	income, expenses, err := s.budgetPosition(ctx, groups)
	if err != nil {
		return nil, fmt.Errorf("OptimizeGoals: %w", err)
	}
	return analytics.OptimizeContributions(goals, income-expenses, s.now(), s.h), nil
}
