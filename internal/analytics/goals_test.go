package analytics_test

import (
	"testing"
	"time"

	"github.com/dvloznov/spendwise/internal/analytics"
	"github.com/dvloznov/spendwise/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func emergencyFund() domain.Goal {
	return domain.Goal{
		ID:                  "goal-1",
		Name:                "Emergency Fund",
		TargetAmount:        10000,
		CurrentAmount:       2500,
		MonthlyContribution: 500,
		TargetDate:          ptr(day(2024, time.December, 31)),
		Status:              domain.GoalActive,
	}
}

func TestGoalProgress(t *testing.T) {
	now := day(2024, time.January, 1)

	got := analytics.GoalProgress(emergencyFund(), nil, now)

	assert.Equal(t, 25.0, got.Progress)
	assert.Equal(t, 7500.0, got.Remaining)
	require.NotNil(t, got.MonthsRemaining)
	assert.Equal(t, 13, *got.MonthsRemaining)
	require.NotNil(t, got.RecommendedContribution)
	assert.InDelta(t, 576.92, *got.RecommendedContribution, 0.01)
	require.NotNil(t, got.ProjectedCompletionDate)
	assert.Equal(t, day(2025, time.April, 1), *got.ProjectedCompletionDate)
	require.NotNil(t, got.OnTrack)
	assert.False(t, *got.OnTrack)
	require.NotNil(t, got.WeeksToCompletion)
	assert.Equal(t, 66, *got.WeeksToCompletion)
	assert.Empty(t, got.RecentContributions)
	assert.Equal(t, 500.0, got.AverageMonthlyProgress)
	assert.Equal(t, analytics.VelocityGood, got.Velocity)
}

func TestGoalProgress_CentRatiosDoNotOvershoot(t *testing.T) {
	now := day(2024, time.January, 1)
	g := domain.Goal{ID: "coins", Name: "Coins", TargetAmount: 2.10, MonthlyContribution: 0.30, Status: domain.GoalActive}

	got := analytics.GoalProgress(g, nil, now)

	require.NotNil(t, got.ProjectedCompletionDate)
	assert.Equal(t, now.AddDate(0, 7, 0), *got.ProjectedCompletionDate)

	milestones := analytics.GoalMilestones(g, now)
	require.NotEmpty(t, milestones)
	last := milestones[len(milestones)-1]
	assert.Equal(t, 100, last.Percentage)
	require.NotNil(t, last.ProjectedDate)
	assert.Equal(t, now.AddDate(0, 7, 0), *last.ProjectedDate)
}

func TestGoalProgress_NoContribution(t *testing.T) {
	g := emergencyFund()
	g.MonthlyContribution = 0
	g.TargetDate = nil

	got := analytics.GoalProgress(g, nil, day(2024, time.January, 1))

	assert.Nil(t, got.MonthsRemaining)
	assert.Nil(t, got.ProjectedCompletionDate)
	assert.Nil(t, got.OnTrack)
	assert.Nil(t, got.WeeksToCompletion)
	assert.Equal(t, analytics.VelocitySlow, got.Velocity)
}

func TestRecentContributions(t *testing.T) {
	txs := []domain.CategorizedTransaction{
		tx("01/05/2024", "TRANSFER TO EMERGENCY FUND", 200, "Transfers"),
		tx("02/05/2024", "HIGH YIELD SAVINGS", 300, "Savings"),
		tx("03/05/2024", "EMERGENCY FUND TOP UP", 250, "Transfers"),
		tx("03/06/2024", "KROGER", -50, "Food"),
		tx("03/07/2024", "SAVINGS WITHDRAWAL", -100, "Savings"),
		tx("04/05/2024", "HIGH YIELD SAVINGS", 350, "Savings"),
	}

	got := analytics.RecentContributions(emergencyFund(), txs)
	require.Len(t, got, 3)
	assert.Equal(t, "04/05/2024", got[0].Date)
	assert.Equal(t, "03/05/2024", got[1].Date)
	assert.Equal(t, "02/05/2024", got[2].Date)

	progress := analytics.GoalProgress(emergencyFund(), txs, day(2024, time.April, 10))
	assert.InDelta(t, 300.0, progress.AverageMonthlyProgress, 1e-9)
}

func TestGoalFeasibility(t *testing.T) {
	h := analytics.DefaultHeuristics()
	now := day(2024, time.January, 1)

	got := analytics.GoalFeasibility(emergencyFund(), 5000, 4000, now, h)
	assert.Equal(t, domain.FeasibilityChallenging, got.Feasibility)
	assert.InDelta(t, 576.92, got.RequiredMonthly, 0.01)
	assert.Equal(t, 1000.0, got.MonthlyDisposable)
	require.NotNil(t, got.PercentOfDisposable)
	assert.InDelta(t, 57.69, *got.PercentOfDisposable, 0.01)
	require.NotNil(t, got.AlternativeMonths)
	assert.Equal(t, 25, *got.AlternativeMonths)

	got = analytics.GoalFeasibility(emergencyFund(), 8000, 4000, now, h)
	assert.Equal(t, domain.FeasibilityComfortable, got.Feasibility)
	assert.Nil(t, got.AlternativeMonths)

	got = analytics.GoalFeasibility(emergencyFund(), 4000, 4000, now, h)
	assert.Equal(t, domain.FeasibilityUnrealistic, got.Feasibility)
	assert.Nil(t, got.PercentOfDisposable)
}

func TestGoalFeasibility_NoDeadline(t *testing.T) {
	g := emergencyFund()
	g.TargetDate = nil

	got := analytics.GoalFeasibility(g, 5000, 4000, day(2024, time.January, 1), analytics.DefaultHeuristics())
	assert.Equal(t, domain.FeasibilityNoDeadline, got.Feasibility)
	assert.Equal(t, 200.0, got.RecommendedMonthly)
	require.NotNil(t, got.EstimatedMonths)
	assert.Equal(t, 38, *got.EstimatedMonths)
	assert.Contains(t, got.Recommendation, "about 38 months")
}

func TestGoalMilestones(t *testing.T) {
	now := day(2024, time.January, 1)

	got := analytics.GoalMilestones(emergencyFund(), now)
	require.Len(t, got, 4)

	wantPct := []int{50, 75, 90, 100}
	wantMonths := []int{5, 10, 13, 15}
	for i, m := range got {
		assert.Equal(t, wantPct[i], m.Percentage)
		require.NotNil(t, m.ProjectedDate)
		assert.Equal(t, now.AddDate(0, wantMonths[i], 0), *m.ProjectedDate)
	}
	assert.Equal(t, "Halfway to Emergency Fund", got[0].Description)
	assert.Equal(t, 2500.0, got[0].AmountNeeded)
	assert.Equal(t, "Emergency Fund achieved!", got[3].Description)
}

func TestOptimizeContributions(t *testing.T) {
	now := day(2024, time.January, 1)
	goals := []domain.Goal{
		{ID: "b", Name: "New Car", TargetAmount: 20000, CurrentAmount: 1000, Status: domain.GoalActive},
		{ID: "a", Name: "Vacation", TargetAmount: 6000, TargetDate: ptr(day(2024, time.April, 30)), Status: domain.GoalActive},
		{ID: "c", Name: "Boat", TargetAmount: 50000, Status: domain.GoalPaused},
	}

	plan := analytics.OptimizeContributions(goals, 2000, now, analytics.DefaultHeuristics())
	require.NotNil(t, plan)
	require.Len(t, plan.Allocations, 2)

	first := plan.Allocations[0]
	assert.Equal(t, "a", first.GoalID)
	assert.InDelta(t, 300.0, first.SuggestedMonthly, 1e-9)
	assert.Equal(t, domain.AllocationHigh, first.Priority)
	assert.Equal(t, "Target date approaching in 4 months", first.Reasoning)

	second := plan.Allocations[1]
	assert.Equal(t, "b", second.GoalID)
	assert.InDelta(t, 150.0, second.SuggestedMonthly, 1e-9)
	assert.Equal(t, domain.AllocationLow, second.Priority)
	assert.Equal(t, "Balanced contribution based on timeline", second.Reasoning)
	assert.InDelta(t, 5.0, second.PercentComplete, 1e-9)

	assert.InDelta(t, 450.0, plan.TotalAllocated, 1e-9)
	assert.InDelta(t, 600.0, plan.AvailableForGoals, 1e-9)
	assert.InDelta(t, 22.5, plan.PercentOfDisposable, 1e-9)
}

func TestOptimizeContributions_SimilarUrgencyPrefersCompletion(t *testing.T) {
	now := day(2024, time.January, 1)
	goals := []domain.Goal{
		{ID: "early", TargetAmount: 1000, CurrentAmount: 100, TargetDate: ptr(day(2024, time.March, 1)), Status: domain.GoalActive},
		{ID: "later", TargetAmount: 1000, CurrentAmount: 800, TargetDate: ptr(day(2024, time.April, 1)), Status: domain.GoalActive},
	}

	plan := analytics.OptimizeContributions(goals, 3000, now, analytics.DefaultHeuristics())
	require.NotNil(t, plan)
	require.Len(t, plan.Allocations, 2)
	assert.Equal(t, "later", plan.Allocations[0].GoalID)
	assert.Equal(t, "early", plan.Allocations[1].GoalID)
}

func TestOptimizeContributions_NoActiveGoals(t *testing.T) {
	goals := []domain.Goal{{ID: "x", TargetAmount: 10, Status: domain.GoalCompleted}}
	assert.Nil(t, analytics.OptimizeContributions(goals, 1000, time.Now(), analytics.DefaultHeuristics()))
}
