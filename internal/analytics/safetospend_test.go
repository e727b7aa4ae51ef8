package analytics_test

import (
	"testing"
	"time"

	"github.com/dvloznov/spendwise/internal/analytics"
	"github.com/dvloznov/spendwise/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func marchHistory() []domain.MonthGroup {
	return groups(
		tx("02/05/2024", "PAYROLL", 3000, "Income"),
		tx("02/06/2024", "KROGER", -250, "Food"),
		tx("03/01/2024", "TRAILS APARTMENT", -600, "Rent"),
		tx("03/05/2024", "KROGER", -400, "Food"),
		tx("03/08/2024", "PAYROLL", 5000, "Income"),
		tx("02/09/2024", "VENMO", -75, "Transfers"),
	)
}

func TestDaysLeftInCycle(t *testing.T) {
	tests := []struct {
		name  string
		now   time.Time
		start int
		want  int
	}{
		{"first of month", day(2024, time.March, 1), 1, 31},
		{"mid month", day(2024, time.March, 22), 1, 10},
		{"last day", day(2024, time.March, 31), 1, 1},
		{"before cycle start", day(2024, time.March, 10), 15, 5},
		{"on cycle start", day(2024, time.March, 15), 15, 17},
		{"unset start", day(2024, time.February, 20), 0, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, analytics.DaysLeftInCycle(tt.now, tt.start))
		})
	}
}

func TestExpectedSpending(t *testing.T) {
	assert.InDelta(t, 1000.0, analytics.ExpectedSpending(3100, 1, day(2024, time.March, 10)), 1e-9)
	// Cycle started on Feb 15: 15 days of February plus 10 of March.
	assert.Equal(t, 25, analytics.DaysElapsedInCycle(day(2024, time.March, 10), 15))
	assert.InDelta(t, 2500.0, analytics.ExpectedSpending(3100, 15, day(2024, time.March, 10)), 1e-9)
}

func TestSafeToSpend_WithBudgets(t *testing.T) {
	in := analytics.ForecastInput{
		Groups: marchHistory(),
		Budgets: []domain.Budget{
			{Category: "Rent", Amount: 800, Month: "2024-03"},
			{Category: "Food", Amount: 2200, Month: "2024-03"},
		},
		Settings: domain.Settings{MonthlyIncome: 4000},
		Now:      time.Date(2024, time.March, 22, 15, 0, 0, 0, time.UTC),
	}

	got := analytics.SafeToSpend(in, analytics.DefaultHeuristics())

	assert.Equal(t, 1000.0, got.SpentThisMonth)
	assert.Equal(t, 3000.0, got.BudgetedTotal)
	assert.Equal(t, 2000.0, got.RemainingBudget)
	assert.Equal(t, 2000.0, got.SafeToSpend)
	assert.Equal(t, 10, got.DaysLeftInCycle)
	assert.InDelta(t, 200.0, got.SafePerDay, 1e-9)
	assert.InDelta(t, 1000.0, got.ProjectedEndBalance, 1e-9)
	assert.Equal(t, 4000.0, got.MonthlyIncome)
	assert.True(t, got.IsOnTrack)
	assert.Equal(t, domain.TrendStable, got.Trend)

	require.Len(t, got.CategoryBreakdown, 2)
	rent := got.CategoryBreakdown[0]
	assert.Equal(t, "Rent", rent.Category)
	assert.Equal(t, 600.0, rent.Spent)
	require.NotNil(t, rent.Remaining)
	assert.Equal(t, 200.0, *rent.Remaining)
	assert.InDelta(t, 75.0, rent.PercentUsed, 1e-9)
	assert.Equal(t, domain.StatusGood, rent.Status)
	assert.Equal(t, "Food", got.CategoryBreakdown[1].Category)
}

func TestSafeToSpend_IncomeFallbackAndOverspend(t *testing.T) {
	in := analytics.ForecastInput{
		Groups: marchHistory(),
		Now:    day(2024, time.March, 2),
	}

	got := analytics.SafeToSpend(in, analytics.DefaultHeuristics())

	// Average of 3000 (Feb) and 5000 (Mar).
	assert.Equal(t, 4000.0, got.MonthlyIncome)
	assert.Equal(t, 4000.0, got.BudgetedTotal)
	assert.Equal(t, 3000.0, got.RemainingBudget)
	assert.Equal(t, 30, got.DaysLeftInCycle)
	assert.InDelta(t, 100.0, got.SafePerDay, 1e-9)
	// 1000 spent by day 2 against 4000/31*2 expected.
	assert.False(t, got.IsOnTrack)
}

func TestSafeToSpend_NoCurrentMonth(t *testing.T) {
	in := analytics.ForecastInput{
		Groups:   marchHistory(),
		Settings: domain.Settings{MonthlyIncome: 3500},
		Now:      day(2024, time.May, 1),
	}

	got := analytics.SafeToSpend(in, analytics.DefaultHeuristics())
	assert.Equal(t, 0.0, got.SafeToSpend)
	assert.Equal(t, 0.0, got.SafePerDay)
	assert.Equal(t, 0, got.DaysLeftInCycle)
	assert.Equal(t, 3500.0, got.MonthlyIncome)
	assert.True(t, got.IsOnTrack)
	assert.Empty(t, got.CategoryBreakdown)
}

func TestCategoryBreakdown_Statuses(t *testing.T) {
	summary := domain.MonthSummary{CategoryTotals: []domain.CategoryTotal{
		{Category: "Income", Total: 5000},
		{Category: "Food", Total: 450},
		{Category: "Shopping", Total: 300},
		{Category: "Rent", Total: 1200},
		{Category: "Transfers", Total: 100},
	}}
	budgets := []domain.Budget{
		{Category: "Food", Amount: 500},
		{Category: "Rent", Amount: 1000},
	}

	got := analytics.CategoryBreakdown(summary, budgets, analytics.DefaultHeuristics())
	require.Len(t, got, 3)

	assert.Equal(t, "Rent", got[0].Category)
	assert.Equal(t, domain.StatusOver, got[0].Status)
	assert.Equal(t, 100.0, got[0].PercentUsed)
	assert.Equal(t, -200.0, *got[0].Remaining)

	assert.Equal(t, "Food", got[1].Category)
	assert.Equal(t, domain.StatusWarning, got[1].Status)

	assert.Equal(t, "Shopping", got[2].Category)
	assert.Nil(t, got[2].Remaining)
	assert.Equal(t, 0.0, got[2].PercentUsed)
	assert.Equal(t, domain.StatusGood, got[2].Status)
}

func TestSpendingTrend(t *testing.T) {
	h := analytics.DefaultHeuristics()
	rising := []domain.CategorizedTransaction{
		tx("03/01/2024", "A", -10, "Food"),
		tx("03/02/2024", "B", -10, "Food"),
		tx("03/03/2024", "C", -10, "Food"),
		tx("03/04/2024", "D", -10, "Food"),
		tx("03/05/2024", "E", -20, "Food"),
		tx("03/06/2024", "F", -20, "Food"),
		tx("03/07/2024", "G", -20, "Food"),
		tx("03/08/2024", "H", -20, "Food"),
		tx("03/08/2024", "PAYROLL", 4000, "Income"),
	}
	assert.Equal(t, domain.TrendIncreasing, analytics.SpendingTrend(rising, h))

	falling := make([]domain.CategorizedTransaction, len(rising))
	copy(falling, rising)
	for i := range falling {
		if falling[i].Category == "Food" {
			falling[i].Amount = -30 - rising[i].Amount
		}
	}
	assert.Equal(t, domain.TrendDecreasing, analytics.SpendingTrend(falling, h))

	assert.Equal(t, domain.TrendStable, analytics.SpendingTrend(rising[:6], h))
}

func TestAdvancedSafeToSpend(t *testing.T) {
	in := analytics.ForecastInput{
		Groups:   marchHistory(),
		Budgets:  []domain.Budget{{Category: "Food", Amount: 3000, Month: "2024-03"}},
		Settings: domain.Settings{MonthlyIncome: 4000},
		Now:      time.Date(2024, time.March, 22, 9, 30, 0, 0, time.UTC),
	}
	recurring := []domain.RecurringExpense{
		{MerchantName: "NETFLIX", AverageAmount: 15, NextExpectedDate: "03/25/2024", IsActive: true},
		{MerchantName: "GYM", AverageAmount: 40, NextExpectedDate: "03/22/2024", IsActive: true},
		{MerchantName: "SPOTIFY", AverageAmount: 10, NextExpectedDate: "04/02/2024", IsActive: true},
		{MerchantName: "OLD", AverageAmount: 99, NextExpectedDate: "03/10/2024", IsActive: true},
	}

	got := analytics.AdvancedSafeToSpend(in, recurring, analytics.DefaultHeuristics())
	require.NotNil(t, got)

	require.Len(t, got.UpcomingRecurring, 2)
	assert.Equal(t, 55.0, got.ProjectedRecurring)
	assert.Equal(t, 10, got.DaysLeft)
	assert.InDelta(t, 1000.0/21, got.DailyRate, 1e-9)
	assert.InDelta(t, 1000+55+1000.0/21*10, got.ProjectedTotalSpending, 1e-9)
	assert.InDelta(t, 4000-(1000+55+1000.0/21*10), got.ProjectedEndBalance, 1e-9)
	assert.Equal(t, 3000.0, got.EffectiveBudget)
	assert.Equal(t, 1945.0, got.SafeToSpend)
	assert.InDelta(t, 194.5, got.SafePerDay, 1e-9)
	assert.True(t, got.IsOnTrack)
	assert.Equal(t, 0.0, got.Shortfall)
	assert.Equal(t, domain.ConfidenceLow, got.Confidence)

	in.Now = day(2024, time.June, 1)
	assert.Nil(t, analytics.AdvancedSafeToSpend(in, recurring, analytics.DefaultHeuristics()))
}

func TestConfidence(t *testing.T) {
	assert.Equal(t, domain.ConfidenceHigh, analytics.Confidence(30, 3))
	assert.Equal(t, domain.ConfidenceMedium, analytics.Confidence(30, 2))
	assert.Equal(t, domain.ConfidenceMedium, analytics.Confidence(15, 1))
	assert.Equal(t, domain.ConfidenceLow, analytics.Confidence(14, 5))
}
