package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/dvloznov/spendwise/internal/domain"
)

// ForecastInput is what the safe-to-spend forecasters read.
type ForecastInput struct {
	Groups   []domain.MonthGroup
	Budgets  []domain.Budget // budgets of the current month
	Settings domain.Settings
	Now      time.Time
}

// resolveIncome prefers the configured income and falls back to the average
// monthly income of the history.
func resolveIncome(in ForecastInput) float64 {
	if in.Settings.MonthlyIncome > 0 {
		return in.Settings.MonthlyIncome
	}
	return AverageMonthlyIncome(in.Groups)
}

func budgetedTotal(budgets []domain.Budget) float64 {
	total := 0.0
	for _, b := range budgets {
		total += b.Amount
	}
	return total
}

// SafeToSpend forecasts the current calendar month. When the month has no
// data yet the result is zeroed except for MonthlyIncome.
func SafeToSpend(in ForecastInput, h Heuristics) domain.SafeToSpendResult {
	monthlyIncome := resolveIncome(in)
	cycleStart := normalizeCycleStart(in.Settings.BudgetCycleStart)

	current := domain.FindMonth(in.Groups, domain.MonthKeyOf(in.Now))
	if current == nil {
		return domain.SafeToSpendResult{
			MonthlyIncome:     monthlyIncome,
			IsOnTrack:         true,
			Trend:             domain.TrendStable,
			CategoryBreakdown: []domain.CategoryBreakdown{},
		}
	}

	budgeted := budgetedTotal(in.Budgets)
	spent := math.Abs(current.Summary.TotalExpenses)

	var remaining float64
	if budgeted > 0 {
		remaining = budgeted - spent
	} else {
		remaining = monthlyIncome - spent
	}

	daysLeft := DaysLeftInCycle(in.Now, cycleStart)
	safePerDay := 0.0
	if daysLeft > 0 {
		safePerDay = math.Max(0, remaining/float64(daysLeft))
	}

	totalBudget := budgeted
	if totalBudget <= 0 {
		totalBudget = monthlyIncome
	}
	expected := ExpectedSpending(totalBudget, cycleStart, in.Now)

	return domain.SafeToSpendResult{
		SafeToSpend:         math.Max(0, remaining),
		SafePerDay:          safePerDay,
		RemainingBudget:     remaining,
		ProjectedEndBalance: monthlyIncome - (spent + safePerDay*float64(daysLeft)),
		DaysLeftInCycle:     daysLeft,
		SpentThisMonth:      spent,
		BudgetedTotal:       totalBudget,
		MonthlyIncome:       monthlyIncome,
		IsOnTrack:           spent <= expected,
		Trend:               SpendingTrend(current.Transactions, h),
		CategoryBreakdown:   CategoryBreakdown(current.Summary, in.Budgets, h),
	}
}

// SpendingTrend compares the average spend of the later half of the month's
// spending transactions with the earlier half.
func SpendingTrend(txs []domain.CategorizedTransaction, h Heuristics) domain.Trend {
	type dated struct {
		date   time.Time
		amount float64
	}
	var spending []dated
	for _, t := range txs {
		if !domain.IsSpendingCategory(t.Category) || math.IsNaN(t.Amount) {
			continue
		}
		d, err := domain.ParseDate(t.Date)
		if err != nil {
			continue
		}
		spending = append(spending, dated{date: d, amount: math.Abs(t.Amount)})
	}

	if len(spending) < h.TrendMinTransactions || len(spending) < 2 {
		return domain.TrendStable
	}
	sort.SliceStable(spending, func(i, j int) bool { return spending[i].date.Before(spending[j].date) })

	mid := len(spending) / 2
	var first, second []float64
	for i, s := range spending {
		if i < mid {
			first = append(first, s.amount)
		} else {
			second = append(second, s.amount)
		}
	}

	firstAvg, secondAvg := mean(first), mean(second)
	if firstAvg == 0 {
		if secondAvg > 0 {
			return domain.TrendIncreasing
		}
		return domain.TrendStable
	}

	change := (secondAvg - firstAvg) / firstAvg
	switch {
	case change > h.TrendThreshold:
		return domain.TrendIncreasing
	case change < -h.TrendThreshold:
		return domain.TrendDecreasing
	default:
		return domain.TrendStable
	}
}

// CategoryBreakdown reports spending against budget for every spending
// category of the month, largest spend first.
func CategoryBreakdown(summary domain.MonthSummary, budgets []domain.Budget, h Heuristics) []domain.CategoryBreakdown {
	budgetByCategory := make(map[string]float64, len(budgets))
	for _, b := range budgets {
		budgetByCategory[b.Category] = b.Amount
	}

	out := []domain.CategoryBreakdown{}
	for _, ct := range summary.CategoryTotals {
		if !domain.IsSpendingCategory(ct.Category) {
			continue
		}
		spent := math.Abs(ct.Total)
		budget := budgetByCategory[ct.Category]

		var remaining *float64
		percent := 0.0
		if budget > 0 {
			r := budget - spent
			remaining = &r
			percent = spent / budget * 100
		}

		status := domain.StatusGood
		switch {
		case percent >= 100:
			status = domain.StatusOver
		case percent >= h.WarningPercent:
			status = domain.StatusWarning
		}

		out = append(out, domain.CategoryBreakdown{
			Category:    ct.Category,
			Spent:       spent,
			Budget:      budget,
			Remaining:   remaining,
			PercentUsed: math.Min(percent, 100),
			Status:      status,
		})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Spent > out[j].Spent })
	return out
}
