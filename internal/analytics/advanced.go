package analytics

import (
	"math"
	"time"

	"github.com/dvloznov/spendwise/internal/domain"
)

// AdvancedSafeToSpend extends the forecast with recurring charges due before
// the end of the month and the month's daily burn rate. recurring must be the
// user's active recurring expenses. It returns nil when the current month has
// no data.
func AdvancedSafeToSpend(in ForecastInput, recurring []domain.RecurringExpense, h Heuristics) *domain.AdvancedForecast {
	current := domain.FindMonth(in.Groups, domain.MonthKeyOf(in.Now))
	if current == nil {
		return nil
	}

	monthlyIncome := resolveIncome(in)
	cycleStart := normalizeCycleStart(in.Settings.BudgetCycleStart)

	upcoming, projectedRecurring := upcomingRecurring(in, recurring)

	spent := math.Abs(current.Summary.TotalExpenses)
	effectiveBudget := budgetedTotal(in.Budgets)
	if effectiveBudget <= 0 {
		effectiveBudget = monthlyIncome
	}

	daysLeft := DaysLeftInCycle(in.Now, cycleStart)
	daysElapsed := domain.DaysIn(in.Now) - daysLeft

	dailyRate := 0.0
	if daysElapsed > 0 {
		dailyRate = spent / float64(daysElapsed)
	}

	projectedTotal := spent + projectedRecurring + dailyRate*float64(daysLeft)
	projectedEnd := monthlyIncome - projectedTotal
	safeTotal := effectiveBudget - spent - projectedRecurring

	safePerDay := 0.0
	if daysLeft > 0 {
		safePerDay = math.Max(0, safeTotal/float64(daysLeft))
	}

	onTrack := projectedEnd >= 0
	shortfall := 0.0
	if !onTrack {
		shortfall = math.Abs(projectedEnd)
	}

	return &domain.AdvancedForecast{
		SafeToSpend:            math.Max(0, safeTotal),
		SafePerDay:             safePerDay,
		DaysLeft:               daysLeft,
		SpentThisMonth:         spent,
		DailyRate:              dailyRate,
		ProjectedRecurring:     projectedRecurring,
		ProjectedTotalSpending: projectedTotal,
		ProjectedEndBalance:    projectedEnd,
		EffectiveBudget:        effectiveBudget,
		MonthlyIncome:          monthlyIncome,
		IsOnTrack:              onTrack,
		Shortfall:              shortfall,
		Confidence:             Confidence(len(current.Transactions), len(recurring)),
		UpcomingRecurring:      upcoming,
	}
}

// upcomingRecurring selects active expenses due from today through the last
// day of the month.
func upcomingRecurring(in ForecastInput, recurring []domain.RecurringExpense) ([]domain.UpcomingExpense, float64) {
	today := domain.StartOfDay(in.Now)
	endOfMonth := today.AddDate(0, 0, domain.DaysIn(today)-today.Day())

	upcoming := []domain.UpcomingExpense{}
	total := 0.0
	for _, r := range recurring {
		if !r.IsActive {
			continue
		}
		next, err := domain.ParseDate(r.NextExpectedDate)
		if err != nil {
			continue
		}
		next = time.Date(next.Year(), next.Month(), next.Day(), 0, 0, 0, 0, today.Location())
		if next.Before(today) || next.After(endOfMonth) {
			continue
		}
		upcoming = append(upcoming, domain.UpcomingExpense{
			MerchantName: r.MerchantName,
			Amount:       r.AverageAmount,
			DueDate:      r.NextExpectedDate,
		})
		total += r.AverageAmount
	}
	return upcoming, total
}

// Confidence grades the forecast by how much data backs it.
func Confidence(transactionCount, recurringCount int) string {
	switch {
	case transactionCount >= 30 && recurringCount >= 3:
		return domain.ConfidenceHigh
	case transactionCount >= 15 && recurringCount >= 1:
		return domain.ConfidenceMedium
	default:
		return domain.ConfidenceLow
	}
}
