// Package analytics derives recurring expenses, budget plans, safe-to-spend
// forecasts, goal projections, trends and alerts from month groups.
//
// Every function is a pure computation over its arguments; the current time
// is always passed in.
package analytics

import "math"

// Heuristics are the tunable constants of the analytics.
type Heuristics struct {
	// Frequency classification upper bounds, in days.
	WeeklyMaxDays    float64
	BiweeklyMaxDays  float64
	MonthlyMaxDays   float64
	QuarterlyMaxDays float64

	// Income clustering.
	IncomeTolerance float64
	MinClusterSize  int

	// Budget suggestions.
	FoodBudget              float64
	RecurringMatchRatio     float64
	DiscretionaryFactor     float64
	HighVarianceRatio       float64
	VarianceBuffer          float64
	BudgetRounding          float64
	IncomeFitRatio          float64
	FixedCategories         []string
	EssentialCategories     []string
	DiscretionaryCategories []string

	// Safe-to-spend.
	TrendThreshold       float64
	TrendMinTransactions int
	WarningPercent       float64

	// Goals.
	GoalPoolShare        float64
	NoDeadlineShare      float64
	UrgentMonths         float64
	SoonMonths           float64
	SimilarUrgencyMonths float64

	// Alerts.
	SpendingIncreasePercent float64
	SmallPurchaseLimit      float64
	SmallPurchaseTotal      float64
	CategoryTrendPercent    float64
}

// DefaultHeuristics returns the built-in constants.
func DefaultHeuristics() Heuristics {
	return Heuristics{
		WeeklyMaxDays:    7,
		BiweeklyMaxDays:  14,
		MonthlyMaxDays:   31,
		QuarterlyMaxDays: 93,

		IncomeTolerance: 5,
		MinClusterSize:  2,

		FoodBudget:              1000,
		RecurringMatchRatio:     0.15,
		DiscretionaryFactor:     0.9,
		HighVarianceRatio:       0.3,
		VarianceBuffer:          1.05,
		BudgetRounding:          10,
		IncomeFitRatio:          0.95,
		FixedCategories:         []string{"Rent", "Subscriptions"},
		EssentialCategories:     []string{"Rent", "Utilities", "Insurance"},
		DiscretionaryCategories: []string{"Entertainment", "Shopping", "Dining"},

		TrendThreshold:       0.15,
		TrendMinTransactions: 7,
		WarningPercent:       80,

		GoalPoolShare:        0.3,
		NoDeadlineShare:      0.2,
		UrgentMonths:         6,
		SoonMonths:           12,
		SimilarUrgencyMonths: 3,

		SpendingIncreasePercent: 25,
		SmallPurchaseLimit:      10,
		SmallPurchaseTotal:      100,
		CategoryTrendPercent:    10,
	}
}

// round rounds half away from negative infinity, matching the rounding used
// for displayed currency amounts.
func round(x float64) float64 {
	return math.Floor(x + 0.5)
}

// ceilEpsilon absorbs binary representation error in currency ratios so that
// e.g. 2.10/0.30 counts as 7, not 8.
const ceilEpsilon = 1e-9

// ceilCount rounds a non-negative ratio up to a whole count.
func ceilCount(x float64) int {
	return int(math.Ceil(x - ceilEpsilon))
}

// ceilTo rounds x up to the next multiple of step.
func ceilTo(x, step float64) float64 {
	if step <= 0 {
		return x
	}
	return float64(ceilCount(x/step)) * step
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
