package analytics

import (
	"math"
	"sort"

	"github.com/dvloznov/spendwise/internal/domain"
)

// Suggestion reasoning texts.
const (
	reasonFood          = "Fixed monthly food budget."
	reasonRecurringBill = "Recurring bill at consistent amount."
	reasonFixed         = "Fixed expense based on average."
	reasonEssential     = "Essential expense based on average."
	reasonDiscretionary = "Discretionary spending - reduced to stay within budget."
	reasonVariable      = "Variable spending with small buffer."
	reasonAverage       = "Based on average spending."
	reasonAdjusted      = "Adjusted to ensure budget stays within income."
)

// categoryHistory is the per-month totals of one category, in month order.
type categoryHistory struct {
	category string
	totals   []float64
}

// monthlyCategoryTotals collects, for every spending category, its absolute
// total in each month where it appears. Categories keep first-seen order.
func monthlyCategoryTotals(groups []domain.MonthGroup) []categoryHistory {
	var history []categoryHistory
	index := make(map[string]int)

	for _, g := range groups {
		monthTotals := make(map[string]float64)
		var order []string
		for _, t := range g.Transactions {
			if math.IsNaN(t.Amount) {
				continue
			}
			category := t.Category
			if category == "" {
				category = domain.CategoryUncategorized
			}
			if !domain.IsSpendingCategory(category) {
				continue
			}
			if _, ok := monthTotals[category]; !ok {
				order = append(order, category)
			}
			monthTotals[category] += math.Abs(t.Amount)
		}

		for _, category := range order {
			pos, ok := index[category]
			if !ok {
				pos = len(history)
				index[category] = pos
				history = append(history, categoryHistory{category: category})
			}
			history[pos].totals = append(history[pos].totals, monthTotals[category])
		}
	}
	return history
}

// SuggestBudget proposes next month's budget from the full month history.
// It returns nil when there is no history or no spending category.
func SuggestBudget(groups []domain.MonthGroup, h Heuristics) *domain.BudgetPlan {
	if len(groups) == 0 {
		return nil
	}

	biweekly, monthlyIncome := EstimatePaycheck(groups, h)

	history := monthlyCategoryTotals(groups)
	if len(history) == 0 {
		return nil
	}

	nextMonth, err := domain.NextMonth(groups[len(groups)-1].Month)
	if err != nil {
		return nil
	}

	suggestions := make([]domain.BudgetSuggestion, 0, len(history))
	for _, ch := range history {
		suggestions = append(suggestions, suggestCategory(ch, h))
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		if suggestions[i].Priority != suggestions[j].Priority {
			return suggestions[i].Priority < suggestions[j].Priority
		}
		return suggestions[i].SuggestedAmount > suggestions[j].SuggestedAmount
	})

	total := totalSuggested(suggestions)
	if monthlyIncome > 0 && total > monthlyIncome*h.IncomeFitRatio {
		fitToIncome(suggestions, monthlyIncome*h.IncomeFitRatio, h)
		total = totalSuggested(suggestions)
	}

	return &domain.BudgetPlan{
		NextMonth:           nextMonth,
		Suggestions:         suggestions,
		TotalSuggested:      total,
		MonthlyIncome:       round(monthlyIncome),
		BiweeklyPaycheck:    round(biweekly),
		DiscretionaryIncome: round(monthlyIncome - total),
	}
}

func suggestCategory(ch categoryHistory, h Heuristics) domain.BudgetSuggestion {
	average := mean(ch.totals)
	minimum, maximum := ch.totals[0], ch.totals[0]
	for _, v := range ch.totals[1:] {
		minimum = math.Min(minimum, v)
		maximum = math.Max(maximum, v)
	}

	var amount float64
	var reasoning string
	var priority int

	switch {
	case ch.category == domain.CategoryFood:
		amount, reasoning, priority = h.FoodBudget, reasonFood, domain.PriorityFixed

	case contains(h.FixedCategories, ch.category):
		priority = domain.PriorityFixed
		recurring, ok := MostCommonAmount(ch.totals, h.IncomeTolerance, h.MinClusterSize)
		if ok && recurring != 0 && average > 0 && math.Abs(recurring-average)/average < h.RecurringMatchRatio {
			amount, reasoning = recurring, reasonRecurringBill
		} else {
			amount, reasoning = average, reasonFixed
		}

	case contains(h.EssentialCategories, ch.category):
		amount, reasoning, priority = average, reasonEssential, domain.PriorityEssential

	case contains(h.DiscretionaryCategories, ch.category):
		amount, reasoning, priority = average*h.DiscretionaryFactor, reasonDiscretionary, domain.PriorityDiscretionary

	default:
		priority = domain.PriorityVariable
		if average > 0 && stdDev(ch.totals, average)/average > h.HighVarianceRatio {
			amount, reasoning = average*h.VarianceBuffer, reasonVariable
		} else {
			amount, reasoning = average, reasonAverage
		}
	}

	return domain.BudgetSuggestion{
		Category:        ch.category,
		SuggestedAmount: ceilTo(amount, h.BudgetRounding),
		Average:         round(average),
		Min:             round(minimum),
		Max:             round(maximum),
		MonthsTracked:   len(ch.totals),
		Reasoning:       reasoning,
		Priority:        priority,
	}
}

// fitToIncome scales discretionary suggestions (priority above essential) so
// the total fits target. Amounts never go below zero, and rounding overshoot
// is trimmed from the lowest ranked discretionary items.
func fitToIncome(suggestions []domain.BudgetSuggestion, target float64, h Heuristics) {
	essential, discretionary := 0.0, 0.0
	for _, s := range suggestions {
		if s.Priority <= domain.PriorityEssential {
			essential += s.SuggestedAmount
		} else {
			discretionary += s.SuggestedAmount
		}
	}
	if discretionary <= 0 {
		return
	}

	ratio := math.Max(0, (target-essential)/discretionary)
	for i := range suggestions {
		if suggestions[i].Priority <= domain.PriorityEssential {
			continue
		}
		suggestions[i].SuggestedAmount = ceilTo(suggestions[i].SuggestedAmount*ratio, h.BudgetRounding)
		suggestions[i].Reasoning = reasonAdjusted
	}

	step := h.BudgetRounding
	if step <= 0 {
		return
	}
	for total := totalSuggested(suggestions); total > target; total -= step {
		i := len(suggestions) - 1
		for ; i >= 0; i-- {
			if suggestions[i].Priority > domain.PriorityEssential && suggestions[i].SuggestedAmount >= step {
				break
			}
		}
		if i < 0 {
			return
		}
		suggestions[i].SuggestedAmount -= step
	}
}

func totalSuggested(suggestions []domain.BudgetSuggestion) float64 {
	total := 0.0
	for _, s := range suggestions {
		total += s.SuggestedAmount
	}
	return total
}

// stdDev is the population standard deviation of values around avg.
func stdDev(values []float64, avg float64) float64 {
	variance := 0.0
	for _, v := range values {
		variance += (v - avg) * (v - avg)
	}
	return math.Sqrt(variance / float64(len(values)))
}
