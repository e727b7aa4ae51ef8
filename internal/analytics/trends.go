package analytics

import (
	"math"

	"github.com/dvloznov/spendwise/internal/domain"
)

// CategoryTrends compares each spending category of current with the same
// category in previous. Categories absent from previous are skipped.
func CategoryTrends(current, previous *domain.MonthGroup, h Heuristics) []domain.SpendingTrend {
	out := []domain.SpendingTrend{}
	if current == nil || previous == nil {
		return out
	}

	for _, ct := range current.Summary.CategoryTotals {
		if !domain.IsSpendingCategory(ct.Category) {
			continue
		}
		cur := math.Abs(ct.Total)
		prev := math.Abs(previous.Summary.CategoryTotal(ct.Category))
		if prev == 0 {
			continue
		}

		change := (cur - prev) / prev * 100
		direction := domain.DirectionStable
		switch {
		case change > h.CategoryTrendPercent:
			direction = domain.DirectionIncreasing
		case change < -h.CategoryTrendPercent:
			direction = domain.DirectionDecreasing
		}

		out = append(out, domain.SpendingTrend{
			Category:       ct.Category,
			Month:          current.Month,
			CurrentAmount:  cur,
			PreviousAmount: prev,
			ChangePercent:  change,
			Direction:      direction,
		})
	}
	return out
}

// PreviousGroup returns the group immediately before month in groups, or nil.
// groups must be sorted by month.
func PreviousGroup(groups []domain.MonthGroup, month string) *domain.MonthGroup {
	for i := range groups {
		if groups[i].Month == month {
			if i == 0 {
				return nil
			}
			return &groups[i-1]
		}
	}
	return nil
}
