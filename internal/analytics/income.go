package analytics

import (
	"math"
	"sort"

	"github.com/dvloznov/spendwise/internal/domain"
)

type cluster struct {
	center  float64
	amounts []float64
}

// MostCommonAmount clusters amounts with the given tolerance and returns the
// rounded center of the largest cluster. An amount joins the first cluster
// whose running mean is within tolerance. ok is false when the largest
// cluster has fewer than minSize members.
func MostCommonAmount(amounts []float64, tolerance float64, minSize int) (float64, bool) {
	if len(amounts) == 0 {
		return 0, false
	}

	var clusters []*cluster
	for _, a := range amounts {
		joined := false
		for _, c := range clusters {
			if math.Abs(c.center-a) <= tolerance {
				c.amounts = append(c.amounts, a)
				c.center = mean(c.amounts)
				joined = true
				break
			}
		}
		if !joined {
			clusters = append(clusters, &cluster{center: a, amounts: []float64{a}})
		}
	}

	// Stable so that the first cluster found wins ties.
	sort.SliceStable(clusters, func(i, j int) bool {
		return len(clusters[i].amounts) > len(clusters[j].amounts)
	})

	if len(clusters[0].amounts) < minSize {
		return 0, false
	}
	return round(clusters[0].center), true
}

// IncomeAmounts returns the absolute amounts of every Income transaction
// across groups, in order.
func IncomeAmounts(groups []domain.MonthGroup) []float64 {
	var amounts []float64
	for _, g := range groups {
		for _, t := range g.Transactions {
			if t.Category == domain.CategoryIncome && !math.IsNaN(t.Amount) {
				amounts = append(amounts, math.Abs(t.Amount))
			}
		}
	}
	return amounts
}

// EstimatePaycheck returns the most common income amount, assumed to be paid
// every two weeks, and the implied monthly income.
func EstimatePaycheck(groups []domain.MonthGroup, h Heuristics) (biweekly, monthly float64) {
	paycheck, ok := MostCommonAmount(IncomeAmounts(groups), h.IncomeTolerance, h.MinClusterSize)
	if !ok {
		return 0, 0
	}
	return paycheck, paycheck * 2
}

// AverageMonthlyIncome is the mean TotalIncome across groups.
func AverageMonthlyIncome(groups []domain.MonthGroup) float64 {
	if len(groups) == 0 {
		return 0
	}
	incomes := make([]float64, 0, len(groups))
	for _, g := range groups {
		incomes = append(incomes, g.Summary.TotalIncome)
	}
	return mean(incomes)
}
