package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/dvloznov/spendwise/internal/domain"
)

type occurrence struct {
	date     time.Time
	amount   float64
	category string
}

// DetectRecurring finds merchants charged at least twice across items.
// Income and Transfers are ignored, as are transactions whose date does not
// parse. Results are sorted by merchant name.
func DetectRecurring(items []domain.CategorizedTransaction, h Heuristics) []domain.RecurringExpense {
	byMerchant := make(map[string][]occurrence)
	for _, t := range items {
		if !domain.IsSpendingCategory(t.Category) || math.IsNaN(t.Amount) {
			continue
		}
		merchant := domain.NormalizeMerchant(t.Description)
		if merchant == "" {
			continue
		}
		date, err := domain.ParseDate(t.Date)
		if err != nil {
			continue
		}
		byMerchant[merchant] = append(byMerchant[merchant], occurrence{
			date:     date,
			amount:   math.Abs(t.Amount),
			category: t.Category,
		})
	}

	merchants := make([]string, 0, len(byMerchant))
	for m, occ := range byMerchant {
		if len(occ) >= 2 {
			merchants = append(merchants, m)
		}
	}
	sort.Strings(merchants)

	out := make([]domain.RecurringExpense, 0, len(merchants))
	for _, m := range merchants {
		out = append(out, summarizeOccurrences(m, byMerchant[m], h))
	}
	return out
}

func summarizeOccurrences(merchant string, occ []occurrence, h Heuristics) domain.RecurringExpense {
	sort.SliceStable(occ, func(i, j int) bool { return occ[i].date.Before(occ[j].date) })

	intervals := make([]float64, 0, len(occ)-1)
	for i := 1; i < len(occ); i++ {
		intervals = append(intervals, round(occ[i].date.Sub(occ[i-1].date).Hours()/24))
	}
	avgInterval := mean(intervals)

	amounts := make([]float64, 0, len(occ))
	for _, o := range occ {
		amounts = append(amounts, o.amount)
	}

	last := occ[len(occ)-1].date
	next := last.AddDate(0, 0, int(round(avgInterval)))

	return domain.RecurringExpense{
		MerchantName:       merchant,
		Category:           occ[0].category,
		AverageAmount:      mean(amounts),
		Frequency:          ClassifyFrequency(avgInterval, h),
		NextExpectedDate:   domain.FormatDate(next),
		LastOccurrenceDate: domain.FormatDate(last),
		Occurrences:        len(occ),
		IsActive:           true,
	}
}

// ClassifyFrequency maps an average interval in days to a frequency.
// Intervals beyond the quarterly bound fall back to monthly.
func ClassifyFrequency(avgInterval float64, h Heuristics) domain.Frequency {
	switch {
	case avgInterval <= h.WeeklyMaxDays:
		return domain.FrequencyWeekly
	case avgInterval <= h.BiweeklyMaxDays:
		return domain.FrequencyBiweekly
	case avgInterval <= h.MonthlyMaxDays:
		return domain.FrequencyMonthly
	case avgInterval <= h.QuarterlyMaxDays:
		return domain.FrequencyQuarterly
	default:
		return domain.FrequencyMonthly
	}
}
