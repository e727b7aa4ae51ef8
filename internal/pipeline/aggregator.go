package pipeline

import (
	"math"
	"sort"

	"github.com/dvloznov/spendwise/internal/domain"
	"github.com/rs/zerolog"
)

// Aggregator builds month summaries and month groups.
type Aggregator struct {
	log zerolog.Logger
}

// NewAggregator creates an aggregator that logs skipped records to log.
func NewAggregator(log zerolog.Logger) *Aggregator {
	return &Aggregator{log: log}
}

// Aggregate summarizes items without logging.
func Aggregate(items []domain.CategorizedTransaction) domain.MonthSummary {
	return NewAggregator(zerolog.Nop()).Summarize(items)
}

// GroupByMonth groups items by month without logging.
func GroupByMonth(items []domain.CategorizedTransaction) []domain.MonthGroup {
	return NewAggregator(zerolog.Nop()).GroupByMonth(items)
}

// Summarize computes totals over items. Positive amounts are income, zero and
// negative amounts are expenses. TransactionCount is len(items), including
// records skipped for having no usable amount.
func (a *Aggregator) Summarize(items []domain.CategorizedTransaction) domain.MonthSummary {
	summary := domain.MonthSummary{
		CategoryTotals:   []domain.CategoryTotal{},
		TransactionCount: len(items),
	}

	index := make(map[string]int)
	for i, it := range items {
		if err := ValidateTransaction(it.Transaction); err != nil {
			a.log.Warn().Int("index", i).Err(err).Msg("Skipping item in aggregation")
			continue
		}

		abs := math.Abs(it.Amount)
		if it.Amount > 0 {
			summary.TotalIncome += it.Amount
		} else {
			summary.TotalExpenses += abs
		}

		category := it.Category
		if category == "" {
			category = domain.CategoryUncategorized
		}
		if pos, ok := index[category]; ok {
			summary.CategoryTotals[pos].Total += abs
		} else {
			index[category] = len(summary.CategoryTotals)
			summary.CategoryTotals = append(summary.CategoryTotals, domain.CategoryTotal{Category: category, Total: abs})
		}

		// Strictly greater: the first of equal expenses is kept.
		if it.Amount < 0 && (summary.LargestExpense == nil || abs > summary.LargestExpense.Amount) {
			summary.LargestExpense = &domain.LargestExpense{Description: it.Description, Amount: abs}
		}
	}

	summary.NetChange = summary.TotalIncome - summary.TotalExpenses
	sort.SliceStable(summary.CategoryTotals, func(i, j int) bool {
		return summary.CategoryTotals[i].Total > summary.CategoryTotals[j].Total
	})
	return summary
}

// GroupByMonth partitions items by the YYYY-MM of their date and summarizes
// each month. Items with a malformed date are dropped. Groups are sorted by
// month ascending.
func (a *Aggregator) GroupByMonth(items []domain.CategorizedTransaction) []domain.MonthGroup {
	byMonth := make(map[string][]domain.CategorizedTransaction)
	for i, it := range items {
		key, ok := domain.MonthKey(it.Date)
		if !ok {
			a.log.Debug().Int("index", i).Str("date", it.Date).Msg("Dropping transaction with malformed date")
			continue
		}
		byMonth[key] = append(byMonth[key], it)
	}

	months := make([]string, 0, len(byMonth))
	for m := range byMonth {
		months = append(months, m)
	}
	sort.Strings(months)

	groups := make([]domain.MonthGroup, 0, len(months))
	for _, m := range months {
		txs := byMonth[m]
		groups = append(groups, domain.MonthGroup{
			Month:        m,
			Transactions: txs,
			Summary:      a.Summarize(txs),
		})
	}
	return groups
}
