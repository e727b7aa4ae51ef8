package analytics_test

import (
	"time"

	"github.com/dvloznov/spendwise/internal/domain"
	"github.com/dvloznov/spendwise/internal/pipeline"
)

func tx(date, desc string, amount float64, category string) domain.CategorizedTransaction {
	return domain.CategorizedTransaction{
		Transaction: domain.Transaction{Date: date, Description: desc, Amount: amount},
		Category:    category,
	}
}

func groups(items ...domain.CategorizedTransaction) []domain.MonthGroup {
	return pipeline.GroupByMonth(items)
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func ptr[T any](v T) *T {
	return &v
}
