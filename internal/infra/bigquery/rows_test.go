package bigquery

import (
	"errors"
	"strings"
	"testing"
	"time"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"
	"github.com/dvloznov/spendwise/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToTransactionRow(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	it := domain.CategorizedTransaction{
		Transaction: domain.Transaction{Date: "03/15/2024", Description: "KROGER", Amount: -42.5},
		Category:    "Food",
	}

	row := toTransactionRow("user-1", "run-1", it, now)
	assert.NotEmpty(t, row.TransactionID)
	assert.Equal(t, "user-1", row.UserID)
	assert.Equal(t, "run-1", row.ImportRunID)
	require.True(t, row.TransactionDate.Valid)
	assert.Equal(t, civil.Date{Year: 2024, Month: time.March, Day: 15}, row.TransactionDate.Date)
	assert.Equal(t, "2024-03", row.Month)

	stored := row.toDomain()
	assert.Equal(t, it, stored.CategorizedTransaction)
	assert.Equal(t, "2024-03", stored.Month)
}

func TestToTransactionRow_MalformedDate(t *testing.T) {
	it := domain.CategorizedTransaction{
		Transaction: domain.Transaction{Date: "2024-03-15", Description: "X", Amount: -1},
		Category:    domain.CategoryUncategorized,
	}

	row := toTransactionRow("u", "r", it, time.Now())
	assert.False(t, row.TransactionDate.Valid)
	assert.Equal(t, "", row.Month)
	assert.Equal(t, "2024-03-15", row.toDomain().Date)
}

func TestGoalRow(t *testing.T) {
	target := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)
	goal := domain.Goal{Name: "Vacation", TargetAmount: 3000, TargetDate: &target}

	row := toGoalRow("u1", goal, time.Now())
	assert.NotEmpty(t, row.GoalID)
	assert.Equal(t, domain.GoalActive, row.Status)
	require.True(t, row.TargetDate.Valid)

	back := row.toDomain()
	require.NotNil(t, back.TargetDate)
	assert.True(t, target.Equal(*back.TargetDate))
	assert.Equal(t, "Vacation", back.Name)

	row.TargetDate = bigquery.NullDate{}
	assert.Nil(t, row.toDomain().TargetDate)
}

func TestImportRunRow_ToDomain(t *testing.T) {
	started := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	running := ImportRunRow{ImportRunID: "r1", Source: "a.csv", StartedTS: started, Status: domain.ImportRunning}
	run := running.toDomain()
	assert.Nil(t, run.FinishedAt)
	assert.Zero(t, run.Parsed)
	assert.Empty(t, run.ErrorMessage)

	finished := started.Add(time.Minute)
	done := ImportRunRow{
		ImportRunID: "r2",
		StartedTS:   started,
		FinishedTS:  bigquery.NullTimestamp{Timestamp: finished, Valid: true},
		Status:      domain.ImportSuccess,
		Parsed:      bigquery.NullInt64{Int64: 12, Valid: true},
		Months:      bigquery.NullInt64{Int64: 2, Valid: true},
	}
	run = done.toDomain()
	require.NotNil(t, run.FinishedAt)
	assert.Equal(t, finished, *run.FinishedAt)
	assert.Equal(t, 12, run.Parsed)
	assert.Equal(t, 2, run.Months)
}

func TestImportErrorMessage(t *testing.T) {
	assert.Equal(t, "", importErrorMessage(nil))
	assert.Len(t, importErrorMessage(errors.New(strings.Repeat("e", 2500))), 2000)
}

func TestTableRef(t *testing.T) {
	assert.Equal(t, "`finance.budgets`", tableRef("finance", budgetsTable))
}
