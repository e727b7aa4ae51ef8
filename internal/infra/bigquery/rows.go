package bigquery

import (
	"time"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"
	"github.com/dvloznov/spendwise/internal/domain"
	"github.com/dvloznov/spendwise/internal/store"
)

type TransactionRow struct {
	TransactionID string `bigquery:"transaction_id"` // REQUIRED
	UserID        string `bigquery:"user_id"`        // REQUIRED
	ImportRunID   string `bigquery:"import_run_id"`  // REQUIRED

	TransactionDate bigquery.NullDate `bigquery:"transaction_date"` // NULLABLE when the export date is malformed
	RawDate         string            `bigquery:"raw_date"`         // REQUIRED, MM/DD/YYYY as exported
	Month           string            `bigquery:"month"`            // REQUIRED, YYYY-MM or empty

	Description string  `bigquery:"description"` // REQUIRED
	Amount      float64 `bigquery:"amount"`      // REQUIRED, negative = expense
	Category    string  `bigquery:"category"`    // REQUIRED

	CreatedTS time.Time `bigquery:"created_ts"` // REQUIRED
}

type BudgetRow struct {
	UserID    string    `bigquery:"user_id"`    // REQUIRED
	Month     string    `bigquery:"month"`      // REQUIRED, YYYY-MM
	Category  string    `bigquery:"category"`   // REQUIRED
	Amount    float64   `bigquery:"amount"`     // REQUIRED
	UpdatedTS time.Time `bigquery:"updated_ts"` // REQUIRED
}

type GoalRow struct {
	GoalID              string            `bigquery:"goal_id"`              // REQUIRED
	UserID              string            `bigquery:"user_id"`              // REQUIRED
	Name                string            `bigquery:"name"`                 // REQUIRED
	Category            string            `bigquery:"category"`             // REQUIRED, may be empty
	TargetAmount        float64           `bigquery:"target_amount"`        // REQUIRED
	CurrentAmount       float64           `bigquery:"current_amount"`       // REQUIRED
	MonthlyContribution float64           `bigquery:"monthly_contribution"` // REQUIRED
	TargetDate          bigquery.NullDate `bigquery:"target_date"`          // NULLABLE
	Status              string            `bigquery:"status"`               // REQUIRED
	CreatedTS           time.Time         `bigquery:"created_ts"`           // REQUIRED
}

type SettingsRow struct {
	UserID           string    `bigquery:"user_id"`            // REQUIRED
	MonthlyIncome    float64   `bigquery:"monthly_income"`     // REQUIRED, 0 = derive from history
	BudgetCycleStart int64     `bigquery:"budget_cycle_start"` // REQUIRED, 0 = first of month
	ProEnabled       bool      `bigquery:"pro_enabled"`        // REQUIRED
	UpdatedTS        time.Time `bigquery:"updated_ts"`         // REQUIRED
}

type ImportRunRow struct {
	ImportRunID string `bigquery:"import_run_id"` // REQUIRED
	UserID      string `bigquery:"user_id"`       // REQUIRED
	Source      string `bigquery:"source"`        // REQUIRED

	StartedTS  time.Time              `bigquery:"started_ts"`  // REQUIRED
	FinishedTS bigquery.NullTimestamp `bigquery:"finished_ts"` // NULLABLE

	Status       string              `bigquery:"status"`        // REQUIRED
	ErrorMessage bigquery.NullString `bigquery:"error_message"` // NULLABLE

	Parsed        bigquery.NullInt64 `bigquery:"parsed"`        // NULLABLE until the run finishes
	Skipped       bigquery.NullInt64 `bigquery:"skipped"`       // NULLABLE
	Uncategorized bigquery.NullInt64 `bigquery:"uncategorized"` // NULLABLE
	Months        bigquery.NullInt64 `bigquery:"months"`        // NULLABLE
}

// toTransactionRow converts a categorized transaction for insertion.
func toTransactionRow(userID, importRunID string, it domain.CategorizedTransaction, now time.Time) *TransactionRow {
	row := &TransactionRow{
		TransactionID: newID(),
		UserID:        userID,
		ImportRunID:   importRunID,
		RawDate:       it.Date,
		Description:   it.Description,
		Amount:        it.Amount,
		Category:      it.Category,
		CreatedTS:     now,
	}
	if d, err := domain.ParseDate(it.Date); err == nil {
		row.TransactionDate = bigquery.NullDate{Date: civil.DateOf(d), Valid: true}
	}
	if month, ok := domain.MonthKey(it.Date); ok {
		row.Month = month
	}
	return row
}

func (r *TransactionRow) toDomain() domain.StoredTransaction {
	return domain.StoredTransaction{
		CategorizedTransaction: domain.CategorizedTransaction{
			Transaction: domain.Transaction{
				Date:        r.RawDate,
				Description: r.Description,
				Amount:      r.Amount,
			},
			Category: r.Category,
		},
		TransactionID: r.TransactionID,
		ImportRunID:   r.ImportRunID,
		Month:         r.Month,
	}
}

func (r *BudgetRow) toDomain() domain.Budget {
	return domain.Budget{Category: r.Category, Amount: r.Amount, Month: r.Month}
}

func toGoalRow(userID string, g domain.Goal, now time.Time) *GoalRow {
	row := &GoalRow{
		GoalID:              g.ID,
		UserID:              userID,
		Name:                g.Name,
		Category:            g.Category,
		TargetAmount:        g.TargetAmount,
		CurrentAmount:       g.CurrentAmount,
		MonthlyContribution: g.MonthlyContribution,
		Status:              g.Status,
		CreatedTS:           now,
	}
	if row.GoalID == "" {
		row.GoalID = newID()
	}
	if row.Status == "" {
		row.Status = domain.GoalActive
	}
	if g.TargetDate != nil {
		row.TargetDate = bigquery.NullDate{Date: civil.DateOf(*g.TargetDate), Valid: true}
	}
	return row
}

func (r *GoalRow) toDomain() domain.Goal {
	g := domain.Goal{
		ID:                  r.GoalID,
		Name:                r.Name,
		Category:            r.Category,
		TargetAmount:        r.TargetAmount,
		CurrentAmount:       r.CurrentAmount,
		MonthlyContribution: r.MonthlyContribution,
		Status:              r.Status,
	}
	if r.TargetDate.Valid {
		t := r.TargetDate.Date.In(time.UTC)
		g.TargetDate = &t
	}
	return g
}

func (r *SettingsRow) toDomain() domain.Settings {
	return domain.Settings{
		UserID:           r.UserID,
		MonthlyIncome:    r.MonthlyIncome,
		BudgetCycleStart: int(r.BudgetCycleStart),
		ProEnabled:       r.ProEnabled,
	}
}

func (r *ImportRunRow) toDomain() domain.ImportRun {
	run := domain.ImportRun{
		ImportRunID:   r.ImportRunID,
		Source:        r.Source,
		Status:        r.Status,
		StartedAt:     r.StartedTS,
		ErrorMessage:  r.ErrorMessage.StringVal,
		Parsed:        int(r.Parsed.Int64),
		Skipped:       int(r.Skipped.Int64),
		Uncategorized: int(r.Uncategorized.Int64),
		Months:        int(r.Months.Int64),
	}
	if r.FinishedTS.Valid {
		t := r.FinishedTS.Timestamp
		run.FinishedAt = &t
	}
	return run
}

// importErrorMessage bounds err for the error_message column.
func importErrorMessage(err error) string {
	return store.ErrorMessage(err)
}
