package supabase

import (
	"time"

	"github.com/dvloznov/spendwise/internal/domain"
)

// isoDate is the date format of Postgres date columns.
const isoDate = "2006-01-02"

type recurringRow struct {
	UserID           string  `json:"user_id"`
	MerchantName     string  `json:"merchant_name"`
	Category         string  `json:"category"`
	AverageAmount    float64 `json:"average_amount"`
	Frequency        string  `json:"frequency"`
	NextExpectedDate string  `json:"next_expected_date"`
	LastOccurrence   string  `json:"last_occurrence"`
	Occurrences      int     `json:"occurrences"`
	IsActive         bool    `json:"is_active"`
}

type alertRow struct {
	ID        string    `json:"id,omitempty"`
	UserID    string    `json:"user_id"`
	AlertType string    `json:"alert_type"`
	Severity  string    `json:"severity"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Category  *string   `json:"category"`
	Amount    *float64  `json:"amount"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

type merchantRow struct {
	ID           string    `json:"id,omitempty"`
	UserID       string    `json:"user_id"`
	MerchantName string    `json:"merchant_name"`
	Category     string    `json:"category"`
	Confidence   int       `json:"confidence"`
	LastUsed     time.Time `json:"last_used"`
}

// toISO converts an MM/DD/YYYY date to YYYY-MM-DD. Malformed input is
// returned unchanged so the database rejects it visibly.
func toISO(date string) string {
	t, err := domain.ParseDate(date)
	if err != nil {
		return date
	}
	return t.Format(isoDate)
}

// fromISO converts a YYYY-MM-DD date (optionally with a time part) to MM/DD/YYYY.
func fromISO(date string) string {
	if len(date) > len(isoDate) {
		date = date[:len(isoDate)]
	}
	t, err := time.Parse(isoDate, date)
	if err != nil {
		return date
	}
	return domain.FormatDate(t)
}

func toRecurringRow(userID string, e domain.RecurringExpense) recurringRow {
	return recurringRow{
		UserID:           userID,
		MerchantName:     e.MerchantName,
		Category:         e.Category,
		AverageAmount:    e.AverageAmount,
		Frequency:        string(e.Frequency),
		NextExpectedDate: toISO(e.NextExpectedDate),
		LastOccurrence:   toISO(e.LastOccurrenceDate),
		Occurrences:      e.Occurrences,
		IsActive:         e.IsActive,
	}
}

func (r recurringRow) toDomain() domain.RecurringExpense {
	return domain.RecurringExpense{
		MerchantName:       r.MerchantName,
		Category:           r.Category,
		AverageAmount:      r.AverageAmount,
		Frequency:          domain.Frequency(r.Frequency),
		NextExpectedDate:   fromISO(r.NextExpectedDate),
		LastOccurrenceDate: fromISO(r.LastOccurrence),
		Occurrences:        r.Occurrences,
		IsActive:           r.IsActive,
	}
}

func toAlertRow(a domain.Alert) alertRow {
	row := alertRow{
		ID:        a.ID,
		UserID:    a.UserID,
		AlertType: a.Type,
		Severity:  a.Severity,
		Title:     a.Title,
		Message:   a.Message,
		IsRead:    a.IsRead,
		CreatedAt: a.CreatedAt,
	}
	if a.Category != "" {
		c := a.Category
		row.Category = &c
	}
	if a.Amount != 0 {
		amount := a.Amount
		row.Amount = &amount
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	return row
}

func (r alertRow) toDomain() domain.Alert {
	a := domain.Alert{
		ID:        r.ID,
		UserID:    r.UserID,
		Type:      r.AlertType,
		Severity:  r.Severity,
		Title:     r.Title,
		Message:   r.Message,
		IsRead:    r.IsRead,
		CreatedAt: r.CreatedAt,
	}
	if r.Category != nil {
		a.Category = *r.Category
	}
	if r.Amount != nil {
		a.Amount = *r.Amount
	}
	return a
}

func (r merchantRow) toDomain() domain.MerchantMapping {
	return domain.MerchantMapping{
		UserID:       r.UserID,
		MerchantName: r.MerchantName,
		Category:     r.Category,
		Confidence:   r.Confidence,
		UpdatedAt:    r.LastUsed,
	}
}
