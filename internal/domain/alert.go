package domain

import "time"

// Alert types.
const (
	AlertOverspendingForecast = "overspending_forecast"
	AlertBudgetExceeded       = "budget_exceeded"
	AlertBudgetWarning        = "budget_warning"
	AlertSpendingIncrease     = "spending_increase"
	AlertSmallPurchases       = "small_purchases"
)

// Alert severities.
const (
	SeverityCritical = "critical"
	SeverityWarning  = "warning"
	SeverityInfo     = "info"
)

// Alert is a notification derived from the current month.
type Alert struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Type      string    `json:"alert_type"`
	Severity  string    `json:"severity"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Category  string    `json:"category,omitempty"`
	Amount    float64   `json:"amount,omitempty"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

// Trend directions of month-over-month category spending.
const (
	DirectionIncreasing = "increasing"
	DirectionDecreasing = "decreasing"
	DirectionStable     = "stable"
)

// SpendingTrend compares a category between two consecutive months.
type SpendingTrend struct {
	Category       string  `json:"category"`
	Month          string  `json:"month"`
	CurrentAmount  float64 `json:"current_amount"`
	PreviousAmount float64 `json:"previous_amount"`
	ChangePercent  float64 `json:"change_percent"`
	Direction      string  `json:"direction"`
}

// MerchantMapping is a learned merchant to category association.
type MerchantMapping struct {
	UserID       string    `json:"user_id"`
	MerchantName string    `json:"merchant_name"`
	Category     string    `json:"category"`
	Confidence   int       `json:"confidence"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Import run statuses.
const (
	ImportRunning = "RUNNING"
	ImportSuccess = "SUCCESS"
	ImportFailed  = "FAILED"
)

// ImportRun records one CSV import attempt.
type ImportRun struct {
	ImportRunID   string     `json:"import_run_id"`
	Source        string     `json:"source"`
	Status        string     `json:"status"`
	StartedAt     time.Time  `json:"started_at"`
	FinishedAt    *time.Time `json:"finished_at,omitempty"`
	Parsed        int        `json:"parsed"`
	Skipped       int        `json:"skipped"`
	Uncategorized int        `json:"uncategorized"`
	Months        int        `json:"months"`
	ErrorMessage  string     `json:"error_message,omitempty"`
}

// ImportStats summarizes a finished import.
type ImportStats struct {
	Parsed        int `json:"parsed"`
	Skipped       int `json:"skipped"`
	Categorized   int `json:"categorized"`
	Uncategorized int `json:"uncategorized"`
	Months        int `json:"months"`
}
