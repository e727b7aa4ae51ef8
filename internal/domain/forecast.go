package domain

// Trend is the direction of spending within a month.
type Trend string

const (
	TrendIncreasing Trend = "increasing"
	TrendDecreasing Trend = "decreasing"
	TrendStable     Trend = "stable"
)

// Label returns the human readable form of the trend.
func (t Trend) Label() string {
	switch t {
	case TrendIncreasing:
		return "Spending more than earlier this month"
	case TrendDecreasing:
		return "Spending less than earlier this month"
	default:
		return "Spending at a consistent pace"
	}
}

// Budget statuses of a category breakdown.
const (
	StatusGood    = "good"
	StatusWarning = "warning"
	StatusOver    = "over"
)

// CategoryBreakdown is spending against budget for one category.
// Remaining is nil when no budget is set for the category.
type CategoryBreakdown struct {
	Category    string   `json:"category"`
	Spent       float64  `json:"spent"`
	Budget      float64  `json:"budget"`
	Remaining   *float64 `json:"remaining"`
	PercentUsed float64  `json:"percent_used"`
	Status      string   `json:"status"`
}

// SafeToSpendResult is the basic forecast for the current cycle.
type SafeToSpendResult struct {
	SafeToSpend         float64             `json:"safe_to_spend"`
	SafePerDay          float64             `json:"safe_per_day"`
	RemainingBudget     float64             `json:"remaining_budget"`
	ProjectedEndBalance float64             `json:"projected_end_balance"`
	DaysLeftInCycle     int                 `json:"days_left_in_cycle"`
	SpentThisMonth      float64             `json:"spent_this_month"`
	BudgetedTotal       float64             `json:"budgeted_total"`
	MonthlyIncome       float64             `json:"monthly_income"`
	IsOnTrack           bool                `json:"is_on_track"`
	Trend               Trend               `json:"trend"`
	CategoryBreakdown   []CategoryBreakdown `json:"category_breakdown"`
}

// Confidence labels of the advanced forecast.
const (
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
	ConfidenceLow    = "low"
)

// UpcomingExpense is a recurring charge expected before the end of the month.
type UpcomingExpense struct {
	MerchantName string  `json:"merchant_name"`
	Amount       float64 `json:"amount"`
	DueDate      string  `json:"due_date"`
}

// AdvancedForecast folds recurring charges and the daily burn rate into the
// safe-to-spend figure.
type AdvancedForecast struct {
	SafeToSpend            float64           `json:"safe_to_spend"`
	SafePerDay             float64           `json:"safe_per_day"`
	DaysLeft               int               `json:"days_left"`
	SpentThisMonth         float64           `json:"spent_this_month"`
	DailyRate              float64           `json:"daily_rate"`
	ProjectedRecurring     float64           `json:"projected_recurring"`
	ProjectedTotalSpending float64           `json:"projected_total_spending"`
	ProjectedEndBalance    float64           `json:"projected_end_balance"`
	EffectiveBudget        float64           `json:"effective_budget"`
	MonthlyIncome          float64           `json:"monthly_income"`
	IsOnTrack              bool              `json:"is_on_track"`
	Shortfall              float64           `json:"shortfall"`
	Confidence             string            `json:"confidence"`
	UpcomingRecurring      []UpcomingExpense `json:"upcoming_recurring"`
}
