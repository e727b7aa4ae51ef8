package domain

// Budget is a spending limit set for a category in a month.
type Budget struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
	Month    string  `json:"month"` // YYYY-MM
}

// Budget priorities, lower is more essential.
const (
	PriorityFixed         = 1
	PriorityEssential     = 2
	PriorityVariable      = 3
	PriorityDiscretionary = 4
)

// BudgetSuggestion is the forecast amount for one category next month.
type BudgetSuggestion struct {
	Category        string  `json:"category"`
	SuggestedAmount float64 `json:"suggested_amount"`
	Average         float64 `json:"average"`
	Min             float64 `json:"min"`
	Max             float64 `json:"max"`
	MonthsTracked   int     `json:"months_tracked"`
	Reasoning       string  `json:"reasoning"`
	Priority        int     `json:"priority"`
}

// BudgetPlan is the full next-month budget proposal.
type BudgetPlan struct {
	NextMonth           string             `json:"next_month"`
	Suggestions         []BudgetSuggestion `json:"suggestions"`
	TotalSuggested      float64            `json:"total_suggested"`
	MonthlyIncome       float64            `json:"monthly_income"`
	BiweeklyPaycheck    float64            `json:"biweekly_paycheck"`
	DiscretionaryIncome float64            `json:"discretionary_income"`
}

// Settings are the per-user inputs of the forecasters.
// Zero values mean "not configured".
type Settings struct {
	UserID           string  `json:"user_id"`
	MonthlyIncome    float64 `json:"monthly_income"`
	BudgetCycleStart int     `json:"budget_cycle_start"`
	ProEnabled       bool    `json:"pro_enabled"`
}
