package domain

// CategoryTotal is the absolute amount accumulated for a category.
type CategoryTotal struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
}

// LargestExpense is the single most negative transaction of a period.
type LargestExpense struct {
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
}

// MonthSummary holds the totals of one period. TotalExpenses and every
// category total are absolute values; NetChange = TotalIncome - TotalExpenses.
type MonthSummary struct {
	TotalIncome      float64         `json:"total_income"`
	TotalExpenses    float64         `json:"total_expenses"`
	NetChange        float64         `json:"net_change"`
	CategoryTotals   []CategoryTotal `json:"category_totals"`
	LargestExpense   *LargestExpense `json:"largest_expense"`
	TransactionCount int             `json:"transaction_count"`
}

// CategoryTotal returns the total recorded for category, or 0.
func (s MonthSummary) CategoryTotal(category string) float64 {
	for _, ct := range s.CategoryTotals {
		if ct.Category == category {
			return ct.Total
		}
	}
	return 0
}

// MonthGroup is every transaction of one calendar month plus its summary.
type MonthGroup struct {
	Month        string                   `json:"month"` // YYYY-MM
	Transactions []CategorizedTransaction `json:"transactions"`
	Summary      MonthSummary             `json:"summary"`
}

// FindMonth returns the group for month, or nil.
func FindMonth(groups []MonthGroup, month string) *MonthGroup {
	for i := range groups {
		if groups[i].Month == month {
			return &groups[i]
		}
	}
	return nil
}
