package domain

// Transaction is one row of a bank export.
// Date keeps the export's MM/DD/YYYY form; it is only converted when a
// month key or a calendar date is needed.
type Transaction struct {
	Date        string  `json:"date"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"` // IN = positive, OUT = negative
}

// CategorizedTransaction is a Transaction with the category assigned by the
// categorizer (or "Uncategorized").
type CategorizedTransaction struct {
	Transaction
	Category string `json:"category"`
}

// StoredTransaction is a categorized transaction as persisted by a store.
type StoredTransaction struct {
	CategorizedTransaction
	TransactionID string `json:"transaction_id"`
	ImportRunID   string `json:"import_run_id,omitempty"`
	Month         string `json:"month"`
}

// Well-known category labels referenced by the analytics.
const (
	CategoryUncategorized = "Uncategorized"
	CategoryIncome        = "Income"
	CategoryTransfers     = "Transfers"
	CategoryFood          = "Food"
	CategoryRent          = "Rent"
	CategorySubscriptions = "Subscriptions"
	CategoryUtilities     = "Utilities"
	CategoryInsurance     = "Insurance"
	CategoryEntertainment = "Entertainment"
	CategoryShopping      = "Shopping"
	CategoryDining        = "Dining"
	CategorySavings       = "Savings"
)

// IsSpendingCategory reports whether a category counts as spending, i.e. it is
// neither income nor a transfer between own accounts.
func IsSpendingCategory(category string) bool {
	return category != CategoryIncome && category != CategoryTransfers
}
