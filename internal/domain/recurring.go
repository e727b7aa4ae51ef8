package domain

// Frequency is the billing cadence of a recurring expense.
type Frequency string

const (
	FrequencyWeekly    Frequency = "weekly"
	FrequencyBiweekly  Frequency = "biweekly"
	FrequencyMonthly   Frequency = "monthly"
	FrequencyQuarterly Frequency = "quarterly"
)

// RecurringExpense is a merchant charged at a regular interval.
// Dates are MM/DD/YYYY.
type RecurringExpense struct {
	MerchantName       string    `json:"merchant_name"`
	Category           string    `json:"category"`
	AverageAmount      float64   `json:"average_amount"`
	Frequency          Frequency `json:"frequency"`
	NextExpectedDate   string    `json:"next_expected_date"`
	LastOccurrenceDate string    `json:"last_occurrence_date"`
	Occurrences        int       `json:"occurrences"`
	IsActive           bool      `json:"is_active"`
}
