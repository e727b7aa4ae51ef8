package pipeline

import (
	"math"
	"strings"

	"github.com/dvloznov/spendwise/internal/domain"
)

// Rejection is a record excluded by validation.
type Rejection struct {
	Index  int
	Reason error
}

// ValidateTransaction reports why t cannot be categorized or aggregated,
// or nil when it is usable.
func ValidateTransaction(t domain.Transaction) error {
	if strings.TrimSpace(t.Description) == "" {
		return ErrMissingDescription
	}
	if math.IsNaN(t.Amount) || math.IsInf(t.Amount, 0) {
		return ErrMissingAmount
	}
	return nil
}

// ValidateDate reports whether date can be placed in a month group.
func ValidateDate(date string) error {
	if _, ok := domain.MonthKey(date); !ok {
		return ErrMalformedDate
	}
	return nil
}

// Classify splits txs into usable records and rejections, preserving order.
func Classify(txs []domain.Transaction) ([]domain.Transaction, []Rejection) {
	valid := make([]domain.Transaction, 0, len(txs))
	var rejected []Rejection
	for i, t := range txs {
		if err := ValidateTransaction(t); err != nil {
			rejected = append(rejected, Rejection{Index: i, Reason: err})
			continue
		}
		valid = append(valid, t)
	}
	return valid, rejected
}
