package pipeline

import "errors"

// Empty-result conditions. The caller decides whether they are fatal.
var (
	ErrNoTransactions = errors.New("no valid transactions found")
	ErrNoCategorized  = errors.New("no transactions left after categorization")
	ErrNoMonthGroups  = errors.New("no transactions with a valid date")
)

// Reasons a record is rejected by validation.
var (
	ErrMissingDescription = errors.New("missing description")
	ErrMissingAmount      = errors.New("missing amount")
	ErrMalformedDate      = errors.New("malformed date")
)
