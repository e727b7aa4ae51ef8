package pipeline

// Defaults for CSV imports.
// These can be overridden via configuration.
const (
	// DefaultUserID is the user that owns imported transactions.
	DefaultUserID = "default"

	// DefaultModelName is the Gemini model used for category suggestions.
	DefaultModelName = "gemini-2.5-flash"

	// minCSVFields is the number of columns a data row must have.
	minCSVFields = 7
)

// Positional columns of the bank export.
const (
	colDate        = 1
	colDescription = 4
	colDebit       = 5
	colCredit      = 6
)
