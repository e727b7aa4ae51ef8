package pipeline

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/dvloznov/spendwise/internal/domain"
	"github.com/rs/zerolog"
)

// ParseResult is the outcome of parsing a CSV export.
// An empty Transactions slice is not an error; see ErrNoTransactions.
type ParseResult struct {
	Transactions []domain.Transaction `json:"transactions"`
	Lines        int                  `json:"lines"`   // data lines, header excluded
	Skipped      int                  `json:"skipped"` // blank or rejected lines
}

// ParseCSV parses a bank export: a header line followed by rows where column 1
// is the date, 4 the description, 5 the debit and 6 the credit.
func ParseCSV(text string) ParseResult {
	return parseCSV(text, zerolog.Nop())
}

// ParseCSVReader reads r fully and parses it with ParseCSV.
func ParseCSVReader(r io.Reader, log zerolog.Logger) (ParseResult, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return ParseResult{}, fmt.Errorf("ParseCSVReader: read: %w", err)
	}
	return parseCSV(string(data), log), nil
}

func parseCSV(text string, log zerolog.Logger) ParseResult {
	result := ParseResult{Transactions: []domain.Transaction{}}

	// Trailing blank lines are not data lines.
	lines := strings.Split(strings.TrimRightFunc(text, unicode.IsSpace), "\n")
	if len(lines) < 2 {
		return result
	}

	for i, line := range lines[1:] {
		lineNo := i + 2
		result.Lines++

		line = strings.TrimSpace(line)
		if line == "" {
			result.Skipped++
			continue
		}

		tx, reason := parseRow(splitCSVLine(line))
		if reason != "" {
			result.Skipped++
			log.Debug().Int("line", lineNo).Str("reason", reason).Msg("Skipping CSV row")
			continue
		}
		result.Transactions = append(result.Transactions, tx)
	}

	if result.Skipped > 0 {
		log.Warn().Int("skipped", result.Skipped).Int("lines", result.Lines).Msg("Some CSV rows were skipped")
	}
	return result
}

func parseRow(fields []string) (domain.Transaction, string) {
	if len(fields) < minCSVFields {
		return domain.Transaction{}, fmt.Sprintf("expected at least %d fields, got %d", minCSVFields, len(fields))
	}

	date := unquote(fields[colDate])
	description := unquote(fields[colDescription])
	debit := unquote(fields[colDebit])
	credit := unquote(fields[colCredit])

	if date == "" || description == "" {
		return domain.Transaction{}, "missing date or description"
	}

	var amount float64
	switch {
	case debit != "":
		v, ok := parseAmount(debit)
		if !ok || v == 0 {
			return domain.Transaction{}, "debit is not a non-zero number"
		}
		amount = -math.Abs(v)
	case credit != "":
		v, ok := parseAmount(credit)
		if !ok || v == 0 {
			return domain.Transaction{}, "credit is not a non-zero number"
		}
		amount = math.Abs(v)
	default:
		return domain.Transaction{}, "neither debit nor credit present"
	}

	return domain.Transaction{Date: date, Description: description, Amount: amount}, ""
}

// splitCSVLine splits on commas outside double quotes. Quote characters are
// kept in the returned fields.
func splitCSVLine(line string) []string {
	var fields []string
	var current strings.Builder
	inQuotes := false

	for _, r := range line {
		switch {
		case r == '"':
			inQuotes = !inQuotes
			current.WriteRune(r)
		case r == ',' && !inQuotes:
			fields = append(fields, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteRune(r)
		}
	}
	fields = append(fields, strings.TrimSpace(current.String()))
	return fields
}

func unquote(field string) string {
	return strings.TrimSpace(strings.ReplaceAll(field, `"`, ""))
}

// parseAmount accepts plain decimals with an optional currency sign and
// thousands separators.
func parseAmount(s string) (float64, bool) {
	s = strings.NewReplacer("$", "", ",", "").Replace(s)
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
