package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the layout of transaction dates in bank exports.
const DateLayout = "01/02/2006"

// ParseDate parses an MM/DD/YYYY date. Single-digit month and day are accepted.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse("1/2/2006", strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("ParseDate: %q: %w", s, err)
	}
	return t, nil
}

// FormatDate renders t as MM/DD/YYYY.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// MonthKey returns the YYYY-MM grouping key of an MM/DD/YYYY date.
// ok is false when the date does not have three "/"-separated parts or the
// month/year parts are not numbers.
func MonthKey(date string) (key string, ok bool) {
	parts := strings.Split(date, "/")
	if len(parts) < 3 {
		return "", false
	}
	month := strings.TrimSpace(parts[0])
	year := strings.TrimSpace(parts[2])
	m, err := strconv.Atoi(month)
	if err != nil || m < 1 || m > 12 {
		return "", false
	}
	if _, err := strconv.Atoi(year); err != nil || year == "" {
		return "", false
	}
	return fmt.Sprintf("%s-%02d", year, m), true
}

// MonthKeyOf returns the YYYY-MM key for t.
func MonthKeyOf(t time.Time) string {
	return t.Format("2006-01")
}

// ValidMonth reports whether key is a well-formed YYYY-MM month key.
func ValidMonth(key string) bool {
	_, err := time.Parse("2006-01", key)
	return err == nil
}

// NextMonth returns the month key following key, rolling December over to
// January of the next year.
func NextMonth(key string) (string, error) {
	t, err := time.Parse("2006-01", key)
	if err != nil {
		return "", fmt.Errorf("NextMonth: %q: %w", key, err)
	}
	return MonthKeyOf(t.AddDate(0, 1, 0)), nil
}

// PreviousMonth returns the month key preceding key.
func PreviousMonth(key string) (string, error) {
	t, err := time.Parse("2006-01", key)
	if err != nil {
		return "", fmt.Errorf("PreviousMonth: %q: %w", key, err)
	}
	return MonthKeyOf(t.AddDate(0, -1, 0)), nil
}

// DaysIn returns the number of days in the month containing t.
func DaysIn(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
}

// StartOfDay truncates t to midnight in its location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
