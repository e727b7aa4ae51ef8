package analytics

import (
	"time"

	"github.com/dvloznov/spendwise/internal/domain"
)

// normalizeCycleStart maps an unset or out-of-range cycle start day to 1..31.
func normalizeCycleStart(start int) int {
	if start < 1 {
		return 1
	}
	if start > 31 {
		return 31
	}
	return start
}

// DaysLeftInCycle counts the days remaining in the budget cycle, today
// included.
func DaysLeftInCycle(now time.Time, cycleStart int) int {
	cycleStart = normalizeCycleStart(cycleStart)
	today := now.Day()
	if today < cycleStart {
		return cycleStart - today
	}
	return domain.DaysIn(now) - today + 1
}

// DaysElapsedInCycle counts the days since the cycle started, today included.
// Before the start day the cycle began in the previous month.
func DaysElapsedInCycle(now time.Time, cycleStart int) int {
	cycleStart = normalizeCycleStart(cycleStart)
	today := now.Day()
	if today >= cycleStart {
		return today - cycleStart + 1
	}
	prevMonthDays := time.Date(now.Year(), now.Month(), 0, 0, 0, 0, 0, now.Location()).Day()
	return (prevMonthDays - cycleStart + 1) + today
}

// ExpectedSpending pro-rates totalBudget linearly over the current month.
func ExpectedSpending(totalBudget float64, cycleStart int, now time.Time) float64 {
	daily := totalBudget / float64(domain.DaysIn(now))
	return daily * float64(DaysElapsedInCycle(now, cycleStart))
}
