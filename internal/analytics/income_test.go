package analytics_test

import (
	"testing"

	"github.com/dvloznov/spendwise/internal/analytics"
	"github.com/stretchr/testify/assert"
)

func TestMostCommonAmount(t *testing.T) {
	tests := []struct {
		name    string
		amounts []float64
		want    float64
		wantOK  bool
	}{
		{"paychecks within tolerance", []float64{1200, 1205, 1198, 500}, 1201, true},
		{"no repeated amount", []float64{100, 200, 300}, 0, false},
		{"empty", nil, 0, false},
		{"first cluster wins ties", []float64{50, 50, 900, 900}, 50, true},
		{"outside tolerance", []float64{100, 106}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := analytics.MostCommonAmount(tt.amounts, 5, 2)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEstimatePaycheck(t *testing.T) {
	h := analytics.DefaultHeuristics()
	g := groups(
		tx("01/05/2024", "PAYROLL", 1200, "Income"),
		tx("01/19/2024", "PAYROLL", 1205, "Income"),
		tx("02/02/2024", "PAYROLL", 1198, "Income"),
		tx("02/10/2024", "TAX REFUND", 500, "Income"),
		tx("02/11/2024", "KROGER", -80, "Food"),
	)

	biweekly, monthly := analytics.EstimatePaycheck(g, h)
	assert.Equal(t, 1201.0, biweekly)
	assert.Equal(t, 2402.0, monthly)
}

func TestAverageMonthlyIncome(t *testing.T) {
	g := groups(
		tx("01/05/2024", "PAYROLL", 3000, "Income"),
		tx("02/05/2024", "PAYROLL", 5000, "Income"),
	)
	assert.Equal(t, 4000.0, analytics.AverageMonthlyIncome(g))
	assert.Equal(t, 0.0, analytics.AverageMonthlyIncome(nil))
}
