// Package charts renders PNG charts of month summaries with go-chart.
package charts

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/dvloznov/spendwise/internal/domain"
	"github.com/wcharczuk/go-chart/v2"
)

// ErrNoData is returned when there is nothing to plot.
var ErrNoData = errors.New("no data to chart")

// minSharePercent hides pie slices too small to label.
const minSharePercent = 1.0

var background = chart.Style{
	Padding: chart.Box{
		Top:    50,
		Left:   50,
		Right:  50,
		Bottom: 50,
	},
	FillColor: chart.ColorWhite,
}

func currency(v interface{}) string {
	if f, ok := v.(float64); ok {
		return fmt.Sprintf("$%.0f", f)
	}
	return ""
}

// CategoryPie renders the spending share of each category of a month.
// Income and Transfers are left out.
func CategoryPie(title string, summary domain.MonthSummary) ([]byte, error) {
	total := 0.0
	for _, ct := range summary.CategoryTotals {
		if domain.IsSpendingCategory(ct.Category) {
			total += ct.Total
		}
	}
	if total <= 0 {
		return nil, ErrNoData
	}

	values := make([]chart.Value, 0, len(summary.CategoryTotals))
	for _, ct := range summary.CategoryTotals {
		if !domain.IsSpendingCategory(ct.Category) {
			continue
		}
		share := ct.Total / total * 100
		if share <= minSharePercent {
			continue
		}
		values = append(values, chart.Value{
			Label: fmt.Sprintf("%s: $%.0f (%.1f%%)", ct.Category, ct.Total, share),
			Value: ct.Total,
			Style: chart.Style{
				FontSize:  12,
				FontColor: chart.ColorBlack,
			},
		})
	}

	pie := chart.PieChart{
		Title:      title,
		Width:      800,
		Height:     800,
		Values:     values,
		Background: background,
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := pie.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("CategoryPie: render: %w", err)
	}
	return buffer.Bytes(), nil
}

// MonthlyTrend renders income, expenses and the running balance across
// months. It needs at least two months.
func MonthlyTrend(groups []domain.MonthGroup) ([]byte, error) {
	if len(groups) < 2 {
		return nil, ErrNoData
	}

	xValues := make([]time.Time, 0, len(groups))
	income := make([]float64, 0, len(groups))
	expenses := make([]float64, 0, len(groups))
	balance := make([]float64, 0, len(groups))
	running := 0.0
	for _, g := range groups {
		month, err := time.Parse("2006-01", g.Month)
		if err != nil {
			continue
		}
		running += g.Summary.NetChange
		xValues = append(xValues, month)
		income = append(income, g.Summary.TotalIncome)
		expenses = append(expenses, g.Summary.TotalExpenses)
		balance = append(balance, running)
	}
	if len(xValues) < 2 {
		return nil, ErrNoData
	}

	graph := chart.Chart{
		Title:      "Income and expenses",
		Width:      1200,
		Height:     600,
		Background: background,
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeValueFormatterWithFormat("2006-01"),
		},
		YAxis: chart.YAxis{
			ValueFormatter: currency,
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    "Expenses",
				XValues: xValues,
				YValues: expenses,
				Style: chart.Style{
					StrokeColor: chart.ColorRed,
					StrokeWidth: 2,
				},
			},
			chart.TimeSeries{
				Name:    "Income",
				XValues: xValues,
				YValues: income,
				Style: chart.Style{
					StrokeColor: chart.ColorGreen,
					StrokeWidth: 2,
				},
			},
			chart.TimeSeries{
				Name:    "Balance",
				XValues: xValues,
				YValues: balance,
				Style: chart.Style{
					StrokeColor:     chart.ColorBlue,
					StrokeWidth:     2,
					StrokeDashArray: []float64{5.0, 5.0},
				},
			},
		},
	}
	graph.Elements = []chart.Renderable{
		chart.Legend(&graph, chart.Style{
			FontSize:  12,
			FontColor: chart.ColorBlack,
		}),
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("MonthlyTrend: render: %w", err)
	}
	return buffer.Bytes(), nil
}

// BudgetUsage renders spent amounts per budgeted category, colored by
// budget status.
func BudgetUsage(breakdown []domain.CategoryBreakdown) ([]byte, error) {
	bars := make([]chart.Value, 0, len(breakdown))
	for _, b := range breakdown {
		if b.Budget <= 0 {
			continue
		}
		color := chart.ColorGreen
		switch b.Status {
		case domain.StatusWarning:
			color = chart.ColorOrange
		case domain.StatusOver:
			color = chart.ColorRed
		}
		bars = append(bars, chart.Value{
			Label: fmt.Sprintf("%s (%.0f%%)", b.Category, b.PercentUsed),
			Value: b.Spent,
			Style: chart.Style{
				StrokeColor: color,
				FillColor:   color,
			},
		})
	}
	if len(bars) < 2 {
		return nil, ErrNoData
	}

	graph := chart.BarChart{
		Title:      "Budget usage",
		Width:      1200,
		Height:     600,
		BarWidth:   60,
		Background: background,
		YAxis: chart.YAxis{
			ValueFormatter: currency,
		},
		Bars: bars,
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("BudgetUsage: render: %w", err)
	}
	return buffer.Bytes(), nil
}
