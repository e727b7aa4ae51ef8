package analytics

import (
	"fmt"
	"math"
	"time"

	"github.com/dvloznov/spendwise/internal/domain"
)

// AlertInput is the data FinancialAlerts inspects.
type AlertInput struct {
	UserID              string
	Groups              []domain.MonthGroup
	Budgets             []domain.Budget
	ProjectedEndBalance *float64
	Now                 time.Time
}

// FinancialAlerts derives alerts for the current month: an overspending
// forecast, budgets exceeded or nearly used, sharp month-over-month category
// increases and an accumulation of small purchases. It returns no alerts when
// the current month has no data.
func FinancialAlerts(in AlertInput, h Heuristics) []domain.Alert {
	alerts := []domain.Alert{}
	month := domain.MonthKeyOf(in.Now)
	current := domain.FindMonth(in.Groups, month)
	if current == nil {
		return alerts
	}

	newAlert := func(kind, severity, title, message string) domain.Alert {
		return domain.Alert{
			UserID:    in.UserID,
			Type:      kind,
			Severity:  severity,
			Title:     title,
			Message:   message,
			CreatedAt: in.Now,
		}
	}

	if in.ProjectedEndBalance != nil && *in.ProjectedEndBalance < 0 {
		a := newAlert(domain.AlertOverspendingForecast, domain.SeverityCritical, "Overspending forecast",
			fmt.Sprintf("Warning: Current spending pace projects a shortfall of $%.2f by month end", math.Abs(*in.ProjectedEndBalance)))
		a.Amount = *in.ProjectedEndBalance
		alerts = append(alerts, a)
	}

	for _, b := range in.Budgets {
		if b.Amount <= 0 {
			continue
		}
		spent := math.Abs(current.Summary.CategoryTotal(b.Category))
		percent := spent / b.Amount * 100

		var a domain.Alert
		switch {
		case percent >= 100:
			a = newAlert(domain.AlertBudgetExceeded, domain.SeverityWarning, "Budget exceeded",
				fmt.Sprintf("%s budget exceeded: $%.2f of $%.2f", b.Category, spent, b.Amount))
		case percent >= h.WarningPercent:
			a = newAlert(domain.AlertBudgetWarning, domain.SeverityInfo, "Budget warning",
				fmt.Sprintf("%s at %.0f%% of budget", b.Category, percent))
		default:
			continue
		}
		a.Category = b.Category
		a.Amount = spent
		alerts = append(alerts, a)
	}

	for _, t := range CategoryTrends(current, PreviousGroup(in.Groups, month), h) {
		if t.Direction != domain.DirectionIncreasing || t.ChangePercent <= h.SpendingIncreasePercent {
			continue
		}
		a := newAlert(domain.AlertSpendingIncrease, domain.SeverityInfo, "Spending increase",
			fmt.Sprintf("%s spending up %.0f%% vs last month", t.Category, t.ChangePercent))
		a.Category = t.Category
		a.Amount = t.CurrentAmount
		alerts = append(alerts, a)
	}

	small := 0.0
	for _, t := range current.Transactions {
		if t.Category != domain.CategoryIncome && math.Abs(t.Amount) < h.SmallPurchaseLimit {
			small += math.Abs(t.Amount)
		}
	}
	if small > h.SmallPurchaseTotal {
		a := newAlert(domain.AlertSmallPurchases, domain.SeverityInfo, "Small purchases",
			fmt.Sprintf("Small purchases under $%.0f total $%.2f this month", h.SmallPurchaseLimit, small))
		a.Amount = small
		alerts = append(alerts, a)
	}

	return alerts
}
