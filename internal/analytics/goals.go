package analytics

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/dvloznov/spendwise/internal/domain"
)

const (
	daysPerMonth       = 30
	recentContribCount = 3
)

// Velocity labels.
const (
	VelocityGood = "good"
	VelocitySlow = "slow"
)

var milestonePercentages = []int{25, 50, 75, 90, 100}

// monthsUntil is the fractional number of 30-day months from now to t.
func monthsUntil(now, t time.Time) float64 {
	return t.Sub(now).Hours() / 24 / daysPerMonth
}

// monthsRemaining is monthsUntil rounded up, at least 1.
func monthsRemaining(now, target time.Time) int {
	return int(math.Max(1, math.Ceil(monthsUntil(now, target))))
}

func goalRemaining(g domain.Goal) float64 {
	return math.Max(0, g.TargetAmount-g.CurrentAmount)
}

// GoalProgress computes completion, contribution recommendations and
// projections for g. txs is the transaction history used to find recent
// contributions.
func GoalProgress(g domain.Goal, txs []domain.CategorizedTransaction, now time.Time) domain.GoalProgress {
	progress := 0.0
	if g.TargetAmount > 0 {
		progress = math.Min(100, g.CurrentAmount/g.TargetAmount*100)
	}
	remaining := goalRemaining(g)

	p := domain.GoalProgress{
		GoalID:              g.ID,
		GoalName:            g.Name,
		CurrentAmount:       g.CurrentAmount,
		TargetAmount:        g.TargetAmount,
		MonthlyContribution: g.MonthlyContribution,
		Progress:            progress,
		Remaining:           remaining,
	}

	var projected *time.Time
	if g.MonthlyContribution > 0 {
		months := ceilCount(remaining / g.MonthlyContribution)
		d := now.AddDate(0, months, 0)
		projected = &d
	}

	if g.TargetDate != nil {
		months := monthsRemaining(now, *g.TargetDate)
		recommended := remaining / float64(months)
		p.MonthsRemaining = &months
		p.RecommendedContribution = &recommended
		if projected != nil {
			onTrack := !projected.After(*g.TargetDate)
			p.OnTrack = &onTrack
		}
	}

	if projected != nil {
		weeks := int(math.Ceil(projected.Sub(now).Hours() / 24 / 7))
		p.ProjectedCompletionDate = projected
		p.WeeksToCompletion = &weeks
	}

	p.RecentContributions = RecentContributions(g, txs)
	if len(p.RecentContributions) > 0 {
		amounts := make([]float64, 0, len(p.RecentContributions))
		for _, c := range p.RecentContributions {
			amounts = append(amounts, c.Amount)
		}
		p.AverageMonthlyProgress = mean(amounts)
	} else {
		p.AverageMonthlyProgress = g.MonthlyContribution
	}

	p.Velocity = VelocitySlow
	if p.AverageMonthlyProgress > 0 {
		p.Velocity = VelocityGood
	}
	return p
}

// RecentContributions returns the latest positive transactions that are
// savings or mention the goal by name, newest first.
func RecentContributions(g domain.Goal, txs []domain.CategorizedTransaction) []domain.Contribution {
	type dated struct {
		date time.Time
		c    domain.Contribution
	}
	name := strings.ToLower(strings.TrimSpace(g.Name))

	var matches []dated
	for _, t := range txs {
		if t.Amount <= 0 {
			continue
		}
		if t.Category != domain.CategorySavings && (name == "" || !strings.Contains(strings.ToLower(t.Description), name)) {
			continue
		}
		d, err := domain.ParseDate(t.Date)
		if err != nil {
			continue
		}
		matches = append(matches, dated{date: d, c: domain.Contribution{Date: t.Date, Description: t.Description, Amount: t.Amount}})
	}

	sort.SliceStable(matches, func(i, j int) bool { return matches[i].date.After(matches[j].date) })

	out := []domain.Contribution{}
	for i := 0; i < len(matches) && i < recentContribCount; i++ {
		out = append(out, matches[i].c)
	}
	return out
}

// GoalFeasibility grades how much of the monthly disposable income
// (income - expenses) the goal needs.
func GoalFeasibility(g domain.Goal, monthlyIncome, monthlyExpenses float64, now time.Time, h Heuristics) domain.Feasibility {
	remaining := goalRemaining(g)
	disposable := monthlyIncome - monthlyExpenses

	if g.TargetDate == nil {
		return noDeadlineFeasibility(remaining, disposable, h)
	}

	months := monthsRemaining(now, *g.TargetDate)
	required := remaining / float64(months)
	f := domain.Feasibility{
		RequiredMonthly:   required,
		MonthlyDisposable: disposable,
		MonthsRemaining:   &months,
	}

	if disposable <= 0 {
		f.Feasibility = domain.FeasibilityUnrealistic
		f.Recommendation = fmt.Sprintf("This goal requires $%.2f/month, which exceeds your disposable income. Consider extending the deadline or reducing the target.", required)
		return f
	}

	percent := required / disposable * 100
	f.PercentOfDisposable = &percent

	switch {
	case percent > 100:
		f.Feasibility = domain.FeasibilityUnrealistic
		f.Recommendation = fmt.Sprintf("This goal requires $%.2f/month, which exceeds your disposable income. Consider extending the deadline or reducing the target.", required)
	case percent > 50:
		f.Feasibility = domain.FeasibilityChallenging
		f.Recommendation = fmt.Sprintf("This goal requires %.0f%% of your disposable income. It's achievable but will require significant sacrifice.", percent)
	case percent > 25:
		f.Feasibility = domain.FeasibilityModerate
		f.Recommendation = fmt.Sprintf("This goal requires %.0f%% of your disposable income. You'll need to cut some discretionary spending.", percent)
	default:
		f.Feasibility = domain.FeasibilityComfortable
		f.Recommendation = fmt.Sprintf("This goal is very achievable, requiring only %.0f%% of your disposable income.", percent)
	}

	if percent > 50 {
		alt := ceilCount(remaining / (disposable * h.GoalPoolShare))
		f.AlternativeMonths = &alt
	}
	return f
}

func noDeadlineFeasibility(remaining, disposable float64, h Heuristics) domain.Feasibility {
	comfortable := disposable * h.NoDeadlineShare
	f := domain.Feasibility{
		Feasibility:        domain.FeasibilityNoDeadline,
		RecommendedMonthly: comfortable,
		MonthlyDisposable:  disposable,
	}
	if comfortable <= 0 {
		f.RecommendedMonthly = 0
		f.Recommendation = "Your expenses currently match or exceed your income, so there is no room to contribute to this goal yet."
		return f
	}
	months := ceilCount(remaining / comfortable)
	f.EstimatedMonths = &months
	f.Recommendation = fmt.Sprintf("Without a deadline, we recommend contributing $%.2f/month (%.0f%% of disposable income). You'd reach your goal in about %d months.",
		comfortable, h.NoDeadlineShare*100, months)
	return f
}

// GoalMilestones lists the checkpoints at 25, 50, 75, 90 and 100 percent of
// the target that are still ahead of the current amount.
func GoalMilestones(g domain.Goal, now time.Time) []domain.Milestone {
	out := []domain.Milestone{}
	for _, pct := range milestonePercentages {
		amount := g.TargetAmount * float64(pct) / 100
		if amount <= g.CurrentAmount {
			continue
		}
		needed := amount - g.CurrentAmount

		m := domain.Milestone{
			Percentage:   pct,
			Amount:       amount,
			AmountNeeded: needed,
			Description:  milestoneDescription(pct, g.Name),
		}
		if g.MonthlyContribution > 0 {
			d := now.AddDate(0, ceilCount(needed/g.MonthlyContribution), 0)
			m.ProjectedDate = &d
		}
		out = append(out, m)
	}
	return out
}

func milestoneDescription(pct int, name string) string {
	switch pct {
	case 25:
		return "Quarter way to " + name
	case 50:
		return "Halfway to " + name
	case 75:
		return "Three-quarters to " + name
	case 90:
		return "Almost there!"
	case 100:
		return name + " achieved!"
	default:
		return fmt.Sprintf("%d%% progress", pct)
	}
}
