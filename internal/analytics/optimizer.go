package analytics

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/dvloznov/spendwise/internal/domain"
)

// noDeadlineUrgency ranks goals without a target date after every dated goal.
const noDeadlineUrgency = 999

type rankedGoal struct {
	goal       domain.Goal
	urgency    float64
	completion float64
}

// OptimizeContributions splits a share of the monthly disposable income across
// active goals, most urgent first. It returns nil when no goal is active.
func OptimizeContributions(goals []domain.Goal, monthlyDisposable float64, now time.Time, h Heuristics) *domain.ContributionPlan {
	var ranked []rankedGoal
	for _, g := range goals {
		if g.Status != domain.GoalActive {
			continue
		}
		r := rankedGoal{goal: g, urgency: noDeadlineUrgency}
		if g.TargetDate != nil {
			r.urgency = monthsUntil(now, *g.TargetDate)
		}
		if g.TargetAmount > 0 {
			r.completion = g.CurrentAmount / g.TargetAmount
		}
		ranked = append(ranked, r)
	}
	if len(ranked) == 0 {
		return nil
	}

	// Goals due within a few months of each other are ordered by completion.
	sort.SliceStable(ranked, func(i, j int) bool {
		if math.Abs(ranked[i].urgency-ranked[j].urgency) < h.SimilarUrgencyMonths {
			return ranked[i].completion > ranked[j].completion
		}
		return ranked[i].urgency < ranked[j].urgency
	})

	pool := monthlyDisposable * h.GoalPoolShare
	plan := &domain.ContributionPlan{
		Allocations:       []domain.GoalAllocation{},
		AvailableForGoals: pool,
		MonthlyDisposable: monthlyDisposable,
	}

	for _, r := range ranked {
		remaining := r.goal.TargetAmount - r.goal.CurrentAmount

		var suggested float64
		if r.goal.TargetDate != nil && r.urgency < h.SoonMonths {
			monthsLeft := math.Max(1, r.urgency)
			suggested = math.Min(remaining/monthsLeft, pool*0.5)
		} else {
			suggested = math.Min(pool/float64(len(ranked)), remaining)
		}
		if suggested <= 0 {
			continue
		}

		plan.Allocations = append(plan.Allocations, domain.GoalAllocation{
			GoalID:           r.goal.ID,
			GoalName:         r.goal.Name,
			SuggestedMonthly: suggested,
			CurrentMonthly:   r.goal.MonthlyContribution,
			Priority:         allocationPriority(r.urgency, h),
			UrgencyMonths:    r.urgency,
			PercentComplete:  r.completion * 100,
			Reasoning:        allocationReasoning(r.urgency, h),
		})
		plan.TotalAllocated += suggested
		pool -= suggested
	}

	if monthlyDisposable != 0 {
		plan.PercentOfDisposable = plan.TotalAllocated / monthlyDisposable * 100
	}
	return plan
}

func allocationPriority(urgency float64, h Heuristics) string {
	switch {
	case urgency < h.UrgentMonths:
		return domain.AllocationHigh
	case urgency < h.SoonMonths:
		return domain.AllocationMedium
	default:
		return domain.AllocationLow
	}
}

func allocationReasoning(urgency float64, h Heuristics) string {
	if urgency < h.UrgentMonths {
		return fmt.Sprintf("Target date approaching in %d months", int(math.Ceil(urgency)))
	}
	return "Balanced contribution based on timeline"
}
