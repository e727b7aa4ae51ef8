package domain

import "time"

// Goal statuses.
const (
	GoalActive    = "active"
	GoalCompleted = "completed"
	GoalPaused    = "paused"
)

// Goal is a savings target owned by the goal store. The analytics only read it.
type Goal struct {
	ID                  string     `json:"id"`
	Name                string     `json:"name"`
	Category            string     `json:"category"`
	TargetAmount        float64    `json:"target_amount"`
	CurrentAmount       float64    `json:"current_amount"`
	MonthlyContribution float64    `json:"monthly_contribution"`
	TargetDate          *time.Time `json:"target_date,omitempty"`
	Status              string     `json:"status"`
}

// Contribution is a transaction counted towards a goal.
type Contribution struct {
	Date        string  `json:"date"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
}

// GoalProgress is the completion state of a goal.
type GoalProgress struct {
	GoalID                  string         `json:"goal_id"`
	GoalName                string         `json:"goal_name"`
	CurrentAmount           float64        `json:"current_amount"`
	TargetAmount            float64        `json:"target_amount"`
	MonthlyContribution     float64        `json:"monthly_contribution"`
	Progress                float64        `json:"progress"`
	Remaining               float64        `json:"remaining"`
	MonthsRemaining         *int           `json:"months_remaining,omitempty"`
	RecommendedContribution *float64       `json:"recommended_contribution,omitempty"`
	ProjectedCompletionDate *time.Time     `json:"projected_completion_date,omitempty"`
	OnTrack                 *bool          `json:"on_track,omitempty"`
	WeeksToCompletion       *int           `json:"weeks_to_completion,omitempty"`
	RecentContributions     []Contribution `json:"recent_contributions"`
	AverageMonthlyProgress  float64        `json:"average_monthly_progress"`
	Velocity                string         `json:"velocity"`
}

// Feasibility buckets.
const (
	FeasibilityComfortable = "comfortable"
	FeasibilityModerate    = "moderate"
	FeasibilityChallenging = "challenging"
	FeasibilityUnrealistic = "unrealistic"
	FeasibilityNoDeadline  = "no_deadline"
)

// Feasibility is how realistic a goal is given disposable income.
type Feasibility struct {
	Feasibility         string   `json:"feasibility"`
	RequiredMonthly     float64  `json:"required_monthly,omitempty"`
	RecommendedMonthly  float64  `json:"recommended_monthly,omitempty"`
	PercentOfDisposable *float64 `json:"percent_of_disposable,omitempty"`
	MonthlyDisposable   float64  `json:"monthly_disposable"`
	MonthsRemaining     *int     `json:"months_remaining,omitempty"`
	EstimatedMonths     *int     `json:"estimated_months,omitempty"`
	AlternativeMonths   *int     `json:"alternative_months,omitempty"`
	Recommendation      string   `json:"recommendation"`
}

// Milestone is an intermediate checkpoint on the way to a goal.
type Milestone struct {
	Percentage    int        `json:"percentage"`
	Amount        float64    `json:"amount"`
	AmountNeeded  float64    `json:"amount_needed"`
	ProjectedDate *time.Time `json:"projected_date,omitempty"`
	Description   string     `json:"description"`
}

// Allocation priorities of the contribution optimizer.
const (
	AllocationHigh   = "high"
	AllocationMedium = "medium"
	AllocationLow    = "low"
)

// GoalAllocation is the monthly amount assigned to a goal.
type GoalAllocation struct {
	GoalID           string  `json:"goal_id"`
	GoalName         string  `json:"goal_name"`
	SuggestedMonthly float64 `json:"suggested_monthly"`
	CurrentMonthly   float64 `json:"current_monthly"`
	Priority         string  `json:"priority"`
	UrgencyMonths    float64 `json:"urgency_months"`
	PercentComplete  float64 `json:"percent_complete"`
	Reasoning        string  `json:"reasoning"`
}

// ContributionPlan splits the goal pool across active goals.
type ContributionPlan struct {
	Allocations         []GoalAllocation `json:"allocations"`
	TotalAllocated      float64          `json:"total_allocated"`
	AvailableForGoals   float64          `json:"available_for_goals"`
	MonthlyDisposable   float64          `json:"monthly_disposable"`
	PercentOfDisposable float64          `json:"percent_of_disposable"`
}
