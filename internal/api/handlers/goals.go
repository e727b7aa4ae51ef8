package handlers

import (
	"net/http"

	"github.com/dvloznov/spendwise/internal/api/middleware"
	"github.com/dvloznov/spendwise/internal/domain"
	"github.com/rs/zerolog"
)

// GoalsHandler handles savings goal endpoints.
type GoalsHandler struct {
	goals Goals
	log   zerolog.Logger
}

// NewGoalsHandler creates a new goals handler.
func NewGoalsHandler(goals Goals, log zerolog.Logger) *GoalsHandler {
	return &GoalsHandler{
		goals: goals,
		log:   log,
	}
}

// Goals handles GET /api/goals and POST /api/goals
func (h *GoalsHandler) Goals(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodPost {
		var goal domain.Goal
		if !decodeJSON(w, r, &goal) {
			return
		}
		id, err := h.goals.SaveGoal(r.Context(), goal)
		if err != nil {
			writeServiceError(w, h.log, err, "save goal")
			return
		}
		middleware.WriteJSON(w, http.StatusCreated, map[string]string{"id": id})
		return
	}

	goals, err := h.goals.Goals(r.Context())
	if err != nil {
		writeServiceError(w, h.log, err, "list goals")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"goals": goals,
		"count": len(goals),
	})
}

// Plan handles GET /api/goals/plan
func (h *GoalsHandler) Plan(w http.ResponseWriter, r *http.Request) {
	plan, err := h.goals.OptimizeGoals(r.Context())
	if err != nil {
		writeServiceError(w, h.log, err, "optimize goals")
		return
	}
	if plan == nil {
		middleware.WriteError(w, http.StatusNotFound, "No active goals")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, plan)
}

// GetGoal handles GET /api/goals/{id}
func (h *GoalsHandler) GetGoal(w http.ResponseWriter, r *http.Request, goalID string) {
	report, err := h.goals.GoalReport(r.Context(), goalID)
	if err != nil {
		writeServiceError(w, h.log, err, "get goal")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, report)
}
