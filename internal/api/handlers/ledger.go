package handlers

import (
	"net/http"

	"github.com/dvloznov/spendwise/internal/api/middleware"
	"github.com/dvloznov/spendwise/internal/charts"
	"github.com/dvloznov/spendwise/internal/domain"
	"github.com/rs/zerolog"
)

// LedgerHandler handles month, budget and settings endpoints.
type LedgerHandler struct {
	ledger Ledger
	log    zerolog.Logger
}

// NewLedgerHandler creates a new ledger handler.
func NewLedgerHandler(ledger Ledger, log zerolog.Logger) *LedgerHandler {
	return &LedgerHandler{
		ledger: ledger,
		log:    log,
	}
}

type monthListing struct {
	Month            string  `json:"month"`
	TransactionCount int     `json:"transaction_count"`
	TotalIncome      float64 `json:"total_income"`
	TotalExpenses    float64 `json:"total_expenses"`
	NetChange        float64 `json:"net_change"`
}

// ListMonths handles GET /api/months, newest month first.
func (h *LedgerHandler) ListMonths(w http.ResponseWriter, r *http.Request) {
	groups, err := h.ledger.MonthGroups(r.Context())
	if err != nil {
		writeServiceError(w, h.log, err, "list months")
		return
	}

	months := make([]monthListing, 0, len(groups))
	for i := len(groups) - 1; i >= 0; i-- {
		s := groups[i].Summary
		months = append(months, monthListing{
			Month:            groups[i].Month,
			TransactionCount: s.TransactionCount,
			TotalIncome:      s.TotalIncome,
			TotalExpenses:    s.TotalExpenses,
			NetChange:        s.NetChange,
		})
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"months": months,
		"count":  len(months),
	})
}

// GetMonth handles GET /api/months/{YYYY-MM}
func (h *LedgerHandler) GetMonth(w http.ResponseWriter, r *http.Request, month string) {
	group, err := h.ledger.Month(r.Context(), month)
	if err != nil {
		writeServiceError(w, h.log, err, "get month")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, group)
}

// MonthChart handles GET /api/months/{YYYY-MM}/chart.png
func (h *LedgerHandler) MonthChart(w http.ResponseWriter, r *http.Request, month string) {
	group, err := h.ledger.Month(r.Context(), month)
	if err != nil {
		writeServiceError(w, h.log, err, "render chart")
		return
	}

	png, err := charts.CategoryPie("Spending "+month, group.Summary)
	if err != nil {
		middleware.WriteError(w, http.StatusUnprocessableEntity, "Nothing to chart for "+month)
		return
	}
	writePNG(w, png)
}

// TrendChart handles GET /api/charts/trend.png
func (h *LedgerHandler) TrendChart(w http.ResponseWriter, r *http.Request) {
	groups, err := h.ledger.MonthGroups(r.Context())
	if err != nil {
		writeServiceError(w, h.log, err, "render chart")
		return
	}

	png, err := charts.MonthlyTrend(groups)
	if err != nil {
		middleware.WriteError(w, http.StatusUnprocessableEntity, "At least two months are needed for a trend")
		return
	}
	writePNG(w, png)
}

// GetBudgets handles GET /api/budgets?month=YYYY-MM
func (h *LedgerHandler) GetBudgets(w http.ResponseWriter, r *http.Request) {
	month := r.URL.Query().Get("month")
	budgets, err := h.ledger.Budgets(r.Context(), month)
	if err != nil {
		writeServiceError(w, h.log, err, "list budgets")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"budgets": budgets,
		"count":   len(budgets),
	})
}

// PutBudget handles PUT /api/budgets
func (h *LedgerHandler) PutBudget(w http.ResponseWriter, r *http.Request) {
	var budget domain.Budget
	if !decodeJSON(w, r, &budget) {
		return
	}
	if err := h.ledger.SaveBudget(r.Context(), budget); err != nil {
		writeServiceError(w, h.log, err, "save budget")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]string{"status": "saved"})
}

// DeleteBudget handles DELETE /api/budgets?category=...&month=YYYY-MM
func (h *LedgerHandler) DeleteBudget(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	if err := h.ledger.DeleteBudget(r.Context(), query.Get("category"), query.Get("month")); err != nil {
		writeServiceError(w, h.log, err, "delete budget")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// BudgetSuggestions handles GET /api/budget-suggestions. With ?apply=true on
// a POST the plan is stored as next month's budgets.
func (h *LedgerHandler) BudgetSuggestions(w http.ResponseWriter, r *http.Request) {
	plan, err := h.ledger.BudgetPlan(r.Context())
	if err != nil {
		writeServiceError(w, h.log, err, "suggest budgets")
		return
	}
	if plan == nil {
		middleware.WriteError(w, http.StatusUnprocessableEntity, "At least one month of history is needed")
		return
	}

	if r.Method == http.MethodPost {
		applied, err := h.ledger.ApplyBudgetPlan(r.Context(), plan)
		if err != nil {
			writeServiceError(w, h.log, err, "apply budget plan")
			return
		}
		middleware.WriteJSON(w, http.StatusCreated, map[string]interface{}{
			"plan":    plan,
			"applied": applied,
		})
		return
	}

	middleware.WriteJSON(w, http.StatusOK, plan)
}

// GetSettings handles GET /api/settings
func (h *LedgerHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.ledger.Settings(r.Context())
	if err != nil {
		writeServiceError(w, h.log, err, "load settings")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, settings)
}

// PutSettings handles PUT /api/settings
func (h *LedgerHandler) PutSettings(w http.ResponseWriter, r *http.Request) {
	var settings domain.Settings
	if !decodeJSON(w, r, &settings) {
		return
	}
	if err := h.ledger.SaveSettings(r.Context(), settings); err != nil {
		writeServiceError(w, h.log, err, "save settings")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]string{"status": "saved"})
}

func writePNG(w http.ResponseWriter, png []byte) {
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}
