package handlers

import (
	"net/http"

	"github.com/dvloznov/spendwise/internal/api/middleware"
	"github.com/rs/zerolog"
)

// InsightsHandler handles forecast, recurring, alert and merchant endpoints.
type InsightsHandler struct {
	insights Insights
	log      zerolog.Logger
}

// NewInsightsHandler creates a new insights handler.
func NewInsightsHandler(insights Insights, log zerolog.Logger) *InsightsHandler {
	return &InsightsHandler{
		insights: insights,
		log:      log,
	}
}

// SafeToSpend handles GET /api/safe-to-spend
func (h *InsightsHandler) SafeToSpend(w http.ResponseWriter, r *http.Request) {
	result, err := h.insights.SafeToSpend(r.Context())
	if err != nil {
		writeServiceError(w, h.log, err, "compute safe-to-spend")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, result)
}

// AdvancedSafeToSpend handles GET /api/safe-to-spend/advanced
func (h *InsightsHandler) AdvancedSafeToSpend(w http.ResponseWriter, r *http.Request) {
	forecast, err := h.insights.AdvancedSafeToSpend(r.Context())
	if err != nil {
		writeServiceError(w, h.log, err, "compute forecast")
		return
	}
	if forecast == nil {
		middleware.WriteError(w, http.StatusNotFound, "No transactions in the current month")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, forecast)
}

// Recurring handles GET /api/recurring. POST re-runs detection first.
func (h *InsightsHandler) Recurring(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodPost {
		detected, err := h.insights.DetectRecurring(r.Context())
		if err != nil {
			writeServiceError(w, h.log, err, "detect recurring expenses")
			return
		}
		middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
			"recurring": detected,
			"count":     len(detected),
		})
		return
	}

	recurring, err := h.insights.RecurringExpenses(r.Context())
	if err != nil {
		writeServiceError(w, h.log, err, "list recurring expenses")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"recurring": recurring,
		"count":     len(recurring),
	})
}

// Trends handles GET /api/trends?month=YYYY-MM
func (h *InsightsHandler) Trends(w http.ResponseWriter, r *http.Request) {
	trends, err := h.insights.SpendingTrends(r.Context(), r.URL.Query().Get("month"))
	if err != nil {
		writeServiceError(w, h.log, err, "compute trends")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"trends": trends,
		"count":  len(trends),
	})
}

// Alerts handles GET /api/alerts (unread alerts) and POST /api/alerts
// (re-evaluate and store new alerts).
func (h *InsightsHandler) Alerts(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodPost {
		created, err := h.insights.RefreshAlerts(r.Context())
		if err != nil {
			writeServiceError(w, h.log, err, "refresh alerts")
			return
		}
		middleware.WriteJSON(w, http.StatusCreated, map[string]interface{}{
			"alerts": created,
			"count":  len(created),
		})
		return
	}

	alerts, err := h.insights.UnreadAlerts(r.Context())
	if err != nil {
		writeServiceError(w, h.log, err, "list alerts")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"alerts": alerts,
		"count":  len(alerts),
	})
}

// MarkAlertRead handles POST /api/alerts/{id}/read
func (h *InsightsHandler) MarkAlertRead(w http.ResponseWriter, r *http.Request, alertID string) {
	if err := h.insights.MarkAlertRead(r.Context(), alertID); err != nil {
		writeServiceError(w, h.log, err, "mark alert read")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Merchants handles GET /api/merchants (learned mappings, or a suggestion
// with ?description=) and POST /api/merchants (learn a mapping).
func (h *InsightsHandler) Merchants(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodPost {
		var req struct {
			Description string `json:"description"`
			Category    string `json:"category"`
		}
		if !decodeJSON(w, r, &req) {
			return
		}
		merchant, err := h.insights.LearnMerchant(r.Context(), req.Description, req.Category)
		if err != nil {
			writeServiceError(w, h.log, err, "learn merchant")
			return
		}
		middleware.WriteJSON(w, http.StatusOK, map[string]string{
			"merchant_name": merchant,
			"category":      req.Category,
		})
		return
	}

	if description := r.URL.Query().Get("description"); description != "" {
		mapping, err := h.insights.SuggestCategory(r.Context(), description)
		if err != nil {
			writeServiceError(w, h.log, err, "suggest category")
			return
		}
		if mapping == nil {
			middleware.WriteError(w, http.StatusNotFound, "No category learned for this merchant")
			return
		}
		middleware.WriteJSON(w, http.StatusOK, mapping)
		return
	}

	mappings, err := h.insights.MerchantMappings(r.Context())
	if err != nil {
		writeServiceError(w, h.log, err, "list merchants")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"merchants": mappings,
		"count":     len(mappings),
	})
}
