package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/dvloznov/spendwise/internal/api/middleware"
	"github.com/dvloznov/spendwise/internal/gcs"
	"github.com/dvloznov/spendwise/internal/jobs"
	"github.com/rs/zerolog"
)

// UploadDeps are the optional collaborators of the upload and job endpoints.
type UploadDeps struct {
	Storage   gcs.StorageService
	Publisher jobs.Publisher
	JobStore  jobs.JobStore
	Bucket    string
}

// Router groups the handlers served by the API.
type Router struct {
	Imports  *ImportsHandler
	Jobs     *JobsHandler
	Ledger   *LedgerHandler
	Insights *InsightsHandler
	Goals    *GoalsHandler
}

// Service is everything the API needs from the application service.
type Service interface {
	Importer
	Ledger
	Insights
	Goals
}

func methodNotAllowed(w http.ResponseWriter) {
	middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
}

// NewHandler builds the mux with every API route and wraps it in the
// standard middleware chain. Jobs may be nil when no job store is configured.
func NewHandler(rt Router, log zerolog.Logger) http.Handler {
	mux := http.NewServeMux()

	// Import endpoints
	mux.HandleFunc("/api/imports", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			rt.Imports.ListRuns(w, r)
		case http.MethodPost:
			rt.Imports.Import(w, r)
		default:
			methodNotAllowed(w)
		}
	})

	mux.HandleFunc("/api/imports/upload", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			rt.Imports.Upload(w, r)
		} else {
			methodNotAllowed(w)
		}
	})

	mux.HandleFunc("/api/imports/jobs", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			rt.Imports.EnqueueImport(w, r)
		} else {
			methodNotAllowed(w)
		}
	})

	// Jobs endpoints
	mux.HandleFunc("/api/jobs", func(w http.ResponseWriter, r *http.Request) {
		if rt.Jobs == nil {
			middleware.WriteError(w, http.StatusServiceUnavailable, "Import jobs are not configured")
			return
		}
		if r.Method == http.MethodGet {
			rt.Jobs.ListJobs(w, r)
		} else {
			methodNotAllowed(w)
		}
	})

	mux.HandleFunc("/api/jobs/", func(w http.ResponseWriter, r *http.Request) {
		if rt.Jobs == nil {
			middleware.WriteError(w, http.StatusServiceUnavailable, "Import jobs are not configured")
			return
		}
		if r.Method == http.MethodGet {
			jobID := strings.TrimPrefix(r.URL.Path, "/api/jobs/")
			if jobID == "" {
				middleware.WriteError(w, http.StatusBadRequest, "Job ID is required")
				return
			}
			rt.Jobs.GetJob(w, r, jobID)
		} else {
			methodNotAllowed(w)
		}
	})

	// Month endpoints
	mux.HandleFunc("/api/months", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			rt.Ledger.ListMonths(w, r)
		} else {
			methodNotAllowed(w)
		}
	})

	mux.HandleFunc("/api/months/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}
		month := strings.TrimPrefix(r.URL.Path, "/api/months/")
		if chartMonth, ok := strings.CutSuffix(month, "/chart.png"); ok {
			rt.Ledger.MonthChart(w, r, chartMonth)
			return
		}
		if month == "" {
			middleware.WriteError(w, http.StatusBadRequest, "Month is required")
			return
		}
		rt.Ledger.GetMonth(w, r, month)
	})

	mux.HandleFunc("/api/charts/trend.png", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			rt.Ledger.TrendChart(w, r)
		} else {
			methodNotAllowed(w)
		}
	})

	// Budget endpoints
	mux.HandleFunc("/api/budgets", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			rt.Ledger.GetBudgets(w, r)
		case http.MethodPut:
			rt.Ledger.PutBudget(w, r)
		case http.MethodDelete:
			rt.Ledger.DeleteBudget(w, r)
		default:
			methodNotAllowed(w)
		}
	})

	mux.HandleFunc("/api/budget-suggestions", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet || r.Method == http.MethodPost {
			rt.Ledger.BudgetSuggestions(w, r)
		} else {
			methodNotAllowed(w)
		}
	})

	mux.HandleFunc("/api/settings", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			rt.Ledger.GetSettings(w, r)
		case http.MethodPut:
			rt.Ledger.PutSettings(w, r)
		default:
			methodNotAllowed(w)
		}
	})

	// Forecast endpoints
	mux.HandleFunc("/api/safe-to-spend", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			rt.Insights.SafeToSpend(w, r)
		} else {
			methodNotAllowed(w)
		}
	})

	mux.HandleFunc("/api/safe-to-spend/advanced", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			rt.Insights.AdvancedSafeToSpend(w, r)
		} else {
			methodNotAllowed(w)
		}
	})

	// Insight endpoints
	mux.HandleFunc("/api/recurring", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet || r.Method == http.MethodPost {
			rt.Insights.Recurring(w, r)
		} else {
			methodNotAllowed(w)
		}
	})

	mux.HandleFunc("/api/trends", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			rt.Insights.Trends(w, r)
		} else {
			methodNotAllowed(w)
		}
	})

	mux.HandleFunc("/api/alerts", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet || r.Method == http.MethodPost {
			rt.Insights.Alerts(w, r)
		} else {
			methodNotAllowed(w)
		}
	})

	mux.HandleFunc("/api/alerts/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			methodNotAllowed(w)
			return
		}
		rest := strings.TrimPrefix(r.URL.Path, "/api/alerts/")
		alertID, ok := strings.CutSuffix(rest, "/read")
		if !ok || alertID == "" {
			middleware.WriteError(w, http.StatusNotFound, "Not found")
			return
		}
		rt.Insights.MarkAlertRead(w, r, alertID)
	})

	mux.HandleFunc("/api/merchants", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet || r.Method == http.MethodPost {
			rt.Insights.Merchants(w, r)
		} else {
			methodNotAllowed(w)
		}
	})

	// Goal endpoints
	mux.HandleFunc("/api/goals", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet || r.Method == http.MethodPost {
			rt.Goals.Goals(w, r)
		} else {
			methodNotAllowed(w)
		}
	})

	mux.HandleFunc("/api/goals/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}
		goalID := strings.TrimPrefix(r.URL.Path, "/api/goals/")
		switch goalID {
		case "":
			middleware.WriteError(w, http.StatusBadRequest, "Goal ID is required")
		case "plan":
			rt.Goals.Plan(w, r)
		default:
			rt.Goals.GetGoal(w, r, goalID)
		}
	})

	// Health check endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteJSON(w, http.StatusOK, map[string]string{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	return middleware.Chain(log, mux)
}

// NewRouter wires a Router over one service.
func NewRouter(svc Service, deps UploadDeps, log zerolog.Logger) Router {
	rt := Router{
		Imports:  NewImportsHandler(svc, deps.Storage, deps.Publisher, deps.Bucket, log),
		Ledger:   NewLedgerHandler(svc, log),
		Insights: NewInsightsHandler(svc, log),
		Goals:    NewGoalsHandler(svc, log),
	}
	if deps.JobStore != nil {
		rt.Jobs = NewJobsHandler(deps.JobStore, log)
	}
	return rt
}
