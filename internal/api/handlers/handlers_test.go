package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dvloznov/spendwise/internal/domain"
	"github.com/dvloznov/spendwise/internal/jobs"
	jobsmem "github.com/dvloznov/spendwise/internal/jobs/inmemory"
	"github.com/dvloznov/spendwise/internal/logger"
	"github.com/dvloznov/spendwise/internal/store/inmemory"
	"github.com/dvloznov/spendwise/internal/tracker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCSV = "Account,Date,Ref,Type,Description,Debit,Credit\n" +
	"1,01/05/2024,,,KROGER #12,100.00,\n" +
	"1,01/15/2024,,,ACME PAYROLL,,3000.00\n" +
	"1,02/05/2024,,,KROGER #12,120.00,\n" +
	"1,02/15/2024,,,ACME PAYROLL,,3000.00\n" +
	"1,03/05/2024,,,KROGER #12,150.00,\n" +
	"1,03/15/2024,,,ACME PAYROLL,,3000.00\n"

var march20 = time.Date(2024, 3, 20, 10, 0, 0, 0, time.UTC)

// fakeStorage records uploads instead of talking to Cloud Storage.
type fakeStorage struct {
	uploaded map[string]string
	err      error
}

func (f *fakeStorage) UploadCSV(ctx context.Context, bucketName, objectName string, r io.Reader) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	uri := fmt.Sprintf("gs://%s/%s", bucketName, objectName)
	f.uploaded[uri] = string(data)
	return uri, nil
}

func (f *fakeStorage) FetchFromGCS(ctx context.Context, gcsURI string) ([]byte, error) {
	return []byte(f.uploaded[gcsURI]), nil
}

func (f *fakeStorage) ExtractFilenameFromGCSURI(gcsURI string) string {
	return gcsURI[strings.LastIndex(gcsURI, "/")+1:]
}

type testServer struct {
	handler http.Handler
	svc     *tracker.Service
	store   *inmemory.Store
	storage *fakeStorage
	jobs    *jobsmem.Store
}

func newTestServer(t *testing.T, opts tracker.Options) *testServer {
	t.Helper()
	s := inmemory.NewStore()
	opts.UserID = "u1"
	opts.Now = func() time.Time { return march20 }
	svc := tracker.NewService(s, s, opts)

	jobStore := jobsmem.NewStore()
	queue := jobsmem.NewQueue(10, jobStore)
	t.Cleanup(func() { _ = queue.Close() })
	storage := &fakeStorage{uploaded: map[string]string{}}

	rt := NewRouter(svc, UploadDeps{
		Storage:   storage,
		Publisher: queue,
		JobStore:  jobStore,
		Bucket:    "statements",
	}, logger.New())

	return &testServer{
		handler: NewHandler(rt, logger.New()),
		svc:     svc,
		store:   s,
		storage: storage,
		jobs:    jobStore,
	}
}

func (ts *testServer) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func (ts *testServer) importCSV(t *testing.T) {
	t.Helper()
	rec := ts.do(t, http.MethodPost, "/api/imports?source=test.csv", testCSV)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, tracker.Options{})

	rec := ts.do(t, http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestImport(t *testing.T) {
	ts := newTestServer(t, tracker.Options{})

	rec := ts.do(t, http.MethodPost, "/api/imports?source=test.csv", testCSV)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		ImportRunID string             `json:"import_run_id"`
		Stats       domain.ImportStats `json:"stats"`
	}
	decode(t, rec, &resp)
	assert.NotEmpty(t, resp.ImportRunID)

	rec = ts.do(t, http.MethodGet, "/api/imports", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var runs struct {
		Count int `json:"count"`
	}
	decode(t, rec, &runs)
	assert.Equal(t, 1, runs.Count)
}

func TestImport_Errors(t *testing.T) {
	ts := newTestServer(t, tracker.Options{})

	t.Run("empty body", func(t *testing.T) {
		rec := ts.do(t, http.MethodPost, "/api/imports", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("no valid rows", func(t *testing.T) {
		rec := ts.do(t, http.MethodPost, "/api/imports", "Account,Date,Ref,Type,Description,Debit,Credit\n")
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("no dated rows", func(t *testing.T) {
		isoDated := "Account,Date,Ref,Type,Description,Debit,Credit\n" +
			"1,2024-01-05,,,KROGER #12,80.00,\n" +
			"1,2024-01-06,,,SHELL OIL,30.00,\n"

		rec := ts.do(t, http.MethodPost, "/api/imports", isoDated)
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())
		assert.Contains(t, rec.Body.String(), "valid MM/DD/YYYY date")

		stored, err := ts.store.AllTransactions(context.Background())
		require.NoError(t, err)
		assert.Empty(t, stored)

		runs, err := ts.svc.ImportRuns(context.Background())
		require.NoError(t, err)
		require.NotEmpty(t, runs)
		assert.Equal(t, domain.ImportFailed, runs[0].Status)
	})

	t.Run("wrong method", func(t *testing.T) {
		rec := ts.do(t, http.MethodDelete, "/api/imports", "")
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}

func TestUpload_EnqueuesJob(t *testing.T) {
	ts := newTestServer(t, tracker.Options{})

	rec := ts.do(t, http.MethodPost, "/api/imports/upload?filename=march.csv", testCSV)
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())

	var resp map[string]string
	decode(t, rec, &resp)
	assert.True(t, strings.HasPrefix(resp["gcs_uri"], "gs://statements/imports/2"))
	assert.True(t, strings.HasSuffix(resp["gcs_uri"], "-march.csv"))
	assert.Equal(t, testCSV, ts.storage.uploaded[resp["gcs_uri"]])

	job, err := ts.jobs.GetJob(context.Background(), resp["job_id"])
	require.NoError(t, err)
	assert.Equal(t, jobs.JobStatusPending, job.Status)
	assert.Equal(t, "march.csv", job.Filename[strings.LastIndex(job.Filename, "-")+1:])

	rec = ts.do(t, http.MethodGet, "/api/jobs/"+resp["job_id"], "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/jobs?gcs_uri="+resp["gcs_uri"], "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Count int `json:"count"`
	}
	decode(t, rec, &list)
	assert.Equal(t, 1, list.Count)
}

func TestUpload_StorageFailure(t *testing.T) {
	ts := newTestServer(t, tracker.Options{})
	ts.storage.err = errors.New("bucket gone")

	rec := ts.do(t, http.MethodPost, "/api/imports/upload", testCSV)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Failed to upload file")
}

func TestEnqueueImport(t *testing.T) {
	ts := newTestServer(t, tracker.Options{})

	rec := ts.do(t, http.MethodPost, "/api/imports/jobs", `{"gcs_uri":"gs://statements/exports/april.csv"}`)
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())

	rec = ts.do(t, http.MethodPost, "/api/imports/jobs", `{"gcs_uri":"s3://nope"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(t, http.MethodPost, "/api/imports/jobs", `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetJob_NotFound(t *testing.T) {
	ts := newTestServer(t, tracker.Options{})

	rec := ts.do(t, http.MethodGet, "/api/jobs/missing", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListJobs_Validation(t *testing.T) {
	ts := newTestServer(t, tracker.Options{})

	tests := []struct {
		query string
		want  int
	}{
		{"?status=pending", http.StatusOK},
		{"?status=done", http.StatusBadRequest},
		{"?limit=0", http.StatusBadRequest},
		{"?limit=abc", http.StatusBadRequest},
		{"?offset=-1", http.StatusBadRequest},
		{"?limit=1000&offset=2", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			rec := ts.do(t, http.MethodGet, "/api/jobs"+tt.query, "")
			assert.Equal(t, tt.want, rec.Code)
		})
	}

	rec := ts.do(t, http.MethodGet, "/api/jobs?limit=1000", "")
	var page struct {
		Limit int `json:"limit"`
	}
	decode(t, rec, &page)
	assert.Equal(t, 200, page.Limit)
}

func TestMonths(t *testing.T) {
	ts := newTestServer(t, tracker.Options{})
	ts.importCSV(t)

	rec := ts.do(t, http.MethodGet, "/api/months", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Months []monthListing `json:"months"`
	}
	decode(t, rec, &list)
	require.Len(t, list.Months, 3)
	assert.Equal(t, "2024-03", list.Months[0].Month)
	assert.InDelta(t, 2850, list.Months[0].NetChange, 0.001)

	rec = ts.do(t, http.MethodGet, "/api/months/2024-02", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var group domain.MonthGroup
	decode(t, rec, &group)
	assert.Len(t, group.Transactions, 2)

	rec = ts.do(t, http.MethodGet, "/api/months/2023-12", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/months/march", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCharts(t *testing.T) {
	ts := newTestServer(t, tracker.Options{})
	ts.importCSV(t)

	rec := ts.do(t, http.MethodGet, "/api/charts/trend.png", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "\x89PNG"))
}

func TestBudgets(t *testing.T) {
	ts := newTestServer(t, tracker.Options{})

	rec := ts.do(t, http.MethodPut, "/api/budgets", `{"category":"Groceries","amount":400,"month":"2024-03"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = ts.do(t, http.MethodGet, "/api/budgets", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Budgets []domain.Budget `json:"budgets"`
	}
	decode(t, rec, &list)
	require.Len(t, list.Budgets, 1)
	assert.Equal(t, "Groceries", list.Budgets[0].Category)

	rec = ts.do(t, http.MethodPut, "/api/budgets", `{"category":"","amount":400}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(t, http.MethodDelete, "/api/budgets?category=Groceries&month=2024-03", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = ts.do(t, http.MethodDelete, "/api/budgets?category=Groceries&month=2024-03", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBudgetSuggestions(t *testing.T) {
	ts := newTestServer(t, tracker.Options{})

	rec := ts.do(t, http.MethodGet, "/api/budget-suggestions", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	ts.importCSV(t)

	rec = ts.do(t, http.MethodGet, "/api/budget-suggestions", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var plan domain.BudgetPlan
	decode(t, rec, &plan)
	assert.Equal(t, "2024-04", plan.NextMonth)
	assert.NotEmpty(t, plan.Suggestions)

	rec = ts.do(t, http.MethodPost, "/api/budget-suggestions", "")
	require.Equal(t, http.StatusCreated, rec.Code)
	budgets, err := ts.svc.Budgets(context.Background(), "2024-04")
	require.NoError(t, err)
	assert.Len(t, budgets, len(plan.Suggestions))
}

func TestSettings(t *testing.T) {
	ts := newTestServer(t, tracker.Options{})

	rec := ts.do(t, http.MethodPut, "/api/settings", `{"monthly_income":4200,"budget_cycle_start":1}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = ts.do(t, http.MethodGet, "/api/settings", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var settings domain.Settings
	decode(t, rec, &settings)
	assert.InDelta(t, 4200, settings.MonthlyIncome, 0.001)
	assert.Equal(t, "u1", settings.UserID)

	rec = ts.do(t, http.MethodPut, "/api/settings", `{"monthly_income":-1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSafeToSpend(t *testing.T) {
	ts := newTestServer(t, tracker.Options{})
	ts.importCSV(t)

	rec := ts.do(t, http.MethodGet, "/api/safe-to-spend", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = ts.do(t, http.MethodGet, "/api/safe-to-spend/advanced", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "Pro tier required")
}

func TestAdvancedSafeToSpend_Pro(t *testing.T) {
	ts := newTestServer(t, tracker.Options{ProEnabled: true})
	ts.importCSV(t)

	rec := ts.do(t, http.MethodGet, "/api/safe-to-spend/advanced", "")

	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestRecurring(t *testing.T) {
	ts := newTestServer(t, tracker.Options{})
	ts.importCSV(t)

	rec := ts.do(t, http.MethodPost, "/api/recurring", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var detected struct {
		Recurring []domain.RecurringExpense `json:"recurring"`
	}
	decode(t, rec, &detected)
	require.NotEmpty(t, detected.Recurring)

	rec = ts.do(t, http.MethodGet, "/api/recurring", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var stored struct {
		Count int `json:"count"`
	}
	decode(t, rec, &stored)
	assert.Equal(t, len(detected.Recurring), stored.Count)
}

func TestAlerts(t *testing.T) {
	ts := newTestServer(t, tracker.Options{})
	ts.importCSV(t)
	require.NoError(t, ts.svc.SaveBudget(context.Background(), domain.Budget{Category: "Food", Amount: 100, Month: "2024-03"}))

	rec := ts.do(t, http.MethodPost, "/api/alerts", "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = ts.do(t, http.MethodGet, "/api/alerts", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Alerts []domain.Alert `json:"alerts"`
	}
	decode(t, rec, &list)
	require.NotEmpty(t, list.Alerts)

	rec = ts.do(t, http.MethodPost, "/api/alerts/"+list.Alerts[0].ID+"/read", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = ts.do(t, http.MethodPost, "/api/alerts/missing/read", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = ts.do(t, http.MethodPost, "/api/alerts/abc", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTrends(t *testing.T) {
	ts := newTestServer(t, tracker.Options{})
	ts.importCSV(t)

	rec := ts.do(t, http.MethodGet, "/api/trends?month=2024-03", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = ts.do(t, http.MethodGet, "/api/trends?month=2023-01", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMerchants(t *testing.T) {
	ts := newTestServer(t, tracker.Options{})

	rec := ts.do(t, http.MethodPost, "/api/merchants", `{"description":"Joe's Tacos #12","category":"Dining"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var learned map[string]string
	decode(t, rec, &learned)
	assert.Equal(t, "JOES TACOS 12", learned["merchant_name"])

	rec = ts.do(t, http.MethodGet, "/api/merchants?description=JOES+TACOS+12+AUSTIN", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var mapping domain.MerchantMapping
	decode(t, rec, &mapping)
	assert.Equal(t, "Dining", mapping.Category)

	rec = ts.do(t, http.MethodGet, "/api/merchants?description=UNKNOWN", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/merchants", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"count":1`)

	rec = ts.do(t, http.MethodPost, "/api/merchants", `{"description":"!!!","category":"Dining"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGoals(t *testing.T) {
	ts := newTestServer(t, tracker.Options{})
	ts.importCSV(t)

	rec := ts.do(t, http.MethodGet, "/api/goals/plan", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = ts.do(t, http.MethodPost, "/api/goals", `{"name":"Emergency fund","target_amount":6000,"current_amount":1000,"monthly_contribution":500,"status":"active"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created map[string]string
	decode(t, rec, &created)
	require.NotEmpty(t, created["id"])

	rec = ts.do(t, http.MethodGet, "/api/goals/"+created["id"], "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var report tracker.GoalReport
	decode(t, rec, &report)
	assert.Equal(t, "Emergency fund", report.Goal.Name)

	rec = ts.do(t, http.MethodGet, "/api/goals/plan", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = ts.do(t, http.MethodGet, "/api/goals", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"count":1`)

	rec = ts.do(t, http.MethodGet, "/api/goals/missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = ts.do(t, http.MethodPost, "/api/goals", `{"name":"","target_amount":10}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestJobsNotConfigured(t *testing.T) {
	s := inmemory.NewStore()
	svc := tracker.NewService(s, s, tracker.Options{})
	h := NewHandler(NewRouter(svc, UploadDeps{}, logger.New()), logger.New())

	for _, path := range []string{"/api/jobs", "/api/jobs/abc"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code, path)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/imports/upload", strings.NewReader(testCSV))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
