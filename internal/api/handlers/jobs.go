package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/dvloznov/spendwise/internal/api/middleware"
	"github.com/dvloznov/spendwise/internal/jobs"
	"github.com/rs/zerolog"
)

const (
	defaultJobsPage = 50
	maxJobsPage     = 200
)

// JobsHandler reports the progress of queued CSV imports.
type JobsHandler struct {
	store jobs.JobStore
	log   zerolog.Logger
}

// NewJobsHandler creates a new jobs handler.
func NewJobsHandler(store jobs.JobStore, log zerolog.Logger) *JobsHandler {
	return &JobsHandler{
		store: store,
		log:   log,
	}
}

// GetJob handles GET /api/jobs/{id}
func (h *JobsHandler) GetJob(w http.ResponseWriter, r *http.Request, jobID string) {
	job, err := h.store.GetJob(r.Context(), jobID)
	if err != nil {
		writeServiceError(w, h.log, err, "get job")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, job)
}

// ListJobs handles GET /api/jobs. Query parameters: gcs_uri, import_run_id,
// status, limit (at most maxJobsPage) and offset.
func (h *JobsHandler) ListJobs(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := jobs.JobFilter{
		GCSURI:      query.Get("gcs_uri"),
		ImportRunID: query.Get("import_run_id"),
		Status:      jobs.JobStatus(query.Get("status")),
	}
	if filter.Status != "" && !filter.Status.Valid() {
		middleware.WriteError(w, http.StatusBadRequest, "Unknown job status: "+string(filter.Status))
		return
	}

	var err error
	if filter.Limit, err = pageParam(query.Get("limit"), defaultJobsPage); err != nil || filter.Limit == 0 {
		middleware.WriteError(w, http.StatusBadRequest, "limit must be a positive integer")
		return
	}
	if filter.Limit > maxJobsPage {
		filter.Limit = maxJobsPage
	}
	if filter.Offset, err = pageParam(query.Get("offset"), 0); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "offset must be a non-negative integer")
		return
	}

	jobsList, err := h.store.ListJobs(r.Context(), filter)
	if err != nil {
		writeServiceError(w, h.log, err, "list jobs")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"jobs":   jobsList,
		"count":  len(jobsList),
		"limit":  filter.Limit,
		"offset": filter.Offset,
	})
}

// pageParam parses a non-negative integer query value, returning def when
// the value is absent.
func pageParam(raw string, def int) (int, error) {
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("negative value %d", n)
	}
	return n, nil
}
