package handlers

import (
	"bytes"
	"net/http"
	"strings"
	"time"

	"github.com/dvloznov/spendwise/internal/api/middleware"
	"github.com/dvloznov/spendwise/internal/gcs"
	"github.com/dvloznov/spendwise/internal/gcsuploader"
	"github.com/dvloznov/spendwise/internal/jobs"
	"github.com/rs/zerolog"
)

// ImportsHandler handles CSV import endpoints.
type ImportsHandler struct {
	importer  Importer
	storage   gcs.StorageService
	publisher jobs.Publisher
	bucket    string
	log       zerolog.Logger
}

// NewImportsHandler creates a new imports handler. storage and publisher may
// be nil, which disables the upload and job endpoints.
func NewImportsHandler(importer Importer, storage gcs.StorageService, publisher jobs.Publisher, bucket string, log zerolog.Logger) *ImportsHandler {
	return &ImportsHandler{
		importer:  importer,
		storage:   storage,
		publisher: publisher,
		bucket:    bucket,
		log:       log,
	}
}

// Import handles POST /api/imports with the CSV export as the body.
func (h *ImportsHandler) Import(w http.ResponseWriter, r *http.Request) {
	content, ok := readBody(w, r)
	if !ok {
		return
	}
	source := r.URL.Query().Get("source")
	if source == "" {
		source = "upload.csv"
	}

	state, err := h.importer.ImportCSV(r.Context(), source, content)
	if err != nil {
		writeServiceError(w, h.log, err, "import CSV")
		return
	}

	middleware.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"import_run_id": state.ImportRunID,
		"stats":         state.Stats,
		"relabeled":     state.Relabeled,
		"suggestions":   state.Suggestions,
	})
}

// ListRuns handles GET /api/imports
func (h *ImportsHandler) ListRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := h.importer.ImportRuns(r.Context())
	if err != nil {
		writeServiceError(w, h.log, err, "list imports")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"imports": runs,
		"count":   len(runs),
	})
}

// Upload handles POST /api/imports/upload: the CSV body is stored in Cloud
// Storage and an import job is enqueued.
func (h *ImportsHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if h.storage == nil || h.publisher == nil || h.bucket == "" {
		middleware.WriteError(w, http.StatusServiceUnavailable, "Uploads are not configured")
		return
	}
	content, ok := readBody(w, r)
	if !ok {
		return
	}

	filename := r.URL.Query().Get("filename")
	objectName := gcsuploader.ObjectName(filename, time.Now())
	gcsURI, err := h.storage.UploadCSV(r.Context(), h.bucket, objectName, bytes.NewReader(content))
	if err != nil {
		h.log.Error().Err(err).Str("object", objectName).Msg("Failed to upload CSV")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to upload file")
		return
	}

	h.enqueue(w, r, gcsURI, h.storage.ExtractFilenameFromGCSURI(gcsURI))
}

// EnqueueImport handles POST /api/imports/jobs with {"gcs_uri": "..."}.
func (h *ImportsHandler) EnqueueImport(w http.ResponseWriter, r *http.Request) {
	if h.publisher == nil {
		middleware.WriteError(w, http.StatusServiceUnavailable, "Import jobs are not configured")
		return
	}
	var req struct {
		GCSURI string `json:"gcs_uri"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	loc, err := gcs.ParseURI(strings.TrimSpace(req.GCSURI))
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "gcs_uri must look like gs://bucket/object")
		return
	}

	h.enqueue(w, r, loc.String(), loc.Filename())
}

func (h *ImportsHandler) enqueue(w http.ResponseWriter, r *http.Request, gcsURI, filename string) {
	job := &jobs.ImportCSVJob{GCSURI: gcsURI, Filename: filename}
	if err := h.publisher.PublishImportCSV(r.Context(), job); err != nil {
		h.log.Error().Err(err).Str("gcs_uri", gcsURI).Msg("Failed to enqueue import job")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to enqueue import job")
		return
	}

	h.log.Info().Str("job_id", job.JobID).Str("gcs_uri", gcsURI).Msg("Import job enqueued")

	middleware.WriteJSON(w, http.StatusAccepted, map[string]string{
		"job_id":  job.JobID,
		"gcs_uri": gcsURI,
		"status":  string(job.Status),
	})
}
