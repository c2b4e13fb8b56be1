package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/brandforge/internal/common"
	"github.com/ternarybob/brandforge/internal/interfaces"
	"github.com/ternarybob/brandforge/internal/models"
	"github.com/ternarybob/brandforge/internal/pipeline"
)

// JobHandler exposes the submit/query/download surface of the pipeline
type JobHandler struct {
	jobs    interfaces.JobStorage
	results interfaces.ResultStorage
	pool    *pipeline.WorkerPool
	logger  arbor.ILogger
}

func NewJobHandler(jobs interfaces.JobStorage, results interfaces.ResultStorage, pool *pipeline.WorkerPool, logger arbor.ILogger) *JobHandler {
	return &JobHandler{
		jobs:    jobs,
		results: results,
		pool:    pool,
		logger:  logger,
	}
}

type submitRequest struct {
	URL string `json:"url"`
}

// SubmitHandler validates the URL, persists a pending job and queues
// it, returning the job id before any stage runs
func (h *JobHandler) SubmitHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Request body must be JSON with a 'url' field")
		return
	}

	normalized, err := common.NormalizeTargetURL(req.URL)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid website URL: "+err.Error())
		return
	}

	job := models.NewJob(uuid.New().String(), normalized)
	if err := h.jobs.CreateJob(r.Context(), job); err != nil {
		h.logger.Error().Err(err).Str("url", normalized).Msg("Failed to create job")
		WriteError(w, http.StatusInternalServerError, "Could not create job")
		return
	}

	if err := h.pool.Enqueue(job.ID); err != nil {
		h.logger.Warn().Err(err).Str("job_id", job.ID).Msg("Queue rejected job")
		if markErr := h.jobs.MarkFailed(r.Context(), job.ID, "The service is at capacity. Please retry shortly."); markErr != nil {
			h.logger.Error().Err(markErr).Str("job_id", job.ID).Msg("Could not fail rejected job")
		}
		WriteError(w, http.StatusServiceUnavailable, "The service is at capacity, try again shortly")
		return
	}

	h.logger.Info().Str("job_id", job.ID).Str("url", normalized).Msg("Job submitted")
	WriteJSON(w, http.StatusAccepted, jobResponse(job))
}

// StatusHandler returns the current job snapshot; safe to poll
func (h *JobHandler) StatusHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	jobID, rest := splitJobPath(r.URL.Path)
	if jobID == "" || rest != "" {
		WriteError(w, http.StatusNotFound, "Unknown job route")
		return
	}

	job, err := h.jobs.GetJob(r.Context(), jobID)
	if err != nil {
		WriteError(w, http.StatusNotFound, "Job not found")
		return
	}
	WriteJSON(w, http.StatusOK, jobResponse(job))
}

// DownloadHandler streams the rendered document of a completed job
func (h *JobHandler) DownloadHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	jobID, rest := splitJobPath(r.URL.Path)
	if jobID == "" || rest != "pdf" {
		WriteError(w, http.StatusNotFound, "Unknown job route")
		return
	}

	job, err := h.jobs.GetJob(r.Context(), jobID)
	if err != nil {
		WriteError(w, http.StatusNotFound, "Job not found")
		return
	}
	if job.Status != models.JobStatusCompleted {
		WriteError(w, http.StatusConflict, "Result not ready: job status is "+string(job.Status))
		return
	}

	data, err := h.results.Open(job.ResultHandle)
	if err != nil {
		h.logger.Warn().Err(err).Str("job_id", jobID).Msg("Stored document unavailable")
		WriteError(w, http.StatusGone, "The document has expired, submit the URL again to regenerate it")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+job.ResultHandle+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Write(data)
}

// ListHandler returns recent jobs, optionally filtered by status
func (h *JobHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	opts := interfaces.JobListOptions{
		Status: r.URL.Query().Get("status"),
		Limit:  50,
	}
	if limit := r.URL.Query().Get("limit"); limit != "" {
		if n, err := strconv.Atoi(limit); err == nil && n > 0 && n <= 500 {
			opts.Limit = n
		}
	}

	jobs, err := h.jobs.ListJobs(r.Context(), opts)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to list jobs")
		WriteError(w, http.StatusInternalServerError, "Could not list jobs")
		return
	}

	out := make([]map[string]interface{}, len(jobs))
	for i, job := range jobs {
		out[i] = jobResponse(job)
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{"jobs": out, "count": len(out)})
}

// splitJobPath parses /api/jobs/{id}[/{action}]
func splitJobPath(path string) (jobID, rest string) {
	trimmed := strings.TrimPrefix(path, "/api/jobs/")
	if trimmed == path {
		return "", ""
	}
	jobID, rest, _ = strings.Cut(strings.Trim(trimmed, "/"), "/")
	return jobID, rest
}

// jobResponse is the wire snapshot of a job. Internal error detail
// never leaks; ErrorMessage is already user-safe.
func jobResponse(job *models.Job) map[string]interface{} {
	resp := map[string]interface{}{
		"id":               job.ID,
		"url":              job.URL,
		"status":           job.Status,
		"progress_percent": job.ProgressPercent,
		"current_step":     job.CurrentStep,
		"created_at":       job.CreatedAt,
	}
	if job.ErrorMessage != "" {
		resp["error_message"] = job.ErrorMessage
	}
	if job.ResultHandle != "" {
		resp["result_handle"] = job.ResultHandle
	}
	if job.CompletedAt != nil {
		resp["completed_at"] = job.CompletedAt
	}
	return resp
}
