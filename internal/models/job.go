package models

import (
	"time"
)

// JobStatus represents the pipeline stage a job is in
type JobStatus string

const (
	JobStatusPending              JobStatus = "pending"
	JobStatusScraping             JobStatus = "scraping"
	JobStatusExtractingColors     JobStatus = "extracting_colors"
	JobStatusExtractingTypography JobStatus = "extracting_typography"
	JobStatusExtractingLogo       JobStatus = "extracting_logo"
	JobStatusGeneratingContent    JobStatus = "generating_content"
	JobStatusBuildingPDF          JobStatus = "building_pdf"
	JobStatusCompleted            JobStatus = "completed"
	JobStatusFailed               JobStatus = "failed"
)

// stageOrder is the fixed forward sequence of the pipeline. FAILED sits
// outside the sequence and is reachable from any non-terminal status.
var stageOrder = []JobStatus{
	JobStatusPending,
	JobStatusScraping,
	JobStatusExtractingColors,
	JobStatusExtractingTypography,
	JobStatusExtractingLogo,
	JobStatusGeneratingContent,
	JobStatusBuildingPDF,
	JobStatusCompleted,
}

// stageProgress maps each status to its progress checkpoint
var stageProgress = map[JobStatus]int{
	JobStatusPending:              0,
	JobStatusScraping:             10,
	JobStatusExtractingColors:     30,
	JobStatusExtractingTypography: 45,
	JobStatusExtractingLogo:       55,
	JobStatusGeneratingContent:    70,
	JobStatusBuildingPDF:          90,
	JobStatusCompleted:            100,
}

// Progress returns the progress percentage checkpoint for this status.
// FAILED has no checkpoint of its own; a failed job keeps the progress
// it reached before failing.
func (s JobStatus) Progress() int {
	return stageProgress[s]
}

// IsTerminal reports whether no further transition is allowed
func (s JobStatus) IsTerminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

// CanTransitionTo reports whether next is a legal transition from s.
// Forward stages are entered only from their immediate predecessor.
func (s JobStatus) CanTransitionTo(next JobStatus) bool {
	if s.IsTerminal() {
		return false
	}
	if next == JobStatusFailed {
		return true
	}
	for i, stage := range stageOrder {
		if stage == s {
			return i+1 < len(stageOrder) && stageOrder[i+1] == next
		}
	}
	return false
}

// Job is one tracked request to convert a URL into a brand document.
// The orchestrator is the sole writer; all other callers read snapshots.
type Job struct {
	ID              string     `json:"job_id" badgerhold:"key"`
	URL             string     `json:"url"`
	Status          JobStatus  `json:"status"`
	ProgressPercent int        `json:"progress_percent"`
	CurrentStep     string     `json:"current_step"`
	ErrorMessage    string     `json:"error_message,omitempty"`
	ResultHandle    string     `json:"result_handle,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	StartedAt       *time.Time `json:"started_at,omitempty"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
}

// CanTransitionTo reports whether the job may move to next
func (j *Job) CanTransitionTo(next JobStatus) bool {
	return j.Status.CanTransitionTo(next)
}

// IsTerminal reports whether the job reached a final status
func (j *Job) IsTerminal() bool {
	return j.Status.IsTerminal()
}

// NewJob creates a pending job for the given normalized URL
func NewJob(id, url string) *Job {
	return &Job{
		ID:              id,
		URL:             url,
		Status:          JobStatusPending,
		ProgressPercent: 0,
		CurrentStep:     "Queued for processing",
		CreatedAt:       time.Now().UTC(),
	}
}
