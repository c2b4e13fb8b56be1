package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobStatusProgress(t *testing.T) {
	tests := []struct {
		status   JobStatus
		progress int
	}{
		{JobStatusPending, 0},
		{JobStatusScraping, 10},
		{JobStatusExtractingColors, 30},
		{JobStatusExtractingTypography, 45},
		{JobStatusExtractingLogo, 55},
		{JobStatusGeneratingContent, 70},
		{JobStatusBuildingPDF, 90},
		{JobStatusCompleted, 100},
		{JobStatusFailed, 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.progress, tt.status.Progress(), "status %s", tt.status)
	}
}

func TestJobStatusProgressMonotonic(t *testing.T) {
	prev := -1
	for _, status := range stageOrder {
		p := status.Progress()
		assert.Greater(t, p, prev, "progress must increase at %s", status)
		prev = p
	}
	assert.Equal(t, 100, prev)
}

func TestCanTransitionTo_ForwardOnly(t *testing.T) {
	for i, from := range stageOrder {
		for j, to := range stageOrder {
			legal := from.CanTransitionTo(to)
			if from == JobStatusCompleted {
				assert.False(t, legal, "%s -> %s", from, to)
				continue
			}
			if j == i+1 {
				assert.True(t, legal, "%s -> %s should be legal", from, to)
			} else {
				assert.False(t, legal, "%s -> %s should be illegal", from, to)
			}
		}
	}
}

func TestCanTransitionTo_Failed(t *testing.T) {
	for _, from := range stageOrder {
		if from == JobStatusCompleted {
			continue
		}
		assert.True(t, from.CanTransitionTo(JobStatusFailed), "%s -> failed", from)
	}

	// Terminal statuses are immutable
	assert.False(t, JobStatusCompleted.CanTransitionTo(JobStatusFailed))
	assert.False(t, JobStatusFailed.CanTransitionTo(JobStatusScraping))
	assert.False(t, JobStatusFailed.CanTransitionTo(JobStatusFailed))
}

func TestCanTransitionTo_NoSkipping(t *testing.T) {
	assert.False(t, JobStatusPending.CanTransitionTo(JobStatusExtractingColors))
	assert.False(t, JobStatusScraping.CanTransitionTo(JobStatusCompleted))
	assert.False(t, JobStatusExtractingLogo.CanTransitionTo(JobStatusScraping))
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, JobStatusCompleted.IsTerminal())
	assert.True(t, JobStatusFailed.IsTerminal())
	assert.False(t, JobStatusPending.IsTerminal())
	assert.False(t, JobStatusBuildingPDF.IsTerminal())
}

func TestNewJob(t *testing.T) {
	job := NewJob("job-1", "https://example.com")

	require.NotNil(t, job)
	assert.Equal(t, "job-1", job.ID)
	assert.Equal(t, "https://example.com", job.URL)
	assert.Equal(t, JobStatusPending, job.Status)
	assert.Equal(t, 0, job.ProgressPercent)
	assert.NotEmpty(t, job.CurrentStep)
	assert.False(t, job.CreatedAt.IsZero())
	assert.Nil(t, job.StartedAt)
	assert.Nil(t, job.CompletedAt)
}
