package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/brandforge/internal/common"
	"github.com/ternarybob/brandforge/internal/models"
)

func poolConfig(workers, queueSize int) *common.PipelineConfig {
	return &common.PipelineConfig{
		Workers:      workers,
		QueueSize:    queueSize,
		StageTimeout: 5 * time.Second,
		JobTimeout:   30 * time.Second,
	}
}

func waitForStatus(t *testing.T, jobs *memJobs, id string, want models.JobStatus) *models.Job {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		job, err := jobs.GetJob(context.Background(), id)
		require.NoError(t, err)
		if job.Status == want {
			return job
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("job %s never reached status %s", id, want)
	return nil
}

func TestWorkerPool_ProcessesEnqueuedJob(t *testing.T) {
	f := newFixture()
	pool := NewWorkerPool(f.orchestrator(), f.jobs, poolConfig(2, 8), arbor.NewLogger())

	ctx := context.Background()
	require.NoError(t, f.jobs.CreateJob(ctx, models.NewJob("job-1", "https://acme.com")))

	require.NoError(t, pool.Start(ctx))
	defer pool.Stop()

	require.NoError(t, pool.Enqueue("job-1"))

	job := waitForStatus(t, f.jobs, "job-1", models.JobStatusCompleted)
	assert.Equal(t, 100, job.ProgressPercent)
}

func TestWorkerPool_FullQueueRejectsEnqueue(t *testing.T) {
	f := newFixture()
	pool := NewWorkerPool(f.orchestrator(), f.jobs, poolConfig(1, 1), arbor.NewLogger())
	// Pool not started: nothing drains the queue

	require.NoError(t, pool.Enqueue("job-1"))
	assert.Error(t, pool.Enqueue("job-2"))
}

func TestWorkerPool_RecoverRequeuesPendingAndFailsInFlight(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	// A pending job that never started and a job caught mid-stage by a
	// restart
	require.NoError(t, f.jobs.CreateJob(ctx, models.NewJob("pending-job", "https://acme.com")))
	require.NoError(t, f.jobs.CreateJob(ctx, models.NewJob("inflight-job", "https://acme.com")))
	require.NoError(t, f.jobs.Transition(ctx, "inflight-job", models.JobStatusScraping, "Fetching website pages"))

	pool := NewWorkerPool(f.orchestrator(), f.jobs, poolConfig(1, 8), arbor.NewLogger())
	require.NoError(t, pool.Start(ctx))
	defer pool.Stop()

	// Pending job is re-dispatched and runs to completion
	waitForStatus(t, f.jobs, "pending-job", models.JobStatusCompleted)

	// The interrupted job cannot be resumed mid-stage
	interrupted := waitForStatus(t, f.jobs, "inflight-job", models.JobStatusFailed)
	assert.Contains(t, interrupted.ErrorMessage, "service restart")
	assert.Equal(t, 10, interrupted.ProgressPercent, "progress frozen where the restart caught it")
}

func TestWorkerPool_EnqueueAfterStopRejected(t *testing.T) {
	f := newFixture()
	pool := NewWorkerPool(f.orchestrator(), f.jobs, poolConfig(1, 4), arbor.NewLogger())
	require.NoError(t, pool.Start(context.Background()))
	pool.Stop()

	err := pool.Enqueue("job-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "shutting down")
}

func TestWorkerPool_StopWaitsForInFlightJob(t *testing.T) {
	f := newFixture()
	f.scraper.delay = 100 * time.Millisecond
	pool := NewWorkerPool(f.orchestrator(), f.jobs, poolConfig(1, 4), arbor.NewLogger())

	ctx := context.Background()
	require.NoError(t, f.jobs.CreateJob(ctx, models.NewJob("job-1", "https://acme.com")))
	require.NoError(t, pool.Start(ctx))
	require.NoError(t, pool.Enqueue("job-1"))

	waitForStatus(t, f.jobs, "job-1", models.JobStatusScraping)
	pool.Stop()

	// Stop returns only after the running job finished its execution
	job, err := f.jobs.GetJob(ctx, "job-1")
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusCompleted, job.Status)
}

func TestWorkerPool_StopLeavesQueuedJobsPending(t *testing.T) {
	f := newFixture()
	f.scraper.delay = 100 * time.Millisecond
	pool := NewWorkerPool(f.orchestrator(), f.jobs, poolConfig(1, 4), arbor.NewLogger())

	ctx := context.Background()
	require.NoError(t, f.jobs.CreateJob(ctx, models.NewJob("job-1", "https://acme.com")))
	require.NoError(t, f.jobs.CreateJob(ctx, models.NewJob("job-2", "https://acme.com")))
	require.NoError(t, pool.Start(ctx))
	require.NoError(t, pool.Enqueue("job-1"))
	require.NoError(t, pool.Enqueue("job-2"))

	waitForStatus(t, f.jobs, "job-1", models.JobStatusScraping)
	pool.Stop()

	// The queued job never started; recovery re-queues it on restart
	queued, err := f.jobs.GetJob(ctx, "job-2")
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusPending, queued.Status)
}

func TestWorkerPool_StopIsIdempotent(t *testing.T) {
	f := newFixture()
	pool := NewWorkerPool(f.orchestrator(), f.jobs, poolConfig(1, 4), arbor.NewLogger())
	require.NoError(t, pool.Start(context.Background()))

	pool.Stop()
	pool.Stop()
}
