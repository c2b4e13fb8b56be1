package pipeline

import (
	"context"
	"fmt"
	"sync"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/brandforge/internal/common"
	"github.com/ternarybob/brandforge/internal/interfaces"
	"github.com/ternarybob/brandforge/internal/models"
)

// WorkerPool dispatches queued jobs to a fixed set of workers, one
// job per worker at a time. Stages inside a job stay strictly
// sequential; concurrency exists only across jobs.
type WorkerPool struct {
	orchestrator *Orchestrator
	jobs         interfaces.JobStorage
	queue        chan string
	workers      int
	logger       arbor.ILogger

	wg     sync.WaitGroup
	cancel context.CancelFunc
	once   sync.Once

	mu       sync.RWMutex
	stopping bool
}

func NewWorkerPool(orchestrator *Orchestrator, jobs interfaces.JobStorage, config *common.PipelineConfig, logger arbor.ILogger) *WorkerPool {
	workers := config.Workers
	if workers <= 0 {
		workers = 1
	}
	queueSize := config.QueueSize
	if queueSize <= 0 {
		queueSize = workers * 4
	}

	return &WorkerPool{
		orchestrator: orchestrator,
		jobs:         jobs,
		queue:        make(chan string, queueSize),
		workers:      workers,
		logger:       logger,
	}
}

// Start launches the workers and fails over jobs orphaned by a crash:
// anything non-terminal that is not pending cannot be resumed
// mid-stage and is marked failed; pending jobs are re-queued.
func (p *WorkerPool) Start(ctx context.Context) error {
	ctx, p.cancel = context.WithCancel(ctx)

	if err := p.recover(ctx); err != nil {
		return fmt.Errorf("startup recovery failed: %w", err)
	}

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(ctx, i)
	}

	p.logger.Info().Int("workers", p.workers).Int("queue_size", cap(p.queue)).Msg("Worker pool started")
	return nil
}

func (p *WorkerPool) recover(ctx context.Context) error {
	active, err := p.jobs.ListActive(ctx)
	if err != nil {
		return err
	}

	for _, job := range active {
		if job.Status.IsTerminal() {
			continue
		}
		if job.Status == models.JobStatusPending {
			// Never started, safe to re-dispatch
			if err := p.Enqueue(job.ID); err != nil {
				p.logger.Warn().Err(err).Str("job_id", job.ID).Msg("Could not re-queue pending job")
			}
			continue
		}

		p.logger.Warn().
			Str("job_id", job.ID).
			Str("status", string(job.Status)).
			Msg("Marking orphaned in-flight job as failed")
		if err := p.jobs.MarkFailed(ctx, job.ID,
			"Processing was interrupted by a service restart. Please retry with a new submission."); err != nil {
			p.logger.Error().Err(err).Str("job_id", job.ID).Msg("Could not fail orphaned job")
		}
	}
	return nil
}

// Enqueue hands a created job to the pool. A full queue is a client
// error surfaced at submission time, not a silent drop.
func (p *WorkerPool) Enqueue(jobID string) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.stopping {
		return fmt.Errorf("worker pool is shutting down")
	}
	select {
	case p.queue <- jobID:
		return nil
	default:
		return fmt.Errorf("job queue is full")
	}
}

func (p *WorkerPool) worker(ctx context.Context, id int) {
	defer p.wg.Done()

	for jobID := range p.queue {
		// Jobs still queued at shutdown stay pending; startup
		// recovery re-queues them on the next run
		p.mu.RLock()
		stopping := p.stopping
		p.mu.RUnlock()
		if stopping {
			return
		}
		p.logger.Debug().Int("worker", id).Str("job_id", jobID).Msg("Worker picked up job")
		p.orchestrator.Execute(ctx, jobID)
	}
}

// Stop drains the pool: no new jobs are accepted or started, and
// in-flight jobs run to completion before the context is cancelled
func (p *WorkerPool) Stop() {
	p.once.Do(func() {
		p.mu.Lock()
		p.stopping = true
		close(p.queue)
		p.mu.Unlock()
	})
	p.wg.Wait()
	if p.cancel != nil {
		p.cancel()
	}
	p.logger.Info().Msg("Worker pool stopped")
}
