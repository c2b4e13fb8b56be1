package badger

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/brandforge/internal/interfaces"
	"github.com/ternarybob/brandforge/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// JobStorage implements the JobStorage interface for Badger.
// A single mutex serializes writers so read-modify-write updates and
// transitions are atomic relative to each other.
type JobStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
	mu     sync.Mutex
}

// NewJobStorage creates a new JobStorage instance
func NewJobStorage(db *BadgerDB, logger arbor.ILogger) interfaces.JobStorage {
	return &JobStorage{
		db:     db,
		logger: logger,
	}
}

func (s *JobStorage) CreateJob(ctx context.Context, job *models.Job) error {
	if job.ID == "" {
		return fmt.Errorf("job ID is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.db.Store().Insert(job.ID, job); err != nil {
		if err == badgerhold.ErrKeyExists {
			return fmt.Errorf("job already exists: %s", job.ID)
		}
		return fmt.Errorf("failed to create job: %w", err)
	}
	return nil
}

func (s *JobStorage) GetJob(ctx context.Context, id string) (*models.Job, error) {
	var job models.Job
	if err := s.db.Store().Get(id, &job); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("job not found: %s", id)
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return &job, nil
}

func (s *JobStorage) ListJobs(ctx context.Context, opts interfaces.JobListOptions) ([]*models.Job, error) {
	query := badgerhold.Where("ID").Ne("")

	if opts.Status != "" {
		query = query.And("Status").Eq(models.JobStatus(opts.Status))
	}
	if opts.Limit > 0 {
		query = query.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		query = query.Skip(opts.Offset)
	}
	query = query.SortBy("CreatedAt").Reverse()

	var jobs []models.Job
	if err := s.db.Store().Find(&jobs, query); err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}

	result := make([]*models.Job, len(jobs))
	for i := range jobs {
		result[i] = &jobs[i]
	}
	return result, nil
}

func (s *JobStorage) UpdateJob(ctx context.Context, id string, mutate func(*models.Job) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updateLocked(id, mutate)
}

func (s *JobStorage) updateLocked(id string, mutate func(*models.Job) error) error {
	var job models.Job
	if err := s.db.Store().Get(id, &job); err != nil {
		if err == badgerhold.ErrNotFound {
			return fmt.Errorf("job not found: %s", id)
		}
		return fmt.Errorf("failed to get job: %w", err)
	}

	if err := mutate(&job); err != nil {
		return err
	}

	if err := s.db.Store().Update(id, &job); err != nil {
		return fmt.Errorf("failed to update job: %w", err)
	}
	return nil
}

func (s *JobStorage) Transition(ctx context.Context, id string, status models.JobStatus, step string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.updateLocked(id, func(job *models.Job) error {
		if !job.CanTransitionTo(status) {
			return fmt.Errorf("illegal transition %s -> %s for job %s", job.Status, status, id)
		}

		now := time.Now()
		if job.StartedAt == nil && status != models.JobStatusPending {
			job.StartedAt = &now
		}

		job.Status = status
		job.ProgressPercent = status.Progress()
		job.CurrentStep = step

		if status == models.JobStatusCompleted {
			job.CompletedAt = &now
		}

		s.logger.Debug().
			Str("job_id", id).
			Str("status", string(status)).
			Int("progress", job.ProgressPercent).
			Msg("Job transitioned")
		return nil
	})
}

func (s *JobStorage) MarkFailed(ctx context.Context, id string, msg string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.updateLocked(id, func(job *models.Job) error {
		if job.IsTerminal() {
			// Failure after completion (or a second failure) is ignored
			return nil
		}

		now := time.Now()
		job.Status = models.JobStatusFailed
		job.ErrorMessage = msg
		job.CurrentStep = "Failed"
		job.CompletedAt = &now
		// ProgressPercent deliberately untouched: it freezes at the
		// last stage reached before the failure

		s.logger.Warn().
			Str("job_id", id).
			Str("error", msg).
			Msg("Job failed")
		return nil
	})
}

func (s *JobStorage) ListActive(ctx context.Context) ([]*models.Job, error) {
	var jobs []models.Job
	query := badgerhold.Where("Status").Ne(models.JobStatusCompleted).
		And("Status").Ne(models.JobStatusFailed)
	if err := s.db.Store().Find(&jobs, query); err != nil {
		return nil, fmt.Errorf("failed to list active jobs: %w", err)
	}

	result := make([]*models.Job, len(jobs))
	for i := range jobs {
		result[i] = &jobs[i]
	}
	return result, nil
}

func (s *JobStorage) DeleteJob(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.db.Store().Delete(id, &models.Job{}); err != nil {
		if err == badgerhold.ErrNotFound {
			return fmt.Errorf("job not found: %s", id)
		}
		return fmt.Errorf("failed to delete job: %w", err)
	}
	return nil
}

func (s *JobStorage) CountJobs(ctx context.Context) (int, error) {
	count, err := s.db.Store().Count(&models.Job{}, badgerhold.Where("ID").Ne(""))
	if err != nil {
		return 0, fmt.Errorf("failed to count jobs: %w", err)
	}
	return int(count), nil
}

func (s *JobStorage) Close() error {
	return s.db.Close()
}
