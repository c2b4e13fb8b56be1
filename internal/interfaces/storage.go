package interfaces

import (
	"context"

	"github.com/ternarybob/brandforge/internal/models"
)

// JobListOptions for listing jobs
type JobListOptions struct {
	Status string // filter by job status, empty = all
	Limit  int
	Offset int
}

// JobStorage - interface for job persistence. Update and transition
// operations are atomic read-modify-writes; implementations must
// serialize concurrent writers on the same job.
type JobStorage interface {
	CreateJob(ctx context.Context, job *models.Job) error
	GetJob(ctx context.Context, id string) (*models.Job, error)
	ListJobs(ctx context.Context, opts JobListOptions) ([]*models.Job, error)

	// UpdateJob applies mutate under the store lock and persists the
	// result. Mutate returning an error abandons the write.
	UpdateJob(ctx context.Context, id string, mutate func(*models.Job) error) error

	// Transition advances the job to status, enforcing the legal
	// transition set. Terminal jobs reject every transition.
	Transition(ctx context.Context, id string, status models.JobStatus, step string) error

	// MarkFailed moves the job to FAILED with the given message,
	// freezing progress at its last value. No-op on terminal jobs.
	MarkFailed(ctx context.Context, id string, msg string) error

	// ListActive returns jobs in any non-terminal status, used for
	// startup recovery of orphaned work.
	ListActive(ctx context.Context) ([]*models.Job, error)

	DeleteJob(ctx context.Context, id string) error
	CountJobs(ctx context.Context) (int, error)
	Close() error
}

// ResultStorage - interface for rendered document persistence
type ResultStorage interface {
	// Store writes a rendered document and returns its handle, a
	// filename relative to the output directory.
	Store(jobID string, pdf []byte) (string, error)

	// Open returns the document bytes for a handle
	Open(handle string) ([]byte, error)

	// DeleteOlderThan removes documents older than the given age and
	// returns how many were removed.
	DeleteOlderThan(ageHours int) (int, error)
}
