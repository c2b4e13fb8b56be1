package pipeline

import (
	"fmt"

	"github.com/ternarybob/brandforge/internal/models"
)

// StageError is a stage-fatal failure. Message is user-safe and is
// what the job record exposes; the wrapped error stays in the logs.
type StageError struct {
	Stage   models.JobStatus
	Message string
	Err     error
}

func (e *StageError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Stage, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Stage, e.Message)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// UserMessage is the short non-technical message stored on the job,
// with a retry recommendation appended
func (e *StageError) UserMessage() string {
	return e.Message + " Please retry with a new submission."
}

func stageFailure(stage models.JobStatus, message string, err error) *StageError {
	return &StageError{Stage: stage, Message: message, Err: err}
}
