package pipeline

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for conditions with no per-instance detail.
var (
	// ErrAlreadyProcessing is returned when a second run is requested
	// for a job id that is still in flight.
	ErrAlreadyProcessing = errors.New("job already running")

	// ErrSourceNotFound is returned when the object store has no bytes
	// for the project's source file.
	ErrSourceNotFound = errors.New("source file not found")
)

// StageTimeoutError marks a single operation exceeding its deadline.
// When the operation sits inside a fallback chain, the chain absorbs
// this error and tries the next tier.
type StageTimeoutError struct {
	Operation string
	Timeout   time.Duration
}

func (e *StageTimeoutError) Error() string {
	return fmt.Sprintf("operation %q timed out after %s", e.Operation, e.Timeout)
}

// GlobalTimeoutError marks the whole-job deadline expiring. Always fatal.
type GlobalTimeoutError struct {
	Timeout time.Duration
}

func (e *GlobalTimeoutError) Error() string {
	return fmt.Sprintf("pipeline timed out after %s", e.Timeout)
}

// StageFailureError marks a required stage failing with every fallback
// tier exhausted (or no chain present). It aborts the run.
type StageFailureError struct {
	StageID string
	Err     error
}

func (e *StageFailureError) Error() string {
	return fmt.Sprintf("stage %q failed: %v", e.StageID, e.Err)
}

func (e *StageFailureError) Unwrap() error { return e.Err }

// ClipFailure records one clip's generation failing. Non-fatal: the
// batch continues and the run may still report success with fewer clips.
type ClipFailure struct {
	Index     int
	StartTime float64
	EndTime   float64
	Err       error
}

func (e *ClipFailure) Error() string {
	return fmt.Sprintf("clip %d (%.1fs-%.1fs) failed: %v", e.Index, e.StartTime, e.EndTime, e.Err)
}

func (e *ClipFailure) Unwrap() error { return e.Err }

// ErrorCode maps a pipeline error to the wire-level code surfaced to
// API and WebSocket clients.
func ErrorCode(err error) string {
	var gt *GlobalTimeoutError
	var st *StageTimeoutError
	var sf *StageFailureError
	switch {
	case errors.Is(err, ErrAlreadyProcessing):
		return "ALREADY_PROCESSING"
	case errors.Is(err, ErrSourceNotFound):
		return "SOURCE_NOT_FOUND"
	case errors.As(err, &gt):
		return "GLOBAL_TIMEOUT"
	case errors.As(err, &st):
		return "STAGE_TIMEOUT"
	case errors.As(err, &sf):
		return "STAGE_FAILURE"
	default:
		return "PIPELINE_ERROR"
	}
}
