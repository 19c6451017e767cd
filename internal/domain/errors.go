package domain

import "errors"

var (
	// ErrVideoNotFound is returned when a video cannot be found in the store
	ErrVideoNotFound = errors.New("video not found")

	// ErrMalformedEvent is returned when an event is missing the correlation
	// key its kind requires, or its payload cannot be parsed
	ErrMalformedEvent = errors.New("malformed event")

	// ErrConflictingCorrelation is returned when an event's upload and asset
	// keys resolve to two different existing videos
	ErrConflictingCorrelation = errors.New("conflicting correlation keys")

	// ErrUnauthorized is returned when a caller-facing operation has no
	// resolvable principal
	ErrUnauthorized = errors.New("no principal resolved for caller")

	// ErrDuplicateUploadID is returned when a create collides with an
	// existing upload correlation id
	ErrDuplicateUploadID = errors.New("upload id already assigned to a video")
)

// RetryableError wraps transient store failures so consumers can requeue
// the event; reconciliation is idempotent, replay is safe.
type RetryableError struct {
	Err error
}

func (e *RetryableError) Error() string {
	return "retryable error: " + e.Err.Error()
}

func (e *RetryableError) Unwrap() error {
	return e.Err
}

// NewRetryableError creates a new retryable error
func NewRetryableError(err error) error {
	return &RetryableError{Err: err}
}
