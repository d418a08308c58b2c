package domain

import "errors"

var (
	// ErrNotFound indicates resource not found
	ErrNotFound = errors.New("resource not found")
	// ErrInvalidRequest indicates invalid request
	ErrInvalidRequest = errors.New("invalid request")
	// ErrUnauthorized indicates unauthorized access
	ErrUnauthorized = errors.New("unauthorized")
	// ErrBusy indicates the session already has a pipeline in flight
	ErrBusy = errors.New("a request is already in flight for this session")
	// ErrBackendUnavailable indicates the generation backend is not reachable
	ErrBackendUnavailable = errors.New("generation backend unavailable")
)

// Stage names one pipeline step, used to attribute terminal errors to a
// distinct pseudo-sender in the conversation log.
type Stage string

const (
	StageGenerate   Stage = "generate"
	StageReview     Stage = "review"
	StageSearch     Stage = "search"
	StageRegenerate Stage = "regenerate"
)

// StageError is a backend failure in one pipeline stage. Stage errors
// abort the remaining stages and are always user-visible; they are never
// retried automatically.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return string(e.Stage) + ": " + e.Err.Error()
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// NewStageError wraps err with the pipeline stage it occurred in.
func NewStageError(stage Stage, err error) *StageError {
	return &StageError{Stage: stage, Err: err}
}
