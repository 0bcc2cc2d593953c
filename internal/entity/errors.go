package entity

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	// Session errors
	ErrNoActiveSession     = errors.New("no active assessment found")
	ErrSessionMismatch     = errors.New("response does not belong to the active session")
	ErrSessionStarting     = errors.New("assessment is already being started")
	ErrQuestionnaireAbsent = errors.New("questionnaire not available")

	// Submission errors
	ErrConsentRequired      = errors.New("please agree to the privacy policy to continue")
	ErrSubmissionInProgress = errors.New("assessment is already being analyzed")
	ErrSubmissionCompleted  = errors.New("assessment is already completed")

	// Download errors
	ErrDownloadInProgress = errors.New("report download already in progress")

	// Backend errors
	ErrNotFound = errors.New("resource not found")

	// Validation errors
	ErrMissingField     = errors.New("required field is missing")
	ErrInvalidParameter = errors.New("invalid parameter")
)

// SessionInitError means the visitor session could not be bootstrapped.
// Nothing is persisted when it is returned.
type SessionInitError struct {
	Step string
	Err  error
}

func (e *SessionInitError) Error() string {
	return fmt.Sprintf("failed to create visitor session (%s): %v", e.Step, e.Err)
}

func (e *SessionInitError) Unwrap() error {
	return e.Err
}

// SubmissionError means the finalize call failed. Message is shown to the
// visitor as is.
type SubmissionError struct {
	Message string
	Err     error
}

func (e *SubmissionError) Error() string {
	return "failed to complete assessment: " + e.Message
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}

// DownloadError means the report could not be fetched or saved.
type DownloadError struct {
	ResponseID int64
	Err        error
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("failed to download report for response %d: %v", e.ResponseID, e.Err)
}

func (e *DownloadError) Unwrap() error {
	return e.Err
}

// PrefetchWarning is logged when background questionnaire warming fails.
// It never reaches the visitor.
type PrefetchWarning struct {
	Err error
}

func (w *PrefetchWarning) Error() string {
	return "questionnaire prefetch failed: " + w.Err.Error()
}

func (w *PrefetchWarning) Unwrap() error {
	return w.Err
}
