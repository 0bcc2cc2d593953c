// Package submission finalizes an assessment: it validates the company profile,
// triggers scoring and keeps the analyzing state visible for a minimum time.
package submission

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/futig/ai-compass/internal/entity"
	assessmentapi "github.com/futig/ai-compass/internal/integration/assessment"
	"github.com/futig/ai-compass/internal/pkg/logger"
	"github.com/futig/ai-compass/internal/pkg/mindelay"
	"github.com/futig/ai-compass/internal/storage/session"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// SubmitRequest carries the profile form. ResponseID, when set, must match the
// active session.
type SubmitRequest struct {
	ResponseID int64
	Consent    bool
	Profile    entity.CompanyProfile
}

// Orchestrator runs the idle -> analyzing -> complete state machine of one
// browsing session. A failed completion returns it to idle.
type Orchestrator struct {
	connector  CompletionConnector
	session    *session.Context
	clock      mindelay.Clock
	minDisplay time.Duration

	mu    sync.Mutex
	state entity.SubmissionState
}

func NewOrchestrator(
	connector CompletionConnector,
	sessionCtx *session.Context,
	clock mindelay.Clock,
	minDisplay time.Duration,
) *Orchestrator {
	if clock == nil {
		clock = mindelay.RealClock()
	}
	return &Orchestrator{
		connector:  connector,
		session:    sessionCtx,
		clock:      clock,
		minDisplay: minDisplay,
		state:      entity.SubmissionStateIdle,
	}
}

// State returns the current submission state.
func (o *Orchestrator) State() entity.SubmissionState {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Reset returns a completed orchestrator to idle for a new assessment. It has
// no effect while a submission is being analyzed.
func (o *Orchestrator) Reset() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state == entity.SubmissionStateComplete {
		o.state = entity.SubmissionStateIdle
	}
}

// Submit finalizes the active assessment with the visitor's company profile.
// Validation failures return before any network call. On success the call
// lasts at least the configured minimum display duration.
func (o *Orchestrator) Submit(ctx context.Context, req SubmitRequest) (entity.Outcome, error) {
	ctx = logger.WithAction(ctx, "submit_assessment")

	if err := o.guard(); err != nil {
		return entity.Outcome{}, err
	}

	if !req.Consent {
		return entity.Outcome{}, entity.ErrConsentRequired
	}

	company, err := entity.FinalizeCompany(req.Profile)
	if err != nil {
		return entity.Outcome{}, err
	}

	current, err := o.session.Current()
	if err != nil {
		return entity.Outcome{}, err
	}
	if req.ResponseID != 0 && req.ResponseID != current.ResponseID {
		return entity.Outcome{}, fmt.Errorf("%w: response %d", entity.ErrSessionMismatch, req.ResponseID)
	}

	if err := o.begin(); err != nil {
		return entity.Outcome{}, err
	}

	ctx = logger.AddFields(ctx, zap.Int64("response_id", current.ResponseID))
	ctxzap.Info(ctx, "submission analyzing")

	var completeErr error
	holdErr := mindelay.Run(ctx, o.clock, o.minDisplay, func(ctx context.Context) error {
		completeErr = o.connector.CompleteAssessment(ctx, current.ResponseID, company)
		return completeErr
	})

	if completeErr != nil {
		o.transition(entity.SubmissionStateIdle)
		ctxzap.Warn(ctx, "submission failed", zap.Error(completeErr))
		return entity.Outcome{}, &entity.SubmissionError{
			Message: assessmentapi.BackendMessage(completeErr),
			Err:     completeErr,
		}
	}
	if holdErr != nil {
		// The backend already completed the response, so the outcome stands.
		ctxzap.Debug(ctx, "display hold interrupted", zap.Error(holdErr))
	}

	o.transition(entity.SubmissionStateComplete)
	ctxzap.Info(ctx, "submission complete")

	return entity.Outcome{
		ResponseID:  current.ResponseID,
		State:       entity.SubmissionStateComplete,
		ResultsPath: entity.ResultsPath(current.ResponseID),
	}, nil
}

func (o *Orchestrator) guard() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return stateError(o.state)
}

// begin moves idle to analyzing atomically so that concurrent submits make at
// most one completion call.
func (o *Orchestrator) begin() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if err := stateError(o.state); err != nil {
		return err
	}
	o.state = entity.SubmissionStateAnalyzing
	return nil
}

func (o *Orchestrator) transition(to entity.SubmissionState) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.state = to
}

func stateError(state entity.SubmissionState) error {
	switch state {
	case entity.SubmissionStateAnalyzing:
		return entity.ErrSubmissionInProgress
	case entity.SubmissionStateComplete:
		return entity.ErrSubmissionCompleted
	default:
		return nil
	}
}
