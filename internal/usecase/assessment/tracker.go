package assessment

import (
	"context"
	"fmt"

	"github.com/futig/ai-compass/internal/entity"
	"github.com/futig/ai-compass/internal/pkg/logger"
	"github.com/futig/ai-compass/internal/storage/session"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Tracker records answers of the active response and reads its results.
type Tracker struct {
	connector ProgressConnector
	session   *session.Context
}

func NewTracker(connector ProgressConnector, sessionCtx *session.Context) *Tracker {
	return &Tracker{
		connector: connector,
		session:   sessionCtx,
	}
}

// RecordAnswer sends one answer to the backend and keeps a local copy so the
// questionnaire view can be restored.
func (t *Tracker) RecordAnswer(ctx context.Context, req *entity.RecordAnswerRequest) error {
	current, err := t.session.Current()
	if err != nil {
		return err
	}

	ctx = logger.AddFields(logger.WithAction(ctx, "record_answer"),
		zap.Int64("response_id", current.ResponseID),
		zap.Int64("question_id", req.QuestionID),
	)

	if err := t.connector.RecordAnswer(ctx, current.ResponseID, req); err != nil {
		return fmt.Errorf("record answer: %w", err)
	}

	if err := t.session.RecordAnswer(req.QuestionID, req.AnswerIDs); err != nil {
		// The backend already has the answer; the local copy is only a convenience.
		ctxzap.Warn(ctx, "failed to cache answer locally", zap.Error(err))
	}

	return nil
}

// Answers returns the locally cached answers of the active response.
func (t *Tracker) Answers() (entity.AnswerState, error) {
	if _, err := t.session.Current(); err != nil {
		return nil, err
	}
	return t.session.Answers()
}

// Results fetches the scored result of a response.
func (t *Tracker) Results(ctx context.Context, responseID int64) (*entity.AssessmentResult, error) {
	ctx = logger.AddFields(logger.WithAction(ctx, "get_results"), zap.Int64("response_id", responseID))

	result, err := t.connector.GetResults(ctx, responseID)
	if err != nil {
		return nil, fmt.Errorf("get results: %w", err)
	}
	return result, nil
}
