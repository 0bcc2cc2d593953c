package funnel

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/futig/ai-compass/internal/api/middleware"
	"github.com/futig/ai-compass/internal/entity"
	"github.com/futig/ai-compass/internal/pkg/logger"
	"github.com/futig/ai-compass/internal/pkg/response"
	"github.com/futig/ai-compass/internal/pkg/validator"
	funneluc "github.com/futig/ai-compass/internal/usecase/funnel"
	"github.com/futig/ai-compass/internal/usecase/submission"
	"github.com/go-chi/chi/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

type Handler struct {
	registry  VisitorRegistry
	validator *validator.Validator
}

func NewHandler(registry VisitorRegistry, validator *validator.Validator) *Handler {
	return &Handler{
		registry:  registry,
		validator: validator,
	}
}

// GetReference handles GET /api/v1/reference - Option lists of the company form
func (h *Handler) GetReference(w http.ResponseWriter, r *http.Request) {
	response.Success(w, entity.ReferenceData{
		Industries:   entity.Industries,
		CompanySizes: entity.CompanySizes,
	})
}

// Visit handles POST /api/v1/visit - Open the browsing session and warm caches
func (h *Handler) Visit(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "Visit")

	visitor := h.registry.Visitor(middleware.VisitorID(ctx))
	visitor.WarmUp(ctx)

	ctxzap.Debug(ctx, "questionnaire prefetch scheduled")

	response.Accepted(w, map[string]string{
		"status": "accepted",
	})
}

// StartAssessment handles POST /api/v1/assessment - Create an anonymous assessment
func (h *Handler) StartAssessment(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "StartAssessment")

	visitor := h.registry.Visitor(middleware.VisitorID(ctx))

	s, err := visitor.Start(ctx)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Created(w, entity.StartAssessmentResponse{
		CompanyID:  s.CompanyID,
		ResponseID: s.ResponseID,
		Next:       s.AssessmentPath(),
	})
}

// GetSession handles GET /api/v1/session - Identifiers of the active assessment
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "GetSession")

	visitor, ok := h.registry.Lookup(middleware.VisitorID(ctx))
	if !ok {
		h.handleUsecaseError(ctx, w, entity.ErrNoActiveSession)
		return
	}

	current, err := visitor.Session.Current()
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, current)
}

// ResetSession handles DELETE /api/v1/session - Drop everything stored for the visitor
func (h *Handler) ResetSession(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "ResetSession")

	h.registry.Forget(middleware.VisitorID(ctx))
	ctxzap.Info(ctx, "browsing session reset")

	response.NoContent(w)
}

// GetQuestionnaire handles GET /api/v1/questionnaire - Cached questionnaire definition
func (h *Handler) GetQuestionnaire(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "GetQuestionnaire")

	visitor := h.registry.Visitor(middleware.VisitorID(ctx))

	q, err := visitor.Prefetcher.Questionnaire(ctx)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, json.RawMessage(q))
}

// GetAnswers handles GET /api/v1/assessment/{responseId}/answers - Answers given so far
func (h *Handler) GetAnswers(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "GetAnswers")

	visitor, _, ok := h.ownedVisitor(w, r)
	if !ok {
		return
	}

	answers, err := visitor.Tracker.Answers()
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, answers)
}

// RecordAnswer handles PUT /api/v1/assessment/{responseId}/answers - Record one answer
func (h *Handler) RecordAnswer(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "RecordAnswer")

	visitor, _, ok := h.ownedVisitor(w, r)
	if !ok {
		return
	}

	var req entity.RecordAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if err := h.validator.ValidateRecordAnswer(&req); err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	if err := visitor.Tracker.RecordAnswer(ctx, &req); err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.NoContent(w)
}

// SubmitSnapshot handles POST /api/v1/assessment/{responseId}/snapshot - Finalize the assessment
func (h *Handler) SubmitSnapshot(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "SubmitSnapshot")

	responseID, err := h.validator.ParseResponseID(chi.URLParam(r, "responseId"))
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}
	ctx = logger.AddFields(ctx, zap.Int64("response_id", responseID))

	var req entity.SubmitSnapshotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	visitor, ok := h.registry.Lookup(middleware.VisitorID(ctx))
	if !ok {
		h.handleUsecaseError(ctx, w, entity.ErrNoActiveSession)
		return
	}

	outcome, err := visitor.Submission.Submit(ctx, submission.SubmitRequest{
		ResponseID: responseID,
		Consent:    req.Consent,
		Profile:    req.Company,
	})
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, outcome)
}

// GetStatus handles GET /api/v1/assessment/{responseId}/status - Submission state
func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	visitor, responseID, ok := h.ownedVisitor(w, r)
	if !ok {
		return
	}

	response.Success(w, entity.SubmissionStatusResponse{
		ResponseID: responseID,
		State:      visitor.Submission.State(),
	})
}

// GetResults handles GET /api/v1/results/{responseId} - Scored result
func (h *Handler) GetResults(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "GetResults")

	responseID, err := h.validator.ParseResponseID(chi.URLParam(r, "responseId"))
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	visitor := h.registry.Visitor(middleware.VisitorID(ctx))

	result, err := visitor.Tracker.Results(ctx, responseID)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, result)
}

// DownloadReport handles GET /api/v1/results/{responseId}/report - Report file
func (h *Handler) DownloadReport(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "DownloadReport")

	responseID, err := h.validator.ParseResponseID(chi.URLParam(r, "responseId"))
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	format, err := h.validator.ParseReportFormat(r.URL.Query().Get("format"))
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	visitor := h.registry.Visitor(middleware.VisitorID(ctx))

	if _, err := visitor.Reports.Download(ctx, responseID, format, attachmentSaver(w)); err != nil {
		if errors.Is(err, errResponseCommitted) {
			ctxzap.Warn(ctx, "report stream interrupted", zap.Error(err))
			return
		}
		h.handleUsecaseError(ctx, w, err)
		return
	}
}

// ownedVisitor resolves the visitor of the request and checks that the route's
// response id is the visitor's active one. It writes the error response itself.
func (h *Handler) ownedVisitor(w http.ResponseWriter, r *http.Request) (*funneluc.Visitor, int64, bool) {
	ctx := r.Context()

	responseID, err := h.validator.ParseResponseID(chi.URLParam(r, "responseId"))
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return nil, 0, false
	}

	visitor, ok := h.registry.Lookup(middleware.VisitorID(ctx))
	if !ok {
		h.handleUsecaseError(ctx, w, entity.ErrNoActiveSession)
		return nil, 0, false
	}

	if _, err := visitor.Session.Current(); err != nil {
		h.handleUsecaseError(ctx, w, err)
		return nil, 0, false
	}
	if !visitor.Session.Owns(responseID) {
		h.handleUsecaseError(ctx, w, entity.ErrSessionMismatch)
		return nil, 0, false
	}

	return visitor, responseID, true
}
