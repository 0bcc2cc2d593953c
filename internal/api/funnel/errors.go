package funnel

import (
	"context"
	"errors"
	"net/http"

	"github.com/futig/ai-compass/internal/entity"
	"github.com/futig/ai-compass/internal/pkg/response"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

func (h *Handler) respondError(ctx context.Context, w http.ResponseWriter, status int, message string, err error) {
	if status >= http.StatusInternalServerError {
		ctxzap.Error(ctx, message, zap.Error(err))
	} else {
		ctxzap.Info(ctx, message, zap.Error(err))
	}
	response.Error(w, status, message)
}

// handleUsecaseError maps component errors to a status and a message the
// visitor can read. Typed errors are checked first since they may wrap
// sentinels from the backend call.
func (h *Handler) handleUsecaseError(ctx context.Context, w http.ResponseWriter, err error) {
	var (
		initErr     *entity.SessionInitError
		submitErr   *entity.SubmissionError
		downloadErr *entity.DownloadError
	)

	switch {
	case errors.As(err, &initErr):
		h.respondError(ctx, w, http.StatusServiceUnavailable, "could not start the assessment, please try again", err)
	case errors.As(err, &submitErr):
		h.respondError(ctx, w, http.StatusBadGateway, submitErr.Message, err)
	case errors.Is(err, entity.ErrDownloadInProgress):
		h.respondError(ctx, w, http.StatusConflict, entity.ErrDownloadInProgress.Error(), err)
	case errors.As(err, &downloadErr) && errors.Is(err, entity.ErrNotFound):
		h.respondError(ctx, w, http.StatusNotFound, "report not available", err)
	case errors.As(err, &downloadErr) && errors.Is(err, entity.ErrInvalidParameter):
		h.respondError(ctx, w, http.StatusBadRequest, "invalid response id", err)
	case errors.As(err, &downloadErr):
		h.respondError(ctx, w, http.StatusBadGateway, "failed to download report", err)
	case errors.Is(err, entity.ErrConsentRequired):
		h.respondError(ctx, w, http.StatusBadRequest, entity.ErrConsentRequired.Error(), err)
	case errors.Is(err, entity.ErrMissingField) || errors.Is(err, entity.ErrInvalidParameter):
		h.respondError(ctx, w, http.StatusBadRequest, err.Error(), err)
	case errors.Is(err, entity.ErrNoActiveSession):
		h.respondError(ctx, w, http.StatusNotFound, entity.ErrNoActiveSession.Error(), err)
	case errors.Is(err, entity.ErrSessionMismatch),
		errors.Is(err, entity.ErrSessionStarting),
		errors.Is(err, entity.ErrSubmissionInProgress),
		errors.Is(err, entity.ErrSubmissionCompleted):
		h.respondError(ctx, w, http.StatusConflict, rootMessage(err), err)
	case errors.Is(err, entity.ErrQuestionnaireAbsent):
		h.respondError(ctx, w, http.StatusNotFound, entity.ErrQuestionnaireAbsent.Error(), err)
	case errors.Is(err, entity.ErrNotFound):
		h.respondError(ctx, w, http.StatusNotFound, "resource not found", err)
	default:
		h.respondError(ctx, w, http.StatusBadGateway, "assessment service unavailable", err)
	}
}

func rootMessage(err error) string {
	for _, sentinel := range []error{
		entity.ErrSessionMismatch,
		entity.ErrSessionStarting,
		entity.ErrSubmissionInProgress,
		entity.ErrSubmissionCompleted,
	} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return err.Error()
}
