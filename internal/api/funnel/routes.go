package funnel

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RouteLimits are the rate limits of the costly routes. Start guards the
// creation of new assessments, which is not idempotent; Report guards report
// rendering.
type RouteLimits struct {
	Start  func(http.Handler) http.Handler
	Report func(http.Handler) http.Handler
}

// RegisterRoutes registers funnel routes.
func RegisterRoutes(r chi.Router, h *Handler, limits RouteLimits) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/reference", h.GetReference)
		r.Post("/visit", h.Visit)

		r.Get("/session", h.GetSession)
		r.Delete("/session", h.ResetSession)

		r.Get("/questionnaire", h.GetQuestionnaire)

		r.Route("/assessment", func(r chi.Router) {
			r.With(limits.Start).Post("/", h.StartAssessment)
			r.Get("/{responseId}/answers", h.GetAnswers)
			r.Put("/{responseId}/answers", h.RecordAnswer)
			r.Post("/{responseId}/snapshot", h.SubmitSnapshot)
			r.Get("/{responseId}/status", h.GetStatus)
		})

		r.Route("/results/{responseId}", func(r chi.Router) {
			r.Get("/", h.GetResults)
			r.With(limits.Report).Get("/report", h.DownloadReport)
		})
	})
}
