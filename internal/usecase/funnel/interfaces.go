package funnel

import (
	"github.com/futig/ai-compass/internal/usecase/assessment"
	"github.com/futig/ai-compass/internal/usecase/report"
	"github.com/futig/ai-compass/internal/usecase/submission"
)

// Connector is everything a visitor's components need from the assessment API.
type Connector interface {
	assessment.SessionConnector
	assessment.QuestionnaireConnector
	assessment.ProgressConnector
	submission.CompletionConnector
	report.ReportConnector
}
