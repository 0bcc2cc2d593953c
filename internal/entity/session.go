package entity

import "fmt"

// VisitorSession is the anonymous identifier pair handed out by the backend
// before any real user data is captured.
type VisitorSession struct {
	CompanyID  int64 `json:"company_id"`
	ResponseID int64 `json:"response_id"`
}

// Valid reports whether both identifiers are usable.
func (s VisitorSession) Valid() bool {
	return s.CompanyID > 0 && s.ResponseID > 0
}

// AssessmentPath is the route of the questionnaire view for this session.
func (s VisitorSession) AssessmentPath() string {
	return fmt.Sprintf("/assessment/%d", s.ResponseID)
}

// ResultsPath is the route of the results view for a response.
func ResultsPath(responseID int64) string {
	return fmt.Sprintf("/results/%d", responseID)
}

type SubmissionState string

const (
	SubmissionStateIdle      SubmissionState = "idle"
	SubmissionStateAnalyzing SubmissionState = "analyzing"
	SubmissionStateComplete  SubmissionState = "complete"
)

// Outcome is what a successful submission hands to the results view.
type Outcome struct {
	ResponseID  int64           `json:"response_id"`
	State       SubmissionState `json:"state"`
	ResultsPath string          `json:"results_path"`
}
