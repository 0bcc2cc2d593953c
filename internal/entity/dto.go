package entity

// Wire types of the remote assessment API.

type CreateCompanyResponse struct {
	CompanyID int64 `json:"company_id"`
}

type CreateResponseRequest struct {
	CompanyID int64 `json:"company_id"`
}

type CreateResponseResponse struct {
	ResponseID int64 `json:"response_id"`
	CompanyID  int64 `json:"company_id,omitempty"`
}

type RecordAnswerRequest struct {
	QuestionID int64   `json:"question_id"`
	AnswerIDs  []int64 `json:"answer_ids"`
}

type CompleteAssessmentRequest struct {
	CompanyDetails CompanyProfile `json:"company_details"`
}

// Funnel API types.

type StartAssessmentResponse struct {
	CompanyID  int64  `json:"company_id"`
	ResponseID int64  `json:"response_id"`
	Next       string `json:"next"`
}

type SubmitSnapshotRequest struct {
	Consent bool           `json:"consent"`
	Company CompanyProfile `json:"company"`
}

type SubmissionStatusResponse struct {
	ResponseID int64           `json:"response_id"`
	State      SubmissionState `json:"state"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
