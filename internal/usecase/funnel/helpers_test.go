package funnel

import (
	"github.com/futig/ai-compass/internal/entity"
	"github.com/futig/ai-compass/internal/usecase/submission"
)

func submissionRequest(responseID int64) submission.SubmitRequest {
	return submission.SubmitRequest{
		ResponseID: responseID,
		Consent:    true,
		Profile: entity.CompanyProfile{
			CompanyName:       "Acme",
			Industry:          "Retail",
			NumberOfEmployees: "11-50",
			Email:             "ops@acme.test",
		},
	}
}
