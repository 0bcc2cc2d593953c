package assessment

import (
	"context"

	"github.com/futig/ai-compass/internal/entity"
)

type SessionConnector interface {
	CreateCompany(ctx context.Context, profile entity.CompanyProfile) (*entity.CreateCompanyResponse, error)
	CreateResponse(ctx context.Context, companyID int64) (*entity.CreateResponseResponse, error)
}

type QuestionnaireConnector interface {
	GetQuestionnaire(ctx context.Context) (entity.Questionnaire, error)
}

type ProgressConnector interface {
	RecordAnswer(ctx context.Context, responseID int64, req *entity.RecordAnswerRequest) error
	GetResults(ctx context.Context, responseID int64) (*entity.AssessmentResult, error)
}
