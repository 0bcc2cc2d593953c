package submission

import (
	"context"

	"github.com/futig/ai-compass/internal/entity"
)

type CompletionConnector interface {
	CompleteAssessment(ctx context.Context, responseID int64, company entity.FinalizedCompany) error
}
