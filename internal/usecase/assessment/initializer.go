// Package assessment covers the visitor's path up to submission: starting an
// anonymous session, warming the questionnaire cache and recording answers.
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

// Initializer opens a new anonymous assessment for one browsing session.
type Initializer struct {
	connector SessionConnector
	session   *session.Context
}

func NewInitializer(connector SessionConnector, sessionCtx *session.Context) *Initializer {
	return &Initializer{
		connector: connector,
		session:   sessionCtx,
	}
}

// Initialize registers a placeholder company, opens a response for it and
// stores both identifiers, replacing any previous session. Nothing is stored
// unless both calls return a usable identifier. Each call creates new backend
// records.
func (i *Initializer) Initialize(ctx context.Context) (entity.VisitorSession, error) {
	ctx = logger.WithAction(ctx, "initialize_session")

	company, err := i.connector.CreateCompany(ctx, entity.PlaceholderCompany().Profile())
	if err != nil {
		return entity.VisitorSession{}, &entity.SessionInitError{Step: "create company", Err: err}
	}
	if company == nil || company.CompanyID <= 0 {
		return entity.VisitorSession{}, &entity.SessionInitError{
			Step: "create company",
			Err:  fmt.Errorf("backend returned no company identifier"),
		}
	}

	response, err := i.connector.CreateResponse(ctx, company.CompanyID)
	if err != nil {
		return entity.VisitorSession{}, &entity.SessionInitError{Step: "create response", Err: err}
	}
	if response == nil || response.ResponseID <= 0 {
		return entity.VisitorSession{}, &entity.SessionInitError{
			Step: "create response",
			Err:  fmt.Errorf("backend returned no response identifier"),
		}
	}

	visitor := entity.VisitorSession{CompanyID: company.CompanyID, ResponseID: response.ResponseID}
	if err := i.session.Create(visitor); err != nil {
		return entity.VisitorSession{}, &entity.SessionInitError{Step: "persist session", Err: err}
	}

	ctxzap.Info(ctx, "visitor session created",
		zap.Int64("company_id", visitor.CompanyID),
		zap.Int64("response_id", visitor.ResponseID),
	)

	return visitor, nil
}
