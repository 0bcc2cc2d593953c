package assessment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/futig/ai-compass/internal/config"
	"github.com/futig/ai-compass/internal/entity"
	"github.com/futig/ai-compass/internal/integration/common"
	pkghttp "github.com/futig/ai-compass/pkg/http"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Connector talks to the remote assessment API.
type Connector struct {
	config    config.AssessmentAPIConfig
	connector *pkghttp.Connector
	logger    *zap.Logger
}

func NewConnector(
	cfg config.AssessmentAPIConfig,
	logger *zap.Logger,
) (*Connector, error) {
	connector, err := common.NewBaseConnector(cfg.HTTPClientConfig, cfg.Retry, logger)
	if err != nil {
		return nil, fmt.Errorf("assessment API connector: %w", err)
	}

	return &Connector{
		connector: connector,
		config:    cfg,
		logger:    logger,
	}, nil
}

// CreateCompany registers a company profile and returns its identifier.
func (c *Connector) CreateCompany(ctx context.Context, profile entity.CompanyProfile) (*entity.CreateCompanyResponse, error) {
	ctxzap.Debug(ctx, "creating company via assessment API")

	var resp entity.CreateCompanyResponse
	if err := c.connector.DoRequest(ctx, http.MethodPost, c.config.CreateCompanyEndpoint, profile, &resp); err != nil {
		return nil, wrapError("create company", err)
	}

	ctxzap.Info(ctx, "company created", zap.Int64("company_id", resp.CompanyID))

	return &resp, nil
}

// CreateResponse opens a response record for a company.
func (c *Connector) CreateResponse(ctx context.Context, companyID int64) (*entity.CreateResponseResponse, error) {
	ctxzap.Debug(ctx, "creating response via assessment API", zap.Int64("company_id", companyID))

	var resp entity.CreateResponseResponse
	req := &entity.CreateResponseRequest{CompanyID: companyID}
	if err := c.connector.DoRequest(ctx, http.MethodPost, c.config.CreateResponseEndpoint, req, &resp); err != nil {
		return nil, wrapError("create response", err)
	}

	ctxzap.Info(ctx, "response created", zap.Int64("response_id", resp.ResponseID))

	return &resp, nil
}

// GetQuestionnaire fetches the questionnaire definition. Transient failures are retried.
func (c *Connector) GetQuestionnaire(ctx context.Context) (entity.Questionnaire, error) {
	var raw json.RawMessage

	if err := c.connector.DoRequest(ctx, http.MethodGet, c.config.QuestionnaireEndpoint, nil, &raw); err != nil {
		return nil, wrapError("get questionnaire", err)
	}

	if len(raw) == 0 || string(raw) == "null" {
		return nil, fmt.Errorf("get questionnaire: %w", entity.ErrQuestionnaireAbsent)
	}

	ctxzap.Info(ctx, "questionnaire fetched", zap.Int("bytes", len(raw)))

	return entity.Questionnaire(raw), nil
}

// RecordAnswer stores one answer of an in-progress response.
func (c *Connector) RecordAnswer(ctx context.Context, responseID int64, req *entity.RecordAnswerRequest) error {
	endpoint := fmt.Sprintf(c.config.RecordAnswerEndpoint, responseID)
	if err := c.connector.DoRequest(ctx, http.MethodPut, endpoint, req, nil); err != nil {
		return wrapError("record answer", err)
	}

	ctxzap.Debug(ctx, "answer recorded",
		zap.Int64("response_id", responseID),
		zap.Int64("question_id", req.QuestionID),
	)
	return nil
}

// CompleteAssessment finalizes a response with the real company profile and
// triggers scoring. It is never retried: completion is not idempotent.
func (c *Connector) CompleteAssessment(ctx context.Context, responseID int64, company entity.FinalizedCompany) error {
	ctxzap.Info(ctx, "completing assessment via assessment API", zap.Int64("response_id", responseID))

	endpoint := fmt.Sprintf(c.config.CompleteEndpoint, responseID)
	req := &entity.CompleteAssessmentRequest{CompanyDetails: company.Profile()}
	if err := c.connector.DoRequest(ctx, http.MethodPost, endpoint, req, nil); err != nil {
		return wrapError("complete assessment", err)
	}

	ctxzap.Info(ctx, "assessment completed", zap.Int64("response_id", responseID))
	return nil
}

// GetResults fetches the scored result of a completed response.
func (c *Connector) GetResults(ctx context.Context, responseID int64) (*entity.AssessmentResult, error) {
	var resp entity.AssessmentResult

	endpoint := fmt.Sprintf(c.config.ResultsEndpoint, responseID)
	if err := c.connector.DoRequest(ctx, http.MethodGet, endpoint, nil, &resp); err != nil {
		return nil, wrapError("get results", err)
	}

	return &resp, nil
}

// DownloadReport fetches the rendered report document. Transient failures are retried.
func (c *Connector) DownloadReport(ctx context.Context, responseID int64, format entity.ReportFormat) (*entity.ReportDocument, error) {
	endpoint := fmt.Sprintf(c.config.ReportEndpoint, responseID)

	raw, err := c.connector.DoRawRequest(ctx, http.MethodGet, endpoint, pkghttp.WithQuery("format", string(format)))
	if err != nil {
		return nil, wrapError("download report", err)
	}

	if len(raw.Body) == 0 {
		return nil, fmt.Errorf("download report: empty document for response %d", responseID)
	}

	ctxzap.Info(ctx, "report downloaded",
		zap.Int64("response_id", responseID),
		zap.String("content_type", raw.ContentType),
		zap.Int("bytes", len(raw.Body)),
	)

	return &entity.ReportDocument{
		ResponseID:  responseID,
		ContentType: raw.ContentType,
		Body:        raw.Body,
	}, nil
}
