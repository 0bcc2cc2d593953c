package assessment

import (
	"context"
	"fmt"
	"sync"

	"github.com/futig/ai-compass/internal/entity"
	"github.com/futig/ai-compass/internal/pkg/formatter"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

var mockDimensions = []string{"Strategy", "Data", "Technology", "People & Culture", "Governance"}

var mockQuestionnaire = entity.Questionnaire(`{
  "dimensions": [
    {"dimension_id": 1, "name": "Strategy", "questions": [
      {"question_id": 1, "text": "Is AI part of your business strategy?", "answers": [
        {"answer_id": 1, "text": "Not at all", "score": 1},
        {"answer_id": 2, "text": "Discussed informally", "score": 3},
        {"answer_id": 3, "text": "Documented and funded", "score": 5}]}]},
    {"dimension_id": 2, "name": "Data", "questions": [
      {"question_id": 2, "text": "How accessible is your operational data?", "answers": [
        {"answer_id": 4, "text": "Scattered in silos", "score": 1},
        {"answer_id": 5, "text": "Partly centralized", "score": 3},
        {"answer_id": 6, "text": "Governed platform", "score": 5}]}]}
  ]
}`)

var mockAnswerScores = map[int64]float64{1: 1, 2: 3, 3: 5, 4: 1, 5: 3, 6: 5}

type mockResponse struct {
	companyID int64
	answers   map[int64][]int64
	company   *entity.CompanyProfile
}

// MockConnector is an in-memory stand-in for the assessment backend, used for
// local runs without the scoring service.
type MockConnector struct {
	logger *zap.Logger

	mu            sync.Mutex
	nextCompanyID int64
	nextResponse  int64
	companies     map[int64]entity.CompanyProfile
	responses     map[int64]*mockResponse
}

func NewMockConnector(logger *zap.Logger) *MockConnector {
	return &MockConnector{
		logger:    logger,
		companies: make(map[int64]entity.CompanyProfile),
		responses: make(map[int64]*mockResponse),
	}
}

func (m *MockConnector) CreateCompany(ctx context.Context, profile entity.CompanyProfile) (*entity.CreateCompanyResponse, error) {
	if missing := profile.MissingFields(); len(missing) > 0 {
		return nil, fmt.Errorf("[MOCK] create company: %w: %v", entity.ErrMissingField, missing)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextCompanyID++
	m.companies[m.nextCompanyID] = profile
	ctxzap.Info(ctx, "[MOCK] company created", zap.Int64("company_id", m.nextCompanyID))

	return &entity.CreateCompanyResponse{CompanyID: m.nextCompanyID}, nil
}

func (m *MockConnector) CreateResponse(ctx context.Context, companyID int64) (*entity.CreateResponseResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.companies[companyID]; !ok {
		return nil, fmt.Errorf("[MOCK] create response: company %d: %w", companyID, entity.ErrNotFound)
	}

	m.nextResponse++
	m.responses[m.nextResponse] = &mockResponse{companyID: companyID, answers: make(map[int64][]int64)}
	ctxzap.Info(ctx, "[MOCK] response created", zap.Int64("response_id", m.nextResponse))

	return &entity.CreateResponseResponse{ResponseID: m.nextResponse, CompanyID: companyID}, nil
}

func (m *MockConnector) GetQuestionnaire(ctx context.Context) (entity.Questionnaire, error) {
	ctxzap.Info(ctx, "[MOCK] serving questionnaire")
	return append(entity.Questionnaire(nil), mockQuestionnaire...), nil
}

func (m *MockConnector) RecordAnswer(ctx context.Context, responseID int64, req *entity.RecordAnswerRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	resp, ok := m.responses[responseID]
	if !ok {
		return fmt.Errorf("[MOCK] record answer: response %d: %w", responseID, entity.ErrNotFound)
	}
	resp.answers[req.QuestionID] = append([]int64(nil), req.AnswerIDs...)

	return nil
}

func (m *MockConnector) CompleteAssessment(ctx context.Context, responseID int64, company entity.FinalizedCompany) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	resp, ok := m.responses[responseID]
	if !ok {
		return fmt.Errorf("[MOCK] complete assessment: response %d: %w", responseID, entity.ErrNotFound)
	}

	profile := company.Profile()
	resp.company = &profile
	m.companies[resp.companyID] = profile
	ctxzap.Info(ctx, "[MOCK] assessment completed", zap.Int64("response_id", responseID))

	return nil
}

func (m *MockConnector) GetResults(ctx context.Context, responseID int64) (*entity.AssessmentResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.resultLocked(responseID)
}

func (m *MockConnector) DownloadReport(ctx context.Context, responseID int64, format entity.ReportFormat) (*entity.ReportDocument, error) {
	m.mu.Lock()
	result, err := m.resultLocked(responseID)
	m.mu.Unlock()
	if err != nil {
		return nil, err
	}

	f, err := formatter.NewFactory().Create(format)
	if err != nil {
		return nil, fmt.Errorf("[MOCK] download report: %w", err)
	}

	body, err := f.Format(formatter.FromResult(result))
	if err != nil {
		return nil, fmt.Errorf("[MOCK] render report: %w", err)
	}

	ctxzap.Info(ctx, "[MOCK] report rendered", zap.Int64("response_id", responseID), zap.Int("bytes", len(body)))

	return &entity.ReportDocument{ResponseID: responseID, ContentType: f.ContentType(), Body: body}, nil
}

func (m *MockConnector) resultLocked(responseID int64) (*entity.AssessmentResult, error) {
	resp, ok := m.responses[responseID]
	if !ok || resp.company == nil {
		return nil, fmt.Errorf("[MOCK] results for response %d: %w", responseID, entity.ErrNotFound)
	}

	// Dimension scores follow the recorded answers; unanswered dimensions sit mid-scale.
	result := &entity.AssessmentResult{ResponseID: responseID, Company: *resp.company}
	var total float64
	for i, name := range mockDimensions {
		score := 2.5
		if ids, ok := resp.answers[int64(i+1)]; ok && len(ids) > 0 {
			var sum float64
			for _, id := range ids {
				sum += mockAnswerScores[id]
			}
			score = sum / float64(len(ids))
		}
		total += score
		result.DimensionScores = append(result.DimensionScores, entity.DimensionScore{
			DimensionID:   int64(i + 1),
			DimensionName: name,
			Score:         score,
			MaxScore:      5,
		})
	}
	result.OverallScore = total / float64(len(mockDimensions))
	result.Cluster = mockCluster(result.OverallScore)

	return result, nil
}

func mockCluster(overall float64) *entity.ClusterInfo {
	switch {
	case overall < 2:
		return &entity.ClusterInfo{ClusterID: 1, ClusterName: "Observers", Characteristics: []string{"AI is not yet on the agenda"}}
	case overall < 3.5:
		return &entity.ClusterInfo{ClusterID: 2, ClusterName: "Explorers", Characteristics: []string{"First pilots", "Data foundations in progress"}}
	default:
		return &entity.ClusterInfo{ClusterID: 3, ClusterName: "Scalers", Characteristics: []string{"AI embedded in core processes"}}
	}
}
