package assessment

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/futig/ai-compass/internal/entity"
)

type fakeSessionConnector struct {
	companyID   int64
	responseID  int64
	companyErr  error
	responseErr error

	companyCalls  atomic.Int32
	responseCalls atomic.Int32
	lastProfile   entity.CompanyProfile
	lastCompanyID int64
}

func (f *fakeSessionConnector) CreateCompany(ctx context.Context, profile entity.CompanyProfile) (*entity.CreateCompanyResponse, error) {
	f.companyCalls.Add(1)
	f.lastProfile = profile
	if f.companyErr != nil {
		return nil, f.companyErr
	}
	return &entity.CreateCompanyResponse{CompanyID: f.companyID}, nil
}

func (f *fakeSessionConnector) CreateResponse(ctx context.Context, companyID int64) (*entity.CreateResponseResponse, error) {
	f.responseCalls.Add(1)
	f.lastCompanyID = companyID
	if f.responseErr != nil {
		return nil, f.responseErr
	}
	return &entity.CreateResponseResponse{ResponseID: f.responseID}, nil
}

type fakeQuestionnaireConnector struct {
	payload entity.Questionnaire
	err     error
	// release, when set, holds every fetch until it is closed.
	release chan struct{}
	calls   atomic.Int32
	// aborted is set when a fetch found its context done.
	aborted atomic.Bool
}

func (f *fakeQuestionnaireConnector) GetQuestionnaire(ctx context.Context) (entity.Questionnaire, error) {
	f.calls.Add(1)
	if f.release != nil {
		<-f.release
	}
	if err := ctx.Err(); err != nil {
		f.aborted.Store(true)
		return nil, err
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.payload, nil
}

type fakeProgressConnector struct {
	mu       sync.Mutex
	recorded map[int64]map[int64][]int64
	result   *entity.AssessmentResult
	err      error
}

func (f *fakeProgressConnector) RecordAnswer(ctx context.Context, responseID int64, req *entity.RecordAnswerRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if f.recorded == nil {
		f.recorded = make(map[int64]map[int64][]int64)
	}
	if f.recorded[responseID] == nil {
		f.recorded[responseID] = make(map[int64][]int64)
	}
	f.recorded[responseID][req.QuestionID] = req.AnswerIDs
	return nil
}

func (f *fakeProgressConnector) GetResults(ctx context.Context, responseID int64) (*entity.AssessmentResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}
