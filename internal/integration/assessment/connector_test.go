package assessment

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/futig/ai-compass/internal/config"
	"github.com/futig/ai-compass/internal/entity"
	pkgRetry "github.com/futig/ai-compass/internal/pkg/retry"
	pkghttp "github.com/futig/ai-compass/pkg/http"
	"go.uber.org/zap"
)

func testConfig(url string) config.AssessmentAPIConfig {
	return config.AssessmentAPIConfig{
		HTTPClientConfig: config.HTTPClientConfig{
			RequestTimeout:        5 * time.Second,
			ConnTimeout:           time.Second,
			KeepAlive:             time.Second,
			IdleConnTimeout:       time.Second,
			ResponseHeaderTimeout: 5 * time.Second,
			TLSHandshakeTimeout:   time.Second,
			MaxIdleConnsPerHost:   2,
			Url:                   url,
		},
		CreateCompanyEndpoint:  "/companies/",
		CreateResponseEndpoint: "/responses/",
		QuestionnaireEndpoint:  "/questionnaire/",
		RecordAnswerEndpoint:   "/responses/%d/items",
		CompleteEndpoint:       "/responses/%d/complete",
		ResultsEndpoint:        "/responses/%d/results",
		ReportEndpoint:         "/responses/%d/pdf",
		Retry:                  pkgRetry.RetryConfig{Attempts: 3, Delay: time.Millisecond, MaxDelay: 5 * time.Millisecond},
	}
}

func newTestConnector(t *testing.T, mux *http.ServeMux) *Connector {
	t.Helper()

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	c, err := NewConnector(testConfig(srv.URL), zap.NewNop())
	if err != nil {
		t.Fatalf("new connector: %v", err)
	}
	return c
}

func TestCreateCompanyAndResponse(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /companies/", func(w http.ResponseWriter, r *http.Request) {
		var profile entity.CompanyProfile
		if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
			t.Errorf("decode profile: %v", err)
			return
		}
		if profile != entity.PlaceholderCompany().Profile() {
			t.Errorf("unexpected profile %+v", profile)
		}
		w.Write([]byte(`{"company_id":42}`))
	})
	mux.HandleFunc("POST /responses/", func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if string(body) != `{"company_id":42}` {
			t.Errorf("unexpected body %s", body)
		}
		w.Write([]byte(`{"response_id":7,"company_id":42}`))
	})

	c := newTestConnector(t, mux)
	ctx := context.Background()

	company, err := c.CreateCompany(ctx, entity.PlaceholderCompany().Profile())
	if err != nil {
		t.Fatalf("create company: %v", err)
	}
	if company.CompanyID != 42 {
		t.Fatalf("expected company 42, got %d", company.CompanyID)
	}

	resp, err := c.CreateResponse(ctx, company.CompanyID)
	if err != nil {
		t.Fatalf("create response: %v", err)
	}
	if resp.ResponseID != 7 {
		t.Fatalf("expected response 7, got %d", resp.ResponseID)
	}
}

func TestCreateCompany_NotRetried(t *testing.T) {
	var calls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("POST /companies/", func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	c := newTestConnector(t, mux)
	if _, err := c.CreateCompany(context.Background(), entity.PlaceholderCompany().Profile()); err == nil {
		t.Fatal("expected error")
	}
	if calls.Load() != 1 {
		t.Fatalf("expected a single attempt, got %d", calls.Load())
	}
}

func TestGetQuestionnaire_RetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("GET /questionnaire/", func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"dimensions":[]}`))
	})

	c := newTestConnector(t, mux)
	q, err := c.GetQuestionnaire(context.Background())
	if err != nil {
		t.Fatalf("get questionnaire: %v", err)
	}
	if string(q) != `{"dimensions":[]}` {
		t.Fatalf("unexpected questionnaire %s", q)
	}
	if calls.Load() != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls.Load())
	}
}

func TestGetQuestionnaire_NullIsAbsent(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /questionnaire/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`null`))
	})

	c := newTestConnector(t, mux)
	_, err := c.GetQuestionnaire(context.Background())
	if !errors.Is(err, entity.ErrQuestionnaireAbsent) {
		t.Fatalf("expected ErrQuestionnaireAbsent, got %v", err)
	}
}

func TestCompleteAssessment_SendsCompanyDetailsOnce(t *testing.T) {
	var calls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("POST /responses/7/complete", func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		var req entity.CompleteAssessmentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode: %v", err)
			return
		}
		if req.CompanyDetails.CompanyName != "Acme" {
			t.Errorf("unexpected company %+v", req.CompanyDetails)
		}
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"detail":"Scoring engine unavailable"}`))
	})

	company, err := entity.FinalizeCompany(entity.CompanyProfile{
		CompanyName:       " Acme ",
		Industry:          "Retail",
		NumberOfEmployees: "11-50",
		Email:             "ops@acme.test",
	})
	if err != nil {
		t.Fatalf("finalize: %v", err)
	}

	c := newTestConnector(t, mux)
	err = c.CompleteAssessment(context.Background(), 7, company)
	if err == nil {
		t.Fatal("expected error")
	}
	if calls.Load() != 1 {
		t.Fatalf("completion must not be retried, got %d calls", calls.Load())
	}
	if msg := BackendMessage(err); msg != "Scoring engine unavailable" {
		t.Fatalf("unexpected backend message %q", msg)
	}
}

func TestGetResults_NotFound(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /responses/9/results", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"detail":"Response not found"}`))
	})

	c := newTestConnector(t, mux)
	_, err := c.GetResults(context.Background(), 9)
	if !errors.Is(err, entity.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDownloadReport(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /responses/7/pdf", func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("format"); got != "pdf" {
			t.Errorf("expected format=pdf, got %q", got)
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.Write([]byte("%PDF-1.4 test"))
	})
	mux.HandleFunc("GET /responses/8/pdf", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
	})

	c := newTestConnector(t, mux)

	doc, err := c.DownloadReport(context.Background(), 7, entity.ReportFormatPDF)
	if err != nil {
		t.Fatalf("download: %v", err)
	}
	if doc.ContentType != "application/pdf" || string(doc.Body) != "%PDF-1.4 test" {
		t.Fatalf("unexpected document %+v", doc)
	}

	if _, err := c.DownloadReport(context.Background(), 8, entity.ReportFormatPDF); err == nil {
		t.Fatal("expected error for empty document")
	}
}

func TestBackendMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "detail string",
			err:  &pkghttp.HTTPError{StatusCode: 400, Message: `{"detail":"Company not found"}`},
			want: "Company not found",
		},
		{
			name: "validation list",
			err:  &pkghttp.HTTPError{StatusCode: 422, Message: `{"detail":[{"msg":"field required"},{"msg":"invalid email"}]}`},
			want: "field required; invalid email",
		},
		{
			name: "message field",
			err:  &pkghttp.HTTPError{StatusCode: 500, Message: `{"message":"boom"}`},
			want: "boom",
		},
		{
			name: "plain body",
			err:  &pkghttp.HTTPError{StatusCode: 502, Message: "bad gateway"},
			want: "bad gateway",
		},
		{
			name: "empty body",
			err:  &pkghttp.HTTPError{StatusCode: 503},
			want: "Service Unavailable",
		},
		{
			name: "non http error",
			err:  errors.New("dial tcp: refused"),
			want: "dial tcp: refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BackendMessage(tt.err); got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}
