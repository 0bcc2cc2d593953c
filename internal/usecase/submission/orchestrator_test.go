package submission

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/futig/ai-compass/internal/entity"
	"github.com/futig/ai-compass/internal/pkg/mindelay/mindelaytest"
	"github.com/futig/ai-compass/internal/storage/session"
	pkghttp "github.com/futig/ai-compass/pkg/http"
)

const minDisplay = 3 * time.Second

type fakeCompletion struct {
	clock   *mindelaytest.FakeClock
	latency time.Duration
	err     error
	// entered, when set, is signalled when a call starts; release then holds it.
	entered chan struct{}
	release chan struct{}

	calls       atomic.Int32
	lastCompany entity.CompanyProfile
	lastID      int64
}

func (f *fakeCompletion) CompleteAssessment(ctx context.Context, responseID int64, company entity.FinalizedCompany) error {
	f.calls.Add(1)
	f.lastID = responseID
	f.lastCompany = company.Profile()
	if f.entered != nil {
		f.entered <- struct{}{}
		<-f.release
	}
	f.clock.Advance(f.latency)
	return f.err
}

func validProfile() entity.CompanyProfile {
	return entity.CompanyProfile{
		CompanyName:       "Acme",
		Industry:          "Retail",
		NumberOfEmployees: "11-50",
		City:              "Berlin",
		Email:             "ops@acme.test",
	}
}

func newOrchestrator(t *testing.T, conn *fakeCompletion) *Orchestrator {
	t.Helper()

	sessionCtx := session.NewContext(session.NewMemoryStore())
	if err := sessionCtx.Create(entity.VisitorSession{CompanyID: 42, ResponseID: 7}); err != nil {
		t.Fatal(err)
	}
	return NewOrchestrator(conn, sessionCtx, conn.clock, minDisplay)
}

func TestSubmit_ConsentRequired(t *testing.T) {
	conn := &fakeCompletion{clock: mindelaytest.NewFakeClock()}
	o := newOrchestrator(t, conn)

	_, err := o.Submit(context.Background(), SubmitRequest{Consent: false, Profile: validProfile()})
	if !errors.Is(err, entity.ErrConsentRequired) {
		t.Fatalf("expected ErrConsentRequired, got %v", err)
	}
	if conn.calls.Load() != 0 {
		t.Fatalf("expected no network call, got %d", conn.calls.Load())
	}
	if o.State() != entity.SubmissionStateIdle {
		t.Fatalf("expected idle, got %s", o.State())
	}
}

func TestSubmit_MissingFields(t *testing.T) {
	conn := &fakeCompletion{clock: mindelaytest.NewFakeClock()}
	o := newOrchestrator(t, conn)

	profile := validProfile()
	profile.Email = "  "
	_, err := o.Submit(context.Background(), SubmitRequest{Consent: true, Profile: profile})
	if !errors.Is(err, entity.ErrMissingField) {
		t.Fatalf("expected ErrMissingField, got %v", err)
	}
	if conn.calls.Load() != 0 || o.State() != entity.SubmissionStateIdle {
		t.Fatalf("expected idle with no calls, got %s/%d", o.State(), conn.calls.Load())
	}
}

func TestSubmit_NoSession(t *testing.T) {
	conn := &fakeCompletion{clock: mindelaytest.NewFakeClock()}
	o := NewOrchestrator(conn, session.NewContext(session.NewMemoryStore()), conn.clock, minDisplay)

	_, err := o.Submit(context.Background(), SubmitRequest{Consent: true, Profile: validProfile()})
	if !errors.Is(err, entity.ErrNoActiveSession) {
		t.Fatalf("expected ErrNoActiveSession, got %v", err)
	}
}

func TestSubmit_SessionMismatch(t *testing.T) {
	conn := &fakeCompletion{clock: mindelaytest.NewFakeClock()}
	o := newOrchestrator(t, conn)

	_, err := o.Submit(context.Background(), SubmitRequest{ResponseID: 8, Consent: true, Profile: validProfile()})
	if !errors.Is(err, entity.ErrSessionMismatch) {
		t.Fatalf("expected ErrSessionMismatch, got %v", err)
	}
	if conn.calls.Load() != 0 {
		t.Fatal("expected no network call")
	}
}

func TestSubmit_HoldsForMinimumDisplay(t *testing.T) {
	tests := []struct {
		name     string
		latency  time.Duration
		wantWait []time.Duration
	}{
		{name: "fast backend", latency: 200 * time.Millisecond, wantWait: []time.Duration{2800 * time.Millisecond}},
		{name: "slow backend", latency: 5 * time.Second, wantWait: nil},
		{name: "exact floor", latency: minDisplay, wantWait: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock := mindelaytest.NewFakeClock()
			conn := &fakeCompletion{clock: clock, latency: tt.latency}
			o := newOrchestrator(t, conn)
			start := clock.Now()

			outcome, err := o.Submit(context.Background(), SubmitRequest{ResponseID: 7, Consent: true, Profile: validProfile()})
			if err != nil {
				t.Fatalf("submit: %v", err)
			}

			waits := clock.Waits()
			if len(waits) != len(tt.wantWait) {
				t.Fatalf("expected waits %v, got %v", tt.wantWait, waits)
			}
			for i := range waits {
				if waits[i] != tt.wantWait[i] {
					t.Fatalf("expected waits %v, got %v", tt.wantWait, waits)
				}
			}

			elapsed := clock.Now().Sub(start)
			wantElapsed := max(tt.latency, minDisplay)
			if elapsed != wantElapsed {
				t.Fatalf("expected %s visible, got %s", wantElapsed, elapsed)
			}

			if outcome.ResultsPath != "/results/7" || outcome.State != entity.SubmissionStateComplete {
				t.Fatalf("unexpected outcome %+v", outcome)
			}
			if o.State() != entity.SubmissionStateComplete {
				t.Fatalf("expected complete, got %s", o.State())
			}
			if conn.lastID != 7 || conn.lastCompany.CompanyName != "Acme" {
				t.Fatalf("unexpected completion call %d %+v", conn.lastID, conn.lastCompany)
			}
		})
	}
}

func TestSubmit_FailureReturnsToIdle(t *testing.T) {
	clock := mindelaytest.NewFakeClock()
	conn := &fakeCompletion{
		clock:   clock,
		latency: 100 * time.Millisecond,
		err:     &pkghttp.HTTPError{StatusCode: 400, Message: `{"detail":"Response already completed"}`},
	}
	o := newOrchestrator(t, conn)

	_, err := o.Submit(context.Background(), SubmitRequest{Consent: true, Profile: validProfile()})

	var subErr *entity.SubmissionError
	if !errors.As(err, &subErr) {
		t.Fatalf("expected SubmissionError, got %v", err)
	}
	if subErr.Message != "Response already completed" {
		t.Fatalf("expected verbatim backend message, got %q", subErr.Message)
	}
	if o.State() != entity.SubmissionStateIdle {
		t.Fatalf("expected idle after failure, got %s", o.State())
	}
	if len(clock.Waits()) != 0 {
		t.Fatalf("failures must not be held, got waits %v", clock.Waits())
	}

	// The visitor may retry manually.
	conn.err = nil
	if _, err := o.Submit(context.Background(), SubmitRequest{Consent: true, Profile: validProfile()}); err != nil {
		t.Fatalf("resubmit: %v", err)
	}
	if conn.calls.Load() != 2 {
		t.Fatalf("expected 2 calls, got %d", conn.calls.Load())
	}
}

func TestSubmit_DoubleSubmitMakesOneCall(t *testing.T) {
	clock := mindelaytest.NewFakeClock()
	conn := &fakeCompletion{
		clock:   clock,
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	o := newOrchestrator(t, conn)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if _, err := o.Submit(context.Background(), SubmitRequest{Consent: true, Profile: validProfile()}); err != nil {
			t.Errorf("first submit: %v", err)
		}
	}()

	<-conn.entered
	if o.State() != entity.SubmissionStateAnalyzing {
		t.Fatalf("expected analyzing, got %s", o.State())
	}

	_, err := o.Submit(context.Background(), SubmitRequest{Consent: true, Profile: validProfile()})
	if !errors.Is(err, entity.ErrSubmissionInProgress) {
		t.Fatalf("expected ErrSubmissionInProgress, got %v", err)
	}

	close(conn.release)
	wg.Wait()

	if conn.calls.Load() != 1 {
		t.Fatalf("expected one completion call, got %d", conn.calls.Load())
	}

	_, err = o.Submit(context.Background(), SubmitRequest{Consent: true, Profile: validProfile()})
	if !errors.Is(err, entity.ErrSubmissionCompleted) {
		t.Fatalf("expected ErrSubmissionCompleted, got %v", err)
	}
}

func TestSubmit_CancelledHoldStillCompletes(t *testing.T) {
	clock := mindelaytest.NewFakeClock()
	clock.Block()
	conn := &fakeCompletion{clock: clock, latency: 100 * time.Millisecond}
	o := newOrchestrator(t, conn)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := o.Submit(ctx, SubmitRequest{Consent: true, Profile: validProfile()})
		done <- err
	}()

	for len(clock.Waits()) == 0 {
		time.Sleep(time.Millisecond)
	}
	cancel()

	if err := <-done; err != nil {
		t.Fatalf("expected completed outcome, got %v", err)
	}
	if o.State() != entity.SubmissionStateComplete {
		t.Fatalf("expected complete, got %s", o.State())
	}
}

func TestReset(t *testing.T) {
	clock := mindelaytest.NewFakeClock()
	o := newOrchestrator(t, &fakeCompletion{clock: clock})

	if _, err := o.Submit(context.Background(), SubmitRequest{Consent: true, Profile: validProfile()}); err != nil {
		t.Fatal(err)
	}
	o.Reset()
	if o.State() != entity.SubmissionStateIdle {
		t.Fatalf("expected idle after reset, got %s", o.State())
	}
}
