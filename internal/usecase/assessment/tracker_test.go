package assessment

import (
	"context"
	"errors"
	"testing"

	"github.com/futig/ai-compass/internal/entity"
	"github.com/futig/ai-compass/internal/storage/session"
)

func TestRecordAnswer(t *testing.T) {
	sessionCtx := session.NewContext(session.NewMemoryStore())
	if err := sessionCtx.Create(entity.VisitorSession{CompanyID: 42, ResponseID: 7}); err != nil {
		t.Fatal(err)
	}
	conn := &fakeProgressConnector{}
	tracker := NewTracker(conn, sessionCtx)

	req := &entity.RecordAnswerRequest{QuestionID: 3, AnswerIDs: []int64{9, 10}}
	if err := tracker.RecordAnswer(context.Background(), req); err != nil {
		t.Fatalf("record answer: %v", err)
	}

	if got := conn.recorded[7][3]; len(got) != 2 {
		t.Fatalf("backend did not receive the answer: %v", conn.recorded)
	}

	answers, err := tracker.Answers()
	if err != nil {
		t.Fatal(err)
	}
	if got := answers[3]; len(got) != 2 || got[0] != 9 || got[1] != 10 {
		t.Fatalf("unexpected cached answers %v", answers)
	}
}

func TestRecordAnswer_BackendFailureKeepsCacheUntouched(t *testing.T) {
	sessionCtx := session.NewContext(session.NewMemoryStore())
	if err := sessionCtx.Create(entity.VisitorSession{CompanyID: 42, ResponseID: 7}); err != nil {
		t.Fatal(err)
	}
	tracker := NewTracker(&fakeProgressConnector{err: errors.New("boom")}, sessionCtx)

	if err := tracker.RecordAnswer(context.Background(), &entity.RecordAnswerRequest{QuestionID: 1, AnswerIDs: []int64{1}}); err == nil {
		t.Fatal("expected error")
	}

	answers, err := tracker.Answers()
	if err != nil {
		t.Fatal(err)
	}
	if len(answers) != 0 {
		t.Fatalf("expected no cached answers, got %v", answers)
	}
}

func TestRecordAnswer_NoSession(t *testing.T) {
	tracker := NewTracker(&fakeProgressConnector{}, session.NewContext(session.NewMemoryStore()))

	err := tracker.RecordAnswer(context.Background(), &entity.RecordAnswerRequest{QuestionID: 1, AnswerIDs: []int64{1}})
	if !errors.Is(err, entity.ErrNoActiveSession) {
		t.Fatalf("expected ErrNoActiveSession, got %v", err)
	}
}

func TestResults(t *testing.T) {
	want := &entity.AssessmentResult{ResponseID: 7, OverallScore: 3.2}
	tracker := NewTracker(&fakeProgressConnector{result: want}, session.NewContext(session.NewMemoryStore()))

	got, err := tracker.Results(context.Background(), 7)
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Fatalf("unexpected result %+v", got)
	}
}
