package session

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/censo-resguardo/censo-backend/pkg/survey/responses"
	"github.com/censo-resguardo/censo-backend/pkg/survey/types"
)

type capturingSink struct {
	mu      sync.Mutex
	upserts []types.SurveyRecord
}

func (s *capturingSink) Upsert(record types.SurveyRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.upserts = append(s.upserts, record)
	return nil
}

func (s *capturingSink) lastStatus() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.upserts) == 0 {
		return ""
	}
	return s.upserts[len(s.upserts)-1].Status
}

func twoRequiredQuestions() []types.Question {
	return []types.Question{
		{ID: "q1", Order: 1, Prompt: "Nombre completo", Kind: types.QUESTION_KIND_TEXT, Required: true},
		{ID: "q2", Order: 2, Prompt: "Tipo de vivienda", Kind: types.QUESTION_KIND_SINGLE_CHOICE, Options: []string{"Casa", "Apartamento"}, Required: true},
	}
}

func draftRecord(id string) types.SurveyRecord {
	return types.SurveyRecord{
		ID:        id,
		Status:    types.SURVEY_STATUS_DRAFT,
		Responses: []types.Response{},
		StartTime: time.Now(),
	}
}

func newTestSession(questions []types.Question, sink RecordSink) *Session {
	record := draftRecord("survey_1")
	answers := responses.NewStore(record.ID, questions, nil)
	return New(questions, record, answers, sink)
}

func TestAdvanceValidation(t *testing.T) {
	sink := &capturingSink{}
	s := newTestSession(twoRequiredQuestions(), sink)

	t.Run("required unanswered blocks", func(t *testing.T) {
		err := s.Advance()
		if !errors.Is(err, ErrRequiredUnanswered) {
			t.Fatalf("expected ErrRequiredUnanswered, got %v", err)
		}
		if s.Index() != 0 {
			t.Errorf("index moved on failed advance: %d", s.Index())
		}
	})

	t.Run("answered advances and persists draft", func(t *testing.T) {
		s.Answers().Set("q1", types.TextAnswer("Maria"))
		if err := s.Advance(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if s.Index() != 1 {
			t.Errorf("expected index 1, got %d", s.Index())
		}
		if sink.lastStatus() != types.SURVEY_STATUS_DRAFT {
			t.Errorf("expected draft persisted, got %q", sink.lastStatus())
		}
	})

	t.Run("second question still unanswered blocks again", func(t *testing.T) {
		err := s.Advance()
		if !errors.Is(err, ErrRequiredUnanswered) {
			t.Fatalf("expected ErrRequiredUnanswered, got %v", err)
		}
		if s.Index() != 1 {
			t.Errorf("index moved on failed advance: %d", s.Index())
		}
	})
}

func TestAdvanceCompletes(t *testing.T) {
	sink := &capturingSink{}
	s := newTestSession(twoRequiredQuestions(), sink)

	s.Answers().Set("q1", types.TextAnswer("Maria"))
	if err := s.Advance(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s.Answers().Set("q2", types.SelectionAnswer("Casa"))
	if err := s.Advance(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !s.IsCompleted() {
		t.Fatal("session should be completed")
	}
	if sink.lastStatus() != types.SURVEY_STATUS_COMPLETED {
		t.Errorf("expected completed persisted, got %q", sink.lastStatus())
	}

	record := s.Record()
	if record.EndTime == nil {
		t.Error("completed record should carry an end time")
	}
	if len(record.Responses) != 2 {
		t.Errorf("expected 2 responses, got %d", len(record.Responses))
	}

	if err := s.Advance(); !errors.Is(err, ErrSessionCompleted) {
		t.Errorf("expected ErrSessionCompleted after completion, got %v", err)
	}
}

func TestRetreat(t *testing.T) {
	s := newTestSession(twoRequiredQuestions(), &capturingSink{})

	// no-op at the first question
	s.Retreat()
	if s.Index() != 0 {
		t.Errorf("expected index 0, got %d", s.Index())
	}

	s.Answers().Set("q1", types.TextAnswer("Maria"))
	if err := s.Advance(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// no validation on the way back
	s.Retreat()
	if s.Index() != 0 {
		t.Errorf("expected index 0 after retreat, got %d", s.Index())
	}
}

func TestResume(t *testing.T) {
	questions := []types.Question{
		{ID: "q1", Order: 1, Prompt: "Nombre", Kind: types.QUESTION_KIND_TEXT},
		{ID: "q2", Order: 2, Prompt: "Edad en años cumplidos", Kind: types.QUESTION_KIND_NUMBER},
		{ID: "q3", Order: 3, Prompt: "Observaciones", Kind: types.QUESTION_KIND_TEXT},
	}

	record := draftRecord("survey_2")
	record.Responses = []types.Response{
		{QuestionID: "q1", Value: types.TextAnswer("Maria"), Timestamp: time.Now()},
		{QuestionID: "q2", Value: types.NumberAnswer("34"), Timestamp: time.Now()},
	}

	answers := responses.NewStore(record.ID, questions, nil)
	s := Resume(questions, record, answers, &capturingSink{})

	// re-enters at the last answered question, not the first unanswered
	if s.Index() != 1 {
		t.Errorf("expected resume at index 1, got %d", s.Index())
	}
	if s.Answers().Len() != 2 {
		t.Errorf("expected 2 restored answers, got %d", s.Answers().Len())
	}
}

func TestProgress(t *testing.T) {
	s := newTestSession(twoRequiredQuestions(), &capturingSink{})
	if s.Progress() != 50 {
		t.Errorf("expected 50%% at first of two questions, got %d", s.Progress())
	}

	s.Answers().Set("q1", types.TextAnswer("Maria"))
	if err := s.Advance(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Progress() != 100 {
		t.Errorf("expected 100%% at last question, got %d", s.Progress())
	}
}

func TestAttachLocation(t *testing.T) {
	sink := &capturingSink{}
	s := newTestSession(twoRequiredQuestions(), sink)

	t.Run("stale fix is dropped", func(t *testing.T) {
		if s.AttachLocation("survey_other", types.Coordinates{Latitude: 4.6, Longitude: -74.1}) {
			t.Error("fix for another survey id must be dropped")
		}
		if s.Record().Location != nil {
			t.Error("stale fix must not mutate the record")
		}
	})

	t.Run("current fix applies", func(t *testing.T) {
		if !s.AttachLocation("survey_1", types.Coordinates{Latitude: 4.6, Longitude: -74.1}) {
			t.Fatal("fix for the current survey should apply")
		}
		location := s.Record().Location
		if location == nil || location.Latitude != 4.6 {
			t.Errorf("unexpected location: %v", location)
		}
	})
}
