package responses

import (
	"log/slog"
	"sync"
	"time"

	"github.com/censo-resguardo/censo-backend/pkg/survey/types"
)

// Persister receives the full answer set of a survey after every mutation.
// Writes are fire-and-forget: a failing persister is logged and the
// in-memory state stays the source of truth for the session.
type Persister interface {
	SaveResponses(surveyID string, responses []types.Response) error
}

// Store owns the live question-id to answer mapping of the survey in
// progress.
type Store struct {
	mu         sync.Mutex
	surveyID   string
	questions  []types.Question
	values     map[string]types.AnswerValue
	timestamps map[string]time.Time
	persister  Persister
	pending    sync.WaitGroup

	// serializes durable writes so the last one always holds the newest
	// snapshot
	persistMu sync.Mutex
}

func NewStore(surveyID string, questions []types.Question, persister Persister) *Store {
	return &Store{
		surveyID:   surveyID,
		questions:  questions,
		values:     map[string]types.AnswerValue{},
		timestamps: map[string]time.Time{},
		persister:  persister,
	}
}

// Get returns the current answer for a question id; ok is false when the
// question is unanswered.
func (s *Store) Get(questionID string) (value types.AnswerValue, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	value, ok = s.values[questionID]
	return value, ok
}

// Set records an answer. For multi-choice questions a single-selection
// value toggles membership in the selection set instead of overwriting;
// setting the same option twice restores the previous set.
func (s *Store) Set(questionID string, value types.AnswerValue) {
	s.mu.Lock()

	if s.isMultiChoice(questionID) && value.Type == types.ANSWER_TYPE_SELECTION {
		value = s.values[questionID].WithToggled(value.Selection)
	}

	if value.IsBlank() {
		// an emptied value counts as unanswered and drops its entry
		delete(s.values, questionID)
		delete(s.timestamps, questionID)
	} else {
		s.values[questionID] = value
		s.timestamps[questionID] = time.Now()
	}

	s.mu.Unlock()

	s.persistAsync()
}

// Toggle flips membership of option in a multi-choice answer.
func (s *Store) Toggle(questionID string, option string) {
	s.Set(questionID, types.SelectionAnswer(option))
}

// Snapshot returns the answered questions in catalog order.
func (s *Store) Snapshot() []types.Response {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Len returns the number of answered questions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.values)
}

// ReplaceAll loads a previously persisted answer set, used when resuming a
// draft. No durable write is triggered.
func (s *Store) ReplaceAll(saved []types.Response) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values = map[string]types.AnswerValue{}
	s.timestamps = map[string]time.Time{}
	for _, r := range saved {
		if r.Value.IsBlank() {
			continue
		}
		s.values[r.QuestionID] = r.Value
		s.timestamps[r.QuestionID] = r.Timestamp
	}
}

// Flush waits for in-flight durable writes, used on session teardown and
// in tests.
func (s *Store) Flush() {
	s.pending.Wait()
}

func (s *Store) snapshotLocked() []types.Response {
	out := make([]types.Response, 0, len(s.values))
	for _, q := range s.questions {
		value, ok := s.values[q.ID]
		if !ok {
			continue
		}
		out = append(out, types.Response{
			QuestionID: q.ID,
			Value:      value,
			Timestamp:  s.timestamps[q.ID],
		})
	}
	return out
}

func (s *Store) isMultiChoice(questionID string) bool {
	for _, q := range s.questions {
		if q.ID == questionID {
			return q.Kind == types.QUESTION_KIND_MULTI_CHOICE
		}
	}
	return false
}

// persistAsync hands the durable write to a goroutine. Writers take
// persistMu and only then snapshot, so a slow earlier write can never land
// after a later one with older data: whichever write finishes last carries
// the newest state.
func (s *Store) persistAsync() {
	if s.persister == nil {
		return
	}
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		s.persistMu.Lock()
		defer s.persistMu.Unlock()
		if err := s.persister.SaveResponses(s.surveyID, s.Snapshot()); err != nil {
			slog.Error("failed to persist survey answers", slog.String("surveyId", s.surveyID), slog.String("error", err.Error()))
		}
	}()
}
