package records

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/censo-resguardo/censo-backend/pkg/survey/types"
)

// ErrRecordSubmitted is returned when a caller tries to mutate a record
// that already reached the submitted status. Submitted records are
// immutable; further edits create a new record.
var ErrRecordSubmitted = errors.New("survey record already submitted")

// CollectionStore persists the whole local survey collection at once.
type CollectionStore interface {
	LoadSurveyCollection() ([]types.SurveyRecord, error)
	SaveSurveyCollection(records []types.SurveyRecord) error
}

// Manager owns the persisted collection of survey records. Every mutation
// is a whole-collection read-modify-write, serialized by a mutex; that is
// an accepted trade-off at the expected scale of dozens of local records
// per device.
type Manager struct {
	mu             sync.Mutex
	store          CollectionStore
	totalQuestions int
}

func NewManager(store CollectionStore, totalQuestions int) *Manager {
	return &Manager{
		store:          store,
		totalQuestions: totalQuestions,
	}
}

// NewRecord creates a fresh draft record; the id is derived from the
// creation time and stays stable for the life of the record.
func NewRecord(surveyorID string, surveyorName string) types.SurveyRecord {
	now := time.Now()
	return types.SurveyRecord{
		ID:           fmt.Sprintf("survey_%d", now.UnixMilli()),
		SurveyorID:   surveyorID,
		SurveyorName: surveyorName,
		Status:       types.SURVEY_STATUS_DRAFT,
		Responses:    []types.Response{},
		StartTime:    now,
	}
}

// Upsert replaces the collection entry with a matching id or appends the
// record. Mutating a submitted record is rejected.
func (m *Manager) Upsert(record types.SurveyRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	collection, err := m.store.LoadSurveyCollection()
	if err != nil {
		return err
	}

	replaced := false
	for i, existing := range collection {
		if existing.ID != record.ID {
			continue
		}
		if existing.Status == types.SURVEY_STATUS_SUBMITTED {
			return ErrRecordSubmitted
		}
		collection[i] = record
		replaced = true
		break
	}
	if !replaced {
		collection = append(collection, record)
	}

	return m.store.SaveSurveyCollection(collection)
}

// Delete removes the record with the given id; deleting an unknown id is a
// no-op.
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	collection, err := m.store.LoadSurveyCollection()
	if err != nil {
		return err
	}

	filtered := collection[:0]
	for _, record := range collection {
		if record.ID != id {
			filtered = append(filtered, record)
		}
	}

	return m.store.SaveSurveyCollection(filtered)
}

// Get returns the record with the given id.
func (m *Manager) Get(id string) (record types.SurveyRecord, found bool, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	collection, err := m.store.LoadSurveyCollection()
	if err != nil {
		return record, false, err
	}
	for _, r := range collection {
		if r.ID == id {
			return r, true, nil
		}
	}
	return record, false, nil
}

// All returns the full local collection.
func (m *Manager) All() ([]types.SurveyRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.store.LoadSurveyCollection()
}

// List projects the collection to list-view summaries, in stored order.
func (m *Manager) List() ([]types.SurveySummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	collection, err := m.store.LoadSurveyCollection()
	if err != nil {
		return nil, err
	}

	summaries := make([]types.SurveySummary, len(collection))
	for i, record := range collection {
		lastModified := record.StartTime
		if record.EndTime != nil {
			lastModified = *record.EndTime
		}
		summaries[i] = types.SurveySummary{
			ID:           record.ID,
			Title:        fmt.Sprintf("Encuesta %d", i+1),
			Status:       record.Status,
			LastModified: lastModified,
			Progress:     m.progressOf(record),
		}
	}
	return summaries, nil
}

// MarkSubmitted flags a record as confirmed synced to the remote store.
// This is the one status transition allowed after completion.
func (m *Manager) MarkSubmitted(id string, remoteID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	collection, err := m.store.LoadSurveyCollection()
	if err != nil {
		return err
	}
	for i, record := range collection {
		if record.ID != id {
			continue
		}
		collection[i].Status = types.SURVEY_STATUS_SUBMITTED
		collection[i].RemoteID = remoteID
		collection[i].Synced = true
		return m.store.SaveSurveyCollection(collection)
	}
	return nil
}

func (m *Manager) progressOf(record types.SurveyRecord) int {
	if m.totalQuestions <= 0 || len(record.Responses) == 0 {
		return 0
	}
	return int(math.Round(float64(len(record.Responses)) / float64(m.totalQuestions) * 100))
}
