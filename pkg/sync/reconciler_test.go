package sync

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/censo-resguardo/censo-backend/pkg/db/remote"
	"github.com/censo-resguardo/censo-backend/pkg/survey/types"
)

type fakeRemote struct {
	surveyors map[string]types.Surveyor

	lookupErr      error
	saveSurveyErr  error
	savedSurveys   []types.SurveyRecord
	lastActiveIDs  []string
	nextSurveyorID string
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{
		surveyors:      map[string]types.Surveyor{},
		nextSurveyorID: "64f1a2b3c4d5e6f7a8b9c0d1",
	}
}

func (f *fakeRemote) SaveSurvey(record types.SurveyRecord, surveyorID string) (string, error) {
	if f.saveSurveyErr != nil {
		return "", f.saveSurveyErr
	}
	f.savedSurveys = append(f.savedSurveys, record)
	return "remote-" + record.ID, nil
}

func (f *fakeRemote) SaveSurveyor(surveyor types.Surveyor) (string, error) {
	surveyor.ID = f.nextSurveyorID
	f.surveyors[surveyor.Name] = surveyor
	return surveyor.ID, nil
}

func (f *fakeRemote) GetSurveyorByName(name string) (types.Surveyor, error) {
	if f.lookupErr != nil {
		return types.Surveyor{}, f.lookupErr
	}
	surveyor, ok := f.surveyors[name]
	if !ok {
		return types.Surveyor{}, mongo.ErrNoDocuments
	}
	return surveyor, nil
}

func (f *fakeRemote) UpdateSurveyorLastActive(surveyorID string) error {
	f.lastActiveIDs = append(f.lastActiveIDs, surveyorID)
	return nil
}

func (f *fakeRemote) GetSurveyStats() (remote.SurveyStats, error) {
	return remote.SurveyStats{Total: int64(len(f.savedSurveys))}, nil
}

type fakeFlagger struct {
	flagged map[string]string
}

func (f *fakeFlagger) MarkSubmitted(id string, remoteID string) error {
	if f.flagged == nil {
		f.flagged = map[string]string{}
	}
	f.flagged[id] = remoteID
	return nil
}

func TestReconcileSurveyor(t *testing.T) {
	t.Run("creates unknown name then finds the same identity", func(t *testing.T) {
		fake := newFakeRemote()
		r := NewReconciler(fake, nil)

		created := r.ReconcileSurveyor(context.Background(), "Maria")
		if created.ID != fake.nextSurveyorID {
			t.Fatalf("expected remote id, got %q", created.ID)
		}
		if created.IsOffline() {
			t.Fatal("remote identity must not carry the offline prefix")
		}

		found := r.ReconcileSurveyor(context.Background(), "Maria")
		if found.ID != created.ID {
			t.Errorf("second reconcile resolved a different identity: %q vs %q", found.ID, created.ID)
		}
		if len(fake.lastActiveIDs) != 1 || fake.lastActiveIDs[0] != created.ID {
			t.Errorf("found surveyor should get last active touched, got %v", fake.lastActiveIDs)
		}
	})

	t.Run("lookup failure degrades to offline identity", func(t *testing.T) {
		fake := newFakeRemote()
		fake.lookupErr = errors.New("connection refused")
		r := NewReconciler(fake, nil)

		surveyor := r.ReconcileSurveyor(context.Background(), "Maria")
		if !surveyor.IsOffline() {
			t.Fatalf("expected offline identity, got %q", surveyor.ID)
		}
		if !strings.HasPrefix(surveyor.ID, types.OFFLINE_ID_PREFIX) {
			t.Errorf("offline id missing prefix: %q", surveyor.ID)
		}
		if surveyor.Name != "Maria" {
			t.Errorf("name not carried on offline identity: %q", surveyor.Name)
		}
	})

	t.Run("nil remote yields offline identity", func(t *testing.T) {
		r := NewReconciler(nil, nil)
		surveyor := r.ReconcileSurveyor(context.Background(), "Maria")
		if !surveyor.IsOffline() {
			t.Fatalf("expected offline identity, got %q", surveyor.ID)
		}
	})
}

func TestPushCompleted(t *testing.T) {
	completed := func(id string) types.SurveyRecord {
		return types.SurveyRecord{ID: id, Status: types.SURVEY_STATUS_COMPLETED, StartTime: time.Now()}
	}

	t.Run("pushes only unsynced finished records", func(t *testing.T) {
		fake := newFakeRemote()
		flagger := &fakeFlagger{}
		r := NewReconciler(fake, flagger)

		alreadySynced := completed("survey_2")
		alreadySynced.Synced = true
		records := []types.SurveyRecord{
			{ID: "survey_1", Status: types.SURVEY_STATUS_DRAFT, StartTime: time.Now()},
			alreadySynced,
			completed("survey_3"),
		}

		pushed := r.PushCompleted(context.Background(), records, "surveyor-1")
		if pushed != 1 {
			t.Fatalf("expected 1 push, got %d", pushed)
		}
		if len(fake.savedSurveys) != 1 || fake.savedSurveys[0].ID != "survey_3" {
			t.Errorf("unexpected remote writes: %+v", fake.savedSurveys)
		}
		if flagger.flagged["survey_3"] != "remote-survey_3" {
			t.Errorf("pushed record not flagged: %v", flagger.flagged)
		}
	})

	t.Run("no finished records means no remote writes", func(t *testing.T) {
		fake := newFakeRemote()
		r := NewReconciler(fake, &fakeFlagger{})

		records := []types.SurveyRecord{
			{ID: "survey_1", Status: types.SURVEY_STATUS_DRAFT, StartTime: time.Now()},
		}
		if pushed := r.PushCompleted(context.Background(), records, "surveyor-1"); pushed != 0 {
			t.Fatalf("expected 0 pushes, got %d", pushed)
		}
		if len(fake.savedSurveys) != 0 {
			t.Errorf("unexpected remote writes: %+v", fake.savedSurveys)
		}
	})

	t.Run("per record failure skips without aborting", func(t *testing.T) {
		fake := newFakeRemote()
		fake.saveSurveyErr = errors.New("connection reset")
		flagger := &fakeFlagger{}
		r := NewReconciler(fake, flagger)

		pushed := r.PushCompleted(context.Background(), []types.SurveyRecord{completed("survey_1")}, "surveyor-1")
		if pushed != 0 {
			t.Fatalf("expected 0 pushes, got %d", pushed)
		}
		if len(flagger.flagged) != 0 {
			t.Errorf("failed push must not flag: %v", flagger.flagged)
		}
	})

	t.Run("nil remote pushes nothing", func(t *testing.T) {
		r := NewReconciler(nil, &fakeFlagger{})
		if pushed := r.PushCompleted(context.Background(), []types.SurveyRecord{completed("survey_1")}, "surveyor-1"); pushed != 0 {
			t.Fatalf("expected 0 pushes, got %d", pushed)
		}
	})

	t.Run("cancelled context stops the loop", func(t *testing.T) {
		fake := newFakeRemote()
		r := NewReconciler(fake, &fakeFlagger{})

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		pushed := r.PushCompleted(ctx, []types.SurveyRecord{completed("survey_1"), completed("survey_2")}, "surveyor-1")
		if pushed != 0 {
			t.Fatalf("expected 0 pushes after cancellation, got %d", pushed)
		}
		if len(fake.savedSurveys) != 0 {
			t.Errorf("unexpected remote writes: %+v", fake.savedSurveys)
		}
	})
}

func TestStats(t *testing.T) {
	fake := newFakeRemote()
	fake.savedSurveys = []types.SurveyRecord{{ID: "survey_1"}}
	r := NewReconciler(fake, nil)

	stats, err := r.Stats(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.Total != 1 {
		t.Errorf("expected total 1, got %d", stats.Total)
	}

	t.Run("nil remote", func(t *testing.T) {
		r := NewReconciler(nil, nil)
		if _, err := r.Stats(context.Background()); !errors.Is(err, ErrNoRemote) {
			t.Fatalf("expected ErrNoRemote, got %v", err)
		}
	})
}
