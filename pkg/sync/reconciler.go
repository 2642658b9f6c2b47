package sync

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/censo-resguardo/censo-backend/pkg/db/remote"
	"github.com/censo-resguardo/censo-backend/pkg/survey/types"
)

// ErrNoRemote is returned by Stats when the reconciler was built without a
// remote connection.
var ErrNoRemote = errors.New("no remote connection")

// RemoteStore is the narrow surface of the remote document store the
// reconciler needs. GetSurveyorByName returns mongo.ErrNoDocuments for an
// unknown name.
type RemoteStore interface {
	SaveSurvey(record types.SurveyRecord, surveyorID string) (string, error)
	SaveSurveyor(surveyor types.Surveyor) (string, error)
	GetSurveyorByName(name string) (types.Surveyor, error)
	UpdateSurveyorLastActive(surveyorID string) error
	GetSurveyStats() (remote.SurveyStats, error)
}

// RecordFlagger marks local records as submitted after a confirmed push.
// This is the only local mutation the reconciler performs.
type RecordFlagger interface {
	MarkSubmitted(id string, remoteID string) error
}

// Reconciler opportunistically pushes completed local records to the
// remote store and resolves surveyor identity there. Every remote failure
// degrades to local-only operation; nothing here is surfaced to the end
// user as an error.
type Reconciler struct {
	remote  RemoteStore
	flagger RecordFlagger
}

func NewReconciler(remoteStore RemoteStore, flagger RecordFlagger) *Reconciler {
	return &Reconciler{
		remote:  remoteStore,
		flagger: flagger,
	}
}

// ReconcileSurveyor resolves the remote identity for a surveyor name:
// found names get their last-active marker touched, unknown names are
// created. When the remote is unreachable a local placeholder identity
// with the reserved offline prefix is returned instead.
func (r *Reconciler) ReconcileSurveyor(ctx context.Context, name string) types.Surveyor {
	if r.remote == nil {
		return offlineSurveyor(name)
	}

	surveyor, err := r.remote.GetSurveyorByName(name)
	if err == nil {
		if err := r.remote.UpdateSurveyorLastActive(surveyor.ID); err != nil {
			slog.Warn("could not update surveyor last active", slog.String("surveyorId", surveyor.ID), slog.String("error", err.Error()))
		}
		return surveyor
	}

	if !errors.Is(err, mongo.ErrNoDocuments) {
		slog.Warn("remote surveyor lookup failed, using offline identity", slog.String("name", name), slog.String("error", err.Error()))
		return offlineSurveyor(name)
	}

	surveyor = types.Surveyor{
		Name:      name,
		LoginTime: time.Now(),
	}
	id, err := r.remote.SaveSurveyor(surveyor)
	if err != nil {
		slog.Warn("could not create remote surveyor, using offline identity", slog.String("name", name), slog.String("error", err.Error()))
		return offlineSurveyor(name)
	}
	surveyor.ID = id
	return surveyor
}

// PushCompleted pushes every completed or submitted record that has not
// been synced yet. Per-record failures are logged and skipped; the whole
// set is re-attempted wholesale on the next refresh. Returns the number of
// records pushed.
func (r *Reconciler) PushCompleted(ctx context.Context, records []types.SurveyRecord, surveyorID string) int {
	if r.remote == nil {
		slog.Debug("no remote connection, skipping push")
		return 0
	}
	pushed := 0
	for _, record := range records {
		if ctx.Err() != nil {
			slog.Debug("push cancelled", slog.String("error", ctx.Err().Error()))
			break
		}
		if record.Status != types.SURVEY_STATUS_COMPLETED && record.Status != types.SURVEY_STATUS_SUBMITTED {
			continue
		}
		if record.Synced {
			continue
		}

		remoteID, err := r.remote.SaveSurvey(record, surveyorID)
		if err != nil {
			slog.Warn("could not push survey record, will retry on next refresh", slog.String("surveyId", record.ID), slog.String("error", err.Error()))
			continue
		}
		pushed++

		if r.flagger != nil {
			if err := r.flagger.MarkSubmitted(record.ID, remoteID); err != nil {
				slog.Error("pushed record could not be flagged locally", slog.String("surveyId", record.ID), slog.String("error", err.Error()))
			}
		}
	}
	return pushed
}

// Stats returns the remote survey counts, recomputed on every call.
func (r *Reconciler) Stats(ctx context.Context) (remote.SurveyStats, error) {
	if r.remote == nil {
		return remote.SurveyStats{}, ErrNoRemote
	}
	return r.remote.GetSurveyStats()
}

func offlineSurveyor(name string) types.Surveyor {
	return types.Surveyor{
		ID:        types.OFFLINE_ID_PREFIX + uuid.NewString(),
		Name:      name,
		LoginTime: time.Now(),
	}
}
