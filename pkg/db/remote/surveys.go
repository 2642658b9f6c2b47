package remote

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/censo-resguardo/censo-backend/pkg/survey/types"
)

// RemoteSurvey is the surveys collection document: the local record plus
// server-side bookkeeping fields.
type RemoteSurvey struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty"`
	types.SurveyRecord `bson:",inline"`
	CreatedAt          time.Time `bson:"createdAt"`
	UpdatedAt          time.Time `bson:"updatedAt"`
}

// SurveyStats is the on-demand status breakdown of the surveys collection.
type SurveyStats struct {
	Total     int64 `json:"total"`
	Completed int64 `json:"completed"`
	Draft     int64 `json:"draft"`
	Submitted int64 `json:"submitted"`
}

// SaveSurvey pushes a copy of a local record and returns the remote id. No
// idempotency key is enforced here: pushing the same record twice creates
// two remote documents.
func (dbService *RemoteDBService) SaveSurvey(record types.SurveyRecord, surveyorID string) (string, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	now := time.Now()
	doc := RemoteSurvey{
		SurveyRecord: record,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	doc.SurveyorID = surveyorID
	doc.Synced = true

	ret, err := dbService.collectionSurveys().InsertOne(ctx, doc)
	if err != nil {
		return "", err
	}
	return ret.InsertedID.(primitive.ObjectID).Hex(), nil
}

// UpdateSurvey applies a partial update and touches the updatedAt marker.
func (dbService *RemoteDBService) UpdateSurvey(remoteID string, updates bson.M) error {
	ctx, cancel := dbService.getContext()
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(remoteID)
	if err != nil {
		return err
	}

	if updates == nil {
		updates = bson.M{}
	}
	updates["updatedAt"] = time.Now()

	_, err = dbService.collectionSurveys().UpdateOne(
		ctx,
		bson.M{"_id": oid},
		bson.M{"$set": updates},
	)
	return err
}

// GetSurveysBySurveyor lists a surveyor's pushed records, newest first.
func (dbService *RemoteDBService) GetSurveysBySurveyor(surveyorID string) (surveys []RemoteSurvey, err error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	opts := &options.FindOptions{}
	opts.SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cur, err := dbService.collectionSurveys().Find(
		ctx,
		bson.M{"surveyorId": surveyorID},
		opts,
	)
	if err != nil {
		return surveys, err
	}

	if err = cur.All(ctx, &surveys); err != nil {
		return nil, err
	}
	return surveys, nil
}

func (dbService *RemoteDBService) GetSurveyByID(remoteID string) (survey RemoteSurvey, err error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(remoteID)
	if err != nil {
		return survey, err
	}

	err = dbService.collectionSurveys().FindOne(ctx, bson.M{"_id": oid}).Decode(&survey)
	return survey, err
}

func (dbService *RemoteDBService) DeleteSurvey(remoteID string) error {
	ctx, cancel := dbService.getContext()
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(remoteID)
	if err != nil {
		return err
	}

	_, err = dbService.collectionSurveys().DeleteOne(ctx, bson.M{"_id": oid})
	return err
}

// GetSurveyStats counts surveys by status with a full collection scan,
// recomputed on demand and never cached.
func (dbService *RemoteDBService) GetSurveyStats() (stats SurveyStats, err error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	cur, err := dbService.collectionSurveys().Find(ctx, bson.M{})
	if err != nil {
		return stats, err
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var doc struct {
			Status string `bson:"status"`
		}
		if err := cur.Decode(&doc); err != nil {
			continue
		}
		stats.Total++
		switch doc.Status {
		case types.SURVEY_STATUS_COMPLETED:
			stats.Completed++
		case types.SURVEY_STATUS_DRAFT:
			stats.Draft++
		case types.SURVEY_STATUS_SUBMITTED:
			stats.Submitted++
		}
	}
	return stats, cur.Err()
}
