package remote

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/censo-resguardo/censo-backend/pkg/survey/types"
)

// RemoteSurveyor is the surveyors collection document. The document id is
// the authoritative surveyor identity once assigned.
type RemoteSurveyor struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Name         string             `bson:"name"`
	Email        string             `bson:"email,omitempty"`
	AssignedArea string             `bson:"assignedArea,omitempty"`
	LoginTime    time.Time          `bson:"loginTime"`
	CreatedAt    time.Time          `bson:"createdAt"`
	LastActive   time.Time          `bson:"lastActive"`
}

func (r RemoteSurveyor) ToSurveyor() types.Surveyor {
	return types.Surveyor{
		ID:           r.ID.Hex(),
		Name:         r.Name,
		Email:        r.Email,
		AssignedArea: r.AssignedArea,
		LoginTime:    r.LoginTime,
		LastActive:   r.LastActive,
	}
}

// SaveSurveyor creates the remote identity for a surveyor and returns the
// assigned id.
func (dbService *RemoteDBService) SaveSurveyor(surveyor types.Surveyor) (string, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	now := time.Now()
	doc := RemoteSurveyor{
		Name:         surveyor.Name,
		Email:        surveyor.Email,
		AssignedArea: surveyor.AssignedArea,
		LoginTime:    surveyor.LoginTime,
		CreatedAt:    now,
		LastActive:   now,
	}

	ret, err := dbService.collectionSurveyors().InsertOne(ctx, doc)
	if err != nil {
		return "", err
	}
	return ret.InsertedID.(primitive.ObjectID).Hex(), nil
}

// GetSurveyorByName looks up a surveyor by its primary lookup key. Returns
// mongo.ErrNoDocuments when the name is unknown.
func (dbService *RemoteDBService) GetSurveyorByName(name string) (surveyor types.Surveyor, err error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	var doc RemoteSurveyor
	err = dbService.collectionSurveyors().FindOne(ctx, bson.M{"name": name}).Decode(&doc)
	if err != nil {
		return surveyor, err
	}
	return doc.ToSurveyor(), nil
}

func (dbService *RemoteDBService) GetAllSurveyors() (surveyors []types.Surveyor, err error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	cur, err := dbService.collectionSurveyors().Find(ctx, bson.M{})
	if err != nil {
		return surveyors, err
	}

	var docs []RemoteSurveyor
	if err = cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	surveyors = make([]types.Surveyor, len(docs))
	for i, doc := range docs {
		surveyors[i] = doc.ToSurveyor()
	}
	return surveyors, nil
}

// UpdateSurveyorLastActive touches the last-active marker.
func (dbService *RemoteDBService) UpdateSurveyorLastActive(surveyorID string) error {
	ctx, cancel := dbService.getContext()
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(surveyorID)
	if err != nil {
		return err
	}

	_, err = dbService.collectionSurveyors().UpdateOne(
		ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"lastActive": time.Now()}},
	)
	return err
}
