package types

import "time"

// survey record statuses
const (
	SURVEY_STATUS_DRAFT     = "draft"
	SURVEY_STATUS_COMPLETED = "completed"
	SURVEY_STATUS_SUBMITTED = "submitted"
)

// Response is the answer to one catalog question. QuestionID references the
// catalog by id without ownership; a dangling reference after a catalog
// change between sessions is a recognized inconsistency, not an error.
type Response struct {
	QuestionID string      `bson:"questionId" json:"questionId"`
	Value      AnswerValue `bson:"value" json:"value"`
	Timestamp  time.Time   `bson:"timestamp" json:"timestamp"`
}

// SurveyRecord is one census interview. ID is derived from the creation
// time and stays stable for the life of the record. Once the status is
// submitted the record is immutable in local storage; further edits create
// a new record.
type SurveyRecord struct {
	ID           string       `bson:"localId" json:"id"`
	RemoteID     string       `bson:"-" json:"remoteId,omitempty"`
	SurveyorID   string       `bson:"surveyorId" json:"surveyorId"`
	SurveyorName string       `bson:"surveyorName" json:"surveyorName"`
	Status       string       `bson:"status" json:"status"`
	Responses    []Response   `bson:"responses" json:"responses"`
	StartTime    time.Time    `bson:"startTime" json:"startTime"`
	EndTime      *time.Time   `bson:"endTime,omitempty" json:"endTime,omitempty"`
	Location     *Coordinates `bson:"location,omitempty" json:"location,omitempty"`
	Synced       bool         `bson:"synced" json:"synced"`
}

// SurveySummary is the list-view projection of a SurveyRecord.
type SurveySummary struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Status       string    `json:"status"`
	LastModified time.Time `json:"lastModified"`
	// Progress is percent complete: answered count over the known total
	// question count of the catalog.
	Progress int `json:"progress"`
}
