package localstore

import (
	"encoding/json"

	"github.com/censo-resguardo/censo-backend/pkg/survey/types"
)

// well-known keys of the local store
const (
	KEY_CURRENT_SURVEYOR  = "currentSurveyor"
	KEY_SURVEY_COLLECTION = "savedSurveys"
	KEY_SURVEY_ANSWERS    = "surveyAnswers"
)

// SaveSurveyor persists the current surveyor identity.
func (s *Store) SaveSurveyor(surveyor types.Surveyor) error {
	data, err := json.Marshal(surveyor)
	if err != nil {
		return err
	}
	return s.Set(KEY_CURRENT_SURVEYOR, string(data))
}

// LoadSurveyor returns the stored identity; found is false when no
// surveyor has logged in on this device yet.
func (s *Store) LoadSurveyor() (surveyor types.Surveyor, found bool, err error) {
	data, found, err := s.Get(KEY_CURRENT_SURVEYOR)
	if err != nil || !found {
		return surveyor, false, err
	}
	if err := json.Unmarshal([]byte(data), &surveyor); err != nil {
		return surveyor, false, err
	}
	return surveyor, true, nil
}

func (s *Store) ClearSurveyor() error {
	return s.Delete(KEY_CURRENT_SURVEYOR)
}

// SaveSurveyCollection writes the whole local survey collection.
func (s *Store) SaveSurveyCollection(records []types.SurveyRecord) error {
	data, err := json.Marshal(records)
	if err != nil {
		return err
	}
	return s.Set(KEY_SURVEY_COLLECTION, string(data))
}

// LoadSurveyCollection reads the whole local survey collection; a missing
// key yields an empty collection.
func (s *Store) LoadSurveyCollection() ([]types.SurveyRecord, error) {
	data, found, err := s.Get(KEY_SURVEY_COLLECTION)
	if err != nil {
		return nil, err
	}
	if !found {
		return []types.SurveyRecord{}, nil
	}
	var records []types.SurveyRecord
	if err := json.Unmarshal([]byte(data), &records); err != nil {
		return nil, err
	}
	return records, nil
}

// SaveResponses persists the in-progress answer map of one survey.
func (s *Store) SaveResponses(surveyID string, responses []types.Response) error {
	data, err := json.Marshal(responses)
	if err != nil {
		return err
	}
	return s.Set(KEY_SURVEY_ANSWERS+":"+surveyID, string(data))
}

func (s *Store) LoadResponses(surveyID string) ([]types.Response, error) {
	data, found, err := s.Get(KEY_SURVEY_ANSWERS + ":" + surveyID)
	if err != nil || !found {
		return nil, err
	}
	var responses []types.Response
	if err := json.Unmarshal([]byte(data), &responses); err != nil {
		return nil, err
	}
	return responses, nil
}
