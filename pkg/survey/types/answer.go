package types

import (
	"strings"
)

// answer value types, matching the question kinds they answer
const (
	ANSWER_TYPE_TEXT        = "text"
	ANSWER_TYPE_NUMBER      = "number"
	ANSWER_TYPE_SELECTION   = "selection"
	ANSWER_TYPE_MULTI       = "multi"
	ANSWER_TYPE_COORDINATES = "coordinates"
)

type Coordinates struct {
	Latitude  float64 `bson:"latitude" json:"latitude"`
	Longitude float64 `bson:"longitude" json:"longitude"`
}

// AnswerValue is a tagged variant over the possible answer shapes. Exactly
// one payload field is meaningful, selected by Type. The zero value means
// "unanswered".
type AnswerValue struct {
	Type        string       `bson:"type,omitempty" json:"type,omitempty"`
	Text        string       `bson:"text,omitempty" json:"text,omitempty"`
	Number      string       `bson:"number,omitempty" json:"number,omitempty"`
	Selection   string       `bson:"selection,omitempty" json:"selection,omitempty"`
	Selections  []string     `bson:"selections,omitempty" json:"selections,omitempty"`
	Coordinates *Coordinates `bson:"coordinates,omitempty" json:"coordinates,omitempty"`
}

func TextAnswer(value string) AnswerValue {
	return AnswerValue{Type: ANSWER_TYPE_TEXT, Text: value}
}

// NumberAnswer keeps the value as the numeric string the surveyor entered.
func NumberAnswer(value string) AnswerValue {
	return AnswerValue{Type: ANSWER_TYPE_NUMBER, Number: value}
}

func SelectionAnswer(option string) AnswerValue {
	return AnswerValue{Type: ANSWER_TYPE_SELECTION, Selection: option}
}

// MultiAnswer builds a multi-selection set, dropping duplicates.
func MultiAnswer(options ...string) AnswerValue {
	v := AnswerValue{Type: ANSWER_TYPE_MULTI}
	for _, o := range options {
		if !v.HasSelection(o) {
			v.Selections = append(v.Selections, o)
		}
	}
	return v
}

func CoordinatesAnswer(lat float64, lng float64) AnswerValue {
	return AnswerValue{Type: ANSWER_TYPE_COORDINATES, Coordinates: &Coordinates{Latitude: lat, Longitude: lng}}
}

// IsBlank reports whether the value counts as unanswered for required-field
// validation.
func (v AnswerValue) IsBlank() bool {
	switch v.Type {
	case ANSWER_TYPE_TEXT:
		return strings.TrimSpace(v.Text) == ""
	case ANSWER_TYPE_NUMBER:
		return strings.TrimSpace(v.Number) == ""
	case ANSWER_TYPE_SELECTION:
		return v.Selection == ""
	case ANSWER_TYPE_MULTI:
		return len(v.Selections) == 0
	case ANSWER_TYPE_COORDINATES:
		return v.Coordinates == nil
	}
	return true
}

// HasSelection reports whether option is part of a multi-selection set.
func (v AnswerValue) HasSelection(option string) bool {
	for _, s := range v.Selections {
		if s == option {
			return true
		}
	}
	return false
}

// WithToggled returns a copy with option added to, or removed from, the
// multi-selection set. Toggling the same option twice is self-inverse.
func (v AnswerValue) WithToggled(option string) AnswerValue {
	out := AnswerValue{Type: ANSWER_TYPE_MULTI}
	removed := false
	for _, s := range v.Selections {
		if s == option {
			removed = true
			continue
		}
		out.Selections = append(out.Selections, s)
	}
	if !removed {
		out.Selections = append(out.Selections, option)
	}
	return out
}

// Equal compares two values; multi-selection sets compare without order.
func (v AnswerValue) Equal(other AnswerValue) bool {
	if v.Type != other.Type {
		return false
	}
	switch v.Type {
	case ANSWER_TYPE_MULTI:
		if len(v.Selections) != len(other.Selections) {
			return false
		}
		for _, s := range v.Selections {
			if !other.HasSelection(s) {
				return false
			}
		}
		return true
	case ANSWER_TYPE_COORDINATES:
		if v.Coordinates == nil || other.Coordinates == nil {
			return v.Coordinates == other.Coordinates
		}
		return *v.Coordinates == *other.Coordinates
	}
	return v.Text == other.Text && v.Number == other.Number && v.Selection == other.Selection
}
