package types

// question kinds
const (
	QUESTION_KIND_TEXT          = "text"
	QUESTION_KIND_NUMBER        = "number"
	QUESTION_KIND_SINGLE_CHOICE = "single-choice"
	QUESTION_KIND_SELECT        = "select"
	QUESTION_KIND_MULTI_CHOICE  = "multi-choice"
	QUESTION_KIND_COORDINATES   = "coordinates"
)

// Question is one entry of the survey catalog. Kind is inferred from the
// raw catalog rows, it is never authored directly.
type Question struct {
	ID       string   `bson:"id" json:"id"`
	Order    int      `bson:"order" json:"order"`
	Prompt   string   `bson:"prompt" json:"prompt"`
	Kind     string   `bson:"kind" json:"kind"`
	Options  []string `bson:"options,omitempty" json:"options,omitempty"`
	Required bool     `bson:"required" json:"required"`
}

// IsChoiceKind reports whether the question carries an option list.
func (q Question) IsChoiceKind() bool {
	switch q.Kind {
	case QUESTION_KIND_SINGLE_CHOICE, QUESTION_KIND_SELECT, QUESTION_KIND_MULTI_CHOICE:
		return true
	}
	return false
}
