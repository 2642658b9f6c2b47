package types

import (
	"strings"
	"time"
)

// OFFLINE_ID_PREFIX marks locally generated surveyor identities. Remote
// assigned ids are ObjectID hex strings and can never start with this
// prefix, so offline placeholders cannot collide with them.
const OFFLINE_ID_PREFIX = "offline-"

// Surveyor is the field worker using the app. ID is empty until the first
// successful reconciliation with the remote store, which assigns identity.
type Surveyor struct {
	ID           string    `bson:"id,omitempty" json:"id,omitempty"`
	Name         string    `bson:"name" json:"name"`
	Email        string    `bson:"email,omitempty" json:"email,omitempty"`
	AssignedArea string    `bson:"assignedArea,omitempty" json:"assignedArea,omitempty"`
	LoginTime    time.Time `bson:"loginTime" json:"loginTime"`
	LastActive   time.Time `bson:"lastActive,omitempty" json:"lastActive,omitempty"`
}

// IsOffline reports whether the surveyor only has a local placeholder
// identity.
func (s Surveyor) IsOffline() bool {
	return strings.HasPrefix(s.ID, OFFLINE_ID_PREFIX)
}
