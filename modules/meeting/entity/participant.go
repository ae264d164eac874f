package entity

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SlotList is a participant's set of canonical slot identifiers, stored as a
// jsonb array. Order is irrelevant; identifiers compare by string equality.
type SlotList []string

func (s SlotList) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	b, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (s *SlotList) Scan(src any) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	case nil:
		*s = SlotList{}
		return nil
	default:
		return fmt.Errorf("cannot scan %T into SlotList", src)
	}
}

// Participant is an invitee who joined a meeting by name. Name is the
// external key: no two participants in a meeting may share a name
// case-insensitively. AvailableSlots is replaced wholesale on every
// availability submission.
type Participant struct {
	ID             uuid.UUID `db:"id" json:"id"`
	MeetingID      string    `db:"meeting_id" json:"-"`
	Name           string    `db:"name" json:"name"`
	Timezone       string    `db:"timezone" json:"timezone"`
	AvailableSlots SlotList  `db:"available_slots" json:"availableSlots"`
	JoinedAt       time.Time `db:"joined_at" json:"joined_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}
