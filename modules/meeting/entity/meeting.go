package entity

import (
	"time"
)

// Meeting represents a scheduling poll created by an organizer
type Meeting struct {
	ID           string    `db:"id" json:"id"`
	Title        string    `db:"title" json:"title"`
	Description  *string   `db:"description" json:"description,omitempty"`
	Slug         string    `db:"slug" json:"slug"`
	Timezone     string    `db:"timezone" json:"timezone"`
	PasscodeHash *string   `db:"passcode_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`

	// Dates is the compacted list of proposed day ranges, loaded separately
	Dates []DateRange `db:"-" json:"dates"`
}

// DateRange is one contiguous run of proposed calendar days, persisted as
// absolute UTC instants. StartTime is 00:00:00.000 of the first day and
// EndTime 23:59:59.999 of the last day in the organizer's timezone at
// compaction time. Ranges in a meeting are sorted, disjoint and maximal.
type DateRange struct {
	MeetingID string    `db:"meeting_id" json:"-"`
	StartTime time.Time `db:"start_time" json:"startTime"`
	EndTime   time.Time `db:"end_time" json:"endTime"`
}

// Valid reports whether the stored range is well formed. A violation means
// corrupted storage and must fail the request loudly instead of rendering
// an empty grid.
func (r DateRange) Valid() bool {
	return r.EndTime.After(r.StartTime)
}
