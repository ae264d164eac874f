package constants

// Database connection settings
const (
	DatabaseSSLMode         = "disable"
	DatabaseMaxOpenConns    = 25
	DatabaseMaxIdleConns    = 5
	DatabaseConnMaxLifetime = 30 // minutes
)

// Context keys
const (
	ContextTokenData = "token_data"
)

// Slot grid settings. Slots are 30 minutes long; a day holds 48 of them.
const (
	SlotDurationMinutes = 30
	SlotsPerDay         = 48
)

// SlotIDLayout is the canonical wire format of a slot identifier:
// the UTC instant of the slot start with millisecond precision.
const SlotIDLayout = "2006-01-02T15:04:05.000Z"

// DayLayout is the calendar-day wire format.
const DayLayout = "2006-01-02"

// MeetingIDLength is the nanoid length for shareable meeting ids.
const MeetingIDLength = 12

// MajorityThreshold is the display cut-off for result windows: a window
// counts as a majority only when its percentage exceeds this value.
const MajorityThreshold = 50
