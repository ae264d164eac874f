package service

import (
	"fmt"
	"time"

	"meetpoll-api/core/constants"
	"meetpoll-api/core/errors"
)

// The canonical slot identifier is the ISO-8601 UTC instant of the slot
// start with millisecond precision, e.g. "2025-03-29T06:00:00.000Z".
// Two participants who pick the same half hour produce identical ids
// regardless of their display timezones, so ids compare by plain string
// equality. The conversion always resolves the timezone's real offset at
// that instant, which keeps DST transitions and non-integer offsets
// correct.

// LoadTimezone resolves an IANA zone name, rejecting unknown zones
func LoadTimezone(tz string) (*time.Location, *errors.AppError) {
	if tz == "" {
		return nil, errors.NewAppError(errors.ErrInvalidTimezone, "Timezone is required", nil)
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInvalidTimezone,
			fmt.Sprintf("Unsupported timezone %q", tz), err)
	}
	return loc, nil
}

// ToCanonicalSlotID converts a viewer-local grid cell (calendar day plus
// time-of-day marker) into the canonical slot identifier
func ToCanonicalSlotID(day string, hour, minute int, tz string) (string, *errors.AppError) {
	loc, appErr := LoadTimezone(tz)
	if appErr != nil {
		return "", appErr
	}

	if hour < 0 || hour > 23 || (minute != 0 && minute != 30) {
		return "", errors.NewAppError(errors.ErrInvalidSlotID,
			fmt.Sprintf("Time %02d:%02d is not on a slot boundary", hour, minute), nil)
	}

	d, err := time.Parse(constants.DayLayout, day)
	if err != nil {
		return "", errors.NewAppError(errors.ErrInvalidInput,
			fmt.Sprintf("Invalid calendar day %q", day), err)
	}

	local := time.Date(d.Year(), d.Month(), d.Day(), hour, minute, 0, 0, loc)
	return local.UTC().Format(constants.SlotIDLayout), nil
}

// SlotIDToLocal converts a canonical slot identifier back to the slot's
// start as a wall-clock time in the viewer's timezone
func SlotIDToLocal(slotID string, tz string) (time.Time, *errors.AppError) {
	loc, appErr := LoadTimezone(tz)
	if appErr != nil {
		return time.Time{}, appErr
	}

	instant, appErr := ParseSlotID(slotID)
	if appErr != nil {
		return time.Time{}, appErr
	}

	return instant.In(loc), nil
}

// ParseSlotID parses and validates a canonical slot identifier, returning
// the UTC instant of the slot start. Alignment is checked at 15-minute
// granularity: half-hour grids in zones with :45 offsets (Asia/Kathmandu,
// Pacific/Chatham) land on :15 and :45 in UTC.
func ParseSlotID(slotID string) (time.Time, *errors.AppError) {
	t, err := time.Parse(constants.SlotIDLayout, slotID)
	if err != nil {
		return time.Time{}, errors.NewAppError(errors.ErrInvalidSlotID,
			fmt.Sprintf("Slot id %q is not a canonical UTC instant", slotID), err)
	}

	if t.Second() != 0 || t.Nanosecond() != 0 || t.Minute()%15 != 0 {
		return time.Time{}, errors.NewAppError(errors.ErrInvalidSlotID,
			fmt.Sprintf("Slot id %q is not aligned to a slot boundary", slotID), nil)
	}

	return t.UTC(), nil
}

// FormatSlotID renders an instant as a canonical slot identifier
func FormatSlotID(t time.Time) string {
	return t.UTC().Format(constants.SlotIDLayout)
}
