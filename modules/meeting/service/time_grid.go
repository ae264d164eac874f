package service

import (
	"time"

	"meetpoll-api/core/constants"
	"meetpoll-api/core/errors"

	"meetpoll-api/modules/meeting/entity"
)

// TimeMarkers returns the fixed catalog of 48 time-of-day markers covering
// a full day at 30-minute granularity. It does not depend on the meeting.
func TimeMarkers() []entity.TimeMarker {
	markers := make([]entity.TimeMarker, 0, constants.SlotsPerDay)
	for hour := 0; hour < 24; hour++ {
		for _, minute := range []int{0, 30} {
			markers = append(markers, entity.TimeMarker{Hour: hour, Minute: minute})
		}
	}
	return markers
}

// DisplayDays expands the meeting's date ranges into the ordered list of
// calendar days as seen in the viewer's timezone. Days are produced by
// day-by-day expansion of each range converted to viewer-local time;
// duplicates across ranges collapse to one.
func DisplayDays(dates []entity.DateRange, tz string) ([]string, *errors.AppError) {
	loc, appErr := LoadTimezone(tz)
	if appErr != nil {
		return nil, appErr
	}

	seen := make(map[string]struct{})
	days := []string{}

	for _, r := range dates {
		if !r.Valid() {
			return nil, errors.NewAppError(errors.ErrInternalServer,
				"Stored date range is malformed (end not after start)", nil)
		}

		startLocal := r.StartTime.In(loc)
		endLocal := r.EndTime.In(loc)

		// Walk calendar days; constructing each next midnight via
		// time.Date keeps the walk correct across DST transitions.
		day := time.Date(startLocal.Year(), startLocal.Month(), startLocal.Day(), 0, 0, 0, 0, loc)
		for !day.After(endLocal) {
			key := day.Format(constants.DayLayout)
			if _, ok := seen[key]; !ok {
				seen[key] = struct{}{}
				days = append(days, key)
			}
			day = time.Date(day.Year(), day.Month(), day.Day()+1, 0, 0, 0, 0, loc)
		}
	}

	return days, nil
}

// SlotDisabled reports whether the slot falls on a boundary day of some
// range but strictly outside it. Interior days are always enabled, as is
// everything when no ranges exist.
func SlotDisabled(slotID string, dates []entity.DateRange) bool {
	if len(dates) == 0 {
		return false
	}

	instant, appErr := ParseSlotID(slotID)
	if appErr != nil {
		return false
	}

	for _, r := range dates {
		if instant.Before(r.StartTime) && sameUTCDay(instant, r.StartTime) {
			return true
		}
		if instant.After(r.EndTime) && sameUTCDay(instant, r.EndTime) {
			return true
		}
	}
	return false
}

func sameUTCDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}
