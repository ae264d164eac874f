package service

import (
	"fmt"
	"sort"
	"time"

	"meetpoll-api/core/constants"
	"meetpoll-api/core/errors"

	"meetpoll-api/modules/meeting/entity"
)

// CompactDays collapses an unordered set of selected calendar days into the
// minimal sorted list of contiguous ranges, anchored to the organizer's
// timezone. Each range runs from 00:00:00.000 of its first day to
// 23:59:59.999 of its last day, with the offset resolved per day so DST
// transitions inside a range do not shift the boundaries.
func CompactDays(days []string, tz string) ([]entity.DateRange, *errors.AppError) {
	if len(days) == 0 {
		return []entity.DateRange{}, nil
	}

	loc, appErr := LoadTimezone(tz)
	if appErr != nil {
		return nil, appErr
	}

	// Dedupe, then sort; zero-padded ISO days sort correctly as strings.
	seen := make(map[string]struct{}, len(days))
	sorted := make([]string, 0, len(days))
	for _, d := range days {
		if _, ok := seen[d]; ok {
			continue
		}
		if _, err := time.Parse(constants.DayLayout, d); err != nil {
			return nil, errors.NewAppError(errors.ErrInvalidInput,
				fmt.Sprintf("Invalid calendar day %q", d), err)
		}
		seen[d] = struct{}{}
		sorted = append(sorted, d)
	}
	sort.Strings(sorted)

	ranges := []entity.DateRange{}
	startDay := sorted[0]
	endDay := sorted[0]

	for i := 1; i < len(sorted); i++ {
		if calendarDayDiff(sorted[i-1], sorted[i]) == 1 {
			endDay = sorted[i]
			continue
		}
		ranges = append(ranges, newDayRange(startDay, endDay, loc))
		startDay = sorted[i]
		endDay = sorted[i]
	}
	ranges = append(ranges, newDayRange(startDay, endDay, loc))

	return ranges, nil
}

// calendarDayDiff counts whole calendar days between two ISO day strings.
// The comparison happens in UTC on date components only, so a DST jump
// between the two local midnights cannot produce an off-by-one.
func calendarDayDiff(a, b string) int {
	ta, _ := time.Parse(constants.DayLayout, a)
	tb, _ := time.Parse(constants.DayLayout, b)
	return int(tb.Sub(ta).Hours() / 24)
}

func newDayRange(startDay, endDay string, loc *time.Location) entity.DateRange {
	s, _ := time.Parse(constants.DayLayout, startDay)
	e, _ := time.Parse(constants.DayLayout, endDay)

	start := time.Date(s.Year(), s.Month(), s.Day(), 0, 0, 0, 0, loc)
	end := time.Date(e.Year(), e.Month(), e.Day(), 23, 59, 59, 999_000_000, loc)

	return entity.DateRange{
		StartTime: start.UTC(),
		EndTime:   end.UTC(),
	}
}
