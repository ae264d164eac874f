package service

import (
	"sort"
	"time"

	"meetpoll-api/core/constants"
	"meetpoll-api/core/errors"

	"meetpoll-api/modules/meeting/entity"
)

// GroupResults turns aggregated slots into the final ranked display list:
// full matches first, then by percentage, date and time-of-day; temporally
// contiguous slots with identical participant sets and percentage merge
// into duration-labeled windows; and a majority filter hides everything at
// or below 50% whenever at least one window has a strict majority.
//
// Dates and clock times are rendered in the viewer's timezone. Merging is
// decided on the slot instants themselves, so two slots that happen to sit
// next to each other in the sorted list but are hours apart never merge.
func GroupResults(slots []entity.AggregatedSlot, tz string) (entity.GroupedResults, *errors.AppError) {
	loc, appErr := LoadTimezone(tz)
	if appErr != nil {
		return entity.GroupedResults{}, appErr
	}

	type item struct {
		slot  entity.AggregatedSlot
		start time.Time
		end   time.Time
		date  string
		names []string
	}

	items := make([]item, 0, len(slots))
	for _, s := range slots {
		instant, appErr := ParseSlotID(s.SlotID)
		if appErr != nil {
			return entity.GroupedResults{}, appErr
		}

		names := make([]string, len(s.Participants))
		copy(names, s.Participants)
		sort.Strings(names)

		local := instant.In(loc)
		items = append(items, item{
			slot:  s,
			start: instant,
			end:   instant.Add(constants.SlotDurationMinutes * time.Minute),
			date:  local.Format(constants.DayLayout),
			names: names,
		})
	}

	sort.Slice(items, func(i, j int) bool {
		fi, fj := items[i].slot.Percentage == 100, items[j].slot.Percentage == 100
		if fi != fj {
			return fi
		}
		if items[i].slot.Percentage != items[j].slot.Percentage {
			return items[i].slot.Percentage > items[j].slot.Percentage
		}
		if items[i].date != items[j].date {
			return items[i].date < items[j].date
		}
		return items[i].start.Before(items[j].start)
	})

	sameNames := func(a, b []string) bool {
		if len(a) != len(b) {
			return false
		}
		for i := range a {
			if a[i] != b[i] {
				return false
			}
		}
		return true
	}

	windows := []entity.ResultWindow{}
	for i := 0; i < len(items); {
		first := items[i]
		last := first
		j := i + 1
		for j < len(items) {
			next := items[j]
			if next.date != first.date ||
				next.slot.Percentage != first.slot.Percentage ||
				!sameNames(next.names, first.names) ||
				!last.end.Equal(next.start) {
				break
			}
			last = next
			j++
		}

		windows = append(windows, entity.ResultWindow{
			StartSlot:       first.slot.SlotID,
			EndSlot:         last.slot.SlotID,
			Date:            first.date,
			StartTime:       first.start.In(loc).Format("15:04"),
			EndTime:         last.end.In(loc).Format("15:04"),
			Participants:    first.names,
			Count:           first.slot.Count,
			Percentage:      first.slot.Percentage,
			DurationMinutes: int(last.end.Sub(first.start).Minutes()),
		})
		i = j
	}

	hasMajority := false
	for _, w := range windows {
		if w.Percentage > constants.MajorityThreshold {
			hasMajority = true
			break
		}
	}

	if hasMajority {
		shown := windows[:0:0]
		for _, w := range windows {
			if w.Percentage > constants.MajorityThreshold {
				shown = append(shown, w)
			}
		}
		return entity.GroupedResults{
			Windows:     shown,
			HiddenCount: len(windows) - len(shown),
		}, nil
	}

	return entity.GroupedResults{
		Windows:    windows,
		NoMajority: len(windows) > 0,
	}, nil
}
