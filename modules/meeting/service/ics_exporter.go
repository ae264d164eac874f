package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"meetpoll-api/core/constants"
	"meetpoll-api/core/errors"

	ical "github.com/emersion/go-ical"
)

// ExportResultsICS renders the currently shown result windows as an
// iCalendar document, one VEVENT per window, so the group can drop the
// candidates straight into their calendars.
func (s *MeetingService) ExportResultsICS(ctx context.Context, id string, tz string) ([]byte, *errors.AppError) {
	results, appErr := s.GetResults(ctx, id, tz, "")
	if appErr != nil {
		return nil, appErr
	}

	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, "-//meetpoll//EN")

	for i, w := range results.Windows {
		start, appErr := ParseSlotID(w.StartSlot)
		if appErr != nil {
			return nil, appErr
		}
		end, appErr := ParseSlotID(w.EndSlot)
		if appErr != nil {
			return nil, appErr
		}
		end = end.Add(constants.SlotDurationMinutes * time.Minute)

		ve := ical.NewComponent(ical.CompEvent)
		ve.Props.SetText(ical.PropUID, fmt.Sprintf("%s-%d@meetpoll", id, i))
		ve.Props.SetText(ical.PropSummary,
			fmt.Sprintf("%s (%d%% available)", results.Meeting.Title, w.Percentage))
		ve.Props.SetDateTime(ical.PropDateTimeStamp, time.Now().UTC())
		ve.Props.SetDateTime(ical.PropDateTimeStart, start)
		ve.Props.SetDateTime(ical.PropDateTimeEnd, end)
		if len(w.Participants) > 0 {
			ve.Props.SetText(ical.PropDescription,
				fmt.Sprintf("Available: %s", strings.Join(w.Participants, ", ")))
		}
		cal.Children = append(cal.Children, ve)
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to encode calendar", err)
	}
	return buf.Bytes(), nil
}
