package service

import (
	"testing"

	"meetpoll-api/modules/meeting/entity"
)

func TestTimeMarkers(t *testing.T) {
	markers := TimeMarkers()
	if len(markers) != 48 {
		t.Fatalf("got %d markers, want 48", len(markers))
	}
	if markers[0] != (entity.TimeMarker{Hour: 0, Minute: 0}) {
		t.Errorf("first marker = %+v", markers[0])
	}
	if markers[1] != (entity.TimeMarker{Hour: 0, Minute: 30}) {
		t.Errorf("second marker = %+v", markers[1])
	}
	if markers[47] != (entity.TimeMarker{Hour: 23, Minute: 30}) {
		t.Errorf("last marker = %+v", markers[47])
	}
}

func mustRanges(t *testing.T, days []string, tz string) []entity.DateRange {
	t.Helper()
	ranges, appErr := CompactDays(days, tz)
	if appErr != nil {
		t.Fatalf("CompactDays: %v", appErr)
	}
	return ranges
}

func TestDisplayDaysSameTimezone(t *testing.T) {
	ranges := mustRanges(t, []string{"2023-05-01", "2023-05-02", "2023-05-03", "2023-05-05"}, "UTC")

	days, appErr := DisplayDays(ranges, "UTC")
	if appErr != nil {
		t.Fatalf("unexpected error: %v", appErr)
	}

	want := []string{"2023-05-01", "2023-05-02", "2023-05-03", "2023-05-05"}
	if len(days) != len(want) {
		t.Fatalf("got %v, want %v", days, want)
	}
	for i := range want {
		if days[i] != want[i] {
			t.Errorf("day %d = %q, want %q", i, days[i], want[i])
		}
	}
}

// A viewer far west of the organizer sees each proposed day leak into the
// previous local calendar day.
func TestDisplayDaysShiftedViewer(t *testing.T) {
	ranges := mustRanges(t, []string{"2023-05-01"}, "Asia/Tokyo")

	days, appErr := DisplayDays(ranges, "America/Los_Angeles")
	if appErr != nil {
		t.Fatalf("unexpected error: %v", appErr)
	}

	// Tokyo May 1 spans Apr 30 08:00 to May 1 07:59 in Los Angeles.
	want := []string{"2023-04-30", "2023-05-01"}
	if len(days) != len(want) {
		t.Fatalf("got %v, want %v", days, want)
	}
	for i := range want {
		if days[i] != want[i] {
			t.Errorf("day %d = %q, want %q", i, days[i], want[i])
		}
	}
}

func TestDisplayDaysRejectsMalformedRange(t *testing.T) {
	ranges := mustRanges(t, []string{"2023-05-02"}, "UTC")
	ranges[0].StartTime, ranges[0].EndTime = ranges[0].EndTime, ranges[0].StartTime

	if _, appErr := DisplayDays(ranges, "UTC"); appErr == nil {
		t.Error("expected error for inverted range")
	}
}

func TestSlotDisabled(t *testing.T) {
	// Tokyo May 1: 2023-04-30T15:00Z to 2023-05-01T14:59:59.999Z.
	ranges := mustRanges(t, []string{"2023-05-01"}, "Asia/Tokyo")

	tests := []struct {
		name   string
		slotID string
		want   bool
	}{
		{"before start, same utc day", "2023-04-30T08:00:00.000Z", true},
		{"exactly at start", "2023-04-30T15:00:00.000Z", false},
		{"inside range", "2023-05-01T03:00:00.000Z", false},
		{"after end, same utc day", "2023-05-01T15:00:00.000Z", true},
		{"different day entirely", "2023-06-10T08:00:00.000Z", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SlotDisabled(tt.slotID, ranges); got != tt.want {
				t.Errorf("SlotDisabled(%q) = %v, want %v", tt.slotID, got, tt.want)
			}
		})
	}
}

func TestSlotDisabledNoRanges(t *testing.T) {
	if SlotDisabled("2023-05-01T08:00:00.000Z", nil) {
		t.Error("no ranges should disable nothing")
	}
}
