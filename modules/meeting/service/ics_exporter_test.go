package service

import (
	"context"
	"strings"
	"testing"

	"meetpoll-api/modules/meeting/dto"
)

func TestExportResultsICS(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	id := createTestMeeting(t, svc, "")

	for _, name := range []string{"p1", "p2"} {
		if _, appErr := svc.Signup(context.Background(), id, &dto.SignupRequest{Name: name, Timezone: "UTC"}); appErr != nil {
			t.Fatalf("Signup %s: %v", name, appErr)
		}
		if _, appErr := svc.SubmitAvailability(context.Background(), id, name, &dto.AvailabilityRequest{
			AvailableSlots: []string{"2023-05-01T09:00:00.000Z", "2023-05-01T09:30:00.000Z"},
		}); appErr != nil {
			t.Fatalf("SubmitAvailability %s: %v", name, appErr)
		}
	}

	data, appErr := svc.ExportResultsICS(context.Background(), id, "UTC")
	if appErr != nil {
		t.Fatalf("ExportResultsICS: %v", appErr)
	}

	ics := string(data)
	for _, want := range []string{
		"BEGIN:VCALENDAR",
		"BEGIN:VEVENT",
		"Team Sync",
		"20230501T090000Z",
		"END:VCALENDAR",
	} {
		if !strings.Contains(ics, want) {
			t.Errorf("ICS output missing %q:\n%s", want, ics)
		}
	}

	if _, appErr := svc.ExportResultsICS(context.Background(), "missing", "UTC"); appErr == nil {
		t.Error("expected error for unknown meeting")
	}
}
