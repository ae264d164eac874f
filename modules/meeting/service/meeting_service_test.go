package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"meetpoll-api/core/cache"
	"meetpoll-api/core/config"
	"meetpoll-api/core/errors"

	"meetpoll-api/modules/meeting/dto"
	"meetpoll-api/modules/meeting/entity"

	"github.com/google/uuid"
)

// fakeRepo is an in-memory MeetingRepositoryInterface for service tests.
type fakeRepo struct {
	meetings     map[string]*entity.Meeting
	participants map[string][]*entity.Participant

	// blindLookup makes GetParticipantByName miss, simulating the race
	// where two signups pass the existence check concurrently.
	blindLookup bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		meetings:     map[string]*entity.Meeting{},
		participants: map[string][]*entity.Participant{},
	}
}

func (r *fakeRepo) CreateMeeting(_ context.Context, m *entity.Meeting) error {
	cp := *m
	cp.CreatedAt = time.Now()
	r.meetings[m.ID] = &cp
	return nil
}

func (r *fakeRepo) GetMeetingByID(_ context.Context, id string) (*entity.Meeting, error) {
	m, ok := r.meetings[id]
	if !ok {
		return nil, nil
	}
	cp := *m
	return &cp, nil
}

func (r *fakeRepo) DeleteMeeting(_ context.Context, id string) error {
	delete(r.meetings, id)
	delete(r.participants, id)
	return nil
}

func (r *fakeRepo) ListExpiredMeetings(_ context.Context, endedBefore time.Time) ([]string, error) {
	var ids []string
	for id, m := range r.meetings {
		if len(m.Dates) == 0 {
			continue
		}
		last := m.Dates[0].EndTime
		for _, d := range m.Dates {
			if d.EndTime.After(last) {
				last = d.EndTime
			}
		}
		if last.Before(endedBefore) {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (r *fakeRepo) CreateParticipant(_ context.Context, p *entity.Participant) error {
	for _, existing := range r.participants[p.MeetingID] {
		if strings.EqualFold(existing.Name, p.Name) {
			return fmt.Errorf("duplicate key value violates unique constraint")
		}
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.AvailableSlots == nil {
		p.AvailableSlots = entity.SlotList{}
	}
	cp := *p
	r.participants[p.MeetingID] = append(r.participants[p.MeetingID], &cp)
	return nil
}

func (r *fakeRepo) GetParticipantByName(_ context.Context, meetingID string, name string) (*entity.Participant, error) {
	if r.blindLookup {
		return nil, nil
	}
	for _, p := range r.participants[meetingID] {
		if strings.EqualFold(p.Name, name) {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeRepo) ListParticipants(_ context.Context, meetingID string) ([]entity.Participant, error) {
	var out []entity.Participant
	for _, p := range r.participants[meetingID] {
		out = append(out, *p)
	}
	return out, nil
}

func (r *fakeRepo) UpdateAvailability(_ context.Context, meetingID string, name string, slots entity.SlotList) error {
	for _, p := range r.participants[meetingID] {
		if strings.EqualFold(p.Name, name) {
			p.AvailableSlots = slots
			p.UpdatedAt = time.Now()
		}
	}
	return nil
}

func (r *fakeRepo) RemoveParticipant(_ context.Context, meetingID string, name string) error {
	kept := r.participants[meetingID][:0]
	for _, p := range r.participants[meetingID] {
		if !strings.EqualFold(p.Name, name) {
			kept = append(kept, p)
		}
	}
	r.participants[meetingID] = kept
	return nil
}

func newTestService(repo *fakeRepo) MeetingServiceInterface {
	cfg := &config.Config{}
	cfg.App.BaseURL = "http://localhost:7070"
	cfg.JWT.Secret = "test-secret"
	return NewMeetingService(repo, cache.NoopCache{}, cfg)
}

func createTestMeeting(t *testing.T, svc MeetingServiceInterface, passcode string) string {
	t.Helper()
	resp, appErr := svc.CreateMeeting(context.Background(), &dto.CreateMeetingRequest{
		Title:     "Team Sync",
		Days:      []string{"2023-05-01", "2023-05-02", "2023-05-03", "2023-05-05"},
		Timezone:  "Europe/Paris",
		Organizer: "Olivia",
		Passcode:  passcode,
	})
	if appErr != nil {
		t.Fatalf("CreateMeeting: %v", appErr)
	}
	return resp.Meeting.ID
}

func TestCreateMeeting(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	resp, appErr := svc.CreateMeeting(context.Background(), &dto.CreateMeetingRequest{
		Title:     "Team Sync",
		Days:      []string{"2023-05-05", "2023-05-01", "2023-05-02", "2023-05-03"},
		Timezone:  "Europe/Paris",
		Organizer: "Olivia",
	})
	if appErr != nil {
		t.Fatalf("CreateMeeting: %v", appErr)
	}

	if resp.Meeting.ID == "" || resp.OrganizerToken == "" {
		t.Fatalf("missing id or token: %+v", resp)
	}
	if resp.Meeting.Slug != "team-sync" {
		t.Errorf("slug = %q", resp.Meeting.Slug)
	}
	if len(resp.Meeting.Dates) != 2 {
		t.Errorf("got %d date ranges, want 2", len(resp.Meeting.Dates))
	}
	if len(resp.Meeting.Participants) != 1 || resp.Meeting.Participants[0].Name != "Olivia" {
		t.Errorf("organizer not enrolled: %+v", resp.Meeting.Participants)
	}

	if _, appErr := svc.CreateMeeting(context.Background(), &dto.CreateMeetingRequest{
		Title: "", Days: []string{"2023-05-01"}, Timezone: "UTC", Organizer: "x",
	}); appErr == nil {
		t.Error("expected error for missing title")
	}
}

func TestSignupCaseInsensitiveRejoin(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	id := createTestMeeting(t, svc, "")

	first, appErr := svc.Signup(context.Background(), id, &dto.SignupRequest{Name: "Alice", Timezone: "America/New_York"})
	if appErr != nil {
		t.Fatalf("Signup: %v", appErr)
	}
	if first.Rejoined {
		t.Error("first signup flagged as rejoin")
	}

	second, appErr := svc.Signup(context.Background(), id, &dto.SignupRequest{Name: "alice", Timezone: "UTC"})
	if appErr != nil {
		t.Fatalf("rejoin: %v", appErr)
	}
	if !second.Rejoined {
		t.Error("case-insensitive rejoin not detected")
	}
	if second.Participant.ID != first.Participant.ID {
		t.Errorf("rejoin returned a different participant: %q vs %q",
			second.Participant.ID, first.Participant.ID)
	}

	// Olivia (organizer) + Alice only.
	participants, _ := repo.ListParticipants(context.Background(), id)
	if len(participants) != 2 {
		t.Errorf("got %d participants, want 2", len(participants))
	}
}

func TestSignupRaceMapsToDuplicateName(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	id := createTestMeeting(t, svc, "")

	if _, appErr := svc.Signup(context.Background(), id, &dto.SignupRequest{Name: "Bob", Timezone: "UTC"}); appErr != nil {
		t.Fatalf("Signup: %v", appErr)
	}

	repo.blindLookup = true
	_, appErr := svc.Signup(context.Background(), id, &dto.SignupRequest{Name: "BOB", Timezone: "UTC"})
	if appErr == nil || appErr.Code != errors.ErrDuplicateName {
		t.Errorf("got %v, want %s", appErr, errors.ErrDuplicateName)
	}
}

func TestSignupPasscode(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	id := createTestMeeting(t, svc, "hunter2")

	_, appErr := svc.Signup(context.Background(), id, &dto.SignupRequest{Name: "Eve", Timezone: "UTC", Passcode: "wrong"})
	if appErr == nil || appErr.Code != errors.ErrUnauthorized {
		t.Errorf("got %v, want %s", appErr, errors.ErrUnauthorized)
	}

	if _, appErr := svc.Signup(context.Background(), id, &dto.SignupRequest{Name: "Eve", Timezone: "UTC", Passcode: "hunter2"}); appErr != nil {
		t.Errorf("correct passcode rejected: %v", appErr)
	}
}

func TestSubmitAvailability(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	id := createTestMeeting(t, svc, "")

	if _, appErr := svc.Signup(context.Background(), id, &dto.SignupRequest{Name: "Alice", Timezone: "UTC"}); appErr != nil {
		t.Fatalf("Signup: %v", appErr)
	}

	_, appErr := svc.SubmitAvailability(context.Background(), id, "Alice", &dto.AvailabilityRequest{})
	if appErr == nil || appErr.Code != errors.ErrEmptySelection {
		t.Errorf("empty selection: got %v, want %s", appErr, errors.ErrEmptySelection)
	}

	_, appErr = svc.SubmitAvailability(context.Background(), id, "Alice", &dto.AvailabilityRequest{
		AvailableSlots: []string{"2023-05-01_9_0"},
	})
	if appErr == nil || appErr.Code != errors.ErrInvalidSlotID {
		t.Errorf("naive slot id: got %v, want %s", appErr, errors.ErrInvalidSlotID)
	}

	resp, appErr := svc.SubmitAvailability(context.Background(), id, "Alice", &dto.AvailabilityRequest{
		AvailableSlots: []string{
			"2023-05-01T09:00:00.000Z",
			"2023-05-01T09:30:00.000Z",
			"2023-05-01T09:00:00.000Z", // duplicate collapses
		},
	})
	if appErr != nil {
		t.Fatalf("SubmitAvailability: %v", appErr)
	}
	if resp.SlotsSelected != 2 {
		t.Errorf("slots selected = %d, want 2", resp.SlotsSelected)
	}

	// Wholesale replacement, not accumulation.
	resp, appErr = svc.SubmitAvailability(context.Background(), id, "alice", &dto.AvailabilityRequest{
		AvailableSlots: []string{"2023-05-02T10:00:00.000Z"},
	})
	if appErr != nil {
		t.Fatalf("resubmit: %v", appErr)
	}
	if resp.SlotsSelected != 1 {
		t.Errorf("slots selected after replace = %d, want 1", resp.SlotsSelected)
	}

	_, appErr = svc.SubmitAvailability(context.Background(), id, "Nobody", &dto.AvailabilityRequest{
		AvailableSlots: []string{"2023-05-01T09:00:00.000Z"},
	})
	if appErr == nil || appErr.Code != errors.ErrNotFound {
		t.Errorf("unknown participant: got %v, want %s", appErr, errors.ErrNotFound)
	}
}

// Nobody has submitted yet: the results are an explicit empty state, with
// no division errors.
func TestGetResultsEmptyState(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	id := createTestMeeting(t, svc, "")

	resp, appErr := svc.GetResults(context.Background(), id, "UTC", "")
	if appErr != nil {
		t.Fatalf("GetResults: %v", appErr)
	}
	if !resp.Empty {
		t.Error("Empty flag not set")
	}
	if len(resp.Slots) != 0 || len(resp.Windows) != 0 {
		t.Errorf("unexpected results: %+v", resp)
	}
	if resp.TotalParticipants != 1 {
		t.Errorf("total participants = %d, want 1 (organizer)", resp.TotalParticipants)
	}
}

func TestGetResultsMajorityAndViewer(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	id := createTestMeeting(t, svc, "")

	for name, slots := range map[string][]string{
		"p1": {"2023-05-01T06:00:00.000Z", "2023-05-01T06:30:00.000Z"},
		"p2": {"2023-05-01T06:00:00.000Z"},
	} {
		if _, appErr := svc.Signup(context.Background(), id, &dto.SignupRequest{Name: name, Timezone: "UTC"}); appErr != nil {
			t.Fatalf("Signup %s: %v", name, appErr)
		}
		if _, appErr := svc.SubmitAvailability(context.Background(), id, name, &dto.AvailabilityRequest{AvailableSlots: slots}); appErr != nil {
			t.Fatalf("SubmitAvailability %s: %v", name, appErr)
		}
	}

	resp, appErr := svc.GetResults(context.Background(), id, "UTC", "P1")
	if appErr != nil {
		t.Fatalf("GetResults: %v", appErr)
	}

	// Organizer never submitted, so 2 of 3 participants share 06:00.
	if resp.Slots[0].SlotID != "2023-05-01T06:00:00.000Z" || resp.Slots[0].Count != 2 {
		t.Errorf("top slot = %+v", resp.Slots[0])
	}
	if resp.Slots[0].Percentage != 67 {
		t.Errorf("top percentage = %d, want 67", resp.Slots[0].Percentage)
	}

	if len(resp.Windows) != 1 || resp.Windows[0].Percentage != 67 {
		t.Fatalf("windows = %+v", resp.Windows)
	}
	if resp.HiddenCount != 1 {
		t.Errorf("hidden = %d, want 1", resp.HiddenCount)
	}
	if resp.ViewerName != "p1" {
		t.Errorf("viewer = %q, want %q", resp.ViewerName, "p1")
	}

	if _, appErr := svc.GetResults(context.Background(), id, "Bad/Zone", ""); appErr == nil {
		t.Error("expected error for invalid viewer timezone")
	}
}

func TestRemoveParticipantAndDelete(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	id := createTestMeeting(t, svc, "")

	if _, appErr := svc.Signup(context.Background(), id, &dto.SignupRequest{Name: "Alice", Timezone: "UTC"}); appErr != nil {
		t.Fatalf("Signup: %v", appErr)
	}

	if appErr := svc.RemoveParticipant(context.Background(), id, "ALICE"); appErr != nil {
		t.Fatalf("RemoveParticipant: %v", appErr)
	}
	if appErr := svc.RemoveParticipant(context.Background(), id, "Alice"); appErr == nil || appErr.Code != errors.ErrNotFound {
		t.Errorf("second removal: got %v, want %s", appErr, errors.ErrNotFound)
	}

	if appErr := svc.DeleteMeeting(context.Background(), id); appErr != nil {
		t.Fatalf("DeleteMeeting: %v", appErr)
	}
	if _, appErr := svc.GetMeeting(context.Background(), id); appErr == nil || appErr.Code != errors.ErrNotFound {
		t.Errorf("after delete: got %v, want %s", appErr, errors.ErrNotFound)
	}
}

func TestGetGrid(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	id := createTestMeeting(t, svc, "")

	grid, appErr := svc.GetGrid(context.Background(), id, "America/New_York")
	if appErr != nil {
		t.Fatalf("GetGrid: %v", appErr)
	}
	if len(grid.TimeMarkers) != 48 {
		t.Errorf("markers = %d, want 48", len(grid.TimeMarkers))
	}
	// Paris days viewed from New York gain a leading partial day.
	if len(grid.Days) == 0 || grid.Days[0] != "2023-04-30" {
		t.Errorf("days = %v", grid.Days)
	}
	if len(grid.DisabledSlots) == 0 {
		t.Error("expected disabled slots on partial boundary days")
	}

	if _, appErr := svc.GetGrid(context.Background(), id, "Bad/Zone"); appErr == nil {
		t.Error("expected error for invalid timezone")
	}
}

func TestCleanupExpired(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	id := createTestMeeting(t, svc, "")

	fresh, appErr := svc.CreateMeeting(context.Background(), &dto.CreateMeetingRequest{
		Title:     "Future",
		Days:      []string{time.Now().AddDate(0, 1, 0).Format("2006-01-02")},
		Timezone:  "UTC",
		Organizer: "Olivia",
	})
	if appErr != nil {
		t.Fatalf("CreateMeeting: %v", appErr)
	}

	deleted, appErr := svc.CleanupExpired(context.Background(), 30*24*time.Hour)
	if appErr != nil {
		t.Fatalf("CleanupExpired: %v", appErr)
	}
	if deleted != 1 {
		t.Errorf("deleted = %d, want 1", deleted)
	}
	if _, ok := repo.meetings[id]; ok {
		t.Error("expired meeting still present")
	}
	if _, ok := repo.meetings[fresh.Meeting.ID]; !ok {
		t.Error("future meeting was deleted")
	}
}
