package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"meetpoll-api/core/cache"
	"meetpoll-api/core/config"
	"meetpoll-api/core/errors"
	"meetpoll-api/core/logger"
	"meetpoll-api/core/utils"

	"meetpoll-api/modules/meeting/dto"
	"meetpoll-api/modules/meeting/entity"
	"meetpoll-api/modules/meeting/repository"

	"github.com/gosimple/slug"
	"golang.org/x/crypto/bcrypt"
)

const (
	organizerTokenTTL = 90 * 24 * time.Hour
	resultsCacheTTL   = time.Minute
)

// MeetingService handles meeting poll business logic
type MeetingService struct {
	repo  repository.MeetingRepositoryInterface
	cache cache.ICache
	cfg   *config.Config
}

// MeetingServiceInterface defines the service contract
type MeetingServiceInterface interface {
	CreateMeeting(ctx context.Context, req *dto.CreateMeetingRequest) (*dto.CreateMeetingResponse, *errors.AppError)
	GetMeeting(ctx context.Context, id string) (*dto.MeetingResponse, *errors.AppError)
	GetGrid(ctx context.Context, id string, tz string) (*dto.GridResponse, *errors.AppError)
	Signup(ctx context.Context, id string, req *dto.SignupRequest) (*dto.SignupResponse, *errors.AppError)
	SubmitAvailability(ctx context.Context, id string, name string, req *dto.AvailabilityRequest) (*dto.ParticipantResponse, *errors.AppError)
	GetResults(ctx context.Context, id string, tz string, viewerName string) (*dto.ResultsResponse, *errors.AppError)
	ExportResultsICS(ctx context.Context, id string, tz string) ([]byte, *errors.AppError)
	RemoveParticipant(ctx context.Context, id string, name string) *errors.AppError
	DeleteMeeting(ctx context.Context, id string) *errors.AppError
	CleanupExpired(ctx context.Context, retention time.Duration) (int, *errors.AppError)
}

// NewMeetingService creates a new meeting service
func NewMeetingService(repo repository.MeetingRepositoryInterface, c cache.ICache, cfg *config.Config) MeetingServiceInterface {
	return &MeetingService{
		repo:  repo,
		cache: c,
		cfg:   cfg,
	}
}

// CreateMeeting compacts the organizer's selected days into canonical date
// ranges, persists the meeting with the organizer as first participant, and
// mints the organizer management token.
func (s *MeetingService) CreateMeeting(ctx context.Context, req *dto.CreateMeetingRequest) (*dto.CreateMeetingResponse, *errors.AppError) {
	if req.Title == "" || len(req.Days) == 0 {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Title and at least one day are required", nil)
	}

	ranges, appErr := CompactDays(req.Days, req.Timezone)
	if appErr != nil {
		return nil, appErr
	}

	meeting := &entity.Meeting{
		ID:       utils.GenerateMeetingID(),
		Title:    req.Title,
		Slug:     slug.Make(req.Title),
		Timezone: req.Timezone,
		Dates:    ranges,
	}
	if req.Description != "" {
		meeting.Description = &req.Description
	}
	if req.Passcode != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Passcode), bcrypt.DefaultCost)
		if err != nil {
			return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to hash passcode", err)
		}
		hashStr := string(hash)
		meeting.PasscodeHash = &hashStr
	}

	if err := s.repo.CreateMeeting(ctx, meeting); err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to create meeting", err)
	}

	organizer := &entity.Participant{
		MeetingID: meeting.ID,
		Name:      req.Organizer,
		Timezone:  req.Timezone,
	}
	if err := s.repo.CreateParticipant(ctx, organizer); err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to create organizer participant", err)
	}

	token, err := utils.GenerateOrganizerToken(meeting.ID, s.cfg.JWT.Secret, organizerTokenTTL)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to issue organizer token", err)
	}

	resp := dto.ToMeetingResponse(meeting, []entity.Participant{*organizer}, s.shareURL(meeting.ID))
	return &dto.CreateMeetingResponse{Meeting: resp, OrganizerToken: token}, nil
}

// GetMeeting retrieves a meeting with its participants
func (s *MeetingService) GetMeeting(ctx context.Context, id string) (*dto.MeetingResponse, *errors.AppError) {
	meeting, appErr := s.loadMeeting(ctx, id)
	if appErr != nil {
		return nil, appErr
	}

	participants, err := s.repo.ListParticipants(ctx, id)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to list participants", err)
	}

	resp := dto.ToMeetingResponse(meeting, participants, s.shareURL(id))
	return &resp, nil
}

// GetGrid builds the selection grid for a viewer timezone: display days,
// the 48 time markers, and the slot ids disabled on partial boundary days
func (s *MeetingService) GetGrid(ctx context.Context, id string, tz string) (*dto.GridResponse, *errors.AppError) {
	meeting, appErr := s.loadMeeting(ctx, id)
	if appErr != nil {
		return nil, appErr
	}

	days, appErr := DisplayDays(meeting.Dates, tz)
	if appErr != nil {
		return nil, appErr
	}

	markers := TimeMarkers()
	disabled := []string{}
	for _, day := range days {
		for _, m := range markers {
			slotID, appErr := ToCanonicalSlotID(day, m.Hour, m.Minute, tz)
			if appErr != nil {
				return nil, appErr
			}
			if SlotDisabled(slotID, meeting.Dates) {
				disabled = append(disabled, slotID)
			}
		}
	}

	return &dto.GridResponse{
		Timezone:      tz,
		Days:          days,
		TimeMarkers:   markers,
		DisabledSlots: disabled,
	}, nil
}

// Signup joins a meeting by name. A name that matches an existing
// participant case-insensitively is a rejoin: the existing participant and
// their stored slots are returned instead of creating a duplicate.
func (s *MeetingService) Signup(ctx context.Context, id string, req *dto.SignupRequest) (*dto.SignupResponse, *errors.AppError) {
	meeting, appErr := s.loadMeeting(ctx, id)
	if appErr != nil {
		return nil, appErr
	}

	if _, appErr := LoadTimezone(req.Timezone); appErr != nil {
		return nil, appErr
	}

	if meeting.PasscodeHash != nil {
		if err := bcrypt.CompareHashAndPassword([]byte(*meeting.PasscodeHash), []byte(req.Passcode)); err != nil {
			return nil, errors.NewAppError(errors.ErrUnauthorized, "Invalid meeting passcode", nil)
		}
	}

	existing, err := s.repo.GetParticipantByName(ctx, id, req.Name)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to look up participant", err)
	}
	if existing != nil {
		return &dto.SignupResponse{
			Participant:    dto.ToParticipantResponse(existing),
			AvailableSlots: existing.AvailableSlots,
			Rejoined:       true,
		}, nil
	}

	participant := &entity.Participant{
		MeetingID: id,
		Name:      req.Name,
		Timezone:  req.Timezone,
	}
	if err := s.repo.CreateParticipant(ctx, participant); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, errors.NewAppError(errors.ErrDuplicateName,
				fmt.Sprintf("Name %q is already taken in this meeting", req.Name), err)
		}
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to create participant", err)
	}

	return &dto.SignupResponse{
		Participant:    dto.ToParticipantResponse(participant),
		AvailableSlots: []string{},
	}, nil
}

// SubmitAvailability replaces the participant's slot set wholesale. Every
// id must be a canonical slot identifier; duplicates collapse. The results
// cache for the meeting is invalidated.
func (s *MeetingService) SubmitAvailability(ctx context.Context, id string, name string, req *dto.AvailabilityRequest) (*dto.ParticipantResponse, *errors.AppError) {
	if _, appErr := s.loadMeeting(ctx, id); appErr != nil {
		return nil, appErr
	}

	participant, err := s.repo.GetParticipantByName(ctx, id, name)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to look up participant", err)
	}
	if participant == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Participant not found, sign up first", nil)
	}

	if len(req.AvailableSlots) == 0 {
		return nil, errors.NewAppError(errors.ErrEmptySelection, "Select at least one time slot", nil)
	}

	seen := make(map[string]struct{}, len(req.AvailableSlots))
	slots := make(entity.SlotList, 0, len(req.AvailableSlots))
	for _, slotID := range req.AvailableSlots {
		if _, appErr := ParseSlotID(slotID); appErr != nil {
			return nil, appErr
		}
		if _, ok := seen[slotID]; ok {
			continue
		}
		seen[slotID] = struct{}{}
		slots = append(slots, slotID)
	}

	if err := s.repo.UpdateAvailability(ctx, id, name, slots); err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to save availability", err)
	}
	s.cache.DeletePrefix(ctx, s.resultsCachePrefix(id))

	participant.AvailableSlots = slots
	resp := dto.ToParticipantResponse(participant)
	return &resp, nil
}

// GetResults aggregates all participants' availability and groups it into
// ranked windows for the viewer's timezone. Aggregation is recomputed fresh
// on every load; a short redis cache absorbs bursts of viewers.
func (s *MeetingService) GetResults(ctx context.Context, id string, tz string, viewerName string) (*dto.ResultsResponse, *errors.AppError) {
	if _, appErr := LoadTimezone(tz); appErr != nil {
		return nil, appErr
	}

	cacheKey := s.resultsCachePrefix(id) + tz
	if raw, ok := s.cache.Get(ctx, cacheKey); ok {
		resp := &dto.ResultsResponse{}
		if err := json.Unmarshal([]byte(raw), resp); err == nil {
			resp.ViewerName = s.matchViewer(resp.Meeting.Participants, viewerName)
			return resp, nil
		}
		logger.Warn("MeetingService:GetResults:cache", "meeting_id", id, "error", "bad cache payload")
	}

	meeting, appErr := s.loadMeeting(ctx, id)
	if appErr != nil {
		return nil, appErr
	}

	participants, err := s.repo.ListParticipants(ctx, id)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to list participants", err)
	}

	aggregated := AggregateAvailability(participants)
	grouped, appErr := GroupResults(aggregated, tz)
	if appErr != nil {
		return nil, appErr
	}

	resp := &dto.ResultsResponse{
		Meeting:           dto.ToMeetingResponse(meeting, participants, s.shareURL(id)),
		Timezone:          tz,
		TotalParticipants: len(participants),
		Slots:             aggregated,
		Windows:           grouped.Windows,
		HiddenCount:       grouped.HiddenCount,
		NoMajority:        grouped.NoMajority,
		Empty:             len(aggregated) == 0,
	}

	if raw, err := json.Marshal(resp); err == nil {
		s.cache.Set(ctx, cacheKey, string(raw), resultsCacheTTL)
	}

	resp.ViewerName = s.matchViewer(resp.Meeting.Participants, viewerName)
	return resp, nil
}

// RemoveParticipant deletes a participant (organizer operation)
func (s *MeetingService) RemoveParticipant(ctx context.Context, id string, name string) *errors.AppError {
	if _, appErr := s.loadMeeting(ctx, id); appErr != nil {
		return appErr
	}

	participant, err := s.repo.GetParticipantByName(ctx, id, name)
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to look up participant", err)
	}
	if participant == nil {
		return errors.NewAppError(errors.ErrNotFound, "Participant not found", nil)
	}

	if err := s.repo.RemoveParticipant(ctx, id, name); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to remove participant", err)
	}
	s.cache.DeletePrefix(ctx, s.resultsCachePrefix(id))
	return nil
}

// DeleteMeeting deletes a meeting and all its data (organizer operation)
func (s *MeetingService) DeleteMeeting(ctx context.Context, id string) *errors.AppError {
	if _, appErr := s.loadMeeting(ctx, id); appErr != nil {
		return appErr
	}

	if err := s.repo.DeleteMeeting(ctx, id); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to delete meeting", err)
	}
	s.cache.DeletePrefix(ctx, s.resultsCachePrefix(id))
	return nil
}

// CleanupExpired deletes meetings whose last proposed day ended before the
// retention window. Invoked by the background worker.
func (s *MeetingService) CleanupExpired(ctx context.Context, retention time.Duration) (int, *errors.AppError) {
	cutoff := time.Now().Add(-retention)

	ids, err := s.repo.ListExpiredMeetings(ctx, cutoff)
	if err != nil {
		return 0, errors.NewAppError(errors.ErrInternalServer, "Failed to list expired meetings", err)
	}

	deleted := 0
	for _, id := range ids {
		if err := s.repo.DeleteMeeting(ctx, id); err != nil {
			logger.Error("MeetingService:CleanupExpired", "meeting_id", id, "error", err)
			continue
		}
		s.cache.DeletePrefix(ctx, s.resultsCachePrefix(id))
		deleted++
	}

	if deleted > 0 {
		logger.Info("MeetingService:CleanupExpired", "deleted", deleted, "cutoff", cutoff)
	}
	return deleted, nil
}

// loadMeeting fetches a meeting and validates its stored ranges. A
// malformed range fails loudly instead of rendering an empty grid.
func (s *MeetingService) loadMeeting(ctx context.Context, id string) (*entity.Meeting, *errors.AppError) {
	meeting, err := s.repo.GetMeetingByID(ctx, id)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to get meeting", err)
	}
	if meeting == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Meeting not found", nil)
	}

	for _, r := range meeting.Dates {
		if !r.Valid() {
			return nil, errors.NewAppError(errors.ErrInternalServer,
				fmt.Sprintf("Meeting %s has a malformed date range", id), nil)
		}
	}
	return meeting, nil
}

func (s *MeetingService) shareURL(meetingID string) string {
	return fmt.Sprintf("%s/meetings/%s", s.cfg.App.BaseURL, meetingID)
}

func (s *MeetingService) resultsCachePrefix(meetingID string) string {
	return fmt.Sprintf("results:%s:", meetingID)
}

func (s *MeetingService) matchViewer(participants []dto.ParticipantResponse, viewerName string) string {
	if viewerName == "" {
		return ""
	}
	for _, p := range participants {
		if strings.EqualFold(p.Name, viewerName) {
			return p.Name
		}
	}
	return ""
}
