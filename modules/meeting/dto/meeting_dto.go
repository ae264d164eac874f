package dto

import (
	"time"

	"meetpoll-api/modules/meeting/entity"
)

// ===================== Request DTOs =====================

// CreateMeetingRequest for creating a new meeting poll
type CreateMeetingRequest struct {
	Title       string   `json:"title" validate:"required"`
	Description string   `json:"description"`
	Days        []string `json:"days" validate:"required,min=1,dive,datetime=2006-01-02"`
	Timezone    string   `json:"timezone" validate:"required"`
	Organizer   string   `json:"organizer" validate:"required"`
	Passcode    string   `json:"passcode"`
}

// SignupRequest for joining a meeting by name
type SignupRequest struct {
	Name     string `json:"name" validate:"required"`
	Timezone string `json:"timezone" validate:"required"`
	Passcode string `json:"passcode"`
}

// AvailabilityRequest replaces a participant's slot set wholesale
type AvailabilityRequest struct {
	AvailableSlots []string `json:"availableSlots" validate:"required"`
}

// ===================== Response DTOs =====================

// MeetingResponse for meeting details
type MeetingResponse struct {
	ID           string                `json:"id"`
	Title        string                `json:"title"`
	Description  string                `json:"description,omitempty"`
	Slug         string                `json:"slug"`
	Timezone     string                `json:"timezone"`
	HasPasscode  bool                  `json:"has_passcode"`
	Dates        []entity.DateRange    `json:"dates"`
	Participants []ParticipantResponse `json:"participants,omitempty"`
	ShareURL     string                `json:"share_url,omitempty"`
	CreatedAt    time.Time             `json:"created_at"`
}

// CreateMeetingResponse adds the organizer token, returned only once
type CreateMeetingResponse struct {
	Meeting        MeetingResponse `json:"meeting"`
	OrganizerToken string          `json:"organizer_token"`
}

// ParticipantResponse for participant details
type ParticipantResponse struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Timezone      string `json:"timezone"`
	SlotsSelected int    `json:"slots_selected"`
}

// SignupResponse echoes the participant with their stored slots so a
// rejoining participant can resume editing their selection
type SignupResponse struct {
	Participant    ParticipantResponse `json:"participant"`
	AvailableSlots []string            `json:"availableSlots"`
	Rejoined       bool                `json:"rejoined"`
}

// GridResponse holds everything the grid view needs for one viewer timezone
type GridResponse struct {
	Timezone      string              `json:"timezone"`
	Days          []string            `json:"days"`
	TimeMarkers   []entity.TimeMarker `json:"time_markers"`
	DisabledSlots []string            `json:"disabled_slots"`
}

// ResultsResponse for the ranked best-time view
type ResultsResponse struct {
	Meeting           MeetingResponse         `json:"meeting"`
	Timezone          string                  `json:"timezone"`
	TotalParticipants int                     `json:"total_participants"`
	Slots             []entity.AggregatedSlot `json:"slots"`
	Windows           []entity.ResultWindow   `json:"windows"`
	HiddenCount       int                     `json:"hidden_count"`
	NoMajority        bool                    `json:"no_majority"`
	Empty             bool                    `json:"empty"`
	ViewerName        string                  `json:"viewer_name,omitempty"`
}

// ===================== Mapper Functions =====================

// ToMeetingResponse maps entity to DTO
func ToMeetingResponse(m *entity.Meeting, participants []entity.Participant, shareURL string) MeetingResponse {
	resp := MeetingResponse{
		ID:          m.ID,
		Title:       m.Title,
		Slug:        m.Slug,
		Timezone:    m.Timezone,
		HasPasscode: m.PasscodeHash != nil,
		Dates:       m.Dates,
		ShareURL:    shareURL,
		CreatedAt:   m.CreatedAt,
	}
	if m.Description != nil {
		resp.Description = *m.Description
	}

	for _, p := range participants {
		resp.Participants = append(resp.Participants, ToParticipantResponse(&p))
	}

	return resp
}

// ToParticipantResponse maps entity to DTO
func ToParticipantResponse(p *entity.Participant) ParticipantResponse {
	return ParticipantResponse{
		ID:            p.ID.String(),
		Name:          p.Name,
		Timezone:      p.Timezone,
		SlotsSelected: len(p.AvailableSlots),
	}
}
