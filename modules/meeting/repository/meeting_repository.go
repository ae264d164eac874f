package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"meetpoll-api/core/database"
	"meetpoll-api/core/logger"

	"meetpoll-api/modules/meeting/entity"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// MeetingRepository handles meeting and participant database operations
type MeetingRepository struct {
	DB database.IDatabase
}

// NewMeetingRepository creates a new repository instance
func NewMeetingRepository(db database.IDatabase) *MeetingRepository {
	return &MeetingRepository{DB: db}
}

// MeetingRepositoryInterface defines the repository contract
type MeetingRepositoryInterface interface {
	CreateMeeting(ctx context.Context, meeting *entity.Meeting) error
	GetMeetingByID(ctx context.Context, id string) (*entity.Meeting, error)
	DeleteMeeting(ctx context.Context, id string) error
	ListExpiredMeetings(ctx context.Context, endedBefore time.Time) ([]string, error)

	CreateParticipant(ctx context.Context, participant *entity.Participant) error
	GetParticipantByName(ctx context.Context, meetingID string, name string) (*entity.Participant, error)
	ListParticipants(ctx context.Context, meetingID string) ([]entity.Participant, error)
	UpdateAvailability(ctx context.Context, meetingID string, name string, slots entity.SlotList) error
	RemoveParticipant(ctx context.Context, meetingID string, name string) error
}

// ===================== Meetings =====================

func (r *MeetingRepository) CreateMeeting(ctx context.Context, meeting *entity.Meeting) error {
	query := `
		INSERT INTO meetings (id, title, description, slug, timezone, passcode_hash)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	err := r.DB.ExecContext(ctx, query,
		meeting.ID, meeting.Title, meeting.Description, meeting.Slug,
		meeting.Timezone, meeting.PasscodeHash)
	if err != nil {
		logger.Error("MeetingRepository:CreateMeeting", err)
		return err
	}

	dateQuery := `
		INSERT INTO meeting_dates (meeting_id, start_time, end_time)
		VALUES ($1, $2, $3)
	`
	for _, d := range meeting.Dates {
		if err := r.DB.ExecContext(ctx, dateQuery, meeting.ID, d.StartTime, d.EndTime); err != nil {
			logger.Error("MeetingRepository:CreateMeeting:dates", err)
			return err
		}
	}

	return nil
}

func (r *MeetingRepository) GetMeetingByID(ctx context.Context, id string) (*entity.Meeting, error) {
	query := `
		SELECT id, title, description, slug, timezone, passcode_hash, created_at
		FROM meetings WHERE id = $1
	`

	var meeting entity.Meeting
	err := r.DB.GetContext(ctx, &meeting, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("MeetingRepository:GetMeetingByID", err)
		return nil, err
	}

	dateQuery := `
		SELECT meeting_id, start_time, end_time
		FROM meeting_dates
		WHERE meeting_id = $1
		ORDER BY start_time
	`
	var dates []entity.DateRange
	if err := r.DB.SelectContext(ctx, &dates, dateQuery, id); err != nil {
		logger.Error("MeetingRepository:GetMeetingByID:dates", err)
		return nil, err
	}
	meeting.Dates = dates

	return &meeting, nil
}

func (r *MeetingRepository) DeleteMeeting(ctx context.Context, id string) error {
	query := `DELETE FROM meetings WHERE id = $1`
	err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		logger.Error("MeetingRepository:DeleteMeeting", err)
		return err
	}
	return nil
}

// ListExpiredMeetings returns ids of meetings whose last proposed day ended
// before the cutoff. Used by the retention cleanup job.
func (r *MeetingRepository) ListExpiredMeetings(ctx context.Context, endedBefore time.Time) ([]string, error) {
	query := `
		SELECT m.id
		FROM meetings m
		JOIN meeting_dates d ON d.meeting_id = m.id
		GROUP BY m.id
		HAVING MAX(d.end_time) < $1
	`

	var ids []string
	err := r.DB.SelectContext(ctx, &ids, query, endedBefore)
	if err != nil {
		logger.Error("MeetingRepository:ListExpiredMeetings", err)
		return nil, err
	}
	return ids, nil
}

// ===================== Participants =====================

// CreateParticipant inserts a new participant. The unique index on
// (meeting_id, lower(name)) rejects a concurrent signup racing on the same
// case-insensitive name; callers detect that with IsUniqueViolation.
func (r *MeetingRepository) CreateParticipant(ctx context.Context, participant *entity.Participant) error {
	if participant.ID == uuid.Nil {
		participant.ID = uuid.New()
	}
	if participant.AvailableSlots == nil {
		participant.AvailableSlots = entity.SlotList{}
	}

	query := `
		INSERT INTO participants (id, meeting_id, name, timezone, available_slots)
		VALUES ($1, $2, $3, $4, $5)
	`

	err := r.DB.ExecContext(ctx, query,
		participant.ID, participant.MeetingID, participant.Name,
		participant.Timezone, participant.AvailableSlots)
	if err != nil {
		logger.Error("MeetingRepository:CreateParticipant", err)
		return err
	}

	return nil
}

func (r *MeetingRepository) GetParticipantByName(ctx context.Context, meetingID string, name string) (*entity.Participant, error) {
	query := `
		SELECT id, meeting_id, name, timezone, available_slots, joined_at, updated_at
		FROM participants
		WHERE meeting_id = $1 AND lower(name) = lower($2)
	`

	var participant entity.Participant
	err := r.DB.GetContext(ctx, &participant, query, meetingID, name)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("MeetingRepository:GetParticipantByName", err)
		return nil, err
	}

	return &participant, nil
}

func (r *MeetingRepository) ListParticipants(ctx context.Context, meetingID string) ([]entity.Participant, error) {
	query := `
		SELECT id, meeting_id, name, timezone, available_slots, joined_at, updated_at
		FROM participants
		WHERE meeting_id = $1
		ORDER BY joined_at
	`

	var participants []entity.Participant
	err := r.DB.SelectContext(ctx, &participants, query, meetingID)
	if err != nil {
		logger.Error("MeetingRepository:ListParticipants", err)
		return nil, err
	}

	return participants, nil
}

// UpdateAvailability replaces the participant's slot set wholesale.
// Resubmitting the same set is a no-op-equivalent upsert, so retries after
// transient failures are always safe.
func (r *MeetingRepository) UpdateAvailability(ctx context.Context, meetingID string, name string, slots entity.SlotList) error {
	query := `
		UPDATE participants
		SET available_slots = $3, updated_at = NOW()
		WHERE meeting_id = $1 AND lower(name) = lower($2)
	`

	err := r.DB.ExecContext(ctx, query, meetingID, name, slots)
	if err != nil {
		logger.Error("MeetingRepository:UpdateAvailability", err)
		return err
	}
	return nil
}

func (r *MeetingRepository) RemoveParticipant(ctx context.Context, meetingID string, name string) error {
	query := `DELETE FROM participants WHERE meeting_id = $1 AND lower(name) = lower($2)`
	err := r.DB.ExecContext(ctx, query, meetingID, name)
	if err != nil {
		logger.Error("MeetingRepository:RemoveParticipant", err)
		return err
	}
	return nil
}

// IsUniqueViolation reports whether err is the unique-index violation raised
// when two signups race on the same case-insensitive name.
func IsUniqueViolation(err error) bool {
	if pqErr, ok := err.(*pq.Error); ok {
		return pqErr.Code == "23505"
	}
	return err != nil && strings.Contains(err.Error(), "duplicate key value")
}
