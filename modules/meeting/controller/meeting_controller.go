package controller

import (
	"net/http"

	"meetpoll-api/core/controller"
	"meetpoll-api/core/errors"

	"meetpoll-api/modules/meeting/dto"
	"meetpoll-api/modules/meeting/service"

	"github.com/labstack/echo/v4"
)

// MeetingController handles meeting poll HTTP requests
type MeetingController struct {
	controller.BaseController
	MeetingService service.MeetingServiceInterface
}

// NewMeetingController creates a new controller
func NewMeetingController(svc service.MeetingServiceInterface) *MeetingController {
	return &MeetingController{
		BaseController: controller.NewBaseController(),
		MeetingService: svc,
	}
}

// viewerTimezone reads the viewer timezone from the query, defaulting to UTC.
// Validation happens in the service, which knows the IANA database.
func viewerTimezone(ctx echo.Context) string {
	tz := ctx.QueryParam("timezone")
	if tz == "" {
		return "UTC"
	}
	return tz
}

// CreateMeeting handles POST /meetings
// @Summary Create a meeting poll
// @Description Create a meeting poll from proposed days, in the organizer's timezone
// @Tags Meeting
// @Accept json
// @Produce json
// @Param request body dto.CreateMeetingRequest true "Meeting details"
// @Success 200 {object} dto.CreateMeetingResponse
// @Failure 400 {object} errors.AppError
// @Router /meetings [post]
func (c *MeetingController) CreateMeeting(ctx echo.Context) error {
	var req dto.CreateMeetingRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}
	if err := ctx.Validate(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, err.Error())
	}

	result, appErr := c.MeetingService.CreateMeeting(ctx.Request().Context(), &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Meeting created successfully")
}

// GetMeeting handles GET /meetings/:id
// @Summary Get a meeting
// @Description Get meeting details with participants
// @Tags Meeting
// @Produce json
// @Param id path string true "Meeting ID"
// @Success 200 {object} dto.MeetingResponse
// @Failure 404 {object} errors.AppError
// @Router /meetings/{id} [get]
func (c *MeetingController) GetMeeting(ctx echo.Context) error {
	result, appErr := c.MeetingService.GetMeeting(ctx.Request().Context(), ctx.Param("id"))
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// GetGrid handles GET /meetings/:id/grid
// @Summary Get the selection grid
// @Description Time markers, display days and disabled slots for a viewer timezone
// @Tags Meeting
// @Produce json
// @Param id path string true "Meeting ID"
// @Param timezone query string false "IANA timezone, defaults to UTC"
// @Success 200 {object} dto.GridResponse
// @Failure 400 {object} errors.AppError
// @Router /meetings/{id}/grid [get]
func (c *MeetingController) GetGrid(ctx echo.Context) error {
	result, appErr := c.MeetingService.GetGrid(ctx.Request().Context(), ctx.Param("id"), viewerTimezone(ctx))
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// Signup handles POST /meetings/:id/participants
// @Summary Join a meeting
// @Description Sign up by name; rejoining with the same name (case-insensitive) returns the existing participant
// @Tags Meeting
// @Accept json
// @Produce json
// @Param id path string true "Meeting ID"
// @Param request body dto.SignupRequest true "Participant name and timezone"
// @Success 200 {object} dto.SignupResponse
// @Failure 409 {object} errors.AppError
// @Router /meetings/{id}/participants [post]
func (c *MeetingController) Signup(ctx echo.Context) error {
	var req dto.SignupRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}
	if err := ctx.Validate(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, err.Error())
	}

	result, appErr := c.MeetingService.Signup(ctx.Request().Context(), ctx.Param("id"), &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Signed up successfully")
}

// SubmitAvailability handles PUT /meetings/:id/participants/:name/availability
// @Summary Submit availability
// @Description Replace the participant's selected slots wholesale
// @Tags Meeting
// @Accept json
// @Produce json
// @Param id path string true "Meeting ID"
// @Param name path string true "Participant name"
// @Param request body dto.AvailabilityRequest true "Canonical slot ids"
// @Success 200 {object} dto.ParticipantResponse
// @Failure 400 {object} errors.AppError
// @Router /meetings/{id}/participants/{name}/availability [put]
func (c *MeetingController) SubmitAvailability(ctx echo.Context) error {
	var req dto.AvailabilityRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.MeetingService.SubmitAvailability(
		ctx.Request().Context(), ctx.Param("id"), ctx.Param("name"), &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Availability saved")
}

// GetResults handles GET /meetings/:id/results
// @Summary Get ranked results
// @Description Aggregated availability grouped into ranked time windows for the viewer timezone
// @Tags Meeting
// @Produce json
// @Param id path string true "Meeting ID"
// @Param timezone query string false "IANA timezone, defaults to UTC"
// @Param name query string false "Viewer name for highlighting"
// @Success 200 {object} dto.ResultsResponse
// @Failure 404 {object} errors.AppError
// @Router /meetings/{id}/results [get]
func (c *MeetingController) GetResults(ctx echo.Context) error {
	result, appErr := c.MeetingService.GetResults(
		ctx.Request().Context(), ctx.Param("id"), viewerTimezone(ctx), ctx.QueryParam("name"))
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// ExportResults handles GET /meetings/:id/results/export
// @Summary Export results as iCalendar
// @Description The shown result windows as an ICS document
// @Tags Meeting
// @Produce text/calendar
// @Param id path string true "Meeting ID"
// @Param timezone query string false "IANA timezone, defaults to UTC"
// @Success 200 {string} string
// @Failure 404 {object} errors.AppError
// @Router /meetings/{id}/results/export [get]
func (c *MeetingController) ExportResults(ctx echo.Context) error {
	data, appErr := c.MeetingService.ExportResultsICS(
		ctx.Request().Context(), ctx.Param("id"), viewerTimezone(ctx))
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	ctx.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="meeting.ics"`)
	return ctx.Blob(http.StatusOK, "text/calendar", data)
}

// RemoveParticipant handles DELETE /meetings/:id/participants/:name
// @Summary Remove a participant
// @Description Organizer-only removal of a participant
// @Tags Meeting
// @Security BearerAuth
// @Produce json
// @Param id path string true "Meeting ID"
// @Param name path string true "Participant name"
// @Success 200 {object} controller.SuccessResponse
// @Failure 401 {object} errors.AppError
// @Router /meetings/{id}/participants/{name} [delete]
func (c *MeetingController) RemoveParticipant(ctx echo.Context) error {
	appErr := c.MeetingService.RemoveParticipant(ctx.Request().Context(), ctx.Param("id"), ctx.Param("name"))
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, nil, "Participant removed")
}

// DeleteMeeting handles DELETE /meetings/:id
// @Summary Delete a meeting
// @Description Organizer-only deletion of the meeting and all its data
// @Tags Meeting
// @Security BearerAuth
// @Produce json
// @Param id path string true "Meeting ID"
// @Success 200 {object} controller.SuccessResponse
// @Failure 401 {object} errors.AppError
// @Router /meetings/{id} [delete]
func (c *MeetingController) DeleteMeeting(ctx echo.Context) error {
	appErr := c.MeetingService.DeleteMeeting(ctx.Request().Context(), ctx.Param("id"))
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, nil, "Meeting deleted")
}
