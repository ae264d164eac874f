package router

import (
	"meetpoll-api/core/middleware"

	"meetpoll-api/modules/meeting/controller"

	"github.com/labstack/echo/v4"
)

type MeetingRouter struct {
	Controller *controller.MeetingController
}

func NewMeetingRouter(ctrl *controller.MeetingController) *MeetingRouter {
	return &MeetingRouter{Controller: ctrl}
}

// Setup registers the meeting routes. Everything a participant touches is
// public by design; destructive routes require the organizer token.
func (r *MeetingRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")

	meetings := v1.Group("/meetings")
	meetings.POST("", r.Controller.CreateMeeting)
	meetings.GET("/:id", r.Controller.GetMeeting)
	meetings.GET("/:id/grid", r.Controller.GetGrid)
	meetings.POST("/:id/participants", r.Controller.Signup)
	meetings.PUT("/:id/participants/:name/availability", r.Controller.SubmitAvailability)
	meetings.GET("/:id/results", r.Controller.GetResults)
	meetings.GET("/:id/results/export", r.Controller.ExportResults)

	organizer := v1.Group("/meetings", mw.OrganizerAuth())
	organizer.DELETE("/:id", r.Controller.DeleteMeeting)
	organizer.DELETE("/:id/participants/:name", r.Controller.RemoveParticipant)
}
