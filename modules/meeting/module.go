package meeting

import (
	"meetpoll-api/core/cache"
	"meetpoll-api/core/config"
	"meetpoll-api/core/database"
	"meetpoll-api/core/middleware"

	"meetpoll-api/modules/meeting/controller"
	"meetpoll-api/modules/meeting/repository"
	"meetpoll-api/modules/meeting/router"
	"meetpoll-api/modules/meeting/service"

	"github.com/labstack/echo/v4"
)

func Init(e *echo.Echo, db database.IDatabase, c cache.ICache, cfg *config.Config, mw *middleware.Middleware) service.MeetingServiceInterface {
	repo := repository.NewMeetingRepository(db)
	svc := service.NewMeetingService(repo, c, cfg)
	ctrl := controller.NewMeetingController(svc)
	router.NewMeetingRouter(ctrl).Setup(e, mw)
	return svc
}
