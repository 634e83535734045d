package schedule

import (
	"time"

	"confhub/core/cache"
	"confhub/core/config"
	"confhub/core/database"
	"confhub/core/middleware"
	"confhub/modules/schedule/controller"
	"confhub/modules/schedule/repository"
	"confhub/modules/schedule/router"
	"confhub/modules/schedule/service"
	roomservice "confhub/modules/room/service"

	"github.com/labstack/echo/v4"
)

// Init initializes the schedule module and registers routes. The returned
// service is shared with the talk module for booking and cancellation.
func Init(e *echo.Echo, db database.IDatabase, c cache.Cache, mw *middleware.Middleware, talks service.TalkReader, rooms service.RoomReader, roomSvc roomservice.RoomService, notifier service.Notifier) (service.ScheduleService, error) {
	cfg := config.Get()

	hours, err := service.NewOperatingHours(cfg.Schedule)
	if err != nil {
		return nil, err
	}

	repo := repository.NewScheduleRepository(db)
	svc := service.NewScheduleService(repo, talks, rooms, hours,
		time.Duration(cfg.Schedule.SlotMinutes)*time.Minute, c, notifier)
	ctrl := controller.NewScheduleController(svc, roomSvc)
	router.NewScheduleRouter(ctrl).Setup(e, mw)

	return svc, nil
}
