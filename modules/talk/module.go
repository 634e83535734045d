package talk

import (
	"confhub/core/database"
	"confhub/core/middleware"
	"confhub/core/storage"
	scheduleservice "confhub/modules/schedule/service"
	"confhub/modules/talk/controller"
	"confhub/modules/talk/repository"
	"confhub/modules/talk/router"
	"confhub/modules/talk/service"

	"github.com/labstack/echo/v4"
)

// NewRepository builds the talk repository; the schedule module consumes it
// as its talk reader.
func NewRepository(db database.IDatabase) *repository.TalkRepository {
	return repository.NewTalkRepository(db)
}

// Init initializes the talk module and registers routes.
func Init(e *echo.Echo, repo *repository.TalkRepository, store storage.ObjectStorage, mw *middleware.Middleware, scheduleSvc scheduleservice.ScheduleService, notifier service.Notifier) {
	svc := service.NewTalkService(repo, store, notifier)
	ctrl := controller.NewTalkController(svc, scheduleSvc)
	router.NewTalkRouter(ctrl).Setup(e, mw)
}
