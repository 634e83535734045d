package notification

import (
	"confhub/core/database"
	"confhub/core/middleware"
	"confhub/modules/notification/controller"
	"confhub/modules/notification/repository"
	"confhub/modules/notification/router"
	"confhub/modules/notification/service"

	"github.com/hibiken/asynq"
	"github.com/labstack/echo/v4"
)

// Init initializes the notification module and registers routes. The
// returned service is the Notifier the talk and schedule modules publish
// through; the returned repository feeds the asynq worker mux.
func Init(e *echo.Group, db database.IDatabase, client *asynq.Client, mw *middleware.Middleware) (*service.NotificationService, *repository.NotificationRepository) {
	repo := repository.NewNotificationRepository(db)
	svc := service.NewNotificationService(repo, client)
	ctrl := controller.NewNotificationController(svc)

	router.NewNotificationRouter(ctrl).Register(e, mw)

	return svc, repo
}
