package router

import (
	"confhub/core/middleware"
	"confhub/modules/schedule/controller"

	"github.com/labstack/echo/v4"
)

// ScheduleRouter handles schedule routes
type ScheduleRouter struct {
	ScheduleController *controller.ScheduleController
}

// NewScheduleRouter creates a new router
func NewScheduleRouter(scheduleController *controller.ScheduleController) *ScheduleRouter {
	return &ScheduleRouter{
		ScheduleController: scheduleController,
	}
}

// Setup registers schedule routes. The day view is public; availability
// queries require a login.
func (r *ScheduleRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")

	v1.GET("/schedule", r.ScheduleController.GetDaySchedule)

	private := v1.Group("/private/schedule", mw.AuthMiddleware())
	private.GET("/available-times", r.ScheduleController.GetAvailableTimes)
	private.GET("/available-rooms", r.ScheduleController.GetAvailableRooms)

	v1.GET("/private/rooms/availability", r.ScheduleController.GetAvailabilityGrid, mw.AuthMiddleware())
}
