package router

import (
	"confhub/core/constants"
	"confhub/core/middleware"
	"confhub/modules/room/controller"

	"github.com/labstack/echo/v4"
)

// RoomRouter handles room routes
type RoomRouter struct {
	RoomController *controller.RoomController
}

// NewRoomRouter creates a new router
func NewRoomRouter(roomController *controller.RoomController) *RoomRouter {
	return &RoomRouter{
		RoomController: roomController,
	}
}

// Setup registers room routes. Reads are open to any logged-in user;
// mutations are organizer-only.
func (r *RoomRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")
	rooms := v1.Group("/private/rooms", mw.AuthMiddleware())

	rooms.GET("", r.RoomController.ListRooms)
	rooms.GET("/:id", r.RoomController.GetRoom)

	organizer := mw.RequireRole(constants.RoleOrganizer)
	rooms.POST("", r.RoomController.CreateRoom, organizer)
	rooms.PUT("/:id", r.RoomController.UpdateRoom, organizer)
	rooms.DELETE("/:id", r.RoomController.DeleteRoom, organizer)
}
