package room

import (
	"confhub/core/database"
	"confhub/core/middleware"
	"confhub/modules/room/controller"
	"confhub/modules/room/repository"
	"confhub/modules/room/router"
	"confhub/modules/room/service"

	"github.com/labstack/echo/v4"
)

// NewRepository builds a room repository for modules that only need reads.
func NewRepository(db database.IDatabase) *repository.RoomRepository {
	return repository.NewRoomRepository(db)
}

// Init initializes the room module and registers routes. The returned
// service backs the schedule module's availability queries.
func Init(e *echo.Echo, db database.IDatabase, mw *middleware.Middleware) service.RoomService {
	repo := repository.NewRoomRepository(db)
	svc := service.NewRoomService(repo)
	ctrl := controller.NewRoomController(svc)
	router.NewRoomRouter(ctrl).Setup(e, mw)

	return svc
}
