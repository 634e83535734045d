package auth

import (
	"confhub/core/cache"
	"confhub/core/database"
	"confhub/core/middleware"
	"confhub/modules/auth/controller"
	"confhub/modules/auth/repository"
	"confhub/modules/auth/router"
	"confhub/modules/auth/service"

	"github.com/labstack/echo/v4"
)

// Init initializes the auth module and registers routes.
func Init(e *echo.Echo, db database.IDatabase, c cache.Cache, mw *middleware.Middleware) service.AuthServiceInterface {
	repo := repository.NewAuthRepository(db)
	svc := service.NewAuthService(repo, c)
	ctrl := controller.NewAuthController(svc)
	router.NewAuthRouter(ctrl).Setup(e, mw)

	return svc
}
