package router

import (
	"confhub/core/middleware"
	"confhub/modules/auth/controller"

	"github.com/labstack/echo/v4"
)

// AuthRouter handles auth routes
type AuthRouter struct {
	AuthController *controller.AuthController
}

// NewAuthRouter creates a new router
func NewAuthRouter(authController *controller.AuthController) *AuthRouter {
	return &AuthRouter{
		AuthController: authController,
	}
}

// Setup registers auth routes.
func (r *AuthRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")

	auth := v1.Group("/auth")
	auth.POST("/register", r.AuthController.Register)
	auth.POST("/login", r.AuthController.Login)
	auth.GET("/google", r.AuthController.GoogleLogin)
	auth.GET("/google/callback", r.AuthController.GoogleCallback)

	private := v1.Group("/private/auth", mw.AuthMiddleware())
	private.POST("/logout", r.AuthController.Logout)
	private.GET("/me", r.AuthController.Me)
}
