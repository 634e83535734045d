package router

import (
	"confhub/core/constants"
	"confhub/core/middleware"
	"confhub/modules/talk/controller"

	"github.com/labstack/echo/v4"
)

// TalkRouter handles talk routes
type TalkRouter struct {
	TalkController *controller.TalkController
}

// NewTalkRouter creates a new router
func NewTalkRouter(talkController *controller.TalkController) *TalkRouter {
	return &TalkRouter{
		TalkController: talkController,
	}
}

// Setup registers talk routes. Reference data is public; everything else
// needs a login; decisions and bookings are organizer-only.
func (r *TalkRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")

	refs := v1.Group("/references")
	refs.GET("/subjects", r.TalkController.ListSubjects)
	refs.GET("/levels", r.TalkController.ListLevels)
	refs.GET("/statuses", r.TalkController.ListStatuses)

	talks := v1.Group("/private/talks", mw.AuthMiddleware())

	talks.POST("", r.TalkController.CreateTalk)
	talks.GET("", r.TalkController.ListTalks)
	talks.GET("/me", r.TalkController.ListMyTalks)
	talks.GET("/favorites", r.TalkController.ListFavorites)
	talks.GET("/:id", r.TalkController.GetTalk)
	talks.PUT("/:id", r.TalkController.UpdateTalk)
	talks.DELETE("/:id", r.TalkController.DeleteTalk)

	talks.POST("/:id/favorite", r.TalkController.FavoriteTalk)
	talks.DELETE("/:id/favorite", r.TalkController.UnfavoriteTalk)
	talks.POST("/:id/attachment", r.TalkController.UploadAttachment)

	organizer := mw.RequireRole(constants.RoleOrganizer)
	talks.POST("/:id/accept", r.TalkController.AcceptTalk, organizer)
	talks.POST("/:id/reject", r.TalkController.RejectTalk, organizer)
	talks.POST("/:id/schedule", r.TalkController.ScheduleTalk, organizer)
	talks.PUT("/:id/schedule", r.TalkController.RescheduleTalk, organizer)
	talks.DELETE("/:id/schedule", r.TalkController.UnscheduleTalk, organizer)
}
