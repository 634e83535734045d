package controller

import (
	"confhub/core/constants"
	"confhub/core/controller"
	"confhub/core/errors"
	"confhub/core/utils"
	scheduledto "confhub/modules/schedule/dto"
	scheduleservice "confhub/modules/schedule/service"
	"confhub/modules/talk/dto"
	"confhub/modules/talk/entity"
	"confhub/modules/talk/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// TalkController handles talk HTTP requests, including booking a talk into
// a room.
type TalkController struct {
	controller.BaseController
	TalkService     service.TalkService
	ScheduleService scheduleservice.ScheduleService
}

// NewTalkController creates a new controller
func NewTalkController(talkService service.TalkService, scheduleService scheduleservice.ScheduleService) *TalkController {
	return &TalkController{
		BaseController:  controller.NewBaseController(),
		TalkService:     talkService,
		ScheduleService: scheduleService,
	}
}

func claimsFromContext(ctx echo.Context) (*utils.TokenClaims, error) {
	tokenData := ctx.Get(constants.ContextTokenData)
	if tokenData == nil {
		return nil, errors.NewAppError(errors.ErrUnauthorized, "User not authenticated", nil)
	}
	claims, ok := tokenData.(*utils.TokenClaims)
	if !ok {
		return nil, errors.NewAppError(errors.ErrUnauthorized, "Invalid token data", nil)
	}
	return claims, nil
}

// CreateTalk handles POST /talks
// @Summary Submit a talk
// @Tags Talk
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateTalkRequest true "Talk data"
// @Success 200 {object} dto.TalkResponse
// @Failure 400 {object} controller.ErrorResponse
// @Router /private/talks [post]
func (c *TalkController) CreateTalk(ctx echo.Context) error {
	claims, err := claimsFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	var req dto.CreateTalkRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	talk, appErr := c.TalkService.Create(ctx.Request().Context(), claims.UserID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, dto.NewTalkResponse(talk), "Talk submitted successfully")
}

// ListTalks handles GET /talks
// @Summary List talks
// @Tags Talk
// @Security BearerAuth
// @Produce json
// @Param status query string false "Status filter"
// @Param level query string false "Level filter"
// @Param search query string false "Title/description search"
// @Success 200 {array} dto.TalkResponse
// @Router /private/talks [get]
func (c *TalkController) ListTalks(ctx echo.Context) error {
	var q dto.ListTalksQuery
	if err := ctx.Bind(&q); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid query parameters")
	}

	talks, appErr := c.TalkService.List(ctx.Request().Context(), &q)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, dto.NewTalkResponses(talks), "Success")
}

// ListMyTalks handles GET /talks/me
// @Summary List the caller's talks
// @Tags Talk
// @Security BearerAuth
// @Produce json
// @Success 200 {array} dto.TalkResponse
// @Router /private/talks/me [get]
func (c *TalkController) ListMyTalks(ctx echo.Context) error {
	claims, err := claimsFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	talks, appErr := c.TalkService.ListBySpeaker(ctx.Request().Context(), claims.UserID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, dto.NewTalkResponses(talks), "Success")
}

// GetTalk handles GET /talks/:id
// @Summary Get a talk
// @Tags Talk
// @Security BearerAuth
// @Produce json
// @Param id path string true "Talk ID"
// @Success 200 {object} dto.TalkResponse
// @Failure 404 {object} controller.ErrorResponse
// @Router /private/talks/{id} [get]
func (c *TalkController) GetTalk(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid talk ID")
	}

	talk, err := c.TalkService.GetByID(ctx.Request().Context(), id)
	if err != nil {
		return c.ErrorResponse(ctx, errors.NewAppError(errors.ErrGetFailed, "Failed to load talk", err))
	}
	if talk == nil {
		return c.NotFound(errors.ErrNotFound, "Talk not found")
	}

	return c.SuccessResponse(ctx, dto.NewTalkResponse(talk), "Success")
}

// UpdateTalk handles PUT /talks/:id
// @Summary Update a talk
// @Tags Talk
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Talk ID"
// @Param request body dto.UpdateTalkRequest true "Fields to update"
// @Success 200 {object} dto.TalkResponse
// @Failure 403 {object} controller.ErrorResponse
// @Router /private/talks/{id} [put]
func (c *TalkController) UpdateTalk(ctx echo.Context) error {
	claims, err := claimsFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid talk ID")
	}

	var req dto.UpdateTalkRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	talk, appErr := c.TalkService.Update(ctx.Request().Context(), id, claims.UserID,
		claims.Role == constants.RoleOrganizer, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, dto.NewTalkResponse(talk), "Talk updated successfully")
}

// DeleteTalk handles DELETE /talks/:id
// @Summary Delete a talk
// @Tags Talk
// @Security BearerAuth
// @Param id path string true "Talk ID"
// @Success 200 {object} controller.SuccessResponse
// @Failure 403 {object} controller.ErrorResponse
// @Router /private/talks/{id} [delete]
func (c *TalkController) DeleteTalk(ctx echo.Context) error {
	claims, err := claimsFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid talk ID")
	}

	if appErr := c.TalkService.Delete(ctx.Request().Context(), id, claims.UserID,
		claims.Role == constants.RoleOrganizer); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, nil, "Talk deleted successfully")
}

// AcceptTalk handles POST /talks/:id/accept
// @Summary Accept a pending talk
// @Tags Talk
// @Security BearerAuth
// @Produce json
// @Param id path string true "Talk ID"
// @Success 200 {object} dto.TalkResponse
// @Failure 409 {object} controller.ErrorResponse
// @Router /private/talks/{id}/accept [post]
func (c *TalkController) AcceptTalk(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid talk ID")
	}

	talk, appErr := c.TalkService.Accept(ctx.Request().Context(), id)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, dto.NewTalkResponse(talk), "Talk accepted")
}

// RejectTalk handles POST /talks/:id/reject
// @Summary Reject a pending talk
// @Tags Talk
// @Security BearerAuth
// @Produce json
// @Param id path string true "Talk ID"
// @Success 200 {object} dto.TalkResponse
// @Failure 409 {object} controller.ErrorResponse
// @Router /private/talks/{id}/reject [post]
func (c *TalkController) RejectTalk(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid talk ID")
	}

	talk, appErr := c.TalkService.Reject(ctx.Request().Context(), id)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, dto.NewTalkResponse(talk), "Talk rejected")
}

// ScheduleTalk handles POST /talks/:id/schedule
// @Summary Book an accepted talk into a room
// @Tags Talk
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Talk ID"
// @Param request body scheduledto.BookScheduleRequest true "Room and interval"
// @Success 200 {object} scheduledto.ScheduleResponse
// @Failure 400 {object} controller.ErrorResponse
// @Failure 409 {object} controller.ErrorResponse
// @Router /private/talks/{id}/schedule [post]
func (c *TalkController) ScheduleTalk(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid talk ID")
	}

	var req scheduledto.BookScheduleRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}
	if req.RoomID == uuid.Nil || req.StartTime.IsZero() || req.EndTime.IsZero() {
		return c.BadRequest(errors.ErrInvalidRequestData, "room_id, start_time and end_time are required")
	}

	created, appErr := c.ScheduleService.CommitBooking(ctx.Request().Context(), id, req.RoomID, req.StartTime, req.EndTime)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, scheduledto.NewScheduleResponse(created), "Talk scheduled successfully")
}

// RescheduleTalk handles PUT /talks/:id/schedule
// @Summary Move a scheduled talk to a new room or time slot
// @Tags Talk
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Talk ID"
// @Param request body scheduledto.BookScheduleRequest true "New room and interval"
// @Success 200 {object} scheduledto.ScheduleResponse
// @Failure 400 {object} controller.ErrorResponse
// @Failure 409 {object} controller.ErrorResponse
// @Router /private/talks/{id}/schedule [put]
func (c *TalkController) RescheduleTalk(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid talk ID")
	}

	var req scheduledto.BookScheduleRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}
	if req.RoomID == uuid.Nil || req.StartTime.IsZero() || req.EndTime.IsZero() {
		return c.BadRequest(errors.ErrInvalidRequestData, "room_id, start_time and end_time are required")
	}

	updated, appErr := c.ScheduleService.RescheduleBooking(ctx.Request().Context(), id, req.RoomID, req.StartTime, req.EndTime)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, scheduledto.NewScheduleResponse(updated), "Booking moved")
}

// UnscheduleTalk handles DELETE /talks/:id/schedule
// @Summary Cancel a talk's booking
// @Tags Talk
// @Security BearerAuth
// @Param id path string true "Talk ID"
// @Success 200 {object} controller.SuccessResponse
// @Failure 409 {object} controller.ErrorResponse
// @Router /private/talks/{id}/schedule [delete]
func (c *TalkController) UnscheduleTalk(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid talk ID")
	}

	if appErr := c.ScheduleService.CancelBooking(ctx.Request().Context(), id); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, nil, "Booking canceled")
}

// FavoriteTalk handles POST /talks/:id/favorite
// @Summary Bookmark a talk
// @Tags Talk
// @Security BearerAuth
// @Param id path string true "Talk ID"
// @Success 200 {object} controller.SuccessResponse
// @Router /private/talks/{id}/favorite [post]
func (c *TalkController) FavoriteTalk(ctx echo.Context) error {
	claims, err := claimsFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid talk ID")
	}

	if appErr := c.TalkService.AddFavorite(ctx.Request().Context(), claims.UserID, id); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, nil, "Talk favorited")
}

// UnfavoriteTalk handles DELETE /talks/:id/favorite
// @Summary Remove a bookmark
// @Tags Talk
// @Security BearerAuth
// @Param id path string true "Talk ID"
// @Success 200 {object} controller.SuccessResponse
// @Router /private/talks/{id}/favorite [delete]
func (c *TalkController) UnfavoriteTalk(ctx echo.Context) error {
	claims, err := claimsFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid talk ID")
	}

	if appErr := c.TalkService.RemoveFavorite(ctx.Request().Context(), claims.UserID, id); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, nil, "Talk unfavorited")
}

// ListFavorites handles GET /talks/favorites
// @Summary List the caller's bookmarked talks
// @Tags Talk
// @Security BearerAuth
// @Produce json
// @Success 200 {array} dto.TalkResponse
// @Router /private/talks/favorites [get]
func (c *TalkController) ListFavorites(ctx echo.Context) error {
	claims, err := claimsFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	talks, appErr := c.TalkService.ListFavorites(ctx.Request().Context(), claims.UserID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, dto.NewTalkResponses(talks), "Success")
}

// UploadAttachment handles POST /talks/:id/attachment
// @Summary Upload slides for a talk
// @Tags Talk
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Talk ID"
// @Param file formData file true "Attachment"
// @Success 200 {object} dto.AttachmentResponse
// @Failure 400 {object} controller.ErrorResponse
// @Router /private/talks/{id}/attachment [post]
func (c *TalkController) UploadAttachment(ctx echo.Context) error {
	claims, err := claimsFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid talk ID")
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "file form field is required")
	}
	file, err := fileHeader.Open()
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Failed to read uploaded file")
	}
	defer file.Close()

	url, appErr := c.TalkService.UploadAttachment(ctx.Request().Context(), id, claims.UserID,
		fileHeader.Filename, fileHeader.Header.Get("Content-Type"), file)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, &dto.AttachmentResponse{URL: url}, "Attachment uploaded")
}

// ListSubjects handles GET /references/subjects
// @Summary List talk subjects
// @Tags Reference
// @Produce json
// @Success 200 {array} dto.SubjectResponse
// @Router /references/subjects [get]
func (c *TalkController) ListSubjects(ctx echo.Context) error {
	subjects, appErr := c.TalkService.ListSubjects(ctx.Request().Context())
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	out := make([]dto.SubjectResponse, 0, len(subjects))
	for _, s := range subjects {
		out = append(out, dto.SubjectResponse{ID: s.ID, Name: s.Name})
	}
	return c.SuccessResponse(ctx, out, "Success")
}

// ListLevels handles GET /references/levels
// @Summary List talk levels
// @Tags Reference
// @Produce json
// @Success 200 {array} string
// @Router /references/levels [get]
func (c *TalkController) ListLevels(ctx echo.Context) error {
	return c.SuccessResponse(ctx, entity.AllLevels(), "Success")
}

// ListStatuses handles GET /references/statuses
// @Summary List talk statuses
// @Tags Reference
// @Produce json
// @Success 200 {array} string
// @Router /references/statuses [get]
func (c *TalkController) ListStatuses(ctx echo.Context) error {
	return c.SuccessResponse(ctx, entity.AllStatuses(), "Success")
}
