package controller

import (
	"confhub/core/controller"
	"confhub/core/errors"
	"confhub/modules/room/dto"
	"confhub/modules/room/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// RoomController handles room HTTP requests
type RoomController struct {
	controller.BaseController
	RoomService service.RoomService
}

// NewRoomController creates a new controller
func NewRoomController(svc service.RoomService) *RoomController {
	return &RoomController{
		BaseController: controller.NewBaseController(),
		RoomService:    svc,
	}
}

// CreateRoom handles POST /rooms
// @Summary Create a room
// @Tags Room
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateRoomRequest true "Room data"
// @Success 200 {object} dto.RoomResponse
// @Failure 400 {object} controller.ErrorResponse
// @Router /private/rooms [post]
func (c *RoomController) CreateRoom(ctx echo.Context) error {
	var req dto.CreateRoomRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	room, appErr := c.RoomService.Create(ctx.Request().Context(), &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, dto.NewRoomResponse(room), "Room created successfully")
}

// GetRoom handles GET /rooms/:id
// @Summary Get a room
// @Tags Room
// @Security BearerAuth
// @Produce json
// @Param id path string true "Room ID"
// @Success 200 {object} dto.RoomResponse
// @Failure 404 {object} controller.ErrorResponse
// @Router /private/rooms/{id} [get]
func (c *RoomController) GetRoom(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid room ID")
	}

	room, appErr := c.RoomService.GetByID(ctx.Request().Context(), id)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, dto.NewRoomResponse(room), "Success")
}

// ListRooms handles GET /rooms
// @Summary List rooms
// @Tags Room
// @Security BearerAuth
// @Produce json
// @Success 200 {array} dto.RoomResponse
// @Router /private/rooms [get]
func (c *RoomController) ListRooms(ctx echo.Context) error {
	rooms, appErr := c.RoomService.List(ctx.Request().Context())
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, dto.NewRoomResponses(rooms), "Success")
}

// UpdateRoom handles PUT /rooms/:id
// @Summary Update a room
// @Tags Room
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Room ID"
// @Param request body dto.UpdateRoomRequest true "Fields to update"
// @Success 200 {object} dto.RoomResponse
// @Failure 404 {object} controller.ErrorResponse
// @Router /private/rooms/{id} [put]
func (c *RoomController) UpdateRoom(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid room ID")
	}

	var req dto.UpdateRoomRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	room, appErr := c.RoomService.Update(ctx.Request().Context(), id, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, dto.NewRoomResponse(room), "Room updated successfully")
}

// DeleteRoom handles DELETE /rooms/:id
// @Summary Delete a room
// @Description Fails while the room still has scheduled talks
// @Tags Room
// @Security BearerAuth
// @Param id path string true "Room ID"
// @Success 200 {object} controller.SuccessResponse
// @Failure 409 {object} controller.ErrorResponse
// @Router /private/rooms/{id} [delete]
func (c *RoomController) DeleteRoom(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid room ID")
	}

	if appErr := c.RoomService.Delete(ctx.Request().Context(), id); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, nil, "Room deleted successfully")
}
