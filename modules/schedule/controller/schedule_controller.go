package controller

import (
	"time"

	"confhub/core/config"
	"confhub/core/controller"
	"confhub/core/errors"
	roomdto "confhub/modules/room/dto"
	roomservice "confhub/modules/room/service"
	"confhub/modules/schedule/dto"
	"confhub/modules/schedule/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// ScheduleController handles schedule HTTP requests
type ScheduleController struct {
	controller.BaseController
	ScheduleService service.ScheduleService
	RoomService     roomservice.RoomService
}

// NewScheduleController creates a new controller
func NewScheduleController(scheduleService service.ScheduleService, roomService roomservice.RoomService) *ScheduleController {
	return &ScheduleController{
		BaseController:  controller.NewBaseController(),
		ScheduleService: scheduleService,
		RoomService:     roomService,
	}
}

// parseDay reads a required ?date=YYYY-MM-DD query in the venue timezone.
func parseDay(ctx echo.Context) (time.Time, *echo.HTTPError) {
	raw := ctx.QueryParam("date")
	if raw == "" {
		return time.Time{}, controller.NewErrorResponse(400, errors.ErrInvalidInput, "date query parameter is required")
	}
	loc := time.UTC
	if cfg, ok := config.GetSafe(); ok {
		if l, err := time.LoadLocation(cfg.Schedule.Timezone); err == nil {
			loc = l
		}
	}
	day, err := time.ParseInLocation("2006-01-02", raw, loc)
	if err != nil {
		return time.Time{}, controller.NewErrorResponse(400, errors.ErrInvalidInput, "date must be YYYY-MM-DD")
	}
	return day, nil
}

// GetDaySchedule handles GET /schedule
// @Summary Public schedule for a day
// @Description Lists every scheduled talk with its room and interval
// @Tags Schedule
// @Produce json
// @Param date query string true "Day (YYYY-MM-DD)"
// @Success 200 {array} dto.ScheduledTalkResponse
// @Failure 400 {object} controller.ErrorResponse
// @Router /schedule [get]
func (c *ScheduleController) GetDaySchedule(ctx echo.Context) error {
	day, httpErr := parseDay(ctx)
	if httpErr != nil {
		return httpErr
	}

	scheduled, appErr := c.ScheduleService.DaySchedule(ctx.Request().Context(), day)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, dto.NewScheduledTalkResponses(scheduled), "Success")
}

// GetAvailableTimes handles GET /schedule/available-times
// @Summary Free intervals and slot grid for a room
// @Tags Schedule
// @Security BearerAuth
// @Produce json
// @Param room_id query string true "Room ID"
// @Param date query string true "Day (YYYY-MM-DD)"
// @Success 200 {object} dto.AvailableTimesResponse
// @Failure 400 {object} controller.ErrorResponse
// @Router /private/schedule/available-times [get]
func (c *ScheduleController) GetAvailableTimes(ctx echo.Context) error {
	roomID, err := uuid.Parse(ctx.QueryParam("room_id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid room ID")
	}
	day, httpErr := parseDay(ctx)
	if httpErr != nil {
		return httpErr
	}

	free, slots, appErr := c.ScheduleService.AvailableTimes(ctx.Request().Context(), roomID, day)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, &dto.AvailableTimesResponse{
		RoomID:        roomID,
		Date:          day.Format("2006-01-02"),
		FreeIntervals: free,
		Slots:         slots,
	}, "Success")
}

// GetAvailableRooms handles GET /schedule/available-rooms
// @Summary Rooms free for an interval
// @Tags Schedule
// @Security BearerAuth
// @Produce json
// @Param start query string true "Start time (RFC3339)"
// @Param end query string true "End time (RFC3339)"
// @Success 200 {object} dto.AvailableRoomsResponse
// @Failure 400 {object} controller.ErrorResponse
// @Router /private/schedule/available-rooms [get]
func (c *ScheduleController) GetAvailableRooms(ctx echo.Context) error {
	start, err := time.Parse(time.RFC3339, ctx.QueryParam("start"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "start must be RFC3339")
	}
	end, err := time.Parse(time.RFC3339, ctx.QueryParam("end"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "end must be RFC3339")
	}

	roomIDs, appErr := c.RoomService.ListIDs(ctx.Request().Context())
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	available, appErr := c.ScheduleService.AvailableRooms(ctx.Request().Context(), roomIDs, start, end)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, &dto.AvailableRoomsResponse{
		StartTime: start,
		EndTime:   end,
		RoomIDs:   available,
	}, "Success")
}

// GetAvailabilityGrid handles GET /rooms/availability
// @Summary Slot grid for every room on a day
// @Tags Schedule
// @Security BearerAuth
// @Produce json
// @Param date query string true "Day (YYYY-MM-DD)"
// @Success 200 {object} roomdto.AvailabilityGridResponse
// @Failure 400 {object} controller.ErrorResponse
// @Router /private/rooms/availability [get]
func (c *ScheduleController) GetAvailabilityGrid(ctx echo.Context) error {
	day, httpErr := parseDay(ctx)
	if httpErr != nil {
		return httpErr
	}

	rooms, appErr := c.RoomService.List(ctx.Request().Context())
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	grid := roomdto.AvailabilityGridResponse{
		Date:  day.Format("2006-01-02"),
		Rooms: make([]roomdto.RoomAvailability, 0, len(rooms)),
	}
	for i := range rooms {
		_, slots, appErr := c.ScheduleService.AvailableTimes(ctx.Request().Context(), rooms[i].ID, day)
		if appErr != nil {
			return c.ErrorResponse(ctx, appErr)
		}
		grid.Rooms = append(grid.Rooms, roomdto.RoomAvailability{
			Room:  *roomdto.NewRoomResponse(&rooms[i]),
			Slots: slots,
		})
	}

	return c.SuccessResponse(ctx, &grid, "Success")
}
