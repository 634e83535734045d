package dto

import (
	"strings"
	"time"

	"confhub/modules/room/entity"
	scheduleentity "confhub/modules/schedule/entity"

	"github.com/google/uuid"
)

type CreateRoomRequest struct {
	Name        string `json:"name" validate:"required"`
	Capacity    int    `json:"capacity" validate:"required,gt=0"`
	Description string `json:"description"`
}

func (r *CreateRoomRequest) Validate() []string {
	var problems []string
	if strings.TrimSpace(r.Name) == "" {
		problems = append(problems, "name is required")
	}
	if r.Capacity <= 0 {
		problems = append(problems, "capacity must be positive")
	}
	return problems
}

type UpdateRoomRequest struct {
	Name        *string `json:"name,omitempty"`
	Capacity    *int    `json:"capacity,omitempty"`
	Description *string `json:"description,omitempty"`
}

type RoomResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Capacity    int       `json:"capacity"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

func NewRoomResponse(room *entity.Room) *RoomResponse {
	return &RoomResponse{
		ID:          room.ID,
		Name:        room.Name,
		Capacity:    room.Capacity,
		Description: room.Description,
		CreatedAt:   room.CreatedAt,
	}
}

func NewRoomResponses(rooms []entity.Room) []RoomResponse {
	out := make([]RoomResponse, 0, len(rooms))
	for i := range rooms {
		out = append(out, *NewRoomResponse(&rooms[i]))
	}
	return out
}

// RoomAvailability is one row of the all-rooms availability grid.
type RoomAvailability struct {
	Room  RoomResponse          `json:"room"`
	Slots []scheduleentity.Slot `json:"slots"`
}

type AvailabilityGridResponse struct {
	Date  string             `json:"date"`
	Rooms []RoomAvailability `json:"rooms"`
}
