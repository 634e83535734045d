package dto

import (
	"time"

	"confhub/modules/schedule/entity"

	"github.com/google/uuid"
)

// BookScheduleRequest commits an accepted talk to a room and interval.
type BookScheduleRequest struct {
	RoomID    uuid.UUID `json:"room_id" validate:"required"`
	StartTime time.Time `json:"start_time" validate:"required"`
	EndTime   time.Time `json:"end_time" validate:"required"`
}

type ScheduleResponse struct {
	ID        uuid.UUID `json:"id"`
	TalkID    uuid.UUID `json:"talk_id"`
	RoomID    uuid.UUID `json:"room_id"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	CreatedAt time.Time `json:"created_at"`
}

func NewScheduleResponse(s *entity.Schedule) *ScheduleResponse {
	return &ScheduleResponse{
		ID:        s.ID,
		TalkID:    s.TalkID,
		RoomID:    s.RoomID,
		StartTime: s.StartTime,
		EndTime:   s.EndTime,
		CreatedAt: s.CreatedAt,
	}
}

// ConflictDetail names one clashing booking in a 409 payload.
type ConflictDetail struct {
	ScheduleID uuid.UUID `json:"schedule_id"`
	TalkID     uuid.UUID `json:"talk_id"`
	TalkTitle  string    `json:"talk_title"`
	StartTime  time.Time `json:"start_time"`
	EndTime    time.Time `json:"end_time"`
}

func NewConflictDetails(conflicts []entity.ConflictingSchedule) []ConflictDetail {
	out := make([]ConflictDetail, 0, len(conflicts))
	for _, c := range conflicts {
		out = append(out, ConflictDetail{
			ScheduleID: c.ID,
			TalkID:     c.TalkID,
			TalkTitle:  c.TalkTitle,
			StartTime:  c.StartTime,
			EndTime:    c.EndTime,
		})
	}
	return out
}

// AvailableTimesResponse is the per-room availability answer for one day.
type AvailableTimesResponse struct {
	RoomID        uuid.UUID          `json:"room_id"`
	Date          string             `json:"date"`
	FreeIntervals []entity.TimeRange `json:"free_intervals"`
	Slots         []entity.Slot      `json:"slots"`
}

type AvailableRoomsResponse struct {
	StartTime time.Time   `json:"start_time"`
	EndTime   time.Time   `json:"end_time"`
	RoomIDs   []uuid.UUID `json:"room_ids"`
}

type ScheduledTalkResponse struct {
	ScheduleID uuid.UUID `json:"schedule_id"`
	TalkID     uuid.UUID `json:"talk_id"`
	TalkTitle  string    `json:"talk_title"`
	TalkLevel  string    `json:"talk_level"`
	Speaker    string    `json:"speaker"`
	RoomID     uuid.UUID `json:"room_id"`
	RoomName   string    `json:"room_name"`
	StartTime  time.Time `json:"start_time"`
	EndTime    time.Time `json:"end_time"`
}

func NewScheduledTalkResponses(items []entity.ScheduledTalk) []ScheduledTalkResponse {
	out := make([]ScheduledTalkResponse, 0, len(items))
	for _, it := range items {
		out = append(out, ScheduledTalkResponse{
			ScheduleID: it.ScheduleID,
			TalkID:     it.TalkID,
			TalkTitle:  it.TalkTitle,
			TalkLevel:  it.TalkLevel,
			Speaker:    it.Speaker,
			RoomID:     it.RoomID,
			RoomName:   it.RoomName,
			StartTime:  it.StartTime,
			EndTime:    it.EndTime,
		})
	}
	return out
}
