package entity

import (
	"time"

	"github.com/google/uuid"
)

// Schedule is a committed assignment of one talk to one room for one time
// interval. Intervals are half-open: [StartTime, EndTime).
type Schedule struct {
	ID        uuid.UUID `db:"id" json:"id"`
	TalkID    uuid.UUID `db:"talk_id" json:"talk_id"`
	RoomID    uuid.UUID `db:"room_id" json:"room_id"`
	StartTime time.Time `db:"start_time" json:"start_time"`
	EndTime   time.Time `db:"end_time" json:"end_time"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// ConflictingSchedule is a booking that overlaps a candidate interval,
// carrying the talk title so callers can name the clash to users.
type ConflictingSchedule struct {
	ID        uuid.UUID `db:"id" json:"id"`
	TalkID    uuid.UUID `db:"talk_id" json:"talk_id"`
	TalkTitle string    `db:"talk_title" json:"talk_title"`
	StartTime time.Time `db:"start_time" json:"start_time"`
	EndTime   time.Time `db:"end_time" json:"end_time"`
}

// ScheduledTalk is the public-schedule read model: a booking joined with its
// talk and room.
type ScheduledTalk struct {
	ScheduleID uuid.UUID `db:"schedule_id" json:"schedule_id"`
	TalkID     uuid.UUID `db:"talk_id" json:"talk_id"`
	TalkTitle  string    `db:"talk_title" json:"talk_title"`
	TalkLevel  string    `db:"talk_level" json:"talk_level"`
	Speaker    string    `db:"speaker" json:"speaker"`
	RoomID     uuid.UUID `db:"room_id" json:"room_id"`
	RoomName   string    `db:"room_name" json:"room_name"`
	StartTime  time.Time `db:"start_time" json:"start_time"`
	EndTime    time.Time `db:"end_time" json:"end_time"`
}

// Slot is one cell of the fixed-size availability grid.
type Slot struct {
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Available bool      `json:"available"`
}

// TimeRange is a half-open interval [Start, End).
type TimeRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Overlaps is the single interval-overlap predicate used everywhere a clash
// is decided: two half-open intervals overlap iff each starts before the
// other ends. Back-to-back intervals do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// Overlaps reports whether the range overlaps another.
func (r TimeRange) Overlaps(other TimeRange) bool {
	return Overlaps(r.Start, r.End, other.Start, other.End)
}

// Duration returns the length of the range.
func (r TimeRange) Duration() time.Duration {
	return r.End.Sub(r.Start)
}
