package entity

import (
	"time"

	"github.com/google/uuid"
)

// TalkLevel is the intended audience level of a talk.
type TalkLevel string

const (
	LevelBeginner     TalkLevel = "beginner"
	LevelIntermediate TalkLevel = "intermediate"
	LevelAdvanced     TalkLevel = "advanced"
)

// ValidLevel reports whether the value is a known level.
func ValidLevel(l TalkLevel) bool {
	switch l {
	case LevelBeginner, LevelIntermediate, LevelAdvanced:
		return true
	}
	return false
}

// Talk is a presentation submitted by a speaker.
type Talk struct {
	ID              uuid.UUID  `db:"id" json:"id"`
	Title           string     `db:"title" json:"title"`
	Slug            string     `db:"slug" json:"slug"`
	Description     string     `db:"description" json:"description"`
	SubjectID       *uuid.UUID `db:"subject_id" json:"subject_id,omitempty"`
	DurationMinutes int        `db:"duration_minutes" json:"duration_minutes"`
	Level           TalkLevel  `db:"level" json:"level"`
	Status          TalkStatus `db:"status" json:"status"`
	SpeakerID       uuid.UUID  `db:"speaker_id" json:"speaker_id"`
	AttachmentURL   *string    `db:"attachment_url" json:"attachment_url,omitempty"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at" json:"updated_at"`
}

// Subject is the reference topic a talk belongs to.
type Subject struct {
	ID   uuid.UUID `db:"id" json:"id"`
	Name string    `db:"name" json:"name"`
}

// Favorite marks a talk bookmarked by an attendee.
type Favorite struct {
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	TalkID    uuid.UUID `db:"talk_id" json:"talk_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
