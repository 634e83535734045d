package dto

import (
	"strings"
	"time"

	"confhub/modules/talk/entity"

	"github.com/google/uuid"
)

// MaxDurationMinutes caps a talk length; anything longer belongs in a
// workshop track this system does not manage.
const MaxDurationMinutes = 240

type CreateTalkRequest struct {
	Title           string     `json:"title" validate:"required"`
	Description     string     `json:"description"`
	SubjectID       *uuid.UUID `json:"subject_id,omitempty"`
	DurationMinutes int        `json:"duration_minutes" validate:"required,gt=0"`
	Level           string     `json:"level" validate:"required"`
}

func (r *CreateTalkRequest) Validate() []string {
	var problems []string
	if strings.TrimSpace(r.Title) == "" {
		problems = append(problems, "title is required")
	}
	if r.DurationMinutes <= 0 || r.DurationMinutes > MaxDurationMinutes {
		problems = append(problems, "duration_minutes must be between 1 and 240")
	}
	if !entity.ValidLevel(entity.TalkLevel(r.Level)) {
		problems = append(problems, "level must be beginner, intermediate or advanced")
	}
	return problems
}

type UpdateTalkRequest struct {
	Title           *string    `json:"title,omitempty"`
	Description     *string    `json:"description,omitempty"`
	SubjectID       *uuid.UUID `json:"subject_id,omitempty"`
	DurationMinutes *int       `json:"duration_minutes,omitempty"`
	Level           *string    `json:"level,omitempty"`
}

// ListTalksQuery filters the talk list.
type ListTalksQuery struct {
	Status    string     `query:"status"`
	Level     string     `query:"level"`
	SubjectID *uuid.UUID `query:"subject_id"`
	Search    string     `query:"search"`
}

type TalkResponse struct {
	ID              uuid.UUID  `json:"id"`
	Title           string     `json:"title"`
	Slug            string     `json:"slug"`
	Description     string     `json:"description"`
	SubjectID       *uuid.UUID `json:"subject_id,omitempty"`
	DurationMinutes int        `json:"duration_minutes"`
	Level           string     `json:"level"`
	Status          string     `json:"status"`
	SpeakerID       uuid.UUID  `json:"speaker_id"`
	AttachmentURL   *string    `json:"attachment_url,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

func NewTalkResponse(t *entity.Talk) *TalkResponse {
	return &TalkResponse{
		ID:              t.ID,
		Title:           t.Title,
		Slug:            t.Slug,
		Description:     t.Description,
		SubjectID:       t.SubjectID,
		DurationMinutes: t.DurationMinutes,
		Level:           string(t.Level),
		Status:          string(t.Status),
		SpeakerID:       t.SpeakerID,
		AttachmentURL:   t.AttachmentURL,
		CreatedAt:       t.CreatedAt,
	}
}

func NewTalkResponses(talks []entity.Talk) []TalkResponse {
	out := make([]TalkResponse, 0, len(talks))
	for i := range talks {
		out = append(out, *NewTalkResponse(&talks[i]))
	}
	return out
}

type SubjectResponse struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type AttachmentResponse struct {
	URL string `json:"url"`
}
