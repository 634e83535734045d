package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"

	"confhub/core/entity"

	"github.com/google/uuid"
)

// Notification is a message shown to a user about their talks: an organizer
// decision, a booking, or a cancellation.
type Notification struct {
	UserID  uuid.UUID `db:"user_id" json:"user_id"`
	Kind    string    `db:"kind" json:"kind"`
	Title   string    `db:"title" json:"title"`
	Message string    `db:"message" json:"message"`
	Data    JSONB     `db:"data" json:"data"`
	IsRead  bool      `db:"is_read" json:"is_read"`
	entity.BaseEntity
}

type JSONB map[string]any

func (a JSONB) Value() (driver.Value, error) {
	return json.Marshal(a)
}

func (a *JSONB) Scan(value any) error {
	if value == nil {
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(b, &a)
}

type PaginatedNotificationEntity = entity.Pagination[Notification]
