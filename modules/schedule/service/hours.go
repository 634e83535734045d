package service

import (
	"fmt"
	"time"

	"confhub/core/config"
	"confhub/core/errors"
)

// OperatingHours validates booking intervals against the venue's daily
// window. All checks run in the venue timezone regardless of the offset the
// client sent.
type OperatingHours struct {
	startHour int
	endHour   int
	loc       *time.Location
}

func NewOperatingHours(cfg config.ScheduleConfig) (*OperatingHours, error) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load schedule timezone %q: %w", cfg.Timezone, err)
	}
	return &OperatingHours{
		startHour: cfg.HoursStart,
		endHour:   cfg.HoursEnd,
		loc:       loc,
	}, nil
}

// Window returns the venue window for the day containing t.
func (h *OperatingHours) Window(t time.Time) (time.Time, time.Time) {
	local := t.In(h.loc)
	y, m, d := local.Date()
	open := time.Date(y, m, d, h.startHour, 0, 0, 0, h.loc)
	close := time.Date(y, m, d, h.endHour, 0, 0, 0, h.loc)
	return open, close
}

// Location returns the venue timezone.
func (h *OperatingHours) Location() *time.Location {
	return h.loc
}

// Validate checks a candidate booking interval. The window is inclusive at
// open and exclusive at close for starts; an interval may end exactly at
// closing time. Both endpoints must fall on the same venue day.
func (h *OperatingHours) Validate(start, end time.Time) *errors.AppError {
	localStart := start.In(h.loc)
	localEnd := end.In(h.loc)

	open, close := h.Window(start)

	if localStart.Before(open) || !localStart.Before(close) {
		return errors.NewAppError(errors.ErrOutOfHours,
			fmt.Sprintf("start time must be between %02d:00 and %02d:00", h.startHour, h.endHour), nil)
	}
	if localEnd.After(close) || !localEnd.After(open) {
		return errors.NewAppError(errors.ErrOutOfHours,
			fmt.Sprintf("end time must be between %02d:00 and %02d:00", h.startHour, h.endHour), nil)
	}
	if !start.Before(end) {
		return errors.NewAppError(errors.ErrInvalidOrder, "start time must be before end time", nil)
	}
	return nil
}
