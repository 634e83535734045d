package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"confhub/core/database"
	"confhub/core/logger"
	"confhub/modules/schedule/entity"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// ErrBookingConflict is returned by CommitBooking when the requested interval
// clashes with an existing booking, whether caught by the in-transaction
// check or by the schedules exclusion constraint.
var ErrBookingConflict = errors.New("booking conflicts with an existing schedule")

// ErrTalkNotBookable is returned by CommitBooking when the talk is missing or
// not in a state that allows scheduling.
var ErrTalkNotBookable = errors.New("talk is not in a bookable state")

// ScheduleRepository handles schedule database operations
type ScheduleRepository struct {
	DB database.IDatabase
}

// NewScheduleRepository creates a new repository instance
func NewScheduleRepository(db database.IDatabase) *ScheduleRepository {
	return &ScheduleRepository{DB: db}
}

// ScheduleRepositoryInterface defines the repository contract
type ScheduleRepositoryInterface interface {
	FindConflicts(ctx context.Context, roomID uuid.UUID, start, end time.Time, excludeScheduleID *uuid.UUID) ([]entity.ConflictingSchedule, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Schedule, error)
	GetByTalkID(ctx context.Context, talkID uuid.UUID) (*entity.Schedule, error)
	ListByRoomAndDay(ctx context.Context, roomID uuid.UUID, dayStart, dayEnd time.Time) ([]entity.Schedule, error)
	ListScheduled(ctx context.Context, dayStart, dayEnd time.Time) ([]entity.ScheduledTalk, error)
	OccupiedRoomIDs(ctx context.Context, start, end time.Time) ([]uuid.UUID, error)
	CommitBooking(ctx context.Context, schedule *entity.Schedule) (*entity.Schedule, error)
	Reschedule(ctx context.Context, scheduleID, roomID uuid.UUID, start, end time.Time) (*entity.Schedule, error)
	CancelBooking(ctx context.Context, scheduleID, talkID uuid.UUID) error
}

const conflictColumns = `
	s.id, s.talk_id, t.title AS talk_title, s.start_time, s.end_time
`

// FindConflicts returns every booking in the room that overlaps
// [start, end). A booking ending exactly at start, or starting exactly at
// end, is not a conflict. excludeScheduleID, when set, ignores one booking so
// a talk can be moved onto an interval adjacent to its own current slot.
func (r *ScheduleRepository) FindConflicts(ctx context.Context, roomID uuid.UUID, start, end time.Time, excludeScheduleID *uuid.UUID) ([]entity.ConflictingSchedule, error) {
	query := `
		SELECT` + conflictColumns + `
		FROM schedules s
		JOIN talks t ON t.id = s.talk_id
		WHERE s.room_id = $1
		  AND s.start_time < $3
		  AND s.end_time > $2
		  AND ($4::uuid IS NULL OR s.id <> $4)
		ORDER BY s.start_time
	`

	var conflicts []entity.ConflictingSchedule
	err := r.DB.SelectContext(ctx, &conflicts, query, roomID, start, end, excludeScheduleID)
	if err != nil {
		logger.Error("ScheduleRepository:FindConflicts", err)
		return nil, err
	}

	return conflicts, nil
}

func (r *ScheduleRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Schedule, error) {
	query := `
		SELECT id, talk_id, room_id, start_time, end_time, created_at
		FROM schedules WHERE id = $1
	`

	var schedule entity.Schedule
	err := r.DB.GetContext(ctx, &schedule, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("ScheduleRepository:GetByID", err)
		return nil, err
	}

	return &schedule, nil
}

func (r *ScheduleRepository) GetByTalkID(ctx context.Context, talkID uuid.UUID) (*entity.Schedule, error) {
	query := `
		SELECT id, talk_id, room_id, start_time, end_time, created_at
		FROM schedules WHERE talk_id = $1
	`

	var schedule entity.Schedule
	err := r.DB.GetContext(ctx, &schedule, query, talkID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("ScheduleRepository:GetByTalkID", err)
		return nil, err
	}

	return &schedule, nil
}

func (r *ScheduleRepository) ListByRoomAndDay(ctx context.Context, roomID uuid.UUID, dayStart, dayEnd time.Time) ([]entity.Schedule, error) {
	query := `
		SELECT id, talk_id, room_id, start_time, end_time, created_at
		FROM schedules
		WHERE room_id = $1 AND start_time < $3 AND end_time > $2
		ORDER BY start_time
	`

	var schedules []entity.Schedule
	err := r.DB.SelectContext(ctx, &schedules, query, roomID, dayStart, dayEnd)
	if err != nil {
		logger.Error("ScheduleRepository:ListByRoomAndDay", err)
		return nil, err
	}

	return schedules, nil
}

// ListScheduled returns the public-schedule view for one day, every room.
func (r *ScheduleRepository) ListScheduled(ctx context.Context, dayStart, dayEnd time.Time) ([]entity.ScheduledTalk, error) {
	query := `
		SELECT s.id AS schedule_id, t.id AS talk_id, t.title AS talk_title,
		       t.level AS talk_level, u.name AS speaker,
		       r.id AS room_id, r.name AS room_name,
		       s.start_time, s.end_time
		FROM schedules s
		JOIN talks t ON t.id = s.talk_id
		JOIN users u ON u.id = t.speaker_id
		JOIN rooms r ON r.id = s.room_id
		WHERE s.start_time < $2 AND s.end_time > $1
		ORDER BY s.start_time, r.name
	`

	var scheduled []entity.ScheduledTalk
	err := r.DB.SelectContext(ctx, &scheduled, query, dayStart, dayEnd)
	if err != nil {
		logger.Error("ScheduleRepository:ListScheduled", err)
		return nil, err
	}

	return scheduled, nil
}

// OccupiedRoomIDs returns the rooms with at least one booking overlapping
// [start, end).
func (r *ScheduleRepository) OccupiedRoomIDs(ctx context.Context, start, end time.Time) ([]uuid.UUID, error) {
	query := `
		SELECT DISTINCT room_id FROM schedules
		WHERE start_time < $2 AND end_time > $1
	`

	var roomIDs []uuid.UUID
	err := r.DB.SelectContext(ctx, &roomIDs, query, start, end)
	if err != nil {
		logger.Error("ScheduleRepository:OccupiedRoomIDs", err)
		return nil, err
	}

	return roomIDs, nil
}

// CommitBooking inserts the schedule row and promotes its talk to
// 'scheduled' in one transaction. An advisory lock on the room serializes
// concurrent bookings so the in-transaction conflict re-check is
// race-free; the schedules exclusion constraint backstops it. Returns
// ErrBookingConflict when the interval is taken and ErrTalkNotBookable when
// the talk is no longer in 'accepted'.
func (r *ScheduleRepository) CommitBooking(ctx context.Context, schedule *entity.Schedule) (*entity.Schedule, error) {
	var created entity.Schedule

	err := r.DB.Transact(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`SELECT pg_advisory_xact_lock(hashtext($1::text))`, schedule.RoomID); err != nil {
			return err
		}

		var clashes int
		err := tx.GetContext(ctx, &clashes, `
			SELECT COUNT(*) FROM schedules
			WHERE room_id = $1 AND start_time < $3 AND end_time > $2
		`, schedule.RoomID, schedule.StartTime, schedule.EndTime)
		if err != nil {
			return err
		}
		if clashes > 0 {
			return ErrBookingConflict
		}

		err = tx.GetContext(ctx, &created, `
			INSERT INTO schedules (talk_id, room_id, start_time, end_time)
			VALUES ($1, $2, $3, $4)
			RETURNING id, talk_id, room_id, start_time, end_time, created_at
		`, schedule.TalkID, schedule.RoomID, schedule.StartTime, schedule.EndTime)
		if err != nil {
			return err
		}

		res, err := tx.ExecContext(ctx, `
			UPDATE talks SET status = 'scheduled', updated_at = NOW()
			WHERE id = $1 AND status = 'accepted'
		`, schedule.TalkID)
		if err != nil {
			return err
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrTalkNotBookable
		}

		return nil
	})
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23P01" {
			return nil, ErrBookingConflict
		}
		if !errors.Is(err, ErrBookingConflict) && !errors.Is(err, ErrTalkNotBookable) {
			logger.Error("ScheduleRepository:CommitBooking", err)
		}
		return nil, err
	}

	return &created, nil
}

// Reschedule moves an existing booking to a new room and interval, using
// the same room lock and in-transaction re-check as CommitBooking. The
// booking being moved is excluded from the clash count so it may land on an
// interval overlapping its own current slot. Returns ErrBookingConflict when
// the target interval is taken and sql.ErrNoRows when the booking is gone.
func (r *ScheduleRepository) Reschedule(ctx context.Context, scheduleID, roomID uuid.UUID, start, end time.Time) (*entity.Schedule, error) {
	var updated entity.Schedule

	err := r.DB.Transact(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`SELECT pg_advisory_xact_lock(hashtext($1::text))`, roomID); err != nil {
			return err
		}

		var clashes int
		err := tx.GetContext(ctx, &clashes, `
			SELECT COUNT(*) FROM schedules
			WHERE room_id = $1 AND start_time < $3 AND end_time > $2 AND id <> $4
		`, roomID, start, end, scheduleID)
		if err != nil {
			return err
		}
		if clashes > 0 {
			return ErrBookingConflict
		}

		return tx.GetContext(ctx, &updated, `
			UPDATE schedules SET room_id = $2, start_time = $3, end_time = $4
			WHERE id = $1
			RETURNING id, talk_id, room_id, start_time, end_time, created_at
		`, scheduleID, roomID, start, end)
	})
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23P01" {
			return nil, ErrBookingConflict
		}
		if !errors.Is(err, ErrBookingConflict) && !errors.Is(err, sql.ErrNoRows) {
			logger.Error("ScheduleRepository:Reschedule", err)
		}
		return nil, err
	}

	return &updated, nil
}

// CancelBooking deletes the schedule row and demotes its talk back to
// 'accepted' in one transaction.
func (r *ScheduleRepository) CancelBooking(ctx context.Context, scheduleID, talkID uuid.UUID) error {
	err := r.DB.Transact(ctx, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM schedules WHERE id = $1`, scheduleID)
		if err != nil {
			return err
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return sql.ErrNoRows
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE talks SET status = 'accepted', updated_at = NOW()
			WHERE id = $1 AND status = 'scheduled'
		`, talkID)
		return err
	})
	if err != nil && err != sql.ErrNoRows {
		logger.Error("ScheduleRepository:CancelBooking", err)
	}
	return err
}
