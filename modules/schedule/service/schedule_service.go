package service

import (
	"context"
	"fmt"
	"time"

	stderrors "errors"

	"confhub/core/cache"
	"confhub/core/constants"
	"confhub/core/errors"
	"confhub/core/logger"
	roomentity "confhub/modules/room/entity"
	"confhub/modules/schedule/entity"
	"confhub/modules/schedule/repository"
	talkentity "confhub/modules/talk/entity"

	"github.com/google/uuid"
)

// TalkReader is the slice of the talk repository the scheduler needs.
type TalkReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*talkentity.Talk, error)
}

// RoomReader is the slice of the room repository the scheduler needs.
type RoomReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*roomentity.Room, error)
}

// Notifier delivers a user-facing notification. Delivery failures are logged,
// never propagated; a booking must not fail because an email queue is down.
type Notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, kind string, payload map[string]any) error
}

type ScheduleService interface {
	CommitBooking(ctx context.Context, talkID, roomID uuid.UUID, start, end time.Time) (*entity.Schedule, *errors.AppError)
	RescheduleBooking(ctx context.Context, talkID, roomID uuid.UUID, start, end time.Time) (*entity.Schedule, *errors.AppError)
	CancelBooking(ctx context.Context, talkID uuid.UUID) *errors.AppError
	GetByTalkID(ctx context.Context, talkID uuid.UUID) (*entity.Schedule, *errors.AppError)
	AvailableTimes(ctx context.Context, roomID uuid.UUID, day time.Time) ([]entity.TimeRange, []entity.Slot, *errors.AppError)
	AvailableRooms(ctx context.Context, allRoomIDs []uuid.UUID, start, end time.Time) ([]uuid.UUID, *errors.AppError)
	DaySchedule(ctx context.Context, day time.Time) ([]entity.ScheduledTalk, *errors.AppError)
}

type scheduleService struct {
	repo     repository.ScheduleRepositoryInterface
	talks    TalkReader
	rooms    RoomReader
	hours    *OperatingHours
	slotSize time.Duration
	cache    cache.Cache
	notifier Notifier
}

func NewScheduleService(
	repo repository.ScheduleRepositoryInterface,
	talks TalkReader,
	rooms RoomReader,
	hours *OperatingHours,
	slotSize time.Duration,
	c cache.Cache,
	notifier Notifier,
) ScheduleService {
	return &scheduleService{
		repo:     repo,
		talks:    talks,
		rooms:    rooms,
		hours:    hours,
		slotSize: slotSize,
		cache:    c,
		notifier: notifier,
	}
}

// CommitBooking assigns an accepted talk to a room and interval. The order
// of checks is fixed: talk state, room existence, interval validity, then
// conflicts. The
// insert and the talk status change happen in one transaction; a losing
// racer gets the same conflict answer as one caught up front.
func (s *scheduleService) CommitBooking(ctx context.Context, talkID, roomID uuid.UUID, start, end time.Time) (*entity.Schedule, *errors.AppError) {
	logger.Info("ScheduleService:CommitBooking:Start",
		"talk_id", talkID, "room_id", roomID,
		"start", start.UTC().Format(time.RFC3339), "end", end.UTC().Format(time.RFC3339))

	talk, err := s.talks.GetByID(ctx, talkID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to load talk", err)
	}
	if talk == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Talk not found", nil)
	}
	if !talkentity.CanTransition(talk.Status, talkentity.StatusScheduled) {
		logger.Info("ScheduleService:CommitBooking:NotBookable", "talk_id", talkID, "status", talk.Status)
		return nil, errors.NewAppError(errors.ErrInvalidStateTransition,
			fmt.Sprintf("Talk in status %q cannot be scheduled", talk.Status), nil)
	}

	if _, appErr := s.loadRoom(ctx, roomID); appErr != nil {
		return nil, appErr
	}

	if appErr := s.hours.Validate(start, end); appErr != nil {
		return nil, appErr
	}

	conflicts, err := s.repo.FindConflicts(ctx, roomID, start, end, nil)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to check room availability", err)
	}
	if len(conflicts) > 0 {
		logger.Info("ScheduleService:CommitBooking:Conflict", "talk_id", talkID, "room_id", roomID, "conflicts", len(conflicts))
		return nil, s.conflictError(conflicts)
	}

	created, err := s.repo.CommitBooking(ctx, &entity.Schedule{
		TalkID:    talkID,
		RoomID:    roomID,
		StartTime: start,
		EndTime:   end,
	})
	if err != nil {
		if stderrors.Is(err, repository.ErrBookingConflict) {
			// A racing booking won between our check and the insert.
			current, listErr := s.repo.FindConflicts(ctx, roomID, start, end, nil)
			if listErr != nil {
				logger.Error("ScheduleService:CommitBooking:FindConflicts:Error", listErr)
			}
			return nil, s.conflictError(current)
		}
		if stderrors.Is(err, repository.ErrTalkNotBookable) {
			return nil, errors.NewAppError(errors.ErrInvalidStateTransition,
				"Talk is no longer in an accepted state", nil)
		}
		return nil, errors.NewAppError(errors.ErrCreateFailed, "Failed to commit booking", err)
	}

	s.invalidateAvailability(ctx, roomID, start)
	s.notify(ctx, talk.SpeakerID, "talk_scheduled", map[string]any{
		"talk_id":    talkID.String(),
		"talk_title": talk.Title,
		"room_id":    roomID.String(),
		"start_time": created.StartTime.UTC().Format(time.RFC3339),
		"end_time":   created.EndTime.UTC().Format(time.RFC3339),
	})

	logger.Info("ScheduleService:CommitBooking:Success", "schedule_id", created.ID, "talk_id", talkID)
	return created, nil
}

// RescheduleBooking moves a scheduled talk's booking to a new room and
// interval without touching the talk's status. The talk's own booking is
// excluded from the conflict check so it can be moved onto an interval
// adjacent to, or overlapping, its current slot.
func (s *scheduleService) RescheduleBooking(ctx context.Context, talkID, roomID uuid.UUID, start, end time.Time) (*entity.Schedule, *errors.AppError) {
	logger.Info("ScheduleService:RescheduleBooking:Start",
		"talk_id", talkID, "room_id", roomID,
		"start", start.UTC().Format(time.RFC3339), "end", end.UTC().Format(time.RFC3339))

	talk, err := s.talks.GetByID(ctx, talkID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to load talk", err)
	}
	if talk == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Talk not found", nil)
	}
	if talk.Status != talkentity.StatusScheduled {
		return nil, errors.NewAppError(errors.ErrInvalidStateTransition,
			fmt.Sprintf("Talk in status %q has no booking to move", talk.Status), nil)
	}

	if _, appErr := s.loadRoom(ctx, roomID); appErr != nil {
		return nil, appErr
	}

	if appErr := s.hours.Validate(start, end); appErr != nil {
		return nil, appErr
	}

	existing, err := s.repo.GetByTalkID(ctx, talkID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to load schedule", err)
	}
	if existing == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Talk has no booking", nil)
	}

	conflicts, err := s.repo.FindConflicts(ctx, roomID, start, end, &existing.ID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to check room availability", err)
	}
	if len(conflicts) > 0 {
		logger.Info("ScheduleService:RescheduleBooking:Conflict", "talk_id", talkID, "room_id", roomID, "conflicts", len(conflicts))
		return nil, s.conflictError(conflicts)
	}

	updated, err := s.repo.Reschedule(ctx, existing.ID, roomID, start, end)
	if err != nil {
		if stderrors.Is(err, repository.ErrBookingConflict) {
			current, listErr := s.repo.FindConflicts(ctx, roomID, start, end, &existing.ID)
			if listErr != nil {
				logger.Error("ScheduleService:RescheduleBooking:FindConflicts:Error", listErr)
			}
			return nil, s.conflictError(current)
		}
		return nil, errors.NewAppError(errors.ErrUpdateFailed, "Failed to move booking", err)
	}

	s.invalidateAvailability(ctx, existing.RoomID, existing.StartTime)
	s.invalidateAvailability(ctx, roomID, start)
	s.notify(ctx, talk.SpeakerID, "talk_rescheduled", map[string]any{
		"talk_id":    talkID.String(),
		"talk_title": talk.Title,
		"room_id":    roomID.String(),
		"start_time": updated.StartTime.UTC().Format(time.RFC3339),
		"end_time":   updated.EndTime.UTC().Format(time.RFC3339),
	})

	logger.Info("ScheduleService:RescheduleBooking:Success", "schedule_id", updated.ID, "talk_id", talkID)
	return updated, nil
}

// CancelBooking removes a talk's booking and returns it to accepted.
func (s *scheduleService) CancelBooking(ctx context.Context, talkID uuid.UUID) *errors.AppError {
	logger.Info("ScheduleService:CancelBooking:Start", "talk_id", talkID)

	talk, err := s.talks.GetByID(ctx, talkID)
	if err != nil {
		return errors.NewAppError(errors.ErrGetFailed, "Failed to load talk", err)
	}
	if talk == nil {
		return errors.NewAppError(errors.ErrNotFound, "Talk not found", nil)
	}
	if !talkentity.CanTransition(talk.Status, talkentity.StatusAccepted) {
		return errors.NewAppError(errors.ErrInvalidStateTransition,
			fmt.Sprintf("Talk in status %q has no booking to cancel", talk.Status), nil)
	}

	schedule, err := s.repo.GetByTalkID(ctx, talkID)
	if err != nil {
		return errors.NewAppError(errors.ErrGetFailed, "Failed to load schedule", err)
	}
	if schedule == nil {
		return errors.NewAppError(errors.ErrNotFound, "Talk has no booking", nil)
	}

	if err := s.repo.CancelBooking(ctx, schedule.ID, talkID); err != nil {
		return errors.NewAppError(errors.ErrDeleteFailed, "Failed to cancel booking", err)
	}

	s.invalidateAvailability(ctx, schedule.RoomID, schedule.StartTime)
	s.notify(ctx, talk.SpeakerID, "talk_unscheduled", map[string]any{
		"talk_id":    talkID.String(),
		"talk_title": talk.Title,
	})

	logger.Info("ScheduleService:CancelBooking:Success", "schedule_id", schedule.ID, "talk_id", talkID)
	return nil
}

func (s *scheduleService) GetByTalkID(ctx context.Context, talkID uuid.UUID) (*entity.Schedule, *errors.AppError) {
	schedule, err := s.repo.GetByTalkID(ctx, talkID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to load schedule", err)
	}
	if schedule == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Talk has no booking", nil)
	}
	return schedule, nil
}

// AvailableTimes answers "when is this room free on this day": the maximal
// free intervals plus the fixed-size grid. Responses are cached briefly;
// bookings invalidate the room's day key.
func (s *scheduleService) AvailableTimes(ctx context.Context, roomID uuid.UUID, day time.Time) ([]entity.TimeRange, []entity.Slot, *errors.AppError) {
	open, close := s.hours.Window(day)

	type availability struct {
		Free  []entity.TimeRange `json:"free"`
		Slots []entity.Slot      `json:"slots"`
	}

	key := s.availabilityKey(roomID, day)
	var cached availability
	if found, err := s.cache.GetJSON(ctx, key, &cached); err != nil {
		logger.Warn("ScheduleService:AvailableTimes:CacheGet:Error", "error", err)
	} else if found {
		return cached.Free, cached.Slots, nil
	}

	schedules, err := s.repo.ListByRoomAndDay(ctx, roomID, open, close)
	if err != nil {
		return nil, nil, errors.NewAppError(errors.ErrGetFailed, "Failed to load room schedule", err)
	}

	busy := make([]entity.TimeRange, 0, len(schedules))
	for _, sched := range schedules {
		busy = append(busy, entity.TimeRange{Start: sched.StartTime, End: sched.EndTime})
	}

	free := FreeIntervals(open, close, busy)
	slots := FixedSlots(open, close, s.slotSize, busy)

	if err := s.cache.SetJSON(ctx, key, availability{Free: free, Slots: slots}, constants.FreeSlotsCacheTTL); err != nil {
		logger.Warn("ScheduleService:AvailableTimes:CacheSet:Error", "error", err)
	}

	return free, slots, nil
}

// AvailableRooms filters allRoomIDs down to those with no booking
// overlapping [start, end).
func (s *scheduleService) AvailableRooms(ctx context.Context, allRoomIDs []uuid.UUID, start, end time.Time) ([]uuid.UUID, *errors.AppError) {
	if appErr := s.hours.Validate(start, end); appErr != nil {
		return nil, appErr
	}

	occupied, err := s.repo.OccupiedRoomIDs(ctx, start, end)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to load occupied rooms", err)
	}

	taken := make(map[uuid.UUID]struct{}, len(occupied))
	for _, id := range occupied {
		taken[id] = struct{}{}
	}

	available := make([]uuid.UUID, 0, len(allRoomIDs))
	for _, id := range allRoomIDs {
		if _, ok := taken[id]; !ok {
			available = append(available, id)
		}
	}
	return available, nil
}

func (s *scheduleService) DaySchedule(ctx context.Context, day time.Time) ([]entity.ScheduledTalk, *errors.AppError) {
	open, close := s.hours.Window(day)
	scheduled, err := s.repo.ListScheduled(ctx, open, close)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to load schedule", err)
	}
	return scheduled, nil
}

func (s *scheduleService) loadRoom(ctx context.Context, roomID uuid.UUID) (*roomentity.Room, *errors.AppError) {
	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to load room", err)
	}
	if room == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Room not found", nil)
	}
	return room, nil
}

func (s *scheduleService) conflictError(conflicts []entity.ConflictingSchedule) *errors.AppError {
	return errors.NewAppError(errors.ErrSlotConflict,
		"Requested slot conflicts with an existing booking", nil).
		WithDetails(conflicts)
}

func (s *scheduleService) availabilityKey(roomID uuid.UUID, day time.Time) string {
	return constants.RedisKeyFreeSlots + roomID.String() + ":" + day.In(s.hours.Location()).Format("2006-01-02")
}

func (s *scheduleService) invalidateAvailability(ctx context.Context, roomID uuid.UUID, day time.Time) {
	if err := s.cache.Delete(ctx, s.availabilityKey(roomID, day)); err != nil {
		logger.Warn("ScheduleService:InvalidateAvailability:Error", "error", err)
	}
}

func (s *scheduleService) notify(ctx context.Context, userID uuid.UUID, kind string, payload map[string]any) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(ctx, userID, kind, payload); err != nil {
		logger.Warn("ScheduleService:Notify:Error", "kind", kind, "error", err)
	}
}
