package service

import (
	"context"
	"testing"
	"time"

	"confhub/core/cache"
	"confhub/core/errors"
	roomentity "confhub/modules/room/entity"
	"confhub/modules/schedule/entity"
	"confhub/modules/schedule/repository"
	talkentity "confhub/modules/talk/entity"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type fakeScheduleRepo struct {
	conflicts     []entity.ConflictingSchedule
	conflictsErr  error
	byTalk        map[uuid.UUID]*entity.Schedule
	byRoomDay     []entity.Schedule
	occupied      []uuid.UUID
	commitErr     error
	rescheduleErr error
	cancelErr     error

	committed   []*entity.Schedule
	rescheduled []*entity.Schedule
	canceled    []uuid.UUID
	gotExclude  *uuid.UUID
}

func (f *fakeScheduleRepo) FindConflicts(ctx context.Context, roomID uuid.UUID, start, end time.Time, exclude *uuid.UUID) ([]entity.ConflictingSchedule, error) {
	f.gotExclude = exclude
	if f.conflictsErr != nil {
		return nil, f.conflictsErr
	}
	out := make([]entity.ConflictingSchedule, 0, len(f.conflicts))
	for _, c := range f.conflicts {
		if exclude != nil && c.ID == *exclude {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeScheduleRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Schedule, error) {
	return nil, nil
}

func (f *fakeScheduleRepo) GetByTalkID(ctx context.Context, talkID uuid.UUID) (*entity.Schedule, error) {
	return f.byTalk[talkID], nil
}

func (f *fakeScheduleRepo) ListByRoomAndDay(ctx context.Context, roomID uuid.UUID, dayStart, dayEnd time.Time) ([]entity.Schedule, error) {
	return f.byRoomDay, nil
}

func (f *fakeScheduleRepo) ListScheduled(ctx context.Context, dayStart, dayEnd time.Time) ([]entity.ScheduledTalk, error) {
	return nil, nil
}

func (f *fakeScheduleRepo) OccupiedRoomIDs(ctx context.Context, start, end time.Time) ([]uuid.UUID, error) {
	return f.occupied, nil
}

func (f *fakeScheduleRepo) CommitBooking(ctx context.Context, schedule *entity.Schedule) (*entity.Schedule, error) {
	if f.commitErr != nil {
		return nil, f.commitErr
	}
	created := *schedule
	created.ID = uuid.New()
	created.CreatedAt = time.Now()
	f.committed = append(f.committed, &created)
	return &created, nil
}

func (f *fakeScheduleRepo) Reschedule(ctx context.Context, scheduleID, roomID uuid.UUID, start, end time.Time) (*entity.Schedule, error) {
	if f.rescheduleErr != nil {
		return nil, f.rescheduleErr
	}
	updated := &entity.Schedule{ID: scheduleID, RoomID: roomID, StartTime: start, EndTime: end}
	f.rescheduled = append(f.rescheduled, updated)
	return updated, nil
}

func (f *fakeScheduleRepo) CancelBooking(ctx context.Context, scheduleID, talkID uuid.UUID) error {
	if f.cancelErr != nil {
		return f.cancelErr
	}
	f.canceled = append(f.canceled, scheduleID)
	return nil
}

type fakeTalkReader struct {
	talks map[uuid.UUID]*talkentity.Talk
	err   error
}

func (f *fakeTalkReader) GetByID(ctx context.Context, id uuid.UUID) (*talkentity.Talk, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.talks[id], nil
}

type fakeRoomReader struct {
	rooms map[uuid.UUID]*roomentity.Room
}

func (f *fakeRoomReader) GetByID(ctx context.Context, id uuid.UUID) (*roomentity.Room, error) {
	return f.rooms[id], nil
}

// fakeCache is an always-miss cache; tests that exercise hits populate data.
type fakeCache struct {
	data    map[string][]byte
	sets    int
	deletes []string
}

func newFakeCache() *fakeCache { return &fakeCache{data: map[string][]byte{}} }

func (f *fakeCache) BlacklistToken(ctx context.Context, token string, ttl time.Duration) error {
	return nil
}
func (f *fakeCache) IsTokenBlacklisted(ctx context.Context, token string) (bool, error) {
	return false, nil
}
func (f *fakeCache) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	f.sets++
	return nil
}
func (f *fakeCache) GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	return false, nil
}
func (f *fakeCache) Delete(ctx context.Context, keys ...string) error {
	f.deletes = append(f.deletes, keys...)
	return nil
}
func (f *fakeCache) Client() *redis.Client { return nil }

var _ cache.Cache = (*fakeCache)(nil)

type fakeNotifier struct {
	kinds []string
}

func (f *fakeNotifier) Notify(ctx context.Context, userID uuid.UUID, kind string, payload map[string]any) error {
	f.kinds = append(f.kinds, kind)
	return nil
}

type fixture struct {
	svc      ScheduleService
	repo     *fakeScheduleRepo
	talks    *fakeTalkReader
	rooms    *fakeRoomReader
	cache    *fakeCache
	notifier *fakeNotifier
	talkID   uuid.UUID
	roomID   uuid.UUID
}

func newFixture(t *testing.T, status talkentity.TalkStatus) *fixture {
	t.Helper()

	talkID := uuid.New()
	roomID := uuid.New()
	f := &fixture{
		repo: &fakeScheduleRepo{byTalk: map[uuid.UUID]*entity.Schedule{}},
		talks: &fakeTalkReader{talks: map[uuid.UUID]*talkentity.Talk{
			talkID: {
				ID:              talkID,
				Title:           "Profiling Go services",
				DurationMinutes: 60,
				Status:          status,
				SpeakerID:       uuid.New(),
			},
		}},
		rooms: &fakeRoomReader{rooms: map[uuid.UUID]*roomentity.Room{
			roomID: {ID: roomID, Name: "Amphitheater A", Capacity: 120},
		}},
		cache:    newFakeCache(),
		notifier: &fakeNotifier{},
		talkID:   talkID,
		roomID:   roomID,
	}
	f.svc = NewScheduleService(f.repo, f.talks, f.rooms, testHours(t), time.Hour, f.cache, f.notifier)
	return f
}

// addRoom registers another known room and returns its id.
func (f *fixture) addRoom(name string) uuid.UUID {
	id := uuid.New()
	f.rooms.rooms[id] = &roomentity.Room{ID: id, Name: name, Capacity: 60}
	return id
}

func TestCommitBooking(t *testing.T) {
	start, end := day(10, 0), day(11, 0)

	t.Run("success schedules and notifies", func(t *testing.T) {
		f := newFixture(t, talkentity.StatusAccepted)

		created, appErr := f.svc.CommitBooking(context.Background(), f.talkID, f.roomID, start, end)
		if appErr != nil {
			t.Fatalf("CommitBooking() error = %v", appErr)
		}
		if created == nil || created.ID == uuid.Nil {
			t.Fatal("expected a created schedule with an id")
		}
		if len(f.repo.committed) != 1 {
			t.Fatalf("committed %d schedules, want 1", len(f.repo.committed))
		}
		if len(f.notifier.kinds) != 1 || f.notifier.kinds[0] != "talk_scheduled" {
			t.Errorf("notifications = %v, want [talk_scheduled]", f.notifier.kinds)
		}
		if len(f.cache.deletes) == 0 {
			t.Error("expected availability cache invalidation")
		}
	})

	t.Run("unknown talk", func(t *testing.T) {
		f := newFixture(t, talkentity.StatusAccepted)

		_, appErr := f.svc.CommitBooking(context.Background(), uuid.New(), f.roomID, start, end)
		if appErr == nil || appErr.Code != errors.ErrNotFound {
			t.Errorf("CommitBooking() = %v, want NOT_FOUND", appErr)
		}
	})

	t.Run("unknown room", func(t *testing.T) {
		f := newFixture(t, talkentity.StatusAccepted)

		created, appErr := f.svc.CommitBooking(context.Background(), f.talkID, uuid.New(), start, end)
		if appErr == nil || appErr.Code != errors.ErrNotFound {
			t.Errorf("CommitBooking() = %v, want NOT_FOUND", appErr)
		}
		if created != nil {
			t.Error("no schedule may be returned for an unknown room")
		}
		if len(f.repo.committed) != 0 {
			t.Error("no schedule may be written for an unknown room")
		}
	})

	t.Run("pending talk cannot be scheduled", func(t *testing.T) {
		f := newFixture(t, talkentity.StatusPending)

		_, appErr := f.svc.CommitBooking(context.Background(), f.talkID, f.roomID, start, end)
		if appErr == nil || appErr.Code != errors.ErrInvalidStateTransition {
			t.Errorf("CommitBooking() = %v, want INVALID_STATE_TRANSITION", appErr)
		}
		if len(f.repo.committed) != 0 {
			t.Error("no schedule may be written for an unbookable talk")
		}
	})

	t.Run("scheduled talk cannot be committed again", func(t *testing.T) {
		f := newFixture(t, talkentity.StatusScheduled)

		_, appErr := f.svc.CommitBooking(context.Background(), f.talkID, f.roomID, start, end)
		if appErr == nil || appErr.Code != errors.ErrInvalidStateTransition {
			t.Errorf("CommitBooking() = %v, want INVALID_STATE_TRANSITION", appErr)
		}
	})

	t.Run("out of hours rejected before any write", func(t *testing.T) {
		f := newFixture(t, talkentity.StatusAccepted)

		_, appErr := f.svc.CommitBooking(context.Background(), f.talkID, f.roomID, day(7, 0), day(8, 0))
		if appErr == nil || appErr.Code != errors.ErrOutOfHours {
			t.Errorf("CommitBooking() = %v, want OUT_OF_HOURS", appErr)
		}
		if len(f.repo.committed) != 0 {
			t.Error("no schedule may be written for an out-of-hours interval")
		}
	})

	t.Run("conflict carries the clashing bookings", func(t *testing.T) {
		f := newFixture(t, talkentity.StatusAccepted)
		f.repo.conflicts = []entity.ConflictingSchedule{
			{ID: uuid.New(), TalkID: uuid.New(), TalkTitle: "Generics in practice", StartTime: day(10, 30), EndTime: day(11, 30)},
		}

		_, appErr := f.svc.CommitBooking(context.Background(), f.talkID, f.roomID, start, end)
		if appErr == nil || appErr.Code != errors.ErrSlotConflict {
			t.Fatalf("CommitBooking() = %v, want SLOT_CONFLICT", appErr)
		}
		details, ok := appErr.Details.([]entity.ConflictingSchedule)
		if !ok || len(details) != 1 {
			t.Fatalf("Details = %#v, want the conflicting schedule list", appErr.Details)
		}
		if details[0].TalkTitle != "Generics in practice" {
			t.Errorf("conflict title = %q", details[0].TalkTitle)
		}
		if len(f.repo.committed) != 0 {
			t.Error("no schedule may be written on conflict")
		}
	})

	t.Run("racing writer conflict maps to slot conflict", func(t *testing.T) {
		f := newFixture(t, talkentity.StatusAccepted)
		f.repo.commitErr = repository.ErrBookingConflict

		_, appErr := f.svc.CommitBooking(context.Background(), f.talkID, f.roomID, start, end)
		if appErr == nil || appErr.Code != errors.ErrSlotConflict {
			t.Errorf("CommitBooking() = %v, want SLOT_CONFLICT", appErr)
		}
	})

	t.Run("repo failure surfaces as create failed", func(t *testing.T) {
		f := newFixture(t, talkentity.StatusAccepted)
		f.repo.commitErr = context.DeadlineExceeded

		_, appErr := f.svc.CommitBooking(context.Background(), f.talkID, f.roomID, start, end)
		if appErr == nil || appErr.Code != errors.ErrCreateFailed {
			t.Errorf("CommitBooking() = %v, want CREATE_FAILED", appErr)
		}
		if len(f.notifier.kinds) != 0 {
			t.Error("no notification may be sent on a failed commit")
		}
	})
}

func TestRescheduleBooking(t *testing.T) {
	// scheduledFixture books the fixture talk 10:00-11:00 in the fixture room.
	scheduledFixture := func(t *testing.T) (*fixture, *entity.Schedule) {
		t.Helper()
		f := newFixture(t, talkentity.StatusScheduled)
		sched := &entity.Schedule{ID: uuid.New(), TalkID: f.talkID, RoomID: f.roomID, StartTime: day(10, 0), EndTime: day(11, 0)}
		f.repo.byTalk[f.talkID] = sched
		return f, sched
	}

	t.Run("own booking does not block the move", func(t *testing.T) {
		f, sched := scheduledFixture(t)
		f.repo.conflicts = []entity.ConflictingSchedule{
			{ID: sched.ID, TalkID: f.talkID, TalkTitle: "Profiling Go services", StartTime: sched.StartTime, EndTime: sched.EndTime},
		}

		// 10:30-11:30 overlaps the talk's own 10:00-11:00 slot.
		updated, appErr := f.svc.RescheduleBooking(context.Background(), f.talkID, f.roomID, day(10, 30), day(11, 30))
		if appErr != nil {
			t.Fatalf("RescheduleBooking() error = %v", appErr)
		}
		if f.repo.gotExclude == nil || *f.repo.gotExclude != sched.ID {
			t.Errorf("conflict check excluded %v, want the talk's own booking %v", f.repo.gotExclude, sched.ID)
		}
		if updated == nil || !updated.StartTime.Equal(day(10, 30)) {
			t.Fatalf("updated schedule = %+v", updated)
		}
		if len(f.repo.rescheduled) != 1 {
			t.Fatalf("rescheduled %d bookings, want 1", len(f.repo.rescheduled))
		}
		if len(f.notifier.kinds) != 1 || f.notifier.kinds[0] != "talk_rescheduled" {
			t.Errorf("notifications = %v, want [talk_rescheduled]", f.notifier.kinds)
		}
	})

	t.Run("moving rooms invalidates both availability keys", func(t *testing.T) {
		f, _ := scheduledFixture(t)
		other := f.addRoom("Workshop room")

		if _, appErr := f.svc.RescheduleBooking(context.Background(), f.talkID, other, day(14, 0), day(15, 0)); appErr != nil {
			t.Fatalf("RescheduleBooking() error = %v", appErr)
		}
		if len(f.cache.deletes) != 2 {
			t.Errorf("cache deletes = %v, want the old and new room keys", f.cache.deletes)
		}
	})

	t.Run("another talk's booking still conflicts", func(t *testing.T) {
		f, _ := scheduledFixture(t)
		f.repo.conflicts = []entity.ConflictingSchedule{
			{ID: uuid.New(), TalkID: uuid.New(), TalkTitle: "Generics in practice", StartTime: day(14, 0), EndTime: day(15, 0)},
		}

		_, appErr := f.svc.RescheduleBooking(context.Background(), f.talkID, f.roomID, day(14, 30), day(15, 30))
		if appErr == nil || appErr.Code != errors.ErrSlotConflict {
			t.Fatalf("RescheduleBooking() = %v, want SLOT_CONFLICT", appErr)
		}
		if len(f.repo.rescheduled) != 0 {
			t.Error("no booking may be moved on conflict")
		}
	})

	t.Run("unscheduled talk has no booking to move", func(t *testing.T) {
		f := newFixture(t, talkentity.StatusAccepted)

		_, appErr := f.svc.RescheduleBooking(context.Background(), f.talkID, f.roomID, day(10, 0), day(11, 0))
		if appErr == nil || appErr.Code != errors.ErrInvalidStateTransition {
			t.Errorf("RescheduleBooking() = %v, want INVALID_STATE_TRANSITION", appErr)
		}
	})

	t.Run("unknown room", func(t *testing.T) {
		f, _ := scheduledFixture(t)

		_, appErr := f.svc.RescheduleBooking(context.Background(), f.talkID, uuid.New(), day(10, 0), day(11, 0))
		if appErr == nil || appErr.Code != errors.ErrNotFound {
			t.Errorf("RescheduleBooking() = %v, want NOT_FOUND", appErr)
		}
	})

	t.Run("racing writer conflict maps to slot conflict", func(t *testing.T) {
		f, _ := scheduledFixture(t)
		f.repo.rescheduleErr = repository.ErrBookingConflict

		_, appErr := f.svc.RescheduleBooking(context.Background(), f.talkID, f.roomID, day(14, 0), day(15, 0))
		if appErr == nil || appErr.Code != errors.ErrSlotConflict {
			t.Errorf("RescheduleBooking() = %v, want SLOT_CONFLICT", appErr)
		}
	})
}

func TestCancelBooking(t *testing.T) {
	t.Run("success returns talk to accepted", func(t *testing.T) {
		f := newFixture(t, talkentity.StatusScheduled)
		sched := &entity.Schedule{ID: uuid.New(), TalkID: f.talkID, RoomID: f.roomID, StartTime: day(10, 0), EndTime: day(11, 0)}
		f.repo.byTalk[f.talkID] = sched

		if appErr := f.svc.CancelBooking(context.Background(), f.talkID); appErr != nil {
			t.Fatalf("CancelBooking() error = %v", appErr)
		}
		if len(f.repo.canceled) != 1 || f.repo.canceled[0] != sched.ID {
			t.Errorf("canceled = %v, want [%v]", f.repo.canceled, sched.ID)
		}
		if len(f.notifier.kinds) != 1 || f.notifier.kinds[0] != "talk_unscheduled" {
			t.Errorf("notifications = %v, want [talk_unscheduled]", f.notifier.kinds)
		}
	})

	t.Run("accepted talk has nothing to cancel", func(t *testing.T) {
		f := newFixture(t, talkentity.StatusAccepted)

		appErr := f.svc.CancelBooking(context.Background(), f.talkID)
		if appErr == nil || appErr.Code != errors.ErrInvalidStateTransition {
			t.Errorf("CancelBooking() = %v, want INVALID_STATE_TRANSITION", appErr)
		}
	})

	t.Run("missing schedule row", func(t *testing.T) {
		f := newFixture(t, talkentity.StatusScheduled)

		appErr := f.svc.CancelBooking(context.Background(), f.talkID)
		if appErr == nil || appErr.Code != errors.ErrNotFound {
			t.Errorf("CancelBooking() = %v, want NOT_FOUND", appErr)
		}
	})
}

func TestAvailableTimes(t *testing.T) {
	f := newFixture(t, talkentity.StatusAccepted)
	f.repo.byRoomDay = []entity.Schedule{
		{ID: uuid.New(), RoomID: f.roomID, StartTime: day(12, 0), EndTime: day(13, 0)},
	}

	free, slots, appErr := f.svc.AvailableTimes(context.Background(), f.roomID, day(0, 0))
	if appErr != nil {
		t.Fatalf("AvailableTimes() error = %v", appErr)
	}
	if len(free) != 2 {
		t.Fatalf("got %d free intervals, want 2: %v", len(free), free)
	}
	if !free[0].Start.Equal(day(9, 0)) || !free[0].End.Equal(day(12, 0)) {
		t.Errorf("first free interval = %v..%v", free[0].Start, free[0].End)
	}
	if len(slots) != 10 {
		t.Errorf("got %d grid slots, want 10", len(slots))
	}
	for _, s := range slots {
		wantAvailable := !s.Start.Equal(day(12, 0))
		if s.Available != wantAvailable {
			t.Errorf("slot %v available = %v, want %v", s.Start, s.Available, wantAvailable)
		}
	}
	if f.cache.sets != 1 {
		t.Errorf("cache sets = %d, want 1", f.cache.sets)
	}
}

func TestAvailableRooms(t *testing.T) {
	f := newFixture(t, talkentity.StatusAccepted)
	roomA, roomB, roomC := uuid.New(), uuid.New(), uuid.New()
	f.repo.occupied = []uuid.UUID{roomB}

	got, appErr := f.svc.AvailableRooms(context.Background(), []uuid.UUID{roomA, roomB, roomC}, day(10, 0), day(11, 0))
	if appErr != nil {
		t.Fatalf("AvailableRooms() error = %v", appErr)
	}
	if len(got) != 2 || got[0] != roomA || got[1] != roomC {
		t.Errorf("AvailableRooms() = %v, want [%v %v]", got, roomA, roomC)
	}

	_, appErr = f.svc.AvailableRooms(context.Background(), nil, day(20, 0), day(21, 0))
	if appErr == nil || appErr.Code != errors.ErrOutOfHours {
		t.Errorf("AvailableRooms() out-of-hours = %v, want OUT_OF_HOURS", appErr)
	}
}
