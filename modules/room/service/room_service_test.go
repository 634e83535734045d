package service

import (
	"context"
	"testing"

	"confhub/core/errors"
	"confhub/modules/room/dto"
	"confhub/modules/room/entity"

	"github.com/google/uuid"
)

type fakeRoomRepo struct {
	rooms     map[uuid.UUID]*entity.Room
	booked    map[uuid.UUID]bool
	deleted   []uuid.UUID
	createErr error
}

func newFakeRoomRepo() *fakeRoomRepo {
	return &fakeRoomRepo{rooms: map[uuid.UUID]*entity.Room{}, booked: map[uuid.UUID]bool{}}
}

func (f *fakeRoomRepo) Create(ctx context.Context, room *entity.Room) (*entity.Room, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	created := *room
	created.ID = uuid.New()
	f.rooms[created.ID] = &created
	return &created, nil
}

func (f *fakeRoomRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Room, error) {
	return f.rooms[id], nil
}

func (f *fakeRoomRepo) List(ctx context.Context) ([]entity.Room, error) {
	var out []entity.Room
	for _, r := range f.rooms {
		out = append(out, *r)
	}
	return out, nil
}

func (f *fakeRoomRepo) ListIDs(ctx context.Context) ([]uuid.UUID, error) {
	var out []uuid.UUID
	for id := range f.rooms {
		out = append(out, id)
	}
	return out, nil
}

func (f *fakeRoomRepo) Update(ctx context.Context, room *entity.Room) error {
	f.rooms[room.ID] = room
	return nil
}

func (f *fakeRoomRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(f.rooms, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeRoomRepo) HasSchedules(ctx context.Context, id uuid.UUID) (bool, error) {
	return f.booked[id], nil
}

func TestRoomServiceCreate(t *testing.T) {
	repo := newFakeRoomRepo()
	svc := NewRoomService(repo)

	t.Run("valid room", func(t *testing.T) {
		room, appErr := svc.Create(context.Background(), &dto.CreateRoomRequest{Name: "Auditorium", Capacity: 300})
		if appErr != nil {
			t.Fatalf("Create() error = %v", appErr)
		}
		if room.ID == uuid.Nil {
			t.Error("expected a generated id")
		}
	})

	t.Run("missing name", func(t *testing.T) {
		_, appErr := svc.Create(context.Background(), &dto.CreateRoomRequest{Name: "  ", Capacity: 10})
		if appErr == nil || appErr.Code != errors.ErrInvalidRequestData {
			t.Errorf("Create() = %v, want INVALID_REQUEST_DATA", appErr)
		}
	})

	t.Run("non-positive capacity", func(t *testing.T) {
		_, appErr := svc.Create(context.Background(), &dto.CreateRoomRequest{Name: "Lab", Capacity: 0})
		if appErr == nil || appErr.Code != errors.ErrInvalidRequestData {
			t.Errorf("Create() = %v, want INVALID_REQUEST_DATA", appErr)
		}
	})
}

func TestRoomServiceDelete(t *testing.T) {
	repo := newFakeRoomRepo()
	svc := NewRoomService(repo)

	free, _ := svc.Create(context.Background(), &dto.CreateRoomRequest{Name: "Free", Capacity: 50})
	busy, _ := svc.Create(context.Background(), &dto.CreateRoomRequest{Name: "Busy", Capacity: 50})
	repo.booked[busy.ID] = true

	if appErr := svc.Delete(context.Background(), free.ID); appErr != nil {
		t.Fatalf("Delete() error = %v", appErr)
	}

	appErr := svc.Delete(context.Background(), busy.ID)
	if appErr == nil || appErr.Code != errors.ErrAlreadyExists {
		t.Errorf("Delete() booked room = %v, want ALREADY_EXISTS", appErr)
	}

	if appErr := svc.Delete(context.Background(), uuid.New()); appErr == nil || appErr.Code != errors.ErrNotFound {
		t.Errorf("Delete() unknown room = %v, want NOT_FOUND", appErr)
	}
}
