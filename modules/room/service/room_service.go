package service

import (
	"context"

	"confhub/core/errors"
	"confhub/core/logger"
	"confhub/modules/room/dto"
	"confhub/modules/room/entity"
	"confhub/modules/room/repository"

	"github.com/google/uuid"
)

type RoomService interface {
	Create(ctx context.Context, req *dto.CreateRoomRequest) (*entity.Room, *errors.AppError)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Room, *errors.AppError)
	List(ctx context.Context) ([]entity.Room, *errors.AppError)
	ListIDs(ctx context.Context) ([]uuid.UUID, *errors.AppError)
	Update(ctx context.Context, id uuid.UUID, req *dto.UpdateRoomRequest) (*entity.Room, *errors.AppError)
	Delete(ctx context.Context, id uuid.UUID) *errors.AppError
}

type roomService struct {
	repo repository.RoomRepositoryInterface
}

func NewRoomService(repo repository.RoomRepositoryInterface) RoomService {
	return &roomService{repo: repo}
}

func (s *roomService) Create(ctx context.Context, req *dto.CreateRoomRequest) (*entity.Room, *errors.AppError) {
	logger.Info("RoomService:Create:Start", "name", req.Name)

	if problems := req.Validate(); len(problems) > 0 {
		return nil, errors.NewAppError(errors.ErrInvalidRequestData, "Invalid room data", nil).WithDetails(problems)
	}

	created, err := s.repo.Create(ctx, &entity.Room{
		Name:        req.Name,
		Capacity:    req.Capacity,
		Description: req.Description,
	})
	if err != nil {
		return nil, errors.NewAppError(errors.ErrCreateFailed, "Failed to create room", err)
	}

	logger.Info("RoomService:Create:Success", "room_id", created.ID)
	return created, nil
}

func (s *roomService) GetByID(ctx context.Context, id uuid.UUID) (*entity.Room, *errors.AppError) {
	room, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to load room", err)
	}
	if room == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Room not found", nil)
	}
	return room, nil
}

func (s *roomService) List(ctx context.Context) ([]entity.Room, *errors.AppError) {
	rooms, err := s.repo.List(ctx)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to list rooms", err)
	}
	return rooms, nil
}

func (s *roomService) ListIDs(ctx context.Context) ([]uuid.UUID, *errors.AppError) {
	ids, err := s.repo.ListIDs(ctx)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to list rooms", err)
	}
	return ids, nil
}

func (s *roomService) Update(ctx context.Context, id uuid.UUID, req *dto.UpdateRoomRequest) (*entity.Room, *errors.AppError) {
	logger.Info("RoomService:Update:Start", "room_id", id)

	room, appErr := s.GetByID(ctx, id)
	if appErr != nil {
		return nil, appErr
	}

	if req.Name != nil {
		room.Name = *req.Name
	}
	if req.Capacity != nil {
		if *req.Capacity <= 0 {
			return nil, errors.NewAppError(errors.ErrInvalidRequestData, "Capacity must be positive", nil)
		}
		room.Capacity = *req.Capacity
	}
	if req.Description != nil {
		room.Description = *req.Description
	}

	if err := s.repo.Update(ctx, room); err != nil {
		return nil, errors.NewAppError(errors.ErrUpdateFailed, "Failed to update room", err)
	}

	return room, nil
}

// Delete refuses to remove a room that still has bookings; cancel those
// first.
func (s *roomService) Delete(ctx context.Context, id uuid.UUID) *errors.AppError {
	logger.Info("RoomService:Delete:Start", "room_id", id)

	if _, appErr := s.GetByID(ctx, id); appErr != nil {
		return appErr
	}

	booked, err := s.repo.HasSchedules(ctx, id)
	if err != nil {
		return errors.NewAppError(errors.ErrGetFailed, "Failed to check room bookings", err)
	}
	if booked {
		return errors.NewAppError(errors.ErrAlreadyExists, "Room still has scheduled talks", nil)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return errors.NewAppError(errors.ErrDeleteFailed, "Failed to delete room", err)
	}

	logger.Info("RoomService:Delete:Success", "room_id", id)
	return nil
}
