package repository

import (
	"context"
	"database/sql"

	"confhub/core/database"
	"confhub/core/logger"
	"confhub/modules/room/entity"

	"github.com/google/uuid"
)

// RoomRepository handles room database operations
type RoomRepository struct {
	DB database.IDatabase
}

// NewRoomRepository creates a new repository instance
func NewRoomRepository(db database.IDatabase) *RoomRepository {
	return &RoomRepository{DB: db}
}

// RoomRepositoryInterface defines the repository contract
type RoomRepositoryInterface interface {
	Create(ctx context.Context, room *entity.Room) (*entity.Room, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Room, error)
	List(ctx context.Context) ([]entity.Room, error)
	ListIDs(ctx context.Context) ([]uuid.UUID, error)
	Update(ctx context.Context, room *entity.Room) error
	Delete(ctx context.Context, id uuid.UUID) error
	HasSchedules(ctx context.Context, id uuid.UUID) (bool, error)
}

func (r *RoomRepository) Create(ctx context.Context, room *entity.Room) (*entity.Room, error) {
	query := `
		INSERT INTO rooms (name, capacity, description)
		VALUES ($1, $2, $3)
		RETURNING id, name, capacity, description, created_at, updated_at
	`

	var created entity.Room
	err := r.DB.GetContext(ctx, &created, query, room.Name, room.Capacity, room.Description)
	if err != nil {
		logger.Error("RoomRepository:Create", err)
		return nil, err
	}

	return &created, nil
}

func (r *RoomRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Room, error) {
	query := `
		SELECT id, name, capacity, description, created_at, updated_at
		FROM rooms WHERE id = $1
	`

	var room entity.Room
	err := r.DB.GetContext(ctx, &room, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("RoomRepository:GetByID", err)
		return nil, err
	}

	return &room, nil
}

func (r *RoomRepository) List(ctx context.Context) ([]entity.Room, error) {
	query := `
		SELECT id, name, capacity, description, created_at, updated_at
		FROM rooms ORDER BY name
	`

	var rooms []entity.Room
	err := r.DB.SelectContext(ctx, &rooms, query)
	if err != nil {
		logger.Error("RoomRepository:List", err)
		return nil, err
	}

	return rooms, nil
}

func (r *RoomRepository) ListIDs(ctx context.Context) ([]uuid.UUID, error) {
	query := `SELECT id FROM rooms ORDER BY name`

	var ids []uuid.UUID
	err := r.DB.SelectContext(ctx, &ids, query)
	if err != nil {
		logger.Error("RoomRepository:ListIDs", err)
		return nil, err
	}

	return ids, nil
}

func (r *RoomRepository) Update(ctx context.Context, room *entity.Room) error {
	query := `
		UPDATE rooms
		SET name = $2, capacity = $3, description = $4, updated_at = NOW()
		WHERE id = $1
	`

	err := r.DB.ExecContext(ctx, query, room.ID, room.Name, room.Capacity, room.Description)
	if err != nil {
		logger.Error("RoomRepository:Update", err)
		return err
	}

	return nil
}

func (r *RoomRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM rooms WHERE id = $1`
	err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		logger.Error("RoomRepository:Delete", err)
		return err
	}
	return nil
}

// HasSchedules reports whether any booking references the room.
func (r *RoomRepository) HasSchedules(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM schedules WHERE room_id = $1)`

	var exists bool
	err := r.DB.GetContext(ctx, &exists, query, id)
	if err != nil {
		logger.Error("RoomRepository:HasSchedules", err)
		return false, err
	}

	return exists, nil
}
