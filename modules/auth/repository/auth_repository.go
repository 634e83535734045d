package repository

import (
	"context"
	"database/sql"

	"confhub/core/database"
	"confhub/core/logger"
	"confhub/modules/auth/entity"

	"github.com/google/uuid"
)

// AuthRepository handles user and role database operations
type AuthRepository struct {
	DB database.IDatabase
}

// NewAuthRepository creates a new repository instance
func NewAuthRepository(db database.IDatabase) *AuthRepository {
	return &AuthRepository{DB: db}
}

// AuthRepositoryInterface defines the repository contract
type AuthRepositoryInterface interface {
	GetUserByEmail(ctx context.Context, email string) (*entity.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	GetUserByGoogleID(ctx context.Context, googleID string) (*entity.User, error)
	CreateUser(ctx context.Context, user *entity.User) (*entity.User, error)
	LinkGoogleAccount(ctx context.Context, userID uuid.UUID, googleID string, avatarURL *string) error
	GetRoleByName(ctx context.Context, name string) (*entity.Role, error)
}

const userColumns = `
	u.id, u.name, u.email, u.password_hash, u.avatar_url, u.role_id,
	r.name AS role_name, u.google_id, u.created_at, u.updated_at
`

func (r *AuthRepository) getUserWhere(ctx context.Context, where string, arg any) (*entity.User, error) {
	query := `SELECT` + userColumns + `FROM users u JOIN roles r ON r.id = u.role_id WHERE ` + where

	var user entity.User
	err := r.DB.GetContext(ctx, &user, query, arg)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("AuthRepository:GetUser", err)
		return nil, err
	}

	return &user, nil
}

func (r *AuthRepository) GetUserByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.getUserWhere(ctx, "u.email = $1", email)
}

func (r *AuthRepository) GetUserByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	return r.getUserWhere(ctx, "u.id = $1", id)
}

func (r *AuthRepository) GetUserByGoogleID(ctx context.Context, googleID string) (*entity.User, error) {
	return r.getUserWhere(ctx, "u.google_id = $1", googleID)
}

func (r *AuthRepository) CreateUser(ctx context.Context, user *entity.User) (*entity.User, error) {
	query := `
		INSERT INTO users (name, email, password_hash, avatar_url, role_id, google_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`

	err := r.DB.QueryRowContext(ctx, query,
		user.Name, user.Email, user.PasswordHash, user.AvatarURL, user.RoleID, user.GoogleID).
		Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		logger.Error("AuthRepository:CreateUser", err)
		return nil, err
	}

	return user, nil
}

func (r *AuthRepository) LinkGoogleAccount(ctx context.Context, userID uuid.UUID, googleID string, avatarURL *string) error {
	query := `
		UPDATE users
		SET google_id = $2, avatar_url = COALESCE($3, avatar_url), updated_at = NOW()
		WHERE id = $1
	`

	err := r.DB.ExecContext(ctx, query, userID, googleID, avatarURL)
	if err != nil {
		logger.Error("AuthRepository:LinkGoogleAccount", err)
		return err
	}

	return nil
}

func (r *AuthRepository) GetRoleByName(ctx context.Context, name string) (*entity.Role, error) {
	query := `SELECT id, name FROM roles WHERE name = $1`

	var role entity.Role
	err := r.DB.GetContext(ctx, &role, query, name)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("AuthRepository:GetRoleByName", err)
		return nil, err
	}

	return &role, nil
}
