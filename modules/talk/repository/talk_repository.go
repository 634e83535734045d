package repository

import (
	"context"
	"database/sql"
	"fmt"

	"confhub/core/database"
	"confhub/core/logger"
	"confhub/modules/talk/dto"
	"confhub/modules/talk/entity"

	"github.com/google/uuid"
)

// TalkRepository handles talk database operations
type TalkRepository struct {
	DB database.IDatabase
}

// NewTalkRepository creates a new repository instance
func NewTalkRepository(db database.IDatabase) *TalkRepository {
	return &TalkRepository{DB: db}
}

// TalkRepositoryInterface defines the repository contract
type TalkRepositoryInterface interface {
	Create(ctx context.Context, talk *entity.Talk) (*entity.Talk, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Talk, error)
	GetBySlug(ctx context.Context, slug string) (*entity.Talk, error)
	List(ctx context.Context, q *dto.ListTalksQuery) ([]entity.Talk, error)
	ListBySpeaker(ctx context.Context, speakerID uuid.UUID) ([]entity.Talk, error)
	Update(ctx context.Context, talk *entity.Talk) error
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to entity.TalkStatus) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) error
	SetAttachmentURL(ctx context.Context, id uuid.UUID, url string) error

	ListSubjects(ctx context.Context) ([]entity.Subject, error)
	AddFavorite(ctx context.Context, userID, talkID uuid.UUID) error
	RemoveFavorite(ctx context.Context, userID, talkID uuid.UUID) error
	ListFavorites(ctx context.Context, userID uuid.UUID) ([]entity.Talk, error)
}

const talkColumns = `
	id, title, slug, description, subject_id, duration_minutes,
	level, status, speaker_id, attachment_url, created_at, updated_at
`

func (r *TalkRepository) Create(ctx context.Context, talk *entity.Talk) (*entity.Talk, error) {
	query := `
		INSERT INTO talks (title, slug, description, subject_id, duration_minutes, level, status, speaker_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING` + talkColumns

	var created entity.Talk
	err := r.DB.GetContext(ctx, &created, query,
		talk.Title, talk.Slug, talk.Description, talk.SubjectID,
		talk.DurationMinutes, talk.Level, talk.Status, talk.SpeakerID)
	if err != nil {
		logger.Error("TalkRepository:Create", err)
		return nil, err
	}

	return &created, nil
}

func (r *TalkRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Talk, error) {
	query := `SELECT` + talkColumns + `FROM talks WHERE id = $1`

	var talk entity.Talk
	err := r.DB.GetContext(ctx, &talk, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("TalkRepository:GetByID", err)
		return nil, err
	}

	return &talk, nil
}

func (r *TalkRepository) GetBySlug(ctx context.Context, slug string) (*entity.Talk, error) {
	query := `SELECT` + talkColumns + `FROM talks WHERE slug = $1`

	var talk entity.Talk
	err := r.DB.GetContext(ctx, &talk, query, slug)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("TalkRepository:GetBySlug", err)
		return nil, err
	}

	return &talk, nil
}

func (r *TalkRepository) List(ctx context.Context, q *dto.ListTalksQuery) ([]entity.Talk, error) {
	query := `SELECT` + talkColumns + `FROM talks WHERE 1=1`
	var args []any

	if q.Status != "" {
		args = append(args, q.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if q.Level != "" {
		args = append(args, q.Level)
		query += fmt.Sprintf(" AND level = $%d", len(args))
	}
	if q.SubjectID != nil {
		args = append(args, *q.SubjectID)
		query += fmt.Sprintf(" AND subject_id = $%d", len(args))
	}
	if q.Search != "" {
		args = append(args, "%"+q.Search+"%")
		query += fmt.Sprintf(" AND (title ILIKE $%d OR description ILIKE $%d)", len(args), len(args))
	}
	query += " ORDER BY created_at DESC"

	var talks []entity.Talk
	err := r.DB.SelectContext(ctx, &talks, query, args...)
	if err != nil {
		logger.Error("TalkRepository:List", err)
		return nil, err
	}

	return talks, nil
}

func (r *TalkRepository) ListBySpeaker(ctx context.Context, speakerID uuid.UUID) ([]entity.Talk, error) {
	query := `SELECT` + talkColumns + `FROM talks WHERE speaker_id = $1 ORDER BY created_at DESC`

	var talks []entity.Talk
	err := r.DB.SelectContext(ctx, &talks, query, speakerID)
	if err != nil {
		logger.Error("TalkRepository:ListBySpeaker", err)
		return nil, err
	}

	return talks, nil
}

func (r *TalkRepository) Update(ctx context.Context, talk *entity.Talk) error {
	query := `
		UPDATE talks
		SET title = $2, slug = $3, description = $4, subject_id = $5,
		    duration_minutes = $6, level = $7, updated_at = NOW()
		WHERE id = $1
	`

	err := r.DB.ExecContext(ctx, query,
		talk.ID, talk.Title, talk.Slug, talk.Description, talk.SubjectID,
		talk.DurationMinutes, talk.Level)
	if err != nil {
		logger.Error("TalkRepository:Update", err)
		return err
	}

	return nil
}

// UpdateStatus moves a talk from one status to another, guarded in SQL so a
// concurrent writer cannot double-apply a transition. Returns false when the
// talk was not in the expected status.
func (r *TalkRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to entity.TalkStatus) (bool, error) {
	res, err := r.DB.NamedExecContext(ctx, `
		UPDATE talks SET status = :to, updated_at = NOW()
		WHERE id = :id AND status = :from
	`, map[string]any{"id": id, "from": from, "to": to})
	if err != nil {
		logger.Error("TalkRepository:UpdateStatus", err)
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *TalkRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM talks WHERE id = $1`
	err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		logger.Error("TalkRepository:Delete", err)
		return err
	}
	return nil
}

func (r *TalkRepository) SetAttachmentURL(ctx context.Context, id uuid.UUID, url string) error {
	query := `UPDATE talks SET attachment_url = $2, updated_at = NOW() WHERE id = $1`
	err := r.DB.ExecContext(ctx, query, id, url)
	if err != nil {
		logger.Error("TalkRepository:SetAttachmentURL", err)
		return err
	}
	return nil
}

func (r *TalkRepository) ListSubjects(ctx context.Context) ([]entity.Subject, error) {
	query := `SELECT id, name FROM subjects ORDER BY name`

	var subjects []entity.Subject
	err := r.DB.SelectContext(ctx, &subjects, query)
	if err != nil {
		logger.Error("TalkRepository:ListSubjects", err)
		return nil, err
	}

	return subjects, nil
}

func (r *TalkRepository) AddFavorite(ctx context.Context, userID, talkID uuid.UUID) error {
	query := `
		INSERT INTO favorites (user_id, talk_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, talk_id) DO NOTHING
	`

	err := r.DB.ExecContext(ctx, query, userID, talkID)
	if err != nil {
		logger.Error("TalkRepository:AddFavorite", err)
		return err
	}

	return nil
}

func (r *TalkRepository) RemoveFavorite(ctx context.Context, userID, talkID uuid.UUID) error {
	query := `DELETE FROM favorites WHERE user_id = $1 AND talk_id = $2`
	err := r.DB.ExecContext(ctx, query, userID, talkID)
	if err != nil {
		logger.Error("TalkRepository:RemoveFavorite", err)
		return err
	}
	return nil
}

func (r *TalkRepository) ListFavorites(ctx context.Context, userID uuid.UUID) ([]entity.Talk, error) {
	query := `
		SELECT t.id, t.title, t.slug, t.description, t.subject_id, t.duration_minutes,
		       t.level, t.status, t.speaker_id, t.attachment_url, t.created_at, t.updated_at
		FROM talks t
		JOIN favorites f ON f.talk_id = t.id
		WHERE f.user_id = $1
		ORDER BY f.created_at DESC
	`

	var talks []entity.Talk
	err := r.DB.SelectContext(ctx, &talks, query, userID)
	if err != nil {
		logger.Error("TalkRepository:ListFavorites", err)
		return nil, err
	}

	return talks, nil
}
