package service

import (
	"context"
	"fmt"
	"io"
	"strings"

	"confhub/core/errors"
	"confhub/core/logger"
	"confhub/core/storage"
	"confhub/core/utils"
	"confhub/modules/talk/dto"
	"confhub/modules/talk/entity"
	"confhub/modules/talk/repository"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

// Notifier delivers a user-facing notification; failures are logged only.
type Notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, kind string, payload map[string]any) error
}

type TalkService interface {
	Create(ctx context.Context, speakerID uuid.UUID, req *dto.CreateTalkRequest) (*entity.Talk, *errors.AppError)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Talk, error)
	GetBySlug(ctx context.Context, slug string) (*entity.Talk, *errors.AppError)
	List(ctx context.Context, q *dto.ListTalksQuery) ([]entity.Talk, *errors.AppError)
	ListBySpeaker(ctx context.Context, speakerID uuid.UUID) ([]entity.Talk, *errors.AppError)
	Update(ctx context.Context, id, actorID uuid.UUID, isOrganizer bool, req *dto.UpdateTalkRequest) (*entity.Talk, *errors.AppError)
	Delete(ctx context.Context, id, actorID uuid.UUID, isOrganizer bool) *errors.AppError
	Accept(ctx context.Context, id uuid.UUID) (*entity.Talk, *errors.AppError)
	Reject(ctx context.Context, id uuid.UUID) (*entity.Talk, *errors.AppError)
	AddFavorite(ctx context.Context, userID, talkID uuid.UUID) *errors.AppError
	RemoveFavorite(ctx context.Context, userID, talkID uuid.UUID) *errors.AppError
	ListFavorites(ctx context.Context, userID uuid.UUID) ([]entity.Talk, *errors.AppError)
	ListSubjects(ctx context.Context) ([]entity.Subject, *errors.AppError)
	UploadAttachment(ctx context.Context, id, actorID uuid.UUID, filename, contentType string, body io.Reader) (string, *errors.AppError)
}

type talkService struct {
	repo     repository.TalkRepositoryInterface
	storage  storage.ObjectStorage
	notifier Notifier
}

func NewTalkService(repo repository.TalkRepositoryInterface, store storage.ObjectStorage, notifier Notifier) TalkService {
	return &talkService{
		repo:     repo,
		storage:  store,
		notifier: notifier,
	}
}

// makeSlug builds a URL slug from the title with a short random suffix so
// identical titles stay distinct.
func makeSlug(title string) string {
	return slug.Make(title) + "-" + strings.ToLower(utils.GenerateID())
}

func (s *talkService) Create(ctx context.Context, speakerID uuid.UUID, req *dto.CreateTalkRequest) (*entity.Talk, *errors.AppError) {
	logger.Info("TalkService:Create:Start", "speaker_id", speakerID, "title", req.Title)

	if problems := req.Validate(); len(problems) > 0 {
		return nil, errors.NewAppError(errors.ErrInvalidRequestData, "Invalid talk data", nil).WithDetails(problems)
	}

	created, err := s.repo.Create(ctx, &entity.Talk{
		Title:           req.Title,
		Slug:            makeSlug(req.Title),
		Description:     req.Description,
		SubjectID:       req.SubjectID,
		DurationMinutes: req.DurationMinutes,
		Level:           entity.TalkLevel(req.Level),
		Status:          entity.StatusPending,
		SpeakerID:       speakerID,
	})
	if err != nil {
		return nil, errors.NewAppError(errors.ErrCreateFailed, "Failed to create talk", err)
	}

	logger.Info("TalkService:Create:Success", "talk_id", created.ID)
	return created, nil
}

func (s *talkService) GetByID(ctx context.Context, id uuid.UUID) (*entity.Talk, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *talkService) GetBySlug(ctx context.Context, slugValue string) (*entity.Talk, *errors.AppError) {
	talk, err := s.repo.GetBySlug(ctx, slugValue)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to load talk", err)
	}
	if talk == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Talk not found", nil)
	}
	return talk, nil
}

func (s *talkService) List(ctx context.Context, q *dto.ListTalksQuery) ([]entity.Talk, *errors.AppError) {
	if q.Status != "" && !entity.ValidStatus(entity.TalkStatus(q.Status)) {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Unknown status filter", nil)
	}
	if q.Level != "" && !entity.ValidLevel(entity.TalkLevel(q.Level)) {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Unknown level filter", nil)
	}

	talks, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to list talks", err)
	}
	return talks, nil
}

func (s *talkService) ListBySpeaker(ctx context.Context, speakerID uuid.UUID) ([]entity.Talk, *errors.AppError) {
	talks, err := s.repo.ListBySpeaker(ctx, speakerID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to list talks", err)
	}
	return talks, nil
}

// load fetches a talk and checks the actor may modify it: the owning speaker
// or an organizer.
func (s *talkService) load(ctx context.Context, id, actorID uuid.UUID, isOrganizer bool) (*entity.Talk, *errors.AppError) {
	talk, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to load talk", err)
	}
	if talk == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Talk not found", nil)
	}
	if !isOrganizer && talk.SpeakerID != actorID {
		return nil, errors.NewAppError(errors.ErrForbidden, "Only the speaker or an organizer may modify this talk", nil)
	}
	return talk, nil
}

func (s *talkService) Update(ctx context.Context, id, actorID uuid.UUID, isOrganizer bool, req *dto.UpdateTalkRequest) (*entity.Talk, *errors.AppError) {
	logger.Info("TalkService:Update:Start", "talk_id", id, "actor_id", actorID)

	talk, appErr := s.load(ctx, id, actorID, isOrganizer)
	if appErr != nil {
		return nil, appErr
	}
	if talk.Status == entity.StatusScheduled {
		return nil, errors.NewAppError(errors.ErrInvalidStateTransition,
			"Scheduled talks cannot be edited; cancel the booking first", nil)
	}

	if req.Title != nil && *req.Title != talk.Title {
		if strings.TrimSpace(*req.Title) == "" {
			return nil, errors.NewAppError(errors.ErrInvalidRequestData, "Title cannot be empty", nil)
		}
		talk.Title = *req.Title
		talk.Slug = makeSlug(*req.Title)
	}
	if req.Description != nil {
		talk.Description = *req.Description
	}
	if req.SubjectID != nil {
		talk.SubjectID = req.SubjectID
	}
	if req.DurationMinutes != nil {
		if *req.DurationMinutes <= 0 || *req.DurationMinutes > dto.MaxDurationMinutes {
			return nil, errors.NewAppError(errors.ErrInvalidRequestData, "Duration must be between 1 and 240 minutes", nil)
		}
		talk.DurationMinutes = *req.DurationMinutes
	}
	if req.Level != nil {
		if !entity.ValidLevel(entity.TalkLevel(*req.Level)) {
			return nil, errors.NewAppError(errors.ErrInvalidRequestData, "Unknown level", nil)
		}
		talk.Level = entity.TalkLevel(*req.Level)
	}

	if err := s.repo.Update(ctx, talk); err != nil {
		return nil, errors.NewAppError(errors.ErrUpdateFailed, "Failed to update talk", err)
	}

	return talk, nil
}

func (s *talkService) Delete(ctx context.Context, id, actorID uuid.UUID, isOrganizer bool) *errors.AppError {
	logger.Info("TalkService:Delete:Start", "talk_id", id, "actor_id", actorID)

	talk, appErr := s.load(ctx, id, actorID, isOrganizer)
	if appErr != nil {
		return appErr
	}
	if talk.Status == entity.StatusScheduled {
		return errors.NewAppError(errors.ErrInvalidStateTransition,
			"Scheduled talks cannot be deleted; cancel the booking first", nil)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return errors.NewAppError(errors.ErrDeleteFailed, "Failed to delete talk", err)
	}

	logger.Info("TalkService:Delete:Success", "talk_id", id)
	return nil
}

// transition applies an organizer decision through the status state machine.
func (s *talkService) transition(ctx context.Context, id uuid.UUID, to entity.TalkStatus, kind string) (*entity.Talk, *errors.AppError) {
	talk, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to load talk", err)
	}
	if talk == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Talk not found", nil)
	}
	if !entity.CanTransition(talk.Status, to) {
		logger.Info("TalkService:Transition:Rejected", "talk_id", id, "from", talk.Status, "to", to)
		return nil, errors.NewAppError(errors.ErrInvalidStateTransition,
			fmt.Sprintf("Talk in status %q cannot move to %q", talk.Status, to), nil)
	}

	moved, err := s.repo.UpdateStatus(ctx, id, talk.Status, to)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrUpdateFailed, "Failed to update talk status", err)
	}
	if !moved {
		// A concurrent decision got there first.
		return nil, errors.NewAppError(errors.ErrInvalidStateTransition,
			"Talk status changed concurrently; reload and retry", nil)
	}
	talk.Status = to

	if s.notifier != nil {
		if err := s.notifier.Notify(ctx, talk.SpeakerID, kind, map[string]any{
			"talk_id":    talk.ID.String(),
			"talk_title": talk.Title,
			"status":     string(to),
		}); err != nil {
			logger.Warn("TalkService:Transition:Notify:Error", "kind", kind, "error", err)
		}
	}

	logger.Info("TalkService:Transition:Success", "talk_id", id, "to", to)
	return talk, nil
}

func (s *talkService) Accept(ctx context.Context, id uuid.UUID) (*entity.Talk, *errors.AppError) {
	return s.transition(ctx, id, entity.StatusAccepted, "talk_accepted")
}

func (s *talkService) Reject(ctx context.Context, id uuid.UUID) (*entity.Talk, *errors.AppError) {
	return s.transition(ctx, id, entity.StatusRejected, "talk_rejected")
}

func (s *talkService) AddFavorite(ctx context.Context, userID, talkID uuid.UUID) *errors.AppError {
	talk, err := s.repo.GetByID(ctx, talkID)
	if err != nil {
		return errors.NewAppError(errors.ErrGetFailed, "Failed to load talk", err)
	}
	if talk == nil {
		return errors.NewAppError(errors.ErrNotFound, "Talk not found", nil)
	}

	if err := s.repo.AddFavorite(ctx, userID, talkID); err != nil {
		return errors.NewAppError(errors.ErrCreateFailed, "Failed to favorite talk", err)
	}
	return nil
}

func (s *talkService) RemoveFavorite(ctx context.Context, userID, talkID uuid.UUID) *errors.AppError {
	if err := s.repo.RemoveFavorite(ctx, userID, talkID); err != nil {
		return errors.NewAppError(errors.ErrDeleteFailed, "Failed to unfavorite talk", err)
	}
	return nil
}

func (s *talkService) ListFavorites(ctx context.Context, userID uuid.UUID) ([]entity.Talk, *errors.AppError) {
	talks, err := s.repo.ListFavorites(ctx, userID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to list favorites", err)
	}
	return talks, nil
}

func (s *talkService) ListSubjects(ctx context.Context) ([]entity.Subject, *errors.AppError) {
	subjects, err := s.repo.ListSubjects(ctx)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to list subjects", err)
	}
	return subjects, nil
}

// UploadAttachment stores the slides for a talk and records their URL.
func (s *talkService) UploadAttachment(ctx context.Context, id, actorID uuid.UUID, filename, contentType string, body io.Reader) (string, *errors.AppError) {
	logger.Info("TalkService:UploadAttachment:Start", "talk_id", id, "filename", filename)

	talk, appErr := s.load(ctx, id, actorID, false)
	if appErr != nil {
		return "", appErr
	}

	key := fmt.Sprintf("talks/%s/%s-%s", talk.ID, strings.ToLower(utils.GenerateID()), slug.Make(filename))
	url, err := s.storage.Upload(ctx, key, contentType, body)
	if err != nil {
		return "", errors.NewAppError(errors.ErrCreateFailed, "Failed to upload attachment", err)
	}

	if err := s.repo.SetAttachmentURL(ctx, id, url); err != nil {
		return "", errors.NewAppError(errors.ErrUpdateFailed, "Failed to record attachment", err)
	}

	logger.Info("TalkService:UploadAttachment:Success", "talk_id", id, "url", url)
	return url, nil
}
