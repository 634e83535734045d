package service

import (
	"context"
	"time"

	coreEntity "confhub/core/entity"
	"confhub/core/logger"
	"confhub/core/params"
	"confhub/modules/notification/entity"
	"confhub/modules/notification/repository"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

type NotificationService struct {
	repo   *repository.NotificationRepository
	client *asynq.Client
}

func NewNotificationService(repo *repository.NotificationRepository, client *asynq.Client) *NotificationService {
	return &NotificationService{repo: repo, client: client}
}

// templates maps a notification kind to its user-facing text. The payload
// stays attached as structured data.
var templates = map[string]struct {
	title   string
	message string
}{
	"talk_accepted":    {"Talk accepted", "Your talk was accepted by the organizers."},
	"talk_rejected":    {"Talk rejected", "Your talk was not selected this time."},
	"talk_scheduled":   {"Talk scheduled", "Your talk has been assigned a room and time slot."},
	"talk_rescheduled": {"Booking moved", "Your talk's room or time slot has changed."},
	"talk_unscheduled": {"Booking canceled", "Your talk's room booking was canceled."},
}

// Notify queues a notification for asynchronous delivery. When no queue
// client is configured it writes the row directly.
func (s *NotificationService) Notify(ctx context.Context, userID uuid.UUID, kind string, payload map[string]any) error {
	tpl, ok := templates[kind]
	if !ok {
		tpl.title = kind
	}

	p := &DeliverPayload{
		UserID:  userID,
		Kind:    kind,
		Title:   tpl.title,
		Message: tpl.message,
		Data:    payload,
	}

	if s.client == nil {
		return s.create(ctx, p)
	}

	task, err := NewDeliverTask(p)
	if err != nil {
		return err
	}
	if _, err := s.client.EnqueueContext(ctx, task); err != nil {
		logger.Warn("NotificationService:Notify:Enqueue:Error", "kind", kind, "error", err)
		// Queue down: deliver in-band so the notification is not lost.
		return s.create(ctx, p)
	}
	return nil
}

func (s *NotificationService) create(ctx context.Context, p *DeliverPayload) error {
	return s.repo.Create(ctx, &entity.Notification{
		UserID:  p.UserID,
		Kind:    p.Kind,
		Title:   p.Title,
		Message: p.Message,
		Data:    entity.JSONB(p.Data),
		IsRead:  false,
		BaseEntity: coreEntity.BaseEntity{
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
	})
}

func (s *NotificationService) GetMyNotifications(ctx context.Context, userID uuid.UUID, queryParams params.QueryParams) (*entity.PaginatedNotificationEntity, error) {
	return s.repo.GetByUserID(ctx, userID, queryParams)
}

func (s *NotificationService) MarkAsRead(ctx context.Context, userID uuid.UUID, ids []string) error {
	return s.repo.MarkAsRead(ctx, userID, ids)
}

func (s *NotificationService) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	return s.repo.MarkAllAsRead(ctx, userID)
}

func (s *NotificationService) CountUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	return s.repo.CountUnread(ctx, userID)
}
