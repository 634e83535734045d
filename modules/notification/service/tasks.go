package service

import (
	"context"
	"encoding/json"
	"time"

	coreEntity "confhub/core/entity"
	"confhub/core/logger"
	"confhub/modules/notification/entity"
	"confhub/modules/notification/repository"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// TypeDeliver is the asynq task type for notification delivery.
const TypeDeliver = "notification:deliver"

// DeliverPayload is the queued form of one notification.
type DeliverPayload struct {
	UserID  uuid.UUID      `json:"user_id"`
	Kind    string         `json:"kind"`
	Title   string         `json:"title"`
	Message string         `json:"message"`
	Data    map[string]any `json:"data"`
}

// NewDeliverTask builds the asynq task for a notification.
func NewDeliverTask(p *DeliverPayload) (*asynq.Task, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeDeliver, data, asynq.MaxRetry(3), asynq.Timeout(30*time.Second)), nil
}

// DeliverHandler processes queued notifications: it persists the row the UI
// reads and hands the message to the mailer.
type DeliverHandler struct {
	repo   *repository.NotificationRepository
	mailer Mailer
}

// Mailer sends one notification by email. The default implementation only
// logs; wiring a real SMTP sender is a deployment concern.
type Mailer interface {
	Send(ctx context.Context, userID uuid.UUID, subject, body string) error
}

type logMailer struct{}

func (logMailer) Send(ctx context.Context, userID uuid.UUID, subject, body string) error {
	logger.Info("Mailer:Send", "user_id", userID, "subject", subject)
	return nil
}

func NewDeliverHandler(repo *repository.NotificationRepository, mailer Mailer) *DeliverHandler {
	if mailer == nil {
		mailer = logMailer{}
	}
	return &DeliverHandler{repo: repo, mailer: mailer}
}

func (h *DeliverHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var p DeliverPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		logger.Error("DeliverHandler:ProcessTask:Unmarshal:Error:", err)
		return err
	}

	notif := &entity.Notification{
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
	}
	if err := h.repo.Create(ctx, notif); err != nil {
		return err
	}

	if err := h.mailer.Send(ctx, p.UserID, p.Title, p.Message); err != nil {
		// The in-app notification is already stored; a mail failure is
		// not worth a retry of the whole task.
		logger.Warn("DeliverHandler:ProcessTask:Send:Error", "error", err)
	}

	logger.Info("DeliverHandler:ProcessTask:Success", "user_id", p.UserID, "kind", p.Kind)
	return nil
}

// Mux returns an asynq mux with every notification handler registered.
func Mux(repo *repository.NotificationRepository, mailer Mailer) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.Handle(TypeDeliver, NewDeliverHandler(repo, mailer))
	return mux
}
