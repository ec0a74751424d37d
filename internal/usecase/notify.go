package usecase

import (
	"context"
	"time"

	"matatubook/internal/data/entity"
	"matatubook/internal/data/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// notifier fans a customer-facing event out to the in-app notification feed
// and SMS. Delivery failures are logged, never propagated: a booking must not
// fail because a text message did.
type notifier struct {
	repo *repository.Repository
	sms  SMSSender
	log  *zap.Logger
}

func newNotifier(repo *repository.Repository, sms SMSSender, log *zap.Logger) *notifier {
	return &notifier{
		repo: repo,
		sms:  sms,
		log:  log.With(zap.String("component", "notifier")),
	}
}

func (n *notifier) notify(ctx context.Context, userID uuid.UUID, notifType entity.NotificationType, title, message string, link *string) {
	notification := &entity.Notification{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
		},
		UserID:  userID,
		Type:    notifType,
		Title:   title,
		Message: message,
		Link:    link,
	}

	if err := n.repo.Notification.Create(ctx, notification); err != nil {
		n.log.Warn("Failed to create notification",
			zap.Error(err),
			zap.String("user_id", userID.String()),
			zap.String("title", title),
		)
	}
}

func (n *notifier) sendSMS(ctx context.Context, phone, message string) {
	status := entity.SMSStatusSent
	respBody, err := n.sms.Send(ctx, phone, message)
	if err != nil {
		status = entity.SMSStatusFailed
		n.log.Warn("Failed to send SMS",
			zap.Error(err),
			zap.String("recipient", phone),
		)
	}

	var response *string
	if respBody != "" {
		response = &respBody
	}

	smsLog := &entity.SMSLog{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
		},
		Recipient: phone,
		Message:   message,
		Status:    status,
		Response:  response,
	}

	if err := n.repo.SMSLog.Create(ctx, smsLog); err != nil {
		n.log.Warn("Failed to log SMS", zap.Error(err), zap.String("recipient", phone))
	}
}
