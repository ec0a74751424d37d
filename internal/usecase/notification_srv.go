package usecase

import (
	"context"
	"fmt"
	"time"

	"matatubook/internal/data/repository"
	"matatubook/internal/dto/request"
	"matatubook/internal/dto/response"
	"matatubook/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type NotificationService interface {
	List(ctx context.Context, userID uuid.UUID, page request.PaginatedRequest) (*response.NotificationListResponse, error)
	MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error
	CleanupRead(ctx context.Context, olderThan time.Duration) (int64, error)
}

type notificationService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewNotificationService(repo *repository.Repository, log *zap.Logger) NotificationService {
	return &notificationService{
		repo: repo,
		log:  log,
	}
}

func (s *notificationService) List(ctx context.Context, userID uuid.UUID, page request.PaginatedRequest) (*response.NotificationListResponse, error) {
	notifications, err := s.repo.Notification.FindByUserID(ctx, userID, page.Limit(), page.Offset())
	if err != nil {
		s.log.Error("Failed to list notifications", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to list notifications")
	}

	total, err := s.repo.Notification.CountByUserID(ctx, userID)
	if err != nil {
		s.log.Error("Failed to count notifications", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to list notifications")
	}

	unread, err := s.repo.Notification.CountUnread(ctx, userID)
	if err != nil {
		s.log.Error("Failed to count unread notifications", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to list notifications")
	}

	results := make([]response.NotificationResponse, 0, len(notifications))
	for _, n := range notifications {
		results = append(results, response.NotificationToResponse(n))
	}

	pg := page.Page
	if pg < 1 {
		pg = 1
	}

	return &response.NotificationListResponse{
		Notifications: results,
		UnreadCount:   unread,
		Pagination: response.PaginationMeta{
			Total:      int64(total),
			Page:       pg,
			PerPage:    page.Limit(),
			TotalPages: utils.CalculateTotalPages(int64(total), page.Limit()),
		},
	}, nil
}

func (s *notificationService) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	marked, err := s.repo.Notification.MarkRead(ctx, notificationID, userID)
	if err != nil {
		s.log.Error("Failed to mark notification read",
			zap.Error(err),
			zap.String("notification_id", notificationID.String()),
		)
		return fmt.Errorf("failed to mark notification as read")
	}
	if !marked {
		return fmt.Errorf("notification not found")
	}

	return nil
}

// CleanupRead deletes read notifications older than the given age. Called from
// the background worker.
func (s *notificationService) CleanupRead(ctx context.Context, olderThan time.Duration) (int64, error) {
	return s.repo.Notification.DeleteReadBefore(ctx, time.Now().Add(-olderThan))
}
