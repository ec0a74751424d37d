package wire

import (
	"matatubook/internal/adaptor"
	"matatubook/internal/data/repository"
	"matatubook/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireNotification(
	r chi.Router,
	notificationHandler *adaptor.NotificationHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	auth := middleware.AuthSession(repo.Session, repo.User, log)

	// ==================== PROTECTED ROUTES ====================
	r.With(auth).Get("/api/notifications/", notificationHandler.List)
	r.With(auth).Post("/api/notifications/{id}/read/", notificationHandler.MarkRead)
}
