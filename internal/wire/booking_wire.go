package wire

import (
	"matatubook/internal/adaptor"
	"matatubook/internal/data/repository"
	"matatubook/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireBooking(
	r chi.Router,
	bookingHandler *adaptor.BookingHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	auth := middleware.AuthSession(repo.Session, repo.User, log)

	// ==================== PROTECTED ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(auth)

		r.Post("/api/bookings/", bookingHandler.CreateBooking)
		r.Get("/api/bookings/", bookingHandler.GetUserBookings)
		r.Get("/api/bookings/{id}/", bookingHandler.GetBooking)
		r.Post("/api/bookings/{id}/cancel/", bookingHandler.CancelBooking)

		// Promo check from the booking form
		r.Get("/ajax/verify-promo/", bookingHandler.VerifyPromo)
	})
}
