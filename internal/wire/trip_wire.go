package wire

import (
	"matatubook/internal/adaptor"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireTrip(
	r chi.Router,
	tripHandler *adaptor.TripHandler,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	// Searching and browsing trips needs no account
	r.Get("/api/routes/", tripHandler.ListRoutes)
	r.Get("/api/trips/search/", tripHandler.SearchTrips)
	r.Get("/api/trips/{id}/", tripHandler.GetTrip)

	// Live seat map poll from the booking page
	r.Get("/ajax/check-seats/", tripHandler.CheckSeats)
}
