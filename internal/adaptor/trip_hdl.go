package adaptor

import (
	"net/http"

	"matatubook/internal/dto/request"
	"matatubook/internal/usecase"
	"matatubook/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type TripHandler struct {
	service usecase.TripService
	log     *zap.Logger
}

func NewTripHandler(service usecase.TripService, log *zap.Logger) *TripHandler {
	return &TripHandler{
		service: service,
		log:     log.With(zap.String("handler", "trip")),
	}
}

// SearchTrips handles GET /api/trips/search/ (public)
func (h *TripHandler) SearchTrips(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := request.SearchTripsRequest{
		Origin:      query.Get("origin"),
		Destination: query.Get("destination"),
		Date:        query.Get("date"),
		Seats:       utils.ParseInt(query.Get("seats"), 1),
	}

	trips, err := h.service.SearchTrips(r.Context(), &req)
	if err != nil {
		handleServiceError(h.log, w, err, "search trips")
		return
	}

	utils.ResponseSuccess(w, "success", trips)
}

// GetTrip handles GET /api/trips/{id}/ (public)
func (h *TripHandler) GetTrip(w http.ResponseWriter, r *http.Request) {
	tripID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid trip ID", nil)
		return
	}

	trip, err := h.service.GetTrip(r.Context(), tripID)
	if err != nil {
		handleServiceError(h.log, w, err, "get trip")
		return
	}

	utils.ResponseSuccess(w, "success", trip)
}

// CheckSeats handles GET /ajax/check-seats/?trip_id= (public). Polled by the
// booking page to keep the seat map live.
func (h *TripHandler) CheckSeats(w http.ResponseWriter, r *http.Request) {
	tripID, err := uuid.Parse(r.URL.Query().Get("trip_id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid trip ID", nil)
		return
	}

	availability, err := h.service.CheckSeatAvailability(r.Context(), tripID)
	if err != nil {
		handleServiceError(h.log, w, err, "check seats")
		return
	}

	utils.ResponseSuccess(w, "success", availability)
}

// ListRoutes handles GET /api/routes/ (public)
func (h *TripHandler) ListRoutes(w http.ResponseWriter, r *http.Request) {
	routes, err := h.service.ListRoutes(r.Context())
	if err != nil {
		handleServiceError(h.log, w, err, "list routes")
		return
	}

	utils.ResponseSuccess(w, "success", routes)
}
