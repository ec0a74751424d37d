package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"matatubook/internal/data/entity"
	"matatubook/internal/data/repository"
	"matatubook/internal/dto/request"
	"matatubook/internal/dto/response"
	"matatubook/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BookingService interface {
	CreateBooking(ctx context.Context, customerID uuid.UUID, req *request.CreateBookingRequest) (*response.BookingResponse, error)
	GetBooking(ctx context.Context, customerID, bookingID uuid.UUID) (*response.BookingResponse, error)
	GetUserBookings(ctx context.Context, customerID uuid.UUID, status string, page request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error)
	CancelBooking(ctx context.Context, customerID, bookingID uuid.UUID, req *request.CancelBookingRequest) (*response.CancelBookingResponse, error)
	VerifyPromotion(ctx context.Context, code string, amount float64) (*response.PromoVerifyResponse, error)
	ReleaseExpired(ctx context.Context) (int, error)
	SendTripReminders(ctx context.Context) (int, error)
	MarkNoShows(ctx context.Context) (int64, error)
}

type bookingService struct {
	repo  *repository.Repository
	notif *notifier
	log   *zap.Logger
}

func NewBookingService(repo *repository.Repository, notif *notifier, log *zap.Logger) BookingService {
	return &bookingService{
		repo:  repo,
		notif: notif,
		log:   log,
	}
}

func (s *bookingService) CreateBooking(ctx context.Context, customerID uuid.UUID, req *request.CreateBookingRequest) (*response.BookingResponse, error) {
	// 1. Validate input
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create booking validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	tripID, err := uuid.Parse(req.TripID)
	if err != nil {
		return nil, fmt.Errorf("invalid trip ID")
	}

	// 2. Trip must still be open for booking
	trip, err := s.repo.Trip.FindByID(ctx, tripID)
	if err != nil {
		s.log.Error("Failed to find trip", zap.Error(err), zap.String("trip_id", req.TripID))
		return nil, fmt.Errorf("failed to create booking")
	}
	if trip == nil {
		return nil, fmt.Errorf("trip not found")
	}

	now := time.Now()
	if !trip.Bookable(now) {
		return nil, fmt.Errorf("trip is no longer open for booking")
	}

	seatIDs := make([]uuid.UUID, 0, len(req.SeatIDs))
	for _, raw := range req.SeatIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid seat ID")
		}
		seatIDs = append(seatIDs, id)
	}

	if len(seatIDs) > trip.AvailableSeats {
		return nil, fmt.Errorf("not enough seats available")
	}

	// 3. Seats must belong to the trip's vehicle
	seats, err := s.repo.Seat.FindByIDs(ctx, trip.VehicleID, seatIDs)
	if err != nil {
		s.log.Error("Failed to load seats", zap.Error(err), zap.String("trip_id", req.TripID))
		return nil, fmt.Errorf("failed to create booking")
	}
	if len(seats) != len(seatIDs) {
		return nil, fmt.Errorf("one or more selected seats do not exist on this vehicle")
	}

	// 4. Seats must not already be held or booked
	occupiedIDs, err := s.repo.SeatBooking.FindOccupiedSeatIDs(ctx, tripID)
	if err != nil {
		s.log.Error("Failed to check occupied seats", zap.Error(err), zap.String("trip_id", req.TripID))
		return nil, fmt.Errorf("failed to create booking")
	}

	occupied := make(map[uuid.UUID]bool, len(occupiedIDs))
	for _, id := range occupiedIDs {
		occupied[id] = true
	}

	var taken []string
	for _, seat := range seats {
		if occupied[seat.ID] {
			taken = append(taken, seat.SeatNumber)
		}
	}
	if len(taken) > 0 {
		return nil, fmt.Errorf("seats already taken: %s", strings.Join(taken, ", "))
	}

	// 5. Compute the fare, applying a promo code when given
	totalFare := trip.Fare * float64(len(seats))
	var promoCode *string

	if req.PromoCode != nil && *req.PromoCode != "" {
		promo, err := s.repo.Promotion.FindByCode(ctx, *req.PromoCode)
		if err != nil {
			s.log.Error("Failed to look up promotion", zap.Error(err), zap.String("code", *req.PromoCode))
			return nil, fmt.Errorf("failed to create booking")
		}
		if promo == nil || !promo.Valid(now) {
			return nil, fmt.Errorf("invalid or expired promo code")
		}

		discount := promo.DiscountFor(totalFare)
		if discount == 0 {
			return nil, fmt.Errorf("booking amount below promo minimum of %s", utils.FormatKES(promo.MinBookingAmount))
		}

		totalFare -= discount
		code := promo.Code
		promoCode = &code

		if err := s.repo.Promotion.IncrementUsage(ctx, promo.Code); err != nil {
			s.log.Warn("Failed to increment promo usage", zap.Error(err), zap.String("code", promo.Code))
		}
	}

	// 6. Create the booking with its seats held
	expiresAt := now.Add(entity.PendingExpiry)
	booking := &entity.Booking{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Reference:      utils.GenerateBookingReference(),
		CustomerID:     customerID,
		TripID:         tripID,
		SeatCount:      len(seats),
		BoardingPoint:  req.BoardingPoint,
		DroppingPoint:  req.DroppingPoint,
		TotalFare:      totalFare,
		Status:         entity.BookingStatusPending,
		PassengerName:  req.PassengerName,
		PassengerPhone: utils.NormalizePhone(req.PassengerPhone),
		PassengerEmail: req.PassengerEmail,
		PromoCode:      promoCode,
		ExpiresAt:      expiresAt,
	}

	if err := s.repo.Booking.Create(ctx, booking); err != nil {
		s.log.Error("Failed to create booking", zap.Error(err), zap.String("trip_id", req.TripID))
		return nil, fmt.Errorf("failed to create booking")
	}

	seatBookings := make([]*entity.SeatBooking, 0, len(seats))
	heldUntil := expiresAt
	for _, seat := range seats {
		seatBookings = append(seatBookings, &entity.SeatBooking{
			BaseSimple: entity.BaseSimple{
				ID:        uuid.New(),
				CreatedAt: now,
			},
			BookingID: &booking.ID,
			TripID:    tripID,
			SeatID:    seat.ID,
			Status:    entity.SeatStatusHeld,
			HeldUntil: &heldUntil,
		})
	}

	if err := s.repo.SeatBooking.CreateBatch(ctx, seatBookings); err != nil {
		s.log.Error("Failed to hold seats", zap.Error(err), zap.String("booking_id", booking.ID.String()))
		return nil, fmt.Errorf("failed to create booking")
	}

	// 7. Take the seats off sale
	if err := s.repo.Trip.AdjustAvailableSeats(ctx, tripID, -len(seats)); err != nil {
		s.log.Error("Failed to adjust available seats", zap.Error(err), zap.String("trip_id", req.TripID))
		return nil, fmt.Errorf("failed to create booking")
	}

	// 8. Tell the customer
	s.notif.notify(ctx, customerID, entity.NotificationBooking,
		"Booking created",
		fmt.Sprintf("Booking %s created. Pay %s within %d minutes to confirm your seats.",
			booking.Reference, utils.FormatKES(totalFare), int(entity.PendingExpiry.Minutes())),
		nil,
	)
	s.notif.sendSMS(ctx, booking.PassengerPhone,
		fmt.Sprintf("MatatuBook: booking %s created. Pay %s within %d minutes to confirm your seats.",
			booking.Reference, utils.FormatKES(totalFare), int(entity.PendingExpiry.Minutes())))

	s.log.Info("Booking created",
		zap.String("booking_id", booking.ID.String()),
		zap.String("reference", booking.Reference),
		zap.Int("seats", booking.SeatCount),
		zap.Float64("total_fare", booking.TotalFare),
	)

	seatNumbers := make([]string, 0, len(seats))
	for _, seat := range seats {
		seatNumbers = append(seatNumbers, seat.SeatNumber)
	}

	resp := response.BookingToResponse(booking, seatNumbers)
	return &resp, nil
}

func (s *bookingService) GetBooking(ctx context.Context, customerID, bookingID uuid.UUID) (*response.BookingResponse, error) {
	booking, err := s.ownedBooking(ctx, customerID, bookingID)
	if err != nil {
		return nil, err
	}

	seatNumbers, err := s.repo.SeatBooking.FindSeatNumbersByBookingID(ctx, booking.ID)
	if err != nil {
		s.log.Error("Failed to load booking seats", zap.Error(err), zap.String("booking_id", booking.ID.String()))
		return nil, fmt.Errorf("failed to load booking")
	}

	trip, _ := s.repo.Trip.FindByID(ctx, booking.TripID)
	var route *entity.Route
	if trip != nil {
		route, _ = s.repo.Route.FindByID(ctx, trip.RouteID)
	}

	payment, err := s.repo.Payment.FindLatestByBookingID(ctx, booking.ID)
	if err != nil {
		s.log.Warn("Failed to load booking payment", zap.Error(err), zap.String("booking_id", booking.ID.String()))
	}

	resp := response.BookingWithTripToResponse(booking, trip, route, seatNumbers)
	if payment != nil {
		p := response.PaymentToResponse(payment)
		resp.Payment = &p
	}

	return &resp, nil
}

func (s *bookingService) GetUserBookings(ctx context.Context, customerID uuid.UUID, status string, page request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	bookings, err := s.repo.Booking.FindByCustomerID(ctx, customerID, entity.BookingStatus(status), page.Limit(), page.Offset())
	if err != nil {
		s.log.Error("Failed to list bookings", zap.Error(err), zap.String("customer_id", customerID.String()))
		return nil, fmt.Errorf("failed to list bookings")
	}

	total, err := s.repo.Booking.CountByCustomerID(ctx, customerID, entity.BookingStatus(status))
	if err != nil {
		s.log.Error("Failed to count bookings", zap.Error(err), zap.String("customer_id", customerID.String()))
		return nil, fmt.Errorf("failed to list bookings")
	}

	results := make([]response.BookingResponse, 0, len(bookings))
	for _, booking := range bookings {
		seatNumbers, err := s.repo.SeatBooking.FindSeatNumbersByBookingID(ctx, booking.ID)
		if err != nil {
			s.log.Warn("Failed to load booking seats", zap.Error(err), zap.String("booking_id", booking.ID.String()))
		}
		results = append(results, response.BookingToResponse(booking, seatNumbers))
	}

	pg := page.Page
	if pg < 1 {
		pg = 1
	}
	return response.NewPaginatedResponse(results, pg, page.Limit(), total), nil
}

func (s *bookingService) CancelBooking(ctx context.Context, customerID, bookingID uuid.UUID, req *request.CancelBookingRequest) (*response.CancelBookingResponse, error) {
	if req != nil {
		if errs := utils.ValidateStruct(req); len(errs) > 0 {
			return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
		}
	}

	// 1. Booking must belong to the caller
	booking, err := s.ownedBooking(ctx, customerID, bookingID)
	if err != nil {
		return nil, err
	}

	trip, err := s.repo.Trip.FindByID(ctx, booking.TripID)
	if err != nil || trip == nil {
		s.log.Error("Failed to load booking trip", zap.Error(err), zap.String("booking_id", booking.ID.String()))
		return nil, fmt.Errorf("failed to cancel booking")
	}

	// 2. Enforce the cancellation window
	now := time.Now()
	departure := trip.DepartureAt()
	if !booking.Cancellable(departure, now) {
		return nil, fmt.Errorf("booking can no longer be cancelled")
	}

	// 3. Work out the refund for paid bookings
	var refundAmount float64
	if booking.Status == entity.BookingStatusConfirmed {
		payment, err := s.repo.Payment.FindLatestByBookingID(ctx, booking.ID)
		if err != nil {
			s.log.Error("Failed to load payment for refund", zap.Error(err), zap.String("booking_id", booking.ID.String()))
			return nil, fmt.Errorf("failed to cancel booking")
		}

		if payment != nil && payment.Status == entity.PaymentStatusCompleted {
			refundAmount = booking.TotalFare * entity.RefundFraction(departure.Sub(now))
			if refundAmount > 0 {
				refund := &entity.Refund{
					BaseSimple: entity.BaseSimple{
						ID:        uuid.New(),
						CreatedAt: now,
					},
					PaymentID: payment.ID,
					BookingID: booking.ID,
					Amount:    refundAmount,
					Reason:    "customer cancellation",
					Status:    entity.RefundStatusPending,
				}
				if err := s.repo.Refund.Create(ctx, refund); err != nil {
					s.log.Error("Failed to create refund", zap.Error(err), zap.String("booking_id", booking.ID.String()))
					return nil, fmt.Errorf("failed to cancel booking")
				}

				payment.Status = entity.PaymentStatusRefunded
				if err := s.repo.Payment.Update(ctx, payment); err != nil {
					s.log.Error("Failed to mark payment refunded", zap.Error(err), zap.String("payment_id", payment.ID.String()))
					return nil, fmt.Errorf("failed to cancel booking")
				}
			}
		}
	}

	// 4. Cancel the booking
	booking.Status = entity.BookingStatusCancelled
	booking.RefundAmount = refundAmount
	booking.CancelledAt = &now
	if req != nil && req.Reason != nil {
		booking.CancelReason = req.Reason
	}

	if err := s.repo.Booking.Update(ctx, booking); err != nil {
		s.log.Error("Failed to cancel booking", zap.Error(err), zap.String("booking_id", booking.ID.String()))
		return nil, fmt.Errorf("failed to cancel booking")
	}

	// 5. Put the seats back on sale
	if err := s.releaseSeats(ctx, booking); err != nil {
		return nil, fmt.Errorf("failed to cancel booking")
	}

	// 6. Tell the customer
	message := fmt.Sprintf("Booking %s cancelled.", booking.Reference)
	if refundAmount > 0 {
		message = fmt.Sprintf("Booking %s cancelled. A refund of %s will be processed to your M-Pesa.",
			booking.Reference, utils.FormatKES(refundAmount))
	}
	s.notif.notify(ctx, customerID, entity.NotificationBooking, "Booking cancelled", message, nil)
	s.notif.sendSMS(ctx, booking.PassengerPhone, "MatatuBook: "+message)

	s.log.Info("Booking cancelled",
		zap.String("booking_id", booking.ID.String()),
		zap.String("reference", booking.Reference),
		zap.Float64("refund_amount", refundAmount),
	)

	return &response.CancelBookingResponse{
		Reference:    booking.Reference,
		RefundAmount: refundAmount,
		Message:      message,
	}, nil
}

func (s *bookingService) VerifyPromotion(ctx context.Context, code string, amount float64) (*response.PromoVerifyResponse, error) {
	if code == "" {
		return nil, fmt.Errorf("promo code is required")
	}

	promo, err := s.repo.Promotion.FindByCode(ctx, code)
	if err != nil {
		s.log.Error("Failed to look up promotion", zap.Error(err), zap.String("code", code))
		return nil, fmt.Errorf("failed to verify promo code")
	}

	if promo == nil {
		return &response.PromoVerifyResponse{
			Valid:       false,
			Code:        code,
			FinalAmount: amount,
			Message:     "Invalid promo code",
		}, nil
	}

	if !promo.Valid(time.Now()) {
		return &response.PromoVerifyResponse{
			Valid:       false,
			Code:        promo.Code,
			FinalAmount: amount,
			Message:     "Promo code has expired or reached its usage limit",
		}, nil
	}

	discount := promo.DiscountFor(amount)
	if discount == 0 {
		return &response.PromoVerifyResponse{
			Valid:       false,
			Code:        promo.Code,
			FinalAmount: amount,
			Message:     fmt.Sprintf("Minimum booking amount for this promo is %s", utils.FormatKES(promo.MinBookingAmount)),
		}, nil
	}

	return &response.PromoVerifyResponse{
		Valid:          true,
		Code:           promo.Code,
		DiscountAmount: discount,
		FinalAmount:    amount - discount,
		Message:        fmt.Sprintf("Promo applied: %s off", utils.FormatKES(discount)),
	}, nil
}

// ReleaseExpired expires pending bookings whose payment window has lapsed and
// puts their seats back on sale. Called from the background worker.
func (s *bookingService) ReleaseExpired(ctx context.Context) (int, error) {
	bookings, err := s.repo.Booking.FindExpiredPending(ctx, time.Now())
	if err != nil {
		return 0, fmt.Errorf("find expired bookings: %w", err)
	}

	released := 0
	for _, booking := range bookings {
		if err := s.repo.Booking.UpdateStatus(ctx, booking.ID, entity.BookingStatusExpired); err != nil {
			s.log.Error("Failed to expire booking", zap.Error(err), zap.String("booking_id", booking.ID.String()))
			continue
		}

		if err := s.releaseSeats(ctx, booking); err != nil {
			continue
		}

		s.notif.notify(ctx, booking.CustomerID, entity.NotificationBooking,
			"Booking expired",
			fmt.Sprintf("Booking %s expired because payment was not completed in time.", booking.Reference),
			nil,
		)

		released++
	}

	return released, nil
}

// SendTripReminders texts every confirmed passenger whose trip departs
// tomorrow. Called from the background worker once a day.
func (s *bookingService) SendTripReminders(ctx context.Context) (int, error) {
	tomorrow := time.Now().Add(24 * time.Hour)

	bookings, err := s.repo.Booking.FindConfirmedByDepartureDate(ctx, tomorrow)
	if err != nil {
		return 0, fmt.Errorf("find bookings for reminders: %w", err)
	}

	trips := make(map[uuid.UUID]*entity.Trip)
	routes := make(map[uuid.UUID]*entity.Route)

	reminded := 0
	for _, booking := range bookings {
		trip, ok := trips[booking.TripID]
		if !ok {
			trip, err = s.repo.Trip.FindByID(ctx, booking.TripID)
			if err != nil || trip == nil {
				s.log.Warn("Failed to load trip for reminder",
					zap.Error(err), zap.String("booking_id", booking.ID.String()))
				continue
			}
			trips[booking.TripID] = trip
		}

		routeName := ""
		route, ok := routes[trip.RouteID]
		if !ok {
			route, _ = s.repo.Route.FindByID(ctx, trip.RouteID)
			routes[trip.RouteID] = route
		}
		if route != nil {
			routeName = route.Name
		}

		message := fmt.Sprintf("Trip reminder: booking %s, %s tomorrow at %s. Board at %s. Safe journey!",
			booking.Reference, routeName, trip.DepartureTime.Format("15:04"), booking.BoardingPoint)
		s.notif.notify(ctx, booking.CustomerID, entity.NotificationTrip, "Trip reminder", message, nil)
		s.notif.sendSMS(ctx, booking.PassengerPhone, "MatatuBook: "+message)

		reminded++
	}

	return reminded, nil
}

// MarkNoShows flags confirmed bookings whose trip departed over an hour ago
// without the passenger checking in. Called from the background worker.
func (s *bookingService) MarkNoShows(ctx context.Context) (int64, error) {
	marked, err := s.repo.Booking.MarkNoShows(ctx, time.Now().Add(-entity.NoShowAfter))
	if err != nil {
		return 0, fmt.Errorf("mark no-show bookings: %w", err)
	}
	return marked, nil
}

func (s *bookingService) releaseSeats(ctx context.Context, booking *entity.Booking) error {
	if err := s.repo.SeatBooking.UpdateStatusByBookingID(ctx, booking.ID, entity.SeatStatusReleased); err != nil {
		s.log.Error("Failed to release seats", zap.Error(err), zap.String("booking_id", booking.ID.String()))
		return err
	}

	if err := s.repo.Trip.AdjustAvailableSeats(ctx, booking.TripID, booking.SeatCount); err != nil {
		s.log.Error("Failed to restore available seats", zap.Error(err), zap.String("trip_id", booking.TripID.String()))
		return err
	}

	return nil
}

func (s *bookingService) ownedBooking(ctx context.Context, customerID, bookingID uuid.UUID) (*entity.Booking, error) {
	booking, err := s.repo.Booking.FindByID(ctx, bookingID)
	if err != nil {
		s.log.Error("Failed to find booking", zap.Error(err), zap.String("booking_id", bookingID.String()))
		return nil, fmt.Errorf("failed to load booking")
	}
	if booking == nil || booking.CustomerID != customerID {
		// Hide other customers' bookings behind a not-found
		return nil, fmt.Errorf("booking not found")
	}
	return booking, nil
}
