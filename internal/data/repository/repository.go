package repository

import (
	"matatubook/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	User         UserRepository
	Session      SessionRepository
	Sacco        SaccoRepository
	Vehicle      VehicleRepository
	Seat         SeatRepository
	Route        RouteRepository
	Trip         TripRepository
	Booking      BookingRepository
	SeatBooking  SeatBookingRepository
	Payment      PaymentRepository
	Refund       RefundRepository
	Promotion    PromotionRepository
	Notification NotificationRepository
	SMSLog       SMSLogRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		User:         NewUserRepository(db, log),
		Session:      NewSessionRepository(db, log),
		Sacco:        NewSaccoRepository(db, log),
		Vehicle:      NewVehicleRepository(db, log),
		Seat:         NewSeatRepository(db, log),
		Route:        NewRouteRepository(db, log),
		Trip:         NewTripRepository(db, log),
		Booking:      NewBookingRepository(db, log),
		SeatBooking:  NewSeatBookingRepository(db, log),
		Payment:      NewPaymentRepository(db, log),
		Refund:       NewRefundRepository(db, log),
		Promotion:    NewPromotionRepository(db, log),
		Notification: NewNotificationRepository(db, log),
		SMSLog:       NewSMSLogRepository(db, log),
	}
}
