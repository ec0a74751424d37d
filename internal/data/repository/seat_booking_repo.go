package repository

import (
	"context"
	"fmt"

	"matatubook/internal/data/entity"
	"matatubook/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type SeatBookingRepository interface {
	CreateBatch(ctx context.Context, seatBookings []*entity.SeatBooking) error
	FindOccupiedSeatIDs(ctx context.Context, tripID uuid.UUID) ([]uuid.UUID, error)
	FindOccupiedSeatNumbers(ctx context.Context, tripID uuid.UUID) ([]string, error)
	FindSeatNumbersByBookingID(ctx context.Context, bookingID uuid.UUID) ([]string, error)
	UpdateStatusByBookingID(ctx context.Context, bookingID uuid.UUID, status entity.SeatBookingStatus) error
}

type seatBookingRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewSeatBookingRepository(db database.PgxIface, log *zap.Logger) SeatBookingRepository {
	return &seatBookingRepository{
		db:  db,
		log: log.With(zap.String("repository", "seat_booking")),
	}
}

func (r *seatBookingRepository) CreateBatch(ctx context.Context, seatBookings []*entity.SeatBooking) error {
	if len(seatBookings) == 0 {
		return nil
	}

	// Build batch insert
	query := `INSERT INTO seat_bookings (id, booking_id, trip_id, seat_id, status, held_until, created_at) VALUES `
	args := []interface{}{}

	for i, sb := range seatBookings {
		if i > 0 {
			query += ", "
		}
		query += fmt.Sprintf("($%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			i*7+1, i*7+2, i*7+3, i*7+4, i*7+5, i*7+6, i*7+7)

		args = append(args,
			sb.ID,
			sb.BookingID,
			sb.TripID,
			sb.SeatID,
			sb.Status,
			sb.HeldUntil,
			sb.CreatedAt,
		)
	}

	_, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to create seat bookings",
			zap.Error(err),
			zap.Int("count", len(seatBookings)),
		)
		return fmt.Errorf("create %d seat bookings: %w", len(seatBookings), err)
	}

	return nil
}

func (r *seatBookingRepository) FindOccupiedSeatIDs(ctx context.Context, tripID uuid.UUID) ([]uuid.UUID, error) {
	query := `
		SELECT seat_id FROM seat_bookings
		WHERE trip_id = $1 AND status IN ('held', 'booked')
	`

	rows, err := r.db.Query(ctx, query, tripID)
	if err != nil {
		r.log.Error("Failed to find occupied seat IDs",
			zap.Error(err),
			zap.String("trip_id", tripID.String()),
		)
		return nil, fmt.Errorf("find occupied seats for trip %s: %w", tripID.String(), err)
	}
	defer rows.Close()

	var seatIDs []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			r.log.Error("Failed to scan seat ID", zap.Error(err))
			return nil, fmt.Errorf("scan seat ID: %w", err)
		}
		seatIDs = append(seatIDs, id)
	}

	return seatIDs, nil
}

func (r *seatBookingRepository) FindOccupiedSeatNumbers(ctx context.Context, tripID uuid.UUID) ([]string, error) {
	query := `
		SELECT s.seat_number
		FROM seat_bookings sb
		JOIN seats s ON s.id = sb.seat_id
		WHERE sb.trip_id = $1 AND sb.status IN ('held', 'booked')
		ORDER BY s.seat_row, s.seat_column
	`

	return r.collectSeatNumbers(ctx, query, tripID)
}

func (r *seatBookingRepository) FindSeatNumbersByBookingID(ctx context.Context, bookingID uuid.UUID) ([]string, error) {
	query := `
		SELECT s.seat_number
		FROM seat_bookings sb
		JOIN seats s ON s.id = sb.seat_id
		WHERE sb.booking_id = $1 AND sb.status IN ('held', 'booked')
		ORDER BY s.seat_row, s.seat_column
	`

	return r.collectSeatNumbers(ctx, query, bookingID)
}

func (r *seatBookingRepository) collectSeatNumbers(ctx context.Context, query string, arg any) ([]string, error) {
	rows, err := r.db.Query(ctx, query, arg)
	if err != nil {
		r.log.Error("Failed to query seat numbers", zap.Error(err))
		return nil, fmt.Errorf("query seat numbers: %w", err)
	}
	defer rows.Close()

	var numbers []string
	for rows.Next() {
		var number string
		if err := rows.Scan(&number); err != nil {
			r.log.Error("Failed to scan seat number", zap.Error(err))
			return nil, fmt.Errorf("scan seat number: %w", err)
		}
		numbers = append(numbers, number)
	}

	return numbers, nil
}

func (r *seatBookingRepository) UpdateStatusByBookingID(ctx context.Context, bookingID uuid.UUID, status entity.SeatBookingStatus) error {
	query := `UPDATE seat_bookings SET status = $2 WHERE booking_id = $1`

	_, err := r.db.Exec(ctx, query, bookingID, status)
	if err != nil {
		r.log.Error("Failed to update seat booking status",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
			zap.String("status", string(status)),
		)
		return fmt.Errorf("update seat bookings for booking %s: %w", bookingID.String(), err)
	}

	return nil
}
