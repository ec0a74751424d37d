package repository

import (
	"context"
	"fmt"
	"time"

	"matatubook/internal/data/entity"
	"matatubook/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type TripRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Trip, error)
	Search(ctx context.Context, routeID uuid.UUID, date time.Time, minSeats int) ([]*entity.Trip, error)

	// Business queries
	AdjustAvailableSeats(ctx context.Context, tripID uuid.UUID, delta int) error
	UpdateStatus(ctx context.Context, tripID uuid.UUID, status entity.TripStatus) error
	CompletePastTrips(ctx context.Context, before time.Time) (int64, error)
}

type tripRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewTripRepository(db database.PgxIface, log *zap.Logger) TripRepository {
	return &tripRepository{
		db:  db,
		log: log.With(zap.String("repository", "trip")),
	}
}

const tripColumns = `id, sacco_id, route_id, vehicle_id, departure_date, departure_time,
	actual_departure, actual_arrival, status, fare, available_seats, total_seats, is_express,
	created_at, updated_at`

func scanTrip(row pgx.Row) (*entity.Trip, error) {
	var trip entity.Trip
	err := row.Scan(
		&trip.ID,
		&trip.SaccoID,
		&trip.RouteID,
		&trip.VehicleID,
		&trip.DepartureDate,
		&trip.DepartureTime,
		&trip.ActualDeparture,
		&trip.ActualArrival,
		&trip.Status,
		&trip.Fare,
		&trip.AvailableSeats,
		&trip.TotalSeats,
		&trip.IsExpress,
		&trip.CreatedAt,
		&trip.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &trip, nil
}

func (r *tripRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips WHERE id = $1`

	trip, err := scanTrip(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find trip by ID",
			zap.Error(err),
			zap.String("trip_id", id.String()),
		)
		return nil, fmt.Errorf("find trip by ID %s: %w", id.String(), err)
	}

	return trip, nil
}

func (r *tripRepository) Search(ctx context.Context, routeID uuid.UUID, date time.Time, minSeats int) ([]*entity.Trip, error) {
	query := `
		SELECT ` + tripColumns + `
		FROM trips
		WHERE route_id = $1 AND departure_date = $2 AND status = 'scheduled' AND available_seats >= $3
		ORDER BY departure_time
	`

	rows, err := r.db.Query(ctx, query, routeID, date, minSeats)
	if err != nil {
		r.log.Error("Failed to search trips",
			zap.Error(err),
			zap.String("route_id", routeID.String()),
			zap.Time("date", date),
		)
		return nil, fmt.Errorf("search trips for route %s: %w", routeID.String(), err)
	}
	defer rows.Close()

	var trips []*entity.Trip
	for rows.Next() {
		trip, err := scanTrip(rows)
		if err != nil {
			r.log.Error("Failed to scan trip row", zap.Error(err))
			return nil, fmt.Errorf("scan trip row: %w", err)
		}
		trips = append(trips, trip)
	}

	return trips, nil
}

// AdjustAvailableSeats changes available_seats by delta. The guard keeps the
// count within 0..total_seats so concurrent bookings cannot oversell.
func (r *tripRepository) AdjustAvailableSeats(ctx context.Context, tripID uuid.UUID, delta int) error {
	query := `
		UPDATE trips
		SET available_seats = available_seats + $2, updated_at = NOW()
		WHERE id = $1
		  AND available_seats + $2 >= 0
		  AND available_seats + $2 <= total_seats
	`

	result, err := r.db.Exec(ctx, query, tripID, delta)
	if err != nil {
		r.log.Error("Failed to adjust available seats",
			zap.Error(err),
			zap.String("trip_id", tripID.String()),
			zap.Int("delta", delta),
		)
		return fmt.Errorf("adjust seats for trip %s: %w", tripID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("trip %s has insufficient seats", tripID.String())
	}

	return nil
}

func (r *tripRepository) UpdateStatus(ctx context.Context, tripID uuid.UUID, status entity.TripStatus) error {
	query := `UPDATE trips SET status = $2, updated_at = NOW() WHERE id = $1`

	result, err := r.db.Exec(ctx, query, tripID, status)
	if err != nil {
		r.log.Error("Failed to update trip status",
			zap.Error(err),
			zap.String("trip_id", tripID.String()),
			zap.String("status", string(status)),
		)
		return fmt.Errorf("update trip %s status to %s: %w", tripID.String(), string(status), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("trip %s not found", tripID.String())
	}

	return nil
}

// CompletePastTrips marks in-transit trips whose departure date has passed as
// completed, stamping the arrival.
func (r *tripRepository) CompletePastTrips(ctx context.Context, before time.Time) (int64, error) {
	query := `
		UPDATE trips
		SET status = 'completed', actual_arrival = NOW(), updated_at = NOW()
		WHERE status = 'in_transit' AND departure_date < $1::date
	`

	result, err := r.db.Exec(ctx, query, before)
	if err != nil {
		r.log.Error("Failed to complete past trips", zap.Error(err))
		return 0, fmt.Errorf("complete past trips: %w", err)
	}

	return result.RowsAffected(), nil
}
