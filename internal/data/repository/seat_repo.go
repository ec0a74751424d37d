package repository

import (
	"context"
	"fmt"

	"matatubook/internal/data/entity"
	"matatubook/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type SeatRepository interface {
	FindByVehicleID(ctx context.Context, vehicleID uuid.UUID) ([]*entity.Seat, error)
	FindByIDs(ctx context.Context, vehicleID uuid.UUID, seatIDs []uuid.UUID) ([]*entity.Seat, error)
}

type seatRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewSeatRepository(db database.PgxIface, log *zap.Logger) SeatRepository {
	return &seatRepository{
		db:  db,
		log: log.With(zap.String("repository", "seat")),
	}
}

const seatColumns = `id, vehicle_id, seat_number, seat_row, seat_column, is_window, is_aisle, created_at`

func (r *seatRepository) FindByVehicleID(ctx context.Context, vehicleID uuid.UUID) ([]*entity.Seat, error) {
	query := `SELECT ` + seatColumns + ` FROM seats WHERE vehicle_id = $1 ORDER BY seat_row, seat_column`

	rows, err := r.db.Query(ctx, query, vehicleID)
	if err != nil {
		r.log.Error("Failed to find seats by vehicle ID",
			zap.Error(err),
			zap.String("vehicle_id", vehicleID.String()),
		)
		return nil, fmt.Errorf("find seats for vehicle %s: %w", vehicleID.String(), err)
	}
	defer rows.Close()

	return r.collectSeats(rows)
}

// FindByIDs returns the requested seats, restricted to the given vehicle so a
// booking cannot reference seats from another matatu.
func (r *seatRepository) FindByIDs(ctx context.Context, vehicleID uuid.UUID, seatIDs []uuid.UUID) ([]*entity.Seat, error) {
	if len(seatIDs) == 0 {
		return []*entity.Seat{}, nil
	}

	query := `SELECT ` + seatColumns + ` FROM seats WHERE vehicle_id = $1 AND id = ANY($2) ORDER BY seat_row, seat_column`

	rows, err := r.db.Query(ctx, query, vehicleID, seatIDs)
	if err != nil {
		r.log.Error("Failed to find seats by IDs",
			zap.Error(err),
			zap.String("vehicle_id", vehicleID.String()),
			zap.Int("seat_count", len(seatIDs)),
		)
		return nil, fmt.Errorf("find seats by IDs: %w", err)
	}
	defer rows.Close()

	return r.collectSeats(rows)
}

func (r *seatRepository) collectSeats(rows pgx.Rows) ([]*entity.Seat, error) {
	var seats []*entity.Seat
	for rows.Next() {
		var seat entity.Seat
		err := rows.Scan(
			&seat.ID,
			&seat.VehicleID,
			&seat.SeatNumber,
			&seat.SeatRow,
			&seat.SeatColumn,
			&seat.IsWindow,
			&seat.IsAisle,
			&seat.CreatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan seat row", zap.Error(err))
			return nil, fmt.Errorf("scan seat row: %w", err)
		}
		seats = append(seats, &seat)
	}

	return seats, nil
}
