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

type RouteRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Route, error)
	FindActive(ctx context.Context, limit int) ([]*entity.Route, error)
	FindByEndpoints(ctx context.Context, origin, destination string) (*entity.Route, error)
}

type routeRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewRouteRepository(db database.PgxIface, log *zap.Logger) RouteRepository {
	return &routeRepository{
		db:  db,
		log: log.With(zap.String("repository", "route")),
	}
}

const routeColumns = `id, name, origin, destination, distance_km, estimated_duration, base_fare, is_active, created_at, updated_at`

func (r *routeRepository) scanRoute(row pgx.Row) (*entity.Route, error) {
	var route entity.Route
	err := row.Scan(
		&route.ID,
		&route.Name,
		&route.Origin,
		&route.Destination,
		&route.DistanceKM,
		&route.EstimatedDuration,
		&route.BaseFare,
		&route.IsActive,
		&route.CreatedAt,
		&route.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &route, nil
}

func (r *routeRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Route, error) {
	query := `SELECT ` + routeColumns + ` FROM routes WHERE id = $1`

	route, err := r.scanRoute(r.db.QueryRow(ctx, query, id))
	if err != nil {
		r.log.Error("Failed to find route by ID",
			zap.Error(err),
			zap.String("route_id", id.String()),
		)
		return nil, fmt.Errorf("find route by ID %s: %w", id.String(), err)
	}

	return route, nil
}

func (r *routeRepository) FindActive(ctx context.Context, limit int) ([]*entity.Route, error) {
	query := `SELECT ` + routeColumns + ` FROM routes WHERE is_active = true ORDER BY name LIMIT $1`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		r.log.Error("Failed to find active routes", zap.Error(err))
		return nil, fmt.Errorf("find active routes: %w", err)
	}
	defer rows.Close()

	var routes []*entity.Route
	for rows.Next() {
		var route entity.Route
		err := rows.Scan(
			&route.ID,
			&route.Name,
			&route.Origin,
			&route.Destination,
			&route.DistanceKM,
			&route.EstimatedDuration,
			&route.BaseFare,
			&route.IsActive,
			&route.CreatedAt,
			&route.UpdatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan route row", zap.Error(err))
			return nil, fmt.Errorf("scan route row: %w", err)
		}
		routes = append(routes, &route)
	}

	return routes, nil
}

func (r *routeRepository) FindByEndpoints(ctx context.Context, origin, destination string) (*entity.Route, error) {
	query := `SELECT ` + routeColumns + ` FROM routes WHERE LOWER(origin) = LOWER($1) AND LOWER(destination) = LOWER($2) AND is_active = true`

	route, err := r.scanRoute(r.db.QueryRow(ctx, query, origin, destination))
	if err != nil {
		r.log.Error("Failed to find route by endpoints",
			zap.Error(err),
			zap.String("origin", origin),
			zap.String("destination", destination),
		)
		return nil, fmt.Errorf("find route %s-%s: %w", origin, destination, err)
	}

	return route, nil
}
