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

type SaccoRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Sacco, error)
	FindAllActive(ctx context.Context) ([]*entity.Sacco, error)
}

type saccoRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewSaccoRepository(db database.PgxIface, log *zap.Logger) SaccoRepository {
	return &saccoRepository{
		db:  db,
		log: log.With(zap.String("repository", "sacco")),
	}
}

const saccoColumns = `id, name, registration_number, phone_number, email, address, is_active, rating, total_reviews, created_at, updated_at`

func (r *saccoRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Sacco, error) {
	query := `SELECT ` + saccoColumns + ` FROM saccos WHERE id = $1`

	var sacco entity.Sacco
	err := r.db.QueryRow(ctx, query, id).Scan(
		&sacco.ID,
		&sacco.Name,
		&sacco.RegistrationNumber,
		&sacco.PhoneNumber,
		&sacco.Email,
		&sacco.Address,
		&sacco.IsActive,
		&sacco.Rating,
		&sacco.TotalReviews,
		&sacco.CreatedAt,
		&sacco.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find sacco by ID",
			zap.Error(err),
			zap.String("sacco_id", id.String()),
		)
		return nil, fmt.Errorf("find sacco by ID %s: %w", id.String(), err)
	}

	return &sacco, nil
}

func (r *saccoRepository) FindAllActive(ctx context.Context) ([]*entity.Sacco, error) {
	query := `SELECT ` + saccoColumns + ` FROM saccos WHERE is_active = true ORDER BY name`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.log.Error("Failed to find active saccos", zap.Error(err))
		return nil, fmt.Errorf("find active saccos: %w", err)
	}
	defer rows.Close()

	var saccos []*entity.Sacco
	for rows.Next() {
		var sacco entity.Sacco
		err := rows.Scan(
			&sacco.ID,
			&sacco.Name,
			&sacco.RegistrationNumber,
			&sacco.PhoneNumber,
			&sacco.Email,
			&sacco.Address,
			&sacco.IsActive,
			&sacco.Rating,
			&sacco.TotalReviews,
			&sacco.CreatedAt,
			&sacco.UpdatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan sacco row", zap.Error(err))
			return nil, fmt.Errorf("scan sacco row: %w", err)
		}
		saccos = append(saccos, &sacco)
	}

	return saccos, nil
}
