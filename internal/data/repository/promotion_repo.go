package repository

import (
	"context"
	"errors"
	"fmt"

	"matatubook/internal/data/entity"
	"matatubook/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type PromotionRepository interface {
	FindByCode(ctx context.Context, code string) (*entity.Promotion, error)
	IncrementUsage(ctx context.Context, code string) error
}

type promotionRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewPromotionRepository(db database.PgxIface, log *zap.Logger) PromotionRepository {
	return &promotionRepository{
		db:  db,
		log: log.With(zap.String("repository", "promotion")),
	}
}

func (r *promotionRepository) FindByCode(ctx context.Context, code string) (*entity.Promotion, error) {
	query := `
		SELECT id, code, title, description, discount_type, discount_value, min_booking_amount,
			max_discount, usage_limit, times_used, valid_from, valid_until, is_active,
			created_at, updated_at
		FROM promotions
		WHERE UPPER(code) = UPPER($1)
	`

	var promo entity.Promotion
	err := r.db.QueryRow(ctx, query, code).Scan(
		&promo.ID,
		&promo.Code,
		&promo.Title,
		&promo.Description,
		&promo.DiscountType,
		&promo.DiscountValue,
		&promo.MinBookingAmount,
		&promo.MaxDiscount,
		&promo.UsageLimit,
		&promo.TimesUsed,
		&promo.ValidFrom,
		&promo.ValidUntil,
		&promo.IsActive,
		&promo.CreatedAt,
		&promo.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.log.Error("Failed to find promotion by code",
			zap.Error(err),
			zap.String("code", code),
		)
		return nil, fmt.Errorf("find promotion by code %s: %w", code, err)
	}

	return &promo, nil
}

func (r *promotionRepository) IncrementUsage(ctx context.Context, code string) error {
	query := `UPDATE promotions SET times_used = times_used + 1, updated_at = NOW() WHERE UPPER(code) = UPPER($1)`

	_, err := r.db.Exec(ctx, query, code)
	if err != nil {
		r.log.Error("Failed to increment promotion usage",
			zap.Error(err),
			zap.String("code", code),
		)
		return fmt.Errorf("increment usage for promotion %s: %w", code, err)
	}

	return nil
}
