package repository

import (
	"context"
	"fmt"

	"matatubook/internal/data/entity"
	"matatubook/pkg/database"

	"go.uber.org/zap"
)

type RefundRepository interface {
	Create(ctx context.Context, refund *entity.Refund) error
}

type refundRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewRefundRepository(db database.PgxIface, log *zap.Logger) RefundRepository {
	return &refundRepository{
		db:  db,
		log: log.With(zap.String("repository", "refund")),
	}
}

func (r *refundRepository) Create(ctx context.Context, refund *entity.Refund) error {
	query := `
		INSERT INTO refunds (id, payment_id, booking_id, amount, reason, status, processed_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Exec(ctx, query,
		refund.ID,
		refund.PaymentID,
		refund.BookingID,
		refund.Amount,
		refund.Reason,
		refund.Status,
		refund.ProcessedAt,
		refund.CreatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create refund",
			zap.Error(err),
			zap.String("booking_id", refund.BookingID.String()),
		)
		return fmt.Errorf("create refund for booking %s: %w", refund.BookingID.String(), err)
	}

	return nil
}
