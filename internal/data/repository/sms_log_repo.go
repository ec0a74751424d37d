package repository

import (
	"context"
	"fmt"

	"matatubook/internal/data/entity"
	"matatubook/pkg/database"

	"go.uber.org/zap"
)

type SMSLogRepository interface {
	Create(ctx context.Context, smsLog *entity.SMSLog) error
}

type smsLogRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewSMSLogRepository(db database.PgxIface, log *zap.Logger) SMSLogRepository {
	return &smsLogRepository{
		db:  db,
		log: log.With(zap.String("repository", "sms_log")),
	}
}

func (r *smsLogRepository) Create(ctx context.Context, smsLog *entity.SMSLog) error {
	query := `
		INSERT INTO sms_logs (id, recipient, message, status, response, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.Exec(ctx, query,
		smsLog.ID,
		smsLog.Recipient,
		smsLog.Message,
		smsLog.Status,
		smsLog.Response,
		smsLog.CreatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create SMS log",
			zap.Error(err),
			zap.String("recipient", smsLog.Recipient),
		)
		return fmt.Errorf("create SMS log for %s: %w", smsLog.Recipient, err)
	}

	return nil
}
