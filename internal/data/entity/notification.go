package entity

import (
	"github.com/google/uuid"
)

type NotificationType string

const (
	NotificationBooking   NotificationType = "booking"
	NotificationPayment   NotificationType = "payment"
	NotificationTrip      NotificationType = "trip"
	NotificationPromotion NotificationType = "promotion"
	NotificationSystem    NotificationType = "system"
)

type Notification struct {
	BaseSimple
	UserID  uuid.UUID        `db:"user_id"`
	Type    NotificationType `db:"type"`
	Title   string           `db:"title"`
	Message string           `db:"message"`
	Link    *string          `db:"link"`
	IsRead  bool             `db:"is_read"`
}
