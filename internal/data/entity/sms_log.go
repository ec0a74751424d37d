package entity

type SMSStatus string

const (
	SMSStatusSent   SMSStatus = "sent"
	SMSStatusFailed SMSStatus = "failed"
)

// SMSLog records every outbound SMS for audit; the gateway response body is
// kept verbatim.
type SMSLog struct {
	BaseSimple
	Recipient string    `db:"recipient"`
	Message   string    `db:"message"`
	Status    SMSStatus `db:"status"`
	Response  *string   `db:"response"`
}
