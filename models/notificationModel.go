package models

import "time"

// Notification types.
const (
	NotificationTypeOrder = "order"
	NotificationTypeCall  = "call"
)

// Notification is derived, in-memory state synthesized by the realtime
// aggregator. Notifications are never persisted; they are cleared by explicit
// dismissal or, for staff calls, by timed expiry.
type Notification struct {
	Notification_id string    `json:"notification_id"`
	Table_number    int       `json:"table_number"`
	Message         string    `json:"message"`
	Type            string    `json:"type"`
	Is_read         bool      `json:"is_read"`
	Created_at      time.Time `json:"created_at"`
}
