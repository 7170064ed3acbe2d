package models

import "time"

// WebhookEvent records a processed payment-provider event. The unique index
// on EventID makes duplicate deliveries visible as an insert conflict.
type WebhookEvent struct {
	EventID    string    `json:"event_id" gorm:"primary_key"`
	Type       string    `json:"type"`
	OrderID    string    `json:"order_id" gorm:"type:uuid;index"`
	ReceivedAt time.Time `json:"received_at"`
}
