package models

import "time"

type EmailKind string

const (
	EmailOrderConfirmation EmailKind = "order_confirmation"
	EmailPaymentConfirmed  EmailKind = "payment_confirmed"
	EmailOrderShipped      EmailKind = "order_shipped"
)

type EmailState string

const (
	EmailUnsent EmailState = "unsent"
	EmailSent   EmailState = "sent"
)

// EmailMessage is one outbox row. It is written in the same transaction as
// the order mutation it announces, then drained to kafka by the dispatcher.
type EmailMessage struct {
	ID        string     `json:"id"         gorm:"primary_key;type:uuid"`
	OrderID   string     `json:"order_id"   gorm:"type:uuid;index"`
	Kind      EmailKind  `json:"kind"`
	Payload   []byte     `json:"payload"    gorm:"type:jsonb"`
	State     EmailState `json:"state"      gorm:"index"`
	Attempts  int        `json:"attempts"`
	LastError string     `json:"last_error,omitempty" gorm:"type:text"`
	CreatedAt time.Time  `json:"created_at"`
	SentAt    *time.Time `json:"sent_at,omitempty"`
}

// EmailJob is the kafka payload the mailer consumes. The full order snapshot
// rides along so the mailer renders without a database round trip.
type EmailJob struct {
	Kind  EmailKind `json:"kind"`
	Order Order     `json:"order"`
}
