package postgres

import (
	"github.com/jinzhu/gorm"
	"github.com/pkg/errors"

	"tapseal/internal/models"
)

type WebhookPostgresRepo struct {
	db *gorm.DB
}

func NewWebhookPostgres(db *gorm.DB) *WebhookPostgresRepo {
	return &WebhookPostgresRepo{db: db}
}

// ApplyEvent inserts the event id, relying on the primary key to reject
// duplicate deliveries, and applies the order update and outbox row in the
// same transaction. When the update fails the event row rolls back with it,
// so the payment provider's redelivery is not mistaken for a duplicate.
func (r *WebhookPostgresRepo) ApplyEvent(ev models.WebhookEvent, fields map[string]interface{}, email *models.EmailMessage) (bool, error) {
	fresh := false
	err := r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Exec(
			`INSERT INTO webhook_events (event_id, type, order_id, received_at)
			 VALUES (?, ?, ?, ?)
			 ON CONFLICT (event_id) DO NOTHING`,
			ev.EventID, ev.Type, ev.OrderID, ev.ReceivedAt,
		)
		if res.Error != nil {
			return errors.Wrap(res.Error, "record webhook event")
		}
		if res.RowsAffected == 0 {
			return nil
		}
		fresh = true

		if fields != nil {
			upd := tx.Model(&models.Order{}).Where("id = ?", ev.OrderID).Updates(fields)
			if upd.Error != nil {
				return errors.Wrap(upd.Error, "update order")
			}
			if upd.RowsAffected == 0 {
				return gorm.ErrRecordNotFound
			}
		}
		if email != nil {
			email.OrderID = ev.OrderID
			if err := tx.Create(email).Error; err != nil {
				return errors.Wrap(err, "insert outbox row")
			}
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return fresh, nil
}
