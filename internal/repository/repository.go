package repository

import (
	"time"

	"github.com/jinzhu/gorm"

	"tapseal/internal/models"
	"tapseal/internal/repository/cache"
	"tapseal/internal/repository/postgres"
)

// OrderPostgres is the persistent order store. Mutations that must announce
// themselves by email take the outbox row and write it in the same
// transaction, so "order changed" and "email queued" cannot diverge.
type OrderPostgres interface {
	Create(ord *models.Order, email *models.EmailMessage) error
	// NextInvoiceNumber draws from the atomic per-day sequence. A number
	// drawn for an insert that later fails is simply skipped.
	NextInvoiceNumber(day time.Time) (string, error)
	Get(id string) (models.Order, error)
	GetAll(status models.OrderStatus) ([]models.Order, error)
	GetByMonth(year int, month time.Month) ([]models.Order, error)
	Update(id string, fields map[string]interface{}, email *models.EmailMessage) error
	Delete(id string) error
}

type WebhookPostgres interface {
	// ApplyEvent records the event id and applies the order change in one
	// transaction. Returns false when the event id was already processed.
	// A failed change records nothing, so a redelivery gets a clean retry.
	ApplyEvent(ev models.WebhookEvent, fields map[string]interface{}, email *models.EmailMessage) (bool, error)
}

type OutboxPostgres interface {
	FetchUnsent(limit int) ([]models.EmailMessage, error)
	MarkSent(id string) error
	MarkFailed(id string, reason string) error
}

type OrderCache interface {
	PutOrder(id string, order models.Order)
	GetOrder(id string) (models.Order, bool)
	DeleteOrder(id string)
}

type Repository struct {
	OrderPostgres
	WebhookPostgres
	OutboxPostgres
	OrderCache
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		OrderPostgres:   postgres.NewOrderPostgres(db),
		WebhookPostgres: postgres.NewWebhookPostgres(db),
		OutboxPostgres:  postgres.NewOutboxPostgres(db),
		OrderCache:      cache.NewOrderCache(cache.WithTTL(10 * time.Minute)),
	}
}
