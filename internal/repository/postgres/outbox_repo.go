package postgres

import (
	"time"

	"github.com/jinzhu/gorm"
	"github.com/pkg/errors"

	"tapseal/internal/models"
)

type OutboxPostgresRepo struct {
	db *gorm.DB
}

func NewOutboxPostgres(db *gorm.DB) *OutboxPostgresRepo {
	return &OutboxPostgresRepo{db: db}
}

func (r *OutboxPostgresRepo) FetchUnsent(limit int) ([]models.EmailMessage, error) {
	var out []models.EmailMessage
	err := r.db.
		Where("state = ?", models.EmailUnsent).
		Order("created_at asc").
		Limit(limit).
		Find(&out).Error
	return out, errors.Wrap(err, "fetch unsent")
}

func (r *OutboxPostgresRepo) MarkSent(id string) error {
	now := time.Now().UTC()
	return r.db.Model(&models.EmailMessage{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"state":   models.EmailSent,
			"sent_at": &now,
		}).Error
}

func (r *OutboxPostgresRepo) MarkFailed(id string, reason string) error {
	return r.db.Model(&models.EmailMessage{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"attempts":   gorm.Expr("attempts + 1"),
			"last_error": reason,
		}).Error
}
