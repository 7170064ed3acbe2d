package postgres

import (
	"time"

	"github.com/jinzhu/gorm"
	"github.com/pkg/errors"

	"tapseal/internal/models"
)

type OrderPostgresRepo struct {
	db *gorm.DB
}

func NewOrderPostgres(db *gorm.DB) *OrderPostgresRepo {
	return &OrderPostgresRepo{db: db}
}

// NextInvoiceNumber bumps the per-day counter atomically. Two bank-transfer
// orders landing in the same instant still get distinct sequence numbers.
func (r *OrderPostgresRepo) NextInvoiceNumber(day time.Time) (string, error) {
	var seq int
	row := r.db.Raw(
		`INSERT INTO invoice_counters (day, seq) VALUES (?, 1)
		 ON CONFLICT (day) DO UPDATE SET seq = invoice_counters.seq + 1
		 RETURNING seq`, day.Format("20060102"),
	).Row()
	if err := row.Scan(&seq); err != nil {
		return "", errors.Wrap(err, "invoice counter")
	}
	return models.FormatInvoiceNumber(day, seq), nil
}

func (r *OrderPostgresRepo) Create(o *models.Order, email *models.EmailMessage) error {
	for i := range o.URLs {
		o.URLs[i].OrderRefer = o.ID
		o.URLs[i].Position = i + 1
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(o).Error; err != nil {
			return errors.Wrap(err, "insert order")
		}
		if email != nil {
			email.OrderID = o.ID
			if err := tx.Create(email).Error; err != nil {
				return errors.Wrap(err, "insert outbox row")
			}
		}
		return nil
	})
}

func (r *OrderPostgresRepo) Get(id string) (models.Order, error) {
	var o models.Order
	q := r.db.Preload("URLs").Where("id = ?", id).First(&o)
	return o, q.Error
}

func (r *OrderPostgresRepo) GetAll(status models.OrderStatus) ([]models.Order, error) {
	var out []models.Order
	q := r.db.Preload("URLs")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Order("created_at desc").Find(&out).Error
	return out, err
}

func (r *OrderPostgresRepo) GetByMonth(year int, month time.Month) ([]models.Order, error) {
	from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	var out []models.Order
	err := r.db.Preload("URLs").
		Where("created_at >= ? AND created_at < ?", from, to).
		Order("created_at asc").
		Find(&out).Error
	return out, err
}

func (r *OrderPostgresRepo) Update(id string, fields map[string]interface{}, email *models.EmailMessage) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Order{}).Where("id = ?", id).Updates(fields)
		if res.Error != nil {
			return errors.Wrap(res.Error, "update order")
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		if email != nil {
			email.OrderID = id
			if err := tx.Create(email).Error; err != nil {
				return errors.Wrap(err, "insert outbox row")
			}
		}
		return nil
	})
}

func (r *OrderPostgresRepo) Delete(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_refer = ?", id).Delete(models.OrderURL{}).Error; err != nil {
			return errors.Wrap(err, "delete order urls")
		}
		res := tx.Where("id = ?", id).Delete(models.Order{})
		if res.Error != nil {
			return errors.Wrap(res.Error, "delete order")
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
