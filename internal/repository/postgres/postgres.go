package postgres

import (
	"fmt"

	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/postgres"

	"tapseal/internal/models"
)

type Config struct {
	Host     string
	Port     string
	Username string
	Password string
	DbName   string
	SslMode  string
}

func ConnectDB(cfg Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.Username, cfg.Password, cfg.DbName, cfg.SslMode,
	)
	db, err := gorm.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.DB().Ping(); err != nil {
		return nil, err
	}
	return db, nil
}

func ConnectURL(url string) (*gorm.DB, error) {
	db, err := gorm.Open("postgres", url)
	if err != nil {
		return nil, err
	}
	if err := db.DB().Ping(); err != nil {
		return nil, err
	}
	return db, nil
}

// invoiceCounter backs the per-day invoice sequence. The atomic upsert in
// NextInvoiceNumber is the only writer.
type invoiceCounter struct {
	Day string `gorm:"primary_key;type:varchar(8)"`
	Seq int
}

func (invoiceCounter) TableName() string { return "invoice_counters" }

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Order{},
		&models.OrderURL{},
		&models.EmailMessage{},
		&models.WebhookEvent{},
		&invoiceCounter{},
	).Error; err != nil {
		return err
	}
	return db.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS uq_orders_invoice_number
		 ON orders (invoice_number) WHERE invoice_number <> ''`,
	).Error
}
