package configs

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v9"
)

type Config struct {
	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8080"`
	SiteURL  string `env:"SITE_URL" envDefault:"http://localhost:8080"`

	DatabaseURL     string `env:"DATABASE_URL" envDefault:""`
	PostgresHost    string `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort    string `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresUser    string `env:"POSTGRES_USER" envDefault:"postgres"`
	PostgresPass    string `env:"POSTGRES_PASSWORD" envDefault:"postgres"`
	PostgresDB      string `env:"POSTGRES_DB" envDefault:"tapseal"`
	PostgresSSLMode string `env:"POSTGRES_SSLMODE" envDefault:"disable"`

	KafkaBrokers    string `env:"KAFKA_BROKERS" envDefault:"localhost:9092"`
	KafkaEmailTopic string `env:"KAFKA_EMAIL_TOPIC" envDefault:"order-emails"`
	KafkaEmailDLQ   string `env:"KAFKA_EMAIL_DLQ" envDefault:"order-emails-dlq"`
	KafkaGroupID    string `env:"KAFKA_GROUP_ID" envDefault:"tapseal-mailer"`

	StripeSecretKey     string `env:"STRIPE_SECRET_KEY" envDefault:""`
	StripeWebhookSecret string `env:"STRIPE_WEBHOOK_SECRET" envDefault:""`

	ResendAPIKey    string `env:"RESEND_API_KEY" envDefault:""`
	ResendFromEmail string `env:"RESEND_FROM_EMAIL" envDefault:"noreply@1tapseal.com"`
	ResendFromName  string `env:"RESEND_FROM_NAME" envDefault:"ワンタップシール"`

	AdminPassword      string `env:"ADMIN_PASSWORD,required"`
	SessionSecret      string `env:"SESSION_SECRET,required"`
	SessionTTLHours    int    `env:"SESSION_TTL_HOURS" envDefault:"12"`
	UploadDir          string `env:"UPLOAD_DIR" envDefault:"uploads"`
	PostalCodeEndpoint string `env:"POSTAL_CODE_ENDPOINT" envDefault:"https://zipcloud.ibsnet.co.jp/api/search"`

	InvoiceCompanyName        string `env:"INVOICE_COMPANY_NAME" envDefault:"株式会社Senrigan"`
	InvoiceRegistrationNumber string `env:"INVOICE_REGISTRATION_NUMBER" envDefault:"T0000000000000"`
	InvoiceAddress            string `env:"INVOICE_ADDRESS" envDefault:"広島県広島市安佐南区山本2-3-35"`
	InvoicePhone              string `env:"INVOICE_PHONE" envDefault:""`
	InvoiceEmail              string `env:"INVOICE_EMAIL" envDefault:"contact@1tapseal.com"`

	BankName          string `env:"BANK_NAME" envDefault:"（未設定）"`
	BankBranch        string `env:"BANK_BRANCH" envDefault:"（未設定）"`
	BankAccountType   string `env:"BANK_ACCOUNT_TYPE" envDefault:"普通"`
	BankAccountNumber string `env:"BANK_ACCOUNT_NUMBER" envDefault:"（未設定）"`
	BankAccountHolder string `env:"BANK_ACCOUNT_HOLDER" envDefault:"（未設定）"`

	RenderInvoicePDF bool `env:"RENDER_INVOICE_PDF" envDefault:"false"`
	MaxUploadBytes   int64 `env:"MAX_UPLOAD_BYTES" envDefault:"10485760"`
}

func LoadConfig() (Config, error) {
	var c Config
	if err := env.Parse(&c); err != nil {
		return Config{}, fmt.Errorf("config parse: %w", err)
	}
	return c, nil
}

func (c Config) KafkaBrokersSlice() []string {
	parts := strings.Split(c.KafkaBrokers, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (c Config) PgDSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.PostgresUser,
		c.PostgresPass,
		c.PostgresHost,
		c.PostgresPort,
		c.PostgresDB,
		c.PostgresSSLMode,
	)
}
