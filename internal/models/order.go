package models

import (
	"time"
)

type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusProcessing OrderStatus = "processing"
	StatusShipped    OrderStatus = "shipped"
	StatusCompleted  OrderStatus = "completed"
)

// StatusPriority orders fulfillment states for the admin list: work that
// still needs attention sorts first.
func StatusPriority(s OrderStatus) int {
	switch s {
	case StatusPending:
		return 1
	case StatusProcessing:
		return 2
	case StatusShipped:
		return 3
	case StatusCompleted:
		return 4
	}
	return 5
}

type PaymentMethod string

const (
	PaymentCard         PaymentMethod = "card"
	PaymentBankTransfer PaymentMethod = "bank_transfer"
)

type PaymentStatus string

const (
	PaymentUnpaid  PaymentStatus = "unpaid"
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
)

type Order struct {
	ID        string      `json:"id"         gorm:"primary_key;type:uuid"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
	Status    OrderStatus `json:"status"     validate:"required,oneof=pending processing shipped completed" gorm:"index"`

	Quantity      int        `json:"quantity"                  validate:"required,gte=1,lt=100"`
	URL           string     `json:"url"                       validate:"required"`
	URLs          []OrderURL `json:"urls"                      validate:"dive" gorm:"foreignkey:OrderRefer;association_foreignkey:ID"`
	Memo          string     `json:"memo,omitempty"            gorm:"type:text"`
	ExcelFilePath string     `json:"excel_file_path,omitempty"`

	CustomerCompanyName   string `json:"customer_company_name,omitempty"`
	CustomerName          string `json:"customer_name"           validate:"required"`
	CustomerEmail         string `json:"customer_email"          validate:"required,email"`
	CustomerPostalCode    string `json:"customer_postal_code"    validate:"required,len=7,numeric"`
	CustomerPrefecture    string `json:"customer_prefecture"     validate:"required"`
	CustomerCity          string `json:"customer_city"           validate:"required"`
	CustomerStreetAddress string `json:"customer_street_address" validate:"required"`
	CustomerBuilding      string `json:"customer_building,omitempty"`
	CustomerAddress       string `json:"customer_address"        validate:"required"`
	CustomerPhone         string `json:"customer_phone"          validate:"required,numeric"`

	TrackingNumber string     `json:"tracking_number,omitempty"`
	ShippedAt      *time.Time `json:"shipped_at,omitempty"`

	PaymentMethod           PaymentMethod `json:"payment_method"          validate:"required,oneof=card bank_transfer"`
	PaymentStatus           PaymentStatus `json:"payment_status"          validate:"omitempty,oneof=unpaid pending paid"`
	PaymentAmount           int           `json:"payment_amount"`
	PaymentDate             *time.Time    `json:"payment_date,omitempty"`
	StripePaymentIntentID   string        `json:"stripe_payment_intent_id,omitempty"`
	StripeCheckoutSessionID string        `json:"stripe_checkout_session_id,omitempty"`

	InvoiceNumber             string `json:"invoice_number,omitempty" gorm:"index"`
	InvoiceCompanyName        string `json:"invoice_company_name,omitempty"`
	InvoiceContactName        string `json:"invoice_contact_name,omitempty"`
	InvoiceRecipientName      string `json:"invoice_recipient_name,omitempty"`
	InvoicePostalCode         string `json:"invoice_postal_code,omitempty"`
	InvoiceAddress            string `json:"invoice_address,omitempty"`
	InvoiceRegistrationNumber string `json:"invoice_registration_number,omitempty"`
}

// OrderURL is one sticker destination. Orders of up to ten stickers may carry
// a per-unit list; larger orders reference a single shared URL, a
// spreadsheet, or an uploaded file instead.
type OrderURL struct {
	OrderRefer string `json:"-"               gorm:"type:uuid;index"`
	Position   int    `json:"position"`
	URL        string `json:"url"             validate:"required,url"`
	Label      string `json:"label,omitempty"`
}
