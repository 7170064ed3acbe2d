package models

// CreateOrderInput is the public order-form payload. Field order matters:
// validation reports the first invalid field it encounters, top to bottom.
type CreateOrderInput struct {
	Quantity       int        `json:"quantity"        validate:"required,gte=1"`
	URL            string     `json:"url"             validate:"required_without_all=SpreadsheetURL ExcelFilePath"`
	URLs           []OrderURL `json:"urls"            validate:"omitempty,dive"`
	SpreadsheetURL string     `json:"spreadsheet_url"`
	ExcelFilePath  string     `json:"excel_file_path"`
	Memo           string     `json:"memo"`

	CustomerCompanyName   string `json:"customer_company_name"`
	CustomerName          string `json:"customer_name"           validate:"required"`
	CustomerEmail         string `json:"customer_email"          validate:"required,email"`
	CustomerPostalCode    string `json:"customer_postal_code"    validate:"required,len=7,numeric"`
	CustomerPrefecture    string `json:"customer_prefecture"     validate:"required"`
	CustomerCity          string `json:"customer_city"           validate:"required"`
	CustomerStreetAddress string `json:"customer_street_address" validate:"required"`
	CustomerBuilding      string `json:"customer_building"`
	CustomerAddress       string `json:"customer_address"        validate:"required"`
	CustomerPhone         string `json:"customer_phone"          validate:"required,numeric"`

	PaymentMethod PaymentMethod `json:"payment_method" validate:"required,oneof=card bank_transfer"`

	// Billing details, bank transfer only.
	InvoiceCompanyName        string `json:"invoice_company_name"`
	InvoiceContactName        string `json:"invoice_contact_name"`
	InvoicePostalCode         string `json:"invoice_postal_code"         validate:"omitempty,len=7,numeric"`
	InvoiceAddress            string `json:"invoice_address"`
	InvoiceRegistrationNumber string `json:"invoice_registration_number"`
}

// UpdateOrderInput is the admin PATCH payload. Nil pointers mean "leave as is".
type UpdateOrderInput struct {
	Status         *OrderStatus `json:"status"          validate:"omitempty,oneof=pending processing shipped completed"`
	TrackingNumber *string      `json:"tracking_number"`
}
