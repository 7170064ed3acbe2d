package service

import (
	"encoding/json"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jinzhu/gorm"
	"github.com/sirupsen/logrus"

	"tapseal/internal/models"
	"tapseal/internal/pricing"
)

// perUnitURLLimit is the largest order that may list a URL per sticker;
// bigger runs hand over a shared URL, a spreadsheet link, or an uploaded
// file instead.
const perUnitURLLimit = 10

func firstValidationError(err error) error {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return err
	}

	fe := verrs[0]
	switch fe.Tag() {
	case "required", "required_without_all":
		return invalidField(fe.Field(), fe.Field()+" is required")
	case "email":
		return invalidField(fe.Field(), "invalid email address")
	case "numeric":
		return invalidField(fe.Field(), fe.Field()+" must contain digits only")
	case "len":
		return invalidField(fe.Field(), fe.Field()+" must be "+fe.Param()+" characters")
	case "gte":
		return invalidField(fe.Field(), fe.Field()+" must be at least "+fe.Param())
	default:
		return invalidField(fe.Field(), fe.Field()+" is invalid")
	}
}

func (s *Service) validateCreate(in models.CreateOrderInput) error {
	if err := s.v.Struct(in); err != nil {
		return firstValidationError(err)
	}

	if in.Quantity > pricing.MaxQuantity {
		return invalidField("quantity",
			"orders of 100 or more stickers are quoted individually, please contact us")
	}
	if in.Quantity > perUnitURLLimit && len(in.URLs) > 0 {
		return invalidField("urls",
			"a per-sticker url list is only available for orders of up to 10")
	}
	if in.Quantity <= perUnitURLLimit && (in.SpreadsheetURL != "" || in.ExcelFilePath != "") {
		return invalidField("spreadsheet_url",
			"spreadsheet submissions are only available for orders of more than 10")
	}

	if in.PaymentMethod == models.PaymentBankTransfer {
		if strings.TrimSpace(in.InvoiceCompanyName) == "" && strings.TrimSpace(in.InvoiceContactName) == "" {
			return invalidField("invoice_contact_name",
				"a billing company or contact name is required for bank transfer")
		}
		if in.InvoicePostalCode == "" {
			return invalidField("invoice_postal_code", "invoice_postal_code is required")
		}
		if strings.TrimSpace(in.InvoiceAddress) == "" {
			return invalidField("invoice_address", "invoice_address is required")
		}
	}
	return nil
}

// invoiceRecipient composes the invoice addressee: company plus contact when
// both are present, otherwise whichever exists.
func invoiceRecipient(company, contact string) string {
	company = strings.TrimSpace(company)
	contact = strings.TrimSpace(contact)
	if company == "" {
		return contact
	}
	if contact == "" {
		return company
	}
	return company + " " + contact
}

func (s *Service) outboxMessage(kind models.EmailKind, ord models.Order) *models.EmailMessage {
	payload, err := json.Marshal(models.EmailJob{Kind: kind, Order: ord})
	if err != nil {
		// An order snapshot always marshals; treat failure as a bug.
		logrus.WithError(err).WithField("order_id", ord.ID).Error("marshal email job")
		return nil
	}
	return &models.EmailMessage{
		ID:        uuid.New().String(),
		OrderID:   ord.ID,
		Kind:      kind,
		Payload:   payload,
		State:     models.EmailUnsent,
		CreatedAt: s.now().UTC(),
	}
}

func (s *Service) CreateOrder(in models.CreateOrderInput) (models.Order, error) {
	if err := s.validateCreate(in); err != nil {
		return models.Order{}, err
	}

	price, err := pricing.Calculate(in.Quantity)
	if err != nil {
		return models.Order{}, invalidField("quantity", "quantity out of range")
	}

	now := s.now().UTC()
	ord := models.Order{
		ID:        uuid.New().String(),
		CreatedAt: now,
		UpdatedAt: now,
		Status:    models.StatusPending,

		Quantity:      in.Quantity,
		URL:           strings.TrimSpace(in.URL),
		URLs:          in.URLs,
		Memo:          buildMemo(in),
		ExcelFilePath: in.ExcelFilePath,

		CustomerCompanyName:   strings.TrimSpace(in.CustomerCompanyName),
		CustomerName:          strings.TrimSpace(in.CustomerName),
		CustomerEmail:         strings.TrimSpace(in.CustomerEmail),
		CustomerPostalCode:    in.CustomerPostalCode,
		CustomerPrefecture:    strings.TrimSpace(in.CustomerPrefecture),
		CustomerCity:          strings.TrimSpace(in.CustomerCity),
		CustomerStreetAddress: strings.TrimSpace(in.CustomerStreetAddress),
		CustomerBuilding:      strings.TrimSpace(in.CustomerBuilding),
		CustomerAddress:       strings.TrimSpace(in.CustomerAddress),
		CustomerPhone:         in.CustomerPhone,

		PaymentMethod: in.PaymentMethod,
		PaymentStatus: models.PaymentUnpaid,
		PaymentAmount: price.Total,
	}

	var email *models.EmailMessage
	if in.PaymentMethod == models.PaymentBankTransfer {
		num, err := s.OrderPostgres.NextInvoiceNumber(now)
		if err != nil {
			return models.Order{}, err
		}
		ord.InvoiceNumber = num
		ord.InvoiceCompanyName = strings.TrimSpace(in.InvoiceCompanyName)
		ord.InvoiceContactName = strings.TrimSpace(in.InvoiceContactName)
		ord.InvoiceRecipientName = invoiceRecipient(in.InvoiceCompanyName, in.InvoiceContactName)
		ord.InvoicePostalCode = in.InvoicePostalCode
		ord.InvoiceAddress = strings.TrimSpace(in.InvoiceAddress)
		ord.InvoiceRegistrationNumber = strings.TrimSpace(in.InvoiceRegistrationNumber)

		// Bank transfers get their confirmation (with the invoice attached)
		// right away; card orders wait for the payment webhook.
		email = s.outboxMessage(models.EmailOrderConfirmation, ord)
	}

	if err := s.OrderPostgres.Create(&ord, email); err != nil {
		return models.Order{}, err
	}
	s.OrderCache.PutOrder(ord.ID, ord)
	return ord, nil
}

func buildMemo(in models.CreateOrderInput) string {
	memo := strings.TrimSpace(in.Memo)
	if in.SpreadsheetURL != "" {
		note := "スプレッドシートURL: " + strings.TrimSpace(in.SpreadsheetURL)
		if memo != "" {
			return note + "\n\n備考: " + memo
		}
		return note
	}
	return memo
}

func (s *Service) GetOrder(id string) (models.Order, error) {
	if ord, ok := s.OrderCache.GetOrder(id); ok {
		return ord, nil
	}

	ord, err := s.OrderPostgres.Get(id)
	if gorm.IsRecordNotFoundError(err) {
		return models.Order{}, ErrNotFound
	}
	if err != nil {
		return models.Order{}, err
	}
	s.OrderCache.PutOrder(id, ord)
	return ord, nil
}

// SortOrders arranges the admin list: open work first, then by recency
// within each status.
func SortOrders(orders []models.Order) {
	sort.SliceStable(orders, func(i, j int) bool {
		pi, pj := models.StatusPriority(orders[i].Status), models.StatusPriority(orders[j].Status)
		if pi != pj {
			return pi < pj
		}
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
}

func (s *Service) ListOrders(status models.OrderStatus) ([]models.Order, error) {
	orders, err := s.OrderPostgres.GetAll(status)
	if err != nil {
		return nil, err
	}
	SortOrders(orders)
	return orders, nil
}

func (s *Service) ListOrdersByMonth(year int, month time.Month) ([]models.Order, error) {
	orders, err := s.OrderPostgres.GetByMonth(year, month)
	if err != nil {
		return nil, err
	}
	SortOrders(orders)
	return orders, nil
}

func (s *Service) UpdateOrder(id string, in models.UpdateOrderInput) (models.Order, error) {
	if err := s.v.Struct(in); err != nil {
		return models.Order{}, firstValidationError(err)
	}

	ord, err := s.GetOrder(id)
	if err != nil {
		return models.Order{}, err
	}

	now := s.now().UTC()
	fields := map[string]interface{}{"updated_at": now}

	if in.Status != nil && *in.Status != ord.Status {
		if models.StatusPriority(*in.Status) < models.StatusPriority(ord.Status) {
			return models.Order{}, ErrInvalidTransition
		}
		fields["status"] = *in.Status
		ord.Status = *in.Status
	}

	var email *models.EmailMessage
	if in.TrackingNumber != nil && *in.TrackingNumber != "" {
		fields["tracking_number"] = *in.TrackingNumber
		fields["status"] = models.StatusShipped
		fields["shipped_at"] = &now
		ord.TrackingNumber = *in.TrackingNumber
		ord.Status = models.StatusShipped
		ord.ShippedAt = &now
		email = s.outboxMessage(models.EmailOrderShipped, ord)
	}
	ord.UpdatedAt = now

	if err := s.OrderPostgres.Update(id, fields, email); err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return models.Order{}, ErrNotFound
		}
		return models.Order{}, err
	}
	s.OrderCache.PutOrder(id, ord)
	return ord, nil
}

func (s *Service) ConfirmBankPayment(id string) (models.Order, error) {
	ord, err := s.GetOrder(id)
	if err != nil {
		return models.Order{}, err
	}
	if ord.PaymentMethod != models.PaymentBankTransfer {
		return models.Order{}, ErrWrongPaymentMethod
	}
	if ord.PaymentStatus == models.PaymentPaid {
		return models.Order{}, ErrAlreadyPaid
	}

	now := s.now().UTC()
	ord.PaymentStatus = models.PaymentPaid
	ord.PaymentDate = &now
	ord.UpdatedAt = now

	fields := map[string]interface{}{
		"payment_status": models.PaymentPaid,
		"payment_date":   &now,
		"updated_at":     now,
	}
	email := s.outboxMessage(models.EmailPaymentConfirmed, ord)

	if err := s.OrderPostgres.Update(id, fields, email); err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return models.Order{}, ErrNotFound
		}
		return models.Order{}, err
	}
	s.OrderCache.PutOrder(id, ord)
	return ord, nil
}

func (s *Service) DeleteOrder(id string) error {
	err := s.OrderPostgres.Delete(id)
	if gorm.IsRecordNotFoundError(err) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	s.OrderCache.DeleteOrder(id)
	return nil
}
