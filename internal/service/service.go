package service

import (
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"tapseal/internal/models"
	"tapseal/internal/payment"
	"tapseal/internal/repository"
)

type Order interface {
	CreateOrder(in models.CreateOrderInput) (models.Order, error)
	GetOrder(id string) (models.Order, error)
	ListOrders(status models.OrderStatus) ([]models.Order, error)
	ListOrdersByMonth(year int, month time.Month) ([]models.Order, error)
	UpdateOrder(id string, in models.UpdateOrderInput) (models.Order, error)
	ConfirmBankPayment(id string) (models.Order, error)
	DeleteOrder(id string) error

	CreateCheckoutSession(orderID string) (payment.CheckoutSession, error)
	HandlePaymentEvent(ev payment.Event) error
}

type Service struct {
	repository.OrderPostgres
	repository.WebhookPostgres
	repository.OrderCache

	checkout payment.Checkout
	v        *validator.Validate
	now      func() time.Time
}

func NewService(repo *repository.Repository, checkout payment.Checkout) *Service {
	v := validator.New()
	// Validation errors surface json field names, not Go ones.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Service{
		OrderPostgres:   repo.OrderPostgres,
		WebhookPostgres: repo.WebhookPostgres,
		OrderCache:      repo.OrderCache,
		checkout:        checkout,
		v:               v,
		now:             time.Now,
	}
}
