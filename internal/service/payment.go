package service

import (
	"github.com/sirupsen/logrus"

	"tapseal/internal/models"
	"tapseal/internal/payment"
	"tapseal/internal/pricing"
)

func (s *Service) CreateCheckoutSession(orderID string) (payment.CheckoutSession, error) {
	ord, err := s.GetOrder(orderID)
	if err != nil {
		return payment.CheckoutSession{}, err
	}
	if ord.PaymentMethod != models.PaymentCard {
		return payment.CheckoutSession{}, ErrWrongPaymentMethod
	}
	if ord.PaymentStatus == models.PaymentPaid {
		return payment.CheckoutSession{}, ErrAlreadyPaid
	}

	price, err := pricing.Calculate(ord.Quantity)
	if err != nil {
		return payment.CheckoutSession{}, err
	}

	sess, err := s.checkout.CreateCheckoutSession(ord, price)
	if err != nil {
		return payment.CheckoutSession{}, err
	}

	now := s.now().UTC()
	ord.StripeCheckoutSessionID = sess.ID
	ord.PaymentStatus = models.PaymentPending
	ord.UpdatedAt = now

	fields := map[string]interface{}{
		"stripe_checkout_session_id": sess.ID,
		"payment_status":             models.PaymentPending,
		"updated_at":                 now,
	}
	if err := s.OrderPostgres.Update(orderID, fields, nil); err != nil {
		return payment.CheckoutSession{}, err
	}
	s.OrderCache.PutOrder(orderID, ord)
	return sess, nil
}

// HandlePaymentEvent applies a verified webhook event. The event id and the
// order change land in one transaction: a replay is dropped by the ledger,
// and a failed change records nothing, so Stripe's redelivery still applies.
func (s *Service) HandlePaymentEvent(ev payment.Event) error {
	rec := models.WebhookEvent{
		EventID:    ev.ID,
		Type:       ev.Type,
		OrderID:    ev.OrderID,
		ReceivedAt: s.now().UTC(),
	}

	var (
		ord    models.Order
		fields map[string]interface{}
		email  *models.EmailMessage
		err    error
	)
	switch ev.Type {
	case payment.EventCheckoutCompleted:
		ord, fields, email, err = s.cardPaidChange(ev)
	case payment.EventCheckoutExpired:
		ord, fields, err = s.checkoutExpiredChange(ev)
	default:
		logrus.WithField("type", ev.Type).Debug("unhandled webhook event")
	}
	if err != nil {
		return err
	}

	fresh, err := s.WebhookPostgres.ApplyEvent(rec, fields, email)
	if err != nil {
		return err
	}
	if !fresh {
		logrus.WithFields(logrus.Fields{
			"event_id": ev.ID,
			"type":     ev.Type,
		}).Info("duplicate webhook event skipped")
		return nil
	}
	if fields != nil {
		s.OrderCache.PutOrder(ev.OrderID, ord)
	}
	return nil
}

func (s *Service) cardPaidChange(ev payment.Event) (models.Order, map[string]interface{}, *models.EmailMessage, error) {
	ord, err := s.GetOrder(ev.OrderID)
	if err != nil {
		return models.Order{}, nil, nil, err
	}

	now := s.now().UTC()
	ord.PaymentStatus = models.PaymentPaid
	ord.PaymentDate = &now
	ord.StripePaymentIntentID = ev.PaymentIntentID
	ord.UpdatedAt = now

	fields := map[string]interface{}{
		"payment_status":           models.PaymentPaid,
		"payment_date":             &now,
		"stripe_payment_intent_id": ev.PaymentIntentID,
		"updated_at":               now,
	}
	return ord, fields, s.outboxMessage(models.EmailOrderConfirmation, ord), nil
}

func (s *Service) checkoutExpiredChange(ev payment.Event) (models.Order, map[string]interface{}, error) {
	ord, err := s.GetOrder(ev.OrderID)
	if err != nil {
		return models.Order{}, nil, err
	}
	if ord.PaymentStatus == models.PaymentPaid {
		// An expiry arriving after completion must not unwind the payment.
		return ord, nil, nil
	}

	// The one sanctioned backward move: an abandoned checkout puts the order
	// back where it started.
	now := s.now().UTC()
	ord.PaymentStatus = models.PaymentUnpaid
	ord.Status = models.StatusPending
	ord.StripeCheckoutSessionID = ""
	ord.UpdatedAt = now

	fields := map[string]interface{}{
		"payment_status":             models.PaymentUnpaid,
		"status":                     models.StatusPending,
		"stripe_checkout_session_id": "",
		"updated_at":                 now,
	}
	return ord, fields, nil
}
