// Package payment wraps the Stripe SDK: hosted checkout sessions for card
// orders and signature verification for the webhook stream.
package payment

import (
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/checkout/session"
	"github.com/stripe/stripe-go/v82/webhook"

	"tapseal/internal/models"
	"tapseal/internal/pricing"
)

const (
	EventCheckoutCompleted = "checkout.session.completed"
	EventCheckoutExpired   = "checkout.session.expired"
)

type CheckoutSession struct {
	ID  string `json:"sessionId"`
	URL string `json:"url"`
}

// Event is the provider-agnostic slice of a webhook event the service layer
// cares about.
type Event struct {
	ID              string
	Type            string
	OrderID         string
	PaymentIntentID string
}

type Checkout interface {
	CreateCheckoutSession(ord models.Order, price pricing.Price) (CheckoutSession, error)
}

type WebhookVerifier interface {
	VerifyWebhook(payload []byte, sigHeader string) (Event, error)
}

type StripeClient struct {
	webhookSecret string
	siteURL       string
}

func NewStripeClient(secretKey, webhookSecret, siteURL string) *StripeClient {
	stripe.Key = secretKey
	return &StripeClient{webhookSecret: webhookSecret, siteURL: siteURL}
}

func (c *StripeClient) CreateCheckoutSession(ord models.Order, price pricing.Price) (CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		CustomerEmail:      stripe.String(ord.CustomerEmail),
		SuccessURL: stripe.String(fmt.Sprintf(
			"%s/order/success?session_id={CHECKOUT_SESSION_ID}&order_id=%s", c.siteURL, ord.ID)),
		CancelURL: stripe.String(fmt.Sprintf("%s/order/cancel?order_id=%s", c.siteURL, ord.ID)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(string(stripe.CurrencyJPY)),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name:        stripe.String("ワンタップシール"),
						Description: stripe.String(fmt.Sprintf("%d枚", ord.Quantity)),
					},
					UnitAmount: stripe.Int64(int64(price.UnitPrice)),
				},
				Quantity: stripe.Int64(int64(ord.Quantity)),
			},
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(string(stripe.CurrencyJPY)),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String("送料"),
					},
					UnitAmount: stripe.Int64(int64(price.Shipping)),
				},
				Quantity: stripe.Int64(1),
			},
		},
	}
	params.AddMetadata("orderId", ord.ID)

	sess, err := session.New(params)
	if err != nil {
		return CheckoutSession{}, errors.Wrap(err, "create checkout session")
	}
	return CheckoutSession{ID: sess.ID, URL: sess.URL}, nil
}

func (c *StripeClient) VerifyWebhook(payload []byte, sigHeader string) (Event, error) {
	ev, err := webhook.ConstructEvent(payload, sigHeader, c.webhookSecret)
	if err != nil {
		return Event{}, errors.Wrap(err, "webhook signature")
	}

	out := Event{ID: ev.ID, Type: string(ev.Type)}

	switch out.Type {
	case EventCheckoutCompleted, EventCheckoutExpired:
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(ev.Data.Raw, &sess); err != nil {
			return Event{}, errors.Wrap(err, "decode checkout session")
		}
		out.OrderID = sess.Metadata["orderId"]
		if sess.PaymentIntent != nil {
			out.PaymentIntentID = sess.PaymentIntent.ID
		}
	}
	return out, nil
}
