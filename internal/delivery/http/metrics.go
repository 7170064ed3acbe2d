package http

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ordersCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tapseal_orders_created_total",
		Help: "Orders accepted, by payment method.",
	}, []string{"payment_method"})

	webhookEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tapseal_stripe_webhook_events_total",
		Help: "Verified Stripe webhook events, by type.",
	}, []string{"type"})

	webhookRejected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tapseal_stripe_webhook_rejected_total",
		Help: "Webhook posts that failed signature verification.",
	})
)
