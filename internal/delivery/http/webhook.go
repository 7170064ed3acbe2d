package http

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Stripe caps event payloads well below this.
const maxWebhookBody = 1 << 16

// StripeWebhook
// @Summary StripeWebhook
// @Description Receives signed checkout events from Stripe
// @ID stripe-webhook
// @Accept json
// @Produce json
// @Success 200 {object} statusResponse
// @Failure 400 {object} errorResponse
// @Failure 500 {object} errorResponse
// @Router /api/webhook/stripe [post]
func (h *Handler) StripeWebhook(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		newErrorResponse(c, http.StatusBadRequest, "read body")
		return
	}

	ev, err := h.verifier.VerifyWebhook(payload, c.GetHeader("Stripe-Signature"))
	if err != nil {
		webhookRejected.Inc()
		newErrorResponse(c, http.StatusBadRequest, "signature verification failed")
		return
	}
	webhookEvents.WithLabelValues(ev.Type).Inc()

	if err := h.svc.HandlePaymentEvent(ev); err != nil {
		// Non-2xx makes Stripe retry the delivery later.
		logrus.WithField("event_id", ev.ID).Errorf("handle webhook: %v", err)
		newErrorResponse(c, http.StatusInternalServerError, "event not processed")
		return
	}

	c.JSON(http.StatusOK, statusResponse{Status: "ok"})
}
