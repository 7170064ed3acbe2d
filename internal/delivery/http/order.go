package http

import (
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"tapseal/internal/invoice"
	"tapseal/internal/models"
	"tapseal/internal/service"
	"tapseal/internal/storage"
)

func mapServiceError(c *gin.Context, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		newErrorResponse(c, http.StatusBadRequest, verr.Message)
	case errors.Is(err, service.ErrNotFound):
		newErrorResponse(c, http.StatusNotFound, "order not found")
	case errors.Is(err, service.ErrWrongPaymentMethod):
		newErrorResponse(c, http.StatusBadRequest, "wrong payment method for this operation")
	case errors.Is(err, service.ErrAlreadyPaid):
		newErrorResponse(c, http.StatusConflict, "payment already confirmed")
	case errors.Is(err, service.ErrInvalidTransition):
		newErrorResponse(c, http.StatusConflict, "invalid status transition")
	default:
		newErrorResponse(c, http.StatusInternalServerError, err.Error())
	}
}

// CreateOrder
// @Summary CreateOrder
// @Description Accepts the public order form and creates a pending order
// @ID create-order
// @Accept json
// @Produce json
// @Param input body models.CreateOrderInput true "order form"
// @Success 201 {object} models.Order
// @Failure 400 {object} errorResponse
// @Failure 500 {object} errorResponse
// @Router /api/orders [post]
func (h *Handler) CreateOrder(c *gin.Context) {
	var in models.CreateOrderInput
	if err := c.ShouldBindJSON(&in); err != nil {
		newErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	ord, err := h.svc.CreateOrder(in)
	if err != nil {
		mapServiceError(c, err)
		return
	}

	ordersCreated.WithLabelValues(string(ord.PaymentMethod)).Inc()
	c.JSON(http.StatusCreated, ord)
}

// GetOrder
// @Summary GetOrder
// @Description Returns one order by id
// @ID get-order
// @Produce json
// @Param id path string true "order id"
// @Success 200 {object} models.Order
// @Failure 404 {object} errorResponse
// @Failure 500 {object} errorResponse
// @Router /api/orders/{id} [get]
func (h *Handler) GetOrder(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		newErrorResponse(c, http.StatusBadRequest, "missing order id")
		return
	}

	ord, err := h.svc.GetOrder(id)
	if err != nil {
		mapServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ord)
}

type checkoutSessionInput struct {
	OrderID string `json:"order_id" binding:"required"`
}

// CreateCheckoutSession
// @Summary CreateCheckoutSession
// @Description Opens a hosted card checkout for an unpaid card order
// @ID create-checkout-session
// @Accept json
// @Produce json
// @Param input body checkoutSessionInput true "order reference"
// @Success 200 {object} payment.CheckoutSession
// @Failure 400,404,409 {object} errorResponse
// @Failure 500 {object} errorResponse
// @Router /api/create-checkout-session [post]
func (h *Handler) CreateCheckoutSession(c *gin.Context) {
	var in checkoutSessionInput
	if err := c.ShouldBindJSON(&in); err != nil {
		newErrorResponse(c, http.StatusBadRequest, "missing order_id")
		return
	}

	sess, err := h.svc.CreateCheckoutSession(in.OrderID)
	if err != nil {
		mapServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, sess)
}

func (h *Handler) renderInvoice(c *gin.Context) (models.Order, string, bool) {
	id := strings.TrimSpace(c.Query("orderId"))
	if id == "" {
		id = strings.TrimSpace(c.Query("order_id"))
	}
	if id == "" {
		newErrorResponse(c, http.StatusBadRequest, "missing orderId")
		return models.Order{}, "", false
	}

	ord, err := h.svc.GetOrder(id)
	if err != nil {
		mapServiceError(c, err)
		return models.Order{}, "", false
	}
	if ord.PaymentMethod != models.PaymentBankTransfer {
		newErrorResponse(c, http.StatusBadRequest, "invoices are issued for bank transfer orders only")
		return models.Order{}, "", false
	}

	html, err := h.inv.Render(ord)
	if err != nil {
		newErrorResponse(c, http.StatusInternalServerError, err.Error())
		return models.Order{}, "", false
	}
	return ord, html, true
}

// GenerateInvoice
// @Summary GenerateInvoice
// @Description Renders the invoice for a bank-transfer order, PDF when enabled
// @ID generate-invoice
// @Produce html
// @Param orderId query string true "order id"
// @Success 200 {string} string "invoice document"
// @Failure 400,404 {object} errorResponse
// @Failure 500 {object} errorResponse
// @Router /api/generate-invoice [get]
func (h *Handler) GenerateInvoice(c *gin.Context) {
	ord, html, ok := h.renderInvoice(c)
	if !ok {
		return
	}

	if h.renderPDF {
		pdf, err := invoice.RenderPDF(c.Request.Context(), html)
		if err == nil {
			c.Header("Content-Disposition", `attachment; filename="`+ord.InvoiceNumber+`.pdf"`)
			c.Data(http.StatusOK, "application/pdf", pdf)
			return
		}
		newErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}

type invoiceResponse struct {
	InvoiceNumber string `json:"invoiceNumber"`
	HTML          string `json:"html"`
}

// GenerateInvoiceJSON
// @Summary GenerateInvoiceJSON
// @Description Returns the invoice number and rendered HTML as JSON
// @ID generate-invoice-json
// @Produce json
// @Param orderId query string true "order id"
// @Success 200 {object} invoiceResponse
// @Failure 400,404 {object} errorResponse
// @Failure 500 {object} errorResponse
// @Router /api/generate-invoice [post]
func (h *Handler) GenerateInvoiceJSON(c *gin.Context) {
	ord, html, ok := h.renderInvoice(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, invoiceResponse{InvoiceNumber: ord.InvoiceNumber, HTML: html})
}

type uploadResponse struct {
	FilePath string `json:"file_path"`
}

// Upload
// @Summary Upload
// @Description Stores a URL spreadsheet for orders too large for the form
// @ID upload-spreadsheet
// @Accept mpfd
// @Produce json
// @Param file formData file true "xlsx or xls file"
// @Success 200 {object} uploadResponse
// @Failure 400 {object} errorResponse
// @Failure 500 {object} errorResponse
// @Router /api/upload [post]
func (h *Handler) Upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		newErrorResponse(c, http.StatusBadRequest, "missing file")
		return
	}
	defer file.Close()

	path, err := h.store.Save(header.Filename, file)
	if err != nil {
		if errors.Is(err, storage.ErrUnsupportedType) {
			newErrorResponse(c, http.StatusBadRequest, "only .xlsx and .xls files are accepted")
			return
		}
		newErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, uploadResponse{FilePath: path})
}

// PostalCode
// @Summary PostalCode
// @Description Proxies the postal code lookup so the browser avoids CORS
// @ID postal-code
// @Produce json
// @Param zip query string true "7 digit postal code"
// @Success 200 {object} map[string]interface{}
// @Failure 400,502 {object} errorResponse
// @Router /api/postal-code [get]
func digitsOnly(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func (h *Handler) PostalCode(c *gin.Context) {
	code := strings.TrimSpace(c.Query("zip"))
	if len(code) != 7 || !digitsOnly(code) {
		newErrorResponse(c, http.StatusBadRequest, "zip must be 7 digits")
		return
	}

	req, err := http.NewRequestWithContext(c.Request.Context(), http.MethodGet,
		h.postalEndpoint+"?zipcode="+url.QueryEscape(code), nil)
	if err != nil {
		newErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		newErrorResponse(c, http.StatusBadGateway, "postal code lookup failed")
		return
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		newErrorResponse(c, http.StatusBadGateway, "postal code lookup failed")
		return
	}
	c.Data(resp.StatusCode, "application/json", body)
}
