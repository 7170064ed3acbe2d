package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	_ "tapseal/docs"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"tapseal/internal/auth"
	"tapseal/internal/invoice"
	"tapseal/internal/payment"
	"tapseal/internal/service"
	"tapseal/internal/storage"
)

type Handler struct {
	svc      service.Order
	auth     *auth.Manager
	verifier payment.WebhookVerifier
	store    storage.FileStore
	inv      *invoice.Generator

	postalEndpoint string
	maxUploadBytes int64
	renderPDF      bool
}

type Deps struct {
	Service  service.Order
	Auth     *auth.Manager
	Verifier payment.WebhookVerifier
	Store    storage.FileStore
	Invoices *invoice.Generator

	PostalCodeEndpoint string
	MaxUploadBytes     int64
	RenderInvoicePDF   bool
}

func NewHandler(d Deps) *Handler {
	return &Handler{
		svc:            d.Service,
		auth:           d.Auth,
		verifier:       d.Verifier,
		store:          d.Store,
		inv:            d.Invoices,
		postalEndpoint: d.PostalCodeEndpoint,
		maxUploadBytes: d.MaxUploadBytes,
		renderPDF:      d.RenderInvoicePDF,
	}
}

func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.Default()

	api := router.Group("/api")
	{
		api.POST("/orders", h.CreateOrder)
		api.GET("/orders/:id", h.GetOrder)
		api.POST("/create-checkout-session", h.CreateCheckoutSession)
		api.POST("/webhook/stripe", h.StripeWebhook)
		api.GET("/generate-invoice", h.GenerateInvoice)
		api.POST("/generate-invoice", h.GenerateInvoiceJSON)
		api.POST("/upload", h.Upload)
		api.GET("/postal-code", h.PostalCode)

		admin := api.Group("/admin")
		{
			admin.POST("/login", h.AdminLogin)

			secured := admin.Group("", h.adminAuth)
			{
				secured.GET("/orders", h.AdminListOrders)
				secured.GET("/orders/export", h.AdminExportOrders)
				secured.GET("/orders/:id", h.AdminGetOrder)
				secured.PATCH("/orders/:id", h.AdminUpdateOrder)
				secured.POST("/orders/:id/confirm-payment", h.AdminConfirmPayment)
				secured.DELETE("/orders/:id", h.AdminDeleteOrder)
			}
		}
	}

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return router
}
