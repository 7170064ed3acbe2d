package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"tapseal/internal/auth"
	"tapseal/internal/configs"
	httpdelivery "tapseal/internal/delivery/http"
	"tapseal/internal/delivery/kafka"
	"tapseal/internal/invoice"
	"tapseal/internal/outbox"
	"tapseal/internal/payment"
	"tapseal/internal/repository"
	"tapseal/internal/repository/postgres"
	"tapseal/internal/service"
	"tapseal/internal/storage"
)

// @title tapseal order service
// @version 1.0
// @description Order intake, payment and fulfillment API for NFC sticker sales. Card payments run through Stripe checkout, bank transfers get numbered invoices, and every customer email is queued through a transactional outbox.

// @host localhost:8080
// @basePath /

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization

func main() {
	_ = godotenv.Load()
	cfg, err := configs.LoadConfig()
	if err != nil {
		logrus.Fatalf("config load: %s", err)
	}
	logrus.Print("config parsed")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := postgres.ConnectURL(cfg.PgDSN())
	if err != nil {
		logrus.Fatalf("postgres connect: %s", err)
	}
	defer func() {
		if derr := db.Close(); derr != nil {
			logrus.Errorf("db close: %v", derr)
		}
	}()
	logrus.Print("connected to postgres")

	if err := postgres.Migrate(db); err != nil {
		logrus.Fatalf("migrate: %s", err)
	}

	repo := repository.NewRepository(db)
	stripeClient := payment.NewStripeClient(cfg.StripeSecretKey, cfg.StripeWebhookSecret, cfg.SiteURL)
	svc := service.NewService(repo, stripeClient)

	store, err := storage.NewDiskStore(cfg.UploadDir)
	if err != nil {
		logrus.Fatalf("upload dir: %s", err)
	}

	pub := kafka.NewPublisher(cfg.KafkaBrokersSlice(), cfg.KafkaEmailTopic)
	defer func() {
		if cerr := pub.Close(); cerr != nil {
			logrus.Errorf("publisher close: %v", cerr)
		}
	}()

	dispatcher := outbox.NewDispatcher(repo.OutboxPostgres, pub)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := dispatcher.Run(ctx); err != nil {
			logrus.Errorf("outbox dispatcher stopped: %v", err)
			cancel()
		}
	}()
	logrus.Print("outbox dispatcher started")

	h := httpdelivery.NewHandler(httpdelivery.Deps{
		Service: svc,
		Auth: auth.NewManager(cfg.AdminPassword, cfg.SessionSecret,
			time.Duration(cfg.SessionTTLHours)*time.Hour),
		Verifier: stripeClient,
		Store:    store,
		Invoices: invoice.NewGenerator(invoice.Issuer{
			CompanyName:        cfg.InvoiceCompanyName,
			RegistrationNumber: cfg.InvoiceRegistrationNumber,
			Address:            cfg.InvoiceAddress,
			Phone:              cfg.InvoicePhone,
			Email:              cfg.InvoiceEmail,
			BankName:           cfg.BankName,
			BankBranch:         cfg.BankBranch,
			BankAccountType:    cfg.BankAccountType,
			BankAccountNumber:  cfg.BankAccountNumber,
			BankAccountHolder:  cfg.BankAccountHolder,
		}),
		PostalCodeEndpoint: cfg.PostalCodeEndpoint,
		MaxUploadBytes:     cfg.MaxUploadBytes,
		RenderInvoicePDF:   cfg.RenderInvoicePDF,
	})
	srv := new(httpdelivery.Server)

	go func() {
		if err := srv.Run(cfg.HTTPAddr, h.InitRoutes()); err != nil {
			logrus.Errorf("http run: %v", err)
			cancel()
		}
	}()
	logrus.Printf("http server started on %s", cfg.HTTPAddr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	select {
	case <-quit:
		logrus.Print("shutdown signal received")
	case <-ctx.Done():
		logrus.Print("context canceled, shutting down")
	}
	cancel()

	if err := srv.Shutdown(context.Background()); err != nil {
		logrus.Errorf("http shutdown: %s", err)
	}

	wg.Wait()
	logrus.Print("service stopped")
}
