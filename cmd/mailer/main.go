package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"tapseal/internal/configs"
	"tapseal/internal/delivery/kafka"
	"tapseal/internal/email"
	"tapseal/internal/invoice"
)

func main() {
	_ = godotenv.Load()
	cfg, err := configs.LoadConfig()
	if err != nil {
		logrus.Fatalf("config load: %s", err)
	}
	logrus.Print("config parsed")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	gen := invoice.NewGenerator(invoice.Issuer{
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
	})
	composer := email.NewComposer(gen, cfg.RenderInvoicePDF)
	sender := email.NewResendSender(cfg.ResendAPIKey, cfg.ResendFromEmail, cfg.ResendFromName)
	processor := email.NewProcessor(composer, sender)

	consumer := kafka.NewConsumer(kafka.Config{
		Brokers:    cfg.KafkaBrokersSlice(),
		GroupID:    cfg.KafkaGroupID,
		Topic:      cfg.KafkaEmailTopic,
		DLQ:        cfg.KafkaEmailDLQ,
		MaxRetries: 5,
	}, processor)
	defer func() {
		if cerr := consumer.Close(); cerr != nil {
			logrus.Errorf("kafka close: %v", cerr)
		}
	}()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := consumer.Subscribe(ctx); err != nil {
			logrus.Errorf("consumer stopped: %v", err)
			cancel()
		}
	}()
	logrus.Print("kafka subscription started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	select {
	case <-quit:
		logrus.Print("shutdown signal received")
	case <-ctx.Done():
		logrus.Print("context canceled, shutting down")
	}
	cancel()

	wg.Wait()
	logrus.Print("mailer stopped")
}
