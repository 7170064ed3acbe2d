// Package email turns outbox jobs into rendered messages and sends them
// through the transactional email provider.
package email

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"tapseal/internal/invoice"
	"tapseal/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

type Attachment struct {
	Filename string
	Content  []byte
}

type Message struct {
	To          string
	Subject     string
	HTML        string
	Attachments []Attachment
}

// Composer renders the customer-facing mails. Bank-transfer confirmations
// carry the invoice as an attachment, as PDF when headless chrome is
// available and as HTML otherwise.
type Composer struct {
	tmpl      *template.Template
	inv       *invoice.Generator
	renderPDF bool
}

func NewComposer(inv *invoice.Generator, renderPDF bool) *Composer {
	return &Composer{
		tmpl:      template.Must(template.ParseFS(templateFS, "templates/*.html")),
		inv:       inv,
		renderPDF: renderPDF,
	}
}

type templateData struct {
	Order        models.Order
	OrderDate    string
	BankTransfer bool
}

func (c *Composer) Compose(ctx context.Context, job models.EmailJob) (Message, error) {
	ord := job.Order

	var name, subject string
	switch job.Kind {
	case models.EmailOrderConfirmation:
		name = "confirmation.html"
		subject = "【ワンタップシール】ご注文ありがとうございます"
	case models.EmailPaymentConfirmed:
		name = "payment_confirmed.html"
		subject = "【ワンタップシール】ご入金を確認いたしました"
	case models.EmailOrderShipped:
		name = "shipped.html"
		subject = "【ワンタップシール】商品を発送いたしました"
	default:
		return Message{}, errors.Errorf("unknown email kind %q", job.Kind)
	}

	data := templateData{
		Order:        ord,
		OrderDate:    ord.CreatedAt.Format("2006/01/02 15:04"),
		BankTransfer: ord.PaymentMethod == models.PaymentBankTransfer,
	}

	var buf bytes.Buffer
	if err := c.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return Message{}, errors.Wrapf(err, "render %s", name)
	}

	msg := Message{
		To:      ord.CustomerEmail,
		Subject: subject,
		HTML:    buf.String(),
	}

	if job.Kind == models.EmailOrderConfirmation && data.BankTransfer {
		att, err := c.invoiceAttachment(ctx, ord)
		if err != nil {
			return Message{}, err
		}
		msg.Attachments = append(msg.Attachments, att)
	}
	return msg, nil
}

func (c *Composer) invoiceAttachment(ctx context.Context, ord models.Order) (Attachment, error) {
	html, err := c.inv.Render(ord)
	if err != nil {
		return Attachment{}, errors.Wrap(err, "render invoice")
	}

	if c.renderPDF {
		pdf, err := invoice.RenderPDF(ctx, html)
		if err == nil {
			return Attachment{
				Filename: fmt.Sprintf("%s.pdf", ord.InvoiceNumber),
				Content:  pdf,
			}, nil
		}
		logrus.WithError(err).Warn("invoice pdf render failed, attaching html")
	}

	return Attachment{
		Filename: fmt.Sprintf("%s.html", ord.InvoiceNumber),
		Content:  []byte(html),
	}, nil
}
