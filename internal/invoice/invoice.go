// Package invoice renders the bank-transfer invoice: an HTML document with
// the order's price tier, an inclusive 10% tax split, and the issuer's
// company and bank details.
package invoice

import (
	"bytes"
	_ "embed"
	"html/template"
	"time"

	"github.com/pkg/errors"

	"tapseal/internal/models"
	"tapseal/internal/pricing"
)

//go:embed templates/invoice.html
var invoiceTmpl string

// Issuer carries the company and bank details printed on every invoice.
type Issuer struct {
	CompanyName        string
	RegistrationNumber string
	Address            string
	Phone              string
	Email              string

	BankName          string
	BankBranch        string
	BankAccountType   string
	BankAccountNumber string
	BankAccountHolder string
}

type Generator struct {
	issuer Issuer
	tmpl   *template.Template
	now    func() time.Time
}

func NewGenerator(issuer Issuer) *Generator {
	return &Generator{
		issuer: issuer,
		tmpl:   template.Must(template.New("invoice").Parse(invoiceTmpl)),
		now:    time.Now,
	}
}

type templateData struct {
	Order  models.Order
	Issuer Issuer

	IssueDate string
	DueDate   string

	UnitPrice int
	Subtotal  int
	Shipping  int
	Total     int
	PreTax    int
	Tax       int

	RecipientName string
}

func formatDateJP(t time.Time) string {
	return t.Format("2006年1月2日")
}

// Render produces the invoice HTML for a bank-transfer order. Payment is due
// fourteen days from issue.
func (g *Generator) Render(ord models.Order) (string, error) {
	price, err := pricing.Calculate(ord.Quantity)
	if err != nil {
		return "", errors.Wrap(err, "invoice pricing")
	}
	preTax, tax := pricing.TaxSplit(price.Total)

	now := g.now()
	recipient := ord.InvoiceRecipientName
	if recipient == "" {
		recipient = ord.CustomerName
	}

	var buf bytes.Buffer
	data := templateData{
		Order:         ord,
		Issuer:        g.issuer,
		IssueDate:     formatDateJP(now),
		DueDate:       formatDateJP(now.AddDate(0, 0, 14)),
		UnitPrice:     price.UnitPrice,
		Subtotal:      price.Subtotal,
		Shipping:      price.Shipping,
		Total:         price.Total,
		PreTax:        preTax,
		Tax:           tax,
		RecipientName: recipient,
	}
	if err := g.tmpl.Execute(&buf, data); err != nil {
		return "", errors.Wrap(err, "invoice template")
	}
	return buf.String(), nil
}
