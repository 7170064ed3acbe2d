package invoice

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"tapseal/internal/models"
)

func testIssuer() Issuer {
	return Issuer{
		CompanyName:        "株式会社Senrigan",
		RegistrationNumber: "T0000000000000",
		Address:            "広島県広島市安佐南区山本2-3-35",
		Email:              "contact@1tapseal.com",
		BankName:           "テスト銀行",
		BankBranch:         "本店",
		BankAccountType:    "普通",
		BankAccountNumber:  "1234567",
		BankAccountHolder:  "カ）センリガン",
	}
}

func bankOrder(qty int) models.Order {
	return models.Order{
		ID:                   "11111111-1111-1111-1111-111111111111",
		Quantity:             qty,
		PaymentMethod:        models.PaymentBankTransfer,
		InvoiceNumber:        "INV-20260901-0001",
		InvoiceRecipientName: "株式会社テスト 山田太郎",
		InvoicePostalCode:    "1000001",
		InvoiceAddress:       "東京都千代田区千代田1-1",
		CustomerName:         "山田太郎",
	}
}

func TestRender_TaxSplitAndTotals(t *testing.T) {
	g := NewGenerator(testIssuer())
	g.now = func() time.Time { return time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC) }

	// qty 10 -> unit 528, subtotal 5280, total 5500, tax 500, pre-tax 5000
	html, err := g.Render(bankOrder(10))
	require.NoError(t, err)

	require.Contains(t, html, "INV-20260901-0001")
	require.Contains(t, html, "&yen;528")
	require.Contains(t, html, "&yen;5280")
	require.Contains(t, html, "&yen;5500")
	require.Contains(t, html, "&yen;500")
	require.Contains(t, html, "&yen;5000")
	require.Contains(t, html, "株式会社テスト 山田太郎 御中")
	require.Contains(t, html, "テスト銀行 本店")
}

func TestRender_Dates(t *testing.T) {
	g := NewGenerator(testIssuer())
	g.now = func() time.Time { return time.Date(2026, 1, 20, 9, 0, 0, 0, time.UTC) }

	html, err := g.Render(bankOrder(1))
	require.NoError(t, err)

	require.Contains(t, html, "2026年1月20日")
	require.Contains(t, html, "2026年2月3日", "due date is issue + 14 days")
}

func TestRender_RecipientFallsBackToCustomer(t *testing.T) {
	g := NewGenerator(testIssuer())
	ord := bankOrder(5)
	ord.InvoiceRecipientName = ""

	html, err := g.Render(ord)
	require.NoError(t, err)
	require.Contains(t, html, "山田太郎 御中")
}

func TestRender_QuantityOutOfRange(t *testing.T) {
	g := NewGenerator(testIssuer())
	_, err := g.Render(bankOrder(100))
	require.Error(t, err)
}

func TestFormatInvoiceNumber(t *testing.T) {
	day := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	require.Equal(t, "INV-20260901-0001", models.FormatInvoiceNumber(day, 1))
	require.Equal(t, "INV-20260901-0042", models.FormatInvoiceNumber(day, 42))
	require.False(t, strings.Contains(models.FormatInvoiceNumber(day, 1234), "01234"))
}
