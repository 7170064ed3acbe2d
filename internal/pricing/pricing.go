// Package pricing holds the sticker price table and the inclusive-tax
// arithmetic shared by checkout and invoicing.
package pricing

import "errors"

const (
	// ShippingFee is flat per order, in yen.
	ShippingFee = 220

	// MaxQuantity is the largest order the price table covers. Bigger runs
	// are quoted manually by sales.
	MaxQuantity = 99

	taxPercent = 10
)

var ErrQuantityOutOfRange = errors.New("quantity out of range")

type Price struct {
	UnitPrice int `json:"unitPrice"`
	Subtotal  int `json:"subtotal"`
	Shipping  int `json:"shipping"`
	Total     int `json:"total"`
}

// Calculate prices an order of qty stickers. Unit price drops at ten and
// fifty units; quantities above MaxQuantity are out of range.
func Calculate(qty int) (Price, error) {
	if qty < 1 || qty > MaxQuantity {
		return Price{}, ErrQuantityOutOfRange
	}

	unit := 550
	switch {
	case qty >= 50:
		unit = 462
	case qty >= 10:
		unit = 528
	}

	subtotal := unit * qty
	return Price{
		UnitPrice: unit,
		Subtotal:  subtotal,
		Shipping:  ShippingFee,
		Total:     subtotal + ShippingFee,
	}, nil
}

// TaxSplit breaks a tax-inclusive total into its pre-tax and 10% tax parts,
// tax rounded down as the invoice requires.
func TaxSplit(total int) (preTax, tax int) {
	tax = total * taxPercent / (100 + taxPercent)
	return total - tax, tax
}
