package models

import (
	"fmt"
	"time"
)

// FormatInvoiceNumber renders the per-day sequential invoice id, e.g.
// INV-20260901-0001.
func FormatInvoiceNumber(day time.Time, seq int) string {
	return fmt.Sprintf("INV-%s-%04d", day.Format("20060102"), seq)
}
