// Package export renders monthly order reports as xlsx workbooks for the
// admin dashboard.
package export

import (
	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"tapseal/internal/models"
)

const sheet = "Orders"

var headers = []string{
	"注文番号", "注文日", "ステータス", "枚数", "URL",
	"顧客名", "会社名", "メール", "電話番号", "住所",
	"支払方法", "支払状況", "金額", "請求書番号", "追跡番号",
}

// Workbook lays the orders out one row each, newest input order preserved.
func Workbook(orders []models.Order) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, errors.Wrap(err, "rename sheet")
	}

	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, errors.Wrap(err, "write header")
		}
	}

	for r, o := range orders {
		row := []interface{}{
			o.ID,
			o.CreatedAt.Format("2006/01/02 15:04"),
			string(o.Status),
			o.Quantity,
			o.URL,
			o.CustomerName,
			o.CustomerCompanyName,
			o.CustomerEmail,
			o.CustomerPhone,
			o.CustomerAddress,
			string(o.PaymentMethod),
			string(o.PaymentStatus),
			o.PaymentAmount,
			o.InvoiceNumber,
			o.TrackingNumber,
		}
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, errors.Wrap(err, "write cell")
			}
		}
	}
	return f, nil
}
