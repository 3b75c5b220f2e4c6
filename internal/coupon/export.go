package coupon

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"time"
)

var exportHeader = []string{
	"serialNumber", "userName", "phone", "email", "businessName",
	"discountType", "discountValue", "expiryDate", "createdAt",
}

// ExportCSV writes record metadata as CSV. Images are not included.
func ExportCSV(w io.Writer, records []Generated) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return err
	}
	for _, r := range records {
		d := r.Data
		row := []string{
			d.SerialNumber, d.UserName, d.Phone, d.Email, d.BusinessName,
			d.DiscountType, d.DiscountValue, d.ExpiryDate,
			r.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportJSON writes the records, images included, as an indented JSON array.
func ExportJSON(w io.Writer, records []Generated) error {
	if records == nil {
		records = []Generated{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}
