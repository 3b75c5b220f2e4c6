package coupon

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Campaign types offered by the designer form.
const (
	HolidaySpecial  = "Holiday Special"
	CustomerLoyalty = "Customer Loyalty"
	FlashSale       = "Flash Sale"
	GrandOpening    = "Grand Opening"
	BridalPackage   = "Bridal Package"
)

// CampaignTypes lists the campaign categories in form order.
var CampaignTypes = []string{HolidaySpecial, CustomerLoyalty, FlashSale, GrandOpening, BridalPackage}

const (
	DefaultBusinessName  = "Spirit N Soul"
	DefaultDiscountType  = CustomerLoyalty
	DefaultDiscountValue = "20% DISCOUNT"
	DefaultValidityDays  = 30

	// ExpiryLayout is the human-readable date printed on the voucher.
	ExpiryLayout = "January 2, 2006"
	// FormDateLayout is the machine date accepted from the form.
	FormDateLayout = "2006-01-02"
)

var ErrInvalidRequest = errors.New("invalid coupon request")

// Data is the immutable field set drawn onto a voucher.
type Data struct {
	UserName      string `json:"userName"`
	Phone         string `json:"phone"`
	Email         string `json:"email,omitempty"`
	BusinessName  string `json:"businessName"`
	DiscountType  string `json:"discountType"`
	DiscountValue string `json:"discountValue"`
	SerialNumber  string `json:"serialNumber"`
	ExpiryDate    string `json:"expiryDate"`
}

// Generated pairs a composited image with the data it was built from.
type Generated struct {
	ID        string    `json:"id"`
	DataURL   string    `json:"dataUrl,omitempty"`
	Data      Data      `json:"data"`
	CreatedAt time.Time `json:"createdAt"`
}

// Request is the designer form before a serial is assigned.
type Request struct {
	UserName      string `json:"userName"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	BusinessName  string `json:"businessName"`
	DiscountType  string `json:"discountType"`
	DiscountValue string `json:"discountValue"`
	ExpiryDate    string `json:"expiryDate"` // YYYY-MM-DD
}

// WithDefaults fills the form defaults for blank optional fields.
func (r Request) WithDefaults(now time.Time) Request {
	if strings.TrimSpace(r.BusinessName) == "" {
		r.BusinessName = DefaultBusinessName
	}
	if strings.TrimSpace(r.DiscountType) == "" {
		r.DiscountType = DefaultDiscountType
	}
	if strings.TrimSpace(r.DiscountValue) == "" {
		r.DiscountValue = DefaultDiscountValue
	}
	if strings.TrimSpace(r.ExpiryDate) == "" {
		r.ExpiryDate = DefaultExpiry(now)
	}
	return r
}

// Validate reports the required fields that are missing or malformed.
func (r Request) Validate() error {
	var missing []string
	if strings.TrimSpace(r.UserName) == "" {
		missing = append(missing, "userName")
	}
	if strings.TrimSpace(r.Phone) == "" {
		missing = append(missing, "phone")
	}
	if strings.TrimSpace(r.BusinessName) == "" {
		missing = append(missing, "businessName")
	}
	if strings.TrimSpace(r.ExpiryDate) == "" {
		missing = append(missing, "expiryDate")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrInvalidRequest, strings.Join(missing, ", "))
	}
	if _, err := time.Parse(FormDateLayout, r.ExpiryDate); err != nil {
		return fmt.Errorf("%w: expiryDate %q is not YYYY-MM-DD", ErrInvalidRequest, r.ExpiryDate)
	}
	return nil
}

// ToData freezes the request into voucher data with the given serial.
// The request must have passed Validate.
func (r Request) ToData(serial string) Data {
	expiry := r.ExpiryDate
	if t, err := time.Parse(FormDateLayout, r.ExpiryDate); err == nil {
		expiry = FormatExpiry(t)
	}
	return Data{
		UserName:      strings.TrimSpace(r.UserName),
		Phone:         strings.TrimSpace(r.Phone),
		Email:         strings.TrimSpace(r.Email),
		BusinessName:  strings.TrimSpace(r.BusinessName),
		DiscountType:  r.DiscountType,
		DiscountValue: strings.TrimSpace(r.DiscountValue),
		SerialNumber:  serial,
		ExpiryDate:    expiry,
	}
}

// DefaultExpiry is the form default: 30 days from now.
func DefaultExpiry(now time.Time) string {
	return now.AddDate(0, 0, DefaultValidityDays).Format(FormDateLayout)
}

// FormatExpiry renders a date the way it is printed on the voucher.
func FormatExpiry(t time.Time) string {
	return t.Format(ExpiryLayout)
}

// DownloadName is the file name offered when saving the PNG.
func DownloadName(d Data) string {
	return "sn-voucher-" + d.SerialNumber + ".png"
}
