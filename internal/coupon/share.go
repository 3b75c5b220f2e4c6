package coupon

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/osteele/liquid"
)

const shareTemplate = `✨ Hello {{ userName }}! Your exclusive voucher from {{ businessName }} is ready.

🎁 Benefit: {{ discountValue }}
🆔 ID: {{ serialNumber }}
📅 Valid Until: {{ expiryDate }}

Redeem at our Salon and Boutique!`

const reshareTemplate = `Resending your coupon from {{ businessName }}!
Value: {{ discountValue }}
Serial: {{ serialNumber }}`

var nonDigits = regexp.MustCompile(`\D`)

// Messenger renders share messages and wa.me links for vouchers.
type Messenger struct {
	engine *liquid.Engine
}

func NewMessenger() *Messenger {
	return &Messenger{engine: liquid.NewEngine()}
}

// ShareMessage is the text sent with a freshly designed voucher.
func (m *Messenger) ShareMessage(d Data) (string, error) {
	return m.render(shareTemplate, d)
}

// ReshareMessage is the shorter text used when resending from the records list.
func (m *Messenger) ReshareMessage(d Data) (string, error) {
	return m.render(reshareTemplate, d)
}

// ShareLink returns the WhatsApp link for a freshly designed voucher.
func (m *Messenger) ShareLink(d Data) (string, error) {
	msg, err := m.ShareMessage(d)
	if err != nil {
		return "", err
	}
	return WhatsAppLink(d.Phone, msg), nil
}

// ReshareLink returns the WhatsApp link used to resend a saved voucher.
func (m *Messenger) ReshareLink(d Data) (string, error) {
	msg, err := m.ReshareMessage(d)
	if err != nil {
		return "", err
	}
	return WhatsAppLink(d.Phone, msg), nil
}

func (m *Messenger) render(tpl string, d Data) (string, error) {
	bindings := map[string]any{
		"userName":      d.UserName,
		"businessName":  d.BusinessName,
		"discountType":  d.DiscountType,
		"discountValue": d.DiscountValue,
		"serialNumber":  d.SerialNumber,
		"expiryDate":    d.ExpiryDate,
	}
	out, err := m.engine.ParseAndRenderString(tpl, bindings)
	if err != nil {
		return "", err
	}
	return out, nil
}

// WhatsAppLink builds a wa.me link. A phone without digits opens the
// contact picker instead of a specific chat.
func WhatsAppLink(phone, message string) string {
	text := strings.ReplaceAll(url.QueryEscape(message), "+", "%20")
	digits := nonDigits.ReplaceAllString(phone, "")
	if digits == "" {
		return "https://wa.me/?text=" + text
	}
	return "https://wa.me/" + digits + "?text=" + text
}
