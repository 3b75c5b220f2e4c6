package coupon

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWhatsAppLink(t *testing.T) {
	link := WhatsAppLink("+1 (555) 000-1234", "Hi there & welcome")
	assert.Equal(t, "https://wa.me/15550001234?text=Hi%20there%20%26%20welcome", link)

	assert.True(t, strings.HasPrefix(WhatsAppLink("", "x"), "https://wa.me/?text="))
	assert.True(t, strings.HasPrefix(WhatsAppLink("n/a", "x"), "https://wa.me/?text="))
}

func TestShareMessages(t *testing.T) {
	m := NewMessenger()
	d := Data{
		UserName:      "Jane Doe",
		Phone:         "555 0100",
		BusinessName:  "Spirit N Soul",
		DiscountValue: "50% OFF",
		SerialNumber:  "SN-ABC123XYZ",
		ExpiryDate:    "July 4, 2026",
	}

	msg, err := m.ShareMessage(d)
	require.NoError(t, err)
	assert.Contains(t, msg, "Hello Jane Doe!")
	assert.Contains(t, msg, "Benefit: 50% OFF")
	assert.Contains(t, msg, "Valid Until: July 4, 2026")

	re, err := m.ReshareMessage(d)
	require.NoError(t, err)
	assert.Equal(t, "Resending your coupon from Spirit N Soul!\nValue: 50% OFF\nSerial: SN-ABC123XYZ", re)

	link, err := m.ReshareLink(d)
	require.NoError(t, err)
	u, err := url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, "/5550100", u.Path)
	assert.Equal(t, re, u.Query().Get("text"))

	link, err = m.ShareLink(d)
	require.NoError(t, err)
	assert.Contains(t, link, "https://wa.me/5550100?text=")
}
