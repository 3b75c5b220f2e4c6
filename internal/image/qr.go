package imagepkg

import (
	"bytes"
	"fmt"
	"image/png"

	qrcode "github.com/skip2/go-qrcode"
)

const (
	DefaultQRSize = 400
	minQRSize     = 64
	maxQRSize     = 2048
)

// GenerateQRPNG returns PNG bytes of a QR code for text, typically a
// reshare link. size is clamped to a sane range.
func GenerateQRPNG(text string, size int) ([]byte, error) {
	switch {
	case size <= 0:
		size = DefaultQRSize
	case size < minQRSize:
		size = minQRSize
	case size > maxQRSize:
		size = maxQRSize
	}
	pngBytes, err := qrcode.Encode(text, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("qr encode: %w", err)
	}
	// validate png decode
	if _, err := png.Decode(bytes.NewReader(pngBytes)); err != nil {
		return nil, fmt.Errorf("qr decode check: %w", err)
	}
	return pngBytes, nil
}
