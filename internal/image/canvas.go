package imagepkg

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"

	"github.com/fogleman/gg"
)

// Layout offsets are authored against this base canvas and scaled to the
// configured one.
const (
	baseWidth  = 1200.0
	baseHeight = 675.0
)

var (
	// ErrCanvas means no drawing surface could be created.
	ErrCanvas = errors.New("could not acquire drawing context")
	// ErrBackgroundLoad means the background image could not be loaded or decoded.
	ErrBackgroundLoad = errors.New("background load failed")
)

// Canvas is the output raster size. Both images share it.
type Canvas struct {
	Width  int
	Height int
}

// DefaultCanvas is the 16:9 voucher size.
var DefaultCanvas = Canvas{Width: 1200, Height: 675}

func (c Canvas) valid() bool {
	return c.Width > 0 && c.Height > 0
}

// X scales a base-canvas horizontal offset.
func (c Canvas) X(v float64) float64 { return v * float64(c.Width) / baseWidth }

// Y scales a base-canvas vertical offset.
func (c Canvas) Y(v float64) float64 { return v * float64(c.Height) / baseHeight }

// S scales a size that must keep its aspect (fonts, radii, line widths).
func (c Canvas) S(v float64) float64 {
	sx := float64(c.Width) / baseWidth
	sy := float64(c.Height) / baseHeight
	if sx < sy {
		return v * sx
	}
	return v * sy
}

func (c Canvas) context() (*gg.Context, error) {
	if !c.valid() {
		return nil, ErrCanvas
	}
	return gg.NewContext(c.Width, c.Height), nil
}

func encodePNG(dc *gg.Context) ([]byte, error) {
	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DataURI wraps PNG bytes as an embeddable data URI.
func DataURI(png []byte) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)
}

func emptyBounds(img image.Image) bool {
	return img == nil || img.Bounds().Empty()
}
