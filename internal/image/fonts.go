package imagepkg

import (
	"fmt"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

type fontStyle int

const (
	styleRegular fontStyle = iota
	styleMedium
	styleBold
	styleItalic
)

// minFontSize bounds shrink-to-fit.
const minFontSize = 1.0

var fontSources = map[fontStyle][]byte{
	styleRegular: goregular.TTF,
	styleMedium:  gomedium.TTF,
	styleBold:    gobold.TTF,
	styleItalic:  goitalic.TTF,
}

var (
	fontsOnce sync.Once
	fonts     map[fontStyle]*opentype.Font
	fontsErr  error
)

func parsedFont(style fontStyle) (*opentype.Font, error) {
	fontsOnce.Do(func() {
		fonts = make(map[fontStyle]*opentype.Font, len(fontSources))
		for s, src := range fontSources {
			f, err := opentype.Parse(src)
			if err != nil {
				fontsErr = fmt.Errorf("parse font %d: %w", s, err)
				return
			}
			fonts[s] = f
		}
	})
	if fontsErr != nil {
		return nil, fontsErr
	}
	return fonts[style], nil
}

// newFace returns a face at size px. Faces are not safe for concurrent use,
// so each composite builds its own.
func newFace(style fontStyle, size float64) (font.Face, error) {
	f, err := parsedFont(style)
	if err != nil {
		return nil, err
	}
	return opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
}

func measure(face font.Face, s string) float64 {
	return float64(font.MeasureString(face, s)) / 64
}

// ellipsis marks text cut at the minimum font size.
const ellipsis = "…"

// textFit describes how a line was fitted to its width.
type textFit struct {
	text      string  // text to draw, possibly cut
	size      float64 // font size, px
	width     float64 // measured width of text at size
	truncated bool
}

// fitFace returns a face for text at the requested size, shrunk
// proportionally until the measured width fits maxWidth. Text that still
// overflows at minFontSize is cut and ends with an ellipsis, so the fitted
// width never exceeds maxWidth.
func fitFace(style fontStyle, size, maxWidth float64, text string) (font.Face, textFit, error) {
	face, err := newFace(style, size)
	if err != nil {
		return nil, textFit{}, err
	}
	width := measure(face, text)
	for width > maxWidth && size > minFontSize {
		next := size * maxWidth / width
		if next > size*0.99 {
			next = size * 0.99
		}
		if next < minFontSize {
			next = minFontSize
		}
		size = next
		face.Close()
		if face, err = newFace(style, size); err != nil {
			return nil, textFit{}, err
		}
		width = measure(face, text)
	}
	fit := textFit{text: text, size: size, width: width}
	if width > maxWidth {
		fit.text, fit.width = truncate(face, text, maxWidth)
		fit.truncated = true
	}
	return face, fit, nil
}

// truncate returns the longest rune prefix of text that, followed by an
// ellipsis, fits maxWidth. If not even the ellipsis fits it returns "".
func truncate(face font.Face, text string, maxWidth float64) (string, float64) {
	runes := []rune(text)
	lo, hi := 0, len(runes)
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if measure(face, string(runes[:mid])+ellipsis) <= maxWidth {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	cut := string(runes[:lo]) + ellipsis
	if w := measure(face, cut); w <= maxWidth {
		return cut, w
	}
	return "", 0
}
