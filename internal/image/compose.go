package imagepkg

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"golang.org/x/sync/errgroup"

	"github.com/spiritnsoul/couponart/internal/coupon"
	"github.com/spiritnsoul/couponart/internal/logger"
)

// Layout constants in base-canvas pixels (1200x675).
const (
	cardMargin      = 50.0
	cardRadius      = 28.0
	cardBorderWidth = 6.0
	textPadding     = 60.0

	watermarkScale   = 0.55 // of card height
	watermarkOpacity = 0.04
	monogramOpacity  = 0.05

	businessY, businessSize   = 128.0, 48.0
	dividerY, dividerHalf     = 170.0, 100.0
	dividerWidth              = 4.0
	campaignY, campaignSize   = 212.0, 28.0
	heroY, heroSize           = 315.0, 112.0
	recipientY, recipientSize = 420.0, 36.0
	dashY, dashHalf           = 465.0, 300.0
	dashWidth                 = 2.0
	serialY, serialSize       = 508.0, 24.0
	expiryY, expirySize       = 546.0, 22.0
	emailY, emailSize         = 585.0, 18.0

	recipientLabel = "EXCLUSIVELY FOR: "
	serialLabel    = "SERIAL: "
	expiryLabel    = "VALID UNTIL: "

	DefaultMonogram    = "SN"
	DefaultLoadTimeout = 15 * time.Second
)

var (
	cardFill    = color.NRGBA{R: 0xfd, G: 0xfc, B: 0xfb, A: 0xf0}
	cardBorder  = hex(0x1e293b)
	accent      = hex(0xb68d40)
	inkDark     = hex(0x1e293b)
	inkMuted    = hex(0x64748b)
	inkLight    = hex(0x94a3b8)
	inkFaint    = hex(0xcbd5e1)
	errNoSource = errors.New("no watermark configured")
)

// Layout reports measurements taken while compositing.
type Layout struct {
	HeroBaseSize      float64 // requested hero font size, px
	HeroFontSize      float64 // size actually drawn, px
	HeroWidth         float64 // measured hero width at HeroFontSize
	HeroTruncated     bool    // hero text cut with an ellipsis at the minimum size
	MaxTextWidth      float64 // card width minus side padding
	WatermarkFallback bool    // monogram typography drawn instead of the image
}

// Result is a composited voucher.
type Result struct {
	png    []byte
	Layout Layout
}

// PNG returns the encoded voucher.
func (r *Result) PNG() []byte { return r.png }

// DataURI returns the voucher as a data:image/png;base64 URI.
func (r *Result) DataURI() string { return DataURI(r.png) }

// Compositor layers background, card, watermark and text into a voucher.
// It holds no per-request state and is safe for concurrent use.
type Compositor struct {
	canvas      Canvas
	watermark   Source
	monogram    string
	loadTimeout time.Duration
}

type Option func(*Compositor)

func WithCanvas(c Canvas) Option { return func(cp *Compositor) { cp.canvas = c } }

// WithWatermark replaces the embedded monogram asset. nil always uses the
// typographic fallback.
func WithWatermark(src Source) Option { return func(cp *Compositor) { cp.watermark = src } }

// WithMonogram sets the fallback monogram text. Empty keeps DefaultMonogram.
func WithMonogram(m string) Option {
	return func(cp *Compositor) {
		if m != "" {
			cp.monogram = m
		}
	}
}

// WithLoadTimeout bounds the concurrent resource loads. Zero disables it.
func WithLoadTimeout(d time.Duration) Option { return func(cp *Compositor) { cp.loadTimeout = d } }

func NewCompositor(opts ...Option) *Compositor {
	c := &Compositor{
		canvas:      DefaultCanvas,
		watermark:   EmbeddedWatermark(),
		monogram:    DefaultMonogram,
		loadTimeout: DefaultLoadTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type loaded struct {
	background   image.Image
	watermark    image.Image
	watermarkErr error
}

// Composite draws a voucher for d over the background. A background that
// cannot be loaded fails with ErrBackgroundLoad; a watermark that cannot be
// loaded is logged and replaced by monogram typography.
func (c *Compositor) Composite(ctx context.Context, background Source, d coupon.Data) (*Result, error) {
	if !c.canvas.valid() {
		return nil, ErrCanvas
	}
	if background == nil {
		return nil, fmt.Errorf("%w: no background source", ErrBackgroundLoad)
	}

	res, err := c.load(ctx, background)
	if err != nil {
		return nil, err
	}

	log := logger.From(ctx)
	if res.watermarkErr != nil || emptyBounds(res.watermark) {
		log.Warn().Err(res.watermarkErr).Msg("watermark unavailable, drawing monogram fallback")
		res.watermark = nil
	}

	dc, err := c.canvas.context()
	if err != nil {
		return nil, err
	}
	layout, err := c.render(dc, res, d)
	if err != nil {
		return nil, err
	}
	png, err := encodePNG(dc)
	if err != nil {
		return nil, fmt.Errorf("encode voucher: %w", err)
	}

	log.Debug().
		Str("serial", d.SerialNumber).
		Float64("hero_font_size", layout.HeroFontSize).
		Bool("watermark_fallback", layout.WatermarkFallback).
		Int("bytes", len(png)).
		Msg("voucher composited")

	return &Result{png: png, Layout: layout}, nil
}

// load fetches background and watermark concurrently and returns once both
// have settled. Only the background can fail the join.
func (c *Compositor) load(ctx context.Context, background Source) (loaded, error) {
	if c.loadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.loadTimeout)
		defer cancel()
	}

	var res loaded
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		img, err := background.Load(gctx)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrBackgroundLoad, err)
		}
		if emptyBounds(img) {
			return fmt.Errorf("%w: empty image", ErrBackgroundLoad)
		}
		res.background = img
		return nil
	})
	g.Go(func() error {
		if c.watermark == nil {
			res.watermarkErr = errNoSource
			return nil
		}
		res.watermark, res.watermarkErr = c.watermark.Load(gctx)
		return nil
	})
	if err := g.Wait(); err != nil {
		return loaded{}, err
	}
	return res, nil
}

func (c *Compositor) render(dc *gg.Context, res loaded, d coupon.Data) (Layout, error) {
	cv := c.canvas
	w, h := float64(cv.Width), float64(cv.Height)

	dc.DrawImage(fitCanvas(res.background, cv), 0, 0)

	cardX, cardY := cv.X(cardMargin), cv.Y(cardMargin)
	cardW, cardH := w-2*cardX, h-2*cardY
	dc.DrawRoundedRectangle(cardX, cardY, cardW, cardH, cv.S(cardRadius))
	dc.SetColor(cardFill)
	dc.FillPreserve()
	dc.SetColor(cardBorder)
	dc.SetLineWidth(cv.S(cardBorderWidth))
	dc.Stroke()

	layout := Layout{
		HeroBaseSize: cv.S(heroSize),
		MaxTextWidth: cardW - 2*cv.X(textPadding),
	}

	cx, cy := cardX+cardW/2, cardY+cardH/2
	if res.watermark != nil {
		c.drawWatermark(dc, res.watermark, cx, cy, cardH*watermarkScale)
	} else {
		layout.WatermarkFallback = true
		if err := c.drawMonogram(dc, cx, cy, cardH*watermarkScale); err != nil {
			return Layout{}, err
		}
	}

	limit := layout.MaxTextWidth
	if _, err := c.drawText(dc, strings.ToUpper(d.BusinessName), styleBold, businessSize, inkDark, businessY, limit); err != nil {
		return Layout{}, err
	}

	dc.SetColor(accent)
	dc.SetLineWidth(cv.S(dividerWidth))
	dc.DrawLine(w/2-cv.X(dividerHalf), cv.Y(dividerY), w/2+cv.X(dividerHalf), cv.Y(dividerY))
	dc.Stroke()

	if _, err := c.drawText(dc, strings.ToUpper(d.DiscountType), styleMedium, campaignSize, inkMuted, campaignY, limit); err != nil {
		return Layout{}, err
	}

	hero, err := c.drawText(dc, strings.ToUpper(d.DiscountValue), styleBold, heroSize, accent, heroY, limit)
	if err != nil {
		return Layout{}, err
	}
	layout.HeroFontSize, layout.HeroWidth, layout.HeroTruncated = hero.size, hero.width, hero.truncated

	if _, err := c.drawText(dc, recipientLabel+strings.ToUpper(d.UserName), styleMedium, recipientSize, inkDark, recipientY, limit); err != nil {
		return Layout{}, err
	}

	dc.SetColor(inkFaint)
	dc.SetLineWidth(cv.S(dashWidth))
	dc.SetDash(cv.S(12), cv.S(8))
	dc.DrawLine(w/2-cv.X(dashHalf), cv.Y(dashY), w/2+cv.X(dashHalf), cv.Y(dashY))
	dc.Stroke()
	dc.SetDash()

	if _, err := c.drawText(dc, serialLabel+d.SerialNumber, styleRegular, serialSize, inkMuted, serialY, limit); err != nil {
		return Layout{}, err
	}
	if _, err := c.drawText(dc, expiryLabel+d.ExpiryDate, styleRegular, expirySize, inkLight, expiryY, limit); err != nil {
		return Layout{}, err
	}
	if email := strings.TrimSpace(d.Email); email != "" {
		if _, err := c.drawText(dc, strings.ToLower(email), styleItalic, emailSize, inkFaint, emailY, limit); err != nil {
			return Layout{}, err
		}
	}

	return layout, nil
}

// drawText centres s horizontally at base-canvas row y, shrinking the font
// until it fits maxWidth.
func (c *Compositor) drawText(dc *gg.Context, s string, style fontStyle, size float64, col color.Color, y, maxWidth float64) (textFit, error) {
	face, fit, err := fitFace(style, c.canvas.S(size), maxWidth, s)
	if err != nil {
		return textFit{}, err
	}
	defer face.Close()

	dc.SetFontFace(face)
	dc.SetColor(col)
	dc.DrawStringAnchored(fit.text, float64(c.canvas.Width)/2, c.canvas.Y(y), 0.5, 0.5)
	return fit, nil
}

// drawWatermark scales wm so its longer side equals size and draws it
// faded, centred on (cx, cy).
func (c *Compositor) drawWatermark(dc *gg.Context, wm image.Image, cx, cy, size float64) {
	b := wm.Bounds()
	scale := size / math.Max(float64(b.Dx()), float64(b.Dy()))
	tw := max(1, int(math.Round(float64(b.Dx())*scale)))
	th := max(1, int(math.Round(float64(b.Dy())*scale)))

	scaled := imaging.Resize(wm, tw, th, imaging.Lanczos)
	faded := imaging.AdjustFunc(scaled, func(px color.NRGBA) color.NRGBA {
		px.A = uint8(float64(px.A)*watermarkOpacity + 0.5)
		return px
	})
	dc.DrawImageAnchored(faded, int(math.Round(cx)), int(math.Round(cy)), 0.5, 0.5)
}

// drawMonogram is the typographic stand-in for the watermark image, drawn
// at the same anchor and size.
func (c *Compositor) drawMonogram(dc *gg.Context, cx, cy, size float64) error {
	face, err := newFace(styleBold, size*0.5)
	if err != nil {
		return err
	}
	defer face.Close()

	dc.SetColor(withAlpha(accent, monogramOpacity))
	dc.SetLineWidth(c.canvas.S(cardBorderWidth))
	dc.DrawCircle(cx, cy, size/2)
	dc.Stroke()

	dc.SetFontFace(face)
	dc.DrawStringAnchored(c.monogram, cx, cy, 0.5, 0.5)
	return nil
}

// fitCanvas stretches img to the canvas. The aspect ratio is fixed, so no
// letterboxing is done.
func fitCanvas(img image.Image, cv Canvas) image.Image {
	b := img.Bounds()
	if b.Dx() != cv.Width || b.Dy() != cv.Height {
		return imaging.Resize(img, cv.Width, cv.Height, imaging.Lanczos)
	}
	if b.Min != (image.Point{}) {
		return imaging.Clone(img)
	}
	return img
}
