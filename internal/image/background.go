package imagepkg

import (
	"context"
	"image"
	"math"
	"math/rand/v2"

	"github.com/fogleman/gg"

	"github.com/spiritnsoul/couponart/internal/logger"
)

const (
	grainCount       = 5000
	grainMaxAlpha    = 0.05
	decorCircles     = 5
	decorCircleAlpha = 0.03
	decorMaxRadius   = 300.0
	luxuryArcAlpha   = 0.12
	luxuryArcWidth   = 2.0
	gradientCenterX  = 0.7
	gradientCenterY  = 0.2
)

// Background is a synthesized, PNG-encoded decorative image.
// It implements Source so it can be handed straight to a Compositor.
type Background struct {
	img image.Image
	png []byte
}

// PNG returns the encoded image.
func (b *Background) PNG() []byte { return b.png }

// DataURI returns the image as a data:image/png;base64 URI.
func (b *Background) DataURI() string { return DataURI(b.png) }

// Bounds returns the image dimensions.
func (b *Background) Bounds() image.Rectangle { return b.img.Bounds() }

// Load implements Source.
func (b *Background) Load(ctx context.Context) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return b.img, nil
}

// Synthesizer draws procedural backgrounds. Output is intentionally random.
type Synthesizer struct {
	canvas Canvas
}

func NewSynthesizer(canvas Canvas) *Synthesizer {
	return &Synthesizer{canvas: canvas}
}

// Generate renders a background for the campaign type. Any label is
// accepted; unknown ones use the default palette.
func (s *Synthesizer) Generate(ctx context.Context, campaignType string) (*Background, error) {
	dc, err := s.canvas.context()
	if err != nil {
		return nil, err
	}
	p := PaletteFor(campaignType)
	w, h := float64(s.canvas.Width), float64(s.canvas.Height)

	cx, cy := w*gradientCenterX, h*gradientCenterY
	grad := gg.NewRadialGradient(cx, cy, 0, cx, cy, w)
	grad.AddColorStop(0, p.Highlight)
	grad.AddColorStop(0.5, p.Primary)
	grad.AddColorStop(1, p.Base)
	dc.SetFillStyle(grad)
	dc.DrawRectangle(0, 0, w, h)
	dc.Fill()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for i := 0; i < grainCount; i++ {
		x := float64(rand.IntN(s.canvas.Width))
		y := float64(rand.IntN(s.canvas.Height))
		dc.SetColor(withAlpha(p.Grain, rand.Float64()*grainMaxAlpha))
		dc.DrawRectangle(x, y, 1, 1)
		dc.Fill()
	}

	maxR := s.canvas.S(decorMaxRadius)
	dc.SetColor(withAlpha(p.Grain, decorCircleAlpha))
	for i := 0; i < decorCircles; i++ {
		dc.DrawCircle(rand.Float64()*w, rand.Float64()*h, rand.Float64()*maxR)
		dc.Fill()
	}

	if p.Luxury {
		dc.SetColor(withAlpha(p.Grain, luxuryArcAlpha))
		dc.SetLineWidth(s.canvas.S(luxuryArcWidth))
		for i := 0; i < decorCircles; i++ {
			start := rand.Float64() * 2 * math.Pi
			dc.DrawArc(rand.Float64()*w, rand.Float64()*h, maxR*(0.3+0.7*rand.Float64()), start, start+math.Pi*(0.5+rand.Float64()))
			dc.Stroke()
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	png, err := encodePNG(dc)
	if err != nil {
		return nil, err
	}
	logger.From(ctx).Debug().
		Str("campaign_type", campaignType).
		Int("bytes", len(png)).
		Msg("background synthesized")

	return &Background{img: dc.Image(), png: png}, nil
}
