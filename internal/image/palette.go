package imagepkg

import "image/color"

// Palette drives the synthesized background for one campaign type.
type Palette struct {
	Primary   color.NRGBA // gradient midpoint
	Base      color.NRGBA // outer, darkest stop
	Highlight color.NRGBA // inner stop near the light source
	Grain     color.NRGBA // noise and decoration colour
	Luxury    bool        // dark variant with gold grain and stroked arcs
}

var (
	white = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	gold  = color.NRGBA{R: 0xd4, G: 0xaf, B: 0x37, A: 0xff}
)

var defaultPalette = Palette{
	Primary:   hex(0x3b82f6),
	Base:      hex(0x1e40af),
	Highlight: hex(0x60a5fa),
	Grain:     white,
}

var palettes = map[string]Palette{
	"Holiday Special": {Primary: hex(0xb91c1c), Base: hex(0x7c2d12), Highlight: hex(0xf59e0b), Grain: white},
	"Flash Sale":      {Primary: hex(0x7c3aed), Base: hex(0x4c1d95), Highlight: hex(0xc084fc), Grain: white},
	"Grand Opening":   {Primary: hex(0x059669), Base: hex(0x064e3b), Highlight: hex(0x34d399), Grain: white},
	"Bridal Package":  {Primary: hex(0x3f2a1d), Base: hex(0x1c1917), Highlight: hex(0x8c6a3f), Grain: gold, Luxury: true},
}

// PaletteFor returns the palette for a campaign type. Matching is exact and
// case-sensitive; unknown labels get the default blue palette.
func PaletteFor(campaignType string) Palette {
	if p, ok := palettes[campaignType]; ok {
		return p
	}
	return defaultPalette
}

func hex(v uint32) color.NRGBA {
	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}
}

func withAlpha(c color.NRGBA, a float64) color.NRGBA {
	c.A = uint8(a * 255)
	return c
}
