package renderer

// Color represents an RGBA color with float components (0.0 to 1.0).
type Color struct {
	R, G, B, A float32
}

// Palette.
var (
	ColorSpace     = RGB(6, 8, 18)
	ColorNight     = RGB(8, 20, 48)
	ColorDay       = RGB(40, 120, 210)
	ColorTwilight  = RGB(200, 110, 60)
	ColorCloud     = RGBA(235, 240, 250, 150)
	ColorCountry   = RGBA(200, 220, 255, 160)
	ColorMarker    = RGB(255, 180, 40)
	ColorSelected  = RGB(255, 60, 60)
	ColorTether    = RGBA(255, 245, 180, 220)
	ColorPanelBg   = Color{0.08, 0.08, 0.12, 0.9}
	ColorBorder    = Color{0.5, 0.35, 0.8, 1}
	ColorDockBg    = Color{0.15, 0.15, 0.2, 0.85}
	ColorDockFocus = Color{0.2, 0.6, 0.9, 1}
)

// RGBA creates a color from 8-bit RGBA values (0-255).
func RGBA(r, g, b, a uint8) Color {
	return Color{
		R: float32(r) / 255.0,
		G: float32(g) / 255.0,
		B: float32(b) / 255.0,
		A: float32(a) / 255.0,
	}
}

// RGB creates a color from 8-bit RGB values with full alpha.
func RGB(r, g, b uint8) Color {
	return RGBA(r, g, b, 255)
}

// Lerp blends towards other by t in [0, 1].
func (c Color) Lerp(other Color, t float32) Color {
	return Color{
		R: c.R + (other.R-c.R)*t,
		G: c.G + (other.G-c.G)*t,
		B: c.B + (other.B-c.B)*t,
		A: c.A + (other.A-c.A)*t,
	}
}

// Darken returns a darker version of the color.
func (c Color) Darken(factor float32) Color {
	return Color{
		R: c.R * (1 - factor),
		G: c.G * (1 - factor),
		B: c.B * (1 - factor),
		A: c.A,
	}
}

// Bytes returns the 8-bit components.
func (c Color) Bytes() (r, g, b, a uint8) {
	return toByte(c.R), toByte(c.G), toByte(c.B), toByte(c.A)
}

func toByte(v float32) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 255
	default:
		return uint8(v*255 + 0.5)
	}
}
