package color565

import (
	"fmt"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

const (
	mask5 = 0x1f
	mask6 = 0x3f
)

// Color is a packed RGB565 pixel.
type Color uint16

// Common colors.
const (
	Black Color = 0x0000
	White Color = 0xffff
	Red   Color = 0xf800
	Green Color = 0x07e0
	Blue  Color = 0x001f
)

// Model converts any color to a Color.
var Model = color.ModelFunc(func(c color.Color) color.Color {
	if c565, ok := c.(Color); ok {
		return c565
	}
	r, g, b, _ := c.RGBA()
	return FromRGB888(uint8(r>>8), uint8(g>>8), uint8(b>>8))
})

// FromRGB888 packs 8-bit channels, dropping the low bits.
func FromRGB888(r, g, b uint8) Color {
	return Color(uint16(r>>3)<<11 | uint16(g>>2)<<5 | uint16(b>>3))
}

// FromHex parses "#rrggbb" (or a 0xRRGGBB integer written as a string).
func FromHex(s string) (Color, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return Black, fmt.Errorf("color565: %w", err)
	}
	r, g, b := c.RGB255()
	return FromRGB888(r, g, b), nil
}

// RGB returns the raw channel fields.
func (c Color) RGB() (r, g, b uint8) {
	return uint8(c>>11) & mask5, uint8(c>>5) & mask6, uint8(c) & mask5
}

// RGB888 expands the channels to 8 bits, replicating the high bits into
// the low ones so full scale maps to 255.
func (c Color) RGB888() (r, g, b uint8) {
	r5, g6, b5 := c.RGB()
	return r5<<3 | r5>>2, g6<<2 | g6>>4, b5<<3 | b5>>2
}

// RGBA implements color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	r8, g8, b8 := c.RGB888()
	r = uint32(r8) * 0x101
	g = uint32(g8) * 0x101
	b = uint32(b8) * 0x101
	return r, g, b, 0xffff
}

// Colorful converts to a go-colorful value for blending and metrics.
func (c Color) Colorful() colorful.Color {
	r5, g6, b5 := c.RGB()
	return colorful.Color{
		R: float64(r5) / mask5,
		G: float64(g6) / mask6,
		B: float64(b5) / mask5,
	}
}

// Hex formats the color as "#rrggbb".
func (c Color) Hex() string {
	r, g, b := c.RGB888()
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

// Luminance is the perceptual lightness (CIE L*) in [0,1].
func (c Color) Luminance() float64 {
	l, _, _ := c.Colorful().Lab()
	return l
}

// Blend mixes c toward other by t in [0,1] in Lab space.
func (c Color) Blend(other Color, t float64) Color {
	r, g, b := c.Colorful().BlendLab(other.Colorful(), t).Clamped().RGB255()
	return FromRGB888(r, g, b)
}
