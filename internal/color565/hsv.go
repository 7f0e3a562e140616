package color565

import "fmt"

// Packing selects how normalized channels are scaled and shifted.
type Packing int

const (
	// Packing565 scales red and blue to 0-31, green to 0-63, red at bit 11.
	Packing565 Packing = iota
	// PackingLegacy scales red and blue to 0-15, green to 0-31, red at bit 12.
	PackingLegacy
)

// HueCount is the number of entries in the hue table.
const HueCount = 360

func (p Packing) String() string {
	switch p {
	case PackingLegacy:
		return "legacy"
	default:
		return "565"
	}
}

// ParsePacking maps a config name to a Packing.
func ParsePacking(name string) (Packing, error) {
	switch name {
	case "", "565", "rgb565":
		return Packing565, nil
	case "legacy":
		return PackingLegacy, nil
	default:
		return Packing565, fmt.Errorf("color565: unknown packing %q", name)
	}
}

func (p Packing) pack(r, g, b float64) Color {
	if p == PackingLegacy {
		return Color(int(r*15)<<12 | int(g*31)<<5 | int(b*15))
	}
	return Color(int(r*31)<<11 | int(g*63)<<5 | int(b*31))
}

// HSV converts hue/saturation/value triples and caches the fully saturated
// hue wheel. The zero value is not usable; construct with NewHSV.
type HSV struct {
	packing Packing
	table   [HueCount]Color
}

// NewHSV builds the hue table for the given packing.
func NewHSV(p Packing) *HSV {
	h := &HSV{packing: p}
	for i := range h.table {
		h.table[i] = h.ToRGB565(float64(i), 1, 1)
	}
	return h
}

// Packing reports the packing used by this converter.
func (h *HSV) Packing() Packing { return h.packing }

// ToRGB565 converts hue in degrees and saturation/value in [0,1].
// Hues outside [0,360) fold to 0. Fractions are truncated.
func (h *HSV) ToRGB565(hue, s, v float64) Color {
	return convert(h.packing, hue, s, v)
}

// Lookup returns the fully saturated color for an integer hue.
func (h *HSV) Lookup(deg int) Color {
	deg %= HueCount
	if deg < 0 {
		deg += HueCount
	}
	return h.table[deg]
}

// ToRGB565 converts with the standard 5-6-5 packing.
func ToRGB565(hue, s, v float64) Color {
	return convert(Packing565, hue, s, v)
}

func convert(p Packing, hue, s, v float64) Color {
	if hue >= HueCount || hue < 0 {
		hue = 0
	}
	s = clamp01(s)
	v = clamp01(v)

	hh := hue / 60
	i := int(hh)
	f := hh - float64(i)
	pp := v * (1 - s)
	q := v * (1 - s*f)
	t := v * (1 - s*(1-f))

	var r, g, b float64
	switch i {
	case 0:
		r, g, b = v, t, pp
	case 1:
		r, g, b = q, v, pp
	case 2:
		r, g, b = pp, v, t
	case 3:
		r, g, b = pp, q, v
	case 4:
		r, g, b = t, pp, v
	default:
		r, g, b = v, pp, q
	}
	return p.pack(r, g, b)
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
